// Package luaconf loads the project's forge.config.lua: project options plus
// the user-facing configuration hooks (chain_build, configure_build,
// configure_dev_server). Hook functions execute against the shared
// configuration at resolution time, and their source text feeds the cache
// fingerprint.
package luaconf

import (
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
)

// FileName is the conventional project config file name.
const FileName = "forge.config.lua"

// Hook names exposed to the fingerprint generator.
const (
	ChainHookName     = "chain_build"
	ConfigureHookName = "configure_build"
	DevServerHookName = "configure_dev_server"
)

// Hook is one user-supplied configuration function together with the source
// text it was defined with.
type Hook struct {
	fn *lua.LFunction

	// Source is the function's defining lines from the config file
	Source string
}

// File is a loaded project config. The embedded Lua state is not
// goroutine-safe; all hook execution happens on the single build thread.
type File struct {
	state *lua.LState

	// Options is the plain options table declared by the config file
	Options domain.RawConfig

	Chain     *Hook
	Configure *Hook
	DevServer *Hook
}

// Load parses and executes the config file at path. A missing file is not an
// error: Load returns a nil File so the host can proceed without project
// config.
func Load(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := L.DoString(string(source)); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to evaluate %s: %w", path, err)
	}

	f := &File{state: L, Options: make(domain.RawConfig)}

	if opts, ok := L.GetGlobal("options").(*lua.LTable); ok {
		if m, ok := toGoValue(opts).(map[string]interface{}); ok {
			f.Options = m
		}
	}

	lines := strings.Split(string(source), "\n")
	f.Chain = extractHook(L, ChainHookName, lines)
	f.Configure = extractHook(L, ConfigureHookName, lines)
	f.DevServer = extractHook(L, DevServerHookName, lines)

	return f, nil
}

// Close releases the Lua state.
func (f *File) Close() {
	if f != nil && f.state != nil {
		f.state.Close()
	}
}

// extractHook looks up a global hook function and slices its defining lines
// out of the config source.
func extractHook(L *lua.LState, name string, lines []string) *Hook {
	fn, ok := L.GetGlobal(name).(*lua.LFunction)
	if !ok || fn.IsG {
		return nil
	}

	source := ""
	if proto := fn.Proto; proto != nil {
		start, end := proto.LineDefined, proto.LastLineDefined
		if start >= 1 && end >= start && end <= len(lines) {
			source = strings.Join(lines[start-1:end], "\n")
		}
	}
	return &Hook{fn: fn, Source: source}
}

// HookSources returns the source text of the fingerprinted hooks, keyed by
// hook name. Absent hooks are omitted.
func (f *File) HookSources() map[string]string {
	sources := make(map[string]string)
	if f == nil {
		return sources
	}
	if f.Chain != nil {
		sources[ChainHookName] = f.Chain.Source
	}
	if f.Configure != nil {
		sources[ConfigureHookName] = f.Configure.Source
	}
	return sources
}

// ChainMutation adapts the chain_build hook into a chain mutation. The hook
// receives a binding table with set/get/has/delete/append functions operating
// on the shared builder. Returns nil when the hook is absent.
func (f *File) ChainMutation() chain.Mutation {
	if f == nil || f.Chain == nil {
		return nil
	}
	return func(c *chain.Config) {
		binding := f.chainBinding(c)
		if err := f.state.CallByParam(lua.P{Fn: f.Chain.fn, NRet: 0, Protect: true}, binding); err != nil {
			c.Fail(fmt.Errorf("%s hook failed: %w", ChainHookName, err))
		}
	}
}

// chainBinding builds the Lua-facing view of the chainable builder.
func (f *File) chainBinding(c *chain.Config) *lua.LTable {
	L := f.state
	t := L.NewTable()
	t.RawSetString("set", L.NewFunction(func(L *lua.LState) int {
		c.Set(L.CheckString(1), toGoValue(L.Get(2)))
		return 0
	}))
	t.RawSetString("append", L.NewFunction(func(L *lua.LState) int {
		c.Append(L.CheckString(1), toGoValue(L.Get(2)))
		return 0
	}))
	t.RawSetString("delete", L.NewFunction(func(L *lua.LState) int {
		c.Delete(L.CheckString(1))
		return 0
	}))
	t.RawSetString("has", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(c.Has(L.CheckString(1))))
		return 1
	}))
	t.RawSetString("get", L.NewFunction(func(L *lua.LState) int {
		L.Push(toLValue(L, c.Get(L.CheckString(1)).Value()))
		return 1
	}))
	return t
}

// RawMutation adapts the configure_build hook into a raw mutation. The
// accumulator crosses the Lua boundary as a table copy, so the hook's edits
// (or its returned replacement table) always come back as a replacement
// object. A raised Lua error aborts resolution. Returns nil when the hook is
// absent.
func (f *File) RawMutation() domain.RawMutation {
	if f == nil || f.Configure == nil {
		return nil
	}
	return func(cfg domain.RawConfig) (domain.RawConfig, error) {
		table := toLValue(f.state, map[string]interface{}(cfg))
		if err := f.state.CallByParam(lua.P{Fn: f.Configure.fn, NRet: 1, Protect: true}, table); err != nil {
			return nil, fmt.Errorf("%s hook failed: %w", ConfigureHookName, err)
		}
		ret := f.state.Get(-1)
		f.state.Pop(1)

		if rt, ok := ret.(*lua.LTable); ok {
			if m, ok := toGoValue(rt).(map[string]interface{}); ok {
				return m, nil
			}
		}
		if m, ok := toGoValue(table).(map[string]interface{}); ok {
			return m, nil
		}
		return nil, nil
	}
}

// DevServerMutation adapts the configure_dev_server hook into a dev-server
// hook, copying the hook's table edits back into the dev config object. A
// raised Lua error aborts resolution. Returns nil when the hook is absent.
func (f *File) DevServerMutation() domain.DevServerHook {
	if f == nil || f.DevServer == nil {
		return nil
	}
	return func(dev domain.RawConfig) error {
		table := toLValue(f.state, map[string]interface{}(dev))
		if err := f.state.CallByParam(lua.P{Fn: f.DevServer.fn, NRet: 0, Protect: true}, table); err != nil {
			return fmt.Errorf("%s hook failed: %w", DevServerHookName, err)
		}
		back, ok := toGoValue(table).(map[string]interface{})
		if !ok {
			return nil
		}
		for k := range dev {
			delete(dev, k)
		}
		for k, v := range back {
			dev[k] = v
		}
		return nil
	}
}
