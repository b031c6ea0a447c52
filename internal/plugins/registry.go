package plugins

import (
	"fmt"
	"sort"
	"sync"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
)

// Registry accumulates every capability contributed during one build session:
// named CLI commands, chain-style config mutations, raw config contributions,
// and dev-server hooks. Mutation entries are append-only ordered lists;
// nothing executes until a resolver explicitly requests resolution, so
// registration order alone determines the final configuration.
//
// Registration happens strictly before resolution on one control thread; the
// mutex only guards against defensive concurrent reads.
type Registry struct {
	mu    sync.RWMutex
	debug bool

	plugins  []domain.PluginDescriptor
	commands map[string]*domain.Command

	chainMutations []chain.Mutation
	rawMutations   []domain.RawContribution
	devServerHooks []domain.DevServerHook
}

// NewRegistry creates an empty capability registry for one build session.
func NewRegistry(debug bool) *Registry {
	return &Registry{
		debug:    debug,
		commands: make(map[string]*domain.Command),
	}
}

// RegisterPlugin records a plugin identity in initialization order.
func (r *Registry) RegisterPlugin(desc domain.PluginDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.debug {
		fmt.Printf("[Registry] Registering plugin: %s\n", desc.Name)
	}
	r.plugins = append(r.plugins, desc)
}

// Plugins returns the registered plugin descriptors in registration order.
func (r *Registry) Plugins() []domain.PluginDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PluginDescriptor, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// HasPlugin reports whether any registered plugin's canonical id matches id
// under alias normalization. This is a capability-detection mechanism for
// plugins to branch on the presence of siblings, not dependency injection.
func (r *Registry) HasPlugin(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, desc := range r.plugins {
		if MatchesPluginID(id, desc.Name) {
			return true
		}
	}
	return false
}

// RegisterCommand inserts or overwrites the command keyed by name. Collisions
// are not an error: the last registration wins, by documented policy, and no
// warning is emitted.
func (r *Registry) RegisterCommand(pluginID, name string, opts domain.CommandOptions, handler domain.CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.debug {
		if prev, ok := r.commands[name]; ok {
			fmt.Printf("[Registry] Command %q from %s overridden by %s\n", name, prev.PluginID, pluginID)
		}
	}
	r.commands[name] = &domain.Command{
		Name:     name,
		PluginID: pluginID,
		Opts:     opts,
		Handler:  handler,
	}
}

// Command returns the registered command with the given name.
func (r *Registry) Command(name string) (*domain.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*domain.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddChainMutation appends a chain-style config mutation. The function is
// invoked lazily, only when the configuration is resolved.
func (r *Registry) AddChainMutation(fn chain.Mutation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chainMutations = append(r.chainMutations, fn)
}

// AddRawMutation appends a raw contribution: a partial config to deep-merge or
// a function over the raw accumulator.
func (r *Registry) AddRawMutation(c domain.RawContribution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawMutations = append(r.rawMutations, c)
}

// AddDevServerHook appends a dev-server configuration hook.
func (r *Registry) AddDevServerHook(fn domain.DevServerHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devServerHooks = append(r.devServerHooks, fn)
}

// ChainMutations returns the ordered chain-mutation list.
func (r *Registry) ChainMutations() []chain.Mutation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chain.Mutation, len(r.chainMutations))
	copy(out, r.chainMutations)
	return out
}

// RawMutations returns the ordered raw-contribution list.
func (r *Registry) RawMutations() []domain.RawContribution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RawContribution, len(r.rawMutations))
	copy(out, r.rawMutations)
	return out
}

// DevServerHooks returns the ordered dev-server hook list.
func (r *Registry) DevServerHooks() []domain.DevServerHook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DevServerHook, len(r.devServerHooks))
	copy(out, r.devServerHooks)
	return out
}
