package plugins

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
)

func TestResolver_ChainMutationOrderMatters(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddChainMutation(func(c *chain.Config) { c.Set("x", 1) })
	reg.AddChainMutation(func(c *chain.Config) { c.Set("x", 2) })

	resolver := NewResolver(reg, nil, false)
	cfg, err := resolver.ResolveChainable(nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), cfg.Get("x").Int())
}

func TestResolver_LaterPluginSeesEarlierEdits(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddChainMutation(func(c *chain.Config) { c.Set("define.__DEV__", true) })
	reg.AddChainMutation(func(c *chain.Config) {
		if c.Has("define.__DEV__") {
			c.Set("sourcemap", true)
		}
	})

	resolver := NewResolver(reg, nil, false)
	cfg, err := resolver.ResolveChainable(nil)
	require.NoError(t, err)

	assert.True(t, cfg.Get("sourcemap").Bool())
}

func TestResolver_RawPatchDeepMerge(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddRawMutation(domain.RawContribution{Patch: domain.RawConfig{
		"output": map[string]interface{}{"dir": "dist", "clean": true},
	}})
	reg.AddRawMutation(domain.RawContribution{Patch: domain.RawConfig{
		"output": map[string]interface{}{"dir": "public"},
	}})

	resolver := NewResolver(reg, domain.RawConfig{"entry": "src/main.js"}, false)
	resolved, err := resolver.ResolveRaw(nil)
	require.NoError(t, err)

	output, ok := resolved["output"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "public", output["dir"])
	assert.Equal(t, true, output["clean"])
	assert.Equal(t, "src/main.js", resolved["entry"])
}

func TestResolver_RawFunctionMutatesInPlace(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
		cfg["minify"] = true
		return nil, nil
	}})

	resolver := NewResolver(reg, domain.RawConfig{"entry": "a.js"}, false)
	resolved, err := resolver.ResolveRaw(nil)
	require.NoError(t, err)

	assert.Equal(t, true, resolved["minify"])
	assert.Equal(t, "a.js", resolved["entry"])
}

func TestResolver_RawFunctionReplacesAccumulator(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
		return domain.RawConfig{"replaced": true}, nil
	}})
	reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
		cfg["after"] = "seen"
		return nil, nil
	}})

	resolver := NewResolver(reg, domain.RawConfig{"entry": "a.js"}, false)
	resolved, err := resolver.ResolveRaw(nil)
	require.NoError(t, err)

	// The replacement becomes the accumulator for subsequent mutations
	assert.Equal(t, domain.RawConfig{"replaced": true, "after": "seen"}, resolved)
}

func TestResolver_RawResolutionStartsFromChainResult(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddChainMutation(func(c *chain.Config) { c.Set("target", "es2022") })
	reg.AddRawMutation(domain.RawContribution{Patch: domain.RawConfig{"minify": true}})

	resolver := NewResolver(reg, domain.RawConfig{"entry": "a.js"}, false)
	resolved, err := resolver.ResolveRaw(nil)
	require.NoError(t, err)

	assert.Equal(t, "es2022", resolved["target"])
	assert.Equal(t, true, resolved["minify"])
	assert.Equal(t, "a.js", resolved["entry"])
}

func TestResolver_SuppliedBaseSkipsChainPass(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddChainMutation(func(c *chain.Config) { c.Set("fromChain", true) })
	reg.AddRawMutation(domain.RawContribution{Patch: domain.RawConfig{"fromRaw": true}})

	resolver := NewResolver(reg, nil, false)
	resolved, err := resolver.ResolveRaw(domain.RawConfig{"supplied": true})
	require.NoError(t, err)

	assert.Equal(t, true, resolved["supplied"])
	assert.Equal(t, true, resolved["fromRaw"])
	assert.NotContains(t, resolved, "fromChain")
}

func TestResolver_DevServerHooksRunInOrder(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddDevServerHook(func(dev domain.RawConfig) error { dev["port"] = 8080; return nil })
	reg.AddDevServerHook(func(dev domain.RawConfig) error { dev["port"] = 3000; return nil })

	resolver := NewResolver(reg, nil, false)
	dev, err := resolver.ResolveDevServer(nil)
	require.NoError(t, err)

	assert.Equal(t, 3000, dev["port"])
}

func TestResolver_RawFunctionErrorAbortsResolution(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
		return nil, fmt.Errorf("bad plugin state")
	}})
	reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
		t.Fatal("mutation after a failure must not run")
		return nil, nil
	}})

	resolver := NewResolver(reg, domain.RawConfig{"entry": "a.js"}, false)
	_, err := resolver.ResolveRaw(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad plugin state")
}

func TestResolver_DevServerHookErrorAbortsResolution(t *testing.T) {
	reg := NewRegistry(false)
	reg.AddDevServerHook(func(dev domain.RawConfig) error { return fmt.Errorf("hook exploded") })

	resolver := NewResolver(reg, nil, false)
	_, err := resolver.ResolveDevServer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook exploded")
}

// Raw resolution is a pure function of the registration list and base: two
// independent calls produce structurally equal output.
func TestResolver_RawResolutionIsDeterministic(t *testing.T) {
	keyGen := rapid.StringMatching(`[a-z]{1,6}`)
	valueGen := rapid.OneOf(
		rapid.StringMatching(`[a-z0-9]{0,8}`).AsAny(),
		rapid.IntRange(-1000, 1000).AsAny(),
		rapid.Bool().AsAny(),
	)

	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry(false)

		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			key := keyGen.Draw(t, fmt.Sprintf("key%d", i))
			value := valueGen.Draw(t, fmt.Sprintf("value%d", i))

			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("kind%d", i)) {
			case 0:
				reg.AddChainMutation(func(c *chain.Config) { c.Set(key, value) })
			case 1:
				reg.AddRawMutation(domain.RawContribution{Patch: domain.RawConfig{key: value}})
			default:
				reg.AddRawMutation(domain.RawContribution{Fn: func(cfg domain.RawConfig) (domain.RawConfig, error) {
					cfg[key] = value
					return nil, nil
				}})
			}
		}

		resolver := NewResolver(reg, domain.RawConfig{"entry": "src/main.js"}, false)
		first, err := resolver.ResolveRaw(nil)
		if err != nil {
			t.Fatalf("first resolution failed: %v", err)
		}
		second, err := resolver.ResolveRaw(nil)
		if err != nil {
			t.Fatalf("second resolution failed: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("resolution not deterministic:\nfirst:  %#v\nsecond: %#v", first, second)
		}
	})
}
