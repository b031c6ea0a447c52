package plugins

import (
	"fmt"

	"dario.cat/mergo"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
)

// Resolver derives the final configuration from the registry's accumulated
// mutation lists. Both entry points are pure functions of the lists at call
// time: resolving twice with the same registrations and base produces
// structurally equal output.
type Resolver struct {
	registry *Registry
	base     domain.RawConfig
	debug    bool
}

// NewResolver creates a resolver over the registry, seeded with the host's
// base configuration.
func NewResolver(registry *Registry, base domain.RawConfig, debug bool) *Resolver {
	return &Resolver{registry: registry, base: base, debug: debug}
}

// ResolveChainable applies every registered chain mutation, in registration
// order, to one shared builder. If seed is nil a builder is constructed from
// the host base configuration. There is no isolation between plugins: a later
// mutation sees and may further edit an earlier plugin's edits. The builder is
// returned for further chaining or conversion to raw form.
func (r *Resolver) ResolveChainable(seed *chain.Config) (*chain.Config, error) {
	cfg := seed
	if cfg == nil {
		var err error
		cfg, err = chain.FromMap(r.base)
		if err != nil {
			return nil, err
		}
	}

	mutations := r.registry.ChainMutations()
	if r.debug {
		fmt.Printf("[Resolver] Applying %d chain mutations\n", len(mutations))
	}
	for _, fn := range mutations {
		fn(cfg)
	}

	if err := cfg.Err(); err != nil {
		return nil, fmt.Errorf("chainable resolution failed: %w", err)
	}
	return cfg, nil
}

// ResolveRaw produces the final plain configuration object. If resolved is
// nil, chainable resolution runs first and its result becomes the starting
// accumulator. Raw contributions then apply in registration order: patches
// deep-merge into the accumulator with override semantics, functions mutate
// it in place or supply a replacement accumulator.
func (r *Resolver) ResolveRaw(resolved domain.RawConfig) (domain.RawConfig, error) {
	acc := resolved
	if acc == nil {
		cfg, err := r.ResolveChainable(nil)
		if err != nil {
			return nil, err
		}
		acc, err = cfg.ToMap()
		if err != nil {
			return nil, err
		}
	}

	contributions := r.registry.RawMutations()
	if r.debug {
		fmt.Printf("[Resolver] Applying %d raw contributions\n", len(contributions))
	}
	for i, c := range contributions {
		switch {
		case c.Patch != nil:
			if err := mergo.Merge(&acc, c.Patch, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("raw contribution %d merge failed: %w", i, err)
			}
		case c.Fn != nil:
			replacement, err := c.Fn(acc)
			if err != nil {
				return nil, fmt.Errorf("raw contribution %d failed: %w", i, err)
			}
			if replacement != nil {
				acc = replacement
			}
		}
	}

	return acc, nil
}

// ResolveDevServer applies every registered dev-server hook, in registration
// order, to the dev server's own configuration object. The dev config is a
// distinct object from the build configuration. A failing hook aborts
// resolution.
func (r *Resolver) ResolveDevServer(dev domain.RawConfig) (domain.RawConfig, error) {
	if dev == nil {
		dev = make(domain.RawConfig)
	}
	for i, hook := range r.registry.DevServerHooks() {
		if err := hook(dev); err != nil {
			return nil, fmt.Errorf("dev server hook %d failed: %w", i, err)
		}
	}
	return dev, nil
}
