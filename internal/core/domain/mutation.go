package domain

// RawConfig is the plain, bundler-facing configuration object. Contributions
// are merged into it after chainable resolution.
type RawConfig = map[string]interface{}

// RawMutation receives the raw configuration accumulator and either mutates it
// in place (returning nil) or returns a replacement object that becomes the
// accumulator for subsequent mutations. A returned error aborts resolution.
type RawMutation func(cfg RawConfig) (RawConfig, error)

// RawContribution is one entry in the ordered raw-mutation list: either a
// partial-configuration patch to deep-merge, or a mutation function. Exactly
// one field is set.
type RawContribution struct {
	Patch RawConfig
	Fn    RawMutation
}

// DevServerHook receives the dev server's own mutable configuration, a
// distinct object from the build configuration. Hooks are deferred until the
// dev-server config is resolved. A returned error aborts resolution.
type DevServerHook func(dev RawConfig) error
