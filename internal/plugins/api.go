// Package plugins implements the composition layer of the build pipeline:
// per-plugin API handles, the capability registry they write into, the
// resolver that folds all contributions into one configuration, and the
// version guard plugins use to declare host compatibility.
package plugins

import (
	"forgebuild.dev/cli/internal/cache"
	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
)

// API is the handle a plugin receives during initialization. It is scoped to
// the plugin's own identity and to one build session; plugins must not retain
// it across sessions. All registration methods are append-only and defer
// execution until the host resolves the configuration.
type API struct {
	id            string
	hostVersion   string
	registry      *Registry
	resolver      *Resolver
	fingerprinter *cache.Fingerprinter
}

// NewAPI creates an API handle for the plugin with the given canonical id.
func NewAPI(id, hostVersion string, registry *Registry, resolver *Resolver, fingerprinter *cache.Fingerprinter) *API {
	return &API{
		id:            id,
		hostVersion:   hostVersion,
		registry:      registry,
		resolver:      resolver,
		fingerprinter: fingerprinter,
	}
}

// ID returns the plugin's canonical id.
func (a *API) ID() string {
	return a.id
}

// Version returns the host's own released version string.
func (a *API) Version() string {
	return a.hostVersion
}

// AssertVersion enforces a host version requirement: an integer major version
// (normalized to ">=N.0.0-0 <N+1.0.0-0") or a semver range string, checked with
// pre-release-inclusive comparison. A returned error must abort the plugin's
// initialization.
func (a *API) AssertVersion(required interface{}) error {
	return AssertVersion(a.id, a.hostVersion, required)
}

// HasPlugin reports whether a sibling plugin is registered, matching id under
// alias normalization.
func (a *API) HasPlugin(id string) bool {
	return a.registry.HasPlugin(id)
}

// RequirePlugin returns a MissingPluginError when no registered plugin
// matches id. Plugins that cannot function without a sibling call this
// instead of branching on HasPlugin.
func (a *API) RequirePlugin(id string) error {
	if !a.registry.HasPlugin(id) {
		return &domain.MissingPluginError{ID: id}
	}
	return nil
}

// RegisterCommand registers a named CLI command. Names are global across
// plugins; the last registration for a name wins.
func (a *API) RegisterCommand(name string, opts domain.CommandOptions, handler domain.CommandHandler) {
	a.registry.RegisterCommand(a.id, name, opts, handler)
}

// ChainConfig appends a chain-style mutation of the build configuration,
// invoked lazily at resolution in registration order.
func (a *API) ChainConfig(fn chain.Mutation) {
	a.registry.AddChainMutation(fn)
}

// ConfigureBuild appends a function over the raw configuration accumulator.
// The function may edit the accumulator in place or return a replacement.
func (a *API) ConfigureBuild(fn domain.RawMutation) {
	a.registry.AddRawMutation(domain.RawContribution{Fn: fn})
}

// MergeBuildConfig appends a partial configuration object to deep-merge into
// the raw accumulator.
func (a *API) MergeBuildConfig(patch domain.RawConfig) {
	a.registry.AddRawMutation(domain.RawContribution{Patch: patch})
}

// ConfigureDevServer appends a hook over the dev server's own configuration.
func (a *API) ConfigureDevServer(fn domain.DevServerHook) {
	a.registry.AddDevServerHook(fn)
}

// ResolveChainableConfig runs chainable resolution over all contributions
// accumulated so far and returns the shared builder.
func (a *API) ResolveChainableConfig() (*chain.Config, error) {
	return a.resolver.ResolveChainable(nil)
}

// ResolveConfig runs full raw resolution and returns the final plain
// configuration object.
func (a *API) ResolveConfig() (domain.RawConfig, error) {
	return a.resolver.ResolveRaw(nil)
}

// ResolveDevServerConfig applies all registered dev-server hooks to dev and
// returns it.
func (a *API) ResolveDevServerConfig(dev domain.RawConfig) (domain.RawConfig, error) {
	return a.resolver.ResolveDevServer(dev)
}

// CacheConfig computes the cache directory and stable cache identifier for
// id, mixing the partial identifier with the merged-configuration fingerprint
// and the listed extra config files.
func (a *API) CacheConfig(id string, partial interface{}, extraFiles ...string) (cache.Key, error) {
	return a.fingerprinter.Compute(id, partial, extraFiles...)
}
