package plugins

import (
	"fmt"
	"log"

	"forgebuild.dev/cli/internal/cache"
	"forgebuild.dev/cli/internal/core/domain"
	"forgebuild.dev/cli/internal/luaconf"
)

// Plugin is one independently authored contributor to the build pipeline. Its
// Apply method receives an API handle scoped to the plugin's identity and the
// current build session.
type Plugin interface {
	// Descriptor returns the plugin's identity and host requirement
	Descriptor() domain.PluginDescriptor

	// Apply registers the plugin's commands and config mutations
	Apply(api *API) error
}

// Manager owns one build session: it applies plugins in order, hands each a
// scoped API handle, and appends the project config file's user hooks after
// all plugin contributions so user edits override plugin edits.
type Manager struct {
	registry      *Registry
	resolver      *Resolver
	fingerprinter *cache.Fingerprinter
	hostVersion   string
	logger        *log.Logger
	debug         bool

	plugins     []Plugin
	project     *luaconf.File
	initialized bool
}

// NewManager creates a manager for one build session.
func NewManager(registry *Registry, resolver *Resolver, fingerprinter *cache.Fingerprinter, hostVersion string, logger *log.Logger, debug bool) *Manager {
	return &Manager{
		registry:      registry,
		resolver:      resolver,
		fingerprinter: fingerprinter,
		hostVersion:   hostVersion,
		logger:        logger,
		debug:         debug,
	}
}

// Use adds a plugin to the session. Plugins apply in Use order.
func (m *Manager) Use(p Plugin) {
	m.plugins = append(m.plugins, p)
}

// UseProject attaches the loaded project config file; its hooks are appended
// after every plugin's contributions during Init. f may be nil.
func (m *Manager) UseProject(f *luaconf.File) {
	m.project = f
}

// Init validates and applies every plugin, then appends the project's user
// hooks. Plugin identities are registered before any plugin applies, so
// HasPlugin sees all session plugins regardless of initialization order. A
// version or range error aborts initialization.
func (m *Manager) Init() error {
	if m.initialized {
		return fmt.Errorf("build session already initialized")
	}

	for _, p := range m.plugins {
		desc := p.Descriptor()
		if desc.Requires != nil {
			if err := AssertVersion(desc.Name, m.hostVersion, desc.Requires); err != nil {
				return err
			}
		}
		m.registry.RegisterPlugin(desc)
	}

	for _, p := range m.plugins {
		desc := p.Descriptor()
		api := NewAPI(desc.Name, m.hostVersion, m.registry, m.resolver, m.fingerprinter)
		if err := p.Apply(api); err != nil {
			return fmt.Errorf("plugin %s failed to initialize: %w", desc.Name, err)
		}
		if m.debug {
			m.logger.Printf("applied plugin %s", desc.Name)
		}
	}

	// User hooks register last so they can override any plugin edit.
	if fn := m.project.ChainMutation(); fn != nil {
		m.registry.AddChainMutation(fn)
	}
	if fn := m.project.RawMutation(); fn != nil {
		m.registry.AddRawMutation(domain.RawContribution{Fn: fn})
	}
	if fn := m.project.DevServerMutation(); fn != nil {
		m.registry.AddDevServerHook(fn)
	}

	m.initialized = true
	return nil
}

// Registry returns the session's capability registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Resolver returns the session's config resolver.
func (m *Manager) Resolver() *Resolver {
	return m.resolver
}

// Fingerprinter returns the session's cache fingerprint generator.
func (m *Manager) Fingerprinter() *cache.Fingerprinter {
	return m.fingerprinter
}
