// Package di wires one build session: options, metadata, the capability
// registry, the resolver, the cache fingerprinter, and the plugin manager.
// Containers are scoped per session and never reused.
package di

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dario.cat/mergo"

	"forgebuild.dev/cli/internal/bundler"
	"forgebuild.dev/cli/internal/cache"
	"forgebuild.dev/cli/internal/config"
	"forgebuild.dev/cli/internal/core/ports"
	"forgebuild.dev/cli/internal/luaconf"
	"forgebuild.dev/cli/internal/metadata"
	"forgebuild.dev/cli/internal/plugins"
	"forgebuild.dev/cli/internal/plugins/builtin"
)

// Container holds the dependencies of one build session.
type Container struct {
	HostVersion string
	Options     config.Options
	Project     *luaconf.File

	Metadata      ports.MetadataLoader
	Registry      *plugins.Registry
	Resolver      *plugins.Resolver
	Fingerprinter *cache.Fingerprinter
	Manager       *plugins.Manager

	Logger *log.Logger
}

// NewContainer creates and initializes a build session rooted at projectRoot.
// Built-in plugins apply first, then any extra plugins, then the project
// config file's hooks.
func NewContainer(projectRoot, hostVersion string, extra ...plugins.Plugin) (*Container, error) {
	c := &Container{
		HostVersion: hostVersion,
		Logger:      log.New(os.Stderr, "[forge] ", log.LstdFlags),
	}

	opts, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load project options: %w", err)
	}
	c.Options = opts

	project, err := luaconf.Load(filepath.Join(projectRoot, luaconf.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	c.Project = project

	// Options declared in forge.config.lua override the base config seed.
	if project != nil && len(project.Options) > 0 {
		if err := mergo.Merge(&opts.BaseConfig, project.Options, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge project options: %w", err)
		}
	}

	c.Metadata = metadata.NewLoader(projectRoot, opts.Debug)
	c.Registry = plugins.NewRegistry(opts.Debug)
	c.Resolver = plugins.NewResolver(c.Registry, opts.BaseConfig, opts.Debug)
	c.Fingerprinter = cache.NewFingerprinter(projectRoot, hostVersion, opts.Mode, opts.TestMode, c.Metadata, project.HookSources, opts.Debug)
	c.Manager = plugins.NewManager(c.Registry, c.Resolver, c.Fingerprinter, hostVersion, c.Logger, opts.Debug)

	c.Manager.Use(builtin.NewBuildPlugin(bundler.NewExecBundler(projectRoot, opts.Debug), opts.Mode))
	c.Manager.Use(builtin.NewServePlugin(bundler.NewExecDevServer(projectRoot, opts.Debug)))
	for _, p := range extra {
		c.Manager.Use(p)
	}
	c.Manager.UseProject(project)

	if err := c.Manager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize plugins: %w", err)
	}

	return c, nil
}

// Close releases session resources.
func (c *Container) Close() {
	c.Project.Close()
}
