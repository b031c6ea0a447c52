// Package builtin ships the plugins every forge session starts with: the
// build and serve commands. They use the same API surface as third-party
// plugins.
package builtin

import (
	"context"
	"fmt"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
	"forgebuild.dev/cli/internal/core/ports"
	"forgebuild.dev/cli/internal/plugins"
)

// BuildPlugin contributes the build command and the base production config
// mutations, and hands the resolved configuration to the bundler.
type BuildPlugin struct {
	bundler ports.Bundler
	mode    string
}

// NewBuildPlugin creates the build plugin.
func NewBuildPlugin(bundler ports.Bundler, mode string) *BuildPlugin {
	return &BuildPlugin{bundler: bundler, mode: mode}
}

// Descriptor returns the plugin identity.
func (p *BuildPlugin) Descriptor() domain.PluginDescriptor {
	return domain.PluginDescriptor{
		Name:     "@forge/plugin-build",
		Version:  "1.0.0",
		Requires: 1,
	}
}

// Apply registers the build command and base config mutations.
func (p *BuildPlugin) Apply(api *plugins.API) error {
	if err := api.AssertVersion(1); err != nil {
		return err
	}

	api.ChainConfig(func(c *chain.Config) {
		c.Set("mode", p.mode).
			Set("define.__MODE__", p.mode).
			Set("sourcemap", p.mode != "production")
	})

	api.MergeBuildConfig(domain.RawConfig{
		"logLevel": "info",
	})

	api.RegisterCommand("build", domain.CommandOptions{
		Description: "Bundle the project for deployment",
		Usage:       "forge build [options]",
		Options: map[string]string{
			"--dest":   "output directory (overrides config outDir)",
			"--minify": "minify the output",
			"--watch":  "rebuild on file change",
		},
	}, func(args domain.ParsedArgs, rawArgv []string) error {
		return p.runBuild(api, args)
	})

	return nil
}

// runBuild resolves the final configuration and invokes the bundler. The
// cache key lets repeated builds with an unchanged configuration reuse the
// previous output directory.
func (p *BuildPlugin) runBuild(api *plugins.API, args domain.ParsedArgs) error {
	cfg, err := api.ResolveConfig()
	if err != nil {
		return fmt.Errorf("failed to resolve build config: %w", err)
	}

	if dest := args.Flag("dest", ""); dest != "" {
		cfg["outDir"] = dest
	}
	if args.Bool("minify") {
		cfg["minify"] = true
	}

	key, err := api.CacheConfig("build", map[string]interface{}{
		"minify": args.Bool("minify"),
		"dest":   args.Flag("dest", ""),
	}, "esbuild.config.json")
	if err != nil {
		return fmt.Errorf("failed to compute build cache key: %w", err)
	}
	cfg["cacheDir"] = key.Directory
	cfg["cacheIdentifier"] = key.Identifier

	result, err := p.bundler.Build(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Build complete: %d assets written to %s\n", len(result.Assets), result.OutputDir)
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return nil
}
