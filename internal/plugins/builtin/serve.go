package builtin

import (
	"context"
	"fmt"
	"strconv"

	"forgebuild.dev/cli/internal/chain"
	"forgebuild.dev/cli/internal/core/domain"
	"forgebuild.dev/cli/internal/core/ports"
	"forgebuild.dev/cli/internal/plugins"
)

// ServePlugin contributes the serve command and the dev-server defaults.
type ServePlugin struct {
	server ports.DevServer
}

// NewServePlugin creates the serve plugin.
func NewServePlugin(server ports.DevServer) *ServePlugin {
	return &ServePlugin{server: server}
}

// Descriptor returns the plugin identity.
func (p *ServePlugin) Descriptor() domain.PluginDescriptor {
	return domain.PluginDescriptor{
		Name:     "@forge/plugin-serve",
		Version:  "1.0.0",
		Requires: "^1.0.0",
	}
}

// Apply registers the serve command, dev-server defaults, and a development
// chain mutation. The error overlay is only enabled when the build plugin is
// present, since the overlay renders build diagnostics.
func (p *ServePlugin) Apply(api *plugins.API) error {
	if err := api.AssertVersion("^1.0.0"); err != nil {
		return err
	}

	api.ConfigureDevServer(func(dev domain.RawConfig) error {
		if _, ok := dev["host"]; !ok {
			dev["host"] = "localhost"
		}
		if _, ok := dev["port"]; !ok {
			dev["port"] = 8080
		}
		return nil
	})

	api.ChainConfig(func(c *chain.Config) {
		c.Set("watch", true)
		if api.HasPlugin("build") {
			c.Set("devServer.overlay", true)
		}
	})

	api.RegisterCommand("serve", domain.CommandOptions{
		Description: "Start the development server",
		Usage:       "forge serve [options]",
		Options: map[string]string{
			"--host": "host to bind (default: localhost)",
			"--port": "port to bind (default: 8080)",
			"--open": "open the browser after start",
		},
	}, func(args domain.ParsedArgs, rawArgv []string) error {
		return p.runServe(api, args)
	})

	return nil
}

func (p *ServePlugin) runServe(api *plugins.API, args domain.ParsedArgs) error {
	dev, err := api.ResolveDevServerConfig(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve dev server config: %w", err)
	}

	if host := args.Flag("host", ""); host != "" {
		dev["host"] = host
	}
	if port := args.Flag("port", ""); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid --port value %q: %w", port, err)
		}
		dev["port"] = n
	}
	if args.Bool("open") {
		dev["open"] = true
	}

	cfg, err := api.ResolveConfig()
	if err != nil {
		return fmt.Errorf("failed to resolve build config: %w", err)
	}
	dev["build"] = cfg

	return p.server.Serve(context.Background(), dev)
}
