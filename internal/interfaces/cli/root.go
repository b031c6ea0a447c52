// Package cli exposes the forge command surface: the static host commands
// plus every command plugins registered for the current project.
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"forgebuild.dev/cli/internal/interfaces/di"
)

var (
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand builds the base command with all static and plugin-registered
// subcommands attached.
func NewRootCommand(container *di.Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "Forge - composable build pipeline",
		Long: `Forge is an extensible build pipeline for web projects. Plugins contribute
commands and configuration mutations; forge resolves all contributions, in a
deterministic order, into the configuration handed to the bundler.

Project-level overrides live in forge.config.lua next to your package.json.`,
		Version: container.HostVersion,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nPlatform: %s/%s\n",
		BuildTime, runtime.GOOS, runtime.GOARCH))

	rootCmd.AddCommand(NewPluginsCommand(container))
	rootCmd.AddCommand(NewInspectCommand(container))

	for _, registered := range container.Registry.Commands() {
		rootCmd.AddCommand(newRegisteredCommand(registered))
	}

	return rootCmd
}
