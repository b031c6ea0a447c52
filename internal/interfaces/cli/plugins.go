package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"forgebuild.dev/cli/internal/interfaces/di"
	"forgebuild.dev/cli/internal/plugins"
)

var (
	pluginNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	pluginMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
)

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand(container *di.Container) *cobra.Command {
	var browse bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins registered in this project",
		Long: `List every plugin registered for the current build session, in the order
they were applied, together with the commands each one contributed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if browse {
				return runPluginBrowser(container)
			}
			printPlugins(container)
			return nil
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "Browse plugins interactively")

	return cmd
}

// printPlugins renders the static plugin listing.
func printPlugins(container *di.Container) {
	descriptors := container.Registry.Plugins()
	if len(descriptors) == 0 {
		fmt.Println("No plugins registered.")
		return
	}

	fmt.Println(headerStyle.Render("Registered plugins"))
	for _, desc := range descriptors {
		line := pluginNameStyle.Render(desc.Name)
		meta := []string{}
		if desc.Version != "" {
			meta = append(meta, "v"+desc.Version)
		}
		if short := plugins.ShortID(desc.Name); short != desc.Name {
			meta = append(meta, "alias: "+short)
		}
		if cmds := commandsOf(container, desc.Name); len(cmds) > 0 {
			meta = append(meta, "commands: "+strings.Join(cmds, ", "))
		}
		if len(meta) > 0 {
			line += " " + pluginMetaStyle.Render("("+strings.Join(meta, ", ")+")")
		}
		fmt.Println("  " + line)
	}
}

// commandsOf returns the names of the commands a plugin currently owns. A
// command overridden by a later plugin is reported under the overriding
// plugin only.
func commandsOf(container *di.Container, pluginID string) []string {
	var names []string
	for _, cmd := range container.Registry.Commands() {
		if cmd.PluginID == pluginID {
			names = append(names, cmd.Name)
		}
	}
	return names
}
