package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"forgebuild.dev/cli/internal/interfaces/di"
)

// NewInspectCommand creates the inspect command, which prints the fully
// resolved configuration without running a build.
func NewInspectCommand(container *di.Container) *cobra.Command {
	var (
		path      string
		devServer bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the resolved build configuration",
		Long: `Resolve every registered configuration mutation, in registration order, and
print the final configuration object. Useful for understanding what plugins
and forge.config.lua contribute without running a build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if devServer {
				dev, err := container.Resolver.ResolveDevServer(nil)
				if err != nil {
					return fmt.Errorf("failed to resolve dev server config: %w", err)
				}
				return printJSON(dev)
			}

			if path != "" {
				chained, err := container.Resolver.ResolveChainable(nil)
				if err != nil {
					return fmt.Errorf("failed to resolve config: %w", err)
				}
				result := chained.Get(path)
				if !result.Exists() {
					return fmt.Errorf("no value at path %q", path)
				}
				fmt.Println(result.Raw)
				return nil
			}

			resolved, err := container.Resolver.ResolveRaw(nil)
			if err != nil {
				return fmt.Errorf("failed to resolve config: %w", err)
			}
			return printJSON(resolved)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Print only the value at a config path (e.g. output.dir)")
	cmd.Flags().BoolVar(&devServer, "dev-server", false, "Print the resolved dev-server configuration instead")

	return cmd
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
