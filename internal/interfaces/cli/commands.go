package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"forgebuild.dev/cli/internal/core/domain"
)

// newRegisteredCommand bridges a plugin-registered command into cobra. Flag
// parsing is disabled so the handler receives the raw argv exactly as typed,
// alongside the host-parsed form.
func newRegisteredCommand(cmd *domain.Command) *cobra.Command {
	return &cobra.Command{
		Use:                cmd.Name,
		Short:              cmd.Opts.Description,
		Long:               longHelp(cmd),
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			parsed := ParseArgs(args)
			if parsed.Bool("help") || parsed.Bool("h") {
				fmt.Println(longHelp(cmd))
				return nil
			}
			return cmd.Handler(parsed, args)
		},
	}
}

// longHelp renders the command's options descriptor.
func longHelp(cmd *domain.Command) string {
	var b strings.Builder
	b.WriteString(cmd.Opts.Description)
	if cmd.Opts.Usage != "" {
		b.WriteString("\n\nUsage: " + cmd.Opts.Usage)
	}
	if len(cmd.Opts.Options) > 0 {
		b.WriteString("\n\nOptions:\n")
		names := make([]string, 0, len(cmd.Opts.Options))
		for name := range cmd.Opts.Options {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %-14s %s\n", name, cmd.Opts.Options[name]))
		}
	}
	return b.String()
}

// ParseArgs parses a registered command's argv into flags and positionals.
// Supported forms: --flag=value, --flag value, and bare --flag / -f booleans
// (recorded as "true"). Everything else is positional.
func ParseArgs(args []string) domain.ParsedArgs {
	parsed := domain.ParsedArgs{Flags: make(map[string]string)}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "--") {
			name := strings.TrimPrefix(arg, "--")
			if name == "" {
				// "--" separator: the rest is positional
				parsed.Positionals = append(parsed.Positionals, args[i+1:]...)
				break
			}
			if eq := strings.Index(name, "="); eq >= 0 {
				parsed.Flags[name[:eq]] = name[eq+1:]
				continue
			}
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				parsed.Flags[name] = args[i+1]
				i++
				continue
			}
			parsed.Flags[name] = "true"
			continue
		}

		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			parsed.Flags[strings.TrimPrefix(arg, "-")] = "true"
			continue
		}

		parsed.Positionals = append(parsed.Positionals, arg)
	}

	return parsed
}
