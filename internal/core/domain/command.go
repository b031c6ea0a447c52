package domain

// ParsedArgs holds the flags and positional arguments parsed from a command
// invocation. Flags carry string values; boolean flags are recorded as "true".
type ParsedArgs struct {
	Flags       map[string]string
	Positionals []string
}

// Flag returns the value of a parsed flag, or the fallback if it was not set.
func (a ParsedArgs) Flag(name, fallback string) string {
	if v, ok := a.Flags[name]; ok {
		return v
	}
	return fallback
}

// Bool reports whether a boolean flag was set.
func (a ParsedArgs) Bool(name string) bool {
	return a.Flags[name] == "true"
}

// CommandHandler executes a registered command. It receives the parsed
// arguments and the raw argv the command was invoked with.
type CommandHandler func(args ParsedArgs, rawArgv []string) error

// CommandOptions describes a command for help output.
type CommandOptions struct {
	// Description is the one-line summary shown in command listings
	Description string

	// Usage is the usage line (e.g., "forge build [options] [entry]")
	Usage string

	// Options maps flag names to human-readable descriptions
	Options map[string]string
}

// Command is a CLI command contributed by a plugin. Commands are created at
// plugin-init time, live for the process lifetime, and are never mutated.
// Command names are unique across all plugins; the last registration wins.
type Command struct {
	Name     string
	PluginID string
	Opts     CommandOptions
	Handler  CommandHandler
}
