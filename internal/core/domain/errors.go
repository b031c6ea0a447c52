package domain

import "fmt"

// InvalidRangeError indicates a malformed version-range argument passed to the
// version guard: a numeric value with a fractional part, or a value that is
// neither a number nor a string.
type InvalidRangeError struct {
	// Value is the rejected argument as received from the plugin manifest.
	Value interface{}
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid version range %v (type %T): expected an integer major version or a semver range string", e.Value, e.Value)
}

// IncompatibleVersionError indicates the host version does not satisfy the
// range a plugin requires. Both sides are carried so the failure is actionable
// without re-deriving context.
type IncompatibleVersionError struct {
	// PluginID is the canonical id of the plugin that made the requirement
	PluginID string

	// Required is the normalized semver range the plugin asked for
	Required string

	// Actual is the host's own released version
	Actual string
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("plugin %s requires forge version %s, but %s is installed", e.PluginID, e.Required, e.Actual)
}

// MissingPluginError is surfaced by callers that looked up a sibling plugin
// and expected it to be present. The registry itself only reports booleans.
type MissingPluginError struct {
	// ID is the plugin id (canonical or alias form) that was looked up
	ID string
}

func (e *MissingPluginError) Error() string {
	return fmt.Sprintf("required plugin %s is not registered in this build session", e.ID)
}
