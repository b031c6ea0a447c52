package domain

// PluginDescriptor identifies one plugin within a build session. The Name is
// the canonical id (e.g., "@forge/plugin-babel"), owned by the plugin and
// read-only after creation.
type PluginDescriptor struct {
	// Name is the canonical plugin id
	Name string

	// Version is the plugin's own version, if it declares one
	Version string

	// Requires is the host version requirement from the plugin manifest.
	// Manifests are JSON or Lua, so the value arrives as an int, a float64,
	// or a semver range string; the version guard validates it.
	Requires interface{}
}
