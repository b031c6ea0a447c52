package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectConfig = `
options = {
  entry = "src/index.ts",
}

function chain_build(c)
  c.set("outDir", "public")
end

function configure_build(config)
  config.banner = "user"
  return config
end

function configure_dev_server(dev)
  dev.port = 5173
end
`

func newProject(t *testing.T, withConfig bool) string {
	t.Helper()
	root := t.TempDir()
	if withConfig {
		require.NoError(t, os.WriteFile(filepath.Join(root, "forge.config.lua"), []byte(projectConfig), 0644))
	}
	return root
}

func TestNewContainer_WiresSession(t *testing.T) {
	container, err := NewContainer(newProject(t, false), "1.4.2")
	require.NoError(t, err)
	defer container.Close()

	assert.True(t, container.Registry.HasPlugin("build"))
	assert.True(t, container.Registry.HasPlugin("@forge/plugin-serve"))
	assert.False(t, container.Registry.HasPlugin("pwa"))

	names := make([]string, 0)
	for _, cmd := range container.Registry.Commands() {
		names = append(names, cmd.Name)
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "serve")
}

func TestNewContainer_ProjectHooksOverridePlugins(t *testing.T) {
	container, err := NewContainer(newProject(t, true), "1.4.2")
	require.NoError(t, err)
	defer container.Close()

	cfg, err := container.Resolver.ResolveRaw(nil)
	require.NoError(t, err)

	assert.Equal(t, "src/index.ts", cfg["entry"], "lua options override the base seed")
	assert.Equal(t, "public", cfg["outDir"], "the user chain hook runs after plugin mutations")
	assert.Equal(t, "user", cfg["banner"])

	dev, err := container.Resolver.ResolveDevServer(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost", dev["host"])
	assert.EqualValues(t, 5173, dev["port"], "the user dev-server hook overrides the plugin default")
}

func TestNewContainer_FailingUserHookSurfacesAtResolution(t *testing.T) {
	root := t.TempDir()
	config := `function configure_build(config)
  error("broken user hook")
end
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "forge.config.lua"), []byte(config), 0644))

	container, err := NewContainer(root, "1.4.2")
	require.NoError(t, err, "loading succeeds; the hook only runs at resolution")
	defer container.Close()

	_, err = container.Resolver.ResolveRaw(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure_build")
}

func TestNewContainer_FingerprintReflectsUserHooks(t *testing.T) {
	root := newProject(t, true)
	container, err := NewContainer(root, "1.4.2")
	require.NoError(t, err)
	defer container.Close()

	key, err := container.Fingerprinter.Compute("build", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".forge", "cache", "build"), key.Directory)
	assert.Len(t, key.Identifier, 64)

	// Editing a hook body must produce a different identifier.
	edited := projectConfig + `
function chain_build(c)
  c.set("outDir", "www")
end
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "forge.config.lua"), []byte(edited), 0644))

	other, err := NewContainer(root, "1.4.2")
	require.NoError(t, err)
	defer other.Close()

	otherKey, err := other.Fingerprinter.Compute("build", nil)
	require.NoError(t, err)
	assert.NotEqual(t, key.Identifier, otherKey.Identifier)
}

func TestNewContainer_BadLuaFailsLoud(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "forge.config.lua"), []byte("this is not lua"), 0644))

	_, err := NewContainer(root, "1.4.2")
	assert.Error(t, err)
}
