package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgebuild.dev/cli/internal/metadata"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestFingerprinter(root string, sources map[string]string) *Fingerprinter {
	return NewFingerprinter(root, "1.4.2", "production", false, metadata.NewLoader(root, false), func() map[string]string { return sources }, false)
}

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", NormalizeLineEndings("a\r\nb\rc\n"))
	assert.Equal(t, "unchanged\n", NormalizeLineEndings("unchanged\n"))
}

func TestCompute_StableAcrossInvocations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "yarn.lock", "lockfile-contents\n")
	fp := newTestFingerprinter(root, map[string]string{"chain_build": "function chain_build(c)\nend"})

	first, err := fp.Compute("build", map[string]interface{}{"minify": true})
	require.NoError(t, err)
	second, err := fp.Compute("build", map[string]interface{}{"minify": true})
	require.NoError(t, err)

	assert.Equal(t, first.Identifier, second.Identifier)
	assert.Equal(t, filepath.Join(root, ".forge", "cache", "build"), first.Directory)
}

func TestCompute_LineEndingsDoNotAffectIdentifier(t *testing.T) {
	rootLF := t.TempDir()
	rootCRLF := t.TempDir()
	writeFile(t, rootLF, "yarn.lock", "react@18.2.0\nreact-dom@18.2.0\n")
	writeFile(t, rootCRLF, "yarn.lock", "react@18.2.0\r\nreact-dom@18.2.0\r\n")

	sources := map[string]string{"chain_build": "function chain_build(c)\nend"}
	crlfSources := map[string]string{"chain_build": "function chain_build(c)\r\nend"}

	lf, err := newTestFingerprinter(rootLF, sources).Compute("build", nil)
	require.NoError(t, err)
	crlf, err := newTestFingerprinter(rootCRLF, crlfSources).Compute("build", nil)
	require.NoError(t, err)

	assert.Equal(t, lf.Identifier, crlf.Identifier)
}

func TestCompute_HookSourceChangesIdentifier(t *testing.T) {
	root := t.TempDir()

	before, err := newTestFingerprinter(root, map[string]string{"chain_build": "function chain_build(c)\nend"}).Compute("build", nil)
	require.NoError(t, err)
	after, err := newTestFingerprinter(root, map[string]string{"chain_build": "function chain_build(c)\n  c.set(\"x\", 1)\nend"}).Compute("build", nil)
	require.NoError(t, err)

	assert.NotEqual(t, before.Identifier, after.Identifier)
}

func TestCompute_InputChangesChangeIdentifier(t *testing.T) {
	root := t.TempDir()
	fp := newTestFingerprinter(root, nil)

	base, err := fp.Compute("build", map[string]interface{}{"minify": false})
	require.NoError(t, err)

	partialChanged, err := fp.Compute("build", map[string]interface{}{"minify": true})
	require.NoError(t, err)
	assert.NotEqual(t, base.Identifier, partialChanged.Identifier)

	writeFile(t, root, "forge.lock", "pinned\n")
	lockChanged, err := fp.Compute("build", map[string]interface{}{"minify": false})
	require.NoError(t, err)
	assert.NotEqual(t, base.Identifier, lockChanged.Identifier)
}

func TestCompute_MissingFilesAndToolingAreNotErrors(t *testing.T) {
	// Empty project: no lockfiles, no node_modules, no config hooks
	root := t.TempDir()
	fp := newTestFingerprinter(root, nil)

	first, err := fp.Compute("build", nil, "esbuild.config.json")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Identifier)

	second, err := fp.Compute("build", nil, "esbuild.config.json")
	require.NoError(t, err)
	assert.Equal(t, first.Identifier, second.Identifier)
}

func TestCompute_SubToolVersionParticipates(t *testing.T) {
	withTool := t.TempDir()
	writeFile(t, withTool, filepath.Join("node_modules", "esbuild", "package.json"), `{"name":"esbuild","version":"0.21.4"}`)
	without := t.TempDir()

	a, err := newTestFingerprinter(withTool, nil).Compute("build", nil)
	require.NoError(t, err)
	b, err := newTestFingerprinter(without, nil).Compute("build", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.Identifier, b.Identifier)
}

func TestCompute_IdentifierStableAcrossProjectLocations(t *testing.T) {
	// The identifier depends on contents, not on where the project lives
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, rootA, "package-lock.json", `{"lockfileVersion": 3}`)
	writeFile(t, rootB, "package-lock.json", `{"lockfileVersion": 3}`)

	a, err := newTestFingerprinter(rootA, nil).Compute("build", "partial")
	require.NoError(t, err)
	b, err := newTestFingerprinter(rootB, nil).Compute("build", "partial")
	require.NoError(t, err)

	assert.Equal(t, a.Identifier, b.Identifier)
	assert.NotEqual(t, a.Directory, b.Directory)
}
