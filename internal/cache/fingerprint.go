// Package cache derives stable cache identifiers for the resolved build
// configuration. A fingerprint covers the user-facing config hook sources, the
// host version and environment flags, and the contents of the project's lock
// and config files, so downstream caching layers can decide whether previously
// cached output is still valid.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"forgebuild.dev/cli/internal/core/ports"
)

// defaultLockfiles is the fixed trailing set of conventional lockfile names
// appended to every fingerprint's file list.
var defaultLockfiles = []string{"forge.lock", "package-lock.json", "yarn.lock", "pnpm-lock.yaml"}

// hookNames are the two user-facing configuration hooks whose source text is
// fingerprinted.
var hookNames = []string{"chain_build", "configure_build"}

// subToolPackage is the optional bundler dependency whose locally installed
// version is included best-effort.
const subToolPackage = "esbuild"

// Missing marks a variable whose source was absent or unreadable. It is a
// typed value, distinct from an error: absence participates in the hash but
// never fails the computation.
type Missing struct{}

// MarshalJSON encodes the absent marker distinctly from any file content.
func (Missing) MarshalJSON() ([]byte, error) {
	return []byte(`{"__forge_missing__":true}`), nil
}

// Variable is one named entry in the fingerprint's variables bag. The bag is
// an ordered sequence: entry order is part of the hash.
type Variable struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Key is the result of a fingerprint computation.
type Key struct {
	// Directory is the cache directory for the id, deterministic in the id
	// and project root. Creating it is the caller's responsibility.
	Directory string

	// Identifier is the stable hash of the variables bag.
	Identifier string
}

// Fingerprinter computes cache keys for one build session.
type Fingerprinter struct {
	projectRoot string
	hostVersion string
	mode        string
	testMode    bool
	metadata    ports.MetadataLoader
	hookSources func() map[string]string
	debug       bool
}

// NewFingerprinter creates a fingerprinter. hookSources supplies the source
// text of the user-facing config hooks keyed by hook name; it may be nil when
// the project has no config file.
func NewFingerprinter(projectRoot, hostVersion, mode string, testMode bool, metadata ports.MetadataLoader, hookSources func() map[string]string, debug bool) *Fingerprinter {
	return &Fingerprinter{
		projectRoot: projectRoot,
		hostVersion: hostVersion,
		mode:        mode,
		testMode:    testMode,
		metadata:    metadata,
		hookSources: hookSources,
		debug:       debug,
	}
}

// NormalizeLineEndings collapses CRLF and bare CR sequences to LF so that
// fingerprints are stable across line-ending conventions on different
// machines.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Compute builds the variables bag for id and hashes it into a fixed-length
// identifier. File and optional-tooling lookups never fail the computation:
// missing or unreadable sources contribute a typed Missing marker. For fixed
// inputs the identifier is stable across invocations and process restarts.
func (f *Fingerprinter) Compute(id string, partial interface{}, extraFiles ...string) (Key, error) {
	dir := filepath.Join(f.projectRoot, ".forge", "cache", id)

	bag := []Variable{
		{Name: "partialIdentifier", Value: partial},
		{Name: "forgeVersion", Value: f.hostVersion},
		{Name: "mode", Value: f.mode},
		{Name: "test", Value: f.testMode},
	}

	var sources map[string]string
	if f.hookSources != nil {
		sources = f.hookSources()
	}
	for _, hook := range hookNames {
		if src, ok := sources[hook]; ok {
			bag = append(bag, Variable{Name: hook, Value: NormalizeLineEndings(src)})
		} else {
			bag = append(bag, Variable{Name: hook, Value: Missing{}})
		}
	}

	bag = append(bag, Variable{Name: subToolPackage, Value: f.subToolVersion()})

	files := make([]string, 0, len(extraFiles)+len(defaultLockfiles))
	files = append(files, extraFiles...)
	files = append(files, defaultLockfiles...)
	for _, file := range files {
		bag = append(bag, Variable{Name: file, Value: f.fileContents(file)})
	}

	encoded, err := json.Marshal(bag)
	if err != nil {
		return Key{}, fmt.Errorf("failed to encode fingerprint variables for %s: %w", id, err)
	}

	sum := sha256.Sum256(encoded)
	key := Key{Directory: dir, Identifier: hex.EncodeToString(sum[:])}
	if f.debug {
		fmt.Printf("[Fingerprint] %s -> %s\n", id, key.Identifier[:12])
	}
	return key, nil
}

// subToolVersion looks up the optional bundler package's version. Every
// lookup failure is swallowed into a Missing marker: the fingerprint must be
// computable when optional tooling is not installed.
func (f *Fingerprinter) subToolVersion() interface{} {
	if f.metadata == nil {
		return Missing{}
	}
	version, err := f.metadata.DependencyVersion(subToolPackage)
	if err != nil {
		if f.debug {
			fmt.Printf("[Fingerprint] Optional %s lookup: %v\n", subToolPackage, err)
		}
		return Missing{}
	}
	return version
}

// fileContents reads a fingerprinted file relative to the project root,
// normalizing line endings. Missing or unreadable files contribute a Missing
// marker rather than an error.
func (f *Fingerprinter) fileContents(file string) interface{} {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.projectRoot, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Missing{}
	}
	return NormalizeLineEndings(string(data))
}
