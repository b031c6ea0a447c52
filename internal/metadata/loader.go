// Package metadata implements the package-metadata loader port: JSON files
// read relative to the project root, with a distinguishable not-found
// condition so optional lookups can be swallowed without masking real errors.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"forgebuild.dev/cli/internal/core/ports"
)

// Loader reads JSON metadata files relative to a base directory.
type Loader struct {
	baseDir string
	debug   bool
}

// NewLoader creates a metadata loader rooted at baseDir.
func NewLoader(baseDir string, debug bool) *Loader {
	return &Loader{baseDir: baseDir, debug: debug}
}

// Load reads and parses the JSON file at relPath. A missing file yields
// ports.ErrMetadataNotFound; a present but malformed file is a real error.
func (l *Loader) Load(relPath string) (map[string]interface{}, error) {
	path := relPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, relPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if l.debug {
				fmt.Printf("[Metadata] Not found: %s\n", path)
			}
			return nil, fmt.Errorf("%s: %w", relPath, ports.ErrMetadataNotFound)
		}
		return nil, fmt.Errorf("failed to read metadata %s: %w", relPath, err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", relPath, err)
	}

	return parsed, nil
}

// DependencyVersion returns the declared version of a locally installed
// package by reading its own manifest under node_modules. An uninstalled
// package yields ports.ErrMetadataNotFound.
func (l *Loader) DependencyVersion(name string) (string, error) {
	manifest, err := l.Load(filepath.Join("node_modules", name, "package.json"))
	if err != nil {
		return "", err
	}

	version, ok := manifest["version"].(string)
	if !ok {
		return "", fmt.Errorf("metadata for %s has no version field", name)
	}
	return version, nil
}
