// Package config loads host/project options with precedence: environment
// variables over file values over defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"forgebuild.dev/cli/internal/core/domain"
)

// Options holds the host-level settings for one build session.
type Options struct {
	// ProjectRoot is the directory the build runs in
	ProjectRoot string `json:"-"`

	// Mode is the build mode ("development", "production", ...)
	Mode string `json:"mode"`

	// TestMode marks test builds; it participates in cache fingerprints
	TestMode bool `json:"test"`

	// Debug enables diagnostic output
	Debug bool `json:"debug"`

	// BaseConfig seeds the chainable resolution pass
	BaseConfig domain.RawConfig `json:"base_config"`
}

// DefaultOptions returns options with default values for projectRoot.
func DefaultOptions(projectRoot string) Options {
	return Options{
		ProjectRoot: projectRoot,
		Mode:        "development",
		BaseConfig: domain.RawConfig{
			"entry":  "src/main.js",
			"outDir": "dist",
			"target": "es2020",
		},
	}
}

// Load builds options with precedence: env vars > forge.json > defaults.
func Load(projectRoot string) (Options, error) {
	opts := DefaultOptions(projectRoot)

	path := filepath.Join(projectRoot, "forge.json")
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		opts.ProjectRoot = projectRoot
	}

	if mode := os.Getenv("FORGE_MODE"); mode != "" {
		opts.Mode = mode
	}
	if os.Getenv("FORGE_TEST") == "1" || os.Getenv("FORGE_TEST") == "true" {
		opts.TestMode = true
	}
	if os.Getenv("FORGE_DEBUG") == "1" || os.Getenv("FORGE_DEBUG") == "true" {
		opts.Debug = true
	}

	if opts.BaseConfig == nil {
		opts.BaseConfig = make(domain.RawConfig)
	}

	return opts, nil
}
