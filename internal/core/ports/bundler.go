package ports

import (
	"context"

	"forgebuild.dev/cli/internal/core/domain"
)

// BuildResult summarizes one bundler run.
type BuildResult struct {
	OutputDir string
	Assets    []string
	Warnings  []string
}

// Bundler consumes the resolved build configuration and produces build
// output. The composition layer never inspects the configuration schema; it
// only hands the merged object over.
type Bundler interface {
	Build(ctx context.Context, cfg domain.RawConfig) (*BuildResult, error)
}

// DevServer consumes the resolved dev-server configuration. It is an external
// collaborator; the composition layer only resolves the hook chain for it.
type DevServer interface {
	Serve(ctx context.Context, dev domain.RawConfig) error
}
