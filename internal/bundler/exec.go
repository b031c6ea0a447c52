// Package bundler adapts the external esbuild process to the Bundler and
// DevServer ports. The composition layer treats the bundler as an opaque
// collaborator: it receives the resolved configuration and returns output.
package bundler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"forgebuild.dev/cli/internal/core/domain"
	"forgebuild.dev/cli/internal/core/ports"
)

// ExecBundler shells out to the project's locally installed esbuild.
type ExecBundler struct {
	projectRoot string
	debug       bool
}

// NewExecBundler creates an esbuild adapter rooted at projectRoot.
func NewExecBundler(projectRoot string, debug bool) *ExecBundler {
	return &ExecBundler{projectRoot: projectRoot, debug: debug}
}

// args translates the resolved configuration into an esbuild argv. Only the
// flat, well-known fields are mapped; everything else in the config is owned
// by plugins and the bundler's own config file.
func (b *ExecBundler) args(cfg domain.RawConfig) []string {
	args := []string{"--bundle"}

	if entry, ok := cfg["entry"].(string); ok {
		args = append([]string{entry}, args...)
	}
	if outDir, ok := cfg["outDir"].(string); ok {
		args = append(args, "--outdir="+outDir)
	}
	if target, ok := cfg["target"].(string); ok {
		args = append(args, "--target="+target)
	}
	if minify, ok := cfg["minify"].(bool); ok && minify {
		args = append(args, "--minify")
	}
	if sourcemap, ok := cfg["sourcemap"].(bool); ok && sourcemap {
		args = append(args, "--sourcemap")
	}
	if defines, ok := cfg["define"].(map[string]interface{}); ok {
		keys := make([]string, 0, len(defines))
		for k := range defines {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			args = append(args, fmt.Sprintf("--define:%s=%v", k, defines[k]))
		}
	}
	return args
}

// Build runs esbuild with the resolved configuration.
func (b *ExecBundler) Build(ctx context.Context, cfg domain.RawConfig) (*ports.BuildResult, error) {
	args := b.args(cfg)
	if b.debug {
		fmt.Printf("[Bundler] esbuild %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, filepath.Join(b.projectRoot, "node_modules", ".bin", "esbuild"), args...)
	cmd.Dir = b.projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("esbuild failed: %w", err)
	}

	outDir, _ := cfg["outDir"].(string)
	result := &ports.BuildResult{OutputDir: outDir}
	entries, err := os.ReadDir(filepath.Join(b.projectRoot, outDir))
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				result.Assets = append(result.Assets, entry.Name())
			}
		}
	}
	return result, nil
}

// ExecDevServer runs esbuild's serve mode with the resolved dev config.
type ExecDevServer struct {
	projectRoot string
	debug       bool
}

// NewExecDevServer creates a dev-server adapter rooted at projectRoot.
func NewExecDevServer(projectRoot string, debug bool) *ExecDevServer {
	return &ExecDevServer{projectRoot: projectRoot, debug: debug}
}

// Serve blocks running the dev server until the process exits or ctx is
// cancelled.
func (s *ExecDevServer) Serve(ctx context.Context, dev domain.RawConfig) error {
	host, _ := dev["host"].(string)
	port := dev["port"]

	args := []string{fmt.Sprintf("--serve=%s:%v", host, port)}
	if build, ok := dev["build"].(map[string]interface{}); ok {
		args = append(args, NewExecBundler(s.projectRoot, s.debug).args(build)...)
	}
	if s.debug {
		fmt.Printf("[DevServer] esbuild %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, filepath.Join(s.projectRoot, "node_modules", ".bin", "esbuild"), args...)
	cmd.Dir = s.projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dev server exited: %w", err)
	}
	return nil
}
