package tarball

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/adapters/execrunner"
	"github.com/mcdonaldj/tarcache/internal/adapters/osfs"
	"github.com/mcdonaldj/tarcache/internal/ports"
)

// Archiver executes archive operations with a tool and codec resolved
// once for the process. It runs each plan step in order and surfaces the
// first failure; partial artifacts from a failed multi-stage operation
// are left on disk for the caller to clean up.
type Archiver struct {
	tool     Tool
	codec    CompressionMethod
	goos     string
	zstdPath string
	runner   ports.CommandRunner
	fs       ports.FileSystem
}

// Option is a functional option for configuring an Archiver.
type Option func(*Archiver)

// WithRunner sets a custom subprocess runner.
func WithRunner(runner ports.CommandRunner) Option {
	return func(a *Archiver) {
		a.runner = runner
	}
}

// WithFileSystem sets a custom filesystem adapter.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(a *Archiver) {
		a.fs = fs
	}
}

// WithGOOS overrides the host OS used for argument construction.
func WithGOOS(goos string) Option {
	return func(a *Archiver) {
		a.goos = goos
	}
}

// WithZstdPath sets an explicitly configured zstd binary. Empty keeps
// the default search-path resolution.
func WithZstdPath(path string) Option {
	return func(a *Archiver) {
		a.zstdPath = path
	}
}

// New creates an Archiver for the given resolved tool and codec.
func New(tool Tool, codec CompressionMethod, opts ...Option) *Archiver {
	a := &Archiver{
		tool:  tool,
		codec: codec,
		goos:  runtime.GOOS,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runner == nil {
		a.runner = execrunner.New()
	}
	if a.fs == nil {
		a.fs = osfs.New()
	}
	return a
}

// Tool returns the resolved archive tool.
func (a *Archiver) Tool() Tool {
	return a.tool
}

// Compression returns the resolved compression method.
func (a *Archiver) Compression() CompressionMethod {
	return a.codec
}

// ZstdPath returns the explicitly configured zstd binary, if any.
func (a *Archiver) ZstdPath() string {
	return a.zstdPath
}

// prepare fills request defaults the Archiver owns.
func (a *Archiver) prepare(req Request) Request {
	if req.ZstdPath == "" {
		req.ZstdPath = a.zstdPath
	}
	return req
}

// Create archives req.Sources into req.ArchivePath. The manifest file is
// written to the staging directory immediately before tar runs.
func (a *Archiver) Create(req Request) error {
	req = a.prepare(req)
	if len(req.Sources) == 0 {
		return fmt.Errorf("create archive: no source paths given")
	}
	if err := WriteManifest(a.fs, req.StagingDir, req.Sources); err != nil {
		return err
	}
	plan, err := BuildPlan(a.tool, a.codec, Create, a.goos, req)
	if err != nil {
		return err
	}
	if err := a.execute(plan); err != nil {
		return err
	}
	a.cleanupStaging(plan, req)
	return nil
}

// Extract restores req.ArchivePath into req.WorkingDir, creating the
// working directory if needed.
func (a *Archiver) Extract(req Request) error {
	req = a.prepare(req)
	if err := a.fs.MkdirAll(req.WorkingDir, 0755); err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}
	plan, err := BuildPlan(a.tool, a.codec, Extract, a.goos, req)
	if err != nil {
		return err
	}
	if err := a.ensureStaging(plan, req); err != nil {
		return err
	}
	if err := a.execute(plan); err != nil {
		return err
	}
	a.cleanupStaging(plan, req)
	return nil
}

// List returns the member paths stored in req.ArchivePath.
func (a *Archiver) List(req Request) ([]string, error) {
	req = a.prepare(req)
	plan, err := BuildPlan(a.tool, a.codec, List, a.goos, req)
	if err != nil {
		return nil, err
	}
	if err := a.ensureStaging(plan, req); err != nil {
		return nil, err
	}

	// All steps but the last only stage data; the final tar -tf step
	// produces the listing itself.
	steps := plan.Steps
	for _, step := range steps[:len(steps)-1] {
		if err := a.runner.Run(step.Name, step.Args, ""); err != nil {
			return nil, fmt.Errorf("archive operation failed: %w", err)
		}
	}
	last := steps[len(steps)-1]
	out, err := a.runner.Output(last.Name, last.Args, "")
	if err != nil {
		return nil, fmt.Errorf("archive operation failed: %w", err)
	}

	a.cleanupStaging(plan, req)

	var entries []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// ensureStaging creates the staging directory when a multi-stage plan
// needs it for the intermediate archive. Single-stage plans never touch
// staging outside of manifest writing.
func (a *Archiver) ensureStaging(plan Plan, req Request) error {
	if len(plan.Steps) < 2 || req.StagingDir == "" {
		return nil
	}
	if err := a.fs.MkdirAll(req.StagingDir, 0755); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	return nil
}

// cleanupStaging removes the intermediate uncompressed archive after a
// successful multi-stage operation. It is best-effort: a removal
// failure leaves a stale file in staging, which the next run overwrites.
func (a *Archiver) cleanupStaging(plan Plan, req Request) {
	if len(plan.Steps) < 2 || req.StagingDir == "" {
		return
	}
	_ = a.fs.Remove(filepath.Join(req.StagingDir, IntermediateTarFilename))
}

// execute runs the plan steps in order, aborting on the first failure.
func (a *Archiver) execute(plan Plan) error {
	for _, step := range plan.Steps {
		if err := a.runner.Run(step.Name, step.Args, ""); err != nil {
			return fmt.Errorf("archive operation failed: %w", err)
		}
	}
	return nil
}
