// Package tuisvc provides the production TUIService adapter, wiring the
// TUI to the real configuration, cache directory, and archive tool.
package tuisvc

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/adapters/execrunner"
	"github.com/mcdonaldj/tarcache/internal/adapters/osfs"
	"github.com/mcdonaldj/tarcache/internal/adapters/oslocator"
	"github.com/mcdonaldj/tarcache/internal/cachekey"
	"github.com/mcdonaldj/tarcache/internal/config"
	"github.com/mcdonaldj/tarcache/internal/ports"
	"github.com/mcdonaldj/tarcache/internal/tarball"
)

// Service implements ports.TUIService using the real filesystem and
// archive tool. The tar tool and codec are resolved lazily on first use
// and reused for the life of the process.
type Service struct {
	fs       ports.FileSystem
	runner   ports.CommandRunner
	locator  ports.Locator
	archiver *tarball.Archiver
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithFileSystem sets a custom filesystem adapter.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithRunner sets a custom subprocess runner.
func WithRunner(runner ports.CommandRunner) Option {
	return func(s *Service) {
		s.runner = runner
	}
}

// WithLocator sets a custom executable locator.
func WithLocator(loc ports.Locator) Option {
	return func(s *Service) {
		s.locator = loc
	}
}

// New creates a new production TUI service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = osfs.New()
	}
	if s.runner == nil {
		s.runner = execrunner.New()
	}
	if s.locator == nil {
		s.locator = oslocator.New()
	}
	return s
}

// LoadConfig loads the application configuration.
func (s *Service) LoadConfig() (*config.Config, error) {
	return config.Load()
}

// ListArchives returns all archives in the cache directory, newest
// first by name ordering left to the caller's display.
func (s *Service) ListArchives(cfg *config.Config) ([]ports.TUIArchiveInfo, error) {
	cacheDir := config.ExpandPath(cfg.CacheDir)
	entries, err := s.fs.ReadDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var archives []ports.TUIArchiveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".tgz") && !strings.HasSuffix(name, ".tzst") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, ports.TUIArchiveInfo{
			Name:        name,
			Path:        filepath.Join(cacheDir, name),
			Size:        info.Size(),
			Compression: cachekey.MethodForName(name).String(),
			ModTime:     info.ModTime(),
		})
	}
	return archives, nil
}

// ListEntries returns the member paths stored in an archive.
func (s *Service) ListEntries(cfg *config.Config, archivePath string) ([]string, error) {
	archiver, err := s.resolveArchiver(cfg)
	if err != nil {
		return nil, err
	}
	codec := archiver.Compression()
	if cachekey.MethodForName(archivePath) == tarball.Gzip {
		codec = tarball.Gzip
	} else if codec == tarball.Gzip {
		return nil, fmt.Errorf("archive %s requires zstd, which is not installed", archivePath)
	}
	lister := tarball.New(archiver.Tool(), codec,
		tarball.WithRunner(s.runner), tarball.WithFileSystem(s.fs), tarball.WithZstdPath(archiver.ZstdPath()))
	return lister.List(tarball.Request{
		ArchivePath: archivePath,
		StagingDir:  cachekey.StagingDir(config.ExpandPath(cfg.CacheDir)),
	})
}

// resolveArchiver resolves the tar tool and codec once per process,
// honoring any binary overrides in the config.
func (s *Service) resolveArchiver(cfg *config.Config) (*tarball.Archiver, error) {
	if s.archiver != nil {
		return s.archiver, nil
	}

	var tool tarball.Tool
	var err error
	if cfg.TarPath != "" {
		tool, err = tarball.DetectTool(config.ExpandPath(cfg.TarPath), s.runner)
	} else {
		tool, err = tarball.ResolveTool(runtime.GOOS, s.locator)
	}
	if err != nil {
		return nil, err
	}

	opts := []tarball.Option{tarball.WithRunner(s.runner), tarball.WithFileSystem(s.fs)}
	var codec tarball.CompressionMethod
	if cfg.ZstdPath != "" {
		zstdPath := config.ExpandPath(cfg.ZstdPath)
		codec = tarball.ResolveCompressionAt(zstdPath, s.runner)
		opts = append(opts, tarball.WithZstdPath(zstdPath))
	} else {
		codec = tarball.ResolveCompression(s.runner, s.locator)
	}

	s.archiver = tarball.New(tool, codec, opts...)
	return s.archiver, nil
}

// Compile-time check that Service implements ports.TUIService.
var _ ports.TUIService = (*Service)(nil)
