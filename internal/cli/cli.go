// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/mcdonaldj/tarcache/internal/adapters/execrunner"
	"github.com/mcdonaldj/tarcache/internal/adapters/osfs"
	"github.com/mcdonaldj/tarcache/internal/adapters/oslocator"
	"github.com/mcdonaldj/tarcache/internal/cachekey"
	"github.com/mcdonaldj/tarcache/internal/config"
	"github.com/mcdonaldj/tarcache/internal/ports"
	"github.com/mcdonaldj/tarcache/internal/tarball"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() string
	DefaultConfig() *config.Config
}

// ArchiveService provides archive operations for the CLI.
type ArchiveService interface {
	// Tools returns the tar tool and compression codec resolved for
	// this process, honoring any binary overrides in the config.
	Tools(cfg *config.Config) (tarball.Tool, tarball.CompressionMethod, error)

	// Create archives the source paths under the given cache key and
	// returns the archive path.
	Create(cfg *config.Config, key string, sources []string) (string, error)

	// Extract restores the archive for a cache key into destDir and
	// returns the archive path it restored from.
	Extract(cfg *config.Config, key, destDir string) (string, error)

	// List returns the archive path for a cache key and its members.
	List(cfg *config.Config, key string) (string, []string, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc  ConfigService
	ArchiveSvc ArchiveService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	exitCode := 0
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) { exitCode = code; _ = exitCode },
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error) { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() string            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() *config.Config { return config.DefaultConfig() }

// defaultArchiveService wraps the tarball package. The tar tool and
// codec are resolved on first use and reused for the process lifetime.
type defaultArchiveService struct {
	archiver *tarball.Archiver
	fs       ports.FileSystem
	runner   ports.CommandRunner
	loc      ports.Locator
}

func (d *defaultArchiveService) filesystem() ports.FileSystem {
	if d.fs == nil {
		d.fs = osfs.New()
	}
	return d.fs
}

func (d *defaultArchiveService) commandRunner() ports.CommandRunner {
	if d.runner == nil {
		d.runner = execrunner.New()
	}
	return d.runner
}

func (d *defaultArchiveService) locator() ports.Locator {
	if d.loc == nil {
		d.loc = oslocator.New()
	}
	return d.loc
}

func (d *defaultArchiveService) resolve(cfg *config.Config) (*tarball.Archiver, error) {
	if d.archiver != nil {
		return d.archiver, nil
	}
	runner := d.commandRunner()

	var tool tarball.Tool
	var err error
	if cfg.TarPath != "" {
		tool, err = tarball.DetectTool(config.ExpandPath(cfg.TarPath), runner)
	} else {
		tool, err = tarball.ResolveTool(runtime.GOOS, d.locator())
	}
	if err != nil {
		return nil, err
	}

	var codec tarball.CompressionMethod
	var opts []tarball.Option
	if cfg.ZstdPath != "" {
		zstdPath := config.ExpandPath(cfg.ZstdPath)
		codec = tarball.ResolveCompressionAt(zstdPath, runner)
		opts = append(opts, tarball.WithZstdPath(zstdPath))
	} else {
		codec = tarball.ResolveCompression(runner, d.locator())
	}

	d.archiver = tarball.New(tool, codec, opts...)
	return d.archiver, nil
}

func (d *defaultArchiveService) Tools(cfg *config.Config) (tarball.Tool, tarball.CompressionMethod, error) {
	archiver, err := d.resolve(cfg)
	if err != nil {
		return tarball.Tool{}, tarball.Gzip, err
	}
	return archiver.Tool(), archiver.Compression(), nil
}

func (d *defaultArchiveService) Create(cfg *config.Config, key string, sources []string) (string, error) {
	archiver, err := d.resolve(cfg)
	if err != nil {
		return "", err
	}
	cacheDir := config.ExpandPath(cfg.CacheDir)
	if err := d.filesystem().MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	archivePath := cachekey.ArchivePath(cacheDir, key, archiver.Compression())
	err = archiver.Create(tarball.Request{
		ArchivePath: archivePath,
		WorkingDir:  config.ExpandPath(cfg.WorkDir),
		StagingDir:  cachekey.StagingDir(cacheDir),
		Sources:     sources,
	})
	if err != nil {
		return "", err
	}
	return archivePath, nil
}

func (d *defaultArchiveService) Extract(cfg *config.Config, key, destDir string) (string, error) {
	archiver, err := d.resolve(cfg)
	if err != nil {
		return "", err
	}
	cacheDir := config.ExpandPath(cfg.CacheDir)
	archivePath, codec, err := findArchive(d.filesystem(), cacheDir, key)
	if err != nil {
		return "", err
	}
	if codec, err = effectiveCodec(codec, archiver.Compression(), archivePath); err != nil {
		return "", err
	}
	restorer := tarball.New(archiver.Tool(), codec, tarball.WithZstdPath(archiver.ZstdPath()))
	err = restorer.Extract(tarball.Request{
		ArchivePath: archivePath,
		WorkingDir:  config.ExpandPath(destDir),
		StagingDir:  cachekey.StagingDir(cacheDir),
	})
	if err != nil {
		return "", err
	}
	return archivePath, nil
}

func (d *defaultArchiveService) List(cfg *config.Config, key string) (string, []string, error) {
	archiver, err := d.resolve(cfg)
	if err != nil {
		return "", nil, err
	}
	cacheDir := config.ExpandPath(cfg.CacheDir)
	archivePath, codec, err := findArchive(d.filesystem(), cacheDir, key)
	if err != nil {
		return "", nil, err
	}
	if codec, err = effectiveCodec(codec, archiver.Compression(), archivePath); err != nil {
		return "", nil, err
	}
	lister := tarball.New(archiver.Tool(), codec, tarball.WithZstdPath(archiver.ZstdPath()))
	entries, err := lister.List(tarball.Request{
		ArchivePath: archivePath,
		StagingDir:  cachekey.StagingDir(cacheDir),
	})
	if err != nil {
		return "", nil, err
	}
	return archivePath, entries, nil
}

// effectiveCodec picks the decompression codec for a stored archive:
// the extension decides gzip vs zstd, the resolved codec decides which
// zstd variant the host supports.
func effectiveCodec(stored, resolved tarball.CompressionMethod, archivePath string) (tarball.CompressionMethod, error) {
	if stored == tarball.Gzip {
		return tarball.Gzip, nil
	}
	if resolved == tarball.Gzip {
		return tarball.Gzip, fmt.Errorf("archive %s requires zstd, which is not installed", filepath.Base(archivePath))
	}
	return resolved, nil
}

// findArchive locates the stored archive for a key, preferring the zstd
// variant, and returns the codec its extension encodes.
func findArchive(fs ports.FileSystem, cacheDir, key string) (string, tarball.CompressionMethod, error) {
	for _, method := range []tarball.CompressionMethod{tarball.Zstd, tarball.Gzip} {
		path := cachekey.ArchivePath(cacheDir, key, method)
		if info, err := fs.Stat(path); err == nil && !info.IsDir() {
			return path, method, nil
		}
	}
	return "", tarball.Gzip, fmt.Errorf("no archive found for key %q in %s", key, cacheDir)
}

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) archiveSvc() ArchiveService {
	if c.ArchiveSvc != nil {
		return c.ArchiveSvc
	}
	return &defaultArchiveService{}
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	if len(c.Args) < 2 {
		fmt.Fprintln(c.Out, "No command specified. Use 'tarcache help' for usage.")
		return
	}

	switch c.Args[1] {
	case "create":
		c.RunCreate()
	case "extract":
		c.RunExtract()
	case "list":
		c.RunList()
	case "tools":
		c.ShowTools()
	case "init":
		c.InitConfig()
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "tarcache v%s\n", c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", c.Args[1])
		c.PrintUsage()
		c.Exit(1)
	}
}

// RunCreate archives the configured or given source paths under a key.
func (c *CLI) RunCreate() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Err, c.red("Usage: tarcache create <key> [paths...]"))
		c.Exit(1)
		return
	}
	key := c.Args[2]

	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error loading config:"), err)
		c.Exit(1)
		return
	}

	sources := c.Args[3:]
	if len(sources) == 0 {
		sources = cfg.Sources
	}
	if len(sources) == 0 {
		fmt.Fprintln(c.Err, c.red("No source paths given and none configured."))
		c.Exit(1)
		return
	}

	archivePath, err := c.archiveSvc().Create(cfg, key, sources)
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Create failed:"), err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s %s %s\n", c.green("✓"), "Created", c.cyan(filepath.Base(archivePath)))
	fmt.Fprintf(c.Out, "  %s\n", c.gray(archivePath))
}

// RunExtract restores the archive for a key into a directory.
func (c *CLI) RunExtract() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Err, c.red("Usage: tarcache extract <key> [dir]"))
		c.Exit(1)
		return
	}
	key := c.Args[2]

	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error loading config:"), err)
		c.Exit(1)
		return
	}

	destDir := cfg.WorkDir
	if len(c.Args) > 3 {
		destDir = c.Args[3]
	}

	archivePath, err := c.archiveSvc().Extract(cfg, key, destDir)
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Extract failed:"), err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s %s %s %s %s\n", c.green("✓"), "Restored", c.cyan(filepath.Base(archivePath)), "to", destDir)
}

// RunList prints the members of the archive stored for a key.
func (c *CLI) RunList() {
	if len(c.Args) < 3 {
		fmt.Fprintln(c.Err, c.red("Usage: tarcache list <key>"))
		c.Exit(1)
		return
	}
	key := c.Args[2]

	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error loading config:"), err)
		c.Exit(1)
		return
	}

	archivePath, entries, err := c.archiveSvc().List(cfg, key)
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("List failed:"), err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s (%d entries)\n", c.cyan(filepath.Base(archivePath)), len(entries))
	for _, entry := range entries {
		fmt.Fprintf(c.Out, "  %s\n", entry)
	}
}

// ShowTools prints the resolved tar tool and compression codec.
func (c *CLI) ShowTools() {
	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error loading config:"), err)
		c.Exit(1)
		return
	}

	tool, codec, err := c.archiveSvc().Tools(cfg)
	if err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error:"), err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s %s (%s)\n", c.cyan("tar:"), tool.Path, tool.Kind)
	fmt.Fprintf(c.Out, "%s %s\n", c.cyan("compression:"), codec)
}

// InitConfig writes a default configuration file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	cfg := svc.DefaultConfig()
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error saving config:"), err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "%s Config written to %s\n", c.green("✓"), c.cyan(svc.ConfigPath()))
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	fmt.Fprintln(c.Out, `tarcache - Portable tar archive cache

Usage:
  tarcache                       Launch interactive TUI
  tarcache ui                    Launch interactive TUI
  tarcache create <key> [paths]  Archive paths under a cache key
  tarcache extract <key> [dir]   Restore a cached archive
  tarcache list <key>            List the members of a cached archive
  tarcache tools                 Show the resolved tar tool and codec
  tarcache init                  Write a default config file
  tarcache version               Show version
  tarcache help                  Show this help

Config: ~/.tarcache/config.yaml`)
}
