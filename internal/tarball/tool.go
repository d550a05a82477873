// Package tarball builds and executes tar archive operations using
// whichever tar implementation and compression codec exist on the host.
// It normalizes the differences between GNU tar and BSD tar so archives
// produced on one operating system restore on another.
package tarball

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/ports"
)

// ToolKind identifies the flavor of the resolved tar implementation.
// BSD tar cannot stream through an external zstd pipe the way GNU tar
// can, so downstream argument construction depends on the flavor.
type ToolKind int

const (
	// GNUTar supports --use-compress-program and long-option flags.
	GNUTar ToolKind = iota
	// BSDTar is the system tar bundled on Windows and sometimes macOS.
	BSDTar
)

// String returns a human-readable name for the tool kind.
func (k ToolKind) String() string {
	switch k {
	case GNUTar:
		return "gnu"
	case BSDTar:
		return "bsd"
	}
	return fmt.Sprintf("ToolKind(%d)", int(k))
}

// Tool is the archive executable resolved for this process. It is
// resolved once and reused across all operations within a run.
type Tool struct {
	Kind ToolKind
	Path string
}

// windowsSystemTar is the platform-bundled BSD tar on Windows.
const windowsSystemTar = `C:\Windows\System32\tar.exe`

// ErrToolNotFound indicates no usable tar executable exists on the host.
var ErrToolNotFound = errors.New("no usable tar executable found")

// ResolveTool determines which tar executable is present for the given
// GOOS value. On Windows a GNU tar on the search path is preferred with
// the bundled System32 tar as fallback. On macOS the gtar alias is
// preferred over the BSD-flavored system tar. Everywhere else tar on the
// search path is required and treated as GNU-flavored.
// DetectTool identifies the flavor of an explicitly configured tar
// binary from its version banner. GNU tar prints "tar (GNU tar) x.y";
// the libarchive implementation prints "bsdtar x.y.z".
func DetectTool(path string, runner ports.CommandRunner) (Tool, error) {
	banner, err := runner.Output(path, []string{"--version"}, "")
	if err != nil {
		return Tool{}, fmt.Errorf("probing tar at %s: %w", path, err)
	}
	switch {
	case strings.Contains(banner, "GNU tar"):
		return Tool{Kind: GNUTar, Path: path}, nil
	case strings.Contains(banner, "bsdtar"):
		return Tool{Kind: BSDTar, Path: path}, nil
	}
	return Tool{}, fmt.Errorf("unrecognized tar implementation at %s", path)
}

func ResolveTool(goos string, loc ports.Locator) (Tool, error) {
	switch goos {
	case "windows":
		if path, err := loc.LookPath("tar"); err == nil {
			return Tool{Kind: GNUTar, Path: path}, nil
		}
		if loc.FileExists(windowsSystemTar) {
			return Tool{Kind: BSDTar, Path: windowsSystemTar}, nil
		}
	case "darwin":
		if path, err := loc.LookPath("gtar"); err == nil {
			return Tool{Kind: GNUTar, Path: path}, nil
		}
		if path, err := loc.LookPath("tar"); err == nil {
			return Tool{Kind: BSDTar, Path: path}, nil
		}
	default:
		if path, err := loc.LookPath("tar"); err == nil {
			return Tool{Kind: GNUTar, Path: path}, nil
		}
	}
	return Tool{}, ErrToolNotFound
}
