// Package oslocator provides executable and file discovery using the
// standard library os and exec packages.
package oslocator

import (
	"os"
	"os/exec"

	"github.com/mcdonaldj/tarcache/internal/ports"
)

// OSLocator implements ports.Locator using exec.LookPath and os.Stat.
type OSLocator struct{}

// New creates a new OSLocator adapter.
func New() *OSLocator {
	return &OSLocator{}
}

// LookPath searches the system search path for the named executable.
func (l *OSLocator) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// FileExists reports whether path exists and is a regular file.
func (l *OSLocator) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Compile-time check that OSLocator implements ports.Locator.
var _ ports.Locator = (*OSLocator)(nil)
