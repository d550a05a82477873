// Package execrunner provides a subprocess runner adapter using exec.Command.
package execrunner

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/ports"
)

// ExecRunner implements ports.CommandRunner using exec.Command.
type ExecRunner struct{}

// New creates a new ExecRunner adapter.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it to exit. A nonzero exit or
// spawn failure is returned as an error carrying the tool's combined
// output verbatim for diagnosability.
func (r *ExecRunner) Run(name string, args []string, dir string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return nil
}

// Output executes the command and returns its trimmed standard output.
func (r *ExecRunner) Output(name string, args []string, dir string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Compile-time check that ExecRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*ExecRunner)(nil)
