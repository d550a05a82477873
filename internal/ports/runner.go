// Package ports defines interfaces (contracts) for external dependencies.
// These enable dependency injection and testability via mock implementations.
package ports

// CommandRunner abstracts subprocess execution for testability.
// Production code uses ExecRunner adapter; tests use MockRunner.
type CommandRunner interface {
	// Run executes the command with the given arguments and waits for it
	// to exit. dir is the working directory; empty means the process
	// default. A nonzero exit or spawn failure is returned as an error
	// carrying the tool's combined output.
	Run(name string, args []string, dir string) error

	// Output executes the command and returns its trimmed standard
	// output. Used for probe invocations (version banners, listings).
	Output(name string, args []string, dir string) (string, error)
}
