package ports

// Locator abstracts executable and file discovery for testability.
// Production code uses OSLocator adapter; tests use MockLocator.
type Locator interface {
	// LookPath searches the system search path for the named executable
	// and returns its absolute path, or an error if it is not found.
	LookPath(name string) (string, error)

	// FileExists reports whether path exists and is a regular file.
	FileExists(path string) bool
}
