package mocks

import "os/exec"

// MockLocator implements ports.Locator for testing.
type MockLocator struct {
	// Paths maps executable names to resolved paths for LookPath.
	Paths map[string]string
	// Files is the set of paths FileExists reports as present.
	Files map[string]bool
}

// NewMockLocator creates a new mock locator.
func NewMockLocator() *MockLocator {
	return &MockLocator{
		Paths: make(map[string]string),
		Files: make(map[string]bool),
	}
}

// LookPath returns the configured path for name, or exec.ErrNotFound.
func (m *MockLocator) LookPath(name string) (string, error) {
	if path, ok := m.Paths[name]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// FileExists reports whether the path was registered in Files.
func (m *MockLocator) FileExists(path string) bool {
	return m.Files[path]
}
