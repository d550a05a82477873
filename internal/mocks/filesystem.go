package mocks

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// MockFileSystem implements ports.FileSystem for testing.
type MockFileSystem struct {
	// Files maps paths to file contents for ReadFile/WriteFile.
	Files map[string][]byte
	// Dirs maps paths to directory entries for ReadDir.
	Dirs map[string][]os.DirEntry
	// Stats maps paths to FileInfo for Stat.
	Stats map[string]os.FileInfo
	// Errors maps paths to errors (for simulating failures).
	Errors map[string]error
	// MkdirCalls records paths passed to MkdirAll.
	MkdirCalls []string
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Dirs:   make(map[string][]os.DirEntry),
		Stats:  make(map[string]os.FileInfo),
		Errors: make(map[string]error),
	}
}

// ReadDir reads the named directory and returns directory entries.
func (m *MockFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if entries, ok := m.Dirs[name]; ok {
		return entries, nil
	}
	return nil, os.ErrNotExist
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	if content, ok := m.Files[name]; ok {
		return &MockFileInfo{FName: filepath.Base(name), FSize: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

// MkdirAll records the call and marks the directory as existing.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.MkdirCalls = append(m.MkdirCalls, path)
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.Stats[path] = &MockFileInfo{FName: filepath.Base(path), FIsDir: true}
	return nil
}

// WriteFile writes data to the named file.
func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	m.Files[name] = data
	return nil
}

// ReadFile reads the named file and returns the contents.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return content, nil
	}
	return nil, os.ErrNotExist
}

// Remove removes the named file.
func (m *MockFileSystem) Remove(name string) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	delete(m.Files, name)
	delete(m.Stats, name)
	return nil
}

// MockFileInfo implements os.FileInfo for testing.
type MockFileInfo struct {
	FName    string
	FSize    int64
	FIsDir   bool
	FModTime time.Time
}

func (i *MockFileInfo) Name() string       { return i.FName }
func (i *MockFileInfo) Size() int64        { return i.FSize }
func (i *MockFileInfo) Mode() fs.FileMode  { return 0644 }
func (i *MockFileInfo) ModTime() time.Time { return i.FModTime }
func (i *MockFileInfo) IsDir() bool        { return i.FIsDir }
func (i *MockFileInfo) Sys() any           { return nil }

// MockDirEntry implements os.DirEntry for testing.
type MockDirEntry struct {
	EName  string
	EIsDir bool
	EInfo  os.FileInfo
}

func (e *MockDirEntry) Name() string               { return e.EName }
func (e *MockDirEntry) IsDir() bool                { return e.EIsDir }
func (e *MockDirEntry) Type() fs.FileMode          { return 0 }
func (e *MockDirEntry) Info() (os.FileInfo, error) { return e.EInfo, nil }
