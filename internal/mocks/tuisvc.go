package mocks

import (
	"github.com/mcdonaldj/tarcache/internal/config"
	"github.com/mcdonaldj/tarcache/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	// Config is returned by LoadConfig.
	Config *config.Config
	// Archives is returned by ListArchives.
	Archives []ports.TUIArchiveInfo
	// Entries maps archive paths to member listings.
	Entries map[string][]string
	// Errors maps method names to errors.
	Errors map[string]error
	// EntriesCalls records archive paths passed to ListEntries.
	EntriesCalls []string
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{
		Config:  &config.Config{CacheDir: "/test/cache", WorkDir: "/test"},
		Entries: make(map[string][]string),
		Errors:  make(map[string]error),
	}
}

// LoadConfig loads the application configuration.
func (m *MockTUIService) LoadConfig() (*config.Config, error) {
	if err, ok := m.Errors["LoadConfig"]; ok {
		return nil, err
	}
	return m.Config, nil
}

// ListArchives returns the configured archive list.
func (m *MockTUIService) ListArchives(cfg *config.Config) ([]ports.TUIArchiveInfo, error) {
	if err, ok := m.Errors["ListArchives"]; ok {
		return nil, err
	}
	return m.Archives, nil
}

// ListEntries returns the configured member listing for an archive.
func (m *MockTUIService) ListEntries(cfg *config.Config, archivePath string) ([]string, error) {
	m.EntriesCalls = append(m.EntriesCalls, archivePath)
	if err, ok := m.Errors["ListEntries"]; ok {
		return nil, err
	}
	return m.Entries[archivePath], nil
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
