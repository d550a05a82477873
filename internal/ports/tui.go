package ports

import (
	"time"

	"github.com/mcdonaldj/tarcache/internal/config"
)

// TUIArchiveInfo contains cached-archive metadata for display.
type TUIArchiveInfo struct {
	Name        string
	Path        string
	Size        int64
	Compression string
	ModTime     time.Time
}

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without real filesystem or
// subprocess operations.
type TUIService interface {
	// LoadConfig loads the application configuration.
	LoadConfig() (*config.Config, error)

	// ListArchives returns all archives in the cache directory.
	ListArchives(cfg *config.Config) ([]TUIArchiveInfo, error)

	// ListEntries returns the member paths stored in an archive.
	ListEntries(cfg *config.Config, archivePath string) ([]string, error)
}
