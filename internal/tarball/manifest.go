package tarball

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/ports"
)

// WriteManifest serializes the source paths to the manifest file in the
// staging directory, one path per line, overwriting any prior manifest.
// tar reads this file via --files-from, so even very large source lists
// never touch the command line.
func WriteManifest(fs ports.FileSystem, stagingDir string, sources []string) error {
	if err := fs.MkdirAll(stagingDir, 0755); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}

	lines := make([]string, len(sources))
	for i, source := range sources {
		lines[i] = normalizePath(source)
	}

	path := filepath.Join(stagingDir, ManifestFilename)
	if err := fs.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
