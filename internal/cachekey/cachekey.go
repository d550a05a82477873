// Package cachekey maps cache keys to on-disk archive names. The
// extension encodes the compression method so a restore can pick the
// matching decompression arguments without probing file contents.
package cachekey

import (
	"path/filepath"
	"strings"

	"github.com/mcdonaldj/tarcache/internal/tarball"
)

// Extension returns the archive filename extension for a compression
// method. Both zstd variants share an extension: the long-range flag
// changes the match window, not the frame format.
func Extension(method tarball.CompressionMethod) string {
	if method == tarball.Gzip {
		return ".tgz"
	}
	return ".tzst"
}

// MethodForName infers the compression method from an archive filename,
// defaulting to Gzip for unknown extensions.
func MethodForName(name string) tarball.CompressionMethod {
	if strings.HasSuffix(name, ".tzst") {
		return tarball.Zstd
	}
	return tarball.Gzip
}

// ArchiveName returns the archive filename for a cache key. Path
// separators in the key are flattened so a key like "build/linux-amd64"
// cannot escape the cache directory.
func ArchiveName(key string, method tarball.CompressionMethod) string {
	sanitized := strings.NewReplacer("/", "-", `\`, "-").Replace(key)
	return sanitized + Extension(method)
}

// ArchivePath returns the full path of the archive for a cache key.
func ArchivePath(cacheDir, key string, method tarball.CompressionMethod) string {
	return filepath.Join(cacheDir, ArchiveName(key, method))
}

// StagingDir returns the staging directory used for the manifest file
// and intermediate artifacts. It lives under the cache directory so a
// single cleanup removes everything this tool produced.
func StagingDir(cacheDir string) string {
	return filepath.Join(cacheDir, "staging")
}
