package cachekey

import (
	"path/filepath"
	"testing"

	"github.com/mcdonaldj/tarcache/internal/tarball"
)

func TestExtension(t *testing.T) {
	if got := Extension(tarball.Gzip); got != ".tgz" {
		t.Errorf("Extension(Gzip) = %q, expected .tgz", got)
	}
	if got := Extension(tarball.Zstd); got != ".tzst" {
		t.Errorf("Extension(Zstd) = %q, expected .tzst", got)
	}
	if got := Extension(tarball.ZstdWithoutLong); got != ".tzst" {
		t.Errorf("Extension(ZstdWithoutLong) = %q, expected .tzst", got)
	}
}

func TestMethodForName(t *testing.T) {
	if got := MethodForName("build.tzst"); got != tarball.Zstd {
		t.Errorf("MethodForName(build.tzst) = %v, expected Zstd", got)
	}
	if got := MethodForName("build.tgz"); got != tarball.Gzip {
		t.Errorf("MethodForName(build.tgz) = %v, expected Gzip", got)
	}
	if got := MethodForName("weird.bin"); got != tarball.Gzip {
		t.Errorf("MethodForName(weird.bin) = %v, expected Gzip fallback", got)
	}
}

func TestArchiveName(t *testing.T) {
	if got := ArchiveName("build", tarball.Zstd); got != "build.tzst" {
		t.Errorf("ArchiveName = %q, expected build.tzst", got)
	}
	if got := ArchiveName("build", tarball.Gzip); got != "build.tgz" {
		t.Errorf("ArchiveName = %q, expected build.tgz", got)
	}
}

func TestArchiveNameSanitizesSeparators(t *testing.T) {
	if got := ArchiveName("build/linux-amd64", tarball.Gzip); got != "build-linux-amd64.tgz" {
		t.Errorf("ArchiveName = %q, expected separators flattened", got)
	}
	if got := ArchiveName(`build\win`, tarball.Gzip); got != "build-win.tgz" {
		t.Errorf("ArchiveName = %q, expected backslashes flattened", got)
	}
}

func TestArchivePath(t *testing.T) {
	expected := filepath.Join("/cache", "build.tzst")
	if got := ArchivePath("/cache", "build", tarball.Zstd); got != expected {
		t.Errorf("ArchivePath = %q, expected %q", got, expected)
	}
}

func TestStagingDir(t *testing.T) {
	expected := filepath.Join("/cache", "staging")
	if got := StagingDir("/cache"); got != expected {
		t.Errorf("StagingDir = %q, expected %q", got, expected)
	}
}
