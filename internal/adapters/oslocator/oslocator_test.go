package oslocator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookPathMissing(t *testing.T) {
	loc := New()

	if _, err := loc.LookPath("definitely-not-a-real-binary-4f1c"); err == nil {
		t.Error("expected error for nonexistent executable")
	}
}

func TestFileExists(t *testing.T) {
	loc := New()
	tmpDir := t.TempDir()

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "present.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if !loc.FileExists(path) {
			t.Error("expected true for regular file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if loc.FileExists(tmpDir) {
			t.Error("expected false for directory")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if loc.FileExists(filepath.Join(tmpDir, "missing")) {
			t.Error("expected false for missing path")
		}
	})
}
