package tarball

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mcdonaldj/tarcache/internal/adapters/execrunner"
	"github.com/mcdonaldj/tarcache/internal/adapters/oslocator"
	"github.com/mcdonaldj/tarcache/internal/mocks"
)

func newTestArchiver(tool Tool, codec CompressionMethod, goos string) (*Archiver, *mocks.MockRunner, *mocks.MockFileSystem) {
	runner := mocks.NewMockRunner()
	fs := mocks.NewMockFileSystem()
	a := New(tool, codec, WithRunner(runner), WithFileSystem(fs), WithGOOS(goos))
	return a, runner, fs
}

func TestCreateWritesManifestThenRunsTar(t *testing.T) {
	a, runner, fs := newTestArchiver(gnuTool, Gzip, "linux")

	req := createRequest()
	if err := a.Create(req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	data, err := fs.ReadFile("/cache/staging/manifest.txt")
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if string(data) != "/work/src" {
		t.Errorf("manifest = %q, expected %q", data, "/work/src")
	}

	if len(runner.RunCalls) != 1 {
		t.Fatalf("expected 1 subprocess, got %d", len(runner.RunCalls))
	}
	if runner.RunCalls[0].Name != gnuTool.Path {
		t.Errorf("ran %q, expected tar", runner.RunCalls[0].Name)
	}
}

func TestCreateRequiresSources(t *testing.T) {
	a, runner, _ := newTestArchiver(gnuTool, Gzip, "linux")

	req := createRequest()
	req.Sources = nil
	if err := a.Create(req); err == nil {
		t.Error("expected error for empty source list")
	}
	if len(runner.RunCalls) != 0 {
		t.Error("expected no subprocess for invalid request")
	}
}

func TestCreateTwoStageOrder(t *testing.T) {
	a, runner, _ := newTestArchiver(bsdTool, Zstd, "windows")

	if err := a.Create(createRequest()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(runner.RunCalls) != 2 {
		t.Fatalf("expected 2 subprocesses, got %d", len(runner.RunCalls))
	}
	if runner.RunCalls[0].Name != bsdTool.Path {
		t.Errorf("first subprocess = %q, expected tar", runner.RunCalls[0].Name)
	}
	if runner.RunCalls[1].Name != "zstd" {
		t.Errorf("second subprocess = %q, expected zstd", runner.RunCalls[1].Name)
	}
}

func TestCreateTwoStageRemovesIntermediate(t *testing.T) {
	a, _, fs := newTestArchiver(bsdTool, Zstd, "windows")
	fs.Files["/cache/staging/cache.tar"] = []byte("stale")

	if err := a.Create(createRequest()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := fs.ReadFile("/cache/staging/cache.tar"); err == nil {
		t.Error("expected intermediate archive to be removed after success")
	}
}

func TestCreateFirstStageFailureSkipsSecond(t *testing.T) {
	a, runner, _ := newTestArchiver(bsdTool, Zstd, "windows")
	runner.Errors[bsdTool.Path] = errors.New("tar: unable to open archive")

	err := a.Create(createRequest())
	if err == nil {
		t.Fatal("expected error from failed tar stage")
	}
	if !strings.Contains(err.Error(), "archive operation failed") {
		t.Errorf("error %q should identify the archive operation", err)
	}
	if !strings.Contains(err.Error(), "unable to open archive") {
		t.Errorf("error %q should carry the tool's message", err)
	}
	if len(runner.RunCalls) != 1 {
		t.Errorf("expected abort after first stage, got %d calls", len(runner.RunCalls))
	}
}

func TestExtractCreatesWorkingDir(t *testing.T) {
	a, runner, fs := newTestArchiver(gnuTool, Gzip, "linux")

	if err := a.Extract(createRequest()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(fs.MkdirCalls) == 0 || fs.MkdirCalls[0] != "/work" {
		t.Errorf("expected working directory creation, got %v", fs.MkdirCalls)
	}
	if len(runner.RunCalls) != 1 {
		t.Fatalf("expected 1 subprocess, got %d", len(runner.RunCalls))
	}
}

func TestExtractTwoStageOrder(t *testing.T) {
	a, runner, _ := newTestArchiver(bsdTool, Zstd, "windows")

	if err := a.Extract(createRequest()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(runner.RunCalls) != 2 {
		t.Fatalf("expected 2 subprocesses, got %d", len(runner.RunCalls))
	}
	if runner.RunCalls[0].Name != "zstd" {
		t.Errorf("first subprocess = %q, expected zstd decompression", runner.RunCalls[0].Name)
	}
	if runner.RunCalls[1].Name != bsdTool.Path {
		t.Errorf("second subprocess = %q, expected tar", runner.RunCalls[1].Name)
	}
}

func TestListReturnsEntries(t *testing.T) {
	a, runner, _ := newTestArchiver(gnuTool, Gzip, "linux")
	runner.Outputs[gnuTool.Path] = "project/\nproject/main.go\nproject/go.mod\n"

	entries, err := a.List(Request{ArchivePath: "/cache/build.tgz"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := []string{"project/", "project/main.go", "project/go.mod"}
	if len(entries) != len(expected) {
		t.Fatalf("entries = %v, expected %v", entries, expected)
	}
	for i, e := range expected {
		if entries[i] != e {
			t.Errorf("entries[%d] = %q, expected %q", i, entries[i], e)
		}
	}
}

func TestListTwoStageDecompressesFirst(t *testing.T) {
	a, runner, _ := newTestArchiver(bsdTool, Zstd, "windows")
	runner.Outputs[bsdTool.Path] = "project/file.txt"

	entries, err := a.List(createRequest())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(runner.RunCalls) != 1 || runner.RunCalls[0].Name != "zstd" {
		t.Errorf("expected zstd decompression stage, got %v", runner.RunCalls)
	}
	if len(runner.OutputCalls) != 1 || runner.OutputCalls[0].Name != bsdTool.Path {
		t.Errorf("expected tar listing stage, got %v", runner.OutputCalls)
	}
	if len(entries) != 1 || entries[0] != "project/file.txt" {
		t.Errorf("entries = %v", entries)
	}
}

func TestListExecFailure(t *testing.T) {
	a, runner, _ := newTestArchiver(gnuTool, Gzip, "linux")
	runner.Errors[gnuTool.Path] = errors.New("tar: Unrecognized archive format")

	if _, err := a.List(Request{ArchivePath: "/cache/build.tgz"}); err == nil {
		t.Error("expected error from failed listing")
	}
}

// Round-trip against the real host tar: an archive created with the
// gzip plan must restore a byte-identical file tree.
func TestRoundTripGzip(t *testing.T) {
	tool, err := ResolveTool(runtime.GOOS, oslocator.New())
	if err != nil {
		t.Skip("tar not installed")
	}

	tmpDir := t.TempDir()
	workDir := filepath.Join(tmpDir, "work")
	restoreDir := filepath.Join(tmpDir, "restore")
	cacheDir := filepath.Join(tmpDir, "cache")
	stagingDir := filepath.Join(cacheDir, "staging")

	testFiles := map[string]string{
		"project/main.go":          "package main\n",
		"project/sub/data.txt":     "some data",
		"project/sub/deep/f.bin":   strings.Repeat("x", 4096),
		"project/.hidden/conf.yml": "key: value\n",
	}
	for path, content := range testFiles {
		full := filepath.Join(workDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}

	a := New(tool, Gzip)
	archive := filepath.Join(cacheDir, "build.tgz")

	err = a.Create(Request{
		ArchivePath: archive,
		WorkingDir:  workDir,
		StagingDir:  stagingDir,
		Sources:     []string{"project"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := a.List(Request{ArchivePath: archive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected archive entries")
	}

	err = a.Extract(Request{
		ArchivePath: archive,
		WorkingDir:  restoreDir,
		StagingDir:  stagingDir,
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for path, content := range testFiles {
		restored, err := os.ReadFile(filepath.Join(restoreDir, path))
		if err != nil {
			t.Fatalf("restored file %s missing: %v", path, err)
		}
		if string(restored) != content {
			t.Errorf("%s: restored content differs", path)
		}
	}
}

// Same property for the zstd plan: --use-compress-program must round
// trip through the host's real zstd.
func TestRoundTripZstd(t *testing.T) {
	tool, err := ResolveTool(runtime.GOOS, oslocator.New())
	if err != nil {
		t.Skip("tar not installed")
	}
	codec := ResolveCompression(execrunner.New(), oslocator.New())
	if codec == Gzip {
		t.Skip("zstd not installed")
	}

	tmpDir := t.TempDir()
	workDir := filepath.Join(tmpDir, "work")
	restoreDir := filepath.Join(tmpDir, "restore")
	cacheDir := filepath.Join(tmpDir, "cache")
	stagingDir := filepath.Join(cacheDir, "staging")

	testFiles := map[string]string{
		"project/main.go":      "package main\n",
		"project/sub/data.txt": "some data",
		"project/big.bin":      strings.Repeat("abc123", 10000),
	}
	for path, content := range testFiles {
		full := filepath.Join(workDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	a := New(tool, codec)
	archive := filepath.Join(cacheDir, "build.tzst")

	err = a.Create(Request{
		ArchivePath: archive,
		WorkingDir:  workDir,
		StagingDir:  stagingDir,
		Sources:     []string{"project"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := a.List(Request{ArchivePath: archive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected archive entries")
	}

	err = a.Extract(Request{
		ArchivePath: archive,
		WorkingDir:  restoreDir,
		StagingDir:  stagingDir,
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for path, content := range testFiles {
		restored, err := os.ReadFile(filepath.Join(restoreDir, path))
		if err != nil {
			t.Fatalf("restored file %s missing: %v", path, err)
		}
		if string(restored) != content {
			t.Errorf("%s: restored content differs", path)
		}
	}
}
