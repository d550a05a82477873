package execrunner

import (
	"os/exec"
	"strings"
	"testing"
)

func TestRunSpawnFailure(t *testing.T) {
	runner := New()

	err := runner.Run("definitely-not-a-real-binary-4f1c", nil, "")
	if err == nil {
		t.Fatal("expected error for nonexistent binary")
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-4f1c") {
		t.Errorf("error %q should name the command", err)
	}
}

func TestRunNonzeroExitIncludesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	runner := New()
	err := runner.Run("sh", []string{"-c", "echo oops >&2; exit 3"}, "")
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error %q should carry the tool's stderr", err)
	}
}

func TestRunSuccess(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	if err := New().Run("true", nil, ""); err != nil {
		t.Errorf("Run failed: %v", err)
	}
}

func TestOutput(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	out, err := New().Output("echo", []string{"hello"}, "")
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("Output = %q, expected hello", out)
	}
}

func TestOutputFailure(t *testing.T) {
	if _, err := New().Output("definitely-not-a-real-binary-4f1c", nil, ""); err == nil {
		t.Error("expected error for nonexistent binary")
	}
}
