package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	exec := New()

	out, err := exec.Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want hello", out)
	}
}

func TestExecuteIncludesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	exec := New()

	_, err := exec.Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "ls")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.Contains(out, "marker.txt") {
		t.Errorf("ExecuteInDir() = %q, want listing of %s", out, dir)
	}
}

func TestLookPathMissing(t *testing.T) {
	if _, err := New().LookPath("definitely-not-a-real-binary-xyz"); err == nil {
		t.Error("LookPath() should fail for a missing binary")
	}
}
