package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")

	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(nested) {
		t.Errorf("expected %s to exist", nested)
	}

	// Idempotent
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("second EnsureDir failed: %v", err)
	}

	if err := EnsureDir(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sample.wav")

	if FileExists(path) {
		t.Error("expected missing file")
	}
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("expected file to exist")
	}
	if FileExists(tmpDir) {
		t.Error("a directory is not a regular file")
	}
}
