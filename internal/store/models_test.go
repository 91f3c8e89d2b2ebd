package store

import (
	"path/filepath"
	"testing"

	"github.com/asvspoof/asvdb/internal/vocab"
)

func TestMakePath(t *testing.T) {
	f := &File{Path: filepath.Join("train", "T_1000001")}

	tests := []struct {
		dir, ext, expected string
	}{
		{"", "", filepath.Join("train", "T_1000001")},
		{"/data", "", filepath.Join("/data", "train", "T_1000001")},
		{"/data", ".flac", filepath.Join("/data", "train", "T_1000001.flac")},
		{"", ".npy", filepath.Join("train", "T_1000001.npy")},
	}

	for _, tt := range tests {
		if got := f.MakePath(tt.dir, tt.ext); got != tt.expected {
			t.Errorf("MakePath(%q, %q) = %q, expected %q", tt.dir, tt.ext, got, tt.expected)
		}
	}

	if got := f.AudioFile("/data"); got != filepath.Join("/data", "train", "T_1000001.wav") {
		t.Errorf("AudioFile = %q", got)
	}
}

func TestPurposeHelpers(t *testing.T) {
	genuine := &File{Purpose: vocab.PurposeGenuine}
	spoof := &File{Purpose: vocab.PurposeSpoof}

	if !genuine.IsReal() || genuine.IsAttack() {
		t.Error("genuine file misclassified")
	}
	if spoof.IsReal() || !spoof.IsAttack() {
		t.Error("spoof file misclassified")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	f := &File{Path: filepath.Join("dev", "D_1000001")}

	if err := f.Save([]byte("features"), dir, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := f.Load(dir, DataExtension)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "features" {
		t.Errorf("expected round-tripped data, got %q", data)
	}

	if _, err := f.Load(dir, ".missing"); err == nil {
		t.Error("expected an error loading a missing blob")
	}
}
