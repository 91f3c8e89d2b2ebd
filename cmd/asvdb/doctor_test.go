package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/asvspoof/asvdb/internal/ingest"
	"github.com/asvspoof/asvdb/internal/ingest/ingesttest"
	"github.com/asvspoof/asvdb/internal/store"
)

func TestCheckSQLite(t *testing.T) {
	result := checkSQLite()

	if result.error {
		t.Errorf("SQLite check failed: %s", result.message)
	}

	if result.message == "" {
		t.Error("expected version information in message")
	}
}

func TestCheckDatabase_NonExistent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nonexistent.sql3")

	result := checkDatabase(dbPath)

	if result.error {
		t.Errorf("non-existent database check should not error: %s", result.message)
	}
	if !result.warning {
		t.Error("expected warning for a database that was never created")
	}
}

func TestCheckDatabase_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.sql3")
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.Close()

	result := checkDatabase(dbPath)

	if result.error {
		t.Errorf("empty database check should not error: %s", result.message)
	}
	if !result.warning {
		t.Error("expected warning for an empty database")
	}
}

func TestCheckDatabase_Populated(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "asvspoof2017.sql3")
	protoDir := t.TempDir()
	if err := ingesttest.WriteCompetition(protoDir); err != nil {
		t.Fatalf("failed to write protocols: %v", err)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if _, err := ingest.New(&ingest.Config{Store: db}).Run(context.Background(), protoDir, ""); err != nil {
		t.Fatalf("failed to ingest: %v", err)
	}
	db.Close()

	result := checkDatabase(dbPath)

	if result.error || result.warning {
		t.Errorf("database check failed: %s", result.message)
	}
	if result.message == "" {
		t.Error("expected message with database info")
	}
}

func TestCheckDatabase_Empty(t *testing.T) {
	result := checkDatabase("")

	if !result.warning {
		t.Error("expected warning for empty database path")
	}
}

func TestCheckDatabase_Directory(t *testing.T) {
	result := checkDatabase(t.TempDir())

	if !result.error {
		t.Error("expected error when database path is a directory")
	}
}

func TestCheckProtocolDirectory_Valid(t *testing.T) {
	dir := t.TempDir()
	if err := ingesttest.WriteCompetition(dir); err != nil {
		t.Fatalf("failed to write protocols: %v", err)
	}

	result := checkProtocolDirectory(dir)

	if result.error {
		t.Errorf("protocol directory check failed: %s", result.message)
	}
}

func TestCheckProtocolDirectory_NoProtocols(t *testing.T) {
	result := checkProtocolDirectory(t.TempDir())

	if !result.error {
		t.Error("expected error for a directory without protocol files")
	}
}

func TestCheckProtocolDirectory_BadName(t *testing.T) {
	dir := t.TempDir()
	if _, err := ingesttest.WriteProtocol(dir, "ASVspoof2017_test.txt", ingesttest.EvalLines(1)); err != nil {
		t.Fatalf("failed to write protocol: %v", err)
	}

	result := checkProtocolDirectory(dir)

	if !result.error {
		t.Error("expected error for a protocol file with an unknown group")
	}
}

func TestCheckSamplesDirectory_Valid(t *testing.T) {
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	result := checkSamplesDirectory(dir)

	if result.error {
		t.Errorf("samples directory check failed: %s", result.message)
	}
}

func TestCheckSamplesDirectory_NonExistent(t *testing.T) {
	result := checkSamplesDirectory("/nonexistent/path/that/does/not/exist")

	if !result.error {
		t.Error("expected error for non-existent directory")
	}
}

func TestCheckSamplesDirectory_File(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := checkSamplesDirectory(filePath)

	if !result.error {
		t.Error("expected error when path is a file, not a directory")
	}
}
