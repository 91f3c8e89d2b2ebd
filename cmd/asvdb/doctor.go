package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/asvspoof/asvdb/internal/ingest"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the database and corpus directories",
	Long: `Run diagnostic checks to ensure asvdb can operate correctly.

This command checks:
- SQLite version
- Database accessibility, integrity and row counts
- Protocol directory and the protocol files it contains
- Samples directory

Use this command to troubleshoot issues before running create or dumplist.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== asvdb doctor ===")
	util.InfoLog("")

	results := []checkResult{
		checkSQLite(),
		checkDatabase(GetConfigString("db", defaultDatabase)),
	}

	if protoDir := viper.GetString("protodir"); protoDir != "" {
		results = append(results, checkProtocolDirectory(protoDir))
	}
	if samplesDir := viper.GetString("samplesdir"); samplesDir != "" {
		results = append(results, checkSamplesDirectory(samplesDir))
	}

	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("Some checks failed. Please resolve errors before using the database.")
		return fmt.Errorf("diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("All checks passed.")
	}

	return nil
}

// checkSQLite verifies SQLite version
func checkSQLite() checkResult {
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkDatabase verifies the database can be opened read-only and is populated
func checkDatabase(dbPath string) checkResult {
	if dbPath == "" {
		return checkResult{
			name:    "Database",
			warning: true,
			message: "no database path specified (use --db flag or config)",
		}
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return checkResult{
				name:    "Database",
				warning: true,
				message: fmt.Sprintf("%s does not exist (run create first)", dbPath),
			}
		}
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", dbPath, err),
		}
	}

	if !info.Mode().IsRegular() {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", dbPath),
		}
	}

	db, err := store.OpenWithOptions(dbPath, &store.OpenOptions{ReadOnly: true})
	if err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", dbPath, err),
		}
	}
	defer db.Close()

	if err := db.CheckIntegrity(); err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("integrity check failed: %v", err),
		}
	}

	clients, _ := db.CountClients()
	files, _ := db.CountFiles()
	protocols, _ := db.CountProtocols()
	size := humanize.Bytes(uint64(info.Size()))

	if files == 0 {
		return checkResult{
			name:    "Database",
			warning: true,
			message: fmt.Sprintf("%s (%s) is empty (run create)", dbPath, size),
		}
	}

	return checkResult{
		name: "Database",
		message: fmt.Sprintf("%s (%s, %d protocols, %d clients, %s files)",
			dbPath, size, protocols, clients, humanize.Comma(int64(files))),
	}
}

// checkProtocolDirectory verifies the protocol directory holds protocol files
// whose group can be derived from their name
func checkProtocolDirectory(path string) checkResult {
	if !util.DirExists(path) {
		return checkResult{
			name:    "Protocol directory",
			error:   true,
			message: fmt.Sprintf("%s is not a directory", path),
		}
	}

	files, err := ingest.Discover(path)
	if err != nil {
		return checkResult{
			name:    "Protocol directory",
			error:   true,
			message: fmt.Sprintf("cannot read %s: %v", path, err),
		}
	}
	if len(files) == 0 {
		return checkResult{
			name:    "Protocol directory",
			error:   true,
			message: fmt.Sprintf("%s has no %s files", path, ingest.ProtocolPattern),
		}
	}

	for _, f := range files {
		if _, err := ingest.GroupFromFilename(f); err != nil {
			return checkResult{
				name:    "Protocol directory",
				error:   true,
				message: fmt.Sprintf("%s: %v", filepath.Base(f), err),
			}
		}
	}

	return checkResult{
		name:    "Protocol directory",
		message: fmt.Sprintf("%s (%d protocol files)", path, len(files)),
	}
}

// checkSamplesDirectory verifies the samples directory is readable
func checkSamplesDirectory(path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		return checkResult{
			name:    "Samples directory",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", path, err),
		}
	}

	if !info.IsDir() {
		return checkResult{
			name:    "Samples directory",
			error:   true,
			message: fmt.Sprintf("%s is not a directory", path),
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return checkResult{
			name:    "Samples directory",
			error:   true,
			message: fmt.Sprintf("cannot read %s: %v", path, err),
		}
	}

	return checkResult{
		name:    "Samples directory",
		message: fmt.Sprintf("%s (%d entries)", path, len(entries)),
	}
}
