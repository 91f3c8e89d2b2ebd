package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/asvspoof/asvdb/internal/ingest"
	"github.com/asvspoof/asvdb/internal/report"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the database from the corpus protocol files",
	Long: `Populate the database from the ASVspoof2017 protocol description files.

Every file matching ASVspoof2017_* in the protocol directory is read. Its
group (train, dev or eval) is taken from the file name. Each line becomes a
sample row linked to the competition protocol; speakers are created on first
sight.

The whole run is one transaction: if any line is malformed nothing is
written. Running create twice reuses existing rows, use --recreate to start
from an empty database.`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().BoolP("recreate", "R", false, "erase the database before creating it")
	createCmd.Flags().StringP("protodir", "P", "", "directory containing the protocol description files")
	createCmd.Flags().StringP("samplesdir", "D", "", "directory prepended to every sample path")

	viper.BindPFlag("protodir", createCmd.Flags().Lookup("protodir"))
	viper.BindPFlag("samplesdir", createCmd.Flags().Lookup("samplesdir"))
}

func runCreate(cmd *cobra.Command, args []string) error {
	protoDir := viper.GetString("protodir")
	if protoDir == "" {
		return fmt.Errorf("protocol directory is required (use --protodir/-P or set in config)")
	}
	if !util.DirExists(protoDir) {
		return fmt.Errorf("protocol directory does not exist: %s", protoDir)
	}
	samplesDir := viper.GetString("samplesdir")

	dbPath := GetConfigString("db", defaultDatabase)
	recreate, _ := cmd.Flags().GetBool("recreate")

	if recreate && util.FileExists(dbPath) {
		util.InfoLog("Removing existing database: %s", dbPath)
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to remove database: %w", err)
		}
	}
	if err := util.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return err
	}

	util.InfoLog("Opening database: %s", dbPath)
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger, err := report.NewEventLogger(GetConfigString("artifacts", defaultArtifacts), eventLevel())
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		logger = report.NullLogger()
	}
	defer logger.Close()

	if logger.Path() != "" {
		util.InfoLog("Event log: %s", logger.Path())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	util.InfoLog("Protocols: %s", protoDir)
	if samplesDir != "" {
		util.InfoLog("Samples: %s", samplesDir)
	}

	ingester := ingest.New(&ingest.Config{
		Store:  db,
		Logger: logger,
	})

	result, err := ingester.Run(ctx, protoDir, samplesDir)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	util.DebugLog("Result: %s", result)
	util.SuccessLog("Database created in %v", result.Duration.Round(time.Millisecond))
	util.InfoLog("  Protocol files: %d", result.ProtocolFiles)
	util.InfoLog("  Lines: %s", humanize.Comma(int64(result.Lines)))
	util.InfoLog("  Clients created: %s", humanize.Comma(int64(result.ClientsCreated)))
	util.InfoLog("  Files created: %s", humanize.Comma(int64(result.FilesCreated)))
	if result.FilesReused > 0 {
		util.InfoLog("  Files reused: %s", humanize.Comma(int64(result.FilesReused)))
	}
	util.InfoLog("  Links created: %s", humanize.Comma(int64(result.LinksCreated)))

	return nil
}
