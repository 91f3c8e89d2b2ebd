package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/asvspoof/asvdb/internal/report"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a summary report of the database",
	Long: `Generate a summary report of the corpus database in Markdown format.

The report includes:
- Genuine and spoof file counts per protocol and group
- Client counts per group
- Playback devices used by spoof files
- Errors recorded in a create event log (with --event-log)

The report is saved to artifacts/reports/<timestamp>/summary.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("out", "", "Output directory for report (default: artifacts/reports/<timestamp>)")
	reportCmd.Flags().String("event-log", "", "Path to event log file (optional)")
}

func runReport(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== Generating Summary Report ===")

	s, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer s.Close()

	eventLogPath, _ := cmd.Flags().GetString("event-log")

	util.InfoLog("Analyzing database %s", s.Path())
	summary, err := report.GenerateSummaryReport(s, eventLogPath)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	summary.DatabasePath = s.Path()

	outputDir, _ := cmd.Flags().GetString("out")
	if outputDir == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputDir = filepath.Join(GetConfigString("artifacts", defaultArtifacts), "reports", timestamp)
	}
	outputPath := filepath.Join(outputDir, "summary.md")

	util.InfoLog("Writing report to: %s", outputPath)
	if err := report.WriteMarkdownReport(summary, outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	util.SuccessLog("Report generated successfully!")
	for _, p := range summary.Protocols {
		util.InfoLog("  %s: %s files", p.Name, humanize.Comma(int64(p.Files)))
	}
	if len(summary.TopErrors) > 0 {
		util.WarnLog("  Errors: %d distinct", len(summary.TopErrors))
	}

	return nil
}
