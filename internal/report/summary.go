package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

// SummaryReport describes the content of a corpus database
type SummaryReport struct {
	GeneratedAt time.Time

	Protocols []ProtocolSummary
	Clients   map[string]int // group -> client count

	// Details
	PlaybackDevices map[string]int
	TopErrors       []ErrorSummary

	// Metadata
	DatabasePath string
	EventLogPath string
}

// ProtocolSummary counts the files of one protocol
type ProtocolSummary struct {
	Name   string
	Files  int
	Splits []SplitSummary
}

// SplitSummary counts the files of one group of a protocol
type SplitSummary struct {
	Group   string
	Genuine int
	Spoof   int
}

// ErrorSummary represents an error with its count
type ErrorSummary struct {
	Error string
	Count int
}

// GenerateSummaryReport gathers the summary of db. When eventLogPath is set,
// errors recorded in that event log are tallied as well.
func GenerateSummaryReport(db *store.Store, eventLogPath string) (*SummaryReport, error) {
	report := &SummaryReport{
		GeneratedAt:     time.Now(),
		EventLogPath:    eventLogPath,
		Clients:         make(map[string]int),
		PlaybackDevices: make(map[string]int),
	}

	protocols, err := db.Protocols()
	if err != nil {
		return nil, err
	}

	for _, p := range protocols {
		name := p.Name
		files, err := db.QueryFiles(store.FileQuery{Protocols: []string{name}})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to summarize protocol %s", name)
		}

		splits := make(map[vocab.Group]*SplitSummary)
		for _, f := range files {
			split, ok := splits[f.Group]
			if !ok {
				split = &SplitSummary{Group: f.Group.String()}
				splits[f.Group] = split
			}
			if f.IsReal() {
				split.Genuine++
			} else {
				split.Spoof++
				report.PlaybackDevices[f.PlaybackDevice.String()]++
			}
		}

		summary := ProtocolSummary{Name: name, Files: len(files)}
		for _, group := range vocab.GroupValues() {
			g, _ := vocab.ParseGroup(group)
			if split, ok := splits[g]; ok {
				summary.Splits = append(summary.Splits, *split)
			}
		}
		report.Protocols = append(report.Protocols, summary)
	}

	clients, err := db.QueryClients(store.ClientQuery{})
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		report.Clients[c.Group.String()]++
	}

	if eventLogPath != "" {
		report.TopErrors, err = gatherTopErrors(eventLogPath, 10)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// gatherTopErrors tallies the error events of an event log
func gatherTopErrors(eventLogPath string, limit int) ([]ErrorSummary, error) {
	f, err := os.Open(eventLogPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open event log")
	}
	defer f.Close()

	errorCounts := make(map[string]int)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return nil, errors.Wrap(err, "malformed event log")
		}
		if event.Event == EventError && event.Error != "" {
			errorCounts[event.Error]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read event log")
	}

	summaries := make([]ErrorSummary, 0, len(errorCounts))
	for msg, count := range errorCounts {
		summaries = append(summaries, ErrorSummary{Error: msg, Count: count})
	}

	// Sort by count (descending), then message for stable output
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Error < summaries[j].Error
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// WriteMarkdownReport writes the summary report as Markdown
func WriteMarkdownReport(report *SummaryReport, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	var md strings.Builder

	// Header
	md.WriteString("# ASVspoof2017 Corpus - Summary Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))

	if report.DatabasePath != "" {
		md.WriteString(fmt.Sprintf("**Database:** `%s`\n\n", report.DatabasePath))
	}
	if report.EventLogPath != "" {
		md.WriteString(fmt.Sprintf("**Event Log:** `%s`\n\n", report.EventLogPath))
	}

	md.WriteString("---\n\n")

	// Protocols
	for _, p := range report.Protocols {
		md.WriteString(fmt.Sprintf("## Protocol %s\n\n", p.Name))
		md.WriteString("| Group | Genuine | Spoof | Total |\n")
		md.WriteString("|-------|---------|-------|-------|\n")
		for _, s := range p.Splits {
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", s.Group,
				humanize.Comma(int64(s.Genuine)), humanize.Comma(int64(s.Spoof)),
				humanize.Comma(int64(s.Genuine+s.Spoof))))
		}
		md.WriteString(fmt.Sprintf("| **all** | | | **%s** |\n\n", humanize.Comma(int64(p.Files))))
	}

	// Clients
	if len(report.Clients) > 0 {
		md.WriteString("## Clients\n\n")
		md.WriteString("| Group | Clients |\n")
		md.WriteString("|-------|---------|\n")
		for _, group := range vocab.GroupValues() {
			if n, ok := report.Clients[group]; ok {
				md.WriteString(fmt.Sprintf("| %s | %d |\n", group, n))
			}
		}
		md.WriteString("\n")
	}

	// Playback devices
	if len(report.PlaybackDevices) > 0 {
		md.WriteString("## Spoof Playback Devices\n\n")
		md.WriteString("| Device | Files |\n")
		md.WriteString("|--------|-------|\n")
		for _, device := range vocab.PlaybackValues() {
			if n, ok := report.PlaybackDevices[device]; ok {
				md.WriteString(fmt.Sprintf("| %s | %s |\n", device, humanize.Comma(int64(n))))
			}
		}
		md.WriteString("\n")
	}

	// Errors
	if len(report.TopErrors) > 0 {
		md.WriteString("## Errors\n\n")
		md.WriteString("| Count | Error |\n")
		md.WriteString("|-------|-------|\n")
		for _, e := range report.TopErrors {
			md.WriteString(fmt.Sprintf("| %d | `%s` |\n", e.Count, strings.ReplaceAll(e.Error, "|", "\\|")))
		}
		md.WriteString("\n")
	}

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}
