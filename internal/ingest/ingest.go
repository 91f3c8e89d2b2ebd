// Package ingest populates the corpus database from the ASVspoof2017
// protocol description files.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asvspoof/asvdb/internal/report"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
	"github.com/schollz/progressbar/v3"
)

const (
	// ProtocolPattern matches protocol description files inside the protocol directory
	ProtocolPattern = "ASVspoof2017_*"

	// ProtocolCompetition is the protocol used in the ASVspoof 2017 challenge
	ProtocolCompetition = "competition"
)

// Ingester reads protocol files into a store
type Ingester struct {
	store    *store.Store
	protocol string
	logger   *report.EventLogger
}

// Config holds ingester configuration
type Config struct {
	Store    *store.Store
	Protocol string // defaults to ProtocolCompetition
	Logger   *report.EventLogger
}

// New creates a new Ingester
func New(cfg *Config) *Ingester {
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = ProtocolCompetition
	}
	return &Ingester{
		store:    cfg.Store,
		protocol: protocol,
		logger:   cfg.Logger,
	}
}

// Result summarizes an ingestion run
type Result struct {
	ProtocolFiles  int
	Lines          int
	ClientsCreated int
	FilesCreated   int
	FilesReused    int
	LinksCreated   int
	Duration       time.Duration
}

func (r *Result) counts() map[string]int {
	return map[string]int{
		"protocol_files":  r.ProtocolFiles,
		"lines":           r.Lines,
		"clients_created": r.ClientsCreated,
		"files_created":   r.FilesCreated,
		"files_reused":    r.FilesReused,
		"links_created":   r.LinksCreated,
	}
}

// Discover lists the protocol description files of protoDir, sorted by name
func Discover(protoDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(protoDir, ProtocolPattern))
	if err != nil {
		return nil, errors.Wrap(err, "invalid protocol pattern")
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", m)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// GroupFromFilename derives the group a protocol file describes. The group
// is the second underscore-separated token of the file name without its
// extension, e.g. "ASVspoof2017_dev.txt" -> dev.
func GroupFromFilename(path string) (vocab.Group, error) {
	base := filepath.Base(strings.TrimSpace(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return 0, errors.Wrapf(util.ErrUnsupported, "protocol file %q has no group in its name", path)
	}
	token, _, _ := strings.Cut(parts[1], ".")

	group, err := vocab.ParseGroup(token)
	if err != nil {
		return 0, errors.Wrapf(err, "protocol file %q", path)
	}
	return group, nil
}

// Run ingests every protocol file of protoDir in one transaction. Sample paths
// are rooted at samplesDir. Nothing is committed unless every line of every
// file is ingested successfully.
func (i *Ingester) Run(ctx context.Context, protoDir, samplesDir string) (*Result, error) {
	start := time.Now()

	if i.protocol != ProtocolCompetition {
		return nil, errors.Wrapf(util.ErrUnsupported, "protocol %q", i.protocol)
	}

	files, err := Discover(protoDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(util.ErrNotFound, "no protocol files matching %s in %s", ProtocolPattern, protoDir)
	}

	result := &Result{}
	err = i.store.Transaction(func(tx *store.Tx) error {
		for _, path := range files {
			if err := i.ingestFile(ctx, tx, path, samplesDir, result); err != nil {
				return err
			}
			result.ProtocolFiles++
		}
		return nil
	})
	if err != nil {
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			i.logger.LogError(lineErr.File, lineErr.Line, lineErr.Err)
		} else {
			i.logger.LogError("", 0, err)
		}
		return nil, err
	}

	result.Duration = time.Since(start)
	i.logger.LogSummary(result.counts())
	return result, nil
}

func (i *Ingester) ingestFile(ctx context.Context, tx *store.Tx, path, samplesDir string, result *Result) error {
	util.InfoLog("Processing file %s", path)

	group, err := GroupFromFilename(path)
	if err != nil {
		return err
	}

	protocol, created, err := tx.EnsureProtocol(i.protocol)
	if err != nil {
		return err
	}
	i.logger.LogProtocol(protocol.Name, created)

	lines, err := readLines(path)
	if err != nil {
		return err
	}
	i.logger.LogProtocolFile(path, i.protocol, group.String(), len(lines))
	util.DebugLog("Group %s, %d lines", group, len(lines))

	var bar *progressbar.ProgressBar
	if util.ShowProgress() {
		bar = progressbar.NewOptions(len(lines),
			progressbar.OptionSetDescription(filepath.Base(path)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	for n, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := ParseLine(line, group, samplesDir)
		if err != nil {
			return &LineError{File: path, Line: n + 1, Err: err}
		}
		if bar != nil {
			bar.Add(1)
		}
		if rec == nil {
			continue
		}
		rec.Line = n + 1

		if err := i.addRecord(tx, path, rec, result); err != nil {
			return &LineError{File: path, Line: rec.Line, Err: err}
		}
		result.Lines++
	}

	return nil
}

// addRecord stores one parsed line: the client and file are reused when they
// already exist, the protocol must exist, and the file is linked to it
func (i *Ingester) addRecord(tx *store.Tx, protocolFile string, rec *Record, result *Result) error {
	client := &store.Client{
		ID:     rec.ClientID,
		Gender: vocab.GenderUndefined,
		Group:  rec.File.Group,
	}
	created, err := tx.FindOrCreateClient(client)
	if err != nil {
		return err
	}
	if created {
		result.ClientsCreated++
		i.logger.LogClient(client.ID, client.Group.String())
	}

	file := rec.File
	file.ClientID = client.ID
	created, err = tx.FindOrCreateFile(&file)
	if err != nil {
		return err
	}
	if created {
		result.FilesCreated++
	} else {
		result.FilesReused++
		util.DebugLog("Reusing existing file %s", file.Path)
	}

	protocol, err := tx.ProtocolByName(i.protocol)
	if err != nil {
		return errors.WithHint(err, "protocols must be created before adding files to the database")
	}

	linked, err := tx.LinkFile(protocol.ID, file.ID)
	if err != nil {
		return err
	}
	if linked {
		result.LinksCreated++
	}

	i.logger.LogRecord(protocolFile, rec.Line, client.ID, file.Path, created)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open protocol file %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read protocol file %s", path)
	}
	return lines, nil
}

// String renders the result for logs
func (r *Result) String() string {
	return fmt.Sprintf("%d protocol files, %d lines, %d clients, %d files (%d reused), %d links",
		r.ProtocolFiles, r.Lines, r.ClientsCreated, r.FilesCreated, r.FilesReused, r.LinksCreated)
}
