package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// extensionLen is the length of the audio extension (".wav") that
	// protocol files append to every sample name
	extensionLen = 4

	// HiddenClientID stands in for the speaker of evaluation samples, whose
	// identity the corpus does not disclose
	HiddenClientID = "E0001"
)

// Record is one parsed protocol line
type Record struct {
	Line     int
	ClientID string
	File     store.File
}

// LineError reports a protocol line that cannot be ingested
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLine parses one protocol line of a file belonging to group.
// Blank lines yield nil, nil. Lines have either 2 fields (evaluation
// layout: name, phrase) or 7 fields (train/dev layout: name, purpose, client,
// phrase, environment, playback device, recording device).
func ParseLine(line string, group vocab.Group, samplesDir string) (*Record, error) {
	fields := strings.Fields(norm.NFC.String(line))

	switch len(fields) {
	case 0:
		return nil, nil
	case 2:
		return parseEvalFields(fields, group, samplesDir)
	case 7:
		return parseTrainFields(fields, group, samplesDir)
	default:
		return nil, errors.Wrapf(util.ErrMalformed, "expected 7 or 2 fields per line, got %d", len(fields))
	}
}

func parseEvalFields(fields []string, group vocab.Group, samplesDir string) (*Record, error) {
	stem, err := stripExtension(fields[0])
	if err != nil {
		return nil, err
	}
	phrase, err := vocab.ParsePhrase(fields[1])
	if err != nil {
		return nil, err
	}

	return &Record{
		ClientID: HiddenClientID,
		File: store.File{
			ClientID:        HiddenClientID,
			Path:            samplePath(samplesDir, group, stem),
			Group:           group,
			Purpose:         vocab.PurposeSpoof,
			AttackType:      vocab.AttackSpoof,
			Phrase:          phrase,
			Environment:     vocab.EnvironmentUndefined,
			PlaybackDevice:  vocab.PlaybackUndefined,
			RecordingDevice: vocab.RecordingUndefined,
		},
	}, nil
}

func parseTrainFields(fields []string, group vocab.Group, samplesDir string) (*Record, error) {
	stem, err := stripExtension(fields[0])
	if err != nil {
		return nil, err
	}

	purpose, err := vocab.ParsePurpose(fields[1])
	if err != nil {
		return nil, err
	}
	attack := vocab.AttackUndefined
	if purpose == vocab.PurposeSpoof {
		attack = vocab.AttackSpoof
	}

	clientID := fields[2]
	phrase, err := vocab.ParsePhrase(fields[3])
	if err != nil {
		return nil, err
	}
	env, err := vocab.ParseEnvironment(fields[4])
	if err != nil {
		return nil, err
	}
	playback, err := vocab.ParsePlaybackDevice(fields[5])
	if err != nil {
		return nil, err
	}
	recording, err := vocab.ParseRecordingDevice(fields[6])
	if err != nil {
		return nil, err
	}

	return &Record{
		ClientID: clientID,
		File: store.File{
			ClientID:        clientID,
			Path:            samplePath(samplesDir, group, stem),
			Group:           group,
			Purpose:         purpose,
			AttackType:      attack,
			Phrase:          phrase,
			Environment:     env,
			PlaybackDevice:  playback,
			RecordingDevice: recording,
		},
	}, nil
}

// stripExtension drops the fixed-width audio extension from a sample name
func stripExtension(name string) (string, error) {
	if len(name) <= extensionLen {
		return "", errors.Wrapf(util.ErrMalformed, "sample name %q is too short", name)
	}
	return name[:len(name)-extensionLen], nil
}

// samplePath is where a sample lives relative to the samples directory.
// Samples are stored in one folder per group.
func samplePath(samplesDir string, group vocab.Group, stem string) string {
	return filepath.Join(samplesDir, group.String(), stem)
}
