package ingest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/asvspoof/asvdb/internal/util"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_TrainLayout(t *testing.T) {
	rec, err := ParseLine("T_1001509.wav spoof M0003 S02 E03 P07 R12", vocab.GroupTrain, "/data")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "M0003", rec.ClientID)
	assert.Equal(t, filepath.Join("/data", "train", "T_1001509"), rec.File.Path)
	assert.Equal(t, vocab.GroupTrain, rec.File.Group)
	assert.Equal(t, vocab.PurposeSpoof, rec.File.Purpose)
	assert.Equal(t, vocab.AttackSpoof, rec.File.AttackType)
	assert.Equal(t, "S02", rec.File.Phrase.String())
	assert.Equal(t, "E03", rec.File.Environment.String())
	assert.Equal(t, "P07", rec.File.PlaybackDevice.String())
	assert.Equal(t, "R12", rec.File.RecordingDevice.String())
}

func TestParseLine_GenuinePlaceholders(t *testing.T) {
	rec, err := ParseLine("D_1000001.wav genuine M0011 S01 - - -", vocab.GroupDev, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("dev", "D_1000001"), rec.File.Path)
	assert.Equal(t, vocab.PurposeGenuine, rec.File.Purpose)
	assert.Equal(t, vocab.AttackUndefined, rec.File.AttackType)
	assert.Equal(t, vocab.EnvironmentUndefined, rec.File.Environment)
	assert.Equal(t, vocab.PlaybackUndefined, rec.File.PlaybackDevice)
	assert.Equal(t, vocab.RecordingUndefined, rec.File.RecordingDevice)
	assert.Equal(t, vocab.Undefined, rec.File.Environment.String())
}

func TestParseLine_EvalLayout(t *testing.T) {
	rec, err := ParseLine("E_1000001.wav S07", vocab.GroupEval, "/data")
	require.NoError(t, err)

	assert.Equal(t, HiddenClientID, rec.ClientID)
	assert.Equal(t, HiddenClientID, rec.File.ClientID)
	assert.Equal(t, filepath.Join("/data", "eval", "E_1000001"), rec.File.Path)
	assert.Equal(t, vocab.PurposeSpoof, rec.File.Purpose)
	assert.Equal(t, vocab.AttackSpoof, rec.File.AttackType)
	assert.Equal(t, "S07", rec.File.Phrase.String())
	assert.Equal(t, vocab.EnvironmentUndefined, rec.File.Environment)
}

func TestParseLine_Whitespace(t *testing.T) {
	rec, err := ParseLine("  T_1000001.wav\tgenuine  M0001 S01 - - -\r", vocab.GroupTrain, "")
	require.NoError(t, err)
	assert.Equal(t, "M0001", rec.ClientID)

	rec, err = ParseLine("   ", vocab.GroupTrain, "")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"three fields", "T_1.wav genuine M0001", util.ErrMalformed},
		{"eight fields", "T_1.wav genuine M0001 S01 - - - extra", util.ErrMalformed},
		{"short name", ".wav genuine M0001 S01 - - -", util.ErrMalformed},
		{"bad purpose", "T_1.wav attack M0001 S01 - - -", util.ErrInvalidInput},
		{"bad phrase", "T_1.wav genuine M0001 S11 - - -", util.ErrInvalidInput},
		{"bad environment", "T_1.wav spoof M0001 S01 E07 P01 R01", util.ErrInvalidInput},
		{"bad playback", "T_1.wav spoof M0001 S01 E01 P16 R01", util.ErrInvalidInput},
		{"bad recording", "T_1.wav spoof M0001 S01 E01 P01 R17", util.ErrInvalidInput},
		{"bad eval phrase", "E_1.wav -", util.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line, vocab.GroupTrain, "")
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
		})
	}
}

func TestLineError(t *testing.T) {
	err := &LineError{File: "ASVspoof2017_train.trn.txt", Line: 12, Err: util.ErrMalformed}
	assert.Equal(t, "ASVspoof2017_train.trn.txt:12: malformed protocol line", err.Error())
	assert.ErrorIs(t, err, util.ErrMalformed)
}
