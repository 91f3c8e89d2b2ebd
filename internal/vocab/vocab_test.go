package vocab

import (
	"errors"
	"testing"

	"github.com/asvspoof/asvdb/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for _, name := range GroupValues() {
		g, err := ParseGroup(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.String())
	}
	for _, name := range GenderValues() {
		g, err := ParseGender(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.String())
	}
	for _, name := range AttackValues() {
		a, err := ParseAttackType(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.String())
	}
}

func TestCodeVocabularies(t *testing.T) {
	assert.Equal(t, []string{"undefined", "S01", "S02", "S03", "S04", "S05", "S06", "S07", "S08", "S09", "S10"}, PhraseValues())
	assert.Len(t, EnvironmentValues(), 7)
	assert.Len(t, PlaybackValues(), 16)
	assert.Len(t, RecordingValues(), 17)
	assert.Equal(t, "R16", RecordingValues()[16])

	p, err := ParsePhrase("S07")
	require.NoError(t, err)
	assert.Equal(t, "S07", p.String())

	_, err = ParsePhrase("S11")
	assert.Error(t, err)
}

func TestPlaceholderMapsToUndefined(t *testing.T) {
	e, err := ParseEnvironment("-")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentUndefined, e)
	assert.Equal(t, Undefined, e.String())

	p, err := ParsePlaybackDevice("-")
	require.NoError(t, err)
	assert.Equal(t, PlaybackUndefined, p)

	r, err := ParseRecordingDevice("-")
	require.NoError(t, err)
	assert.Equal(t, RecordingUndefined, r)

	r, err = ParseRecordingDevice("R09")
	require.NoError(t, err)
	assert.Equal(t, "R09", r.String())
}

func TestInvalidValueError(t *testing.T) {
	_, err := ParsePurpose("attack")
	require.Error(t, err)

	var ive *InvalidValueError
	require.True(t, errors.As(err, &ive))
	assert.Equal(t, "purpose", ive.Param)
	assert.Equal(t, "attack", ive.Value)
	assert.Equal(t, []string{"genuine", "spoof"}, ive.Valid)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))
	assert.Contains(t, err.Error(), `"attack"`)
	assert.Contains(t, err.Error(), "genuine, spoof")
}

func TestValidate(t *testing.T) {
	out, err := Validate("group", nil, GroupValues())
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Validate("group", []string{"dev", "train", "dev"}, GroupValues())
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "train"}, out)

	out, err = Validate("group", []string{"", ""}, GroupValues())
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Validate("group", []string{"", "eval"}, GroupValues())
	require.NoError(t, err)
	assert.Equal(t, []string{"eval"}, out)

	_, err = Validate("group", []string{"world"}, GroupValues())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world")
	assert.Contains(t, err.Error(), "group")
	assert.Contains(t, err.Error(), "train, dev, eval")
}

func TestValuesReturnsCopy(t *testing.T) {
	v := GroupValues()
	v[0] = "mutated"
	assert.Equal(t, "train", GroupValues()[0])
}
