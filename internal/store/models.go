package store

import (
	"os"
	"path/filepath"

	"github.com/asvspoof/asvdb/internal/util"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
)

const (
	// AudioExtension is appended to File.Path for the audio sample itself
	AudioExtension = ".wav"

	// DataExtension is the default for derived blobs (features, annotations)
	DataExtension = ".hdf5"
)

// Client is a speaker of the corpus
type Client struct {
	ID     string
	Gender vocab.Gender
	Group  vocab.Group
}

// Protocol is a named partition scheme
type Protocol struct {
	ID   int64
	Name string
}

// File is one audio sample
type File struct {
	ID              int64
	ClientID        string
	Path            string
	Group           vocab.Group
	Purpose         vocab.Purpose
	AttackType      vocab.AttackType
	Phrase          vocab.Phrase
	Environment     vocab.Environment
	PlaybackDevice  vocab.PlaybackDevice
	RecordingDevice vocab.RecordingDevice
}

// ProtocolFile links a file to a protocol
type ProtocolFile struct {
	ID         int64
	ProtocolID int64
	FileID     int64
}

// MakePath joins directory, the stored path and extension. Both directory
// and extension may be empty.
func (f *File) MakePath(directory, extension string) string {
	return filepath.Join(directory, f.Path+extension)
}

// AudioFile returns the path of the audio sample under directory
func (f *File) AudioFile(directory string) string {
	return f.MakePath(directory, AudioExtension)
}

// IsReal reports whether the file is a genuine utterance
func (f *File) IsReal() bool {
	return f.Purpose == vocab.PurposeGenuine
}

// IsAttack reports whether the file is a spoof
func (f *File) IsAttack() bool {
	return f.Purpose == vocab.PurposeSpoof
}

// Load reads the blob stored for this file. An empty extension means DataExtension.
func (f *File) Load(directory, extension string) ([]byte, error) {
	if extension == "" {
		extension = DataExtension
	}
	data, err := os.ReadFile(f.MakePath(directory, extension))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", f.Path)
	}
	return data, nil
}

// Save writes data for this file, creating parent directories as needed.
// An empty extension means DataExtension.
func (f *File) Save(data []byte, directory, extension string) error {
	if extension == "" {
		extension = DataExtension
	}
	path := f.MakePath(directory, extension)
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
