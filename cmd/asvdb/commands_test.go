package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asvspoof/asvdb/internal/ingest"
	"github.com/asvspoof/asvdb/internal/ingest/ingesttest"
	"github.com/asvspoof/asvdb/internal/query"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDatabase(t *testing.T) *query.Database {
	t.Helper()
	protoDir := t.TempDir()
	require.NoError(t, ingesttest.WriteCompetition(protoDir))

	s, err := store.Open(filepath.Join(t.TempDir(), "asvspoof2017.sql3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = ingest.New(&ingest.Config{Store: s}).Run(context.Background(), protoDir, "")
	require.NoError(t, err)
	return query.New(s)
}

func TestDumplist(t *testing.T) {
	db := createTestDatabase(t)

	var buf bytes.Buffer
	err := dumplist(&buf, db, query.ObjectFilter{
		Groups:   []string{"dev"},
		Purposes: []string{"genuine"},
	}, "/corpus", ".wav")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, ingesttest.DevGenuine)
	assert.Equal(t, filepath.Join("/corpus", "dev", "D_1000001.wav"), lines[0])
}

func TestDumplist_InvalidFilter(t *testing.T) {
	db := createTestDatabase(t)

	var buf bytes.Buffer
	err := dumplist(&buf, db, query.ObjectFilter{Purposes: []string{"real"}}, "", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Empty(t, buf.String())
}

func TestFindMissing(t *testing.T) {
	db := createTestDatabase(t)
	files, err := db.Objects(query.ObjectFilter{Clients: []string{"M0001"}})
	require.NoError(t, err)
	require.True(t, len(files) > 4)

	dir := t.TempDir()
	for _, f := range files[2:] {
		require.NoError(t, f.Save(nil, dir, store.AudioExtension))
	}

	missing := findMissing(files, dir, store.AudioExtension, 4)
	assert.Equal(t, []string{
		files[0].AudioFile(dir),
		files[1].AudioFile(dir),
	}, missing)

	// A file present under another extension still counts as missing
	require.NoError(t, os.WriteFile(files[0].MakePath(dir, ".txt"), nil, 0644))
	assert.Len(t, findMissing(files, dir, store.AudioExtension, 0), 2)
}

func TestGetConfigInt(t *testing.T) {
	t.Cleanup(func() { viper.Set("concurrency", nil) })

	viper.Set("concurrency", 3)
	assert.Equal(t, 3, GetConfigInt("concurrency", defaultConcurrency))

	viper.Set("concurrency", 0)
	assert.Equal(t, defaultConcurrency, GetConfigInt("concurrency", defaultConcurrency))

	viper.Set("concurrency", -2)
	assert.Equal(t, defaultConcurrency, GetConfigInt("concurrency", defaultConcurrency))
}
