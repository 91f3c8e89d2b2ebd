package main

import (
	"github.com/asvspoof/asvdb/internal/query"
	"github.com/asvspoof/asvdb/internal/report"
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	defaultDatabase  = "asvspoof2017.sql3"
	defaultArtifacts = "artifacts"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (ASVDB_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigInt retrieves an int config value with proper precedence
func GetConfigInt(key string, defaultValue int) int {
	val := viper.GetInt(key)
	if val <= 0 {
		return defaultValue
	}
	return val
}

// eventLevel maps the console verbosity to the event log level
func eventLevel() report.EventLevel {
	if viper.GetBool("quiet") {
		return report.LevelWarning
	}
	if viper.GetBool("verbose") {
		return report.LevelDebug
	}
	return report.LevelInfo
}

// openDatabase opens the configured database read-only for queries
func openDatabase() (*store.Store, *query.Database, error) {
	dbPath := GetConfigString("db", defaultDatabase)
	s, err := store.OpenWithOptions(dbPath, &store.OpenOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open database %s", dbPath)
	}
	return s, query.New(s), nil
}
