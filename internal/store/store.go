package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	currentSchemaVersion = 2
)

// Store is the corpus database
type Store struct {
	db   *sql.DB
	path string
}

// OpenOptions holds options for opening a database
type OpenOptions struct {
	ReadOnly bool // Open the file read-only (query side)
}

// Open opens or creates a SQLite database at the given path with default options
func Open(path string) (*Store, error) {
	return OpenWithOptions(path, nil)
}

// OpenWithOptions opens or creates a SQLite database with custom options
func OpenWithOptions(path string, opts *OpenOptions) (*Store, error) {
	if opts == nil {
		opts = &OpenOptions{}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", escapePath(path))
	if opts.ReadOnly {
		dsn += "&mode=ro"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Single connection: ingestion is one writer, queries are sequential
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db, path: path}

	if opts.ReadOnly {
		version, err := store.getSchemaVersion()
		if err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to read schema version")
		}
		if version < currentSchemaVersion {
			db.Close()
			return nil, errors.Newf("database %s has schema version %d, expected %d (run create first)",
				path, version, currentSchemaVersion)
		}
		return store, nil
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migration failed")
	}

	return store, nil
}

// uriEscaper escapes the characters that end or alter the path of an SQLite URI
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// escapePath makes path safe to place in a file: URI
func escapePath(path string) string {
	return uriEscaper.Replace(path)
}

// newWithDB wraps an existing connection without migrating it
func newWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// SQLiteVersion returns the SQLite version string
func SQLiteVersion() string {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return ""
	}
	defer db.Close()

	var version string
	err = db.QueryRow("SELECT sqlite_version()").Scan(&version)
	if err != nil {
		return ""
	}
	return version
}

// CheckIntegrity runs PRAGMA integrity_check on the database
func (s *Store) CheckIntegrity() error {
	var result string
	err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return errors.Wrap(err, "integrity check query failed")
	}

	if result != "ok" {
		return errors.Newf("integrity check failed: %s", result)
	}

	return nil
}

// migrate applies database migrations
func (s *Store) migrate() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version >= currentSchemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if version < 1 {
		if _, err := tx.Exec(schemaV1); err != nil {
			return errors.Wrap(err, "failed to apply schema v1")
		}
		if err := s.setSchemaVersion(tx, 1); err != nil {
			return errors.Wrap(err, "failed to set schema version")
		}
	}

	// v2 - link uniqueness. Databases written before it may hold duplicate
	// links, collapse them first so the unique index can be built.
	if version < 2 {
		if _, err := tx.Exec(`
			DELETE FROM protocolfiles WHERE id NOT IN (
				SELECT MIN(id) FROM protocolfiles GROUP BY protocol_id, file_id
			)`); err != nil {
			return errors.Wrap(err, "failed to collapse duplicate links")
		}
		if _, err := tx.Exec(schemaV2); err != nil {
			return errors.Wrap(err, "failed to apply schema v2")
		}
		if err := s.setSchemaVersion(tx, 2); err != nil {
			return errors.Wrap(err, "failed to set schema version")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration")
	}

	return nil
}

// getSchemaVersion returns the current schema version
func (s *Store) getSchemaVersion() (int, error) {
	var exists int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&exists)
	if err != nil {
		return 0, err
	}

	if exists == 0 {
		return 0, nil
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion records a schema version in a transaction
func (s *Store) setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// Transaction executes fn within a single transaction. Any error returned by
// fn rolls back everything fn wrote.
func (s *Store) Transaction(fn func(*Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
