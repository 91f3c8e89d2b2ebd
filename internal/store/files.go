package store

import (
	"database/sql"
	"strings"

	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
)

// fileColumns selects every file column from a table aliased as f
const fileColumns = `f.id, f.client_id, f.path, f."group", f.purpose, f.attacktype,
	f.common_phrase, f.environment, f.playback_device, f.recording_device`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanFile reads one row selected with fileColumns. sql.ErrNoRows is returned
// unwrapped.
func scanFile(row rowScanner) (*File, error) {
	f := &File{}
	var group, purpose, attack, phrase, env, playback, recording string
	err := row.Scan(&f.ID, &f.ClientID, &f.Path, &group, &purpose, &attack,
		&phrase, &env, &playback, &recording)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan file")
	}

	if f.Group, err = vocab.ParseGroup(group); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.Purpose, err = vocab.ParsePurpose(purpose); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.AttackType, err = vocab.ParseAttackType(attack); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.Phrase, err = vocab.ParsePhrase(phrase); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.Environment, err = vocab.ParseEnvironment(env); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.PlaybackDevice, err = vocab.ParsePlaybackDevice(playback); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	if f.RecordingDevice, err = vocab.ParseRecordingDevice(recording); err != nil {
		return nil, errors.Wrapf(err, "file %d", f.ID)
	}
	return f, nil
}

func scanFiles(rows *sql.Rows) ([]*File, error) {
	defer rows.Close()

	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// FileQuery restricts QueryFiles. Empty fields add no constraint; non-empty
// fields are ANDed, values within a field are ORed.
type FileQuery struct {
	Protocols []string // protocol names
	Groups    []string // client group
	Genders   []string // client gender
	Purposes  []string
	Attacks   []string
	Clients   []string // client ids
}

// QueryFiles joins file, protocolfiles, protocol and client, applies q and
// returns distinct files ordered by path
func (s *Store) QueryFiles(q FileQuery) ([]*File, error) {
	var where []string
	var args []any

	where, args = appendIn(where, args, `p.name`, q.Protocols)
	where, args = appendIn(where, args, `c."group"`, q.Groups)
	where, args = appendIn(where, args, `c.gender`, q.Genders)
	where, args = appendIn(where, args, `f.purpose`, q.Purposes)
	where, args = appendIn(where, args, `f.attacktype`, q.Attacks)
	where, args = appendIn(where, args, `c.id`, q.Clients)

	query := `
		SELECT DISTINCT ` + fileColumns + `
		FROM file f
		JOIN protocolfiles pf ON pf.file_id = f.id
		JOIN protocol p ON p.id = pf.protocol_id
		JOIN client c ON c.id = f.client_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY f.path"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query files")
	}
	return scanFiles(rows)
}

// FilesByIDs returns the files with the given ids, in no particular order.
// Unknown ids are ignored.
func (s *Store) FilesByIDs(ids []int64) ([]*File, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT `+fileColumns+` FROM file f WHERE f.id IN (`+
		strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query files by id")
	}
	return scanFiles(rows)
}

// GetFileByPath retrieves a file by its unique path. Returns nil, nil when
// no such file exists.
func (s *Store) GetFileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow(`SELECT `+fileColumns+` FROM file f WHERE f.path = ?`, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file")
	}
	return f, nil
}

// appendIn adds "column IN (?, ...)" for a non-empty values list
func appendIn(where []string, args []any, column string, values []string) ([]string, []any) {
	if len(values) == 0 {
		return where, args
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args = append(args, v)
	}
	where = append(where, column+" IN ("+strings.Join(placeholders, ", ")+")")
	return where, args
}
