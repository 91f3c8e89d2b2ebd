package store

import (
	"database/sql"

	"github.com/asvspoof/asvdb/internal/util"
	"github.com/cockroachdb/errors"
)

// Tx is the write side of the store, valid only inside Store.Transaction.
// Rows are looked up by their natural key before being inserted, so running
// the same ingestion twice reuses existing clients, files and links.
type Tx struct {
	tx *sql.Tx
}

// ProtocolByName returns the protocol with the given name, or util.ErrNotFound
func (t *Tx) ProtocolByName(name string) (*Protocol, error) {
	p := &Protocol{}
	err := t.tx.QueryRow(`SELECT id, name FROM protocol WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(util.ErrNotFound, "protocol %q", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get protocol")
	}
	return p, nil
}

// EnsureProtocol creates the protocol if it does not exist yet.
// Returns the row and whether it was created.
func (t *Tx) EnsureProtocol(name string) (*Protocol, bool, error) {
	p, err := t.ProtocolByName(name)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, false, err
	}

	result, err := t.tx.Exec(`INSERT INTO protocol (name) VALUES (?)`, name)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to insert protocol")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get protocol ID")
	}
	return &Protocol{ID: id, Name: name}, true, nil
}

// FindOrCreateClient looks c up by ID and inserts it when missing. When the
// client already exists, c is overwritten with the stored row.
// Returns whether a row was created.
func (t *Tx) FindOrCreateClient(c *Client) (bool, error) {
	var gender, group string
	err := t.tx.QueryRow(`SELECT gender, "group" FROM client WHERE id = ?`, c.ID).Scan(&gender, &group)
	if err == nil {
		existing, err := parseClient(c.ID, gender, group)
		if err != nil {
			return false, err
		}
		*c = *existing
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, errors.Wrap(err, "failed to get client")
	}

	_, err = t.tx.Exec(`INSERT INTO client (id, gender, "group") VALUES (?, ?, ?)`,
		c.ID, c.Gender.String(), c.Group.String())
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert client %s", c.ID)
	}
	return true, nil
}

// FindOrCreateFile looks f up by path and inserts it when missing. When the
// file already exists, f is overwritten with the stored row.
// Returns whether a row was created.
func (t *Tx) FindOrCreateFile(f *File) (bool, error) {
	row := t.tx.QueryRow(`SELECT `+fileColumns+` FROM file f WHERE f.path = ?`, f.Path)
	existing, err := scanFile(row)
	if err == nil {
		*f = *existing
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	result, err := t.tx.Exec(`
		INSERT INTO file (client_id, path, "group", purpose, attacktype,
		                  common_phrase, environment, playback_device, recording_device)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ClientID, f.Path, f.Group.String(), f.Purpose.String(), f.AttackType.String(),
		f.Phrase.String(), f.Environment.String(), f.PlaybackDevice.String(), f.RecordingDevice.String())
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert file %s", f.Path)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, errors.Wrap(err, "failed to get file ID")
	}
	f.ID = id
	return true, nil
}

// LinkFile attaches a file to a protocol. Linking an already linked pair is a
// no-op. Returns whether a link row was created.
func (t *Tx) LinkFile(protocolID, fileID int64) (bool, error) {
	result, err := t.tx.Exec(`
		INSERT INTO protocolfiles (protocol_id, file_id) VALUES (?, ?)
		ON CONFLICT(protocol_id, file_id) DO NOTHING
	`, protocolID, fileID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to link file %d to protocol %d", fileID, protocolID)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to get affected rows")
	}
	return n > 0, nil
}
