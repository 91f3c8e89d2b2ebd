package store

import (
	"strings"

	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
)

func parseClient(id, gender, group string) (*Client, error) {
	c := &Client{ID: id}
	var err error
	if c.Gender, err = vocab.ParseGender(gender); err != nil {
		return nil, errors.Wrapf(err, "client %s", id)
	}
	if c.Group, err = vocab.ParseGroup(group); err != nil {
		return nil, errors.Wrapf(err, "client %s", id)
	}
	return c, nil
}

// ClientQuery restricts QueryClients. Empty fields add no constraint.
type ClientQuery struct {
	IDs     []string
	Groups  []string
	Genders []string
}

// QueryClients returns the clients matching q ordered by id
func (s *Store) QueryClients(q ClientQuery) ([]*Client, error) {
	var where []string
	var args []any
	where, args = appendIn(where, args, `id`, q.IDs)
	where, args = appendIn(where, args, `"group"`, q.Groups)
	where, args = appendIn(where, args, `gender`, q.Genders)

	query := `SELECT id, gender, "group" FROM client`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query clients")
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		var id, gender, group string
		if err := rows.Scan(&id, &gender, &group); err != nil {
			return nil, errors.Wrap(err, "failed to scan client")
		}
		c, err := parseClient(id, gender, group)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// ClientsByID returns every client row with the given id (zero or one, the id
// is the primary key)
func (s *Store) ClientsByID(id string) ([]*Client, error) {
	return s.QueryClients(ClientQuery{IDs: []string{id}})
}

// CountClients returns the number of client rows
func (s *Store) CountClients() (int, error) {
	return s.count("client")
}

// CountFiles returns the number of file rows
func (s *Store) CountFiles() (int, error) {
	return s.count("file")
}

// CountLinks returns the number of protocol/file link rows
func (s *Store) CountLinks() (int, error) {
	return s.count("protocolfiles")
}

// CountProtocols returns the number of protocol rows
func (s *Store) CountProtocols() (int, error) {
	return s.count("protocol")
}

func (s *Store) count(table string) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "failed to count %s rows", table)
	}
	return n, nil
}
