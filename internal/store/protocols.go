package store

import "github.com/cockroachdb/errors"

// Protocols returns every protocol ordered by id
func (s *Store) Protocols() ([]*Protocol, error) {
	return s.queryProtocols(`SELECT id, name FROM protocol ORDER BY id`)
}

// ProtocolsByName returns the protocols with the given name (zero or one, the
// name is unique)
func (s *Store) ProtocolsByName(name string) ([]*Protocol, error) {
	return s.queryProtocols(`SELECT id, name FROM protocol WHERE name = ? ORDER BY id`, name)
}

func (s *Store) queryProtocols(query string, args ...any) ([]*Protocol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query protocols")
	}
	defer rows.Close()

	var protocols []*Protocol
	for rows.Next() {
		p := &Protocol{}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan protocol")
		}
		protocols = append(protocols, p)
	}
	return protocols, rows.Err()
}
