// Package query is the read side of the corpus database. Every filter value
// coming from a caller is checked against its vocabulary before it reaches
// SQL, so an unknown value fails loudly instead of matching nothing.
package query

import (
	"github.com/asvspoof/asvdb/internal/store"
	"github.com/asvspoof/asvdb/internal/util"
	"github.com/asvspoof/asvdb/internal/vocab"
	"github.com/cockroachdb/errors"
)

// NoProtocol is accepted by Clients in place of a protocol name
const NoProtocol = "."

// Database answers corpus queries on top of a populated store
type Database struct {
	store *store.Store
}

// New creates a Database reading from s
func New(s *store.Store) *Database {
	return &Database{store: s}
}

// ObjectFilter selects files. Each field takes any number of values; an empty
// field, or one holding only empty strings, applies no restriction. Fields
// are ANDed.
type ObjectFilter struct {
	Attacks   []string
	Protocols []string
	Groups    []string // client group
	Purposes  []string
	Genders   []string // client gender
	Clients   []string // client ids
}

// ClientFilter selects clients
type ClientFilter struct {
	Groups    []string
	Protocols []string
	Genders   []string
}

// Objects returns the distinct files matching f, ordered by path
func (d *Database) Objects(f ObjectFilter) ([]*store.File, error) {
	q, err := d.fileQuery(f)
	if err != nil {
		return nil, err
	}
	return d.store.QueryFiles(q)
}

func (d *Database) fileQuery(f ObjectFilter) (store.FileQuery, error) {
	var q store.FileQuery
	var err error

	if q.Groups, err = vocab.Validate("group", f.Groups, d.Groups()); err != nil {
		return q, err
	}
	if q.Genders, err = vocab.Validate("gender", f.Genders, d.Genders()); err != nil {
		return q, err
	}
	if q.Attacks, err = vocab.Validate("attacks", f.Attacks, d.AttackSupports()); err != nil {
		return q, err
	}
	if q.Purposes, err = vocab.Validate("purpose", f.Purposes, d.Purposes()); err != nil {
		return q, err
	}

	if protocols := vocab.NonEmpty(f.Protocols); len(protocols) > 0 {
		names, err := d.ProtocolNames()
		if err != nil {
			return q, err
		}
		if q.Protocols, err = vocab.Validate("protocol", protocols, names); err != nil {
			return q, err
		}
	}

	if clients := vocab.NonEmpty(f.Clients); len(clients) > 0 {
		ids, err := d.clientIDs()
		if err != nil {
			return q, err
		}
		if q.Clients, err = vocab.Validate("client", clients, ids); err != nil {
			return q, err
		}
	}

	return q, nil
}

// Files resolves the files matching f to full paths under directory with
// extension appended, keyed by file id
func (d *Database) Files(directory, extension string, f ObjectFilter) (map[int64]string, error) {
	files, err := d.Objects(f)
	if err != nil {
		return nil, err
	}
	paths := make(map[int64]string, len(files))
	for _, file := range files {
		paths[file.ID] = file.MakePath(directory, extension)
	}
	return paths, nil
}

// Clients returns the clients matching f, ordered by id. The protocol is
// checked for validity but does not restrict the result, clients are shared
// by every protocol.
func (d *Database) Clients(f ClientFilter) ([]*store.Client, error) {
	protocols := make([]string, 0, len(f.Protocols))
	for _, p := range vocab.NonEmpty(f.Protocols) {
		if p != NoProtocol {
			protocols = append(protocols, p)
		}
	}
	if len(protocols) > 0 {
		names, err := d.ProtocolNames()
		if err != nil {
			return nil, err
		}
		if _, err := vocab.Validate("protocol", protocols, names); err != nil {
			return nil, err
		}
	}

	groups, err := vocab.Validate("group", f.Groups, d.Groups())
	if err != nil {
		return nil, err
	}
	genders, err := vocab.Validate("gender", f.Genders, d.Genders())
	if err != nil {
		return nil, err
	}

	return d.store.QueryClients(store.ClientQuery{Groups: groups, Genders: genders})
}

func (d *Database) clientIDs() ([]string, error) {
	clients, err := d.store.QueryClients(store.ClientQuery{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return ids, nil
}

// HasClientID reports whether a client with the given id exists
func (d *Database) HasClientID(id string) (bool, error) {
	clients, err := d.store.ClientsByID(id)
	if err != nil {
		return false, err
	}
	return len(clients) > 0, nil
}

// Client returns the client with the given id. It fails with
// util.ErrNotFound or util.ErrAmbiguous unless exactly one row matches.
func (d *Database) Client(id string) (*store.Client, error) {
	clients, err := d.store.ClientsByID(id)
	if err != nil {
		return nil, err
	}
	switch len(clients) {
	case 0:
		return nil, errors.Wrapf(util.ErrNotFound, "client %q", id)
	case 1:
		return clients[0], nil
	default:
		return nil, errors.Wrapf(util.ErrAmbiguous, "client %q matches %d rows", id, len(clients))
	}
}

// Protocols returns every protocol
func (d *Database) Protocols() ([]*store.Protocol, error) {
	return d.store.Protocols()
}

// ProtocolNames returns the names of every protocol
func (d *Database) ProtocolNames() ([]string, error) {
	protocols, err := d.store.Protocols()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(protocols))
	for i, p := range protocols {
		names[i] = p.Name
	}
	return names, nil
}

// HasProtocol reports whether a protocol with the given name exists
func (d *Database) HasProtocol(name string) (bool, error) {
	protocols, err := d.store.ProtocolsByName(name)
	if err != nil {
		return false, err
	}
	return len(protocols) > 0, nil
}

// Protocol returns the protocol with the given name. It fails with
// util.ErrNotFound or util.ErrAmbiguous unless exactly one row matches.
func (d *Database) Protocol(name string) (*store.Protocol, error) {
	protocols, err := d.store.ProtocolsByName(name)
	if err != nil {
		return nil, err
	}
	switch len(protocols) {
	case 0:
		return nil, errors.Wrapf(util.ErrNotFound, "protocol %q", name)
	case 1:
		return protocols[0], nil
	default:
		return nil, errors.Wrapf(util.ErrAmbiguous, "protocol %q matches %d rows", name, len(protocols))
	}
}

// Groups returns the valid client groups
func (d *Database) Groups() []string { return vocab.GroupValues() }

// Genders returns the valid client genders
func (d *Database) Genders() []string { return vocab.GenderValues() }

// Purposes returns the valid file purposes
func (d *Database) Purposes() []string { return vocab.PurposeValues() }

// AttackSupports returns the valid attack types
func (d *Database) AttackSupports() []string { return vocab.AttackValues() }

// Paths resolves file ids to prefix + stored path + suffix. The result follows
// the order of ids; unknown ids are skipped.
func (d *Database) Paths(ids []int64, prefix, suffix string) ([]string, error) {
	files, err := d.store.FilesByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*store.File, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			paths = append(paths, f.MakePath(prefix, suffix))
		}
	}
	return paths, nil
}
