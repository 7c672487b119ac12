package store

import "database/sql"

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// Store bundles the per-entity repositories over one shared database
// handle. Repositories return plain data objects, never live handles.
type Store struct {
	db *sql.DB

	Users        *Users
	Sites        *Sites
	ContentTypes *ContentTypes
	Entries      *Entries
	Events       *Events
}

// New creates a Store with all repositories sharing the given handle.
func New(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Users:        &Users{db: db},
		Sites:        &Sites{db: db},
		ContentTypes: &ContentTypes{db: db},
		Entries:      &Entries{db: db},
		Events:       &Events{db: db},
	}
}
