package store

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestStore opens a fresh migrated database in a per-test temp
// directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return New(db)
}

// seedUser creates a minimal active user for tests that need an actor or
// a listing fixture.
func seedUser(t *testing.T, s *Store, name, email string, roles ...string) int64 {
	t.Helper()

	user, err := s.Users.Create(context.Background(), CreateUserInput{
		Name:  name,
		Email: email,
		Roles: roles,
	}, nil)
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user.ID
}
