package store

import (
	"errors"
	"strings"

	sqlite3 "modernc.org/sqlite"
)

// Sentinel errors surfaced by the repositories. Callers match them with
// errors.Is and map them to protocol-specific responses.
var (
	// ErrInvalidID reports a malformed external identifier. Always a
	// caller bug or bad external input, never worth retrying.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotFound reports that the addressed entity does not exist or is
	// excluded by the active soft-delete scope.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a unique-constraint rejection from the
	// store, mapped to a domain "already exists" condition. Retrying
	// without changing the conflicting value would just fail again.
	ErrAlreadyExists = errors.New("already exists")
)

// SQLite extended result codes for unique-constraint violations.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// mapWriteError translates store-level constraint rejections into domain
// errors. Uniqueness is enforced by the partial unique indexes rather than
// read-then-write checks, so concurrent creators race only at the index.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqliteConstraintPrimaryKey, sqliteConstraintUnique:
			return ErrAlreadyExists
		}
		return err
	}
	// The driver occasionally wraps constraint failures in plain errors.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrAlreadyExists
	}
	return err
}
