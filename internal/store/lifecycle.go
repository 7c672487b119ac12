package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/hcms-go/internal/util"
)

// Scope selects the soft-delete visibility of a read.
type Scope int

// Soft-delete scopes
const (
	// ScopeLive excludes soft-deleted rows. The default for every read.
	ScopeLive Scope = iota
	// ScopeWithDeleted keeps soft-deleted rows visible alongside live ones.
	ScopeWithDeleted
	// ScopeOnlyDeleted restricts the read to soft-deleted rows.
	ScopeOnlyDeleted
)

// softDeleteRow marks a row deleted: is_deleted and deleted_at move in a
// single UPDATE so the pairing invariant cannot be observed half-applied.
// Re-running on an already-deleted row re-stamps deleted_at; callers that
// need true idempotence check the flag first. A missing id is a silent
// no-op.
func softDeleteRow(ctx context.Context, db *sql.DB, table string, id int64, actorID *int64) error {
	now := time.Now().UTC()
	query := fmt.Sprintf(
		`UPDATE %s SET is_deleted = 1, deleted_at = ?, updated_at = ?, updated_by = COALESCE(?, updated_by) WHERE id = ?`,
		table)
	if _, err := db.ExecContext(ctx, query, now, now, util.NullInt64FromPtr(actorID), id); err != nil {
		return fmt.Errorf("soft deleting %s %d: %w", table, id, err)
	}
	return nil
}

// restoreRow is the inverse transition: clears the flag and deleted_at
// together. Restoring a live row leaves it unchanged aside from the
// updated_at/updated_by bookkeeping. A missing id is a silent no-op.
// Restoring into a natural key now held by a live row trips the partial
// unique index and returns ErrAlreadyExists.
func restoreRow(ctx context.Context, db *sql.DB, table string, id int64, actorID *int64) error {
	now := time.Now().UTC()
	query := fmt.Sprintf(
		`UPDATE %s SET is_deleted = 0, deleted_at = NULL, updated_at = ?, updated_by = COALESCE(?, updated_by) WHERE id = ?`,
		table)
	if _, err := db.ExecContext(ctx, query, now, util.NullInt64FromPtr(actorID), id); err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, ErrAlreadyExists) {
			return mapped
		}
		return fmt.Errorf("restoring %s %d: %w", table, id, err)
	}
	return nil
}
