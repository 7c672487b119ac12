// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/util"
)

const eventColumns = `id, level, category, message, actor_id, metadata, created_at`

// Events is the repository for the append-only event log.
type Events struct {
	db *sql.DB
}

// CreateEventInput holds one event to record.
type CreateEventInput struct {
	Level    string
	Category string
	Message  string
	ActorID  *int64
	Metadata map[string]any
}

// ListEventsFilters narrows and paginates an event listing.
type ListEventsFilters struct {
	Page
	Levels     []string
	Categories []string
	ActorID    *int64
	Since      *time.Time
}

// Create appends one event. The log is best-effort infrastructure: callers
// on hot paths typically log the returned error and move on rather than
// failing the request.
func (r *Events) Create(ctx context.Context, input CreateEventInput) (model.Event, error) {
	level := input.Level
	if level == "" {
		level = model.EventLevelInfo
	}
	category := input.Category
	if category == "" {
		category = model.EventCategorySystem
	}

	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return model.Event{}, fmt.Errorf("encoding event metadata: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO events (level, category, message, actor_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		level, category, input.Message, util.NullInt64FromPtr(input.ActorID),
		string(metadataJSON), time.Now().UTC())

	event, err := scanEvent(row)
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	return event, nil
}

// List returns one page of events matching the filters, newest first.
func (r *Events) List(ctx context.Context, filters ListEventsFilters) (Paginated[model.Event], error) {
	f := NewFilter()
	f.In("level", anyValues(filters.Levels)...)
	f.In("category", anyValues(filters.Categories)...)
	if filters.ActorID != nil {
		f.Eq("actor_id", *filters.ActorID)
	}
	if filters.Since != nil {
		f.GTE("created_at", *filters.Since)
	}

	return paginate(ctx, r.db, "SELECT "+eventColumns+" FROM events", f, filters.Page, scanEvent)
}

// DeleteOlderThan prunes events created before the cutoff and reports how
// many rows were removed. Used by the retention job.
func (r *Events) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return n, nil
}

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		e            model.Event
		actorID      sql.NullInt64
		metadataJSON string
	)
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &actorID, &metadataJSON, &e.CreatedAt)
	if err != nil {
		return model.Event{}, err
	}
	if err := json.Unmarshal([]byte(metadataJSON), &e.Metadata); err != nil {
		return model.Event{}, fmt.Errorf("decoding metadata for event %d: %w", e.ID, err)
	}
	e.ActorID = util.PtrFromNullInt64(actorID)
	return e, nil
}
