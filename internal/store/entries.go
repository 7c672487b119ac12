// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/util"
)

const entryColumns = `id, site_id, content_type_id, slug, title, status, publish_at, locale,
	data, blocks, author_id, last_editor_id, taxonomy_ids,
	created_by, updated_by, is_deleted, deleted_at, created_at, updated_at`

// Entries is the repository for content entries.
type Entries struct {
	db *sql.DB
}

// CreateEntryInput holds the fields accepted when creating an entry.
type CreateEntryInput struct {
	SiteID        int64
	ContentTypeID int64
	Slug          string
	Title         string
	Status        string
	PublishAt     *time.Time
	Locale        string
	Data          map[string]any
	Blocks        []model.EntryBlock
	AuthorID      *int64
	TaxonomyIDs   []int64
}

// UpdateEntryInput is a partial patch for an entry. LastEditorID defaults
// to the acting user when the patch does not name one explicitly.
type UpdateEntryInput struct {
	Slug         *string
	Title        *string
	Status       *string
	PublishAt    Optional[time.Time]
	Locale       *string
	Data         map[string]any
	Blocks       []model.EntryBlock
	LastEditorID Optional[int64]
	TaxonomyIDs  []int64
}

// ListEntriesFilters narrows and paginates an entry listing.
type ListEntriesFilters struct {
	Page
	SiteID          *int64
	ContentTypeID   *int64
	Statuses        []string
	Locale          string
	AuthorID        *int64
	TaxonomyIDs     []int64
	Search          string
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	Scope           Scope
}

// Create persists a new entry. The (site, slug, locale) triple is unique
// among live entries and surfaces as ErrAlreadyExists on conflict. A
// scheduled entry must carry a publish time.
func (r *Entries) Create(ctx context.Context, input CreateEntryInput, actorID *int64) (model.Entry, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if err := model.ValidateEntrySlug(slug); err != nil {
		return model.Entry{}, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Entry{}, &model.ValidationError{Field: "title", Reason: "title is required"}
	}

	status := input.Status
	if status == "" {
		status = model.EntryStatusDraft
	}
	if err := model.ValidateEntryStatus(status); err != nil {
		return model.Entry{}, err
	}
	if status == model.EntryStatusScheduled && input.PublishAt == nil {
		return model.Entry{}, &model.ValidationError{Field: "publishAt", Reason: "a scheduled entry requires a publish time"}
	}
	publishAt := input.PublishAt
	if status == model.EntryStatusPublished && publishAt == nil {
		now := time.Now().UTC()
		publishAt = &now
	}

	locale := strings.ToLower(strings.TrimSpace(input.Locale))
	if locale == "" {
		locale = model.DefaultLocale
	}

	data := input.Data
	if data == nil {
		data = map[string]any{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return model.Entry{}, fmt.Errorf("encoding data: %w", err)
	}
	blocksJSON, err := json.Marshal(model.NormalizeBlocks(input.Blocks))
	if err != nil {
		return model.Entry{}, fmt.Errorf("encoding blocks: %w", err)
	}
	taxonomyJSON, err := json.Marshal(model.NormalizeTaxonomyIDs(input.TaxonomyIDs))
	if err != nil {
		return model.Entry{}, fmt.Errorf("encoding taxonomy ids: %w", err)
	}

	authorID := input.AuthorID
	if authorID == nil {
		authorID = actorID
	}
	if authorID == nil {
		return model.Entry{}, &model.ValidationError{Field: "authorId", Reason: "an author is required"}
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO entries (site_id, content_type_id, slug, title, status, publish_at, locale,
			data, blocks, author_id, last_editor_id, taxonomy_ids, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+entryColumns,
		input.SiteID, input.ContentTypeID, slug, title, status, util.NullTimeFromPtr(publishAt), locale,
		string(dataJSON), string(blocksJSON), *authorID, util.NullInt64FromPtr(actorID),
		string(taxonomyJSON), util.NullInt64FromPtr(actorID), util.NullInt64FromPtr(actorID), now, now)

	entry, err := scanEntry(row)
	if err != nil {
		return model.Entry{}, mapWriteError(err)
	}
	return entry, nil
}

// Update applies a partial patch to a live entry. Returns ErrNotFound when
// the id does not address a live row. When the patch does not set a last
// editor, the acting user becomes the last editor.
func (r *Entries) Update(ctx context.Context, id int64, patch UpdateEntryInput, actorID *int64) (model.Entry, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*patch.Slug))
		if err := model.ValidateEntrySlug(slug); err != nil {
			return model.Entry{}, err
		}
		sets = append(sets, "slug = ?")
		args = append(args, slug)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return model.Entry{}, &model.ValidationError{Field: "title", Reason: "title is required"}
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if patch.Status != nil {
		if err := model.ValidateEntryStatus(*patch.Status); err != nil {
			return model.Entry{}, err
		}
		if *patch.Status == model.EntryStatusScheduled && (!patch.PublishAt.IsSet() || patch.PublishAt.Ptr() == nil) {
			current, err := r.FindByID(ctx, id, ScopeLive)
			if err != nil {
				return model.Entry{}, err
			}
			if current.PublishAt == nil && patch.PublishAt.Ptr() == nil {
				return model.Entry{}, &model.ValidationError{Field: "publishAt", Reason: "a scheduled entry requires a publish time"}
			}
		}
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
		if *patch.Status == model.EntryStatusPublished && !patch.PublishAt.IsSet() {
			sets = append(sets, "publish_at = COALESCE(publish_at, ?)")
			args = append(args, time.Now().UTC())
		}
	}
	if patch.PublishAt.IsSet() {
		sets = append(sets, "publish_at = ?")
		args = append(args, util.NullTimeFromPtr(patch.PublishAt.Ptr()))
	}
	if patch.Locale != nil {
		locale := strings.ToLower(strings.TrimSpace(*patch.Locale))
		if locale == "" {
			return model.Entry{}, &model.ValidationError{Field: "locale", Reason: "locale is required"}
		}
		sets = append(sets, "locale = ?")
		args = append(args, locale)
	}
	if patch.Data != nil {
		dataJSON, err := json.Marshal(patch.Data)
		if err != nil {
			return model.Entry{}, fmt.Errorf("encoding data: %w", err)
		}
		sets = append(sets, "data = ?")
		args = append(args, string(dataJSON))
	}
	if patch.Blocks != nil {
		blocksJSON, err := json.Marshal(model.NormalizeBlocks(patch.Blocks))
		if err != nil {
			return model.Entry{}, fmt.Errorf("encoding blocks: %w", err)
		}
		sets = append(sets, "blocks = ?")
		args = append(args, string(blocksJSON))
	}
	if patch.TaxonomyIDs != nil {
		taxonomyJSON, err := json.Marshal(model.NormalizeTaxonomyIDs(patch.TaxonomyIDs))
		if err != nil {
			return model.Entry{}, fmt.Errorf("encoding taxonomy ids: %w", err)
		}
		sets = append(sets, "taxonomy_ids = ?")
		args = append(args, string(taxonomyJSON))
	}

	lastEditor := actorID
	if patch.LastEditorID.IsSet() {
		lastEditor = patch.LastEditorID.Ptr()
	}
	if lastEditor != nil || patch.LastEditorID.IsSet() {
		sets = append(sets, "last_editor_id = ?")
		args = append(args, util.NullInt64FromPtr(lastEditor))
	}
	if actorID != nil {
		sets = append(sets, "updated_by = ?")
		args = append(args, *actorID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE entries SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0", args...)
	if err != nil {
		return model.Entry{}, mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Entry{}, ErrNotFound
	}

	return r.FindByID(ctx, id, ScopeLive)
}

// FindByID fetches one entry, or ErrNotFound.
func (r *Entries) FindByID(ctx context.Context, id int64, scope Scope) (model.Entry, error) {
	f := NewFilter().Eq("id", id).Scope(scope)
	return r.findOne(ctx, f)
}

// FindBySlug fetches a site's entry by slug and locale, or ErrNotFound.
func (r *Entries) FindBySlug(ctx context.Context, siteID int64, slug, locale string, scope Scope) (model.Entry, error) {
	if locale == "" {
		locale = model.DefaultLocale
	}
	f := NewFilter().
		Eq("site_id", siteID).
		Eq("slug", strings.ToLower(strings.TrimSpace(slug))).
		Eq("locale", strings.ToLower(locale)).
		Scope(scope)
	return r.findOne(ctx, f)
}

func (r *Entries) findOne(ctx context.Context, f *Filter) (model.Entry, error) {
	where, args := f.Clause()
	row := r.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries"+where, args...)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, ErrNotFound
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("finding entry: %w", err)
	}
	return entry, nil
}

// List returns one page of entries matching the filters, newest first.
func (r *Entries) List(ctx context.Context, filters ListEntriesFilters) (Paginated[model.Entry], error) {
	f := NewFilter().Scope(filters.Scope)
	if filters.SiteID != nil {
		f.Eq("site_id", *filters.SiteID)
	}
	if filters.ContentTypeID != nil {
		f.Eq("content_type_id", *filters.ContentTypeID)
	}
	f.In("status", anyValues(filters.Statuses)...)
	if filters.Locale != "" {
		f.Eq("locale", strings.ToLower(strings.TrimSpace(filters.Locale)))
	}
	if filters.AuthorID != nil {
		f.Eq("author_id", *filters.AuthorID)
	}
	f.InJSON("taxonomy_ids", anyValues(filters.TaxonomyIDs)...)
	if filters.PublishedAfter != nil {
		f.GTE("publish_at", *filters.PublishedAfter)
	}
	if filters.PublishedBefore != nil {
		f.LTE("publish_at", *filters.PublishedBefore)
	}
	f.ContainsAny(filters.Search, "title", "slug")

	return paginate(ctx, r.db, "SELECT "+entryColumns+" FROM entries", f, filters.Page, scanEntry)
}

// CountByStatus reports the live entry count per status for one site. The
// result always carries every known status, zero-filled, so dashboards do
// not need to special-case an empty site.
func (r *Entries) CountByStatus(ctx context.Context, siteID int64) (map[string]int64, error) {
	counts := make(map[string]int64, len(model.ValidEntryStatuses))
	for _, status := range model.ValidEntryStatuses {
		counts[status] = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM entries
		WHERE site_id = ? AND is_deleted = 0
		GROUP BY status`, siteID)
	if err != nil {
		return nil, fmt.Errorf("counting entries by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("counting entries by status: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting entries by status: %w", err)
	}
	return counts, nil
}

// PublishDue flips live scheduled entries whose publish time has passed to
// published and returns the ids it promoted. Driven by the scheduler.
func (r *Entries) PublishDue(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE entries SET status = ?, updated_at = ?
		WHERE status = ? AND is_deleted = 0 AND publish_at IS NOT NULL AND publish_at <= ?
		RETURNING id`,
		model.EntryStatusPublished, now.UTC(), model.EntryStatusScheduled, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("publishing due entries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("publishing due entries: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("publishing due entries: %w", err)
	}
	return ids, nil
}

// SoftDelete marks an entry deleted. A no-op for an absent id.
func (r *Entries) SoftDelete(ctx context.Context, id int64, actorID *int64) error {
	return softDeleteRow(ctx, r.db, "entries", id, actorID)
}

// Restore reverses a soft delete. A no-op for an absent id.
func (r *Entries) Restore(ctx context.Context, id int64, actorID *int64) error {
	return restoreRow(ctx, r.db, "entries", id, actorID)
}

func scanEntry(row rowScanner) (model.Entry, error) {
	var (
		e                                  model.Entry
		publishAt, deletedAt               sql.NullTime
		dataJSON, blocksJSON, taxonomyJSON string
		lastEditorID                       sql.NullInt64
		createdBy, updatedBy               sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.SiteID, &e.ContentTypeID, &e.Slug, &e.Title, &e.Status, &publishAt,
		&e.Locale, &dataJSON, &blocksJSON, &e.AuthorID, &lastEditorID, &taxonomyJSON,
		&createdBy, &updatedBy, &e.IsDeleted, &deletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Entry{}, err
	}

	if err := json.Unmarshal([]byte(dataJSON), &e.Data); err != nil {
		return model.Entry{}, fmt.Errorf("decoding data for entry %d: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(blocksJSON), &e.Blocks); err != nil {
		return model.Entry{}, fmt.Errorf("decoding blocks for entry %d: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(taxonomyJSON), &e.TaxonomyIDs); err != nil {
		return model.Entry{}, fmt.Errorf("decoding taxonomy ids for entry %d: %w", e.ID, err)
	}
	e.PublishAt = util.PtrFromNullTime(publishAt)
	e.LastEditorID = util.PtrFromNullInt64(lastEditorID)
	e.CreatedBy = util.PtrFromNullInt64(createdBy)
	e.UpdatedBy = util.PtrFromNullInt64(updatedBy)
	e.DeletedAt = util.PtrFromNullTime(deletedAt)
	return e, nil
}
