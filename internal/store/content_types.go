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

const contentTypeColumns = `id, site_id, name, api_id, description, fields,
	created_by, updated_by, is_deleted, deleted_at, created_at, updated_at`

// ContentTypes is the repository for per-site content type definitions.
type ContentTypes struct {
	db *sql.DB
}

// CreateContentTypeInput holds the fields accepted when creating a
// content type.
type CreateContentTypeInput struct {
	SiteID      int64
	Name        string
	APIID       string
	Description *string
	Fields      []model.ContentField
}

// UpdateContentTypeInput is a partial patch for a content type. The site
// binding is immutable; moving a type across sites is not supported.
type UpdateContentTypeInput struct {
	Name        *string
	APIID       *string
	Description Optional[string]
	Fields      []model.ContentField
}

// ListContentTypesFilters narrows and paginates a content type listing.
type ListContentTypesFilters struct {
	Page
	SiteID *int64
	Search string
	Scope  Scope
}

// Create persists a new content type. The api id is unique per site among
// live types and surfaces as ErrAlreadyExists on conflict.
func (r *ContentTypes) Create(ctx context.Context, input CreateContentTypeInput, actorID *int64) (model.ContentType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.ContentType{}, &model.ValidationError{Field: "name", Reason: "name is required"}
	}
	apiID := strings.ToLower(strings.TrimSpace(input.APIID))
	if !util.IsValidSlug(apiID) {
		return model.ContentType{}, &model.ValidationError{Field: "apiId", Reason: "api id must be kebab-case"}
	}
	if err := model.ValidateFields(input.Fields); err != nil {
		return model.ContentType{}, err
	}

	fields := input.Fields
	if fields == nil {
		fields = []model.ContentField{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return model.ContentType{}, fmt.Errorf("encoding fields: %w", err)
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO content_types (site_id, name, api_id, description, fields, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+contentTypeColumns,
		input.SiteID, name, apiID, util.NullStringFromPtr(input.Description), string(fieldsJSON),
		util.NullInt64FromPtr(actorID), util.NullInt64FromPtr(actorID), now, now)

	ct, err := scanContentType(row)
	if err != nil {
		return model.ContentType{}, mapWriteError(err)
	}
	return ct, nil
}

// Update applies a partial patch to a live content type. Returns
// ErrNotFound when the id does not address a live row.
func (r *ContentTypes) Update(ctx context.Context, id int64, patch UpdateContentTypeInput, actorID *int64) (model.ContentType, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.ContentType{}, &model.ValidationError{Field: "name", Reason: "name is required"}
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.APIID != nil {
		apiID := strings.ToLower(strings.TrimSpace(*patch.APIID))
		if !util.IsValidSlug(apiID) {
			return model.ContentType{}, &model.ValidationError{Field: "apiId", Reason: "api id must be kebab-case"}
		}
		sets = append(sets, "api_id = ?")
		args = append(args, apiID)
	}
	if patch.Description.IsSet() {
		sets = append(sets, "description = ?")
		args = append(args, util.NullStringFromPtr(patch.Description.Ptr()))
	}
	if patch.Fields != nil {
		if err := model.ValidateFields(patch.Fields); err != nil {
			return model.ContentType{}, err
		}
		fieldsJSON, err := json.Marshal(patch.Fields)
		if err != nil {
			return model.ContentType{}, fmt.Errorf("encoding fields: %w", err)
		}
		sets = append(sets, "fields = ?")
		args = append(args, string(fieldsJSON))
	}
	if actorID != nil {
		sets = append(sets, "updated_by = ?")
		args = append(args, *actorID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE content_types SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0", args...)
	if err != nil {
		return model.ContentType{}, mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ContentType{}, ErrNotFound
	}

	return r.FindByID(ctx, id, ScopeLive)
}

// FindByID fetches one content type, or ErrNotFound.
func (r *ContentTypes) FindByID(ctx context.Context, id int64, scope Scope) (model.ContentType, error) {
	f := NewFilter().Eq("id", id).Scope(scope)
	return r.findOne(ctx, f)
}

// FindByAPIID fetches a site's content type by its api id, or ErrNotFound.
func (r *ContentTypes) FindByAPIID(ctx context.Context, siteID int64, apiID string, scope Scope) (model.ContentType, error) {
	f := NewFilter().
		Eq("site_id", siteID).
		Eq("api_id", strings.ToLower(strings.TrimSpace(apiID))).
		Scope(scope)
	return r.findOne(ctx, f)
}

func (r *ContentTypes) findOne(ctx context.Context, f *Filter) (model.ContentType, error) {
	where, args := f.Clause()
	row := r.db.QueryRowContext(ctx, "SELECT "+contentTypeColumns+" FROM content_types"+where, args...)
	ct, err := scanContentType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentType{}, ErrNotFound
	}
	if err != nil {
		return model.ContentType{}, fmt.Errorf("finding content type: %w", err)
	}
	return ct, nil
}

// List returns one page of content types matching the filters, newest
// first.
func (r *ContentTypes) List(ctx context.Context, filters ListContentTypesFilters) (Paginated[model.ContentType], error) {
	f := NewFilter().Scope(filters.Scope)
	if filters.SiteID != nil {
		f.Eq("site_id", *filters.SiteID)
	}
	f.ContainsAny(filters.Search, "name", "api_id")

	return paginate(ctx, r.db, "SELECT "+contentTypeColumns+" FROM content_types", f, filters.Page, scanContentType)
}

// SoftDelete marks a content type deleted. Entries of the type are left
// untouched. A no-op for an absent id.
func (r *ContentTypes) SoftDelete(ctx context.Context, id int64, actorID *int64) error {
	return softDeleteRow(ctx, r.db, "content_types", id, actorID)
}

// Restore reverses a soft delete. A no-op for an absent id.
func (r *ContentTypes) Restore(ctx context.Context, id int64, actorID *int64) error {
	return restoreRow(ctx, r.db, "content_types", id, actorID)
}

func scanContentType(row rowScanner) (model.ContentType, error) {
	var (
		ct                   model.ContentType
		description          sql.NullString
		fieldsJSON           string
		createdBy, updatedBy sql.NullInt64
		deletedAt            sql.NullTime
	)
	err := row.Scan(&ct.ID, &ct.SiteID, &ct.Name, &ct.APIID, &description, &fieldsJSON,
		&createdBy, &updatedBy, &ct.IsDeleted, &deletedAt, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		return model.ContentType{}, err
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &ct.Fields); err != nil {
		return model.ContentType{}, fmt.Errorf("decoding fields for content type %d: %w", ct.ID, err)
	}
	ct.Description = util.PtrFromNullString(description)
	ct.CreatedBy = util.PtrFromNullInt64(createdBy)
	ct.UpdatedBy = util.PtrFromNullInt64(updatedBy)
	ct.DeletedAt = util.PtrFromNullTime(deletedAt)
	return ct, nil
}
