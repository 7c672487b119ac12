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

const siteColumns = `id, name, slug, domain, locales, default_locale, theme, team_id,
	created_by, updated_by, is_deleted, deleted_at, created_at, updated_at`

// Sites is the repository for tenant sites.
type Sites struct {
	db *sql.DB
}

// CreateSiteInput holds the fields accepted when creating a site.
type CreateSiteInput struct {
	Name          string
	Slug          string
	Domain        *string
	Locales       []string
	DefaultLocale string
	Theme         string
	TeamID        *int64
}

// UpdateSiteInput is a partial patch for a site. The locales and default
// locale are validated against the merged result of patch and current row,
// so a patch cannot leave the site with a default locale outside its
// locale set.
type UpdateSiteInput struct {
	Name          *string
	Slug          *string
	Domain        Optional[string]
	Locales       []string
	DefaultLocale *string
	Theme         *string
	TeamID        Optional[int64]
}

// ListSitesFilters narrows and paginates a site listing.
type ListSitesFilters struct {
	Page
	Search string
	TeamID *int64
	Scope  Scope
}

// Create persists a new site. The slug must already be kebab-case; slug
// uniqueness among live sites and global domain uniqueness surface as
// ErrAlreadyExists.
func (r *Sites) Create(ctx context.Context, input CreateSiteInput, actorID *int64) (model.Site, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !util.IsValidSlug(slug) {
		return model.Site{}, &model.ValidationError{Field: "slug", Reason: "slug must be kebab-case"}
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Site{}, &model.ValidationError{Field: "name", Reason: "name is required"}
	}

	locales := model.NormalizeLocales(input.Locales)
	if locales == nil {
		locales = []string{model.DefaultLocale}
	}
	defaultLocale := strings.ToLower(strings.TrimSpace(input.DefaultLocale))
	if defaultLocale == "" {
		defaultLocale = locales[0]
	}
	if err := model.ValidateLocales(locales, defaultLocale); err != nil {
		return model.Site{}, err
	}

	theme := input.Theme
	if theme == "" {
		theme = model.DefaultTheme
	}

	localesJSON, err := json.Marshal(locales)
	if err != nil {
		return model.Site{}, fmt.Errorf("encoding locales: %w", err)
	}

	var domain *string
	if input.Domain != nil {
		if d := strings.ToLower(strings.TrimSpace(*input.Domain)); d != "" {
			domain = &d
		}
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sites (name, slug, domain, locales, default_locale, theme, team_id, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+siteColumns,
		name, slug, util.NullStringFromPtr(domain), string(localesJSON), defaultLocale, theme,
		util.NullInt64FromPtr(input.TeamID), util.NullInt64FromPtr(actorID), util.NullInt64FromPtr(actorID), now, now)

	site, err := scanSite(row)
	if err != nil {
		return model.Site{}, mapWriteError(err)
	}
	return site, nil
}

// Update applies a partial patch to a live site. Returns ErrNotFound when
// the id does not address a live row.
func (r *Sites) Update(ctx context.Context, id int64, patch UpdateSiteInput, actorID *int64) (model.Site, error) {
	current, err := r.FindByID(ctx, id, ScopeLive)
	if err != nil {
		return model.Site{}, err
	}

	locales := current.Locales
	if patch.Locales != nil {
		locales = model.NormalizeLocales(patch.Locales)
	}
	defaultLocale := current.DefaultLocale
	if patch.DefaultLocale != nil {
		defaultLocale = strings.ToLower(strings.TrimSpace(*patch.DefaultLocale))
	}
	if err := model.ValidateLocales(locales, defaultLocale); err != nil {
		return model.Site{}, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Site{}, &model.ValidationError{Field: "name", Reason: "name is required"}
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*patch.Slug))
		if !util.IsValidSlug(slug) {
			return model.Site{}, &model.ValidationError{Field: "slug", Reason: "slug must be kebab-case"}
		}
		sets = append(sets, "slug = ?")
		args = append(args, slug)
	}
	if patch.Domain.IsSet() {
		var domain *string
		if v := patch.Domain.Ptr(); v != nil {
			if d := strings.ToLower(strings.TrimSpace(*v)); d != "" {
				domain = &d
			}
		}
		sets = append(sets, "domain = ?")
		args = append(args, util.NullStringFromPtr(domain))
	}
	if patch.Locales != nil {
		localesJSON, err := json.Marshal(locales)
		if err != nil {
			return model.Site{}, fmt.Errorf("encoding locales: %w", err)
		}
		sets = append(sets, "locales = ?")
		args = append(args, string(localesJSON))
	}
	if patch.DefaultLocale != nil {
		sets = append(sets, "default_locale = ?")
		args = append(args, defaultLocale)
	}
	if patch.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *patch.Theme)
	}
	if patch.TeamID.IsSet() {
		sets = append(sets, "team_id = ?")
		args = append(args, util.NullInt64FromPtr(patch.TeamID.Ptr()))
	}
	if actorID != nil {
		sets = append(sets, "updated_by = ?")
		args = append(args, *actorID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE sites SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0", args...)
	if err != nil {
		return model.Site{}, mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Site{}, ErrNotFound
	}

	return r.FindByID(ctx, id, ScopeLive)
}

// FindByID fetches one site, or ErrNotFound.
func (r *Sites) FindByID(ctx context.Context, id int64, scope Scope) (model.Site, error) {
	f := NewFilter().Eq("id", id).Scope(scope)
	return r.findOne(ctx, f)
}

// FindBySlug fetches one site by slug, or ErrNotFound.
func (r *Sites) FindBySlug(ctx context.Context, slug string, scope Scope) (model.Site, error) {
	f := NewFilter().Eq("slug", strings.ToLower(strings.TrimSpace(slug))).Scope(scope)
	return r.findOne(ctx, f)
}

// FindByDomain fetches one site by custom domain, or ErrNotFound. Domains
// are unique across sites regardless of deletion state.
func (r *Sites) FindByDomain(ctx context.Context, domain string, scope Scope) (model.Site, error) {
	f := NewFilter().Eq("domain", strings.ToLower(strings.TrimSpace(domain))).Scope(scope)
	return r.findOne(ctx, f)
}

func (r *Sites) findOne(ctx context.Context, f *Filter) (model.Site, error) {
	where, args := f.Clause()
	row := r.db.QueryRowContext(ctx, "SELECT "+siteColumns+" FROM sites"+where, args...)
	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Site{}, ErrNotFound
	}
	if err != nil {
		return model.Site{}, fmt.Errorf("finding site: %w", err)
	}
	return site, nil
}

// List returns one page of sites matching the filters, newest first.
func (r *Sites) List(ctx context.Context, filters ListSitesFilters) (Paginated[model.Site], error) {
	f := NewFilter().Scope(filters.Scope)
	if filters.TeamID != nil {
		f.Eq("team_id", *filters.TeamID)
	}
	f.ContainsAny(filters.Search, "name", "slug")

	return paginate(ctx, r.db, "SELECT "+siteColumns+" FROM sites", f, filters.Page, scanSite)
}

// SoftDelete marks a site deleted. A no-op for an absent id.
func (r *Sites) SoftDelete(ctx context.Context, id int64, actorID *int64) error {
	return softDeleteRow(ctx, r.db, "sites", id, actorID)
}

// Restore reverses a soft delete. A no-op for an absent id.
func (r *Sites) Restore(ctx context.Context, id int64, actorID *int64) error {
	return restoreRow(ctx, r.db, "sites", id, actorID)
}

func scanSite(row rowScanner) (model.Site, error) {
	var (
		s                            model.Site
		domain                       sql.NullString
		localesJSON                  string
		teamID, createdBy, updatedBy sql.NullInt64
		deletedAt                    sql.NullTime
	)
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &domain, &localesJSON, &s.DefaultLocale, &s.Theme,
		&teamID, &createdBy, &updatedBy, &s.IsDeleted, &deletedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Site{}, err
	}

	if err := json.Unmarshal([]byte(localesJSON), &s.Locales); err != nil {
		return model.Site{}, fmt.Errorf("decoding locales for site %d: %w", s.ID, err)
	}
	s.Domain = util.PtrFromNullString(domain)
	s.TeamID = util.PtrFromNullInt64(teamID)
	s.CreatedBy = util.PtrFromNullInt64(createdBy)
	s.UpdatedBy = util.PtrFromNullInt64(updatedBy)
	s.DeletedAt = util.PtrFromNullTime(deletedAt)
	return s, nil
}
