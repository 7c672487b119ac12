// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/hcms-go/internal/auth"
	"github.com/olegiv/hcms-go/internal/model"
)

// Default admin account created on first start. The password must be
// changed after the first login.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminName     = "Administrator"
	DefaultAdminPassword = "ChangeMe123!"
)

// Seed ensures the baseline records exist: the default admin user and,
// when demo is set, a demo site with a blog content type and a handful of
// entries. Seeding is idempotent and keyed by natural keys (email, slug,
// api id), so it is safe to run on every start. A soft-deleted record
// matching a natural key is restored rather than recreated, keeping its
// id stable.
func Seed(ctx context.Context, s *Store, demo bool) error {
	admin, err := ensureUser(ctx, s, DefaultAdminEmail, func() (CreateUserInput, error) {
		hash, err := auth.HashPassword(DefaultAdminPassword)
		if err != nil {
			return CreateUserInput{}, fmt.Errorf("hashing default admin password: %w", err)
		}
		return CreateUserInput{
			Name:         DefaultAdminName,
			Email:        DefaultAdminEmail,
			Roles:        []string{model.RoleAdmin},
			Status:       model.UserStatusActive,
			PasswordHash: &hash,
		}, nil
	})
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	if !demo {
		return nil
	}

	site, err := ensureSite(ctx, s, "demo", CreateSiteInput{
		Name:          "Demo Site",
		Slug:          "demo",
		Locales:       []string{"en", "de"},
		DefaultLocale: "en",
		Theme:         model.DefaultTheme,
	}, &admin.ID)
	if err != nil {
		return fmt.Errorf("seeding demo site: %w", err)
	}

	blog, err := ensureContentType(ctx, s, site.ID, "blog-post", CreateContentTypeInput{
		SiteID: site.ID,
		Name:   "Blog Post",
		APIID:  "blog-post",
		Fields: []model.ContentField{
			{Key: "body", Label: "Body", Type: model.FieldTypeMarkdown, Required: true},
			{Key: "excerpt", Label: "Excerpt", Type: model.FieldTypeText},
			{Key: "cover", Label: "Cover Image", Type: model.FieldTypeImage},
			{Key: "category", Label: "Category", Type: model.FieldTypeSelect,
				Options: []string{"news", "engineering", "product"}},
		},
	}, &admin.ID)
	if err != nil {
		return fmt.Errorf("seeding demo content type: %w", err)
	}

	now := time.Now().UTC()
	demoEntries := []CreateEntryInput{
		{
			SiteID:        site.ID,
			ContentTypeID: blog.ID,
			Slug:          "hello-world",
			Title:         "Hello World",
			Status:        model.EntryStatusPublished,
			Locale:        "en",
			Data: map[string]any{
				"body":     "# Hello\n\nThis is the first demo post.",
				"excerpt":  "The first demo post.",
				"category": "news",
			},
		},
		{
			SiteID:        site.ID,
			ContentTypeID: blog.ID,
			Slug:          "work-in-progress",
			Title:         "Work in Progress",
			Status:        model.EntryStatusDraft,
			Locale:        "en",
			Data: map[string]any{
				"body":     "Draft notes.",
				"category": "engineering",
			},
		},
		{
			SiteID:        site.ID,
			ContentTypeID: blog.ID,
			Slug:          "coming-soon",
			Title:         "Coming Soon",
			Status:        model.EntryStatusScheduled,
			PublishAt:     ptrTime(now.Add(24 * time.Hour)),
			Locale:        "en",
			Data: map[string]any{
				"body":     "Scheduled announcement.",
				"category": "product",
			},
		},
	}
	for _, input := range demoEntries {
		if _, err := ensureEntry(ctx, s, input, &admin.ID); err != nil {
			return fmt.Errorf("seeding demo entry %q: %w", input.Slug, err)
		}
	}

	slog.Info("demo content seeded", "site", site.Slug, "site_id", site.ID)
	return nil
}

// ensureUser finds a user by email across deletion states, restoring a
// soft-deleted match and syncing its profile, and creates one only when no
// match exists. The password hash is left out of the sync so a changed
// password survives a reseed.
func ensureUser(ctx context.Context, s *Store, email string, make func() (CreateUserInput, error)) (model.User, error) {
	existing, err := s.Users.FindByEmail(ctx, email, ScopeWithDeleted)
	if errors.Is(err, ErrNotFound) {
		input, err := make()
		if err != nil {
			return model.User{}, err
		}
		return s.Users.Create(ctx, input, nil)
	}
	if err != nil {
		return model.User{}, err
	}
	if existing.IsDeleted {
		if err := s.Users.Restore(ctx, existing.ID, nil); err != nil {
			return model.User{}, err
		}
	}

	input, err := make()
	if err != nil {
		return model.User{}, err
	}
	patch := UpdateUserInput{Name: &input.Name, Roles: input.Roles}
	if input.Status != "" {
		patch.Status = &input.Status
	}
	return s.Users.Update(ctx, existing.ID, patch, nil)
}

func ensureSite(ctx context.Context, s *Store, slug string, input CreateSiteInput, actorID *int64) (model.Site, error) {
	existing, err := s.Sites.FindBySlug(ctx, slug, ScopeWithDeleted)
	if errors.Is(err, ErrNotFound) {
		return s.Sites.Create(ctx, input, actorID)
	}
	if err != nil {
		return model.Site{}, err
	}
	if existing.IsDeleted {
		if err := s.Sites.Restore(ctx, existing.ID, actorID); err != nil {
			return model.Site{}, err
		}
	}

	patch := UpdateSiteInput{Name: &input.Name, Locales: input.Locales}
	if input.DefaultLocale != "" {
		patch.DefaultLocale = &input.DefaultLocale
	}
	if input.Theme != "" {
		patch.Theme = &input.Theme
	}
	if input.Domain != nil {
		patch.Domain = Set(*input.Domain)
	}
	if input.TeamID != nil {
		patch.TeamID = Set(*input.TeamID)
	}
	return s.Sites.Update(ctx, existing.ID, patch, actorID)
}

func ensureContentType(ctx context.Context, s *Store, siteID int64, apiID string, input CreateContentTypeInput, actorID *int64) (model.ContentType, error) {
	existing, err := s.ContentTypes.FindByAPIID(ctx, siteID, apiID, ScopeWithDeleted)
	if errors.Is(err, ErrNotFound) {
		return s.ContentTypes.Create(ctx, input, actorID)
	}
	if err != nil {
		return model.ContentType{}, err
	}
	if existing.IsDeleted {
		if err := s.ContentTypes.Restore(ctx, existing.ID, actorID); err != nil {
			return model.ContentType{}, err
		}
	}

	patch := UpdateContentTypeInput{Name: &input.Name, Fields: input.Fields}
	if input.Description != nil {
		patch.Description = Set(*input.Description)
	}
	return s.ContentTypes.Update(ctx, existing.ID, patch, actorID)
}

func ensureEntry(ctx context.Context, s *Store, input CreateEntryInput, actorID *int64) (model.Entry, error) {
	existing, err := s.Entries.FindBySlug(ctx, input.SiteID, input.Slug, input.Locale, ScopeWithDeleted)
	if errors.Is(err, ErrNotFound) {
		return s.Entries.Create(ctx, input, actorID)
	}
	if err != nil {
		return model.Entry{}, err
	}
	if existing.IsDeleted {
		if err := s.Entries.Restore(ctx, existing.ID, actorID); err != nil {
			return model.Entry{}, err
		}
	}

	patch := UpdateEntryInput{
		Title:       &input.Title,
		Data:        input.Data,
		Blocks:      input.Blocks,
		TaxonomyIDs: input.TaxonomyIDs,
	}
	if input.Status != "" {
		patch.Status = &input.Status
	}
	if input.PublishAt != nil {
		patch.PublishAt = Set(*input.PublishAt)
	}
	return s.Entries.Update(ctx, existing.ID, patch, actorID)
}

func ptrTime(t time.Time) *time.Time { return &t }
