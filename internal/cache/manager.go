// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// Manager holds the domain caches over one shared backend: site lookups
// by slug and per-site entry status counts. Everything else reads through
// to the store uncached.
type Manager struct {
	backend Cacher
	st      *store.Store

	sites  *TypedCache[model.Site]
	counts *TypedCache[map[string]int64]
}

// NewManager creates a cache manager over the given backend.
func NewManager(backend Cacher, st *store.Store, cfg Config) *Manager {
	return &Manager{
		backend: backend,
		st:      st,
		sites:   NewTypedCache[model.Site](backend, cfg.DefaultTTL),
		counts:  NewTypedCache[map[string]int64](backend, cfg.DefaultTTL),
	}
}

func siteKey(slug string) string    { return "site:slug:" + slug }
func countsKey(siteID int64) string { return fmt.Sprintf("site:%d:entry_counts", siteID) }

// SiteBySlug resolves a live site by slug, reading through the cache.
func (m *Manager) SiteBySlug(ctx context.Context, slug string) (model.Site, error) {
	site, err := m.sites.GetOrSet(ctx, siteKey(slug), func() (*model.Site, error) {
		s, err := m.st.Sites.FindBySlug(ctx, slug, store.ScopeLive)
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return model.Site{}, err
	}
	return *site, nil
}

// EntryCounts reports the per-status live entry counts for a site, reading
// through the cache.
func (m *Manager) EntryCounts(ctx context.Context, siteID int64) (map[string]int64, error) {
	counts, err := m.counts.GetOrSet(ctx, countsKey(siteID), func() (*map[string]int64, error) {
		c, err := m.st.Entries.CountByStatus(ctx, siteID)
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return *counts, nil
}

// InvalidateSite drops the cached site lookup for a slug. Called on every
// site mutation; the entry counts keyed by id stay valid.
func (m *Manager) InvalidateSite(ctx context.Context, slug string) {
	if err := m.sites.Delete(ctx, siteKey(slug)); err != nil {
		slog.Warn("cache invalidation failed", "key", siteKey(slug), "error", err)
	}
}

// InvalidateEntryCounts drops the cached status counts for a site. Called
// on every entry mutation under the site.
func (m *Manager) InvalidateEntryCounts(ctx context.Context, siteID int64) {
	if err := m.counts.Delete(ctx, countsKey(siteID)); err != nil {
		slog.Warn("cache invalidation failed", "key", countsKey(siteID), "error", err)
	}
}

// ClearAll drops every cached entry.
func (m *Manager) ClearAll(ctx context.Context) error {
	return m.backend.Clear(ctx)
}

// Stats reports backend statistics when the backend tracks them.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
