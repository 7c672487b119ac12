// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/store"
)

// CreateSiteRequest is the request body for creating a site.
type CreateSiteRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Domain        *string  `json:"domain"`
	Locales       []string `json:"locales"`
	DefaultLocale string   `json:"default_locale"`
	Theme         string   `json:"theme"`
	TeamID        *int64   `json:"team_id,string"`
}

// UpdateSiteRequest is the request body for patching a site. Absent
// fields are left unchanged; domain and team may be cleared with an
// explicit null.
type UpdateSiteRequest struct {
	Name          *string                `json:"name"`
	Slug          *string                `json:"slug"`
	Domain        store.Optional[string] `json:"domain"`
	Locales       []string               `json:"locales"`
	DefaultLocale *string                `json:"default_locale"`
	Theme         *string                `json:"theme"`
	TeamID        store.Optional[int64]  `json:"team_id,string"`
}

// ListSites returns a page of sites.
func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	teamID, err := optionalID(r, "team_id")
	if err != nil {
		WriteBadRequest(w, "Invalid team_id", nil)
		return
	}

	page, err := h.st.Sites.List(r.Context(), store.ListSitesFilters{
		Page:   pageFromQuery(r),
		Search: r.URL.Query().Get("search"),
		TeamID: teamID,
		Scope:  scopeFromQuery(r),
	})
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}

// GetSite returns a single site by id.
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "site")
	if !ok {
		return
	}
	site, err := h.st.Sites.FindByID(r.Context(), id, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteSuccess(w, site, nil)
}

// GetSiteBySlug returns a live site by slug, served through the cache.
func (h *Handler) GetSiteBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if h.caches != nil {
		site, err := h.caches.SiteBySlug(r.Context(), slug)
		if err != nil {
			writeStoreError(w, err, "site")
			return
		}
		WriteSuccess(w, site, nil)
		return
	}

	site, err := h.st.Sites.FindBySlug(r.Context(), slug, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteSuccess(w, site, nil)
}

// GetSiteEntryCounts returns the per-status entry counts for a site,
// served through the cache.
func (h *Handler) GetSiteEntryCounts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "site")
	if !ok {
		return
	}
	if _, err := h.st.Sites.FindByID(r.Context(), id, store.ScopeLive); err != nil {
		writeStoreError(w, err, "site")
		return
	}

	var counts map[string]int64
	var err error
	if h.caches != nil {
		counts, err = h.caches.EntryCounts(r.Context(), id)
	} else {
		counts, err = h.st.Entries.CountByStatus(r.Context(), id)
	}
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteSuccess(w, counts, nil)
}

// CreateSite creates a new site.
func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	site, err := h.st.Sites.Create(r.Context(), store.CreateSiteInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Domain:        req.Domain,
		Locales:       req.Locales,
		DefaultLocale: req.DefaultLocale,
		Theme:         req.Theme,
		TeamID:        req.TeamID,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteCreated(w, site)
}

// UpdateSite patches a site. The site cache is invalidated under both the
// old and new slug so a rename does not leave a stale entry behind.
func (h *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "site")
	if !ok {
		return
	}
	var req UpdateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	before, err := h.st.Sites.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}

	site, err := h.st.Sites.Update(r.Context(), id, store.UpdateSiteInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Domain:        req.Domain,
		Locales:       req.Locales,
		DefaultLocale: req.DefaultLocale,
		Theme:         req.Theme,
		TeamID:        req.TeamID,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateSite(r.Context(), before.Slug)
		if site.Slug != before.Slug {
			h.caches.InvalidateSite(r.Context(), site.Slug)
		}
	}
	WriteSuccess(w, site, nil)
}

// DeleteSite soft deletes a site.
func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "site")
	if !ok {
		return
	}

	site, err := h.st.Sites.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	if err := h.st.Sites.SoftDelete(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "site")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateSite(r.Context(), site.Slug)
		h.caches.InvalidateEntryCounts(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreSite restores a soft deleted site. A 409 means a live site has
// taken the slug or domain in the meantime.
func (h *Handler) RestoreSite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "site")
	if !ok {
		return
	}
	if err := h.st.Sites.Restore(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "site")
		return
	}
	site, err := h.st.Sites.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "site")
		return
	}
	WriteSuccess(w, site, nil)
}
