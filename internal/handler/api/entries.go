// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/render"
	"github.com/olegiv/hcms-go/internal/store"
)

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	SiteID        int64              `json:"site_id,string"`
	ContentTypeID int64              `json:"content_type_id,string"`
	Slug          string             `json:"slug"`
	Title         string             `json:"title"`
	Status        string             `json:"status"`
	PublishAt     *time.Time         `json:"publish_at"`
	Locale        string             `json:"locale"`
	Data          map[string]any     `json:"data"`
	Blocks        []model.EntryBlock `json:"blocks"`
	AuthorID      *int64             `json:"author_id,string"`
	TaxonomyIDs   []int64            `json:"taxonomy_ids"`
}

// UpdateEntryRequest is the request body for patching an entry. Absent
// fields are left unchanged; publish_at may be cleared with an explicit
// null.
type UpdateEntryRequest struct {
	Slug        *string                   `json:"slug"`
	Title       *string                   `json:"title"`
	Status      *string                   `json:"status"`
	PublishAt   store.Optional[time.Time] `json:"publish_at"`
	Locale      *string                   `json:"locale"`
	Data        map[string]any            `json:"data"`
	Blocks      []model.EntryBlock        `json:"blocks"`
	TaxonomyIDs []int64                   `json:"taxonomy_ids"`
}

// PreviewRequest is the request body for rendering a markdown preview.
type PreviewRequest struct {
	Markdown string `json:"markdown"`
}

// PreviewResponse carries the rendered, sanitized HTML.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// csvParam splits a comma separated query parameter into its non-empty
// values.
func csvParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// timeParam parses an RFC 3339 query parameter, nil when absent.
func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// requirePublish enforces the publish capability for transitions into the
// published or scheduled state. Returns false when a response has been
// written.
func requirePublish(w http.ResponseWriter, r *http.Request, status string) bool {
	if status != model.EntryStatusPublished && status != model.EntryStatusScheduled {
		return true
	}
	if !middleware.GetActor(r).Can(model.CapPublishContent) {
		WriteForbidden(w, "Missing capability: "+string(model.CapPublishContent))
		return false
	}
	return true
}

// ListEntries returns a page of entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filters := store.ListEntriesFilters{
		Page:     pageFromQuery(r),
		Statuses: csvParam(r, "status"),
		Locale:   r.URL.Query().Get("locale"),
		Search:   r.URL.Query().Get("search"),
		Scope:    scopeFromQuery(r),
	}

	var err error
	if filters.SiteID, err = optionalID(r, "site_id"); err != nil {
		WriteBadRequest(w, "Invalid site_id", nil)
		return
	}
	if filters.ContentTypeID, err = optionalID(r, "content_type_id"); err != nil {
		WriteBadRequest(w, "Invalid content_type_id", nil)
		return
	}
	if filters.AuthorID, err = optionalID(r, "author_id"); err != nil {
		WriteBadRequest(w, "Invalid author_id", nil)
		return
	}
	for _, raw := range csvParam(r, "taxonomy_ids") {
		id, err := store.ParseID(raw)
		if err != nil {
			WriteBadRequest(w, "Invalid taxonomy_ids", nil)
			return
		}
		filters.TaxonomyIDs = append(filters.TaxonomyIDs, id)
	}
	if filters.PublishedAfter, err = timeParam(r, "published_after"); err != nil {
		WriteBadRequest(w, "Invalid published_after", nil)
		return
	}
	if filters.PublishedBefore, err = timeParam(r, "published_before"); err != nil {
		WriteBadRequest(w, "Invalid published_before", nil)
		return
	}

	page, err := h.st.Entries.List(r.Context(), filters)
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}

// GetEntry returns a single entry by id.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "entry")
	if !ok {
		return
	}
	entry, err := h.st.Entries.FindByID(r.Context(), id, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}
	WriteSuccess(w, entry, nil)
}

// LookupEntry resolves an entry by its natural key, the (site_id, slug,
// locale) triple.
func (h *Handler) LookupEntry(w http.ResponseWriter, r *http.Request) {
	siteID, err := store.ParseID(r.URL.Query().Get("site_id"))
	if err != nil {
		WriteBadRequest(w, "Invalid site_id", nil)
		return
	}
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		WriteBadRequest(w, "slug is required", nil)
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = model.DefaultLocale
	}

	entry, err := h.st.Entries.FindBySlug(r.Context(), siteID, slug, locale, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}
	WriteSuccess(w, entry, nil)
}

// CreateEntry creates a new entry. Creating directly into the published
// or scheduled state requires the publish capability.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !requirePublish(w, r, req.Status) {
		return
	}

	contentType, err := h.st.ContentTypes.FindByID(r.Context(), req.ContentTypeID, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	if contentType.SiteID != req.SiteID {
		WriteValidationError(w, map[string]string{"content_type_id": "content type belongs to a different site"})
		return
	}

	entry, err := h.st.Entries.Create(r.Context(), store.CreateEntryInput{
		SiteID:        req.SiteID,
		ContentTypeID: req.ContentTypeID,
		Slug:          req.Slug,
		Title:         req.Title,
		Status:        req.Status,
		PublishAt:     req.PublishAt,
		Locale:        req.Locale,
		Data:          req.Data,
		Blocks:        req.Blocks,
		AuthorID:      req.AuthorID,
		TaxonomyIDs:   req.TaxonomyIDs,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateEntryCounts(r.Context(), entry.SiteID)
	}
	WriteCreated(w, entry)
}

// UpdateEntry patches an entry. Status transitions into published or
// scheduled require the publish capability.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "entry")
	if !ok {
		return
	}
	var req UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status != nil && !requirePublish(w, r, *req.Status) {
		return
	}

	entry, err := h.st.Entries.Update(r.Context(), id, store.UpdateEntryInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Status:      req.Status,
		PublishAt:   req.PublishAt,
		Locale:      req.Locale,
		Data:        req.Data,
		Blocks:      req.Blocks,
		TaxonomyIDs: req.TaxonomyIDs,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateEntryCounts(r.Context(), entry.SiteID)
	}
	WriteSuccess(w, entry, nil)
}

// DeleteEntry soft deletes an entry.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "entry")
	if !ok {
		return
	}

	entry, err := h.st.Entries.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}
	if err := h.st.Entries.SoftDelete(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "entry")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateEntryCounts(r.Context(), entry.SiteID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreEntry restores a soft deleted entry. A 409 means a live entry
// has taken the (site, slug, locale) triple in the meantime.
func (h *Handler) RestoreEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "entry")
	if !ok {
		return
	}
	if err := h.st.Entries.Restore(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "entry")
		return
	}
	entry, err := h.st.Entries.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "entry")
		return
	}

	if h.caches != nil {
		h.caches.InvalidateEntryCounts(r.Context(), entry.SiteID)
	}
	WriteSuccess(w, entry, nil)
}

// PreviewMarkdown renders a markdown fragment to sanitized HTML for
// editor preview.
func (h *Handler) PreviewMarkdown(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	html, err := render.Markdown([]byte(req.Markdown))
	if err != nil {
		WriteBadRequest(w, "Invalid markdown", nil)
		return
	}
	WriteSuccess(w, PreviewResponse{HTML: html}, nil)
}
