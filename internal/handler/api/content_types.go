// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// CreateContentTypeRequest is the request body for creating a content type.
type CreateContentTypeRequest struct {
	SiteID      int64                `json:"site_id,string"`
	Name        string               `json:"name"`
	APIID       string               `json:"api_id"`
	Description *string              `json:"description"`
	Fields      []model.ContentField `json:"fields"`
}

// UpdateContentTypeRequest is the request body for patching a content
// type. The site binding is immutable.
type UpdateContentTypeRequest struct {
	Name        *string                `json:"name"`
	APIID       *string                `json:"api_id"`
	Description store.Optional[string] `json:"description"`
	Fields      []model.ContentField   `json:"fields"`
}

// ListContentTypes returns a page of content types.
func (h *Handler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	siteID, err := optionalID(r, "site_id")
	if err != nil {
		WriteBadRequest(w, "Invalid site_id", nil)
		return
	}

	page, err := h.st.ContentTypes.List(r.Context(), store.ListContentTypesFilters{
		Page:   pageFromQuery(r),
		SiteID: siteID,
		Search: r.URL.Query().Get("search"),
		Scope:  scopeFromQuery(r),
	})
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}

// GetContentType returns a single content type by id.
func (h *Handler) GetContentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "content type")
	if !ok {
		return
	}
	contentType, err := h.st.ContentTypes.FindByID(r.Context(), id, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteSuccess(w, contentType, nil)
}

// LookupContentType resolves a content type by its natural key, the
// (site_id, api_id) pair.
func (h *Handler) LookupContentType(w http.ResponseWriter, r *http.Request) {
	siteID, err := store.ParseID(r.URL.Query().Get("site_id"))
	if err != nil {
		WriteBadRequest(w, "Invalid site_id", nil)
		return
	}
	apiID := r.URL.Query().Get("api_id")
	if apiID == "" {
		WriteBadRequest(w, "api_id is required", nil)
		return
	}

	contentType, err := h.st.ContentTypes.FindByAPIID(r.Context(), siteID, apiID, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteSuccess(w, contentType, nil)
}

// CreateContentType creates a new content type.
func (h *Handler) CreateContentType(w http.ResponseWriter, r *http.Request) {
	var req CreateContentTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.st.Sites.FindByID(r.Context(), req.SiteID, store.ScopeLive); err != nil {
		writeStoreError(w, err, "site")
		return
	}

	contentType, err := h.st.ContentTypes.Create(r.Context(), store.CreateContentTypeInput{
		SiteID:      req.SiteID,
		Name:        req.Name,
		APIID:       req.APIID,
		Description: req.Description,
		Fields:      req.Fields,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteCreated(w, contentType)
}

// UpdateContentType patches a content type.
func (h *Handler) UpdateContentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "content type")
	if !ok {
		return
	}
	var req UpdateContentTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contentType, err := h.st.ContentTypes.Update(r.Context(), id, store.UpdateContentTypeInput{
		Name:        req.Name,
		APIID:       req.APIID,
		Description: req.Description,
		Fields:      req.Fields,
	}, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteSuccess(w, contentType, nil)
}

// DeleteContentType soft deletes a content type.
func (h *Handler) DeleteContentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "content type")
	if !ok {
		return
	}
	if err := h.st.ContentTypes.SoftDelete(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreContentType restores a soft deleted content type. A 409 means a
// live type has taken the api id in the meantime.
func (h *Handler) RestoreContentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "content type")
	if !ok {
		return
	}
	if err := h.st.ContentTypes.Restore(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	contentType, err := h.st.ContentTypes.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "content type")
		return
	}
	WriteSuccess(w, contentType, nil)
}
