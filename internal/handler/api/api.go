// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for the headless CMS.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hcms-go/internal/cache"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db     *sql.DB
	st     *store.Store
	caches *cache.Manager
}

// NewHandler creates a new API handler. The cache manager may be nil when
// caching is disabled; cached lookups then fall through to the store.
func NewHandler(db *sql.DB, caches *cache.Manager) *Handler {
	return &Handler{
		db:     db,
		st:     store.New(db),
		caches: caches,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries cursor pagination metadata.
type Meta struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// pageMeta builds list response metadata from a store page.
func pageMeta[T any](page store.Paginated[T]) *Meta {
	return &Meta{
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "already_exists", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with
// field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeStoreError maps a store error onto the API error vocabulary. The
// entityName is used in messages ("site", "entry").
func writeStoreError(w http.ResponseWriter, err error, entityName string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteValidationError(w, map[string]string{validationErr.Field: validationErr.Reason})
	case errors.Is(err, store.ErrInvalidID):
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, capitalizeFirst(entityName) + " not found")
	case errors.Is(err, store.ErrAlreadyExists):
		WriteConflict(w, capitalizeFirst(entityName) + " already exists")
	default:
		slog.Error("store operation failed", "entity", entityName, "error", err)
		WriteInternalError(w, "Failed to process "+entityName)
	}
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeJSON decodes the request body into dst, writing a 400 response on
// malformed input. Returns false when a response has been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// idParam parses the {id} URL parameter, writing a 400 response on a
// malformed id. Returns the id and true on success.
func idParam(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// pageFromQuery extracts cursor pagination parameters from the query
// string. A non-numeric limit is treated as absent; the store clamps the
// rest.
func pageFromQuery(r *http.Request) store.Page {
	page := store.Page{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			page.Limit = limit
		}
	}
	return page
}

// scopeFromQuery maps the ?scope= query parameter to a store scope.
// Anything unrecognized falls back to live rows.
func scopeFromQuery(r *http.Request) store.Scope {
	switch r.URL.Query().Get("scope") {
	case "all":
		return store.ScopeWithDeleted
	case "deleted":
		return store.ScopeOnlyDeleted
	default:
		return store.ScopeLive
	}
}

// optionalID parses an id-valued query parameter, nil when absent.
func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := store.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}
