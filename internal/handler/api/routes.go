// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/model"
)

// Routes assembles the API route tree. The caller mounts it under the
// versioned prefix and applies actor resolution and rate limiting above
// it; this tree only adds per-group capability checks.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/status", h.Status)

	// Read endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(model.CapViewContent))

		r.Get("/sites", h.ListSites)
		r.Get("/sites/{id}", h.GetSite)
		r.Get("/sites/slug/{slug}", h.GetSiteBySlug)
		r.Get("/sites/{id}/entry-counts", h.GetSiteEntryCounts)

		r.Get("/content-types", h.ListContentTypes)
		r.Get("/content-types/{id}", h.GetContentType)
		r.Get("/content-types/lookup", h.LookupContentType)

		r.Get("/entries", h.ListEntries)
		r.Get("/entries/{id}", h.GetEntry)
		r.Get("/entries/lookup", h.LookupEntry)
	})

	// Site management
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(model.CapManageSite))

		r.Post("/sites", h.CreateSite)
		r.Patch("/sites/{id}", h.UpdateSite)
		r.Delete("/sites/{id}", h.DeleteSite)
		r.Post("/sites/{id}/restore", h.RestoreSite)

		r.Get("/events", h.ListEvents)
	})

	// Content type management
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(model.CapManageContentTypes))

		r.Post("/content-types", h.CreateContentType)
		r.Patch("/content-types/{id}", h.UpdateContentType)
		r.Delete("/content-types/{id}", h.DeleteContentType)
		r.Post("/content-types/{id}/restore", h.RestoreContentType)
	})

	// Entry editing. Publishing transitions additionally require the
	// publish capability, checked inside the handlers.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(model.CapEditContent))

		r.Post("/entries", h.CreateEntry)
		r.Patch("/entries/{id}", h.UpdateEntry)
		r.Delete("/entries/{id}", h.DeleteEntry)
		r.Post("/entries/{id}/restore", h.RestoreEntry)
		r.Post("/entries/preview", h.PreviewMarkdown)
	})

	// User management
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(model.CapManageUsers))

		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Get("/users/{id}", h.GetUser)
		r.Patch("/users/{id}", h.UpdateUser)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Post("/users/{id}/restore", h.RestoreUser)
	})

	return r
}
