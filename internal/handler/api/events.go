// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/hcms-go/internal/store"
)

// ListEvents returns a page of audit events, newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actorID, err := optionalID(r, "actor_id")
	if err != nil {
		WriteBadRequest(w, "Invalid actor_id", nil)
		return
	}
	since, err := timeParam(r, "since")
	if err != nil {
		WriteBadRequest(w, "Invalid since", nil)
		return
	}

	page, err := h.st.Events.List(r.Context(), store.ListEventsFilters{
		Page:       pageFromQuery(r),
		Levels:     csvParam(r, "level"),
		Categories: csvParam(r, "category"),
		ActorID:    actorID,
		Since:      since,
	})
	if err != nil {
		writeStoreError(w, err, "event")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}
