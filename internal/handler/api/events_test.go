// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

func TestListEvents(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	fixtures := []store.CreateEventInput{
		{Level: model.EventLevelInfo, Category: model.EventCategorySystem, Message: "startup"},
		{Level: model.EventLevelWarning, Category: model.EventCategoryAuth, Message: "failed login", ActorID: &a.viewer.ID},
		{Level: model.EventLevelError, Category: model.EventCategoryContent, Message: "broken entry"},
	}
	for _, input := range fixtures {
		if _, err := a.st.Events.Create(ctx, input); err != nil {
			t.Fatalf("creating event: %v", err)
		}
	}

	rec := a.request(t, http.MethodGet, "/events", &a.admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var events []model.Event
	decodeData(t, rec, &events)
	if len(events) != 3 {
		t.Fatalf("event count = %d, want 3", len(events))
	}
	if events[0].Message != "broken entry" {
		t.Errorf("first event = %q, want newest first", events[0].Message)
	}

	rec = a.request(t, http.MethodGet, "/events?level="+model.EventLevelWarning, &a.admin, nil)
	decodeData(t, rec, &events)
	if len(events) != 1 || events[0].Category != model.EventCategoryAuth {
		t.Errorf("level filter returned %d events", len(events))
	}

	rec = a.request(t, http.MethodGet, "/events?actor_id="+store.FormatID(a.viewer.ID), &a.admin, nil)
	decodeData(t, rec, &events)
	if len(events) != 1 || events[0].Message != "failed login" {
		t.Errorf("actor filter returned %d events", len(events))
	}
}

func TestListEventsBadParams(t *testing.T) {
	a := newTestAPI(t)

	if rec := a.request(t, http.MethodGet, "/events?actor_id=abc", &a.admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("actor_id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if rec := a.request(t, http.MethodGet, "/events?since=notatime", &a.admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("since status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
