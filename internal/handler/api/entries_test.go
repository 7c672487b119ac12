// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/hcms-go/internal/model"
)

func TestCreateEntry(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	rec := a.request(t, http.MethodPost, "/entries", &a.author, CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "hello-world",
		Title:         "Hello World",
		Data:          map[string]any{"body": "# Hi"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var entry model.Entry
	decodeData(t, rec, &entry)
	if entry.Status != model.EntryStatusDraft {
		t.Errorf("Status = %q, want draft", entry.Status)
	}
	if entry.Locale != model.DefaultLocale {
		t.Errorf("Locale = %q, want %q", entry.Locale, model.DefaultLocale)
	}
	if entry.AuthorID != a.author.ID {
		t.Errorf("AuthorID = %d, want actor %d", entry.AuthorID, a.author.ID)
	}
}

func TestCreateEntryPublishRequiresCapability(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	req := CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "hello-world",
		Title:         "Hello World",
		Status:        model.EntryStatusPublished,
	}

	rec := a.request(t, http.MethodPost, "/entries", &a.author, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("author publish status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = a.request(t, http.MethodPost, "/entries", &a.editor, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("editor publish status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var entry model.Entry
	decodeData(t, rec, &entry)
	if entry.PublishAt == nil {
		t.Error("published entry missing publish_at stamp")
	}
}

func TestUpdateEntryPublishTransition(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	rec := a.request(t, http.MethodPost, "/entries", &a.author, CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "draft-post",
		Title:         "Draft",
	})
	var entry model.Entry
	decodeData(t, rec, &entry)
	path := fmt.Sprintf("/entries/%d", entry.ID)

	rec = a.request(t, http.MethodPatch, path, &a.author, map[string]any{
		"status": model.EntryStatusPublished,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("author transition status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Plain edits stay open to the author.
	rec = a.request(t, http.MethodPatch, path, &a.author, map[string]any{
		"title": "Revised Draft",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("author edit status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	decodeData(t, rec, &entry)
	if entry.LastEditorID == nil || *entry.LastEditorID != a.author.ID {
		t.Errorf("LastEditorID = %v, want %d", entry.LastEditorID, a.author.ID)
	}

	rec = a.request(t, http.MethodPatch, path, &a.editor, map[string]any{
		"status": model.EntryStatusPublished,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("editor transition status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	decodeData(t, rec, &entry)
	if entry.Status != model.EntryStatusPublished || entry.PublishAt == nil {
		t.Errorf("entry = %q publish_at %v, want published with stamp", entry.Status, entry.PublishAt)
	}
}

func TestScheduledEntryRequiresPublishAt(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	rec := a.request(t, http.MethodPost, "/entries", &a.editor, CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "scheduled-post",
		Title:         "Scheduled",
		Status:        model.EntryStatusScheduled,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}

	publishAt := time.Now().Add(24 * time.Hour).UTC()
	rec = a.request(t, http.MethodPost, "/entries", &a.editor, CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "scheduled-post",
		Title:         "Scheduled",
		Status:        model.EntryStatusScheduled,
		PublishAt:     &publishAt,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestCreateEntryContentTypeSiteMismatch(t *testing.T) {
	a := newTestAPI(t)
	first := createTestSite(t, a.st, "docs")
	second := createTestSite(t, a.st, "blog")
	contentType := createTestContentType(t, a.st, second.ID, "article")

	rec := a.request(t, http.MethodPost, "/entries", &a.author, CreateEntryRequest{
		SiteID:        first.ID,
		ContentTypeID: contentType.ID,
		Slug:          "hello-world",
		Title:         "Hello World",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
}

func TestLookupEntry(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	rec := a.request(t, http.MethodPost, "/entries", &a.author, CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "hello-world",
		Title:         "Hello World",
	})
	var created model.Entry
	decodeData(t, rec, &created)

	rec = a.request(t, http.MethodGet,
		fmt.Sprintf("/entries/lookup?site_id=%d&slug=hello-world", site.ID), &a.viewer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got model.Entry
	decodeData(t, rec, &got)
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	rec = a.request(t, http.MethodGet,
		fmt.Sprintf("/entries/lookup?site_id=%d&slug=hello-world&locale=de", site.ID), &a.viewer, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("other locale status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListEntriesFilters(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	for i, status := range []string{
		model.EntryStatusDraft, model.EntryStatusDraft, model.EntryStatusPublished,
	} {
		rec := a.request(t, http.MethodPost, "/entries", &a.editor, CreateEntryRequest{
			SiteID:        site.ID,
			ContentTypeID: contentType.ID,
			Slug:          fmt.Sprintf("post-%d", i),
			Title:         fmt.Sprintf("Post %d", i),
			Status:        status,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("fixture %d status = %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := a.request(t, http.MethodGet,
		fmt.Sprintf("/entries?site_id=%d&status=%s", site.ID, model.EntryStatusDraft), &a.viewer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var entries []model.Entry
	decodeData(t, rec, &entries)
	if len(entries) != 2 {
		t.Errorf("draft count = %d, want 2", len(entries))
	}

	rec = a.request(t, http.MethodGet, "/entries?search=post", &a.viewer, nil)
	decodeData(t, rec, &entries)
	if len(entries) != 3 {
		t.Errorf("search count = %d, want 3", len(entries))
	}
}

func TestEntrySlugConflict(t *testing.T) {
	a := newTestAPI(t)
	site := createTestSite(t, a.st, "docs")
	contentType := createTestContentType(t, a.st, site.ID, "article")

	req := CreateEntryRequest{
		SiteID:        site.ID,
		ContentTypeID: contentType.ID,
		Slug:          "hello-world",
		Title:         "Hello World",
	}
	if rec := a.request(t, http.MethodPost, "/entries", &a.author, req); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}
	if rec := a.request(t, http.MethodPost, "/entries", &a.author, req); rec.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestPreviewMarkdown(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPost, "/entries/preview", &a.author, PreviewRequest{
		Markdown: "# Hello\n\n<script>alert(1)</script>",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var preview PreviewResponse
	decodeData(t, rec, &preview)
	if !strings.Contains(preview.HTML, "<h1") {
		t.Errorf("HTML missing heading: %q", preview.HTML)
	}
	if strings.Contains(preview.HTML, "<script") {
		t.Errorf("HTML not sanitized: %q", preview.HTML)
	}

	if rec := a.request(t, http.MethodPost, "/entries/preview", &a.viewer, PreviewRequest{Markdown: "x"}); rec.Code != http.StatusForbidden {
		t.Errorf("viewer preview status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
