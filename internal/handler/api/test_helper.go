// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// testAPI bundles everything a handler test needs: the wired router, the
// backing store for fixtures, and users for each permission tier.
type testAPI struct {
	handler http.Handler
	st      *store.Store
	admin   model.User
	editor  model.User
	author  model.User
	viewer  model.User
}

// newTestAPI builds an API over a fresh migrated database, wrapped with
// actor resolution the way the server wires it. Caching is off; the
// cached paths are covered separately.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.ResolveActor(db))
	r.Mount("/", NewHandler(db, nil).Routes())

	st := store.New(db)
	return &testAPI{
		handler: r,
		st:      st,
		admin:   createUser(t, st, "admin@test.local", model.RoleAdmin),
		editor:  createUser(t, st, "editor@test.local", model.RoleEditor),
		author:  createUser(t, st, "author@test.local", model.RoleAuthor),
		viewer:  createUser(t, st, "viewer@test.local", model.RoleViewer),
	}
}

func createUser(t *testing.T, st *store.Store, email string, roles ...string) model.User {
	t.Helper()
	user, err := st.Users.Create(context.Background(), store.CreateUserInput{
		Name:  email,
		Email: email,
		Roles: roles,
	}, nil)
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}

// request performs a JSON request against the test router. A nil actor
// sends the request anonymously; a non-nil body is JSON encoded.
func (a *testAPI) request(t *testing.T, method, path string, actor *model.User, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if actor != nil {
		req.Header.Set(middleware.ActorHeader, store.FormatID(actor.ID))
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the data field of a response body into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decoding response data: %v", err)
	}
}

// decodeMeta returns the pagination metadata of a list response.
func decodeMeta(t *testing.T, rec *httptest.ResponseRecorder) *Meta {
	t.Helper()

	var envelope struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return envelope.Meta
}

// createTestSite creates a site fixture directly through the store.
func createTestSite(t *testing.T, st *store.Store, slug string) model.Site {
	t.Helper()
	site, err := st.Sites.Create(context.Background(), store.CreateSiteInput{
		Name: slug,
		Slug: slug,
	}, nil)
	if err != nil {
		t.Fatalf("creating site %s: %v", slug, err)
	}
	return site
}

// createTestContentType creates a content type fixture directly through
// the store.
func createTestContentType(t *testing.T, st *store.Store, siteID int64, apiID string) model.ContentType {
	t.Helper()
	contentType, err := st.ContentTypes.Create(context.Background(), store.CreateContentTypeInput{
		SiteID: siteID,
		Name:   apiID,
		APIID:  apiID,
		Fields: []model.ContentField{
			{Key: "body", Label: "Body", Type: model.FieldTypeMarkdown},
		},
	}, nil)
	if err != nil {
		t.Fatalf("creating content type %s: %v", apiID, err)
	}
	return contentType
}
