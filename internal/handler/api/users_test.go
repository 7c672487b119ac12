// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/olegiv/hcms-go/internal/auth"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

func TestCreateUserWithPassword(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPost, "/users", &a.admin, CreateUserRequest{
		Name:     "New Author",
		Email:    "Author2@Test.Local",
		Roles:    []string{model.RoleAuthor},
		Password: "s3cret-Pass!",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "s3cret") || strings.Contains(rec.Body.String(), "argon2") {
		t.Error("response leaks password material")
	}

	var user model.User
	decodeData(t, rec, &user)
	if user.Email != "author2@test.local" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}

	stored, err := a.st.Users.FindByEmail(context.Background(), user.Email, store.ScopeLive)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.PasswordHash == nil {
		t.Fatal("stored user missing password hash")
	}
	ok, err := auth.CheckPassword("s3cret-Pass!", *stored.PasswordHash)
	if err != nil || !ok {
		t.Errorf("CheckPassword = %v, %v; want match", ok, err)
	}
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	a := newTestAPI(t)

	for _, actor := range []*model.User{&a.editor, &a.author, &a.viewer} {
		rec := a.request(t, http.MethodGet, "/users", actor, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%v list status = %d, want %d", actor.Roles, rec.Code, http.StatusForbidden)
		}
	}

	rec := a.request(t, http.MethodGet, "/users", &a.admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status = %d, want %d", rec.Code, http.StatusOK)
	}
	var users []model.User
	decodeData(t, rec, &users)
	if len(users) != 4 {
		t.Errorf("user count = %d, want 4", len(users))
	}
}

func TestUpdateUserPassword(t *testing.T) {
	a := newTestAPI(t)
	path := fmt.Sprintf("/users/%d", a.author.ID)

	rec := a.request(t, http.MethodPatch, path, &a.admin, map[string]any{
		"password": "new-Pass-123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d: %s", rec.Code, rec.Body.String())
	}
	stored, err := a.st.Users.FindByID(context.Background(), a.author.ID, store.ScopeLive)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.PasswordHash == nil {
		t.Fatal("password hash not stored")
	}

	// Explicit null detaches password login.
	rec = a.request(t, http.MethodPatch, path, &a.admin, map[string]any{
		"password": nil,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d: %s", rec.Code, rec.Body.String())
	}
	stored, err = a.st.Users.FindByID(context.Background(), a.author.ID, store.ScopeLive)
	if err != nil {
		t.Fatalf("FindByID after clear: %v", err)
	}
	if stored.PasswordHash != nil {
		t.Error("password hash not cleared")
	}
}

func TestDeleteUserSelfRejected(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", a.admin.ID), &a.admin, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self delete status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = a.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", a.viewer.ID), &a.admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	// A deleted actor can no longer authenticate.
	rec = a.request(t, http.MethodGet, "/sites", &a.viewer, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted actor status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRestoreUserEmailConflict(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", a.viewer.ID), &a.admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	createUser(t, a.st, a.viewer.Email, model.RoleViewer)

	rec = a.request(t, http.MethodPost, fmt.Sprintf("/users/%d/restore", a.viewer.ID), &a.admin, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("restore status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestUpdateUserInvalidRole(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPatch, fmt.Sprintf("/users/%d", a.viewer.ID), &a.admin, map[string]any{
		"roles": []string{"superuser"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
}
