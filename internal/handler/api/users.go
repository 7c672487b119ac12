// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/hcms-go/internal/auth"
	"github.com/olegiv/hcms-go/internal/middleware"
	"github.com/olegiv/hcms-go/internal/store"
)

// CreateUserRequest is the request body for creating a user. The password
// is optional; accounts provisioned through the external identity
// provider carry none.
type CreateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Image    *string  `json:"image"`
	Roles    []string `json:"roles"`
	TeamID   *int64   `json:"team_id,string"`
	Status   string   `json:"status"`
	Password string   `json:"password"`
}

// UpdateUserRequest is the request body for patching a user. An explicit
// null password clears the stored hash, detaching the account from
// password login.
type UpdateUserRequest struct {
	Name     *string                `json:"name"`
	Image    store.Optional[string] `json:"image"`
	Roles    []string               `json:"roles"`
	TeamID   store.Optional[int64]  `json:"team_id,string"`
	Status   *string                `json:"status"`
	Password store.Optional[string] `json:"password"`
}

// ListUsers returns a page of users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	teamID, err := optionalID(r, "team_id")
	if err != nil {
		WriteBadRequest(w, "Invalid team_id", nil)
		return
	}

	page, err := h.st.Users.List(r.Context(), store.ListUsersFilters{
		Page:     pageFromQuery(r),
		Search:   r.URL.Query().Get("search"),
		TeamID:   teamID,
		Roles:    csvParam(r, "roles"),
		Statuses: csvParam(r, "status"),
		Scope:    scopeFromQuery(r),
	})
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}

// GetUser returns a single user by id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}
	user, err := h.st.Users.FindByID(r.Context(), id, scopeFromQuery(r))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	WriteSuccess(w, user, nil)
}

// CreateUser creates a new user, hashing the password when one is given.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := store.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Image:  req.Image,
		Roles:  req.Roles,
		TeamID: req.TeamID,
		Status: req.Status,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			WriteInternalError(w, "Failed to hash password")
			return
		}
		input.PasswordHash = &hash
	}

	user, err := h.st.Users.Create(r.Context(), input, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	WriteCreated(w, user)
}

// UpdateUser patches a user.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := store.UpdateUserInput{
		Name:   req.Name,
		Image:  req.Image,
		Roles:  req.Roles,
		TeamID: req.TeamID,
		Status: req.Status,
	}
	if req.Password.IsSet() {
		if plain := req.Password.Ptr(); plain != nil {
			hash, err := auth.HashPassword(*plain)
			if err != nil {
				WriteInternalError(w, "Failed to hash password")
				return
			}
			patch.PasswordHash = store.Set(hash)
		} else {
			patch.PasswordHash = store.Clear[string]()
		}
	}

	user, err := h.st.Users.Update(r.Context(), id, patch, middleware.ActorID(r))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	WriteSuccess(w, user, nil)
}

// DeleteUser soft deletes a user. Deleting yourself is rejected to keep
// at least the acting administrator alive.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}
	if actor := middleware.GetActor(r); actor != nil && actor.ID == id {
		WriteBadRequest(w, "Cannot delete your own account", nil)
		return
	}
	if err := h.st.Users.SoftDelete(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreUser restores a soft deleted user. A 409 means a live user has
// taken the email in the meantime.
func (h *Handler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}
	if err := h.st.Users.Restore(r.Context(), id, middleware.ActorID(r)); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	user, err := h.st.Users.FindByID(r.Context(), id, store.ScopeLive)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	WriteSuccess(w, user, nil)
}
