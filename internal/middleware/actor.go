// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// ContextKeyActor is the context key for the resolved acting user.
const ContextKeyActor ContextKey = "actor"

// ActorHeader names the trusted header carrying the acting user's id. The
// service sits behind an authenticating gateway that sets it; the header
// is an id, not a credential.
const ActorHeader = "X-Actor-ID"

// Actor is the resolved acting user for a request.
type Actor struct {
	ID           int64
	Roles        []string
	Capabilities []model.Capability
}

// Can reports whether the actor holds a capability.
func (a *Actor) Can(capability model.Capability) bool {
	return a != nil && slices.Contains(a.Capabilities, capability)
}

// ResolveActor creates middleware that resolves the X-Actor-ID header to a
// live user and stores the Actor in the request context. A request without
// the header passes through anonymously; an unknown, deleted or suspended
// actor is rejected.
func ResolveActor(db *sql.DB) func(http.Handler) http.Handler {
	st := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ActorHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := store.ParseID(raw)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid actor id", nil)
				return
			}

			user, err := st.Users.FindByID(r.Context(), id, store.ScopeLive)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Unknown actor", nil)
					return
				}
				slog.Error("failed to resolve actor", "actor_id", id, "error", err)
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve actor", nil)
				return
			}
			if user.Status == model.UserStatusSuspended {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Actor is suspended", nil)
				return
			}

			actor := &Actor{
				ID:           user.ID,
				Roles:        user.Roles,
				Capabilities: model.CapabilitiesForRoles(user.Roles),
			}
			ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor retrieves the actor from the request context, or nil for an
// anonymous request.
func GetActor(r *http.Request) *Actor {
	actor, _ := r.Context().Value(ContextKeyActor).(*Actor)
	return actor
}

// ActorID returns a pointer to the acting user's id for audit columns, or
// nil for an anonymous request.
func ActorID(r *http.Request) *int64 {
	if actor := GetActor(r); actor != nil {
		return &actor.ID
	}
	return nil
}

// RequireCapability creates middleware that rejects requests whose actor
// lacks the capability. Anonymous requests are rejected with 401.
func RequireCapability(capability model.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActor(r)
			if actor == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Actor required", nil)
				return
			}
			if !actor.Can(capability) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Missing capability: "+string(capability), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
