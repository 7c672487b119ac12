// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"strings"
	"time"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleAuthor = "author"
	RoleViewer = "viewer"
)

// User statuses
const (
	UserStatusActive    = "active"
	UserStatusInvited   = "invited"
	UserStatusSuspended = "suspended"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleEditor, RoleAuthor, RoleViewer}

// ValidUserStatuses contains all valid user statuses.
var ValidUserStatuses = []string{UserStatusActive, UserStatusInvited, UserStatusSuspended}

// User represents a CMS user. PasswordHash is nil for accounts that only
// ever authenticate through the external identity provider.
type User struct {
	Lifecycle
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Image        *string    `json:"image,omitempty"`
	Roles        []string   `json:"roles"`
	TeamID       *int64     `json:"team_id,string,omitempty"`
	Status       string     `json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	PasswordHash *string    `json:"-"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}

// NormalizeEmail lowercases and trims an email address. Uniqueness among
// live users is case-insensitive, so every email is normalized before it
// reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeRoles trims and lowercases each role, de-duplicates preserving
// order, and defaults to viewer when empty.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return []string{RoleViewer}
	}
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" && !slices.Contains(out, role) {
			out = append(out, role)
		}
	}
	if len(out) == 0 {
		return []string{RoleViewer}
	}
	return out
}

// ValidateRoles checks that every role is one of the known roles and that
// the set is non-empty.
func ValidateRoles(roles []string) error {
	if len(roles) == 0 {
		return invalid("roles", "at least one role is required")
	}
	for _, role := range roles {
		if !slices.Contains(ValidRoles, role) {
			return invalid("roles", "unknown role %q", role)
		}
	}
	return nil
}

// ValidateUserStatus checks that status is one of the known user statuses.
func ValidateUserStatus(status string) error {
	if !slices.Contains(ValidUserStatuses, status) {
		return invalid("status", "unknown status %q", status)
	}
	return nil
}
