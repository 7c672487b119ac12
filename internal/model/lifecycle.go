// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Site, ContentType and Entry, along with the
// invariant checks the store enforces before persisting them.
package model

import "time"

// Lifecycle is the envelope every persisted entity carries: the primary
// identifier, audit timestamps, actor references and the soft-delete state.
// IsDeleted is true iff DeletedAt is set.
type Lifecycle struct {
	ID        int64      `json:"id,string"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *int64     `json:"created_by,string,omitempty"`
	UpdatedBy *int64     `json:"updated_by,string,omitempty"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// EntityID returns the primary identifier. It satisfies the store's
// pagination constraint for every entity embedding Lifecycle.
func (l Lifecycle) EntityID() int64 {
	return l.ID
}
