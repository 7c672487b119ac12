// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event log levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories.
const (
	EventCategorySystem    = "system"
	EventCategoryAuth      = "auth"
	EventCategoryContent   = "content"
	EventCategoryScheduler = "scheduler"
)

// Event is one row of the append-only audit/event log. Events are never
// soft-deleted; they record what happened, including deletions.
type Event struct {
	ID        int64          `json:"id,string"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	ActorID   *int64         `json:"actor_id,string,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EntityID implements the pagination cursor contract.
func (e Event) EntityID() int64 { return e.ID }
