// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"

	"github.com/olegiv/hcms-go/internal/util"
)

// Entry statuses
const (
	EntryStatusDraft     = "draft"
	EntryStatusPublished = "published"
	EntryStatusScheduled = "scheduled"
)

// ValidEntryStatuses contains all valid entry statuses, in reporting order.
var ValidEntryStatuses = []string{EntryStatusDraft, EntryStatusPublished, EntryStatusScheduled}

// EntryBlock is one content block inside an entry body.
type EntryBlock struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
	Meta map[string]any `json:"meta"`
}

// Entry is a document conforming to a content type schema. The data bag is
// shaped by the owning content type's fields but deliberately not validated
// against it at this layer. The slug is unique among the site's live
// entries per locale.
type Entry struct {
	Lifecycle
	SiteID        int64          `json:"site_id,string"`
	ContentTypeID int64          `json:"content_type_id,string"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Status        string         `json:"status"`
	PublishAt     *time.Time     `json:"publish_at,omitempty"`
	Locale        string         `json:"locale"`
	Data          map[string]any `json:"data"`
	Blocks        []EntryBlock   `json:"blocks"`
	AuthorID      int64          `json:"author_id,string"`
	LastEditorID  *int64         `json:"last_editor_id,string,omitempty"`
	TaxonomyIDs   []int64        `json:"taxonomy_ids"`
}

// IsPublished returns true if the entry is published.
func (e *Entry) IsPublished() bool {
	return e.Status == EntryStatusPublished
}

// ValidateEntrySlug checks that a slug is lowercase kebab-case.
func ValidateEntrySlug(slug string) error {
	if !util.IsValidSlug(slug) {
		return invalid("slug", "slug %q must be lowercase kebab-case", slug)
	}
	return nil
}

// ValidateEntryStatus checks that status is one of the known entry statuses.
func ValidateEntryStatus(status string) error {
	if !slices.Contains(ValidEntryStatuses, status) {
		return invalid("status", "unknown status %q", status)
	}
	return nil
}

// NormalizeBlocks fills missing data and meta bags so persisted blocks
// always round-trip as objects. Returns nil for nil input so callers can
// distinguish "not provided" from an explicit empty list.
func NormalizeBlocks(blocks []EntryBlock) []EntryBlock {
	if blocks == nil {
		return nil
	}
	out := make([]EntryBlock, len(blocks))
	for i, block := range blocks {
		if block.Data == nil {
			block.Data = map[string]any{}
		}
		if block.Meta == nil {
			block.Meta = map[string]any{}
		}
		out[i] = block
	}
	return out
}

// NormalizeTaxonomyIDs de-duplicates taxonomy references preserving order.
// Returns nil for nil input.
func NormalizeTaxonomyIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
