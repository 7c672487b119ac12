// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"

	"github.com/olegiv/hcms-go/internal/util"
)

// Content field types
const (
	FieldTypeText        = "text"
	FieldTypeRichText    = "richtext"
	FieldTypeMarkdown    = "markdown"
	FieldTypeNumber      = "number"
	FieldTypeBoolean     = "boolean"
	FieldTypeSelect      = "select"
	FieldTypeMultiSelect = "multiselect"
	FieldTypeRelation    = "relation"
	FieldTypeImage       = "image"
)

// Relation targets
const (
	RelationToEntry    = "entry"
	RelationToMedia    = "media"
	RelationToTaxonomy = "taxonomy"
)

// ValidFieldTypes contains all valid content field types.
var ValidFieldTypes = []string{
	FieldTypeText,
	FieldTypeRichText,
	FieldTypeMarkdown,
	FieldTypeNumber,
	FieldTypeBoolean,
	FieldTypeSelect,
	FieldTypeMultiSelect,
	FieldTypeRelation,
	FieldTypeImage,
}

// ValidRelationTargets contains all valid relation targets.
var ValidRelationTargets = []string{RelationToEntry, RelationToMedia, RelationToTaxonomy}

// FieldRelation configures a relation field: what it points at and whether
// it holds one reference or many.
type FieldRelation struct {
	To       string `json:"to"`
	Multiple bool   `json:"multiple"`
}

// ContentField is a single field definition inside a content type schema.
type ContentField struct {
	Key      string         `json:"key"`
	Label    string         `json:"label"`
	Type     string         `json:"type"`
	Required bool           `json:"required"`
	Options  []string       `json:"options,omitempty"`
	Relation *FieldRelation `json:"relation,omitempty"`
}

// ContentType is a user-defined schema scoped to one site. APIID is unique
// among the site's live content types.
type ContentType struct {
	Lifecycle
	SiteID      int64          `json:"site_id,string"`
	Name        string         `json:"name"`
	APIID       string         `json:"api_id"`
	Description *string        `json:"description,omitempty"`
	Fields      []ContentField `json:"fields"`
}

// ValidateFields checks the field list invariants: kebab-case keys unique
// within the list, known types, options present exactly for select types
// and relation config present exactly for relation fields. The schema is
// mutable independent of any client, so this runs on every write, not just
// at payload validation time.
func ValidateFields(fields []ContentField) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if !util.IsValidSlug(field.Key) {
			return invalid("fields", "field key %q must be lowercase kebab-case", field.Key)
		}
		if _, dup := seen[field.Key]; dup {
			return invalid("fields", "duplicate field key %q", field.Key)
		}
		seen[field.Key] = struct{}{}

		if field.Label == "" {
			return invalid("fields", "field %q is missing a label", field.Key)
		}
		if !slices.Contains(ValidFieldTypes, field.Type) {
			return invalid("fields", "field %q has unknown type %q", field.Key, field.Type)
		}

		switch field.Type {
		case FieldTypeSelect, FieldTypeMultiSelect:
			if len(field.Options) == 0 {
				return invalid("fields", "field %q requires a non-empty options list", field.Key)
			}
		case FieldTypeRelation:
			if field.Relation == nil {
				return invalid("fields", "field %q requires a relation config", field.Key)
			}
			if !slices.Contains(ValidRelationTargets, field.Relation.To) {
				return invalid("fields", "field %q has unknown relation target %q", field.Key, field.Relation.To)
			}
		default:
			if field.Relation != nil {
				return invalid("fields", "field %q is not a relation but has a relation config", field.Key)
			}
		}
	}
	return nil
}
