// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale assigned to sites and entries that do not
// specify one.
const DefaultLocale = "en"

// DefaultTheme is the theme assigned to new sites.
const DefaultTheme = "system"

// Site represents a tenant: one website with its own locales, theme and
// content. Soft-deleting a site leaves its content types and entries in
// place; they become orphaned but inert.
type Site struct {
	Lifecycle
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Domain        *string  `json:"domain,omitempty"`
	Locales       []string `json:"locales"`
	DefaultLocale string   `json:"default_locale"`
	Theme         string   `json:"theme"`
	TeamID        *int64   `json:"team_id,string,omitempty"`
}

// NormalizeLocales lowercases and de-duplicates locale codes, preserving
// order. Returns nil for an empty input so callers can distinguish "not
// provided" from an explicit list.
func NormalizeLocales(locales []string) []string {
	if len(locales) == 0 {
		return nil
	}
	out := make([]string, 0, len(locales))
	for _, locale := range locales {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale == "" {
			continue
		}
		if !slices.Contains(out, locale) {
			out = append(out, locale)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ValidateLocales checks that the locale set is non-empty, that every code
// parses as a BCP 47 tag, and that the default locale is a member of the
// set.
func ValidateLocales(locales []string, defaultLocale string) error {
	if len(locales) == 0 {
		return invalid("locales", "at least one locale is required")
	}
	for _, locale := range locales {
		if _, err := language.Parse(locale); err != nil {
			return invalid("locales", "invalid locale code %q", locale)
		}
	}
	if !slices.Contains(locales, defaultLocale) {
		return invalid("default_locale", "default locale %q must be part of the locales list", defaultLocale)
	}
	return nil
}
