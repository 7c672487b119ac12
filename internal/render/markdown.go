// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts entry field content to safe HTML for delivery
// previews.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements from rendered output. UGCPolicy
// allows the safe tag set for user-generated content while removing
// <script>, event handlers and similar.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown content to sanitized HTML.
func Markdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips dangerous elements from raw HTML content, for
// richtext fields that carry HTML directly.
func SanitizeHTML(content string) string {
	return htmlSanitizer.Sanitize(content)
}
