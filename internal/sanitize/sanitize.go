// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize strips markup from user-supplied text before it is
// persisted or echoed back.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	// ugc keeps the formatting tags reasonable in editor-supplied content.
	ugc = bluemonday.UGCPolicy()
)

// Plain removes all HTML from s and trims surrounding whitespace. Used for
// contact form fields, which are plain text by contract.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Content sanitizes editor-supplied translation content, allowing common
// user-generated-content markup but nothing executable.
func Content(s string) string {
	return ugc.Sanitize(s)
}
