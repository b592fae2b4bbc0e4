// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Page is a site page identified by slug. Its displayed text lives in the
// translations table; the row itself carries routing and publication state.
type Page struct {
	ID          int64
	Slug        string
	Template    sql.NullString
	Published   bool
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsScheduled reports whether the page is awaiting a future publish date.
func (p *Page) IsScheduled(now time.Time) bool {
	return !p.Published && p.PublishedAt.Valid && p.PublishedAt.Time.After(now)
}
