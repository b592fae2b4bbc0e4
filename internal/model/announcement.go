// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Announcement is a community notice, optionally categorized and priced.
// Images and ContactInfo hold raw JSON (an array of URLs and an object of
// contact details respectively); title and description come from the
// translations table.
type Announcement struct {
	ID          int64
	Category    sql.NullString
	Price       sql.NullString // decimal, stored as text
	Images      sql.NullString // JSON array
	ContactInfo sql.NullString // JSON object
	Published   bool
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
