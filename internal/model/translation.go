// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Entity type tags for translations. The set is closed: the generic
// translations endpoint rejects tags outside it.
const (
	EntityTypePage         = "page"
	EntityTypeAnnouncement = "announcement"
	EntityTypeMenuEntry    = "menu_entry"
	EntityTypeMenuSection  = "menu_section"
)

// ValidEntityTypes contains all recognized entity type tags.
var ValidEntityTypes = []string{
	EntityTypePage,
	EntityTypeAnnouncement,
	EntityTypeMenuEntry,
	EntityTypeMenuSection,
}

// IsValidEntityType checks whether a tag names a known entity kind.
func IsValidEntityType(tag string) bool {
	for _, t := range ValidEntityTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// Translation fields commonly attached to entities. The schema accepts any
// field name; these are the headline fields surfaced as top-level keys by
// the content endpoints.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLabel       = "label"
	FieldContent     = "content"
)

// Translation is one localized field value for a content entity. At most one
// row should exist per (entity_type, entity_id, language, field) tuple;
// association with the entity is by convention on the tag and id.
type Translation struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	Language   string    `json:"language"`
	Field      string    `json:"field"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
