package model

import (
	"database/sql"
	"time"
)

// MenuSection groups menu entries under a translated title.
type MenuSection struct {
	ID        int64
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuEntry is a single navigation item. SectionID and ParentID are loose
// references: deleting a section does not cascade, so dangling ids are
// possible and treated as non-fatal.
type MenuEntry struct {
	ID        int64
	SectionID sql.NullInt64
	ParentID  sql.NullInt64
	Link      sql.NullString
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
