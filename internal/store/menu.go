// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/victorianmonkey/vmsite/internal/model"
)

const (
	menuSectionColumns = "id, position, active, created_at, updated_at"
	menuEntryColumns   = "id, section_id, parent_id, link, position, active, created_at, updated_at"
)

func scanMenuSection(row interface{ Scan(...any) error }) (model.MenuSection, error) {
	var s model.MenuSection
	err := row.Scan(&s.ID, &s.Position, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanMenuEntry(row interface{ Scan(...any) error }) (model.MenuEntry, error) {
	var e model.MenuEntry
	err := row.Scan(&e.ID, &e.SectionID, &e.ParentID, &e.Link, &e.Position, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ListMenuSections returns menu sections ordered by position.
func (q *Queries) ListMenuSections(ctx context.Context, activeOnly bool) ([]model.MenuSection, error) {
	query := "SELECT " + menuSectionColumns + " FROM menu_sections"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY position ASC"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sections []model.MenuSection
	for rows.Next() {
		s, err := scanMenuSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// GetMenuSection returns the section with the given id, or sql.ErrNoRows.
func (q *Queries) GetMenuSection(ctx context.Context, id int64) (model.MenuSection, error) {
	return scanMenuSection(q.db.QueryRowContext(ctx,
		"SELECT "+menuSectionColumns+" FROM menu_sections WHERE id = ?", id))
}

// CreateMenuSectionParams holds the writable section fields.
type CreateMenuSectionParams struct {
	Position int
	Active   bool
}

// CreateMenuSection inserts a section and returns the generated id.
func (q *Queries) CreateMenuSection(ctx context.Context, arg CreateMenuSectionParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO menu_sections (position, active, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Position, arg.Active, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateMenuSectionParams holds the full overlay written by UpdateMenuSection.
type UpdateMenuSectionParams struct {
	ID       int64
	Position int
	Active   bool
}

// UpdateMenuSection overwrites the writable fields of a section.
func (q *Queries) UpdateMenuSection(ctx context.Context, arg UpdateMenuSectionParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE menu_sections SET position = ?, active = ?, updated_at = ? WHERE id = ?",
		arg.Position, arg.Active, time.Now().UTC(), arg.ID)
	return err
}

// DeleteMenuSection removes a section by id. Entries referencing it are left
// in place; dangling section ids are tolerated.
func (q *Queries) DeleteMenuSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM menu_sections WHERE id = ?", id)
	return err
}

// ListMenuEntriesParams are the optional entry filters, combined with AND.
type ListMenuEntriesParams struct {
	SectionID  sql.NullInt64
	ParentID   sql.NullInt64
	ActiveOnly bool
}

// ListMenuEntries returns menu entries ordered by position.
func (q *Queries) ListMenuEntries(ctx context.Context, arg ListMenuEntriesParams) ([]model.MenuEntry, error) {
	var conds []string
	var args []any
	if arg.SectionID.Valid {
		conds = append(conds, "section_id = ?")
		args = append(args, arg.SectionID.Int64)
	}
	if arg.ParentID.Valid {
		conds = append(conds, "parent_id = ?")
		args = append(args, arg.ParentID.Int64)
	}
	if arg.ActiveOnly {
		conds = append(conds, "active = 1")
	}

	query := "SELECT " + menuEntryColumns + " FROM menu_entries" +
		whereClause(conds) + " ORDER BY position ASC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.MenuEntry
	for rows.Next() {
		e, err := scanMenuEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetMenuEntry returns the entry with the given id, or sql.ErrNoRows.
func (q *Queries) GetMenuEntry(ctx context.Context, id int64) (model.MenuEntry, error) {
	return scanMenuEntry(q.db.QueryRowContext(ctx,
		"SELECT "+menuEntryColumns+" FROM menu_entries WHERE id = ?", id))
}

// CreateMenuEntryParams holds the writable entry fields.
type CreateMenuEntryParams struct {
	SectionID sql.NullInt64
	ParentID  sql.NullInt64
	Link      sql.NullString
	Position  int
	Active    bool
}

// CreateMenuEntry inserts an entry and returns the generated id.
func (q *Queries) CreateMenuEntry(ctx context.Context, arg CreateMenuEntryParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO menu_entries (section_id, parent_id, link, position, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		arg.SectionID, arg.ParentID, arg.Link, arg.Position, arg.Active, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateMenuEntryParams holds the full overlay written by UpdateMenuEntry.
type UpdateMenuEntryParams struct {
	ID        int64
	SectionID sql.NullInt64
	ParentID  sql.NullInt64
	Link      sql.NullString
	Position  int
	Active    bool
}

// UpdateMenuEntry overwrites the writable fields of an entry.
func (q *Queries) UpdateMenuEntry(ctx context.Context, arg UpdateMenuEntryParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE menu_entries SET section_id = ?, parent_id = ?, link = ?, position = ?, active = ?, updated_at = ? WHERE id = ?",
		arg.SectionID, arg.ParentID, arg.Link, arg.Position, arg.Active, time.Now().UTC(), arg.ID)
	return err
}

// DeleteMenuEntry removes an entry by id.
func (q *Queries) DeleteMenuEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM menu_entries WHERE id = ?", id)
	return err
}
