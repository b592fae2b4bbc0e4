// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/victorianmonkey/vmsite/internal/model"
)

const translationColumns = "id, entity_type, entity_id, language, field, content, created_at, updated_at"

func scanTranslation(row interface{ Scan(...any) error }) (model.Translation, error) {
	var t model.Translation
	err := row.Scan(&t.ID, &t.EntityType, &t.EntityID, &t.Language, &t.Field, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTranslationsParams are the optional admin-list filters, combined with
// AND. A zero EntityID means any.
type ListTranslationsParams struct {
	EntityType string
	EntityID   sql.NullInt64
	Language   string
}

// ListTranslations returns translation rows, newest first.
func (q *Queries) ListTranslations(ctx context.Context, arg ListTranslationsParams) ([]model.Translation, error) {
	var conds []string
	var args []any
	if arg.EntityType != "" {
		conds = append(conds, "entity_type = ?")
		args = append(args, arg.EntityType)
	}
	if arg.EntityID.Valid {
		conds = append(conds, "entity_id = ?")
		args = append(args, arg.EntityID.Int64)
	}
	if arg.Language != "" {
		conds = append(conds, "language = ?")
		args = append(args, arg.Language)
	}

	query := "SELECT " + translationColumns + " FROM entity_translations" +
		whereClause(conds) + " ORDER BY created_at DESC"

	return q.queryTranslations(ctx, query, args...)
}

// ListEntityTranslations returns the rows matching the exact (entity type,
// entity id, language) triple.
func (q *Queries) ListEntityTranslations(ctx context.Context, entityType string, entityID int64, language string) ([]model.Translation, error) {
	return q.queryTranslations(ctx,
		"SELECT "+translationColumns+" FROM entity_translations WHERE entity_type = ? AND entity_id = ? AND language = ?",
		entityType, entityID, language)
}

// ListTranslationsForType returns every row for an entity type in one
// language, in one query. Used by list endpoints to avoid per-entity fetches.
func (q *Queries) ListTranslationsForType(ctx context.Context, entityType, language string) ([]model.Translation, error) {
	return q.queryTranslations(ctx,
		"SELECT "+translationColumns+" FROM entity_translations WHERE entity_type = ? AND language = ?",
		entityType, language)
}

func (q *Queries) queryTranslations(ctx context.Context, query string, args ...any) ([]model.Translation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTranslation returns the row with the given id, or sql.ErrNoRows.
func (q *Queries) GetTranslation(ctx context.Context, id int64) (model.Translation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx,
		"SELECT "+translationColumns+" FROM entity_translations WHERE id = ?", id))
}

// FindTranslationParams identifies one row by its logical composite key.
type FindTranslationParams struct {
	EntityType string
	EntityID   int64
	Language   string
	Field      string
}

// FindTranslation looks a row up by composite key, returning sql.ErrNoRows
// when absent. Used by the upsert path.
func (q *Queries) FindTranslation(ctx context.Context, arg FindTranslationParams) (model.Translation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx,
		"SELECT "+translationColumns+" FROM entity_translations WHERE entity_type = ? AND entity_id = ? AND language = ? AND field = ? LIMIT 1",
		arg.EntityType, arg.EntityID, arg.Language, arg.Field))
}

// CreateTranslationParams holds a new translation row.
type CreateTranslationParams struct {
	EntityType string
	EntityID   int64
	Language   string
	Field      string
	Content    string
}

// CreateTranslation inserts a row and returns the generated id. A unique
// index on the composite key rejects duplicates.
func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO entity_translations (entity_type, entity_id, language, field, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		arg.EntityType, arg.EntityID, arg.Language, arg.Field, arg.Content, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateTranslationContent replaces the content of an existing row.
func (q *Queries) UpdateTranslationContent(ctx context.Context, id int64, content string) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE entity_translations SET content = ?, updated_at = ? WHERE id = ?",
		content, time.Now().UTC(), id)
	return err
}

// UpdateTranslationParams holds the full overlay written by
// UpdateTranslation (the PUT-by-id path).
type UpdateTranslationParams struct {
	ID         int64
	EntityType string
	EntityID   int64
	Language   string
	Field      string
	Content    string
}

// UpdateTranslation overwrites a row, key fields included.
func (q *Queries) UpdateTranslation(ctx context.Context, arg UpdateTranslationParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE entity_translations SET entity_type = ?, entity_id = ?, language = ?, field = ?, content = ?, updated_at = ? WHERE id = ?",
		arg.EntityType, arg.EntityID, arg.Language, arg.Field, arg.Content, time.Now().UTC(), arg.ID)
	return err
}

// DeleteTranslation removes a row by id.
func (q *Queries) DeleteTranslation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM entity_translations WHERE id = ?", id)
	return err
}
