// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/victorianmonkey/vmsite/internal/model"
)

const pageColumns = "id, slug, template, published, published_at, created_at, updated_at"

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Template, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPages returns pages ordered by creation time, newest first. When
// publishedOnly is true, unpublished pages are excluded.
func (q *Queries) ListPages(ctx context.Context, publishedOnly bool) ([]model.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages"
	if publishedOnly {
		query += " WHERE published = 1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage returns the page with the given id, or sql.ErrNoRows.
func (q *Queries) GetPage(ctx context.Context, id int64) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE id = ?", id))
}

// GetPageBySlug returns the page with the given slug, or sql.ErrNoRows.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE slug = ?", slug))
}

// CreatePageParams holds the writable page fields.
type CreatePageParams struct {
	Slug        string
	Template    sql.NullString
	Published   bool
	PublishedAt sql.NullTime
}

// CreatePage inserts a page and returns the generated id.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO pages (slug, template, published, published_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.Slug, arg.Template, arg.Published, arg.PublishedAt, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePageParams holds the full overlay written by UpdatePage. Handlers
// start from the existing row and apply the sparse patch on top.
type UpdatePageParams struct {
	ID          int64
	Slug        string
	Template    sql.NullString
	Published   bool
	PublishedAt sql.NullTime
}

// UpdatePage overwrites the writable fields of a page.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE pages SET slug = ?, template = ?, published = ?, published_at = ?, updated_at = ? WHERE id = ?",
		arg.Slug, arg.Template, arg.Published, arg.PublishedAt, time.Now().UTC(), arg.ID)
	return err
}

// DeletePage removes a page by id. Deleting a missing id is not an error.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id)
	return err
}

// PublishDuePages flips published on pages whose publish date has passed.
// Returns the number of pages published.
func (q *Queries) PublishDuePages(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE pages SET published = 1, updated_at = ? WHERE published = 0 AND published_at IS NOT NULL AND published_at <= ?",
		now.UTC(), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
