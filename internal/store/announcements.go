// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/victorianmonkey/vmsite/internal/model"
)

const announcementColumns = "id, category, price, images, contact_info, published, published_at, created_at, updated_at"

func scanAnnouncement(row interface{ Scan(...any) error }) (model.Announcement, error) {
	var a model.Announcement
	err := row.Scan(&a.ID, &a.Category, &a.Price, &a.Images, &a.ContactInfo,
		&a.Published, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ListAnnouncementsParams are the optional list filters, combined with AND.
type ListAnnouncementsParams struct {
	PublishedOnly bool
	Category      string // empty means any
}

// ListAnnouncements returns announcements ordered by creation time, newest
// first.
func (q *Queries) ListAnnouncements(ctx context.Context, arg ListAnnouncementsParams) ([]model.Announcement, error) {
	var conds []string
	var args []any
	if arg.PublishedOnly {
		conds = append(conds, "published = 1")
	}
	if arg.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, arg.Category)
	}

	query := "SELECT " + announcementColumns + " FROM announcements" +
		whereClause(conds) + " ORDER BY created_at DESC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnnouncement returns the announcement with the given id, or sql.ErrNoRows.
func (q *Queries) GetAnnouncement(ctx context.Context, id int64) (model.Announcement, error) {
	return scanAnnouncement(q.db.QueryRowContext(ctx,
		"SELECT "+announcementColumns+" FROM announcements WHERE id = ?", id))
}

// CreateAnnouncementParams holds the writable announcement fields.
type CreateAnnouncementParams struct {
	Category    sql.NullString
	Price       sql.NullString
	Images      sql.NullString
	ContactInfo sql.NullString
	Published   bool
	PublishedAt sql.NullTime
}

// CreateAnnouncement inserts an announcement and returns the generated id.
func (q *Queries) CreateAnnouncement(ctx context.Context, arg CreateAnnouncementParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO announcements (category, price, images, contact_info, published, published_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		arg.Category, arg.Price, arg.Images, arg.ContactInfo, arg.Published, arg.PublishedAt, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateAnnouncementParams holds the full overlay written by
// UpdateAnnouncement.
type UpdateAnnouncementParams struct {
	ID          int64
	Category    sql.NullString
	Price       sql.NullString
	Images      sql.NullString
	ContactInfo sql.NullString
	Published   bool
	PublishedAt sql.NullTime
}

// UpdateAnnouncement overwrites the writable fields of an announcement.
func (q *Queries) UpdateAnnouncement(ctx context.Context, arg UpdateAnnouncementParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE announcements SET category = ?, price = ?, images = ?, contact_info = ?, published = ?, published_at = ?, updated_at = ? WHERE id = ?",
		arg.Category, arg.Price, arg.Images, arg.ContactInfo, arg.Published, arg.PublishedAt, time.Now().UTC(), arg.ID)
	return err
}

// DeleteAnnouncement removes an announcement by id.
func (q *Queries) DeleteAnnouncement(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	return err
}

// PublishDueAnnouncements flips published on announcements whose publish
// date has passed. Returns the number of announcements published.
func (q *Queries) PublishDueAnnouncements(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE announcements SET published = 1, updated_at = ? WHERE published = 0 AND published_at IS NOT NULL AND published_at <= ?",
		now.UTC(), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
