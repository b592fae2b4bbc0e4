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
	contactColumns    = "id, contact_type, contact_info, position, active, created_at, updated_at"
	submissionColumns = "id, name, email, phone, message, created_at"
)

func scanContact(row interface{ Scan(...any) error }) (model.ContactConfiguration, error) {
	var c model.ContactConfiguration
	err := row.Scan(&c.ID, &c.ContactType, &c.ContactInfo, &c.Position, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanSubmission(row interface{ Scan(...any) error }) (model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &s.CreatedAt)
	return s, err
}

// ListContactsParams are the optional contact filters, combined with AND.
type ListContactsParams struct {
	ActiveOnly  bool
	ContactType string // empty means any
}

// ListContacts returns contact channels ordered by position.
func (q *Queries) ListContacts(ctx context.Context, arg ListContactsParams) ([]model.ContactConfiguration, error) {
	var conds []string
	var args []any
	if arg.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	if arg.ContactType != "" {
		conds = append(conds, "contact_type = ?")
		args = append(args, arg.ContactType)
	}

	query := "SELECT " + contactColumns + " FROM contact_configuration" +
		whereClause(conds) + " ORDER BY position ASC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []model.ContactConfiguration
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact returns the contact channel with the given id, or sql.ErrNoRows.
func (q *Queries) GetContact(ctx context.Context, id int64) (model.ContactConfiguration, error) {
	return scanContact(q.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contact_configuration WHERE id = ?", id))
}

// CreateContactParams holds the writable contact fields.
type CreateContactParams struct {
	ContactType string
	ContactInfo string
	Position    int
	Active      bool
}

// CreateContact inserts a contact channel and returns the generated id.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO contact_configuration (contact_type, contact_info, position, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.ContactType, arg.ContactInfo, arg.Position, arg.Active, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateContactParams holds the full overlay written by UpdateContact.
type UpdateContactParams struct {
	ID          int64
	ContactType string
	ContactInfo string
	Position    int
	Active      bool
}

// UpdateContact overwrites the writable fields of a contact channel.
func (q *Queries) UpdateContact(ctx context.Context, arg UpdateContactParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE contact_configuration SET contact_type = ?, contact_info = ?, position = ?, active = ?, updated_at = ? WHERE id = ?",
		arg.ContactType, arg.ContactInfo, arg.Position, arg.Active, time.Now().UTC(), arg.ID)
	return err
}

// DeleteContact removes a contact channel by id.
func (q *Queries) DeleteContact(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM contact_configuration WHERE id = ?", id)
	return err
}

// ListContactSubmissions returns submissions, newest first.
func (q *Queries) ListContactSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+submissionColumns+" FROM contact_submissions ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subs []model.ContactSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// GetContactSubmission returns the submission with the given id, or
// sql.ErrNoRows.
func (q *Queries) GetContactSubmission(ctx context.Context, id int64) (model.ContactSubmission, error) {
	return scanSubmission(q.db.QueryRowContext(ctx,
		"SELECT "+submissionColumns+" FROM contact_submissions WHERE id = ?", id))
}

// CreateContactSubmissionParams holds a received contact form message.
type CreateContactSubmissionParams struct {
	Name    string
	Email   string
	Phone   sql.NullString
	Message sql.NullString
}

// CreateContactSubmission inserts a submission and returns the generated id.
func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO contact_submissions (name, email, phone, message, created_at) VALUES (?, ?, ?, ?, ?)",
		arg.Name, arg.Email, arg.Phone, arg.Message, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
