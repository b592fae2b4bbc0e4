// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
)

type contactResponse struct {
	ID          int64     `json:"id"`
	ContactType string    `json:"contactType"`
	ContactInfo string    `json:"contactInfo"`
	Order       int       `json:"order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newContactResponse(c model.ContactConfiguration) contactResponse {
	return contactResponse{
		ID:          c.ID,
		ContactType: c.ContactType,
		ContactInfo: c.ContactInfo,
		Order:       c.Position,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ListContacts answers GET /api/contacts?active=&contactType=.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	contacts, err := h.queries.ListContacts(r.Context(), store.ListContactsParams{
		ActiveOnly:  queryFlag(r, "active"),
		ContactType: r.URL.Query().Get("contactType"),
	})
	if err != nil {
		h.internalError(w, r, "failed to list contacts", err)
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, newContactResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetContact answers GET /api/contacts/{id}.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	c, err := h.queries.GetContact(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load contact", err)
		return
	}
	writeJSON(w, http.StatusOK, newContactResponse(c))
}

type createContactRequest struct {
	ContactType string `json:"contactType"`
	ContactInfo string `json:"contactInfo"`
	Order       int    `json:"order"`
	Active      *bool  `json:"active"`
}

// CreateContact answers POST /api/contacts.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req createContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ContactType == "" || req.ContactInfo == "" {
		writeError(w, http.StatusBadRequest, "contactType and contactInfo are required")
		return
	}

	id, err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		ContactType: req.ContactType,
		ContactInfo: req.ContactInfo,
		Position:    req.Order,
		Active:      boolOrTrue(req.Active),
	})
	if err != nil {
		h.internalError(w, r, "failed to create contact", err)
		return
	}

	c, err := h.queries.GetContact(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load created contact", err)
		return
	}
	writeJSON(w, http.StatusCreated, newContactResponse(c))
}

type updateContactRequest struct {
	ContactType *string `json:"contactType"`
	ContactInfo *string `json:"contactInfo"`
	Order       *int    `json:"order"`
	Active      *bool   `json:"active"`
}

// UpdateContact answers PUT /api/contacts/{id} as a sparse patch.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	c, err := h.queries.GetContact(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load contact", err)
		return
	}

	var req updateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdateContactParams{
		ID:          c.ID,
		ContactType: c.ContactType,
		ContactInfo: c.ContactInfo,
		Position:    c.Position,
		Active:      c.Active,
	}
	if req.ContactType != nil {
		params.ContactType = *req.ContactType
	}
	if req.ContactInfo != nil {
		params.ContactInfo = *req.ContactInfo
	}
	if req.Order != nil {
		params.Position = *req.Order
	}
	if req.Active != nil {
		params.Active = *req.Active
	}

	if err := h.queries.UpdateContact(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update contact", err)
		return
	}

	updated, err := h.queries.GetContact(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated contact", err)
		return
	}
	writeJSON(w, http.StatusOK, newContactResponse(updated))
}

// DeleteContact answers DELETE /api/contacts/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	if err := h.queries.DeleteContact(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete contact", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
