// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/util"
)

type announcementResponse struct {
	ID           int64             `json:"id"`
	Category     *string           `json:"category"`
	Price        *string           `json:"price"`
	Images       json.RawMessage   `json:"images"`
	ContactInfo  json.RawMessage   `json:"contactInfo"`
	Published    bool              `json:"published"`
	PublishedAt  *time.Time        `json:"publishedAt"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Title        string            `json:"title,omitempty"`
	Description  string            `json:"description,omitempty"`
	Translations map[string]string `json:"translations"`
}

// rawJSONColumn passes a stored JSON document through untouched. Invalid or
// absent documents become JSON null.
func rawJSONColumn(ns sql.NullString) json.RawMessage {
	if !ns.Valid || !json.Valid([]byte(ns.String)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(ns.String)
}

func newAnnouncementResponse(a model.Announcement, tr map[string]string) announcementResponse {
	if tr == nil {
		tr = map[string]string{}
	}
	return announcementResponse{
		ID:           a.ID,
		Category:     util.StringPtrFromNull(a.Category),
		Price:        util.StringPtrFromNull(a.Price),
		Images:       rawJSONColumn(a.Images),
		ContactInfo:  rawJSONColumn(a.ContactInfo),
		Published:    a.Published,
		PublishedAt:  util.TimePtrFromNull(a.PublishedAt),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Title:        tr[model.FieldTitle],
		Description:  tr[model.FieldDescription],
		Translations: tr,
	}
}

// ListAnnouncements answers GET /api/announcements?published=&language=&category=.
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	w.Header().Set("Cache-Control", publicCacheControl)

	announcements, err := h.queries.ListAnnouncements(r.Context(), store.ListAnnouncementsParams{
		PublishedOnly: queryFlag(r, "published"),
		Category:      r.URL.Query().Get("category"),
	})
	if err != nil {
		h.internalError(w, r, "failed to list announcements", err)
		return
	}

	translations, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeAnnouncement, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve announcement translations", err)
		return
	}

	out := make([]announcementResponse, 0, len(announcements))
	for _, a := range announcements {
		out = append(out, newAnnouncementResponse(a, translations[a.ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAnnouncement answers GET /api/announcements/{id}?language=.
func (h *Handler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid announcement id")
		return
	}

	a, err := h.queries.GetAnnouncement(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Announcement not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load announcement", err)
		return
	}

	tr, err := h.resolver.Resolve(r.Context(), model.EntityTypeAnnouncement, a.ID, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve announcement translations", err)
		return
	}
	writeJSON(w, http.StatusOK, newAnnouncementResponse(a, tr))
}

type createAnnouncementRequest struct {
	Category    Optional[string]          `json:"category"`
	Price       Optional[string]          `json:"price"`
	Images      Optional[json.RawMessage] `json:"images"`
	ContactInfo Optional[json.RawMessage] `json:"contactInfo"`
	Published   bool                      `json:"published"`
	PublishedAt Optional[time.Time]       `json:"publishedAt"`
}

func optionalNullJSON(o Optional[json.RawMessage]) sql.NullString {
	if !o.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: string(o.Value), Valid: true}
}

// CreateAnnouncement answers POST /api/announcements.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req createAnnouncementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.queries.CreateAnnouncement(r.Context(), store.CreateAnnouncementParams{
		Category:    optionalNullString(req.Category),
		Price:       optionalNullString(req.Price),
		Images:      optionalNullJSON(req.Images),
		ContactInfo: optionalNullJSON(req.ContactInfo),
		Published:   req.Published,
		PublishedAt: optionalNullTime(req.PublishedAt),
	})
	if err != nil {
		h.internalError(w, r, "failed to create announcement", err)
		return
	}

	a, err := h.queries.GetAnnouncement(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load created announcement", err)
		return
	}
	writeJSON(w, http.StatusCreated, newAnnouncementResponse(a, nil))
}

type updateAnnouncementRequest struct {
	Category    Optional[string]          `json:"category"`
	Price       Optional[string]          `json:"price"`
	Images      Optional[json.RawMessage] `json:"images"`
	ContactInfo Optional[json.RawMessage] `json:"contactInfo"`
	Published   *bool                     `json:"published"`
	PublishedAt Optional[time.Time]       `json:"publishedAt"`
}

// UpdateAnnouncement answers PUT /api/announcements/{id} as a sparse patch.
func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid announcement id")
		return
	}

	a, err := h.queries.GetAnnouncement(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Announcement not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load announcement", err)
		return
	}

	var req updateAnnouncementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdateAnnouncementParams{
		ID:          a.ID,
		Category:    a.Category,
		Price:       a.Price,
		Images:      a.Images,
		ContactInfo: a.ContactInfo,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
	}
	if req.Category.Set {
		params.Category = optionalNullString(req.Category)
	}
	if req.Price.Set {
		params.Price = optionalNullString(req.Price)
	}
	if req.Images.Set {
		params.Images = optionalNullJSON(req.Images)
	}
	if req.ContactInfo.Set {
		params.ContactInfo = optionalNullJSON(req.ContactInfo)
	}
	if req.Published != nil {
		params.Published = *req.Published
	}
	if req.PublishedAt.Set {
		params.PublishedAt = optionalNullTime(req.PublishedAt)
	}

	if err := h.queries.UpdateAnnouncement(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update announcement", err)
		return
	}

	updated, err := h.queries.GetAnnouncement(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated announcement", err)
		return
	}
	writeJSON(w, http.StatusOK, newAnnouncementResponse(updated, nil))
}

// DeleteAnnouncement answers DELETE /api/announcements/{id}.
func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid announcement id")
		return
	}

	if err := h.queries.DeleteAnnouncement(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete announcement", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
