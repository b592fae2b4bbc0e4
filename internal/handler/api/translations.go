// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/sanitize"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/translation"
	"github.com/victorianmonkey/vmsite/internal/util"
)

// ListTranslations answers GET /api/translations?entityType=&entityId=&language=.
func (h *Handler) ListTranslations(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	q := r.URL.Query()
	lang := q.Get("language")
	if lang != "" {
		lang = translation.NormalizeLanguage(lang)
	}

	rows, err := h.queries.ListTranslations(r.Context(), store.ListTranslationsParams{
		EntityType: q.Get("entityType"),
		EntityID:   util.ParseNullInt64(q.Get("entityId")),
		Language:   lang,
	})
	if err != nil {
		h.internalError(w, r, "failed to list translations", err)
		return
	}
	if rows == nil {
		rows = []model.Translation{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetTranslation answers GET /api/translations/{id}.
func (h *Handler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid translation id")
		return
	}

	t, err := h.queries.GetTranslation(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Translation not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load translation", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type upsertTranslationRequest struct {
	EntityType string `json:"entityType"`
	EntityID   int64  `json:"entityId"`
	Language   string `json:"language"`
	Field      string `json:"field"`
	Content    string `json:"content"`
}

// UpsertTranslation answers POST /api/translations. An existing row with the
// same (entityType, entityId, language, field) key gets its content replaced
// and a 200; otherwise a row is inserted and the response is a 201. The
// check-then-act window is closed by the unique index on the composite key:
// a concurrent loser fails instead of duplicating the row.
func (h *Handler) UpsertTranslation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req upsertTranslationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.EntityType == "" || req.EntityID <= 0 || req.Language == "" || req.Field == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "entityType, entityId, language, field and content are required")
		return
	}
	if !model.IsValidEntityType(req.EntityType) {
		writeError(w, http.StatusBadRequest, "Unknown entity type")
		return
	}

	lang := translation.NormalizeLanguage(req.Language)
	content := sanitize.Content(req.Content)

	existing, err := h.queries.FindTranslation(r.Context(), store.FindTranslationParams{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Language:   lang,
		Field:      req.Field,
	})
	switch {
	case err == nil:
		if err := h.queries.UpdateTranslationContent(r.Context(), existing.ID, content); err != nil {
			h.internalError(w, r, "failed to update translation", err)
			return
		}
		t, err := h.queries.GetTranslation(r.Context(), existing.ID)
		if err != nil {
			h.internalError(w, r, "failed to load updated translation", err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case errors.Is(err, sql.ErrNoRows):
		id, err := h.queries.CreateTranslation(r.Context(), store.CreateTranslationParams{
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			Language:   lang,
			Field:      req.Field,
			Content:    content,
		})
		if err != nil {
			h.internalError(w, r, "failed to create translation", err)
			return
		}
		t, err := h.queries.GetTranslation(r.Context(), id)
		if err != nil {
			h.internalError(w, r, "failed to load created translation", err)
			return
		}
		writeJSON(w, http.StatusCreated, t)

	default:
		h.internalError(w, r, "failed to look up translation", err)
	}
}

type updateTranslationRequest struct {
	EntityType *string `json:"entityType"`
	EntityID   *int64  `json:"entityId"`
	Language   *string `json:"language"`
	Field      *string `json:"field"`
	Content    *string `json:"content"`
}

// UpdateTranslation answers PUT /api/translations/{id} as a sparse patch
// over the whole row, key fields included.
func (h *Handler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid translation id")
		return
	}

	t, err := h.queries.GetTranslation(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Translation not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load translation", err)
		return
	}

	var req updateTranslationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdateTranslationParams{
		ID:         t.ID,
		EntityType: t.EntityType,
		EntityID:   t.EntityID,
		Language:   t.Language,
		Field:      t.Field,
		Content:    t.Content,
	}
	if req.EntityType != nil {
		if !model.IsValidEntityType(*req.EntityType) {
			writeError(w, http.StatusBadRequest, "Unknown entity type")
			return
		}
		params.EntityType = *req.EntityType
	}
	if req.EntityID != nil {
		if *req.EntityID <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid entity id")
			return
		}
		params.EntityID = *req.EntityID
	}
	if req.Language != nil {
		params.Language = translation.NormalizeLanguage(*req.Language)
	}
	if req.Field != nil {
		params.Field = *req.Field
	}
	if req.Content != nil {
		params.Content = sanitize.Content(*req.Content)
	}

	if err := h.queries.UpdateTranslation(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update translation", err)
		return
	}

	updated, err := h.queries.GetTranslation(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated translation", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTranslation answers DELETE /api/translations/{id}.
func (h *Handler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid translation id")
		return
	}

	if err := h.queries.DeleteTranslation(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete translation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
