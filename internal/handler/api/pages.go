// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/markdown"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/util"
)

type pageResponse struct {
	ID           int64             `json:"id"`
	Slug         string            `json:"slug"`
	Template     *string           `json:"template"`
	Published    bool              `json:"published"`
	PublishedAt  *time.Time        `json:"publishedAt"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Title        string            `json:"title,omitempty"`
	Translations map[string]string `json:"translations"`
	ContentHTML  string            `json:"content_html,omitempty"`
}

func newPageResponse(p model.Page, tr map[string]string) pageResponse {
	if tr == nil {
		tr = map[string]string{}
	}
	return pageResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Template:     util.StringPtrFromNull(p.Template),
		Published:    p.Published,
		PublishedAt:  util.TimePtrFromNull(p.PublishedAt),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Title:        tr[model.FieldTitle],
		Translations: tr,
	}
}

// ListPages answers GET /api/pages?published=&language=.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	pages, err := h.queries.ListPages(r.Context(), queryFlag(r, "published"))
	if err != nil {
		h.internalError(w, r, "failed to list pages", err)
		return
	}

	translations, err := h.resolver.ResolveAll(r.Context(), model.EntityTypePage, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve page translations", err)
		return
	}

	out := make([]pageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, newPageResponse(p, translations[p.ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPage answers GET /api/pages/{id}?language=&render=. With render=html
// the "content" translation is rendered from markdown into content_html.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page id")
		return
	}

	page, err := h.queries.GetPage(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load page", err)
		return
	}

	tr, err := h.resolver.Resolve(r.Context(), model.EntityTypePage, page.ID, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve page translations", err)
		return
	}

	resp := newPageResponse(page, tr)
	if r.URL.Query().Get("render") == "html" {
		if content, ok := tr[model.FieldContent]; ok && content != "" {
			html, err := markdown.Render(content)
			if err != nil {
				h.internalError(w, r, "failed to render page content", err)
				return
			}
			resp.ContentHTML = html
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type createPageRequest struct {
	Slug        string              `json:"slug"`
	Template    Optional[string]    `json:"template"`
	Published   bool                `json:"published"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
}

// CreatePage answers POST /api/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req createPageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Slug == "" {
		writeError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	slug := req.Slug
	if !util.IsValidSlug(slug) {
		slug = util.Slugify(slug)
	}
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	id, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Slug:        slug,
		Template:    optionalNullString(req.Template),
		Published:   req.Published,
		PublishedAt: optionalNullTime(req.PublishedAt),
	})
	if err != nil {
		h.internalError(w, r, "failed to create page", err)
		return
	}

	page, err := h.queries.GetPage(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load created page", err)
		return
	}
	writeJSON(w, http.StatusCreated, newPageResponse(page, nil))
}

type updatePageRequest struct {
	Slug        *string             `json:"slug"`
	Template    Optional[string]    `json:"template"`
	Published   *bool               `json:"published"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
}

// UpdatePage answers PUT /api/pages/{id} as a sparse patch: only supplied
// fields change.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page id")
		return
	}

	page, err := h.queries.GetPage(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load page", err)
		return
	}

	var req updatePageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdatePageParams{
		ID:          page.ID,
		Slug:        page.Slug,
		Template:    page.Template,
		Published:   page.Published,
		PublishedAt: page.PublishedAt,
	}
	if req.Slug != nil {
		slug := *req.Slug
		if !util.IsValidSlug(slug) {
			slug = util.Slugify(slug)
		}
		if slug == "" {
			writeError(w, http.StatusBadRequest, "Slug is required")
			return
		}
		params.Slug = slug
	}
	if req.Template.Set {
		params.Template = optionalNullString(req.Template)
	}
	if req.Published != nil {
		params.Published = *req.Published
	}
	if req.PublishedAt.Set {
		params.PublishedAt = optionalNullTime(req.PublishedAt)
	}

	if err := h.queries.UpdatePage(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update page", err)
		return
	}

	updated, err := h.queries.GetPage(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated page", err)
		return
	}
	writeJSON(w, http.StatusOK, newPageResponse(updated, nil))
}

// DeletePage answers DELETE /api/pages/{id}. Deletes are idempotent: a
// missing id still reports success.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page id")
		return
	}

	if err := h.queries.DeletePage(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete page", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func optionalNullString(o Optional[string]) sql.NullString {
	if !o.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: o.Value, Valid: true}
}

func optionalNullTime(o Optional[time.Time]) sql.NullTime {
	if !o.Valid {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: o.Value, Valid: true}
}

func optionalNullInt64(o Optional[int64]) sql.NullInt64 {
	if !o.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: o.Value, Valid: true}
}
