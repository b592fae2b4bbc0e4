// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/victorianmonkey/vmsite/internal/cache"
	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/util"
)

// publicCacheControl matches the CDN caching of the public read endpoints.
const publicCacheControl = "public, max-age=3600"

type menuSectionResponse struct {
	ID           int64             `json:"id"`
	Order        int               `json:"order"`
	Active       bool              `json:"active"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Title        string            `json:"title,omitempty"`
	Translations map[string]string `json:"translations"`
}

type menuEntryResponse struct {
	ID           int64             `json:"id"`
	SectionID    *int64            `json:"sectionId"`
	ParentID     *int64            `json:"parentId"`
	Link         *string           `json:"link"`
	Order        int               `json:"order"`
	Active       bool              `json:"active"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Label        string            `json:"label,omitempty"`
	Translations map[string]string `json:"translations"`
}

func newMenuSectionResponse(s model.MenuSection, tr map[string]string) menuSectionResponse {
	if tr == nil {
		tr = map[string]string{}
	}
	return menuSectionResponse{
		ID:           s.ID,
		Order:        s.Position,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Title:        tr[model.FieldTitle],
		Translations: tr,
	}
}

func newMenuEntryResponse(e model.MenuEntry, tr map[string]string) menuEntryResponse {
	if tr == nil {
		tr = map[string]string{}
	}
	return menuEntryResponse{
		ID:           e.ID,
		SectionID:    util.Int64PtrFromNull(e.SectionID),
		ParentID:     util.Int64PtrFromNull(e.ParentID),
		Link:         util.StringPtrFromNull(e.Link),
		Order:        e.Position,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Label:        tr[model.FieldLabel],
		Translations: tr,
	}
}

type menuResponse struct {
	Sections []menuSectionResponse `json:"sections"`
	Entries  []menuEntryResponse   `json:"entries"`
}

// GetMenu answers GET /api/menu?language=&active= with the full navigation
// aggregate. The rendered body is cached per (language, active) and
// invalidated on any section or entry mutation.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	w.Header().Set("Cache-Control", publicCacheControl)

	lang := requestLanguage(r)
	// Hidden items stay hidden unless the caller opts in with active=false.
	activeOnly := r.URL.Query().Get("active") != "false"
	key := cache.MenuKey(lang, activeOnly)

	if h.cache != nil {
		if body, err := h.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
			return
		}
	}

	sections, err := h.queries.ListMenuSections(r.Context(), activeOnly)
	if err != nil {
		h.internalError(w, r, "failed to list menu sections", err)
		return
	}
	entries, err := h.queries.ListMenuEntries(r.Context(), store.ListMenuEntriesParams{ActiveOnly: activeOnly})
	if err != nil {
		h.internalError(w, r, "failed to list menu entries", err)
		return
	}

	sectionTr, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeMenuSection, lang)
	if err != nil {
		h.internalError(w, r, "failed to resolve menu section translations", err)
		return
	}
	entryTr, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeMenuEntry, lang)
	if err != nil {
		h.internalError(w, r, "failed to resolve menu entry translations", err)
		return
	}

	resp := menuResponse{
		Sections: make([]menuSectionResponse, 0, len(sections)),
		Entries:  make([]menuEntryResponse, 0, len(entries)),
	}
	for _, s := range sections {
		resp.Sections = append(resp.Sections, newMenuSectionResponse(s, sectionTr[s.ID]))
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, newMenuEntryResponse(e, entryTr[e.ID]))
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.internalError(w, r, "failed to encode menu", err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, body, 0); err != nil {
			h.logger.Warn("failed to cache menu", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// ListMenuSections answers GET /api/menu/sections?active=&language=.
func (h *Handler) ListMenuSections(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	sections, err := h.queries.ListMenuSections(r.Context(), queryFlag(r, "active"))
	if err != nil {
		h.internalError(w, r, "failed to list menu sections", err)
		return
	}
	translations, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeMenuSection, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve menu section translations", err)
		return
	}

	out := make([]menuSectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, newMenuSectionResponse(s, translations[s.ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMenuSection answers GET /api/menu/sections/{id}?language=.
func (h *Handler) GetMenuSection(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu section id")
		return
	}

	s, err := h.queries.GetMenuSection(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Menu section not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load menu section", err)
		return
	}

	tr, err := h.resolver.Resolve(r.Context(), model.EntityTypeMenuSection, s.ID, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve menu section translations", err)
		return
	}
	writeJSON(w, http.StatusOK, newMenuSectionResponse(s, tr))
}

type createMenuSectionRequest struct {
	Order  int   `json:"order"`
	Active *bool `json:"active"`
}

// CreateMenuSection answers POST /api/menu/sections.
func (h *Handler) CreateMenuSection(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req createMenuSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.queries.CreateMenuSection(r.Context(), store.CreateMenuSectionParams{
		Position: req.Order,
		Active:   boolOrTrue(req.Active),
	})
	if err != nil {
		h.internalError(w, r, "failed to create menu section", err)
		return
	}
	h.invalidateMenuCache(r.Context())

	s, err := h.queries.GetMenuSection(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load created menu section", err)
		return
	}
	writeJSON(w, http.StatusCreated, newMenuSectionResponse(s, nil))
}

type updateMenuSectionRequest struct {
	Order  *int  `json:"order"`
	Active *bool `json:"active"`
}

// UpdateMenuSection answers PUT /api/menu/sections/{id} as a sparse patch.
func (h *Handler) UpdateMenuSection(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu section id")
		return
	}

	s, err := h.queries.GetMenuSection(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Menu section not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load menu section", err)
		return
	}

	var req updateMenuSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdateMenuSectionParams{
		ID:       s.ID,
		Position: s.Position,
		Active:   s.Active,
	}
	if req.Order != nil {
		params.Position = *req.Order
	}
	if req.Active != nil {
		params.Active = *req.Active
	}

	if err := h.queries.UpdateMenuSection(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update menu section", err)
		return
	}
	h.invalidateMenuCache(r.Context())

	updated, err := h.queries.GetMenuSection(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated menu section", err)
		return
	}
	writeJSON(w, http.StatusOK, newMenuSectionResponse(updated, nil))
}

// DeleteMenuSection answers DELETE /api/menu/sections/{id}. Entries keep
// their sectionId; dangling references are tolerated by readers.
func (h *Handler) DeleteMenuSection(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu section id")
		return
	}

	if err := h.queries.DeleteMenuSection(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete menu section", err)
		return
	}
	h.invalidateMenuCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListMenuEntries answers GET /api/menu/entries?sectionId=&parentId=&active=&language=.
func (h *Handler) ListMenuEntries(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	entries, err := h.queries.ListMenuEntries(r.Context(), store.ListMenuEntriesParams{
		SectionID:  util.ParseNullInt64(r.URL.Query().Get("sectionId")),
		ParentID:   util.ParseNullInt64(r.URL.Query().Get("parentId")),
		ActiveOnly: queryFlag(r, "active"),
	})
	if err != nil {
		h.internalError(w, r, "failed to list menu entries", err)
		return
	}

	translations, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeMenuEntry, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve menu entry translations", err)
		return
	}

	out := make([]menuEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newMenuEntryResponse(e, translations[e.ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMenuEntry answers GET /api/menu/entries/{id}?language=.
func (h *Handler) GetMenuEntry(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu entry id")
		return
	}

	e, err := h.queries.GetMenuEntry(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Menu entry not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load menu entry", err)
		return
	}

	tr, err := h.resolver.Resolve(r.Context(), model.EntityTypeMenuEntry, e.ID, requestLanguage(r))
	if err != nil {
		h.internalError(w, r, "failed to resolve menu entry translations", err)
		return
	}
	writeJSON(w, http.StatusOK, newMenuEntryResponse(e, tr))
}

type createMenuEntryRequest struct {
	SectionID Optional[int64]  `json:"sectionId"`
	ParentID  Optional[int64]  `json:"parentId"`
	Link      Optional[string] `json:"link"`
	Order     int              `json:"order"`
	Active    *bool            `json:"active"`
}

// CreateMenuEntry answers POST /api/menu/entries.
func (h *Handler) CreateMenuEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	var req createMenuEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.queries.CreateMenuEntry(r.Context(), store.CreateMenuEntryParams{
		SectionID: optionalNullInt64(req.SectionID),
		ParentID:  optionalNullInt64(req.ParentID),
		Link:      optionalNullString(req.Link),
		Position:  req.Order,
		Active:    boolOrTrue(req.Active),
	})
	if err != nil {
		h.internalError(w, r, "failed to create menu entry", err)
		return
	}
	h.invalidateMenuCache(r.Context())

	e, err := h.queries.GetMenuEntry(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load created menu entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, newMenuEntryResponse(e, nil))
}

type updateMenuEntryRequest struct {
	SectionID Optional[int64]  `json:"sectionId"`
	ParentID  Optional[int64]  `json:"parentId"`
	Link      Optional[string] `json:"link"`
	Order     *int             `json:"order"`
	Active    *bool            `json:"active"`
}

// UpdateMenuEntry answers PUT /api/menu/entries/{id} as a sparse patch.
// sectionId, parentId and link are tri-state: absent leaves them unchanged,
// an explicit null clears them.
func (h *Handler) UpdateMenuEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu entry id")
		return
	}

	e, err := h.queries.GetMenuEntry(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Menu entry not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load menu entry", err)
		return
	}

	var req updateMenuEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := store.UpdateMenuEntryParams{
		ID:        e.ID,
		SectionID: e.SectionID,
		ParentID:  e.ParentID,
		Link:      e.Link,
		Position:  e.Position,
		Active:    e.Active,
	}
	if req.SectionID.Set {
		params.SectionID = optionalNullInt64(req.SectionID)
	}
	if req.ParentID.Set {
		params.ParentID = optionalNullInt64(req.ParentID)
	}
	if req.Link.Set {
		params.Link = optionalNullString(req.Link)
	}
	if req.Order != nil {
		params.Position = *req.Order
	}
	if req.Active != nil {
		params.Active = *req.Active
	}

	if err := h.queries.UpdateMenuEntry(r.Context(), params); err != nil {
		h.internalError(w, r, "failed to update menu entry", err)
		return
	}
	h.invalidateMenuCache(r.Context())

	updated, err := h.queries.GetMenuEntry(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to load updated menu entry", err)
		return
	}
	writeJSON(w, http.StatusOK, newMenuEntryResponse(updated, nil))
}

// DeleteMenuEntry answers DELETE /api/menu/entries/{id}.
func (h *Handler) DeleteMenuEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeAdmin); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu entry id")
		return
	}

	if err := h.queries.DeleteMenuEntry(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete menu entry", err)
		return
	}
	h.invalidateMenuCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
