// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
)

func TestCreatePageThenGet(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{
		"slug":      "chi-siamo",
		"template":  "standard",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeResponse[pageResponse](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "chi-siamo", created.Slug)
	assert.True(t, created.Published)
	assert.False(t, created.CreatedAt.IsZero())

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/pages/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[pageResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "chi-siamo", got.Slug)
	require.NotNil(t, got.Template)
	assert.Equal(t, "standard", *got.Template)
}

func TestCreatePageSlugifiesTitleInput(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"slug": "Gita al Lago 2026"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "gita-al-lago-2026", decodeResponse[pageResponse](t, rec).Slug)
}

func TestCreatePageRequiresSlug(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"published": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePageAuthorization(t *testing.T) {
	env := newTestEnv(t)

	// Anonymous callers get 401.
	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"slug": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestDeletePageRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodDelete, "/pages/1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.asAdmin()
	rec = env.do(t, http.MethodDelete, "/pages/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePageSparsePatch(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{
		"slug":     "statuto",
		"template": "legal",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeResponse[pageResponse](t, rec)

	// Patch only the published flag; slug and template stay.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/pages/%d", created.ID), map[string]any{
		"published": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[pageResponse](t, rec)
	assert.True(t, got.Published)
	assert.Equal(t, "statuto", got.Slug)
	require.NotNil(t, got.Template)
	assert.Equal(t, "legal", *got.Template)

	// Explicit null clears the nullable template.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/pages/%d", created.ID), map[string]any{
		"template": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeResponse[pageResponse](t, rec).Template)
}

func TestDeletePageThenGetIsNotFoundAndDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.asAdmin()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"slug": "vecchia-pagina"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[pageResponse](t, rec).ID

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/pages/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/pages/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again still reports success.
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/pages/%d", id), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestListPagesDecoratesTranslations(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()
	ctx := t.Context()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"slug": "chi-siamo", "published": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[pageResponse](t, rec).ID

	_, err := env.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypePage, EntityID: id, Language: "it",
		Field: model.FieldTitle, Content: "Chi siamo",
	})
	require.NoError(t, err)
	_, err = env.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypePage, EntityID: id, Language: "en",
		Field: model.FieldTitle, Content: "About us",
	})
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/pages?language=it", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pages := decodeResponse[[]pageResponse](t, rec)
	require.Len(t, pages, 1)
	assert.Equal(t, "Chi siamo", pages[0].Title)
	assert.Equal(t, "Chi siamo", pages[0].Translations["title"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	// No fallback: an untranslated language yields an empty mapping.
	rec = env.do(t, http.MethodGet, "/pages?language=fr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pages = decodeResponse[[]pageResponse](t, rec)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Title)
	assert.Empty(t, pages[0].Translations)
}

func TestListPagesPublishedFilter(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	for _, p := range []map[string]any{
		{"slug": "pubblica", "published": true},
		{"slug": "bozza", "published": false},
	} {
		rec := env.do(t, http.MethodPost, "/pages", p)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/pages?published=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pages := decodeResponse[[]pageResponse](t, rec)
	require.Len(t, pages, 1)
	assert.Equal(t, "pubblica", pages[0].Slug)
}

func TestGetPageRenderHTML(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()
	ctx := t.Context()

	rec := env.do(t, http.MethodPost, "/pages", map[string]any{"slug": "storia"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[pageResponse](t, rec).ID

	_, err := env.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypePage, EntityID: id, Language: "it",
		Field: model.FieldContent, Content: "# La nostra storia",
	})
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/pages/%d?language=it&render=html", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[pageResponse](t, rec)
	assert.Contains(t, got.ContentHTML, "<h1")
	assert.Contains(t, got.ContentHTML, "La nostra storia")
}

func TestGetPageInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/pages/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
