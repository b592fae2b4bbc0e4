// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
)

func upsertBody(content string) map[string]any {
	return map[string]any{
		"entityType": "page",
		"entityId":   5,
		"language":   "it",
		"field":      "title",
		"content":    content,
	}
}

func TestUpsertTranslationCreatesThenUpdates(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/translations", upsertBody("Ciao"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeResponse[model.Translation](t, rec)
	assert.Equal(t, "Ciao", created.Content)

	// Same key, new content: update path, still one row.
	rec = env.do(t, http.MethodPost, "/translations", upsertBody("Buongiorno"))
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeResponse[model.Translation](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Buongiorno", updated.Content)

	rows, err := env.queries.ListTranslations(t.Context(), store.ListTranslationsParams{
		EntityType: "page",
		EntityID:   sql.NullInt64{Int64: 5, Valid: true},
		Language:   "it",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Buongiorno", rows[0].Content)
}

func TestUpsertTranslationValidation(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing content", map[string]any{"entityType": "page", "entityId": 1, "language": "it", "field": "title"}},
		{"missing entity id", map[string]any{"entityType": "page", "language": "it", "field": "title", "content": "x"}},
		{"unknown entity type", map[string]any{"entityType": "widget", "entityId": 1, "language": "it", "field": "title", "content": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/translations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpsertTranslationNormalizesLanguage(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	body := upsertBody("Ciao")
	body["language"] = "IT"
	rec := env.do(t, http.MethodPost, "/translations", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "it", decodeResponse[model.Translation](t, rec).Language)
}

func TestTranslationReadsArePublic(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/translations", upsertBody("Ciao"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[model.Translation](t, rec).ID

	// Reads carry no scope requirement; only mutations do.
	env.gate.caller = nil
	rec = env.do(t, http.MethodGet, "/translations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse[[]model.Translation](t, rec), 1)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/translations/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ciao", decodeResponse[model.Translation](t, rec).Content)

	rec = env.do(t, http.MethodPost, "/translations", upsertBody("Salve"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTranslationsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/translations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateTranslationByID(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/translations", upsertBody("Ciao"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[model.Translation](t, rec).ID

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/translations/%d", id), map[string]any{
		"content": "Salve",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[model.Translation](t, rec)
	assert.Equal(t, "Salve", got.Content)
	// Key fields are untouched by the sparse patch.
	assert.Equal(t, "page", got.EntityType)
	assert.Equal(t, int64(5), got.EntityID)
	assert.Equal(t, "title", got.Field)
}

func TestDeleteTranslationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.asEditor()

	rec := env.do(t, http.MethodPost, "/translations", upsertBody("Ciao"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[model.Translation](t, rec).ID

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/translations/%d", id), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.asAdmin()
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/translations/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/translations/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
