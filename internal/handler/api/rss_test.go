// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
)

func TestRSSFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	id, err := env.queries.CreateAnnouncement(ctx, store.CreateAnnouncementParams{
		Category:    nullString("eventi"),
		Published:   true,
		PublishedAt: nullTime(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	_, err = env.queries.CreateAnnouncement(ctx, store.CreateAnnouncementParams{
		Published: false,
	})
	require.NoError(t, err)

	_, err = env.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeAnnouncement, EntityID: id, Language: "it",
		Field: model.FieldTitle, Content: "Festa sociale",
	})
	require.NoError(t, err)
	_, err = env.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeAnnouncement, EntityID: id, Language: "it",
		Field: model.FieldDescription, Content: "La festa annuale del club",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rss.xml", nil)
	rec := httptest.NewRecorder()
	env.handler.RSSFeed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "Festa sociale")
	assert.Contains(t, body, "La festa annuale del club")
	assert.Contains(t, body, "<category>eventi</category>")
	assert.Contains(t, body, "Fri, 01 May 2026 10:00:00 UTC")

	// The unpublished announcement stays out of the feed.
	assert.Equal(t, 1, strings.Count(body, "<item>"))
}
