// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/victorianmonkey/vmsite/internal/config"
	"github.com/victorianmonkey/vmsite/internal/feed"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
)

const (
	feedTitle       = "Victorian Monkey"
	feedDescription = "Annunci e novità dal Victorian Monkey"
	feedLanguage    = "it-IT"
)

// RSSFeed answers GET /rss.xml with the published announcements, titled and
// described in the default language.
func (h *Handler) RSSFeed(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.queries.ListAnnouncements(r.Context(), store.ListAnnouncementsParams{
		PublishedOnly: true,
	})
	if err != nil {
		h.internalError(w, r, "failed to list announcements for feed", err)
		return
	}

	translations, err := h.resolver.ResolveAll(r.Context(), model.EntityTypeAnnouncement, config.DefaultLanguage)
	if err != nil {
		h.internalError(w, r, "failed to resolve feed translations", err)
		return
	}

	builder := feed.NewBuilder(h.cfg.BaseURL, feedTitle, feedDescription, feedLanguage)
	for _, a := range announcements {
		tr := translations[a.ID]
		pubDate := a.CreatedAt
		if a.PublishedAt.Valid {
			pubDate = a.PublishedAt.Time
		}
		builder.AddItem(feed.Item{
			ID:          a.ID,
			Title:       tr[model.FieldTitle],
			Description: tr[model.FieldDescription],
			Category:    a.Category.String,
			PubDate:     pubDate,
		})
	}

	body, err := builder.Build()
	if err != nil {
		h.internalError(w, r, "failed to build feed", err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", publicCacheControl)
	_, _ = w.Write(body)
}
