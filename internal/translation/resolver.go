// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translation resolves per-language translated fields for content
// entities. Entities and translations are associated only by the
// (entity type, entity id) pair; resolution folds the matching rows into a
// field-to-content mapping.
package translation

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/victorianmonkey/vmsite/internal/config"
	"github.com/victorianmonkey/vmsite/internal/model"
)

// Store is the query surface the resolver needs. *store.Queries satisfies
// it; tests substitute a counting fake.
type Store interface {
	ListEntityTranslations(ctx context.Context, entityType string, entityID int64, lang string) ([]model.Translation, error)
	ListTranslationsForType(ctx context.Context, entityType, lang string) ([]model.Translation, error)
}

// Resolver fetches and folds translation rows.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// NormalizeLanguage canonicalizes a locale code to its lowercase base tag
// ("IT" -> "it", "en-US" -> "en"). Empty input yields the default language;
// unparseable input passes through lowercased, so resolution simply finds
// no rows for it.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return config.DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}

// Fold collapses translation rows into a field-to-content mapping. Later
// rows win on duplicate fields; the unique index makes duplicates unlikely
// but folding must not fail if they occur.
func Fold(rows []model.Translation) map[string]string {
	out := make(map[string]string, len(rows))
	for _, t := range rows {
		out[t.Field] = t.Content
	}
	return out
}

// Resolve returns the field mapping for one entity in one language. The
// mapping is empty when no rows match; there is no fallback to other
// languages.
func (r *Resolver) Resolve(ctx context.Context, entityType string, entityID int64, lang string) (map[string]string, error) {
	rows, err := r.store.ListEntityTranslations(ctx, entityType, entityID, NormalizeLanguage(lang))
	if err != nil {
		return nil, err
	}
	return Fold(rows), nil
}

// ResolveField returns a single field's content, reporting absence via the
// second return value rather than an error.
func (r *Resolver) ResolveField(ctx context.Context, entityType string, entityID int64, field, lang string) (string, bool, error) {
	m, err := r.Resolve(ctx, entityType, entityID, lang)
	if err != nil {
		return "", false, err
	}
	content, ok := m[field]
	return content, ok, nil
}

// ResolveAll returns the field mappings for every entity of one type in one
// language, keyed by entity id. It issues exactly one store fetch, so list
// endpoints stay free of per-entity queries. Entities without rows are
// simply absent from the result.
func (r *Resolver) ResolveAll(ctx context.Context, entityType, lang string) (map[int64]map[string]string, error) {
	rows, err := r.store.ListTranslationsForType(ctx, entityType, NormalizeLanguage(lang))
	if err != nil {
		return nil, err
	}

	out := make(map[int64]map[string]string)
	for _, t := range rows {
		m, ok := out[t.EntityID]
		if !ok {
			m = make(map[string]string)
			out[t.EntityID] = m
		}
		m[t.Field] = t.Content
	}
	return out, nil
}
