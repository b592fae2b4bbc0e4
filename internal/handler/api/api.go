// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api implements the JSON API under /api/. Handlers follow a fixed
// sequence: authorize, mutate, read back, decorate with translations,
// serialize. Authorization failures map to 401/403, missing rows to 404,
// and unexpected failures are logged and returned as a generic 500.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/victorianmonkey/vmsite/internal/cache"
	"github.com/victorianmonkey/vmsite/internal/config"
	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/mailer"
	"github.com/victorianmonkey/vmsite/internal/middleware"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/translation"
	"github.com/victorianmonkey/vmsite/internal/turnstile"
)

// AuthProvider is the part of the identity client the browser login flow
// needs. It is nil when the identity provider is not configured.
type AuthProvider interface {
	AuthorizeURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
	UserInfo(ctx context.Context, token string) (*identity.Caller, error)
}

// Handler holds the shared dependencies of every API endpoint.
type Handler struct {
	queries  *store.Queries
	gate     identity.Gate
	provider AuthProvider
	resolver *translation.Resolver
	verifier turnstile.Verifier
	mailer   mailer.Mailer
	cache    cache.Cache
	sessions *scs.SessionManager
	cfg      *config.Config
	logger   *slog.Logger
}

// Options collects the dependencies for New.
type Options struct {
	Queries  *store.Queries
	Gate     identity.Gate
	Provider AuthProvider
	Resolver *translation.Resolver
	Verifier turnstile.Verifier
	Mailer   mailer.Mailer
	Cache    cache.Cache
	Sessions *scs.SessionManager
	Config   *config.Config
	Logger   *slog.Logger
}

// New creates the API handler.
func New(opts Options) *Handler {
	return &Handler{
		queries:  opts.Queries,
		gate:     opts.Gate,
		provider: opts.Provider,
		resolver: opts.Resolver,
		verifier: opts.Verifier,
		mailer:   opts.Mailer,
		cache:    opts.Cache,
		sessions: opts.Sessions,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error body. The message is user-facing;
// internal error text never goes here.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// internalError logs the underlying failure and answers with a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "error", err, "request_id", middleware.RequestID(r), "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// writeAuthError maps gate failures onto 401/403.
func (h *Handler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, identity.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden: insufficient permissions")
	default:
		h.internalError(w, r, "authorization check failed", err)
	}
}

// urlID parses the {id} route parameter. Ids are positive integers.
func urlID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryFlag reads a boolean query parameter; "true" and "1" are true.
func queryFlag(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}

// boolOrTrue reads an optional request flag that defaults to true when the
// key is absent.
func boolOrTrue(v *bool) bool {
	if v != nil {
		return *v
	}
	return true
}

// requestLanguage reads the language query parameter, normalized.
func requestLanguage(r *http.Request) string {
	return translation.NormalizeLanguage(r.URL.Query().Get("language"))
}

// allowCORS marks a public read endpoint as cross-origin readable.
func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// optionsHandler answers preflight requests, declaring the verbs a resource
// supports.
func optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeBody decodes a JSON request body into dst, rejecting malformed
// payloads with a 400. Returns false when a response was already written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// invalidateMenuCache drops the cached menu aggregates after a section or
// entry mutation.
func (h *Handler) invalidateMenuCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Warn("failed to invalidate menu cache", "error", err)
	}
}
