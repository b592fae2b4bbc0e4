// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/google/uuid"
)

// Session keys used by the browser login flow.
const (
	sessionKeyState = "oauth_state"
	sessionKeyToken = "access_token"
)

const loginFailureURL = "/tana/login?error=auth_failed"

func (h *Handler) authConfigured() bool {
	return h.provider != nil && h.sessions != nil
}

// Login answers GET /api/auth/login: stores a fresh state value in the
// session and redirects to the identity provider's authorization page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.authConfigured() {
		writeError(w, http.StatusServiceUnavailable, "Authentication is not configured")
		return
	}

	state := uuid.NewString()
	h.sessions.Put(r.Context(), sessionKeyState, state)

	redirectURI := h.cfg.BaseURL + "/api/auth/callback"
	http.Redirect(w, r, h.provider.AuthorizeURL(redirectURI, state), http.StatusFound)
}

// Callback answers GET /api/auth/callback: validates the state, exchanges
// the code for a token and stores it in the session. Any failure sends the
// browser back to the login page with an error flag.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.authConfigured() {
		writeError(w, http.StatusServiceUnavailable, "Authentication is not configured")
		return
	}

	q := r.URL.Query()
	state := q.Get("state")
	code := q.Get("code")
	wantState := h.sessions.PopString(r.Context(), sessionKeyState)

	if code == "" || state == "" || wantState == "" || state != wantState {
		h.logger.Warn("auth callback rejected", "has_code", code != "", "state_match", state == wantState)
		http.Redirect(w, r, loginFailureURL, http.StatusFound)
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code, h.cfg.BaseURL+"/api/auth/callback")
	if err != nil {
		h.logger.Error("code exchange failed", "error", err)
		http.Redirect(w, r, loginFailureURL, http.StatusFound)
		return
	}

	// Renew the session token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.logger.Error("session renewal failed", "error", err)
		http.Redirect(w, r, loginFailureURL, http.StatusFound)
		return
	}
	h.sessions.Put(r.Context(), sessionKeyToken, token)

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout answers GET /api/auth/logout: destroys the session and redirects
// to the home page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Destroy(r.Context()); err != nil {
			h.logger.Error("session destroy failed", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Profile answers GET /api/profile with the caller's identity, resolved from
// a bearer token or, for browser sessions, from the stored access token.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.ResolveCaller(r.Context(), r)
	if err != nil {
		h.internalError(w, r, "failed to resolve caller", err)
		return
	}

	if caller == nil && h.authConfigured() {
		if token := h.sessions.GetString(r.Context(), sessionKeyToken); token != "" {
			caller, err = h.provider.UserInfo(r.Context(), token)
			if err != nil {
				h.logger.Warn("session token rejected", "error", err)
				caller = nil
			}
		}
	}

	if caller == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, caller)
}
