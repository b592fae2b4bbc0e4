// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorianmonkey/vmsite/internal/identity"
)

func TestProfileAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileWithBearerCaller(t *testing.T) {
	env := newTestEnv(t)
	env.gate.caller = &identity.Caller{
		Subject: "user-42",
		Email:   "socio@example.com",
		Scopes:  []string{identity.ScopeEditor},
	}

	rec := env.do(t, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeResponse[identity.Caller](t, rec)
	assert.Equal(t, "user-42", got.Subject)
	assert.Equal(t, "socio@example.com", got.Email)
}

func TestLoginUnconfigured(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/auth/login", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication is not configured"}`, rec.Body.String())
}

func TestLogoutRedirectsHome(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/auth/logout", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestVerifyTurnstileUnconfigured(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/turnstile/verify", map[string]any{"token": "anything"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	res := decodeResponse[submissionResult](t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorCodes, "missing-input-secret")
}

func TestVerifyTurnstileProxy(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.enabled = true
	env.verifier.validToken = "ok-token"

	rec := env.do(t, http.MethodPost, "/turnstile/verify", map[string]any{"token": "ok-token"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse[submissionResult](t, rec).Success)

	rec = env.do(t, http.MethodPost, "/turnstile/verify", map[string]any{"cf-turnstile-response": "bad"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeResponse[submissionResult](t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorCodes, "invalid-input-response")
}

func TestOptionsPreflight(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodOptions, "/pages", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
