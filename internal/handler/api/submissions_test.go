// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submissionResult struct {
	Success    bool     `json:"success"`
	ID         int64    `json:"id"`
	Message    string   `json:"message"`
	Error      string   `json:"error"`
	ErrorCodes []string `json:"error-codes"`
}

func TestCreateSubmissionWithoutTurnstile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":    "Mario Rossi",
		"email":   "mario@example.com",
		"message": "Vorrei informazioni sul club.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	res := decodeResponse[submissionResult](t, rec)
	assert.True(t, res.Success)
	assert.NotZero(t, res.ID)

	sub, err := env.queries.GetContactSubmission(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", sub.Name)
	assert.Equal(t, "mario@example.com", sub.Email)
	require.True(t, sub.Message.Valid)
	assert.Equal(t, "Vorrei informazioni sul club.", sub.Message.String)
}

func TestCreateSubmissionValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@example.com"}},
		{"missing email", map[string]any{"name": "Mario"}},
		{"invalid email", map[string]any{"name": "Mario", "email": "not-an-address"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/contact-submissions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateSubmissionInvalidTurnstileToken(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.enabled = true
	env.verifier.validToken = "ok-token"

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":                  "Mario Rossi",
		"email":                 "mario@example.com",
		"cf-turnstile-response": "bad-token",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	res := decodeResponse[submissionResult](t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorCodes, "invalid-input-response")

	// Nothing was stored.
	subs, err := env.queries.ListContactSubmissions(t.Context())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCreateSubmissionValidTurnstileToken(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.enabled = true
	env.verifier.validToken = "ok-token"

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":                  "Mario Rossi",
		"email":                 "mario@example.com",
		"cf-turnstile-response": "ok-token",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateSubmissionSendsNotification(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.enabled = true

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":  "Mario Rossi",
		"email": "mario@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case sub := <-env.mailer.sent:
		assert.Equal(t, "Mario Rossi", sub.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestCreateSubmissionMailFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.enabled = true
	env.mailer.fail = true

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":  "Mario Rossi",
		"email": "mario@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeResponse[submissionResult](t, rec).Success)
}

func TestCreateSubmissionStripsMarkup(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact-submissions", map[string]any{
		"name":    "<b>Mario</b>",
		"email":   "mario@example.com",
		"message": "ciao <script>alert(1)</script>",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeResponse[submissionResult](t, rec).ID

	sub, err := env.queries.GetContactSubmission(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Mario", sub.Name)
	assert.NotContains(t, sub.Message.String, "<script>")
}

func TestListSubmissionsRequiresEditor(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/contact-submissions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.asEditor()
	rec = env.do(t, http.MethodGet, "/contact-submissions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
