// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/victorianmonkey/vmsite/internal/cache"
	"github.com/victorianmonkey/vmsite/internal/config"
	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/translation"
	"github.com/victorianmonkey/vmsite/internal/turnstile"
)

// fakeGate authorizes a fixed caller. A nil caller means anonymous.
type fakeGate struct {
	caller *identity.Caller
}

func (g *fakeGate) ResolveCaller(context.Context, *http.Request) (*identity.Caller, error) {
	return g.caller, nil
}

func (g *fakeGate) RequireCaller(ctx context.Context, r *http.Request) (*identity.Caller, error) {
	if g.caller == nil {
		return nil, identity.ErrUnauthorized
	}
	return g.caller, nil
}

func (g *fakeGate) RequireScope(ctx context.Context, r *http.Request, scope string) (*identity.Caller, error) {
	caller, err := g.RequireCaller(ctx, r)
	if err != nil {
		return nil, err
	}
	if !caller.HasScope(scope) {
		return nil, identity.ErrForbidden
	}
	return caller, nil
}

// fakeVerifier accepts a single known token.
type fakeVerifier struct {
	enabled    bool
	validToken string
}

func (v *fakeVerifier) Enabled() bool { return v.enabled }

func (v *fakeVerifier) Verify(_ context.Context, token, _ string) turnstile.Result {
	if !v.enabled {
		return turnstile.Result{Success: true}
	}
	if token == "" {
		return turnstile.Result{Success: false, Error: "Token is required", ErrorCodes: []string{"missing-input-response"}}
	}
	if token != v.validToken {
		return turnstile.Result{Success: false, Error: "Verification failed", ErrorCodes: []string{"invalid-input-response"}}
	}
	return turnstile.Result{Success: true}
}

// fakeMailer records notifications and optionally fails them.
type fakeMailer struct {
	enabled bool
	fail    bool
	sent    chan model.ContactSubmission
}

func newFakeMailer(enabled bool) *fakeMailer {
	return &fakeMailer{enabled: enabled, sent: make(chan model.ContactSubmission, 8)}
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendContactNotification(_ context.Context, sub model.ContactSubmission) error {
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent <- sub
	return nil
}

type testEnv struct {
	handler  *Handler
	router   chi.Router
	queries  *store.Queries
	gate     *fakeGate
	verifier *fakeVerifier
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, "sqlite"))

	queries := store.New(db)
	gate := &fakeGate{}
	verifier := &fakeVerifier{}
	sender := newFakeMailer(false)
	menuCache := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = menuCache.Close() })

	h := New(Options{
		Queries:  queries,
		Gate:     gate,
		Resolver: translation.NewResolver(queries),
		Verifier: verifier,
		Mailer:   sender,
		Cache:    menuCache,
		Config:   &config.Config{BaseURL: "http://localhost:8080", SubmitRateLimit: 1000},
		Logger:   slog.New(slog.DiscardHandler),
	})

	return &testEnv{
		handler:  h,
		router:   h.Routes(),
		queries:  queries,
		gate:     gate,
		verifier: verifier,
		mailer:   sender,
	}
}

func (e *testEnv) asEditor() {
	e.gate.caller = &identity.Caller{Subject: "user-1", Scopes: []string{identity.ScopeEditor}}
}

func (e *testEnv) asAdmin() {
	e.gate.caller = &identity.Caller{Subject: "admin-1", Scopes: []string{identity.ScopeAdmin}}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}

func nullTime(v time.Time) sql.NullTime {
	return sql.NullTime{Time: v, Valid: true}
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
