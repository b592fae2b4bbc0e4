// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity resolves the calling user and their granted scopes from a
// request, backed by a Logto-compatible OIDC provider. It is the single
// authorization gate in front of every mutating endpoint.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Scopes granted by the identity provider. Admin is a superset of editor:
// any scope check passes for a caller holding ScopeAdmin.
const (
	ScopeEditor = "vm:editor"
	ScopeAdmin  = "vm:admin"
)

// Error taxonomy surfaced to handlers. Unauthorized means no usable
// credential; Forbidden means a valid credential without the required scope.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden: insufficient permissions")
)

// Caller is the authenticated identity derived from a request. It is
// ephemeral; nothing about it is persisted here.
type Caller struct {
	Subject string   `json:"id"`
	Email   string   `json:"email,omitempty"`
	Name    string   `json:"name,omitempty"`
	Scopes  []string `json:"scopes"`
}

// HasScope reports whether the caller holds the scope, directly or through
// the admin superset rule.
func (c *Caller) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scopes {
		if s == scope || s == ScopeAdmin {
			return true
		}
	}
	return false
}

// Gate is the authorization surface handlers depend on. *Client implements
// it; tests substitute a static gate.
type Gate interface {
	// ResolveCaller extracts and validates the bearer credential, returning
	// (nil, nil) when it is missing or invalid.
	ResolveCaller(ctx context.Context, r *http.Request) (*Caller, error)
	// RequireCaller is ResolveCaller that fails with ErrUnauthorized.
	RequireCaller(ctx context.Context, r *http.Request) (*Caller, error)
	// RequireScope is RequireCaller plus a scope check failing with
	// ErrForbidden.
	RequireScope(ctx context.Context, r *http.Request, scope string) (*Caller, error)
}

// BearerToken extracts the bearer credential from the Authorization header,
// returning "" when absent or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
