// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package turnstile verifies Cloudflare Turnstile challenge tokens.
package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Cloudflare verification endpoint
	defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	verifyTimeout    = 10 * time.Second
)

// Result is the outcome of a token verification, shaped for the
// /api/turnstile/verify response.
type Result struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Verifier checks challenge tokens. *Client implements it; tests substitute
// a static verifier.
type Verifier interface {
	// Enabled reports whether a secret key is configured. When false,
	// verification is skipped and submissions are accepted without a token.
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) Result
}

// Client verifies tokens against the Cloudflare siteverify endpoint.
type Client struct {
	secretKey string
	verifyURL string
	http      *http.Client
}

// NewClient creates a Client. An empty secretKey disables verification.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		verifyURL: defaultVerifyURL,
		http:      &http.Client{Timeout: verifyTimeout},
	}
}

// NewClientWithURL creates a Client pointed at a custom endpoint, for tests.
func NewClientWithURL(secretKey, verifyURL string) *Client {
	c := NewClient(secretKey)
	c.verifyURL = verifyURL
	return c
}

// Enabled implements Verifier.
func (c *Client) Enabled() bool {
	return c.secretKey != ""
}

// siteverifyResponse is the provider's response shape.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a token with the provider. All failure modes are reported
// in the Result rather than as errors, mirroring the provider's own
// error-codes contract.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) Result {
	if !c.Enabled() {
		return Result{
			Success:    false,
			Error:      "Server configuration error.",
			ErrorCodes: []string{"missing-input-secret"},
		}
	}
	if token == "" {
		return Result{
			Success:    false,
			Error:      "Token is required",
			ErrorCodes: []string{"missing-input-response"},
		}
	}

	data := url.Values{}
	data.Set("secret", c.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return Result{
			Success:    false,
			Error:      fmt.Sprintf("failed to verify token: %v", err),
			ErrorCodes: []string{"internal-error"},
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{
			Success:    false,
			Error:      "Turnstile service unavailable",
			ErrorCodes: []string{"service-unavailable"},
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Result{
			Success:    false,
			Error:      "Turnstile service unavailable",
			ErrorCodes: []string{"service-unavailable"},
		}
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{
			Success:    false,
			Error:      "Failed to parse verification response",
			ErrorCodes: []string{"internal-error"},
		}
	}

	if !result.Success {
		codes := result.ErrorCodes
		if len(codes) == 0 {
			codes = []string{"unknown-error"}
		}
		return Result{
			Success:    false,
			Error:      "Verification failed. Please try again.",
			ErrorCodes: codes,
		}
	}

	return Result{Success: true}
}

// RemoteIP extracts the client IP from a request, honoring the usual
// reverse-proxy headers.
func RemoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx > 0 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
