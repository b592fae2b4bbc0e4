// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// Client talks to a Logto-compatible OIDC provider: token introspection for
// the authorization gate, plus the authorization-code endpoints used by the
// browser login flow.
type Client struct {
	endpoint  string
	appID     string
	appSecret string
	http      *http.Client
}

// NewClient creates a provider client. endpoint is the provider base URL
// without a trailing slash.
func NewClient(endpoint, appID, appSecret string) *Client {
	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		appID:     appID,
		appSecret: appSecret,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// introspectionResponse is the subset of RFC 7662 fields we read.
type introspectionResponse struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub"`
	Scope  string `json:"scope"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// introspect validates an access token with the provider and returns the
// caller it belongs to, or nil when the token is inactive.
func (c *Client) introspect(ctx context.Context, token string) (*Caller, error) {
	form := url.Values{}
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/oidc/token/introspection", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.appID, c.appSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspection request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("introspection returned status %d", resp.StatusCode)
	}

	var result introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing introspection response: %w", err)
	}

	if !result.Active || result.Sub == "" {
		return nil, nil
	}

	caller := &Caller{
		Subject: result.Sub,
		Email:   result.Email,
		Name:    result.Name,
	}
	if result.Scope != "" {
		caller.Scopes = strings.Fields(result.Scope)
	}
	return caller, nil
}

// ResolveCaller implements Gate. Missing, malformed, invalid, and expired
// credentials all resolve to (nil, nil); provider outages are logged and
// treated the same way so public endpoints never depend on the provider.
func (c *Client) ResolveCaller(ctx context.Context, r *http.Request) (*Caller, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, nil
	}

	caller, err := c.introspect(ctx, token)
	if err != nil {
		slog.Error("token introspection failed", "error", err)
		return nil, nil
	}
	return caller, nil
}

// RequireCaller implements Gate.
func (c *Client) RequireCaller(ctx context.Context, r *http.Request) (*Caller, error) {
	caller, err := c.ResolveCaller(ctx, r)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrUnauthorized
	}
	return caller, nil
}

// RequireScope implements Gate.
func (c *Client) RequireScope(ctx context.Context, r *http.Request, scope string) (*Caller, error) {
	caller, err := c.RequireCaller(ctx, r)
	if err != nil {
		return nil, err
	}
	if !caller.HasScope(scope) {
		return nil, ErrForbidden
	}
	return caller, nil
}

// AuthorizeURL builds the provider authorization URL for the browser login
// flow. Only the basic identity scopes are requested at login; the provider
// grants vm:editor/vm:admin according to the user's actual roles.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", c.appID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid profile email")
	q.Set("state", state)
	return c.endpoint + "/oidc/auth?" + q.Encode()
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", c.appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/oidc/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.appID, c.appSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return result.AccessToken, nil
}

// UserInfo fetches the caller's profile claims for an access token.
func (c *Client) UserInfo(ctx context.Context, token string) (*Caller, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/oidc/me", nil)
	if err != nil {
		return nil, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("parsing userinfo response: %w", err)
	}

	return &Caller{Subject: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}
