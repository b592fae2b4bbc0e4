// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/victorianmonkey/vmsite/internal/turnstile"
)

type verifyRequest struct {
	Token          string `json:"token"`
	TurnstileToken string `json:"cf-turnstile-response"`
}

// VerifyTurnstile answers POST /api/turnstile/verify, proxying a token check
// to the challenge provider so the browser never sees the secret key. An
// unconfigured secret yields 503 with the provider-style missing-input-secret
// code.
func (h *Handler) VerifyTurnstile(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	var req verifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token := req.Token
	if token == "" {
		token = req.TurnstileToken
	}

	if h.verifier == nil || !h.verifier.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, turnstile.Result{
			Success:    false,
			Error:      "Turnstile is not configured",
			ErrorCodes: []string{"missing-input-secret"},
		})
		return
	}

	result := h.verifier.Verify(r.Context(), token, turnstile.RemoteIP(r))
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}
