// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/mail"
	"time"

	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/model"
	"github.com/victorianmonkey/vmsite/internal/sanitize"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/turnstile"
	"github.com/victorianmonkey/vmsite/internal/util"
)

type submissionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSubmissionResponse(s model.ContactSubmission) submissionResponse {
	return submissionResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     util.StringPtrFromNull(s.Phone),
		Message:   util.StringPtrFromNull(s.Message),
		CreatedAt: s.CreatedAt,
	}
}

// ListContactSubmissions answers GET /api/contact-submissions. Reading the
// inbox requires the editor scope.
func (h *Handler) ListContactSubmissions(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gate.RequireScope(r.Context(), r, identity.ScopeEditor); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	subs, err := h.queries.ListContactSubmissions(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list contact submissions", err)
		return
	}

	out := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, newSubmissionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

type createSubmissionRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Message        string `json:"message"`
	TurnstileToken string `json:"cf-turnstile-response"`
}

// CreateContactSubmission answers POST /api/contact-submissions, the public
// contact form endpoint. When Turnstile is configured the token is verified
// first; the notification mail is best-effort and never fails the request.
func (h *Handler) CreateContactSubmission(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	var req createSubmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	name := sanitize.Plain(req.Name)
	email := sanitize.Plain(req.Email)
	if name == "" || email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if h.verifier != nil && h.verifier.Enabled() {
		result := h.verifier.Verify(r.Context(), req.TurnstileToken, turnstile.RemoteIP(r))
		if !result.Success {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":       "Verification failed",
				"error-codes": result.ErrorCodes,
			})
			return
		}
	}

	id, err := h.queries.CreateContactSubmission(r.Context(), store.CreateContactSubmissionParams{
		Name:    name,
		Email:   email,
		Phone:   util.NullStringFromValue(sanitize.Plain(req.Phone)),
		Message: util.NullStringFromValue(sanitize.Plain(req.Message)),
	})
	if err != nil {
		h.internalError(w, r, "failed to store contact submission", err)
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		sub, err := h.queries.GetContactSubmission(r.Context(), id)
		if err != nil {
			h.logger.Error("failed to load submission for notification", "error", err, "submission_id", id)
		} else {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := h.mailer.SendContactNotification(ctx, sub); err != nil {
					h.logger.Error("failed to send contact notification", "error", err, "submission_id", sub.ID)
				}
			}()
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
		"message": "Grazie per il tuo messaggio! Ti risponderemo al più presto.",
	})
}
