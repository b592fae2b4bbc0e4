// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/victorianmonkey/vmsite/internal/middleware"
)

// Routes builds the /api router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/pages", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, POST, OPTIONS"))
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)
		r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
		r.Get("/{id}", h.GetPage)
		r.Put("/{id}", h.UpdatePage)
		r.Delete("/{id}", h.DeletePage)
	})

	r.Route("/announcements", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, POST, OPTIONS"))
		r.Get("/", h.ListAnnouncements)
		r.Post("/", h.CreateAnnouncement)
		r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
		r.Get("/{id}", h.GetAnnouncement)
		r.Put("/{id}", h.UpdateAnnouncement)
		r.Delete("/{id}", h.DeleteAnnouncement)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, OPTIONS"))
		r.Get("/", h.GetMenu)

		r.Route("/sections", func(r chi.Router) {
			r.Options("/", optionsHandler("GET, POST, OPTIONS"))
			r.Get("/", h.ListMenuSections)
			r.Post("/", h.CreateMenuSection)
			r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
			r.Get("/{id}", h.GetMenuSection)
			r.Put("/{id}", h.UpdateMenuSection)
			r.Delete("/{id}", h.DeleteMenuSection)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Options("/", optionsHandler("GET, POST, OPTIONS"))
			r.Get("/", h.ListMenuEntries)
			r.Post("/", h.CreateMenuEntry)
			r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
			r.Get("/{id}", h.GetMenuEntry)
			r.Put("/{id}", h.UpdateMenuEntry)
			r.Delete("/{id}", h.DeleteMenuEntry)
		})
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, POST, OPTIONS"))
		r.Get("/", h.ListContacts)
		r.Post("/", h.CreateContact)
		r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
		r.Get("/{id}", h.GetContact)
		r.Put("/{id}", h.UpdateContact)
		r.Delete("/{id}", h.DeleteContact)
	})

	r.Route("/contact-submissions", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, POST, OPTIONS"))
		r.Get("/", h.ListContactSubmissions)

		// SubmitRateLimit is requests per minute per IP.
		rps := float64(h.cfg.SubmitRateLimit) / 60
		r.With(middleware.RateLimit(rps, h.cfg.SubmitRateLimit)).
			Post("/", h.CreateContactSubmission)
	})

	r.Route("/translations", func(r chi.Router) {
		r.Options("/", optionsHandler("GET, POST, OPTIONS"))
		r.Get("/", h.ListTranslations)
		r.Post("/", h.UpsertTranslation)
		r.Options("/{id}", optionsHandler("GET, PUT, DELETE, OPTIONS"))
		r.Get("/{id}", h.GetTranslation)
		r.Put("/{id}", h.UpdateTranslation)
		r.Delete("/{id}", h.DeleteTranslation)
	})

	r.Route("/turnstile", func(r chi.Router) {
		r.Options("/verify", optionsHandler("POST, OPTIONS"))
		r.Post("/verify", h.VerifyTurnstile)
	})

	r.Group(func(r chi.Router) {
		if h.sessions != nil {
			r.Use(h.sessions.LoadAndSave)
		}
		r.Get("/auth/login", h.Login)
		r.Get("/auth/callback", h.Callback)
		r.Get("/auth/logout", h.Logout)
		r.Get("/profile", h.Profile)
	})

	return r
}
