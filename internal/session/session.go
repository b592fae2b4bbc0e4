// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the browser session manager used by the login
// flow.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// New creates a session manager. On SQLite the sessions table backs the
// store so logins survive restarts; on MySQL the default in-memory store is
// used.
func New(db *sql.DB, useSQLiteStore, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if useSQLiteStore {
		sm.Store = sqlite3store.New(db)
	}

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}
