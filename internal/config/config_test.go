// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/vmsite.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseMySQL())
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.TurnstileEnabled())
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.UseRedisCache())
}

func TestLoadMySQL(t *testing.T) {
	t.Setenv("VM_DB_HOST", "db.internal")
	t.Setenv("VM_DB_USER", "vmsite")
	t.Setenv("VM_DB_PASSWORD", "s3cret")
	t.Setenv("VM_DB_NAME", "vmsite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UseMySQL())
	assert.Equal(t, "vmsite:s3cret@tcp(db.internal:3306)/vmsite?parseTime=true&charset=utf8mb4", cfg.MySQLDSN())
}

func TestLoadMySQLIncomplete(t *testing.T) {
	t.Setenv("VM_DB_HOST", "db.internal")

	_, err := Load()
	assert.Error(t, err)
}

func TestNotifyAddressFallsBackToFrom(t *testing.T) {
	t.Setenv("VM_MAILGUN_API_KEY", "key-x")
	t.Setenv("VM_MAILGUN_DOMAIN", "mg.victorianmonkey.it")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "noreply@victorianmonkey.it", cfg.NotifyAddress())
	assert.True(t, cfg.MailEnabled())
}
