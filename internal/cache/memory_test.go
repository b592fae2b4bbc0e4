// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "menu:it:active", []byte(`{"sections":[]}`), 0))

	got, err := m.Get(ctx, "menu:it:active")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"sections":[]}`), got)
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()

	_, err := m.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "key", []byte("value"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "menu:it:active", []byte("a"), 0))
	require.NoError(t, m.Set(ctx, "menu:en:active", []byte("b"), 0))
	require.NoError(t, m.Clear(ctx))

	_, err := m.Get(ctx, "menu:it:active")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = m.Get(ctx, "menu:en:active")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMenuKey(t *testing.T) {
	assert.Equal(t, "menu:it:active", MenuKey("it", true))
	assert.Equal(t, "menu:en:all", MenuKey("en", false))
}
