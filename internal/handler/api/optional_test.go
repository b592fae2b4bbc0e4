// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTriState(t *testing.T) {
	type payload struct {
		Link Optional[string] `json:"link"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Link.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"link":null}`), &null))
	assert.True(t, null.Link.Set)
	assert.False(t, null.Link.Valid)

	var set payload
	require.NoError(t, json.Unmarshal([]byte(`{"link":"/chi-siamo"}`), &set))
	assert.True(t, set.Link.Set)
	assert.True(t, set.Link.Valid)
	assert.Equal(t, "/chi-siamo", set.Link.Value)
}

func TestOptionalRejectsWrongType(t *testing.T) {
	type payload struct {
		Order Optional[int64] `json:"order"`
	}
	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"order":"high"}`), &p))
}
