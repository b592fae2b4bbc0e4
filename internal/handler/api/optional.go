// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "encoding/json"

// Optional is a tri-state JSON field for sparse patches: absent means leave
// the stored value unchanged, an explicit null clears it, a value sets it.
// A plain pointer cannot express this because encoding/json decodes both an
// absent key and an explicit null to nil.
type Optional[T any] struct {
	Set   bool // key was present in the payload
	Valid bool // value was non-null
	Value T
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
