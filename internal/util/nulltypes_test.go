// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"
	"time"
)

func TestNullStringRoundTrip(t *testing.T) {
	if ns := NullStringFromPtr(nil); ns.Valid {
		t.Error("NullStringFromPtr(nil).Valid = true, want false")
	}

	value := "hello"
	ns := NullStringFromPtr(&value)
	if !ns.Valid || ns.String != value {
		t.Errorf("NullStringFromPtr = %+v, want valid %q", ns, value)
	}

	ptr := PtrFromNullString(ns)
	if ptr == nil || *ptr != value {
		t.Errorf("PtrFromNullString = %v, want %q", ptr, value)
	}
	if ptr := PtrFromNullString(NullStringFromPtr(nil)); ptr != nil {
		t.Errorf("PtrFromNullString(invalid) = %v, want nil", ptr)
	}
}

func TestNullInt64RoundTrip(t *testing.T) {
	if ni := NullInt64FromPtr(nil); ni.Valid {
		t.Error("NullInt64FromPtr(nil).Valid = true, want false")
	}

	value := int64(42)
	ni := NullInt64FromPtr(&value)
	if !ni.Valid || ni.Int64 != value {
		t.Errorf("NullInt64FromPtr = %+v, want valid %d", ni, value)
	}
	if ptr := PtrFromNullInt64(ni); ptr == nil || *ptr != value {
		t.Errorf("PtrFromNullInt64 = %v, want %d", ptr, value)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if nt := NullTimeFromPtr(nil); nt.Valid {
		t.Error("NullTimeFromPtr(nil).Valid = true, want false")
	}

	value := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	nt := NullTimeFromPtr(&value)
	if !nt.Valid || !nt.Time.Equal(value) {
		t.Errorf("NullTimeFromPtr = %+v, want valid %v", nt, value)
	}
	if ptr := PtrFromNullTime(nt); ptr == nil || !ptr.Equal(value) {
		t.Errorf("PtrFromNullTime = %v, want %v", ptr, value)
	}
}
