// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"encoding/json"
	"testing"
)

func TestOptionalStates(t *testing.T) {
	var absent Optional[string]
	if absent.IsSet() || absent.Ptr() != nil {
		t.Error("zero Optional should be absent")
	}

	set := Set("hello")
	if !set.IsSet() || set.Ptr() == nil || *set.Ptr() != "hello" {
		t.Errorf("Set = %+v, want present value", set)
	}

	cleared := Clear[string]()
	if !cleared.IsSet() || cleared.Ptr() != nil {
		t.Errorf("Clear = %+v, want present nil", cleared)
	}
}

func TestOptionalUnmarshalJSON(t *testing.T) {
	type patch struct {
		Domain Optional[string] `json:"domain"`
		TeamID Optional[int64]  `json:"team_id,string"`
	}

	var absent patch
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if absent.Domain.IsSet() || absent.TeamID.IsSet() {
		t.Error("absent keys should leave fields untouched")
	}

	var set patch
	if err := json.Unmarshal([]byte(`{"domain":"example.com","team_id":"7"}`), &set); err != nil {
		t.Fatalf("unmarshal values: %v", err)
	}
	if !set.Domain.IsSet() || set.Domain.Ptr() == nil || *set.Domain.Ptr() != "example.com" {
		t.Errorf("Domain = %+v, want example.com", set.Domain)
	}
	if !set.TeamID.IsSet() || set.TeamID.Ptr() == nil || *set.TeamID.Ptr() != 7 {
		t.Errorf("TeamID = %+v, want 7", set.TeamID)
	}

	var cleared patch
	if err := json.Unmarshal([]byte(`{"domain":null}`), &cleared); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !cleared.Domain.IsSet() || cleared.Domain.Ptr() != nil {
		t.Errorf("Domain = %+v, want present nil", cleared.Domain)
	}

	var bad patch
	if err := json.Unmarshal([]byte(`{"team_id":"abc"}`), &bad); err == nil {
		t.Error("unmarshal of non-numeric team_id should fail")
	}
}
