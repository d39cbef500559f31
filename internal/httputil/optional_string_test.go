package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalStringTriState(t *testing.T) {
	type patch struct {
		Description OptionalString `json:"description"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNil     bool
		wantValue   string
	}{
		{name: "absent", body: `{}`, wantPresent: false},
		{name: "null clears", body: `{"description":null}`, wantPresent: true, wantNil: true},
		{name: "empty string", body: `{"description":""}`, wantPresent: true, wantValue: ""},
		{name: "value", body: `{"description":"quarterly report"}`, wantPresent: true, wantValue: "quarterly report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Description.Present != tt.wantPresent {
				t.Fatalf("Present = %v, want %v", p.Description.Present, tt.wantPresent)
			}
			if !tt.wantPresent {
				return
			}
			if tt.wantNil {
				if p.Description.Value != nil {
					t.Errorf("Value = %q, want nil", *p.Description.Value)
				}
				return
			}
			if p.Description.Value == nil {
				t.Fatal("Value is nil, want a string")
			}
			if *p.Description.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", *p.Description.Value, tt.wantValue)
			}
		})
	}
}

func TestOptionalStringRejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("want error for non-string JSON value")
	}
}
