package store

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		ok    bool
	}{
		{"simple", "42", 42, true},
		{"whitespace", "  7 ", 7, true},
		{"large", "9007199254740993", 9007199254740993, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"empty", "", 0, false},
		{"hex", "0x1f", 0, false},
		{"garbage", "abc", 0, false},
		{"trailing", "12abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("ParseID(%q): unexpected error %v", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("ParseID(%q) = %d, want %d", tt.input, got, tt.want)
				}
				return
			}
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", tt.input, err)
			}
		})
	}
}

func TestFormatIDRoundTrip(t *testing.T) {
	for _, id := range []int64{1, 25, 1<<53 + 1} {
		got, err := ParseID(FormatID(id))
		if err != nil {
			t.Fatalf("round trip %d: %v", id, err)
		}
		if got != id {
			t.Errorf("round trip %d = %d", id, got)
		}
	}
}
