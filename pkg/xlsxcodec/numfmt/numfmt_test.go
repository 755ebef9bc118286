package numfmt

import (
	"testing"
)

func TestBuiltin(t *testing.T) {
	tests := []struct {
		id       int
		expected string
		ok       bool
	}{
		{0, "General", true},
		{2, "0.00", true},
		{14, "mm-dd-yy", true},
		{49, "@", true},
		{5, "", false},
		{30, "", false},
		{42, "", false},
		{200, "", false},
	}

	for _, tt := range tests {
		code, ok := Builtin(tt.id)
		if ok != tt.ok || code != tt.expected {
			t.Errorf("Builtin(%d) = %q, %v, expected %q, %v", tt.id, code, ok, tt.expected, tt.ok)
		}
	}
}

func TestBuiltinID(t *testing.T) {
	tests := []struct {
		code     string
		expected int
		ok       bool
	}{
		{"General", 0, true},
		{"general", 0, true},
		{"0%", 9, true},
		{"[h]:mm:ss", 46, true},
		{"yyyy-mm-dd", 0, false},
	}

	for _, tt := range tests {
		id, ok := BuiltinID(tt.code)
		if ok != tt.ok || id != tt.expected {
			t.Errorf("BuiltinID(%q) = %d, %v, expected %d, %v", tt.code, id, ok, tt.expected, tt.ok)
		}
	}
}

func TestIsDate(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"General", false},
		{"0.00", false},
		{"#,##0", false},
		{"@", false},
		{"yyyy-mm-dd", true},
		{"mm-dd-yy", true},
		{"h:mm:ss", true},
		{"[h]:mm:ss", true},
	}

	for _, tt := range tests {
		if got := IsDate(tt.code); got != tt.expected {
			t.Errorf("IsDate(%q) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}
