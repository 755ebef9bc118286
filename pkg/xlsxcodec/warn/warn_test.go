package warn

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestCollectorMax(t *testing.T) {
	c := NewCollector(2, nil)
	for i := 0; i < 5; i++ {
		c.Warnf("warning %d", i)
	}
	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[1] != "warning 1" {
		t.Errorf("msgs[1] = %q, expected %q", msgs[1], "warning 1")
	}
	if c.Dropped != 3 {
		t.Errorf("Dropped = %d, expected 3", c.Dropped)
	}
}

func TestCollectorLogger(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(0, log.New(&buf, "", 0))
	c.Warnf("Invalid sst ref")
	if !strings.Contains(buf.String(), "Invalid sst ref") {
		t.Errorf("Logger output = %q, expected the warning", buf.String())
	}
}

func TestPrefixed(t *testing.T) {
	tests := []struct {
		location string
		expected string
	}{
		{"Sheet1!A1", "Sheet1!A1 : Invalid cell"},
		{"Sheet1", "Sheet1 : Invalid cell"},
		{"", "Invalid cell"},
	}

	for _, tt := range tests {
		c := NewCollector(0, nil)
		loc := tt.location
		p := Prefixed{Sink: c, Location: func() string { return loc }}
		p.Warnf("Invalid %s", "cell")
		if got := c.Messages()[0]; got != tt.expected {
			t.Errorf("Prefixed(%q) = %q, expected %q", tt.location, got, tt.expected)
		}
	}
}
