package parser

import (
	"encoding/xml"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func TestAttrBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
		ok       bool
	}{
		{"1", true, true},
		{"true", true, true},
		{"0", false, true},
		{"false", false, true},
		{"yes", false, false},
	}

	for _, tt := range tests {
		sink := warn.NewCollector(0, nil)
		c := NewContext("test.xml", sink)
		var got bool
		ok := c.AttrBool(attr("hidden", tt.value), "hidden", &got)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("AttrBool(%q) = %v, %v, expected %v, %v", tt.value, got, ok, tt.expected, tt.ok)
		}
		if !tt.ok && sink.Len() != 1 {
			t.Errorf("AttrBool(%q) warnings = %d, expected 1", tt.value, sink.Len())
		}
	}
}

func TestAttrPercent(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"50%", 50000},
		{"12.5%", 12500},
		{"75000", 75000},
	}

	c := NewContext("test.xml", warn.Discard)
	for _, tt := range tests {
		var got int
		if !c.AttrPercent(attr("val", tt.value), "val", &got) || got != tt.expected {
			t.Errorf("AttrPercent(%q) = %d, expected %d", tt.value, got, tt.expected)
		}
	}
}

func TestAttrColor(t *testing.T) {
	tests := []struct {
		value    string
		expected models.Color
	}{
		{"FF0000", models.ColorRed},
		{"80FF0000", models.Color(0x80FF0000)},
		{"ff000000", models.ColorBlack},
	}

	c := NewContext("test.xml", warn.Discard)
	for _, tt := range tests {
		var got models.Color
		if !c.AttrColor(attr("rgb", tt.value), "rgb", &got) || got != tt.expected {
			t.Errorf("AttrColor(%q) = %08X, expected %08X", tt.value, uint32(got), uint32(tt.expected))
		}
	}

	var got models.Color
	if c.AttrColor(attr("rgb", "red"), "rgb", &got) {
		t.Errorf("AttrColor(%q) succeeded, expected failure", "red")
	}
}

func TestAttrEnumUnknownWarns(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	c := NewContext("test.xml", sink)
	got := models.SheetVisible
	if AttrEnum(c, attr("state", "gone"), "state", sheetStates, &got) {
		t.Errorf("AttrEnum(%q) succeeded, expected failure", "gone")
	}
	if got != models.SheetVisible {
		t.Errorf("AttrEnum changed the value to %q", got)
	}
	msgs := sink.Messages()
	if len(msgs) != 1 || msgs[0] != "Unknown enum value 'gone' for attribute state" {
		t.Errorf("warnings = %q, expected the unknown enum warning", msgs)
	}
}

func TestAttrNamespaces(t *testing.T) {
	rid := xml.Attr{Name: xml.Name{Space: "http://schemas.openxmlformats.org/officeDocument/2006/relationships", Local: "id"}, Value: "rId1"}
	if !AttrNS(rid, NSDocRel, "id") {
		t.Errorf("AttrNS(r:id) = false, expected true")
	}
	var s string
	if AttrString(rid, "id", &s) {
		t.Errorf("AttrString matched a qualified attribute")
	}
}
