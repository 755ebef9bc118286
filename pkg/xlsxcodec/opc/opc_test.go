package opc

import (
	"bytes"
	"errors"
	"testing"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected string
	}{
		{"xl/workbook.xml", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl/drawings/drawing1.xml", "../charts/chart1.xml", "xl/charts/chart1.xml"},
		{"xl/workbook.xml", "/xl/styles.xml", "xl/styles.xml"},
		{"", "xl/workbook.xml", "xl/workbook.xml"},
	}

	for _, tt := range tests {
		if got := ResolvePath(tt.source, tt.target); got != tt.expected {
			t.Errorf("ResolvePath(%q, %q) = %q, expected %q", tt.source, tt.target, got, tt.expected)
		}
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source   string
		part     string
		expected string
	}{
		{"xl/workbook.xml", "xl/worksheets/sheet1.xml", "worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/drawings/drawing1.xml", "../drawings/drawing1.xml"},
		{"", "xl/workbook.xml", "xl/workbook.xml"},
	}

	for _, tt := range tests {
		if got := RelativeTarget(tt.source, tt.part); got != tt.expected {
			t.Errorf("RelativeTarget(%q, %q) = %q, expected %q", tt.source, tt.part, got, tt.expected)
		}
		if got := ResolvePath(tt.source, RelativeTarget(tt.source, tt.part)); got != tt.part {
			t.Errorf("ResolvePath(RelativeTarget(%q, %q)) = %q", tt.source, tt.part, got)
		}
	}
}

func TestRelsPath(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"", "_rels/.rels"},
		{"xl/workbook.xml", "xl/_rels/workbook.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
	}

	for _, tt := range tests {
		if got := RelsPath(tt.source); got != tt.expected {
			t.Errorf("RelsPath(%q) = %q, expected %q", tt.source, got, tt.expected)
		}
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.AddPart("xl/workbook.xml", ContentTypeWorkbook, []byte("<workbook/>")); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := w.AddPart("xl/worksheets/sheet1.xml", ContentTypeWorksheet, []byte("<worksheet/>")); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	w.Rel("", RelOfficeDocument, "xl/workbook.xml", false)
	sheetRID := w.Rel("xl/workbook.xml", RelWorksheet, "xl/worksheets/sheet1.xml", false)
	w.Rel("xl/worksheets/sheet1.xml", RelHyperlink, "https://example.com/?a=1&b=2", true)
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if !r.Has("[Content_Types].xml") {
		t.Errorf("Expected content types part")
	}

	rels, err := r.Rels("xl/workbook.xml")
	if err != nil {
		t.Fatalf("Rels failed: %v", err)
	}
	rel, ok := rels.ByID(sheetRID)
	if !ok {
		t.Fatalf("Relationship %s not found", sheetRID)
	}
	if got := rels.TargetPart(rel); got != "xl/worksheets/sheet1.xml" {
		t.Errorf("TargetPart = %q, expected %q", got, "xl/worksheets/sheet1.xml")
	}

	sheetRels, _ := r.Rels("xl/worksheets/sheet1.xml")
	links := sheetRels.ByKind("hyperlink")
	if len(links) != 1 || !links[0].External || links[0].Target != "https://example.com/?a=1&b=2" {
		t.Errorf("hyperlink rels = %+v", links)
	}

	if _, err := r.ReadPart("xl/missing.xml"); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("ReadPart(missing) = %v, expected ErrPartNotFound", err)
	}
}

func TestNewReaderNotZip(t *testing.T) {
	data := []byte("plain text, not an archive")
	if _, err := NewReader(bytes.NewReader(data), int64(len(data))); !errors.Is(err, ErrNotZip) {
		t.Errorf("NewReader(text) = %v, expected ErrNotZip", err)
	}
}

func TestRelationshipsByIDNil(t *testing.T) {
	var rels *Relationships
	if _, ok := rels.ByID("rId1"); ok {
		t.Errorf("ByID on nil relationships found a target, expected none")
	}
}
