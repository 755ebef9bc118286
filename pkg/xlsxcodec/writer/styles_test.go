package writer

import (
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

func boldStyle() *models.Style {
	return &models.Style{Font: &models.Font{Bold: models.Ptr(true), Name: models.Ptr("Arial")}}
}

func TestInternerDeduplicates(t *testing.T) {
	tab := NewInterner[models.Font]()
	a := tab.Intern(models.Font{Bold: models.Ptr(true)})
	b := tab.Intern(models.Font{Bold: models.Ptr(true)})
	c := tab.Intern(models.Font{Italic: models.Ptr(true)})
	if a != b {
		t.Errorf("Intern(equal fonts) = %d, %d, expected one index", a, b)
	}
	if c == a {
		t.Errorf("Intern(distinct font) = %d, expected a new index", c)
	}
	if tab.Len() != 2 || tab.Refs() != 3 {
		t.Errorf("Len, Refs = %d, %d, expected 2, 3", tab.Len(), tab.Refs())
	}
}

func TestStylesPredefined(t *testing.T) {
	s := NewStyles()
	c := s.Counts()
	if c.Fonts != 1 || c.Fills != 2 || c.Borders != 1 || c.CellXfs != 1 || c.Dxfs != 0 {
		t.Errorf("Counts() = %+v, expected 1 font, 2 fills, 1 border, 1 xf", c)
	}
	if got := s.Xf(nil); got != 0 {
		t.Errorf("Xf(nil) = %d, expected 0", got)
	}
	if got := s.Xf(&models.Style{}); got != 0 {
		t.Errorf("Xf(empty) = %d, expected 0", got)
	}
}

func TestStylesIdenticalStylesShareEntries(t *testing.T) {
	s := NewStyles()
	first := s.Xf(boldStyle())
	for range 50 {
		if got := s.Xf(boldStyle()); got != first {
			t.Fatalf("Xf(equal style) = %d, expected %d", got, first)
		}
	}
	c := s.Counts()
	if c.Fonts != 2 || c.CellXfs != 2 {
		t.Errorf("Counts() = %+v, expected one added font and xf", c)
	}
}

func TestStylesIndices(t *testing.T) {
	s := NewStyles()
	fill := &models.Style{Fill: &models.Fill{Pattern: models.Ptr(models.PatternSolid), Fg: models.Ptr(models.RGB(255, 0, 0))}}
	tests := []struct {
		name     string
		style    *models.Style
		expected int
	}{
		{"bold", boldStyle(), 1},
		{"fill", fill, 2},
		{"bold again", boldStyle(), 1},
		{"fill and bold", boldStyle().Merge(fill), 3},
	}
	for _, tt := range tests {
		if got := s.Xf(tt.style); got != tt.expected {
			t.Errorf("Xf(%s) = %d, expected %d", tt.name, got, tt.expected)
		}
	}
	if c := s.Counts(); c.Fills != 3 {
		t.Errorf("Fills = %d, expected 3", c.Fills)
	}
}

func TestNumFmtID(t *testing.T) {
	s := NewStyles()
	tests := []struct {
		code     string
		expected int
	}{
		{"General", 0},
		{"0.00", 2},
		{"yyyy-mm-dd", 164},
		{"#,##0.000", 165},
		{"yyyy-mm-dd", 164},
	}
	for _, tt := range tests {
		if got := s.NumFmtID(tt.code); got != tt.expected {
			t.Errorf("NumFmtID(%q) = %d, expected %d", tt.code, got, tt.expected)
		}
	}
	if c := s.Counts(); c.NumFmts != 2 {
		t.Errorf("NumFmts = %d, expected 2", c.NumFmts)
	}
}

func TestDxfDeduplicates(t *testing.T) {
	s := NewStyles()
	a := s.Dxf(boldStyle())
	b := s.Dxf(boldStyle())
	if a != 0 || b != 0 {
		t.Errorf("Dxf(equal styles) = %d, %d, expected 0, 0", a, b)
	}
	if got := s.Dxf(&models.Style{NumFmt: models.Ptr("0%")}); got != 1 {
		t.Errorf("Dxf(percent) = %d, expected 1", got)
	}
}

func TestStylesBytes(t *testing.T) {
	s := NewStyles()
	s.Xf(&models.Style{NumFmt: models.Ptr("0.0%")})
	out := string(s.Bytes())
	for _, want := range []string{
		`<numFmts count="1"><numFmt numFmtId="164" formatCode="0.0%"/></numFmts>`,
		`<patternFill patternType="gray125"/>`,
		`<cellXfs count="2">`,
		`<xf numFmtId="164" applyNumberFormat="1"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("styles part missing %q:\n%s", want, out)
		}
	}
}
