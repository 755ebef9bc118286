package models

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input    string
		expected Range
	}{
		{"A1", Range{CellRef{1, 1}, CellRef{1, 1}}},
		{"A1:C3", Range{CellRef{1, 1}, CellRef{3, 3}}},
		{"C3:A1", Range{CellRef{1, 1}, CellRef{3, 3}}},
		{"$B$2:D4", Range{CellRef{2, 2}, CellRef{4, 4}}},
	}

	for _, tt := range tests {
		result, err := ParseRange(tt.input)
		if err != nil {
			t.Errorf("ParseRange(%q) failed: %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("ParseRange(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}

	if _, err := ParseRange("1A"); err == nil {
		t.Errorf("ParseRange(%q) expected error", "1A")
	}
}

func TestRangeListRoundTrip(t *testing.T) {
	ranges, err := ParseRangeList("A1:B2 D4")
	if err != nil {
		t.Fatalf("ParseRangeList failed: %v", err)
	}
	if got := FormatRangeList(ranges); got != "A1:B2 D4" {
		t.Errorf("FormatRangeList = %q, expected %q", got, "A1:B2 D4")
	}
}

func TestCellRefString(t *testing.T) {
	tests := []struct {
		ref      CellRef
		expected string
	}{
		{CellRef{1, 1}, "A1"},
		{CellRef{28, 10}, "AB10"},
		{CellRef{0, 1}, "#REF!"},
		{CellRef{MaxCols + 1, 1}, "#REF!"},
	}

	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.expected {
			t.Errorf("CellRef%v.String() = %q, expected %q", tt.ref, got, tt.expected)
		}
	}
}

func TestSheetMergeOverlap(t *testing.T) {
	s := NewSheet("Sheet1")
	if err := s.Merge(Range{CellRef{1, 1}, CellRef{2, 2}}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	err := s.Merge(Range{CellRef{2, 2}, CellRef{3, 3}})
	if !errors.Is(err, ErrMergeOverlap) {
		t.Errorf("Merge overlapping = %v, expected ErrMergeOverlap", err)
	}
	if err := s.Merge(Range{CellRef{4, 4}, CellRef{5, 5}}); err != nil {
		t.Errorf("Merge disjoint failed: %v", err)
	}
}

func TestSetArrayFormula(t *testing.T) {
	s := NewSheet("Sheet1")
	rng, _ := ParseRange("A1:B2")
	if err := s.SetArrayFormula(rng, "{1,2;3,4}"); err != nil {
		t.Fatalf("SetArrayFormula failed: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Expected 4 cells, got %d", s.Len())
	}
	corner := s.Cell(CellRef{1, 1})
	if !corner.IsArrayCorner() || corner.Formula != "{1,2;3,4}" {
		t.Errorf("Corner = %+v, expected array corner with formula", corner)
	}
	member := s.Cell(CellRef{2, 2})
	if member.IsArrayCorner() || !member.IsArrayMember() || member.Formula != "" {
		t.Errorf("Member = %+v, expected array member without formula", member)
	}
	if *member.Array != rng {
		t.Errorf("Member range = %v, expected %v", *member.Array, rng)
	}
}

func TestFetchCellOutOfGrid(t *testing.T) {
	s := NewSheet("Sheet1")
	if _, err := s.FetchCell(CellRef{Col: 1, Row: MaxRows + 1}); !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("FetchCell beyond last row = %v, expected ErrOutOfGrid", err)
	}
}

func TestCellRefsOrder(t *testing.T) {
	s := NewSheet("Sheet1")
	for _, name := range []string{"B2", "A2", "C1"} {
		ref, _ := ParseCellRef(name)
		_ = s.SetValue(ref, NumberValue(1))
	}
	refs := s.CellRefs()
	expected := []string{"C1", "A2", "B2"}
	for i, ref := range refs {
		if ref.String() != expected[i] {
			t.Errorf("CellRefs()[%d] = %s, expected %s", i, ref, expected[i])
		}
	}
	ext, ok := s.Extent()
	if !ok || ext.String() != "A1:C2" {
		t.Errorf("Extent() = %v, expected A1:C2", ext)
	}
}

func TestStyleMerge(t *testing.T) {
	base := &Style{Font: &Font{Name: Ptr("Arial"), Bold: Ptr(false)}}
	over := &Style{Font: &Font{Bold: Ptr(true)}, NumFmt: Ptr("0.00")}

	merged := base.Merge(over)
	if *merged.Font.Name != "Arial" || !*merged.Font.Bold || *merged.NumFmt != "0.00" {
		t.Errorf("Merge = %+v, expected Arial bold 0.00", merged)
	}
	if *base.Font.Bold {
		t.Errorf("Merge modified the receiver")
	}

	clone := merged.Clone()
	if !clone.Equal(merged) {
		t.Errorf("Clone() not equal to source")
	}
	*clone.Font.Name = "Courier"
	if *merged.Font.Name != "Arial" {
		t.Errorf("Clone() shares font name with source")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
		ok       bool
	}{
		{"FF0000", ColorRed, true},
		{"80FF0000", 0x80FF0000, true},
		{"F00", 0, false},
		{"GG0000", 0, false},
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v, expected ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && c != tt.expected {
			t.Errorf("ParseColor(%q) = %s, expected %s", tt.input, c.Hex(), tt.expected.Hex())
		}
	}
}

func TestAddSheet(t *testing.T) {
	wb := NewWorkbook()
	if _, err := wb.AddSheet("Data"); err != nil {
		t.Fatalf("AddSheet failed: %v", err)
	}
	if _, err := wb.AddSheet("data"); !errors.Is(err, ErrDuplicateSheet) {
		t.Errorf("AddSheet duplicate = %v, expected ErrDuplicateSheet", err)
	}
	if _, err := wb.AddSheet("a/b"); !errors.Is(err, ErrInvalidSheetName) {
		t.Errorf("AddSheet invalid = %v, expected ErrInvalidSheetName", err)
	}
}

func TestPrintAreas(t *testing.T) {
	wb := NewWorkbook()
	_ = wb.DefineName(PrintAreaName, "'My Sheet'!$A$1:$D$10,'My Sheet'!$F$1:$G$4", "My Sheet")
	_ = wb.DefineName(PrintAreaName, "Other!#REF!", "Other")

	areas := wb.PrintAreas()
	if len(areas) != 2 {
		t.Fatalf("Expected 2 print areas, got %d", len(areas))
	}
	if areas[0].Sheet != "My Sheet" || areas[0].Area.String() != "A1:D10" {
		t.Errorf("areas[0] = %+v, expected My Sheet A1:D10", areas[0])
	}
	if areas[1].Area.String() != "F1:G4" {
		t.Errorf("areas[1] = %+v, expected F1:G4", areas[1])
	}
}

func TestTableCandidates(t *testing.T) {
	s := NewSheet("Sheet1")
	for _, name := range []string{"A1", "B1", "A2", "B2"} {
		ref, _ := ParseCellRef(name)
		_ = s.SetValue(ref, StringValue(name))
	}
	tables := s.TableCandidates(DefaultTableParams())
	if len(tables) != 1 || tables[0].String() != "A1:B2" {
		t.Errorf("TableCandidates() = %v, expected [A1:B2]", tables)
	}

	empty := NewSheet("Empty")
	if tables := empty.TableCandidates(DefaultTableParams()); tables != nil {
		t.Errorf("TableCandidates() on empty sheet = %v, expected nil", tables)
	}
}

func TestThemeAliases(t *testing.T) {
	var theme *Theme
	if c, ok := theme.Color("bg1"); !ok || c != ColorWhite {
		t.Errorf("Color(bg1) = %s, expected white", c.Hex())
	}
	if c, ok := theme.Color("tx1"); !ok || c != ColorBlack {
		t.Errorf("Color(tx1) = %s, expected black", c.Hex())
	}
	if _, ok := theme.Color("accent1"); ok {
		t.Errorf("Color(accent1) on nil theme expected missing")
	}
}
