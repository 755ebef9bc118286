// Package models defines the in-memory spreadsheet model read and written by the codec.
package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet size limits of the OOXML grid.
const (
	MaxCols = 16384
	MaxRows = 1048576
)

// CellRef is a 1-based cell coordinate.
type CellRef struct {
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Row is the row index (1-based).
	Row int `json:"row"`
}

// ParseCellRef parses an A1 style reference. Absolute markers are ignored.
func ParseCellRef(s string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(s)
	if err != nil {
		return CellRef{}, err
	}
	return CellRef{Col: col, Row: row}, nil
}

// Valid reports whether the reference lies inside the sheet grid.
func (r CellRef) Valid() bool {
	return r.Col >= 1 && r.Col <= MaxCols && r.Row >= 1 && r.Row <= MaxRows
}

// String returns the A1 form, or "#REF!" for an out of grid reference.
func (r CellRef) String() string {
	name, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return "#REF!"
	}
	return name
}

// Less orders references row-major.
func (r CellRef) Less(o CellRef) bool {
	if r.Row != o.Row {
		return r.Row < o.Row
	}
	return r.Col < o.Col
}

// MarshalText implements encoding.TextMarshaler.
func (r CellRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *CellRef) UnmarshalText(b []byte) error {
	ref, err := ParseCellRef(string(b))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// Range is an inclusive rectangle of cells.
type Range struct {
	From CellRef `json:"from"`
	To   CellRef `json:"to"`
}

// NewRange builds a normalized range from two corners.
func NewRange(a, b CellRef) Range {
	if a.Col > b.Col {
		a.Col, b.Col = b.Col, a.Col
	}
	if a.Row > b.Row {
		a.Row, b.Row = b.Row, a.Row
	}
	return Range{From: a, To: b}
}

// CellRange is the single cell range at ref.
func CellRange(ref CellRef) Range {
	return Range{From: ref, To: ref}
}

// ParseRange parses "A1:B2" or a single cell reference.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	first, second, ok := strings.Cut(s, ":")
	from, err := ParseCellRef(first)
	if err != nil {
		return Range{}, err
	}
	if !ok {
		return CellRange(from), nil
	}
	to, err := ParseCellRef(second)
	if err != nil {
		return Range{}, err
	}
	return NewRange(from, to), nil
}

// ParseRangeList parses a space separated list of ranges (sqref).
func ParseRangeList(s string) ([]Range, error) {
	var res []Range
	for _, part := range strings.Fields(s) {
		r, err := ParseRange(part)
		if err != nil {
			return res, fmt.Errorf("invalid range %q: %w", part, err)
		}
		res = append(res, r)
	}
	return res, nil
}

// FormatRangeList joins ranges into sqref form.
func FormatRangeList(ranges []Range) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// String returns "A1:B2", or "A1" for a single cell.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + ":" + r.To.String()
}

// Contains reports whether ref lies inside r.
func (r Range) Contains(ref CellRef) bool {
	return ref.Col >= r.From.Col && ref.Col <= r.To.Col &&
		ref.Row >= r.From.Row && ref.Row <= r.To.Row
}

// Overlaps reports whether r and o share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.From.Col <= o.To.Col && o.From.Col <= r.To.Col &&
		r.From.Row <= o.To.Row && o.From.Row <= r.To.Row
}

// Cols returns the column count.
func (r Range) Cols() int { return r.To.Col - r.From.Col + 1 }

// Rows returns the row count.
func (r Range) Rows() int { return r.To.Row - r.From.Row + 1 }

// Size returns the number of cells.
func (r Range) Size() int { return r.Cols() * r.Rows() }

// Valid reports whether both corners lie inside the grid.
func (r Range) Valid() bool { return r.From.Valid() && r.To.Valid() }

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(b []byte) error {
	rng, err := ParseRange(string(b))
	if err != nil {
		return err
	}
	*r = rng
	return nil
}
