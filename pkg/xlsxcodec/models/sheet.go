package models

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by sheet operations.
var (
	// ErrOutOfGrid indicates a reference outside the sheet grid.
	ErrOutOfGrid = errors.New("reference outside sheet grid")
	// ErrMergeOverlap indicates a merge overlapping an existing merge.
	ErrMergeOverlap = errors.New("merge overlaps an existing merge")
	// ErrRangeTooLarge indicates a range too large to materialize cell by cell.
	ErrRangeTooLarge = errors.New("range too large")
)

// maxMaterializedCells bounds range operations that create cells.
const maxMaterializedCells = 1 << 20

// SheetState is the visibility of a sheet.
type SheetState string

// Sheet visibility states.
const (
	SheetVisible    SheetState = "visible"
	SheetHidden     SheetState = "hidden"
	SheetVeryHidden SheetState = "veryHidden"
)

// Sheet represents a worksheet and everything anchored to it.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// State is the sheet visibility.
	State SheetState `json:"state,omitempty"`
	// TabColor is the tab color.
	TabColor *Color `json:"tab_color,omitempty"`
	// Format holds the default row and column dimensions.
	Format SheetFormat `json:"format"`
	// Views contains the sheet views.
	Views []SheetView `json:"views,omitempty"`
	// Cols contains column descriptors.
	Cols []ColInfo `json:"cols,omitempty"`
	// Rows maps a 1-based row index to its descriptor.
	Rows map[int]*RowInfo `json:"rows,omitempty"`
	// Merges contains merged ranges.
	Merges []Range `json:"merges,omitempty"`
	// Hyperlinks contains hyperlinks.
	Hyperlinks []Hyperlink `json:"hyperlinks,omitempty"`
	// Validations contains data validations.
	Validations []Validation `json:"validations,omitempty"`
	// AutoFilter is the sheet filter.
	AutoFilter *AutoFilter `json:"auto_filter,omitempty"`
	// CondFormats contains conditional formats.
	CondFormats []CondFormat `json:"cond_formats,omitempty"`
	// Comments contains cell comments.
	Comments []Comment `json:"comments,omitempty"`
	// Charts contains charts anchored on the sheet.
	Charts []*Chart `json:"charts,omitempty"`
	// Shapes contains drawing shapes anchored on the sheet.
	Shapes []Shape `json:"shapes,omitempty"`
	// Protection is the sheet protection.
	Protection *SheetProtection `json:"protection,omitempty"`
	// RowBreaks contains manual page breaks before rows.
	RowBreaks []Break `json:"row_breaks,omitempty"`
	// ColBreaks contains manual page breaks before columns.
	ColBreaks []Break `json:"col_breaks,omitempty"`
	// PrintSetup holds print related elements passed through untouched.
	PrintSetup []Blob `json:"print_setup,omitempty"`

	cells map[CellRef]*Cell
}

// NewSheet creates an empty visible sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:  name,
		State: SheetVisible,
		Rows:  make(map[int]*RowInfo),
		cells: make(map[CellRef]*Cell),
	}
}

// Cell returns the cell at ref, or nil.
func (s *Sheet) Cell(ref CellRef) *Cell {
	return s.cells[ref]
}

// FetchCell returns the cell at ref, creating it when needed.
func (s *Sheet) FetchCell(ref CellRef) (*Cell, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: col %d row %d", ErrOutOfGrid, ref.Col, ref.Row)
	}
	if s.cells == nil {
		s.cells = make(map[CellRef]*Cell)
	}
	c, ok := s.cells[ref]
	if !ok {
		c = &Cell{Ref: ref, Value: Value{Type: ValueEmpty}}
		s.cells[ref] = c
	}
	return c, nil
}

// SetValue stores a literal value, clearing any formula.
func (s *Sheet) SetValue(ref CellRef, v Value) error {
	c, err := s.FetchCell(ref)
	if err != nil {
		return err
	}
	c.Value = v
	c.Formula = ""
	return nil
}

// SetFormula stores a formula with its cached value.
func (s *Sheet) SetFormula(ref CellRef, formula string, cached Value) error {
	c, err := s.FetchCell(ref)
	if err != nil {
		return err
	}
	c.Formula = formula
	c.Value = cached
	return nil
}

// SetArrayFormula fills rng from one formula rooted at its top-left cell.
// Every member cell records rng; cached values are kept.
func (s *Sheet) SetArrayFormula(rng Range, formula string) error {
	if !rng.Valid() {
		return fmt.Errorf("%w: %s", ErrOutOfGrid, rng)
	}
	if rng.Size() > maxMaterializedCells {
		return fmt.Errorf("%w: %s", ErrRangeTooLarge, rng)
	}
	for row := rng.From.Row; row <= rng.To.Row; row++ {
		for col := rng.From.Col; col <= rng.To.Col; col++ {
			c, err := s.FetchCell(CellRef{Col: col, Row: row})
			if err != nil {
				return err
			}
			r := rng
			c.Array = &r
			c.Formula = ""
		}
	}
	s.cells[rng.From].Formula = formula
	return nil
}

// ApplyStyle sets st on every cell of rng.
func (s *Sheet) ApplyStyle(rng Range, st *Style) error {
	if !rng.Valid() {
		return fmt.Errorf("%w: %s", ErrOutOfGrid, rng)
	}
	if rng.Size() > maxMaterializedCells {
		return fmt.Errorf("%w: %s", ErrRangeTooLarge, rng)
	}
	for row := rng.From.Row; row <= rng.To.Row; row++ {
		for col := rng.From.Col; col <= rng.To.Col; col++ {
			c, err := s.FetchCell(CellRef{Col: col, Row: row})
			if err != nil {
				return err
			}
			c.Style = st
		}
	}
	return nil
}

// Merge records a merged range.
func (s *Sheet) Merge(rng Range) error {
	if !rng.Valid() {
		return fmt.Errorf("%w: %s", ErrOutOfGrid, rng)
	}
	for _, m := range s.Merges {
		if m.Overlaps(rng) {
			return fmt.Errorf("%w: %s and %s", ErrMergeOverlap, rng, m)
		}
	}
	s.Merges = append(s.Merges, rng)
	return nil
}

// Row returns the descriptor of row r, creating it when needed.
func (s *Sheet) Row(r int) *RowInfo {
	if s.Rows == nil {
		s.Rows = make(map[int]*RowInfo)
	}
	ri, ok := s.Rows[r]
	if !ok {
		ri = &RowInfo{}
		s.Rows[r] = ri
	}
	return ri
}

// ColStyle returns the style of the column descriptor covering col.
func (s *Sheet) ColStyle(col int) *Style {
	for i := range s.Cols {
		if col >= s.Cols[i].Min && col <= s.Cols[i].Max {
			return s.Cols[i].Style
		}
	}
	return nil
}

// EffectiveStyle resolves the format shown at ref: the cell format, else the
// row format, else the column format.
func (s *Sheet) EffectiveStyle(ref CellRef) *Style {
	if c := s.cells[ref]; c != nil && c.Style != nil {
		return c.Style
	}
	if ri := s.Rows[ref.Row]; ri != nil && ri.Style != nil {
		return ri.Style
	}
	return s.ColStyle(ref.Col)
}

// Len returns the number of stored cells.
func (s *Sheet) Len() int {
	return len(s.cells)
}

// CellRefs returns every stored cell position in row-major order.
func (s *Sheet) CellRefs() []CellRef {
	refs := make([]CellRef, 0, len(s.cells))
	for ref := range s.cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

// Extent returns the bounding range of stored cells.
func (s *Sheet) Extent() (Range, bool) {
	if len(s.cells) == 0 {
		return Range{}, false
	}
	first := true
	var rng Range
	for ref := range s.cells {
		if first {
			rng = CellRange(ref)
			first = false
			continue
		}
		rng.From.Col = min(rng.From.Col, ref.Col)
		rng.From.Row = min(rng.From.Row, ref.Row)
		rng.To.Col = max(rng.To.Col, ref.Col)
		rng.To.Row = max(rng.To.Row, ref.Row)
	}
	return rng, true
}

// SheetFormat holds default dimensions.
type SheetFormat struct {
	DefaultRowHeight *float64 `json:"default_row_height,omitempty"`
	DefaultColWidth  *float64 `json:"default_col_width,omitempty"`
	BaseColWidth     *int     `json:"base_col_width,omitempty"`
}

// ColInfo describes a run of columns.
type ColInfo struct {
	// Min is the first column (1-based).
	Min int `json:"min"`
	// Max is the last column (1-based, inclusive).
	Max          int      `json:"max"`
	Width        *float64 `json:"width,omitempty"`
	CustomWidth  bool     `json:"custom_width,omitempty"`
	BestFit      bool     `json:"best_fit,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
	Collapsed    bool     `json:"collapsed,omitempty"`
	OutlineLevel int      `json:"outline_level,omitempty"`
	Style        *Style   `json:"-"`
}

// RowInfo describes one row.
type RowInfo struct {
	Height       *float64 `json:"height,omitempty"`
	CustomHeight bool     `json:"custom_height,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
	Collapsed    bool     `json:"collapsed,omitempty"`
	OutlineLevel int      `json:"outline_level,omitempty"`
	// Style is the row format, applied when set.
	Style *Style `json:"-"`
}

// IsDefault reports whether the row carries no information.
func (ri *RowInfo) IsDefault() bool {
	return ri.Height == nil && !ri.CustomHeight && !ri.Hidden && !ri.Collapsed &&
		ri.OutlineLevel == 0 && ri.Style == nil
}

// SheetView is a window on the sheet.
type SheetView struct {
	TabSelected   bool        `json:"tab_selected,omitempty"`
	ZoomScale     int         `json:"zoom_scale,omitempty"`
	ShowGridLines *bool       `json:"show_grid_lines,omitempty"`
	RightToLeft   bool        `json:"right_to_left,omitempty"`
	TopLeft       *CellRef    `json:"top_left,omitempty"`
	Pane          *Pane       `json:"pane,omitempty"`
	Selections    []Selection `json:"selections,omitempty"`
}

// Pane describes split or frozen panes.
type Pane struct {
	XSplit     float64  `json:"x_split,omitempty"`
	YSplit     float64  `json:"y_split,omitempty"`
	TopLeft    *CellRef `json:"top_left,omitempty"`
	ActivePane string   `json:"active_pane,omitempty"`
	State      string   `json:"state,omitempty"`
}

// Selection is a selected region of a pane.
type Selection struct {
	Pane       string   `json:"pane,omitempty"`
	ActiveCell *CellRef `json:"active_cell,omitempty"`
	Sqref      []Range  `json:"sqref,omitempty"`
}

// SheetProtection holds protection flags.
type SheetProtection struct {
	Sheet     bool   `json:"sheet"`
	Objects   bool   `json:"objects,omitempty"`
	Scenarios bool   `json:"scenarios,omitempty"`
	Password  string `json:"password,omitempty"`
}

// Break is a manual page break.
type Break struct {
	// ID is the 0-based row or column before which the break occurs.
	ID     int  `json:"id"`
	Manual bool `json:"manual,omitempty"`
}
