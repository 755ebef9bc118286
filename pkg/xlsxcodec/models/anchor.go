package models

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
// 1 inch = 914400 EMU, 1 inch = 96 pixels at 96 DPI
// Therefore: 914400 / 96 = 9525 EMU per pixel
const EMUPerPixel = 9525

// EMUToPixels converts EMU (English Metric Units) to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// PixelsToEMU converts pixels at 96 DPI to EMU.
func PixelsToEMU(px int) int64 {
	return int64(px) * EMUPerPixel
}

// AnchorType selects how a drawing object is attached to the grid.
type AnchorType string

// Anchor types.
const (
	// AnchorTwoCell pins both corners to cells.
	AnchorTwoCell AnchorType = "twoCell"
	// AnchorOneCell pins the top-left corner and keeps the size.
	AnchorOneCell AnchorType = "oneCell"
	// AnchorAbsolute places the object at a fixed position.
	AnchorAbsolute AnchorType = "absolute"
)

// CellOffset is a position inside the grid.
type CellOffset struct {
	// Col is the 0-based column.
	Col int `json:"col"`
	// ColOff is the offset inside the column in EMU.
	ColOff int64 `json:"col_off"`
	// Row is the 0-based row.
	Row int `json:"row"`
	// RowOff is the offset inside the row in EMU.
	RowOff int64 `json:"row_off"`
}

// Ref returns the cell containing the offset.
func (o CellOffset) Ref() CellRef {
	return CellRef{Col: o.Col + 1, Row: o.Row + 1}
}

// Point is an absolute position in EMU.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Size is an extent in EMU.
type Size struct {
	Cx int64 `json:"cx"`
	Cy int64 `json:"cy"`
}

// Anchor places a drawing object on a sheet.
type Anchor struct {
	Type AnchorType `json:"type"`
	// EditAs is the resize behavior of a two cell anchor (twoCell, oneCell, absolute).
	EditAs string     `json:"edit_as,omitempty"`
	From   CellOffset `json:"from"`
	To     CellOffset `json:"to"`
	Pos    Point      `json:"pos"`
	Ext    Size       `json:"ext"`
}

// Cells returns the range of cells covered by a two cell anchor, or the
// starting cell otherwise.
func (a Anchor) Cells() Range {
	if a.Type == AnchorTwoCell {
		return NewRange(a.From.Ref(), a.To.Ref())
	}
	return CellRange(a.From.Ref())
}
