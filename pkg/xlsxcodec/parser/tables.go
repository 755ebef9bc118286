package parser

import (
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/numfmt"
	"github.com/xuri/excelize/v2"
)

// maxCountHint caps the capacity preallocated from count attributes.
const maxCountHint = 1000

// defaultPalette is the indexed palette starting at index 8.
var defaultPalette = []models.Color{
	0xFF000000, 0xFFFFFFFF, 0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFF00, 0xFFFF00FF, 0xFF00FFFF,
	0xFF800000, 0xFF008000, 0xFF000080, 0xFF808000, 0xFF800080, 0xFF008080, 0xFFC0C0C0, 0xFF808080,
	0xFF9999FF, 0xFF993366, 0xFFFFFFCC, 0xFFCCFFFF, 0xFF660066, 0xFFFF8080, 0xFF0066CC, 0xFFCCCCFF,
	0xFF000080, 0xFFFF00FF, 0xFFFFFF00, 0xFF00FFFF, 0xFF800080, 0xFF800000, 0xFF008080, 0xFF0000FF,
	0xFF00CCFF, 0xFFCCFFFF, 0xFFCCFFCC, 0xFFFFFF99, 0xFF99CCFF, 0xFFFF99CC, 0xFFCC99FF, 0xFFFFCC99,
	0xFF3366FF, 0xFF33CCCC, 0xFF99CC00, 0xFFFFCC00, 0xFFFF9900, 0xFFFF6600, 0xFF666699, 0xFF969696,
	0xFF003366, 0xFF339966, 0xFF003300, 0xFF333300, 0xFF993300, 0xFF993366, 0xFF333399, 0xFF333333,
}

// paletteOffset is the index of the first palette entry.
const paletteOffset = 8

// Tables holds the shared resources of a workbook being read.
type Tables struct {
	// Strings is the shared string table.
	Strings []string
	// NumFmts holds the custom number formats by id.
	NumFmts map[int]string
	Fonts   []*models.Font
	Fills   []*models.Fill
	Borders []*models.Border
	// CellStyleXfs holds the named style records.
	CellStyleXfs []*models.Style
	// CellXfs holds the cell format records referenced by s attributes.
	CellXfs []*models.Style
	// Dxfs holds differential formats.
	Dxfs []*models.Style
	// Palette overrides the indexed colors from index 0 when set.
	Palette []models.Color
	// Theme is the workbook theme.
	Theme *models.Theme

	warnedNumFmt map[int]bool
}

// NewTables creates empty tables.
func NewTables() *Tables {
	return &Tables{
		NumFmts:      make(map[int]string),
		Theme:        models.DefaultTheme(),
		warnedNumFmt: make(map[int]bool),
	}
}

// SharedString returns entry idx of the shared string table.
func (t *Tables) SharedString(c *Context, idx int) (string, bool) {
	if idx < 0 || idx >= len(t.Strings) {
		c.Warnf("Invalid sst ref")
		return "", false
	}
	return t.Strings[idx], true
}

// NumFmt resolves a number format id. Unknown ids resolve to General with
// one warning per id.
func (t *Tables) NumFmt(c *Context, id int) string {
	if code, ok := t.NumFmts[id]; ok {
		return code
	}
	if code, ok := numfmt.Builtin(id); ok {
		return code
	}
	if !t.warnedNumFmt[id] {
		t.warnedNumFmt[id] = true
		c.Warnf("Undefined number format id '%d'", id)
	}
	return numfmt.General
}

// record returns entry idx of list, or nil with a warning.
func record[T any](c *Context, list []*T, idx int, what string) *T {
	if idx < 0 || idx >= len(list) {
		c.Warnf("Missing record '%d' for %s", idx, what)
		return nil
	}
	return list[idx]
}

// CellXf returns cell format idx, or nil for the default format.
func (t *Tables) CellXf(c *Context, idx int) *models.Style {
	if idx < 0 || idx >= len(t.CellXfs) {
		c.Warnf("Undefined style record '%d'", idx)
		return nil
	}
	return t.CellXfs[idx]
}

// Dxf returns differential format idx.
func (t *Tables) Dxf(c *Context, idx int) *models.Style {
	return record(c, t.Dxfs, idx, "dxf")
}

// IndexedColor resolves an indexed color. System indices map to black or
// white; out of range indices fall back to black.
func (t *Tables) IndexedColor(c *Context, idx int) models.Color {
	if idx >= 0 && idx < len(t.Palette) {
		return t.Palette[idx]
	}
	switch idx {
	case 0, 64, 81, 0x7fff:
		return models.ColorBlack
	case 1, 65:
		return models.ColorWhite
	case 2:
		return models.ColorRed
	case 3:
		return models.ColorGreen
	case 4:
		return models.ColorBlue
	case 5, 80:
		return models.ColorYellow
	case 6:
		return 0xFFFF00FF
	case 7:
		return 0xFF00FFFF
	}
	i := idx - paletteOffset
	if i < 0 || i >= len(defaultPalette) {
		c.Warnf("Color index (%d) is out of range (0..%d). Defaulting to black", idx, len(defaultPalette)+paletteOffset-1)
		return models.ColorBlack
	}
	return defaultPalette[i]
}

// ThemeColor resolves theme slot idx.
func (t *Tables) ThemeColor(c *Context, idx int) models.Color {
	col, ok := t.Theme.IndexColor(idx)
	if !ok {
		c.Warnf("Unknown theme color %d", idx)
		return models.ColorBlack
	}
	return col
}

// applyTint lightens or darkens a color by tint in -1..1.
func applyTint(col models.Color, tint float64) models.Color {
	if tint == 0 {
		return col
	}
	hex := excelize.ThemeColor(col.RGBHex(), tint)
	res, err := models.ParseColor(hex)
	if err != nil {
		return col
	}
	return res
}

// capHint bounds a count attribute used as a capacity.
func capHint(n int) int {
	if n < 0 {
		return 0
	}
	return min(n, maxCountHint)
}
