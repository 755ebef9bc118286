package models

import (
	"strings"
)

// PrintAreaName is the reserved defined name holding print areas.
const PrintAreaName = "_xlnm.Print_Area"

// PrintArea represents cell coordinate bounds for a print area.
type PrintArea struct {
	// Sheet is the sheet owning the area.
	Sheet string `json:"sheet"`
	// Area is the print area bounds.
	Area Range `json:"area"`
}

// PrintAreaView represents a slice of a sheet restricted to a print area.
type PrintAreaView struct {
	// BookName is the workbook name owning the area.
	BookName string `json:"book_name"`
	// SheetName is the sheet name owning the area.
	SheetName string `json:"sheet_name"`
	// Area is the print area bounds.
	Area Range `json:"area"`
	// Cells contains the stored cells within the area bounds.
	Cells []*Cell `json:"cells,omitempty"`
	// Shapes contains shapes overlapping the area.
	Shapes []Shape `json:"shapes,omitempty"`
	// Charts contains charts overlapping the area.
	Charts []*Chart `json:"charts,omitempty"`
}

// PrintAreas resolves every print area defined in the workbook.
// Areas referring to deleted cells (#REF!) are skipped.
func (wb *Workbook) PrintAreas() []PrintArea {
	var result []PrintArea
	for _, dn := range wb.Names {
		if !strings.EqualFold(dn.Name, PrintAreaName) {
			continue
		}
		result = append(result, parsePrintAreaReference(dn.Formula, dn.Scope)...)
	}
	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10,SheetName!$F$1:$G$4
func parsePrintAreaReference(ref, scope string) []PrintArea {
	var areas []PrintArea
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "#REF!") {
			continue
		}

		sheet := scope
		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet = strings.Trim(part[:idx], "'")
			sheet = strings.ReplaceAll(sheet, "''", "'")
			rangeStr = part[idx+1:]
		}
		if sheet == "" {
			continue
		}

		rng, err := ParseRange(strings.ReplaceAll(rangeStr, "$", ""))
		if err != nil {
			continue
		}
		areas = append(areas, PrintArea{Sheet: sheet, Area: rng})
	}
	return areas
}

// View builds the slice of sheet s covered by the area.
func (pa PrintArea) View(bookName string, s *Sheet) PrintAreaView {
	view := PrintAreaView{
		BookName:  bookName,
		SheetName: s.Name,
		Area:      pa.Area,
	}
	for _, ref := range s.CellRefs() {
		if pa.Area.Contains(ref) {
			view.Cells = append(view.Cells, s.Cell(ref))
		}
	}
	for _, shape := range s.Shapes {
		if pa.Area.Overlaps(shape.Anchor.Cells()) {
			view.Shapes = append(view.Shapes, shape)
		}
	}
	for _, chart := range s.Charts {
		if pa.Area.Overlaps(chart.Anchor.Cells()) {
			view.Charts = append(view.Charts, chart)
		}
	}
	return view
}
