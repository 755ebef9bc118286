// Package writer encodes a workbook model as an OOXML package.
package writer

import (
	"fmt"
	"io"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

// Part names of the written package.
const (
	workbookPart = "xl/workbook.xml"
	sstPart      = "xl/sharedStrings.xml"
	stylesPart   = "xl/styles.xml"
	themePart    = "xl/theme/theme1.xml"
)

// Stats summarizes a written package.
type Stats struct {
	Sheets  int `json:"sheets"`
	Strings int `json:"strings"`
	// StringRefs counts the cells referring to the shared string table.
	StringRefs int         `json:"string_refs"`
	Charts     int         `json:"charts"`
	Styles     StyleCounts `json:"styles"`
}

// part is a rendered part waiting to be added.
type part struct {
	name        string
	contentType string
	data        []byte
}

// Write encodes wb into w. Soft problems go to sink.
func Write(w io.Writer, wb *models.Workbook, sink warn.Sink) (Stats, error) {
	if sink == nil {
		sink = warn.Discard
	}
	if len(wb.Sheets) == 0 {
		return Stats{}, fmt.Errorf("workbook has no sheets")
	}
	pkg := opc.NewWriter(w)
	styles := NewStyles()
	sst := NewSharedStrings()
	stats := Stats{Sheets: len(wb.Sheets)}

	pkg.Rel("", opc.RelOfficeDocument, workbookPart, false)
	relIDs := make([]string, len(wb.Sheets))
	var parts []part
	drawings, charts, comments := 0, 0, 0
	for i, sheet := range wb.Sheets {
		name := fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		relIDs[i] = pkg.Rel(workbookPart, opc.RelWorksheet, name, false)

		var extra []part
		if len(sheet.Comments) > 0 {
			comments++
			cname := fmt.Sprintf("xl/comments/comment%d.xml", comments)
			pkg.Rel(name, opc.RelComments, cname, false)
			extra = append(extra, part{cname, opc.ContentTypeComments, writeComments(sheet.Comments)})
		}

		drawingID := ""
		if len(sheet.Shapes) > 0 || len(sheet.Charts) > 0 {
			drawings++
			dname := fmt.Sprintf("xl/drawings/drawing%d.xml", drawings)
			drawingID = pkg.Rel(name, opc.RelDrawing, dname, false)
			frames := make([]chartFrame, 0, len(sheet.Charts))
			var chartParts []part
			for _, ch := range sheet.Charts {
				charts++
				chname := fmt.Sprintf("xl/charts/chart%d.xml", charts)
				frames = append(frames, chartFrame{chart: ch, relID: pkg.Rel(dname, opc.RelChart, chname, false)})
				chartParts = append(chartParts, part{chname, opc.ContentTypeChart, writeChart(ch)})
			}
			extra = append(extra, part{dname, opc.ContentTypeDrawing, writeDrawing(sheet.Shapes, frames)})
			extra = append(extra, chartParts...)
		}

		sw := newSheetWriter(wb, sheet, styles, sst, sink)
		sw.rel = func(relType, target string, external bool) string {
			return pkg.Rel(name, relType, target, external)
		}
		parts = append(parts, part{name, opc.ContentTypeWorksheet, sw.write(drawingID)})
		parts = append(parts, extra...)
	}
	stats.Charts = charts

	// the tables are complete once every sheet is rendered
	head := []part{
		{sstPart, opc.ContentTypeSharedStrings, sst.Bytes()},
		{stylesPart, opc.ContentTypeStyles, styles.Bytes()},
		{themePart, opc.ContentTypeTheme, writeTheme(wb.Theme)},
		{workbookPart, opc.ContentTypeWorkbook, writeWorkbook(wb, relIDs, sink)},
	}
	pkg.Rel(workbookPart, opc.RelSharedStrings, sstPart, false)
	pkg.Rel(workbookPart, opc.RelStyles, stylesPart, false)
	pkg.Rel(workbookPart, opc.RelTheme, themePart, false)

	for _, p := range append(head, parts...) {
		if err := pkg.AddPart(p.name, p.contentType, p.data); err != nil {
			return Stats{}, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	if err := pkg.Close(); err != nil {
		return Stats{}, err
	}
	stats.Strings = sst.Len()
	stats.StringRefs = sst.Refs()
	stats.Styles = styles.Counts()
	return stats, nil
}
