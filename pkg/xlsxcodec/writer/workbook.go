package writer

import (
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

// writeWorkbook renders the workbook part. relIDs holds the relationship
// id of each sheet part in tab order.
func writeWorkbook(wb *models.Workbook, relIDs []string, sink warn.Sink) []byte {
	x := newXMLWriter()
	x.OTag("workbook")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsDocRel)

	x.OTag("workbookPr")
	if wb.Date1904 {
		x.AttrBool("date1904", true)
	}
	x.CTag()

	x.OTag("bookViews")
	x.OTag("workbookView")
	if wb.ActiveTab > 0 && wb.ActiveTab < len(wb.Sheets) {
		x.AttrInt("activeTab", wb.ActiveTab)
	}
	x.CTag()
	x.CTag()

	x.OTag("sheets")
	for i, s := range wb.Sheets {
		x.OTag("sheet")
		x.Attr("name", s.Name)
		x.AttrInt("sheetId", i+1)
		if s.State != "" && s.State != models.SheetVisible {
			x.Attr("state", string(s.State))
		}
		x.Attr("r:id", relIDs[i])
		x.CTag()
	}
	x.CTag()

	if len(wb.Names) > 0 {
		x.OTag("definedNames")
		for _, n := range wb.Names {
			local := -1
			if n.Scope != "" {
				if local = wb.SheetIndex(n.Scope); local < 0 {
					sink.Warnf("Dropping name '%s' scoped to unknown sheet '%s'", n.Name, n.Scope)
					continue
				}
			}
			x.OTag("definedName")
			x.Attr("name", n.Name)
			if local >= 0 {
				x.AttrInt("localSheetId", local)
			}
			if n.Hidden {
				x.AttrBool("hidden", true)
			}
			x.Text(n.Formula)
			x.CTag()
		}
		x.CTag()
	}

	x.CTag()
	return x.Bytes()
}
