package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

var sheetStates = enumOf(models.SheetVisible, models.SheetHidden, models.SheetVeryHidden)

// SheetEntry is a sheet declared by the workbook part.
type SheetEntry struct {
	Sheet *models.Sheet
	// RelID is the relationship id of the worksheet part.
	RelID string
}

type pendingName struct {
	name   string
	local  int
	hidden bool
	text   string
}

// workbookReader is the state of a workbook part.
type workbookReader struct {
	*Context
	wb       *models.Workbook
	entries  []SheetEntry
	// declared holds every <sheet> in order, nil for the skipped ones.
	declared []*models.Sheet
	name     pendingName
	pending  []pendingName
}

var workbookGrammar = Compile("workbook", append([]Node[*workbookReader]{
	{ID: "workbook", Parent: Root, NS: NSSpreadsheet, Name: "workbook"},
	{ID: "workbookPr", Parent: "workbook", NS: NSSpreadsheet, Name: "workbookPr", Start: (*workbookReader).workbookPr},
	{ID: "bookViews", Parent: "workbook", NS: NSSpreadsheet, Name: "bookViews"},
	{ID: "workbookView", Parent: "bookViews", NS: NSSpreadsheet, Name: "workbookView", Start: (*workbookReader).workbookView, Opaque: true},
	{ID: "sheets", Parent: "workbook", NS: NSSpreadsheet, Name: "sheets"},
	{ID: "sheet", Parent: "sheets", NS: NSSpreadsheet, Name: "sheet", Start: (*workbookReader).sheet},
	{ID: "definedNames", Parent: "workbook", NS: NSSpreadsheet, Name: "definedNames", End: (*workbookReader).definedNamesEnd},
	{ID: "definedName", Parent: "definedNames", NS: NSSpreadsheet, Name: "definedName", Content: ContentText,
		Start: (*workbookReader).definedNameStart, End: (*workbookReader).definedNameEnd},
}, ignore[*workbookReader]("workbook", NSSpreadsheet,
	"fileVersion", "fileSharing", "workbookProtection", "externalReferences", "calcPr",
	"oleSize", "customWorkbookViews", "pivotCaches", "smartTagPr", "smartTagTypes",
	"webPublishing", "fileRecoveryPr", "webPublishObjects", "functionGroups", "extLst")...))

// ReadWorkbook parses a workbook part, adding its sheets to wb in tab order.
func ReadWorkbook(c *Context, wb *models.Workbook, r io.Reader) ([]SheetEntry, error) {
	s := &workbookReader{Context: c, wb: wb}
	if err := Parse(workbookGrammar, s, c, r); err != nil {
		return nil, err
	}
	return s.entries, nil
}

func (s *workbookReader) workbookPr(attrs []xml.Attr) {
	for _, a := range attrs {
		s.AttrBool(a, "date1904", &s.wb.Date1904)
	}
}

func (s *workbookReader) workbookView(attrs []xml.Attr) {
	for _, a := range attrs {
		s.AttrInt(a, "activeTab", &s.wb.ActiveTab)
	}
}

func (s *workbookReader) sheet(attrs []xml.Attr) {
	var (
		name, relID string
		state       = models.SheetVisible
	)
	for _, a := range attrs {
		switch {
		case AttrString(a, "name", &name):
		case AttrEnum(s.Context, a, "state", sheetStates, &state):
		case AttrNS(a, NSDocRel, "id"):
			relID = a.Value
		}
	}
	if name == "" {
		s.Warnf("Missing sheet name")
		s.declared = append(s.declared, nil)
		return
	}
	sh, err := s.wb.AddSheet(name)
	if err != nil {
		s.Warnf("Invalid sheet '%s': %v", name, err)
		s.declared = append(s.declared, nil)
		return
	}
	sh.State = state
	s.declared = append(s.declared, sh)
	s.entries = append(s.entries, SheetEntry{Sheet: sh, RelID: relID})
}

func (s *workbookReader) definedNameStart(attrs []xml.Attr) {
	s.name = pendingName{local: -1}
	for _, a := range attrs {
		_ = AttrString(a, "name", &s.name.name) ||
			s.AttrInt(a, "localSheetId", &s.name.local) ||
			s.AttrBool(a, "hidden", &s.name.hidden)
	}
}

func (s *workbookReader) definedNameEnd(text string) {
	s.name.text = strings.TrimSpace(text)
	s.pending = append(s.pending, s.name)
}

// definedNamesEnd defines the collected names once every sheet is known,
// since localSheetId refers to the declared sheet order, skipped sheets
// included.
func (s *workbookReader) definedNamesEnd(_ string) {
	for _, n := range s.pending {
		if n.name == models.PrintAreaName && strings.Contains(n.text, "#REF!") {
			continue
		}
		scope := ""
		if n.local >= 0 {
			if n.local >= len(s.declared) {
				s.Warnf("Invalid localSheetId %d for name '%s'", n.local, n.name)
				continue
			}
			sh := s.declared[n.local]
			if sh == nil {
				s.Warnf("Dropping name '%s' scoped to skipped sheet %d", n.name, n.local)
				continue
			}
			scope = sh.Name
		}
		if err := s.wb.DefineName(n.name, n.text, scope); err != nil {
			s.Warnf("Invalid defined name '%s': %v", n.name, err)
			continue
		}
		if n.hidden {
			for i := range s.wb.Names {
				if s.wb.Names[i].Name == n.name && s.wb.Names[i].Scope == scope {
					s.wb.Names[i].Hidden = true
				}
			}
		}
	}
	s.pending = nil
}
