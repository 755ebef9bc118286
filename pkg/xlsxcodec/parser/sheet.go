package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
)

// Tags of the worksheet grammar.
const (
	tagFormula1 = iota + 1
	tagFormula2
	tagRowBreaks
	tagColBreaks
)

// sheetReader is the state of a worksheet part.
type sheetReader struct {
	*Context
	t     *Tables
	wb    *models.Workbook
	sheet *models.Sheet
	rels  *opc.Relationships
	opts  Options

	shared map[string]*sharedFormula
	row    int
	col    int
	cell   cellScratch
	rich   strings.Builder

	view       *models.SheetView
	validation *models.Validation
	filterCol  *models.FilterColumn
	cond       *models.CondFormat
	rule       *models.CondRule

	// drawingID is the relationship id of the sheet drawing.
	drawingID string
}

var sheetGrammar = Compile("worksheet", append([]Node[*sheetReader]{
	{ID: "worksheet", Parent: Root, NS: NSSpreadsheet, Name: "worksheet"},

	{ID: "sheetPr", Parent: "worksheet", NS: NSSpreadsheet, Name: "sheetPr", Opaque: true},
	{ID: "tabColor", Parent: "sheetPr", NS: NSSpreadsheet, Name: "tabColor", Start: (*sheetReader).tabColor},
	{ID: "dimension", Parent: "worksheet", NS: NSSpreadsheet, Name: "dimension"},

	{ID: "sheetViews", Parent: "worksheet", NS: NSSpreadsheet, Name: "sheetViews", Start: (*sheetReader).gate},
	{ID: "sheetView", Parent: "sheetViews", NS: NSSpreadsheet, Name: "sheetView", Start: (*sheetReader).viewStart, End: (*sheetReader).viewEnd},
	{ID: "pane", Parent: "sheetView", NS: NSSpreadsheet, Name: "pane", Start: (*sheetReader).pane},
	{ID: "selection", Parent: "sheetView", NS: NSSpreadsheet, Name: "selection", Start: (*sheetReader).selection},
	{ID: "pivotSelection", Parent: "sheetView", NS: NSSpreadsheet, Name: "pivotSelection", Opaque: true},
	{ID: "sheetFormatPr", Parent: "worksheet", NS: NSSpreadsheet, Name: "sheetFormatPr", Start: (*sheetReader).sheetFormatPr},

	{ID: "cols", Parent: "worksheet", NS: NSSpreadsheet, Name: "cols"},
	{ID: "col", Parent: "cols", NS: NSSpreadsheet, Name: "col", Start: (*sheetReader).colStart},

	{ID: "sheetData", Parent: "worksheet", NS: NSSpreadsheet, Name: "sheetData"},
	{ID: "row", Parent: "sheetData", NS: NSSpreadsheet, Name: "row", Start: (*sheetReader).rowStart},
	{ID: "c", Parent: "row", NS: NSSpreadsheet, Name: "c", Start: (*sheetReader).cellStart, End: (*sheetReader).cellEnd},
	{ID: "f", Parent: "c", NS: NSSpreadsheet, Name: "f", Content: ContentKeep, Start: (*sheetReader).formulaStart, End: (*sheetReader).formulaEnd},
	{ID: "v", Parent: "c", NS: NSSpreadsheet, Name: "v", Content: ContentKeep, End: (*sheetReader).valueEnd},
	{ID: "is", Parent: "c", NS: NSSpreadsheet, Name: "is", Start: (*sheetReader).inlineStart, End: (*sheetReader).inlineEnd},
	{ID: "isT", Parent: "is", NS: NSSpreadsheet, Name: "t", Content: ContentKeep, End: (*sheetReader).inlineRun},
	{ID: "isR", Parent: "is", NS: NSSpreadsheet, Name: "r"},
	{ID: "isRT", Parent: "isR", NS: NSSpreadsheet, Name: "t", Ref: "isT"},
	{ID: "isRPr", Parent: "isR", NS: NSSpreadsheet, Name: "rPr", Opaque: true},
	{ID: "isRPh", Parent: "is", NS: NSSpreadsheet, Name: "rPh", Opaque: true},
	{ID: "isPhoneticPr", Parent: "is", NS: NSSpreadsheet, Name: "phoneticPr", Opaque: true},
	{ID: "cExt", Parent: "c", NS: NSSpreadsheet, Name: "extLst", Opaque: true},
	{ID: "rowExt", Parent: "row", NS: NSSpreadsheet, Name: "extLst", Opaque: true},

	{ID: "sheetProtection", Parent: "worksheet", NS: NSSpreadsheet, Name: "sheetProtection", Start: (*sheetReader).sheetProtection},

	{ID: "autoFilter", Parent: "worksheet", NS: NSSpreadsheet, Name: "autoFilter", Start: (*sheetReader).autoFilter},
	{ID: "filterColumn", Parent: "autoFilter", NS: NSSpreadsheet, Name: "filterColumn", Start: (*sheetReader).filterColumnStart, End: (*sheetReader).filterColumnEnd},
	{ID: "filters", Parent: "filterColumn", NS: NSSpreadsheet, Name: "filters", Start: (*sheetReader).filters},
	{ID: "filter", Parent: "filters", NS: NSSpreadsheet, Name: "filter", Start: (*sheetReader).filterValue},
	{ID: "dateGroupItem", Parent: "filters", NS: NSSpreadsheet, Name: "dateGroupItem", Opaque: true},
	{ID: "customFilters", Parent: "filterColumn", NS: NSSpreadsheet, Name: "customFilters", Start: (*sheetReader).customFilters},
	{ID: "customFilter", Parent: "customFilters", NS: NSSpreadsheet, Name: "customFilter", Start: (*sheetReader).customFilter},
	{ID: "top10", Parent: "filterColumn", NS: NSSpreadsheet, Name: "top10", Start: (*sheetReader).top10},
	{ID: "dynamicFilter", Parent: "filterColumn", NS: NSSpreadsheet, Name: "dynamicFilter", Opaque: true},
	{ID: "colorFilter", Parent: "filterColumn", NS: NSSpreadsheet, Name: "colorFilter", Opaque: true},
	{ID: "iconFilter", Parent: "filterColumn", NS: NSSpreadsheet, Name: "iconFilter", Opaque: true},
	{ID: "sortState", Parent: "autoFilter", NS: NSSpreadsheet, Name: "sortState", Opaque: true},

	{ID: "mergeCells", Parent: "worksheet", NS: NSSpreadsheet, Name: "mergeCells", Start: (*sheetReader).gate},
	{ID: "mergeCell", Parent: "mergeCells", NS: NSSpreadsheet, Name: "mergeCell", Start: (*sheetReader).mergeCell},

	{ID: "conditionalFormatting", Parent: "worksheet", NS: NSSpreadsheet, Name: "conditionalFormatting",
		Start: (*sheetReader).condStart, End: (*sheetReader).condEnd},
	{ID: "cfRule", Parent: "conditionalFormatting", NS: NSSpreadsheet, Name: "cfRule", Start: (*sheetReader).ruleStart, End: (*sheetReader).ruleEnd, Opaque: true},
	{ID: "cfFormula", Parent: "cfRule", NS: NSSpreadsheet, Name: "formula", Content: ContentKeep, End: (*sheetReader).ruleFormula},

	{ID: "dataValidations", Parent: "worksheet", NS: NSSpreadsheet, Name: "dataValidations", Start: (*sheetReader).gate},
	{ID: "dataValidation", Parent: "dataValidations", NS: NSSpreadsheet, Name: "dataValidation",
		Start: (*sheetReader).validationStart, End: (*sheetReader).validationEnd},
	{ID: "formula1", Parent: "dataValidation", NS: NSSpreadsheet, Name: "formula1", Tag: tagFormula1, Content: ContentKeep, End: (*sheetReader).validationFormula},
	{ID: "formula2", Parent: "dataValidation", NS: NSSpreadsheet, Name: "formula2", Tag: tagFormula2, Ref: "formula1"},

	{ID: "hyperlinks", Parent: "worksheet", NS: NSSpreadsheet, Name: "hyperlinks", Start: (*sheetReader).gate},
	{ID: "hyperlink", Parent: "hyperlinks", NS: NSSpreadsheet, Name: "hyperlink", Start: (*sheetReader).hyperlink},

	{ID: "printOptions", Parent: "worksheet", NS: NSSpreadsheet, Name: "printOptions", Capture: true, Start: (*sheetReader).gate, End: (*sheetReader).printSetup},
	{ID: "pageMargins", Parent: "worksheet", NS: NSSpreadsheet, Name: "pageMargins", Capture: true, Start: (*sheetReader).gate, End: (*sheetReader).printSetup},
	{ID: "pageSetup", Parent: "worksheet", NS: NSSpreadsheet, Name: "pageSetup", Capture: true, Start: (*sheetReader).gate, End: (*sheetReader).printSetup},
	{ID: "headerFooter", Parent: "worksheet", NS: NSSpreadsheet, Name: "headerFooter", Capture: true, Start: (*sheetReader).gate, End: (*sheetReader).printSetup},

	{ID: "rowBreaks", Parent: "worksheet", NS: NSSpreadsheet, Name: "rowBreaks", Tag: tagRowBreaks, Start: (*sheetReader).gate},
	{ID: "brk", Parent: "rowBreaks", NS: NSSpreadsheet, Name: "brk", Start: (*sheetReader).pageBreak},
	{ID: "colBreaks", Parent: "worksheet", NS: NSSpreadsheet, Name: "colBreaks", Tag: tagColBreaks, Ref: "rowBreaks"},

	{ID: "drawing", Parent: "worksheet", NS: NSSpreadsheet, Name: "drawing", Start: (*sheetReader).drawing},
	{ID: "legacyDrawing", Parent: "worksheet", NS: NSSpreadsheet, Name: "legacyDrawing"},
}, ignore[*sheetReader]("worksheet", NSSpreadsheet,
	"sheetCalcPr", "protectedRanges", "scenarios", "sortState", "dataConsolidate",
	"customSheetViews", "phoneticPr", "smartTags", "legacyDrawingHF", "drawingHF",
	"picture", "oleObjects", "controls", "webPublishItems", "tableParts",
	"ignoredErrors", "customProperties", "cellWatches", "extLst")...))

// SheetResult carries what a worksheet part links to.
type SheetResult struct {
	// DrawingID is the relationship id of the drawing part, empty when none.
	DrawingID string
}

// ReadSheet parses a worksheet part into sheet. rels resolves hyperlink
// targets and may be nil.
func ReadSheet(c *Context, t *Tables, wb *models.Workbook, sheet *models.Sheet, rels *opc.Relationships, opts Options, r io.Reader) (SheetResult, error) {
	c.Sheet = sheet.Name
	defer func() {
		c.Sheet = ""
		c.Pos = nil
	}()
	s := &sheetReader{
		Context: c,
		t:       t,
		wb:      wb,
		sheet:   sheet,
		rels:    rels,
		opts:    opts,
		shared:  make(map[string]*sharedFormula),
	}
	if err := Parse(sheetGrammar, s, c, r); err != nil {
		return SheetResult{}, err
	}
	return SheetResult{DrawingID: s.drawingID}, nil
}

// gate skips sheet features outside the cells when they are not loaded.
func (s *sheetReader) gate(_ []xml.Attr) {
	if !s.opts.Features {
		s.Skip()
	}
}

func (s *sheetReader) tabColor(attrs []xml.Attr) {
	if col, ok := s.t.Color(s.Context, attrs); ok {
		s.sheet.TabColor = &col
	}
}

func (s *sheetReader) viewStart(attrs []xml.Attr) {
	v := &models.SheetView{}
	for _, a := range attrs {
		var (
			b   bool
			ref models.CellRef
		)
		switch {
		case s.AttrBool(a, "tabSelected", &v.TabSelected):
		case s.AttrInt(a, "zoomScale", &v.ZoomScale):
		case s.AttrBool(a, "showGridLines", &b):
			v.ShowGridLines = &b
		case s.AttrBool(a, "rightToLeft", &v.RightToLeft):
		case s.AttrPos(a, "topLeftCell", &ref):
			v.TopLeft = &ref
		}
	}
	s.view = v
}

func (s *sheetReader) viewEnd(_ string) {
	s.sheet.Views = append(s.sheet.Views, *s.view)
	s.view = nil
}

func (s *sheetReader) pane(attrs []xml.Attr) {
	p := &models.Pane{}
	for _, a := range attrs {
		var ref models.CellRef
		switch {
		case s.AttrFloat(a, "xSplit", &p.XSplit):
		case s.AttrFloat(a, "ySplit", &p.YSplit):
		case s.AttrPos(a, "topLeftCell", &ref):
			p.TopLeft = &ref
		case AttrString(a, "activePane", &p.ActivePane):
		case AttrString(a, "state", &p.State):
		}
	}
	s.view.Pane = p
}

func (s *sheetReader) selection(attrs []xml.Attr) {
	var sel models.Selection
	for _, a := range attrs {
		var ref models.CellRef
		switch {
		case AttrString(a, "pane", &sel.Pane):
		case s.AttrPos(a, "activeCell", &ref):
			sel.ActiveCell = &ref
		case s.AttrRefList(a, "sqref", &sel.Sqref):
		}
	}
	s.view.Selections = append(s.view.Selections, sel)
}

func (s *sheetReader) sheetFormatPr(attrs []xml.Attr) {
	f := &s.sheet.Format
	for _, a := range attrs {
		var (
			v float64
			n int
		)
		switch {
		case s.AttrFloat(a, "defaultRowHeight", &v):
			f.DefaultRowHeight = &v
		case s.AttrFloat(a, "defaultColWidth", &v):
			f.DefaultColWidth = &v
		case s.AttrInt(a, "baseColWidth", &n):
			f.BaseColWidth = &n
		}
	}
}

func (s *sheetReader) sheetProtection(attrs []xml.Attr) {
	if !s.opts.Features {
		s.Skip()
		return
	}
	p := &models.SheetProtection{}
	for _, a := range attrs {
		_ = s.AttrBool(a, "sheet", &p.Sheet) ||
			s.AttrBool(a, "objects", &p.Objects) ||
			s.AttrBool(a, "scenarios", &p.Scenarios) ||
			AttrString(a, "password", &p.Password)
	}
	s.sheet.Protection = p
}

func (s *sheetReader) autoFilter(attrs []xml.Attr) {
	if !s.opts.Features {
		s.Skip()
		return
	}
	f := &models.AutoFilter{}
	for _, a := range attrs {
		s.AttrRange(a, "ref", &f.Ref)
	}
	s.sheet.AutoFilter = f
}

func (s *sheetReader) filterColumnStart(attrs []xml.Attr) {
	s.filterCol = &models.FilterColumn{}
	for _, a := range attrs {
		s.AttrInt(a, "colId", &s.filterCol.ColID)
	}
}

func (s *sheetReader) filterColumnEnd(_ string) {
	s.sheet.AutoFilter.Columns = append(s.sheet.AutoFilter.Columns, *s.filterCol)
	s.filterCol = nil
}

func (s *sheetReader) filters(attrs []xml.Attr) {
	for _, a := range attrs {
		s.AttrBool(a, "blank", &s.filterCol.Blank)
	}
}

func (s *sheetReader) filterValue(attrs []xml.Attr) {
	for _, a := range attrs {
		var v string
		if AttrString(a, "val", &v) {
			s.filterCol.Values = append(s.filterCol.Values, v)
		}
	}
}

func (s *sheetReader) customFilters(attrs []xml.Attr) {
	for _, a := range attrs {
		s.AttrBool(a, "and", &s.filterCol.And)
	}
}

func (s *sheetReader) customFilter(attrs []xml.Attr) {
	var cf models.CustomFilter
	for _, a := range attrs {
		_ = AttrString(a, "operator", &cf.Operator) || AttrString(a, "val", &cf.Val)
	}
	s.filterCol.Custom = append(s.filterCol.Custom, cf)
}

func (s *sheetReader) top10(attrs []xml.Attr) {
	t := &models.Top10Filter{Top: true}
	for _, a := range attrs {
		_ = s.AttrBool(a, "top", &t.Top) ||
			s.AttrBool(a, "percent", &t.Percent) ||
			s.AttrFloat(a, "val", &t.Val)
	}
	s.filterCol.Top10 = t
}

func (s *sheetReader) mergeCell(attrs []xml.Attr) {
	for _, a := range attrs {
		var rng models.Range
		if !s.AttrRange(a, "ref", &rng) {
			continue
		}
		if err := s.sheet.Merge(rng); err != nil {
			s.Warnf("Invalid merge '%s': %v", rng, err)
		}
	}
}

func (s *sheetReader) condStart(attrs []xml.Attr) {
	if !s.opts.Features {
		s.Skip()
		return
	}
	s.cond = &models.CondFormat{}
	for _, a := range attrs {
		s.AttrRefList(a, "sqref", &s.cond.Sqref)
	}
}

func (s *sheetReader) condEnd(_ string) {
	if len(s.cond.Sqref) > 0 && len(s.cond.Rules) > 0 {
		s.sheet.CondFormats = append(s.sheet.CondFormats, *s.cond)
	}
	s.cond = nil
}

func (s *sheetReader) ruleStart(attrs []xml.Attr) {
	r := &models.CondRule{}
	dxf := -1
	for _, a := range attrs {
		_ = AttrString(a, "type", &r.Type) ||
			s.AttrInt(a, "priority", &r.Priority) ||
			AttrString(a, "operator", &r.Operator) ||
			AttrString(a, "text", &r.Text) ||
			s.AttrBool(a, "stopIfTrue", &r.StopIfTrue) ||
			s.AttrInt(a, "dxfId", &dxf)
	}
	if dxf >= 0 && s.opts.Styles {
		r.Style = s.t.Dxf(s.Context, dxf)
	}
	s.rule = r
}

func (s *sheetReader) ruleFormula(text string) {
	s.rule.Formulas = append(s.rule.Formulas, text)
}

func (s *sheetReader) ruleEnd(_ string) {
	s.cond.Rules = append(s.cond.Rules, *s.rule)
	s.rule = nil
}

func (s *sheetReader) validationStart(attrs []xml.Attr) {
	v := &models.Validation{}
	for _, a := range attrs {
		_ = AttrString(a, "type", &v.Type) ||
			AttrString(a, "operator", &v.Operator) ||
			AttrString(a, "errorStyle", &v.ErrorStyle) ||
			s.AttrBool(a, "allowBlank", &v.AllowBlank) ||
			s.AttrBool(a, "showDropDown", &v.NoDropDown) ||
			s.AttrBool(a, "showInputMessage", &v.ShowInput) ||
			s.AttrBool(a, "showErrorMessage", &v.ShowError) ||
			AttrString(a, "errorTitle", &v.ErrorTitle) ||
			AttrString(a, "error", &v.Error) ||
			AttrString(a, "promptTitle", &v.PromptTitle) ||
			AttrString(a, "prompt", &v.Prompt) ||
			s.AttrRefList(a, "sqref", &v.Sqref)
	}
	s.validation = v
}

func (s *sheetReader) validationFormula(text string) {
	if s.Tag() == tagFormula2 {
		s.validation.Formula2 = text
	} else {
		s.validation.Formula1 = text
	}
}

func (s *sheetReader) validationEnd(_ string) {
	if len(s.validation.Sqref) == 0 {
		s.Warnf("Dropping data validation without sqref")
	} else {
		s.sheet.Validations = append(s.sheet.Validations, *s.validation)
	}
	s.validation = nil
}

func (s *sheetReader) hyperlink(attrs []xml.Attr) {
	var (
		h     models.Hyperlink
		ok    bool
		relID string
	)
	for _, a := range attrs {
		switch {
		case s.AttrRange(a, "ref", &h.Ref):
			ok = true
		case AttrNS(a, NSDocRel, "id"):
			relID = a.Value
		case AttrString(a, "location", &h.Location):
		case AttrString(a, "display", &h.Display):
		case AttrString(a, "tooltip", &h.Tooltip):
		}
	}
	if !ok {
		s.Warnf("Dropping hyperlink without ref")
		return
	}
	if relID != "" {
		rel, found := s.rels.ByID(relID)
		if !found {
			s.Warnf("Missing relationship '%s' for hyperlink", relID)
		} else {
			h.Target = rel.Target
		}
	}
	s.sheet.Hyperlinks = append(s.sheet.Hyperlinks, h)
}

func (s *sheetReader) printSetup(_ string) {
	if blob := s.Captured(); blob != nil {
		s.sheet.PrintSetup = append(s.sheet.PrintSetup, *blob)
	}
}

func (s *sheetReader) pageBreak(attrs []xml.Attr) {
	var b models.Break
	for _, a := range attrs {
		_ = s.AttrInt(a, "id", &b.ID) || s.AttrBool(a, "man", &b.Manual)
	}
	if s.ParentTag() == tagColBreaks {
		s.sheet.ColBreaks = append(s.sheet.ColBreaks, b)
	} else {
		s.sheet.RowBreaks = append(s.sheet.RowBreaks, b)
	}
}

func (s *sheetReader) drawing(attrs []xml.Attr) {
	for _, a := range attrs {
		if AttrNS(a, NSDocRel, "id") {
			s.drawingID = a.Value
		}
	}
}
