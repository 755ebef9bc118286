package writer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
	"github.com/xuri/efp"
)

// sheetWriter renders one worksheet part.
type sheetWriter struct {
	x      *xmlWriter
	wb     *models.Workbook
	sheet  *models.Sheet
	styles *Styles
	sst    *SharedStrings
	sink   warn.Sink
	// rel issues a relationship from the sheet part.
	rel func(relType, target string, external bool) string

	pos *models.CellRef
}

func newSheetWriter(wb *models.Workbook, sheet *models.Sheet, styles *Styles, sst *SharedStrings, sink warn.Sink) *sheetWriter {
	w := &sheetWriter{x: newXMLWriter(), wb: wb, sheet: sheet, styles: styles, sst: sst}
	w.sink = warn.Prefixed{Sink: sink, Location: w.location}
	return w
}

func (w *sheetWriter) location() string {
	if w.pos != nil {
		return w.sheet.Name + "!" + w.pos.String()
	}
	return w.sheet.Name
}

// write renders the worksheet. drawingID is the relationship id of the
// sheet drawing, empty when there is none.
func (w *sheetWriter) write(drawingID string) []byte {
	x, s := w.x, w.sheet
	x.OTag("worksheet")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsDocRel)

	if s.TabColor != nil {
		x.OTag("sheetPr")
		x.Elem("tabColor", "rgb", s.TabColor.Hex())
		x.CTag()
	}
	dim := "A1"
	if rng, ok := s.Extent(); ok {
		dim = rng.String()
	}
	x.Elem("dimension", "ref", dim)
	w.views()
	w.format()
	w.cols()
	w.sheetData()
	w.protection()
	w.autoFilter()
	w.merges()
	w.condFormats()
	w.validations()
	w.hyperlinks()
	for i := range s.PrintSetup {
		writeBlob(x, &s.PrintSetup[i])
	}
	w.breaks("rowBreaks", s.RowBreaks, models.MaxCols-1)
	w.breaks("colBreaks", s.ColBreaks, models.MaxRows-1)
	if drawingID != "" {
		x.Elem("drawing", "r:id", drawingID)
	}
	x.CTag()
	return x.Bytes()
}

func (w *sheetWriter) views() {
	if len(w.sheet.Views) == 0 {
		return
	}
	x := w.x
	x.OTag("sheetViews")
	for _, v := range w.sheet.Views {
		x.OTag("sheetView")
		if v.TabSelected {
			x.AttrBool("tabSelected", true)
		}
		if v.ShowGridLines != nil {
			x.AttrBool("showGridLines", *v.ShowGridLines)
		}
		if v.RightToLeft {
			x.AttrBool("rightToLeft", true)
		}
		if v.TopLeft != nil {
			x.Attr("topLeftCell", v.TopLeft.String())
		}
		if v.ZoomScale > 0 {
			x.AttrInt("zoomScale", v.ZoomScale)
		}
		x.AttrInt("workbookViewId", 0)
		if p := v.Pane; p != nil {
			x.OTag("pane")
			if p.XSplit != 0 {
				x.AttrFloat("xSplit", p.XSplit)
			}
			if p.YSplit != 0 {
				x.AttrFloat("ySplit", p.YSplit)
			}
			if p.TopLeft != nil {
				x.Attr("topLeftCell", p.TopLeft.String())
			}
			if p.ActivePane != "" {
				x.Attr("activePane", p.ActivePane)
			}
			if p.State != "" {
				x.Attr("state", p.State)
			}
			x.CTag()
		}
		for _, sel := range v.Selections {
			x.OTag("selection")
			if sel.Pane != "" {
				x.Attr("pane", sel.Pane)
			}
			if sel.ActiveCell != nil {
				x.Attr("activeCell", sel.ActiveCell.String())
			}
			if len(sel.Sqref) > 0 {
				x.Attr("sqref", models.FormatRangeList(sel.Sqref))
			}
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()
}

// format writes sheetFormatPr. defaultRowHeight is required there, so a
// format without one gets the height of the default font.
func (w *sheetWriter) format() {
	f := w.sheet.Format
	if f.DefaultRowHeight == nil && f.DefaultColWidth == nil && f.BaseColWidth == nil {
		return
	}
	x := w.x
	x.OTag("sheetFormatPr")
	if f.BaseColWidth != nil {
		x.AttrInt("baseColWidth", *f.BaseColWidth)
	}
	if f.DefaultColWidth != nil {
		x.AttrFloat("defaultColWidth", *f.DefaultColWidth)
	}
	height := 15.0
	if f.DefaultRowHeight != nil {
		height = *f.DefaultRowHeight
	}
	x.AttrFloat("defaultRowHeight", height)
	x.CTag()
}

func (w *sheetWriter) cols() {
	if len(w.sheet.Cols) == 0 {
		return
	}
	x := w.x
	x.OTag("cols")
	for _, c := range w.sheet.Cols {
		x.OTag("col")
		x.AttrInt("min", c.Min)
		x.AttrInt("max", c.Max)
		if c.Width != nil {
			x.AttrFloat("width", *c.Width)
		}
		if i := w.styles.Xf(c.Style); i > 0 {
			x.AttrInt("style", i)
		}
		if c.Hidden {
			x.AttrBool("hidden", true)
		}
		if c.BestFit {
			x.AttrBool("bestFit", true)
		}
		if c.CustomWidth {
			x.AttrBool("customWidth", true)
		}
		if c.OutlineLevel > 0 {
			x.AttrInt("outlineLevel", c.OutlineLevel)
		}
		if c.Collapsed {
			x.AttrBool("collapsed", true)
		}
		x.CTag()
	}
	x.CTag()
}

func (w *sheetWriter) sheetData() {
	x, s := w.x, w.sheet
	refs := s.CellRefs()
	byRow := make(map[int][]models.CellRef)
	var rows []int
	for _, ref := range refs {
		if _, ok := byRow[ref.Row]; !ok {
			rows = append(rows, ref.Row)
		}
		byRow[ref.Row] = append(byRow[ref.Row], ref)
	}
	for r, ri := range s.Rows {
		if _, ok := byRow[r]; !ok && ri != nil && !ri.IsDefault() {
			byRow[r] = nil
			rows = append(rows, r)
		}
	}
	sort.Ints(rows)

	x.OTag("sheetData")
	for _, r := range rows {
		x.OTag("row")
		x.AttrInt("r", r)
		if ri := s.Rows[r]; ri != nil {
			w.rowAttrs(ri)
		}
		for _, ref := range byRow[r] {
			w.cell(s.Cell(ref))
		}
		x.CTag()
	}
	x.CTag()
}

func (w *sheetWriter) rowAttrs(ri *models.RowInfo) {
	x := w.x
	if i := w.styles.Xf(ri.Style); i > 0 {
		x.AttrInt("s", i)
		x.AttrBool("customFormat", true)
	}
	if ri.Height != nil {
		x.AttrFloat("ht", *ri.Height)
	}
	if ri.Hidden {
		x.AttrBool("hidden", true)
	}
	if ri.CustomHeight {
		x.AttrBool("customHeight", true)
	}
	if ri.OutlineLevel > 0 {
		x.AttrInt("outlineLevel", ri.OutlineLevel)
	}
	if ri.Collapsed {
		x.AttrBool("collapsed", true)
	}
}

// cell writes one c element. Strings always go to the shared string
// table, except the cached string result of a formula.
func (w *sheetWriter) cell(c *models.Cell) {
	x := w.x
	ref := c.Ref
	w.pos = &ref
	defer func() { w.pos = nil }()

	x.OTag("c")
	x.Attr("r", c.Ref.String())
	if i := w.styles.Xf(c.Style); i > 0 {
		x.AttrInt("s", i)
	}
	formula := c.HasFormula() && (c.Array == nil || c.IsArrayCorner())

	var v string
	switch c.Value.Type {
	case models.ValueNumber:
		v = c.Value.String()
	case models.ValueString:
		if formula {
			x.Attr("t", "str")
			v = c.Value.Text
		} else {
			x.Attr("t", "s")
			v = strconv.Itoa(w.sst.Index(c.Value.Text))
		}
	case models.ValueBool:
		x.Attr("t", "b")
		v = boolText(c.Value.Bool)
	case models.ValueError:
		x.Attr("t", "e")
		v = c.Value.Text
	}

	if formula {
		w.checkFormula(c.Formula)
		x.OTag("f")
		if c.IsArrayCorner() {
			x.Attr("t", "array")
			x.Attr("ref", c.Array.String())
		}
		x.Text(c.Formula)
		x.CTag()
	}
	if !c.Value.IsEmpty() {
		x.TextElem("v", v)
	}
	x.CTag()
}

// checkFormula reports references to sheets missing from the workbook.
func (w *sheetWriter) checkFormula(formula string) {
	ps := efp.ExcelParser()
	for _, tok := range ps.Parse(formula) {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		i := strings.LastIndexByte(tok.TValue, '!')
		if i < 0 {
			continue
		}
		name := strings.ReplaceAll(strings.Trim(tok.TValue[:i], "'"), "''", "'")
		if strings.HasPrefix(name, "[") {
			continue
		}
		// a 3D reference names its first and last sheet
		for _, part := range strings.Split(name, ":") {
			if w.wb.Sheet(part) == nil {
				w.sink.Warnf("Reference to unknown sheet '%s'", part)
			}
		}
	}
}

func (w *sheetWriter) protection() {
	p := w.sheet.Protection
	if p == nil {
		return
	}
	x := w.x
	x.OTag("sheetProtection")
	if p.Password != "" {
		x.Attr("password", p.Password)
	}
	x.AttrBool("sheet", p.Sheet)
	if p.Objects {
		x.AttrBool("objects", true)
	}
	if p.Scenarios {
		x.AttrBool("scenarios", true)
	}
	x.CTag()
}

func (w *sheetWriter) autoFilter() {
	f := w.sheet.AutoFilter
	if f == nil {
		return
	}
	x := w.x
	x.OTag("autoFilter")
	x.Attr("ref", f.Ref.String())
	for _, col := range f.Columns {
		x.OTag("filterColumn")
		x.AttrInt("colId", col.ColID)
		switch {
		case len(col.Values) > 0 || col.Blank:
			x.OTag("filters")
			if col.Blank {
				x.AttrBool("blank", true)
			}
			for _, v := range col.Values {
				x.Elem("filter", "val", v)
			}
			x.CTag()
		case len(col.Custom) > 0:
			x.OTag("customFilters")
			if col.And {
				x.AttrBool("and", true)
			}
			for _, cf := range col.Custom {
				x.OTag("customFilter")
				if cf.Operator != "" {
					x.Attr("operator", cf.Operator)
				}
				x.Attr("val", cf.Val)
				x.CTag()
			}
			x.CTag()
		case col.Top10 != nil:
			x.OTag("top10")
			x.AttrBool("top", col.Top10.Top)
			if col.Top10.Percent {
				x.AttrBool("percent", true)
			}
			x.AttrFloat("val", col.Top10.Val)
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()
}

func (w *sheetWriter) merges() {
	if len(w.sheet.Merges) == 0 {
		return
	}
	x := w.x
	x.OTag("mergeCells")
	x.AttrInt("count", len(w.sheet.Merges))
	for _, m := range w.sheet.Merges {
		x.Elem("mergeCell", "ref", m.String())
	}
	x.CTag()
}

// condFormats writes the conditional formats. Rules without a priority
// are numbered after the highest one present.
func (w *sheetWriter) condFormats() {
	x := w.x
	next := 0
	for _, cf := range w.sheet.CondFormats {
		for _, r := range cf.Rules {
			next = max(next, r.Priority)
		}
	}
	for _, cf := range w.sheet.CondFormats {
		x.OTag("conditionalFormatting")
		x.Attr("sqref", models.FormatRangeList(cf.Sqref))
		for _, r := range cf.Rules {
			x.OTag("cfRule")
			x.Attr("type", r.Type)
			if r.Style != nil {
				x.AttrInt("dxfId", w.styles.Dxf(r.Style))
			}
			priority := r.Priority
			if priority <= 0 {
				next++
				priority = next
			}
			x.AttrInt("priority", priority)
			if r.StopIfTrue {
				x.AttrBool("stopIfTrue", true)
			}
			if r.Operator != "" {
				x.Attr("operator", r.Operator)
			}
			if r.Text != "" {
				x.Attr("text", r.Text)
			}
			for _, f := range r.Formulas {
				x.TextElem("formula", f)
			}
			x.CTag()
		}
		x.CTag()
	}
}

func (w *sheetWriter) validations() {
	if len(w.sheet.Validations) == 0 {
		return
	}
	x := w.x
	x.OTag("dataValidations")
	x.AttrInt("count", len(w.sheet.Validations))
	for _, v := range w.sheet.Validations {
		x.OTag("dataValidation")
		for _, a := range [][2]string{
			{"type", v.Type}, {"errorStyle", v.ErrorStyle}, {"operator", v.Operator},
		} {
			if a[1] != "" {
				x.Attr(a[0], a[1])
			}
		}
		for _, a := range []struct {
			name string
			v    bool
		}{
			{"allowBlank", v.AllowBlank}, {"showDropDown", v.NoDropDown},
			{"showInputMessage", v.ShowInput}, {"showErrorMessage", v.ShowError},
		} {
			if a.v {
				x.AttrBool(a.name, true)
			}
		}
		for _, a := range [][2]string{
			{"errorTitle", v.ErrorTitle}, {"error", v.Error},
			{"promptTitle", v.PromptTitle}, {"prompt", v.Prompt},
		} {
			if a[1] != "" {
				x.Attr(a[0], a[1])
			}
		}
		x.Attr("sqref", models.FormatRangeList(v.Sqref))
		if v.Formula1 != "" {
			x.TextElem("formula1", v.Formula1)
		}
		if v.Formula2 != "" {
			x.TextElem("formula2", v.Formula2)
		}
		x.CTag()
	}
	x.CTag()
}

func (w *sheetWriter) hyperlinks() {
	if len(w.sheet.Hyperlinks) == 0 {
		return
	}
	x := w.x
	x.OTag("hyperlinks")
	for _, h := range w.sheet.Hyperlinks {
		x.OTag("hyperlink")
		x.Attr("ref", h.Ref.String())
		if h.Target != "" {
			x.Attr("r:id", w.rel(opc.RelHyperlink, h.Target, true))
		}
		if h.Location != "" {
			x.Attr("location", h.Location)
		}
		if h.Tooltip != "" {
			x.Attr("tooltip", h.Tooltip)
		}
		if h.Display != "" {
			x.Attr("display", h.Display)
		}
		x.CTag()
	}
	x.CTag()
}

func (w *sheetWriter) breaks(name string, list []models.Break, extent int) {
	if len(list) == 0 {
		return
	}
	x := w.x
	manual := 0
	for _, b := range list {
		if b.Manual {
			manual++
		}
	}
	x.OTag(name)
	x.AttrInt("count", len(list))
	x.AttrInt("manualBreakCount", manual)
	for _, b := range list {
		x.OTag("brk")
		x.AttrInt("id", b.ID)
		x.AttrInt("max", extent)
		if b.Manual {
			x.AttrBool("man", true)
		}
		x.CTag()
	}
	x.CTag()
}

// writeBlob writes a kept subtree back. Relationship attributes are dropped
// since their targets are not written.
func writeBlob(x *xmlWriter, b *models.Blob) {
	x.OTag(b.Name)
	for _, a := range b.Attrs {
		if strings.HasPrefix(a.Name, "r:") {
			continue
		}
		x.Attr(a.Name, a.Value)
	}
	if b.Text != "" {
		x.Text(b.Text)
	}
	for _, c := range b.Children {
		writeBlob(x, c)
	}
	x.CTag()
}
