package parser

import (
	"encoding/xml"
	"io"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// Tags of the styles grammar.
const (
	tagStyleXf = iota + 1
	tagCellXf
	tagBold
	tagItalic
	tagStrike
	tagFg
	tagBg
	tagLeft
	tagRight
	tagTop
	tagBottom
	tagDiagonal
)

var (
	underlines = enumOf(models.UnderlineNone, models.UnderlineSingle, models.UnderlineDouble,
		models.UnderlineSingleAccounting, models.UnderlineDoubleAccounting)
	scripts     = enumOf(models.ScriptBaseline, models.ScriptSuperscript, models.ScriptSubscript)
	patterns    = enumOf(models.Patterns...)
	borderKinds = enumOf(models.BorderStyles...)
	hAligns     = enumOf(models.HAlignGeneral, models.HAlignLeft, models.HAlignCenter, models.HAlignRight,
		models.HAlignFill, models.HAlignJustify, models.HAlignCenterContinuous, models.HAlignDistributed)
	vAligns = enumOf(models.VAlignTop, models.VAlignCenter, models.VAlignBottom,
		models.VAlignJustify, models.VAlignDistributed)
)

// stylesReader is the state of a styles part.
type stylesReader struct {
	*Context
	t *Tables

	font   *models.Font
	fill   *models.Fill
	border *models.Border
	line   *models.BorderLine
	xf     *models.Style
	// dxf is the differential format being read; categories attach to it
	// instead of the tables while set.
	dxf *models.Style
}

var stylesGrammar = Compile("styles", append([]Node[*stylesReader]{
	{ID: "styleSheet", Parent: Root, NS: NSSpreadsheet, Name: "styleSheet"},

	{ID: "numFmts", Parent: "styleSheet", NS: NSSpreadsheet, Name: "numFmts"},
	{ID: "numFmt", Parent: "numFmts", NS: NSSpreadsheet, Name: "numFmt", Start: (*stylesReader).numFmt},

	{ID: "fonts", Parent: "styleSheet", NS: NSSpreadsheet, Name: "fonts", Start: (*stylesReader).fonts},
	{ID: "font", Parent: "fonts", NS: NSSpreadsheet, Name: "font", Start: (*stylesReader).fontStart, End: (*stylesReader).fontEnd},
	{ID: "b", Parent: "font", NS: NSSpreadsheet, Name: "b", Tag: tagBold, Start: (*stylesReader).fontFlag},
	{ID: "i", Parent: "font", NS: NSSpreadsheet, Name: "i", Tag: tagItalic, Start: (*stylesReader).fontFlag},
	{ID: "strike", Parent: "font", NS: NSSpreadsheet, Name: "strike", Tag: tagStrike, Start: (*stylesReader).fontFlag},
	{ID: "u", Parent: "font", NS: NSSpreadsheet, Name: "u", Start: (*stylesReader).underline},
	{ID: "vertAlign", Parent: "font", NS: NSSpreadsheet, Name: "vertAlign", Start: (*stylesReader).vertAlign},
	{ID: "sz", Parent: "font", NS: NSSpreadsheet, Name: "sz", Start: (*stylesReader).fontSize},
	{ID: "name", Parent: "font", NS: NSSpreadsheet, Name: "name", Start: (*stylesReader).fontName},
	{ID: "rFont", Parent: "font", NS: NSSpreadsheet, Name: "rFont", Ref: "name"},
	{ID: "fontColor", Parent: "font", NS: NSSpreadsheet, Name: "color", Start: (*stylesReader).fontColor},

	{ID: "fills", Parent: "styleSheet", NS: NSSpreadsheet, Name: "fills", Start: (*stylesReader).fills},
	{ID: "fill", Parent: "fills", NS: NSSpreadsheet, Name: "fill", Start: (*stylesReader).fillStart, End: (*stylesReader).fillEnd},
	{ID: "patternFill", Parent: "fill", NS: NSSpreadsheet, Name: "patternFill", Start: (*stylesReader).patternFill},
	{ID: "fgColor", Parent: "patternFill", NS: NSSpreadsheet, Name: "fgColor", Tag: tagFg, Start: (*stylesReader).fillColor},
	{ID: "bgColor", Parent: "patternFill", NS: NSSpreadsheet, Name: "bgColor", Tag: tagBg, Start: (*stylesReader).fillColor},
	{ID: "gradientFill", Parent: "fill", NS: NSSpreadsheet, Name: "gradientFill", Opaque: true},

	{ID: "borders", Parent: "styleSheet", NS: NSSpreadsheet, Name: "borders", Start: (*stylesReader).borders},
	{ID: "border", Parent: "borders", NS: NSSpreadsheet, Name: "border", Start: (*stylesReader).borderStart, End: (*stylesReader).borderEnd},
	{ID: "left", Parent: "border", NS: NSSpreadsheet, Name: "left", Tag: tagLeft, Start: (*stylesReader).edge},
	{ID: "start", Parent: "border", NS: NSSpreadsheet, Name: "start", Ref: "left"},
	{ID: "right", Parent: "border", NS: NSSpreadsheet, Name: "right", Tag: tagRight, Ref: "left"},
	{ID: "end", Parent: "border", NS: NSSpreadsheet, Name: "end", Tag: tagRight, Ref: "left"},
	{ID: "top", Parent: "border", NS: NSSpreadsheet, Name: "top", Tag: tagTop, Ref: "left"},
	{ID: "bottom", Parent: "border", NS: NSSpreadsheet, Name: "bottom", Tag: tagBottom, Ref: "left"},
	{ID: "diagonal", Parent: "border", NS: NSSpreadsheet, Name: "diagonal", Tag: tagDiagonal, Ref: "left"},
	{ID: "vertical", Parent: "border", NS: NSSpreadsheet, Name: "vertical", Opaque: true},
	{ID: "horizontal", Parent: "border", NS: NSSpreadsheet, Name: "horizontal", Opaque: true},
	{ID: "edgeColor", Parent: "left", NS: NSSpreadsheet, Name: "color", Start: (*stylesReader).edgeColor},

	{ID: "cellStyleXfs", Parent: "styleSheet", NS: NSSpreadsheet, Name: "cellStyleXfs", Start: (*stylesReader).xfs},
	{ID: "xf", Parent: "cellStyleXfs", NS: NSSpreadsheet, Name: "xf", Tag: tagStyleXf, Start: (*stylesReader).xfStart, End: (*stylesReader).xfEnd},
	{ID: "alignment", Parent: "xf", NS: NSSpreadsheet, Name: "alignment", Start: (*stylesReader).alignment},
	{ID: "protection", Parent: "xf", NS: NSSpreadsheet, Name: "protection", Start: (*stylesReader).protection},
	{ID: "xfExt", Parent: "xf", NS: NSSpreadsheet, Name: "extLst", Opaque: true},
	{ID: "cellXfs", Parent: "styleSheet", NS: NSSpreadsheet, Name: "cellXfs", Start: (*stylesReader).xfs},
	{ID: "cellXf", Parent: "cellXfs", NS: NSSpreadsheet, Name: "xf", Tag: tagCellXf, Ref: "xf"},

	{ID: "cellStyles", Parent: "styleSheet", NS: NSSpreadsheet, Name: "cellStyles", Opaque: true},

	{ID: "dxfs", Parent: "styleSheet", NS: NSSpreadsheet, Name: "dxfs", Start: (*stylesReader).dxfs},
	{ID: "dxf", Parent: "dxfs", NS: NSSpreadsheet, Name: "dxf", Start: (*stylesReader).dxfStart, End: (*stylesReader).dxfEnd},
	{ID: "dxfFont", Parent: "dxf", NS: NSSpreadsheet, Name: "font", Ref: "font"},
	{ID: "dxfFill", Parent: "dxf", NS: NSSpreadsheet, Name: "fill", Ref: "fill"},
	{ID: "dxfBorder", Parent: "dxf", NS: NSSpreadsheet, Name: "border", Ref: "border"},
	{ID: "dxfNumFmt", Parent: "dxf", NS: NSSpreadsheet, Name: "numFmt", Ref: "numFmt"},
	{ID: "dxfAlignment", Parent: "dxf", NS: NSSpreadsheet, Name: "alignment", Ref: "alignment"},
	{ID: "dxfProtection", Parent: "dxf", NS: NSSpreadsheet, Name: "protection", Ref: "protection"},
	{ID: "dxfExt", Parent: "dxf", NS: NSSpreadsheet, Name: "extLst", Opaque: true},

	{ID: "colors", Parent: "styleSheet", NS: NSSpreadsheet, Name: "colors"},
	{ID: "indexedColors", Parent: "colors", NS: NSSpreadsheet, Name: "indexedColors"},
	{ID: "rgbColor", Parent: "indexedColors", NS: NSSpreadsheet, Name: "rgbColor", Start: (*stylesReader).rgbColor},
	{ID: "mruColors", Parent: "colors", NS: NSSpreadsheet, Name: "mruColors", Opaque: true},

	{ID: "tableStyles", Parent: "styleSheet", NS: NSSpreadsheet, Name: "tableStyles", Opaque: true},
	{ID: "styleExt", Parent: "styleSheet", NS: NSSpreadsheet, Name: "extLst", Opaque: true},
}, ignore[*stylesReader]("font", NSSpreadsheet,
	"family", "scheme", "charset", "outline", "shadow", "condense", "extend")...))

// ignore declares silently accepted leaf elements.
func ignore[S any](parent string, ns NS, names ...string) []Node[S] {
	nodes := make([]Node[S], len(names))
	for i, name := range names {
		nodes[i] = Node[S]{ID: parent + "/" + name, Parent: parent, NS: ns, Name: name, Opaque: true}
	}
	return nodes
}

// ReadStyles parses a styles part into t.
func ReadStyles(c *Context, t *Tables, r io.Reader) error {
	return Parse(stylesGrammar, &stylesReader{Context: c, t: t}, c, r)
}

// countHint returns the capacity hinted by a count attribute.
func (c *Context) countHint(attrs []xml.Attr) int {
	n := 0
	for _, a := range attrs {
		c.AttrInt(a, "count", &n)
	}
	return capHint(n)
}

// Color resolves the color attributes shared by every color element:
// auto, rgb, indexed, theme and tint.
func (t *Tables) Color(c *Context, attrs []xml.Attr) (models.Color, bool) {
	var (
		col  models.Color
		ok   bool
		tint float64
	)
	for _, a := range attrs {
		var (
			auto bool
			idx  int
		)
		switch {
		case c.AttrBool(a, "auto", &auto):
			if auto {
				col, ok = models.ColorBlack, true
			}
		case c.AttrColor(a, "rgb", &col):
			ok = true
		case c.AttrInt(a, "indexed", &idx):
			col, ok = t.IndexedColor(c, idx), true
		case c.AttrInt(a, "theme", &idx):
			col, ok = t.ThemeColor(c, idx), true
		case c.AttrFloat(a, "tint", &tint):
		}
	}
	if !ok {
		return 0, false
	}
	return applyTint(col, tint), true
}

func (s *stylesReader) numFmt(attrs []xml.Attr) {
	id, code := -1, ""
	for _, a := range attrs {
		_ = s.AttrInt(a, "numFmtId", &id) || AttrString(a, "formatCode", &code)
	}
	if s.dxf != nil {
		s.dxf.NumFmt = &code
		return
	}
	if id < 0 {
		s.Warnf("Missing numFmtId")
		return
	}
	s.t.NumFmts[id] = code
}

func (s *stylesReader) fonts(attrs []xml.Attr) {
	s.t.Fonts = make([]*models.Font, 0, s.countHint(attrs))
}

func (s *stylesReader) fontStart(_ []xml.Attr) {
	s.font = &models.Font{}
}

func (s *stylesReader) fontEnd(_ string) {
	if s.dxf != nil {
		s.dxf.Font = s.font
	} else {
		s.t.Fonts = append(s.t.Fonts, s.font)
	}
	s.font = nil
}

// flag decodes an element whose presence means true unless val says otherwise.
func (s *stylesReader) flag(attrs []xml.Attr) *bool {
	v := true
	for _, a := range attrs {
		s.AttrBool(a, "val", &v)
	}
	return &v
}

func (s *stylesReader) fontFlag(attrs []xml.Attr) {
	v := s.flag(attrs)
	switch s.Tag() {
	case tagBold:
		s.font.Bold = v
	case tagItalic:
		s.font.Italic = v
	case tagStrike:
		s.font.Strike = v
	}
}

func (s *stylesReader) underline(attrs []xml.Attr) {
	u := models.UnderlineSingle
	for _, a := range attrs {
		AttrEnum(s.Context, a, "val", underlines, &u)
	}
	s.font.Underline = &u
}

func (s *stylesReader) vertAlign(attrs []xml.Attr) {
	for _, a := range attrs {
		var v models.Script
		if AttrEnum(s.Context, a, "val", scripts, &v) {
			s.font.Script = &v
		}
	}
}

func (s *stylesReader) fontSize(attrs []xml.Attr) {
	for _, a := range attrs {
		var v float64
		if s.AttrFloat(a, "val", &v) {
			s.font.Size = &v
		}
	}
}

func (s *stylesReader) fontName(attrs []xml.Attr) {
	for _, a := range attrs {
		var v string
		if AttrString(a, "val", &v) {
			s.font.Name = &v
		}
	}
}

func (s *stylesReader) fontColor(attrs []xml.Attr) {
	if col, ok := s.t.Color(s.Context, attrs); ok {
		s.font.Color = &col
	}
}

func (s *stylesReader) fills(attrs []xml.Attr) {
	s.t.Fills = make([]*models.Fill, 0, s.countHint(attrs))
}

func (s *stylesReader) fillStart(_ []xml.Attr) {
	s.fill = &models.Fill{}
}

// fillEnd stores the fill. Differential solid fills carry their color in
// bgColor; it is moved to Fg so every solid fill reads the same way.
func (s *stylesReader) fillEnd(_ string) {
	f := s.fill
	s.fill = nil
	if s.dxf == nil {
		s.t.Fills = append(s.t.Fills, f)
		return
	}
	if (f.Pattern == nil || *f.Pattern == models.PatternSolid) && f.Bg != nil {
		f.Fg, f.Bg = f.Bg, nil
		f.Pattern = models.Ptr(models.PatternSolid)
	}
	s.dxf.Fill = f
}

func (s *stylesReader) patternFill(attrs []xml.Attr) {
	for _, a := range attrs {
		var p models.Pattern
		if AttrEnum(s.Context, a, "patternType", patterns, &p) {
			s.fill.Pattern = &p
		}
	}
}

func (s *stylesReader) fillColor(attrs []xml.Attr) {
	col, ok := s.t.Color(s.Context, attrs)
	if !ok {
		return
	}
	if s.Tag() == tagFg {
		s.fill.Fg = &col
	} else {
		s.fill.Bg = &col
	}
}

func (s *stylesReader) borders(attrs []xml.Attr) {
	s.t.Borders = make([]*models.Border, 0, s.countHint(attrs))
}

func (s *stylesReader) borderStart(attrs []xml.Attr) {
	s.border = &models.Border{}
	for _, a := range attrs {
		var v bool
		switch {
		case s.AttrBool(a, "diagonalUp", &v):
			s.border.DiagonalUp = &v
		case s.AttrBool(a, "diagonalDown", &v):
			s.border.DiagonalDown = &v
		}
	}
}

func (s *stylesReader) borderEnd(_ string) {
	if s.dxf != nil {
		s.dxf.Border = s.border
	} else {
		s.t.Borders = append(s.t.Borders, s.border)
	}
	s.border = nil
}

// edge reads one border edge. Edges without a style are left unset.
func (s *stylesReader) edge(attrs []xml.Attr) {
	s.line = nil
	var style models.BorderStyle
	for _, a := range attrs {
		AttrEnum(s.Context, a, "style", borderKinds, &style)
	}
	if style == "" {
		return
	}
	s.line = &models.BorderLine{Style: style}
	switch s.Tag() {
	case tagLeft:
		s.border.Left = s.line
	case tagRight:
		s.border.Right = s.line
	case tagTop:
		s.border.Top = s.line
	case tagBottom:
		s.border.Bottom = s.line
	case tagDiagonal:
		s.border.Diagonal = s.line
	}
}

func (s *stylesReader) edgeColor(attrs []xml.Attr) {
	if s.line == nil {
		return
	}
	if col, ok := s.t.Color(s.Context, attrs); ok {
		s.line.Color = &col
	}
}

func (s *stylesReader) xfs(attrs []xml.Attr) {
	list := make([]*models.Style, 0, s.countHint(attrs))
	if s.Element() == "cellStyleXfs" {
		s.t.CellStyleXfs = list
	} else {
		s.t.CellXfs = list
	}
}

// xfStart builds a format from the records it references. A cell format
// starts from its parent named style.
func (s *stylesReader) xfStart(attrs []xml.Attr) {
	numFmt, font, fill, border, parent := -1, -1, -1, -1, -1
	for _, a := range attrs {
		_ = s.AttrInt(a, "numFmtId", &numFmt) ||
			s.AttrInt(a, "fontId", &font) ||
			s.AttrInt(a, "fillId", &fill) ||
			s.AttrInt(a, "borderId", &border) ||
			s.AttrInt(a, "xfId", &parent)
	}

	st := &models.Style{}
	if s.Tag() == tagCellXf && parent >= 0 {
		if p := record(s.Context, s.t.CellStyleXfs, parent, "cellStyleXf"); p != nil {
			st = p.Clone()
		}
	}
	if font >= 0 {
		if f := record(s.Context, s.t.Fonts, font, "font"); f != nil {
			st.Font = f
		}
	}
	if fill >= 0 {
		if f := record(s.Context, s.t.Fills, fill, "fill"); f != nil {
			st.Fill = f
		}
	}
	if border >= 0 {
		if b := record(s.Context, s.t.Borders, border, "border"); b != nil {
			st.Border = b
		}
	}
	if numFmt > 0 {
		code := s.t.NumFmt(s.Context, numFmt)
		st.NumFmt = &code
	} else if numFmt == 0 {
		st.NumFmt = nil
	}
	s.xf = st
}

func (s *stylesReader) xfEnd(_ string) {
	if s.Tag() == tagCellXf {
		s.t.CellXfs = append(s.t.CellXfs, s.xf)
	} else {
		s.t.CellStyleXfs = append(s.t.CellStyleXfs, s.xf)
	}
	s.xf = nil
}

// target returns the format receiving alignment and protection.
func (s *stylesReader) target() *models.Style {
	if s.dxf != nil {
		return s.dxf
	}
	return s.xf
}

func (s *stylesReader) alignment(attrs []xml.Attr) {
	al := &models.Alignment{}
	for _, a := range attrs {
		var (
			h models.HAlign
			v models.VAlign
			b bool
			n int
		)
		switch {
		case AttrEnum(s.Context, a, "horizontal", hAligns, &h):
			al.Horizontal = &h
		case AttrEnum(s.Context, a, "vertical", vAligns, &v):
			al.Vertical = &v
		case s.AttrBool(a, "wrapText", &b):
			al.WrapText = &b
		case s.AttrBool(a, "shrinkToFit", &b):
			al.ShrinkToFit = &b
		case s.AttrInt(a, "indent", &n):
			al.Indent = &n
		case s.AttrInt(a, "textRotation", &n):
			al.Rotation = &n
		}
	}
	s.target().Alignment = al
}

func (s *stylesReader) protection(attrs []xml.Attr) {
	p := &models.Protection{}
	for _, a := range attrs {
		var b bool
		switch {
		case s.AttrBool(a, "locked", &b):
			p.Locked = &b
		case s.AttrBool(a, "hidden", &b):
			p.Hidden = &b
		}
	}
	s.target().Protection = p
}

func (s *stylesReader) dxfs(attrs []xml.Attr) {
	s.t.Dxfs = make([]*models.Style, 0, s.countHint(attrs))
}

func (s *stylesReader) dxfStart(_ []xml.Attr) {
	s.dxf = &models.Style{}
}

func (s *stylesReader) dxfEnd(_ string) {
	s.t.Dxfs = append(s.t.Dxfs, s.dxf)
	s.dxf = nil
}

func (s *stylesReader) rgbColor(attrs []xml.Attr) {
	col := models.ColorBlack
	for _, a := range attrs {
		s.AttrColor(a, "rgb", &col)
	}
	s.t.Palette = append(s.t.Palette, col)
}
