package writer

import (
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/numfmt"
)

// xfRecord is one cellXfs entry. Category ids are -1 when the category is
// not set, so only set categories are written and flagged as applied.
type xfRecord struct {
	NumFmt     int
	Font       int
	Fill       int
	Border     int
	Alignment  *models.Alignment
	Protection *models.Protection
}

var defaultXf = xfRecord{NumFmt: -1, Font: -1, Fill: -1, Border: -1}

type customNumFmt struct {
	id   int
	code string
}

// Styles holds the deduplicated style tables of a package being written.
type Styles struct {
	numFmts map[string]int
	custom  []customNumFmt
	fonts   *Interner[models.Font]
	fills   *Interner[models.Fill]
	borders *Interner[models.Border]
	xfs     *Interner[xfRecord]
	dxfs    *Interner[models.Style]

	// xfCache and dxfCache skip hashing for styles shared by pointer.
	xfCache  map[*models.Style]int
	dxfCache map[*models.Style]int
}

// NewStyles creates the tables with their predefined entries: the default
// font, the none and gray125 fills, the empty border and the default xf.
func NewStyles() *Styles {
	s := &Styles{
		numFmts:  make(map[string]int),
		fonts:    NewInterner[models.Font](),
		fills:    NewInterner[models.Fill](),
		borders:  NewInterner[models.Border](),
		xfs:      NewInterner[xfRecord](),
		dxfs:     NewInterner[models.Style](),
		xfCache:  make(map[*models.Style]int),
		dxfCache: make(map[*models.Style]int),
	}
	s.fonts.Intern(*models.DefaultFont())
	s.fills.Intern(models.Fill{Pattern: models.Ptr(models.PatternNone)})
	s.fills.Intern(models.Fill{Pattern: models.Ptr(models.PatternGray125)})
	s.borders.Intern(models.Border{})
	s.xfs.Intern(defaultXf)
	return s
}

// NumFmtID returns the id of a format code. Built-in codes keep their id;
// custom codes are numbered from 164 in order of first use.
func (s *Styles) NumFmtID(code string) int {
	if id, ok := numfmt.BuiltinID(code); ok {
		return id
	}
	if id, ok := s.numFmts[code]; ok {
		return id
	}
	id := numfmt.CustomBase + len(s.custom)
	s.numFmts[code] = id
	s.custom = append(s.custom, customNumFmt{id: id, code: code})
	return id
}

// Xf returns the cellXfs index of st. A nil or empty style is the default 0.
func (s *Styles) Xf(st *models.Style) int {
	if st.IsEmpty() {
		return 0
	}
	if i, ok := s.xfCache[st]; ok {
		return i
	}
	rec := defaultXf
	if st.NumFmt != nil {
		rec.NumFmt = s.NumFmtID(*st.NumFmt)
	}
	if st.Font != nil {
		rec.Font = s.fonts.Intern(*st.Font)
	}
	if st.Fill != nil {
		rec.Fill = s.fills.Intern(*st.Fill)
	}
	if st.Border != nil {
		rec.Border = s.borders.Intern(*st.Border)
	}
	rec.Alignment = st.Alignment
	rec.Protection = st.Protection
	i := s.xfs.Intern(rec)
	s.xfCache[st] = i
	return i
}

// Dxf returns the dxfs index of a differential format.
func (s *Styles) Dxf(st *models.Style) int {
	if i, ok := s.dxfCache[st]; ok {
		return i
	}
	var rec models.Style
	if st != nil {
		rec = *st
	}
	if rec.NumFmt != nil {
		s.NumFmtID(*rec.NumFmt)
	}
	i := s.dxfs.Intern(rec)
	s.dxfCache[st] = i
	return i
}

// StyleCounts reports the size of each table.
type StyleCounts struct {
	NumFmts int `json:"num_fmts"`
	Fonts   int `json:"fonts"`
	Fills   int `json:"fills"`
	Borders int `json:"borders"`
	CellXfs int `json:"cell_xfs"`
	Dxfs    int `json:"dxfs"`
}

// Counts returns the table sizes, custom number formats only.
func (s *Styles) Counts() StyleCounts {
	return StyleCounts{
		NumFmts: len(s.custom),
		Fonts:   s.fonts.Len(),
		Fills:   s.fills.Len(),
		Borders: s.borders.Len(),
		CellXfs: s.xfs.Len(),
		Dxfs:    s.dxfs.Len(),
	}
}

// Bytes renders the styles part.
func (s *Styles) Bytes() []byte {
	x := newXMLWriter()
	x.OTag("styleSheet")
	x.Attr("xmlns", nsMain)

	if len(s.custom) > 0 {
		x.OTag("numFmts")
		x.AttrInt("count", len(s.custom))
		for _, f := range s.custom {
			x.Elem("numFmt", "numFmtId", itoa(f.id), "formatCode", f.code)
		}
		x.CTag()
	}

	x.OTag("fonts")
	x.AttrInt("count", s.fonts.Len())
	for _, f := range s.fonts.Items() {
		writeFont(x, &f)
	}
	x.CTag()

	x.OTag("fills")
	x.AttrInt("count", s.fills.Len())
	for _, f := range s.fills.Items() {
		writeFill(x, &f, false)
	}
	x.CTag()

	x.OTag("borders")
	x.AttrInt("count", s.borders.Len())
	for _, b := range s.borders.Items() {
		writeBorder(x, &b)
	}
	x.CTag()

	x.OTag("cellStyleXfs")
	x.AttrInt("count", 1)
	x.Elem("xf", "numFmtId", "0", "fontId", "0", "fillId", "0", "borderId", "0")
	x.CTag()

	x.OTag("cellXfs")
	x.AttrInt("count", s.xfs.Len())
	for i, rec := range s.xfs.Items() {
		if i == 0 {
			x.Elem("xf", "numFmtId", "0", "fontId", "0", "fillId", "0", "borderId", "0", "xfId", "0")
			continue
		}
		writeXf(x, rec)
	}
	x.CTag()

	x.OTag("cellStyles")
	x.AttrInt("count", 1)
	x.Elem("cellStyle", "name", "Normal", "xfId", "0", "builtinId", "0")
	x.CTag()

	if s.dxfs.Len() > 0 {
		x.OTag("dxfs")
		x.AttrInt("count", s.dxfs.Len())
		for _, d := range s.dxfs.Items() {
			s.writeDxf(x, &d)
		}
		x.CTag()
	}

	x.CTag()
	return x.Bytes()
}

func writeXf(x *xmlWriter, rec xfRecord) {
	x.OTag("xf")
	for _, f := range []struct {
		id    int
		attr  string
		apply string
	}{
		{rec.NumFmt, "numFmtId", "applyNumberFormat"},
		{rec.Font, "fontId", "applyFont"},
		{rec.Fill, "fillId", "applyFill"},
		{rec.Border, "borderId", "applyBorder"},
	} {
		if f.id >= 0 {
			x.AttrInt(f.attr, f.id)
			x.Attr(f.apply, "1")
		}
	}
	if rec.Alignment != nil {
		x.Attr("applyAlignment", "1")
	}
	if rec.Protection != nil {
		x.Attr("applyProtection", "1")
	}
	if rec.Alignment != nil {
		writeAlignment(x, rec.Alignment)
	}
	if rec.Protection != nil {
		writeProtection(x, rec.Protection)
	}
	x.CTag()
}

// writeDxf writes a differential format. Solid fills carry their color in
// bgColor there.
func (s *Styles) writeDxf(x *xmlWriter, st *models.Style) {
	x.OTag("dxf")
	if st.Font != nil {
		writeFont(x, st.Font)
	}
	if st.NumFmt != nil {
		x.Elem("numFmt", "numFmtId", itoa(s.NumFmtID(*st.NumFmt)), "formatCode", *st.NumFmt)
	}
	if st.Fill != nil {
		writeFill(x, st.Fill, true)
	}
	if st.Alignment != nil {
		writeAlignment(x, st.Alignment)
	}
	if st.Border != nil {
		writeBorder(x, st.Border)
	}
	if st.Protection != nil {
		writeProtection(x, st.Protection)
	}
	x.CTag()
}

func writeFont(x *xmlWriter, f *models.Font) {
	x.OTag("font")
	if f.Bold != nil {
		x.ValBool("b", *f.Bold)
	}
	if f.Italic != nil {
		x.ValBool("i", *f.Italic)
	}
	if f.Strike != nil {
		x.ValBool("strike", *f.Strike)
	}
	if f.Underline != nil {
		x.Val("u", string(*f.Underline))
	}
	if f.Script != nil {
		x.Val("vertAlign", string(*f.Script))
	}
	if f.Size != nil {
		x.ValFloat("sz", *f.Size)
	}
	if f.Color != nil {
		x.Elem("color", "rgb", f.Color.Hex())
	}
	if f.Name != nil {
		x.Val("name", *f.Name)
	}
	x.CTag()
}

func writeFill(x *xmlWriter, f *models.Fill, differential bool) {
	x.OTag("fill")
	x.OTag("patternFill")
	if f.Pattern != nil {
		x.Attr("patternType", string(*f.Pattern))
	}
	solid := f.Pattern == nil || *f.Pattern == models.PatternSolid
	if differential && solid && f.Fg != nil {
		x.Elem("bgColor", "rgb", f.Fg.Hex())
	} else {
		if f.Fg != nil {
			x.Elem("fgColor", "rgb", f.Fg.Hex())
		}
		if f.Bg != nil {
			x.Elem("bgColor", "rgb", f.Bg.Hex())
		}
	}
	x.CTag()
	x.CTag()
}

func writeBorder(x *xmlWriter, b *models.Border) {
	x.OTag("border")
	if b.DiagonalUp != nil {
		x.AttrBool("diagonalUp", *b.DiagonalUp)
	}
	if b.DiagonalDown != nil {
		x.AttrBool("diagonalDown", *b.DiagonalDown)
	}
	for _, e := range []struct {
		name string
		line *models.BorderLine
	}{
		{"left", b.Left}, {"right", b.Right}, {"top", b.Top}, {"bottom", b.Bottom}, {"diagonal", b.Diagonal},
	} {
		x.OTag(e.name)
		if e.line != nil {
			x.Attr("style", string(e.line.Style))
			if e.line.Color != nil {
				x.Elem("color", "rgb", e.line.Color.Hex())
			}
		}
		x.CTag()
	}
	x.CTag()
}

func writeAlignment(x *xmlWriter, al *models.Alignment) {
	x.OTag("alignment")
	if al.Horizontal != nil {
		x.Attr("horizontal", string(*al.Horizontal))
	}
	if al.Vertical != nil {
		x.Attr("vertical", string(*al.Vertical))
	}
	if al.Rotation != nil {
		x.AttrInt("textRotation", *al.Rotation)
	}
	if al.WrapText != nil {
		x.AttrBool("wrapText", *al.WrapText)
	}
	if al.Indent != nil {
		x.AttrInt("indent", *al.Indent)
	}
	if al.ShrinkToFit != nil {
		x.AttrBool("shrinkToFit", *al.ShrinkToFit)
	}
	x.CTag()
}

func writeProtection(x *xmlWriter, p *models.Protection) {
	x.OTag("protection")
	if p.Locked != nil {
		x.AttrBool("locked", *p.Locked)
	}
	if p.Hidden != nil {
		x.AttrBool("hidden", *p.Hidden)
	}
	x.CTag()
}
