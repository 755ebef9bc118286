package parser

import (
	"encoding/xml"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// Tags of the shape property nodes, kept clear of the grammar specific tags.
const (
	tagSolidFill = 100 + iota
	tagLineFill
	tagLine
)

// styled is a reader state whose current object takes shape properties.
type styled interface {
	context() *Context
	// shapeStyle returns the style of the current object, nil when it has none.
	shapeStyle() *models.ShapeStyle
	theme() *models.Theme
}

// texted is a reader state collecting DrawingML paragraphs.
type texted interface {
	// text receives a run of text; para is set for a paragraph break.
	text(run string, para bool)
}

// spPrNodes declares a shape property subtree rooted at id under parent.
// Other parents reach it with Ref: id.
func spPrNodes[S styled](id, parent string, ns NS) []Node[S] {
	fill := id + "/solidFill"
	return []Node[S]{
		{ID: id, Parent: parent, NS: ns, Name: "spPr", Opaque: true},
		{ID: id + "/noFill", Parent: id, NS: NSDrawing, Name: "noFill", Start: noFill[S]},
		{ID: fill, Parent: id, NS: NSDrawing, Name: "solidFill", Tag: tagSolidFill},
		{ID: fill + "/srgbClr", Parent: fill, NS: NSDrawing, Name: "srgbClr", Start: drawingColor[S], Opaque: true},
		{ID: fill + "/schemeClr", Parent: fill, NS: NSDrawing, Name: "schemeClr", Start: drawingColor[S], Opaque: true},
		{ID: fill + "/sysClr", Parent: fill, NS: NSDrawing, Name: "sysClr", Start: drawingColor[S], Opaque: true},
		{ID: fill + "/prstClr", Parent: fill, NS: NSDrawing, Name: "prstClr", Opaque: true},
		{ID: fill + "/scrgbClr", Parent: fill, NS: NSDrawing, Name: "scrgbClr", Opaque: true},
		{ID: fill + "/hslClr", Parent: fill, NS: NSDrawing, Name: "hslClr", Opaque: true},
		{ID: id + "/ln", Parent: id, NS: NSDrawing, Name: "ln", Tag: tagLine, Start: lineStart[S], Opaque: true},
		{ID: id + "/ln/noFill", Parent: id + "/ln", NS: NSDrawing, Name: "noFill", Start: noFill[S]},
		{ID: id + "/ln/solidFill", Parent: id + "/ln", NS: NSDrawing, Name: "solidFill", Tag: tagLineFill, Ref: fill},
	}
}

func noFill[S styled](s S, _ []xml.Attr) {
	st := s.shapeStyle()
	if st == nil {
		return
	}
	if s.context().ParentTag() == tagLine {
		st.NoLine = true
	} else {
		st.NoFill = true
	}
}

func lineStart[S styled](s S, attrs []xml.Attr) {
	st := s.shapeStyle()
	if st == nil {
		return
	}
	c := s.context()
	for _, a := range attrs {
		var w int64
		if c.AttrInt64(a, "w", &w) {
			st.LineWidth = &w
		}
	}
}

// drawingColor resolves srgbClr, schemeClr and sysClr into the fill or the
// outline of the current object. Color transforms are not applied.
func drawingColor[S styled](s S, attrs []xml.Attr) {
	st := s.shapeStyle()
	if st == nil {
		return
	}
	c := s.context()
	var (
		col models.Color
		ok  bool
	)
	for _, a := range attrs {
		var name string
		switch c.Element() {
		case "srgbClr":
			ok = ok || c.AttrColor(a, "val", &col)
		case "sysClr":
			ok = ok || c.AttrColor(a, "lastClr", &col)
		case "schemeClr":
			if AttrString(a, "val", &name) {
				if col, ok = s.theme().Color(name); !ok {
					c.Warnf("Unknown theme color '%s'", name)
				}
			}
		}
	}
	if !ok {
		return
	}
	if c.ParentTag() == tagLineFill {
		st.Line = &col
	} else {
		st.Fill = &col
	}
}

// textNodes declares a DrawingML text body (txBody, rich) rooted at id.
func textNodes[S texted](id, parent string, ns NS, name string) []Node[S] {
	return []Node[S]{
		{ID: id, Parent: parent, NS: ns, Name: name},
		{ID: id + "/bodyPr", Parent: id, NS: NSDrawing, Name: "bodyPr", Opaque: true},
		{ID: id + "/lstStyle", Parent: id, NS: NSDrawing, Name: "lstStyle", Opaque: true},
		{ID: id + "/p", Parent: id, NS: NSDrawing, Name: "p", Start: paragraph[S]},
		{ID: id + "/pPr", Parent: id + "/p", NS: NSDrawing, Name: "pPr", Opaque: true},
		{ID: id + "/r", Parent: id + "/p", NS: NSDrawing, Name: "r"},
		{ID: id + "/rPr", Parent: id + "/r", NS: NSDrawing, Name: "rPr", Opaque: true},
		{ID: id + "/t", Parent: id + "/r", NS: NSDrawing, Name: "t", Content: ContentKeep, End: textRun[S]},
		{ID: id + "/fld", Parent: id + "/p", NS: NSDrawing, Name: "fld", Opaque: true},
		{ID: id + "/fld/t", Parent: id + "/fld", NS: NSDrawing, Name: "t", Ref: id + "/t"},
		{ID: id + "/br", Parent: id + "/p", NS: NSDrawing, Name: "br", Start: lineBreak[S], Opaque: true},
		{ID: id + "/endParaRPr", Parent: id + "/p", NS: NSDrawing, Name: "endParaRPr", Opaque: true},
	}
}

func paragraph[S texted](s S, _ []xml.Attr) {
	s.text("", true)
}

func textRun[S texted](s S, text string) {
	s.text(text, false)
}

func lineBreak[S texted](s S, _ []xml.Attr) {
	s.text("\n", false)
}

// textBuffer joins paragraphs with newlines.
type textBuffer struct {
	b     strings.Builder
	paras int
}

func (t *textBuffer) add(run string, para bool) {
	if para {
		if t.paras > 0 {
			t.b.WriteByte('\n')
		}
		t.paras++
		return
	}
	t.b.WriteString(run)
}

func (t *textBuffer) reset() {
	t.b.Reset()
	t.paras = 0
}

func (t *textBuffer) String() string {
	return t.b.String()
}
