package writer

import (
	"encoding/xml"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Namespaces of the written parts.
const (
	nsMain           = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsDocRel         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDrawing        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsSheetDrawing   = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	standaloneHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// xmlWriter emits one part. Tags are opened with OTag, take attributes
// until content is written, and are closed in reverse order by CTag.
type xmlWriter struct {
	b     *bytebufferpool.ByteBuffer
	stack []string
	// open is set while the last start tag still accepts attributes.
	open bool
}

func newXMLWriter() *xmlWriter {
	x := &xmlWriter{b: bytebufferpool.Get()}
	x.b.WriteString(standaloneHeader)
	return x
}

// OTag opens element name.
func (x *xmlWriter) OTag(name string) {
	x.closeStart()
	x.b.WriteByte('<')
	x.b.WriteString(name)
	x.stack = append(x.stack, name)
	x.open = true
}

// CTag closes the innermost element, self closing it when it is empty.
func (x *xmlWriter) CTag() {
	n := len(x.stack) - 1
	name := x.stack[n]
	x.stack = x.stack[:n]
	if x.open {
		x.b.WriteString("/>")
		x.open = false
		return
	}
	x.b.WriteString("</")
	x.b.WriteString(name)
	x.b.WriteByte('>')
}

func (x *xmlWriter) closeStart() {
	if x.open {
		x.b.WriteByte('>')
		x.open = false
	}
}

// Attr writes an attribute of the open start tag.
func (x *xmlWriter) Attr(name, value string) {
	x.b.WriteByte(' ')
	x.b.WriteString(name)
	x.b.WriteString(`="`)
	_ = xml.EscapeText(x.b, []byte(value))
	x.b.WriteByte('"')
}

func (x *xmlWriter) AttrInt(name string, v int) {
	x.Attr(name, strconv.Itoa(v))
}

func (x *xmlWriter) AttrInt64(name string, v int64) {
	x.Attr(name, strconv.FormatInt(v, 10))
}

func (x *xmlWriter) AttrFloat(name string, v float64) {
	x.Attr(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// AttrBool writes 1 or 0.
func (x *xmlWriter) AttrBool(name string, v bool) {
	if v {
		x.Attr(name, "1")
	} else {
		x.Attr(name, "0")
	}
}

// Text writes escaped character data into the open element.
func (x *xmlWriter) Text(s string) {
	x.closeStart()
	_ = xml.EscapeText(x.b, []byte(s))
}

// Elem writes a complete element with attribute name/value pairs.
func (x *xmlWriter) Elem(name string, attrs ...string) {
	x.OTag(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		x.Attr(attrs[i], attrs[i+1])
	}
	x.CTag()
}

// TextElem writes a complete element holding text.
func (x *xmlWriter) TextElem(name, text string) {
	x.OTag(name)
	x.Text(text)
	x.CTag()
}

// Val writes <name val="v"/>.
func (x *xmlWriter) Val(name, v string) {
	x.Elem(name, "val", v)
}

func (x *xmlWriter) ValInt(name string, v int) {
	x.Val(name, strconv.Itoa(v))
}

func (x *xmlWriter) ValFloat(name string, v float64) {
	x.Val(name, strconv.FormatFloat(v, 'g', -1, 64))
}

func (x *xmlWriter) ValBool(name string, v bool) {
	if v {
		x.Val(name, "1")
	} else {
		x.Val(name, "0")
	}
}

// Bytes closes any open element and returns the part, releasing the buffer.
func (x *xmlWriter) Bytes() []byte {
	for len(x.stack) > 0 {
		x.CTag()
	}
	out := append([]byte(nil), x.b.B...)
	bytebufferpool.Put(x.b)
	x.b = nil
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }

// needsPreserve reports whether text loses meaning when whitespace is collapsed.
func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == ' ' || first == '\t' || first == '\n' || last == ' ' || last == '\t' || last == '\n'
}
