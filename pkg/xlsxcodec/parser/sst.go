package parser

import (
	"encoding/xml"
	"io"
	"strings"
)

// sstReader is the state of a shared strings part.
type sstReader struct {
	*Context
	t    *Tables
	text strings.Builder
}

var sstGrammar = Compile("sst", []Node[*sstReader]{
	{ID: "sst", Parent: Root, NS: NSSpreadsheet, Name: "sst", Start: (*sstReader).sstStart},
	{ID: "si", Parent: "sst", NS: NSSpreadsheet, Name: "si", Start: (*sstReader).siStart, End: (*sstReader).siEnd},
	{ID: "t", Parent: "si", NS: NSSpreadsheet, Name: "t", Content: ContentKeep, End: (*sstReader).run},
	{ID: "r", Parent: "si", NS: NSSpreadsheet, Name: "r"},
	{ID: "rt", Parent: "r", NS: NSSpreadsheet, Name: "t", Ref: "t"},
	{ID: "rPr", Parent: "r", NS: NSSpreadsheet, Name: "rPr", Opaque: true},
	{ID: "rPh", Parent: "si", NS: NSSpreadsheet, Name: "rPh", Opaque: true},
	{ID: "phoneticPr", Parent: "si", NS: NSSpreadsheet, Name: "phoneticPr", Opaque: true},
	{ID: "extLst", Parent: "sst", NS: NSSpreadsheet, Name: "extLst", Opaque: true},
})

// ReadSharedStrings parses a shared strings part into t.Strings. Rich text
// runs are flattened and phonetic runs dropped.
func ReadSharedStrings(c *Context, t *Tables, r io.Reader) error {
	return Parse(sstGrammar, &sstReader{Context: c, t: t}, c, r)
}

func (s *sstReader) sstStart(attrs []xml.Attr) {
	n := 0
	for _, a := range attrs {
		s.AttrInt(a, "uniqueCount", &n)
	}
	s.t.Strings = make([]string, 0, capHint(n))
}

func (s *sstReader) siStart(_ []xml.Attr) {
	s.text.Reset()
}

func (s *sstReader) run(text string) {
	s.text.WriteString(text)
}

func (s *sstReader) siEnd(_ string) {
	s.t.Strings = append(s.t.Strings, s.text.String())
}
