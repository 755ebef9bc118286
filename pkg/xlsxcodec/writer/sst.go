package writer

// SharedStrings is the shared string table of a package being written.
type SharedStrings struct {
	table *Interner[string]
}

// NewSharedStrings creates an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{table: NewInterner[string]()}
}

// Index returns the index of s, adding it on first use.
func (t *SharedStrings) Index(s string) int {
	return t.table.Intern(s)
}

// Len returns the number of unique strings.
func (t *SharedStrings) Len() int { return t.table.Len() }

// Refs returns the number of cells referring to the table.
func (t *SharedStrings) Refs() int { return t.table.Refs() }

// Bytes renders the shared strings part.
func (t *SharedStrings) Bytes() []byte {
	x := newXMLWriter()
	x.OTag("sst")
	x.Attr("xmlns", nsMain)
	x.AttrInt("count", t.Refs())
	x.AttrInt("uniqueCount", t.Len())
	for _, s := range t.table.Items() {
		x.OTag("si")
		writeT(x, "t", s)
		x.CTag()
	}
	x.CTag()
	return x.Bytes()
}

// writeT writes a text element, preserving edge whitespace.
func writeT(x *xmlWriter, name, s string) {
	x.OTag(name)
	if needsPreserve(s) {
		x.Attr("xml:space", "preserve")
	}
	x.Text(s)
	x.CTag()
}
