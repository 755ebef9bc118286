package parser

import (
	"encoding/xml"
	"io"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// themeReader is the state of a theme part.
type themeReader struct {
	*Context
	theme *models.Theme
	slot  string
}

var themeGrammar = Compile("theme", append([]Node[*themeReader]{
	{ID: "theme", Parent: Root, NS: NSDrawing, Name: "theme", Start: (*themeReader).themeStart},
	{ID: "themeElements", Parent: "theme", NS: NSDrawing, Name: "themeElements"},
	{ID: "clrScheme", Parent: "themeElements", NS: NSDrawing, Name: "clrScheme"},
	{ID: "dk1", Parent: "clrScheme", NS: NSDrawing, Name: "dk1", Start: (*themeReader).slotStart, Opaque: true},
	{ID: "srgbClr", Parent: "dk1", NS: NSDrawing, Name: "srgbClr", Start: (*themeReader).srgbClr, Opaque: true},
	{ID: "sysClr", Parent: "dk1", NS: NSDrawing, Name: "sysClr", Start: (*themeReader).sysClr, Opaque: true},
	{ID: "fontScheme", Parent: "themeElements", NS: NSDrawing, Name: "fontScheme", Opaque: true},
	{ID: "fmtScheme", Parent: "themeElements", NS: NSDrawing, Name: "fmtScheme", Opaque: true},
	{ID: "themeExt", Parent: "themeElements", NS: NSDrawing, Name: "extLst", Opaque: true},
	{ID: "objectDefaults", Parent: "theme", NS: NSDrawing, Name: "objectDefaults", Opaque: true},
	{ID: "extraClrSchemeLst", Parent: "theme", NS: NSDrawing, Name: "extraClrSchemeLst", Opaque: true},
	{ID: "custClrLst", Parent: "theme", NS: NSDrawing, Name: "custClrLst", Opaque: true},
	{ID: "extLst", Parent: "theme", NS: NSDrawing, Name: "extLst", Opaque: true},
}, slotNodes()...))

// slotNodes declares every color scheme slot but dk1 as an alias of dk1.
func slotNodes() []Node[*themeReader] {
	var nodes []Node[*themeReader]
	for _, name := range models.ThemeColorNames {
		if name == "dk1" {
			continue
		}
		nodes = append(nodes, Node[*themeReader]{ID: name, Parent: "clrScheme", NS: NSDrawing, Name: name, Ref: "dk1"})
	}
	return nodes
}

// ReadTheme parses a theme part.
func ReadTheme(c *Context, r io.Reader) (*models.Theme, error) {
	s := &themeReader{Context: c, theme: &models.Theme{Colors: make(map[string]models.Color)}}
	if err := Parse(themeGrammar, s, c, r); err != nil {
		return nil, err
	}
	return s.theme, nil
}

func (s *themeReader) themeStart(attrs []xml.Attr) {
	for _, a := range attrs {
		AttrString(a, "name", &s.theme.Name)
	}
}

func (s *themeReader) slotStart(_ []xml.Attr) {
	s.slot = s.Element()
}

func (s *themeReader) srgbClr(attrs []xml.Attr) {
	for _, a := range attrs {
		var col models.Color
		if s.AttrColor(a, "val", &col) {
			s.theme.Colors[s.slot] = col
		}
	}
}

// sysClr uses the last computed value of a system color.
func (s *themeReader) sysClr(attrs []xml.Attr) {
	for _, a := range attrs {
		var col models.Color
		if s.AttrColor(a, "lastClr", &col) {
			s.theme.Colors[s.slot] = col
		}
	}
}
