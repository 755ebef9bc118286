package writer

import (
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// schemeOrder is the element order of a:clrScheme.
var schemeOrder = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// writeTheme renders a theme part. Slots missing from th come from the
// default theme; the font and format schemes are the minimal valid ones.
func writeTheme(th *models.Theme) []byte {
	def := models.DefaultTheme()
	if th == nil {
		th = def
	}
	name := th.Name
	if name == "" {
		name = def.Name
	}

	x := newXMLWriter()
	x.OTag("a:theme")
	x.Attr("xmlns:a", nsDrawing)
	x.Attr("name", name)
	x.OTag("a:themeElements")

	x.OTag("a:clrScheme")
	x.Attr("name", name)
	for _, slot := range schemeOrder {
		col, ok := th.Colors[slot]
		if !ok {
			col = def.Colors[slot]
		}
		x.OTag("a:" + slot)
		x.Elem("a:srgbClr", "val", col.RGBHex())
		x.CTag()
	}
	x.CTag()

	x.OTag("a:fontScheme")
	x.Attr("name", "Office")
	for _, f := range []struct{ name, face string }{{"a:majorFont", "Cambria"}, {"a:minorFont", "Calibri"}} {
		x.OTag(f.name)
		x.Elem("a:latin", "typeface", f.face)
		x.Elem("a:ea", "typeface", "")
		x.Elem("a:cs", "typeface", "")
		x.CTag()
	}
	x.CTag()

	x.OTag("a:fmtScheme")
	x.Attr("name", "Office")
	x.OTag("a:fillStyleLst")
	for range 3 {
		x.OTag("a:solidFill")
		x.Elem("a:schemeClr", "val", "phClr")
		x.CTag()
	}
	x.CTag()
	x.OTag("a:lnStyleLst")
	for _, w := range []string{"9525", "25400", "38100"} {
		x.OTag("a:ln")
		x.Attr("w", w)
		x.OTag("a:solidFill")
		x.Elem("a:schemeClr", "val", "phClr")
		x.CTag()
		x.CTag()
	}
	x.CTag()
	x.OTag("a:effectStyleLst")
	for range 3 {
		x.OTag("a:effectStyle")
		x.Elem("a:effectLst")
		x.CTag()
	}
	x.CTag()
	x.OTag("a:bgFillStyleLst")
	for range 3 {
		x.OTag("a:solidFill")
		x.Elem("a:schemeClr", "val", "phClr")
		x.CTag()
	}
	x.CTag()
	x.CTag()

	x.CTag()
	x.CTag()
	return x.Bytes()
}
