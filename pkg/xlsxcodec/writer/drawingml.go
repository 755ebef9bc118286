package writer

import (
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// lineEnds are the arrow heads of an outline.
type lineEnds struct {
	head, tail string
}

// writeFillLine writes the fill and outline children of an spPr element.
func writeFillLine(x *xmlWriter, st *models.ShapeStyle, ends lineEnds) {
	if st != nil {
		switch {
		case st.NoFill:
			x.Elem("a:noFill")
		case st.Fill != nil:
			writeSolidFill(x, *st.Fill)
		}
	}
	hasLine := st != nil && (st.NoLine || st.Line != nil || st.LineWidth != nil)
	if !hasLine && ends.head == "" && ends.tail == "" {
		return
	}
	x.OTag("a:ln")
	if st != nil && st.LineWidth != nil {
		x.AttrInt64("w", *st.LineWidth)
	}
	if st != nil {
		switch {
		case st.NoLine:
			x.Elem("a:noFill")
		case st.Line != nil:
			writeSolidFill(x, *st.Line)
		}
	}
	if ends.head != "" {
		x.Elem("a:headEnd", "type", ends.head)
	}
	if ends.tail != "" {
		x.Elem("a:tailEnd", "type", ends.tail)
	}
	x.CTag()
}

func writeSolidFill(x *xmlWriter, col models.Color) {
	x.OTag("a:solidFill")
	x.Elem("a:srgbClr", "val", col.RGBHex())
	x.CTag()
}

// writeSpPr writes a chart spPr element, nothing when st is empty.
func writeSpPr(x *xmlWriter, name string, st *models.ShapeStyle) {
	if st.IsEmpty() {
		return
	}
	x.OTag(name)
	writeFillLine(x, st, lineEnds{})
	x.CTag()
}

// writeParagraphs writes one a:p per line of text.
func writeParagraphs(x *xmlWriter, text string) {
	for _, line := range strings.Split(text, "\n") {
		x.OTag("a:p")
		if line != "" {
			x.OTag("a:r")
			x.TextElem("a:t", line)
			x.CTag()
		}
		x.CTag()
	}
}
