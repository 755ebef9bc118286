package writer

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// chartFrame is a chart placed in a drawing, linked by relationship id.
type chartFrame struct {
	chart *models.Chart
	relID string
}

// writeDrawing renders the drawing part of a sheet. Objects get cNvPr ids
// in order; connector endpoints are remapped to the written ids.
func writeDrawing(shapes []models.Shape, frames []chartFrame) []byte {
	x := newXMLWriter()
	x.OTag("xdr:wsDr")
	x.Attr("xmlns:xdr", nsSheetDrawing)
	x.Attr("xmlns:a", nsDrawing)

	nextID := 1
	ids := make(map[int]int)
	objIDs := make([]int, len(shapes))
	for i, sh := range shapes {
		nextID++
		objIDs[i] = nextID
		if sh.ID != nil && !sh.Connector {
			ids[*sh.ID] = nextID
		}
	}

	for i := range shapes {
		sh := &shapes[i]
		openAnchor(x, sh.Anchor)
		if sh.Connector {
			writeConnector(x, sh, objIDs[i], ids)
		} else {
			writeShape(x, sh, objIDs[i])
		}
		closeAnchor(x)
	}
	for _, f := range frames {
		nextID++
		openAnchor(x, f.chart.Anchor)
		writeFrame(x, f, nextID)
		closeAnchor(x)
	}

	x.CTag()
	return x.Bytes()
}

func openAnchor(x *xmlWriter, a models.Anchor) {
	switch a.Type {
	case models.AnchorOneCell:
		x.OTag("xdr:oneCellAnchor")
		writeOffset(x, "xdr:from", a.From)
		x.Elem("xdr:ext", "cx", strconv.FormatInt(a.Ext.Cx, 10), "cy", strconv.FormatInt(a.Ext.Cy, 10))
	case models.AnchorAbsolute:
		x.OTag("xdr:absoluteAnchor")
		x.Elem("xdr:pos", "x", strconv.FormatInt(a.Pos.X, 10), "y", strconv.FormatInt(a.Pos.Y, 10))
		x.Elem("xdr:ext", "cx", strconv.FormatInt(a.Ext.Cx, 10), "cy", strconv.FormatInt(a.Ext.Cy, 10))
	default:
		x.OTag("xdr:twoCellAnchor")
		if a.EditAs != "" {
			x.Attr("editAs", a.EditAs)
		}
		writeOffset(x, "xdr:from", a.From)
		writeOffset(x, "xdr:to", a.To)
	}
}

func closeAnchor(x *xmlWriter) {
	x.Elem("xdr:clientData")
	x.CTag()
}

func writeOffset(x *xmlWriter, name string, o models.CellOffset) {
	x.OTag(name)
	x.TextElem("xdr:col", strconv.Itoa(o.Col))
	x.TextElem("xdr:colOff", strconv.FormatInt(o.ColOff, 10))
	x.TextElem("xdr:row", strconv.Itoa(o.Row))
	x.TextElem("xdr:rowOff", strconv.FormatInt(o.RowOff, 10))
	x.CTag()
}

func writeShape(x *xmlWriter, sh *models.Shape, id int) {
	x.OTag("xdr:sp")
	x.Attr("macro", "")
	x.Attr("textlink", "")
	x.OTag("xdr:nvSpPr")
	writeCNvPr(x, id, sh.Name)
	x.OTag("xdr:cNvSpPr")
	if sh.Type == "TextBox" {
		x.AttrBool("txBox", true)
	}
	x.CTag()
	x.CTag()

	x.OTag("xdr:spPr")
	writeXfrm(x, sh, false, false)
	writeGeometry(x, sh.Geometry)
	writeFillLine(x, sh.Style, lineEnds{})
	x.CTag()

	if sh.Text != "" {
		x.OTag("xdr:txBody")
		x.Elem("a:bodyPr")
		x.Elem("a:lstStyle")
		writeParagraphs(x, sh.Text)
		x.CTag()
	}
	x.CTag()
}

// writeConnector writes a cxnSp. The direction is encoded in the flips:
// a westward heading flips horizontally, a northward one vertically.
func writeConnector(x *xmlWriter, sh *models.Shape, id int, ids map[int]int) {
	x.OTag("xdr:cxnSp")
	x.Attr("macro", "")
	x.OTag("xdr:nvCxnSpPr")
	writeCNvPr(x, id, sh.Name)
	x.OTag("xdr:cNvCxnSpPr")
	if sh.BeginID != nil {
		if to, ok := ids[*sh.BeginID]; ok {
			x.Elem("a:stCxn", "id", strconv.Itoa(to), "idx", "0")
		}
	}
	if sh.EndID != nil {
		if to, ok := ids[*sh.EndID]; ok {
			x.Elem("a:endCxn", "id", strconv.Itoa(to), "idx", "0")
		}
	}
	x.CTag()
	x.CTag()

	x.OTag("xdr:spPr")
	writeXfrm(x, sh, strings.Contains(sh.Direction, "W"), strings.Contains(sh.Direction, "N"))
	geom := sh.Geometry
	if geom == "" {
		geom = "straightConnector1"
	}
	writeGeometry(x, geom)
	writeFillLine(x, sh.Style, lineEnds{head: sh.BeginArrow, tail: sh.EndArrow})
	x.CTag()
	x.CTag()
}

func writeCNvPr(x *xmlWriter, id int, name string) {
	x.Elem("xdr:cNvPr", "id", strconv.Itoa(id), "name", name)
}

func writeXfrm(x *xmlWriter, sh *models.Shape, flipH, flipV bool) {
	x.OTag("a:xfrm")
	if sh.Rotation != nil {
		x.AttrInt64("rot", int64(math.Round(*sh.Rotation*60000)))
	}
	if flipH {
		x.AttrBool("flipH", true)
	}
	if flipV {
		x.AttrBool("flipV", true)
	}
	x.Elem("a:off", "x", strconv.FormatInt(models.PixelsToEMU(sh.L), 10), "y", strconv.FormatInt(models.PixelsToEMU(sh.T), 10))
	x.Elem("a:ext", "cx", strconv.FormatInt(models.PixelsToEMU(abs(sh.W)), 10), "cy", strconv.FormatInt(models.PixelsToEMU(abs(sh.H)), 10))
	x.CTag()
}

func writeGeometry(x *xmlWriter, prst string) {
	if prst == "" {
		return
	}
	x.OTag("a:prstGeom")
	x.Attr("prst", prst)
	x.Elem("a:avLst")
	x.CTag()
}

func writeFrame(x *xmlWriter, f chartFrame, id int) {
	x.OTag("xdr:graphicFrame")
	x.Attr("macro", "")
	x.OTag("xdr:nvGraphicFramePr")
	writeCNvPr(x, id, f.chart.Name)
	x.Elem("xdr:cNvGraphicFramePr")
	x.CTag()
	x.OTag("xdr:xfrm")
	x.Elem("a:off", "x", "0", "y", "0")
	x.Elem("a:ext", "cx", "0", "cy", "0")
	x.CTag()
	x.OTag("a:graphic")
	x.OTag("a:graphicData")
	x.Attr("uri", nsChart)
	x.Elem("c:chart", "xmlns:c", nsChart, "xmlns:r", nsDocRel, "r:id", f.relID)
	x.CTag()
	x.CTag()
	x.CTag()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
