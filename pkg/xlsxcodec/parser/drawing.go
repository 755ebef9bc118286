package parser

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// PresetGeomMap maps OOXML preset geometry names to human-readable type labels.
var PresetGeomMap = map[string]string{
	"flowChartProcess":           "AutoShape-FlowchartProcess",
	"flowChartDecision":          "AutoShape-FlowchartDecision",
	"flowChartTerminator":        "AutoShape-FlowchartTerminator",
	"flowChartData":              "AutoShape-FlowchartData",
	"flowChartDocument":          "AutoShape-FlowchartDocument",
	"flowChartMultidocument":     "AutoShape-FlowchartMultidocument",
	"flowChartPredefinedProcess": "AutoShape-FlowchartPredefinedProcess",
	"flowChartInternalStorage":   "AutoShape-FlowchartInternalStorage",
	"flowChartPreparation":       "AutoShape-FlowchartPreparation",
	"flowChartManualInput":       "AutoShape-FlowchartManualInput",
	"flowChartManualOperation":   "AutoShape-FlowchartManualOperation",
	"flowChartConnector":         "AutoShape-FlowchartConnector",
	"flowChartOffpageConnector":  "AutoShape-FlowchartOffpageConnector",
	"rect":                       "AutoShape-Rectangle",
	"roundRect":                  "AutoShape-RoundedRectangle",
	"ellipse":                    "AutoShape-Oval",
	"diamond":                    "AutoShape-Diamond",
	"triangle":                   "AutoShape-IsoscelesTriangle",
	"rightArrow":                 "AutoShape-RightArrow",
	"leftArrow":                  "AutoShape-LeftArrow",
	"upArrow":                    "AutoShape-UpArrow",
	"downArrow":                  "AutoShape-DownArrow",
	"straightConnector1":         "Line",
	"bentConnector2":             "AutoShape-Connector",
	"bentConnector3":             "AutoShape-Connector",
	"bentConnector4":             "AutoShape-Connector",
	"bentConnector5":             "AutoShape-Connector",
	"curvedConnector2":           "AutoShape-Connector",
	"curvedConnector3":           "AutoShape-Connector",
	"curvedConnector4":           "AutoShape-Connector",
	"curvedConnector5":           "AutoShape-Connector",
	"line":                       "Line",
	"textBox":                    "TextBox",
}

// arrowHeads are the line end types of a:headEnd and a:tailEnd.
var arrowHeads = enumOf("none", "triangle", "stealth", "diamond", "oval", "arrow")

// Tags of the drawing grammar.
const (
	tagFrom = iota + 1
	tagTo
	tagCol
	tagColOff
	tagRow
	tagRowOff
	tagConnector
	tagHead
	tagTail
)

// Anchor field bits reported by the incomplete anchor warning. The to
// fields use the same bits shifted by four.
const (
	bitCol = 1 << iota
	bitColOff
	bitRow
	bitRowOff
)

// drawnShape holds a shape until the ids of the drawing are assigned.
type drawnShape struct {
	shape       models.Shape
	excelID     string
	isConnector bool
	startCxnID  string
	endCxnID    string
	prst        string
	textBox     bool
	flipH       bool
	flipV       bool
}

// ChartRef is a chart frame found in a drawing.
type ChartRef struct {
	// RelID is the relationship id of the chart part.
	RelID  string
	Name   string
	Anchor models.Anchor
}

// DrawingResult carries the objects of a drawing part.
type DrawingResult struct {
	Shapes []models.Shape
	// Charts are the chart frames, for the caller to load.
	Charts []ChartRef
}

// drawingReader is the state of a drawing part.
type drawingReader struct {
	*Context
	t *Tables

	anchor  models.Anchor
	mask    int
	hasPos  bool
	hasExt  bool
	objects int
	pending []drawnShape
	frames  []ChartRef

	shape *drawnShape
	// frame is the name and chart id of the graphic frame being read.
	frame    *ChartRef
	txt      textBuffer
	finished []drawnShape
	charts   []ChartRef
}

var drawingGrammar = Compile("drawing", append(append(append([]Node[*drawingReader]{
	{ID: "wsDr", Parent: Root, NS: NSSheetDrawing, Name: "wsDr"},
	{ID: "twoCellAnchor", Parent: "wsDr", NS: NSSheetDrawing, Name: "twoCellAnchor",
		Start: (*drawingReader).anchorStart, End: (*drawingReader).anchorEnd},
	{ID: "oneCellAnchor", Parent: "wsDr", NS: NSSheetDrawing, Name: "oneCellAnchor", Ref: "twoCellAnchor"},
	{ID: "absoluteAnchor", Parent: "wsDr", NS: NSSheetDrawing, Name: "absoluteAnchor", Ref: "twoCellAnchor"},

	{ID: "from", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "from", Tag: tagFrom},
	{ID: "col", Parent: "from", NS: NSSheetDrawing, Name: "col", Tag: tagCol, Content: ContentText, End: (*drawingReader).offsetField},
	{ID: "colOff", Parent: "from", NS: NSSheetDrawing, Name: "colOff", Tag: tagColOff, Ref: "col"},
	{ID: "row", Parent: "from", NS: NSSheetDrawing, Name: "row", Tag: tagRow, Ref: "col"},
	{ID: "rowOff", Parent: "from", NS: NSSheetDrawing, Name: "rowOff", Tag: tagRowOff, Ref: "col"},
	{ID: "to", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "to", Tag: tagTo, Ref: "from"},
	{ID: "pos", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "pos", Start: (*drawingReader).pos},
	{ID: "ext", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "ext", Start: (*drawingReader).ext},
	{ID: "clientData", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "clientData", Opaque: true},

	{ID: "sp", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "sp", Start: (*drawingReader).shapeStart, End: (*drawingReader).shapeEnd},
	{ID: "cxnSp", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "cxnSp", Tag: tagConnector, Ref: "sp"},
	{ID: "nvSpPr", Parent: "sp", NS: NSSheetDrawing, Name: "nvSpPr"},
	{ID: "nvCxnSpPr", Parent: "sp", NS: NSSheetDrawing, Name: "nvCxnSpPr", Ref: "nvSpPr"},
	{ID: "cNvPr", Parent: "nvSpPr", NS: NSSheetDrawing, Name: "cNvPr", Start: (*drawingReader).cNvPr, Opaque: true},
	{ID: "cNvSpPr", Parent: "nvSpPr", NS: NSSheetDrawing, Name: "cNvSpPr", Start: (*drawingReader).cNvSpPr, Opaque: true},
	{ID: "cNvCxnSpPr", Parent: "nvSpPr", NS: NSSheetDrawing, Name: "cNvCxnSpPr", Opaque: true},
	{ID: "stCxn", Parent: "cNvCxnSpPr", NS: NSDrawing, Name: "stCxn", Start: (*drawingReader).connection},
	{ID: "endCxn", Parent: "cNvCxnSpPr", NS: NSDrawing, Name: "endCxn", Start: (*drawingReader).connection},
	{ID: "xfrm", Parent: "spPr", NS: NSDrawing, Name: "xfrm", Start: (*drawingReader).xfrm},
	{ID: "xfrmOff", Parent: "xfrm", NS: NSDrawing, Name: "off", Start: (*drawingReader).xfrmOff},
	{ID: "xfrmExt", Parent: "xfrm", NS: NSDrawing, Name: "ext", Start: (*drawingReader).xfrmExt},
	{ID: "prstGeom", Parent: "spPr", NS: NSDrawing, Name: "prstGeom", Start: (*drawingReader).prstGeom, Opaque: true},
	{ID: "headEnd", Parent: "spPr/ln", NS: NSDrawing, Name: "headEnd", Tag: tagHead, Start: (*drawingReader).arrow},
	{ID: "tailEnd", Parent: "spPr/ln", NS: NSDrawing, Name: "tailEnd", Tag: tagTail, Ref: "headEnd"},
	{ID: "style", Parent: "sp", NS: NSSheetDrawing, Name: "style", Opaque: true},

	{ID: "grpSp", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "grpSp"},
	{ID: "nvGrpSpPr", Parent: "grpSp", NS: NSSheetDrawing, Name: "nvGrpSpPr", Opaque: true},
	{ID: "grpSpPr", Parent: "grpSp", NS: NSSheetDrawing, Name: "grpSpPr", Opaque: true},
	{ID: "grpSp/sp", Parent: "grpSp", NS: NSSheetDrawing, Name: "sp", Ref: "sp"},
	{ID: "grpSp/cxnSp", Parent: "grpSp", NS: NSSheetDrawing, Name: "cxnSp", Tag: tagConnector, Ref: "sp"},
	{ID: "grpSp/grpSp", Parent: "grpSp", NS: NSSheetDrawing, Name: "grpSp", Ref: "grpSp"},
	{ID: "grpSp/pic", Parent: "grpSp", NS: NSSheetDrawing, Name: "pic", Opaque: true},
	{ID: "grpSp/graphicFrame", Parent: "grpSp", NS: NSSheetDrawing, Name: "graphicFrame", Opaque: true},

	{ID: "graphicFrame", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "graphicFrame",
		Start: (*drawingReader).frameStart, End: (*drawingReader).frameEnd},
	{ID: "nvGraphicFramePr", Parent: "graphicFrame", NS: NSSheetDrawing, Name: "nvGraphicFramePr", Opaque: true},
	{ID: "frameCNvPr", Parent: "nvGraphicFramePr", NS: NSSheetDrawing, Name: "cNvPr", Ref: "cNvPr"},
	{ID: "frameXfrm", Parent: "graphicFrame", NS: NSSheetDrawing, Name: "xfrm", Opaque: true},
	{ID: "graphic", Parent: "graphicFrame", NS: NSDrawing, Name: "graphic"},
	{ID: "graphicData", Parent: "graphic", NS: NSDrawing, Name: "graphicData", Opaque: true},
	{ID: "chart", Parent: "graphicData", NS: NSChart, Name: "chart", Start: (*drawingReader).chart},

	{ID: "pic", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "pic", Start: (*drawingReader).object, Opaque: true},
	{ID: "contentPart", Parent: "twoCellAnchor", NS: NSSheetDrawing, Name: "contentPart", Start: (*drawingReader).object, Opaque: true},
}, spPrNodes[*drawingReader]("spPr", "sp", NSSheetDrawing)...),
	textNodes[*drawingReader]("txBody", "sp", NSSheetDrawing, "txBody")...),
	ignore[*drawingReader]("wsDr", NSSheetDrawing, "extLst")...))

// ReadDrawing parses the drawing part of sheet.
func ReadDrawing(c *Context, t *Tables, sheet *models.Sheet, r io.Reader) (DrawingResult, error) {
	c.Sheet = sheet.Name
	defer func() { c.Sheet = "" }()
	s := &drawingReader{Context: c, t: t}
	if err := Parse(drawingGrammar, s, c, r); err != nil {
		return DrawingResult{}, err
	}
	assignShapeIDs(s.finished)
	res := DrawingResult{Charts: s.charts}
	for _, ds := range s.finished {
		res.Shapes = append(res.Shapes, ds.shape)
	}
	return res, nil
}

func (s *drawingReader) context() *Context { return s.Context }

func (s *drawingReader) theme() *models.Theme { return s.t.Theme }

func (s *drawingReader) shapeStyle() *models.ShapeStyle {
	if s.shape == nil {
		return nil
	}
	if s.shape.shape.Style == nil {
		s.shape.shape.Style = &models.ShapeStyle{}
	}
	return s.shape.shape.Style
}

func (s *drawingReader) text(run string, para bool) {
	s.txt.add(run, para)
}

func (s *drawingReader) anchorStart(attrs []xml.Attr) {
	s.anchor = models.Anchor{}
	switch s.Element() {
	case "oneCellAnchor":
		s.anchor.Type = models.AnchorOneCell
	case "absoluteAnchor":
		s.anchor.Type = models.AnchorAbsolute
	default:
		s.anchor.Type = models.AnchorTwoCell
		for _, a := range attrs {
			AttrString(a, "editAs", &s.anchor.EditAs)
		}
	}
	s.mask, s.hasPos, s.hasExt, s.objects = 0, false, false, 0
	s.pending, s.frames = s.pending[:0], s.frames[:0]
}

// complete reports whether every field the anchor type requires was read.
func (s *drawingReader) complete() bool {
	switch s.anchor.Type {
	case models.AnchorOneCell:
		return s.mask&0x0F == 0x0F && s.hasExt
	case models.AnchorAbsolute:
		return s.hasPos && s.hasExt
	}
	return s.mask == 0xFF
}

func (s *drawingReader) anchorEnd(_ string) {
	switch {
	case !s.complete():
		s.Warnf("Dropping object with incomplete anchor %02x", s.mask)
		return
	case s.objects == 0:
		s.Warnf("Dropping missing object")
		return
	}
	for _, ds := range s.pending {
		ds.shape.Anchor = s.anchor
		s.finished = append(s.finished, ds)
	}
	for _, f := range s.frames {
		f.Anchor = s.anchor
		s.charts = append(s.charts, f)
	}
}

func (s *drawingReader) offsetField(text string) {
	off := &s.anchor.From
	shift := 0
	if s.ParentTag() == tagTo {
		off, shift = &s.anchor.To, 4
	}
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		s.Warnf("Invalid integer '%s' for %s", text, s.Element())
		return
	}
	switch s.Tag() {
	case tagCol:
		off.Col = int(v)
		s.mask |= bitCol << shift
	case tagColOff:
		off.ColOff = v
		s.mask |= bitColOff << shift
	case tagRow:
		off.Row = int(v)
		s.mask |= bitRow << shift
	case tagRowOff:
		off.RowOff = v
		s.mask |= bitRowOff << shift
	}
}

func (s *drawingReader) pos(attrs []xml.Attr) {
	for _, a := range attrs {
		if s.AttrInt64(a, "x", &s.anchor.Pos.X) || s.AttrInt64(a, "y", &s.anchor.Pos.Y) {
			s.hasPos = true
		}
	}
}

func (s *drawingReader) ext(attrs []xml.Attr) {
	for _, a := range attrs {
		if s.AttrInt64(a, "cx", &s.anchor.Ext.Cx) || s.AttrInt64(a, "cy", &s.anchor.Ext.Cy) {
			s.hasExt = true
		}
	}
}

func (s *drawingReader) object(_ []xml.Attr) {
	s.objects++
}

func (s *drawingReader) shapeStart(_ []xml.Attr) {
	s.objects++
	s.shape = &drawnShape{isConnector: s.Tag() == tagConnector}
	s.txt.reset()
}

func (s *drawingReader) shapeEnd(_ string) {
	ds := s.shape
	s.shape = nil
	ds.shape.Text = strings.TrimSpace(s.txt.String())
	ds.shape.Geometry = ds.prst
	ds.shape.Type = typeLabel(ds.prst, ds.shape.Name, ds.textBox)
	ds.isConnector = ds.isConnector || isConnectorShape(ds.prst, ds.shape.Type)
	ds.shape.Connector = ds.isConnector
	if ds.isConnector {
		w, h := ds.shape.W, ds.shape.H
		if ds.flipH {
			w = -w
		}
		if ds.flipV {
			h = -h
		}
		ds.shape.Direction = computeDirection(w, h)
	}
	if ds.shape.Style.IsEmpty() {
		ds.shape.Style = nil
	}
	s.pending = append(s.pending, *ds)
}

// typeLabel names a shape after its preset geometry, falling back to
// the shape name.
func typeLabel(prst, name string, textBox bool) string {
	switch {
	case textBox:
		return "TextBox"
	case prst != "":
		if label, ok := PresetGeomMap[prst]; ok {
			return label
		}
		return "AutoShape-" + prst
	case name != "":
		return name
	}
	return "Unknown"
}

func (s *drawingReader) cNvPr(attrs []xml.Attr) {
	for _, a := range attrs {
		switch {
		case s.frame != nil:
			AttrString(a, "name", &s.frame.Name)
		case s.shape != nil:
			_ = AttrString(a, "id", &s.shape.excelID) || AttrString(a, "name", &s.shape.shape.Name)
		}
	}
}

func (s *drawingReader) cNvSpPr(attrs []xml.Attr) {
	for _, a := range attrs {
		s.AttrBool(a, "txBox", &s.shape.textBox)
	}
}

func (s *drawingReader) connection(attrs []xml.Attr) {
	for _, a := range attrs {
		if s.Element() == "stCxn" {
			AttrString(a, "id", &s.shape.startCxnID)
		} else {
			AttrString(a, "id", &s.shape.endCxnID)
		}
	}
}

func (s *drawingReader) xfrm(attrs []xml.Attr) {
	sh := s.shape
	for _, a := range attrs {
		var rot int64
		switch {
		case s.AttrInt64(a, "rot", &rot):
			deg := float64(rot) / 60000.0
			if math.Abs(deg) >= 1e-6 {
				sh.shape.Rotation = &deg
			}
		case s.AttrBool(a, "flipH", &sh.flipH):
		case s.AttrBool(a, "flipV", &sh.flipV):
		}
	}
}

func (s *drawingReader) xfrmOff(attrs []xml.Attr) {
	for _, a := range attrs {
		var v int64
		switch {
		case s.AttrInt64(a, "x", &v):
			s.shape.shape.L = models.EMUToPixels(v)
		case s.AttrInt64(a, "y", &v):
			s.shape.shape.T = models.EMUToPixels(v)
		}
	}
}

func (s *drawingReader) xfrmExt(attrs []xml.Attr) {
	for _, a := range attrs {
		var v int64
		switch {
		case s.AttrInt64(a, "cx", &v):
			s.shape.shape.W = models.EMUToPixels(v)
		case s.AttrInt64(a, "cy", &v):
			s.shape.shape.H = models.EMUToPixels(v)
		}
	}
}

func (s *drawingReader) prstGeom(attrs []xml.Attr) {
	for _, a := range attrs {
		AttrString(a, "prst", &s.shape.prst)
	}
}

func (s *drawingReader) arrow(attrs []xml.Attr) {
	for _, a := range attrs {
		var kind string
		if AttrEnum(s.Context, a, "type", arrowHeads, &kind) {
			if s.Tag() == tagHead {
				s.shape.shape.BeginArrow = kind
			} else {
				s.shape.shape.EndArrow = kind
			}
		}
	}
}

func (s *drawingReader) frameStart(_ []xml.Attr) {
	s.objects++
	s.frame = &ChartRef{}
}

func (s *drawingReader) frameEnd(_ string) {
	if s.frame.RelID != "" {
		s.frames = append(s.frames, *s.frame)
	}
	s.frame = nil
}

func (s *drawingReader) chart(attrs []xml.Attr) {
	for _, a := range attrs {
		if AttrNS(a, NSDocRel, "id") {
			s.frame.RelID = a.Value
		}
	}
}

// computeDirection computes compass direction from connector dimensions.
func computeDirection(width, height int) string {
	if width == 0 && height == 0 {
		return ""
	}

	angle := math.Atan2(float64(-height), float64(width)) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	switch {
	case angle >= 337.5 || angle < 22.5:
		return "E"
	case angle >= 22.5 && angle < 67.5:
		return "NE"
	case angle >= 67.5 && angle < 112.5:
		return "N"
	case angle >= 112.5 && angle < 157.5:
		return "NW"
	case angle >= 157.5 && angle < 202.5:
		return "W"
	case angle >= 202.5 && angle < 247.5:
		return "SW"
	case angle >= 247.5 && angle < 292.5:
		return "S"
	default:
		return "SE"
	}
}

// isConnectorShape checks if a shape is a connector or line. Flowchart
// connectors are closed shapes.
func isConnectorShape(prst, typeLabel string) bool {
	if strings.HasPrefix(prst, "flowChart") {
		return false
	}
	lower := strings.ToLower(prst)
	for _, kw := range []string{"connector", "line"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return strings.Contains(typeLabel, "Line") || strings.Contains(typeLabel, "Connector")
}

// assignShapeIDs assigns sequential IDs to shapes and resolves connector endpoints.
func assignShapeIDs(results []drawnShape) {
	excelIDToNodeID := make(map[string]int)
	nodeIndex := 0

	// First pass: assign IDs to non-connector shapes
	for i := range results {
		if !results[i].isConnector && results[i].excelID != "" {
			nodeIndex++
			id := nodeIndex
			results[i].shape.ID = &id
			excelIDToNodeID[results[i].excelID] = nodeIndex
		}
	}

	// Second pass: resolve connector endpoints
	for i := range results {
		if !results[i].isConnector {
			continue
		}
		if nodeID, ok := excelIDToNodeID[results[i].startCxnID]; ok {
			results[i].shape.BeginID = &nodeID
		}
		if nodeID, ok := excelIDToNodeID[results[i].endCxnID]; ok {
			results[i].shape.EndID = &nodeID
		}
	}
}
