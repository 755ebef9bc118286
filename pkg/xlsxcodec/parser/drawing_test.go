package parser

import (
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

const drawingNS = `xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

func twoCell(from, to, object string) string {
	return `<xdr:twoCellAnchor>` +
		`<xdr:from><xdr:col>` + from + `</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>0</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>` +
		`<xdr:to><xdr:col>` + to + `</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>3</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>` +
		object + `<xdr:clientData/></xdr:twoCellAnchor>`
}

const testDrawing = `<xdr:wsDr ` + drawingNS + `>` +
	`{rect}{ellipse}{connector}{frame}` +
	`<xdr:oneCellAnchor><xdr:from><xdr:col>1</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>1</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>` +
	`<xdr:sp><xdr:nvSpPr><xdr:cNvPr id="9" name="Lost"/><xdr:cNvSpPr/></xdr:nvSpPr><xdr:spPr/></xdr:sp><xdr:clientData/></xdr:oneCellAnchor>` +
	`</xdr:wsDr>`

func buildTestDrawing() string {
	rect := twoCell("0", "2", `<xdr:sp><xdr:nvSpPr><xdr:cNvPr id="2" name="Rect 1"/><xdr:cNvSpPr/></xdr:nvSpPr>`+
		`<xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="1905000" cy="952500"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
		`<a:solidFill><a:srgbClr val="FF0000"/></a:solidFill><a:ln w="12700"><a:solidFill><a:schemeClr val="accent1"/></a:solidFill></a:ln></xdr:spPr>`+
		`<xdr:txBody><a:bodyPr/><a:p><a:r><a:t>Hello</a:t></a:r></a:p><a:p><a:r><a:t>World</a:t></a:r></a:p></xdr:txBody></xdr:sp>`)
	ellipse := twoCell("4", "6", `<xdr:sp><xdr:nvSpPr><xdr:cNvPr id="3" name="Oval 2"/><xdr:cNvSpPr/></xdr:nvSpPr>`+
		`<xdr:spPr><a:prstGeom prst="ellipse"/></xdr:spPr></xdr:sp>`)
	connector := twoCell("2", "4", `<xdr:cxnSp><xdr:nvCxnSpPr><xdr:cNvPr id="4" name="Connector 3"/>`+
		`<xdr:cNvCxnSpPr><a:stCxn id="2" idx="3"/><a:endCxn id="3" idx="1"/></xdr:cNvCxnSpPr></xdr:nvCxnSpPr>`+
		`<xdr:spPr><a:xfrm flipV="1"><a:off x="1905000" y="0"/><a:ext cx="952500" cy="952500"/></a:xfrm>`+
		`<a:prstGeom prst="straightConnector1"/><a:ln><a:tailEnd type="triangle"/></a:ln></xdr:spPr></xdr:cxnSp>`)
	frame := twoCell("0", "5", `<xdr:graphicFrame macro=""><xdr:nvGraphicFramePr><xdr:cNvPr id="5" name="Chart 1"/><xdr:cNvGraphicFramePr/></xdr:nvGraphicFramePr>`+
		`<xdr:xfrm/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">`+
		`<c:chart r:id="rId1"/></a:graphicData></a:graphic></xdr:graphicFrame>`)
	return strings.NewReplacer("{rect}", rect, "{ellipse}", ellipse, "{connector}", connector, "{frame}", frame).Replace(testDrawing)
}

func TestReadDrawing(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	sheet := models.NewSheet("Sheet1")
	res, err := ReadDrawing(NewContext("xl/drawings/drawing1.xml", sink), NewTables(), sheet, strings.NewReader(buildTestDrawing()))
	if err != nil {
		t.Fatalf("ReadDrawing failed: %v", err)
	}

	if len(res.Shapes) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(res.Shapes))
	}
	rect, oval, line := res.Shapes[0], res.Shapes[1], res.Shapes[2]

	if rect.Type != "AutoShape-Rectangle" || rect.Text != "Hello\nWorld" {
		t.Errorf("rect = %q %q, expected AutoShape-Rectangle with two paragraphs", rect.Type, rect.Text)
	}
	if rect.W != 200 || rect.H != 100 {
		t.Errorf("rect size = %dx%d, expected 200x100", rect.W, rect.H)
	}
	if rect.Style == nil || rect.Style.Fill == nil || *rect.Style.Fill != models.ColorRed {
		t.Errorf("rect fill = %+v, expected red", rect.Style)
	}
	if rect.Style == nil || rect.Style.Line == nil || *rect.Style.Line != models.RGB(0x4F, 0x81, 0xBD) {
		t.Errorf("rect line = %+v, expected accent1", rect.Style)
	}
	if rect.Style == nil || rect.Style.LineWidth == nil || *rect.Style.LineWidth != 12700 {
		t.Errorf("rect line width = %+v, expected 12700", rect.Style)
	}
	if got := rect.Anchor.Cells().String(); got != "A1:C4" {
		t.Errorf("rect anchor = %q, expected %q", got, "A1:C4")
	}

	if oval.Style != nil {
		t.Errorf("oval style = %+v, expected nil", oval.Style)
	}
	if rect.ID == nil || *rect.ID != 1 || oval.ID == nil || *oval.ID != 2 {
		t.Errorf("shape ids = %v %v, expected 1 and 2", rect.ID, oval.ID)
	}

	if !line.Connector || line.ID != nil {
		t.Errorf("connector = %+v, expected a connector without id", line)
	}
	if line.BeginID == nil || *line.BeginID != 1 || line.EndID == nil || *line.EndID != 2 {
		t.Errorf("connector ends = %v %v, expected 1 and 2", line.BeginID, line.EndID)
	}
	if line.EndArrow != "triangle" {
		t.Errorf("EndArrow = %q, expected %q", line.EndArrow, "triangle")
	}
	if line.Direction != "NE" {
		t.Errorf("Direction = %q, expected %q", line.Direction, "NE")
	}

	if len(res.Charts) != 1 || res.Charts[0].RelID != "rId1" || res.Charts[0].Name != "Chart 1" {
		t.Errorf("Charts = %+v, expected one frame for rId1", res.Charts)
	}

	msgs := sink.Messages()
	if len(msgs) != 1 || msgs[0] != "Sheet1 : Dropping object with incomplete anchor 0f" {
		t.Errorf("warnings = %q, expected the incomplete anchor warning", msgs)
	}
}

func TestComputeDirection(t *testing.T) {
	tests := []struct {
		width    int
		height   int
		expected string
	}{
		{100, 0, "E"},
		{0, -100, "N"},
		{0, 100, "S"},
		{-100, 0, "W"},
		{100, -100, "NE"},
		{100, 100, "SE"},
		{-100, 100, "SW"},
		{-100, -100, "NW"},
		{0, 0, ""},
	}

	for _, tt := range tests {
		result := computeDirection(tt.width, tt.height)
		if result != tt.expected {
			t.Errorf("computeDirection(%d, %d) = %q, expected %q",
				tt.width, tt.height, result, tt.expected)
		}
	}
}

func TestIsConnectorShape(t *testing.T) {
	tests := []struct {
		prst      string
		typeLabel string
		expected  bool
	}{
		{"straightConnector1", "Line", true},
		{"bentConnector3", "AutoShape-Connector", true},
		{"line", "Line", true},
		{"rect", "AutoShape-Rectangle", false},
		{"flowChartProcess", "AutoShape-FlowchartProcess", false},
		{"flowChartConnector", "AutoShape-FlowchartConnector", false},
		{"", "Line", true},
	}

	for _, tt := range tests {
		result := isConnectorShape(tt.prst, tt.typeLabel)
		if result != tt.expected {
			t.Errorf("isConnectorShape(%q, %q) = %v, expected %v",
				tt.prst, tt.typeLabel, result, tt.expected)
		}
	}
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		prst     string
		name     string
		textBox  bool
		expected string
	}{
		{"rect", "Rect 1", true, "TextBox"},
		{"flowChartDecision", "", false, "AutoShape-FlowchartDecision"},
		{"star5", "", false, "AutoShape-star5"},
		{"", "Freeform 3", false, "Freeform 3"},
		{"", "", false, "Unknown"},
	}

	for _, tt := range tests {
		if got := typeLabel(tt.prst, tt.name, tt.textBox); got != tt.expected {
			t.Errorf("typeLabel(%q, %q, %v) = %q, expected %q", tt.prst, tt.name, tt.textBox, got, tt.expected)
		}
	}
}

func TestArrowHeads(t *testing.T) {
	c := NewContext("xl/drawings/drawing1.xml", warn.Discard)
	for _, kind := range []string{"none", "triangle", "stealth", "diamond", "oval", "arrow"} {
		var got string
		if !AttrEnum(c, attr("type", kind), "type", arrowHeads, &got) || got != kind {
			t.Errorf("arrow head %q = %q, expected it to decode", kind, got)
		}
	}
}

func TestAssignShapeIDs(t *testing.T) {
	shapes := []drawnShape{
		{excelID: "10"},
		{excelID: "11"},
		{excelID: "12", isConnector: true, startCxnID: "11", endCxnID: "99"},
		{},
	}
	assignShapeIDs(shapes)

	if shapes[0].shape.ID == nil || *shapes[0].shape.ID != 1 {
		t.Errorf("shape 0 id = %v, expected 1", shapes[0].shape.ID)
	}
	if shapes[1].shape.ID == nil || *shapes[1].shape.ID != 2 {
		t.Errorf("shape 1 id = %v, expected 2", shapes[1].shape.ID)
	}
	if shapes[2].shape.BeginID == nil || *shapes[2].shape.BeginID != 2 {
		t.Errorf("connector begin = %v, expected 2", shapes[2].shape.BeginID)
	}
	if shapes[2].shape.EndID != nil {
		t.Errorf("connector end = %v, expected nil for an unknown shape", *shapes[2].shape.EndID)
	}
	if shapes[3].shape.ID != nil {
		t.Errorf("shape without excel id got id %v", *shapes[3].shape.ID)
	}
}
