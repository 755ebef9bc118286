package parser

import (
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

const chartNS = `xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`

func readChart(t *testing.T, plotArea string) (*models.Chart, *warn.Collector) {
	t.Helper()
	sink := warn.NewCollector(0, nil)
	data := `<c:chartSpace ` + chartNS + `><c:chart>` +
		`<c:title><c:tx><c:rich><a:bodyPr/><a:p><a:r><a:t>Sales</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title>` +
		`<c:plotArea><c:layout/>` + plotArea + `</c:plotArea>` +
		`<c:legend><c:legendPos val="b"/></c:legend><c:plotVisOnly val="1"/></c:chart></c:chartSpace>`
	chart, err := ReadChart(NewContext("xl/charts/chart1.xml", sink), NewTables(), strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadChart failed: %v", err)
	}
	return chart, sink
}

const barSeries = `<c:ser><c:idx val="0"/><c:order val="0"/>` +
	`<c:tx><c:strRef><c:f>Sheet1!$B$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>Q1</c:v></c:pt></c:strCache></c:strRef></c:tx>` +
	`<c:spPr><a:solidFill><a:srgbClr val="00FF00"/></a:solidFill></c:spPr>` +
	`<c:cat><c:strRef><c:f>Sheet1!$A$2:$A$4</c:f><c:strCache><c:ptCount val="3"/>` +
	`<c:pt idx="0"><c:v>a</c:v></c:pt><c:pt idx="2"><c:v>c</c:v></c:pt></c:strCache></c:strRef></c:cat>` +
	`<c:val><c:numRef><c:f>Sheet1!$B$2:$B$4</c:f><c:numCache><c:formatCode>General</c:formatCode><c:ptCount val="3"/>` +
	`<c:pt idx="0"><c:v>1</c:v></c:pt><c:pt idx="1"><c:v>2</c:v></c:pt><c:pt idx="2"><c:v>3</c:v></c:pt></c:numCache></c:numRef></c:val>` +
	`</c:ser>`

func TestReadChartBar(t *testing.T) {
	chart, sink := readChart(t,
		`<c:barChart><c:barDir val="bar"/><c:grouping val="clustered"/><c:varyColors val="0"/>`+barSeries+
			`<c:gapWidth val="150"/><c:axId val="10"/><c:axId val="20"/></c:barChart>`+
			`<c:catAx><c:axId val="10"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/>`+
			`<c:axPos val="l"/><c:crossAx val="20"/><c:crosses val="autoZero"/></c:catAx>`+
			`<c:valAx><c:axId val="20"/><c:scaling><c:orientation val="maxMin"/><c:max val="10"/><c:min val="0"/></c:scaling>`+
			`<c:delete val="0"/><c:axPos val="b"/><c:majorGridlines/><c:numFmt formatCode="0.0" sourceLinked="0"/>`+
			`<c:crossAx val="10"/><c:crosses val="max"/><c:majorUnit val="2"/></c:valAx>`)

	if sink.Len() != 0 {
		t.Errorf("Unexpected warnings: %q", sink.Messages())
	}
	if chart.Title == nil || chart.Title.Text != "Sales" {
		t.Errorf("Title = %+v, expected Sales", chart.Title)
	}
	if chart.Legend == nil || chart.Legend.Position != "b" {
		t.Errorf("Legend = %+v, expected position b", chart.Legend)
	}
	if len(chart.Plots) != 1 {
		t.Fatalf("Expected 1 plot, got %d", len(chart.Plots))
	}
	p := chart.Plots[0]
	if p.Type != models.PlotBar || !p.Horizontal || p.VaryColors || p.Grouping != "clustered" {
		t.Errorf("plot = %+v, expected a horizontal clustered bar plot", p)
	}
	if p.GapWidth == nil || *p.GapWidth != 150 {
		t.Errorf("GapWidth = %v, expected 150", p.GapWidth)
	}

	if len(p.Series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(p.Series))
	}
	s := p.Series[0]
	if s.Name != "Q1" || s.NameRef != "Sheet1!$B$1" {
		t.Errorf("series name = %q %q, expected Q1 from Sheet1!$B$1", s.Name, s.NameRef)
	}
	if s.Style == nil || s.Style.Fill == nil || *s.Style.Fill != models.ColorGreen {
		t.Errorf("series style = %+v, expected a green fill", s.Style)
	}
	if s.Categories == nil || s.Categories.Numeric || strings.Join(s.Categories.Cache, ",") != "a,,c" {
		t.Errorf("categories = %+v, expected string cache a,,c", s.Categories)
	}
	if s.Values == nil || !s.Values.Numeric || s.Values.Formula != "Sheet1!$B$2:$B$4" || len(s.Values.Cache) != 3 {
		t.Errorf("values = %+v, expected numeric Sheet1!$B$2:$B$4 with 3 points", s.Values)
	}

	if len(chart.Axes) != 2 {
		t.Fatalf("Expected 2 axes, got %d", len(chart.Axes))
	}
	cat, val := chart.Axes[0], chart.Axes[1]
	// horizontal bars swap the roles
	if cat.Role != models.RoleY || val.Role != models.RoleX {
		t.Errorf("roles = %s %s, expected Y X", cat.Role, val.Role)
	}
	if cat.Name != "Y-Axis" || val.Name != "X-Axis" {
		t.Errorf("names = %q %q, expected Y-Axis X-Axis", cat.Name, val.Name)
	}
	if !val.Inverted || val.Max == nil || *val.Max != 10 || val.MajorGrid == nil {
		t.Errorf("value axis = %+v, expected inverted 0..10 with gridlines", val)
	}
	// the crossed category axis is not inverted, so max stays max
	if val.Cross != models.CrossMax {
		t.Errorf("value axis cross = %q, expected %q", val.Cross, models.CrossMax)
	}
	// autoZero is kept on an inverted cross axis
	if cat.Cross != models.CrossAutoZero {
		t.Errorf("category axis cross = %q, expected %q", cat.Cross, models.CrossAutoZero)
	}
	if len(p.Axes) != 2 || len(cat.Plots) != 1 || cat.Plots[0] != p {
		t.Errorf("plot axes = %d, expected a total link to both axes", len(p.Axes))
	}
}

func TestReadChartAxisLinkage(t *testing.T) {
	chart, sink := readChart(t,
		`<c:lineChart><c:grouping val="standard"/><c:axId val="1"/><c:axId val="2"/><c:axId val="99"/></c:lineChart>`+
			`<c:valAx><c:axId val="2"/><c:scaling/><c:axPos val="l"/><c:crossAx val="1"/></c:valAx>`+
			`<c:catAx><c:axId val="1"/><c:scaling/><c:axPos val="b"/><c:crossAx val="2"/></c:catAx>`+
			`<c:valAx><c:axId val="3"/><c:scaling/><c:axPos val="r"/><c:crossAx val="1"/></c:valAx>`+
			`<c:valAx><c:axId val="2"/><c:scaling/><c:axPos val="r"/></c:valAx>`)

	msgs := sink.Messages()
	expected := []string{"Duplicate axis id '2'", "Undefined axis id '99'"}
	if strings.Join(msgs, "|") != strings.Join(expected, "|") {
		t.Errorf("warnings = %q, expected %q", msgs, expected)
	}

	// unreferenced axis 3 is dropped
	if len(chart.Axes) != 2 {
		t.Fatalf("Expected 2 axes, got %d", len(chart.Axes))
	}
	p := chart.Plots[0]
	if p.Type != models.PlotLine || len(p.Axes) != 2 {
		t.Errorf("plot = %s with %d axes, expected line with 2", p.Type, len(p.Axes))
	}
	for _, a := range chart.Axes {
		if len(a.Plots) != 1 || a.Plots[0] != p {
			t.Errorf("axis %s plots = %d, expected the line plot", a.ID, len(a.Plots))
		}
	}
	if chart.Axis("1").Role != models.RoleX || chart.Axis("2").Role != models.RoleY {
		t.Errorf("roles = %s %s, expected X Y", chart.Axis("1").Role, chart.Axis("2").Role)
	}
}

func TestReadChartClampsOutOfRange(t *testing.T) {
	chart, sink := readChart(t,
		`<c:barChart><c:barDir val="col"/><c:gapWidth val="900"/><c:overlap val="-150"/></c:barChart>`)
	p := chart.Plots[0]
	if p.GapWidth == nil || *p.GapWidth != 500 {
		t.Errorf("GapWidth = %v, expected 500", p.GapWidth)
	}
	if p.Overlap == nil || *p.Overlap != -100 {
		t.Errorf("Overlap = %v, expected -100", p.Overlap)
	}
	if sink.Len() != 2 {
		t.Errorf("warnings = %q, expected 2", sink.Messages())
	}
}

func TestAxisRole(t *testing.T) {
	plot := func(typ models.PlotType, horizontal bool) *models.Plot {
		return &models.Plot{Type: typ, Horizontal: horizontal}
	}
	tests := []struct {
		name     string
		axis     models.AxisType
		pos      models.AxisPos
		plot     *models.Plot
		expected models.AxisRole
	}{
		{"column category", models.AxisCat, models.PosBottom, plot(models.PlotBar, false), models.RoleX},
		{"column value", models.AxisVal, models.PosLeft, plot(models.PlotBar, false), models.RoleY},
		{"bar category", models.AxisCat, models.PosLeft, plot(models.PlotBar, true), models.RoleY},
		{"bar value", models.AxisVal, models.PosBottom, plot(models.PlotBar, true), models.RoleX},
		{"scatter bottom", models.AxisVal, models.PosBottom, plot(models.PlotScatter, false), models.RoleX},
		{"scatter left", models.AxisVal, models.PosLeft, plot(models.PlotScatter, false), models.RoleY},
		{"radar category", models.AxisCat, models.PosBottom, plot(models.PlotRadar, false), models.RoleCircular},
		{"radar value", models.AxisVal, models.PosLeft, plot(models.PlotRadar, false), models.RoleRadial},
		{"surface series", models.AxisSer, models.PosBottom, plot(models.PlotSurface, false), models.RolePseudo3D},
		{"line date", models.AxisDate, models.PosBottom, plot(models.PlotLine, false), models.RoleX},
	}

	for _, tt := range tests {
		a := &models.Axis{Type: tt.axis, Position: tt.pos, Plots: []*models.Plot{tt.plot}}
		if got := axisRole(a); got != tt.expected {
			t.Errorf("axisRole(%s) = %s, expected %s", tt.name, got, tt.expected)
		}
	}
}

func TestFixCrossInvertedAxis(t *testing.T) {
	chart := &models.Chart{}
	crossed := &models.Axis{ID: "1", Inverted: true}
	a := &models.Axis{ID: "2", CrossAxisID: "1", Cross: models.CrossMin}
	b := &models.Axis{ID: "3", CrossAxisID: "2"}
	chart.Axes = []*models.Axis{crossed, a, b}

	fixCross(chart, a)
	fixCross(chart, b)
	if a.Cross != models.CrossMax {
		t.Errorf("cross on inverted axis = %q, expected %q", a.Cross, models.CrossMax)
	}
	if b.Cross != models.CrossAutoZero {
		t.Errorf("default cross = %q, expected %q", b.Cross, models.CrossAutoZero)
	}
}

func TestReadChartBoundsCachePoints(t *testing.T) {
	chart, sink := readChart(t,
		`<c:barChart><c:barDir val="col"/><c:ser><c:idx val="0"/><c:order val="0"/>`+
			`<c:val><c:numRef><c:f>Sheet1!$B$2:$B$3</c:f><c:numCache><c:ptCount val="2"/>`+
			`<c:pt idx="1"><c:v>7</c:v></c:pt><c:pt idx="1048575"><c:v>8</c:v></c:pt>`+
			`</c:numCache></c:numRef></c:val></c:ser></c:barChart>`)
	s := chart.Plots[0].Series[0]
	if s.Values == nil || len(s.Values.Cache) != 2 || s.Values.Cache[1] != "7" {
		t.Errorf("Values = %+v, expected a cache of 2 points", s.Values)
	}
	if sink.Len() != 1 || !strings.Contains(sink.Messages()[0], "Invalid point index 1048575") {
		t.Errorf("warnings = %q, expected one invalid point index", sink.Messages())
	}
}
