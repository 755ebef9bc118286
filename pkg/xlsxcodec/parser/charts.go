package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// ChartTypeMap maps OOXML chart element tags to plot types.
var ChartTypeMap = map[string]models.PlotType{
	"lineChart":      models.PlotLine,
	"line3DChart":    models.PlotLine3D,
	"barChart":       models.PlotBar,
	"bar3DChart":     models.PlotBar3D,
	"areaChart":      models.PlotArea,
	"area3DChart":    models.PlotArea3D,
	"pieChart":       models.PlotPie,
	"pie3DChart":     models.PlotPie3D,
	"doughnutChart":  models.PlotDoughnut,
	"scatterChart":   models.PlotScatter,
	"bubbleChart":    models.PlotBubble,
	"radarChart":     models.PlotRadar,
	"surfaceChart":   models.PlotSurface,
	"surface3DChart": models.PlotSurface3D,
	"stockChart":     models.PlotStock,
	"ofPieChart":     models.PlotOfPie,
}

// Tags of the chart grammar.
const (
	tagCatAx = iota + 1
	tagValAx
	tagDateAx
	tagSerAx
	tagCat
	tagVal
	tagXVal
	tagYVal
	tagBubbleSize
	tagMin
	tagMax
	tagMajor
	tagMinor
)

var (
	axisPositions = enumOf(models.PosBottom, models.PosTop, models.PosLeft, models.PosRight)
	crossModes    = enumOf(models.CrossAutoZero, models.CrossMin, models.CrossMax)
	legendPos     = enumOf("b", "t", "l", "r", "tr")
	blanksAs      = enumOf("gap", "span", "zero")
	axisTypes     = map[int]models.AxisType{
		tagCatAx:  models.AxisCat,
		tagValAx:  models.AxisVal,
		tagDateAx: models.AxisDate,
		tagSerAx:  models.AxisSer,
	}
)

// chartReader is the state of a chart part. Elements that own a shape
// style push it on styles and pop it on close.
type chartReader struct {
	*Context
	t      *Tables
	chart  *models.Chart
	axes   *axisRegistry
	styles []**models.ShapeStyle

	plot    *models.Plot
	series  *models.Series
	point   *models.DataPoint
	axis    *models.Axis
	title   *models.Title
	data    *models.DataRef
	ptIdx   int
	// ptLimit is the declared point count of the current cache, -1 if none.
	ptLimit int
	txt     textBuffer
	rich    bool
}

var chartGrammar = Compile("chart", append(append(append([]Node[*chartReader]{
	{ID: "chartSpace", Parent: Root, NS: NSChart, Name: "chartSpace", Start: (*chartReader).chartSpace},
	{ID: "roundedCorners", Parent: "chartSpace", NS: NSChart, Name: "roundedCorners", Start: (*chartReader).roundedCorners},
	{ID: "chart", Parent: "chartSpace", NS: NSChart, Name: "chart"},

	{ID: "title", Parent: "chart", NS: NSChart, Name: "title", Start: (*chartReader).titleStart, End: (*chartReader).titleEnd},
	{ID: "titleTx", Parent: "title", NS: NSChart, Name: "tx"},
	{ID: "titleStrRef", Parent: "titleTx", NS: NSChart, Name: "strRef", Opaque: true},
	{ID: "titleF", Parent: "titleStrRef", NS: NSChart, Name: "f", Content: ContentText, End: (*chartReader).titleFormula},
	{ID: "titleOverlay", Parent: "title", NS: NSChart, Name: "overlay", Start: (*chartReader).titleOverlay},
	{ID: "titleSpPr", Parent: "title", NS: NSChart, Name: "spPr", Ref: "spPr"},
	{ID: "autoTitleDeleted", Parent: "chart", NS: NSChart, Name: "autoTitleDeleted", Start: (*chartReader).autoTitleDeleted},

	{ID: "plotArea", Parent: "chart", NS: NSChart, Name: "plotArea", Start: (*chartReader).plotAreaStart, End: (*chartReader).disown},
	{ID: "plotAreaSpPr", Parent: "plotArea", NS: NSChart, Name: "spPr", Ref: "spPr"},

	{ID: "barChart", Parent: "plotArea", NS: NSChart, Name: "barChart", Start: (*chartReader).plotStart, End: (*chartReader).plotEnd},
	{ID: "barDir", Parent: "barChart", NS: NSChart, Name: "barDir", Start: (*chartReader).barDir},
	{ID: "grouping", Parent: "barChart", NS: NSChart, Name: "grouping", Start: (*chartReader).grouping},
	{ID: "varyColors", Parent: "barChart", NS: NSChart, Name: "varyColors", Start: (*chartReader).varyColors},
	{ID: "gapWidth", Parent: "barChart", NS: NSChart, Name: "gapWidth", Start: (*chartReader).plotInt},
	{ID: "overlap", Parent: "barChart", NS: NSChart, Name: "overlap", Start: (*chartReader).plotInt},
	{ID: "holeSize", Parent: "barChart", NS: NSChart, Name: "holeSize", Start: (*chartReader).plotInt},
	{ID: "firstSliceAng", Parent: "barChart", NS: NSChart, Name: "firstSliceAng", Start: (*chartReader).plotInt},
	{ID: "scatterStyle", Parent: "barChart", NS: NSChart, Name: "scatterStyle", Start: (*chartReader).plotStyle},
	{ID: "radarStyle", Parent: "barChart", NS: NSChart, Name: "radarStyle", Start: (*chartReader).plotStyle},
	{ID: "plotMarker", Parent: "barChart", NS: NSChart, Name: "marker", Start: (*chartReader).showMarker},
	{ID: "plotAxId", Parent: "barChart", NS: NSChart, Name: "axId", Start: (*chartReader).plotAxisID},

	{ID: "ser", Parent: "barChart", NS: NSChart, Name: "ser", Start: (*chartReader).seriesStart, End: (*chartReader).seriesEnd},
	{ID: "idx", Parent: "ser", NS: NSChart, Name: "idx", Start: (*chartReader).index},
	{ID: "order", Parent: "ser", NS: NSChart, Name: "order", Start: (*chartReader).order},
	{ID: "serTx", Parent: "ser", NS: NSChart, Name: "tx"},
	{ID: "serStrRef", Parent: "serTx", NS: NSChart, Name: "strRef"},
	{ID: "serF", Parent: "serStrRef", NS: NSChart, Name: "f", Content: ContentText, End: (*chartReader).seriesNameRef},
	{ID: "serStrCache", Parent: "serStrRef", NS: NSChart, Name: "strCache", Opaque: true},
	{ID: "serPt", Parent: "serStrCache", NS: NSChart, Name: "pt"},
	{ID: "serV", Parent: "serPt", NS: NSChart, Name: "v", Content: ContentKeep, End: (*chartReader).seriesName},
	{ID: "serTxV", Parent: "serTx", NS: NSChart, Name: "v", Ref: "serV"},
	{ID: "serSpPr", Parent: "ser", NS: NSChart, Name: "spPr", Ref: "spPr"},
	{ID: "smooth", Parent: "ser", NS: NSChart, Name: "smooth", Start: (*chartReader).smooth},
	{ID: "explosion", Parent: "ser", NS: NSChart, Name: "explosion", Start: (*chartReader).explosion},
	{ID: "invertIfNegative", Parent: "ser", NS: NSChart, Name: "invertIfNegative", Start: (*chartReader).invertIfNegative},

	{ID: "marker", Parent: "ser", NS: NSChart, Name: "marker", Start: (*chartReader).markerStart, End: (*chartReader).disown},
	{ID: "symbol", Parent: "marker", NS: NSChart, Name: "symbol", Start: (*chartReader).markerSymbol},
	{ID: "size", Parent: "marker", NS: NSChart, Name: "size", Start: (*chartReader).markerSize},
	{ID: "markerSpPr", Parent: "marker", NS: NSChart, Name: "spPr", Ref: "spPr"},

	{ID: "dPt", Parent: "ser", NS: NSChart, Name: "dPt", Start: (*chartReader).pointStart, End: (*chartReader).pointEnd},
	{ID: "dPtIdx", Parent: "dPt", NS: NSChart, Name: "idx", Ref: "idx"},
	{ID: "dPtMarker", Parent: "dPt", NS: NSChart, Name: "marker", Ref: "marker"},
	{ID: "dPtExplosion", Parent: "dPt", NS: NSChart, Name: "explosion", Ref: "explosion"},
	{ID: "dPtInvert", Parent: "dPt", NS: NSChart, Name: "invertIfNegative", Ref: "invertIfNegative"},
	{ID: "dPtSpPr", Parent: "dPt", NS: NSChart, Name: "spPr", Ref: "spPr"},

	{ID: "dLbls", Parent: "ser", NS: NSChart, Name: "dLbls", Start: (*chartReader).labelsStart, Opaque: true},
	{ID: "showLegendKey", Parent: "dLbls", NS: NSChart, Name: "showLegendKey", Start: (*chartReader).labelFlag},
	{ID: "showVal", Parent: "dLbls", NS: NSChart, Name: "showVal", Start: (*chartReader).labelFlag},
	{ID: "showCatName", Parent: "dLbls", NS: NSChart, Name: "showCatName", Start: (*chartReader).labelFlag},
	{ID: "showSerName", Parent: "dLbls", NS: NSChart, Name: "showSerName", Start: (*chartReader).labelFlag},
	{ID: "showPercent", Parent: "dLbls", NS: NSChart, Name: "showPercent", Start: (*chartReader).labelFlag},
	{ID: "dLblPos", Parent: "dLbls", NS: NSChart, Name: "dLblPos", Start: (*chartReader).labelPos},

	{ID: "trendline", Parent: "ser", NS: NSChart, Name: "trendline", Start: (*chartReader).trendlineStart, End: (*chartReader).disown, Opaque: true},
	{ID: "trendlineName", Parent: "trendline", NS: NSChart, Name: "name", Content: ContentKeep, End: (*chartReader).trendlineName},
	{ID: "trendlineType", Parent: "trendline", NS: NSChart, Name: "trendlineType", Start: (*chartReader).trendlineType},
	{ID: "trendlineOrder", Parent: "trendline", NS: NSChart, Name: "order", Start: (*chartReader).trendlineInt},
	{ID: "trendlinePeriod", Parent: "trendline", NS: NSChart, Name: "period", Start: (*chartReader).trendlineInt},
	{ID: "dispRSqr", Parent: "trendline", NS: NSChart, Name: "dispRSqr", Start: (*chartReader).trendlineFlag},
	{ID: "dispEq", Parent: "trendline", NS: NSChart, Name: "dispEq", Start: (*chartReader).trendlineFlag},
	{ID: "trendlineSpPr", Parent: "trendline", NS: NSChart, Name: "spPr", Ref: "spPr"},

	{ID: "cat", Parent: "ser", NS: NSChart, Name: "cat", Tag: tagCat, Start: (*chartReader).dataStart, End: (*chartReader).dataEnd},
	{ID: "val", Parent: "ser", NS: NSChart, Name: "val", Tag: tagVal, Ref: "cat"},
	{ID: "xVal", Parent: "ser", NS: NSChart, Name: "xVal", Tag: tagXVal, Ref: "cat"},
	{ID: "yVal", Parent: "ser", NS: NSChart, Name: "yVal", Tag: tagYVal, Ref: "cat"},
	{ID: "bubbleSize", Parent: "ser", NS: NSChart, Name: "bubbleSize", Tag: tagBubbleSize, Ref: "cat"},
	{ID: "numRef", Parent: "cat", NS: NSChart, Name: "numRef", Start: (*chartReader).refStart},
	{ID: "strRef", Parent: "cat", NS: NSChart, Name: "strRef", Ref: "numRef"},
	{ID: "multiLvlStrRef", Parent: "cat", NS: NSChart, Name: "multiLvlStrRef", Ref: "numRef"},
	{ID: "dataF", Parent: "numRef", NS: NSChart, Name: "f", Content: ContentText, End: (*chartReader).dataFormula},
	{ID: "numCache", Parent: "numRef", NS: NSChart, Name: "numCache"},
	{ID: "strCache", Parent: "numRef", NS: NSChart, Name: "strCache", Ref: "numCache"},
	{ID: "multiLvlStrCache", Parent: "numRef", NS: NSChart, Name: "multiLvlStrCache", Opaque: true},
	{ID: "formatCode", Parent: "numCache", NS: NSChart, Name: "formatCode", Content: ContentKeep, End: (*chartReader).formatCode},
	{ID: "ptCount", Parent: "numCache", NS: NSChart, Name: "ptCount", Start: (*chartReader).ptCount},
	{ID: "pt", Parent: "numCache", NS: NSChart, Name: "pt", Start: (*chartReader).ptStart, Opaque: true},
	{ID: "ptV", Parent: "pt", NS: NSChart, Name: "v", Content: ContentKeep, End: (*chartReader).ptValue},
	{ID: "numLit", Parent: "cat", NS: NSChart, Name: "numLit", Ref: "numCache", Start: (*chartReader).refStart},
	{ID: "strLit", Parent: "cat", NS: NSChart, Name: "strLit", Ref: "numCache", Start: (*chartReader).refStart},

	{ID: "catAx", Parent: "plotArea", NS: NSChart, Name: "catAx", Tag: tagCatAx, Start: (*chartReader).axisStart, End: (*chartReader).axisEnd},
	{ID: "valAx", Parent: "plotArea", NS: NSChart, Name: "valAx", Tag: tagValAx, Ref: "catAx"},
	{ID: "dateAx", Parent: "plotArea", NS: NSChart, Name: "dateAx", Tag: tagDateAx, Ref: "catAx"},
	{ID: "serAx", Parent: "plotArea", NS: NSChart, Name: "serAx", Tag: tagSerAx, Ref: "catAx"},
	{ID: "axId", Parent: "catAx", NS: NSChart, Name: "axId", Start: (*chartReader).axisID},
	{ID: "scaling", Parent: "catAx", NS: NSChart, Name: "scaling"},
	{ID: "logBase", Parent: "scaling", NS: NSChart, Name: "logBase", Start: (*chartReader).logBase},
	{ID: "orientation", Parent: "scaling", NS: NSChart, Name: "orientation", Start: (*chartReader).orientation},
	{ID: "max", Parent: "scaling", NS: NSChart, Name: "max", Tag: tagMax, Start: (*chartReader).bound},
	{ID: "min", Parent: "scaling", NS: NSChart, Name: "min", Tag: tagMin, Ref: "max"},
	{ID: "delete", Parent: "catAx", NS: NSChart, Name: "delete", Start: (*chartReader).axisDelete},
	{ID: "axPos", Parent: "catAx", NS: NSChart, Name: "axPos", Start: (*chartReader).axisPos},
	{ID: "majorGridlines", Parent: "catAx", NS: NSChart, Name: "majorGridlines", Tag: tagMajor, Start: (*chartReader).gridStart, End: (*chartReader).disown},
	{ID: "minorGridlines", Parent: "catAx", NS: NSChart, Name: "minorGridlines", Tag: tagMinor, Ref: "majorGridlines"},
	{ID: "gridSpPr", Parent: "majorGridlines", NS: NSChart, Name: "spPr", Ref: "spPr"},
	{ID: "axisTitle", Parent: "catAx", NS: NSChart, Name: "title", Ref: "title"},
	{ID: "numFmt", Parent: "catAx", NS: NSChart, Name: "numFmt", Start: (*chartReader).axisNumFmt},
	{ID: "majorTickMark", Parent: "catAx", NS: NSChart, Name: "majorTickMark", Tag: tagMajor, Start: (*chartReader).tickMark},
	{ID: "minorTickMark", Parent: "catAx", NS: NSChart, Name: "minorTickMark", Tag: tagMinor, Ref: "majorTickMark"},
	{ID: "tickLblPos", Parent: "catAx", NS: NSChart, Name: "tickLblPos", Start: (*chartReader).tickLabelPos},
	{ID: "axisSpPr", Parent: "catAx", NS: NSChart, Name: "spPr", Ref: "spPr"},
	{ID: "crossAx", Parent: "catAx", NS: NSChart, Name: "crossAx", Start: (*chartReader).crossAxis},
	{ID: "crosses", Parent: "catAx", NS: NSChart, Name: "crosses", Start: (*chartReader).crosses},
	{ID: "crossesAt", Parent: "catAx", NS: NSChart, Name: "crossesAt", Start: (*chartReader).crossesAt},
	{ID: "majorUnit", Parent: "catAx", NS: NSChart, Name: "majorUnit", Tag: tagMajor, Start: (*chartReader).unit},
	{ID: "minorUnit", Parent: "catAx", NS: NSChart, Name: "minorUnit", Tag: tagMinor, Ref: "majorUnit"},
	{ID: "dispUnits", Parent: "catAx", NS: NSChart, Name: "dispUnits", Opaque: true},
	{ID: "builtInUnit", Parent: "dispUnits", NS: NSChart, Name: "builtInUnit", Start: (*chartReader).builtInUnit},
	{ID: "custUnit", Parent: "dispUnits", NS: NSChart, Name: "custUnit", Start: (*chartReader).custUnit},

	{ID: "legend", Parent: "chart", NS: NSChart, Name: "legend", Start: (*chartReader).legendStart, End: (*chartReader).disown},
	{ID: "legendPos", Parent: "legend", NS: NSChart, Name: "legendPos", Start: (*chartReader).legendPos},
	{ID: "legendOverlay", Parent: "legend", NS: NSChart, Name: "overlay", Start: (*chartReader).legendOverlay},
	{ID: "legendSpPr", Parent: "legend", NS: NSChart, Name: "spPr", Ref: "spPr"},

	{ID: "plotVisOnly", Parent: "chart", NS: NSChart, Name: "plotVisOnly", Start: (*chartReader).plotVisOnly},
	{ID: "dispBlanksAs", Parent: "chart", NS: NSChart, Name: "dispBlanksAs", Start: (*chartReader).dispBlanksAs},
}, spPrNodes[*chartReader]("spPr", "chartSpace", NSChart)...),
	textNodes[*chartReader]("rich", "titleTx", NSChart, "rich")...),
	append(chartIgnored(), plotTypeNodes()...)...))

// plotTypeNodes declares every plot element as an alias of barChart.
func plotTypeNodes() []Node[*chartReader] {
	var nodes []Node[*chartReader]
	for name := range ChartTypeMap {
		if name != "barChart" {
			nodes = append(nodes, Node[*chartReader]{ID: name, Parent: "plotArea", NS: NSChart, Name: name, Ref: "barChart"})
		}
	}
	return nodes
}

// chartIgnored lists the chart elements read past without warnings.
func chartIgnored() []Node[*chartReader] {
	var nodes []Node[*chartReader]
	for _, g := range []struct {
		parent string
		names  []string
	}{
		{"chartSpace", []string{"date1904", "lang", "style", "clrMapOvr", "pivotSource", "protection", "txPr", "externalData", "printSettings", "userShapes", "extLst"}},
		{"chart", []string{"pivotFmts", "view3D", "floor", "sideWall", "backWall", "showDLblsOverMax", "extLst"}},
		{"title", []string{"layout", "txPr", "extLst"}},
		{"plotArea", []string{"layout", "dTable", "extLst"}},
		{"barChart", []string{"dLbls", "shape", "serLines", "dropLines", "hiLowLines", "upDownBars", "bubble3D", "bubbleScale",
			"showNegBubbles", "sizeRepresents", "ofPieType", "splitType", "splitPos", "custSplit", "secondPieSize",
			"wireframe", "bandFmts", "gapDepth", "extLst"}},
		{"ser", []string{"errBars", "bubble3D", "shape", "extLst"}},
		{"marker", []string{"extLst"}},
		{"dPt", []string{"bubble3D", "pictureOptions", "extLst"}},
		{"catAx", []string{"txPr", "crossBetween", "auto", "lblAlgn", "lblOffset", "noMultiLvlLbl", "tickLblSkip",
			"tickMarkSkip", "baseTimeUnit", "majorTimeUnit", "minorTimeUnit", "extLst"}},
		{"scaling", []string{"extLst"}},
		{"majorGridlines", []string{"extLst"}},
		{"legend", []string{"legendEntry", "layout", "txPr", "extLst"}},
		{"numCache", []string{"extLst"}},
	} {
		nodes = append(nodes, ignore[*chartReader](g.parent, NSChart, g.names...)...)
	}
	return nodes
}

// ReadChart parses a chart part and resolves its axes.
func ReadChart(c *Context, t *Tables, r io.Reader) (*models.Chart, error) {
	s := &chartReader{Context: c, t: t, chart: &models.Chart{}, axes: newAxisRegistry(), ptLimit: -1}
	if err := Parse(chartGrammar, s, c, r); err != nil {
		return nil, err
	}
	s.axes.resolve(c, s.chart)
	return s.chart, nil
}

func (s *chartReader) context() *Context { return s.Context }

func (s *chartReader) theme() *models.Theme { return s.t.Theme }

// shapeStyle returns the style of the innermost style owner.
func (s *chartReader) shapeStyle() *models.ShapeStyle {
	if len(s.styles) == 0 {
		return nil
	}
	p := s.styles[len(s.styles)-1]
	if *p == nil {
		*p = &models.ShapeStyle{}
	}
	return *p
}

func (s *chartReader) own(p **models.ShapeStyle) {
	s.styles = append(s.styles, p)
}

func (s *chartReader) disown(_ string) {
	if len(s.styles) > 0 {
		s.styles = s.styles[:len(s.styles)-1]
	}
}

func (s *chartReader) text(run string, para bool) {
	s.rich = true
	s.txt.add(run, para)
}

// flag decodes a chart boolean; an element without val means true.
func (s *chartReader) flag(attrs []xml.Attr) bool {
	v := true
	if a, ok := valAttr(attrs); ok {
		s.AttrBool(a, "val", &v)
	}
	return v
}

func (s *chartReader) intVal(attrs []xml.Attr) (int, bool) {
	var v int
	a, ok := valAttr(attrs)
	return v, ok && s.AttrInt(a, "val", &v)
}

func (s *chartReader) floatVal(attrs []xml.Attr) (float64, bool) {
	var v float64
	a, ok := valAttr(attrs)
	return v, ok && s.AttrFloat(a, "val", &v)
}

func strVal(attrs []xml.Attr) string {
	a, _ := valAttr(attrs)
	return a.Value
}

// clamp bounds v to lo..hi, warning when it is out of range.
func (s *chartReader) clamp(v, lo, hi int) int {
	if v < lo || v > hi {
		s.Warnf("Value %d of %s out of range %d..%d", v, s.Element(), lo, hi)
		return max(lo, min(v, hi))
	}
	return v
}

func (s *chartReader) chartSpace(_ []xml.Attr) {
	s.own(&s.chart.Style)
}

func (s *chartReader) roundedCorners(attrs []xml.Attr) {
	s.chart.RoundedCorners = s.flag(attrs)
}

func (s *chartReader) titleStart(_ []xml.Attr) {
	s.title = &models.Title{}
	if s.axis != nil {
		s.axis.Title = s.title
	} else {
		s.chart.Title = s.title
	}
	s.own(&s.title.Style)
	s.txt.reset()
	s.rich = false
}

func (s *chartReader) titleEnd(text string) {
	if s.rich {
		s.title.Text = s.txt.String()
	}
	s.title = nil
	s.disown(text)
}

func (s *chartReader) titleFormula(text string) {
	s.title.Formula = strings.TrimSpace(text)
}

func (s *chartReader) titleOverlay(attrs []xml.Attr) {
	s.title.Overlay = s.flag(attrs)
}

func (s *chartReader) autoTitleDeleted(attrs []xml.Attr) {
	s.chart.AutoTitleDeleted = s.flag(attrs)
}

func (s *chartReader) plotAreaStart(_ []xml.Attr) {
	s.own(&s.chart.PlotArea)
}

// plotStart creates the plot before any of its children are read.
func (s *chartReader) plotStart(_ []xml.Attr) {
	s.plot = &models.Plot{Type: ChartTypeMap[s.Element()], VaryColors: true}
	s.chart.Plots = append(s.chart.Plots, s.plot)
}

func (s *chartReader) plotEnd(_ string) {
	s.plot = nil
}

func (s *chartReader) barDir(attrs []xml.Attr) {
	s.plot.Horizontal = strVal(attrs) == "bar"
}

func (s *chartReader) grouping(attrs []xml.Attr) {
	s.plot.Grouping = strVal(attrs)
}

func (s *chartReader) varyColors(attrs []xml.Attr) {
	s.plot.VaryColors = s.flag(attrs)
}

func (s *chartReader) plotInt(attrs []xml.Attr) {
	v, ok := s.intVal(attrs)
	if !ok {
		return
	}
	switch s.Element() {
	case "gapWidth":
		s.plot.GapWidth = models.Ptr(s.clamp(v, 0, 500))
	case "overlap":
		s.plot.Overlap = models.Ptr(s.clamp(v, -100, 100))
	case "holeSize":
		s.plot.HoleSize = models.Ptr(s.clamp(v, 0, 100))
	case "firstSliceAng":
		s.plot.FirstSliceAngle = models.Ptr(s.clamp(v, 0, 360))
	}
}

func (s *chartReader) plotStyle(attrs []xml.Attr) {
	if s.Element() == "scatterStyle" {
		s.plot.ScatterStyle = strVal(attrs)
	} else {
		s.plot.RadarStyle = strVal(attrs)
	}
}

func (s *chartReader) showMarker(attrs []xml.Attr) {
	s.plot.ShowMarker = models.Ptr(s.flag(attrs))
}

func (s *chartReader) plotAxisID(attrs []xml.Attr) {
	if id := strVal(attrs); id != "" {
		s.axes.reference(id, s.plot)
	}
}

func (s *chartReader) seriesStart(_ []xml.Attr) {
	s.series = &models.Series{}
	s.plot.Series = append(s.plot.Series, s.series)
	s.own(&s.series.Style)
}

func (s *chartReader) seriesEnd(text string) {
	s.series = nil
	s.disown(text)
}

func (s *chartReader) index(attrs []xml.Attr) {
	v, ok := s.intVal(attrs)
	switch {
	case !ok:
	case s.point != nil:
		s.point.Index = v
	default:
		s.series.Index = v
	}
}

func (s *chartReader) order(attrs []xml.Attr) {
	if v, ok := s.intVal(attrs); ok {
		s.series.Order = v
	}
}

func (s *chartReader) seriesNameRef(text string) {
	s.series.NameRef = strings.TrimSpace(text)
}

func (s *chartReader) seriesName(text string) {
	s.series.Name = text
}

func (s *chartReader) smooth(attrs []xml.Attr) {
	s.series.Smooth = models.Ptr(s.flag(attrs))
}

func (s *chartReader) explosion(attrs []xml.Attr) {
	v, ok := s.intVal(attrs)
	switch {
	case !ok:
	case s.point != nil:
		s.point.Explosion = &v
	default:
		s.series.Explosion = &v
	}
}

func (s *chartReader) invertIfNegative(attrs []xml.Attr) {
	v := s.flag(attrs)
	if s.point != nil {
		s.point.InvertIfNegative = &v
	} else {
		s.series.InvertIfNegative = &v
	}
}

func (s *chartReader) markerStart(_ []xml.Attr) {
	m := &models.Marker{}
	if s.point != nil {
		s.point.Marker = m
	} else {
		s.series.Marker = m
	}
	s.own(&m.Style)
}

func (s *chartReader) marker() *models.Marker {
	if s.point != nil {
		return s.point.Marker
	}
	return s.series.Marker
}

func (s *chartReader) markerSymbol(attrs []xml.Attr) {
	s.marker().Symbol = strVal(attrs)
}

func (s *chartReader) markerSize(attrs []xml.Attr) {
	if v, ok := s.intVal(attrs); ok {
		s.marker().Size = models.Ptr(s.clamp(v, 2, 72))
	}
}

func (s *chartReader) pointStart(_ []xml.Attr) {
	s.point = &models.DataPoint{}
	s.own(&s.point.Style)
}

func (s *chartReader) pointEnd(text string) {
	s.series.Points = append(s.series.Points, *s.point)
	s.point = nil
	s.disown(text)
}

func (s *chartReader) labelsStart(_ []xml.Attr) {
	s.series.Labels = &models.DataLabels{}
}

func (s *chartReader) labelFlag(attrs []xml.Attr) {
	l := s.series.Labels
	v := s.flag(attrs)
	switch s.Element() {
	case "showLegendKey":
		l.ShowLegendKey = v
	case "showVal":
		l.ShowVal = v
	case "showCatName":
		l.ShowCatName = v
	case "showSerName":
		l.ShowSerName = v
	case "showPercent":
		l.ShowPercent = v
	}
}

func (s *chartReader) labelPos(attrs []xml.Attr) {
	s.series.Labels.Position = strVal(attrs)
}

func (s *chartReader) trendlineStart(_ []xml.Attr) {
	s.series.Trendline = &models.Trendline{Type: "linear"}
	s.own(&s.series.Trendline.Style)
}

func (s *chartReader) trendlineName(text string) {
	s.series.Trendline.Name = text
}

func (s *chartReader) trendlineType(attrs []xml.Attr) {
	if v := strVal(attrs); v != "" {
		s.series.Trendline.Type = v
	}
}

func (s *chartReader) trendlineInt(attrs []xml.Attr) {
	v, ok := s.intVal(attrs)
	if !ok {
		return
	}
	if s.Element() == "order" {
		s.series.Trendline.Order = models.Ptr(s.clamp(v, 2, 6))
	} else {
		s.series.Trendline.Period = models.Ptr(s.clamp(v, 2, 255))
	}
}

func (s *chartReader) trendlineFlag(attrs []xml.Attr) {
	if s.Element() == "dispRSqr" {
		s.series.Trendline.DispRSqr = s.flag(attrs)
	} else {
		s.series.Trendline.DispEq = s.flag(attrs)
	}
}

func (s *chartReader) dataStart(_ []xml.Attr) {
	s.data = &models.DataRef{}
	switch s.Tag() {
	case tagCat:
		s.series.Categories = s.data
	case tagVal:
		s.series.Values = s.data
	case tagXVal:
		s.series.XValues = s.data
	case tagYVal:
		s.series.YValues = s.data
	case tagBubbleSize:
		s.series.BubbleSizes = s.data
	}
}

func (s *chartReader) dataEnd(_ string) {
	s.data = nil
}

func (s *chartReader) refStart(_ []xml.Attr) {
	s.ptLimit = -1
	switch s.Element() {
	case "numRef":
		s.data.Numeric = true
	case "numLit":
		s.data.Numeric, s.data.Literal = true, true
	case "strLit":
		s.data.Literal = true
	}
}

func (s *chartReader) dataFormula(text string) {
	s.data.Formula = strings.TrimSpace(text)
}

func (s *chartReader) formatCode(text string) {
	s.data.FormatCode = text
}

func (s *chartReader) ptCount(attrs []xml.Attr) {
	n, ok := s.intVal(attrs)
	if !ok || n < 0 {
		return
	}
	s.ptLimit = n
	if s.data.Cache == nil {
		s.data.Cache = make([]string, 0, capHint(n))
	}
}

func (s *chartReader) ptStart(attrs []xml.Attr) {
	s.ptIdx = -1
	for _, a := range attrs {
		s.AttrInt(a, "idx", &s.ptIdx)
	}
}

// ptValue stores a cached point. Points missing from the cache stay empty.
// Indices are bounded by ptCount, or by a gap of maxCountHint past the last
// point when the count is missing.
func (s *chartReader) ptValue(text string) {
	limit := s.ptLimit
	if limit < 0 {
		limit = len(s.data.Cache) + maxCountHint
	}
	if s.ptIdx < 0 || s.ptIdx >= min(limit, models.MaxRows) {
		s.Warnf("Invalid point index %d", s.ptIdx)
		return
	}
	for len(s.data.Cache) <= s.ptIdx {
		s.data.Cache = append(s.data.Cache, "")
	}
	s.data.Cache[s.ptIdx] = text
}

func (s *chartReader) axisStart(_ []xml.Attr) {
	s.axis = &models.Axis{Type: axisTypes[s.Tag()]}
	s.own(&s.axis.Style)
}

// axisEnd registers the axis so that waiting plots can be linked.
func (s *chartReader) axisEnd(text string) {
	a := s.axis
	s.axis = nil
	s.disown(text)
	if a.ID == "" {
		s.Warnf("Dropping axis without id")
		return
	}
	if s.axes.define(s.Context, a) {
		s.chart.Axes = append(s.chart.Axes, a)
	}
}

func (s *chartReader) axisID(attrs []xml.Attr) {
	s.axis.ID = strVal(attrs)
}

func (s *chartReader) logBase(attrs []xml.Attr) {
	v, ok := s.floatVal(attrs)
	if !ok {
		return
	}
	if v < 2 || v > 1000 {
		s.Warnf("Invalid log base %g", v)
		return
	}
	s.axis.LogBase = &v
}

func (s *chartReader) orientation(attrs []xml.Attr) {
	s.axis.Inverted = strVal(attrs) == "maxMin"
}

func (s *chartReader) bound(attrs []xml.Attr) {
	v, ok := s.floatVal(attrs)
	if !ok {
		return
	}
	if s.Tag() == tagMin {
		s.axis.Min = &v
	} else {
		s.axis.Max = &v
	}
}

func (s *chartReader) axisDelete(attrs []xml.Attr) {
	s.axis.Deleted = s.flag(attrs)
}

func (s *chartReader) axisPos(attrs []xml.Attr) {
	if a, ok := valAttr(attrs); ok {
		AttrEnum(s.Context, a, "val", axisPositions, &s.axis.Position)
	}
}

func (s *chartReader) gridStart(_ []xml.Attr) {
	grid := &s.axis.MajorGrid
	if s.Tag() == tagMinor {
		grid = &s.axis.MinorGrid
	}
	*grid = &models.ShapeStyle{}
	s.own(grid)
}

func (s *chartReader) axisNumFmt(attrs []xml.Attr) {
	for _, a := range attrs {
		_ = AttrString(a, "formatCode", &s.axis.NumFmt) || s.AttrBool(a, "sourceLinked", &s.axis.SourceLinked)
	}
}

func (s *chartReader) tickMark(attrs []xml.Attr) {
	if s.Tag() == tagMinor {
		s.axis.MinorTick = strVal(attrs)
	} else {
		s.axis.MajorTick = strVal(attrs)
	}
}

func (s *chartReader) tickLabelPos(attrs []xml.Attr) {
	s.axis.TickLabelPos = strVal(attrs)
}

func (s *chartReader) crossAxis(attrs []xml.Attr) {
	s.axis.CrossAxisID = strVal(attrs)
}

func (s *chartReader) crosses(attrs []xml.Attr) {
	if a, ok := valAttr(attrs); ok {
		AttrEnum(s.Context, a, "val", crossModes, &s.axis.Cross)
	}
}

func (s *chartReader) crossesAt(attrs []xml.Attr) {
	if v, ok := s.floatVal(attrs); ok {
		s.axis.Cross, s.axis.CrossValue = models.CrossValue, v
	}
}

func (s *chartReader) unit(attrs []xml.Attr) {
	v, ok := s.floatVal(attrs)
	if !ok || v <= 0 {
		return
	}
	if s.Tag() == tagMinor {
		s.axis.MinorUnit = &v
	} else {
		s.axis.MajorUnit = &v
	}
}

func (s *chartReader) builtInUnit(attrs []xml.Attr) {
	s.axis.DisplayUnits = strVal(attrs)
}

func (s *chartReader) custUnit(attrs []xml.Attr) {
	if v, ok := s.floatVal(attrs); ok && v > 0 {
		s.axis.DisplayFactor = &v
	}
}

func (s *chartReader) legendStart(_ []xml.Attr) {
	s.chart.Legend = &models.Legend{Position: "r"}
	s.own(&s.chart.Legend.Style)
}

func (s *chartReader) legendPos(attrs []xml.Attr) {
	if a, ok := valAttr(attrs); ok {
		AttrEnum(s.Context, a, "val", legendPos, &s.chart.Legend.Position)
	}
}

func (s *chartReader) legendOverlay(attrs []xml.Attr) {
	s.chart.Legend.Overlay = s.flag(attrs)
}

func (s *chartReader) plotVisOnly(attrs []xml.Attr) {
	s.chart.PlotVisOnly = s.flag(attrs)
}

func (s *chartReader) dispBlanksAs(attrs []xml.Attr) {
	if a, ok := valAttr(attrs); ok {
		AttrEnum(s.Context, a, "val", blanksAs, &s.chart.DispBlanksAs)
	}
}
