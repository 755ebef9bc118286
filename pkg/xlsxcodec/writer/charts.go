package writer

import (
	"strconv"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/parser"
)

// plotElements maps a plot type to its chart element.
var plotElements = func() map[models.PlotType]string {
	m := make(map[models.PlotType]string, len(parser.ChartTypeMap))
	for name, typ := range parser.ChartTypeMap {
		m[typ] = name
	}
	return m
}()

// chartWriter renders one chart part.
type chartWriter struct {
	x     *xmlWriter
	chart *models.Chart
	// ids are the written axis ids, numbered from 1 in axis order.
	ids map[*models.Axis]string
}

// writeChart renders a chart part.
func writeChart(chart *models.Chart) []byte {
	w := &chartWriter{x: newXMLWriter(), chart: chart, ids: make(map[*models.Axis]string)}
	for i, a := range chart.Axes {
		w.ids[a] = strconv.Itoa(i + 1)
	}
	x := w.x
	x.OTag("c:chartSpace")
	x.Attr("xmlns:c", nsChart)
	x.Attr("xmlns:a", nsDrawing)
	x.Attr("xmlns:r", nsDocRel)
	x.ValBool("c:roundedCorners", chart.RoundedCorners)

	x.OTag("c:chart")
	if chart.Title != nil {
		w.title(chart.Title)
	}
	x.ValBool("c:autoTitleDeleted", chart.AutoTitleDeleted)
	x.OTag("c:plotArea")
	x.Elem("c:layout")
	for _, p := range chart.Plots {
		w.plot(p)
	}
	for _, a := range chart.Axes {
		w.axis(a)
	}
	writeSpPr(x, "c:spPr", chart.PlotArea)
	x.CTag()
	if l := chart.Legend; l != nil {
		x.OTag("c:legend")
		pos := l.Position
		if pos == "" {
			pos = "r"
		}
		x.Val("c:legendPos", pos)
		x.ValBool("c:overlay", l.Overlay)
		writeSpPr(x, "c:spPr", l.Style)
		x.CTag()
	}
	x.ValBool("c:plotVisOnly", chart.PlotVisOnly)
	if chart.DispBlanksAs != "" {
		x.Val("c:dispBlanksAs", chart.DispBlanksAs)
	}
	x.CTag()

	writeSpPr(x, "c:spPr", chart.Style)
	x.CTag()
	return x.Bytes()
}

func (w *chartWriter) title(t *models.Title) {
	x := w.x
	x.OTag("c:title")
	switch {
	case t.Formula != "":
		x.OTag("c:tx")
		x.OTag("c:strRef")
		x.TextElem("c:f", t.Formula)
		if t.Text != "" {
			writeStrCache(x, "c:strCache", []string{t.Text})
		}
		x.CTag()
		x.CTag()
	case t.Text != "":
		x.OTag("c:tx")
		x.OTag("c:rich")
		x.Elem("a:bodyPr")
		x.Elem("a:lstStyle")
		writeParagraphs(x, t.Text)
		x.CTag()
		x.CTag()
	}
	x.ValBool("c:overlay", t.Overlay)
	writeSpPr(x, "c:spPr", t.Style)
	x.CTag()
}

// plotAxisIDs lists the written ids of the axes p is drawn against.
func (w *chartWriter) plotAxisIDs(p *models.Plot) []string {
	var res []string
	if len(p.Axes) > 0 {
		for _, a := range p.Axes {
			if id, ok := w.ids[a]; ok {
				res = append(res, id)
			}
		}
		return res
	}
	for _, id := range p.AxisIDs {
		if a := w.chart.Axis(id); a != nil {
			res = append(res, w.ids[a])
		}
	}
	return res
}

func (w *chartWriter) plot(p *models.Plot) {
	x := w.x
	name, ok := plotElements[p.Type]
	if !ok {
		name = "barChart"
	}
	x.OTag("c:" + name)

	switch {
	case p.Type == models.PlotOfPie:
		x.Val("c:ofPieType", "pie")
	case p.Type.IsBar():
		dir := "col"
		if p.Horizontal {
			dir = "bar"
		}
		x.Val("c:barDir", dir)
	case p.Type == models.PlotScatter:
		style := p.ScatterStyle
		if style == "" {
			style = "lineMarker"
		}
		x.Val("c:scatterStyle", style)
	case p.Type == models.PlotRadar:
		style := p.RadarStyle
		if style == "" {
			style = "standard"
		}
		x.Val("c:radarStyle", style)
	}
	if p.Grouping != "" {
		x.Val("c:grouping", p.Grouping)
	}
	if !p.Type.IsSurface() && p.Type != models.PlotStock {
		x.ValBool("c:varyColors", p.VaryColors)
	}

	for _, s := range p.Series {
		w.series(s)
	}

	if p.GapWidth != nil {
		x.ValInt("c:gapWidth", *p.GapWidth)
	}
	if p.Overlap != nil {
		x.ValInt("c:overlap", *p.Overlap)
	}
	if p.ShowMarker != nil {
		x.ValBool("c:marker", *p.ShowMarker)
	}
	if p.FirstSliceAngle != nil {
		x.ValInt("c:firstSliceAng", *p.FirstSliceAngle)
	}
	if p.HoleSize != nil {
		x.ValInt("c:holeSize", *p.HoleSize)
	}
	for _, id := range w.plotAxisIDs(p) {
		x.Val("c:axId", id)
	}
	x.CTag()
}

func (w *chartWriter) series(s *models.Series) {
	x := w.x
	x.OTag("c:ser")
	x.ValInt("c:idx", s.Index)
	x.ValInt("c:order", s.Order)
	switch {
	case s.NameRef != "":
		x.OTag("c:tx")
		x.OTag("c:strRef")
		x.TextElem("c:f", s.NameRef)
		writeStrCache(x, "c:strCache", []string{s.Name})
		x.CTag()
		x.CTag()
	case s.Name != "":
		x.OTag("c:tx")
		x.TextElem("c:v", s.Name)
		x.CTag()
	}
	writeSpPr(x, "c:spPr", s.Style)
	if s.InvertIfNegative != nil {
		x.ValBool("c:invertIfNegative", *s.InvertIfNegative)
	}
	if s.Marker != nil {
		writeMarker(x, s.Marker)
	}
	if s.Explosion != nil {
		x.ValInt("c:explosion", *s.Explosion)
	}
	for i := range s.Points {
		writePoint(x, &s.Points[i])
	}
	if l := s.Labels; l != nil {
		x.OTag("c:dLbls")
		if l.Position != "" {
			x.Val("c:dLblPos", l.Position)
		}
		x.ValBool("c:showLegendKey", l.ShowLegendKey)
		x.ValBool("c:showVal", l.ShowVal)
		x.ValBool("c:showCatName", l.ShowCatName)
		x.ValBool("c:showSerName", l.ShowSerName)
		x.ValBool("c:showPercent", l.ShowPercent)
		x.CTag()
	}
	if t := s.Trendline; t != nil {
		x.OTag("c:trendline")
		if t.Name != "" {
			x.TextElem("c:name", t.Name)
		}
		writeSpPr(x, "c:spPr", t.Style)
		typ := t.Type
		if typ == "" {
			typ = "linear"
		}
		x.Val("c:trendlineType", typ)
		if t.Order != nil {
			x.ValInt("c:order", *t.Order)
		}
		if t.Period != nil {
			x.ValInt("c:period", *t.Period)
		}
		x.ValBool("c:dispRSqr", t.DispRSqr)
		x.ValBool("c:dispEq", t.DispEq)
		x.CTag()
	}
	for _, d := range []struct {
		name string
		ref  *models.DataRef
	}{
		{"c:cat", s.Categories}, {"c:val", s.Values}, {"c:xVal", s.XValues},
		{"c:yVal", s.YValues}, {"c:bubbleSize", s.BubbleSizes},
	} {
		if d.ref != nil {
			writeDataRef(x, d.name, d.ref)
		}
	}
	if s.Smooth != nil {
		x.ValBool("c:smooth", *s.Smooth)
	}
	x.CTag()
}

func writeMarker(x *xmlWriter, m *models.Marker) {
	x.OTag("c:marker")
	if m.Symbol != "" {
		x.Val("c:symbol", m.Symbol)
	}
	if m.Size != nil {
		x.ValInt("c:size", *m.Size)
	}
	writeSpPr(x, "c:spPr", m.Style)
	x.CTag()
}

func writePoint(x *xmlWriter, p *models.DataPoint) {
	x.OTag("c:dPt")
	x.ValInt("c:idx", p.Index)
	if p.InvertIfNegative != nil {
		x.ValBool("c:invertIfNegative", *p.InvertIfNegative)
	}
	if p.Marker != nil {
		writeMarker(x, p.Marker)
	}
	if p.Explosion != nil {
		x.ValInt("c:explosion", *p.Explosion)
	}
	writeSpPr(x, "c:spPr", p.Style)
	x.CTag()
}

// writeDataRef writes a series data source. Empty cache entries are gaps
// and are not written as points.
func writeDataRef(x *xmlWriter, name string, d *models.DataRef) {
	x.OTag(name)
	switch {
	case d.Literal && d.Numeric:
		writeNumCache(x, "c:numLit", d)
	case d.Literal:
		writeStrCache(x, "c:strLit", d.Cache)
	case d.Numeric:
		x.OTag("c:numRef")
		x.TextElem("c:f", d.Formula)
		writeNumCache(x, "c:numCache", d)
		x.CTag()
	default:
		x.OTag("c:strRef")
		x.TextElem("c:f", d.Formula)
		writeStrCache(x, "c:strCache", d.Cache)
		x.CTag()
	}
	x.CTag()
}

func writeNumCache(x *xmlWriter, name string, d *models.DataRef) {
	x.OTag(name)
	code := d.FormatCode
	if code == "" {
		code = "General"
	}
	x.TextElem("c:formatCode", code)
	writePoints(x, d.Cache)
	x.CTag()
}

func writeStrCache(x *xmlWriter, name string, cache []string) {
	x.OTag(name)
	writePoints(x, cache)
	x.CTag()
}

func writePoints(x *xmlWriter, cache []string) {
	x.ValInt("c:ptCount", len(cache))
	for i, v := range cache {
		if v == "" {
			continue
		}
		x.OTag("c:pt")
		x.AttrInt("idx", i)
		x.TextElem("c:v", v)
		x.CTag()
	}
}

var axisElements = map[models.AxisType]string{
	models.AxisCat:  "c:catAx",
	models.AxisVal:  "c:valAx",
	models.AxisDate: "c:dateAx",
	models.AxisSer:  "c:serAx",
}

// crossAxis returns the axis a crosses: its recorded cross axis, else the
// first other axis of its plots.
func (w *chartWriter) crossAxis(a *models.Axis) *models.Axis {
	if c := w.chart.Axis(a.CrossAxisID); c != nil && c != a {
		return c
	}
	for _, p := range a.Plots {
		for _, b := range p.Axes {
			if b != a {
				return b
			}
		}
	}
	return nil
}

func (w *chartWriter) axis(a *models.Axis) {
	x := w.x
	name, ok := axisElements[a.Type]
	if !ok {
		name = "c:valAx"
	}
	x.OTag(name)
	x.Val("c:axId", w.ids[a])

	x.OTag("c:scaling")
	if a.LogBase != nil {
		x.ValFloat("c:logBase", *a.LogBase)
	}
	orientation := "minMax"
	if a.Inverted {
		orientation = "maxMin"
	}
	x.Val("c:orientation", orientation)
	if a.Max != nil {
		x.ValFloat("c:max", *a.Max)
	}
	if a.Min != nil {
		x.ValFloat("c:min", *a.Min)
	}
	x.CTag()

	x.ValBool("c:delete", a.Deleted)
	pos := a.Position
	if pos == "" {
		pos = models.PosBottom
	}
	x.Val("c:axPos", string(pos))
	if a.MajorGrid != nil {
		x.OTag("c:majorGridlines")
		writeSpPr(x, "c:spPr", a.MajorGrid)
		x.CTag()
	}
	if a.MinorGrid != nil {
		x.OTag("c:minorGridlines")
		writeSpPr(x, "c:spPr", a.MinorGrid)
		x.CTag()
	}
	if a.Title != nil {
		w.title(a.Title)
	}
	if a.NumFmt != "" {
		x.Elem("c:numFmt", "formatCode", a.NumFmt, "sourceLinked", boolText(a.SourceLinked))
	}
	if a.MajorTick != "" {
		x.Val("c:majorTickMark", a.MajorTick)
	}
	if a.MinorTick != "" {
		x.Val("c:minorTickMark", a.MinorTick)
	}
	if a.TickLabelPos != "" {
		x.Val("c:tickLblPos", a.TickLabelPos)
	}
	writeSpPr(x, "c:spPr", a.Style)

	cross := w.crossAxis(a)
	if cross != nil {
		x.Val("c:crossAx", w.ids[cross])
	} else {
		x.Val("c:crossAx", w.ids[a])
	}
	w.crosses(a, cross)

	if a.Type == models.AxisVal || a.Type == models.AxisDate {
		if a.MajorUnit != nil {
			x.ValFloat("c:majorUnit", *a.MajorUnit)
		}
		if a.MinorUnit != nil {
			x.ValFloat("c:minorUnit", *a.MinorUnit)
		}
	}
	if a.Type == models.AxisVal && (a.DisplayUnits != "" || a.DisplayFactor != nil) {
		x.OTag("c:dispUnits")
		if a.DisplayFactor != nil {
			x.ValFloat("c:custUnit", *a.DisplayFactor)
		} else {
			x.Val("c:builtInUnit", a.DisplayUnits)
		}
		x.CTag()
	}
	x.CTag()
}

// crosses writes the crossing point. The model records min and max as seen
// on the crossed axis, so they are swapped back when that axis is inverted.
func (w *chartWriter) crosses(a, cross *models.Axis) {
	mode := a.Cross
	if cross != nil && cross.Inverted {
		switch mode {
		case models.CrossMin:
			mode = models.CrossMax
		case models.CrossMax:
			mode = models.CrossMin
		}
	}
	switch mode {
	case models.CrossValue:
		w.x.ValFloat("c:crossesAt", a.CrossValue)
	case models.CrossMin, models.CrossMax:
		w.x.Val("c:crosses", string(mode))
	default:
		w.x.Val("c:crosses", string(models.CrossAutoZero))
	}
}

func boolText(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
