package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/parser"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
	"github.com/xuri/excelize/v2"
)

func ref(t *testing.T, name string) models.CellRef {
	t.Helper()
	r, err := models.ParseCellRef(name)
	if err != nil {
		t.Fatalf("ParseCellRef(%q) failed: %v", name, err)
	}
	return r
}

func rng(t *testing.T, s string) models.Range {
	t.Helper()
	r, err := models.ParseRange(s)
	if err != nil {
		t.Fatalf("ParseRange(%q) failed: %v", s, err)
	}
	return r
}

func cellAt(t *testing.T, sheet *models.Sheet, name string) *models.Cell {
	t.Helper()
	c := sheet.Cell(ref(t, name))
	if c == nil {
		t.Fatalf("Cell %s!%s not found", sheet.Name, name)
	}
	return c
}

// sampleWorkbook builds a workbook touching every part the writer emits.
func sampleWorkbook(t *testing.T) *models.Workbook {
	t.Helper()
	wb := models.NewWorkbook()
	data, err := wb.AddSheet("Data")
	if err != nil {
		t.Fatalf("AddSheet failed: %v", err)
	}
	other, err := wb.AddSheet("Other")
	if err != nil {
		t.Fatalf("AddSheet failed: %v", err)
	}

	set := func(s *models.Sheet, name string, v models.Value) {
		if err := s.SetValue(ref(t, name), v); err != nil {
			t.Fatalf("SetValue(%s) failed: %v", name, err)
		}
	}
	set(data, "A1", models.StringValue("name"))
	set(data, "B1", models.NumberValue(42))
	set(data, "D1", models.BoolValue(true))
	set(data, "E1", models.ErrorValue("#N/A"))
	set(data, "A2", models.StringValue(" padded "))
	set(data, "B2", models.StringValue("name"))
	if err := data.SetFormula(ref(t, "C1"), "B1*2", models.NumberValue(84)); err != nil {
		t.Fatalf("SetFormula failed: %v", err)
	}
	if err := data.SetFormula(ref(t, "C2"), `"x"&A1`, models.StringValue("xname")); err != nil {
		t.Fatalf("SetFormula failed: %v", err)
	}
	if err := data.SetArrayFormula(rng(t, "A4:B5"), "B1:C2*2"); err != nil {
		t.Fatalf("SetArrayFormula failed: %v", err)
	}

	bold := &models.Style{Font: &models.Font{Bold: models.Ptr(true)}}
	data.Cell(ref(t, "A1")).Style = bold
	data.Cell(ref(t, "B2")).Style = &models.Style{Font: &models.Font{Bold: models.Ptr(true)}}
	ri := data.Row(7)
	ri.Height = models.Ptr(30.0)
	ri.CustomHeight = true
	ri.Style = &models.Style{NumFmt: models.Ptr("0.0%")}
	data.Cols = []models.ColInfo{{Min: 6, Max: 6, Width: models.Ptr(20.0), CustomWidth: true,
		Style: &models.Style{Fill: &models.Fill{Pattern: models.Ptr(models.PatternSolid), Fg: models.Ptr(models.RGB(255, 0, 0).Opaque())}}}}
	if err := data.Merge(rng(t, "A10:C10")); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	data.Comments = []models.Comment{{Ref: ref(t, "B1"), Author: "me", Text: "answer"}}
	data.Hyperlinks = []models.Hyperlink{{Ref: rng(t, "A1"), Target: "https://example.com/?a=1&b=2"}}

	one, two := 1, 2
	data.Shapes = []models.Shape{
		{ID: &one, Name: "Box", Text: "Start", Type: "Rectangle", Geometry: "rect", L: 10, T: 10, W: 100, H: 40,
			Anchor: models.Anchor{Type: models.AnchorTwoCell, From: models.CellOffset{Col: 1, Row: 1}, To: models.CellOffset{Col: 3, Row: 3}}},
		{ID: &two, Name: "Box 2", Text: "End", Type: "Rectangle", Geometry: "rect", L: 200, T: 0, W: 100, H: 40,
			Anchor: models.Anchor{Type: models.AnchorTwoCell, From: models.CellOffset{Col: 4, Row: 1}, To: models.CellOffset{Col: 6, Row: 3}}},
		{Name: "Arrow", Connector: true, Geometry: "straightConnector1", L: 110, T: 0, W: 50, H: 50,
			BeginID: &one, EndID: &two, Direction: "NE", EndArrow: "triangle",
			Anchor: models.Anchor{Type: models.AnchorTwoCell, From: models.CellOffset{Col: 3, Row: 1}, To: models.CellOffset{Col: 4, Row: 2}}},
	}
	data.Charts = []*models.Chart{sampleChart()}

	if err := other.SetFormula(ref(t, "A1"), "Missing!A1+Data!B1", models.NumberValue(0)); err != nil {
		t.Fatalf("SetFormula failed: %v", err)
	}
	wb.Names = []models.DefinedName{
		{Name: "Total", Formula: "Data!$B$1"},
		{Name: "_xlnm.Print_Area", Formula: "Data!$A$1:$E$2", Scope: "Data"},
		{Name: "Lost", Formula: "1", Scope: "Nowhere"},
	}
	return wb
}

func sampleChart() *models.Chart {
	cat := &models.Axis{ID: "500", Type: models.AxisCat, Position: models.PosBottom, Cross: models.CrossMax}
	val := &models.Axis{ID: "600", Type: models.AxisVal, Position: "l", Inverted: true, Max: models.Ptr(100.0)}
	cat.CrossAxisID, val.CrossAxisID = val.ID, cat.ID
	plot := &models.Plot{
		Type:     models.PlotBar,
		Grouping: "clustered",
		GapWidth: models.Ptr(150),
		Series: []*models.Series{{
			NameRef:    "Data!$A$1",
			Name:       "name",
			Categories: &models.DataRef{Formula: "Data!$A$1:$A$2", Cache: []string{"name", ""}},
			Values:     &models.DataRef{Formula: "Data!$B$1:$B$2", Cache: []string{"42", "7"}, Numeric: true},
		}},
	}
	models.LinkAxis(plot, cat)
	models.LinkAxis(plot, val)
	return &models.Chart{
		Name:   "Chart 1",
		Anchor: models.Anchor{Type: models.AnchorTwoCell, From: models.CellOffset{Col: 8}, To: models.CellOffset{Col: 14, Row: 15}},
		Title:  &models.Title{Text: "Sales\nby name"},
		Plots:  []*models.Plot{plot},
		Axes:   []*models.Axis{cat, val},
		Legend: &models.Legend{Position: "b"},
	}
}

func writeSample(t *testing.T, wb *models.Workbook, sink warn.Sink) ([]byte, Stats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := Write(&buf, wb, sink)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes(), stats
}

func readBack(t *testing.T, data []byte) *models.Workbook {
	t.Helper()
	pkg, err := opc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	sink := warn.NewCollector(0, nil)
	wb, err := parser.Read(pkg, parser.AllOptions(), sink)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n := sink.Len(); n != 0 {
		t.Errorf("reading the written package warned: %q", sink.Messages())
	}
	return wb
}

func TestWriteRoundTripValues(t *testing.T) {
	wb := readBack(t, mustWrite(t, sampleWorkbook(t)))
	if len(wb.Sheets) != 2 || wb.Sheets[0].Name != "Data" || wb.Sheets[1].Name != "Other" {
		t.Fatalf("Sheets = %d, expected Data and Other", len(wb.Sheets))
	}
	data := wb.Sheets[0]

	tests := []struct {
		cell     string
		expected models.Value
	}{
		{"A1", models.StringValue("name")},
		{"B1", models.NumberValue(42)},
		{"C1", models.NumberValue(84)},
		{"D1", models.BoolValue(true)},
		{"E1", models.ErrorValue("#N/A")},
		{"A2", models.StringValue(" padded ")},
		{"C2", models.StringValue("xname")},
	}
	for _, tt := range tests {
		if got := cellAt(t, data, tt.cell).Value; got != tt.expected {
			t.Errorf("%s = %+v, expected %+v", tt.cell, got, tt.expected)
		}
	}
	if got := cellAt(t, data, "C1").Formula; got != "B1*2" {
		t.Errorf("C1 formula = %q, expected %q", got, "B1*2")
	}

	corner := cellAt(t, data, "A4")
	if !corner.IsArrayCorner() || corner.Formula != "B1:C2*2" {
		t.Errorf("A4 = %+v, expected the array corner", corner)
	}
	if member := cellAt(t, data, "B5"); member.Array == nil || member.Array.String() != "A4:B5" || member.Formula != "" {
		t.Errorf("B5 = %+v, expected a member of A4:B5", member)
	}
	if len(data.Merges) != 1 || data.Merges[0].String() != "A10:C10" {
		t.Errorf("Merges = %v, expected A10:C10", data.Merges)
	}
	if len(data.Hyperlinks) != 1 || data.Hyperlinks[0].Target != "https://example.com/?a=1&b=2" {
		t.Errorf("Hyperlinks = %+v", data.Hyperlinks)
	}
	if len(data.Comments) != 1 || data.Comments[0].Author != "me" || data.Comments[0].Text != "answer" {
		t.Errorf("Comments = %+v, expected one comment by me", data.Comments)
	}

	if len(wb.Names) != 2 {
		t.Fatalf("Names = %+v, expected Total and the print area", wb.Names)
	}
	if n, ok := wb.LookupName("_xlnm.Print_Area", "Data"); !ok || n.Formula != "Data!$A$1:$E$2" {
		t.Errorf("print area = %+v, %v", n, ok)
	}
}

func mustWrite(t *testing.T, wb *models.Workbook) []byte {
	t.Helper()
	data, _ := writeSample(t, wb, nil)
	return data
}

func TestWriteRoundTripStyles(t *testing.T) {
	wb := readBack(t, mustWrite(t, sampleWorkbook(t)))
	data := wb.Sheets[0]

	if st := data.EffectiveStyle(ref(t, "A1")); st == nil || st.Font == nil || st.Font.Bold == nil || !*st.Font.Bold {
		t.Errorf("A1 style = %+v, expected bold", st)
	}
	if st := data.EffectiveStyle(ref(t, "B1")); !st.IsEmpty() {
		t.Errorf("B1 style = %+v, expected none", st)
	}
	if st := data.EffectiveStyle(ref(t, "A7")); st == nil || st.NumFmt == nil || *st.NumFmt != "0.0%" {
		t.Errorf("A7 style = %+v, expected the row format", st)
	}
	st := data.EffectiveStyle(ref(t, "F3"))
	if st == nil || st.Fill == nil || st.Fill.Fg == nil || st.Fill.Fg.RGBHex() != "FF0000" {
		t.Errorf("F3 style = %+v, expected the column fill", st)
	}
	if ri := data.Rows[7]; ri == nil || ri.Height == nil || *ri.Height != 30 || !ri.CustomHeight {
		t.Errorf("row 7 = %+v, expected a custom height of 30", ri)
	}
	if len(data.Cols) != 1 || data.Cols[0].Width == nil || *data.Cols[0].Width != 20 {
		t.Errorf("Cols = %+v, expected column F of width 20", data.Cols)
	}
}

func TestWriteRoundTripDrawing(t *testing.T) {
	wb := readBack(t, mustWrite(t, sampleWorkbook(t)))
	data := wb.Sheets[0]

	if len(data.Shapes) != 3 {
		t.Fatalf("Shapes = %d, expected 3", len(data.Shapes))
	}
	box := data.Shapes[0]
	if box.ID == nil || *box.ID != 1 || box.Text != "Start" || box.W != 100 || box.H != 40 {
		t.Errorf("Shapes[0] = %+v, expected the first box", box)
	}
	arrow := data.Shapes[2]
	if !arrow.Connector || arrow.ID != nil {
		t.Fatalf("Shapes[2] = %+v, expected a connector without id", arrow)
	}
	if arrow.BeginID == nil || *arrow.BeginID != 1 || arrow.EndID == nil || *arrow.EndID != 2 {
		t.Errorf("connector ends = %v, %v, expected 1 and 2", arrow.BeginID, arrow.EndID)
	}
	if arrow.Direction != "NE" || arrow.EndArrow != "triangle" {
		t.Errorf("connector = %q, %q, expected NE with a triangle head", arrow.Direction, arrow.EndArrow)
	}
}

func TestWriteRoundTripChart(t *testing.T) {
	wb := readBack(t, mustWrite(t, sampleWorkbook(t)))
	data := wb.Sheets[0]
	if len(data.Charts) != 1 {
		t.Fatalf("Charts = %d, expected 1", len(data.Charts))
	}
	ch := data.Charts[0]
	if ch.Name != "Chart 1" || ch.Title == nil || ch.Title.Text != "Sales\nby name" {
		t.Errorf("chart = %q, title %+v", ch.Name, ch.Title)
	}
	if ch.Legend == nil || ch.Legend.Position != "b" {
		t.Errorf("Legend = %+v, expected bottom", ch.Legend)
	}
	if len(ch.Plots) != 1 || ch.Plots[0].Type != models.PlotBar || len(ch.Plots[0].Series) != 1 {
		t.Fatalf("Plots = %+v, expected one bar plot with one series", ch.Plots)
	}
	s := ch.Plots[0].Series[0]
	if s.NameRef != "Data!$A$1" || s.Name != "name" {
		t.Errorf("series name = %q, %q", s.NameRef, s.Name)
	}
	if s.Values == nil || s.Values.Formula != "Data!$B$1:$B$2" || strings.Join(s.Values.Cache, ",") != "42,7" {
		t.Errorf("Values = %+v", s.Values)
	}
	if s.Categories == nil || strings.Join(s.Categories.Cache, ",") != "name," {
		t.Errorf("Categories = %+v, expected a gap at the second point", s.Categories)
	}

	if len(ch.Axes) != 2 {
		t.Fatalf("Axes = %d, expected 2", len(ch.Axes))
	}
	cat, val := ch.Axes[0], ch.Axes[1]
	if cat.ID != "1" || val.ID != "2" || cat.CrossAxisID != "2" || val.CrossAxisID != "1" {
		t.Errorf("axis ids = %s/%s crossing %s/%s, expected 1 and 2", cat.ID, val.ID, cat.CrossAxisID, val.CrossAxisID)
	}
	if !val.Inverted || val.Max == nil || *val.Max != 100 {
		t.Errorf("value axis = %+v, expected inverted with max 100", val)
	}
	if cat.Cross != models.CrossMax {
		t.Errorf("category axis crosses %q, expected %q", cat.Cross, models.CrossMax)
	}
}

func TestWriteStats(t *testing.T) {
	_, stats := writeSample(t, sampleWorkbook(t), nil)
	if stats.Sheets != 2 || stats.Charts != 1 {
		t.Errorf("Stats = %+v, expected 2 sheets and 1 chart", stats)
	}
	// "name" is used twice
	if stats.Strings != 2 || stats.StringRefs != 3 {
		t.Errorf("Strings, StringRefs = %d, %d, expected 2, 3", stats.Strings, stats.StringRefs)
	}
	// the two bold styles are equal but distinct pointers
	if stats.Styles.Fonts != 2 {
		t.Errorf("Fonts = %d, expected 2", stats.Styles.Fonts)
	}
}

func TestWriteWarnings(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	writeSample(t, sampleWorkbook(t), sink)
	expected := []string{
		"Other!A1 : Reference to unknown sheet 'Missing'",
		"Dropping name 'Lost' scoped to unknown sheet 'Nowhere'",
	}
	if got := sink.Messages(); strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Errorf("warnings = %q, expected %q", got, expected)
	}
}

func TestWriteNoSheets(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, models.NewWorkbook(), nil); err == nil {
		t.Errorf("Write(empty workbook) succeeded, expected an error")
	}
}

func TestWriteOpensInExcelize(t *testing.T) {
	data := mustWrite(t, sampleWorkbook(t))
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); strings.Join(got, ",") != "Data,Other" {
		t.Errorf("GetSheetList() = %v, expected Data,Other", got)
	}
	tests := []struct {
		cell     string
		expected string
	}{
		{"A1", "name"},
		{"B1", "42"},
		{"C1", "84"},
		{"A2", " padded "},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Data", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", tt.cell, err)
		}
		if got != tt.expected {
			t.Errorf("GetCellValue(%q) = %q, expected %q", tt.cell, got, tt.expected)
		}
	}
	if got, _ := f.GetCellFormula("Data", "C1"); got != "B1*2" {
		t.Errorf("GetCellFormula(C1) = %q, expected %q", got, "B1*2")
	}
	if got, _ := f.GetMergeCells("Data"); len(got) != 1 || got[0].GetStartAxis() != "A10" {
		t.Errorf("GetMergeCells() = %v, expected A10:C10", got)
	}
}
