package xlsxcodec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/xuri/excelize/v2"
)

func createTestFile(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Name")
	f.SetCellValue("Sheet1", "B1", "Value")
	f.SetCellValue("Sheet1", "A2", "Item1")
	f.SetCellValue("Sheet1", "B2", 100)
	f.SetCellFormula("Sheet1", "B3", "SUM(B2:B2)")
	f.MergeCell("Sheet1", "A5", "B5")
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	f.SetCellStyle("Sheet1", "A1", "B1", style)

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := createTestFile(t)
	res, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	wb := res.Workbook
	if wb.BookName != "test.xlsx" {
		t.Errorf("BookName = %q, expected %q", wb.BookName, "test.xlsx")
	}
	sheet := wb.Sheet("Sheet1")
	if sheet == nil {
		t.Fatalf("Sheet1 not found")
	}

	tests := []struct {
		cell     string
		expected string
	}{
		{"A1", "Name"},
		{"B1", "Value"},
		{"A2", "Item1"},
		{"B2", "100"},
	}
	for _, tt := range tests {
		ref, _ := models.ParseCellRef(tt.cell)
		c := sheet.Cell(ref)
		if c == nil {
			t.Errorf("Cell(%q) = nil, expected %q", tt.cell, tt.expected)
			continue
		}
		if got := c.Value.String(); got != tt.expected {
			t.Errorf("Cell(%q) = %q, expected %q", tt.cell, got, tt.expected)
		}
	}

	b3, _ := models.ParseCellRef("B3")
	if c := sheet.Cell(b3); c == nil || c.Formula != "SUM(B2:B2)" {
		t.Errorf("B3 = %+v, expected formula SUM(B2:B2)", c)
	}
	a1, _ := models.ParseCellRef("A1")
	if st := sheet.EffectiveStyle(a1); st == nil || st.Font == nil || st.Font.Bold == nil || !*st.Font.Bold {
		t.Errorf("A1 style = %+v, expected bold", st)
	}
	if len(sheet.Merges) != 1 || sheet.Merges[0].String() != "A5:B5" {
		t.Errorf("Merges = %v, expected A5:B5", sheet.Merges)
	}
}

func TestReadFileLightMode(t *testing.T) {
	path := createTestFile(t)
	res, err := ReadFile(path, Options{Mode: ModeLight})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	sheet := res.Workbook.Sheet("Sheet1")
	a1, _ := models.ParseCellRef("A1")
	if st := sheet.EffectiveStyle(a1); st != nil {
		t.Errorf("A1 style = %+v, expected none in light mode", st)
	}
	if len(sheet.Merges) != 0 {
		t.Errorf("Merges = %v, expected none in light mode", sheet.Merges)
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "plain.xlsx")
	if err := os.WriteFile(text, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// compound signature without a valid header
	stub := filepath.Join(dir, "stub.xls")
	if err := os.WriteFile(stub, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var buf bytes.Buffer
	w := opc.NewWriter(&buf)
	w.Rel("", opc.RelOfficeDocument, "xl/workbook.xml", false)
	w.AddPart("xl/workbook.xml", opc.ContentTypeWorkbook, []byte(`<workbook><sheets></workbook>`))
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	broken := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(broken, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{"missing", filepath.Join(dir, "missing.xlsx"), ErrFileNotFound},
		{"not a zip", text, ErrInvalidFormat},
		{"compound stub", stub, ErrInvalidFormat},
		{"malformed", broken, ErrMalformedXML},
	}
	for _, tt := range tests {
		if _, err := ReadFile(tt.path, DefaultOptions()); !errors.Is(err, tt.expected) {
			t.Errorf("ReadFile(%s) = %v, expected %v", tt.name, err, tt.expected)
		}
	}

	_, err := ReadFile(broken, DefaultOptions())
	var pe *PartError
	if !errors.As(err, &pe) || pe.Part != "xl/workbook.xml" {
		t.Errorf("ReadFile(malformed) = %v, expected a PartError for xl/workbook.xml", err)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	res, err := ReadFile(createTestFile(t), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.xlsx")
	wres, err := WriteFile(out, res.Workbook, DefaultOptions())
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if wres.Stats.Sheets != 1 {
		t.Errorf("Stats.Sheets = %d, expected 1", wres.Stats.Sheets)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Sheet1", "A2"); got != "Item1" {
		t.Errorf("GetCellValue(A2) = %q, expected %q", got, "Item1")
	}
	if got, _ := f.GetCellFormula("Sheet1", "B3"); got != "SUM(B2:B2)" {
		t.Errorf("GetCellFormula(B3) = %q, expected %q", got, "SUM(B2:B2)")
	}

	again, err := ReadFile(out, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile(written) failed: %v", err)
	}
	a1, _ := models.ParseCellRef("A1")
	if st := again.Workbook.Sheet("Sheet1").EffectiveStyle(a1); st == nil || st.Font == nil || st.Font.Bold == nil || !*st.Font.Bold {
		t.Errorf("A1 style after round trip = %+v, expected bold", st)
	}
}

func TestWriteMaxWarnings(t *testing.T) {
	wb := models.NewWorkbook()
	sheet, _ := wb.AddSheet("S")
	for i := 1; i <= 3; i++ {
		sheet.SetFormula(models.CellRef{Col: 1, Row: i}, "Nope!A1", models.NumberValue(0))
	}
	var buf bytes.Buffer
	res, err := Write(&buf, wb, Options{MaxWarnings: 2})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(res.Warnings) != 2 || res.Dropped != 1 {
		t.Errorf("Warnings = %q, Dropped = %d, expected 2 kept and 1 dropped", res.Warnings, res.Dropped)
	}
}

func TestWriteEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, models.NewWorkbook(), DefaultOptions())
	var pe *PartError
	if !errors.As(err, &pe) || pe.Component != "write" {
		t.Errorf("Write(empty) = %v, expected a write PartError", err)
	}
}
