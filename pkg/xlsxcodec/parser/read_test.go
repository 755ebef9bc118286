package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

// testPackage is a part name to content map with the relationships to declare.
type testPackage struct {
	parts map[string]string
	rels  [][3]string // source, type, target
}

func (p testPackage) build(t *testing.T) *opc.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := opc.NewWriter(&buf)
	for name, data := range p.parts {
		if err := w.AddPart(name, "", []byte(data)); err != nil {
			t.Fatalf("AddPart(%s) failed: %v", name, err)
		}
	}
	for _, rel := range p.rels {
		w.Rel(rel[0], rel[1], rel[2], false)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	r, err := opc.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	return r
}

const relNS = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

func basicPackage() testPackage {
	return testPackage{
		parts: map[string]string{
			"xl/workbook.xml": `<workbook ` + mainNS + ` ` + relNS + `><workbookPr date1904="1"/><sheets>` +
				`<sheet name="Data" sheetId="1" r:id="rId1"/>` +
				`<sheet name="Ghost" sheetId="2"/>` +
				`</sheets><definedNames>` +
				`<definedName name="_xlnm.Print_Area" localSheetId="0">Data!$A$1:$B$2</definedName>` +
				`<definedName name="_xlnm.Print_Area" localSheetId="1">#REF!</definedName>` +
				`<definedName name="Total" hidden="1">Data!$B$1</definedName>` +
				`</definedNames></workbook>`,
			"xl/sharedStrings.xml": `<sst ` + mainNS + `><si><t>name</t></si></sst>`,
			"xl/worksheets/sheet1.xml": `<worksheet ` + mainNS + `><sheetData>` +
				`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>42</v></c></row>` +
				`</sheetData></worksheet>`,
			"xl/worksheets/sheet3.xml": `<worksheet ` + mainNS + `><sheetData/></worksheet>`,
			"xl/comments1.xml": `<comments ` + mainNS + `><authors><author>me</author></authors>` +
				`<commentList><comment ref="B1" authorId="0"><text><t>answer</t></text></comment></commentList></comments>`,
		},
		rels: [][3]string{
			{"", opc.RelOfficeDocument, "xl/workbook.xml"},
			{"xl/workbook.xml", opc.RelWorksheet, "xl/worksheets/sheet1.xml"},
			{"xl/workbook.xml", opc.RelSharedStrings, "xl/sharedStrings.xml"},
			{"xl/workbook.xml", opc.RelWorksheet, "xl/worksheets/sheet3.xml"},
			{"xl/worksheets/sheet1.xml", opc.RelComments, "xl/comments1.xml"},
		},
	}
}

func TestReadPackage(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	wb, err := Read(basicPackage().build(t), AllOptions(), sink)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !wb.Date1904 {
		t.Errorf("Date1904 = false, expected true")
	}
	if len(wb.Sheets) != 2 || wb.Sheets[0].Name != "Data" || wb.Sheets[1].Name != "Ghost" {
		t.Fatalf("Sheets = %d, expected Data and Ghost", len(wb.Sheets))
	}
	data := wb.Sheets[0]
	if got := cellAt(t, data, "A1").Value.Text; got != "name" {
		t.Errorf("A1 = %q, expected %q", got, "name")
	}
	if got := cellAt(t, data, "B1").Value.Number; got != 42 {
		t.Errorf("B1 = %v, expected 42", got)
	}
	if len(data.Comments) != 1 || data.Comments[0].Text != "answer" || data.Comments[0].Author != "me" {
		t.Errorf("Comments = %+v, expected one comment by me", data.Comments)
	}
	if wb.Sheets[1].Len() != 0 {
		t.Errorf("Ghost has %d cells, expected none", wb.Sheets[1].Len())
	}

	if len(wb.Names) != 2 {
		t.Fatalf("Names = %+v, expected the Data print area and Total", wb.Names)
	}
	if n := wb.Names[0]; n.Name != "_xlnm.Print_Area" || n.Scope != "Data" || n.Formula != "Data!$A$1:$B$2" {
		t.Errorf("print area = %+v", n)
	}
	if n, ok := wb.LookupName("total", ""); !ok || !n.Hidden || n.Formula != "Data!$B$1" {
		t.Errorf("Total = %+v, %v, expected a hidden global name", n, ok)
	}

	expected := []string{
		"Missing part-id for sheet 'Ghost'",
		"Ignoring worksheet part 'xl/worksheets/sheet3.xml' not listed in the workbook",
	}
	if got := sink.Messages(); strings.Join(got, "|") != strings.Join(expected, "|") {
		t.Errorf("warnings = %q, expected %q", got, expected)
	}
}

func TestReadPackageSkipsComments(t *testing.T) {
	opts := AllOptions()
	opts.Comments = false
	wb, err := Read(basicPackage().build(t), opts, nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n := len(wb.Sheets[0].Comments); n != 0 {
		t.Errorf("Comments = %d, expected none when disabled", n)
	}
}

func TestReadPackageMissingParts(t *testing.T) {
	p := basicPackage()
	delete(p.parts, "xl/sharedStrings.xml")
	sink := warn.NewCollector(0, nil)
	wb, err := Read(p.build(t), AllOptions(), sink)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := sink.Messages(); len(got) == 0 || got[0] != "Missing part 'xl/sharedStrings.xml'" {
		t.Errorf("warnings = %q, expected the missing part first", got)
	}
	// the string index now points past the empty table
	if c := cellAt(t, wb.Sheets[0], "A1"); !c.IsBlank() {
		t.Errorf("A1 = %+v, expected blank", c.Value)
	}
}

func TestReadPackageFatal(t *testing.T) {
	p := basicPackage()
	p.parts["xl/worksheets/sheet1.xml"] = `<worksheet ` + mainNS + `><sheetData><row></sheetData></worksheet>`
	_, err := Read(p.build(t), AllOptions(), nil)
	var se *SyntaxError
	if !errors.As(err, &se) || se.Part != "xl/worksheets/sheet1.xml" {
		t.Errorf("Read(broken sheet) = %v, expected a syntax error in the sheet part", err)
	}

	empty := testPackage{parts: map[string]string{"docProps/app.xml": "<Properties/>"}}
	if _, err := Read(empty.build(t), AllOptions(), nil); !errors.Is(err, ErrNoWorkbook) {
		t.Errorf("Read(no workbook) = %v, expected ErrNoWorkbook", err)
	}
}

func TestReadWorkbookLocalNamesAfterSkippedSheet(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	c := NewContext("xl/workbook.xml", sink)
	wb := models.NewWorkbook()
	data := `<workbook ` + mainNS + ` ` + relNS + `><sheets>` +
		`<sheet name="First" sheetId="1" r:id="rId1"/>` +
		`<sheet sheetId="2" r:id="rId2"/>` +
		`<sheet name="Third" sheetId="3" r:id="rId3"/>` +
		`</sheets><definedNames>` +
		`<definedName name="Rate" localSheetId="2">Third!$A$1</definedName>` +
		`<definedName name="Lost" localSheetId="1">First!$A$1</definedName>` +
		`</definedNames></workbook>`
	entries, err := ReadWorkbook(c, wb, strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, expected 2", len(entries))
	}

	tests := []struct {
		name  string
		scope string
		found bool
	}{
		{"Rate", "Third", true},
		{"Rate", "First", false},
		{"Lost", "First", false},
	}
	for _, tt := range tests {
		found := false
		for _, n := range wb.Names {
			if n.Name == tt.name && n.Scope == tt.scope {
				found = true
			}
		}
		if found != tt.found {
			t.Errorf("name %s scoped to %s found = %v, expected %v", tt.name, tt.scope, found, tt.found)
		}
	}

	msgs := strings.Join(sink.Messages(), "\n")
	if !strings.Contains(msgs, "Dropping name 'Lost' scoped to skipped sheet 1") {
		t.Errorf("warnings = %q, expected the skipped sheet name to be dropped", msgs)
	}
}
