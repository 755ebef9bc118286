// Package output renders a workbook model as JSON or YAML documents.
package output

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/numfmt"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Workbook is the rendered form of a workbook.
type Workbook struct {
	BookName   string               `json:"book_name,omitempty"`
	Date1904   bool                 `json:"date1904,omitempty"`
	Sheets     []Sheet              `json:"sheets"`
	Names      []models.DefinedName `json:"names,omitempty"`
	PrintAreas []models.PrintArea   `json:"print_areas,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// Sheet is the rendered form of a sheet.
type Sheet struct {
	Name            string              `json:"name"`
	State           models.SheetState   `json:"state,omitempty"`
	Rows            []Row               `json:"rows,omitempty"`
	Merges          []models.Range      `json:"merges,omitempty"`
	TableCandidates []models.Range      `json:"table_candidates,omitempty"`
	Hyperlinks      []models.Hyperlink  `json:"hyperlinks,omitempty"`
	Validations     []models.Validation `json:"validations,omitempty"`
	Comments        []models.Comment    `json:"comments,omitempty"`
	Shapes          []models.Shape      `json:"shapes,omitempty"`
	Charts          []*models.Chart     `json:"charts,omitempty"`
}

// Row holds the cells of one row.
type Row struct {
	R     int    `json:"r"`
	Cells []Cell `json:"c"`
}

// Cell is a rendered cell. Value is a number, string or boolean; error
// codes are strings with Type "error".
type Cell struct {
	Ref     string        `json:"ref"`
	Type    string        `json:"type,omitempty"`
	Value   any           `json:"v,omitempty"`
	Date    string        `json:"date,omitempty"`
	Formula string        `json:"f,omitempty"`
	Array   string        `json:"array,omitempty"`
	Style   *models.Style `json:"style,omitempty"`
}

// FromWorkbook builds the rendered form of wb.
func FromWorkbook(wb *models.Workbook, warnings []string) *Workbook {
	doc := &Workbook{
		BookName:   wb.BookName,
		Date1904:   wb.Date1904,
		Names:      wb.Names,
		PrintAreas: wb.PrintAreas(),
		Warnings:   warnings,
	}
	for _, s := range wb.Sheets {
		doc.Sheets = append(doc.Sheets, *FromSheet(s, wb.Date1904))
	}
	return doc
}

// FromSheet builds the rendered form of s.
func FromSheet(s *models.Sheet, date1904 bool) *Sheet {
	doc := &Sheet{
		Name:            s.Name,
		State:           s.State,
		Merges:          s.Merges,
		TableCandidates: s.TableCandidates(models.DefaultTableParams()),
		Hyperlinks:      s.Hyperlinks,
		Validations:     s.Validations,
		Comments:        s.Comments,
		Shapes:          s.Shapes,
		Charts:          s.Charts,
	}
	rows := make(map[int]*Row)
	var order []int
	for _, ref := range s.CellRefs() {
		c := s.Cell(ref)
		if c.IsBlank() && s.EffectiveStyle(ref) == nil {
			continue
		}
		row, ok := rows[ref.Row]
		if !ok {
			row = &Row{R: ref.Row}
			rows[ref.Row] = row
			order = append(order, ref.Row)
		}
		row.Cells = append(row.Cells, renderCell(s, c, date1904))
	}
	sort.Ints(order)
	for _, r := range order {
		doc.Rows = append(doc.Rows, *rows[r])
	}
	return doc
}

func renderCell(s *models.Sheet, c *models.Cell, date1904 bool) Cell {
	out := Cell{Ref: c.Ref.String(), Formula: c.Formula, Style: s.EffectiveStyle(c.Ref)}
	if c.IsArrayCorner() {
		out.Array = c.Array.String()
	}
	switch c.Value.Type {
	case models.ValueNumber:
		out.Value = c.Value.Number
		if st := out.Style; st != nil && st.NumFmt != nil && numfmt.IsDate(*st.NumFmt) {
			out.Date = formatDate(c.Value.Number, date1904)
		}
	case models.ValueString:
		out.Value = c.Value.Text
	case models.ValueBool:
		out.Value = c.Value.Bool
	case models.ValueError:
		out.Type = string(models.ValueError)
		out.Value = c.Value.Text
	}
	return out
}

// formatDate renders a date serial, with the time of day when it has one.
func formatDate(serial float64, date1904 bool) string {
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return ""
	}
	if serial == math.Trunc(serial) {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02T15:04:05")
}

// ToJSON serializes the workbook to JSON.
func ToJSON(wb *models.Workbook, warnings []string, pretty bool) ([]byte, error) {
	return MarshalJSON(FromWorkbook(wb, warnings), pretty)
}

// SheetToJSON serializes one sheet to JSON.
func SheetToJSON(s *models.Sheet, date1904, pretty bool) ([]byte, error) {
	return MarshalJSON(FromSheet(s, date1904), pretty)
}

// PrintAreaViewToJSON serializes a print area view to JSON.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return MarshalJSON(view, pretty)
}

// ToYAML serializes the workbook to YAML with the JSON field names.
func ToYAML(wb *models.Workbook, warnings []string) ([]byte, error) {
	return MarshalYAML(FromWorkbook(wb, warnings))
}

// MarshalYAML renders v as block style YAML keyed by its JSON field names.
func MarshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// JSON is valid YAML; the node keeps the key order of the structs
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// MarshalJSON renders v as compact or indented JSON.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
