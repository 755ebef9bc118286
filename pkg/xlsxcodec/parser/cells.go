package parser

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// cellState tracks the progress of the cell being read.
type cellState int

const (
	awaitingType cellState = iota
	awaitingValue
	committed
)

// cellScratch accumulates one <c> element until it is committed.
type cellScratch struct {
	state   cellState
	ref     models.CellRef
	kind    string
	style   *models.Style
	value   models.Value
	formula string
	hasF    bool
	array   *models.Range

	// formula element attributes
	fKind string
	fRef  string
	fSI   string
}

// cellStart resets the scratch. A missing r attribute means the column
// after the previous cell.
func (s *sheetReader) cellStart(attrs []xml.Attr) {
	s.cell = cellScratch{state: awaitingType, value: models.Value{Type: models.ValueEmpty}}
	sc := &s.cell
	hasRef := false
	styleIdx := 0
	for _, a := range attrs {
		switch {
		case s.AttrPos(a, "r", &sc.ref):
			hasRef = true
		case s.AttrInt(a, "s", &styleIdx):
		case AttrString(a, "t", &sc.kind):
		}
	}
	if !hasRef {
		sc.ref = models.CellRef{Col: s.col + 1, Row: s.row}
	}
	s.col = sc.ref.Col
	s.Pos = &sc.ref
	if styleIdx > 0 && s.opts.Styles {
		sc.style = s.t.CellXf(s.Context, styleIdx)
	}
	sc.state = awaitingValue
}

func (s *sheetReader) formulaStart(attrs []xml.Attr) {
	sc := &s.cell
	for _, a := range attrs {
		_ = AttrString(a, "t", &sc.fKind) ||
			AttrString(a, "ref", &sc.fRef) ||
			AttrString(a, "si", &sc.fSI)
	}
}

// formulaEnd resolves the formula text. Shared formulas register their
// master on first sight and are translated for the following cells.
func (s *sheetReader) formulaEnd(text string) {
	sc := &s.cell
	text = strings.TrimLeft(text, " ")
	switch sc.fKind {
	case "shared":
		if sc.fSI == "" {
			s.Warnf("Missing si for shared formula")
			return
		}
		if text != "" {
			sf := &sharedFormula{anchor: sc.ref, text: text, ref: models.CellRange(sc.ref)}
			if sc.fRef != "" {
				if rng, err := models.ParseRange(sc.fRef); err == nil {
					sf.ref = rng
				}
			}
			s.shared[sc.fSI] = sf
			sc.formula, sc.hasF = text, true
			return
		}
		sf, ok := s.shared[sc.fSI]
		if !ok {
			s.Warnf("Undefined shared formula '%s'", sc.fSI)
			return
		}
		sf.refs++
		sc.formula = TranslateFormula(sf.text, sc.ref.Col-sf.anchor.Col, sc.ref.Row-sf.anchor.Row)
		sc.hasF = true
	case "array":
		rng := models.CellRange(sc.ref)
		if sc.fRef != "" {
			r, err := models.ParseRange(sc.fRef)
			if err != nil || !r.Valid() {
				s.Warnf("Invalid array formula range '%s'", sc.fRef)
			} else {
				rng = r
			}
		}
		sc.array = &rng
		sc.formula, sc.hasF = text, true
	case "dataTable":
		// data table results are stored as plain values
	default:
		if text != "" {
			sc.formula, sc.hasF = text, true
		}
	}
}

// valueEnd types the <v> text by the cell type.
func (s *sheetReader) valueEnd(text string) {
	sc := &s.cell
	switch sc.kind {
	case "", "n":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			s.Warnf("Invalid number '%s'", text)
			return
		}
		sc.value = models.NumberValue(f)
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			s.Warnf("Invalid sst ref")
			return
		}
		if str, ok := s.t.SharedString(s.Context, idx); ok {
			sc.value = models.StringValue(str)
		}
	case "b":
		sc.value = models.BoolValue(strings.TrimSpace(text) != "0")
	case "e":
		sc.value = models.ErrorValue(strings.TrimSpace(text))
	case "str", "inlineStr":
		sc.value = models.StringValue(text)
	case "d":
		serial, err := dateSerial(strings.TrimSpace(text), s.wb.Date1904)
		if err != nil {
			s.Warnf("Invalid date '%s'", text)
			return
		}
		sc.value = models.NumberValue(serial)
	default:
		s.Warnf("Unknown cell type '%s'", sc.kind)
	}
}

func (s *sheetReader) inlineStart(_ []xml.Attr) {
	s.rich.Reset()
}

func (s *sheetReader) inlineRun(text string) {
	s.rich.WriteString(text)
}

func (s *sheetReader) inlineEnd(_ string) {
	s.cell.value = models.StringValue(s.rich.String())
}

// cellEnd commits exactly one of: array formula, formula with cached
// value, formula, value. The style is applied in every case.
func (s *sheetReader) cellEnd(_ string) {
	sc := &s.cell
	defer func() {
		sc.state = committed
		s.Pos = nil
	}()

	c, err := s.sheet.FetchCell(sc.ref)
	if err != nil {
		s.Warnf("Invalid cell")
		return
	}
	switch {
	case sc.array != nil:
		if err := s.sheet.SetArrayFormula(*sc.array, sc.formula); err != nil {
			s.Warnf("Invalid array formula range '%s': %v", sc.array, err)
			c.Formula = sc.formula
		}
		c.Value = sc.value
	case sc.hasF:
		c.Formula = sc.formula
		c.Value = sc.value
	case !sc.value.IsEmpty():
		c.Value = sc.value
		c.Formula = ""
	}
	if sc.style != nil {
		c.Style = sc.style
	}
}

// rowStart reads the row attributes. A missing r attribute means the row
// after the previous one.
func (s *sheetReader) rowStart(attrs []xml.Attr) {
	var (
		info                models.RowInfo
		r, styleIdx         int
		ht                  float64
		hasHt, customFormat bool
	)
	for _, a := range attrs {
		switch {
		case s.AttrInt(a, "r", &r):
		case s.AttrFloat(a, "ht", &ht):
			hasHt = true
		case s.AttrBool(a, "customHeight", &info.CustomHeight):
		case s.AttrBool(a, "customFormat", &customFormat):
		case s.AttrInt(a, "s", &styleIdx):
		case s.AttrBool(a, "hidden", &info.Hidden):
		case s.AttrInt(a, "outlineLevel", &info.OutlineLevel):
		case s.AttrBool(a, "collapsed", &info.Collapsed):
		}
	}
	if r > 0 {
		s.row = r
	} else {
		s.row++
	}
	s.col = 0

	if hasHt {
		info.Height = &ht
	}
	if customFormat && styleIdx > 0 && s.opts.Styles {
		info.Style = s.t.CellXf(s.Context, styleIdx)
	}
	if !info.IsDefault() {
		*s.sheet.Row(s.row) = info
	}
}

func (s *sheetReader) colStart(attrs []xml.Attr) {
	var (
		ci             models.ColInfo
		width          float64
		styleIdx       int
		hasMin, hasMax bool
	)
	for _, a := range attrs {
		switch {
		case s.AttrInt(a, "min", &ci.Min):
			hasMin = true
		case s.AttrInt(a, "max", &ci.Max):
			hasMax = true
		case s.AttrFloat(a, "width", &width):
			ci.Width = &width
		case s.AttrBool(a, "customWidth", &ci.CustomWidth):
		case s.AttrBool(a, "bestFit", &ci.BestFit):
		case s.AttrInt(a, "style", &styleIdx):
		case s.AttrBool(a, "hidden", &ci.Hidden):
		case s.AttrInt(a, "outlineLevel", &ci.OutlineLevel):
		case s.AttrBool(a, "collapsed", &ci.Collapsed):
		}
	}
	switch {
	case !hasMin && !hasMax:
		s.Warnf("Missing min and max for col")
		return
	case !hasMin:
		ci.Min = ci.Max
	case !hasMax:
		ci.Max = ci.Min
	}
	if ci.Min < 1 || ci.Max > models.MaxCols || ci.Min > ci.Max {
		s.Warnf("Invalid col range %d..%d", ci.Min, ci.Max)
		return
	}
	if styleIdx > 0 && s.opts.Styles {
		ci.Style = s.t.CellXf(s.Context, styleIdx)
	}
	s.sheet.Cols = append(s.sheet.Cols, ci)
}

// dateLayouts are the ISO 8601 forms accepted in t="d" cells.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// dateSerial converts an ISO 8601 date to a serial number. The 1900 system
// counts the nonexistent 1900-02-29, so earlier dates are one day lower.
func dateSerial(text string, date1904 bool) (float64, error) {
	if t, err := time.Parse("15:04:05.999999999", text); err == nil {
		return float64(t.Hour()*3600+t.Minute()*60+t.Second())/86400 + float64(t.Nanosecond())/86400e9, nil
	}
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, text); err == nil {
			break
		}
	}
	if err != nil {
		return 0, err
	}
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	if date1904 {
		epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	serial := float64(t.Unix()-epoch.Unix())/86400 + float64(t.Nanosecond())/86400e9
	if !date1904 && serial < 61 {
		serial--
	}
	return serial, nil
}
