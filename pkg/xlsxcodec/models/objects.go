package models

// Hyperlink links a cell range to an external target or a location in the workbook.
type Hyperlink struct {
	Ref Range `json:"ref"`
	// Target is the external address, resolved from the relationship.
	Target string `json:"target,omitempty"`
	// Location is an in-workbook destination such as "Sheet2!A1".
	Location string `json:"location,omitempty"`
	Display  string `json:"display,omitempty"`
	Tooltip  string `json:"tooltip,omitempty"`
}

// Validation is a data validation rule.
type Validation struct {
	Sqref       []Range `json:"sqref"`
	Type        string  `json:"type,omitempty"`
	Operator    string  `json:"operator,omitempty"`
	ErrorStyle  string  `json:"error_style,omitempty"`
	AllowBlank  bool    `json:"allow_blank,omitempty"`
	NoDropDown  bool    `json:"no_drop_down,omitempty"`
	ShowInput   bool    `json:"show_input,omitempty"`
	ShowError   bool    `json:"show_error,omitempty"`
	ErrorTitle  string  `json:"error_title,omitempty"`
	Error       string  `json:"error,omitempty"`
	PromptTitle string  `json:"prompt_title,omitempty"`
	Prompt      string  `json:"prompt,omitempty"`
	Formula1    string  `json:"formula1,omitempty"`
	Formula2    string  `json:"formula2,omitempty"`
}

// AutoFilter is the filter attached to a sheet range.
type AutoFilter struct {
	Ref     Range          `json:"ref"`
	Columns []FilterColumn `json:"columns,omitempty"`
}

// FilterColumn is the filter condition of one column of an AutoFilter.
type FilterColumn struct {
	// ColID is the 0-based column offset inside the filter range.
	ColID  int            `json:"col_id"`
	Values []string       `json:"values,omitempty"`
	Blank  bool           `json:"blank,omitempty"`
	Custom []CustomFilter `json:"custom,omitempty"`
	// And joins the custom filters with AND instead of OR.
	And bool `json:"and,omitempty"`
	// Top10 holds a top/bottom filter.
	Top10 *Top10Filter `json:"top10,omitempty"`
}

// CustomFilter is a comparison filter.
type CustomFilter struct {
	Operator string `json:"operator,omitempty"`
	Val      string `json:"val"`
}

// Top10Filter keeps the top or bottom items of a column.
type Top10Filter struct {
	Top     bool    `json:"top"`
	Percent bool    `json:"percent,omitempty"`
	Val     float64 `json:"val"`
}

// CondFormat is a conditional format applied to a set of ranges.
type CondFormat struct {
	Sqref []Range    `json:"sqref"`
	Rules []CondRule `json:"rules"`
}

// CondRule is one rule of a conditional format.
type CondRule struct {
	Type       string   `json:"type"`
	Priority   int      `json:"priority"`
	Operator   string   `json:"operator,omitempty"`
	Text       string   `json:"text,omitempty"`
	StopIfTrue bool     `json:"stop_if_true,omitempty"`
	Formulas   []string `json:"formulas,omitempty"`
	// Style is the differential format applied when the rule matches.
	Style *Style `json:"style,omitempty"`
}

// Comment is a note attached to a cell.
type Comment struct {
	Ref    CellRef `json:"ref"`
	Author string  `json:"author,omitempty"`
	Text   string  `json:"text"`
}

// BlobAttr is an attribute of a Blob.
type BlobAttr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Blob is an element subtree kept verbatim so it can be written back.
type Blob struct {
	Name     string     `json:"name"`
	Attrs    []BlobAttr `json:"attrs,omitempty"`
	Children []*Blob    `json:"children,omitempty"`
	Text     string     `json:"text,omitempty"`
}

// Attr returns the value of attribute name.
func (b *Blob) Attr(name string) (string, bool) {
	for _, a := range b.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
