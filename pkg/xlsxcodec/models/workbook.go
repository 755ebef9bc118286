package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Errors returned by workbook operations.
var (
	// ErrDuplicateSheet indicates a sheet name already in use.
	ErrDuplicateSheet = errors.New("duplicate sheet name")
	// ErrInvalidSheetName indicates a sheet name that cannot be stored.
	ErrInvalidSheetName = errors.New("invalid sheet name")
	// ErrInvalidName indicates an empty defined name.
	ErrInvalidName = errors.New("invalid defined name")
)

// MaxSheetNameLength is the longest sheet name accepted by spreadsheet applications.
const MaxSheetNameLength = 31

// Workbook is the in-memory spreadsheet document.
type Workbook struct {
	// BookName is the file name the workbook was read from (no path).
	BookName string `json:"book_name,omitempty"`
	// Sheets contains the sheets in tab order.
	Sheets []*Sheet `json:"sheets"`
	// Names contains defined names.
	Names []DefinedName `json:"names,omitempty"`
	// Date1904 selects the 1904 date system.
	Date1904 bool `json:"date1904,omitempty"`
	// ActiveTab is the index of the selected sheet.
	ActiveTab int `json:"active_tab,omitempty"`
	// Theme is the color theme, nil for the default theme.
	Theme *Theme `json:"theme,omitempty"`
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// DefinedName is a named expression.
type DefinedName struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
	// Scope is the owning sheet name, empty for workbook scope.
	Scope  string `json:"scope,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// ValidateSheetName checks name against the sheet naming rules.
func ValidateSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSheetName)
	}
	if utf8.RuneCountInString(name) > MaxSheetNameLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidSheetName, name, MaxSheetNameLength)
	}
	if strings.ContainsAny(name, ":\\/?*[]") {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidSheetName, name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	return nil
}

// AddSheet appends a new sheet.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := ValidateSheetName(name); err != nil {
		return nil, err
	}
	if wb.Sheet(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
	}
	s := NewSheet(name)
	wb.Sheets = append(wb.Sheets, s)
	return s, nil
}

// Sheet returns the sheet called name (case-insensitive), or nil.
func (wb *Workbook) Sheet(name string) *Sheet {
	for _, s := range wb.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// SheetIndex returns the position of the sheet called name, or -1.
func (wb *Workbook) SheetIndex(name string) int {
	for i, s := range wb.Sheets {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}

// DefineName adds or replaces a named expression. A leading "=" is dropped.
func (wb *Workbook) DefineName(name, formula, scope string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	formula = strings.TrimPrefix(formula, "=")
	for i := range wb.Names {
		if strings.EqualFold(wb.Names[i].Name, name) && strings.EqualFold(wb.Names[i].Scope, scope) {
			wb.Names[i].Formula = formula
			return nil
		}
	}
	wb.Names = append(wb.Names, DefinedName{Name: name, Formula: formula, Scope: scope})
	return nil
}

// LookupName returns the named expression visible from scope, preferring a
// sheet scoped definition over a global one.
func (wb *Workbook) LookupName(name, scope string) (DefinedName, bool) {
	var global *DefinedName
	for i := range wb.Names {
		n := &wb.Names[i]
		if !strings.EqualFold(n.Name, name) {
			continue
		}
		if n.Scope != "" && strings.EqualFold(n.Scope, scope) {
			return *n, true
		}
		if n.Scope == "" {
			global = n
		}
	}
	if global != nil {
		return *global, true
	}
	return DefinedName{}, false
}

// Theme is a workbook color theme.
type Theme struct {
	Name string `json:"name,omitempty"`
	// Colors maps the scheme slot name (dk1, lt1, accent1, ...) to its color.
	Colors map[string]Color `json:"colors"`
}

// ThemeColorNames lists the scheme slots in their index order.
var ThemeColorNames = []string{
	"lt1", "dk1", "lt2", "dk2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// themeAliases maps the mapped names used by drawings to scheme slots.
var themeAliases = map[string]string{
	"tx1": "dk1",
	"tx2": "dk2",
	"bg1": "lt1",
	"bg2": "lt2",
}

// DefaultTheme returns the Office theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Office Theme",
		Colors: map[string]Color{
			"dk1":      ColorBlack,
			"lt1":      ColorWhite,
			"dk2":      RGB(0x1F, 0x49, 0x7D),
			"lt2":      RGB(0xEE, 0xEC, 0xE1),
			"accent1":  RGB(0x4F, 0x81, 0xBD),
			"accent2":  RGB(0xC0, 0x50, 0x4D),
			"accent3":  RGB(0x9B, 0xBB, 0x59),
			"accent4":  RGB(0x80, 0x64, 0xA2),
			"accent5":  RGB(0x4B, 0xAC, 0xC6),
			"accent6":  RGB(0xF7, 0x96, 0x46),
			"hlink":    RGB(0x00, 0x00, 0xFF),
			"folHlink": RGB(0x80, 0x00, 0x80),
		},
	}
}

// Color resolves a scheme slot or alias. lt1 and dk1 default to white and black.
func (t *Theme) Color(name string) (Color, bool) {
	if alias, ok := themeAliases[name]; ok {
		name = alias
	}
	if t != nil {
		if c, ok := t.Colors[name]; ok {
			return c, true
		}
	}
	switch name {
	case "lt1":
		return ColorWhite, true
	case "dk1":
		return ColorBlack, true
	}
	return 0, false
}

// IndexColor resolves the scheme slot at index i of ThemeColorNames.
func (t *Theme) IndexColor(i int) (Color, bool) {
	if i < 0 || i >= len(ThemeColorNames) {
		return 0, false
	}
	return t.Color(ThemeColorNames[i])
}
