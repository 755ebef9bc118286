package models

import (
	"strconv"
)

// ValueType is the kind of a cell value.
type ValueType string

const (
	// ValueEmpty is an empty value.
	ValueEmpty ValueType = "empty"
	// ValueNumber is a floating point number.
	ValueNumber ValueType = "number"
	// ValueString is a text value.
	ValueString ValueType = "string"
	// ValueBool is a boolean value.
	ValueBool ValueType = "bool"
	// ValueError is an error code such as "#DIV/0!".
	ValueError ValueType = "error"
)

// ErrorCodes lists the error values understood by spreadsheet applications.
var ErrorCodes = []string{
	"#NULL!", "#DIV/0!", "#VALUE!", "#REF!", "#NAME?", "#NUM!", "#N/A", "#GETTING_DATA",
}

// Value is a typed cell value.
type Value struct {
	// Type is the value kind.
	Type ValueType `json:"type"`
	// Number holds the numeric value for ValueNumber.
	Number float64 `json:"number,omitempty"`
	// Text holds the string for ValueString and the code for ValueError.
	Text string `json:"text,omitempty"`
	// Bool holds the boolean for ValueBool.
	Bool bool `json:"bool,omitempty"`
}

// NumberValue returns a number value.
func NumberValue(f float64) Value { return Value{Type: ValueNumber, Number: f} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Type: ValueString, Text: s} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Type: ValueBool, Bool: b} }

// ErrorValue returns an error value.
func ErrorValue(code string) Value { return Value{Type: ValueError, Text: code} }

// IsEmpty reports whether the value carries nothing.
func (v Value) IsEmpty() bool {
	return v.Type == "" || v.Type == ValueEmpty
}

// String renders the value the way it is stored in a <v> element.
func (v Value) String() string {
	switch v.Type {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ValueString, ValueError:
		return v.Text
	}
	return ""
}

// Cell is a single sheet cell.
type Cell struct {
	// Ref is the cell position.
	Ref CellRef `json:"ref"`
	// Value is the literal value or the cached result of the formula.
	Value Value `json:"value"`
	// Formula is the formula text without the leading "=".
	Formula string `json:"formula,omitempty"`
	// Array is the array formula rectangle this cell belongs to.
	Array *Range `json:"array,omitempty"`
	// Style is the cell format, nil for the default format.
	Style *Style `json:"-"`
}

// HasFormula reports whether the cell carries formula text.
func (c *Cell) HasFormula() bool {
	return c.Formula != ""
}

// IsArrayCorner reports whether the cell is the top-left cell of an array formula.
func (c *Cell) IsArrayCorner() bool {
	return c.Array != nil && c.Array.From == c.Ref
}

// IsArrayMember reports whether the cell is covered by an array formula.
func (c *Cell) IsArrayMember() bool {
	return c.Array != nil
}

// IsBlank reports whether the cell has neither value nor formula.
func (c *Cell) IsBlank() bool {
	return c.Value.IsEmpty() && c.Formula == "" && c.Array == nil
}
