package parser

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// EnumVal pairs an attribute spelling with its value.
type EnumVal[T any] struct {
	Name  string
	Value T
}

// enumOf builds the enum table of string-typed constants spelled as their value.
func enumOf[T ~string](vals ...T) []EnumVal[T] {
	res := make([]EnumVal[T], len(vals))
	for i, v := range vals {
		res[i] = EnumVal[T]{Name: string(v), Value: v}
	}
	return res
}

// attrIs reports whether a is the unqualified attribute name.
func attrIs(a xml.Attr, name string) bool {
	return a.Name.Local == name && (a.Name.Space == "" || resolveNS(a.Name.Space) == NSSpreadsheet)
}

// AttrNS reports whether a is attribute name in namespace ns.
func AttrNS(a xml.Attr, ns NS, name string) bool {
	return a.Name.Local == name && resolveNS(a.Name.Space) == ns
}

func (c *Context) invalid(kind string, a xml.Attr) {
	c.Warnf("Invalid %s '%s' for attribute %s", kind, a.Value, a.Name.Local)
}

// AttrBool decodes a boolean attribute ("1", "true", "0", "false").
func (c *Context) AttrBool(a xml.Attr, name string, out *bool) bool {
	if !attrIs(a, name) {
		return false
	}
	switch strings.TrimSpace(a.Value) {
	case "1", "true":
		*out = true
	case "0", "false":
		*out = false
	default:
		c.invalid("boolean", a)
		return false
	}
	return true
}

// AttrInt decodes an integer attribute.
func (c *Context) AttrInt(a xml.Attr, name string, out *int) bool {
	if !attrIs(a, name) {
		return false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 32)
	if err != nil {
		c.invalid("integer", a)
		return false
	}
	*out = int(v)
	return true
}

// AttrUint decodes an unsigned integer attribute.
func (c *Context) AttrUint(a xml.Attr, name string, out *uint32) bool {
	if !attrIs(a, name) {
		return false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(a.Value), 10, 32)
	if err != nil {
		c.invalid("unsigned integer", a)
		return false
	}
	*out = uint32(v)
	return true
}

// AttrInt64 decodes a 64-bit integer attribute (EMU coordinates).
func (c *Context) AttrInt64(a xml.Attr, name string, out *int64) bool {
	if !attrIs(a, name) {
		return false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 64)
	if err != nil {
		c.invalid("integer", a)
		return false
	}
	*out = v
	return true
}

// AttrFloat decodes a finite floating point attribute.
func (c *Context) AttrFloat(a xml.Attr, name string, out *float64) bool {
	if !attrIs(a, name) {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.invalid("number", a)
		return false
	}
	*out = v
	return true
}

// AttrPercent decodes "50%" as 50000 or a plain integer as is.
func (c *Context) AttrPercent(a xml.Attr, name string, out *int) bool {
	if !attrIs(a, name) {
		return false
	}
	s := strings.TrimSpace(a.Value)
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.invalid("percentage", a)
			return false
		}
		*out = int(math.Round(v * 1000))
		return true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.invalid("percentage", a)
		return false
	}
	*out = v
	return true
}

// AttrColor decodes an "RRGGBB" or "AARRGGBB" color attribute.
func (c *Context) AttrColor(a xml.Attr, name string, out *models.Color) bool {
	if !attrIs(a, name) {
		return false
	}
	v, err := models.ParseColor(strings.TrimSpace(a.Value))
	if err != nil {
		c.Warnf("Invalid color '%s' for attribute %s", a.Value, a.Name.Local)
		return false
	}
	*out = v
	return true
}

// AttrEnum decodes an enumerated attribute. Matching is case-sensitive.
func AttrEnum[T any](c *Context, a xml.Attr, name string, vals []EnumVal[T], out *T) bool {
	if !attrIs(a, name) {
		return false
	}
	for _, v := range vals {
		if v.Name == a.Value {
			*out = v.Value
			return true
		}
	}
	c.Warnf("Unknown enum value '%s' for attribute %s", a.Value, a.Name.Local)
	return false
}

// AttrPos decodes a cell reference attribute.
func (c *Context) AttrPos(a xml.Attr, name string, out *models.CellRef) bool {
	if !attrIs(a, name) {
		return false
	}
	ref, err := models.ParseCellRef(strings.TrimSpace(a.Value))
	if err != nil || !ref.Valid() {
		c.invalid("cell reference", a)
		return false
	}
	*out = ref
	return true
}

// AttrRange decodes an "A1:B2" or single cell range attribute.
func (c *Context) AttrRange(a xml.Attr, name string, out *models.Range) bool {
	if !attrIs(a, name) {
		return false
	}
	rng, err := models.ParseRange(a.Value)
	if err != nil || !rng.Valid() {
		c.invalid("range", a)
		return false
	}
	*out = rng
	return true
}

// AttrRefList decodes a space separated range list (sqref).
func (c *Context) AttrRefList(a xml.Attr, name string, out *[]models.Range) bool {
	if !attrIs(a, name) {
		return false
	}
	ranges, err := models.ParseRangeList(a.Value)
	if err != nil || len(ranges) == 0 {
		c.invalid("range list", a)
		return false
	}
	*out = ranges
	return true
}

// AttrString matches an unqualified attribute and returns its value.
func AttrString(a xml.Attr, name string, out *string) bool {
	if !attrIs(a, name) {
		return false
	}
	*out = a.Value
	return true
}

// valAttr returns the "val" attribute, used by most chart elements.
func valAttr(attrs []xml.Attr) (xml.Attr, bool) {
	for _, a := range attrs {
		if attrIs(a, "val") {
			return a, true
		}
	}
	return xml.Attr{}, false
}
