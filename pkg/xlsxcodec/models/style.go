package models

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Color is an ARGB color.
type Color uint32

// Well known colors.
const (
	ColorBlack  Color = 0xFF000000
	ColorWhite  Color = 0xFFFFFFFF
	ColorRed    Color = 0xFFFF0000
	ColorGreen  Color = 0xFF00FF00
	ColorBlue   Color = 0xFF0000FF
	ColorYellow Color = 0xFFFFFF00
)

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor parses "RRGGBB" or "AARRGGBB" hex text.
func ParseColor(s string) (Color, error) {
	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, err
		}
		return Color(0xFF000000 | uint32(v)), nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, err
		}
		return Color(v), nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

// Hex returns the AARRGGBB form.
func (c Color) Hex() string { return fmt.Sprintf("%08X", uint32(c)) }

// RGBHex returns the RRGGBB form.
func (c Color) RGBHex() string { return fmt.Sprintf("%06X", uint32(c)&0xFFFFFF) }

// Opaque returns c with a full alpha channel.
func (c Color) Opaque() Color { return c | 0xFF000000 }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(strings.TrimPrefix(string(b), "#"))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Underline is a font underline kind.
type Underline string

// Underline kinds.
const (
	UnderlineNone             Underline = "none"
	UnderlineSingle           Underline = "single"
	UnderlineDouble           Underline = "double"
	UnderlineSingleAccounting Underline = "singleAccounting"
	UnderlineDoubleAccounting Underline = "doubleAccounting"
)

// Script is a vertical text alignment of a font.
type Script string

// Script kinds.
const (
	ScriptBaseline    Script = "baseline"
	ScriptSuperscript Script = "superscript"
	ScriptSubscript   Script = "subscript"
)

// Font describes the font category of a style. Nil fields are unset.
type Font struct {
	Name      *string    `json:"name,omitempty"`
	Size      *float64   `json:"size,omitempty"`
	Bold      *bool      `json:"bold,omitempty"`
	Italic    *bool      `json:"italic,omitempty"`
	Strike    *bool      `json:"strike,omitempty"`
	Underline *Underline `json:"underline,omitempty"`
	Script    *Script    `json:"script,omitempty"`
	Color     *Color     `json:"color,omitempty"`
}

// Pattern is a fill pattern.
type Pattern string

// Fill patterns in the order of their OOXML enumeration.
const (
	PatternNone            Pattern = "none"
	PatternSolid           Pattern = "solid"
	PatternMediumGray      Pattern = "mediumGray"
	PatternDarkGray        Pattern = "darkGray"
	PatternLightGray       Pattern = "lightGray"
	PatternDarkHorizontal  Pattern = "darkHorizontal"
	PatternDarkVertical    Pattern = "darkVertical"
	PatternDarkDown        Pattern = "darkDown"
	PatternDarkUp          Pattern = "darkUp"
	PatternDarkGrid        Pattern = "darkGrid"
	PatternDarkTrellis     Pattern = "darkTrellis"
	PatternLightHorizontal Pattern = "lightHorizontal"
	PatternLightVertical   Pattern = "lightVertical"
	PatternLightDown       Pattern = "lightDown"
	PatternLightUp         Pattern = "lightUp"
	PatternLightGrid       Pattern = "lightGrid"
	PatternLightTrellis    Pattern = "lightTrellis"
	PatternGray125         Pattern = "gray125"
	PatternGray0625        Pattern = "gray0625"
)

// Patterns lists every fill pattern.
var Patterns = []Pattern{
	PatternNone, PatternSolid, PatternMediumGray, PatternDarkGray, PatternLightGray,
	PatternDarkHorizontal, PatternDarkVertical, PatternDarkDown, PatternDarkUp,
	PatternDarkGrid, PatternDarkTrellis, PatternLightHorizontal, PatternLightVertical,
	PatternLightDown, PatternLightUp, PatternLightGrid, PatternLightTrellis,
	PatternGray125, PatternGray0625,
}

// Fill describes the background of a style.
type Fill struct {
	Pattern *Pattern `json:"pattern,omitempty"`
	// Fg is the pattern color (the visible color of a solid fill).
	Fg *Color `json:"fg,omitempty"`
	// Bg is the color behind the pattern.
	Bg *Color `json:"bg,omitempty"`
}

// BorderStyle is a line style of a border edge.
type BorderStyle string

// Border line styles.
const (
	BorderNone             BorderStyle = "none"
	BorderThin             BorderStyle = "thin"
	BorderMedium           BorderStyle = "medium"
	BorderDashed           BorderStyle = "dashed"
	BorderDotted           BorderStyle = "dotted"
	BorderThick            BorderStyle = "thick"
	BorderDouble           BorderStyle = "double"
	BorderHair             BorderStyle = "hair"
	BorderMediumDashed     BorderStyle = "mediumDashed"
	BorderDashDot          BorderStyle = "dashDot"
	BorderMediumDashDot    BorderStyle = "mediumDashDot"
	BorderDashDotDot       BorderStyle = "dashDotDot"
	BorderMediumDashDotDot BorderStyle = "mediumDashDotDot"
	BorderSlantDashDot     BorderStyle = "slantDashDot"
)

// BorderStyles lists every border line style.
var BorderStyles = []BorderStyle{
	BorderNone, BorderThin, BorderMedium, BorderDashed, BorderDotted, BorderThick,
	BorderDouble, BorderHair, BorderMediumDashed, BorderDashDot, BorderMediumDashDot,
	BorderDashDotDot, BorderMediumDashDotDot, BorderSlantDashDot,
}

// BorderLine is one edge of a border.
type BorderLine struct {
	Style BorderStyle `json:"style"`
	Color *Color      `json:"color,omitempty"`
}

// Border describes the border category of a style.
type Border struct {
	Left         *BorderLine `json:"left,omitempty"`
	Right        *BorderLine `json:"right,omitempty"`
	Top          *BorderLine `json:"top,omitempty"`
	Bottom       *BorderLine `json:"bottom,omitempty"`
	Diagonal     *BorderLine `json:"diagonal,omitempty"`
	DiagonalUp   *bool       `json:"diagonal_up,omitempty"`
	DiagonalDown *bool       `json:"diagonal_down,omitempty"`
}

// HAlign is a horizontal alignment.
type HAlign string

// Horizontal alignments.
const (
	HAlignGeneral          HAlign = "general"
	HAlignLeft             HAlign = "left"
	HAlignCenter           HAlign = "center"
	HAlignRight            HAlign = "right"
	HAlignFill             HAlign = "fill"
	HAlignJustify          HAlign = "justify"
	HAlignCenterContinuous HAlign = "centerContinuous"
	HAlignDistributed      HAlign = "distributed"
)

// VAlign is a vertical alignment.
type VAlign string

// Vertical alignments.
const (
	VAlignTop         VAlign = "top"
	VAlignCenter      VAlign = "center"
	VAlignBottom      VAlign = "bottom"
	VAlignJustify     VAlign = "justify"
	VAlignDistributed VAlign = "distributed"
)

// Alignment describes the alignment category of a style.
type Alignment struct {
	Horizontal  *HAlign `json:"horizontal,omitempty"`
	Vertical    *VAlign `json:"vertical,omitempty"`
	WrapText    *bool   `json:"wrap_text,omitempty"`
	ShrinkToFit *bool   `json:"shrink_to_fit,omitempty"`
	Indent      *int    `json:"indent,omitempty"`
	// Rotation is the text rotation: 0..90 degrees counter-clockwise,
	// 91..180 clockwise by (value - 90) degrees, 255 for stacked text.
	Rotation *int `json:"rotation,omitempty"`
}

// Protection describes the protection category of a style.
type Protection struct {
	Locked *bool `json:"locked,omitempty"`
	Hidden *bool `json:"hidden,omitempty"`
}

// Style is a cell format. Each category and each field inside a category is
// optional, so the same type represents complete cell formats and sparse
// differential formats.
type Style struct {
	Font       *Font       `json:"font,omitempty"`
	Fill       *Fill       `json:"fill,omitempty"`
	Border     *Border     `json:"border,omitempty"`
	NumFmt     *string     `json:"num_fmt,omitempty"`
	Alignment  *Alignment  `json:"alignment,omitempty"`
	Protection *Protection `json:"protection,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	var dst Style
	if err := deepcopy.Copy(&dst, s); err != nil {
		panic(fmt.Sprintf("models: style copy: %v", err))
	}
	return &dst
}

// Equal reports structural equality.
func (s *Style) Equal(o *Style) bool {
	return reflect.DeepEqual(s, o)
}

// IsEmpty reports whether no category is set.
func (s *Style) IsEmpty() bool {
	return s == nil || (s.Font == nil && s.Fill == nil && s.Border == nil &&
		s.NumFmt == nil && s.Alignment == nil && s.Protection == nil)
}

// Merge returns a copy of s with every field set in over applied on top.
func (s *Style) Merge(over *Style) *Style {
	res := s.Clone()
	if res == nil {
		res = &Style{}
	}
	if over == nil {
		return res
	}
	over = over.Clone()
	if over.Font != nil {
		if res.Font == nil {
			res.Font = &Font{}
		}
		mergeFields(res.Font, over.Font)
	}
	if over.Fill != nil {
		if res.Fill == nil {
			res.Fill = &Fill{}
		}
		mergeFields(res.Fill, over.Fill)
	}
	if over.Border != nil {
		if res.Border == nil {
			res.Border = &Border{}
		}
		mergeFields(res.Border, over.Border)
	}
	if over.NumFmt != nil {
		res.NumFmt = over.NumFmt
	}
	if over.Alignment != nil {
		if res.Alignment == nil {
			res.Alignment = &Alignment{}
		}
		mergeFields(res.Alignment, over.Alignment)
	}
	if over.Protection != nil {
		if res.Protection == nil {
			res.Protection = &Protection{}
		}
		mergeFields(res.Protection, over.Protection)
	}
	return res
}

// mergeFields copies every non-nil pointer field of src into dst.
// Both must point to the same struct type.
func mergeFields(dst, src any) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for i := 0; i < sv.NumField(); i++ {
		if f := sv.Field(i); f.Kind() == reflect.Pointer && !f.IsNil() {
			dv.Field(i).Set(f)
		}
	}
}

// DefaultFont is the font of the default cell format.
func DefaultFont() *Font {
	return &Font{
		Name:  Ptr("Calibri"),
		Size:  Ptr(11.0),
		Color: Ptr(ColorBlack),
	}
}
