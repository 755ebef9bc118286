// Package numfmt holds the built-in number formats and classifies format codes.
package numfmt

import (
	"strings"

	"github.com/xuri/nfp"
)

// General is the code of the default number format.
const General = "General"

// CustomBase is the first id available to custom formats.
const CustomBase = 164

// builtin maps the implicit format ids to their codes.
var builtin = map[int]string{
	0:  General,
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

var builtinIDs = func() map[string]int {
	m := make(map[string]int, len(builtin))
	for id, code := range builtin {
		m[code] = id
	}
	return m
}()

// Builtin returns the code of a built-in format id.
func Builtin(id int) (string, bool) {
	code, ok := builtin[id]
	return code, ok
}

// BuiltinID returns the id of a built-in format code.
func BuiltinID(code string) (int, bool) {
	if strings.EqualFold(code, General) {
		return 0, true
	}
	id, ok := builtinIDs[code]
	return id, ok
}

// IsGeneral reports whether code is the default format.
func IsGeneral(code string) bool {
	return code == "" || strings.EqualFold(code, General)
}

// IsDate reports whether code formats numbers as dates or times.
func IsDate(code string) bool {
	if IsGeneral(code) {
		return false
	}
	ps := nfp.NumberFormatParser()
	for _, section := range ps.Parse(code) {
		for _, tok := range section.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}
