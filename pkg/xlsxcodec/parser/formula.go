package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"
)

// sharedFormula is the master cell of a shared formula group.
type sharedFormula struct {
	anchor models.CellRef
	text   string
	ref    models.Range
	refs   int
}

// TranslateFormula shifts the relative references of formula by dCol
// columns and dRow rows. Absolute parts ($A, $1) are kept. References
// pushed outside the grid become #REF!. Formulas holding array constants
// are returned unchanged. Text between the references is copied as is.
func TranslateFormula(formula string, dCol, dRow int) string {
	if (dCol == 0 && dRow == 0) || hasArrayConstant(formula) {
		return formula
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	if out, ok := rewriteReferences(formula, tokens, dCol, dRow); ok {
		return out
	}

	// token positions could not be matched back to the text
	for i := range tokens {
		token := tokens[i]
		if token.TType != efp.TokenTypeOperand {
			continue
		}
		switch token.TSubType {
		case efp.TokenSubTypeRange:
			prefix, body := "", token.TValue
			if j := strings.LastIndexByte(body, '!'); j >= 0 {
				prefix, body = quoteSheetPrefix(body[:j])+"!", body[j+1:]
			}
			tokens[i].TValue = prefix + shiftBody(body, dCol, dRow)
		case efp.TokenSubTypeText:
			// rendered back between quotes without escaping
			tokens[i].TValue = strings.ReplaceAll(token.TValue, `"`, `""`)
		}
	}
	return ps.Render()
}

// hasArrayConstant reports whether formula holds a brace outside string
// literals, quoted sheet names and structured references.
func hasArrayConstant(formula string) bool {
	var quote byte
	depth := 0
	for i := 0; i < len(formula); i++ {
		ch := formula[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[':
			depth++
		case ch == ']' && depth > 0:
			depth--
		case ch == '{' && depth == 0:
			return true
		}
	}
	return false
}

// rewriteReferences walks the tokens over the formula text and replaces
// the span of every range operand. It fails when a token cannot be found
// where it is expected.
func rewriteReferences(formula string, tokens []efp.Token, dCol, dRow int) (string, bool) {
	var b strings.Builder
	pos := 0
	for _, token := range tokens {
		if token.TType == efp.TokenTypeWhitespace || token.TSubType == efp.TokenSubTypeIntersection {
			continue
		}
		start := skipSpaces(formula, pos)
		if token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange {
			end := referenceEnd(formula, start, token.TValue)
			if end < 0 {
				return "", false
			}
			b.WriteString(formula[pos:start])
			b.WriteString(shiftReference(formula[start:end], dCol, dRow))
			pos = end
			continue
		}
		src := tokenSource(token)
		end := start + len(src)
		if end > len(formula) || !strings.EqualFold(formula[start:end], src) {
			return "", false
		}
		b.WriteString(formula[pos:end])
		pos = end
	}
	if strings.TrimSpace(formula[pos:]) != "" {
		return "", false
	}
	b.WriteString(formula[pos:])
	return b.String(), true
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\r' || s[pos] == '\n') {
		pos++
	}
	return pos
}

// tokenSource is the text a non-range token was parsed from.
func tokenSource(token efp.Token) string {
	switch {
	case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart:
		return token.TValue + "("
	case token.TSubType == efp.TokenSubTypeStart:
		return "("
	case token.TSubType == efp.TokenSubTypeStop:
		return ")"
	case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeText:
		return `"` + strings.ReplaceAll(token.TValue, `"`, `""`) + `"`
	}
	return token.TValue
}

// referenceEnd returns the end of the reference starting at start whose
// token value is value. The parser drops the quotes around sheet names and
// unescapes doubled ones, so quoted sections are counted without them.
func referenceEnd(formula string, start int, value string) int {
	if strings.HasPrefix(formula[start:], value) {
		return start + len(value)
	}
	var b strings.Builder
	i := start
	for b.Len() < len(value) && i < len(formula) {
		if formula[i] != '\'' {
			b.WriteByte(formula[i])
			i++
			continue
		}
		for i++; i < len(formula); i++ {
			if formula[i] == '\'' {
				if i+1 < len(formula) && formula[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				i++
				break
			}
			b.WriteByte(formula[i])
		}
	}
	if b.String() != value {
		return -1
	}
	return i
}

// shiftReference shifts a reference as written in the formula. The sheet
// prefix, quoted or not, single or 3D, is kept verbatim.
func shiftReference(ref string, dCol, dRow int) string {
	prefix, body := "", ref
	if i := strings.LastIndexByte(ref, '!'); i >= 0 {
		prefix, body = ref[:i+1], ref[i+1:]
	}
	return prefix + shiftBody(body, dCol, dRow)
}

// shiftBody shifts the cell part of a reference.
func shiftBody(body string, dCol, dRow int) string {
	parts := strings.Split(body, ":")
	for j, part := range parts {
		shifted, ok := shiftPart(part, dCol, dRow, len(parts) > 1)
		if !ok {
			return "#REF!"
		}
		parts[j] = shifted
	}
	return strings.Join(parts, ":")
}

// shiftPart shifts one side of a reference. Whole column and whole row
// parts are only recognized inside a range so names stay untouched.
func shiftPart(part string, dCol, dRow int, inRange bool) (string, bool) {
	trimmed := strings.ReplaceAll(part, "$", "")
	absCol := strings.HasPrefix(part, "$")
	if col, row, err := excelize.CellNameToCoordinates(trimmed); err == nil {
		absRow := strings.LastIndex(part, "$") > 0
		if !absCol {
			col += dCol
		}
		if !absRow {
			row += dRow
		}
		if !(models.CellRef{Col: col, Row: row}).Valid() {
			return "", false
		}
		name, _ := excelize.ColumnNumberToName(col)
		return dollar(absCol) + name + dollar(absRow) + strconv.Itoa(row), true
	}
	if !inRange {
		return part, true
	}
	// Cell reference is a column name
	if col, err := excelize.ColumnNameToNumber(trimmed); err == nil {
		if !absCol {
			col += dCol
		}
		if col < 1 || col > models.MaxCols {
			return "", false
		}
		name, _ := excelize.ColumnNumberToName(col)
		return dollar(absCol) + name, true
	}
	// Cell reference is a row number
	if row, err := strconv.Atoi(trimmed); err == nil {
		if !absCol {
			row += dRow
		}
		if row < 1 || row > models.MaxRows {
			return "", false
		}
		return dollar(absCol) + strconv.Itoa(row), true
	}
	return part, true
}

func dollar(abs bool) string {
	if abs {
		return "$"
	}
	return ""
}

// quoteSheetPrefix quotes an unquoted sheet prefix. A 3D prefix
// (First:Last) is quoted as a whole when either sheet name needs it.
func quoteSheetPrefix(prefix string) string {
	names := strings.Split(prefix, ":")
	for _, name := range names {
		if needsQuotes(name) {
			return "'" + strings.ReplaceAll(prefix, "'", "''") + "'"
		}
	}
	return prefix
}

// needsQuotes reports whether a sheet name cannot stand bare in a formula.
func needsQuotes(name string) bool {
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return name != ""
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			return true
		}
	}
	_, _, err := excelize.CellNameToCoordinates(name)
	return err == nil
}
