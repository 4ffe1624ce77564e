package ast

import (
	"strconv"
	"strings"
)

// ToSoql renders any node to its canonical SOQL text. SelectQuery also
// exposes this as the public Render method.
func ToSoql(n Node) string {
	var buf strings.Builder
	n.AppendSoql(&buf)
	return buf.String()
}

func appendDottedPath(buf *strings.Builder, path []*PositionedString) {
	for i, p := range path {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(p.Val)
	}
}

func appendAlias(buf *strings.Builder, alias *PositionedString) {
	if alias == nil {
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(alias.Val)
}

func appendFieldList(buf *strings.Builder, fields []*SelectField) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		f.AppendSoql(buf)
	}
}

// appendMaybeParenthesized wraps a boolean sub-expression in parens when
// rendering it inside an AND/OR/NOT parent would otherwise change its
// grouping: a nested OpAndOrExpr always gets explicit parens so the
// canonical left-associative render is unambiguous on reparse.
func appendMaybeParenthesized(buf *strings.Builder, e Expr) {
	if _, ok := e.(*OpAndOrExpr); ok {
		buf.WriteByte('(')
		e.AppendSoql(buf)
		buf.WriteByte(')')
		return
	}
	e.AppendSoql(buf)
}

func appendNumber(buf *strings.Builder, v float64) {
	buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
}

var stringEscapes = map[byte]string{
	'\'':  `\'`,
	'"':   `\"`,
	'\\':  `\\`,
	'\n':  `\n`,
	'\r':  `\r`,
	'\t':  `\t`,
	'\b':  `\b`,
	'\f':  `\f`,
}

func escapeString(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if esc, ok := stringEscapes[s[i]]; ok {
			buf.WriteString(esc)
			continue
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}

// UnescapeString reverses escapeString's escape table, used by the
// grammar's string-literal primitive to turn matched source text into a
// literal's Go string value.
func UnescapeString(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\'':
				buf.WriteByte('\'')
				i++
				continue
			case '"':
				buf.WriteByte('"')
				i++
				continue
			case '\\':
				buf.WriteByte('\\')
				i++
				continue
			case 'n':
				buf.WriteByte('\n')
				i++
				continue
			case 'r':
				buf.WriteByte('\r')
				i++
				continue
			case 't':
				buf.WriteByte('\t')
				i++
				continue
			case 'b':
				buf.WriteByte('\b')
				i++
				continue
			case 'f':
				buf.WriteByte('\f')
				i++
				continue
			}
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
