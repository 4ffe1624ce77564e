package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
	"github.com/golang-module/carbon/v2"
)

var (
	dateTimeRe = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?(Z|[+-][0-9]{2}:[0-9]{2})?`)
	dateRe     = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}`)
)

// quotedString matches a single-quoted string literal, unescaping its
// contents via the same backslash table toSoql's renderer uses.
func (g *Grammar) quotedString() *combinator.Parser {
	f := g.f
	return g.tok(f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		if _, ok := in.ConsumeString("'", combinator.CaseSensitive); !ok {
			in.Expected("'")
			return nil
		}
		var raw strings.Builder
		for {
			if in.Len() == 0 {
				in.MoveTo(start)
				in.Errorf("unterminated string literal starting at position %d", start)
				return nil
			}
			c := in.Remaining()[0]
			if c == '\'' {
				in.Advance(1)
				break
			}
			if c == '\\' && in.Len() >= 2 {
				raw.WriteByte(c)
				raw.WriteByte(in.Remaining()[1])
				in.Advance(2)
				continue
			}
			raw.WriteByte(c)
			in.Advance(1)
		}
		return &combinator.Result{
			Value: combinator.StrValue(ast.UnescapeString(raw.String())),
			Range: combinator.Range{Start: start, End: in.Pos()},
		}
	}))
}

// validatedRegex matches the longest prefix satisfying re, then rejects
// it unless carbon can parse it as a date/datetime — catching shapes
// that match the regex but not a real calendar date, e.g. 2024-13-40.
func (g *Grammar) validatedRegex(re *regexp.Regexp, name string) *combinator.Parser {
	return g.tok(g.f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		loc := re.FindStringIndex(in.Remaining())
		if loc == nil || loc[0] != 0 {
			in.ExpectedClass(name)
			return nil
		}
		text := in.Remaining()[:loc[1]]
		if carbon.Parse(text, "UTC").Error != nil {
			in.ExpectedClass(name)
			return nil
		}
		in.Advance(loc[1])
		return &combinator.Result{Value: combinator.StrValue(text), Range: combinator.Range{Start: start, End: in.Pos()}}
	}))
}

func (g *Grammar) dateTimeLiteral() *combinator.Parser { return g.validatedRegex(dateTimeRe, "datetime") }
func (g *Grammar) dateLiteral() *combinator.Parser     { return g.validatedRegex(dateRe, "date") }

// tokenLiteral matches a bare relative-date token, optionally suffixed
// with an integer count, e.g. TODAY or LAST_N_DAYS:5.
func (g *Grammar) tokenLiteral() *combinator.Parser {
	f := g.f
	suffix := f.ZeroOrOne(f.Seq(g.punct(":"), g.tok(f.IntegerNumber())))
	return combinator.OnMatch(f.Seq(g.ident(), suffix), func(r *combinator.Result) *combinator.Result {
		text := r.Child(0).Value.Str()
		if suf := r.Child(1); !suf.Value.IsNull() {
			n := suf.Child(1).Value.Num()
			text += ":" + strconv.FormatFloat(n, 'f', -1, 64)
		}
		return wrapLiteral(r, ast.TypeToken, text)
	})
}

func wrapLiteral(r *combinator.Result, t ast.LiteralType, val any) *combinator.Result {
	return &combinator.Result{
		Value: combinator.AstValue(&ast.LiteralValue{Val: val, Type: t, Loc: toRange(r.Range)}),
		Range: r.Range,
	}
}

// literal parses a single typed literal value, disambiguating
// overlapping shapes (a bare number is a shorter match than a date
// literal sharing its leading digits) by longest match.
func (g *Grammar) literal() *combinator.Parser {
	f := g.f

	boolLit := combinator.OnMatch(f.OneOf(g.keyword("TRUE"), g.keyword("FALSE")), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeBool, strings.EqualFold(r.Value.Str(), "TRUE"))
	})
	nullLit := combinator.OnMatch(g.keyword("NULL"), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeNull, nil)
	})
	dateTimeLit := combinator.OnMatch(g.dateTimeLiteral(), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeDateTime, r.Value.Str())
	})
	dateLit := combinator.OnMatch(g.dateLiteral(), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeDate, r.Value.Str())
	})
	numLit := combinator.OnMatch(g.tok(f.DecimalNumber()), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeNumber, r.Value.Num())
	})
	strLit := combinator.OnMatch(g.quotedString(), func(r *combinator.Result) *combinator.Result {
		return wrapLiteral(r, ast.TypeString, r.Value.Str())
	})
	tokenLit := g.tokenLiteral()

	return f.OneOf(boolLit, nullLit, dateTimeLit, dateLit, numLit, strLit, tokenLit)
}

// literalOrArray parses either a single literal or a parenthesized,
// comma-separated literal list, the right-hand side shape required by
// IN / NOT IN / INCLUDES / EXCLUDES.
func (g *Grammar) literalOrArray() *combinator.Parser {
	f := g.f
	lit := g.literal()
	array := combinator.OnMatch(
		f.Seq(g.punct("("), lit, f.ZeroOrMore(f.Seq(g.punct(","), lit)), g.punct(")")),
		func(r *combinator.Result) *combinator.Result {
			values := []*ast.LiteralValue{r.Child(1).Value.Ast().(*ast.LiteralValue)}
			for _, child := range r.Child(2).Value.Nodes() {
				values = append(values, child.Child(1).Value.Ast().(*ast.LiteralValue))
			}
			return &combinator.Result{
				Value: combinator.AstValue(&ast.LiteralValueArray{Values: values, Loc: toRange(r.Range)}),
				Range: r.Range,
			}
		},
	)
	return f.FirstOf(array, lit)
}
