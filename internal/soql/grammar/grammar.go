// Package grammar builds a SOQL parser on top of internal/combinator: a
// set of mutually-recursive combinator parsers whose mappers construct
// internal/soql/ast nodes.
package grammar

import (
	"strings"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
	"golang.org/x/exp/slices"
)

// Grammar holds the combinator Factory and the forward-declared parser
// references tied together by New into the full SOQL grammar.
type Grammar struct {
	f        *combinator.Factory
	exprRef  *combinator.Parser
	queryRef *combinator.Parser
}

// New builds the complete SOQL grammar.
func New() *Grammar {
	g := &Grammar{f: combinator.NewFactory()}

	exprRef, setExpr := g.f.ParserRef()
	g.exprRef = exprRef
	queryRef, setQuery := g.f.ParserRef()
	g.queryRef = queryRef

	primary := g.f.FirstOf(
		combinator.OnMatch(g.f.Seq(g.punct("("), g.exprRef, g.punct(")")), combinator.Pick(1)),
		g.comparison(),
	)
	notExpr := g.notExprParser(primary)
	andExpr := g.leftAssoc(notExpr, "AND")
	orExpr := g.leftAssoc(andExpr, "OR")
	setExpr(orExpr)

	setQuery(g.buildQueryParser())

	return g
}

// Parse parses a single SOQL query, returning its typed AST or the
// deepest recorded parse error.
func (g *Grammar) Parse(input string) (*ast.SelectQuery, *combinator.Error) {
	r, err := combinator.Run(g.queryRef, input, g.f.MaybeWhitespace())
	if err != nil {
		return nil, err
	}
	return r.Value.Ast().(*ast.SelectQuery), nil
}

// --- shared lexical helpers -------------------------------------------------

// tok wraps p to consume any leading whitespace before it, narrowing the
// returned range back down to p's own match.
func (g *Grammar) tok(p *combinator.Parser) *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(f.MaybeWhitespace(), p), combinator.Pick(1))
}

// keyword matches a case-insensitive reserved word, requiring a
// non-identifier boundary afterwards so "SELECTED" isn't parsed as
// "SELECT" followed by "ED".
func (g *Grammar) keyword(lit string) *combinator.Parser {
	f := g.f
	return g.tok(f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		matched, ok := in.ConsumeString(lit, combinator.CaseInsensitive)
		if !ok {
			in.Expected(lit)
			return nil
		}
		if in.Len() > 0 && isIdentByte(in.Remaining()[0]) {
			in.MoveTo(start)
			in.Expected(lit)
			return nil
		}
		return &combinator.Result{Value: combinator.StrValue(matched), Range: combinator.Range{Start: start, End: in.Pos()}}
	}))
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// punct matches an exact, case-sensitive piece of punctuation.
func (g *Grammar) punct(lit string) *combinator.Parser {
	return g.tok(g.f.EqCase(lit, combinator.CaseSensitive))
}

// ident matches a bare [A-Za-z_][A-Za-z0-9_]* identifier.
func (g *Grammar) ident() *combinator.Parser {
	f := g.f
	rest := func(r rune) bool { return r < 0x80 && isIdentByte(byte(r)) }
	first := func(r rune) bool { return rest(r) && (r < '0' || r > '9') }
	return g.tok(f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		if in.ConsumeCharacterSet(first) == 0 {
			in.MoveTo(start)
			in.ExpectedClass("identifier")
			return nil
		}
		in.ConsumeCharacterSet(rest)
		return &combinator.Result{Value: combinator.StrValue(in.Slice(start, in.Pos())), Range: combinator.Range{Start: start, End: in.Pos()}}
	}))
}

func (g *Grammar) positionedIdent() *combinator.Parser {
	return combinator.OnMatch(g.ident(), toPositionedString)
}

// reservedWords excludes SOQL keywords from positions that would
// otherwise ambiguously accept any identifier, chiefly optional
// aliases: "SELECT Id FROM Account" must not let the alias production
// greedily consume "FROM" as Id's alias.
var reservedWords = strings.Fields(
	"FROM WHERE GROUP ORDER LIMIT OFFSET HAVING FOR UPDATE WITH USING " +
		"AND OR NOT WHEN THEN ELSE END TYPEOF NULLS ASC DESC LIKE IN " +
		"INCLUDES EXCLUDES TRUE FALSE NULL AS SCOPE DATA CATEGORY " +
		"ROLLUP CUBE VIEW REFERENCE TRACKING VIEWSTAT FIRST LAST " +
		"AT ABOVE BELOW",
)

func init() {
	slices.Sort(reservedWords)
}

func isReserved(s string) bool {
	_, found := slices.BinarySearch(reservedWords, strings.ToUpper(s))
	return found
}

// nonReservedIdent matches an identifier that is not one of the
// reserved words above.
func (g *Grammar) nonReservedIdent() *combinator.Parser {
	inner := g.ident()
	return g.f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		r := inner.Parse(in)
		if r == nil {
			return nil
		}
		if isReserved(r.Value.Str()) {
			in.MoveTo(start)
			in.ExpectedClass("identifier")
			return nil
		}
		return r
	})
}

func (g *Grammar) nonReservedPositionedIdent() *combinator.Parser {
	return combinator.OnMatch(g.nonReservedIdent(), toPositionedString)
}

// --- value/Result <-> ast plumbing ------------------------------------------

func toPositionedString(r *combinator.Result) *combinator.Result {
	ps := &ast.PositionedString{Val: r.Value.Str(), Loc: toRange(r.Range)}
	return &combinator.Result{Value: combinator.AstValue(ps), Range: r.Range}
}

func toRange(r combinator.Range) ast.Range { return ast.Range{Start: r.Start, End: r.End} }

func asPositionedString(r *combinator.Result) *ast.PositionedString {
	return r.Value.Ast().(*ast.PositionedString)
}

// flattenSepList flattens the shape produced by
// seq(item, zeroOrMore(seq(separator, item))) into the ordered list of
// item Results, dropping the separators.
func flattenSepList(r *combinator.Result) []*combinator.Result {
	items := []*combinator.Result{r.Child(0)}
	for _, child := range r.Child(1).Value.Nodes() {
		items = append(items, child.Child(1))
	}
	return items
}
