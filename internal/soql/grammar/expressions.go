package grammar

import (
	"strings"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
)

// comparison matches (SelectField|SelectFunc) CmpOp (Literal|LiteralArray).
func (g *Grammar) comparison() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.fieldOrFunc(), g.cmpOp(), g.literalOrArray()), func(r *combinator.Result) *combinator.Result {
		left := r.Child(0).Value.Ast().(ast.Expr)
		op := asPositionedString(r.Child(1))
		right := r.Child(2).Value.Ast().(ast.Literal)
		return &combinator.Result{
			Value: combinator.AstValue(&ast.ComparisonExpr{Left: left, Op: op, Right: right, Loc: toRange(r.Range)}),
			Range: r.Range,
		}
	})
}

// cmpOp matches a comparison operator. Symbolic operators overlap on a
// shared prefix ("<" / "<="), so they're tried with OneOf rather than
// FirstOf: the longer match wins regardless of listed order.
func (g *Grammar) cmpOp() *combinator.Parser {
	f := g.f

	notIn := combinator.OnMatch(f.Seq(g.keyword("NOT"), g.keyword("IN")), func(r *combinator.Result) *combinator.Result {
		return &combinator.Result{Value: combinator.AstValue(&ast.PositionedString{Val: "NOT IN", Loc: toRange(r.Range)}), Range: r.Range}
	})

	symbolic := func(sym string) *combinator.Parser {
		return combinator.OnMatch(g.punct(sym), func(r *combinator.Result) *combinator.Result {
			return &combinator.Result{Value: combinator.AstValue(&ast.PositionedString{Val: sym, Loc: toRange(r.Range)}), Range: r.Range}
		})
	}
	keywordOp := func(word string) *combinator.Parser {
		return combinator.OnMatch(g.keyword(word), func(r *combinator.Result) *combinator.Result {
			return &combinator.Result{Value: combinator.AstValue(&ast.PositionedString{Val: strings.ToUpper(word), Loc: toRange(r.Range)}), Range: r.Range}
		})
	}

	return f.OneOf(
		notIn,
		symbolic("!="), symbolic("<>"), symbolic("<="), symbolic(">="), symbolic("="), symbolic("<"), symbolic(">"),
		keywordOp("LIKE"), keywordOp("IN"), keywordOp("INCLUDES"), keywordOp("EXCLUDES"),
	)
}

// notExprParser matches [NOT] primary, binding tighter than AND/OR.
func (g *Grammar) notExprParser(primary *combinator.Parser) *combinator.Parser {
	f := g.f
	withNot := combinator.OnMatch(f.Seq(g.keyword("NOT"), primary), func(r *combinator.Result) *combinator.Result {
		inner := r.Child(1).Value.Ast().(ast.Expr)
		return &combinator.Result{Value: combinator.AstValue(&ast.NotExpr{Expr: inner, Loc: toRange(r.Range)}), Range: r.Range}
	})
	return f.FirstOf(withNot, primary)
}

// leftAssoc builds a left-associative operand (opWord operand)* chain,
// used for both AND (binding tighter) and OR.
func (g *Grammar) leftAssoc(operand *combinator.Parser, opWord string) *combinator.Parser {
	f := g.f
	opParser := combinator.OnMatch(g.keyword(opWord), toPositionedString)
	rest := f.ZeroOrMore(f.Seq(opParser, operand))
	return combinator.OnMatch(f.Seq(operand, rest), func(r *combinator.Result) *combinator.Result {
		left := r.Child(0).Value.Ast().(ast.Expr)
		loc := toRange(r.Child(0).Range)
		for _, child := range r.Child(1).Value.Nodes() {
			op := asPositionedString(child.Child(0))
			right := child.Child(1).Value.Ast().(ast.Expr)
			loc = ast.Range{Start: loc.Start, End: toRange(child.Range).End}
			left = &ast.OpAndOrExpr{Left: left, Op: op, Right: right, Loc: loc}
		}
		return &combinator.Result{Value: combinator.AstValue(left), Range: r.Range}
	})
}
