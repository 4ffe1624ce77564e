package grammar

import (
	"strings"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
)

// categoryValues matches either a bare identifier or a parenthesized,
// comma-separated identifier list.
func (g *Grammar) categoryValues() *combinator.Parser {
	f := g.f
	item := g.positionedIdent()
	list := combinator.OnMatch(
		f.Seq(g.punct("("), item, f.ZeroOrMore(f.Seq(g.punct(","), item)), g.punct(")")),
		func(r *combinator.Result) *combinator.Result {
			vals := []*ast.PositionedString{asPositionedString(r.Child(1))}
			for _, child := range r.Child(2).Value.Nodes() {
				vals = append(vals, asPositionedString(child.Child(1)))
			}
			return &combinator.Result{Value: combinator.AstValue(vals), Range: r.Range}
		},
	)
	single := combinator.OnMatch(item, func(r *combinator.Result) *combinator.Result {
		return &combinator.Result{Value: combinator.AstValue([]*ast.PositionedString{asPositionedString(r)}), Range: r.Range}
	})
	return f.FirstOf(list, single)
}

// dataCategoryFilter matches Ident (ABOVE_OR_BELOW|ABOVE|BELOW|AT) categoryValues.
// The AT/ABOVE/ABOVE_OR_BELOW/BELOW operators overlap on a shared
// "ABOVE" prefix, hence OneOf rather than a fixed try-order.
func (g *Grammar) dataCategoryFilter() *combinator.Parser {
	f := g.f
	op := f.OneOf(g.keyword("ABOVE_OR_BELOW"), g.keyword("ABOVE"), g.keyword("BELOW"), g.keyword("AT"))
	return combinator.OnMatch(f.Seq(g.positionedIdent(), op, g.categoryValues()), func(r *combinator.Result) *combinator.Result {
		cat := asPositionedString(r.Child(0))
		opRes := r.Child(1)
		opPS := &ast.PositionedString{Val: strings.ToUpper(opRes.Value.Str()), Loc: toRange(opRes.Range)}
		values := r.Child(2).Value.Ast().([]*ast.PositionedString)
		return &combinator.Result{
			Value: combinator.AstValue(&ast.DataCategoryFilter{Category: cat, Op: opPS, Values: values, Loc: toRange(r.Range)}),
			Range: r.Range,
		}
	})
}

// withDataCategoryClause matches WITH DATA CATEGORY filter (AND filter)*.
func (g *Grammar) withDataCategoryClause() *combinator.Parser {
	f := g.f
	filter := g.dataCategoryFilter()
	return combinator.OnMatch(
		f.Seq(g.keyword("WITH"), g.keyword("DATA"), g.keyword("CATEGORY"), filter, f.ZeroOrMore(f.Seq(g.keyword("AND"), filter))),
		func(r *combinator.Result) *combinator.Result {
			filters := []*ast.DataCategoryFilter{r.Child(3).Value.Ast().(*ast.DataCategoryFilter)}
			for _, child := range r.Child(4).Value.Nodes() {
				filters = append(filters, child.Child(1).Value.Ast().(*ast.DataCategoryFilter))
			}
			return &combinator.Result{Value: combinator.AstValue(filters), Range: r.Range}
		},
	)
}

// groupBy matches ROLLUP(...) | CUBE(...) | a plain comma-separated
// field list. Real SOQL only requires parens for the ROLLUP/CUBE forms.
func (g *Grammar) groupBy() *combinator.Parser {
	f := g.f
	fieldItem := g.fieldOrFunc()

	rollup := combinator.OnMatch(
		f.Seq(g.keyword("ROLLUP"), g.punct("("), fieldItem, f.ZeroOrMore(f.Seq(g.punct(","), fieldItem)), g.punct(")")),
		func(r *combinator.Result) *combinator.Result {
			exprs := collectFieldList(r.Child(2), r.Child(3))
			return &combinator.Result{Value: combinator.AstValue(&ast.GroupBy{Type: ast.GroupByRollup, Fields: exprs, Loc: toRange(r.Range)}), Range: r.Range}
		},
	)
	cube := combinator.OnMatch(
		f.Seq(g.keyword("CUBE"), g.punct("("), fieldItem, f.ZeroOrMore(f.Seq(g.punct(","), fieldItem)), g.punct(")")),
		func(r *combinator.Result) *combinator.Result {
			exprs := collectFieldList(r.Child(2), r.Child(3))
			return &combinator.Result{Value: combinator.AstValue(&ast.GroupBy{Type: ast.GroupByCube, Fields: exprs, Loc: toRange(r.Range)}), Range: r.Range}
		},
	)
	plain := combinator.OnMatch(
		f.Seq(fieldItem, f.ZeroOrMore(f.Seq(g.punct(","), fieldItem))),
		func(r *combinator.Result) *combinator.Result {
			exprs := collectFieldList(r.Child(0), r.Child(1))
			return &combinator.Result{Value: combinator.AstValue(&ast.GroupBy{Type: ast.GroupByPlain, Fields: exprs, Loc: toRange(r.Range)}), Range: r.Range}
		},
	)
	return f.FirstOf(rollup, cube, plain)
}

// collectFieldList turns a (first, zeroOrMore(seq(sep,item))) pair into
// an ordered []ast.Expr.
func collectFieldList(first *combinator.Result, rest *combinator.Result) []ast.Expr {
	exprs := []ast.Expr{first.Value.Ast().(ast.Expr)}
	for _, child := range rest.Value.Nodes() {
		exprs = append(exprs, child.Child(1).Value.Ast().(ast.Expr))
	}
	return exprs
}

type groupByHaving struct {
	groupBy *ast.GroupBy
	having  ast.Expr
}

// groupByClause matches GROUP BY groupBy [HAVING Expr].
func (g *Grammar) groupByClause() *combinator.Parser {
	f := g.f
	havingClause := f.ZeroOrOne(combinator.OnMatch(f.Seq(g.keyword("HAVING"), g.exprRef), combinator.Pick(1)))
	return combinator.OnMatch(
		f.Seq(g.keyword("GROUP"), g.keyword("BY"), g.groupBy(), havingClause),
		func(r *combinator.Result) *combinator.Result {
			gb := r.Child(2).Value.Ast().(*ast.GroupBy)
			var having ast.Expr
			if hr := r.Child(3); !hr.Value.IsNull() {
				having = hr.Value.Ast().(ast.Expr)
			}
			return &combinator.Result{Value: combinator.AstValue(&groupByHaving{groupBy: gb, having: having}), Range: r.Range}
		},
	)
}

// orderByItem matches Field [ASC|DESC] [NULLS FIRST|LAST].
func (g *Grammar) orderByItem() *combinator.Parser {
	f := g.f
	ascDesc := f.ZeroOrOne(f.OneOf(g.keyword("ASC"), g.keyword("DESC")))
	nulls := f.ZeroOrOne(combinator.OnMatch(f.Seq(g.keyword("NULLS"), f.OneOf(g.keyword("FIRST"), g.keyword("LAST"))), combinator.Pick(1)))
	return combinator.OnMatch(f.Seq(g.fieldOrFunc(), ascDesc, nulls), func(r *combinator.Result) *combinator.Result {
		field := r.Child(0).Value.Ast().(ast.Expr)
		asc := true
		if ad := r.Child(1); !ad.Value.IsNull() {
			asc = strings.EqualFold(ad.Value.Str(), "ASC")
		}
		nullsOrder := ast.NullsDefault
		if no := r.Child(2); !no.Value.IsNull() {
			if strings.EqualFold(no.Value.Str(), "FIRST") {
				nullsOrder = ast.NullsFirst
			} else {
				nullsOrder = ast.NullsLast
			}
		}
		return &combinator.Result{
			Value: combinator.AstValue(&ast.OrderBy{Field: field, Asc: asc, Nulls: nullsOrder, Loc: toRange(r.Range)}),
			Range: r.Range,
		}
	})
}

// orderByClause matches ORDER BY orderByItem (',' orderByItem)*.
func (g *Grammar) orderByClause() *combinator.Parser {
	f := g.f
	item := g.orderByItem()
	return combinator.OnMatch(
		f.Seq(g.keyword("ORDER"), g.keyword("BY"), item, f.ZeroOrMore(f.Seq(g.punct(","), item))),
		func(r *combinator.Result) *combinator.Result {
			items := []*ast.OrderBy{r.Child(2).Value.Ast().(*ast.OrderBy)}
			for _, c := range r.Child(3).Value.Nodes() {
				items = append(items, c.Child(1).Value.Ast().(*ast.OrderBy))
			}
			return &combinator.Result{Value: combinator.AstValue(&ast.OrderBys{Items: items, Loc: toRange(r.Range)}), Range: r.Range}
		},
	)
}

// usingScopeClause matches USING SCOPE Ident, returning the scope name.
func (g *Grammar) usingScopeClause() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.keyword("USING"), g.keyword("SCOPE"), g.positionedIdent()), combinator.Pick(2))
}

// limitClause matches LIMIT integer. Cut after the keyword sharpens the
// error to "expected integer" rather than letting the whole clause
// silently backtrack out on a malformed argument.
func (g *Grammar) limitClause() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.keyword("LIMIT"), f.Cut(), g.tok(f.IntegerNumber())), func(r *combinator.Result) *combinator.Result {
		n := r.Child(2)
		return &combinator.Result{
			Value: combinator.AstValue(&ast.PositionedNumber{Val: n.Value.Num(), Loc: toRange(n.Range)}),
			Range: r.Range,
		}
	})
}

// offsetClause matches OFFSET integer.
func (g *Grammar) offsetClause() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.keyword("OFFSET"), f.Cut(), g.tok(f.IntegerNumber())), func(r *combinator.Result) *combinator.Result {
		n := r.Child(2)
		return &combinator.Result{
			Value: combinator.AstValue(&ast.PositionedNumber{Val: n.Value.Num(), Loc: toRange(n.Range)}),
			Range: r.Range,
		}
	})
}

// forClause matches FOR VIEW | FOR REFERENCE.
func (g *Grammar) forClause() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.keyword("FOR"), f.Cut(), f.OneOf(g.keyword("VIEW"), g.keyword("REFERENCE"))), func(r *combinator.Result) *combinator.Result {
		v := ast.ForView
		if strings.EqualFold(r.Child(2).Value.Str(), "REFERENCE") {
			v = ast.ForReference
		}
		return &combinator.Result{Value: combinator.AstValue(v), Range: r.Range}
	})
}

// updateClause matches UPDATE TRACKING | UPDATE VIEWSTAT.
func (g *Grammar) updateClause() *combinator.Parser {
	f := g.f
	return combinator.OnMatch(f.Seq(g.keyword("UPDATE"), f.Cut(), f.OneOf(g.keyword("TRACKING"), g.keyword("VIEWSTAT"))), func(r *combinator.Result) *combinator.Result {
		v := ast.UpdateTrackingFlag
		if strings.EqualFold(r.Child(2).Value.Str(), "VIEWSTAT") {
			v = ast.UpdateViewStat
		}
		return &combinator.Result{Value: combinator.AstValue(v), Range: r.Range}
	})
}
