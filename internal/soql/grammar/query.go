package grammar

import (
	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
)

// buildQueryParser assembles the full SELECT query production. It is
// called once from New, before the forward reference g.queryRef is
// resolved to the returned parser.
func (g *Grammar) buildQueryParser() *combinator.Parser {
	f := g.f

	where := f.ZeroOrOne(combinator.OnMatch(f.Seq(g.keyword("WHERE"), g.exprRef), combinator.Pick(1)))
	usingScope := f.ZeroOrOne(g.usingScopeClause())
	withDataCat := f.ZeroOrOne(g.withDataCategoryClause())
	groupBy := f.ZeroOrOne(g.groupByClause())
	orderBy := f.ZeroOrOne(g.orderByClause())
	limit := f.ZeroOrOne(g.limitClause())
	offset := f.ZeroOrOne(g.offsetClause())
	forClause := f.ZeroOrOne(g.forClause())
	updateClause := f.ZeroOrOne(g.updateClause())

	full := f.Seq(
		g.keyword("SELECT"), g.fieldList(), g.fromClause(),
		usingScope, where, withDataCat, groupBy, orderBy, limit, offset, forClause, updateClause,
	)

	return combinator.OnMatch(full, func(r *combinator.Result) *combinator.Result {
		q := &ast.SelectQuery{Loc: toRange(r.Range)}

		q.SelectExprs = r.Child(1).Value.Ast().([]ast.Expr)
		q.From = r.Child(2).Value.Ast().(*ast.From)

		if sc := r.Child(3); !sc.Value.IsNull() {
			q.FilterScope = asPositionedString(sc)
		}
		if w := r.Child(4); !w.Value.IsNull() {
			q.Where = w.Value.Ast().(ast.Expr)
		}
		if wdc := r.Child(5); !wdc.Value.IsNull() {
			q.WithDataCategory = wdc.Value.Ast().([]*ast.DataCategoryFilter)
		}
		if gb := r.Child(6); !gb.Value.IsNull() {
			gbh := gb.Value.Ast().(*groupByHaving)
			q.GroupBy = gbh.groupBy
			q.Having = gbh.having
		}
		if ob := r.Child(7); !ob.Value.IsNull() {
			q.OrderBy = ob.Value.Ast().(*ast.OrderBys)
		}
		if l := r.Child(8); !l.Value.IsNull() {
			q.Limit = l.Value.Ast().(*ast.PositionedNumber)
		}
		if o := r.Child(9); !o.Value.IsNull() {
			q.Offset = o.Value.Ast().(*ast.PositionedNumber)
		}
		if fv := r.Child(10); !fv.Value.IsNull() {
			q.ForViewReference = fv.Value.Ast().(ast.ForViewReference)
		}
		if ut := r.Child(11); !ut.Value.IsNull() {
			q.UpdateTracking = ut.Value.Ast().(ast.UpdateTracking)
		}

		return &combinator.Result{Value: combinator.AstValue(q), Range: r.Range}
	})
}
