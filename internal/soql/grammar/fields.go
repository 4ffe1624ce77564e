package grammar

import (
	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
)

// dottedPath matches Ident ('.' Ident)*.
func (g *Grammar) dottedPath() *combinator.Parser {
	f := g.f
	return f.Seq(g.positionedIdent(), f.ZeroOrMore(f.Seq(g.punct("."), g.positionedIdent())))
}

func dottedPathToNames(r *combinator.Result) []*ast.PositionedString {
	items := flattenSepList(r)
	names := make([]*ast.PositionedString, len(items))
	for i, it := range items {
		names[i] = asPositionedString(it)
	}
	return names
}

// selectField matches a plain dotted field path with an optional alias,
// the shape used for TYPEOF branches, ELSE lists, function arguments
// and FROM's related-object list (none of which accept a nested
// function call, TYPEOF or subquery).
func (g *Grammar) selectField() *combinator.Parser {
	f := g.f
	alias := f.ZeroOrOne(g.nonReservedPositionedIdent())
	return combinator.OnMatch(f.Seq(g.dottedPath(), alias), func(r *combinator.Result) *combinator.Result {
		names := dottedPathToNames(r.Child(0))
		var aliasPS *ast.PositionedString
		if a := r.Child(1); !a.Value.IsNull() {
			aliasPS = asPositionedString(a)
		}
		return &combinator.Result{
			Value: combinator.AstValue(&ast.SelectField{Name: names, Alias: aliasPS, Loc: toRange(r.Range)}),
			Range: r.Range,
		}
	})
}

// selectFieldList matches a comma-separated list of selectField,
// reused by function arguments and TYPEOF WHEN/ELSE branches.
func (g *Grammar) selectFieldList() *combinator.Parser {
	f := g.f
	item := g.selectField()
	return f.Seq(item, f.ZeroOrMore(f.Seq(g.punct(","), item)))
}

func toSelectFields(items []*combinator.Result) []*ast.SelectField {
	out := make([]*ast.SelectField, len(items))
	for i, it := range items {
		out[i] = it.Value.Ast().(*ast.SelectField)
	}
	return out
}

// fieldOrFunc matches either Ident '(' selectFieldList ')' [alias]
// (a SelectFunc) or a dotted field path [alias] (a SelectField). Both
// share the leading identifier, so this is written as one custom block
// rather than two independently-alternated productions that would
// otherwise double-parse it.
func (g *Grammar) fieldOrFunc() *combinator.Parser {
	f := g.f
	firstIdent := g.positionedIdent()
	openParen := g.punct("(")
	closeParen := g.punct(")")
	args := g.selectFieldList()
	dot := g.punct(".")
	restPath := f.ZeroOrMore(f.Seq(dot, g.positionedIdent()))
	alias := f.ZeroOrOne(g.nonReservedPositionedIdent())

	return f.FromBlock(func(in *combinator.InputState) *combinator.Result {
		start := in.Pos()
		fr := firstIdent.Parse(in)
		if fr == nil {
			return nil
		}
		name := asPositionedString(fr)

		if openParen.Parse(in) != nil {
			argsRes := args.Parse(in)
			if argsRes == nil {
				return nil
			}
			if closeParen.Parse(in) == nil {
				return nil
			}
			fields := toSelectFields(flattenSepList(argsRes))
			var aliasPS *ast.PositionedString
			if al := alias.Parse(in); !al.Value.IsNull() {
				aliasPS = asPositionedString(al)
			}
			return &combinator.Result{
				Value: combinator.AstValue(&ast.SelectFunc{Name: name, Args: fields, Alias: aliasPS, Loc: ast.Range{Start: start, End: in.Pos()}}),
				Range: combinator.Range{Start: start, End: in.Pos()},
			}
		}

		names := []*ast.PositionedString{name}
		if rr := restPath.Parse(in); rr != nil {
			for _, child := range rr.Value.Nodes() {
				names = append(names, asPositionedString(child.Child(1)))
			}
		}
		var aliasPS *ast.PositionedString
		if al := alias.Parse(in); !al.Value.IsNull() {
			aliasPS = asPositionedString(al)
		}
		return &combinator.Result{
			Value: combinator.AstValue(&ast.SelectField{Name: names, Alias: aliasPS, Loc: ast.Range{Start: start, End: in.Pos()}}),
			Range: combinator.Range{Start: start, End: in.Pos()},
		}
	})
}

// typeOf matches TYPEOF Ident (WHEN Ident THEN selectFieldList)+
// [ELSE selectFieldList] END.
func (g *Grammar) typeOf() *combinator.Parser {
	f := g.f

	when := combinator.OnMatch(
		f.Seq(g.keyword("WHEN"), g.positionedIdent(), g.keyword("THEN"), g.selectFieldList()),
		func(r *combinator.Result) *combinator.Result {
			objType := asPositionedString(r.Child(1))
			fields := toSelectFields(flattenSepList(r.Child(3)))
			return &combinator.Result{
				Value: combinator.AstValue(&ast.TypeOfWhen{ObjectType: objType, Select: fields, Loc: toRange(r.Range)}),
				Range: r.Range,
			}
		},
	)
	elseClause := f.ZeroOrOne(combinator.OnMatch(f.Seq(g.keyword("ELSE"), g.selectFieldList()), combinator.Pick(1)))

	return combinator.OnMatch(
		f.Seq(g.keyword("TYPEOF"), g.positionedIdent(), f.OneOrMore(when), elseClause, g.keyword("END")),
		func(r *combinator.Result) *combinator.Result {
			rel := asPositionedString(r.Child(1))
			whenResults := r.Child(2).Value.Nodes()
			whens := make([]*ast.TypeOfWhen, len(whenResults))
			for i, w := range whenResults {
				whens[i] = w.Value.Ast().(*ast.TypeOfWhen)
			}
			var elses []*ast.SelectField
			if er := r.Child(3); !er.Value.IsNull() {
				elses = toSelectFields(flattenSepList(er))
			}
			return &combinator.Result{
				Value: combinator.AstValue(&ast.TypeOf{Relationship: rel, Whens: whens, Elses: elses, Loc: toRange(r.Range)}),
				Range: r.Range,
			}
		},
	)
}

// field matches one item of a SELECT list: a TYPEOF expression, a
// parenthesized nested subquery, or fieldOrFunc. Each alternative has a
// distinct leading token (TYPEOF, '(', an identifier), so a plain
// first-match alternation is enough; no ambiguity needs longest-match
// resolution here.
func (g *Grammar) field() *combinator.Parser {
	f := g.f
	nested := combinator.OnMatch(
		f.Seq(g.punct("("), g.queryRef, g.punct(")")),
		func(r *combinator.Result) *combinator.Result {
			q := r.Child(1).Value.Ast().(*ast.SelectQuery)
			return &combinator.Result{
				Value: combinator.AstValue(&ast.NestedSelectQuery{Query: q, Loc: toRange(r.Range)}),
				Range: r.Range,
			}
		},
	)
	return f.FirstOf(g.typeOf(), nested, g.fieldOrFunc())
}

// fieldList matches the comma-separated SELECT list.
func (g *Grammar) fieldList() *combinator.Parser {
	f := g.f
	item := g.field()
	return combinator.OnMatch(f.Seq(item, f.ZeroOrMore(f.Seq(g.punct(","), item))), func(r *combinator.Result) *combinator.Result {
		items := flattenSepList(r)
		exprs := make([]ast.Expr, len(items))
		for i, it := range items {
			exprs[i] = it.Value.Ast().(ast.Expr)
		}
		return &combinator.Result{Value: combinator.AstValue(exprs), Range: r.Range}
	})
}

// sobjectRef matches the queried object name with an optional alias.
func (g *Grammar) sobjectRef() *combinator.Parser {
	f := g.f
	alias := f.ZeroOrOne(g.nonReservedPositionedIdent())
	return combinator.OnMatch(f.Seq(g.positionedIdent(), alias), func(r *combinator.Result) *combinator.Result {
		name := asPositionedString(r.Child(0))
		var aliasPS *ast.PositionedString
		if a := r.Child(1); !a.Value.IsNull() {
			aliasPS = asPositionedString(a)
		}
		return &combinator.Result{
			Value: combinator.AstValue(&ast.SObjectRef{Name: name, Alias: aliasPS, Loc: toRange(r.Range)}),
			Range: r.Range,
		}
	})
}

// fromClause matches FROM SObjectRef (',' selectField)*.
func (g *Grammar) fromClause() *combinator.Parser {
	f := g.f
	related := g.selectField()
	return combinator.OnMatch(
		f.Seq(g.keyword("FROM"), g.sobjectRef(), f.ZeroOrMore(f.Seq(g.punct(","), related))),
		func(r *combinator.Result) *combinator.Result {
			sobj := r.Child(1).Value.Ast().(*ast.SObjectRef)
			var relatedObjs []*ast.SelectField
			for _, child := range r.Child(2).Value.Nodes() {
				relatedObjs = append(relatedObjs, child.Child(1).Value.Ast().(*ast.SelectField))
			}
			return &combinator.Result{
				Value: combinator.AstValue(&ast.From{SObject: sobj, RelatedObjects: relatedObjs, Loc: toRange(r.Range)}),
				Range: r.Range,
			}
		},
	)
}
