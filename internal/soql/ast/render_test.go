package ast_test

import (
	"testing"

	"github.com/chaisql/soql/internal/soql/ast"
	"github.com/stretchr/testify/assert"
)

func str(v string) *ast.PositionedString { return &ast.PositionedString{Val: v} }

func field(path ...string) *ast.SelectField {
	names := make([]*ast.PositionedString, len(path))
	for i, p := range path {
		names[i] = str(p)
	}
	return &ast.SelectField{Name: names}
}

func simpleQuery() *ast.SelectQuery {
	return &ast.SelectQuery{
		SelectExprs: []ast.Expr{field("Id")},
		From:        &ast.From{SObject: &ast.SObjectRef{Name: str("Account")}},
	}
}

func TestRenderSimpleQuery(t *testing.T) {
	q := simpleQuery()
	assert.Equal(t, "SELECT Id FROM Account", q.Render())
}

func TestRenderWithWhereOrderLimit(t *testing.T) {
	q := simpleQuery()
	q.SelectExprs = []ast.Expr{field("Id"), field("Name")}
	q.Where = &ast.ComparisonExpr{
		Left:  field("Name"),
		Op:    str("="),
		Right: &ast.LiteralValue{Val: "bob", Type: ast.TypeString},
	}
	q.OrderBy = &ast.OrderBys{Items: []*ast.OrderBy{
		{Field: field("Name"), Asc: false, Nulls: ast.NullsLast},
	}}
	q.Limit = &ast.PositionedNumber{Val: 10}

	assert.Equal(t,
		"SELECT Id, Name FROM Account WHERE Name = 'bob' ORDER BY Name DESC NULLS LAST LIMIT 10",
		q.Render())
}

func TestRenderNestedQuery(t *testing.T) {
	q := simpleQuery()
	q.SelectExprs = []ast.Expr{
		field("Id"),
		&ast.NestedSelectQuery{Query: &ast.SelectQuery{
			SelectExprs: []ast.Expr{field("Id")},
			From:        &ast.From{SObject: &ast.SObjectRef{Name: str("Contacts")}},
		}},
	}
	assert.Equal(t, "SELECT Id, (SELECT Id FROM Contacts) FROM Account", q.Render())
}

func TestRenderTypeOf(t *testing.T) {
	q := simpleQuery()
	q.From = &ast.From{SObject: &ast.SObjectRef{Name: str("Event")}}
	q.SelectExprs = []ast.Expr{&ast.TypeOf{
		Relationship: str("What"),
		Whens: []*ast.TypeOfWhen{
			{ObjectType: str("Account"), Select: []*ast.SelectField{field("Id"), field("Name")}},
			{ObjectType: str("Opportunity"), Select: []*ast.SelectField{field("Amount")}},
		},
		Elses: []*ast.SelectField{field("Id")},
	}}
	assert.Equal(t,
		"SELECT TYPEOF What WHEN Account THEN Id, Name WHEN Opportunity THEN Amount ELSE Id END FROM Event",
		q.Render())
}

func TestRenderGroupByRollupHaving(t *testing.T) {
	q := simpleQuery()
	q.SelectExprs = []ast.Expr{&ast.SelectFunc{Name: str("COUNT"), Args: []*ast.SelectField{field("Id")}, Alias: str("c")}}
	q.GroupBy = &ast.GroupBy{Type: ast.GroupByRollup, Fields: []ast.Expr{field("Type")}}
	q.Having = &ast.ComparisonExpr{
		Left:  &ast.SelectFunc{Name: str("COUNT"), Args: []*ast.SelectField{field("Id")}},
		Op:    str(">"),
		Right: &ast.LiteralValue{Val: float64(5), Type: ast.TypeNumber},
	}
	assert.Equal(t,
		"SELECT COUNT(Id) c FROM Account GROUP BY ROLLUP(Type) HAVING COUNT(Id) > 5",
		q.Render())
}

func TestRenderAndOrNotPrecedenceParens(t *testing.T) {
	q := simpleQuery()
	left := &ast.OpAndOrExpr{
		Left: &ast.ComparisonExpr{Left: field("A"), Op: str("="), Right: &ast.LiteralValue{Val: float64(1), Type: ast.TypeNumber}},
		Op:   str("AND"),
		Right: &ast.NotExpr{Expr: &ast.ComparisonExpr{
			Left: field("B"), Op: str("="), Right: &ast.LiteralValue{Val: float64(2), Type: ast.TypeNumber},
		}},
	}
	q.Where = &ast.OpAndOrExpr{Left: left, Op: str("OR"), Right: &ast.ComparisonExpr{
		Left: field("C"), Op: str("="), Right: &ast.LiteralValue{Val: float64(3), Type: ast.TypeNumber},
	}}

	assert.Equal(t,
		"SELECT Id FROM Account WHERE (A = 1 AND NOT B = 2) OR C = 3",
		q.Render())
}

func TestRenderLiteralValueArray(t *testing.T) {
	q := simpleQuery()
	q.Where = &ast.ComparisonExpr{
		Left: field("Type"),
		Op:   str("IN"),
		Right: &ast.LiteralValueArray{Values: []*ast.LiteralValue{
			{Val: "A", Type: ast.TypeString},
			{Val: "B", Type: ast.TypeString},
		}},
	}
	assert.Equal(t, "SELECT Id FROM Account WHERE Type IN ('A', 'B')", q.Render())
}

func TestRenderForUpdateTracking(t *testing.T) {
	q := simpleQuery()
	q.ForViewReference = ast.ForReference
	q.UpdateTracking = ast.UpdateViewStat
	assert.Equal(t, "SELECT Id FROM Account FOR REFERENCE UPDATE VIEWSTAT", q.Render())
}

func TestEqualIgnoresLoc(t *testing.T) {
	a := &ast.SelectField{Name: []*ast.PositionedString{{Val: "Id", Loc: ast.Range{Start: 7, End: 9}}}, Loc: ast.Range{Start: 7, End: 9}}
	b := &ast.SelectField{Name: []*ast.PositionedString{{Val: "Id", Loc: ast.Range{Start: 100, End: 102}}}, Loc: ast.Range{Start: 100, End: 102}}
	assert.True(t, ast.Equal(a, b), ast.Diff(a, b))
}

func TestEqualDetectsStructuralDifference(t *testing.T) {
	a := field("Id")
	b := field("Name")
	assert.False(t, ast.Equal(a, b))
}

func TestEscapeUnescapeStringRoundTrips(t *testing.T) {
	raw := "a'b\"c\\d\ne\tf"
	lit := &ast.LiteralValue{Val: raw, Type: ast.TypeString}
	rendered := ast.ToSoql(lit)
	assert.Equal(t, raw, ast.UnescapeString(trimQuotes(rendered)))
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
