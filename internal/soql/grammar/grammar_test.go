package grammar_test

import (
	"testing"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
	"github.com/chaisql/soql/internal/soql/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, q string) *ast.SelectQuery {
	t.Helper()
	g := grammar.New()
	ast, err := g.Parse(q)
	require.Nil(t, err, "unexpected parse error: %v", err)
	require.NotNil(t, ast)
	return ast
}

func TestParseSimpleQuery(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account")
	assert.Equal(t, "SELECT Id FROM Account", q.Render())
	assert.Equal(t, "Account", q.From.SObject.Name.Val)
	require.Len(t, q.SelectExprs, 1)
	assert.Equal(t, []string{"Id"}, namesOf(t, q.SelectExprs[0]))
}

func namesOf(t *testing.T, e ast.Expr) []string {
	t.Helper()
	f, ok := e.(*ast.SelectField)
	require.True(t, ok)
	out := make([]string, len(f.Name))
	for i, n := range f.Name {
		out[i] = n.Val
	}
	return out
}

func TestParseWhereOrderLimit(t *testing.T) {
	q := parse(t, "select Id, Name from Account where Name = 'bob' order by Name desc nulls last limit 10")
	assert.Equal(t,
		"SELECT Id, Name FROM Account WHERE Name = 'bob' ORDER BY Name DESC NULLS LAST LIMIT 10",
		q.Render())
}

func TestParseNestedSubquery(t *testing.T) {
	q := parse(t, "SELECT Id, (SELECT Id FROM Contacts) FROM Account")
	require.Len(t, q.SelectExprs, 2)
	nested, ok := q.SelectExprs[1].(*ast.NestedSelectQuery)
	require.True(t, ok)
	assert.Equal(t, "Contacts", nested.Query.From.SObject.Name.Val)
	assert.Equal(t, "SELECT Id, (SELECT Id FROM Contacts) FROM Account", q.Render())
}

func TestParseTypeOf(t *testing.T) {
	q := parse(t, "SELECT TYPEOF What WHEN Account THEN Id, Name WHEN Opportunity THEN Amount ELSE Id END FROM Event")
	require.Len(t, q.SelectExprs, 1)
	to, ok := q.SelectExprs[0].(*ast.TypeOf)
	require.True(t, ok)
	assert.Equal(t, "What", to.Relationship.Val)
	require.Len(t, to.Whens, 2)
	assert.Equal(t, "Account", to.Whens[0].ObjectType.Val)
	require.Len(t, to.Elses, 1)
}

func TestParseGroupByRollupHavingAliasedCount(t *testing.T) {
	q := parse(t, "SELECT COUNT(Id) c FROM Account GROUP BY ROLLUP(Type) HAVING COUNT(Id) > 5")
	require.NotNil(t, q.GroupBy)
	assert.Equal(t, ast.GroupByRollup, q.GroupBy.Type)
	require.NotNil(t, q.Having)
	assert.Equal(t,
		"SELECT COUNT(Id) c FROM Account GROUP BY ROLLUP(Type) HAVING COUNT(Id) > 5",
		q.Render())
}

func TestParseMissingFromObjectReportsLocatedError(t *testing.T) {
	g := grammar.New()
	_, err := g.Parse("SELECT Id FROM")
	require.NotNil(t, err)
	assert.Equal(t, combinator.CodeExpectedClass, err.Code)
	assert.Equal(t, len("SELECT Id FROM"), err.Pos)
}

func TestParseAndOrNotPrecedence(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account WHERE A = 1 AND NOT B = 2 OR C = 3")
	assert.Equal(t, "SELECT Id FROM Account WHERE (A = 1 AND NOT B = 2) OR C = 3", q.Render())
}

func TestParseInNotInIncludesExcludes(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account WHERE Type IN ('A', 'B') AND Industry NOT IN ('C') AND Tags INCLUDES ('x') AND Tags EXCLUDES ('y')")
	where, ok := q.Where.(*ast.OpAndOrExpr)
	require.True(t, ok)
	_ = where
	assert.Contains(t, q.Render(), "Type IN ('A', 'B')")
	assert.Contains(t, q.Render(), "Industry NOT IN ('C')")
	assert.Contains(t, q.Render(), "Tags INCLUDES ('x')")
	assert.Contains(t, q.Render(), "Tags EXCLUDES ('y')")
}

func TestParseForViewReferenceAndUpdateTracking(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account FOR REFERENCE UPDATE VIEWSTAT")
	assert.Equal(t, ast.ForReference, q.ForViewReference)
	assert.Equal(t, ast.UpdateViewStat, q.UpdateTracking)
	assert.Equal(t, "SELECT Id FROM Account FOR REFERENCE UPDATE VIEWSTAT", q.Render())
}

func TestParseUsingScope(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account USING SCOPE Mine")
	require.NotNil(t, q.FilterScope)
	assert.Equal(t, "Mine", q.FilterScope.Val)
}

func TestParseWithDataCategory(t *testing.T) {
	q := parse(t, "SELECT Id FROM KnowledgeArticle WITH DATA CATEGORY Geography__c ABOVE_OR_BELOW usa__c AND Product__c AT (laptop__c, desktop__c)")
	require.Len(t, q.WithDataCategory, 2)
	assert.Equal(t, "ABOVE_OR_BELOW", q.WithDataCategory[0].Op.Val)
	assert.Equal(t, "AT", q.WithDataCategory[1].Op.Val)
	require.Len(t, q.WithDataCategory[1].Values, 2)
}

func TestParseDateAndDateTimeLiterals(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account WHERE CreatedDate >= 2024-01-01T00:00:00Z AND CloseDate = 2024-06-15")
	assert.Contains(t, q.Render(), "2024-01-01T00:00:00Z")
	assert.Contains(t, q.Render(), "2024-06-15")
}

func TestParseRelativeDateToken(t *testing.T) {
	q := parse(t, "SELECT Id FROM Account WHERE CreatedDate = LAST_N_DAYS:5")
	cmp, ok := q.Where.(*ast.ComparisonExpr)
	require.True(t, ok)
	lit, ok := cmp.Right.(*ast.LiteralValue)
	require.True(t, ok)
	assert.Equal(t, ast.TypeToken, lit.Type)
	assert.Equal(t, "LAST_N_DAYS:5", lit.Val)
}

func TestParseFieldAliasStopsBeforeFromKeyword(t *testing.T) {
	// "Total" is Amount's alias; nonReservedIdent lets the alias
	// position take it but keeps it from swallowing the FROM after it.
	q := parse(t, "SELECT Id, Amount Total FROM Account")
	require.Len(t, q.SelectExprs, 2)
	f, ok := q.SelectExprs[1].(*ast.SelectField)
	require.True(t, ok)
	require.NotNil(t, f.Alias)
	assert.Equal(t, "Total", f.Alias.Val)
}

func TestRoundTripIgnoringLocation(t *testing.T) {
	queries := []string{
		"SELECT Id FROM Account",
		"SELECT Id, Name FROM Account WHERE Name = 'bob' ORDER BY Name DESC NULLS LAST LIMIT 10",
		"SELECT Id, (SELECT Id FROM Contacts) FROM Account",
		"SELECT COUNT(Id) c FROM Account GROUP BY ROLLUP(Type) HAVING COUNT(Id) > 5",
	}
	for _, q := range queries {
		first := parse(t, q)
		rendered := first.Render()
		second := parse(t, rendered)
		assert.True(t, ast.Equal(first, second), "round-trip mismatch for %q: %s", q, ast.Diff(first, second))
		assert.Equal(t, rendered, second.Render(), "render is not idempotent for %q", q)
	}
}
