package combinator_test

import (
	"testing"

	"github.com/chaisql/soql/internal/combinator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqCaseInsensitiveByDefault(t *testing.T) {
	f := combinator.NewFactory()
	p := f.Eq("SELECT")

	in := combinator.NewInputState("select foo")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, "select", r.Value.Str())
	assert.Equal(t, 6, in.Pos())
}

func TestEqCaseSensitiveRejectsWrongCase(t *testing.T) {
	f := combinator.NewFactory()
	p := f.EqCase("Account", combinator.CaseSensitive)

	in := combinator.NewInputState("ACCOUNT")
	r := p.Parse(in)
	assert.Nil(t, r)
	require.NotNil(t, in.Error())
	assert.Equal(t, combinator.CodeExpectedLiteral, in.Error().Code)
}

func TestSeqRewindsOnFailure(t *testing.T) {
	f := combinator.NewFactory()
	p := f.Seq(f.Eq("A"), f.Eq("B"), f.Eq("C"))

	in := combinator.NewInputState("ABx")
	r := p.Parse(in)
	assert.Nil(t, r)
	assert.Equal(t, 0, in.Pos(), "failed seq should rewind to its entry position")
}

func TestFirstOfReturnsFirstSuccess(t *testing.T) {
	f := combinator.NewFactory()
	p := f.FirstOf(f.Eq("A"), f.Eq("AB"))

	in := combinator.NewInputState("AB")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, "A", r.Value.Str())
	assert.Equal(t, 1, in.Pos())
}

func TestOneOfPicksLongestMatch(t *testing.T) {
	f := combinator.NewFactory()
	p := f.OneOf(f.Eq("A"), f.Eq("AB"), f.Eq("ABC"))

	in := combinator.NewInputState("ABC")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, "ABC", r.Value.Str())
	assert.Equal(t, 3, in.Pos())
}

func TestOneOfTieBreaksToEarliestListed(t *testing.T) {
	f := combinator.NewFactory()
	first := combinator.OnMatch(f.Eq("Name"), combinator.SetValue(combinator.StrValue("first")))
	second := combinator.OnMatch(f.Eq("Name"), combinator.SetValue(combinator.StrValue("second")))
	p := f.OneOf(first, second)

	in := combinator.NewInputState("Name")
	r := p.Parse(in)
	require.NotNil(t, r)
	// Both alternatives match identically; OneOf must keep the one
	// listed first rather than the last one evaluated.
	assert.Equal(t, "first", r.Value.Str())
}

func TestZeroOrMoreOnEmptyInputDoesNotConsume(t *testing.T) {
	f := combinator.NewFactory()
	p := f.ZeroOrMore(f.Eq("a"))

	in := combinator.NewInputState("")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.True(t, r.Value.IsArray())
	assert.Empty(t, r.ChildVals())
	assert.Equal(t, 0, in.Pos())
}

func TestZeroOrMoreWithSeparatorDanglingSeparatorFails(t *testing.T) {
	f := combinator.NewFactory()
	p := f.ZeroOrMore(f.Eq("a"), combinator.WithSeparator(f.Eq(",")))

	in := combinator.NewInputState("a,a,")
	r := p.Parse(in)
	assert.Nil(t, r, "a dangling separator must fail the whole repetition")
}

func TestOneOrMoreRequiresAtLeastOne(t *testing.T) {
	f := combinator.NewFactory()
	p := f.OneOrMore(f.Eq("a"))

	in := combinator.NewInputState("bbb")
	r := p.Parse(in)
	assert.Nil(t, r)
}

func TestZeroOrMoreRespectsMax(t *testing.T) {
	f := combinator.NewFactory()
	p := f.ZeroOrMore(f.Eq("a"), combinator.WithMax(2))

	in := combinator.NewInputState("aaaa")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Len(t, r.ChildVals(), 2)
	assert.Equal(t, 2, in.Pos())
}

func TestZeroOrOneReturnsNullOnFailureWithoutConsuming(t *testing.T) {
	f := combinator.NewFactory()
	p := f.ZeroOrOne(f.Eq("LIMIT"))

	in := combinator.NewInputState("ORDER BY x")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.True(t, r.Value.IsNull())
	assert.Equal(t, 0, in.Pos())
}

func TestCutPreventsBacktrackPastWatermark(t *testing.T) {
	f := combinator.NewFactory()
	// firstOf[ seq(LIMIT, cut, integer), seq(LIMIT, ident) ]
	// once "LIMIT" + cut commit, the second alternative must not be
	// retried even though it would otherwise match "LIMIT" too.
	limitThenInt := f.Seq(f.Eq("LIMIT"), f.Whitespace(), f.Cut(), f.IntegerNumber())
	limitThenIdent := f.Seq(f.Eq("LIMIT"), f.Whitespace(), f.Characters(combinator.Letters, "identifier", 1))
	p := f.FirstOf(limitThenInt, limitThenIdent)

	in := combinator.NewInputState("LIMIT abc")
	r := p.Parse(in)
	assert.Nil(t, r)
	require.NotNil(t, in.Error())
	assert.GreaterOrEqual(t, in.Error().Pos, 6, "the surfaced error must be at or after the cut point")
}

func TestOnMatchTransformsResult(t *testing.T) {
	f := combinator.NewFactory()
	p := combinator.OnMatch(f.IntegerNumber(), func(r *combinator.Result) *combinator.Result {
		return &combinator.Result{Value: combinator.NumValue(r.Value.Num() * 2), Range: r.Range}
	})

	in := combinator.NewInputState("21")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, float64(42), r.Value.Num())
}

func TestRunReportsExtraInput(t *testing.T) {
	f := combinator.NewFactory()
	p := f.Eq("abc")

	_, err := combinator.Run(p, "abc def", f.MaybeWhitespace())
	require.NotNil(t, err)
	assert.Equal(t, combinator.CodeExtraInput, err.Code)
}

func TestRunClearsErrorOnSuccess(t *testing.T) {
	f := combinator.NewFactory()
	p := f.FirstOf(f.Eq("x"), f.Eq("abc"))

	r, err := combinator.Run(p, "abc", nil)
	require.Nil(t, err)
	require.NotNil(t, r)
}

func TestParserRefSupportsRecursion(t *testing.T) {
	f := combinator.NewFactory()
	ref, set := f.ParserRef()
	// balanced-parens recursive grammar: paren := '(' [paren] ')'
	set(f.FirstOf(
		f.Seq(f.Eq("("), ref, f.Eq(")")),
		f.Eq("()"),
	))

	in := combinator.NewInputState("((()))")
	r := ref.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, 6, in.Pos())
}

func TestPickSelectsChild(t *testing.T) {
	f := combinator.NewFactory()
	p := combinator.OnMatch(f.Seq(f.Eq("("), f.IntegerNumber(), f.Eq(")")), combinator.Pick(1))

	in := combinator.NewInputState("(42)")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, float64(42), r.Value.Num())
}

func TestSetValueKeepsRangeButReplacesValue(t *testing.T) {
	f := combinator.NewFactory()
	p := combinator.OnMatch(f.Eq("ASC"), combinator.SetValue(combinator.StrValue("ascending")))

	in := combinator.NewInputState("ASC")
	r := p.Parse(in)
	require.NotNil(t, r)
	assert.Equal(t, "ascending", r.Value.Str())
	assert.Equal(t, combinator.Range{Start: 0, End: 3}, r.Range)
}
