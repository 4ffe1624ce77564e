package combinator

import "strings"

// Seq runs each parser in order; all must succeed. On failure it
// rewinds to the entry position (unless a cut forbids it, in which case
// the position is left wherever the failing attempt advanced to and the
// deepest recorded error propagates). The result is an array Result
// whose range spans the first child's start to the last child's end.
func (f *Factory) Seq(parsers ...*Parser) *Parser {
	return newParser(func(in *InputState) *Result {
		start := in.Pos()
		children := make([]*Result, 0, len(parsers))
		for _, p := range parsers {
			r := p.Parse(in)
			if r == nil {
				in.MoveTo(start)
				return nil
			}
			children = append(children, r)
		}
		return &Result{Value: NodesValue(children), Range: Range{start, in.Pos()}}
	})
}

// FirstOf tries parsers in declared order and returns the first success.
// On total failure it propagates the deepest error recorded by any
// attempt.
func (f *Factory) FirstOf(parsers ...*Parser) *Parser {
	return newParser(func(in *InputState) *Result {
		start := in.Pos()
		for _, p := range parsers {
			if r := p.Parse(in); r != nil {
				return r
			}
			if !in.MoveTo(start) {
				return nil
			}
		}
		return nil
	})
}

// OneOf tries every parser from the same starting position and keeps
// the one whose match advances furthest; ties favor the earlier-listed
// parser. This is the disambiguator for overlapping keywords (e.g. a
// field literally named ORDER vs the ORDER BY clause).
func (f *Factory) OneOf(parsers ...*Parser) *Parser {
	return newParser(func(in *InputState) *Result {
		start := in.Pos()
		var best *Result
		for _, p := range parsers {
			r := p.Parse(in)
			if r != nil && (best == nil || r.Range.End > best.Range.End) {
				best = r
			}
			if !in.MoveTo(start) {
				break
			}
		}
		if best == nil {
			return nil
		}
		in.MoveTo(best.Range.End)
		return best
	})
}

// OneOfTokens is shorthand for OneOf over eq parsers built from a
// whitespace-separated token list.
func (f *Factory) OneOfTokens(tokens string) *Parser {
	return f.OneOfTokensList(strings.Fields(tokens))
}

// OneOfTokensList is OneOfTokens taking an explicit token slice.
func (f *Factory) OneOfTokensList(tokens []string) *Parser {
	parsers := make([]*Parser, len(tokens))
	for i, t := range tokens {
		parsers[i] = f.Eq(t)
	}
	return f.OneOf(parsers...)
}

// RepeatOption configures ZeroOrMore/OneOrMore.
type RepeatOption func(*repeatOpts)

type repeatOpts struct {
	sep *Parser
	max int
}

// WithSeparator requires occurrences of p to be separated by sep; a
// dangling separator (one not followed by another match of p) is a
// parse failure, not a shorter match.
func WithSeparator(sep *Parser) RepeatOption {
	return func(o *repeatOpts) { o.sep = sep }
}

// WithMax caps the repetition count; beyond max, matching simply stops,
// leaving the remaining input for whatever follows.
func WithMax(n int) RepeatOption {
	return func(o *repeatOpts) { o.max = n }
}

// ZeroOrMore greedily matches p zero or more times.
func (f *Factory) ZeroOrMore(p *Parser, opts ...RepeatOption) *Parser {
	return repeat(p, applyOpts(opts), 0)
}

// OneOrMore greedily matches p one or more times.
func (f *Factory) OneOrMore(p *Parser, opts ...RepeatOption) *Parser {
	return repeat(p, applyOpts(opts), 1)
}

func applyOpts(opts []RepeatOption) repeatOpts {
	var o repeatOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func repeat(p *Parser, o repeatOpts, min int) *Parser {
	return newParser(func(in *InputState) *Result {
		entry := in.Pos()
		pos := entry
		var children []*Result
		for o.max <= 0 || len(children) < o.max {
			attemptStart := pos
			if len(children) > 0 && o.sep != nil {
				if sr := o.sep.Parse(in); sr == nil {
					in.MoveTo(attemptStart)
					break
				}
			}
			itemStart := in.Pos()
			r := p.Parse(in)
			if r == nil {
				if len(children) > 0 && o.sep != nil {
					// the separator was already consumed with no
					// following item: a dangling separator is a hard
					// failure, not an early stop.
					return nil
				}
				in.MoveTo(itemStart)
				break
			}
			children = append(children, r)
			pos = in.Pos()
		}
		if len(children) < min {
			in.MoveTo(entry)
			return nil
		}
		return &Result{Value: NodesValue(children), Range: Range{entry, pos}}
	})
}

// ZeroOrOne attempts p once; on success it returns p's result, or the
// null value if ignoring(value) reports true. On failure it returns a
// non-consuming null-valued Result rather than propagating the failure,
// unless a cut inside p forbids rewinding to the start, in which case
// the failure propagates.
func (f *Factory) ZeroOrOne(p *Parser, ignoring ...func(ResultValue) bool) *Parser {
	var ignore func(ResultValue) bool
	if len(ignoring) > 0 {
		ignore = ignoring[0]
	}
	return newParser(func(in *InputState) *Result {
		start := in.Pos()
		r := p.Parse(in)
		if r == nil {
			if !in.MoveTo(start) {
				return nil
			}
			return &Result{Value: NullValue(), Range: Range{start, start}}
		}
		if ignore != nil && ignore(r.Value) {
			return &Result{Value: NullValue(), Range: r.Range}
		}
		return r
	})
}

// Cut is a zero-width parser that commits to every choice made so far:
// once it succeeds, no enclosing alternation may rewind the cursor to
// before this point, sharpening the error reported on later failures.
func (f *Factory) Cut() *Parser {
	return newParser(func(in *InputState) *Result {
		pos := in.Pos()
		in.MarkCut()
		return &Result{Value: NullValue(), Range: Range{pos, pos}}
	})
}

// FromBlock wraps an arbitrary parsing function as a Parser, an escape
// hatch for logic that doesn't decompose into the other combinators.
func (f *Factory) FromBlock(fn ParseFunc) *Parser { return newParser(fn) }

// OnMatch runs p and, on success, replaces its Result with
// mapper(result) — typically the construction of an AST node.
func OnMatch(p *Parser, mapper func(*Result) *Result) *Parser {
	return newParser(func(in *InputState) *Result {
		r := p.Parse(in)
		if r == nil {
			return nil
		}
		return mapper(r)
	})
}

// OnMatch is the Factory-bound form of the package-level OnMatch, kept
// for parity with the other combinator factory methods.
func (f *Factory) OnMatch(p *Parser, mapper func(*Result) *Result) *Parser {
	return OnMatch(p, mapper)
}
