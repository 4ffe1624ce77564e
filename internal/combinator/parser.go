// Package combinator is a small backtracking, longest-match
// parser-combinator engine: an InputState owns the source text and
// cursor, a Parser is a function from InputState to an optional Result,
// and a Factory builds primitive and composite Parsers that share a
// default case-sensitivity setting.
//
// There is a single Parser type rather than a hierarchy of singular and
// array parser classes; the distinction between a scalar match and a
// repeated one is just the shape of the Result it returns.
package combinator

// ParseFunc is the shape every parser reduces to: given an InputState,
// either return a Result with pos advanced, or return nil having
// recorded a candidate error on the state.
type ParseFunc func(s *InputState) *Result

// Parser is a single parser value built by a Factory. It has no
// exported fields; combinators are composed purely by wrapping one
// Parser's ParseFunc inside another's.
type Parser struct {
	name string
	fn   ParseFunc
}

// Parse runs the parser against s.
func (p *Parser) Parse(s *InputState) *Result { return p.fn(s) }

// Name returns the parser's debug name, if one was set.
func (p *Parser) Name() string { return p.name }

// Named attaches a debug name to a parser, returning it for chaining.
func (p *Parser) Named(name string) *Parser {
	p.name = name
	return p
}

func newParser(fn ParseFunc) *Parser { return &Parser{fn: fn} }

// NewParserRef returns an indirection cell for forward/recursive
// grammar references: ref can be embedded into other parsers before its
// real implementation is known, and set assigns that implementation
// exactly once, after the whole grammar graph is constructed.
func NewParserRef() (ref *Parser, set func(p *Parser)) {
	var inner *Parser
	ref = newParser(func(s *InputState) *Result {
		if inner == nil {
			panic("combinator: parserRef used before being set")
		}
		return inner.Parse(s)
	})
	set = func(p *Parser) { inner = p }
	return ref, set
}
