package combinator

// Run drives p against the full input. On success, if any input remains
// after the match (and after consuming trailingWs, if given; without it
// trailing whitespace also counts), the parse fails with CodeExtraInput
// rather than silently accepting a prefix match. On success with no remaining input, the
// retained error (if any, from abandoned branches) is dropped.
func Run(p *Parser, input string, trailingWs *Parser) (*Result, *Error) {
	in := NewInputState(input)
	r := p.Parse(in)
	if r == nil {
		return nil, in.Error()
	}
	if trailingWs != nil {
		trailingWs.Parse(in)
	}
	if in.Pos() < len(input) {
		return nil, &Error{
			Pos:      in.Pos(),
			Code:     CodeExtraInput,
			Kind:     ExpectedClass,
			Expected: []string{"end of input"},
		}
	}
	in.ClearError()
	return r, nil
}
