package combinator

// Pick returns a mapper that replaces an array Result with its i'th
// child, discarding the rest (commonly used to drop surrounding
// keywords/punctuation from a seq).
func Pick(i int) func(*Result) *Result {
	return func(r *Result) *Result { return r.Child(i) }
}

// PickVals returns a mapper that replaces each child of an array Result
// with a Result carrying just that child's value, producing a flat
// array-valued Result suitable for mappers that only care about values,
// not nested Result structure.
func PickVals(r *Result) *Result {
	children := r.Value.Nodes()
	flat := make([]*Result, len(children))
	for i, c := range children {
		flat[i] = &Result{Value: c.Value, Range: c.Range, Context: c.Context}
	}
	return &Result{Value: NodesValue(flat), Range: r.Range, Context: r.Context}
}

// SetValue returns a mapper that replaces the result's value with a
// constant, keeping its matched range — used for mapping keyword
// matches to AST-specific enum values.
func SetValue(v ResultValue) func(*Result) *Result {
	return func(r *Result) *Result { return &Result{Value: v, Range: r.Range, Context: r.Context} }
}

// ParserRef is the Factory-bound form of NewParserRef.
func (f *Factory) ParserRef() (ref *Parser, set func(p *Parser)) { return NewParserRef() }
