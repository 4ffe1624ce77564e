package ast

import "github.com/google/go-cmp/cmp"

// ignoreLoc ignores any struct field literally named "Loc", wherever it
// appears in the tree being compared — every node variant carries one.
var ignoreLoc = cmp.FilterPath(func(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && sf.Name() == "Loc"
}, cmp.Ignore())

// Equal reports whether a and b are structurally equal, ignoring source
// location: the property the engine's round-trip and re-parse
// invariants are stated in terms of.
func Equal(a, b Node) bool {
	return cmp.Equal(a, b, ignoreLoc)
}

// Diff returns a human-readable structural diff between a and b,
// ignoring source location, or "" if they are Equal. Intended for test
// failure messages.
func Diff(a, b Node) string {
	return cmp.Diff(a, b, ignoreLoc)
}
