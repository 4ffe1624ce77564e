package combinator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorCode classifies the taxonomy of parse failures described in the
// engine's error handling design.
type ErrorCode int

const (
	// CodeExpectedLiteral means a specific token was required.
	CodeExpectedLiteral ErrorCode = iota + 1
	// CodeExpectedClass means a syntactic class (whitespace, identifier,
	// integer, ...) was required.
	CodeExpectedClass
	// CodeExtraInput means the parse consumed a prefix but non-whitespace
	// input remained.
	CodeExtraInput
	// CodeCustom is a parser-specific, free-form error.
	CodeCustom
)

// ExpectedKind distinguishes a literal token (rendered quoted) from a
// syntactic class (rendered unquoted).
type ExpectedKind uint8

const (
	ExpectedToken ExpectedKind = iota
	ExpectedClass
)

// Error is a single candidate parse failure. Construction is cheap:
// custom messages are deferred behind a closure and only built when the
// top-level parse call materializes the retained error.
type Error struct {
	Pos      int
	Code     ErrorCode
	Kind     ExpectedKind
	Expected []string // candidate literals/classes at Pos, first-seen order
	Info     map[string]any

	custom func() string
}

// Message renders the user-visible "expected <thing> at position <N>"
// text, invoking the lazy message producer if this is a custom error.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.custom != nil {
		return e.custom()
	}
	return fmt.Sprintf("expected %s at position %d", e.expectedText(), e.Pos)
}

func (e *Error) expectedText() string {
	parts := make([]string, len(e.Expected))
	for i, x := range e.Expected {
		if e.Kind == ExpectedToken {
			parts[i] = strconv.Quote(x)
		} else {
			parts[i] = x
		}
	}
	return strings.Join(parts, ", ")
}

// Error satisfies the standard error interface.
func (e *Error) Error() string { return e.Message() }

// Err materializes a cockroachdb/errors value carrying this error's
// message, for callers that want stack traces / %+v formatting.
func (e *Error) Err() error {
	return errors.WithStack(errors.Newf("%s", e.Message()))
}

// merge combines a newly observed candidate error with the currently
// retained one, keeping only the error(s) with the greatest position:
// a strictly deeper candidate replaces the retained error, an
// equal-position candidate with the same code and kind merges its
// expectations in, an equal-position candidate with a different code or
// kind is discarded, and a shallower candidate is discarded without
// allocation beyond the candidate itself.
func merge(cur, cand *Error) *Error {
	if cur == nil {
		return cand
	}
	if cand.Pos > cur.Pos {
		return cand
	}
	if cand.Pos < cur.Pos {
		return cur
	}
	if cur.Code != cand.Code || cur.Kind != cand.Kind {
		return cur
	}
	seen := make(map[string]bool, len(cur.Expected)+len(cand.Expected))
	merged := make([]string, 0, len(cur.Expected)+len(cand.Expected))
	for _, x := range cur.Expected {
		if !seen[x] {
			seen[x] = true
			merged = append(merged, x)
		}
	}
	for _, x := range cand.Expected {
		if !seen[x] {
			seen[x] = true
			merged = append(merged, x)
		}
	}
	out := *cur
	out.Expected = merged
	return &out
}
