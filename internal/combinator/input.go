package combinator

import (
	"fmt"
	"unicode/utf8"
)

// CaseSensitivity controls whether literal matching folds case.
type CaseSensitivity uint8

const (
	CaseSensitive CaseSensitivity = iota
	CaseInsensitive
)

// InputState owns the immutable source text and the mutable cursor, cut
// watermark, retained error and user-context map for a single parse
// call. A parse runs to completion against exactly one InputState; the
// parser graph itself is immutable and shareable across concurrent
// parses on distinct InputStates.
type InputState struct {
	input   string
	pos     int
	cut     int
	err     *Error
	context map[string]any
}

// NewInputState creates a fresh InputState positioned at the start of
// input.
func NewInputState(input string) *InputState {
	return &InputState{input: input, context: map[string]any{}}
}

// Input returns the full source text.
func (s *InputState) Input() string { return s.input }

// Pos returns the current cursor position.
func (s *InputState) Pos() int { return s.pos }

// Cut returns the current cut watermark.
func (s *InputState) Cut() int { return s.cut }

// Len returns the number of bytes of input remaining.
func (s *InputState) Len() int { return len(s.input) - s.pos }

// Remaining returns the unconsumed suffix of the input.
func (s *InputState) Remaining() string { return s.input[s.pos:] }

// Slice returns input[start:end].
func (s *InputState) Slice(start, end int) string { return s.input[start:end] }

// Context returns the user-context dictionary threaded through the
// parse.
func (s *InputState) Context() map[string]any { return s.context }

// ConsumeString advances past lit if the upcoming characters equal lit
// under the given case mode, returning the actual matched substring.
// Leaves pos unchanged on failure.
func (s *InputState) ConsumeString(lit string, cs CaseSensitivity) (string, bool) {
	if len(lit) > s.Len() {
		return "", false
	}
	cand := s.input[s.pos : s.pos+len(lit)]
	matched := cand == lit
	if !matched && cs == CaseInsensitive {
		matched = equalFold(cand, lit)
	}
	if !matched {
		return "", false
	}
	s.pos += len(lit)
	return cand, true
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ConsumeCharacterSet advances past a maximal run of runes satisfying
// set, returning the number of runes consumed.
func (s *InputState) ConsumeCharacterSet(set CharSet) int {
	n := 0
	for _, r := range s.Remaining() {
		if !set(r) {
			break
		}
		s.pos += utf8.RuneLen(r)
		n++
	}
	return n
}

// Advance moves the cursor forward n bytes. Used by primitives (regex,
// numbers) that already know how much input they matched.
func (s *InputState) Advance(n int) { s.pos += n }

// MoveTo repositions the cursor, for backtracking. It fails (returns
// false, leaving pos untouched) if p is below the cut watermark: no
// parser may rewind past a committed choice.
func (s *InputState) MoveTo(p int) bool {
	if p < s.cut {
		return false
	}
	s.pos = p
	return true
}

// MarkCut raises the cut watermark to the current position, committing
// to every choice made so far: no subsequent backtrack may move before
// this point.
func (s *InputState) MarkCut() { s.cut = s.pos }

// Expected records (and returns) a candidate error indicating that the
// literal token was required at the current position.
func (s *InputState) Expected(token string) *Error {
	e := &Error{Pos: s.pos, Code: CodeExpectedLiteral, Kind: ExpectedToken, Expected: []string{token}}
	s.record(e)
	return e
}

// ExpectedClass records (and returns) a candidate error indicating that
// a syntactic class was required at the current position.
func (s *InputState) ExpectedClass(name string) *Error {
	e := &Error{Pos: s.pos, Code: CodeExpectedClass, Kind: ExpectedClass, Expected: []string{name}}
	s.record(e)
	return e
}

// Errorf records (and returns) a candidate custom error at the current
// position. The message is built lazily.
func (s *InputState) Errorf(format string, args ...any) *Error {
	pos := s.pos
	e := &Error{Pos: pos, Code: CodeCustom, custom: func() string {
		return fmt.Sprintf(format, args...)
	}}
	s.record(e)
	return e
}

func (s *InputState) record(e *Error) { s.err = merge(s.err, e) }

// Error returns the currently retained (deepest) error, if any.
func (s *InputState) Error() *Error { return s.err }

// ClearError drops the retained error, used once a parse succeeds at
// the root.
func (s *InputState) ClearError() { s.err = nil }
