// Package soql parses Salesforce Object Query Language (SOQL) text into
// a typed abstract syntax tree, and renders that tree back to canonical
// SOQL. It does not execute, validate, or optimize queries.
package soql

import (
	"github.com/chaisql/soql/internal/combinator"
	"github.com/chaisql/soql/internal/soql/ast"
	"github.com/chaisql/soql/internal/soql/grammar"
)

// SelectQuery is the root of a parsed query's AST, re-exported here so
// callers need not import internal/soql/ast directly.
type SelectQuery = ast.SelectQuery

var defaultGrammar = grammar.New()

// ParseSoql parses a single SOQL SELECT statement. On success it
// returns the query's AST; on failure it returns the deepest recorded
// parse error, with its source position and the set of tokens/classes
// that would have been accepted there.
func ParseSoql(input string) (*SelectQuery, *Error) {
	q, err := defaultGrammar.Parse(input)
	if err != nil {
		return nil, wrapError(err)
	}
	return q, nil
}

// Error describes why a SOQL parse failed: the deepest position reached
// and what was expected there. It carries no partial AST — see
// spec.md §7, single-error-with-location is the whole error model.
type Error struct {
	inner *combinator.Error
}

func wrapError(e *combinator.Error) *Error {
	if e == nil {
		return nil
	}
	return &Error{inner: e}
}

// Pos is the byte offset into the input where parsing failed.
func (e *Error) Pos() int { return e.inner.Pos }

// Error satisfies the standard error interface.
func (e *Error) Error() string { return e.inner.Message() }

// Unwrap exposes the cockroachdb/errors-wrapped cause, giving callers
// access to a stack trace via errors.GetSafeDetails/%+v.
func (e *Error) Unwrap() error { return e.inner.Err() }
