// Package ast defines the typed SOQL abstract syntax tree: a closed set
// of node variants, each carrying the source range it was parsed from,
// and able to render itself back to canonical SOQL text.
package ast

import "strings"

// Range is a half-open source span [Start, End) over the original
// query string.
type Range struct {
	Start int
	End   int
}

// Node is implemented by every AST node variant.
type Node interface {
	// AppendSoql writes this node's canonical SOQL rendering to buf.
	AppendSoql(buf *strings.Builder)
	// GetLoc returns the source range this node was parsed from.
	GetLoc() Range
}

// Expr is the sum of node variants valid in an expression position:
// select fields/functions, TYPEOF, literals, comparisons, boolean
// combinators, negation, data-category filters and nested subqueries.
type Expr interface {
	Node
	isExpr()
}

// Literal is the sum of node variants valid on the right-hand side of a
// comparison: a single literal value, or a parenthesized literal list
// (valid only for IN / NOT IN / INCLUDES / EXCLUDES).
type Literal interface {
	Node
	isLiteral()
}

// PositionedString is a string value annotated with the source range it
// was matched from — the basic "leaf with location" building block used
// throughout the AST (identifiers, operators, aliases, keywords).
type PositionedString struct {
	Val string
	Loc Range
}

func (n *PositionedString) GetLoc() Range { return n.Loc }
func (n *PositionedString) AppendSoql(buf *strings.Builder) { buf.WriteString(n.Val) }

// PositionedNumber is a numeric value annotated with its source range,
// used for LIMIT/OFFSET arguments.
type PositionedNumber struct {
	Val float64
	Loc Range
}

func (n *PositionedNumber) GetLoc() Range { return n.Loc }
func (n *PositionedNumber) AppendSoql(buf *strings.Builder) { appendNumber(buf, n.Val) }

// SelectField is a dotted field path, e.g. "Contact.Account.Name",
// optionally aliased.
type SelectField struct {
	Name  []*PositionedString
	Alias *PositionedString
	Loc   Range
}

func (*SelectField) isExpr() {}
func (n *SelectField) GetLoc() Range { return n.Loc }
func (n *SelectField) AppendSoql(buf *strings.Builder) {
	appendDottedPath(buf, n.Name)
	appendAlias(buf, n.Alias)
}

// SelectFunc is a function call over a list of field-path arguments,
// e.g. "COUNT(Id)", optionally aliased.
type SelectFunc struct {
	Name  *PositionedString
	Args  []*SelectField
	Alias *PositionedString
	Loc   Range
}

func (*SelectFunc) isExpr() {}
func (n *SelectFunc) GetLoc() Range { return n.Loc }
func (n *SelectFunc) AppendSoql(buf *strings.Builder) {
	buf.WriteString(strings.ToUpper(n.Name.Val))
	buf.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		appendDottedPath(buf, a.Name)
	}
	buf.WriteByte(')')
	appendAlias(buf, n.Alias)
}

// TypeOfWhen is a single "WHEN <objectType> THEN <fields>" branch of a
// TYPEOF expression.
type TypeOfWhen struct {
	ObjectType *PositionedString
	Select     []*SelectField
	Loc        Range
}

func (n *TypeOfWhen) GetLoc() Range { return n.Loc }
func (n *TypeOfWhen) AppendSoql(buf *strings.Builder) {
	buf.WriteString("WHEN ")
	buf.WriteString(n.ObjectType.Val)
	buf.WriteString(" THEN ")
	appendFieldList(buf, n.Select)
}

// TypeOf is a polymorphic relationship projection:
// "TYPEOF rel WHEN A THEN ... WHEN B THEN ... ELSE ... END".
type TypeOf struct {
	Relationship *PositionedString
	Whens        []*TypeOfWhen
	Elses        []*SelectField
	Loc          Range
}

func (*TypeOf) isExpr() {}
func (n *TypeOf) GetLoc() Range { return n.Loc }
func (n *TypeOf) AppendSoql(buf *strings.Builder) {
	buf.WriteString("TYPEOF ")
	buf.WriteString(n.Relationship.Val)
	for _, w := range n.Whens {
		buf.WriteByte(' ')
		w.AppendSoql(buf)
	}
	if n.Elses != nil {
		buf.WriteString(" ELSE ")
		appendFieldList(buf, n.Elses)
	}
	buf.WriteString(" END")
}

// SObjectRef names the queried (or related) object, optionally aliased.
type SObjectRef struct {
	Name  *PositionedString
	Alias *PositionedString
	Loc   Range
}

func (n *SObjectRef) GetLoc() Range { return n.Loc }
func (n *SObjectRef) AppendSoql(buf *strings.Builder) {
	buf.WriteString(n.Name.Val)
	appendAlias(buf, n.Alias)
}

// From is the FROM clause: the queried object plus any comma-separated
// related-object field paths used for polymorphic FOR UPDATE semantics.
type From struct {
	SObject        *SObjectRef
	RelatedObjects []*SelectField
	Loc            Range
}

func (n *From) GetLoc() Range { return n.Loc }
func (n *From) AppendSoql(buf *strings.Builder) {
	n.SObject.AppendSoql(buf)
	for _, r := range n.RelatedObjects {
		buf.WriteString(", ")
		appendDottedPath(buf, r.Name)
	}
}

// LiteralType classifies a LiteralValue's Val.
type LiteralType int

const (
	TypeString LiteralType = iota
	TypeNull
	TypeBool
	TypeNumber
	TypeDateTime
	TypeDate
	TypeToken
)

// LiteralValue is a single typed literal on the right-hand side of a
// comparison or inside a LiteralValueArray.
type LiteralValue struct {
	Val  any
	Type LiteralType
	Loc  Range
}

func (*LiteralValue) isExpr() {}
func (*LiteralValue) isLiteral() {}
func (n *LiteralValue) GetLoc() Range { return n.Loc }
func (n *LiteralValue) AppendSoql(buf *strings.Builder) {
	switch n.Type {
	case TypeNull:
		buf.WriteString("NULL")
	case TypeBool:
		if n.Val.(bool) {
			buf.WriteString("TRUE")
		} else {
			buf.WriteString("FALSE")
		}
	case TypeNumber:
		appendNumber(buf, n.Val.(float64))
	case TypeString:
		buf.WriteByte('\'')
		buf.WriteString(escapeString(n.Val.(string)))
		buf.WriteByte('\'')
	case TypeDate, TypeDateTime, TypeToken:
		buf.WriteString(n.Val.(string))
	}
}

// LiteralValueArray is a parenthesized, comma-joined literal list, valid
// only as the right-hand side of IN / NOT IN / INCLUDES / EXCLUDES.
type LiteralValueArray struct {
	Values []*LiteralValue
	Loc    Range
}

func (*LiteralValueArray) isLiteral() {}
func (n *LiteralValueArray) GetLoc() Range { return n.Loc }
func (n *LiteralValueArray) AppendSoql(buf *strings.Builder) {
	buf.WriteByte('(')
	for i, v := range n.Values {
		if i > 0 {
			buf.WriteString(", ")
		}
		v.AppendSoql(buf)
	}
	buf.WriteByte(')')
}

// ComparisonExpr is a single "<field-or-func> <op> <literal>"
// predicate.
type ComparisonExpr struct {
	Left  Expr
	Op    *PositionedString
	Right Literal
	Loc   Range
}

func (*ComparisonExpr) isExpr() {}
func (n *ComparisonExpr) GetLoc() Range { return n.Loc }
func (n *ComparisonExpr) AppendSoql(buf *strings.Builder) {
	n.Left.AppendSoql(buf)
	buf.WriteByte(' ')
	buf.WriteString(n.Op.Val)
	buf.WriteByte(' ')
	n.Right.AppendSoql(buf)
}

// OpAndOrExpr is a binary "AND"/"OR" boolean combination, left
// associative.
type OpAndOrExpr struct {
	Left  Expr
	Op    *PositionedString // "AND" or "OR"
	Right Expr
	Loc   Range
}

func (*OpAndOrExpr) isExpr() {}
func (n *OpAndOrExpr) GetLoc() Range { return n.Loc }
func (n *OpAndOrExpr) AppendSoql(buf *strings.Builder) {
	appendMaybeParenthesized(buf, n.Left)
	buf.WriteByte(' ')
	buf.WriteString(strings.ToUpper(n.Op.Val))
	buf.WriteByte(' ')
	appendMaybeParenthesized(buf, n.Right)
}

// NotExpr is a logical negation, binding tighter than AND/OR.
type NotExpr struct {
	Expr Expr
	Loc  Range
}

func (*NotExpr) isExpr() {}
func (n *NotExpr) GetLoc() Range { return n.Loc }
func (n *NotExpr) AppendSoql(buf *strings.Builder) {
	buf.WriteString("NOT ")
	appendMaybeParenthesized(buf, n.Expr)
}

// DataCategoryFilter is a single "<category> <op> <values>" predicate of
// a WITH DATA CATEGORY clause.
type DataCategoryFilter struct {
	Category *PositionedString
	Op       *PositionedString // AT, ABOVE, BELOW, ABOVE_OR_BELOW
	Values   []*PositionedString
	Loc      Range
}

func (*DataCategoryFilter) isExpr() {}
func (n *DataCategoryFilter) GetLoc() Range { return n.Loc }
func (n *DataCategoryFilter) AppendSoql(buf *strings.Builder) {
	buf.WriteString(n.Category.Val)
	buf.WriteByte(' ')
	buf.WriteString(strings.ToUpper(n.Op.Val))
	buf.WriteByte(' ')
	if len(n.Values) == 1 {
		buf.WriteString(n.Values[0].Val)
		return
	}
	buf.WriteByte('(')
	for i, v := range n.Values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(v.Val)
	}
	buf.WriteByte(')')
}

// GroupByType distinguishes a plain GROUP BY from ROLLUP/CUBE grouping.
type GroupByType int

const (
	GroupByPlain GroupByType = iota
	GroupByRollup
	GroupByCube
)

// GroupBy is a GROUP BY clause over one or more grouping expressions.
type GroupBy struct {
	Type   GroupByType
	Fields []Expr
	Loc    Range
}

func (n *GroupBy) GetLoc() Range { return n.Loc }
func (n *GroupBy) AppendSoql(buf *strings.Builder) {
	switch n.Type {
	case GroupByRollup:
		buf.WriteString("ROLLUP(")
	case GroupByCube:
		buf.WriteString("CUBE(")
	}
	for i, f := range n.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		f.AppendSoql(buf)
	}
	if n.Type != GroupByPlain {
		buf.WriteByte(')')
	}
}

// NullsOrder controls NULLS FIRST/LAST placement in an ORDER BY item.
type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

// OrderBy is a single ORDER BY item.
type OrderBy struct {
	Field Expr
	Asc   bool
	Nulls NullsOrder
	Loc   Range
}

func (n *OrderBy) GetLoc() Range { return n.Loc }
func (n *OrderBy) AppendSoql(buf *strings.Builder) {
	n.Field.AppendSoql(buf)
	if n.Asc {
		buf.WriteString(" ASC")
	} else {
		buf.WriteString(" DESC")
	}
	switch n.Nulls {
	case NullsFirst:
		buf.WriteString(" NULLS FIRST")
	case NullsLast:
		buf.WriteString(" NULLS LAST")
	}
}

// OrderBys is the comma-joined list of an ORDER BY clause.
type OrderBys struct {
	Items []*OrderBy
	Loc   Range
}

func (n *OrderBys) GetLoc() Range { return n.Loc }
func (n *OrderBys) AppendSoql(buf *strings.Builder) {
	for i, o := range n.Items {
		if i > 0 {
			buf.WriteString(", ")
		}
		o.AppendSoql(buf)
	}
}

// ForViewReference is the optional "FOR VIEW"/"FOR REFERENCE" clause.
type ForViewReference int

const (
	ForNone ForViewReference = iota
	ForView
	ForReference
)

// UpdateTracking is the optional "UPDATE TRACKING"/"UPDATE VIEWSTAT"
// clause.
type UpdateTracking int

const (
	UpdateNone UpdateTracking = iota
	UpdateTrackingFlag
	UpdateViewStat
)

// NestedSelectQuery wraps a subquery appearing in a SELECT list or
// relationship position, rendered parenthesized.
type NestedSelectQuery struct {
	Query *SelectQuery
	Loc   Range
}

func (*NestedSelectQuery) isExpr() {}
func (n *NestedSelectQuery) GetLoc() Range { return n.Loc }
func (n *NestedSelectQuery) AppendSoql(buf *strings.Builder) {
	buf.WriteByte('(')
	n.Query.AppendSoql(buf)
	buf.WriteByte(')')
}

// SelectQuery is the root AST node: one SOQL query, with every optional
// clause described by spec.md §3.5.
type SelectQuery struct {
	SelectExprs      []Expr
	From             *From
	FilterScope      *PositionedString
	Where            Expr
	WithDataCategory []*DataCategoryFilter
	GroupBy          *GroupBy
	Having           Expr
	OrderBy          *OrderBys
	Limit            *PositionedNumber
	Offset           *PositionedNumber
	ForViewReference ForViewReference
	UpdateTracking   UpdateTracking
	Loc              Range
}

func (*SelectQuery) isExpr() {}
func (n *SelectQuery) GetLoc() Range { return n.Loc }

// Render returns the canonical SOQL text for this query.
func (n *SelectQuery) Render() string { return ToSoql(n) }

func (n *SelectQuery) AppendSoql(buf *strings.Builder) {
	buf.WriteString("SELECT ")
	for i, e := range n.SelectExprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		e.AppendSoql(buf)
	}
	buf.WriteString(" FROM ")
	n.From.AppendSoql(buf)
	if n.FilterScope != nil {
		buf.WriteString(" USING SCOPE ")
		buf.WriteString(n.FilterScope.Val)
	}
	if n.Where != nil {
		buf.WriteString(" WHERE ")
		n.Where.AppendSoql(buf)
	}
	if len(n.WithDataCategory) > 0 {
		buf.WriteString(" WITH DATA CATEGORY ")
		for i, c := range n.WithDataCategory {
			if i > 0 {
				buf.WriteString(" AND ")
			}
			c.AppendSoql(buf)
		}
	}
	if n.GroupBy != nil {
		buf.WriteString(" GROUP BY ")
		n.GroupBy.AppendSoql(buf)
		if n.Having != nil {
			buf.WriteString(" HAVING ")
			n.Having.AppendSoql(buf)
		}
	}
	if n.OrderBy != nil {
		buf.WriteString(" ORDER BY ")
		n.OrderBy.AppendSoql(buf)
	}
	if n.Limit != nil {
		buf.WriteString(" LIMIT ")
		appendNumber(buf, n.Limit.Val)
	}
	if n.Offset != nil {
		buf.WriteString(" OFFSET ")
		appendNumber(buf, n.Offset.Val)
	}
	switch n.ForViewReference {
	case ForView:
		buf.WriteString(" FOR VIEW")
	case ForReference:
		buf.WriteString(" FOR REFERENCE")
	}
	switch n.UpdateTracking {
	case UpdateTrackingFlag:
		buf.WriteString(" UPDATE TRACKING")
	case UpdateViewStat:
		buf.WriteString(" UPDATE VIEWSTAT")
	}
}
