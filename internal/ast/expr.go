package ast

import "github.com/shpurify/shpurify/internal/span"

// Expr is the sum type of bash expressions (command arguments, assignment
// values, test operands, array elements, ...).
type Expr interface {
	Span() span.Span
	bashExpr()
}

// ExprBase carries the span common to all expression variants.
type ExprBase struct {
	Sp span.Span
}

func (b ExprBase) Span() span.Span { return b.Sp }
func (ExprBase) bashExpr()         {}

// Literal is a bare string/word constant.
type Literal struct {
	ExprBase
	Value string
}

// Variable is a `$name` or simple `${name}` reference. Parameter-expansion
// variants below always hold the bare variable name too (no "$", no
// braces); the emitter re-adds the syntax.
type Variable struct {
	ExprBase
	Name string
}

// Glob is an unquoted word containing shell glob metacharacters
// (`*`, `?`, `[...]`) that the purifier and emitter must not quote away.
type Glob struct {
	ExprBase
	Pattern string
}

// Array is a parenthesized list, `(a b c)`, or the collected item list of
// a `for` loop with more than one item.
type Array struct {
	ExprBase
	Elements []Expr
}

// Concat is two or more adjacent expressions with no separating
// whitespace, e.g. `"foo"$bar'baz'`.
type Concat struct {
	ExprBase
	Parts []Expr
}

// CommandSubst is `$(...)` or `` `...` ``; Body is the parsed statement
// list of the inner command. Raw holds the original inner text so the
// lint engine can distinguish backtick form (SC2006) from `$(...)`.
type CommandSubst struct {
	ExprBase
	Body      []Stmt
	Raw       string
	Backtick  bool
}

// Arithmetic is `$((expr))`.
type Arithmetic struct {
	ExprBase
	Expr ArithExpr
}

// DefaultValue is `${v:-default}`.
type DefaultValue struct {
	ExprBase
	Var     string
	Default Expr
}

// AssignDefault is `${v:=default}`.
type AssignDefault struct {
	ExprBase
	Var     string
	Default Expr
}

// ErrorIfUnset is `${v:?message}`.
type ErrorIfUnset struct {
	ExprBase
	Var     string
	Message Expr
}

// AlternativeValue is `${v:+alt}`.
type AlternativeValue struct {
	ExprBase
	Var string
	Alt Expr
}

// StringLength is `${#v}`.
type StringLength struct {
	ExprBase
	Var string
}

// RemovePrefix is `${v#pattern}`.
type RemovePrefix struct {
	ExprBase
	Var     string
	Pattern string
}

// RemoveLongestPrefix is `${v##pattern}`.
type RemoveLongestPrefix struct {
	ExprBase
	Var     string
	Pattern string
}

// RemoveSuffix is `${v%pattern}`.
type RemoveSuffix struct {
	ExprBase
	Var     string
	Pattern string
}

// RemoveLongestSuffix is `${v%%pattern}`.
type RemoveLongestSuffix struct {
	ExprBase
	Var     string
	Pattern string
}

// Test wraps a parsed `[ ... ]` / `[[ ... ]]` test expression so it can
// appear as an ordinary expression (e.g. as an If/While condition operand
// or a standalone command argument).
type Test struct {
	ExprBase
	Expr    TestExpr
	Extended bool // true for [[ ]], false for [ ]
}
