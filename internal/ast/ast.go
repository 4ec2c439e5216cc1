// Package ast defines the bash abstract syntax tree shared by the parser,
// taint checker, purifier and emitter. The tree is pure: nodes are owned
// exclusively by their parent, there are no parent pointers, and every
// transformation (the purifier) builds a new tree rather than mutating one
// in place.
package ast

import "github.com/shpurify/shpurify/internal/span"

// Ast is the parsed representation of one bash source file.
type Ast struct {
	File  string
	Stmts []Stmt

	// LineCount and ParseTimeNanos are metadata the parser fills in for
	// callers that want to report on a parse without re-scanning the
	// source (e.g. a batch runner emitting per-file timing).
	LineCount      int
	ParseTimeNanos int64
}

// Stmt is the sum type of bash statements. Every concrete type embeds
// StmtBase, giving it a Span and satisfying the bashStmt marker method.
type Stmt interface {
	Span() span.Span
	bashStmt()
}

// StmtBase carries the span common to all statement variants.
type StmtBase struct {
	Sp span.Span
}

func (b StmtBase) Span() span.Span { return b.Sp }
func (StmtBase) bashStmt()         {}

// Command is a simple command: a name, its arguments, and any attached
// redirections. trap is represented as an ordinary Command with name
// "trap" — the purifier and lint rules special-case it by name the same
// way bash itself treats it as a builtin rather than syntax.
type Command struct {
	StmtBase
	Name      string
	Args      []Expr
	Redirects []Redirect
}

// Assignment is a `name=value` (optionally `name[index]=value`) statement.
// Local marks a `local name=value` declaration inside a function body;
// Exported marks `export name=value`.
type Assignment struct {
	StmtBase
	Name     string
	Index    Expr
	Value    Expr
	Exported bool
	Local    bool
}

// Function is a named function definition, `name() { body }` or
// `function name { body }`.
type Function struct {
	StmtBase
	Name string
	Body []Stmt
}

// If is an if/elif*/else compound command.
type If struct {
	StmtBase
	Condition []Stmt
	Then      []Stmt
	ElifArms  []ElifArm
	Else      []Stmt
	Redirects []Redirect
}

// ElifArm is one `elif condition; then body` clause.
type ElifArm struct {
	Condition []Stmt
	Body      []Stmt
}

// While is a `while condition; do body; done` compound command.
type While struct {
	StmtBase
	Condition []Stmt
	Body      []Stmt
	Redirects []Redirect
}

// Until is a `until condition; do body; done` compound command. The
// parser preserves it verbatim; the purifier lowers it to While{Not(cond)}.
type Until struct {
	StmtBase
	Condition []Stmt
	Body      []Stmt
	Redirects []Redirect
}

// For is a `for variable in items; do body; done` loop. Items holds a
// single Expr, or an Array expression when more than one item was parsed.
type For struct {
	StmtBase
	Variable  string
	Items     Expr
	Body      []Stmt
	Redirects []Redirect
}

// ForCStyle is a `for ((init; cond; incr)); do body; done` loop. The three
// clauses are kept as raw, lexer-preserved text; the purifier parses each
// through the expression grammar when lowering to While.
type ForCStyle struct {
	StmtBase
	Init      string
	Cond      string
	Incr      string
	Body      []Stmt
	Redirects []Redirect
}

// Select is a bash-only `select variable in items; do body; done`
// construct. The purifier either rejects it (strict mode) or rewrites it
// to a numbered case+read loop.
type Select struct {
	StmtBase
	Variable  string
	Items     Expr
	Body      []Stmt
	Redirects []Redirect
}

// CaseArm is one `pattern[|pattern...]) body ;;` arm of a Case statement.
// Terminator is one of ";;", ";&", ";;&" as parsed; the emitter always
// writes ";;".
type CaseArm struct {
	Patterns   []string
	Body       []Stmt
	Terminator string
}

// Case is a `case word in arms... esac` compound command.
type Case struct {
	StmtBase
	Word      Expr
	Arms      []CaseArm
	Redirects []Redirect
}

// Pipeline chains two or more commands with "|". Commands.len() >= 2 is
// an invariant enforced by the parser.
type Pipeline struct {
	StmtBase
	Commands []Stmt
	Negated  bool // leading "!"
}

// BoolChain represents a left-associative "&&"/"||" boolean chain between
// two statements. The emitter reproduces the original operator.
type BoolChain struct {
	StmtBase
	Left     Stmt
	Operator string // "&&" or "||"
	Right    Stmt
}

// BraceGroup is `{ body; }` (Subshell=false) or `( body )` (Subshell=true).
type BraceGroup struct {
	StmtBase
	Body      []Stmt
	Subshell  bool
	Redirects []Redirect
}

// Coproc is a `coproc [name] body` compound command.
type Coproc struct {
	StmtBase
	Name string
	Body []Stmt
}

// Return is a `return [code]` statement. Code is nil when no exit code
// expression was given.
type Return struct {
	StmtBase
	Code Expr
}

// Comment is a standalone comment line retained for round-tripping.
// Comments beginning with "!" (shebang-like) are dropped by the emitter to
// preserve idempotency of re-purification.
type Comment struct {
	StmtBase
	Text string
}

// Each concrete statement type above embeds StmtBase by value, which
// promotes Span() and the bashStmt() marker method to *T for every T,
// satisfying Stmt without restating the method per type.
