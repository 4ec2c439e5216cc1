package ast

// TestExpr is the sum type produced by parsing `[ ... ]` and `[[ ... ]]`
// test expressions: string/int comparisons, file predicates, and logical
// connectives. Inside `[ ]`, "-a"/"-o" parse to And/Or; inside `[[ ]]`,
// "&&"/"||" parse to the same nodes — the distinction is emitter-only via
// Test.Extended.
type TestExpr interface {
	bashTest()
}

// UnaryFileTest is a file predicate like `-f path`, `-d path`, `-z str`.
// Op is the bare flag ("-f", "-d", "-e", "-x", "-r", "-w", "-s", "-z",
// "-n", "-L", ...).
type UnaryFileTest struct {
	Op      string
	Operand Expr
}

// StringComparison is `a = b`, `a != b`, `a < b`, `a > b` (lexicographic).
type StringComparison struct {
	Op    string
	Left  Expr
	Right Expr
}

// IntComparison is `a -eq b`, `a -ne b`, `a -lt b`, `a -le b`, `a -gt b`,
// `a -ge b`.
type IntComparison struct {
	Op    string
	Left  Expr
	Right Expr
}

// Not is `! expr`.
type Not struct {
	Expr TestExpr
}

// And is `expr -a expr` ([ ]) or `expr && expr` ([[ ]]).
type And struct {
	Left  TestExpr
	Right TestExpr
}

// Or is `expr -o expr` ([ ]) or `expr || expr` ([[ ]]).
type Or struct {
	Left  TestExpr
	Right TestExpr
}

// Paren is a parenthesized sub-expression, `( expr )`, preserved so the
// emitter can round-trip explicit grouping.
type Paren struct {
	Expr TestExpr
}

func (UnaryFileTest) bashTest()     {}
func (StringComparison) bashTest()  {}
func (IntComparison) bashTest()     {}
func (Not) bashTest()               {}
func (And) bashTest()               {}
func (Or) bashTest()                {}
func (Paren) bashTest()             {}
