package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/span"
)

func TestStmtVariantsSatisfyStmt(t *testing.T) {
	var stmts []Stmt
	stmts = append(stmts,
		&Command{StmtBase: StmtBase{Sp: span.Point(1, 1)}, Name: "echo"},
		&Assignment{StmtBase: StmtBase{Sp: span.Dummy()}, Name: "x"},
		&Function{StmtBase: StmtBase{Sp: span.Dummy()}, Name: "f"},
		&If{StmtBase: StmtBase{Sp: span.Dummy()}},
		&While{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Until{StmtBase: StmtBase{Sp: span.Dummy()}},
		&For{StmtBase: StmtBase{Sp: span.Dummy()}},
		&ForCStyle{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Select{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Case{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Pipeline{StmtBase: StmtBase{Sp: span.Dummy()}, Commands: []Stmt{
			&Command{Name: "a"}, &Command{Name: "b"},
		}},
		&BoolChain{StmtBase: StmtBase{Sp: span.Dummy()}},
		&BraceGroup{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Coproc{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Return{StmtBase: StmtBase{Sp: span.Dummy()}},
		&Comment{StmtBase: StmtBase{Sp: span.Dummy()}, Text: "# hi"},
	)
	require.Len(t, stmts, 16)
	assert.Equal(t, span.Point(1, 1), stmts[0].Span())
}

func TestPipelineInvariantCommandsAtLeastTwo(t *testing.T) {
	p := &Pipeline{Commands: []Stmt{&Command{Name: "a"}, &Command{Name: "b"}}}
	assert.GreaterOrEqual(t, len(p.Commands), 2)
}

func TestExprVariantsSatisfyExpr(t *testing.T) {
	var exprs []Expr
	exprs = append(exprs,
		&Literal{Value: "x"},
		&Variable{Name: "x"},
		&Glob{Pattern: "*.sh"},
		&Array{Elements: []Expr{&Literal{Value: "a"}}},
		&Concat{Parts: []Expr{&Literal{Value: "a"}}},
		&CommandSubst{Raw: "echo hi"},
		&Arithmetic{Expr: Number{Value: 1}},
		&DefaultValue{Var: "v", Default: &Literal{Value: "d"}},
		&AssignDefault{Var: "v"},
		&ErrorIfUnset{Var: "v"},
		&AlternativeValue{Var: "v"},
		&StringLength{Var: "v"},
		&RemovePrefix{Var: "v", Pattern: "p"},
		&RemoveLongestPrefix{Var: "v", Pattern: "p"},
		&RemoveSuffix{Var: "v", Pattern: "p"},
		&RemoveLongestSuffix{Var: "v", Pattern: "p"},
		&Test{Expr: UnaryFileTest{Op: "-f", Operand: &Literal{Value: "x"}}},
	)
	require.Len(t, exprs, 17)
}

func TestParameterExpansionVariableNameHasNoSigil(t *testing.T) {
	d := &DefaultValue{Var: "HOME", Default: &Literal{Value: "/root"}}
	assert.NotContains(t, d.Var, "$")
	assert.NotContains(t, d.Var, "{")
}

func TestArithExprVariants(t *testing.T) {
	var exprs []ArithExpr
	exprs = append(exprs,
		Number{Value: 5},
		ArithVariable{Name: "i"},
		BinaryOp{Op: "+", Left: Number{Value: 1}, Right: Number{Value: 2}},
		Assign{Name: "i", Op: "=", Expr: Number{Value: 0}},
		Sequence{Items: []ArithExpr{Number{Value: 1}, Number{Value: 2}}},
	)
	require.Len(t, exprs, 5)
}

func TestTestExprVariants(t *testing.T) {
	var exprs []TestExpr
	exprs = append(exprs,
		UnaryFileTest{Op: "-f", Operand: &Literal{Value: "x"}},
		StringComparison{Op: "=", Left: &Literal{Value: "a"}, Right: &Literal{Value: "b"}},
		IntComparison{Op: "-eq", Left: &Literal{Value: "1"}, Right: &Literal{Value: "2"}},
		Not{Expr: UnaryFileTest{Op: "-z", Operand: &Literal{Value: "x"}}},
		And{Left: UnaryFileTest{Op: "-f", Operand: &Literal{Value: "x"}}, Right: UnaryFileTest{Op: "-d", Operand: &Literal{Value: "y"}}},
		Or{Left: UnaryFileTest{Op: "-f", Operand: &Literal{Value: "x"}}, Right: UnaryFileTest{Op: "-d", Operand: &Literal{Value: "y"}}},
		Paren{Expr: UnaryFileTest{Op: "-f", Operand: &Literal{Value: "x"}}},
	)
	require.Len(t, exprs, 7)
}

func TestRedirectDirectionConstants(t *testing.T) {
	assert.Equal(t, RedirectDirection("<<-"), RedirectHeredocTab)
	assert.Equal(t, RedirectDirection("&>>"), RedirectAllAppend)
}
