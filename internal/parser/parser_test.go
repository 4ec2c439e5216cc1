package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/ast"
)

func TestParse_SimpleCommand(t *testing.T) {
	got, err := Parse("echo hello world\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	assert.Equal(t, "echo", cmd.Name)
	require.Len(t, cmd.Args, 2)
}

func TestParse_Assignment(t *testing.T) {
	got, err := Parse("FOO=bar\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	a, ok := got.Stmts[0].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "FOO", a.Name)
	lit, ok := a.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "bar", lit.Value)
}

func TestParse_Pipeline(t *testing.T) {
	got, err := Parse("cat file | grep foo | wc -l\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	pipe, ok := got.Stmts[0].(*ast.Pipeline)
	require.True(t, ok)
	assert.Len(t, pipe.Commands, 3)
}

func TestParse_BoolChain(t *testing.T) {
	got, err := Parse("make build && make test\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	chain, ok := got.Stmts[0].(*ast.BoolChain)
	require.True(t, ok)
	assert.Equal(t, "&&", chain.Operator)
}

func TestParse_UntilLoop(t *testing.T) {
	got, err := Parse("until [ $i -gt 5 ]; do echo $i; done\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	u, ok := got.Stmts[0].(*ast.Until)
	require.True(t, ok)
	require.Len(t, u.Condition, 1)
	require.Len(t, u.Body, 1)
}

func TestParse_ForWithMultipleItems(t *testing.T) {
	got, err := Parse("for i in 1 2 3; do echo $i; done\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	f, ok := got.Stmts[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", f.Variable)
	arr, ok := f.Items.(*ast.Array)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)
}

func TestParse_ForCStyle(t *testing.T) {
	got, err := Parse("for ((i=0; i<10; i++)); do echo $i; done\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	f, ok := got.Stmts[0].(*ast.ForCStyle)
	require.True(t, ok)
	assert.Equal(t, "i=0", f.Init)
	assert.Equal(t, "i<10", f.Cond)
	assert.Equal(t, "i++", f.Incr)
}

func TestParse_IfElifElse(t *testing.T) {
	src := "if [ -f a ]; then\n  echo a\nelif [ -f b ]; then\n  echo b\nelse\n  echo c\nfi\n"
	got, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, got.Stmts, 1)
	ifStmt, ok := got.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.ElifArms, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParse_CaseWithTerminators(t *testing.T) {
	src := "case $x in\n  a) echo a ;;\n  b) echo b ;&\n  c) echo c ;;&\n  *) echo d ;;\nesac\n"
	got, err := Parse(src)
	require.NoError(t, err)
	c, ok := got.Stmts[0].(*ast.Case)
	require.True(t, ok)
	require.Len(t, c.Arms, 4)
	assert.Equal(t, ";;", c.Arms[0].Terminator)
	assert.Equal(t, ";&", c.Arms[1].Terminator)
	assert.Equal(t, ";;&", c.Arms[2].Terminator)
}

func TestParse_FunctionBothForms(t *testing.T) {
	got, err := Parse("function f {\n  echo hi\n}\ng() {\n  echo bye\n}\n")
	require.NoError(t, err)
	require.Len(t, got.Stmts, 2)
	f1, ok := got.Stmts[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "f", f1.Name)
	f2, ok := got.Stmts[1].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "g", f2.Name)
}

func TestParse_QuotedVariableArgument(t *testing.T) {
	got, err := Parse(`cp "$USER_FILE" /dest/` + "\n")
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	assert.Equal(t, "cp", cmd.Name)
	require.Len(t, cmd.Args, 2)
}

func TestParse_ExtendedTestWithGlobComparison(t *testing.T) {
	got, err := Parse(`if [[ "$USER_FILE" == *".."* ]]; then exit 1; fi` + "\n")
	require.NoError(t, err)
	ifStmt, ok := got.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Condition, 1)
	testCmd, ok := ifStmt.Condition[0].(*ast.Command)
	require.True(t, ok)
	assert.Equal(t, "[[", testCmd.Name)
	require.Len(t, testCmd.Args, 1)
	testExpr, ok := testCmd.Args[0].(*ast.Test)
	require.True(t, ok)
	cmp, ok := testExpr.Expr.(ast.StringComparison)
	require.True(t, ok)
	assert.Equal(t, "==", cmp.Op)
}

func TestParse_RedirectWithFd(t *testing.T) {
	got, err := Parse("cmd 2>&1\n")
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	require.Len(t, cmd.Redirects, 1)
	assert.Equal(t, 2, cmd.Redirects[0].Fd)
	assert.Equal(t, ast.RedirectDupOut, cmd.Redirects[0].Direction)
}

func TestParse_Heredoc(t *testing.T) {
	src := "cat <<EOF\nhello\nworld\nEOF\n"
	got, err := Parse(src)
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	require.Len(t, cmd.Redirects, 1)
	assert.Equal(t, "hello\nworld\n", cmd.Redirects[0].Body)
}

func TestParse_MkdirIdempotencyTargetable(t *testing.T) {
	got, err := Parse("mkdir /tmp/x\n")
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	assert.Equal(t, "mkdir", cmd.Name)
	require.Len(t, cmd.Args, 1)
}

func TestParse_RandomVariableRoundTrips(t *testing.T) {
	got, err := Parse("echo $RANDOM\n")
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	v, ok := cmd.Args[0].(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "RANDOM", v.Name)
}

func TestParse_ParameterExpansionVariants(t *testing.T) {
	got, err := Parse(`echo "${name:-default}" "${path##*/}"` + "\n")
	require.NoError(t, err)
	cmd, ok := got.Stmts[0].(*ast.Command)
	require.True(t, ok)
	require.Len(t, cmd.Args, 2)
	dv, ok := cmd.Args[0].(*ast.DefaultValue)
	require.True(t, ok)
	assert.Equal(t, "name", dv.Var)
	rp, ok := cmd.Args[1].(*ast.RemoveLongestPrefix)
	require.True(t, ok)
	assert.Equal(t, "path", rp.Var)
	assert.Equal(t, "*/", rp.Pattern)
}

func TestParse_CommandSubstitutionNested(t *testing.T) {
	got, err := Parse("x=$(echo $(echo inner))\n")
	require.NoError(t, err)
	a, ok := got.Stmts[0].(*ast.Assignment)
	require.True(t, ok)
	cs, ok := a.Value.(*ast.CommandSubst)
	require.True(t, ok)
	assert.False(t, cs.Backtick)
	require.Len(t, cs.Body, 1)
}

func TestParse_BacktickFlaggedDistinctly(t *testing.T) {
	got, err := Parse("x=`echo hi`\n")
	require.NoError(t, err)
	a, ok := got.Stmts[0].(*ast.Assignment)
	require.True(t, ok)
	cs, ok := a.Value.(*ast.CommandSubst)
	require.True(t, ok)
	assert.True(t, cs.Backtick)
}

func TestParse_PipelineInvariantAtLeastTwoCommands(t *testing.T) {
	got, err := Parse("echo hi\n")
	require.NoError(t, err)
	_, isPipeline := got.Stmts[0].(*ast.Pipeline)
	assert.False(t, isPipeline, "a single command must not be wrapped in a Pipeline")
}

func TestParse_InvalidSyntaxReturnsError(t *testing.T) {
	_, err := Parse("if true; then echo hi\n")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
}
