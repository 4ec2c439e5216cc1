package taint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/parser"
)

func TestPrescanTaint_PositionalParameterIsTainted(t *testing.T) {
	tree, err := parser.Parse("echo $1\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("1")
	require.True(t, ok)
	assert.Equal(t, Tainted, typ.Taint)
}

func TestPrescanTaint_ReadVariableIsTainted(t *testing.T) {
	tree, err := parser.Parse("read name\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("name")
	require.True(t, ok)
	assert.Equal(t, Tainted, typ.Taint)
}

func TestPrescanTaint_CommandSubstOfUnknownHeadIsTainted(t *testing.T) {
	tree, err := parser.Parse("x=$(curl http://example.com)\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("x")
	require.True(t, ok)
	assert.Equal(t, Tainted, typ.Taint)
}

func TestPrescanTaint_CommandSubstOfSafeHeadIsSafe(t *testing.T) {
	tree, err := parser.Parse("x=$(pwd)\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("x")
	require.True(t, ok)
	assert.Equal(t, Safe, typ.Taint)
}

func TestPrescanTaint_PlainLiteralAssignmentIsSafe(t *testing.T) {
	tree, err := parser.Parse("x=literal\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("x")
	require.True(t, ok)
	assert.Equal(t, Safe, typ.Taint)
}

func TestPrescanTaint_ForLoopVariableIsSafe(t *testing.T) {
	tree, err := parser.Parse("for i in 1 2 3; do echo $i; done\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("i")
	require.True(t, ok)
	assert.Equal(t, Safe, typ.Taint)
}

func TestPrescanTaint_NestedReadInsideIf(t *testing.T) {
	tree, err := parser.Parse("if true; then read password; fi\n")
	require.NoError(t, err)
	c := PrescanTaint(tree)
	typ, ok := c.GetType("password")
	require.True(t, ok)
	assert.Equal(t, Tainted, typ.Taint)
}
