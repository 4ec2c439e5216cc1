package taint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInjectionSafety_TaintedUnquotedIsUnsafe(t *testing.T) {
	c := NewTypeChecker()
	c.RegisterVariable("user_input", Type{Kind: String, Taint: Tainted})

	require.NoError(t, c.CheckInjectionSafety("user_input", true))

	err := c.CheckInjectionSafety("user_input", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injection risk")
}

func TestSanitize_StringTaintedBecomesSanitized(t *testing.T) {
	tainted := Type{Kind: String, Taint: Tainted}
	got := tainted.Sanitize()
	assert.Equal(t, Type{Kind: String, Taint: Sanitized}, got)
}

func TestSanitize_IsIdempotent(t *testing.T) {
	tainted := Type{Kind: Path, Taint: Tainted}
	once := tainted.Sanitize()
	twice := once.Sanitize()
	assert.Equal(t, once, twice)
}

func TestSanitize_IntIsNoop(t *testing.T) {
	tainted := Type{Kind: Int, Taint: Tainted}
	assert.Equal(t, tainted, tainted.Sanitize())
}

func TestCheckInjectionSafety_SafeAlwaysAllowed(t *testing.T) {
	c := NewTypeChecker()
	c.RegisterVariable("safe_var", Type{Kind: String, Taint: Safe})
	assert.NoError(t, c.CheckInjectionSafety("safe_var", true))
	assert.NoError(t, c.CheckInjectionSafety("safe_var", false))
}

func TestCheckInjectionSafety_SanitizedAlwaysAllowed(t *testing.T) {
	c := NewTypeChecker()
	c.RegisterVariable("sanitized_var", Type{Kind: String, Taint: Sanitized})
	assert.NoError(t, c.CheckInjectionSafety("sanitized_var", true))
	assert.NoError(t, c.CheckInjectionSafety("sanitized_var", false))
}

func TestCheckInjectionSafety_TaintedCommandAlwaysUnsafe(t *testing.T) {
	c := NewTypeChecker()
	c.RegisterVariable("tainted_cmd", Type{Kind: Command, Taint: Tainted})
	assert.Error(t, c.CheckInjectionSafety("tainted_cmd", true))
	assert.Error(t, c.CheckInjectionSafety("tainted_cmd", false))
}

func TestCheckInjectionSafety_UnknownVariableErrors(t *testing.T) {
	c := NewTypeChecker()
	err := c.CheckInjectionSafety("unknown_var", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in scope")
}

func TestIsCommandSafe(t *testing.T) {
	assert.True(t, Type{Kind: Command, Taint: Safe}.IsCommandSafe())
	assert.False(t, Type{Kind: Command, Taint: Tainted}.IsCommandSafe())
	assert.True(t, Type{Kind: String, Taint: Safe}.IsCommandSafe())
	assert.False(t, Type{Kind: String, Taint: Tainted}.IsCommandSafe())
}

func TestIsPathSafe(t *testing.T) {
	assert.True(t, Type{Kind: Path, Taint: Safe}.IsPathSafe())
	assert.False(t, Type{Kind: Path, Taint: Tainted}.IsPathSafe())
	assert.True(t, Type{Kind: Path, Taint: Sanitized}.IsPathSafe())
}

func TestGetType_ReturnsFalseWhenUnregistered(t *testing.T) {
	c := NewTypeChecker()
	_, ok := c.GetType("nope")
	assert.False(t, ok)
}
