package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/lint/rules"
)

func TestIDEM001_FlagsMkdirWithoutDashP(t *testing.T) {
	diags := rules.IDEM001.Check("mkdir /tmp/out\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "IDEM001", diags[0].Code)
}

func TestIDEM001_IgnoresMkdirWithDashP(t *testing.T) {
	diags := rules.IDEM001.Check("mkdir -p /tmp/out\n", nil)
	assert.Empty(t, diags)
}

func TestIDEM002_FlagsRmWithoutDashF(t *testing.T) {
	diags := rules.IDEM002.Check("rm /tmp/out\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "IDEM002", diags[0].Code)
}

func TestIDEM002_IgnoresRmWithDashF(t *testing.T) {
	diags := rules.IDEM002.Check("rm -f /tmp/out\n", nil)
	assert.Empty(t, diags)
}

func TestIDEM003_FlagsLnWithoutIdempotentFlags(t *testing.T) {
	diags := rules.IDEM003.Check("ln -s /a /b\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "IDEM003", diags[0].Code)
}

func TestIDEM003_IgnoresLnWithDashSF(t *testing.T) {
	diags := rules.IDEM003.Check("ln -sf /a /b\n", nil)
	assert.Empty(t, diags)
}

func TestIDEM003_IgnoresLnWithDashSFN(t *testing.T) {
	diags := rules.IDEM003.Check("ln -sfn /a /b\n", nil)
	assert.Empty(t, diags)
}
