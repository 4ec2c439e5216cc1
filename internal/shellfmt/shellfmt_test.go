package shellfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/shellfmt"
)

func TestFormat_ReprintsValidScript(t *testing.T) {
	out, err := shellfmt.Format("echo    hello\n")
	require.NoError(t, err)
	assert.Contains(t, out, "echo hello")
}

func TestFormat_RejectsUnparsableInput(t *testing.T) {
	_, err := shellfmt.Format("if then\n")
	assert.Error(t, err)
}

func TestCanParse_AcceptsBashExtendedTest(t *testing.T) {
	assert.True(t, shellfmt.CanParse("[[ -f /etc/passwd ]] && echo yes\n"))
}
