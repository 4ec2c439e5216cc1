package makefile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/makefile"
)

func TestParse_SimpleVariableAssignment(t *testing.T) {
	items, err := makefile.Parse("CC := gcc\n")
	require.NoError(t, err)
	require.Len(t, items, 1)
	v, ok := items[0].(makefile.Variable)
	require.True(t, ok)
	assert.Equal(t, "CC", v.Name)
	assert.Equal(t, "gcc", v.Value)
	assert.Equal(t, makefile.Simple, v.Flavor)
}

func TestParse_TargetWithRecipe(t *testing.T) {
	src := "build:\n\tgo build ./...\n"
	items, err := makefile.Parse(src)
	require.NoError(t, err)
	require.Len(t, items, 1)
	target, ok := items[0].(makefile.Target)
	require.True(t, ok)
	assert.Equal(t, "build", target.Name)
	assert.Equal(t, []string{"go build ./..."}, target.Recipe)
}

func TestParse_TargetWithPrerequisites(t *testing.T) {
	src := "all: build test\n\techo done\n"
	items, err := makefile.Parse(src)
	require.NoError(t, err)
	target := items[0].(makefile.Target)
	assert.Equal(t, []string{"build", "test"}, target.Prerequisites)
}

func TestParse_RejectsOrphanRecipeLine(t *testing.T) {
	_, err := makefile.Parse("\techo orphan\n")
	assert.Error(t, err)
}

func TestParse_IncludeDirective(t *testing.T) {
	items, err := makefile.Parse("include common.mk\n")
	require.NoError(t, err)
	inc, ok := items[0].(makefile.Include)
	require.True(t, ok)
	assert.Equal(t, "common.mk", inc.Path)
	assert.False(t, inc.Optional)
}

func TestParse_OptionalInclude(t *testing.T) {
	items, err := makefile.Parse("-include optional.mk\n")
	require.NoError(t, err)
	inc := items[0].(makefile.Include)
	assert.True(t, inc.Optional)
}

func TestParse_Conditional(t *testing.T) {
	src := "ifeq ($(OS),Linux)\nFOO := bar\nendif\n"
	items, err := makefile.Parse(src)
	require.NoError(t, err)
	require.Len(t, items, 1)
	cond, ok := items[0].(*makefile.Conditional)
	require.True(t, ok)
	assert.Equal(t, makefile.IfEq, cond.Kind)
	require.Len(t, cond.Then, 1)
}

func TestParse_UnterminatedConditionalErrors(t *testing.T) {
	_, err := makefile.Parse("ifeq ($(OS),Linux)\nFOO := bar\n")
	assert.Error(t, err)
}

func TestGenerate_ConsolidatesPhonyTargets(t *testing.T) {
	items := []makefile.Item{
		makefile.Target{Name: "build", Phony: true, Recipe: []string{"go build ./..."}},
		makefile.Target{Name: "test", Phony: true, Recipe: []string{"go test ./..."}},
	}
	out := makefile.Generate(items, makefile.GenOptions{})
	assert.Contains(t, out, ".PHONY: build test")
}

func TestGenerate_RoundTripsSimpleMakefile(t *testing.T) {
	src := "build:\n\tgo build ./...\n"
	items, err := makefile.Parse(src)
	require.NoError(t, err)
	out := makefile.Generate(items, makefile.GenOptions{})
	assert.Contains(t, out, "build:")
	assert.Contains(t, out, "\tgo build ./...")
}
