package makefile_test

import (
	"os"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/makefile"
)

type goldenFixture struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

type goldenFile struct {
	Fixtures []goldenFixture `toml:"fixtures"`
}

func loadGolden(t *testing.T) []goldenFixture {
	t.Helper()
	data, err := os.ReadFile("testdata/golden.toml")
	require.NoError(t, err)
	var gf goldenFile
	require.NoError(t, toml.Unmarshal(data, &gf))
	require.NotEmpty(t, gf.Fixtures)
	return gf.Fixtures
}

// TestGolden_ParseThenGenerateIsIdempotent checks that re-parsing a
// fixture's generated output and generating it again produces byte-
// identical text: Generate(Parse(src)) == Generate(Parse(Generate(Parse(src)))).
func TestGolden_ParseThenGenerateIsIdempotent(t *testing.T) {
	for _, fx := range loadGolden(t) {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			items, err := makefile.Parse(fx.Source)
			require.NoError(t, err)

			first := makefile.Generate(items, makefile.GenOptions{})

			reparsed, err := makefile.Parse(first)
			require.NoError(t, err)
			second := makefile.Generate(reparsed, makefile.GenOptions{})

			require.Equal(t, first, second, "re-generation after a reparse must be byte-identical")
		})
	}
}

func TestGolden_PhonyTargetsConsolidateIntoSingleDeclaration(t *testing.T) {
	for _, fx := range loadGolden(t) {
		if fx.Name != "phony_targets" {
			continue
		}
		items, err := makefile.Parse(fx.Source)
		require.NoError(t, err)
		out := makefile.Generate(items, makefile.GenOptions{})
		require.Contains(t, out, ".PHONY: build test")
		return
	}
	t.Fatal("phony_targets fixture not found")
}
