package report

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between original and purified script text,
// for the `check`/`build --diff` CLI paths and for the idempotence test
// helpers (comparing emit(purify(A)) against emit(purify(purify(A)))).
func Diff(path, original, purified string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(purified),
		FromFile: path + " (original)",
		ToFile:   path + " (purified)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", err
	}
	return indent(text), nil
}
