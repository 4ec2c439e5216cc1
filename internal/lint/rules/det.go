package rules

import (
	"regexp"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/lint"
)

var dateAssignPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*=\$\(\s*date\b[^)]*\)`)

// DET002 flags a `$(date ...)` assignment, the lint-level counterpart of
// the purifier's own date-call rewrite: a script that is only linted
// (never purified) should still see the determinism hazard.
var DET002 = lint.Rule{Code: "DET002", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := dateAssignPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "DET002",
			Severity: diag.Warning,
			Message:  "timestamp from $(date ...) is non-deterministic; inject it via an argument or environment variable instead",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}
