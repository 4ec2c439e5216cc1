package rules

import (
	"regexp"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/lint"
)

var mkdirPattern = regexp.MustCompile(`\bmkdir\b[^\n]*`)

// IDEM001 is the lint-level counterpart of the purifier's mkdir -p fix, so
// `lint_shell` alone (without running the purifier) surfaces it too.
var IDEM001 = lint.Rule{Code: "IDEM001", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := mkdirPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		call := line[loc[0]:loc[1]]
		if strings.Contains(call, "-p") {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "IDEM001",
			Severity: diag.Warning,
			Message:  "mkdir should use -p so re-running the script does not fail if the directory already exists",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}

var rmPattern = regexp.MustCompile(`\brm\b[^\n]*`)

// IDEM002 is the lint-level counterpart of the purifier's rm -f fix.
var IDEM002 = lint.Rule{Code: "IDEM002", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := rmPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		call := line[loc[0]:loc[1]]
		if strings.Contains(call, "-f") {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "IDEM002",
			Severity: diag.Warning,
			Message:  "rm should use -f so re-running the script does not fail if the target is already gone",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}

var lnPattern = regexp.MustCompile(`\bln\b[^\n]*`)

// IDEM003 flags `ln` without one of the idempotent flag combinations.
// `-sfn` is already idempotent and must never be flagged here.
var IDEM003 = lint.Rule{Code: "IDEM003", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := lnPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		call := line[loc[0]:loc[1]]
		if strings.Contains(call, "-sfn") || strings.Contains(call, "-sf") || strings.Contains(call, "-f") {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "IDEM003",
			Severity: diag.Warning,
			Message:  "ln should use -sf (or -sfn for a directory target) so re-running the script does not fail if the link already exists",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}
