// Package rules implements the concrete lint rule catalog: pure functions
// over (source, ast) producing diag.Diagnostic, grounded in the original
// implementation's rule descriptions and mined test fixtures, using the
// regexp-pattern idiom shown elsewhere in the retrieval pack's command
// whitelist for matching shell constructs by line.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/lint"
	"github.com/shpurify/shpurify/internal/span"
)

func forEachLine(source string, f func(lineNum int, line string)) {
	for i, l := range strings.Split(source, "\n") {
		f(i+1, l)
	}
}

func lineSpan(lineNum int, startCol, endCol int) span.Span {
	return span.New(lineNum, startCol, lineNum, endCol)
}

var assignmentPattern = regexp.MustCompile(`^\s*[A-Za-z_][A-Za-z0-9_]*=`)
var backtickPattern = regexp.MustCompile("`[^`]*`")

// SC2006 flags backtick command substitution outside of an assignment
// (assignments like `result=\`date\`` are left to the purifier, which
// rewrites command substitution uniformly during purification).
var SC2006 = lint.Rule{Code: "SC2006", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		if assignmentPattern.MatchString(line) {
			return
		}
		for _, loc := range backtickPattern.FindAllStringIndex(line, -1) {
			inner := line[loc[0]+1 : loc[1]-1]
			out = append(out, diag.Diagnostic{
				Code:     "SC2006",
				Severity: diag.Warning,
				Message:  "use $(...) instead of backticks for command substitution",
				Span:     lineSpan(n, loc[0]+1, loc[1]+1),
				Fix: &diag.Fix{
					Span:        lineSpan(n, 1, len(line)+1),
					Replacement: line[:loc[0]] + "$(" + inner + ")" + line[loc[1]:],
				},
			})
		}
	})
	return out
}}

// unquotedVarPattern matches a bare $name or ${name} reference that is not
// immediately preceded by a double quote (a rough but effective proxy for
// "inside double quotes", matching shellcheck's own SC2086 heuristic).
var unquotedVarPattern = regexp.MustCompile(`\$\{?[A-Za-z_][A-Za-z0-9_]*\}?`)

// SC2086 flags a variable expansion that is not wrapped in double quotes.
var SC2086 = lint.Rule{Code: "SC2086", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return
		}
		for _, loc := range unquotedVarPattern.FindAllStringIndex(line, -1) {
			if loc[0] > 0 && line[loc[0]-1] == '"' {
				continue
			}
			if loc[1] < len(line) && line[loc[1]] == '"' {
				continue
			}
			if insideSingleQuotes(line, loc[0]) {
				continue
			}
			match := line[loc[0]:loc[1]]
			out = append(out, diag.Diagnostic{
				Code:     "SC2086",
				Severity: diag.Warning,
				Message:  fmt.Sprintf("double quote %s to prevent globbing and word splitting", match),
				Span:     lineSpan(n, loc[0]+1, loc[1]+1),
				Fix: &diag.Fix{
					Span:        lineSpan(n, 1, len(line)+1),
					Replacement: line[:loc[0]] + `"` + match + `"` + line[loc[1]:],
				},
			})
		}
	})
	return out
}}

func insideSingleQuotes(line string, pos int) bool {
	open := false
	for i := 0; i < pos && i < len(line); i++ {
		if line[i] == '\'' {
			open = !open
		}
	}
	return open
}

var uselessCatPattern = regexp.MustCompile(`\bcat\s+(\S+)\s*\|\s*(.+)$`)

// SC2002 flags `cat file | cmd`, redundant versus `cmd < file`.
var SC2002 = lint.Rule{Code: "SC2002", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		m := uselessCatPattern.FindStringSubmatchIndex(line)
		if m == nil {
			return
		}
		file := line[m[2]:m[3]]
		rest := line[m[4]:m[5]]
		out = append(out, diag.Diagnostic{
			Code:     "SC2002",
			Severity: diag.Warning,
			Message:  "useless use of cat; redirect the file into the next command instead",
			Span:     lineSpan(n, m[0]+1, m[1]+1),
			Fix: &diag.Fix{
				Span:        lineSpan(n, 1, len(line)+1),
				Replacement: line[:m[0]] + rest + " < " + file,
			},
		})
	})
	return out
}}

var unquotedSubstPattern = regexp.MustCompile(`\$\([^)]*\)`)

// SC2046 flags an unquoted `$(...)` command substitution, the same
// word-splitting hazard as SC2086 but for command substitution instead of
// a bare variable.
var SC2046 = lint.Rule{Code: "SC2046", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		for _, loc := range unquotedSubstPattern.FindAllStringIndex(line, -1) {
			if loc[0] > 0 && line[loc[0]-1] == '"' {
				continue
			}
			if loc[1] < len(line) && line[loc[1]] == '"' {
				continue
			}
			match := line[loc[0]:loc[1]]
			out = append(out, diag.Diagnostic{
				Code:     "SC2046",
				Severity: diag.Warning,
				Message:  "quote the command substitution to prevent word splitting",
				Span:     lineSpan(n, loc[0]+1, loc[1]+1),
				Fix: &diag.Fix{
					Span:        lineSpan(n, 1, len(line)+1),
					Replacement: line[:loc[0]] + `"` + match + `"` + line[loc[1]:],
				},
			})
		}
	})
	return out
}}
