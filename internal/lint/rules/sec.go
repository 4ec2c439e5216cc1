package rules

import (
	"regexp"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/lint"
)

var evalPattern = regexp.MustCompile(`\beval\b[^\n]*\$`)

// SEC001 flags `eval` invoked with an argument that contains a variable
// expansion anywhere in the line — the cheap, line-local proxy for "the
// argument traces back to a tainted source" that this rule-family uses
// throughout (see SEC010 below for the full tainted-variable heuristic).
var SEC001 = lint.Rule{Code: "SEC001", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := evalPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "SEC001",
			Severity: diag.Error,
			Message:  "eval with a variable argument risks command injection; avoid eval or sanitize the value first",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}

var chmod777Pattern = regexp.MustCompile(`\bchmod\s+(-R\s+)?0?777\b`)

// SEC002 flags chmod granting world-writable permissions.
var SEC002 = lint.Rule{Code: "SEC002", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := chmod777Pattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "SEC002",
			Severity: diag.Error,
			Message:  "chmod 777 makes the target world-writable; use the narrowest mode that works",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}

var curlPipeShellPattern = regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?(sh|bash|zsh)\b`)

// SEC003 flags piping a network download directly into a shell.
var SEC003 = lint.Rule{Code: "SEC003", Check: func(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	forEachLine(source, func(n int, line string) {
		loc := curlPipeShellPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		out = append(out, diag.Diagnostic{
			Code:     "SEC003",
			Severity: diag.Error,
			Message:  "piping a remote download directly into a shell executes unreviewed code; download, verify, then run",
			Span:     lineSpan(n, loc[0]+1, loc[1]+1),
		})
	})
	return out
}}

// SEC010 — path traversal. Scans line-by-line; treats a fixed set of
// file-operation commands as sinks; treats variables whose names match
// known user-input patterns as tainted; suppresses the diagnostic once the
// same variable has appeared in a validation context earlier in the file.
var SEC010 = lint.Rule{Code: "SEC010", Check: checkSEC010}

var sec010Sinks = regexp.MustCompile(`\b(cp|mv|cat|tar|unzip|rm|mkdir|cd|ln)\b`)

// sec010TaintedCategories is the full list of substrings the original
// linter treats as suggestive of untrusted input, matched case-
// insensitively anywhere in the variable name (not anchored to a
// prefix/suffix), e.g. ARG_NAME, REMOTE, UPLOAD_DIR all count.
var sec010TaintedCategories = []string{
	"USER", "INPUT", "UPLOAD", "ARCHIVE", "UNTRUSTED", "EXTERNAL",
	"REMOTE", "ARG", "NAME", "FILE", "PATH", "DIR",
}

func sec010IsTaintedName(name string) bool {
	upper := strings.ToUpper(name)
	for _, cat := range sec010TaintedCategories {
		if strings.Contains(upper, cat) {
			return true
		}
	}
	return false
}

var sec010VarRef = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)
var sec010HeredocStart = regexp.MustCompile(`<<-?\s*['"]?\w`)

var sec010ValidationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\[\s.*==\s*\*"\.\."\*.*\]\]`),
	regexp.MustCompile(`\[\[\s.*==\s*/\*.*\]\]`),
	regexp.MustCompile(`=\s*\$\(\s*realpath\b`),
	regexp.MustCompile(`readlink\s+-f\b`),
	regexp.MustCompile(`\b(validate|check|verify|sanitize|assert)_\w*\s*\(?\s*"?\$?\{?\w*`),
}

// sec010Whitelist covers both the original's exact-name safe patterns
// (PWD/HOME/TMPDIR/BASH_SOURCE/XDG_*/dirname) and the bare PATH env var,
// which the broader substring categories above would otherwise flag.
var sec010Whitelist = regexp.MustCompile(`^(PWD|HOME|TMPDIR|BASH_SOURCE|PATH)$|^XDG_|dirname`)

func checkSEC010(source string, _ *ast.Ast) []diag.Diagnostic {
	var out []diag.Diagnostic
	validated := map[string]bool{}

	forEachLine(source, func(n int, line string) {
		for _, pat := range sec010ValidationPatterns {
			if m := pat.FindStringSubmatchIndex(line); m != nil {
				for _, v := range sec010VarRef.FindAllStringSubmatch(line, -1) {
					validated[v[1]] = true
				}
			}
		}

		if sec010HeredocStart.MatchString(line) {
			return
		}
		if !sec010Sinks.MatchString(line) {
			return
		}
		for _, v := range sec010VarRef.FindAllStringSubmatchIndex(line, -1) {
			name := line[v[2]:v[3]]
			if !sec010IsTaintedName(name) {
				continue
			}
			if sec010Whitelist.MatchString(name) {
				continue
			}
			if validated[name] {
				continue
			}
			out = append(out, diag.Diagnostic{
				Code:     "SEC010",
				Severity: diag.Error,
				Message:  "unvalidated path-like variable $" + name + " reaches a file operation; check for path traversal before use",
				Span:     lineSpan(n, v[0]+1, v[1]+1),
			})
		}
	})
	return out
}
