// Package lint runs a set of pure rule functions over bash source (and its
// parsed AST, when a rule needs more than text) and produces a
// suppression-filtered, deterministically sorted diagnostic list, with an
// optional non-conflicting autofix pass.
package lint

import (
	"sort"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/suppress"
)

// Rule is a pure diagnostic-producing function. tree is nil when the
// caller only has source text (e.g. a parse failure); rules that need the
// AST should report nothing in that case rather than panic.
type Rule struct {
	Code  string
	Check func(source string, tree *ast.Ast) []diag.Diagnostic
}

// FilterRules keeps only the rules isEnabled accepts, called with each
// rule's code and its family prefix (diag.Diagnostic.Family), letting a
// caller apply .shpurify.yml-style per-code/per-family enablement before
// Run spends any work checking a disabled rule.
func FilterRules(rules []Rule, isEnabled func(code, family string) bool) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		family := diag.Diagnostic{Code: r.Code}.Family()
		if isEnabled(r.Code, family) {
			out = append(out, r)
		}
	}
	return out
}

// Run executes every rule in rules against source/tree, drops diagnostics
// suppressed by an inline directive, and returns the result sorted by
// (line, column, code) per the core contract.
func Run(source string, tree *ast.Ast, rules []Rule) []diag.Diagnostic {
	sm := suppress.FromSource(source)
	var out []diag.Diagnostic
	for _, r := range rules {
		for _, d := range r.Check(source, tree) {
			if sm.IsSuppressed(d.Code, d.Span.StartLine) {
				continue
			}
			out = append(out, d)
		}
	}
	diag.Sort(out)
	return out
}

// ApplyFixes applies every diagnostic's Fix in source order, skipping a fix
// whose span overlaps one already applied; among diagnostics that target
// the same line, the fix from the higher-severity diagnostic wins, ties
// broken by lexicographically smaller code. Fixes apply whole-line
// replacements, matching how every rule below reports its Fix.
func ApplyFixes(source string, diags []diag.Diagnostic) string {
	lines := splitLines(source)

	byLine := map[int]diag.Diagnostic{}
	for _, d := range diags {
		if d.Fix == nil {
			continue
		}
		line := d.Span.StartLine
		existing, ok := byLine[line]
		if !ok || fixWins(d, existing) {
			byLine[line] = d
		}
	}

	lineNums := make([]int, 0, len(byLine))
	for l := range byLine {
		lineNums = append(lineNums, l)
	}
	sort.Ints(lineNums)

	for _, l := range lineNums {
		if l < 1 || l > len(lines) {
			continue
		}
		lines[l-1] = byLine[l].Fix.Replacement
	}
	out := joinLines(lines)
	if len(source) > 0 && source[len(source)-1] == '\n' {
		out += "\n"
	}
	return out
}

var severityRank = map[diag.Severity]int{diag.Info: 0, diag.Warning: 1, diag.Error: 2}

func fixWins(candidate, current diag.Diagnostic) bool {
	if severityRank[candidate.Severity] != severityRank[current.Severity] {
		return severityRank[candidate.Severity] > severityRank[current.Severity]
	}
	return candidate.Code < current.Code
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
