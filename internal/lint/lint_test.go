package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/lint"
	"github.com/shpurify/shpurify/internal/span"
)

// constRule builds a lint.Rule that ignores its inputs and always reports a
// single fixed diagnostic, for exercising Run's sort/suppress behavior in
// isolation from any real rule's matching logic.
func constRule(code string, sev diag.Severity, line, col int) lint.Rule {
	return lint.Rule{Code: code, Check: func(_ string, _ *ast.Ast) []diag.Diagnostic {
		return []diag.Diagnostic{{
			Code:     code,
			Severity: sev,
			Message:  "test diagnostic",
			Span:     span.New(line, col, line, col+1),
		}}
	}}
}

func TestRun_SortsByLineThenColumnThenCode(t *testing.T) {
	source := "echo hi\necho bye\n"
	rules := []lint.Rule{
		constRule("ZZZ1", diag.Warning, 2, 1),
		constRule("AAA1", diag.Warning, 2, 1),
		constRule("SC2006", diag.Warning, 1, 1),
	}
	diags := lint.Run(source, nil, rules)
	require.Len(t, diags, 3)
	assert.Equal(t, "SC2006", diags[0].Code)
	assert.Equal(t, "AAA1", diags[1].Code)
	assert.Equal(t, "ZZZ1", diags[2].Code)
}

func TestRun_DropsSuppressedDiagnostics(t *testing.T) {
	source := "# shpurify disable-next-line=SC2006\necho x\n"
	rules := []lint.Rule{constRule("SC2006", diag.Warning, 2, 1)}
	diags := lint.Run(source, nil, rules)
	assert.Empty(t, diags)
}

func TestRun_KeepsUnsuppressedDiagnostics(t *testing.T) {
	source := "echo x\n"
	rules := []lint.Rule{constRule("SC2006", diag.Warning, 1, 1)}
	diags := lint.Run(source, nil, rules)
	require.Len(t, diags, 1)
	assert.Equal(t, "SC2006", diags[0].Code)
}

func TestRun_FileLevelSuppressionAppliesToEveryLine(t *testing.T) {
	source := "# shpurify disable-file=SC2006\necho x\necho y\n"
	rules := []lint.Rule{constRule("SC2006", diag.Warning, 2, 1), constRule("SC2006", diag.Warning, 3, 1)}
	diags := lint.Run(source, nil, rules)
	assert.Empty(t, diags)
}

func TestApplyFixes_AppliesWholeLineReplacement(t *testing.T) {
	source := "echo `date`\nok\n"
	diags := []diag.Diagnostic{{
		Code:     "SC2006",
		Severity: diag.Warning,
		Span:     span.New(1, 1, 1, 12),
		Fix:      &diag.Fix{Span: span.New(1, 1, 1, 12), Replacement: "echo $(date)"},
	}}
	fixed := lint.ApplyFixes(source, diags)
	assert.Equal(t, "echo $(date)\nok\n", fixed)
}

func TestApplyFixes_HigherSeverityWinsOnSameLine(t *testing.T) {
	source := "x\n"
	diags := []diag.Diagnostic{
		{Code: "AAA1", Severity: diag.Warning, Span: span.New(1, 1, 1, 2), Fix: &diag.Fix{Span: span.New(1, 1, 1, 2), Replacement: "warn-fix"}},
		{Code: "ZZZ1", Severity: diag.Error, Span: span.New(1, 1, 1, 2), Fix: &diag.Fix{Span: span.New(1, 1, 1, 2), Replacement: "error-fix"}},
	}
	fixed := lint.ApplyFixes(source, diags)
	assert.Equal(t, "error-fix\n", fixed)
}

func TestApplyFixes_TiesBrokenByLexicographicCode(t *testing.T) {
	source := "x\n"
	diags := []diag.Diagnostic{
		{Code: "ZZZ1", Severity: diag.Warning, Span: span.New(1, 1, 1, 2), Fix: &diag.Fix{Span: span.New(1, 1, 1, 2), Replacement: "z-fix"}},
		{Code: "AAA1", Severity: diag.Warning, Span: span.New(1, 1, 1, 2), Fix: &diag.Fix{Span: span.New(1, 1, 1, 2), Replacement: "a-fix"}},
	}
	fixed := lint.ApplyFixes(source, diags)
	assert.Equal(t, "a-fix\n", fixed)
}

func TestApplyFixes_LeavesDiagnosticsWithoutFixUntouched(t *testing.T) {
	source := "x\ny\n"
	diags := []diag.Diagnostic{{Code: "AAA1", Severity: diag.Warning, Span: span.New(1, 1, 1, 2)}}
	fixed := lint.ApplyFixes(source, diags)
	assert.Equal(t, source, fixed)
}

func TestFilterRules_DropsRulesIsEnabledRejects(t *testing.T) {
	rules := []lint.Rule{
		constRule("SEC010", diag.Error, 1, 1),
		constRule("SC2006", diag.Warning, 1, 1),
	}
	filtered := lint.FilterRules(rules, func(code, family string) bool {
		return family == "SEC"
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "SEC010", filtered[0].Code)
}

func TestFilterRules_PassesFamilyAlongsideExactCode(t *testing.T) {
	var gotCode, gotFamily string
	rules := []lint.Rule{constRule("DEVCONTAINER001", diag.Warning, 1, 1)}
	lint.FilterRules(rules, func(code, family string) bool {
		gotCode, gotFamily = code, family
		return true
	})
	assert.Equal(t, "DEVCONTAINER001", gotCode)
	assert.Equal(t, "DEVCONTAINER", gotFamily)
}
