// Package report renders diagnostics and purification results for the CLI
// collaborator: severity-colored diagnostic lines (fatih/color, replacing
// the teacher's hand-rolled pkg/color with the same ANSI-const idiom but a
// real dependency), unified diffs between original and purified script text
// (go-difflib), and stable sortable run identifiers (oklog/ulid) so repeated
// runs can be correlated in logs.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shpurify/shpurify/internal/diag"
)

// severityColor mirrors the teacher's isColorSupported/Colorize idiom but
// delegates the actual NO_COLOR/terminal detection to fatih/color, which
// already implements it.
func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.Error:
		return color.New(color.FgRed, color.Bold)
	case diag.Warning:
		return color.New(color.FgYellow)
	case diag.Info:
		return color.New(color.FgCyan)
	default:
		return color.New()
	}
}

// WriteDiagnostics renders one line per diagnostic to w, in the form
// "path:line:col: severity code: message", with the "severity code" token
// colorized by severity.
func WriteDiagnostics(w io.Writer, path string, diags []diag.Diagnostic) {
	for _, d := range diags {
		tag := severityColor(d.Severity).Sprintf("%s %s", d.Severity, d.Code)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, d.Span.StartLine, d.Span.StartCol, tag, d.Message)
	}
}

// PrintDiagnostics renders diags to stderr, matching where a linter
// conventionally writes its findings.
func PrintDiagnostics(path string, diags []diag.Diagnostic) {
	WriteDiagnostics(os.Stderr, path, diags)
}

// SummaryLine renders diag.Summary colorized by the highest severity
// present, or a plain "no issues" in green when diags is empty.
func SummaryLine(diags []diag.Diagnostic) string {
	summary := diag.Summary(diags)
	if len(diags) == 0 {
		return color.New(color.FgGreen).Sprint(summary)
	}
	return severityColor(diag.HighestSeverity(diags)).Sprint(summary)
}

// indent is used by Diff (diff.go) to keep the unified-diff body visually
// distinct from surrounding CLI output.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
