// Package diag defines the stable diagnostic schema shared by the lint
// engine, the purifier and the Makefile/devcontainer sub-parsers.
package diag

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shpurify/shpurify/internal/span"
)

// Severity is the importance of a diagnostic.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// codePattern matches a valid rule code: 1-12 uppercase letters (long enough
// for the "DEVCONTAINER" family) followed by 1-5 digits.
var codePattern = regexp.MustCompile(`^[A-Z]{1,12}[0-9]{1,5}$`)

// ValidCode reports whether code follows the diagnostic-code grammar.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Fix is an optional autofix attached to a diagnostic.
type Fix struct {
	Span        span.Span
	Replacement string
}

// Diagnostic is the stable, language-neutral diagnostic record produced by
// every lint rule and by the Makefile/devcontainer validators.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Span     span.Span
	Fix      *Fix
}

// Family returns the rule-family prefix of the diagnostic's code: the
// leading run of uppercase letters (e.g. "SC", "SEC", "DET", "IDEM",
// "DEVCONTAINER"). It is used for per-family enablement in the lint engine
// and in .shpurify.yml configuration.
func (d Diagnostic) Family() string {
	i := 0
	for i < len(d.Code) && d.Code[i] >= 'A' && d.Code[i] <= 'Z' {
		i++
	}
	return d.Code[:i]
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Span, d.Severity, d.Code, d.Message)
}

// Sort orders diagnostics by (Span.StartLine, Span.StartCol, Code), the
// deterministic ordering required by the core contract so that two lint
// runs over the same input produce byte-identical diagnostic lists.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Span.StartLine != b.Span.StartLine {
			return a.Span.StartLine < b.Span.StartLine
		}
		if a.Span.StartCol != b.Span.StartCol {
			return a.Span.StartCol < b.Span.StartCol
		}
		return a.Code < b.Code
	})
}

// HighestSeverity returns the most severe severity present, or "" if diags
// is empty. Order: error > warning > info.
func HighestSeverity(diags []Diagnostic) Severity {
	has := map[Severity]bool{}
	for _, d := range diags {
		has[d.Severity] = true
	}
	switch {
	case has[Error]:
		return Error
	case has[Warning]:
		return Warning
	case has[Info]:
		return Info
	default:
		return ""
	}
}

// FilterSeverity keeps only diagnostics at or above the given minimum
// severity (error > warning > info).
func FilterSeverity(diags []Diagnostic, min Severity) []Diagnostic {
	rank := map[Severity]int{Info: 0, Warning: 1, Error: 2}
	out := diags[:0:0]
	for _, d := range diags {
		if rank[d.Severity] >= rank[min] {
			out = append(out, d)
		}
	}
	return out
}

// Summary renders a one-line human-readable tally, e.g. "2 errors, 1 warning".
func Summary(diags []Diagnostic) string {
	var errs, warns, infos int
	for _, d := range diags {
		switch d.Severity {
		case Error:
			errs++
		case Warning:
			warns++
		case Info:
			infos++
		}
	}
	parts := make([]string, 0, 3)
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	if infos > 0 {
		parts = append(parts, plural(infos, "info"))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
