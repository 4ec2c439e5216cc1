// Package suppress implements inline lint-suppression directives: shpurify's
// own comment syntax plus shellcheck's, for drop-in compatibility with
// scripts that already carry shellcheck annotations.
//
// Directive syntax:
//   - `# shpurify disable-file=R1,R2`       entire file
//   - `# shpurify disable-next-line=R1`     the following source line
//   - `# shpurify disable=R1`               shorthand for disable-next-line
//   - `command  # shpurify disable-line=R1` the current source line
//   - `# shellcheck disable=R1,R2`          file-level iff before any code,
//     otherwise next-line
package suppress

import (
	"strings"

	"github.com/shpurify/shpurify/internal/diag"
)

type suppressionType int

const (
	typeFile suppressionType = iota
	typeNextLine
	typeLine
)

// Manager answers whether a rule code is suppressed at a given line,
// having scanned a source file once at construction.
type Manager struct {
	fileRules map[string]bool
	lineRules map[int]map[string]bool
}

// FromSource scans source line by line and builds a Manager from every
// suppression directive found.
func FromSource(source string) *Manager {
	m := &Manager{
		fileRules: map[string]bool{},
		lineRules: map[int]map[string]bool{},
	}

	lines := strings.Split(source, "\n")
	seenCode := false

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed != "" && !strings.HasPrefix(trimmed, "#") &&
			!strings.HasPrefix(trimmed, "set ") && !strings.HasPrefix(trimmed, "shopt ") {
			seenCode = true
		}

		typ, rules, ok := parseDirective(line)
		if !ok {
			continue
		}
		switch typ {
		case typeFile:
			m.addFile(rules)
		case typeNextLine:
			if !seenCode && strings.Contains(line, "# shellcheck disable=") {
				m.addFile(rules)
			} else if i+1 < len(lines) {
				m.addLine(lineNum+1, rules)
			}
		case typeLine:
			m.addLine(lineNum, rules)
		}
	}

	return m
}

func (m *Manager) addFile(rules []string) {
	for _, r := range rules {
		m.fileRules[r] = true
	}
}

func (m *Manager) addLine(line int, rules []string) {
	set := m.lineRules[line]
	if set == nil {
		set = map[string]bool{}
		m.lineRules[line] = set
	}
	for _, r := range rules {
		set[r] = true
	}
}

// IsSuppressed reports whether ruleCode is suppressed at line (file-level
// suppressions win regardless of line).
func (m *Manager) IsSuppressed(ruleCode string, line int) bool {
	if m.fileRules[ruleCode] {
		return true
	}
	return m.lineRules[line][ruleCode]
}

const (
	prefixDisableFile     = "# shpurify disable-file="
	prefixDisableNextLine = "# shpurify disable-next-line="
	prefixDisableLine     = "# shpurify disable-line="
	prefixDisableShort    = "# shpurify disable="
	prefixShellcheck      = "# shellcheck disable="
)

// parseDirective recognizes exactly one directive per line, checking the
// disable-file=/disable-next-line=/disable-line= shpurify forms first, then
// the disable= shorthand (only when none of those forms appears on the
// line), then falling back to the shellcheck-compatible form.
func parseDirective(line string) (suppressionType, []string, bool) {
	trimmed := strings.TrimSpace(line)

	if idx := strings.Index(trimmed, prefixDisableFile); idx >= 0 {
		return typeFile, parseRuleList(trimmed[idx+len(prefixDisableFile):]), true
	}
	if idx := strings.Index(trimmed, prefixDisableNextLine); idx >= 0 {
		return typeNextLine, parseRuleList(trimmed[idx+len(prefixDisableNextLine):]), true
	}
	if idx := strings.Index(line, prefixDisableLine); idx >= 0 {
		return typeLine, parseRuleList(line[idx+len(prefixDisableLine):]), true
	}
	if idx := strings.Index(trimmed, prefixDisableShort); idx >= 0 {
		if !strings.Contains(trimmed, "disable-file=") &&
			!strings.Contains(trimmed, "disable-next-line=") &&
			!strings.Contains(trimmed, "disable-line=") {
			return typeNextLine, parseRuleList(trimmed[idx+len(prefixDisableShort):]), true
		}
	}
	if idx := strings.Index(trimmed, prefixShellcheck); idx >= 0 {
		return typeNextLine, parseRuleList(trimmed[idx+len(prefixShellcheck):]), true
	}

	return 0, nil, false
}

// parseRuleList strips trailing parenthesized or #-prefixed explanation
// text, then splits the remainder on commas, keeping only valid rule codes.
func parseRuleList(s string) []string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}

	var rules []string
	for _, part := range strings.Split(s, ",") {
		code := strings.TrimSpace(part)
		if code != "" && diag.ValidCode(code) {
			rules = append(rules, code)
		}
	}
	return rules
}
