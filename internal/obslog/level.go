package obslog

import "github.com/shpurify/shpurify/internal/diag"

// SeverityToLevel maps a diagnostic's severity to the slog level the batch
// runner logs its per-file summary line at, mirroring the teacher's
// status-code-to-level mapping in spirit (highest-severity finding decides
// how loud the line is).
func SeverityToLevel(sev diag.Severity) string {
	switch sev {
	case diag.Error:
		return "ERROR"
	case diag.Warning:
		return "WARN"
	case diag.Info:
		return "INFO"
	default:
		return "INFO"
	}
}
