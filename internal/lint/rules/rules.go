package rules

import "github.com/shpurify/shpurify/internal/lint"

// All returns the full built-in rule catalog in a stable, deterministic
// order. Callers that want a subset (e.g. security-only) can filter on
// Rule.Code's family prefix via diag.Diagnostic.Family.
func All() []lint.Rule {
	return []lint.Rule{
		SC2002,
		SC2006,
		SC2046,
		SC2086,
		DET002,
		IDEM001,
		IDEM002,
		IDEM003,
		SEC001,
		SEC002,
		SEC003,
		SEC010,
	}
}
