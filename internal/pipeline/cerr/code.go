// Package cerr maps the pipeline's typed error kinds to the CLI's
// three-value exit code contract, adapted from the teacher's
// connect/gRPC-flavored cerr package with the transport layer stripped out:
// this module never serves RPCs, so only the Code -> exit-code mapping
// survives.
package cerr

// Code classifies why a pipeline run failed, independent of which phase
// (lex/parse/taint/purify/emit/lint) produced the failure.
type Code int

const (
	OK Code = iota
	// Validation covers lex/parse/taint/purify/lint errors: the input
	// itself is rejected.
	Validation
	// IO covers file-read/write failures surfaced by the CLI/batch layer.
	IO
	// Internal covers anything else (a bug, a panic recovered at the
	// batch boundary).
	Internal
)

// ExitCode returns the three-value exit code spec.md's CLI surface
// contract specifies: 0 success, 1 validation/parse/lint error, 2 I/O
// error. Internal errors also exit 2, since from the shell's perspective
// they are indistinguishable from "something went wrong outside the
// input itself".
func (c Code) ExitCode() int {
	switch c {
	case OK:
		return 0
	case Validation:
		return 1
	case IO, Internal:
		return 2
	default:
		return 2
	}
}

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Validation:
		return "validation"
	case IO:
		return "io"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}
