package lexer

import (
	"fmt"

	"github.com/shpurify/shpurify/internal/span"
)

// ErrorKind enumerates the fatal lex failure modes.
type ErrorKind int

const (
	UnterminatedString ErrorKind = iota
	UnterminatedHeredoc
	InvalidEscape
	UnknownOperator
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string"
	case UnterminatedHeredoc:
		return "unterminated heredoc"
	case InvalidEscape:
		return "invalid escape"
	case UnknownOperator:
		return "unknown operator"
	default:
		return "lex error"
	}
}

// Error is a fatal lexical error. All lex errors are fatal to the input
// being tokenized; there is no recovery.
type Error struct {
	Kind ErrorKind
	Span span.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s at %s", e.Kind, e.Msg, e.Span)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Span)
}
