package parser

import (
	"fmt"

	"github.com/shpurify/shpurify/internal/span"
)

// Error is the single fatal parse-error shape the parser ever returns:
// ParseError::InvalidSyntax(message, span) in the source design. There is
// no recovery; the caller never receives a partial AST alongside an Error.
type Error struct {
	Message string
	Span    span.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
}

func errAt(sp span.Span, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: sp}
}
