package cerr

import (
	"errors"
	"fmt"
)

// Error is the pipeline's typed error envelope: a Code for exit-status
// purposes, a user-facing message, and the wrapped underlying error for
// logs. Mirrors the teacher's cerr.Error shape minus the proto/connect
// detail-list fields, which had no home once the transport layer was cut.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func New(code Code, msg string, underlying error) *Error {
	return &Error{Code: code, Msg: msg, Err: underlying}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// ExitCode walks err for a wrapped *Error and returns its exit code,
// defaulting to Internal's exit code for anything else non-nil.
func ExitCode(err error) int {
	if err == nil {
		return OK.ExitCode()
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code.ExitCode()
	}
	return Internal.ExitCode()
}
