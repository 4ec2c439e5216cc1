package ast

import "github.com/shpurify/shpurify/internal/span"

// RedirectDirection enumerates the redirection operators the parser
// recognizes.
type RedirectDirection string

const (
	RedirectIn         RedirectDirection = "<"
	RedirectOut        RedirectDirection = ">"
	RedirectAppend     RedirectDirection = ">>"
	RedirectHeredoc    RedirectDirection = "<<"
	RedirectHeredocTab RedirectDirection = "<<-"
	RedirectHereString RedirectDirection = "<<<"
	RedirectInOut      RedirectDirection = "<>"
	RedirectDupIn      RedirectDirection = "<&"
	RedirectDupOut     RedirectDirection = ">&"
	RedirectClobber    RedirectDirection = ">|"
	RedirectAll        RedirectDirection = "&>"
	RedirectAllAppend  RedirectDirection = "&>>"
)

// Redirect attaches a redirection to the nearest enclosing command, or to
// a whole compound command when it trails a block terminator (fi, done,
// esac, }).
type Redirect struct {
	Sp        span.Span
	Direction RedirectDirection

	// Fd is the file descriptor number the redirection applies to, or -1
	// when none was given (the shell default for Direction applies).
	Fd int

	// Target is the file path / fd-duplication expression. For
	// RedirectHeredoc/RedirectHeredocTab, Target is nil and Body holds the
	// heredoc's literal text instead.
	Target Expr

	// Body is the heredoc body text (only set for RedirectHeredoc /
	// RedirectHeredocTab). QuotedDelim records whether the opening
	// delimiter was quoted, which disables interior expansion of Body.
	Body        string
	QuotedDelim bool
}
