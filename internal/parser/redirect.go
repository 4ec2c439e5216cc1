package parser

import (
	"strconv"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/lexer"
)

// tryParseRedirect consumes one redirection at the current position and
// appends it to cmd.Redirects, returning ok=false (consuming nothing) if
// the current position is not a redirection.
func (p *parser) tryParseRedirect(cmd *ast.Command) (bool, error) {
	fd := -1
	start := p.cur().Span

	if p.at(lexer.Word) && isAllDigits(p.cur().Value) && p.toks[p.pos+1].Kind == lexer.RedirectOp && !p.toks[p.pos+1].SpaceBefore {
		n, _ := strconv.Atoi(p.cur().Value)
		fd = n
		p.advance()
	}

	if !p.at(lexer.RedirectOp) {
		if fd != -1 {
			// We consumed a bare digit word that was not actually a
			// redirect prefix; this branch is unreachable given the
			// lookahead check above, kept defensive.
			return false, nil
		}
		return false, nil
	}

	opTok := p.advance()
	dir := ast.RedirectDirection(opTok.Value)

	if dir == ast.RedirectHeredoc || dir == ast.RedirectHeredocTab {
		if !p.wordLike(p.curKind()) {
			return false, errAt(p.cur().Span, "expected heredoc delimiter after %q", opTok.Value)
		}
		delimTok := p.advance()
		quoted := delimTok.Kind == lexer.SingleQuoted || delimTok.Kind == lexer.DoubleQuoted
		r := ast.Redirect{
			Sp:          span2(start, delimTok.Span),
			Direction:   dir,
			Fd:          fd,
			QuotedDelim: quoted,
		}
		cmd.Redirects = append(cmd.Redirects, r)
		p.pendingHeredocs = append(p.pendingHeredocs, &cmd.Redirects[len(cmd.Redirects)-1])
		return true, nil
	}

	if !p.wordLike(p.curKind()) {
		return false, errAt(p.cur().Span, "expected redirection target after %q", opTok.Value)
	}
	target, err := p.parseWordExpr()
	if err != nil {
		return false, err
	}
	cmd.Redirects = append(cmd.Redirects, ast.Redirect{
		Sp:        span2(start, target.Span()),
		Direction: dir,
		Fd:        fd,
		Target:    target,
	})
	return true, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
