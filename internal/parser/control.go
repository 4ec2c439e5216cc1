package parser

import (
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/lexer"
	"github.com/shpurify/shpurify/internal/span"
)

func (p *parser) parseIf() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "if"

	cond, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("then"); err != nil {
		return nil, err
	}
	thenBody, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}

	node := &ast.If{StmtBase: ast.StmtBase{Sp: start}, Condition: cond, Then: thenBody}

	for p.atWord("elif") {
		p.advance()
		elifCond, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
		if err != nil {
			return nil, err
		}
		if err := p.expectWord("then"); err != nil {
			return nil, err
		}
		elifBody, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
		if err != nil {
			return nil, err
		}
		node.ElifArms = append(node.ElifArms, ast.ElifArm{Condition: elifCond, Body: elifBody})
	}

	if p.atWord("else") {
		p.advance()
		elseBody, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
	}

	if err := p.expectWord("fi"); err != nil {
		return nil, err
	}
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	node.Redirects = redirects
	node.Sp = span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)
	return node, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "while"
	cond, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	return &ast.While{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Condition: cond,
		Body:      body,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseUntil() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "until"
	cond, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	return &ast.Until{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Condition: cond,
		Body:      body,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "for"

	if p.at(lexer.ArithExpansion) {
		tok := p.advance()
		clauses := strings.SplitN(tok.Value, ";", 3)
		for len(clauses) < 3 {
			clauses = append(clauses, "")
		}
		if p.at(lexer.Semi) {
			p.advance()
		}
		p.skipSeparators()
		if err := p.expectWord("do"); err != nil {
			return nil, err
		}
		body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
		if err != nil {
			return nil, err
		}
		if err := p.expectWord("done"); err != nil {
			return nil, err
		}
		redirects, end, err := p.parseTrailingRedirects()
		if err != nil {
			return nil, err
		}
		return &ast.ForCStyle{
			StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
			Init:      strings.TrimSpace(clauses[0]),
			Cond:      strings.TrimSpace(clauses[1]),
			Incr:      strings.TrimSpace(clauses[2]),
			Body:      body,
			Redirects: redirects,
		}, nil
	}

	nameTok, err := p.expect(lexer.Word, "loop variable")
	if err != nil {
		return nil, err
	}

	var items ast.Expr
	if p.atWord("in") {
		p.advance()
		var elems []ast.Expr
		for p.wordLike(p.curKind()) {
			e, err := p.parseWordExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if len(elems) == 1 {
			items = elems[0]
		} else {
			items = &ast.Array{Elements: elems}
		}
	}
	if p.at(lexer.Semi) || p.at(lexer.Newline) {
		p.skipSeparators()
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	return &ast.For{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Variable:  nameTok.Value,
		Items:     items,
		Body:      body,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseSelect() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "select"
	nameTok, err := p.expect(lexer.Word, "select variable")
	if err != nil {
		return nil, err
	}
	var items ast.Expr
	if p.atWord("in") {
		p.advance()
		var elems []ast.Expr
		for p.wordLike(p.curKind()) {
			e, err := p.parseWordExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if len(elems) == 1 {
			items = elems[0]
		} else {
			items = &ast.Array{Elements: elems}
		}
	}
	p.skipSeparators()
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	return &ast.Select{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Variable:  nameTok.Value,
		Items:     items,
		Body:      body,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseCase() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "case"
	word, err := p.parseWordExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("in"); err != nil {
		return nil, err
	}
	p.skipSeparators()

	node := &ast.Case{StmtBase: ast.StmtBase{Sp: start}, Word: word}

	for !p.atWord("esac") {
		if p.at(lexer.LParen) {
			p.advance()
		}
		var patterns []string
		for {
			pat, err := p.parseCasePattern()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, pat)
			if p.at(lexer.Pipe) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		p.skipSeparators()
		body, err := p.parseStmtList(func(k lexer.Kind) bool {
			return k == lexer.SemiSemi || k == lexer.SemiAmp || k == lexer.SemiSemiA
		})
		if err != nil {
			return nil, err
		}
		terminator := ";;"
		if p.at(lexer.SemiSemi) || p.at(lexer.SemiAmp) || p.at(lexer.SemiSemiA) {
			terminator = p.cur().Value
			p.advance()
		}
		node.Arms = append(node.Arms, ast.CaseArm{Patterns: patterns, Body: body, Terminator: terminator})
		p.skipSeparators()
	}
	p.advance() // "esac"
	redirects, end, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	node.Redirects = redirects
	node.Sp = span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)
	return node, nil
}

// parseCasePattern collects one pattern token's raw text (identifiers,
// strings, variables, numbers, and bracket classes including POSIX
// classes like [[:alpha:]]).
func (p *parser) parseCasePattern() (string, error) {
	var sb strings.Builder
	for !p.at(lexer.RParen) && !p.at(lexer.Pipe) && !p.at(lexer.EOF) {
		sb.WriteString(p.cur().Value)
		p.advance()
	}
	if sb.Len() == 0 {
		return "", errAt(p.cur().Span, "expected case pattern")
	}
	return sb.String(), nil
}

func (p *parser) parseFunction() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "function"
	nameTok, err := p.expect(lexer.Word, "function name")
	if err != nil {
		return nil, err
	}
	if p.at(lexer.LParen) {
		p.advance()
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
	}
	p.skipSeparators()
	body, end, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		StmtBase: ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Name:     nameTok.Value,
		Body:     body,
	}, nil
}

func (p *parser) parsePosixFunction() (ast.Stmt, error) {
	start := p.cur().Span
	nameTok, err := p.expect(lexer.Word, "function name")
	if err != nil {
		return nil, err
	}
	p.advance() // "("
	if _, err := p.expect(lexer.RParen, ")"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	body, end, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		StmtBase: ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Name:     nameTok.Value,
		Body:     body,
	}, nil
}

func (p *parser) parseFunctionBody() ([]ast.Stmt, span.Span, error) {
	if _, err := p.expect(lexer.LBrace, "{"); err != nil {
		return nil, span.Span{}, err
	}
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return false })
	if err != nil {
		return nil, span.Span{}, err
	}
	end, err := p.expect(lexer.RBrace, "}")
	if err != nil {
		return nil, span.Span{}, err
	}
	return body, end.Span, nil
}

func (p *parser) parseCoproc() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "coproc"
	name := ""
	if p.at(lexer.Word) && p.toks[p.pos+1].Kind == lexer.LBrace {
		name = p.cur().Value
		p.advance()
	}
	body, end, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.Coproc{
		StmtBase: ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Name:     name,
		Body:     body,
	}, nil
}

func (p *parser) parseBraceGroup() (ast.Stmt, error) {
	start := p.cur().Span
	body, end, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	redirects, trailingEnd, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	if len(redirects) > 0 {
		end = trailingEnd
	}
	return &ast.BraceGroup{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.EndLine, end.EndCol)},
		Body:      body,
		Subshell:  false,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseSubshell() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "("
	body, err := p.parseStmtList(func(k lexer.Kind) bool { return k == lexer.RParen })
	if err != nil {
		return nil, err
	}
	end, err := p.expect(lexer.RParen, ")")
	if err != nil {
		return nil, err
	}
	redirects, trailingEnd, err := p.parseTrailingRedirects()
	if err != nil {
		return nil, err
	}
	if len(redirects) > 0 {
		end.Span = trailingEnd
	}
	return &ast.BraceGroup{
		StmtBase:  ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.Span.EndLine, end.Span.EndCol)},
		Body:      body,
		Subshell:  true,
		Redirects: redirects,
	}, nil
}

func (p *parser) parseArithCommand() (ast.Stmt, error) {
	tok := p.advance()
	expr, err := parseArithText(tok.Value)
	if err != nil {
		return nil, errAt(tok.Span, "%s", err.Error())
	}
	return &ast.Command{
		StmtBase: ast.StmtBase{Sp: tok.Span},
		Name:     "((",
		Args:     []ast.Expr{&ast.Arithmetic{ExprBase: ast.ExprBase{Sp: tok.Span}, Expr: expr}},
	}, nil
}

func (p *parser) parseTestCommand(extended bool) (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // "[" or "[["
	expr, err := p.parseTestOr(extended)
	if err != nil {
		return nil, err
	}
	var end lexer.Token
	if extended {
		end, err = p.expect(lexer.DRBracket, "]]")
	} else {
		end, err = p.expect(lexer.RBracket, "]")
	}
	if err != nil {
		return nil, err
	}
	name := "["
	if extended {
		name = "[["
	}
	return &ast.Command{
		StmtBase: ast.StmtBase{Sp: span.New(start.StartLine, start.StartCol, end.Span.EndLine, end.Span.EndCol)},
		Name:     name,
		Args:     []ast.Expr{&ast.Test{ExprBase: ast.ExprBase{Sp: start}, Expr: expr, Extended: extended}},
	}, nil
}

// parseTrailingRedirects collects redirections attached to a whole
// compound command after its closing keyword/token.
func (p *parser) parseTrailingRedirects() ([]ast.Redirect, span.Span, error) {
	var redirects []ast.Redirect
	last := p.toks[p.pos-1].Span
	cmd := &ast.Command{}
	for {
		ok, err := p.tryParseRedirect(cmd)
		if err != nil {
			return nil, span.Span{}, err
		}
		if !ok {
			break
		}
	}
	redirects = cmd.Redirects
	if len(redirects) > 0 {
		last = redirects[len(redirects)-1].Sp
	}
	return redirects, last, nil
}
