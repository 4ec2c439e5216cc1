package parser

import (
	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/lexer"
)

var unaryFileTestOps = map[string]bool{
	"-e": true, "-f": true, "-d": true, "-s": true, "-r": true, "-w": true,
	"-x": true, "-L": true, "-h": true, "-p": true, "-S": true, "-b": true,
	"-c": true, "-g": true, "-u": true, "-k": true, "-O": true, "-G": true,
	"-N": true, "-z": true, "-n": true,
}

var intCompareOps = map[string]bool{
	"-eq": true, "-ne": true, "-lt": true, "-le": true, "-gt": true, "-ge": true,
}

// parseTestOr parses the lowest-precedence "-o" / "||" connective.
func (p *parser) parseTestOr(extended bool) (ast.TestExpr, error) {
	left, err := p.parseTestAnd(extended)
	if err != nil {
		return nil, err
	}
	for (extended && p.at(lexer.OrOr)) || (!extended && p.atWord("-o")) {
		p.advance()
		right, err := p.parseTestAnd(extended)
		if err != nil {
			return nil, err
		}
		left = ast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTestAnd(extended bool) (ast.TestExpr, error) {
	left, err := p.parseTestPrimary(extended)
	if err != nil {
		return nil, err
	}
	for (extended && p.at(lexer.AndAnd)) || (!extended && p.atWord("-a")) {
		p.advance()
		right, err := p.parseTestPrimary(extended)
		if err != nil {
			return nil, err
		}
		left = ast.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTestPrimary(extended bool) (ast.TestExpr, error) {
	if p.atWord("!") {
		p.advance()
		inner, err := p.parseTestPrimary(extended)
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: inner}, nil
	}
	if p.at(lexer.LParen) {
		p.advance()
		inner, err := p.parseTestOr(extended)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return ast.Paren{Expr: inner}, nil
	}
	if p.at(lexer.Word) && unaryFileTestOps[p.cur().Value] {
		op := p.advance().Value
		operand, err := p.parseWordExpr()
		if err != nil {
			return nil, err
		}
		return ast.UnaryFileTest{Op: op, Operand: operand}, nil
	}

	left, err := p.parseWordExpr()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.Word) && intCompareOps[p.cur().Value] {
		op := p.advance().Value
		right, err := p.parseWordExpr()
		if err != nil {
			return nil, err
		}
		return ast.IntComparison{Op: op, Left: left, Right: right}, nil
	}
	if isStringCompareOp(p.cur(), extended) {
		op := p.advance().Value
		right, err := p.parseWordExpr()
		if err != nil {
			return nil, err
		}
		return ast.StringComparison{Op: op, Left: left, Right: right}, nil
	}

	// No operator: a bare word tests for non-empty string, bash's `[ "$x" ]`
	// idiom.
	return ast.UnaryFileTest{Op: "-n", Operand: left}, nil
}

// isStringCompareOp recognizes both Word-lexed operators ("=", "!=",
// "==") and the lexicographic "<"/">" forms, which the lexer tokenizes as
// RedirectOp since it has no notion of test-expression context.
func isStringCompareOp(tok lexer.Token, extended bool) bool {
	switch tok.Kind {
	case lexer.Word:
		switch tok.Value {
		case "=", "!=", "==":
			return true
		}
	case lexer.RedirectOp:
		switch tok.Value {
		case "<", ">":
			return true
		}
	}
	return false
}
