package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
)

// ParseArithText parses the raw text of a standalone arithmetic clause
// (e.g. one of a ForCStyle loop's Init/Cond/Incr strings) into an
// ast.ArithExpr, for callers outside this package — namely the purifier,
// which lowers ForCStyle into a While loop and needs to turn that raw text
// into structured expressions it can rewrite and re-emit.
func ParseArithText(text string) (ast.ArithExpr, error) {
	return parseArithText(text)
}

// parseArithText parses the raw inner text of a `$((...))` / bare
// `((...))` arithmetic expansion. It is a small, self-contained
// expression parser over plain text rather than the main bash token
// stream, since arithmetic syntax ("i<10", "i++") does not lex cleanly
// under bash's own token rules.
func parseArithText(text string) (ast.ArithExpr, error) {
	toks, err := arithTokenize(text)
	if err != nil {
		return nil, err
	}
	ap := &arithParser{toks: toks}
	expr, err := ap.parseSequence()
	if err != nil {
		return nil, err
	}
	if ap.pos != len(ap.toks)-1 {
		return nil, fmt.Errorf("unexpected trailing arithmetic token %q", ap.cur().text)
	}
	return expr, nil
}

type arithTokKind int

const (
	arithNumber arithTokKind = iota
	arithIdent
	arithOp
	arithLParen
	arithRParen
	arithComma
	arithEOF
)

type arithTok struct {
	kind arithTokKind
	text string
}

func arithTokenize(s string) ([]arithTok, error) {
	var toks []arithTok
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			toks = append(toks, arithTok{arithNumber, s[i:j]})
			i = j
		case c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			j := i
			for j < len(s) && (s[j] == '_' || (s[j] >= 'A' && s[j] <= 'Z') || (s[j] >= 'a' && s[j] <= 'z') || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			toks = append(toks, arithTok{arithIdent, s[i:j]})
			i = j
		case c == '$':
			// Arithmetic context allows an optional leading "$" on
			// variable references too; skip it, the identifier that
			// follows is tokenized on the next loop iteration.
			i++
		case c == '(':
			toks = append(toks, arithTok{arithLParen, "("})
			i++
		case c == ')':
			toks = append(toks, arithTok{arithRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, arithTok{arithComma, ","})
			i++
		default:
			op, n := arithOperatorAt(s[i:])
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q in arithmetic expression", c)
			}
			toks = append(toks, arithTok{arithOp, op})
			i += n
		}
	}
	toks = append(toks, arithTok{arithEOF, ""})
	return toks, nil
}

func arithOperatorAt(s string) (string, int) {
	two := map[string]bool{"==": true, "!=": true, "<=": true, ">=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "&&": true, "||": true}
	if len(s) >= 2 && two[s[:2]] {
		return s[:2], 2
	}
	one := "+-*/%<>=!"
	if strings.IndexByte(one, s[0]) >= 0 {
		return s[:1], 1
	}
	return "", 0
}

type arithParser struct {
	toks []arithTok
	pos  int
}

func (p *arithParser) cur() arithTok { return p.toks[p.pos] }

func (p *arithParser) advance() arithTok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// parseSequence handles comma-separated clauses, e.g. a multi-statement
// for-loop init `i=0, j=10`.
func (p *arithParser) parseSequence() (ast.ArithExpr, error) {
	first, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	items := []ast.ArithExpr{first}
	for p.cur().kind == arithComma {
		p.advance()
		next, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return ast.Sequence{Items: items}, nil
}

func (p *arithParser) parseAssign() (ast.ArithExpr, error) {
	if p.cur().kind == arithIdent {
		name := p.cur().text
		next := p.toks[p.pos+1]
		if next.kind == arithOp {
			switch next.text {
			case "=", "+=", "-=", "*=", "/=", "%=":
				p.advance() // ident
				op := p.advance().text
				rhs, err := p.parseComparison()
				if err != nil {
					return nil, err
				}
				return ast.Assign{Name: name, Op: op, Expr: rhs}, nil
			}
		}
	}
	return p.parseComparison()
}

func (p *arithParser) parseComparison() (ast.ArithExpr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == arithOp && isComparisonOp(p.cur().text) {
		op := p.advance().text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func isComparisonOp(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}

func (p *arithParser) parseAdditive() (ast.ArithExpr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == arithOp && (p.cur().text == "+" || p.cur().text == "-") {
		op := p.advance().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *arithParser) parseMultiplicative() (ast.ArithExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == arithOp && (p.cur().text == "*" || p.cur().text == "/" || p.cur().text == "%") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *arithParser) parseUnary() (ast.ArithExpr, error) {
	if p.cur().kind == arithOp && p.cur().text == "-" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.BinaryOp{Op: "-", Left: ast.Number{Value: 0}, Right: operand}, nil
	}
	if p.cur().kind == arithOp && p.cur().text == "!" {
		p.advance()
		_, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Number{Value: 0}, nil
	}
	return p.parsePrimary()
}

func (p *arithParser) parsePrimary() (ast.ArithExpr, error) {
	tok := p.cur()
	switch tok.kind {
	case arithNumber:
		p.advance()
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, err
		}
		return ast.Number{Value: n}, nil
	case arithIdent:
		p.advance()
		// Postfix ++ / -- (lexed as two "+"/"-" operator tokens).
		if p.cur().kind == arithOp && (p.cur().text == "+" || p.cur().text == "-") {
			op := p.cur().text
			if p.toks[p.pos+1].kind == arithOp && p.toks[p.pos+1].text == op {
				p.advance()
				p.advance()
				return ast.Assign{Name: tok.text, Op: op + "=", Expr: ast.Number{Value: 1}}, nil
			}
		}
		return ast.ArithVariable{Name: tok.text}, nil
	case arithLParen:
		p.advance()
		inner, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != arithRParen {
			return nil, fmt.Errorf("expected ) in arithmetic expression, found %q", p.cur().text)
		}
		p.advance()
		return inner, nil
	default:
		return nil, fmt.Errorf("unexpected token %q in arithmetic expression", tok.text)
	}
}
