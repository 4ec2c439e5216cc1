package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/lexer"
	"github.com/shpurify/shpurify/internal/span"
)

var simpleIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const specialVarChars = "@*#?-$!"

// parseWordExpr parses one word position, merging any directly-adjacent
// (SpaceBefore == false) tokens into a Concat, matching how bash treats
// e.g. "foo"$bar'baz' as a single word.
func (p *parser) parseWordExpr() (ast.Expr, error) {
	first, err := p.parseWordPiece()
	if err != nil {
		return nil, err
	}
	parts := []ast.Expr{first}
	for p.wordLike(p.curKind()) && !p.cur().SpaceBefore {
		next, err := p.parseWordPiece()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &ast.Concat{
		ExprBase: ast.ExprBase{Sp: span2(parts[0].Span(), parts[len(parts)-1].Span())},
		Parts:    parts,
	}, nil
}

func (p *parser) parseWordPiece() (ast.Expr, error) {
	tok := p.advance()
	base := ast.ExprBase{Sp: tok.Span}

	switch tok.Kind {
	case lexer.Word:
		if strings.ContainsAny(tok.Value, "*?[") {
			return &ast.Glob{ExprBase: base, Pattern: tok.Value}, nil
		}
		return &ast.Literal{ExprBase: base, Value: tok.Value}, nil

	case lexer.SingleQuoted:
		return &ast.Literal{ExprBase: base, Value: tok.Value}, nil

	case lexer.DollarQuoted:
		return &ast.Literal{ExprBase: base, Value: unescapeAnsiC(tok.Value)}, nil

	case lexer.DoubleQuoted:
		return parseDoubleQuotedInner(tok.Value, tok.Span)

	case lexer.Variable:
		return &ast.Variable{ExprBase: base, Name: tok.Value}, nil

	case lexer.ParamExpansion:
		return parseParamExpansionBody(tok.Value, tok.Span)

	case lexer.CommandSubst, lexer.Backtick:
		body, _ := Parse(tok.Value)
		var stmts []ast.Stmt
		if body != nil {
			stmts = body.Stmts
		}
		return &ast.CommandSubst{ExprBase: base, Body: stmts, Raw: tok.Value, Backtick: tok.Kind == lexer.Backtick}, nil

	case lexer.ArithExpansion:
		expr, err := parseArithText(tok.Value)
		if err != nil {
			return nil, errAt(tok.Span, "%s", err.Error())
		}
		return &ast.Arithmetic{ExprBase: base, Expr: expr}, nil

	default:
		return nil, errAt(tok.Span, "unexpected token %q in word position", tok.Value)
	}
}

func unescapeAnsiC(s string) string {
	r := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`, `\'`, "'")
	return r.Replace(s)
}

// parseDoubleQuotedInner scans the raw text between `"` and `"` for
// unescaped "$" expansions, splitting it into a Literal/Concat tree. Only
// the four double-quote-significant escapes ($ ` " \) and a trailing
// backslash-newline are unescaped; any other backslash is left literal,
// matching POSIX double-quote semantics.
func parseDoubleQuotedInner(raw string, baseSpan span.Span) (ast.Expr, error) {
	var parts []ast.Expr
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, &ast.Literal{ExprBase: ast.ExprBase{Sp: baseSpan}, Value: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			next := raw[i+1]
			switch next {
			case '$', '`', '"', '\\':
				lit.WriteByte(next)
				i += 2
				continue
			case '\n':
				i += 2
				continue
			default:
				lit.WriteByte('\\')
				i++
				continue
			}
		}
		if c == '$' && i+1 < len(raw) {
			flush()
			expr, consumed, err := scanDollarForm(raw[i:], baseSpan)
			if err != nil {
				return nil, err
			}
			parts = append(parts, expr)
			i += consumed
			continue
		}
		lit.WriteByte(c)
		i++
	}
	flush()

	switch len(parts) {
	case 0:
		return &ast.Literal{ExprBase: ast.ExprBase{Sp: baseSpan}, Value: ""}, nil
	case 1:
		return parts[0], nil
	default:
		return &ast.Concat{ExprBase: ast.ExprBase{Sp: baseSpan}, Parts: parts}, nil
	}
}

// scanDollarForm parses one "$..." expansion starting at s[0]=='$' and
// returns the expression plus the number of bytes of s it consumed.
func scanDollarForm(s string, baseSpan span.Span) (ast.Expr, int, error) {
	base := ast.ExprBase{Sp: baseSpan}

	if len(s) >= 2 && s[1] == '(' {
		depth := 1
		j := 2
		for j < len(s) && depth > 0 {
			switch s[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		inner := s[2 : j-1]
		body, _ := Parse(inner)
		var stmts []ast.Stmt
		if body != nil {
			stmts = body.Stmts
		}
		return &ast.CommandSubst{ExprBase: base, Body: stmts, Raw: inner}, j, nil
	}

	if len(s) >= 2 && s[1] == '{' {
		depth := 1
		j := 2
		for j < len(s) && depth > 0 {
			switch s[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		inner := s[2 : j-1]
		expr, err := parseParamExpansionBody(inner, baseSpan)
		if err != nil {
			return nil, 0, err
		}
		return expr, j, nil
	}

	c := s[1]
	if strings.ContainsRune(specialVarChars, rune(c)) {
		return &ast.Variable{ExprBase: base, Name: string(c)}, 2, nil
	}
	if c >= '0' && c <= '9' {
		return &ast.Variable{ExprBase: base, Name: string(c)}, 2, nil
	}
	if c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		j := 1
		for j < len(s) {
			ch := s[j]
			if ch == '_' || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
				j++
				continue
			}
			break
		}
		return &ast.Variable{ExprBase: base, Name: s[1:j]}, j, nil
	}
	return &ast.Literal{ExprBase: base, Value: "$"}, 1, nil
}

// parseParamExpansionBody turns the inner text of "${...}" into the
// matching BashExpr variant.
func parseParamExpansionBody(inner string, baseSpan span.Span) (ast.Expr, error) {
	base := ast.ExprBase{Sp: baseSpan}

	if strings.HasPrefix(inner, "#") && len(inner) > 1 && isBareVarName(inner[1:]) {
		return &ast.StringLength{ExprBase: base, Var: inner[1:]}, nil
	}
	if isBareVarName(inner) {
		return &ast.Variable{ExprBase: base, Name: inner}, nil
	}

	name, rest := splitVarName(inner)
	if name == "" {
		// Unrecognized / array-indexed form: preserve the raw text
		// verbatim as the Variable's name so round-tripping is still
		// possible even though the structure isn't modeled.
		return &ast.Variable{ExprBase: base, Name: inner}, nil
	}

	mk := func(text string) (ast.Expr, error) {
		return parseDoubleQuotedInner(text, baseSpan)
	}

	switch {
	case strings.HasPrefix(rest, ":-"):
		d, err := mk(rest[2:])
		if err != nil {
			return nil, err
		}
		return &ast.DefaultValue{ExprBase: base, Var: name, Default: d}, nil
	case strings.HasPrefix(rest, ":="):
		d, err := mk(rest[2:])
		if err != nil {
			return nil, err
		}
		return &ast.AssignDefault{ExprBase: base, Var: name, Default: d}, nil
	case strings.HasPrefix(rest, ":?"):
		d, err := mk(rest[2:])
		if err != nil {
			return nil, err
		}
		return &ast.ErrorIfUnset{ExprBase: base, Var: name, Message: d}, nil
	case strings.HasPrefix(rest, ":+"):
		d, err := mk(rest[2:])
		if err != nil {
			return nil, err
		}
		return &ast.AlternativeValue{ExprBase: base, Var: name, Alt: d}, nil
	case strings.HasPrefix(rest, "##"):
		return &ast.RemoveLongestPrefix{ExprBase: base, Var: name, Pattern: rest[2:]}, nil
	case strings.HasPrefix(rest, "#"):
		return &ast.RemovePrefix{ExprBase: base, Var: name, Pattern: rest[1:]}, nil
	case strings.HasPrefix(rest, "%%"):
		return &ast.RemoveLongestSuffix{ExprBase: base, Var: name, Pattern: rest[2:]}, nil
	case strings.HasPrefix(rest, "%"):
		return &ast.RemoveSuffix{ExprBase: base, Var: name, Pattern: rest[1:]}, nil
	default:
		// Unrecognized operator (array index, case-modifier, etc.): fall
		// back to a default-value node carrying the raw remainder so the
		// information isn't silently dropped.
		d, err := mk(rest)
		if err != nil {
			return nil, err
		}
		return &ast.DefaultValue{ExprBase: base, Var: name, Default: d}, nil
	}
}

func isBareVarName(s string) bool {
	if simpleIdent.MatchString(s) {
		return true
	}
	if len(s) == 1 && strings.ContainsRune(specialVarChars, rune(s[0])) {
		return true
	}
	if _, err := strconv.Atoi(s); err == nil {
		return true
	}
	return false
}

// splitVarName splits inner into its leading variable-name run and the
// remaining operator+pattern text.
func splitVarName(inner string) (string, string) {
	if inner == "" {
		return "", ""
	}
	if inner[0] >= '0' && inner[0] <= '9' {
		j := 0
		for j < len(inner) && inner[j] >= '0' && inner[j] <= '9' {
			j++
		}
		return inner[:j], inner[j:]
	}
	if inner[0] == '_' || (inner[0] >= 'A' && inner[0] <= 'Z') || (inner[0] >= 'a' && inner[0] <= 'z') {
		j := 0
		for j < len(inner) {
			c := inner[j]
			if c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
				j++
				continue
			}
			break
		}
		return inner[:j], inner[j:]
	}
	if strings.ContainsRune(specialVarChars, rune(inner[0])) {
		return inner[:1], inner[1:]
	}
	return "", inner
}
