// Package parser implements the recursive-descent bash parser: a flat
// token stream in, a typed *ast.Ast out, first unrecoverable syntax error
// aborting the whole parse. There are no partial trees.
package parser

import (
	"regexp"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/lexer"
	"github.com/shpurify/shpurify/internal/span"
)

var assignPrefix = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

type parser struct {
	toks []lexer.Token

	// Value positions into toks. pendingHeredocs holds fill-ins for
	// heredoc bodies whose owning RedirectOp/delimiter have already been
	// parsed; they are drained the moment the statement's terminating
	// newline is consumed, matching exactly where the lexer placed the
	// HeredocBody tokens in the stream.
	pos             int
	pendingHeredocs []*ast.Redirect
}

// Parse tokenizes and parses a complete bash source file.
func Parse(source string) (*ast.Ast, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.parseStmtList(func(k lexer.Kind) bool { return k == lexer.EOF })
	if err != nil {
		return nil, err
	}
	return &ast.Ast{
		Stmts:     stmts,
		LineCount: strings.Count(source, "\n") + 1,
	}, nil
}

// --- token helpers ---------------------------------------------------

func (p *parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) curKind() lexer.Kind { return p.toks[p.pos].Kind }

func (p *parser) at(k lexer.Kind) bool { return p.curKind() == k }

func (p *parser) atWord(value string) bool {
	return p.curKind() == lexer.Word && p.cur().Value == value
}

// advance consumes the current token and returns it. Draining heredoc
// bodies happens exactly here whenever the consumed token is a Newline,
// because that is precisely where the lexer inserted any pending
// HeredocBody tokens.
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	if t.Kind == lexer.Newline {
		p.drainHeredocs()
	}
	return t
}

func (p *parser) drainHeredocs() {
	for len(p.pendingHeredocs) > 0 {
		if p.curKind() != lexer.HeredocBody {
			// Nothing more on the stream for this line (e.g. the lexer
			// hit EOF while the heredoc producer already recorded an
			// UnterminatedHeredoc error upstream); stop without looping
			// forever.
			return
		}
		body := p.advanceRaw()
		r := p.pendingHeredocs[0]
		p.pendingHeredocs = p.pendingHeredocs[1:]
		r.Body = body.Value
	}
}

// advanceRaw consumes one token without heredoc-draining re-entrancy.
func (p *parser) advanceRaw() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.curKind() != k {
		return lexer.Token{}, errAt(p.cur().Span, "expected %s, found %q", what, p.cur().Value)
	}
	return p.advance(), nil
}

func (p *parser) expectWord(value string) error {
	if !p.atWord(value) {
		return errAt(p.cur().Span, "expected %q, found %q", value, p.cur().Value)
	}
	p.advance()
	return nil
}

// skipSeparators consumes any run of Semi/Newline tokens (blank
// statements), draining heredocs as each Newline is consumed.
func (p *parser) skipSeparators() {
	for p.at(lexer.Semi) || p.at(lexer.Newline) {
		p.advance()
	}
}

func isBlockEnd(v string) bool {
	switch v {
	case "fi", "then", "elif", "else", "done", "esac", "}":
		return true
	}
	return false
}

// --- statement-list parsing -------------------------------------------

// parseStmtList parses statements until stop(currentKind) is true, or a
// reserved word that ends an enclosing block is seen (checked here via
// isBlockEnd; stop handles EOF/")"/";;" style token-kind terminators).
func (p *parser) parseStmtList(stop func(lexer.Kind) bool) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		p.skipSeparators()
		if stop(p.curKind()) {
			return stmts, nil
		}
		if p.at(lexer.Word) && isBlockEnd(p.cur().Value) {
			return stmts, nil
		}
		if p.at(lexer.Comment) {
			tok := p.advance()
			stmts = append(stmts, &ast.Comment{StmtBase: ast.StmtBase{Sp: tok.Span}, Text: tok.Value})
			continue
		}
		stmt, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.consumeTerminator()
	}
}

// consumeTerminator eats at most one statement terminator (";", "&", or
// newline); background "&" is accepted but not represented distinctly in
// the AST since the core never executes scripts.
func (p *parser) consumeTerminator() {
	switch p.curKind() {
	case lexer.Semi, lexer.Amp, lexer.Newline:
		p.advance()
	}
}

// parseAndOr parses a left-associative "&&"/"||" boolean chain of
// pipelines.
func (p *parser) parseAndOr() (ast.Stmt, error) {
	left, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.AndAnd) || p.at(lexer.OrOr) {
		opTok := p.advance()
		p.skipSeparators()
		right, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		op := "&&"
		if opTok.Kind == lexer.OrOr {
			op = "||"
		}
		left = &ast.BoolChain{
			StmtBase: ast.StmtBase{Sp: span.New(left.Span().StartLine, left.Span().StartCol, right.Span().EndLine, right.Span().EndCol)},
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}
	return left, nil
}

// parsePipeline parses one or more commands joined by "|"/"|&", with an
// optional leading "!" negation.
func (p *parser) parsePipeline() (ast.Stmt, error) {
	negated := false
	startSpan := p.cur().Span
	if p.atWord("!") {
		negated = true
		p.advance()
	}
	first, err := p.parseCompoundOrSimple()
	if err != nil {
		return nil, err
	}
	cmds := []ast.Stmt{first}
	for p.at(lexer.Pipe) || p.at(lexer.PipeAmp) {
		p.advance()
		p.skipSeparators()
		next, err := p.parseCompoundOrSimple()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, next)
	}
	if len(cmds) == 1 && !negated {
		return first, nil
	}
	last := cmds[len(cmds)-1]
	return &ast.Pipeline{
		StmtBase: ast.StmtBase{Sp: span.New(startSpan.StartLine, startSpan.StartCol, last.Span().EndLine, last.Span().EndCol)},
		Commands: cmds,
		Negated:  negated,
	}, nil
}

// parseCompoundOrSimple parses exactly one "command position" unit:
// a keyword-led compound command, a brace group/subshell/test command,
// or a simple command (optionally preceded by assignment words).
func (p *parser) parseCompoundOrSimple() (ast.Stmt, error) {
	if p.at(lexer.Word) && lexer.IsReservedWord(p.cur().Value) {
		switch p.cur().Value {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "until":
			return p.parseUntil()
		case "for":
			return p.parseFor()
		case "case":
			return p.parseCase()
		case "select":
			return p.parseSelect()
		case "function":
			return p.parseFunction()
		case "coproc":
			return p.parseCoproc()
		}
	}
	if p.at(lexer.LBrace) {
		return p.parseBraceGroup()
	}
	if p.at(lexer.LParen) {
		return p.parseSubshell()
	}
	if p.at(lexer.ArithExpansion) {
		return p.parseArithCommand()
	}
	if p.at(lexer.DLBracket) {
		return p.parseTestCommand(true)
	}
	if p.at(lexer.LBracket) {
		return p.parseTestCommand(false)
	}
	// A bare Word identifier immediately followed by "()" is a function
	// definition in the alternate POSIX form `name() { ... }`.
	if p.at(lexer.Word) && !lexer.IsReservedWord(p.cur().Value) && p.toks[p.pos+1].Kind == lexer.LParen && p.toks[p.pos+2].Kind == lexer.RParen {
		return p.parsePosixFunction()
	}
	return p.parseSimpleOrAssignment()
}

// --- simple commands & assignments -------------------------------------

func (p *parser) parseSimpleOrAssignment() (ast.Stmt, error) {
	startSpan := p.cur().Span
	var leading []ast.Stmt
	exported := false
	local := false

	for p.atWord("export") || p.atWord("local") {
		if p.atWord("export") {
			exported = true
		} else {
			local = true
		}
		p.advance()
	}

	for {
		a, ok, err := p.tryParseAssignment(exported, local)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		leading = append(leading, a)
		exported, local = false, false
	}

	if p.isStatementBoundary() {
		if len(leading) == 1 {
			return leading[0], nil
		}
		if len(leading) > 1 {
			return &ast.BraceGroup{StmtBase: ast.StmtBase{Sp: startSpan}, Body: leading}, nil
		}
		return nil, errAt(p.cur().Span, "expected a command, found %q", p.cur().Value)
	}

	cmd, err := p.parseSimpleCommand()
	if err != nil {
		return nil, err
	}
	if len(leading) == 0 {
		return cmd, nil
	}
	leading = append(leading, cmd)
	return &ast.BraceGroup{StmtBase: ast.StmtBase{Sp: startSpan}, Body: leading}, nil
}

func (p *parser) isStatementBoundary() bool {
	switch p.curKind() {
	case lexer.Semi, lexer.Newline, lexer.EOF, lexer.Amp, lexer.Pipe, lexer.PipeAmp, lexer.AndAnd, lexer.OrOr, lexer.SemiSemi, lexer.SemiAmp, lexer.SemiSemiA:
		return true
	}
	if p.at(lexer.Word) && isBlockEnd(p.cur().Value) {
		return true
	}
	return false
}

// tryParseAssignment attempts to parse "NAME=value" (or "NAME[idx]=value")
// at the current position without consuming anything on failure.
func (p *parser) tryParseAssignment(exported, local bool) (*ast.Assignment, bool, error) {
	if !p.wordLike(p.curKind()) {
		return nil, false, nil
	}
	saved := p.pos
	startSpan := p.cur().Span
	expr, err := p.parseWordExpr()
	if err != nil {
		p.pos = saved
		return nil, false, nil
	}
	name, rest, ok := splitAssignment(expr)
	if !ok {
		p.pos = saved
		return nil, false, nil
	}
	return &ast.Assignment{
		StmtBase: ast.StmtBase{Sp: span.New(startSpan.StartLine, startSpan.StartCol, p.toks[p.pos-1].Span.EndLine, p.toks[p.pos-1].Span.EndCol)},
		Name:     name,
		Value:    rest,
		Exported: exported,
		Local:    local,
	}, true, nil
}

// splitAssignment checks whether expr's leading literal piece matches
// NAME= and, if so, splits it into the bare name and the remaining value
// expression (the text after "=" plus any following concatenated parts).
func splitAssignment(expr ast.Expr) (string, ast.Expr, bool) {
	var lit *ast.Literal
	var restParts []ast.Expr

	switch e := expr.(type) {
	case *ast.Literal:
		lit = e
	case *ast.Concat:
		if len(e.Parts) == 0 {
			return "", nil, false
		}
		first, ok := e.Parts[0].(*ast.Literal)
		if !ok {
			return "", nil, false
		}
		lit = first
		restParts = e.Parts[1:]
	default:
		return "", nil, false
	}

	loc := assignPrefix.FindStringIndex(lit.Value)
	if loc == nil {
		return "", nil, false
	}
	name := lit.Value[:loc[1]-1]
	remainder := lit.Value[loc[1]:]

	var parts []ast.Expr
	if remainder != "" {
		parts = append(parts, &ast.Literal{ExprBase: ast.ExprBase{Sp: lit.Sp}, Value: remainder})
	}
	parts = append(parts, restParts...)

	switch len(parts) {
	case 0:
		return name, &ast.Literal{ExprBase: ast.ExprBase{Sp: lit.Sp}, Value: ""}, true
	case 1:
		return name, parts[0], true
	default:
		return name, &ast.Concat{ExprBase: ast.ExprBase{Sp: lit.Sp}, Parts: parts}, true
	}
}

func (p *parser) parseSimpleCommand() (ast.Stmt, error) {
	startSpan := p.cur().Span
	nameExpr, err := p.parseWordExpr()
	if err != nil {
		return nil, err
	}
	name := exprText(nameExpr)

	cmd := &ast.Command{StmtBase: ast.StmtBase{Sp: startSpan}, Name: name}

	for !p.isStatementBoundary() {
		if ok, err := p.tryParseRedirect(cmd); err != nil {
			return nil, err
		} else if ok {
			continue
		}
		if !p.wordLike(p.curKind()) {
			break
		}
		arg, err := p.parseWordExpr()
		if err != nil {
			return nil, err
		}
		cmd.Args = append(cmd.Args, arg)
	}

	cmd.Sp = span.New(startSpan.StartLine, startSpan.StartCol, p.toks[p.pos-1].Span.EndLine, p.toks[p.pos-1].Span.EndCol)
	return cmd, nil
}

// exprText renders the textual command name from a (possibly Concat)
// word expression, used only for the Command.Name field.
func exprText(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		return v.Value
	case *ast.Glob:
		return v.Pattern
	case *ast.Variable:
		return "$" + v.Name
	case *ast.Concat:
		var sb strings.Builder
		for _, part := range v.Parts {
			sb.WriteString(exprText(part))
		}
		return sb.String()
	default:
		return ""
	}
}

func (p *parser) wordLike(k lexer.Kind) bool {
	switch k {
	case lexer.Word, lexer.SingleQuoted, lexer.DoubleQuoted, lexer.DollarQuoted,
		lexer.Variable, lexer.ParamExpansion, lexer.CommandSubst, lexer.Backtick,
		lexer.ArithExpansion:
		return true
	}
	return false
}
