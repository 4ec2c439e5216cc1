// Package emitter serializes a purified AST back to deterministic POSIX
// `#!/bin/sh` text. It never rejects a tree — every rejection (taint,
// non-portable construct) happens earlier in the pipeline — and the same
// tree always produces byte-identical output.
package emitter

import (
	"fmt"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
)

const indentWidth = 2

// Emit renders tree as POSIX sh source, always prefixed with the
// unconditional `#!/bin/sh` shebang line regardless of what the original
// script's shebang was (the purifier is what guarantees the tree contains
// nothing a POSIX sh can't run).
func Emit(tree *ast.Ast) string {
	e := &emitter{}
	e.buf.WriteString("#!/bin/sh\n")
	e.stmtList(tree.Stmts)
	out := e.buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

type emitter struct {
	buf    strings.Builder
	indent int
}

func (e *emitter) writeIndent() {
	e.buf.WriteString(strings.Repeat(" ", e.indent*indentWidth))
}

func (e *emitter) newline() {
	e.buf.WriteByte('\n')
}

// stmtList renders each statement on its own line at the current indent.
// Comment nodes whose text begins with "!" (shebang-like) are skipped so
// re-purifying already-purified output stays idempotent.
func (e *emitter) stmtList(stmts []ast.Stmt) {
	for _, s := range stmts {
		if c, ok := s.(*ast.Comment); ok && strings.HasPrefix(strings.TrimPrefix(c.Text, "#"), "!") {
			continue
		}
		e.writeIndent()
		e.stmt(s)
		e.newline()
	}
}

func (e *emitter) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Command:
		e.command(n)
	case *ast.Assignment:
		e.assignment(n)
	case *ast.Function:
		e.function(n)
	case *ast.If:
		e.ifStmt(n)
	case *ast.While:
		e.whileStmt(n, "while")
	case *ast.Until:
		// The purifier lowers Until to While before this point; this case
		// only fires for a tree that bypassed purification, and is
		// rendered literally so emission never fails.
		e.whileStmt(&ast.While{StmtBase: n.StmtBase, Condition: n.Condition, Body: n.Body, Redirects: n.Redirects}, "until")
	case *ast.For:
		e.forStmt(n)
	case *ast.ForCStyle:
		e.forCStyle(n)
	case *ast.Select:
		e.selectStmt(n)
	case *ast.Case:
		e.caseStmt(n)
	case *ast.Pipeline:
		e.pipeline(n)
	case *ast.BoolChain:
		e.boolChain(n)
	case *ast.BraceGroup:
		e.braceGroup(n)
	case *ast.Coproc:
		e.coproc(n)
	case *ast.Return:
		e.returnStmt(n)
	case *ast.Comment:
		e.buf.WriteString(n.Text)
	default:
		e.buf.WriteString(fmt.Sprintf("# unrenderable statement %T", s))
	}
}

func (e *emitter) assignment(a *ast.Assignment) {
	if a.Local {
		e.buf.WriteString("local ")
	}
	if a.Exported {
		e.buf.WriteString("export ")
	}
	e.buf.WriteString(a.Name)
	if a.Index != nil {
		e.buf.WriteByte('[')
		e.buf.WriteString(e.expr(a.Index, false))
		e.buf.WriteByte(']')
	}
	e.buf.WriteByte('=')
	if a.Value != nil {
		e.buf.WriteString(e.expr(a.Value, true))
	}
}

func (e *emitter) command(c *ast.Command) {
	switch c.Name {
	case "[", "[[":
		e.buf.WriteString(c.Name)
		e.buf.WriteByte(' ')
		if len(c.Args) == 1 {
			if t, ok := c.Args[0].(*ast.Test); ok {
				e.buf.WriteString(e.testExpr(t.Expr, t.Extended))
			}
		}
		e.buf.WriteByte(' ')
		if c.Name == "[" {
			e.buf.WriteString("]")
		} else {
			e.buf.WriteString("]]")
		}
		e.redirects(c.Redirects)
		return
	case "((":
		e.buf.WriteString("((")
		if len(c.Args) == 1 {
			if a, ok := c.Args[0].(*ast.Arithmetic); ok {
				e.buf.WriteString(e.arithExpr(a.Expr))
			}
		}
		e.buf.WriteString("))")
		e.redirects(c.Redirects)
		return
	}

	e.buf.WriteString(c.Name)
	for _, a := range c.Args {
		e.buf.WriteByte(' ')
		e.buf.WriteString(e.expr(a, true))
	}
	e.redirects(c.Redirects)
}

// heredocDelim is the fixed delimiter word used for every heredoc the
// emitter writes: the AST drops the original delimiter's text (the parser
// only preserves QuotedDelim, the quoting fact it needs for expansion
// rules), so one canonical word keeps emission deterministic.
const heredocDelim = "EOF"

func (e *emitter) redirects(rs []ast.Redirect) {
	var heredocs []ast.Redirect
	for _, r := range rs {
		e.buf.WriteByte(' ')
		if r.Fd >= 0 {
			fmt.Fprintf(&e.buf, "%d", r.Fd)
		}
		e.buf.WriteString(string(r.Direction))
		switch r.Direction {
		case ast.RedirectHeredoc, ast.RedirectHeredocTab:
			e.buf.WriteByte(' ')
			if r.QuotedDelim {
				e.buf.WriteString("'" + heredocDelim + "'")
			} else {
				e.buf.WriteString(heredocDelim)
			}
			heredocs = append(heredocs, r)
		default:
			if r.Target != nil {
				e.buf.WriteByte(' ')
				e.buf.WriteString(e.expr(r.Target, true))
			}
		}
	}
	for _, r := range heredocs {
		e.newline()
		e.buf.WriteString(r.Body)
		if !strings.HasSuffix(r.Body, "\n") {
			e.newline()
		}
		e.buf.WriteString(heredocDelim)
	}
}

func (e *emitter) function(f *ast.Function) {
	e.buf.WriteString(f.Name)
	e.buf.WriteString("() {")
	e.newline()
	e.indent++
	e.stmtList(f.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("}")
}

func (e *emitter) condList(cond []ast.Stmt) {
	for i, c := range cond {
		if i > 0 {
			e.buf.WriteString("; ")
		}
		e.stmt(c)
	}
}

func (e *emitter) ifStmt(n *ast.If) {
	e.buf.WriteString("if ")
	e.condList(n.Condition)
	e.buf.WriteString("; then")
	e.newline()
	e.indent++
	e.stmtList(n.Then)
	e.indent--

	for _, arm := range n.ElifArms {
		e.writeIndent()
		e.buf.WriteString("elif ")
		e.condList(arm.Condition)
		e.buf.WriteString("; then")
		e.newline()
		e.indent++
		e.stmtList(arm.Body)
		e.indent--
	}

	if n.Else != nil {
		e.writeIndent()
		e.buf.WriteString("else")
		e.newline()
		e.indent++
		e.stmtList(n.Else)
		e.indent--
	}

	e.writeIndent()
	e.buf.WriteString("fi")
	e.redirects(n.Redirects)
}

func (e *emitter) whileStmt(n *ast.While, keyword string) {
	e.buf.WriteString(keyword + " ")
	e.condList(n.Condition)
	e.buf.WriteString("; do")
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("done")
	e.redirects(n.Redirects)
}

func (e *emitter) forStmt(n *ast.For) {
	e.buf.WriteString("for " + n.Variable)
	if n.Items != nil {
		e.buf.WriteString(" in")
		for _, item := range flattenItems(n.Items) {
			e.buf.WriteByte(' ')
			e.buf.WriteString(e.expr(item, false))
		}
	}
	e.buf.WriteString("; do")
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("done")
	e.redirects(n.Redirects)
}

func flattenItems(items ast.Expr) []ast.Expr {
	if arr, ok := items.(*ast.Array); ok {
		return arr.Elements
	}
	return []ast.Expr{items}
}

// forCStyle renders a raw `for ((init; cond; incr))` clause. Purified trees
// never reach this path (the purifier lowers ForCStyle to a brace-grouped
// While); it is kept so emitting an unpurified tree still produces valid
// output.
func (e *emitter) forCStyle(n *ast.ForCStyle) {
	fmt.Fprintf(&e.buf, "for ((%s; %s; %s)); do", n.Init, n.Cond, n.Incr)
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("done")
	e.redirects(n.Redirects)
}

// selectStmt renders a raw bash `select`. As with ForCStyle, a purified
// tree never contains one directly (the purifier either rejects Select or
// lowers it to a While); this exists only for defense in depth.
func (e *emitter) selectStmt(n *ast.Select) {
	e.buf.WriteString("select " + n.Variable)
	if n.Items != nil {
		e.buf.WriteString(" in")
		for _, item := range flattenItems(n.Items) {
			e.buf.WriteByte(' ')
			e.buf.WriteString(e.expr(item, false))
		}
	}
	e.buf.WriteString("; do")
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("done")
	e.redirects(n.Redirects)
}

func (e *emitter) caseStmt(n *ast.Case) {
	e.buf.WriteString("case ")
	e.buf.WriteString(e.expr(n.Word, true))
	e.buf.WriteString(" in")
	e.newline()
	e.indent++
	for _, arm := range n.Arms {
		e.writeIndent()
		e.buf.WriteString(strings.Join(arm.Patterns, " | "))
		e.buf.WriteString(")")
		e.newline()
		e.indent++
		e.stmtList(arm.Body)
		e.writeIndent()
		e.buf.WriteString(";;")
		e.newline()
		e.indent--
	}
	e.indent--
	e.writeIndent()
	e.buf.WriteString("esac")
	e.redirects(n.Redirects)
}

func (e *emitter) pipeline(n *ast.Pipeline) {
	if n.Negated {
		e.buf.WriteString("! ")
	}
	for i, c := range n.Commands {
		if i > 0 {
			e.buf.WriteString(" | ")
		}
		e.stmt(c)
	}
}

func (e *emitter) boolChain(n *ast.BoolChain) {
	e.stmt(n.Left)
	e.buf.WriteString(" " + n.Operator + " ")
	e.stmt(n.Right)
}

func (e *emitter) braceGroup(n *ast.BraceGroup) {
	if n.Subshell {
		e.buf.WriteString("(")
	} else {
		e.buf.WriteString("{")
	}
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	if n.Subshell {
		e.buf.WriteString(")")
	} else {
		e.buf.WriteString("}")
	}
	e.redirects(n.Redirects)
}

func (e *emitter) coproc(n *ast.Coproc) {
	e.buf.WriteString("coproc ")
	if n.Name != "" {
		e.buf.WriteString(n.Name + " ")
	}
	e.buf.WriteString("{")
	e.newline()
	e.indent++
	e.stmtList(n.Body)
	e.indent--
	e.writeIndent()
	e.buf.WriteString("}")
}

func (e *emitter) returnStmt(n *ast.Return) {
	e.buf.WriteString("return")
	if n.Code != nil {
		e.buf.WriteByte(' ')
		e.buf.WriteString(e.expr(n.Code, false))
	}
}
