package emitter

import (
	"fmt"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
)

// shellMeta are characters that force an argument to be quoted per spec.md
// §4.5's "contains whitespace, $, or shell metacharacters" rule.
const shellMeta = " \t\n$`\"'\\;&|()<>*?[]{}~#"

// expr renders e as POSIX sh source. quoteVars controls whether a bare
// Variable is wrapped in double quotes — the default everywhere an
// argument or assignment value is rendered (spec.md §4.5 rule 4). Case
// words, redirect targets and test operands also pass true; for/select
// item lists, array indexes, return codes, and the parts of a Concat or of
// a parameter-expansion operand pass false.
func (e *emitter) expr(ex ast.Expr, quoteVars bool) string {
	if ex == nil {
		return ""
	}
	switch n := ex.(type) {
	case *ast.Literal:
		return quoteLiteral(n.Value)

	case *ast.Glob:
		return n.Pattern

	case *ast.Variable:
		if quoteVars {
			return fmt.Sprintf("\"$%s\"", n.Name)
		}
		return "$" + n.Name

	case *ast.Array:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = e.expr(el, quoteVars)
		}
		return "(" + strings.Join(parts, " ") + ")"

	case *ast.Concat:
		var b strings.Builder
		for _, p := range n.Parts {
			b.WriteString(e.expr(p, false))
		}
		return b.String()

	case *ast.CommandSubst:
		var inner strings.Builder
		sub := &emitter{}
		sub.stmtList(n.Body)
		inner.WriteString(strings.TrimSuffix(sub.buf.String(), "\n"))
		return "$(" + inner.String() + ")"

	case *ast.Arithmetic:
		return "$((" + e.arithExpr(n.Expr) + "))"

	case *ast.DefaultValue:
		return fmt.Sprintf("${%s:-%s}", n.Var, e.expr(n.Default, false))

	case *ast.AssignDefault:
		return fmt.Sprintf("${%s:=%s}", n.Var, e.expr(n.Default, false))

	case *ast.ErrorIfUnset:
		return fmt.Sprintf("${%s:?%s}", n.Var, quotedMessage(e.expr(n.Message, false)))

	case *ast.AlternativeValue:
		return fmt.Sprintf("${%s:+%s}", n.Var, e.expr(n.Alt, false))

	case *ast.StringLength:
		return fmt.Sprintf("${#%s}", n.Var)

	case *ast.RemovePrefix:
		return fmt.Sprintf("${%s#%s}", n.Var, n.Pattern)

	case *ast.RemoveLongestPrefix:
		return fmt.Sprintf("${%s##%s}", n.Var, n.Pattern)

	case *ast.RemoveSuffix:
		return fmt.Sprintf("${%s%%%s}", n.Var, n.Pattern)

	case *ast.RemoveLongestSuffix:
		return fmt.Sprintf("${%s%%%%%s}", n.Var, n.Pattern)

	case *ast.Test:
		return e.testExpr(n.Expr, n.Extended)

	default:
		return fmt.Sprintf("<unrenderable expr %T>", ex)
	}
}

// quoteLiteral wraps a bare literal in double quotes whenever it contains
// whitespace or a shell metacharacter; otherwise it is emitted verbatim.
// Glob expressions use the Glob node instead and are never quoted, since
// quoting would disable the wildcard.
func quoteLiteral(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsAny(v, shellMeta) {
		return v
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`").Replace(v) + `"`
}

// quotedMessage wraps an already-rendered ${v:?msg} message in single
// quotes per spec.md §4.5 rule 5's exact form `${v:?'msg'}`, unless it is
// empty (bash's default "parameter null or not set" message applies).
func quotedMessage(rendered string) string {
	if rendered == "" {
		return ""
	}
	return "'" + rendered + "'"
}

func (e *emitter) arithExpr(a ast.ArithExpr) string {
	switch n := a.(type) {
	case ast.Number:
		return fmt.Sprintf("%d", n.Value)
	case ast.ArithVariable:
		return n.Name
	case ast.BinaryOp:
		return fmt.Sprintf("%s %s %s", e.arithExpr(n.Left), n.Op, e.arithExpr(n.Right))
	case ast.Assign:
		return fmt.Sprintf("%s %s %s", n.Name, n.Op, e.arithExpr(n.Expr))
	case ast.Sequence:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = e.arithExpr(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("<unrenderable arith %T>", a)
	}
}

func (e *emitter) testExpr(t ast.TestExpr, extended bool) string {
	andOp, orOp := "-a", "-o"
	if extended {
		andOp, orOp = "&&", "||"
	}
	switch n := t.(type) {
	case ast.UnaryFileTest:
		return fmt.Sprintf("%s %s", n.Op, e.expr(n.Operand, true))
	case ast.StringComparison:
		return fmt.Sprintf("%s %s %s", e.expr(n.Left, true), n.Op, e.expr(n.Right, true))
	case ast.IntComparison:
		return fmt.Sprintf("%s %s %s", e.expr(n.Left, true), n.Op, e.expr(n.Right, true))
	case ast.Not:
		return "! " + e.testExpr(n.Expr, extended)
	case ast.And:
		return fmt.Sprintf("%s %s %s", e.testExpr(n.Left, extended), andOp, e.testExpr(n.Right, extended))
	case ast.Or:
		return fmt.Sprintf("%s %s %s", e.testExpr(n.Left, extended), orOp, e.testExpr(n.Right, extended))
	case ast.Paren:
		return "( " + e.testExpr(n.Expr, extended) + " )"
	default:
		return fmt.Sprintf("<unrenderable test %T>", t)
	}
}
