package purifier

import (
	"fmt"

	"github.com/shpurify/shpurify/internal/ast"
)

// purifyExpr recursively purifies an expression, replacing nondeterministic
// variable references per the data-driven table and recursing into every
// compound expression shape.
func (p *Purifier) purifyExpr(e ast.Expr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch n := e.(type) {
	case *ast.Variable:
		if repl, ok := p.nonDetVars[n.Name]; ok {
			if p.options.RemoveNonDeterministic {
				p.report.DeterminismFixes = append(p.report.DeterminismFixes, fmt.Sprintf("removed non-deterministic variable: $%s", n.Name))
				return repl, nil
			}
			if p.options.StrictIdempotency {
				return nil, nonDeterministic("variable $%s is non-deterministic", n.Name)
			}
		}
		return n, nil

	case *ast.CommandSubst:
		p.report.Warnings = append(p.report.Warnings, "command substitution detected, may affect determinism")
		if isDateCall(n.Body) {
			if p.options.RemoveNonDeterministic {
				p.report.DeterminismFixes = append(p.report.DeterminismFixes, "replaced $(date ...) with a fixed literal for determinism")
				return &ast.Literal{ExprBase: n.ExprBase, Value: "0"}, nil
			}
			if p.options.StrictIdempotency {
				return nil, nonDeterministic("command substitution of 'date' is non-deterministic")
			}
		}
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Body = body
		return &cp, nil

	case *ast.Array:
		items := make([]ast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			pe, err := p.purifyExpr(el)
			if err != nil {
				return nil, err
			}
			items[i] = pe
		}
		cp := *n
		cp.Elements = items
		return &cp, nil

	case *ast.Concat:
		parts := make([]ast.Expr, len(n.Parts))
		for i, part := range n.Parts {
			pp, err := p.purifyExpr(part)
			if err != nil {
				return nil, err
			}
			parts[i] = pp
		}
		cp := *n
		cp.Parts = parts
		return &cp, nil

	case *ast.Test:
		pt, err := p.purifyTestExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Expr = pt
		return &cp, nil

	case *ast.Arithmetic:
		cp := *n
		cp.Expr = p.purifyArith(n.Expr)
		return &cp, nil

	case *ast.Literal, *ast.Glob:
		return n, nil

	case *ast.DefaultValue:
		p.noteParamExpansionVar(n.Var, "default value")
		d, err := p.purifyExpr(n.Default)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Default = d
		return &cp, nil

	case *ast.AssignDefault:
		p.noteParamExpansionVar(n.Var, "assign default")
		d, err := p.purifyExpr(n.Default)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Default = d
		return &cp, nil

	case *ast.ErrorIfUnset:
		p.noteParamExpansionVar(n.Var, "error-if-unset")
		m, err := p.purifyExpr(n.Message)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Message = m
		return &cp, nil

	case *ast.AlternativeValue:
		p.noteParamExpansionVar(n.Var, "alternative value")
		a, err := p.purifyExpr(n.Alt)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Alt = a
		return &cp, nil

	case *ast.StringLength:
		p.noteParamExpansionVar(n.Var, "string length")
		return n, nil

	case *ast.RemovePrefix:
		p.noteParamExpansionVar(n.Var, "remove prefix")
		return n, nil

	case *ast.RemoveLongestPrefix:
		p.noteParamExpansionVar(n.Var, "remove longest prefix")
		return n, nil

	case *ast.RemoveSuffix:
		p.noteParamExpansionVar(n.Var, "remove suffix")
		return n, nil

	case *ast.RemoveLongestSuffix:
		p.noteParamExpansionVar(n.Var, "remove longest suffix")
		return n, nil

	default:
		return n, nil
	}
}

// noteParamExpansionVar records a determinism fix when a parameter
// expansion's variable name is one of the nondeterministic set — the
// expansion structure itself is left intact (spec.md §4.3: "leave the
// expansion structure intact").
func (p *Purifier) noteParamExpansionVar(name, kind string) {
	if _, ok := p.nonDetVars[name]; ok {
		p.report.DeterminismFixes = append(p.report.DeterminismFixes, fmt.Sprintf("%s expansion uses non-deterministic variable: $%s", kind, name))
	}
}

// isDateCall reports whether body is exactly one `date ...` command,
// the purifier-side counterpart of the DET002 lint rule.
func isDateCall(body []ast.Stmt) bool {
	if len(body) != 1 {
		return false
	}
	cmd, ok := body[0].(*ast.Command)
	return ok && cmd.Name == "date"
}

func (p *Purifier) purifyTestExpr(t ast.TestExpr) (ast.TestExpr, error) {
	switch n := t.(type) {
	case ast.StringComparison:
		l, err := p.purifyExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := p.purifyExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.StringComparison{Op: n.Op, Left: l, Right: r}, nil

	case ast.IntComparison:
		l, err := p.purifyExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := p.purifyExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.IntComparison{Op: n.Op, Left: l, Right: r}, nil

	case ast.UnaryFileTest:
		o, err := p.purifyExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return ast.UnaryFileTest{Op: n.Op, Operand: o}, nil

	case ast.Not:
		inner, err := p.purifyTestExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: inner}, nil

	case ast.And:
		l, err := p.purifyTestExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := p.purifyTestExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.And{Left: l, Right: r}, nil

	case ast.Or:
		l, err := p.purifyTestExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := p.purifyTestExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.Or{Left: l, Right: r}, nil

	case ast.Paren:
		inner, err := p.purifyTestExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return ast.Paren{Expr: inner}, nil

	default:
		return t, nil
	}
}

func (p *Purifier) purifyArith(a ast.ArithExpr) ast.ArithExpr {
	switch n := a.(type) {
	case ast.ArithVariable:
		if repl, ok := p.nonDetArith[n.Name]; ok && p.options.RemoveNonDeterministic {
			p.report.DeterminismFixes = append(p.report.DeterminismFixes, fmt.Sprintf("removed non-deterministic variable in arithmetic: %s", n.Name))
			return repl
		}
		return n

	case ast.BinaryOp:
		return ast.BinaryOp{Op: n.Op, Left: p.purifyArith(n.Left), Right: p.purifyArith(n.Right)}

	case ast.Assign:
		return ast.Assign{Name: n.Name, Op: n.Op, Expr: p.purifyArith(n.Expr)}

	case ast.Sequence:
		items := make([]ast.ArithExpr, len(n.Items))
		for i, item := range n.Items {
			items[i] = p.purifyArith(item)
		}
		return ast.Sequence{Items: items}

	case ast.Number:
		return n

	default:
		return a
	}
}
