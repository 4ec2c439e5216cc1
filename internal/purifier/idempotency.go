package purifier

import (
	"fmt"
	"strings"

	"github.com/shpurify/shpurify/internal/ast"
)

// readOnlyHeads never need an idempotency rewrite; they have no
// side-effecting state to make safe to re-run.
var readOnlyHeads = map[string]bool{
	"echo": true, "cat": true, "ls": true, "grep": true, "sed": true,
	"awk": true, "printf": true, "head": true, "tail": true, "wc": true,
	"pwd": true, "basename": true, "dirname": true, "true": true, "false": true,
	"test": true, "[": true,
}

// purifyCommand applies the idempotency policy by command head (spec.md
// §4.3's table) and recursively purifies the Test/Arithmetic expressions
// pragmatically encoded as Command{Name: "[" | "[[" | "((", ...} by the
// parser, alongside every ordinary argument.
func (p *Purifier) purifyCommand(cmd *ast.Command) (ast.Stmt, error) {
	switch cmd.Name {
	case "[", "[[":
		if len(cmd.Args) == 1 {
			if t, ok := cmd.Args[0].(*ast.Test); ok {
				pt, err := p.purifyTestExpr(t.Expr)
				if err != nil {
					return nil, err
				}
				cp := *cmd
				cp.Args = []ast.Expr{&ast.Test{ExprBase: t.ExprBase, Expr: pt, Extended: t.Extended}}
				return &cp, nil
			}
		}
		return cmd, nil

	case "((":
		if len(cmd.Args) == 1 {
			if a, ok := cmd.Args[0].(*ast.Arithmetic); ok {
				pa := p.purifyArith(a.Expr)
				cp := *cmd
				cp.Args = []ast.Expr{&ast.Arithmetic{ExprBase: a.ExprBase, Expr: pa}}
				return &cp, nil
			}
		}
		return cmd, nil
	}

	args := make([]ast.Expr, len(cmd.Args))
	for i, a := range cmd.Args {
		pa, err := p.purifyExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = pa
	}
	cp := *cmd
	cp.Args = args

	switch cmd.Name {
	case "mkdir":
		if !hasFlag(args, "-p") {
			p.report.IdempotencyFixes = append(p.report.IdempotencyFixes, "command 'mkdir' should use -p flag for idempotency")
			if p.options.EmitIdempotencyFlags {
				cp.Args = append([]ast.Expr{&ast.Literal{Value: "-p"}}, args...)
			}
		}
	case "rm":
		if !hasFlag(args, "-f") {
			p.report.IdempotencyFixes = append(p.report.IdempotencyFixes, "command 'rm' should use -f flag for idempotency")
			if p.options.EmitIdempotencyFlags {
				cp.Args = append([]ast.Expr{&ast.Literal{Value: "-f"}}, args...)
			}
		}
	case "ln":
		if !hasFlag(args, "-sf") && !hasFlag(args, "-sfn") && !hasFlag(args, "-f") {
			p.report.IdempotencyFixes = append(p.report.IdempotencyFixes, "command 'ln' should use -sf (or -sfn) flag for idempotency")
			if p.options.EmitIdempotencyFlags {
				cp.Args = append([]ast.Expr{&ast.Literal{Value: "-sf"}}, args...)
			}
		}
	case "cp", "mv":
		p.report.Warnings = append(p.report.Warnings, fmt.Sprintf("command '%s' may not be idempotent, consider checking if destination exists", cmd.Name))
	default:
		if !readOnlyHeads[cmd.Name] && p.options.TrackSideEffects {
			p.report.SideEffectsIsolated = append(p.report.SideEffectsIsolated, fmt.Sprintf("side effect detected: command '%s'", cmd.Name))
		}
	}

	return &cp, nil
}

func hasFlag(args []ast.Expr, flag string) bool {
	for _, a := range args {
		lit, ok := a.(*ast.Literal)
		if ok && strings.Contains(lit.Value, flag) {
			return true
		}
	}
	return false
}
