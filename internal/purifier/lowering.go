package purifier

import (
	"fmt"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/parser"
)

// lowerUntil rewrites `until cond; do body; done` to `while ! cond; do
// body; done` (spec.md §4.3's Until row): only the last statement of the
// condition list determines the loop's continuation, so only it is
// negated; any earlier statements in a multi-statement condition are kept
// as-is and still run each iteration.
func (p *Purifier) lowerUntil(u *ast.Until) (ast.Stmt, error) {
	cond, err := p.purifyStmtList(u.Condition)
	if err != nil {
		return nil, err
	}
	body, err := p.purifyStmtList(u.Body)
	if err != nil {
		return nil, err
	}
	if len(cond) > 0 {
		cond[len(cond)-1] = negateStmt(cond[len(cond)-1])
	}
	return &ast.While{
		StmtBase:  u.StmtBase,
		Condition: cond,
		Body:      body,
		Redirects: u.Redirects,
	}, nil
}

// negateStmt wraps s so its exit status is logically negated. A `[ ]`/`[[
// ]]` test command is negated in place (rewriting its Test tree, so the
// emitter reproduces the bracket syntax rather than introducing a "!"
// prefix on a test command, which some POSIX sh implementations reject in
// that position); anything else gets a `!`-negated one-command pipeline,
// the same representation parsePipeline already builds for a literal `!
// cmd`.
func negateStmt(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.Command:
		if (n.Name == "[" || n.Name == "[[") && len(n.Args) == 1 {
			if t, ok := n.Args[0].(*ast.Test); ok {
				cp := *n
				cp.Args = []ast.Expr{&ast.Test{ExprBase: t.ExprBase, Expr: ast.Not{Expr: t.Expr}, Extended: t.Extended}}
				return &cp
			}
		}
		return &ast.Pipeline{StmtBase: n.StmtBase, Commands: []ast.Stmt{n}, Negated: true}
	case *ast.Pipeline:
		cp := *n
		cp.Negated = !cp.Negated
		return &cp
	default:
		return &ast.Pipeline{StmtBase: ast.StmtBase{Sp: s.Span()}, Commands: []ast.Stmt{s}, Negated: true}
	}
}

// lowerForCStyle rewrites `for ((init; cond; incr)); do body; done` to
// `init; while cond; do body; incr; done` (spec.md §4.3's ForCStyle row),
// reusing the existing arithmetic-expression parser on the three
// lexer-preserved raw clauses. The "Sequence" the spec names is
// represented as a BraceGroup wrapping the init statement and the While,
// since the AST has no dedicated sequence-of-statements expression node.
func (p *Purifier) lowerForCStyle(f *ast.ForCStyle) (ast.Stmt, error) {
	body, err := p.purifyStmtList(f.Body)
	if err != nil {
		return nil, err
	}

	cond, err := arithStmt(f.Cond, f.StmtBase)
	if err != nil {
		return nil, fmt.Errorf("lowering for-loop condition: %w", err)
	}
	if cond == nil {
		// An empty condition clause is always true in bash's C-style for.
		cond = &ast.Command{StmtBase: f.StmtBase, Name: ":"}
	}
	cond = p.purifyMust(cond)

	var whileBody []ast.Stmt
	whileBody = append(whileBody, body...)
	if f.Incr != "" {
		incr, err := arithStmt(f.Incr, f.StmtBase)
		if err != nil {
			return nil, fmt.Errorf("lowering for-loop increment: %w", err)
		}
		whileBody = append(whileBody, p.purifyMust(incr))
	}

	whileStmt := &ast.While{
		StmtBase:  f.StmtBase,
		Condition: []ast.Stmt{cond},
		Body:      whileBody,
		Redirects: f.Redirects,
	}

	if f.Init == "" {
		return whileStmt, nil
	}
	initStmt, err := arithStmt(f.Init, f.StmtBase)
	if err != nil {
		return nil, fmt.Errorf("lowering for-loop init: %w", err)
	}
	return &ast.BraceGroup{
		StmtBase: f.StmtBase,
		Body:     []ast.Stmt{p.purifyMust(initStmt), whileStmt},
		Subshell: false,
	}, nil
}

// arithStmt parses raw into an arithmetic-command statement, the same
// sentinel encoding (`Command{Name: "((", ...}`) the parser uses for a
// bare `((expr))` statement. Returns nil, nil for an empty clause.
func arithStmt(raw string, base ast.StmtBase) (ast.Stmt, error) {
	if raw == "" {
		return nil, nil
	}
	expr, err := parser.ParseArithText(raw)
	if err != nil {
		return nil, err
	}
	return &ast.Command{
		StmtBase: base,
		Name:     "((",
		Args:     []ast.Expr{&ast.Arithmetic{Expr: expr}},
	}, nil
}

// purifyMust purifies a statement synthesized by the lowering passes
// themselves; these never contain nondeterministic variables or
// unrecognized command heads that could produce an error, so a failure
// here would indicate a bug in the lowering code, not malformed input.
func (p *Purifier) purifyMust(s ast.Stmt) ast.Stmt {
	ps, err := p.purifyStmt(s)
	if err != nil {
		return s
	}
	return ps
}
