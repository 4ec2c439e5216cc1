package purifier

import (
	"fmt"
	"strconv"

	"github.com/shpurify/shpurify/internal/ast"
)

// lowerSelect handles `select var in items; do body; done`, a bash-only
// construct (spec.md §4.3's Select row). Under the default policy it is
// rejected outright; with RewriteSelect it is rewritten to an infinite
// while-loop that prints a numbered menu, reads a choice into REPLY with the
// POSIX `read` builtin, and dispatches on REPLY with a `case` whose arms
// assign the chosen item to var (an unmatched choice leaves var unchanged).
func (p *Purifier) lowerSelect(s *ast.Select) (ast.Stmt, error) {
	if !p.options.RewriteSelect {
		return nil, &Error{Message: "select is a bash-only construct and is rejected under the current policy"}
	}

	items := selectItems(s.Items)
	if len(items) == 0 {
		return nil, fmt.Errorf("select has no items to rewrite")
	}

	body, err := p.purifyStmtList(s.Body)
	if err != nil {
		return nil, err
	}

	var menu []ast.Stmt
	var arms []ast.CaseArm
	for i, item := range items {
		n := strconv.Itoa(i + 1)
		menu = append(menu, &ast.Command{
			StmtBase: s.StmtBase,
			Name:     "echo",
			Args:     []ast.Expr{&ast.Literal{Value: n + ") " + renderExprText(item)}},
		})
		arms = append(arms, ast.CaseArm{
			Patterns: []string{n},
			Body: []ast.Stmt{&ast.Assignment{
				StmtBase: s.StmtBase,
				Name:     s.Variable,
				Value:    item,
			}},
			Terminator: ";;",
		})
	}
	arms = append(arms, ast.CaseArm{
		Patterns:   []string{"*"},
		Body:       nil,
		Terminator: ";;",
	})

	readStmt := &ast.Command{
		StmtBase: s.StmtBase,
		Name:     "read",
		Args:     []ast.Expr{&ast.Literal{Value: "REPLY"}},
	}
	caseStmt := &ast.Case{
		StmtBase: s.StmtBase,
		Word:     &ast.Variable{Name: "REPLY"},
		Arms:     arms,
	}

	loopBody := append(append(append([]ast.Stmt{}, menu...), readStmt, caseStmt), body...)
	return &ast.While{
		StmtBase:  s.StmtBase,
		Condition: []ast.Stmt{&ast.Command{StmtBase: s.StmtBase, Name: ":"}},
		Body:      loopBody,
		Redirects: s.Redirects,
	}, nil
}

func selectItems(items ast.Expr) []ast.Expr {
	if items == nil {
		return nil
	}
	if arr, ok := items.(*ast.Array); ok {
		return arr.Elements
	}
	return []ast.Expr{items}
}

// renderExprText renders a best-effort plain-text form of an expression
// for use in the synthesized menu prompt; it only needs to read sensibly,
// not round-trip, since the emitter always re-derives real shell syntax
// from the AST it walks, not from this string.
func renderExprText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value
	case *ast.Glob:
		return n.Pattern
	case *ast.Variable:
		return "$" + n.Name
	default:
		return "?"
	}
}
