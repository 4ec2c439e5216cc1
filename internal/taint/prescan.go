package taint

import "github.com/shpurify/shpurify/internal/ast"

// safeReadOnlyHeads are command heads whose stdout a command substitution
// may safely take on as Safe rather than Tainted: pure, read-only queries
// of already-trusted machine state, never user- or network-derived.
var safeReadOnlyHeads = map[string]bool{
	"pwd": true, "hostname": true, "uname": true, "whoami": true,
	"basename": true, "dirname": true, "id": true,
}

// positionalParam reports whether name is a positional-parameter or
// special-parameter reference ($1..$9, $@, $*, $#, $0).
func positionalParam(name string) bool {
	if name == "@" || name == "*" || name == "#" || name == "0" {
		return true
	}
	return len(name) == 1 && name[0] >= '1' && name[0] <= '9'
}

// PrescanTaint walks a whole parsed script once and builds a TypeChecker
// with every variable it can determine taint provenance for ahead of time:
// positional parameters, variables populated by `read`, and variables
// assigned from command substitution. This is not part of spec.md's
// TypeChecker interface; it exists because that interface operates one
// variable at a time, and a lint/purify pass needs to seed the checker's
// environment from a whole BashAst before running CheckInjectionSafety at
// each use site.
func PrescanTaint(tree *ast.Ast) *TypeChecker {
	c := NewTypeChecker()
	for _, s := range tree.Stmts {
		prescanStmt(c, s)
	}
	return c
}

func prescanStmt(c *TypeChecker, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Command:
		prescanCommand(c, n)
		for _, a := range n.Args {
			prescanExpr(c, a)
		}
	case *ast.Assignment:
		prescanExpr(c, n.Value)
		c.RegisterVariable(n.Name, inferAssignedType(c, n.Value))
	case *ast.Function:
		prescanStmts(c, n.Body)
	case *ast.If:
		prescanStmts(c, n.Condition)
		prescanStmts(c, n.Then)
		for _, arm := range n.ElifArms {
			prescanStmts(c, arm.Condition)
			prescanStmts(c, arm.Body)
		}
		prescanStmts(c, n.Else)
	case *ast.While:
		prescanStmts(c, n.Condition)
		prescanStmts(c, n.Body)
	case *ast.Until:
		prescanStmts(c, n.Condition)
		prescanStmts(c, n.Body)
	case *ast.For:
		c.RegisterVariable(n.Variable, Type{Kind: String, Taint: Safe})
		if n.Items != nil {
			prescanExpr(c, n.Items)
		}
		prescanStmts(c, n.Body)
	case *ast.ForCStyle:
		prescanStmts(c, n.Body)
	case *ast.Select:
		c.RegisterVariable(n.Variable, Type{Kind: String, Taint: Safe})
		prescanStmts(c, n.Body)
	case *ast.Case:
		prescanExpr(c, n.Word)
		for _, arm := range n.Arms {
			prescanStmts(c, arm.Body)
		}
	case *ast.Pipeline:
		prescanStmts(c, n.Commands)
	case *ast.BoolChain:
		prescanStmt(c, n.Left)
		prescanStmt(c, n.Right)
	case *ast.BraceGroup:
		prescanStmts(c, n.Body)
	case *ast.Coproc:
		prescanStmts(c, n.Body)
	case *ast.Return:
		if n.Code != nil {
			prescanExpr(c, n.Code)
		}
	}
}

func prescanStmts(c *TypeChecker, stmts []ast.Stmt) {
	for _, s := range stmts {
		prescanStmt(c, s)
	}
}

// prescanCommand registers taint for variables `read` populates; `read`'s
// arguments are the bare names of the variables it will assign, always
// from standard input, always untrusted.
func prescanCommand(c *TypeChecker, cmd *ast.Command) {
	if cmd.Name != "read" {
		return
	}
	for _, a := range cmd.Args {
		lit, ok := a.(*ast.Literal)
		if !ok || lit.Value == "" || lit.Value[0] == '-' {
			continue
		}
		c.RegisterVariable(lit.Value, Type{Kind: String, Taint: Tainted})
	}
}

// prescanExpr registers taint for any positional-parameter reference and
// recurses into command substitutions, whose inner statements may
// themselves contain `read` or further substitutions.
func prescanExpr(c *TypeChecker, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if positionalParam(n.Name) {
			c.RegisterVariable(n.Name, Type{Kind: String, Taint: Tainted})
		}
	case *ast.Concat:
		for _, p := range n.Parts {
			prescanExpr(c, p)
		}
	case *ast.Array:
		for _, el := range n.Elements {
			prescanExpr(c, el)
		}
	case *ast.CommandSubst:
		prescanStmts(c, n.Body)
	case *ast.DefaultValue:
		prescanExpr(c, n.Default)
	case *ast.AssignDefault:
		prescanExpr(c, n.Default)
	case *ast.ErrorIfUnset:
		prescanExpr(c, n.Message)
	case *ast.AlternativeValue:
		prescanExpr(c, n.Alt)
	}
}

// inferAssignedType derives the Type an assignment's right-hand side
// implies: command substitution is Tainted unless the substituted
// command's head is a known-safe read-only query, everything else
// defaults to Safe (a literal, arithmetic result, or parameter expansion
// of an already-tracked variable carries no new taint on its own).
func inferAssignedType(c *TypeChecker, value ast.Expr) Type {
	switch n := value.(type) {
	case *ast.CommandSubst:
		if headIsSafe(n.Body) {
			return Type{Kind: String, Taint: Safe}
		}
		return Type{Kind: String, Taint: Tainted}
	case *ast.Variable:
		if t, ok := c.GetType(n.Name); ok {
			return t
		}
		return Type{Kind: String, Taint: Safe}
	default:
		return Type{Kind: String, Taint: Safe}
	}
}

func headIsSafe(body []ast.Stmt) bool {
	if len(body) != 1 {
		return false
	}
	cmd, ok := body[0].(*ast.Command)
	if !ok {
		return false
	}
	return safeReadOnlyHeads[cmd.Name]
}
