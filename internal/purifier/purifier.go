// Package purifier implements the AST-to-AST rewrite that enforces
// portability (POSIX sh), determinism (no time/pid/random dependent
// state), and idempotency (side-effecting commands yield the same final
// state on re-run). It operates purely on the tree produced by the
// parser; it never re-examines source text.
package purifier

import (
	"fmt"

	"github.com/shpurify/shpurify/internal/ast"
)

// PurificationOptions configures how aggressively the purifier rewrites
// or rejects non-portable/non-deterministic constructs.
type PurificationOptions struct {
	// StrictIdempotency: fail rather than rewrite on unrecoverable
	// determinism issues.
	StrictIdempotency bool

	// RemoveNonDeterministic: replace nondeterministic variable
	// references with deterministic defaults rather than leaving them
	// (or erroring, under StrictIdempotency).
	RemoveNonDeterministic bool

	// TrackSideEffects: accumulate side-effect notes for unrecognized
	// command heads in the report.
	TrackSideEffects bool

	// RewriteSelect, when true, lowers a bash `select` loop into a
	// numbered case+read POSIX equivalent instead of rejecting it. The
	// default (false) rejects, matching "behavior when no policy is set
	// should be to reject with an error".
	RewriteSelect bool

	// EmitIdempotencyFlags, when true, actually prepends -p/-f/-sf to
	// mkdir/rm/ln instead of only recording the recommendation. The
	// purifier does not silently add flags by default; it records a
	// fix message and leaves the command unchanged.
	EmitIdempotencyFlags bool
}

// DefaultPurificationOptions mirrors the teacher-adjacent original's
// defaults: strict idempotency, automatic determinism fixes, side-effect
// tracking all on, select rejected.
func DefaultPurificationOptions() PurificationOptions {
	return PurificationOptions{
		StrictIdempotency:      true,
		RemoveNonDeterministic: true,
		TrackSideEffects:       true,
		RewriteSelect:          false,
		EmitIdempotencyFlags:   false,
	}
}

// PurificationReport enumerates every transformation the purifier applied
// (or refused to apply) to one script.
type PurificationReport struct {
	IdempotencyFixes   []string
	DeterminismFixes   []string
	SideEffectsIsolated []string
	Warnings           []string
}

// Error is returned when a construct cannot be purified under the given
// options (e.g. a nondeterministic variable encountered under
// StrictIdempotency with RemoveNonDeterministic disabled, or a rejected
// `select`).
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func nonDeterministic(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf("cannot purify non-deterministic construct: %s", fmt.Sprintf(format, args...))}
}

// Purifier carries the mutable state of one purification pass: its
// options, the report being built up, and the data-driven table of
// nondeterministic variable replacements (kept as a map so it is
// extensible in code, not just in documentation, as spec.md allows).
type Purifier struct {
	options     PurificationOptions
	report      PurificationReport
	nonDetVars  map[string]ast.Expr
	nonDetArith map[string]ast.ArithExpr
}

// New returns a Purifier configured with opts and the default
// nondeterministic-variable table (RANDOM, SECONDS, BASHPID, PPID, each
// replaced by the literal/number 0).
func New(options PurificationOptions) *Purifier {
	return &Purifier{
		options: options,
		nonDetVars: map[string]ast.Expr{
			"RANDOM":  &ast.Literal{Value: "0"},
			"SECONDS": &ast.Literal{Value: "0"},
			"BASHPID": &ast.Literal{Value: "0"},
			"PPID":    &ast.Literal{Value: "0"},
		},
		nonDetArith: map[string]ast.ArithExpr{
			"RANDOM":  ast.Number{Value: 0},
			"SECONDS": ast.Number{Value: 0},
			"BASHPID": ast.Number{Value: 0},
			"PPID":    ast.Number{Value: 0},
		},
	}
}

// RegisterNonDeterministicVar extends the replacement table with a
// project-specific nondeterministic variable name, making the set
// genuinely extensible at runtime rather than only by editing this file.
func (p *Purifier) RegisterNonDeterministicVar(name string, exprReplacement ast.Expr, arithReplacement ast.ArithExpr) {
	p.nonDetVars[name] = exprReplacement
	p.nonDetArith[name] = arithReplacement
}

// Report returns the report accumulated so far.
func (p *Purifier) Report() PurificationReport { return p.report }

// Purify rewrites every statement of tree and returns the resulting tree
// alongside the report of what was changed.
func (p *Purifier) Purify(tree *ast.Ast) (*ast.Ast, PurificationReport, error) {
	out := make([]ast.Stmt, 0, len(tree.Stmts))
	for _, s := range tree.Stmts {
		ps, err := p.purifyStmt(s)
		if err != nil {
			return nil, p.report, err
		}
		out = append(out, ps)
	}
	return &ast.Ast{File: tree.File, Stmts: out, LineCount: tree.LineCount}, p.report, nil
}

func (p *Purifier) purifyStmtList(stmts []ast.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		ps, err := p.purifyStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, nil
}

func (p *Purifier) purifyStmt(s ast.Stmt) (ast.Stmt, error) {
	switch n := s.(type) {
	case *ast.Assignment:
		v, err := p.purifyExpr(n.Value)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Value = v
		return &cp, nil

	case *ast.Command:
		return p.purifyCommand(n)

	case *ast.Function:
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Body = body
		return &cp, nil

	case *ast.If:
		cond, err := p.purifyStmtList(n.Condition)
		if err != nil {
			return nil, err
		}
		then, err := p.purifyStmtList(n.Then)
		if err != nil {
			return nil, err
		}
		elifs := make([]ast.ElifArm, len(n.ElifArms))
		for i, arm := range n.ElifArms {
			c, err := p.purifyStmtList(arm.Condition)
			if err != nil {
				return nil, err
			}
			b, err := p.purifyStmtList(arm.Body)
			if err != nil {
				return nil, err
			}
			elifs[i] = ast.ElifArm{Condition: c, Body: b}
		}
		var els []ast.Stmt
		if n.Else != nil {
			els, err = p.purifyStmtList(n.Else)
			if err != nil {
				return nil, err
			}
		}
		cp := *n
		cp.Condition, cp.Then, cp.ElifArms, cp.Else = cond, then, elifs, els
		return &cp, nil

	case *ast.While:
		cond, err := p.purifyStmtList(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Condition, cp.Body = cond, body
		return &cp, nil

	case *ast.Until:
		return p.lowerUntil(n)

	case *ast.ForCStyle:
		return p.lowerForCStyle(n)

	case *ast.For:
		items, err := p.purifyExpr(n.Items)
		if err != nil {
			return nil, err
		}
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Items, cp.Body = items, body
		return &cp, nil

	case *ast.Select:
		return p.lowerSelect(n)

	case *ast.Case:
		word, err := p.purifyExpr(n.Word)
		if err != nil {
			return nil, err
		}
		var arms []ast.CaseArm
		for _, arm := range n.Arms {
			// "arms with no patterns are dropped; pattern ordering preserved"
			if len(arm.Patterns) == 0 {
				continue
			}
			body, err := p.purifyStmtList(arm.Body)
			if err != nil {
				return nil, err
			}
			arms = append(arms, ast.CaseArm{Patterns: arm.Patterns, Body: body, Terminator: arm.Terminator})
		}
		cp := *n
		cp.Word, cp.Arms = word, arms
		return &cp, nil

	case *ast.Pipeline:
		cmds, err := p.purifyStmtList(n.Commands)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Commands = cmds
		return &cp, nil

	case *ast.BoolChain:
		left, err := p.purifyStmt(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.purifyStmt(n.Right)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Left, cp.Right = left, right
		return &cp, nil

	case *ast.BraceGroup:
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Body = body
		return &cp, nil

	case *ast.Coproc:
		body, err := p.purifyStmtList(n.Body)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Body = body
		return &cp, nil

	case *ast.Return:
		if n.Code == nil {
			return n, nil
		}
		code, err := p.purifyExpr(n.Code)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Code = code
		return &cp, nil

	case *ast.Comment:
		return n, nil

	default:
		return n, nil
	}
}
