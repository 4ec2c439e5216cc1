// Package batch is the caller-side parallel-file orchestrator referenced by
// spec.md §5 ("Multiple files may be processed in parallel by the caller;
// each invocation uses disjoint state"): it runs the single-file pipeline
// (parse -> purify -> emit, or parse -> lint) across many files with a
// bounded worker pool, giving each file its own fresh parser/purifier/
// suppression state and recovering a panic in any one file without losing the rest of
// the batch, using the same sourcegraph/conc + panic-recovery combination
// as the teacher's background-job runner.
package batch

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/shpurify/shpurify/internal/ast"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/emitter"
	"github.com/shpurify/shpurify/internal/lint"
	"github.com/shpurify/shpurify/internal/parser"
	"github.com/shpurify/shpurify/internal/purifier"
	"github.com/shpurify/shpurify/pkg/panicerr"
)

// File is one input to a batch run: a path (for reporting) and its source
// text.
type File struct {
	Path   string
	Source string
}

// PurifyResult is one file's outcome from RunPurify.
type PurifyResult struct {
	Path    string
	Emitted string
	Report  purifier.PurificationReport
	Err     error
}

// RunPurify parses, purifies and emits every file concurrently, bounded by
// maxParallel goroutines, returning one result per input file in input
// order. A panic while processing one file becomes that file's Err rather
// than aborting the whole batch.
func RunPurify(files []File, opts purifier.PurificationOptions, maxParallel int) []PurifyResult {
	results := make([]PurifyResult, len(files))
	p := pool.New().WithMaxGoroutines(clampParallel(maxParallel))
	for i, f := range files {
		i, f := i, f
		p.Go(func() {
			safe := panicerr.Safe(func() error {
				results[i] = purifyOne(f, opts)
				return results[i].Err
			})
			if err := safe(); err != nil && results[i].Err == nil {
				results[i] = PurifyResult{Path: f.Path, Err: err}
			}
		})
	}
	p.Wait()
	return results
}

func purifyOne(f File, opts purifier.PurificationOptions) PurifyResult {
	tree, err := parser.Parse(f.Source)
	if err != nil {
		return PurifyResult{Path: f.Path, Err: fmt.Errorf("parse %s: %w", f.Path, err)}
	}
	purified, report, err := purifier.New(opts).Purify(tree)
	if err != nil {
		return PurifyResult{Path: f.Path, Err: fmt.Errorf("purify %s: %w", f.Path, err)}
	}
	return PurifyResult{Path: f.Path, Emitted: emitter.Emit(purified), Report: report}
}

// LintResult is one file's outcome from RunLint.
type LintResult struct {
	Path  string
	Diags []diag.Diagnostic
	Err   error
}

// RunLint lints every file concurrently, each against its own freshly
// parsed tree and suppression manager.
func RunLint(files []File, rules []lint.Rule, maxParallel int) []LintResult {
	results := make([]LintResult, len(files))
	p := pool.New().WithMaxGoroutines(clampParallel(maxParallel))
	for i, f := range files {
		i, f := i, f
		p.Go(func() {
			safe := panicerr.Safe(func() error {
				var tree *ast.Ast
				if t, err := parser.Parse(f.Source); err == nil {
					tree = t
				}
				results[i] = LintResult{Path: f.Path, Diags: lint.Run(f.Source, tree, rules)}
				return nil
			})
			if err := safe(); err != nil {
				results[i] = LintResult{Path: f.Path, Err: err}
			}
		})
	}
	p.Wait()
	return results
}

func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
