// Package devcontainer validates devcontainer.json files against the Dev
// Container Specification (https://containers.dev/implementors/spec/). It
// follows the same parse -> rules -> diagnostics shape as the bash lint
// engine in internal/lint, but the "AST" is just the generic value tree
// encoding/json produces from JSONC with its comments stripped — the
// grammar here is too small to earn its own typed AST package.
package devcontainer

import (
	"encoding/json"
	"fmt"

	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/span"
)

// ParseError wraps a JSONC decode failure so callers can distinguish a
// malformed file (ParseError) from a well-formed one with diagnostics.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("invalid devcontainer.json: %s", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// zeroSpan is used for every devcontainer diagnostic: decoding into
// map[string]any loses the source position of individual keys, and the
// spec's rules are file-level checks rather than pinpoint ones.
var zeroSpan = span.Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}

// Parse strips JSONC comments and decodes content into a generic value tree.
func Parse(content string) (map[string]any, error) {
	stripped := StripComments(content)
	var tree map[string]any
	if err := json.Unmarshal([]byte(stripped), &tree); err != nil {
		return nil, &ParseError{Err: err}
	}
	return tree, nil
}

// Validate runs every DEVCONTAINER rule against a parsed devcontainer.json
// tree, in rule-number order.
func Validate(tree map[string]any) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, rule := range allRules {
		diags = append(diags, rule(tree)...)
	}
	return diags
}

// ValidateSource parses content as JSONC and validates it, mirroring
// validate_devcontainer(jsonc) -> LintResult | ParseError.
func ValidateSource(content string) ([]diag.Diagnostic, error) {
	tree, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return Validate(tree), nil
}

var allRules = []func(map[string]any) []diag.Diagnostic{
	checkDevcontainer001,
	checkDevcontainer002,
	checkDevcontainer003,
	checkDevcontainer004,
	checkDevcontainer005,
	checkDevcontainer006,
	checkDevcontainer007,
	checkDevcontainer008,
	checkDevcontainer009,
	checkDevcontainer010,
	checkDevcontainer011,
}
