package makefile

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed construct (a recipe line not introduced by
// a target, an unterminated conditional) with the 1-indexed source line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("makefile:%d: %s", e.Line, e.Message)
}

// condFrame tracks an open conditional block's nesting: which Conditional
// node is accumulating items, and whether an "else" line has switched
// collection from Then to Else.
type condFrame struct {
	cond   *Conditional
	inElse bool
}

var varOperators = []struct {
	op     string
	flavor VarFlavor
}{
	{":=", Simple},
	{"?=", Conditional},
	{"+=", Append},
	{"!=", Shell},
	{"=", Recursive}, // must be checked last: every other operator contains "="
}

// Parse reads a Makefile's text into a flat list of top-level Items.
// Recipe lines (tab-indented) are only valid directly after a target or
// pattern-rule header and are attached to it; everything else is parsed
// line by line with simple backslash-continuation joining.
func Parse(source string) ([]Item, error) {
	lines := joinContinuations(strings.Split(source, "\n"))

	var items []Item
	var condStack []*condFrame
	currentItems := func() *[]Item {
		if len(condStack) == 0 {
			return &items
		}
		top := condStack[len(condStack)-1]
		if top.inElse {
			return &top.cond.Else
		}
		return &top.cond.Then
	}

	var pendingTarget *Target
	var pendingPattern *PatternRule

	for i, raw := range lines {
		lineNo := i + 1
		if strings.HasPrefix(raw, "\t") {
			recipeLine := strings.TrimPrefix(raw, "\t")
			switch {
			case pendingTarget != nil:
				pendingTarget.Recipe = append(pendingTarget.Recipe, recipeLine)
				pendingTarget.RecipeMetadata.LineBreaks = append(pendingTarget.RecipeMetadata.LineBreaks, strings.HasSuffix(recipeLine, "\\"))
			case pendingPattern != nil:
				pendingPattern.Recipe = append(pendingPattern.Recipe, recipeLine)
			default:
				return nil, &ParseError{Line: lineNo, Message: "recipe line with no preceding target"}
			}
			continue
		}

		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			*currentItems() = append(*currentItems(), Comment{Text: strings.TrimPrefix(trimmed, "#")})
			continue
		}

		if strings.HasPrefix(trimmed, "-include ") || strings.HasPrefix(trimmed, "include ") {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			optional := strings.HasPrefix(trimmed, "-include ")
			path := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(trimmed, "-include"), "include"))
			*currentItems() = append(*currentItems(), Include{Path: path, Optional: optional})
			continue
		}

		if kind, ok := conditionalKind(trimmed); ok {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			arg1, arg2 := conditionalArgs(trimmed, kind)
			cond := &Conditional{Kind: kind, Arg1: arg1, Arg2: arg2}
			*currentItems() = append(*currentItems(), cond)
			condStack = append(condStack, &condFrame{cond: cond})
			continue
		}
		if trimmed == "else" {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			if len(condStack) == 0 {
				return nil, &ParseError{Line: lineNo, Message: "else with no matching if"}
			}
			condStack[len(condStack)-1].inElse = true
			continue
		}
		if trimmed == "endif" {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			if len(condStack) == 0 {
				return nil, &ParseError{Line: lineNo, Message: "endif with no matching if"}
			}
			condStack = condStack[:len(condStack)-1]
			continue
		}

		if name, args, ok := functionCallLine(trimmed); ok {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			*currentItems() = append(*currentItems(), FunctionCall{Name: name, Args: args})
			continue
		}

		if name, value, flavor, ok := variableAssignment(trimmed); ok {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			*currentItems() = append(*currentItems(), Variable{Name: name, Value: value, Flavor: flavor})
			continue
		}

		if strings.Contains(trimmed, ":") && !strings.HasPrefix(trimmed, ":") {
			flushPending(currentItems(), &pendingTarget, &pendingPattern)
			name, prereqs := splitTargetHeader(trimmed)
			if strings.Contains(name, "%") {
				pendingPattern = &PatternRule{Pattern: name, Prerequisites: prereqs}
				continue
			}
			pendingTarget = &Target{Name: name, Prerequisites: prereqs, Phony: name == ".PHONY"}
			continue
		}

		return nil, &ParseError{Line: lineNo, Message: "unrecognized construct: " + trimmed}
	}
	flushPending(currentItems(), &pendingTarget, &pendingPattern)

	if len(condStack) != 0 {
		return nil, &ParseError{Line: len(lines), Message: "unterminated conditional"}
	}
	return applyPhonyDeclarations(items), nil
}

// applyPhonyDeclarations folds every ".PHONY: a b c" pseudo-target into the
// Phony field of the real targets it names, then drops the pseudo-target
// itself: make(1) treats ".PHONY" purely as a marker, never a real target,
// and Generate re-synthesizes a consolidated ".PHONY:" line from the Phony
// field rather than replaying the original declaration line.
func applyPhonyDeclarations(items []Item) []Item {
	phony := map[string]bool{}
	for _, it := range items {
		if t, ok := it.(Target); ok && t.Name == ".PHONY" {
			for _, p := range t.Prerequisites {
				phony[p] = true
			}
		}
	}
	if len(phony) == 0 {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Target:
			if v.Name == ".PHONY" {
				continue
			}
			if phony[v.Name] {
				v.Phony = true
			}
			out = append(out, v)
		case *Conditional:
			v.Then = applyPhonyDeclarations(v.Then)
			v.Else = applyPhonyDeclarations(v.Else)
			out = append(out, v)
		default:
			out = append(out, it)
		}
	}
	return out
}

func flushPending(dst *[]Item, target **Target, pattern **PatternRule) {
	if *target != nil {
		*dst = append(*dst, **target)
		*target = nil
	}
	if *pattern != nil {
		*dst = append(*dst, **pattern)
		*pattern = nil
	}
}

func joinContinuations(lines []string) []string {
	var out []string
	var cur string
	for _, l := range lines {
		if strings.HasSuffix(l, "\\") && !strings.HasPrefix(l, "\t") {
			cur += strings.TrimSuffix(l, "\\") + " "
			continue
		}
		if cur != "" {
			out = append(out, cur+l)
			cur = ""
			continue
		}
		out = append(out, l)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func variableAssignment(line string) (name, value string, flavor VarFlavor, ok bool) {
	for _, vo := range varOperators {
		idx := strings.Index(line, vo.op)
		if idx < 0 {
			continue
		}
		name = strings.TrimSpace(line[:idx])
		value = strings.TrimSpace(line[idx+len(vo.op):])
		if name == "" || strings.ContainsAny(name, " \t") {
			continue
		}
		return name, value, vo.flavor, true
	}
	return "", "", 0, false
}

func splitTargetHeader(line string) (name string, prereqs []string) {
	parts := strings.SplitN(line, ":", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		for _, p := range strings.Fields(parts[1]) {
			prereqs = append(prereqs, p)
		}
	}
	return name, prereqs
}

func conditionalKind(line string) (ConditionalKind, bool) {
	switch {
	case strings.HasPrefix(line, "ifeq "), strings.HasPrefix(line, "ifeq("):
		return IfEq, true
	case strings.HasPrefix(line, "ifneq "), strings.HasPrefix(line, "ifneq("):
		return IfNeq, true
	case strings.HasPrefix(line, "ifdef "):
		return IfDef, true
	case strings.HasPrefix(line, "ifndef "):
		return IfNDef, true
	}
	return 0, false
}

func conditionalArgs(line string, kind ConditionalKind) (arg1, arg2 string) {
	switch kind {
	case IfDef, IfNDef:
		fields := strings.Fields(line)
		if len(fields) == 2 {
			return fields[1], ""
		}
		return "", ""
	default:
		rest := strings.TrimSpace(line[strings.Index(line, " ")+1:])
		rest = strings.Trim(rest, "()")
		parts := strings.SplitN(rest, ",", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		return rest, ""
	}
}

func functionCallLine(line string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(line, "$(call ") {
		return "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "$(call "), ")")
	parts := strings.Split(inner, ",")
	if len(parts) == 0 {
		return "", nil, false
	}
	name = strings.TrimSpace(parts[0])
	for _, a := range parts[1:] {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}
