package makefile

import "strings"

// GenOptions configures Generate's output shape.
type GenOptions struct {
	// PreserveFormatting is accepted but does not change the output:
	// recipe lines are always written one per output line, each with its
	// own trailing backslash (if any) kept from parsing, whether or not
	// RecipeMetadata.LineBreaks is set.
	PreserveFormatting bool
	// MaxLineLength is accepted but not applied: Generate never wraps
	// variable or prerequisite lists.
	MaxLineLength int
	// SkipBlankLineRemoval is accepted but does not change the output:
	// Parse keeps no blank lines, and Generate writes one blank line after
	// each target and pattern rule.
	SkipBlankLineRemoval bool
	// SkipConsolidation emits one .PHONY declaration per phony target
	// instead of consolidating them into a single `.PHONY: a b c` line.
	SkipConsolidation bool
}

// Generate renders items back to Makefile text.
func Generate(items []Item, opts GenOptions) string {
	var b strings.Builder
	phony := collectPhony(items)
	if len(phony) > 0 && !opts.SkipConsolidation {
		b.WriteString(".PHONY: " + strings.Join(phony, " ") + "\n\n")
	}
	writeItems(&b, items, opts, phony)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func collectPhony(items []Item) []string {
	var out []string
	for _, it := range items {
		if t, ok := it.(Target); ok && t.Phony && t.Name != ".PHONY" {
			out = append(out, t.Name)
		}
	}
	return out
}

func writeItems(b *strings.Builder, items []Item, opts GenOptions, consolidatedPhony []string) {
	for _, it := range items {
		switch v := it.(type) {
		case Variable:
			b.WriteString(v.Name + " " + v.Flavor.Operator() + " " + v.Value + "\n")
		case Comment:
			b.WriteString("#" + v.Text + "\n")
		case Include:
			if v.Optional {
				b.WriteString("-include " + v.Path + "\n")
			} else {
				b.WriteString("include " + v.Path + "\n")
			}
		case FunctionCall:
			b.WriteString("$(call " + v.Name + strings.Join(prefixEach(v.Args, ","), "") + ")\n")
		case Target:
			if v.Name == ".PHONY" && len(consolidatedPhony) > 0 && !opts.SkipConsolidation {
				continue
			}
			writeTargetHeader(b, v.Name, v.Prerequisites)
			writeRecipe(b, v.Recipe, v.RecipeMetadata, opts)
			b.WriteString("\n")
		case PatternRule:
			writeTargetHeader(b, v.Pattern, v.Prerequisites)
			writeRecipe(b, v.Recipe, RecipeMetadata{}, opts)
			b.WriteString("\n")
		case *Conditional:
			writeConditional(b, v, opts, consolidatedPhony)
		case Conditional:
			writeConditional(b, &v, opts, consolidatedPhony)
		}
	}
}

func writeConditional(b *strings.Builder, c *Conditional, opts GenOptions, consolidatedPhony []string) {
	switch c.Kind {
	case IfEq:
		b.WriteString("ifeq (" + c.Arg1 + "," + c.Arg2 + ")\n")
	case IfNeq:
		b.WriteString("ifneq (" + c.Arg1 + "," + c.Arg2 + ")\n")
	case IfDef:
		b.WriteString("ifdef " + c.Arg1 + "\n")
	case IfNDef:
		b.WriteString("ifndef " + c.Arg1 + "\n")
	}
	writeItems(b, c.Then, opts, consolidatedPhony)
	if len(c.Else) > 0 {
		b.WriteString("else\n")
		writeItems(b, c.Else, opts, consolidatedPhony)
	}
	b.WriteString("endif\n")
}

func writeTargetHeader(b *strings.Builder, name string, prereqs []string) {
	if len(prereqs) == 0 {
		b.WriteString(name + ":\n")
		return
	}
	b.WriteString(name + ": " + strings.Join(prereqs, " ") + "\n")
}

func writeRecipe(b *strings.Builder, recipe []string, meta RecipeMetadata, opts GenOptions) {
	for i, line := range recipe {
		b.WriteString("\t" + line)
		if opts.PreserveFormatting && i < len(meta.LineBreaks) && meta.LineBreaks[i] {
			b.WriteString("\n")
			continue
		}
		b.WriteString("\n")
	}
}

func prefixEach(args []string, sep string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = sep + a
	}
	return out
}
