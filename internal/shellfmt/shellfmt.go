// Package shellfmt is the secondary, best-effort bash reformatter used only
// by the `fmt` CLI subcommand for scripts that fail our own strict
// recursive-descent parser (dialect features it deliberately does not
// support, e.g. `[[ ]]` extended globs or bash-specific array syntax). It is
// never on the path of Parse/Purify/Emit, which together are a from-scratch
// implementation; this package exists purely so such scripts still get
// *some* canonical formatting instead of none, adapted from the teacher's
// shellformat package's option/config idiom but built directly on
// mvdan.cc/sh/v3/syntax's own printer rather than reimplementing one.
package shellfmt

import (
	"bytes"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Option configures the fallback formatter.
type Option func(*config)

type config struct {
	indent  uint
	variant syntax.LangVariant
}

func defaultConfig() *config {
	return &config{indent: 2, variant: syntax.LangBash}
}

// WithIndent sets the indentation width in spaces (default: 2).
func WithIndent(n uint) Option {
	return func(c *config) { c.indent = n }
}

// WithPOSIX restricts parsing to the POSIX shell dialect instead of bash.
func WithPOSIX() Option {
	return func(c *config) { c.variant = syntax.LangPOSIX }
}

// Format parses source with mvdan.cc/sh/v3/syntax and reprints it in
// canonical form. It never purifies or executes anything; it is a
// formatting fallback, not a substitute for Parse/Purify/Emit.
func Format(source string, opts ...Option) (string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	parser := syntax.NewParser(syntax.Variant(cfg.variant), syntax.KeepComments(true))
	prog, err := parser.Parse(strings.NewReader(source), "")
	if err != nil {
		return "", fmt.Errorf("shellfmt: %w", err)
	}

	printer := syntax.NewPrinter(syntax.Indent(cfg.indent), syntax.SpaceRedirects(true))
	var buf bytes.Buffer
	if err := printer.Print(&buf, prog); err != nil {
		return "", fmt.Errorf("shellfmt: print: %w", err)
	}
	return buf.String(), nil
}

// CanParse reports whether mvdan.cc/sh/v3/syntax accepts source at all,
// letting the CLI decide whether to fall back to this formatter instead of
// our own strict parser's error.
func CanParse(source string, opts ...Option) bool {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	parser := syntax.NewParser(syntax.Variant(cfg.variant))
	_, err := parser.Parse(strings.NewReader(source), "")
	return err == nil
}
