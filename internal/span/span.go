// Package span holds source-location records shared by the lexer, parser,
// purifier, emitter and lint engine.
package span

import "fmt"

// Span is a 1-indexed half-open-by-line source range.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Dummy returns a span for a synthesized node with no real source location.
// All dummy spans compare equal to one another, regardless of what real
// span they stand in for, so that structural AST comparisons can ignore
// spans entirely by normalizing them to Dummy() first.
func Dummy() Span {
	return Span{}
}

// IsDummy reports whether s was produced by Dummy.
func (s Span) IsDummy() bool {
	return s == Span{}
}

func (s Span) String() string {
	if s.IsDummy() {
		return "<synthesized>"
	}
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%d:%d-%d", s.StartLine, s.StartCol, s.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// New builds a span from explicit start/end coordinates.
func New(startLine, startCol, endLine, endCol int) Span {
	return Span{StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol}
}

// Point builds a zero-width span at a single position.
func Point(line, col int) Span {
	return Span{StartLine: line, StartCol: col, EndLine: line, EndCol: col}
}

// Less orders spans by (StartLine, StartCol) for deterministic diagnostic
// sorting (spec property 10).
func Less(a, b Span) bool {
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	return a.StartCol < b.StartCol
}
