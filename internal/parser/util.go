package parser

import "github.com/shpurify/shpurify/internal/span"

// span2 builds a span covering from the start of a to the end of b.
func span2(a, b span.Span) span.Span {
	return span.New(a.StartLine, a.StartCol, b.EndLine, b.EndCol)
}
