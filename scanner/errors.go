package scanner

import "fmt"

// SyntaxError reports text the preparser cannot rewrite: an unterminated
// literal, unbalanced delimiters, a misplaced ellipsis. Span locates the
// offending bytes in the line (or chunk) that was being processed; Line is
// the 1-based line number when the caller knows it.
type SyntaxError struct {
	Msg  string
	Span Span
	Line int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// AtLine returns a copy of e that reports line n.
func (e *SyntaxError) AtLine(n int) *SyntaxError {
	c := *e
	c.Line = n
	return &c
}

// Shift returns a copy of e with its span moved right by n bytes.
func (e *SyntaxError) Shift(n int) *SyntaxError {
	c := *e
	c.Span = Span{Start: e.Span.Start + n, End: e.Span.End + n}
	return &c
}
