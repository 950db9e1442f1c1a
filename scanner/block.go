package scanner

import "strings"

// Span is a half-open byte range [Start, End).
type Span struct {
	Start, End int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the part of s covered by the span.
func (s Span) Text(src string) string { return src[s.Start:s.End] }

// DefaultDelimiters are the bracket pairs ContainingBlock considers when
// the caller passes none.
var DefaultDelimiters = []string{"()", "[]", "{}"}

// ContainingBlock returns the smallest span around ix that is delimited by
// one of the given bracket pairs, brackets included. The walk back from ix
// keeps one nesting counter per pair and stops at the first opener that is
// not closed before ix; the walk forward then finds its closer.
//
// With no enclosing opener, strict mode fails and non-strict mode returns
// the bounds of the whole text. An opener without a closer always fails.
func ContainingBlock(code string, ix int, delims []string, strict bool) (Span, error) {
	if len(delims) == 0 {
		delims = DefaultDelimiters
	}
	var openings, closings strings.Builder
	for _, d := range delims {
		openings.WriteByte(d[0])
		closings.WriteByte(d[len(d)-1])
	}
	opens, closes := openings.String(), closings.String()
	if ix > len(code) {
		ix = len(code)
	}

	levels := make([]int, len(opens))
	kind := -1
	start := ix - 1
	for ; start >= 0; start-- {
		if p := strings.IndexByte(opens, code[start]); p != -1 {
			levels[p]--
			if levels[p] == -1 {
				kind = p
				break
			}
		} else if p := strings.IndexByte(closes, code[start]); p != -1 {
			levels[p]++
		}
	}
	if kind == -1 {
		if strict {
			return Span{}, &SyntaxError{Msg: "unbalanced or missing delimiters", Span: Span{Start: 0, End: len(code)}}
		}
		return Span{Start: 0, End: len(code)}, nil
	}

	level := 0
	for end := ix + 1; end < len(code); end++ {
		switch code[end] {
		case opens[kind]:
			level++
		case closes[kind]:
			level--
			if level == -1 {
				return Span{Start: start, End: end + 1}, nil
			}
		}
	}
	return Span{}, &SyntaxError{Msg: "unbalanced or missing delimiters", Span: Span{Start: start, End: len(code)}}
}

// MatchingOpen returns the offset of the opening bracket that pairs with
// the closing bracket at closeIdx, or -1 if there is none.
func MatchingOpen(code string, closeIdx int) int {
	if closeIdx < 0 || closeIdx >= len(code) {
		return -1
	}
	closer := code[closeIdx]
	var opener byte
	switch closer {
	case ')':
		opener = '('
	case ']':
		opener = '['
	case '}':
		opener = '{'
	default:
		return -1
	}
	depth := 0
	for i := closeIdx - 1; i >= 0; i-- {
		switch code[i] {
		case closer:
			depth++
		case opener:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
