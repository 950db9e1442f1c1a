// Package scanner provides literal-aware scanning for the preparser. It
// replaces string and comment spans with placeholders so the rewriters only
// ever see code, and finds balanced delimiter blocks in the resulting
// skeleton.
//
// A skeleton is the input text with every string literal replaced by a
// %(Ln)s placeholder, every comment body replaced the same way (the '#'
// itself stays inline), and every other '%' doubled. Literals.Restore
// reverses the substitution.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the quoting state carried between chunks of one statement.
// The zero value means "no literal open".
type State struct {
	Delim string // active delimiter: ', ", ''' or """
	Raw   bool   // the open literal carries an r/R prefix
}

// Open reports whether a string literal is still open.
func (s State) Open() bool { return s.Delim != "" }

// Literals maps a placeholder label to the exact literal text it hides.
type Literals map[string]string

// Label returns the n-th placeholder label. Strip numbers labels from 1 in
// scan order, so the literal left open at the end of a chunk is always
// Label(len(lits)).
func Label(n int) string { return "L" + strconv.Itoa(n) }

// Placeholder returns the skeleton token for label.
func Placeholder(label string) string { return "%(" + label + ")s" }

// Strip scans code and replaces each string and comment literal with a
// placeholder. Comments are only recognised outside literals. Quotes are
// matched by kind, triple quotes included; in non-raw literals a delimiter
// preceded by an odd run of backslashes does not close the literal.
//
// When code ends inside a literal, the partial text is hidden behind its own
// placeholder and the returned State is open. Passing that State to the next
// call makes the scan start inside the literal.
func Strip(code string, st State) (string, Literals, State) {
	var out strings.Builder
	out.Grow(len(code))
	lits := Literals{}
	add := func(text string) string {
		label := Label(len(lits) + 1)
		lits[label] = text
		return Placeholder(label)
	}

	delim, raw := st.Delim, st.Raw
	start, q := 0, 0
	for {
		q = firstQuote(code, q)
		hash := indexFrom(code, '#', start)
		if delim == "" && hash != -1 && (q == -1 || hash < q) {
			nl := indexFrom(code, '\n', hash)
			if nl == -1 {
				nl = len(code)
			}
			out.WriteString(escapePercent(code[start:hash]))
			out.WriteByte('#')
			out.WriteString(add(code[hash+1 : nl]))
			start, q = nl, nl
			continue
		}

		if q == -1 {
			if delim != "" {
				out.WriteString(add(code[start:]))
			} else {
				out.WriteString(escapePercent(code[start:]))
			}
			return out.String(), lits, State{Delim: delim, Raw: raw}
		}

		if delim != "" {
			if !raw && escaped(code, q) {
				q++
				continue
			}
			if strings.HasPrefix(code[q:], delim) {
				q += len(delim)
				out.WriteString(add(code[start:q]))
				start = q
				delim, raw = "", false
			} else {
				q++
			}
			continue
		}

		raw = q > 0 && (code[q-1] == 'r' || code[q-1] == 'R')
		delim = code[q : q+1]
		if q+3 <= len(code) && code[q+1] == code[q] && code[q+2] == code[q] {
			delim = code[q : q+3]
		}
		out.WriteString(escapePercent(code[start:q]))
		start = q
		q += len(delim)
	}
}

// Restore substitutes the literals back into skel and undoes the '%'
// doubling. It fails when a placeholder is malformed or has no entry.
func (l Literals) Restore(skel string) (string, error) {
	var out strings.Builder
	out.Grow(len(skel))
	for i := 0; i < len(skel); i++ {
		ch := skel[i]
		if ch != '%' || i+1 >= len(skel) {
			out.WriteByte(ch)
			continue
		}
		switch skel[i+1] {
		case '%':
			out.WriteByte('%')
			i++
		case '(':
			label, next, ok := placeholderAt(skel, i)
			if !ok {
				return "", fmt.Errorf("malformed literal placeholder at offset %d", i)
			}
			text, found := l[label]
			if !found {
				return "", fmt.Errorf("unknown literal placeholder %q at offset %d", label, i)
			}
			out.WriteString(text)
			i = next - 1
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), nil
}

// SourceOffset maps an offset in an unmodified skeleton back to the
// corresponding offset in the text it was stripped from.
func (l Literals) SourceOffset(skel string, off int) int {
	src := 0
	for i := 0; i < len(skel) && i < off; i++ {
		if skel[i] == '%' && i+1 < len(skel) {
			if skel[i+1] == '%' {
				src++
				i++
				continue
			}
			if label, next, ok := placeholderAt(skel, i); ok {
				if next > off {
					return src
				}
				src += len(l[label])
				i = next - 1
				continue
			}
		}
		src++
	}
	return src
}

// placeholderAt parses a %(label)s token starting at i and returns the
// label and the offset just past the token.
func placeholderAt(s string, i int) (string, int, bool) {
	if !strings.HasPrefix(s[i:], "%(") {
		return "", 0, false
	}
	end := strings.IndexByte(s[i+2:], ')')
	if end == -1 {
		return "", 0, false
	}
	closeIdx := i + 2 + end
	if closeIdx+1 >= len(s) || s[closeIdx+1] != 's' {
		return "", 0, false
	}
	return s[i+2 : closeIdx], closeIdx + 2, true
}

// escaped reports whether the quote at q is preceded by an odd run of
// backslashes.
func escaped(code string, q int) bool {
	n := 0
	for i := q - 1; i >= 0 && code[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func firstQuote(code string, from int) int {
	sq := indexFrom(code, '\'', from)
	dq := indexFrom(code, '"', from)
	switch {
	case sq == -1:
		return dq
	case dq == -1:
		return sq
	case sq < dq:
		return sq
	}
	return dq
}

func indexFrom(s string, ch byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], ch)
	if i == -1 {
		return -1
	}
	return from + i
}

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
