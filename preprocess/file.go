package preprocess

import (
	"regexp"
	"strings"

	"github.com/rubiojr/sagepp/scanner"
)

// maxInlineAssignments bounds how many hoisted constants are packed onto
// the first line. Past it they get their own lines.
const maxInlineAssignments = 500

var blankOrComment = regexp.MustCompile(`^ *(#.*)?$`)

// File rewrites a whole source unit. Numeric literals are hoisted into
// constants assigned at the top, so a literal inside a loop body is built
// once; the assignments share the first line when possible to keep line
// numbers stable. Each line is then rewritten in order, continuing literals
// across lines.
//
// Sources that mention @parallel skip hoisting: the constants would not
// reach the worker processes.
func File(contents string, opts Options) (string, error) {
	if err := checkText(contents); err != nil {
		return "", err
	}
	if !opts.NumericLiterals || strings.Contains(contents, "@parallel") {
		return preparseLines(contents, opts, 0)
	}

	hoisted, shift, err := hoistNumerals(contents)
	if err != nil {
		return "", err
	}
	lineOpts := opts
	lineOpts.NumericLiterals = false
	out, err := preparseLines(hoisted, lineOpts, shift)
	if err != nil {
		// Report against the text as written, not the hoisted form.
		if _, lerr := preparseLines(contents, opts, 0); lerr != nil {
			return "", lerr
		}
		return "", err
	}
	return out, nil
}

// preparseLines rewrites contents line by line, carrying open literals
// from one line to the next. shift is the number of lines inserted above
// the input, which error line numbers discount.
func preparseLines(contents string, opts Options, shift int) (string, error) {
	p := New(opts)
	lines := splitLines(contents)
	out := make([]string, len(lines))
	openLine := 0
	for i, line := range lines {
		line = strings.TrimRightFunc(line, isTrailingSpace)
		wasOpen := i > 0 && p.State().Open()
		m, err := p.Preparse(line, i == 0)
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				return "", se.AtLine(sourceLine(i+1, shift))
			}
			return "", err
		}
		if !wasOpen && p.State().Open() {
			openLine = i + 1
		}
		out[i] = m
	}

	if p.State().Open() {
		line := lines[openLine-1]
		return "", &SyntaxError{
			Msg:  "unterminated string literal",
			Span: scanner.Span{Start: p.openAt, End: len(strings.TrimRightFunc(line, isTrailingSpace))},
			Line: sourceLine(openLine, shift),
		}
	}
	return strings.Join(out, "\n"), nil
}

// sourceLine maps a line of the hoisted text back to the input.
func sourceLine(n, shift int) int {
	if n-shift < 1 {
		return 1
	}
	return n - shift
}

// hoistNumerals replaces every numeral in contents with its constant name
// and prepends the assignments. It also returns how many lines the input
// moved down.
func hoistNumerals(contents string) (string, int, error) {
	skel, lits, state := scanner.Strip(contents, scanner.State{})
	if state.Open() {
		partial := lits[scanner.Label(len(lits))]
		start := len(contents) - len(partial)
		lineStart := strings.LastIndexByte(contents[:start], '\n') + 1
		lineEnd := strings.IndexByte(contents[start:], '\n')
		if lineEnd == -1 {
			lineEnd = len(contents)
		} else {
			lineEnd += start
		}
		return "", 0, &SyntaxError{
			Msg:  "unterminated string literal",
			Span: scanner.Span{Start: start - lineStart, End: lineEnd - lineStart},
			Line: strings.Count(contents[:start], "\n") + 1,
		}
	}

	skel, consts := ExtractNumericLiterals(skel)
	contents, err := lits.Restore(skel)
	if err != nil {
		return "", 0, err
	}
	if consts.Len() == 0 {
		return contents, 0, nil
	}

	first := contents
	if ix := strings.IndexByte(contents, '\n'); ix != -1 {
		first = contents[:ix]
	}
	shift := 0
	if !blankOrComment.MatchString(first) {
		contents = "\n" + contents
		shift = 1
	}
	assignments := consts.Assignments()
	if len(assignments) < maxInlineAssignments {
		return strings.Join(assignments, "; ") + contents, shift, nil
	}
	return strings.Join(assignments, "\n") + "\n\n" + contents, shift + len(assignments) + 1, nil
}

// splitLines splits on \n, \r\n and \r and drops the empty piece after a
// final line break.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func isTrailingSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}
