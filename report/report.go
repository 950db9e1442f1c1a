// Package report renders preparser errors against the source they came
// from, with the offending span underlined.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rubiojr/sagepp/preprocess"
	"github.com/rubiojr/sagepp/scanner"
)

// Reporter formats errors for one source text.
type Reporter struct {
	filename string
	lines    []string
}

// New returns a Reporter for source, read from filename.
func New(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders err. Syntax errors show the line they occurred in and its
// neighbours; other errors are a single line.
func (r *Reporter) Format(err error) string {
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	var se *scanner.SyntaxError
	if !errors.As(err, &se) {
		var te *preprocess.TypeError
		if errors.As(err, &te) {
			return fmt.Sprintf("%s: %s: %s\n", red("error"), r.filename, te)
		}
		return fmt.Sprintf("%s: %s\n", red("error"), err)
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	line := se.Line
	if line == 0 {
		line = 1
	}
	column := se.Span.Start + 1

	var out strings.Builder
	fmt.Fprintf(&out, "%s: %s\n", red("error"), se.Msg)

	width := lineNumberWidth(line)
	indent := strings.Repeat(" ", width)
	fmt.Fprintf(&out, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, line, column)

	if line > len(r.lines) {
		return out.String()
	}
	fmt.Fprintf(&out, "%s %s\n", indent, dim("│"))
	if line > 1 {
		fmt.Fprintf(&out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), r.lines[line-2])
	}
	text := r.lines[line-1]
	fmt.Fprintf(&out, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), text)

	start := min(se.Span.Start, len(text))
	length := max(1, min(se.Span.End, len(text))-start)
	marker := strings.Repeat(" ", start) + red(strings.Repeat("^", length))
	fmt.Fprintf(&out, "%s %s %s\n", indent, dim("│"), marker)

	if line < len(r.lines) {
		fmt.Fprintf(&out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), r.lines[line])
	}
	return out.String()
}

// lineNumberWidth is the gutter width for line numbers up to line.
func lineNumberWidth(line int) int {
	return max(3, len(fmt.Sprint(line)))
}
