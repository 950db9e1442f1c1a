package preprocess

import (
	"regexp"
	"strings"

	"github.com/rubiojr/sagepp/scanner"
)

var (
	repeatedComma = regexp.MustCompile(`,\s*,`)
	// importFromRe matches the head of a relative import up to its dots.
	importFromRe = regexp.MustCompile(`^\s*from\s+$`)
)

// ParseEllipsis rewrites range notation into explicit constructor calls:
//
//	[1,2,..,n]        →  (ellipsis_range(1,2,Ellipsis,n))
//	(f(x) .. L[10])   →  (ellipsis_iter(f(x) ,Ellipsis, L[10]))
//
// The enclosing [] or () decides between the eager range builder and the
// lazy iterator. With step enabled, a ';' inside the block introduces the
// step: [1..10; 2] → (ellipsis_range(1,Ellipsis,10, step= 2)).
//
// A run of three or more dots is the host's own Ellipsis token and is left
// alone unless it shares a block with a two-dot marker, and so are the
// dots of a relative import (from ..mod import f). code must be a
// literal-free skeleton.
func ParseEllipsis(code string, step bool) (string, error) {
	pos := 0
	for {
		rel := strings.Index(code[pos:], "..")
		if rel == -1 {
			return code, nil
		}
		ix := pos + rel
		run := dotRun(code, ix)
		if run >= 3 {
			pos = ix + run
			continue
		}

		lineStart := strings.LastIndexByte(code[:ix], '\n') + 1
		if relativeImport(code[lineStart:ix]) {
			pos = ix + run
			continue
		}
		if strings.TrimSpace(code[lineStart:ix]) == "" {
			return "", &scanner.SyntaxError{
				Msg:  "cannot start line with ellipsis",
				Span: scanner.Span{Start: ix, End: ix + 2},
			}
		}

		block, err := scanner.ContainingBlock(code, ix, []string{"()", "[]"}, true)
		if err != nil {
			return "", &scanner.SyntaxError{
				Msg:  "ellipsis range outside brackets: unbalanced or missing delimiters",
				Span: scanner.Span{Start: ix, End: ix + 2},
			}
		}

		args := code[block.Start+1 : block.End-1]
		args = strings.ReplaceAll(args, "...", ",Ellipsis,")
		args = strings.ReplaceAll(args, "..", ",Ellipsis,")
		args = repeatedComma.ReplaceAllString(args, ",")
		if step {
			args = strings.ReplaceAll(args, ";", ", step=")
		}
		kind := "iter"
		if code[block.Start] == '[' {
			kind = "range"
		}
		code = code[:block.Start] + "(ellipsis_" + kind + "(" + args + "))" + code[block.End:]
		pos = block.Start
	}
}

// relativeImport reports whether head, the line text before a run of dots,
// is the `from` of the statement the dots belong to.
func relativeImport(head string) bool {
	if i := strings.LastIndexByte(head, ';'); i != -1 {
		head = head[i+1:]
	}
	return importFromRe.MatchString(head)
}

func dotRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '.' {
		n++
	}
	return n
}
