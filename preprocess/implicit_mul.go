package preprocess

import (
	"regexp"
	"strings"

	"github.com/rubiojr/sagepp/scanner"
)

// Implicit multiplication levels. Each level adds to the ones below it.
const (
	MulOff         = 0  // no insertion
	MulNumeric     = 1  // numeral followed by a name or '(': 2x, 3(x+1)
	MulParen       = 2  // ')' followed by a name, literal followed by a name
	MulSpaces      = 3  // names separated by blanks: a b c
	MulDefault     = 5  // level used when multiplication is switched on with no level
	MulParenParens = 10 // adjacent groups: (a)(b)
)

// noMul breaks up character sequences that must not be read as operand
// adjacency. It is removed before the skeleton leaves the pass; NUL never
// appears in accepted input.
const noMul = "\x00"

var (
	basePrefixRe   = regexp.MustCompile(`\b0([xX][0-9a-fA-F]|[oO][0-7]|[bB][01])`)
	timeWordRe     = regexp.MustCompile(`( *)time `)
	rawSuffixRe    = regexp.MustCompile(`\b(\d+(?:\.\d+)?(?:e\d+)?)([rR]\b)`)
	exponentRe     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)e([-\d])`)
	numberNameRe   = regexp.MustCompile(`\b((?:\d+(?:\.\d+)?)|(?:` + NumericPrefix + `[0-9eEpn]*\b)) *([a-zA-Z_(]\w*)\b`)
	placeholderRe  = regexp.MustCompile(`(%\(L\d+\))s`)
	literalNameRe  = regexp.MustCompile(`(%\(L\d+\)` + noMul + `s` + noMul + `) *([a-zA-Z_(]\w*)`)
	parenNameRe    = regexp.MustCompile(`(\)) *(\w+)`)
	nameNameRe     = regexp.MustCompile(`(\w+) +(\w+)`)
	adjacentParens = regexp.MustCompile(`\) *\(`)
)

// ImplicitMul inserts '*' where code juxtaposes operands, as far as level
// allows:
//
//	ImplicitMul("(2x^2-4x+3)a0", 5)   →  "(2*x^2-4*x+3)*a0"
//	ImplicitMul("a b c in L", 5)      →  "a*b*c in L"
//	ImplicitMul("1r + 1e3 + 5exp(2)", 5) → "1r + 1e3 + 5*exp(2)"
//	ImplicitMul("f(a)(b)", 10)        →  "f(a)*(b)"
//
// String and comment literals are never touched.
func ImplicitMul(code string, level int) (string, error) {
	skel, lits, _ := scanner.Strip(code, scanner.State{})
	return lits.Restore(implicitMul(skel, level))
}

// implicitMul works on a literal-free skeleton.
func implicitMul(code string, level int) string {
	if level < MulNumeric {
		return code
	}
	code = basePrefixRe.ReplaceAllString(code, "0"+noMul+"${1}")
	code = timeWordRe.ReplaceAllString(code, "${1}time "+noMul)
	code = rawSuffixRe.ReplaceAllString(code, "${1}"+noMul+"${2}")
	code = exponentRe.ReplaceAllString(code, "${1}"+noMul+"e"+noMul+"${2}")
	code = insertMul(numberNameRe, code, nil)

	if level >= MulParen {
		code = placeholderRe.ReplaceAllString(code, "${1}"+noMul+"s"+noMul)
		code = insertMul(literalNameRe, code, func(src string, start int) bool {
			// A comment body never has an operand after it.
			return start > 0 && src[start-1] == '#'
		})
		code = insertMul(parenNameRe, code, nil)
	}
	if level >= MulSpaces {
		code = insertMul(nameNameRe, code, nil)
	}
	if level >= MulParenParens {
		code = adjacentParens.ReplaceAllString(code, ")*(")
	}
	return strings.ReplaceAll(code, noMul, "")
}

// insertMul replaces every match of re, whose two groups are the left and
// right operands, with left*right unless either side is a keyword or skip
// rejects the match start. Matches cannot overlap, so the pass runs twice
// to catch chains like a b c.
func insertMul(re *regexp.Regexp, code string, skip func(src string, start int) bool) string {
	for range 2 {
		matches := re.FindAllStringSubmatchIndex(code, -1)
		src := code
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			left, right := src[m[2]:m[3]], src[m[4]:m[5]]
			if Keywords[left] || Keywords[right] {
				continue
			}
			if skip != nil && skip(src, m[0]) {
				continue
			}
			code = code[:m[0]] + left + "*" + right + code[m[1]:]
		}
	}
	return code
}
