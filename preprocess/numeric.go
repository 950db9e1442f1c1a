package preprocess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rubiojr/sagepp/scanner"
)

// NumericPrefix namespaces the identifiers that hoisted numeric literals are
// bound to. User code is assumed never to start a name with it.
const NumericPrefix = "_sage_const_"

// numeralRe matches every numeral form: float/exponent (which also covers a
// leading or trailing dot), decimal, hex, octal and binary, followed by an
// optional raw/long/imaginary suffix. The float branch comes first so that
// the longest spelling wins.
var numeralRe = regexp.MustCompile(`(?i)((?:(?:\b\d+(?:[.]\d*)?)|(?:[.]\d+))(?:e[-+]?\d+)?|\b\d+|\b0x[0-9a-f]+|\b0o[0-7]+|\b0b[01]+)(rj|rl|jr|lr|j|l|r|)\b`)

// wrapperNames are the constructors numerals are wrapped in. A numeral that
// is already an argument of one of them is left alone, which keeps the
// rewrite a fixed point.
var wrapperNames = []string{"Integer", "RealNumber", "ComplexNumber"}

var hoistedNameReplacer = strings.NewReplacer(".", "p", "-", "n", "+", "")

// Constant is one hoisted numeric literal.
type Constant struct {
	Name        string
	Constructor string
}

// Constants records hoisted numeric literals keyed by generated name, in
// first-seen order. Names derive from the literal's spelling, so 1.0 and
// 1.00 are distinct entries.
type Constants struct {
	names []string
	ctors map[string]string
}

func newConstants() *Constants {
	return &Constants{ctors: map[string]string{}}
}

func (c *Constants) add(name, ctor string) {
	if _, ok := c.ctors[name]; ok {
		return
	}
	c.names = append(c.names, name)
	c.ctors[name] = ctor
}

// Len returns the number of distinct constants.
func (c *Constants) Len() int { return len(c.names) }

// Lookup returns the constructor bound to name.
func (c *Constants) Lookup(name string) (string, bool) {
	ctor, ok := c.ctors[name]
	return ctor, ok
}

// Entries returns the constants in first-seen order.
func (c *Constants) Entries() []Constant {
	out := make([]Constant, len(c.names))
	for i, n := range c.names {
		out[i] = Constant{Name: n, Constructor: c.ctors[n]}
	}
	return out
}

// Assignments renders each constant as a `NAME = CONSTRUCTOR` statement.
func (c *Constants) Assignments() []string {
	out := make([]string, len(c.names))
	for i, n := range c.names {
		out[i] = n + " = " + c.ctors[n]
	}
	return out
}

// NumericLiterals wraps every numeral in code in an arbitrary-precision
// constructor:
//
//	5      →  Integer(5)
//	0b101  →  Integer('101', 2)
//	1.5    →  RealNumber('1.5')
//	2.5j   →  ComplexNumber(0, '2.5')
//	5r     →  5
//	5L     →  5L
//
// code must be a literal-free skeleton.
func NumericLiterals(code string) string {
	out, _ := rewriteNumerals(code, false)
	return out
}

// ExtractNumericLiterals replaces every numeral in code with a generated
// name and returns the names with their constructors, so repeated
// execution of the same text builds each value once:
//
//	1.2 + 5  →  _sage_const_1p2  + _sage_const_5
//
// code must be a literal-free skeleton.
func ExtractNumericLiterals(code string) (string, *Constants) {
	return rewriteNumerals(code, true)
}

func rewriteNumerals(code string, extract bool) (string, *Constants) {
	consts := newConstants()
	checkWrapped := false
	for _, w := range wrapperNames {
		if strings.Contains(code, w+"(") {
			checkWrapped = true
			break
		}
	}

	var out strings.Builder
	last := 0
	for _, m := range numeralRe.FindAllStringSubmatchIndex(code, -1) {
		start, end := m[0], m[1]
		num := code[m[2]:m[3]]
		suffix := strings.ToUpper(code[m[4]:m[5]])

		var name, ctor string
		switch {
		case strings.Contains(suffix, "R"):
			name = num + strings.ReplaceAll(suffix, "R", "")
			ctor = name
		case strings.Contains(suffix, "L"):
			continue
		default:
			var skip bool
			start, end, num, skip = adjustNumeral(code, start, end, num, suffix)
			if skip {
				continue
			}
			if checkWrapped && insideWrapper(code, start) {
				continue
			}
			name, ctor = wrapNumeral(num, suffix)
			consts.add(name, ctor)
		}

		out.WriteString(code[last:start])
		if extract {
			out.WriteString(name + " ")
		} else {
			out.WriteString(ctor)
		}
		last = end
	}
	out.WriteString(code[last:])
	return out.String(), consts
}

// adjustNumeral applies the dot rules that a regular expression cannot
// express on its own. It reports skip when the match is not a numeral at
// all (the 0 in R.0 is a generator index).
func adjustNumeral(code string, start, end int, num, suffix string) (int, int, string, bool) {
	if strings.Contains(num, ".") {
		switch {
		case start > 0 && num[0] == '.':
			if code[start-1] == '.' {
				// ..5 continues an ellipsis; the dot is not fractional.
				return start + 1, end, num[1:], false
			}
			if isIdentChar(code[start-1]) || code[start-1] == ']' || code[start-1] == ')' {
				return start, end, num, true
			}
		case end < len(code) && num[len(num)-1] == '.':
			if isIdentStart(code[end]) {
				// 4.sqrt(): the dot starts a method call.
				return start, end - 1, num[:len(num)-1], false
			}
		}
		return start, end, num, false
	}
	if end < len(code) && code[end] == '.' && suffix == "" && allDigits(num) {
		// A trailing dot on a digit run is a float unless another dot
		// follows (1..5).
		if end+1 == len(code) || code[end+1] != '.' {
			return start, end + 1, num + ".", false
		}
	}
	return start, end, num, false
}

// wrapNumeral returns the hoisting name and the constructor for num.
func wrapNumeral(num, suffix string) (string, string) {
	lower := strings.ToLower(num)
	imaginary := strings.Contains(suffix, "J")
	if len(lower) > 2 && lower[0] == '0' && !imaginary {
		switch lower[1] {
		case 'x':
			return NumericPrefix + num, fmt.Sprintf("Integer(%s)", num)
		case 'o':
			return NumericPrefix + num, fmt.Sprintf("Integer('%s', 8)", num[2:])
		case 'b':
			return NumericPrefix + num, fmt.Sprintf("Integer('%s', 2)", num[2:])
		}
	}
	if imaginary || strings.ContainsAny(num, ".eE") {
		name := NumericPrefix + hoistedNameReplacer.Replace(num)
		if imaginary {
			return name + "j", fmt.Sprintf("ComplexNumber(0, '%s')", num)
		}
		return name, fmt.Sprintf("RealNumber('%s')", num)
	}
	return NumericPrefix + num, fmt.Sprintf("Integer(%s)", num)
}

// insideWrapper reports whether the numeral at ix sits directly inside a
// constructor call produced by an earlier rewrite.
func insideWrapper(code string, ix int) bool {
	block, err := scanner.ContainingBlock(code, ix, []string{"()"}, true)
	if err != nil {
		return false
	}
	head := strings.TrimRight(code[:block.Start], " ")
	for _, w := range wrapperNames {
		if strings.HasSuffix(head, w) {
			h := head[:len(head)-len(w)]
			if h == "" || !isIdentChar(h[len(h)-1]) {
				return true
			}
		}
	}
	return false
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
