package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// calculusRe matches `f(params) = expr` between statement separators. The
// character before '=' must be a blank or ')' and the one after it may not
// be '=', which keeps `f(x) -= 5` and `f(x) == 5` out.
var calculusRe = regexp.MustCompile(`;(\s*)([a-zA-Z_]\w*) *\(\s*([a-zA-Z_]\w*(?:\s*,\s*[a-zA-Z_]\w*)*)\s*\) *= *([^;#=][^;#]*)`)

// PreparseCalculus rewrites calculus-style function definitions:
//
//	f(x,y) = sin(x**3 - 4*y)  →  __tmp__=var("x,y"); f = symbolic_expression(sin(x**3 - 4*y)).function(x,y)
//
// Every statement in code must be wrapped in ';' separators.
func PreparseCalculus(code string) string {
	matches := calculusRe.FindAllStringSubmatchIndex(code, -1)
	if matches == nil {
		return code
	}
	var out strings.Builder
	last := 0
	for _, m := range matches {
		indent := code[m[2]:m[3]]
		fn := code[m[4]:m[5]]
		expr := strings.TrimRightFunc(code[m[8]:m[9]], unicode.IsSpace)
		tail := code[m[8]+len(expr) : m[9]]

		var params []string
		for _, p := range strings.Split(code[m[6]:m[7]], ",") {
			params = append(params, strings.TrimSpace(p))
		}
		vars := strings.Join(params, ",")

		out.WriteString(code[last:m[0]])
		fmt.Fprintf(&out, `;%s__tmp__=var("%s"); %s = symbolic_expression(%s).function(%s)%s`,
			indent, vars, fn, expr, vars, tail)
		last = m[1]
	}
	out.WriteString(code[last:])
	return out.String()
}
