package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rubiojr/sagepp/scanner"
)

// generatorRe matches `obj.<names> [, more, targets] = constructor` between
// statement separators. The constructor may not start with '=' so that a
// comparison never looks like a binding.
var generatorRe = regexp.MustCompile(`;(\s*)([a-zA-Z_]\w*)\.<([^>]+)> *((?:,[\w, ]+)?)= *([^;#=][^;#]*)`)

// PreparseGenerators rewrites generator bindings:
//
//	R.<x,y> = PolynomialRing(ZZ)  →  R = PolynomialRing(ZZ, names=('x', 'y',)); (x, y,) = R._first_ngens(2)
//	R.<x,y> = ZZ[]                →  R = ZZ['x, y']; (x, y,) = R._first_ngens(2)
//	F.<b>, f = S.extension()      →  F, f = S.extension(names=('b',)); (b,) = F._first_ngens(1)
//
// A constructor ending in neither ')' nor ']' is kept as written. Every
// statement in code must be wrapped in ';' separators, and a binding must
// fit in a single statement.
func PreparseGenerators(code string) string {
	matches := generatorRe.FindAllStringSubmatchIndex(code, -1)
	if matches == nil {
		return code
	}
	var out strings.Builder
	last := 0
	for _, m := range matches {
		indent := code[m[2]:m[3]]
		obj := code[m[4]:m[5]]
		others := code[m[8]:m[9]]
		ctor := strings.TrimRightFunc(code[m[10]:m[11]], unicode.IsSpace)
		tail := code[m[10]+len(ctor) : m[11]]

		var gens []string
		for _, g := range strings.Split(code[m[6]:m[7]], ",") {
			gens = append(gens, strings.TrimSpace(g))
		}

		out.WriteString(code[last:m[0]])
		fmt.Fprintf(&out, ";%s%s%s = %s; (%s,) = %s._first_ngens(%d)%s",
			indent, obj, others, injectNames(ctor, gens), strings.Join(gens, ", "), obj, len(gens), tail)
		last = m[1]
	}
	out.WriteString(code[last:])
	return out.String()
}

// injectNames hands the generator names to the constructor: as a names=
// keyword of a trailing call, or as the content of a trailing empty
// subscript.
func injectNames(ctor string, gens []string) string {
	switch ctor[len(ctor)-1] {
	case ')':
		open := scanner.MatchingOpen(ctor, len(ctor)-1)
		if open == -1 {
			return ctor
		}
		comma := ""
		if strings.TrimSpace(ctor[open+1:len(ctor)-1]) != "" {
			comma = ", "
		}
		return fmt.Sprintf("%s%snames=('%s',))", ctor[:len(ctor)-1], comma, strings.Join(gens, "', '"))
	case ']':
		open := strings.LastIndexByte(ctor, '[')
		if open == -1 {
			return ctor
		}
		closeIdx := open + strings.IndexByte(ctor[open:], ']')
		if strings.TrimSpace(ctor[open+1:closeIdx]) != "" {
			return ctor
		}
		return ctor[:open+1] + "'" + strings.Join(gens, ", ") + "'" + ctor[closeIdx:]
	}
	return ctor
}
