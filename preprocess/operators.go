package preprocess

import (
	"regexp"
	"strings"
)

var (
	genIndexRe  = regexp.MustCompile(`([_a-zA-Z]\w*|[)\]])\.(\d+)`)
	backslashRe = regexp.MustCompile(`\\\s*([^\t ;#])`)
	timeMarkRe  = regexp.MustCompile(`;(\s*)time +(\w)`)
	timeStmtRe  = regexp.MustCompile(`;time;(\s*)(\S[^;]*)`)
)

// powerReplacer maps ^ to the host power operator. A doubled ^^, and a run
// of four, stand for bitwise xor.
var powerReplacer = strings.NewReplacer("^^^^", "^", "^^", "^", "^", "**")

// timeReport is written into a skeleton, so its '%' signs are doubled.
const timeReport = `print("Time: CPU %%.2f s, Wall: %%.2f s" %% (misc.cputime(__time__), misc.walltime(__wall__)))`

// rewriteGenIndex turns R.0 into R.gen(0).
func rewriteGenIndex(code string) string {
	return genIndexRe.ReplaceAllString(code, "${1}.gen(${2})")
}

// rewritePower maps ^ to **, and ^^ or ^^^^ to ^.
func rewritePower(code string) string {
	return powerReplacer.Replace(code)
}

// rewriteBackslash turns A \ B into A * BackslashOperator() * B. A trailing
// backslash (a line continuation) is left alone.
func rewriteBackslash(code string) string {
	return backslashRe.ReplaceAllString(code, " * BackslashOperator() * ${1}")
}

// wrapStatements makes every statement start and end with ';' so the
// statement rewriters can anchor on it.
func wrapStatements(code string) string {
	return ";" + strings.ReplaceAll(code, "\n", ";\n;") + ";"
}

func unwrapStatements(code string) string {
	code = strings.ReplaceAll(code, ";\n;", "\n")
	return code[1 : len(code)-1]
}

// markTimed separates a leading `time` keyword into its own statement so
// the generator and calculus rewrites still see the timed statement.
func markTimed(code string) string {
	return timeMarkRe.ReplaceAllString(code, ";time;${1}${2}")
}

// expandTimed surrounds a marked statement with timer setup and a report.
func expandTimed(code string) string {
	return timeStmtRe.ReplaceAllString(code,
		";${1}__time__=misc.cputime(); __wall__=misc.walltime(); ${2}; "+timeReport)
}

// StripPrompts removes a leading `sage:` or `>>>` prompt and the blanks
// after it, so examples pasted from a session run as-is.
func StripPrompts(line string) string {
	for _, prompt := range []string{"sage:", ">>>"} {
		if strings.HasPrefix(line, prompt) {
			return strings.TrimLeft(line[len(prompt):], " \t")
		}
	}
	return line
}
