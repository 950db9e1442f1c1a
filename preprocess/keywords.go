package preprocess

// Keywords are host-language reserved words. Implicit multiplication is
// never inserted next to one of them, so `2 if c else 3` and `a in L`
// survive untouched.
var Keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "exec": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true,
	"in": true, "is": true, "lambda": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "print": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}
