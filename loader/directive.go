package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Directive is a `load` or `attach` line naming one or more files:
//
//	load a.sage, "b c.sage"  # helpers
type Directive struct {
	Pos     lexer.Position
	Kind    string   `parser:"@(\"load\" | \"attach\")"`
	Paths   []string `parser:"@(String | Word) (\",\" @(String | Word))*"`
	Comment string   `parser:"@Comment?"`
}

var directiveLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
		{Name: "Punct", Pattern: `,`},
		{Name: "Word", Pattern: `[^\s"',#]+`},
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
	},
})

var directiveParser = participle.MustBuild[Directive](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
)

// ParseDirective recognises a directive line. ok reports whether the line
// starts with a directive keyword followed by anything at all; err is set
// when the text after the keyword is not a path list, such as an unquoted
// path with blanks in it.
func ParseDirective(line string) (d Directive, ok bool, err error) {
	var kind string
	switch {
	case strings.HasPrefix(line, "load "):
		kind = "load"
	case strings.HasPrefix(line, "attach "):
		kind = "attach"
	default:
		return Directive{}, false, nil
	}
	if strings.TrimSpace(line[len(kind):]) == "" {
		return Directive{}, false, nil
	}

	parsed, err := directiveParser.ParseString("", line)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return Directive{}, true, fmt.Errorf("malformed %s directive at column %d: %s",
				kind, perr.Position().Column, perr.Message())
		}
		return Directive{}, true, fmt.Errorf("malformed %s directive: %w", kind, err)
	}
	for i, p := range parsed.Paths {
		parsed.Paths[i] = StripQuotes(p)
	}
	return *parsed, true, nil
}

// StripQuotes trims blanks around s and then one leading and one trailing
// quote character.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s[0] == '\'' || s[0] == '"' {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}
