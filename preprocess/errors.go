package preprocess

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rubiojr/sagepp/scanner"
)

// SyntaxError is the error reported for text that cannot be rewritten.
type SyntaxError = scanner.SyntaxError

// TypeError reports input that is not text: invalid UTF-8, or a NUL byte,
// which the rewriters reserve for internal markers.
type TypeError struct {
	Offset int
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("input is not text at offset %d: %s", e.Offset, e.Reason)
}

func checkText(s string) error {
	if i := strings.IndexByte(s, 0); i != -1 {
		return &TypeError{Offset: i, Reason: "NUL byte"}
	}
	if !utf8.ValidString(s) {
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				return &TypeError{Offset: i, Reason: "invalid UTF-8"}
			}
			i += size
		}
	}
	return nil
}
