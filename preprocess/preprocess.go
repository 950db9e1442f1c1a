// Package preprocess rewrites the extended surface syntax into plain host
// language text. Rewrites run on a literal-free skeleton produced by the
// scanner package, in a fixed order per statement:
//
//  1. ellipsis ranges        [1..n]        → (ellipsis_range(1,Ellipsis,n))
//  2. implicit multiplication 2x           → 2*x            (if enabled)
//  3. numeric literals       2/3           → Integer(2)/Integer(3) (if enabled)
//  4. generator indexes      R.0           → R.gen(0)
//  5. power and xor          a^b, a^^b     → a**b, a^b
//  6. generator bindings     R.<x> = ZZ[]  → R = ZZ['x']; (x,) = R._first_ngens(1)
//  7. calculus functions     f(x) = x**2   → __tmp__=var("x"); f = symbolic_expression(x**2).function(x)
//  8. backslash operator     A \ B         → A  * BackslashOperator() * B
//  9. timing                 time stmt     → timer setup; stmt; report (if enabled)
//
// The statement rewrites (6, 7) match a single statement; a binding or
// definition spread over several lines is not recognised.
package preprocess

import (
	"errors"
	"strings"
	"unicode"

	"github.com/rubiojr/sagepp/scanner"
)

// Options selects the optional rewrites.
type Options struct {
	// ImplicitMul is the implicit multiplication level; 0 disables it.
	ImplicitMul int
	// NumericLiterals wraps numerals in arbitrary-precision constructors.
	NumericLiterals bool
	// Time expands a leading `time` keyword into a timed statement.
	Time bool
	// IgnorePrompts drops leading `sage:` and `>>>` prompts.
	IgnorePrompts bool
}

// DefaultOptions returns the options used by Preparse.
func DefaultOptions() Options {
	return Options{NumericLiterals: true}
}

// Preparser rewrites statements one at a time. It carries the quoting
// state between calls, so a literal opened by one call can be continued by
// the next. A Preparser must not be shared between goroutines; independent
// sessions each use their own.
type Preparser struct {
	opts   Options
	state  scanner.State
	openAt int // offset of the open literal in the line that opened it
}

// New returns a Preparser with no literal open.
func New(opts Options) *Preparser {
	return &Preparser{opts: opts}
}

// Options returns the options in effect.
func (p *Preparser) Options() Options { return p.opts }

// SetImplicitMul changes the implicit multiplication level for later calls.
func (p *Preparser) SetImplicitMul(level int) { p.opts.ImplicitMul = level }

// State returns the quoting state left by the last call.
func (p *Preparser) State() scanner.State { return p.state }

// Reset forgets any open literal.
func (p *Preparser) Reset() {
	p.state = scanner.State{}
	p.openAt = 0
}

// Preparse rewrites one independent statement with the default options.
func Preparse(line string) (string, error) {
	return New(DefaultOptions()).Preparse(line, true)
}

// Preparse rewrites line. With reset, line starts a new statement;
// otherwise it continues the text passed to the previous call and may
// start inside a literal that call left open.
//
// On error nothing is returned and the carried state is left as it was.
func (p *Preparser) Preparse(line string, reset bool) (string, error) {
	if err := checkText(line); err != nil {
		return "", err
	}
	if reset {
		p.Reset()
	}

	if !p.state.Open() {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" && (trimmed[0] == '#' || trimmed[0] == '!') {
			return line, nil
		}
		if strings.HasPrefix(trimmed, "...") {
			i := strings.Index(line, "...") + 3
			rest, err := p.Preparse(line[i:], false)
			if err != nil {
				var se *SyntaxError
				if errors.As(err, &se) {
					return "", se.Shift(i)
				}
				return "", err
			}
			if p.state.Open() {
				p.openAt += i
			}
			return line[:i] + rest, nil
		}
		if p.opts.IgnorePrompts {
			line = StripPrompts(line)
		}
	}

	skel, lits, state := scanner.Strip(line, p.state)
	code, err := p.rewrite(skel)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			c := *se
			c.Span = scanner.Span{
				Start: lits.SourceOffset(skel, se.Span.Start),
				End:   lits.SourceOffset(skel, se.Span.End),
			}
			return "", &c
		}
		return "", err
	}
	out, err := lits.Restore(code)
	if err != nil {
		return "", err
	}

	if state.Open() && !p.state.Open() {
		p.openAt = len(line) - len(lits[scanner.Label(len(lits))])
	}
	p.state = state
	return out, nil
}

// rewrite runs every pass over a skeleton.
func (p *Preparser) rewrite(code string) (string, error) {
	code, err := ParseEllipsis(code, true)
	if err != nil {
		return "", err
	}
	if p.opts.ImplicitMul > MulOff {
		code = implicitMul(code, p.opts.ImplicitMul)
	}
	if p.opts.NumericLiterals {
		code, _ = rewriteNumerals(code, false)
	}
	code = rewriteGenIndex(code)
	code = rewritePower(code)

	code = wrapStatements(code)
	if p.opts.Time {
		code = markTimed(code)
	}
	code = PreparseGenerators(code)
	code = PreparseCalculus(code)
	code = rewriteBackslash(code)
	if p.opts.Time {
		code = expandTimed(code)
	}
	return unwrapStatements(code), nil
}
