// Package repl is an interactive preparser: each statement typed is echoed
// back rewritten.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/rubiojr/sagepp/preprocess"
	"github.com/rubiojr/sagepp/report"
)

const (
	Prompt             = "sage: "
	ContinuationPrompt = "....: "
)

// Session holds the state of one interactive run. Statements that open a
// string literal are continued by the lines that follow.
type Session struct {
	p   *preprocess.Preparser
	out io.Writer
}

// NewSession returns a Session that writes to out.
func NewSession(p *preprocess.Preparser, out io.Writer) *Session {
	return &Session{p: p, out: out}
}

// Prompt returns the prompt for the next line.
func (s *Session) Prompt() string {
	if s.p.State().Open() {
		return ContinuationPrompt
	}
	return Prompt
}

// Handle processes one input line and reports whether the session goes on.
func (s *Session) Handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.p.State().Open() {
		switch {
		case trimmed == "exit" || trimmed == "quit":
			return false
		case strings.HasPrefix(trimmed, ":"):
			s.command(strings.Fields(trimmed))
			return true
		}
	}

	out, err := s.p.Preparse(line, false)
	if err != nil {
		io.WriteString(s.out, report.New("<stdin>", line).Format(err))
		return true
	}
	fmt.Fprintln(s.out, out)
	return true
}

func (s *Session) command(args []string) {
	switch args[0] {
	case ":mul":
		if len(args) != 2 {
			fmt.Fprintf(s.out, "implicit multiplication level: %d\n", s.p.Options().ImplicitMul)
			return
		}
		level, err := strconv.Atoi(args[1])
		if err != nil || level < 0 {
			fmt.Fprintf(s.out, "invalid level %q\n", args[1])
			return
		}
		s.p.SetImplicitMul(level)
	case ":reset":
		s.p.Reset()
	case ":help":
		fmt.Fprintln(s.out, "  :mul [N]   show or set the implicit multiplication level")
		fmt.Fprintln(s.out, "  :reset     abandon an open string literal")
		fmt.Fprintln(s.out, "  exit       leave")
	default:
		fmt.Fprintf(s.out, "unknown command %s (try :help)\n", args[0])
	}
}

// Start runs a session on the terminal with line editing and history.
func Start(p *preprocess.Preparser, out io.Writer, version string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".sagepp_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "sagepp %s\nType 'exit' or Ctrl+D to quit, ':help' for commands\n", version)
	s := NewSession(p, out)
	for {
		input, err := line.Prompt(s.Prompt())
		if err == liner.ErrPromptAborted {
			p.Reset()
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !s.Handle(input) {
			return nil
		}
	}
}
