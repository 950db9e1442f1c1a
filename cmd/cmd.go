package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rubiojr/sagepp/config"
	"github.com/rubiojr/sagepp/loader"
	"github.com/rubiojr/sagepp/preprocess"
	"github.com/rubiojr/sagepp/repl"
	"github.com/rubiojr/sagepp/report"
	"github.com/rubiojr/sagepp/scanner"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the sagepp CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "sagepp",
		Usage:                  "Rewrite Sage syntax into plain Python",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Settings file (default: $SAGEPP_CONFIG or ./sagepp.yaml)",
			},
			&cli.IntFlag{
				Name:    "implicit-mul",
				Aliases: []string{"m"},
				Usage:   "Implicit multiplication level (0 disables, 5 is the usual level)",
			},
			&cli.BoolFlag{
				Name:  "no-numeric",
				Usage: "Leave numeric literals unwrapped",
			},
			&cli.BoolFlag{
				Name:  "time",
				Usage: "Expand a leading `time` keyword into a timed statement",
			},
			&cli.BoolFlag{
				Name:  "ignore-prompts",
				Usage: "Drop leading sage: and >>> prompts",
			},
			&cli.BoolFlag{
				Name:  "no-magic",
				Usage: "Treat load and attach lines as ordinary code",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log what the loader does",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Before: setup,
		// Allow `sagepp script.sage` as shorthand for `sagepp file script.sage`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), loader.SourceExt) {
				return fileAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "line",
				Usage:     "Preparse one statement, or each line read from stdin",
				ArgsUsage: "[statement...]",
				Action:    lineAction,
			},
			{
				Name:      "file",
				Usage:     "Preparse a whole source file",
				ArgsUsage: "<file.sage | ->",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Preparse again whenever the file or an attached file changes",
					},
				},
				Action: fileAction,
			},
			{
				Name:      "strip",
				Usage:     "Show the literal-free skeleton of a file and its literal table",
				ArgsUsage: "<file | ->",
				Action:    stripAction,
			},
			{
				Name:   "repl",
				Usage:  "Preparse statements interactively",
				Action: replAction(version),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// setup applies the global flags that do not depend on the command.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	verbosity := 0
	if cmd.Bool("verbose") {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
	return ctx, nil
}

// settings loads the settings file and applies command line overrides.
func settings(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"), os.Getenv)
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("implicit-mul") {
		cfg.ImplicitMul = config.Level(cmd.Int("implicit-mul"))
	}
	if cmd.Bool("no-numeric") {
		cfg.NumericLiterals = false
	}
	if cmd.Bool("time") {
		cfg.Time = true
	}
	if cmd.Bool("ignore-prompts") {
		cfg.IgnorePrompts = true
	}
	if cmd.Bool("no-magic") {
		cfg.Magic = false
	}
	return cfg, cfg.Validate()
}

func lineAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	p := preprocess.New(cfg.Options())

	if cmd.NArg() > 0 {
		stmt := strings.Join(cmd.Args().Slice(), " ")
		out, err := p.Preparse(stmt, true)
		if err != nil {
			return reportTo(os.Stderr, "<input>", stmt, err)
		}
		fmt.Println(out)
		return nil
	}
	return preparseStream(p, os.Stdin, os.Stdout, os.Stderr)
}

// preparseStream preparses r line by line, continuing open literals across
// lines, and stops at the first error, which is reported to errW.
func preparseStream(p *preprocess.Preparser, r io.Reader, w, errW io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	for i, line := range strings.Split(text, "\n") {
		out, err := p.Preparse(line, false)
		if err != nil {
			var se *preprocess.SyntaxError
			if errors.As(err, &se) {
				err = se.AtLine(i + 1)
			}
			return reportTo(errW, "<stdin>", text, err)
		}
		fmt.Fprintln(w, out)
	}
	if p.State().Open() {
		return fmt.Errorf("input ends inside a string literal")
	}
	return nil
}

func fileAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: sagepp file [-o output] [--watch] <file.sage | ->")
	}
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	l := loader.New(loader.Options{Preparse: cfg.Options(), Magic: cfg.Magic})
	path := cmd.Args().First()
	output := cmd.String("output")

	if path == "-" {
		if cmd.Bool("watch") {
			return fmt.Errorf("--watch needs a file, not stdin")
		}
		src, err := readInput(path)
		if err != nil {
			return err
		}
		out, err := l.Source("", src)
		if err != nil {
			return reportTo(os.Stderr, "<stdin>", src, err)
		}
		return writeResult(output, out)
	}

	if err := runFile(l, path, output); err != nil && !cmd.Bool("watch") {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	if err := l.Attach(path); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	fmt.Fprintf(os.Stderr, "watching %d file(s), Ctrl+C to stop\n", len(l.Attached()))
	return l.Watch(ctx, func(changed string) {
		fmt.Fprintf(os.Stderr, "%s changed\n", changed)
		if err := runFile(l, path, output); err != nil {
			printError(os.Stderr, err)
		}
	})
}

// runFile preparses path and writes the result, reporting any error.
func runFile(l *loader.Loader, path, output string) error {
	out, err := l.Load(path)
	if err != nil {
		src, rerr := os.ReadFile(path)
		if rerr != nil {
			return err
		}
		return reportTo(os.Stderr, path, string(src), err)
	}
	return writeResult(output, out)
}

func writeResult(output, text string) error {
	if output == "" {
		fmt.Println(text)
		return nil
	}
	return os.WriteFile(output, []byte(text+"\n"), 0o644)
}

func stripAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: sagepp strip <file | ->")
	}
	src, err := readInput(cmd.Args().First())
	if err != nil {
		return err
	}
	skel, lits, st := scanner.Strip(src, scanner.State{})
	writeSkeleton(os.Stdout, skel, lits)
	if st.Open() {
		fmt.Fprintf(os.Stderr, "warning: input ends inside a %s literal\n", st.Delim)
	}
	return nil
}

// writeSkeleton prints skel followed by one `placeholder = literal` line
// per stripped literal, in label order.
func writeSkeleton(w io.Writer, skel string, lits scanner.Literals) {
	fmt.Fprintln(w, skel)
	if len(lits) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 1; i <= len(lits); i++ {
		label := scanner.Label(i)
		fmt.Fprintf(w, "%s = %s\n", scanner.Placeholder(label), strconv.Quote(lits[label]))
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func replAction(version string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		p := preprocess.New(cfg.Options())
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return preparseStream(p, os.Stdin, os.Stdout, os.Stderr)
		}
		return repl.Start(p, os.Stdout, version)
	}
}

// printError writes err to w unless it was already reported.
func printError(w io.Writer, err error) {
	var r *reported
	if !errors.As(err, &r) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

// reported marks an error that has already been shown to the user.
type reported struct{ err error }

func (r *reported) Error() string { return r.err.Error() }
func (r *reported) Unwrap() error { return r.err }

// reportTo writes err rendered against src to w and returns it marked as
// reported.
func reportTo(w io.Writer, name, src string, err error) error {
	io.WriteString(w, report.New(name, src).Format(err))
	return &reported{err: err}
}
