package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"lox/internal/ast"
	"lox/internal/parser"
	"lox/internal/session"
)

const PROMPT = "> "

const helpText = `Commands:
  :help      Show this help
  :history   List the lines entered in this session
  :quit      Leave the REPL

A line ending in ';' or '}' runs as statements; anything else is evaluated
as an expression and its value printed.
`

// LineReader is the line source of the REPL. *LinerReader reads from the
// terminal; tests supply a scripted one.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// LinerReader wraps a liner terminal state with a persistent history file.
type LinerReader struct {
	state       *liner.State
	historyPath string
}

// NewLinerReader puts the terminal into line editing mode and loads history
// from historyPath when it exists. Close restores the terminal.
func NewLinerReader(historyPath string) *LinerReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &LinerReader{state: ln, historyPath: historyPath}
}

func (r *LinerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *LinerReader) AppendHistory(item string) {
	r.state.AppendHistory(item)
}

// Close writes the history file and restores the terminal.
func (r *LinerReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.state.Close()
}

type Repl struct {
	// DebugAST, when set to json, yaml or text, dumps every parsed line to
	// errOut before its diagnostics.
	DebugAST string

	sess    *session.Session
	in      LineReader
	out     io.Writer
	errOut  io.Writer
	history []string
}

func New(sess *session.Session, in LineReader, out, errOut io.Writer) *Repl {
	return &Repl{sess: sess, in: in, out: out, errOut: errOut}
}

// Start reads lines until EOF, :quit or ctx is done. Errors in one line are
// reported and the loop continues with the same globals.
func (r *Repl) Start(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.in.Prompt(PROMPT)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(strings.ToLower(trimmed)); quit {
				return nil
			}
			continue
		}

		r.in.AppendHistory(line)
		r.history = append(r.history, line)
		r.eval(ctx, line)
	}
}

func (r *Repl) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		io.WriteString(r.out, helpText)
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, h)
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return false
}

func (r *Repl) eval(ctx context.Context, line string) {
	res := r.sess.Run(ctx, line, session.ModeREPL)
	if r.DebugAST != "" && len(res.Statements) > 0 {
		out, err := parser.RenderAST(r.DebugAST, &ast.Program{Statements: res.Statements})
		if err != nil {
			fmt.Fprintln(r.errOut, err)
		} else {
			fmt.Fprintln(r.errOut, out)
		}
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(r.errOut, d.String())
	}
	if res.RuntimeErr != nil {
		fmt.Fprintln(r.errOut, session.FormatRuntimeError(res.RuntimeErr))
	}
}
