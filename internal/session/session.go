package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/evaluator"
	"lox/internal/journal"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/token"
)

type Mode int

const (
	ModeFile Mode = iota
	ModeREPL
)

func (m Mode) String() string {
	if m == ModeREPL {
		return "repl"
	}
	return "file"
}

const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitSyntax  = 65
	ExitRuntime = 70
)

// Recorder receives one entry per submission. *journal.Journal satisfies it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Result is the outcome of one Run. At most one of Diagnostics and
// RuntimeErr is populated: a syntax error prevents evaluation. A REPL
// expression comes back as a single ExpressionStatement.
type Result struct {
	Diagnostics []diag.Diagnostic
	RuntimeErr  error
	Statements  []ast.Statement
}

func (r Result) HadError() bool {
	return len(r.Diagnostics) > 0 || r.RuntimeErr != nil
}

func (r Result) ExitCode() int {
	switch {
	case len(r.Diagnostics) > 0:
		return ExitSyntax
	case r.RuntimeErr != nil:
		return ExitRuntime
	default:
		return ExitOK
	}
}

// RuntimeError returns the language fault carried by the result, if any.
func (r Result) RuntimeError() (*object.RuntimeError, bool) {
	var rtErr *object.RuntimeError
	ok := errors.As(r.RuntimeErr, &rtErr)
	return rtErr, ok
}

// Session owns a global environment that persists across Run calls. It is
// not safe for concurrent use.
type Session struct {
	out      io.Writer
	name     string
	globals  *object.Environment
	eval     *evaluator.Evaluator
	recorder Recorder
	now      func() time.Time
}

type Option func(*Session)

// WithOutput sets the writer that receives print output. Default os.Stdout.
func WithOutput(out io.Writer) Option {
	return func(s *Session) { s.out = out }
}

// WithSourceName labels journal entries, e.g. the script path.
func WithSourceName(name string) Option {
	return func(s *Session) { s.name = name }
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func New(opts ...Option) *Session {
	s := &Session{
		out:     os.Stdout,
		globals: evaluator.Globals(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = "<stdin>"
	}
	s.eval = evaluator.New(s.out)
	return s
}

func (s *Session) Globals() *object.Environment {
	return s.globals
}

// Run lexes, parses and evaluates src against the session globals. In
// ModeREPL a submission that does not end with ';' or '}' is treated as a
// single expression and its value is printed. ctx is checked between
// top-level statements only.
func (s *Session) Run(ctx context.Context, src string, mode Mode) Result {
	start := s.now()
	res := s.run(ctx, src, mode)

	slog.Debug("run",
		slog.String("mode", mode.String()),
		slog.Int("statements", len(res.Statements)),
		slog.Int("exit", res.ExitCode()))

	if s.recorder != nil {
		entry := s.entry(res, mode, start)
		if err := s.recorder.Record(ctx, entry); err != nil {
			slog.Warn("journal write failed", slog.Any("error", err))
		}
	}
	return res
}

func (s *Session) run(ctx context.Context, src string, mode Mode) Result {
	tokens, lexErrs := lexer.Tokenize(src)

	if mode == ModeREPL && isExpression(tokens) {
		expr, parseErrs := parser.ParseExpression(tokens)
		if errs := append(lexErrs, parseErrs...); len(errs) > 0 {
			return Result{Diagnostics: errs}
		}
		res := Result{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: expr}}}
		val, err := s.eval.Evaluate(expr, s.globals)
		if err != nil {
			res.RuntimeErr = err
			return res
		}
		if _, err := io.WriteString(s.out, val.Inspect()+"\n"); err != nil {
			res.RuntimeErr = err
		}
		return res
	}

	stmts, parseErrs := parser.Parse(tokens)
	if errs := append(lexErrs, parseErrs...); len(errs) > 0 {
		return Result{Diagnostics: errs, Statements: stmts}
	}

	res := Result{Statements: stmts}
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			res.RuntimeErr = err
			return res
		}
		if err := s.eval.Execute([]ast.Statement{stmt}, s.globals); err != nil {
			res.RuntimeErr = err
			return res
		}
	}
	return res
}

// isExpression reports whether a REPL line lacks a terminating ';'. Empty
// lines and lines closed by a block's '}' are statements.
func isExpression(tokens []token.Token) bool {
	n := len(tokens)
	if n < 2 {
		return false
	}
	last := tokens[n-2].Type
	return last != token.SEMICOLON && last != token.RIGHT_BRACE
}

func (s *Session) entry(res Result, mode Mode, start time.Time) journal.Entry {
	e := journal.Entry{
		Source:    s.name,
		Mode:      mode.String(),
		StartedAt: start,
		Duration:  s.now().Sub(start),
		Status:    journal.StatusOK,
	}
	switch {
	case len(res.Diagnostics) > 0:
		e.Status = journal.StatusSyntax
		lines := make([]string, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			lines[i] = d.String()
		}
		e.Diagnostics = strings.Join(lines, "\n")
	case res.RuntimeErr != nil:
		e.Status = journal.StatusRuntime
		e.RuntimeError = FormatRuntimeError(res.RuntimeErr)
	}
	return e
}

// FormatRuntimeError renders a language fault as "message\n[line N]" and
// any other error by its text.
func FormatRuntimeError(err error) string {
	var rtErr *object.RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Report()
	}
	return err.Error()
}
