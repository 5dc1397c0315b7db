package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"lox/internal/ast"
	"lox/internal/journal"
	loxlog "lox/internal/log"
	"lox/internal/parser"
	"lox/internal/repl"
	"lox/internal/session"
	"lox/internal/util"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath    string
	debugAST      string
	historyPath   string
	journalDriver string
	journalDSN    string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Path to a TOML config file (default $LOX_HOME/lox.toml)")
	// parser config
	flag.StringVar(&debugAST, "debug-ast", "", "Render the parsed AST to stderr: json, yaml or text")
	// repl config
	flag.StringVar(&historyPath, "history", "", "REPL history file (default ~/.lox_history)")
	// journal config
	flag.StringVar(&journalDriver, "journal-driver", "", "Record runs with this SQL driver: sqlite3, mysql, postgres")
	flag.StringVar(&journalDSN, "journal-dsn", "", "Data source name for the run journal")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return session.ExitOK
	}
	if help {
		printHelp()
		return session.ExitOK
	}
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: lox [options] [script]")
		return session.ExitUsage
	}

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		LoxHome:   os.Getenv("LOX_HOME"),
		LogLevel:  logLevel,
	}
	required := configPath != ""
	if !required {
		configPath = util.DefaultConfigPath(config.LoxHome)
	}
	if err := config.LoadFile(configPath, required); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return session.ExitUsage
	}
	config.Overlay(flag.CommandLine)

	logCloser := loxlog.Setup(config.LogLevel, config.LogFile)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []session.Option{session.WithOutput(os.Stdout)}
	if config.Journal.Driver != "" {
		j, err := journal.Open(ctx, config.Journal.Driver, config.Journal.DSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return session.ExitUsage
		}
		defer j.Close()
		opts = append(opts, session.WithRecorder(j))
	}

	if flag.NArg() == 1 {
		return runFile(ctx, flag.Arg(0), config, opts)
	}
	return runPrompt(ctx, config, opts)
}

func runFile(ctx context.Context, path string, config util.Configuration, opts []session.Option) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read '%s': %v\n", path, err)
		return session.ExitUsage
	}

	sess := session.New(append(opts, session.WithSourceName(path))...)
	res := sess.Run(ctx, string(src), session.ModeFile)

	if config.DebugAST != "" && res.Statements != nil {
		if err := dumpAST(os.Stderr, config.DebugAST, res.Statements); err != nil {
			slog.Warn("ast dump failed", slog.Any("error", err))
		}
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprint(os.Stderr, util.GetContextLines(string(src), res.Diagnostics[0].Line))
	}
	if res.RuntimeErr != nil {
		fmt.Fprintln(os.Stderr, session.FormatRuntimeError(res.RuntimeErr))
	}
	return res.ExitCode()
}

func runPrompt(ctx context.Context, config util.Configuration, opts []session.Option) int {
	in := repl.NewLinerReader(config.HistoryPath())
	defer in.Close()

	sess := session.New(append(opts, session.WithSourceName("<repl>"))...)
	r := repl.New(sess, in, os.Stdout, os.Stderr)
	r.DebugAST = config.DebugAST
	if err := r.Start(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		return session.ExitUsage
	}
	return session.ExitOK
}

func dumpAST(w io.Writer, format string, stmts []ast.Statement) error {
	out, err := parser.RenderAST(format, &ast.Program{Statements: stmts})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func printVersion() {
	fmt.Printf("lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lox [options] [script]

Options:
  -config <path>          Load settings from a TOML file. Default is $LOX_HOME/lox.toml.
  -debug-ast <format>     Render each parsed script or REPL line to stderr as json, yaml or text.
  -history <path>         REPL history file. Default is ~/.lox_history.
  -journal-driver <name>  Record every run through sqlite3, mysql or postgres.
  -journal-dsn <dsn>      Data source name for the run journal.
  -help                   Display this help information and exit.
  -version                Display version information and exit.
  -log-level <level>      Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>        Specify a log file to write logs. Default is stderr.

Details:
Without a script, lox starts an interactive prompt. A line that does not end
in ';' is evaluated as an expression and its value printed.

Exit codes:
  64  usage error
  65  syntax error in the script
  70  runtime error in the script

Examples:
  lox                                   Start the REPL
  lox -log-level=debug hello.lox        Run a script with debug logging
  lox -journal-driver=sqlite3 -journal-dsn=runs.db hello.lox

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
