package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// ParseLevel maps a -log-level value onto a slog level. Unknown values and
// "none" fall back to error.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// FileWriter appends to a log file that can be reopened after rotation.
type FileWriter struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	sigs chan os.Signal
}

// OpenFile creates the parent directories of path and opens it for append.
func OpenFile(path string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for '%s': %w", path, err)
	}
	w := &FileWriter{path: path}
	if err := w.Reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Write(p)
}

// Reopen closes the current handle and opens the path again, picking up a
// fresh file if the old one was moved away.
func (w *FileWriter) Reopen() error {
	fh, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file '%s': %w", w.path, err)
	}
	w.mu.Lock()
	old := w.fh
	w.fh = fh
	w.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// WatchRotation reopens the file on every SIGHUP:
//
//	mv lox.log lox.bak && kill -HUP <pid>
func (w *FileWriter) WatchRotation() {
	w.sigs = make(chan os.Signal, 1)
	signal.Notify(w.sigs, syscall.SIGHUP)
	go func(sigs chan os.Signal) {
		for range sigs {
			if err := w.Reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
			}
		}
	}(w.sigs)
}

func (w *FileWriter) Close() error {
	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
		w.sigs = nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs a JSON slog logger as the process default. With an empty
// logFile it writes to stderr. If the file cannot be opened the error is
// reported on stderr and logging falls back to stderr.
func Setup(level, logFile string) io.Closer {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		fw, err := OpenFile(logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
		} else {
			fw.WatchRotation()
			out, closer = fw, fw
		}
	}

	slog.SetDefault(New(out, level))
	return closer
}

// New builds the JSON logger used across the interpreter.
func New(out io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}))
}
