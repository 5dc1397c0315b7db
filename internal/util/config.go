package util

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const ConfigFileName = "lox.toml"

type JournalConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// Configuration is assembled once in main: an optional TOML file first,
// then any flag the user set explicitly.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	LoxHome   string `toml:"-"`

	LogLevel string        `toml:"log_level"`
	LogFile  string        `toml:"log_file"`
	DebugAST string        `toml:"debug_ast"`
	History  string        `toml:"history"`
	Journal  JournalConfig `toml:"journal"`
}

// DefaultConfigPath is $LOX_HOME/lox.toml, or "" when LOX_HOME is unset.
func DefaultConfigPath(loxHome string) string {
	if loxHome == "" {
		return ""
	}
	return filepath.Join(loxHome, ConfigFileName)
}

// LoadFile decodes path over c. A missing file is not an error unless
// required is set.
func (c *Configuration) LoadFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Overlay copies every flag that was set on the command line onto c.
func (c *Configuration) Overlay(flags *flag.FlagSet) {
	flags.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "log-level":
			c.LogLevel = value
		case "log-file":
			c.LogFile = value
		case "debug-ast":
			c.DebugAST = value
		case "history":
			c.History = value
		case "journal-driver":
			c.Journal.Driver = value
		case "journal-dsn":
			c.Journal.DSN = value
		}
	})
}

// HistoryPath is the REPL history file: the configured one, else
// .lox_history under LOX_HOME or the user's home directory.
func (c *Configuration) HistoryPath() string {
	if c.History != "" {
		return c.History
	}
	if c.LoxHome != "" {
		return filepath.Join(c.LoxHome, ".lox_history")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".lox_history")
	}
	return ""
}
