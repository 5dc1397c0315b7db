// Package journal records every submission the interpreter runs into a SQL
// database. SQLite, MySQL and PostgreSQL are supported.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	StatusOK      = "ok"
	StatusSyntax  = "syntax"
	StatusRuntime = "runtime"
)

// Entry is one journalled run.
type Entry struct {
	ID           int64
	Source       string
	Mode         string
	StartedAt    time.Time
	Duration     time.Duration
	Status       string
	Diagnostics  string
	RuntimeError string
}

type dialect struct {
	ddl         string
	dollarParam bool
}

var dialects = map[string]dialect{
	"sqlite3": {ddl: `CREATE TABLE IF NOT EXISTS lox_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	mode TEXT NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	status TEXT NOT NULL,
	diagnostics TEXT NOT NULL,
	runtime_error TEXT NOT NULL
)`},
	"mysql": {ddl: `CREATE TABLE IF NOT EXISTS lox_runs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	source VARCHAR(512) NOT NULL,
	mode VARCHAR(16) NOT NULL,
	started_at VARCHAR(64) NOT NULL,
	duration_ms BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL,
	diagnostics TEXT NOT NULL,
	runtime_error TEXT NOT NULL
)`},
	"postgres": {dollarParam: true, ddl: `CREATE TABLE IF NOT EXISTS lox_runs (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	mode TEXT NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	status TEXT NOT NULL,
	diagnostics TEXT NOT NULL,
	runtime_error TEXT NOT NULL
)`},
}

const (
	insertRun = `INSERT INTO lox_runs
	(source, mode, started_at, duration_ms, status, diagnostics, runtime_error)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectRecent = `SELECT id, source, mode, started_at, duration_ms, status, diagnostics, runtime_error
	FROM lox_runs ORDER BY id DESC LIMIT ?`
)

type Journal struct {
	db      *sql.DB
	dialect dialect
}

// Open connects with driver ("sqlite3", "mysql" or "postgres") and creates
// the runs table when it does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*Journal, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("journal: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open connection: %w", err)
	}
	if driver == "sqlite3" {
		// one connection keeps ":memory:" databases alive and writes serial
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create table: %w", err)
	}

	slog.Debug("journal opened", slog.String("driver", driver))
	return &Journal{db: db, dialect: d}, nil
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, j.rebind(insertRun),
		e.Source,
		e.Mode,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Milliseconds(),
		e.Status,
		e.Diagnostics,
		e.RuntimeError,
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	slog.Debug("journal record", slog.String("source", e.Source), slog.String("status", e.Status))
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, j.rebind(selectRecent), n)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			startedAt string
			millis    int64
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Mode, &startedAt, &millis, &e.Status, &e.Diagnostics, &e.RuntimeError); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("journal: bad started_at %q: %w", startedAt, err)
		}
		e.Duration = time.Duration(millis) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) rebind(query string) string {
	if !j.dialect.dollarParam {
		return query
	}
	return Rebind(query)
}

// Rebind rewrites "?" placeholders as "$1", "$2", ... for PostgreSQL.
func Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
