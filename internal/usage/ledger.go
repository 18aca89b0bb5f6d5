// Package usage persists per-call token accounting to a libsql database.
// It records aggregate usage only; conversation content never touches disk.
package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/modelink/modelink/internal/chatlink"
)

const driverLibsql = "libsql"

// Config locates the ledger database.
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Ledger wraps the database connection.
type Ledger struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS usage_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_usage_provider ON usage_log(provider);
`

// Open initializes the ledger, creating the schema when missing.
func Open(ctx context.Context, cfg Config) (*Ledger, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverLibsql, dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage ledger: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping usage ledger: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close releases database resources.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores one call's accounting. Implements chatlink.UsageRecorder.
func (l *Ledger) Record(ctx context.Context, entry chatlink.UsageEntry) error {
	if l == nil || l.db == nil {
		return errors.New("usage ledger not open")
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO usage_log (recorded_at, provider, model, prompt_tokens, completion_tokens, total_tokens, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		entry.Provider,
		entry.Model,
		entry.PromptTokens,
		entry.CompletionTokens,
		entry.TotalTokens,
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Row is one aggregated usage line.
type Row struct {
	Provider         string
	Model            string
	Calls            int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Summary aggregates usage per provider and model.
func (l *Ledger) Summary(ctx context.Context) ([]Row, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("usage ledger not open")
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT provider, model, COUNT(*), SUM(prompt_tokens), SUM(completion_tokens), SUM(total_tokens)
		 FROM usage_log GROUP BY provider, model ORDER BY provider, model`)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Provider, &r.Model, &r.Calls, &r.PromptTokens, &r.CompletionTokens, &r.TotalTokens); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func buildDSN(cfg Config) (string, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return "", errors.New("usage ledger path is required")
	}
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "file:") || strings.HasPrefix(path, "libsql:") {
		return path, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return "file:" + filepath.Clean(path), nil
}
