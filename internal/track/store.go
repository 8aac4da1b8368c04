// Package track records, per wrapped invocation, how much output the
// filters saved. It is a fire-and-forget sink: recording failures are
// logged and swallowed, never surfaced to the pipeline.
package track

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Record describes one wrapped invocation.
type Record struct {
	// Command is the literal underlying command, e.g. "cargo build --release".
	Command string
	// Display is the wrapping invocation label, e.g. "rtk cargo build --release".
	Display string
	// Raw and Filtered are the before/after output buffers.
	Raw      string
	Filtered string
	Duration time.Duration
}

// Sink receives invocation records.
type Sink interface {
	Track(rec Record)
}

// NopSink discards all records. Used when the store cannot be opened so
// the pipeline never depends on tracking.
type NopSink struct{}

func (NopSink) Track(Record) {}

// Store persists records in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id             TEXT PRIMARY KEY,
	created_at     INTEGER NOT NULL,
	command        TEXT NOT NULL,
	display        TEXT NOT NULL,
	raw_bytes      INTEGER NOT NULL,
	raw_lines      INTEGER NOT NULL,
	filtered_bytes INTEGER NOT NULL,
	filtered_lines INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_display ON invocations(display);
`

// Open initializes the store at path, creating parent directories and the
// schema as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tracking directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tracking schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Track inserts one record. Errors are logged, never returned: the summary
// pipeline must not fail because analytics did.
func (s *Store) Track(rec Record) {
	_, err := s.db.Exec(
		`INSERT INTO invocations
		 (id, created_at, command, display, raw_bytes, raw_lines, filtered_bytes, filtered_lines, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		time.Now().UnixMilli(),
		rec.Command,
		rec.Display,
		len(rec.Raw),
		countLines(rec.Raw),
		len(rec.Filtered),
		countLines(rec.Filtered),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		s.logger.Warn("failed to record invocation", zap.String("display", rec.Display), zap.Error(err))
	}
}

// Gains summarizes accumulated savings.
type Gains struct {
	Invocations   int64
	RawLines      int64
	FilteredLines int64
	RawBytes      int64
	FilteredBytes int64
	PerCommand    []CommandGains
}

// CommandGains is the per-display-label breakdown.
type CommandGains struct {
	Display       string
	Invocations   int64
	RawLines      int64
	FilteredLines int64
}

// LineReduction returns the overall percentage of lines removed.
func (g Gains) LineReduction() int64 {
	if g.RawLines == 0 {
		return 0
	}
	return 100 - g.FilteredLines*100/g.RawLines
}

// Gains aggregates all recorded invocations, most-used commands first.
func (s *Store) Gains() (*Gains, error) {
	g := &Gains{}
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(raw_lines), 0), COALESCE(SUM(filtered_lines), 0),
		        COALESCE(SUM(raw_bytes), 0), COALESCE(SUM(filtered_bytes), 0)
		 FROM invocations`,
	).Scan(&g.Invocations, &g.RawLines, &g.FilteredLines, &g.RawBytes, &g.FilteredBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invocations: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT display, COUNT(*), SUM(raw_lines), SUM(filtered_lines)
		 FROM invocations GROUP BY display ORDER BY COUNT(*) DESC, display`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate per-command gains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cg CommandGains
		if err := rows.Scan(&cg.Display, &cg.Invocations, &cg.RawLines, &cg.FilteredLines); err != nil {
			return nil, fmt.Errorf("failed to scan command gains: %w", err)
		}
		g.PerCommand = append(g.PerCommand, cg)
	}
	return g, rows.Err()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
