// Package store handles SQLite persistence of typing log records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codetype-dev/codetype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the local attempt log. It is the fallback
// target when the remote API is unreachable; records are append-only and
// never updated in place.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS typing_logs (
			id TEXT PRIMARY KEY,
			study_book_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			language TEXT NOT NULL,
			score REAL NOT NULL,
			timestamp TEXT NOT NULL,
			problems INTEGER NOT NULL DEFAULT 0,
			correct_problems REAL NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_logs_started_at ON typing_logs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_logs_language ON typing_logs(language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save appends a completed attempt record.
func (s *Store) Save(ctx context.Context, rec model.LogRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_logs (id, study_book_id, started_at, duration_ms, total_chars, correct_chars, wpm, accuracy, language, score, timestamp, problems, correct_problems)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StudyBookID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.DurationMs,
		rec.TotalChars,
		rec.CorrectChars,
		rec.WPM,
		rec.Accuracy,
		rec.Language,
		rec.Score,
		rec.Timestamp.Format(time.RFC3339Nano),
		rec.Problems,
		rec.CorrectProblems,
	)
	return err
}

// List returns attempt records filtered by the stats config, oldest first.
func (s *Store) List(ctx context.Context, cfg model.StatsConfig) ([]model.LogRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, study_book_id, started_at, duration_ms, total_chars, correct_chars, wpm, accuracy, language, score, timestamp, problems, correct_problems
		FROM typing_logs
		WHERE %s
		ORDER BY started_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.LogRecord
	for rows.Next() {
		var rec model.LogRecord
		var startedAt, timestamp string
		if err := rows.Scan(&rec.ID, &rec.StudyBookID, &startedAt, &rec.DurationMs, &rec.TotalChars, &rec.CorrectChars, &rec.WPM, &rec.Accuracy, &rec.Language, &rec.Score, &timestamp, &rec.Problems, &rec.CorrectProblems); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}
