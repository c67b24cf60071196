// Package history keeps a local audit log of pipeline runs.
package history

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/qizhangumich/arabian-news-process/internal/domain"
	"github.com/qizhangumich/arabian-news-process/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	fetched INTEGER NOT NULL,
	enriched INTEGER NOT NULL,
	saved INTEGER NOT NULL,
	used_fallback INTEGER NOT NULL DEFAULT 0
);`

// SQLiteRecorder appends one row per pipeline run to an embedded database.
// The processed collection itself lives in Firestore; this log only answers
// "when did the job last run and what did it do".
type SQLiteRecorder struct {
	db *sql.DB
}

var _ ports.RunRecorder = (*SQLiteRecorder)(nil)

// Open creates or opens the history database and ensures the schema.
func Open(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// RecordRun appends one run entry.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, stats domain.RunStats) error {
	query := sq.Insert("runs").
		Columns("started_at", "finished_at", "fetched", "enriched", "saved", "used_fallback").
		Values(stats.StartedAt, stats.FinishedAt, stats.Fetched, stats.Enriched, stats.Saved, stats.UsedFallback)

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// LastRun returns the most recent entry, or ok=false when the log is empty.
func (r *SQLiteRecorder) LastRun(ctx context.Context) (domain.RunStats, bool, error) {
	query := sq.Select("started_at", "finished_at", "fetched", "enriched", "saved", "used_fallback").
		From("runs").
		OrderBy("id DESC").
		Limit(1)

	var stats domain.RunStats
	err := query.RunWith(r.db).QueryRowContext(ctx).Scan(
		&stats.StartedAt,
		&stats.FinishedAt,
		&stats.Fetched,
		&stats.Enriched,
		&stats.Saved,
		&stats.UsedFallback,
	)
	if err == sql.ErrNoRows {
		return domain.RunStats{}, false, nil
	}
	if err != nil {
		return domain.RunStats{}, false, fmt.Errorf("query last run: %w", err)
	}

	return stats, true, nil
}
