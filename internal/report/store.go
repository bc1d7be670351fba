package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run outcomes in a local SQLite ledger.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    candidates INTEGER NOT NULL DEFAULT 0,
    swapped INTEGER NOT NULL DEFAULT 0,
    metadata_only INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    bytes_reclaimed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    asset_id TEXT NOT NULL,
    outcome TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    bytes_reclaimed INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the ledger database location.
func (s *Store) Path() string {
	return s.path
}

// StartRun inserts a run row and returns its identifier.
func (s *Store) StartRun(ctx context.Context, candidates int) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (started_at, candidates) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		candidates,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// Append records one asset's outcome for the given run.
func (s *Store) Append(ctx context.Context, runID int64, assetID, outcome, detail string, bytesReclaimed int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (run_id, asset_id, outcome, detail, bytes_reclaimed, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		assetID,
		outcome,
		detail,
		bytesReclaimed,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Totals summarizes a finished run.
type Totals struct {
	Swapped        int
	MetadataOnly   int
	Skipped        int
	Failed         int
	BytesReclaimed int64
}

// FinishRun stamps the run's end time and stores its totals.
func (s *Store) FinishRun(ctx context.Context, runID int64, totals Totals) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, swapped = ?, metadata_only = ?, skipped = ?, failed = ?, bytes_reclaimed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		totals.Swapped,
		totals.MetadataOnly,
		totals.Skipped,
		totals.Failed,
		totals.BytesReclaimed,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RunTotals reads back the stored totals for a run.
func (s *Store) RunTotals(ctx context.Context, runID int64) (Totals, error) {
	var totals Totals
	err := s.db.QueryRowContext(
		ctx,
		`SELECT swapped, metadata_only, skipped, failed, bytes_reclaimed FROM runs WHERE id = ?`,
		runID,
	).Scan(&totals.Swapped, &totals.MetadataOnly, &totals.Skipped, &totals.Failed, &totals.BytesReclaimed)
	if err != nil {
		return Totals{}, fmt.Errorf("read run totals: %w", err)
	}
	return totals, nil
}

// OutcomeCount returns the number of outcome rows recorded for a run.
func (s *Store) OutcomeCount(ctx context.Context, runID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM outcomes WHERE run_id = ?`,
		runID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count outcomes: %w", err)
	}
	return count, nil
}
