package report

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// ErrNoReports indicates the run history is empty.
var ErrNoReports = errors.New("no reports recorded")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	schedule      TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP NOT NULL,
	hard_failures INTEGER NOT NULL,
	payload       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store persists one row per maintenance run. The full report travels
// as a JSON payload; the indexed columns exist for history listing and
// retention pruning.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the report database at path.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save records one run. The run id must be unique per run.
func (s *Store) Save(report *types.MaintenanceReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, schedule, started_at, finished_at, hard_failures, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID, string(report.Schedule), report.StartedAt, report.FinishedAt,
		report.HardFailures, string(payload),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

// Latest returns the most recent report, or ErrNoReports.
func (s *Store) Latest() (*types.MaintenanceReport, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM runs ORDER BY started_at DESC, run_id DESC LIMIT 1`,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNoReports
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest report: %w", err)
	}

	var report types.MaintenanceReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("parsing report payload: %w", err)
	}
	return &report, nil
}

// RunSummary is one line of run history.
type RunSummary struct {
	RunID        string
	Schedule     types.ScheduleKind
	StartedAt    time.Time
	HardFailures int
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT run_id, schedule, started_at, hard_failures
		 FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var r RunSummary
		var schedule string
		if err := rows.Scan(&r.RunID, &schedule, &r.StartedAt, &r.HardFailures); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Schedule = types.ScheduleKind(schedule)
		summaries = append(summaries, r)
	}
	return summaries, rows.Err()
}

// PruneOlderThan deletes runs that started before the cutoff and
// returns the number removed.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned runs: %w", err)
	}
	return int(n), nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
