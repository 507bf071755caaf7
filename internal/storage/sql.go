package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ftr/internal/config"
	"ftr/internal/domain"
)

const queryTimeout = 30 * time.Second

// Driver names as registered with database/sql.
const (
	DriverSQLite = config.DriverSQLite
	DriverMySQL  = config.DriverMySQL
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          VARCHAR(36) NOT NULL PRIMARY KEY,
		started_at  BIGINT      NOT NULL,
		duration_ms BIGINT      NOT NULL,
		total       INT         NOT NULL,
		passed      INT         NOT NULL,
		failed      INT         NOT NULL,
		scan_errors INT         NOT NULL,
		workers     INT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		run_id      VARCHAR(36) NOT NULL,
		job_id      INT         NOT NULL,
		path        TEXT        NOT NULL,
		passed      BOOLEAN     NOT NULL,
		elapsed_ms  BIGINT      NOT NULL,
		description TEXT        NOT NULL,
		PRIMARY KEY (run_id, job_id)
	)`,
}

// SQLStore records run history in MySQL or SQLite.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore connects to the history database and creates the tables if needed.
func OpenSQLStore(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
	case DriverMySQL:
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		err := ensureMySQLDatabase(ctx, dsn)
		cancel()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect %s store: %w", s.driver, err)
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create history tables: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save records the run and every finished job in one transaction.
func (s *SQLStore) Save(summary domain.RunSummary, _ []domain.TestFailure) error {
	if summary.RunID == "" {
		summary.RunID = NewRunID()
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, total, passed, failed, scan_errors, workers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.StartedAt.UnixMilli(), summary.Elapsed.Milliseconds(),
		summary.Total, summary.Passed, summary.Failed, summary.ScanErrors, summary.Workers)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO jobs (run_id, job_id, path, passed, elapsed_ms, description) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare job insert: %w", err)
	}
	defer stmt.Close()

	for _, j := range summary.Jobs {
		if _, err := stmt.ExecContext(ctx, summary.RunID, j.ID, j.Path, j.Passed, j.Elapsed.Milliseconds(), j.Description); err != nil {
			return fmt.Errorf("insert job %d: %w", j.ID, err)
		}
	}
	return tx.Commit()
}

// History returns the most recent runs, newest first. Jobs are not loaded.
func (s *SQLStore) History(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, total, passed, failed, scan_errors, workers
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var (
			r                    domain.RunSummary
			startedMs, elapsedMs int64
		)
		if err := rows.Scan(&r.RunID, &startedMs, &elapsedMs, &r.Total, &r.Passed, &r.Failed, &r.ScanErrors, &r.Workers); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.Errors = r.Failed + r.ScanErrors
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Jobs returns the recorded jobs of one run in job id order.
func (s *SQLStore) Jobs(ctx context.Context, runID string) ([]domain.JobResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, path, passed, elapsed_ms, description FROM jobs WHERE run_id = ? ORDER BY job_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.JobResult
	for rows.Next() {
		var (
			j         domain.JobResult
			elapsedMs int64
		)
		if err := rows.Scan(&j.ID, &j.Path, &j.Passed, &elapsedMs, &j.Description); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
