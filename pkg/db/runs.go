package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded render.
type Run struct {
	RunID        int64     `yaml:"run_id"`
	PageURL      string    `yaml:"page_url"`
	ShellURL     string    `yaml:"shell_url,omitempty"`
	ManifestURL  string    `yaml:"manifest_url,omitempty"`
	State        string    `yaml:"state"`
	FailedStage  string    `yaml:"failed_stage,omitempty"`
	ErrorKind    string    `yaml:"error_kind,omitempty"`
	ErrorMessage string    `yaml:"error_message,omitempty"`
	PageTouched  bool      `yaml:"page_touched"`
	VersionCount int       `yaml:"version_count"`
	OutputPath   string    `yaml:"output_path,omitempty"`
	OutputHash   string    `yaml:"output_hash,omitempty"`
	StartedAt    time.Time `yaml:"started_at"`
	FinishedAt   time.Time `yaml:"finished_at"`
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// RecordRun inserts a run, returning its run_id.
func (db *DB) RecordRun(r *Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (page_url, shell_url, manifest_url, state, failed_stage,
		                  error_kind, error_message, page_touched, version_count,
		                  output_path, output_hash, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.PageURL, r.ShellURL, r.ManifestURL, r.State, r.FailedStage,
		r.ErrorKind, r.ErrorMessage, r.PageTouched, r.VersionCount, r.OutputPath,
		r.OutputHash, r.StartedAt.UTC(), r.FinishedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	r.RunID = runID
	return runID, nil
}

const runColumns = `run_id, page_url, shell_url, manifest_url, state, failed_stage,
	error_kind, error_message, page_touched, version_count, output_path, output_hash,
	started_at, finished_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var shellURL, manifestURL, failedStage, errorKind, errorMessage, outputPath, outputHash sql.NullString
	if err := row.Scan(&r.RunID, &r.PageURL, &shellURL, &manifestURL, &r.State, &failedStage,
		&errorKind, &errorMessage, &r.PageTouched, &r.VersionCount, &outputPath, &outputHash,
		&r.StartedAt, &r.FinishedAt); err != nil {
		return nil, err
	}
	r.ShellURL = shellURL.String
	r.ManifestURL = manifestURL.String
	r.FailedStage = failedStage.String
	r.ErrorKind = errorKind.String
	r.ErrorMessage = errorMessage.String
	r.OutputPath = outputPath.String
	r.OutputHash = outputHash.String
	return &r, nil
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// LatestRun returns the most recent run.
func (db *DB) LatestRun() (*Run, error) {
	runs, err := db.ListRuns(1, false)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

// ListRuns returns runs newest first. limit <= 0 means no limit.
func (db *DB) ListRuns(limit int, failedOnly bool) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	if failedOnly {
		query += " WHERE state = 'failed'"
	}
	query += " ORDER BY started_at DESC, run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// PruneRuns deletes runs started before cutoff and returns how many went.
func (db *DB) PruneRuns(cutoff time.Time) (int64, error) {
	result, err := db.Exec("DELETE FROM runs WHERE started_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected()
}
