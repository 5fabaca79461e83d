package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"curator/internal/config"
)

// ErrJobRunning is returned by CreateJob when another scan job is active.
var ErrJobRunning = errors.New("a scan job is already running")

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "library.db"))
}

// OpenPath opens the library database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateJob inserts a new running scan job. The insert is guarded against
// the presence of another running job in a single statement, so concurrent
// callers race on one write and every loser gets ErrJobRunning.
func (s *Store) CreateJob(ctx context.Context) (*ScanJob, error) {
	job := &ScanJob{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		StartedAt: time.Now().UTC(),
	}
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scan_jobs (id, status, started_at)
         SELECT ?, ?, ?
         WHERE NOT EXISTS (SELECT 1 FROM scan_jobs WHERE status = ?)`,
		job.ID,
		job.Status,
		job.StartedAt.Format(time.RFC3339Nano),
		JobRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	if affected == 0 {
		return nil, ErrJobRunning
	}
	return job, nil
}

// UpdateJob persists progress counters, stats, and terminal state for a job.
func (s *Store) UpdateJob(ctx context.Context, job *ScanJob) error {
	if job == nil {
		return errors.New("job is nil")
	}
	errorsJSON, err := marshalJobErrors(job.Errors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE scan_jobs
         SET status = ?, total_files = ?, processed_files = ?,
             movies = ?, tv_episodes = ?, uncategorized = ?, error_count = ?,
             errors_json = ?, error_message = ?, finished_at = ?
         WHERE id = ?`,
		job.Status,
		job.TotalFiles,
		job.ProcessedFiles,
		job.Stats.Movies,
		job.Stats.TVEpisodes,
		job.Stats.Uncategorized,
		job.Stats.Errors,
		errorsJSON,
		nullableString(job.ErrorMessage),
		nullableTime(job.FinishedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// GetJob fetches a scan job by identifier. Returns nil when no job matches.
func (s *Store) GetJob(ctx context.Context, id string) (*ScanJob, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM scan_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// RunningJob returns the currently running scan job, or nil when idle.
func (s *Store) RunningJob(ctx context.Context) (*ScanJob, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+jobColumns+` FROM scan_jobs WHERE status = ? ORDER BY started_at DESC LIMIT 1`,
		JobRunning,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("running job: %w", err)
	}
	return job, nil
}

// ListJobs returns scan jobs ordered from newest to oldest.
func (s *Store) ListJobs(ctx context.Context) ([]*ScanJob, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM scan_jobs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*ScanJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func marshalJobErrors(jobErrors []JobError) (any, error) {
	if len(jobErrors) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(jobErrors)
	if err != nil {
		return nil, fmt.Errorf("marshal job errors: %w", err)
	}
	return string(data), nil
}
