// Package store persists an audit trail of application attempts and status
// transitions in Postgres. The sheet remains the user-facing record; the
// store keeps the full history the sheet overwrites.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/types"
)

const connectTimeout = 5 * time.Second

// Store is the Postgres-backed audit log.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Connect opens a pool against databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info("database connected")
	return &Store{pool: pool, log: log}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the audit tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id             UUID PRIMARY KEY,
	job_id         TEXT NOT NULL,
	company        TEXT NOT NULL,
	position       TEXT NOT NULL,
	job_url        TEXT NOT NULL,
	platform       TEXT NOT NULL,
	status         TEXT NOT NULL,
	application_id TEXT,
	notes          TEXT,
	applied_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS status_changes (
	id         UUID PRIMARY KEY,
	job_id     TEXT NOT NULL,
	old_status TEXT NOT NULL,
	new_status TEXT NOT NULL,
	notes      TEXT,
	changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications (job_id);
CREATE INDEX IF NOT EXISTS idx_status_changes_job_id ON status_changes (job_id);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// RecordApplication appends one apply attempt, successful or not.
func (s *Store) RecordApplication(ctx context.Context, job types.JobRecord, result types.Result) error {
	const q = `
INSERT INTO applications (id, job_id, company, position, job_url, platform, status, application_id, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, q,
		uuid.New(),
		job.JobID,
		job.Company,
		job.Position,
		job.URL,
		result.Platform,
		result.Status,
		result.ApplicationID,
		result.Notes,
	)
	if err != nil {
		return fmt.Errorf("recording application for %s: %w", job.JobID, err)
	}

	s.log.Debug("application recorded",
		zap.String("job_id", job.JobID),
		zap.String("status", result.Status))
	return nil
}

// RecordStatusChange appends one status transition observed by the tracker.
func (s *Store) RecordStatusChange(ctx context.Context, job types.JobRecord, oldStatus, newStatus, notes string) error {
	const q = `
INSERT INTO status_changes (id, job_id, old_status, new_status, notes)
VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, q, uuid.New(), job.JobID, oldStatus, newStatus, notes)
	if err != nil {
		return fmt.Errorf("recording status change for %s: %w", job.JobID, err)
	}
	return nil
}

// ApplicationRow is one audit entry returned by RecentApplications.
type ApplicationRow struct {
	JobID         string
	Company       string
	Position      string
	Platform      string
	Status        string
	ApplicationID string
	Notes         string
	AppliedAt     time.Time
}

// RecentApplications returns the newest attempts, most recent first.
func (s *Store) RecentApplications(ctx context.Context, limit int) ([]ApplicationRow, error) {
	const q = `
SELECT job_id, company, position, platform, status, COALESCE(application_id, ''), COALESCE(notes, ''), applied_at
FROM applications
ORDER BY applied_at DESC
LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	var out []ApplicationRow
	for rows.Next() {
		var r ApplicationRow
		if err := rows.Scan(&r.JobID, &r.Company, &r.Position, &r.Platform, &r.Status,
			&r.ApplicationID, &r.Notes, &r.AppliedAt); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
