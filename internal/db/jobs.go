package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hireflow/hireflow/internal/types"
)

// GetJob retrieves a job posting projection by ID. Returns nil when no job
// matches.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.JobContext, error) {
	var job types.JobContext
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description FROM jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.Title, &job.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// CreateJob inserts a job posting and returns its ID.
func (db *DB) CreateJob(ctx context.Context, title, description string, postedBy uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description, posted_by) VALUES ($1, $2, $3) RETURNING id`,
		title, description, postedBy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}
