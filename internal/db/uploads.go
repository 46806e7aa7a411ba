package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/types"
)

// ListUploadsByClient retrieves every candidate upload owned by the given
// client, oldest first. The owning candidate's email is joined in so the
// pipeline can report results by identity.
func (db *DB) ListUploadsByClient(ctx context.Context, clientID uuid.UUID) ([]types.CandidateUpload, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cu.id, cu.user_id, u.email, cu.cv_path, cu.linkedin_url, cu.profile_text, cu.client_id
		 FROM candidate_uploads cu
		 JOIN users u ON u.id = cu.user_id
		 WHERE cu.client_id = $1
		 ORDER BY cu.created_at ASC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []types.CandidateUpload
	for rows.Next() {
		var upload types.CandidateUpload
		if err := rows.Scan(&upload.ID, &upload.UserID, &upload.Email, &upload.CVPath,
			&upload.LinkedinURL, &upload.ProfileText, &upload.ClientID); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}

// CreateUpload inserts an upload record and returns its ID.
func (db *DB) CreateUpload(ctx context.Context, upload *types.CandidateUpload) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidate_uploads (user_id, cv_path, linkedin_url, profile_text, client_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		upload.UserID, upload.CVPath, upload.LinkedinURL, upload.ProfileText, upload.ClientID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create upload: %w", err)
	}
	return id, nil
}
