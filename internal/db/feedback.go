package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hireflow/hireflow/internal/types"
)

// ErrFeedbackNotFound indicates no feedback entity exists for the ID.
type ErrFeedbackNotFound struct {
	ID uuid.UUID
}

func (e *ErrFeedbackNotFound) Error() string {
	return fmt.Sprintf("feedback not found: %s", e.ID)
}

// ErrAlreadyReviewed indicates the review status has already left pending.
// The pending -> accepted|rejected transition happens at most once.
type ErrAlreadyReviewed struct {
	ID uuid.UUID
}

func (e *ErrAlreadyReviewed) Error() string {
	return fmt.Sprintf("feedback already reviewed: %s", e.ID)
}

// ErrAlreadyDecided indicates a final decision has already been recorded.
type ErrAlreadyDecided struct {
	ID uuid.UUID
}

func (e *ErrAlreadyDecided) Error() string {
	return fmt.Sprintf("final decision already recorded: %s", e.ID)
}

const feedbackColumns = `id, candidate_id, candidate_email, candidate_name, client_id, job_id, job_title,
	summary, match_score, skills, positives, negatives, recommendations,
	reviewed_by, additional_feedback, status, interview_date, interview_type, interview_details,
	final_decision, final_message, sent_to_candidate, sent_final_feedback_to_candidate, created_at`

// CreateFeedback inserts a feedback entity and returns its ID.
func (db *DB) CreateFeedback(ctx context.Context, fb *types.FeedbackEntity) (uuid.UUID, error) {
	skillsJSON, err := json.Marshal(fb.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO feedback (candidate_id, candidate_email, candidate_name, client_id, job_id, job_title,
			summary, match_score, skills, positives, negatives, recommendations, reviewed_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		fb.CandidateID, fb.CandidateEmail, fb.CandidateName, fb.ClientID, fb.JobID, fb.JobTitle,
		fb.Summary, fb.MatchScore, skillsJSON, fb.Positives, fb.Negatives, fb.Recommendations, fb.ReviewedBy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return id, nil
}

// GetFeedback retrieves a feedback entity by ID. Returns nil when none
// matches.
func (db *DB) GetFeedback(ctx context.Context, id uuid.UUID) (*types.FeedbackEntity, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id)

	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// ListFeedbackByReviewer retrieves all feedback entities created by the
// given recruiter, newest first.
func (db *DB) ListFeedbackByReviewer(ctx context.Context, reviewedBy string) ([]types.FeedbackEntity, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE reviewed_by = $1 ORDER BY created_at DESC`,
		reviewedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()
	return collectFeedback(rows)
}

// ListFeedbackByClient retrieves all feedback entities addressed to the
// given client, newest first.
func (db *DB) ListFeedbackByClient(ctx context.Context, clientID uuid.UUID) ([]types.FeedbackEntity, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()
	return collectFeedback(rows)
}

// ReviewInput carries the client's response to a shared feedback entity.
type ReviewInput struct {
	Status           types.ReviewStatus
	InterviewDate    *time.Time
	InterviewType    types.InterviewType
	InterviewDetails string
}

// RespondFeedback applies the single pending -> accepted|rejected
// transition. The guarded UPDATE makes a second attempt fail with
// ErrAlreadyReviewed rather than overwrite the first response.
func (db *DB) RespondFeedback(ctx context.Context, id uuid.UUID, input ReviewInput) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE feedback
		 SET status = $2, interview_date = $3, interview_type = $4, interview_details = $5
		 WHERE id = $1 AND status = 'pending'`,
		id, input.Status, input.InterviewDate, input.InterviewType, input.InterviewDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.feedbackConflict(ctx, id, &ErrAlreadyReviewed{ID: id})
	}
	return nil
}

// SetFinalDecision applies the single unset -> confirmed|rejected
// transition, independent of the review status.
func (db *DB) SetFinalDecision(ctx context.Context, id uuid.UUID, decision types.FinalDecision, message string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE feedback SET final_decision = $2, final_message = $3
		 WHERE id = $1 AND final_decision = ''`,
		id, decision, message,
	)
	if err != nil {
		return fmt.Errorf("failed to set final decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.feedbackConflict(ctx, id, &ErrAlreadyDecided{ID: id})
	}
	return nil
}

// MarkSentToCandidate sets the one-way sent-to-candidate flag.
func (db *DB) MarkSentToCandidate(ctx context.Context, id uuid.UUID) error {
	return db.setFlag(ctx, id, "sent_to_candidate")
}

// MarkFinalFeedbackSent sets the one-way final-feedback-delivered flag.
func (db *DB) MarkFinalFeedbackSent(ctx context.Context, id uuid.UUID) error {
	return db.setFlag(ctx, id, "sent_final_feedback_to_candidate")
}

// setFlag raises a delivery flag. Flags only ever go from false to true, so
// repeating the call is harmless.
func (db *DB) setFlag(ctx context.Context, id uuid.UUID, column string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE feedback SET `+column+` = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrFeedbackNotFound{ID: id}
	}
	return nil
}

// feedbackConflict distinguishes a missing entity from a blocked transition
// after a guarded UPDATE touched no rows.
func (db *DB) feedbackConflict(ctx context.Context, id uuid.UUID, conflict error) error {
	existing, err := db.GetFeedback(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &ErrFeedbackNotFound{ID: id}
	}
	return conflict
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (*types.FeedbackEntity, error) {
	var fb types.FeedbackEntity
	var skillsJSON []byte

	err := row.Scan(
		&fb.ID, &fb.CandidateID, &fb.CandidateEmail, &fb.CandidateName, &fb.ClientID, &fb.JobID, &fb.JobTitle,
		&fb.Summary, &fb.MatchScore, &skillsJSON, &fb.Positives, &fb.Negatives, &fb.Recommendations,
		&fb.ReviewedBy, &fb.AdditionalFeedback, &fb.Status, &fb.InterviewDate, &fb.InterviewType, &fb.InterviewDetails,
		&fb.FinalDecision, &fb.FinalMessage, &fb.SentToCandidate, &fb.SentFinalFeedbackToCandidate, &fb.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	fb.Skills = map[string]float64{}
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &fb.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	return &fb, nil
}

func collectFeedback(rows pgx.Rows) ([]types.FeedbackEntity, error) {
	var entities []types.FeedbackEntity
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entities = append(entities, *fb)
	}
	return entities, rows.Err()
}
