// Package types defines the shared data structures for the matching pipeline.
package types

import "github.com/google/uuid"

// ScoringRecord is the structured outcome of matching one candidate against
// one job. A record is always fully populated: absent data is filled with
// defaults, never left nil.
type ScoringRecord struct {
	Summary         string             `json:"summary"`
	MatchScore      int                `json:"matchScore"`
	Skills          map[string]float64 `json:"skills"`
	Positives       []string           `json:"positives"`
	Negatives       []string           `json:"negatives"`
	Recommendations []string           `json:"recommendations"`
}

// NewScoringRecord returns a record with every container initialized so that
// serialization produces empty containers rather than null.
func NewScoringRecord() ScoringRecord {
	return ScoringRecord{
		Skills:          map[string]float64{},
		Positives:       []string{},
		Negatives:       []string{},
		Recommendations: []string{},
	}
}

// CandidateContext is a read-only projection of one candidate for the
// duration of a single scoring pass.
type CandidateContext struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CVPath      string    `json:"cv_path"`
	ProfileText string    `json:"profile_text"`
	ClientID    uuid.UUID `json:"client_id"`
}

// JobContext is a read-only projection of the job a batch is scored against.
type JobContext struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// CandidateUpload is a stored upload record: a candidate's CV blob plus the
// LinkedIn profile text supplied alongside it, owned by one client.
type CandidateUpload struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	CVPath      string    `json:"cv_path"`
	LinkedinURL string    `json:"linkedin_url"`
	ProfileText string    `json:"profile_text"`
	ClientID    uuid.UUID `json:"client_id"`
}

// Context converts an upload into the immutable candidate view used by the
// scoring pipeline.
func (u *CandidateUpload) Context() CandidateContext {
	return CandidateContext{
		ID:          u.UserID,
		Email:       u.Email,
		CVPath:      u.CVPath,
		ProfileText: u.ProfileText,
		ClientID:    u.ClientID,
	}
}
