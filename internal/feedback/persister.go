// Package feedback converts accepted scoring records into durable feedback
// entities.
package feedback

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/types"
)

// Draft is one accepted scoring result tagged with the candidate it belongs
// to, as submitted by a recruiter for persistence.
type Draft struct {
	CandidateEmail  string             `json:"candidateEmail" validate:"required,email"`
	CandidateName   string             `json:"candidateName"`
	Summary         string             `json:"summary"`
	MatchScore      int                `json:"matchScore"`
	Skills          map[string]float64 `json:"skills"`
	Positives       []string           `json:"positives"`
	Negatives       []string           `json:"negatives"`
	Recommendations []string           `json:"recommendations"`
	ClientID        uuid.UUID          `json:"clientId" validate:"required"`
	JobID           uuid.UUID          `json:"jobId" validate:"required"`
	JobTitle        string             `json:"jobTitle"`
}

// record rebuilds the scoring record carried by the draft, restoring the
// always-populated invariant for containers the client omitted.
func (d *Draft) record() types.ScoringRecord {
	record := types.ScoringRecord{
		Summary:         d.Summary,
		MatchScore:      d.MatchScore,
		Skills:          d.Skills,
		Positives:       d.Positives,
		Negatives:       d.Negatives,
		Recommendations: d.Recommendations,
	}
	if record.Skills == nil {
		record.Skills = map[string]float64{}
	}
	if record.Positives == nil {
		record.Positives = []string{}
	}
	if record.Negatives == nil {
		record.Negatives = []string{}
	}
	if record.Recommendations == nil {
		record.Recommendations = []string{}
	}
	return record
}

// Store is the persistence surface the persister needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateFeedback(ctx context.Context, fb *types.FeedbackEntity) (uuid.UUID, error)
}

// Result reports which drafts were persisted and which were skipped,
// identified by candidate email.
type Result struct {
	Saved   []string `json:"saved"`
	Skipped []string `json:"skipped"`
}

// Persister writes accepted scoring records to durable storage.
type Persister struct {
	store Store
}

// NewPersister creates a persister over the given store.
func NewPersister(store Store) *Persister {
	return &Persister{store: store}
}

// SaveBulk persists each draft independently. A draft whose email resolves
// to no account, or to an account that is not a candidate, is skipped; so is
// a draft whose insert fails. One bad entry never aborts the batch, and
// there is no rollback of earlier saves.
func (p *Persister) SaveBulk(ctx context.Context, reviewedBy string, drafts []Draft) Result {
	result := Result{Saved: []string{}, Skipped: []string{}}

	for _, draft := range drafts {
		user, err := p.store.GetUserByEmail(ctx, draft.CandidateEmail)
		if err != nil {
			log.Printf("feedback lookup failed for %s: %v", draft.CandidateEmail, err)
			result.Skipped = append(result.Skipped, draft.CandidateEmail)
			continue
		}
		if user == nil || user.Role != types.RoleCandidate {
			log.Printf("skipping %s: not a valid candidate", draft.CandidateEmail)
			result.Skipped = append(result.Skipped, draft.CandidateEmail)
			continue
		}

		entity := types.NewFeedbackEntity(*user, draft.ClientID, draft.JobID, draft.JobTitle, draft.record(), reviewedBy)
		if draft.CandidateName != "" {
			entity.CandidateName = draft.CandidateName
		}

		if _, err := p.store.CreateFeedback(ctx, entity); err != nil {
			log.Printf("failed saving feedback for %s: %v", draft.CandidateEmail, err)
			result.Skipped = append(result.Skipped, draft.CandidateEmail)
			continue
		}
		result.Saved = append(result.Saved, draft.CandidateEmail)
	}

	return result
}
