package types

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the client-driven review state of a feedback entity.
// It transitions pending -> accepted|rejected exactly once.
type ReviewStatus string

// Review statuses.
const (
	ReviewPending  ReviewStatus = "pending"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	return s == ReviewPending || s == ReviewAccepted || s == ReviewRejected
}

// FinalDecision is the client's final call on a candidate, independent of the
// review status. It transitions unset -> confirmed|rejected exactly once.
type FinalDecision string

// Final decisions. The zero value means no decision has been made yet.
const (
	DecisionUnset     FinalDecision = ""
	DecisionConfirmed FinalDecision = "confirmed"
	DecisionRejected  FinalDecision = "rejected"
)

// Valid reports whether d is a decision that can be recorded.
func (d FinalDecision) Valid() bool {
	return d == DecisionConfirmed || d == DecisionRejected
}

// InterviewType distinguishes online from on-site interviews.
type InterviewType string

// Interview types.
const (
	InterviewOnline  InterviewType = "online"
	InterviewOffline InterviewType = "offline"
)

// FeedbackEntity is the durable record created when a recruiter accepts a
// scoring record and shares it with the owning client. The two delivery
// flags are one-way: once set they are never unset.
type FeedbackEntity struct {
	ID             uuid.UUID `json:"id"`
	CandidateID    uuid.UUID `json:"candidate_id"`
	CandidateEmail string    `json:"candidate_email"`
	CandidateName  string    `json:"candidate_name"`
	ClientID       uuid.UUID `json:"client_id"`
	JobID          uuid.UUID `json:"job_id"`
	JobTitle       string    `json:"job_title"`

	Summary         string             `json:"summary"`
	MatchScore      int                `json:"match_score"`
	Skills          map[string]float64 `json:"skills"`
	Positives       []string           `json:"positives"`
	Negatives       []string           `json:"negatives"`
	Recommendations []string           `json:"recommendations"`

	ReviewedBy         string `json:"reviewed_by"`
	AdditionalFeedback string `json:"additional_feedback,omitempty"`

	Status           ReviewStatus  `json:"status"`
	InterviewDate    *time.Time    `json:"interview_date,omitempty"`
	InterviewType    InterviewType `json:"interview_type,omitempty"`
	InterviewDetails string        `json:"interview_details,omitempty"`

	FinalDecision FinalDecision `json:"final_decision"`
	FinalMessage  string        `json:"final_message,omitempty"`

	SentToCandidate              bool `json:"sent_to_candidate"`
	SentFinalFeedbackToCandidate bool `json:"sent_final_feedback_to_candidate"`

	CreatedAt time.Time `json:"created_at"`
}

// NewFeedbackEntity builds a fresh feedback entity from a scoring record.
// New entities always start pending with no final decision and both delivery
// flags cleared.
func NewFeedbackEntity(candidate User, clientID, jobID uuid.UUID, jobTitle string, record ScoringRecord, reviewedBy string) *FeedbackEntity {
	name := candidate.Name
	if name == "" {
		name = candidate.Email
	}
	return &FeedbackEntity{
		CandidateID:     candidate.ID,
		CandidateEmail:  candidate.Email,
		CandidateName:   name,
		ClientID:        clientID,
		JobID:           jobID,
		JobTitle:        jobTitle,
		Summary:         record.Summary,
		MatchScore:      record.MatchScore,
		Skills:          record.Skills,
		Positives:       record.Positives,
		Negatives:       record.Negatives,
		Recommendations: record.Recommendations,
		ReviewedBy:      reviewedBy,
		Status:          ReviewPending,
		FinalDecision:   DecisionUnset,
	}
}
