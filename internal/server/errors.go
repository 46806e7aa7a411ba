package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hireflow/hireflow/internal/db"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/matching"
	"github.com/hireflow/hireflow/internal/scoring"
)

// ErrCandidateNotFound indicates no account exists for the given email.
type ErrCandidateNotFound struct {
	Email string
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.Email)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// errors.As is used so wrapped pipeline errors still map correctly.
func HTTPStatus(err error) int {
	var (
		docFormat   *extract.ErrDocumentFormat
		shortJob    *matching.ErrJobDescriptionTooShort
		scoringErr  *scoring.ErrScoringService
		notFound    *db.ErrFeedbackNotFound
		reviewed    *db.ErrAlreadyReviewed
		decided     *db.ErrAlreadyDecided
		noCandidate *ErrCandidateNotFound
		validation  *ErrValidation
	)

	switch {
	case errors.As(err, &docFormat):
		return http.StatusUnprocessableEntity
	case errors.As(err, &shortJob), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &scoringErr):
		return http.StatusBadGateway
	case errors.As(err, &notFound), errors.As(err, &noCandidate):
		return http.StatusNotFound
	case errors.As(err, &reviewed), errors.As(err, &decided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
