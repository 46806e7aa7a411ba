package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hireflow/hireflow/internal/db"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/matching"
	"github.com/hireflow/hireflow/internal/scoring"
)

func TestHTTPStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"document format", &extract.ErrDocumentFormat{Err: fmt.Errorf("bad header")}, http.StatusUnprocessableEntity},
		{"job description too short", &matching.ErrJobDescriptionTooShort{Length: 12}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "status", Message: "unknown"}, http.StatusBadRequest},
		{"scoring service", &scoring.ErrScoringService{Err: fmt.Errorf("timeout")}, http.StatusBadGateway},
		{"feedback not found", &db.ErrFeedbackNotFound{ID: id}, http.StatusNotFound},
		{"candidate not found", &ErrCandidateNotFound{Email: "x@example.com"}, http.StatusNotFound},
		{"already reviewed", &db.ErrAlreadyReviewed{ID: id}, http.StatusConflict},
		{"already decided", &db.ErrAlreadyDecided{ID: id}, http.StatusConflict},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped document format", fmt.Errorf("candidate a: %w", &extract.ErrDocumentFormat{Err: fmt.Errorf("x")}), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
