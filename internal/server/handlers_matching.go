package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/types"
)

// analyzeRequest asks for a single candidate to be scored against a job.
type analyzeRequest struct {
	CandidateEmail string    `json:"candidateEmail" validate:"required,email"`
	CVPath         string    `json:"cvPath" validate:"required"`
	LinkedinText   string    `json:"linkedinText"`
	JobID          uuid.UUID `json:"jobId" validate:"required"`
}

// handleAnalyze scores one candidate's CV and profile against a job posting.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	user, err := s.store.GetUserByEmail(ctx, req.CandidateEmail)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		err := &ErrCandidateNotFound{Email: req.CandidateEmail}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "job not found")
		return
	}

	candidate := types.CandidateContext{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		CVPath:      req.CVPath,
		ProfileText: req.LinkedinText,
	}

	record, err := s.ranker.ScoreCandidate(ctx, *job, candidate)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidateEmail": user.Email,
		"jobId":          job.ID,
		"record":         record,
	})
}

// analyzeTopRequest asks for a client's whole candidate pool to be scored
// and shortlisted.
type analyzeTopRequest struct {
	ClientID uuid.UUID `json:"clientId" validate:"required"`
	JobID    uuid.UUID `json:"jobId" validate:"required"`
	TopN     int       `json:"topN"`
}

// handleAnalyzeTop scores every upload owned by a client and returns the top
// N candidates by match score.
func (s *Server) handleAnalyzeTop(w http.ResponseWriter, r *http.Request) {
	var req analyzeTopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "job not found")
		return
	}

	uploads, err := s.store.ListUploadsByClient(ctx, req.ClientID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	candidates := make([]types.CandidateContext, len(uploads))
	for i := range uploads {
		candidates[i] = uploads[i].Context()
	}

	ranked, err := s.ranker.RankTop(ctx, *job, candidates, req.TopN)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobId":      job.ID,
		"jobTitle":   job.Title,
		"candidates": ranked,
	})
}
