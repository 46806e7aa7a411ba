package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/db"
	"github.com/hireflow/hireflow/internal/feedback"
	"github.com/hireflow/hireflow/internal/server/middleware"
	"github.com/hireflow/hireflow/internal/types"
)

// bulkFeedbackRequest carries the drafts a recruiter accepted for sharing.
type bulkFeedbackRequest struct {
	Feedbacks []feedback.Draft `json:"feedbacks" validate:"required,min=1,dive"`
}

// handleSaveBulkFeedback persists reviewed scoring records. Drafts that fail
// lookup or persistence are reported as skipped, not failed.
func (s *Server) handleSaveBulkFeedback(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req bulkFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.persister.SaveBulk(r.Context(), identity.Email, req.Feedbacks)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSendFeedback marks a feedback entity as delivered to the candidate.
func (s *Server) handleSendFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.MarkSentToCandidate(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "sentToCandidate": true})
}

// handleSendFinalFeedback marks the final decision as delivered to the
// candidate.
func (s *Server) handleSendFinalFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.MarkFinalFeedbackSent(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "sentFinalFeedbackToCandidate": true})
}

// handleListRecruiterFeedback returns everything the acting recruiter has
// shared.
func (s *Server) handleListRecruiterFeedback(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entities, err := s.store.ListFeedbackByReviewer(r.Context(), identity.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entities == nil {
		entities = []types.FeedbackEntity{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": entities})
}

// respondRequest is the client's accept/reject response to a candidate.
type respondRequest struct {
	Status           types.ReviewStatus  `json:"status" validate:"required,oneof=accepted rejected"`
	InterviewDate    *time.Time          `json:"interviewDate"`
	InterviewType    types.InterviewType `json:"interviewType" validate:"omitempty,oneof=online offline"`
	InterviewDetails string              `json:"interviewDetails"`
}

// handleRespondFeedback applies the client's accept/reject transition. An
// accepted response must carry the interview arrangements.
func (s *Server) handleRespondFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == types.ReviewAccepted {
		if req.InterviewDate == nil {
			s.validationError(w, "interviewDate", "required when accepting a candidate")
			return
		}
		if req.InterviewType == "" {
			s.validationError(w, "interviewType", "required when accepting a candidate")
			return
		}
		if req.InterviewDetails == "" {
			s.validationError(w, "interviewDetails", "required when accepting a candidate")
			return
		}
	}

	if !s.authorizeClientAccess(w, r, id) {
		return
	}

	err = s.store.RespondFeedback(r.Context(), id, db.ReviewInput{
		Status:           req.Status,
		InterviewDate:    req.InterviewDate,
		InterviewType:    req.InterviewType,
		InterviewDetails: req.InterviewDetails,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

// finalDecisionRequest records the client's final call on a candidate.
type finalDecisionRequest struct {
	Decision types.FinalDecision `json:"decision" validate:"required,oneof=confirmed rejected"`
	Message  string              `json:"message"`
}

// handleFinalDecision applies the single final-decision transition.
func (s *Server) handleFinalDecision(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req finalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.authorizeClientAccess(w, r, id) {
		return
	}

	if err := s.store.SetFinalDecision(r.Context(), id, req.Decision, req.Message); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "finalDecision": req.Decision})
}

// handleListClientFeedback returns everything addressed to the acting client.
func (s *Server) handleListClientFeedback(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entities, err := s.store.ListFeedbackByClient(r.Context(), identity.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entities == nil {
		entities = []types.FeedbackEntity{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": entities})
}

// authorizeClientAccess checks the feedback entity exists and is addressed
// to the acting client. Admins may act on any entity. Writes the error
// response itself and reports whether the caller may proceed.
func (s *Server) authorizeClientAccess(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return false
	}

	entity, err := s.store.GetFeedback(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return false
	}
	if entity == nil {
		nf := &db.ErrFeedbackNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return false
	}
	if identity.Role != types.RoleAdmin && entity.ClientID != identity.UserID {
		s.errorResponse(w, http.StatusForbidden, "feedback belongs to another client")
		return false
	}
	return true
}

// validationError writes a 400 for a named request field.
func (s *Server) validationError(w http.ResponseWriter, field, message string) {
	ve := &ErrValidation{Field: field, Message: message}
	s.errorResponse(w, HTTPStatus(ve), ve.Error())
}
