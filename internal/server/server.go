// Package server provides the HTTP REST API for the hiring pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hireflow/hireflow/internal/blob"
	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/db"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/feedback"
	"github.com/hireflow/hireflow/internal/matching"
	"github.com/hireflow/hireflow/internal/scoring"
	"github.com/hireflow/hireflow/internal/server/middleware"
	"github.com/hireflow/hireflow/internal/server/ratelimit"
	"github.com/hireflow/hireflow/internal/types"
)

// store is the slice of the document store the handlers need.
type store interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobContext, error)
	ListUploadsByClient(ctx context.Context, clientID uuid.UUID) ([]types.CandidateUpload, error)
	GetFeedback(ctx context.Context, id uuid.UUID) (*types.FeedbackEntity, error)
	ListFeedbackByReviewer(ctx context.Context, reviewedBy string) ([]types.FeedbackEntity, error)
	ListFeedbackByClient(ctx context.Context, clientID uuid.UUID) ([]types.FeedbackEntity, error)
	RespondFeedback(ctx context.Context, id uuid.UUID, input db.ReviewInput) error
	SetFinalDecision(ctx context.Context, id uuid.UUID, decision types.FinalDecision, message string) error
	MarkSentToCandidate(ctx context.Context, id uuid.UUID) error
	MarkFinalFeedbackSent(ctx context.Context, id uuid.UUID) error
}

// candidateRanker runs the scoring pipeline.
type candidateRanker interface {
	ScoreCandidate(ctx context.Context, job types.JobContext, candidate types.CandidateContext) (types.ScoringRecord, error)
	RankTop(ctx context.Context, job types.JobContext, candidates []types.CandidateContext, topN int) ([]matching.RankedCandidate, error)
}

// bulkSaver persists reviewed scoring records.
type bulkSaver interface {
	SaveBulk(ctx context.Context, reviewedBy string, drafts []feedback.Draft) feedback.Result
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       store
	ranker      candidateRanker
	persister   bulkSaver
	scorer      *scoring.GeminiScorer
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	auth        func(http.Handler) http.Handler
}

// New creates a new server instance from the service configuration.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	scorer, err := scoring.NewGeminiScorer(ctx, cfg.APIKey, cfg.Model,
		time.Duration(cfg.ScoringTimeoutSeconds)*time.Second)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create scoring client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		scorer.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	ranker := matching.NewRanker(
		extract.NewPDFExtractor(),
		blob.NewStore(cfg.UploadDir),
		scorer,
		matching.Options{FailFast: cfg.FailFast, Workers: cfg.Workers},
	)

	s := newServer(
		database,
		ranker,
		feedback.NewPersister(database),
		middleware.Auth(NewJWTService(jwtConfig)),
		ratelimit.NewLimiter(ratelimit.LoadConfig()),
	)
	s.db = database
	s.scorer = scorer

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for batch scoring
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires the handler dependencies. Split from New so tests can
// inject fakes.
func newServer(st store, ranker candidateRanker, persister bulkSaver, auth func(http.Handler) http.Handler, limiter *ratelimit.Limiter) *Server {
	return &Server{
		store:       st,
		ranker:      ranker,
		persister:   persister,
		validate:    validator.New(),
		rateLimiter: limiter,
		auth:        auth,
	}
}

// handler assembles the router and middleware chain.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	recruiter := func(h http.HandlerFunc) http.Handler {
		return s.auth(middleware.RequireRole(h, types.RoleRecruiter))
	}
	client := func(h http.HandlerFunc) http.Handler {
		return s.auth(middleware.RequireRole(h, types.RoleClient))
	}

	mux.Handle("POST /v1/recruiter/analyze", recruiter(s.handleAnalyze))
	mux.Handle("POST /v1/recruiter/analyze-top", recruiter(s.handleAnalyzeTop))
	mux.Handle("POST /v1/recruiter/feedback/bulk", recruiter(s.handleSaveBulkFeedback))
	mux.Handle("POST /v1/recruiter/feedback/{id}/send", recruiter(s.handleSendFeedback))
	mux.Handle("POST /v1/recruiter/feedback/{id}/send-final", recruiter(s.handleSendFinalFeedback))
	mux.Handle("GET /v1/recruiter/feedback", recruiter(s.handleListRecruiterFeedback))

	mux.Handle("POST /v1/client/feedback/{id}/respond", client(s.handleRespondFeedback))
	mux.Handle("POST /v1/client/feedback/{id}/final-decision", client(s.handleFinalDecision))
	mux.Handle("GET /v1/client/feedback", client(s.handleListClientFeedback))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.scorer != nil {
		s.scorer.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// pipelineError maps a pipeline error to its status. Upstream scoring
// failures are logged with their cause but reported generically.
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusBadGateway {
		log.Printf("scoring service error: %v", err)
		s.errorResponse(w, status, "scoring service unavailable")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}
