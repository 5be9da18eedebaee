// Package chi exposes the chat API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
	"github.com/kailas-cloud/librarian/internal/usecase/health"
)

// Answerer runs the question pipeline for one chat.
type Answerer interface {
	Answer(ctx context.Context, chatID, question string) (domain.Outcome, error)
}

// ChatRepository manages chat sessions and their turns.
type ChatRepository interface {
	Create(ctx context.Context, title string) (domain.ChatSession, error)
	Get(ctx context.Context, id string) (domain.ChatSession, error)
	List(ctx context.Context) ([]domain.ChatSession, error)
	ListTurns(ctx context.Context, chatID string) ([]domain.ChatTurn, error)
}

// HealthChecker aggregates dependency liveness.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the chat API routes.
type Server struct {
	answerer      Answerer
	chats         ChatRepository
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(answerer Answerer, chats ChatRepository, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		answerer: answerer,
		chats:    chats,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrChatNotFound, http.StatusNotFound, "chat_not_found"),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrNotConfigured, http.StatusServiceUnavailable, "not_configured"),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/chats", func(r chi.Router) {
		r.Post("/", s.CreateChat)
		r.Get("/", s.ListChats)
		r.Get("/{chatID}", s.GetChat)
		r.Post("/{chatID}/messages", s.PostMessage)
	})
}

type createChatRequest struct {
	Title string `json:"title"`
}

// CreateChat handles POST /api/v1/chats.
func (s *Server) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
			return
		}
	}

	session, err := s.chats.Create(r.Context(), req.Title)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// ListChats handles GET /api/v1/chats.
func (s *Server) ListChats(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.chats.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": sessions})
}

type chatResponse struct {
	domain.ChatSession
	Turns []domain.ChatTurn `json:"turns"`
}

// GetChat handles GET /api/v1/chats/{chatID}: the session plus its full
// turn history in insertion order.
func (s *Server) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	session, err := s.chats.Get(r.Context(), chatID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	turns, err := s.chats.ListTurns(r.Context(), chatID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{ChatSession: session, Turns: turns})
}

type postMessageRequest struct {
	Question string `json:"question"`
}

type postMessageResponse struct {
	ChatID string        `json:"chat_id"`
	Status domain.Status `json:"status"`
	Answer string        `json:"answer"`
}

// PostMessage handles POST /api/v1/chats/{chatID}/messages: runs the full
// answer pipeline. Upstream failures still return 200 with a categorized
// status; the canned answer is the user-facing message.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Question is required")
		return
	}

	if _, err := s.chats.Get(r.Context(), chatID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	outcome, err := s.answerer.Answer(r.Context(), chatID, req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postMessageResponse{
		ChatID: chatID,
		Status: outcome.Status,
		Answer: outcome.Answer,
	})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != health.Healthy {
		s.logger.Warn("health check degraded", zap.Any("checks", report.Checks))
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrChatNotFound,
		domain.ErrInvalidArgument,
		domain.ErrNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps a domain error to an HTTP response.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
