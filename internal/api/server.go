package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/resolver"
	"github.com/dipos-tr/zetachat/internal/session"
)

// Server exposes the chat, feedback, and session endpoints over HTTP.
type Server struct {
	router   chi.Router
	resolver *resolver.Resolver
	sessions *session.Service
}

// NewServer wires the HTTP surface over the resolver pipeline and session
// service.
func NewServer(res *resolver.Resolver, sessions *session.Service) (*Server, error) {
	if res == nil {
		return nil, errors.New("resolver required")
	}
	if sessions == nil {
		return nil, errors.New("session service required")
	}
	srv := &Server{
		router:   chi.NewRouter(),
		resolver: res,
		sessions: sessions,
	}
	srv.routes()
	return srv, nil
}

func (s *Server) routes() {
	s.router.Use(requestLogger)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/logs", s.handleLogs)
	s.router.Post("/chat", s.handleChat)
	s.router.Post("/feedback", s.handleFeedback)
	s.router.Get("/feedback", s.handleFeedbackHistory)
	s.router.Post("/session", s.handleSession)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		common.Logger().Debug("api: request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		common.Logger().Error("api: encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
