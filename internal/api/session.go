package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/session"
)

// handleSession multiplexes widget session lifecycle actions on a single
// endpoint, mirroring the widget's action-based request shape.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch strings.TrimSpace(req.Action) {
	case "create_session":
		s.createSession(w, r, req.UserID)
	case "get_session":
		s.getSession(w, r, req.SessionID)
	case "update_user_session":
		s.touchSession(w, r, req.SessionID)
	default:
		writeError(w, http.StatusBadRequest, "invalid action")
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := s.sessions.CreateSession(r.Context(), userID)
	if err != nil {
		common.Logger().Error("api: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": id})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	us, err := s.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		common.Logger().Error("api: session lookup failed", "session", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (s *Server) touchSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if err := s.sessions.TouchSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		common.Logger().Error("api: session touch failed", "session", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
