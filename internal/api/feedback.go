package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/session"
)

// handleFeedback applies a 1..5 rating to one message of a session and
// returns the recomputed conversation score.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.MessageIndex == nil || *req.MessageIndex < 0 {
		writeError(w, http.StatusBadRequest, "messageIndex must be a non-negative number")
		return
	}
	if req.Rating == nil {
		writeError(w, http.StatusBadRequest, "rating must be a number between 1 and 5")
		return
	}

	result, err := s.sessions.UpdateMessageRating(r.Context(), req.SessionID, *req.MessageIndex, *req.Rating, req.ConversationHistory)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrValidation):
			writeError(w, http.StatusBadRequest, "rating must be a number between 1 and 5")
		case errors.Is(err, session.ErrNotFound):
			writeError(w, http.StatusNotFound, "session or message not found")
		default:
			common.Logger().Error("api: rating update failed", "session", req.SessionID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update rating")
		}
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		Success:            true,
		MessageRating:      result.MessageRating,
		ConversationRating: result.ConversationRating,
		MessageIndex:       *req.MessageIndex,
	})
}

// handleFeedbackHistory returns the persisted session record including its
// conversation log and derived rating.
func (s *Server) handleFeedbackHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId query parameter is required")
		return
	}
	record, err := s.sessions.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		common.Logger().Error("api: history lookup failed", "session", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
