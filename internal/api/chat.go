package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/llm"
)

// handleChat resolves one user question. A missing thread identifier is
// replaced with a fresh one so the widget can continue the exchange; a
// supplied session identifier additionally records the exchange in the
// chat log.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required and must be a string")
		return
	}
	threadID := strings.TrimSpace(req.ThreadID)
	if threadID == "" {
		threadID = "thread_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	envelope, err := s.resolver.Resolve(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, llm.ErrAuth) {
			writeError(w, http.StatusUnauthorized, "assistant service authentication failed")
			return
		}
		common.Logger().Error("api: chat resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	if sessionID := strings.TrimSpace(req.SessionID); sessionID != "" {
		if err := s.sessions.LogExchange(r.Context(), sessionID, req.Message, envelope.Content); err != nil {
			common.Logger().Warn("api: failed to record exchange", "session", sessionID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message:  envelope.Content,
		ThreadID: threadID,
		Images:   envelope.Images,
	})
}
