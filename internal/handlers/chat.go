package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"deepresearch-backend/internal/chat"
	"deepresearch-backend/internal/models"
)

type ChatHandler struct {
	orchestrator *chat.Orchestrator
	logger       *slog.Logger
}

func NewChatHandler(orchestrator *chat.Orchestrator, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Send handles POST /chat. Validation happens here, before the orchestrator
// is touched; the orchestrator itself always produces a reply unless
// something internal breaks.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request body",
			"message": "Request body must be valid JSON.",
		})
		return
	}

	if req.Prompt == "" && len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Missing required parameter",
			"message": `Please provide either "prompt" or "messages" in the request body.`,
			"example": map[string]string{
				"prompt":    "Your question here",
				"sessionId": "optional-session-id",
			},
		})
		return
	}

	result, err := h.orchestrator.Chat(r.Context(), req)
	if err != nil {
		h.logger.Error("chat request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Internal server error",
			"message": "Chat request failed. Please try again.",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
