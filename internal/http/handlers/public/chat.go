package public

import (
	"net/http"
	"strings"

	"github.com/dollers-electro/internal/advisor"
	"github.com/dollers-electro/internal/http/response"

	"github.com/gin-gonic/gin"
)

const chatHistoryLimit = 20

// ChatMessage mirrors one prior exchange turn.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the shopping advisor payload.
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history"`
}

// Chat answers a storefront question through the advisor model, falling
// back to keyword matching when the model is unreachable.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(c, http.StatusBadRequest, "message is required", nil)
		return
	}

	history := req.History
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	messages := make([]advisor.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, advisor.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := h.ChatService.Ask(c.Request.Context(), messages, req.Message)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "advisor unavailable", err)
		return
	}

	response.Success(c, reply)
}
