// README: Chat handler (quota-guarded assistant call).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/middleware"
	"wayfare/internal/modules/aiusage"
	"wayfare/internal/modules/assistant"
)

const (
	chatTimeout    = 10 * time.Second
	msgChatInvalid = "Invalid request: messages array is required"
	msgChatFailed  = "Failed to get response from AI. Please try again."
)

type ChatHandler struct {
	assistant *assistant.Service
	usage     *aiusage.Service
}

func NewChatHandler(assistantSvc *assistant.Service, usage *aiusage.Service) *ChatHandler {
	return &ChatHandler{assistant: assistantSvc, usage: usage}
}

type chatReq struct {
	Messages []assistant.Message `json:"messages"`
}

// Chat handles POST /api/chat.
//
// @Summary  Ask the travel assistant
// @Tags     chat
// @Accept   json
// @Produce  json
// @Failure  429 {object} errorResponse
// @Router   /api/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || assistant.ValidateTranscript(req.Messages) != nil {
		writeError(c, http.StatusBadRequest, msgChatInvalid)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	if _, err := h.usage.UseToken(ctx, quotaSubject(c)); err != nil {
		if errors.Is(err, aiusage.ErrInsufficientTokens) {
			writeError(c, http.StatusTooManyRequests, err.Error())
			return
		}
		writeInternal(c, err, msgChatFailed)
		return
	}

	reply, err := h.assistant.Converse(ctx, req.Messages)
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidTranscript) {
			writeError(c, http.StatusBadRequest, msgChatInvalid)
			return
		}
		writeInternal(c, err, msgChatFailed)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"reply": reply})
}

func quotaSubject(c *gin.Context) string {
	if uid := middleware.CallerUID(c); uid != "" {
		return uid
	}
	return "ip:" + c.ClientIP()
}
