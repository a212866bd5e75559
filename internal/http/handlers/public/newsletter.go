package public

import (
	"errors"
	"net/http"

	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// SubscribeRequest is the newsletter signup payload.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// SubscribeNewsletter registers an email address for the newsletter.
func (h *Handler) SubscribeNewsletter(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	subscriber, err := h.NewsletterService.Subscribe(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrAlreadySubscribed):
			respondError(c, http.StatusConflict, "email already subscribed", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to subscribe", err)
		}
		return
	}

	response.Created(c, gin.H{"email": subscriber.Email})
}

// UnsubscribeNewsletter removes a subscription via its opt-out token.
func (h *Handler) UnsubscribeNewsletter(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	if err := h.NewsletterService.Unsubscribe(token); err != nil {
		if errors.Is(err, service.ErrInvalidUnsubscribeToken) {
			respondError(c, http.StatusNotFound, "invalid unsubscribe token", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to unsubscribe", err)
		return
	}

	response.Success(c, gin.H{"unsubscribed": true})
}
