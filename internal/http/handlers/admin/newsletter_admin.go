package admin

import (
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSubscribers lists newsletter subscribers.
func (h *Handler) ListSubscribers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	subscribers, total, err := h.NewsletterService.List(repository.SubscriberListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list subscribers", err)
		return
	}

	response.SuccessWithPage(c, subscribers, response.NewPagination(page, pageSize, total))
}
