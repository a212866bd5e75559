package admin

import (
	"errors"
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// ModerateReviewRequest approves or rejects a pending review.
type ModerateReviewRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ListReviews lists reviews with console filters.
func (h *Handler) ListReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 32)

	reviews, total, err := h.ReviewService.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
		Status:    c.Query("status"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list reviews", err)
		return
	}

	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// ModerateReview approves or rejects a review and refreshes the product
// rating aggregate.
func (h *Handler) ModerateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	review, err := h.ReviewService.Moderate(id, *req.Approve)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, http.StatusNotFound, "review not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to moderate review", err)
		return
	}

	response.Success(c, review)
}

// DeleteReview removes a review.
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(id); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, http.StatusNotFound, "review not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete review", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
