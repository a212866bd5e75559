package public

import (
	"errors"
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest is the customer review submission payload.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ListProductReviews returns the approved reviews of a product.
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListApproved(uint(productID), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list reviews", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// CreateReview lets a customer review a product once.
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	review, err := h.ReviewService.Create(uid, uint(productID), req.Rating, req.Title, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "rating must be between 1 and 5", nil)
		case errors.Is(err, service.ErrReviewExists):
			respondError(c, http.StatusConflict, "product already reviewed", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to create review", err)
		}
		return
	}

	response.Created(c, review)
}
