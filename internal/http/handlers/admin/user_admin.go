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

// SetUserStatusRequest blocks or unblocks a customer.
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListUsers lists customer accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list users", err)
		return
	}

	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser returns one customer account.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch user", err)
		return
	}

	response.Success(c, user)
}

// SetUserStatus blocks or unblocks a customer account.
func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.UserAuthService.SetUserStatus(id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, service.ErrInvalidUserStatus):
			respondError(c, http.StatusBadRequest, "invalid status", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to update user", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}
