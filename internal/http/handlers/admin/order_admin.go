package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderEventRequest applies one lifecycle event to an order.
type OrderEventRequest struct {
	Event         string `json:"event" binding:"required"`
	TransactionID string `json:"transaction_id"`
	TrackingNum   string `json:"tracking_number"`
}

// ListOrders lists orders with console filters.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 32)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	}
	if from := c.Query("created_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if to := c.Query("created_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = &t
		}
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder returns one order with items.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch order", err)
		return
	}

	response.Success(c, order)
}

// ApplyOrderEvent drives the order state machine.
func (h *Handler) ApplyOrderEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req OrderEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.ApplyEvent(id, req.Event, service.EventOptions{
		TransactionID:  req.TransactionID,
		TrackingNumber: req.TrackingNum,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found", nil)
		case errors.Is(err, service.ErrInvalidOrderEvent):
			respondError(c, http.StatusBadRequest, "invalid order event", nil)
		case errors.Is(err, service.ErrInvalidTransition):
			respondError(c, http.StatusConflict, "order status transition not allowed", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to apply order event", err)
		}
		return
	}

	h.DashboardService.InvalidateCache(c.Request.Context())
	response.Success(c, order)
}
