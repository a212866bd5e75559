package public

import (
	"errors"
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest turns the cart into an order.
type CheckoutRequest struct {
	PaymentMethod   string      `json:"payment_method" binding:"required"`
	DeliveryMethod  string      `json:"delivery_method" binding:"required"`
	PromoCode       string      `json:"promo_code"`
	ShippingAddress models.JSON `json:"shipping_address"`
}

// PreviewRequest prices the cart without committing.
type PreviewRequest struct {
	DeliveryMethod string `json:"delivery_method" binding:"required"`
	PromoCode      string `json:"promo_code"`
}

// Checkout creates an order from the cart.
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:          uid,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		PromoCode:       req.PromoCode,
		ShippingAddress: req.ShippingAddress,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Created(c, order)
}

// PreviewOrder returns the quote the cart would checkout at.
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	quote, err := h.OrderService.Preview(uid, req.DeliveryMethod, req.PromoCode)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, quote)
}

// ListOrders returns the customer's order history.
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListForUser(uid, page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder returns one of the customer's orders with its items.
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderService.GetForUser(uint(id), uid)
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

// CancelOrder cancels a pending order and restores its stock.
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderService.CancelByUser(uint(id), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found", nil)
		case errors.Is(err, service.ErrInvalidTransition):
			respondError(c, http.StatusConflict, "order can no longer be cancelled", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to cancel order", err)
		}
		return
	}

	response.Success(c, order)
}
