package public

import (
	"net/http"
	"strconv"

	"github.com/dollers-electro/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest adds or updates one cart line.
type CartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// ApplyPromoRequest pins a promo code to the cart.
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart returns the cart with a priced summary.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.Summary(uid, c.Query("delivery_method"))
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, summary)
}

// AddCartItem adds a product to the cart, merging quantities.
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	cart, err := h.CartService.AddItem(uid, req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, cart)
}

// UpdateCartItem sets a line quantity; zero removes the line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	cart, err := h.CartService.UpdateItemQuantity(uid, req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, cart)
}

// RemoveCartItem deletes one line from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	cart, err := h.CartService.RemoveItem(uid, uint(productID), c.Query("variant"))
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, cart)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}

// ApplyCartPromo validates and pins a promo code.
func (h *Handler) ApplyCartPromo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	summary, err := h.CartService.ApplyPromo(uid, req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, summary)
}

// RemoveCartPromo unpins the promo code.
func (h *Handler) RemoveCartPromo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.RemovePromo(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}

	response.Success(c, summary)
}

// ValidateCartStock reports availability issues per line.
func (h *Handler) ValidateCartStock(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	issues, err := h.CartService.ValidateStock(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}

	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message())
	}
	response.Success(c, gin.H{
		"valid":    len(issues) == 0,
		"issues":   issues,
		"messages": messages,
	})
}
