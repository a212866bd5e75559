package public

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// WishlistAddRequest saves a product for later.
type WishlistAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ListWishlist returns the customer's saved products.
func (h *Handler) ListWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list wishlist", err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// AddWishlistItem saves a product; re-saving is a no-op.
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req WishlistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	item, err := h.WishlistService.Add(uid, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to add wishlist item", err)
		return
	}

	response.Created(c, item)
}

// RemoveWishlistItem drops a saved product.
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	if err := h.WishlistService.Remove(uid, uint(productID)); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			respondError(c, http.StatusNotFound, "wishlist item not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to remove wishlist item", err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// MoveWishlistItemToCart moves a saved product into the cart.
func (h *Handler) MoveWishlistItemToCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	cart, err := h.WishlistService.MoveToCart(uid, uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWishlistItemNotFound):
			respondError(c, http.StatusNotFound, "wishlist item not found", nil)
		case errors.Is(err, service.ErrProductNotAvailable), errors.Is(err, service.ErrInsufficientStock):
			respondCartError(c, err)
		default:
			respondError(c, http.StatusInternalServerError, "failed to move wishlist item", err)
		}
		return
	}

	response.Success(c, cart)
}
