package public

import (
	"errors"
	"net/http"

	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error onto an HTTP response.
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.status, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackStatus, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var promoErrorRules = []mappedHandlerError{
	{target: service.ErrPromoNotFound, status: http.StatusNotFound, msg: "promo code not found"},
	{target: service.ErrPromoInactive, status: http.StatusBadRequest, msg: "promo code is not active"},
	{target: service.ErrPromoNotStarted, status: http.StatusBadRequest, msg: "promo code is not yet valid"},
	{target: service.ErrPromoExpired, status: http.StatusBadRequest, msg: "promo code has expired"},
	{target: service.ErrPromoUsageLimit, status: http.StatusBadRequest, msg: "promo code usage limit reached"},
	{target: service.ErrPromoPerUserLimit, status: http.StatusBadRequest, msg: "promo code per-user limit reached"},
	{target: service.ErrPromoMinAmount, status: http.StatusBadRequest, msg: "order amount below promo minimum"},
	{target: service.ErrPromoNewUsersOnly, status: http.StatusBadRequest, msg: "promo code is for new customers only"},
	{target: service.ErrPromoNotEligible, status: http.StatusBadRequest, msg: "promo code is not available for this account"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, status: http.StatusNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, status: http.StatusBadRequest, msg: "product not available"},
	{target: service.ErrCartNotFound, status: http.StatusNotFound, msg: "cart is empty"},
	{target: service.ErrCartEmpty, status: http.StatusBadRequest, msg: "cart is empty"},
	{target: service.ErrCartItemNotFound, status: http.StatusNotFound, msg: "cart item not found"},
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest, msg: "invalid quantity"},
	{target: service.ErrInsufficientStock, status: http.StatusBadRequest, msg: "insufficient stock"},
	{target: service.ErrInvalidDeliveryMethod, status: http.StatusBadRequest, msg: "invalid delivery method"},
}

var checkoutExtraErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPaymentMethod, status: http.StatusBadRequest, msg: "invalid payment method"},
	{target: service.ErrOrderCreateFailed, status: http.StatusInternalServerError, msg: "order creation failed"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, promoErrorRules), http.StatusInternalServerError, "cart operation failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, promoErrorRules, checkoutExtraErrorRules), http.StatusInternalServerError, "order creation failed")
}
