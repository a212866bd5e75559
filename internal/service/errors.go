package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// statuses; everything else surfaces as an internal error.
var (
	// Catalog
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductSKUExists    = errors.New("product sku already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategorySlugExists  = errors.New("category slug already exists")

	// Cart
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")

	// Promo codes
	ErrPromoNotFound     = errors.New("promo code not found")
	ErrPromoInactive     = errors.New("promo code is not active")
	ErrPromoNotStarted   = errors.New("promo code is not yet valid")
	ErrPromoExpired      = errors.New("promo code has expired")
	ErrPromoUsageLimit   = errors.New("promo code usage limit reached")
	ErrPromoPerUserLimit = errors.New("promo code per-user limit reached")
	ErrPromoMinAmount    = errors.New("order amount below promo minimum")
	ErrPromoNewUsersOnly = errors.New("promo code is for new customers only")
	ErrPromoNotEligible  = errors.New("promo code is not available for this account")
	ErrPromoCodeExists   = errors.New("promo code already exists")
	ErrPromoRuleInvalid  = errors.New("invalid promo rule")

	// Orders
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderCreateFailed     = errors.New("order creation failed")
	ErrInvalidOrderEvent     = errors.New("invalid order event")
	ErrInvalidTransition     = errors.New("order status transition not allowed")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")

	// Alerts
	ErrAlertNotFound = errors.New("alert not found")

	// Reviews
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("product already reviewed")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")

	// Wishlist
	ErrWishlistItemNotFound = errors.New("wishlist item not found")

	// Newsletter
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrAlreadySubscribed       = errors.New("email already subscribed")
	ErrInvalidUnsubscribeToken = errors.New("invalid unsubscribe token")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserStatus  = errors.New("invalid user status")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrCannotDeleteSuper  = errors.New("super admin cannot be deleted")
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrInvalidToken       = errors.New("invalid token")
	ErrVerifyCodeInvalid  = errors.New("verification code invalid or expired")
	ErrVerifyCodeTooSoon  = errors.New("verification code requested too soon")

	// Quiz
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuizInactive      = errors.New("quiz is not active")
	ErrQuizNotEmployee   = errors.New("account not enrolled in quizzes")
	ErrQuizAnswerMissing = errors.New("answer missing for question")

	// Advisor
	ErrAdvisorUnavailable = errors.New("advisor unavailable")
)
