package public

import (
	"errors"
	"net/http"

	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// SendVerifyCodeRequest asks for a registration or password-reset OTP.
type SendVerifyCodeRequest struct {
	Email   string `json:"email" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// RegisterRequest is the customer signup payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Code     string `json:"code" binding:"required"`
}

// UserLoginRequest is the customer login payload.
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest completes a password reset with an OTP.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// SendVerifyCode mails an OTP. For password resets the response never
// reveals whether the address is registered.
func (h *Handler) SendVerifyCode(c *gin.Context) {
	var req SendVerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.UserAuthService.SendVerifyCode(req.Email, req.Purpose); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, service.ErrVerifyCodeTooSoon):
			respondError(c, http.StatusTooManyRequests, "verification code requested too soon", nil)
		case errors.Is(err, service.ErrVerifyCodeInvalid):
			respondError(c, http.StatusBadRequest, "invalid purpose", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to send verification code", err)
		}
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// Register creates a customer account from a verified email.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserAuthService.Register(req.Email, req.Password, req.Name, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, service.ErrVerifyCodeInvalid):
			respondError(c, http.StatusBadRequest, "verification code invalid or expired", nil)
		default:
			respondError(c, http.StatusInternalServerError, "registration failed", err)
		}
		return
	}

	token, expiresAt, err := h.UserAuthService.GenerateJWT(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	response.Created(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// UserLogin authenticates a customer and issues a JWT.
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		case errors.Is(err, service.ErrAccountBlocked):
			respondError(c, http.StatusForbidden, "account is blocked", nil)
		default:
			respondError(c, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// ResetPassword sets a new password after OTP verification.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.UserAuthService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
		case errors.Is(err, service.ErrVerifyCodeInvalid):
			respondError(c, http.StatusBadRequest, "verification code invalid or expired", nil)
		default:
			respondError(c, http.StatusInternalServerError, "password reset failed", err)
		}
		return
	}

	response.Success(c, gin.H{"reset": true})
}

// Profile returns the authenticated customer's account.
func (h *Handler) Profile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}

	response.Success(c, user)
}
