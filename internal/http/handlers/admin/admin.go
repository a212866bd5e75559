package admin

import (
	"errors"
	"net/http"

	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the admin console login payload.
type LoginRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// CreateAdminRequest registers a back-office account.
type CreateAdminRequest struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	DisplayName string   `json:"display_name"`
	IsSuper     bool     `json:"is_super"`
	IsEmployee  bool     `json:"is_employee"`
	Roles       []string `json:"roles"`
}

// SetRolesRequest replaces an admin's role set.
type SetRolesRequest struct {
	Roles []string `json:"roles"`
}

// Login authenticates an admin. The image captcha is checked first when
// enabled.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaAnswer); err != nil {
		respondError(c, http.StatusBadRequest, "invalid captcha", nil)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Warnw("admin_login_failed", "username", req.Username, "ip", c.ClientIP())
			respondError(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	response.Success(c, gin.H{
		"admin":      admin,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Me returns the authenticated admin with assigned roles.
func (h *Handler) Me(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AuthService.GetByID(adminID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			respondError(c, http.StatusNotFound, "admin not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch admin", err)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch roles", err)
		return
	}

	response.Success(c, gin.H{
		"admin": admin,
		"roles": roles,
	})
}

// ListAdmins lists back-office accounts.
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.AuthService.ListAdmins()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list admins", err)
		return
	}
	response.Success(c, admins)
}

// CreateAdmin registers a back-office account and assigns roles.
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	admin, err := h.AuthService.CreateAdmin(req.Username, req.Password, req.DisplayName, req.IsSuper, req.IsEmployee)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			respondError(c, http.StatusConflict, "username already exists", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create admin", err)
		return
	}

	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
			requestLog(c).Warnw("admin_assign_roles_failed", "admin_id", admin.ID, "error", err)
		}
	}

	response.Created(c, admin)
}

// DeleteAdmin removes a back-office account. Super admins are protected.
func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.AuthService.DeleteAdmin(id); err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, http.StatusNotFound, "admin not found", nil)
		case errors.Is(err, service.ErrCannotDeleteSuper):
			respondError(c, http.StatusForbidden, "super admin cannot be deleted", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete admin", err)
		}
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, nil); err != nil {
		requestLog(c).Warnw("admin_clear_roles_failed", "admin_id", id, "error", err)
	}

	response.Success(c, gin.H{"deleted": true})
}

// ListRoles lists all known role names.
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list roles", err)
		return
	}
	response.Success(c, roles)
}

// GetAdminRoles lists the roles of one admin.
func (h *Handler) GetAdminRoles(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch roles", err)
		return
	}
	response.Success(c, roles)
}

// SetAdminRoles replaces the role set of one admin.
func (h *Handler) SetAdminRoles(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to set roles", err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}
