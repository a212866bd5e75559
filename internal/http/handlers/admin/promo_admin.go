package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// PromoCodeRequest carries promo rule fields for create and update.
type PromoCodeRequest struct {
	Code           string           `json:"code" binding:"required"`
	Description    string           `json:"description"`
	Type           string           `json:"type" binding:"required"`
	Value          models.Money     `json:"value"`
	MaxDiscount    models.Money     `json:"max_discount"`
	MinOrderAmount models.Money     `json:"min_order_amount"`
	UsageLimit     *int             `json:"usage_limit"`
	PerUserLimit   int              `json:"per_user_limit"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	NewUsersOnly   bool             `json:"new_users_only"`
	AllowedUserIDs models.UintArray `json:"allowed_user_ids"`
	IsActive       *bool            `json:"is_active"`
}

func (r *PromoCodeRequest) apply(promo *models.PromoCode) {
	promo.Code = r.Code
	promo.Description = r.Description
	promo.Type = r.Type
	promo.Value = r.Value
	promo.MaxDiscount = r.MaxDiscount
	promo.MinOrderAmount = r.MinOrderAmount
	promo.PerUserLimit = r.PerUserLimit
	promo.ValidFrom = r.ValidFrom
	promo.ValidUntil = r.ValidUntil
	promo.NewUsersOnly = r.NewUsersOnly
	promo.AllowedUserIDs = r.AllowedUserIDs
	if r.UsageLimit != nil {
		promo.UsageLimit = *r.UsageLimit
	}
	if r.IsActive != nil {
		promo.IsActive = *r.IsActive
	}
}

func respondPromoAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPromoNotFound):
		respondError(c, http.StatusNotFound, "promo code not found", nil)
	case errors.Is(err, service.ErrPromoCodeExists):
		respondError(c, http.StatusConflict, "promo code already exists", nil)
	case errors.Is(err, service.ErrPromoRuleInvalid):
		respondError(c, http.StatusBadRequest, "invalid promo rule", nil)
	default:
		respondError(c, http.StatusInternalServerError, "promo operation failed", err)
	}
}

// ListPromoCodes lists promo codes with console filters.
func (h *Handler) ListPromoCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.PromoCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
	}
	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		filter.IsActive = &v
	}

	promos, total, err := h.PromoService.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list promo codes", err)
		return
	}

	response.SuccessWithPage(c, promos, response.NewPagination(page, pageSize, total))
}

// GetPromoCode returns one promo code.
func (h *Handler) GetPromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	promo, err := h.PromoService.GetByID(id)
	if err != nil {
		respondPromoAdminError(c, err)
		return
	}

	response.Success(c, promo)
}

// CreatePromoCode adds a promo rule.
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	promo := &models.PromoCode{UsageLimit: -1, IsActive: true}
	req.apply(promo)

	if err := h.PromoService.Create(promo); err != nil {
		respondPromoAdminError(c, err)
		return
	}

	response.Created(c, promo)
}

// UpdatePromoCode saves promo rule changes. UsedCount is never touched
// here; it only moves through redemptions and releases.
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	promo, err := h.PromoService.GetByID(id)
	if err != nil {
		respondPromoAdminError(c, err)
		return
	}

	req.apply(promo)

	if err := h.PromoService.Update(promo); err != nil {
		respondPromoAdminError(c, err)
		return
	}

	response.Success(c, promo)
}

// DeletePromoCode soft-deletes a promo rule.
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.PromoService.Delete(id); err != nil {
		respondPromoAdminError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
