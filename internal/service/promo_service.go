package service

import (
	"errors"
	"strings"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoService validates and manages promo codes. Redemption itself happens
// inside the checkout transaction through the repository's conditional update.
type PromoService struct {
	promoRepo repository.PromoCodeRepository
	usageRepo repository.PromoUsageRepository
	orderRepo repository.OrderRepository
	pricing   *PricingService
}

// NewPromoService creates the promo service.
func NewPromoService(
	promoRepo repository.PromoCodeRepository,
	usageRepo repository.PromoUsageRepository,
	orderRepo repository.OrderRepository,
	pricing *PricingService,
) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		usageRepo: usageRepo,
		orderRepo: orderRepo,
		pricing:   pricing,
	}
}

// NormalizeCode uppercases and trims a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateForOrder checks every promo restriction against a prospective
// order. Checks short-circuit in a fixed sequence so callers get a stable
// first failure: active, window, global limit, minimum amount, new-user
// restriction, allowlist, per-user limit.
func (s *PromoService) ValidateForOrder(code string, userID uint, subtotal models.Money) (*models.PromoCode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrPromoNotFound
	}

	promo, err := s.promoRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}

	if !promo.IsActive {
		return nil, ErrPromoInactive
	}

	now := time.Now()
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return nil, ErrPromoNotStarted
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return nil, ErrPromoExpired
	}

	if promo.UsageLimit != constants.PromoUsageUnlimited && promo.UsedCount >= promo.UsageLimit {
		return nil, ErrPromoUsageLimit
	}

	if promo.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		subtotal.Decimal.LessThan(promo.MinOrderAmount.Decimal) {
		return nil, ErrPromoMinAmount
	}

	if promo.NewUsersOnly {
		count, err := s.orderRepo.CountByUser(userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrPromoNewUsersOnly
		}
	}

	if len(promo.AllowedUserIDs) > 0 && !promo.AllowedUserIDs.Contains(userID) {
		return nil, ErrPromoNotEligible
	}

	if promo.PerUserLimit > 0 {
		used, err := s.usageRepo.CountByUser(promo.ID, userID)
		if err != nil {
			return nil, err
		}
		if int(used) >= promo.PerUserLimit {
			return nil, ErrPromoPerUserLimit
		}
	}

	return promo, nil
}

// promoRejections are the rule failures ValidateForOrder can report. Anything
// outside this set is an infrastructure error.
var promoRejections = []error{
	ErrPromoNotFound,
	ErrPromoInactive,
	ErrPromoNotStarted,
	ErrPromoExpired,
	ErrPromoUsageLimit,
	ErrPromoPerUserLimit,
	ErrPromoMinAmount,
	ErrPromoNewUsersOnly,
	ErrPromoNotEligible,
}

// IsPromoRejection reports whether err is a promo rule failure rather than a
// storage error.
func IsPromoRejection(err error) bool {
	for _, sentinel := range promoRejections {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// PreviewDiscount validates a code and reports the discount it would grant.
func (s *PromoService) PreviewDiscount(code string, userID uint, subtotal models.Money) (*models.PromoCode, models.Money, error) {
	promo, err := s.ValidateForOrder(code, userID, subtotal)
	if err != nil {
		return nil, models.Money{}, err
	}
	return promo, s.pricing.CalculatePromoDiscount(promo, subtotal), nil
}

// GetByID fetches one promo code.
func (s *PromoService) GetByID(id uint) (*models.PromoCode, error) {
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}

// List returns promo codes for the admin console.
func (s *PromoService) List(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	return s.promoRepo.List(filter)
}

// Create registers a new code. Codes are stored uppercased.
func (s *PromoService) Create(promo *models.PromoCode) error {
	promo.Code = NormalizeCode(promo.Code)
	if promo.Code == "" {
		return ErrPromoRuleInvalid
	}
	if err := s.validateRule(promo); err != nil {
		return err
	}
	existing, err := s.promoRepo.GetByCode(promo.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPromoCodeExists
	}
	return s.promoRepo.Create(promo)
}

// Update saves rule changes to an existing code.
func (s *PromoService) Update(promo *models.PromoCode) error {
	promo.Code = NormalizeCode(promo.Code)
	if err := s.validateRule(promo); err != nil {
		return err
	}
	return s.promoRepo.Update(promo)
}

// Delete soft-deletes a code.
func (s *PromoService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.promoRepo.Delete(id)
}

func (s *PromoService) validateRule(promo *models.PromoCode) error {
	switch promo.Type {
	case constants.PromoTypePercentage:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) ||
			promo.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPromoRuleInvalid
		}
	case constants.PromoTypeFixed:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrPromoRuleInvalid
		}
	case constants.PromoTypeFreeShipping:
	default:
		return ErrPromoRuleInvalid
	}
	if promo.ValidFrom != nil && promo.ValidUntil != nil && promo.ValidUntil.Before(*promo.ValidFrom) {
		return ErrPromoRuleInvalid
	}
	return nil
}
