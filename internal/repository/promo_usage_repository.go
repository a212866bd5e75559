package repository

import (
	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// PromoUsageRepository records redemptions for per-user limit checks.
type PromoUsageRepository interface {
	Create(usage *models.PromoCodeUsage) error
	CreateWithinUserLimit(usage *models.PromoCodeUsage, limit int) (bool, error)
	CountByUser(promoID, userID uint) (int64, error)
	DeleteByOrder(orderID uint) error
	WithTx(tx *gorm.DB) PromoUsageRepository
}

// GormPromoUsageRepository is the GORM implementation.
type GormPromoUsageRepository struct {
	db *gorm.DB
}

// NewPromoUsageRepository creates the usage repository.
func NewPromoUsageRepository(db *gorm.DB) *GormPromoUsageRepository {
	return &GormPromoUsageRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPromoUsageRepository) WithTx(tx *gorm.DB) PromoUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromoUsageRepository{db: tx}
}

// Create inserts a usage record.
func (r *GormPromoUsageRepository) Create(usage *models.PromoCodeUsage) error {
	return r.db.Create(usage).Error
}

// CreateWithinUserLimit inserts a usage row and then re-counts the user's
// redemptions. It reports false when the insert pushed the user over limit;
// callers run it inside a transaction and roll back in that case.
func (r *GormPromoUsageRepository) CreateWithinUserLimit(usage *models.PromoCodeUsage, limit int) (bool, error) {
	if err := r.db.Create(usage).Error; err != nil {
		return false, err
	}
	count, err := r.CountByUser(usage.PromoCodeID, usage.UserID)
	if err != nil {
		return false, err
	}
	return int(count) <= limit, nil
}

// CountByUser counts a user's redemptions of one code.
func (r *GormPromoUsageRepository) CountByUser(promoID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PromoCodeUsage{}).
		Where("promo_code_id = ? AND user_id = ?", promoID, userID).
		Count(&count).Error
	return count, err
}

// DeleteByOrder removes usage rows when an order is cancelled pre-payment.
func (r *GormPromoUsageRepository) DeleteByOrder(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.PromoCodeUsage{}).Error
}
