package repository

import (
	"errors"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository is the promo code data access interface. Redeem and
// Release advance used_count through conditional updates so the global limit
// holds under concurrent checkouts.
type PromoCodeRepository interface {
	GetByID(id uint) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	Create(promo *models.PromoCode) error
	Update(promo *models.PromoCode) error
	Delete(id uint) error
	List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error)
	Redeem(id uint) (int64, error)
	Release(id uint) (int64, error)
	WithTx(tx *gorm.DB) PromoCodeRepository
}

// GormPromoCodeRepository is the GORM implementation.
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository creates the promo code repository.
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) PromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// GetByID fetches a promo code by id.
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// GetByCode fetches a promo code by its uppercased code.
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// Create inserts a promo code.
func (r *GormPromoCodeRepository) Create(promo *models.PromoCode) error {
	return r.db.Create(promo).Error
}

// Update saves a promo code.
func (r *GormPromoCodeRepository) Update(promo *models.PromoCode) error {
	return r.db.Save(promo).Error
}

// Delete soft-deletes a promo code.
func (r *GormPromoCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.PromoCode{}, id).Error
}

// List returns a filtered promo code page.
func (r *GormPromoCodeRepository) List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	var promos []models.PromoCode
	query := r.db.Model(&models.PromoCode{})

	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&promos).Error; err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// Redeem advances used_count only while under the limit. RowsAffected == 0
// means the limit was already reached (or the code does not exist).
func (r *GormPromoCodeRepository) Redeem(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid promo code id")
	}
	result := r.db.Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit = ? OR used_count < usage_limit)", id, constants.PromoUsageUnlimited).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Release returns one redemption (order cancelled before payment), floored
// at zero.
func (r *GormPromoCodeRepository) Release(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid promo code id")
	}
	result := r.db.Model(&models.PromoCode{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
