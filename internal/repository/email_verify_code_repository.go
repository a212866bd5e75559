package repository

import (
	"errors"
	"time"

	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// EmailVerifyCodeRepository stores one-time email codes.
type EmailVerifyCodeRepository interface {
	Create(code *models.EmailVerifyCode) error
	GetLatest(email, purpose string) (*models.EmailVerifyCode, error)
	Update(code *models.EmailVerifyCode) error
	InvalidateAll(email, purpose string) error
	CountSentSince(email, purpose string, since time.Time) (int64, error)
}

// GormEmailVerifyCodeRepository is the GORM implementation.
type GormEmailVerifyCodeRepository struct {
	db *gorm.DB
}

// NewEmailVerifyCodeRepository creates the verify code repository.
func NewEmailVerifyCodeRepository(db *gorm.DB) *GormEmailVerifyCodeRepository {
	return &GormEmailVerifyCodeRepository{db: db}
}

// Create inserts a code record.
func (r *GormEmailVerifyCodeRepository) Create(code *models.EmailVerifyCode) error {
	return r.db.Create(code).Error
}

// GetLatest returns the most recent unverified code for an address, or nil.
func (r *GormEmailVerifyCodeRepository) GetLatest(email, purpose string) (*models.EmailVerifyCode, error) {
	var code models.EmailVerifyCode
	err := r.db.
		Where("email = ? AND purpose = ? AND verified_at IS NULL", email, purpose).
		Order("sent_at DESC").
		First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Update saves a code record.
func (r *GormEmailVerifyCodeRepository) Update(code *models.EmailVerifyCode) error {
	return r.db.Save(code).Error
}

// InvalidateAll soft-deletes outstanding codes before issuing a fresh one.
func (r *GormEmailVerifyCodeRepository) InvalidateAll(email, purpose string) error {
	return r.db.
		Where("email = ? AND purpose = ? AND verified_at IS NULL", email, purpose).
		Delete(&models.EmailVerifyCode{}).Error
}

// CountSentSince counts codes sent in a window, used for send throttling.
func (r *GormEmailVerifyCodeRepository) CountSentSince(email, purpose string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.EmailVerifyCode{}).
		Where("email = ? AND purpose = ? AND sent_at >= ?", email, purpose, since).
		Count(&count).Error
	return count, err
}
