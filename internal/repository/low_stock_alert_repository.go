package repository

import (
	"errors"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// LowStockAlertRepository manages low-stock alerts. The scanner keeps at most
// one non-resolved alert per product, refreshing it on re-detection.
type LowStockAlertRepository interface {
	GetByID(id uint) (*models.LowStockAlert, error)
	GetOpenByProduct(productID uint) (*models.LowStockAlert, error)
	List(filter AlertListFilter) ([]models.LowStockAlert, int64, error)
	Create(alert *models.LowStockAlert) error
	Update(alert *models.LowStockAlert) error
	UpdateStatus(id uint, updates map[string]interface{}) error
	ResolveByProduct(productID uint) error
	CountOpen() (int64, error)
}

// GormLowStockAlertRepository is the GORM implementation.
type GormLowStockAlertRepository struct {
	db *gorm.DB
}

// NewLowStockAlertRepository creates the alert repository.
func NewLowStockAlertRepository(db *gorm.DB) *GormLowStockAlertRepository {
	return &GormLowStockAlertRepository{db: db}
}

// GetByID fetches one alert with its product.
func (r *GormLowStockAlertRepository) GetByID(id uint) (*models.LowStockAlert, error) {
	var alert models.LowStockAlert
	if err := r.db.Preload("Product").First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// GetOpenByProduct returns the product's active or acknowledged alert, or nil.
func (r *GormLowStockAlertRepository) GetOpenByProduct(productID uint) (*models.LowStockAlert, error) {
	var alert models.LowStockAlert
	err := r.db.
		Where("product_id = ? AND status IN ?", productID,
			[]string{constants.AlertStatusActive, constants.AlertStatusAcknowledged}).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// List returns alerts ordered most urgent first.
func (r *GormLowStockAlertRepository) List(filter AlertListFilter) ([]models.LowStockAlert, int64, error) {
	var alerts []models.LowStockAlert
	var total int64

	query := r.db.Model(&models.LowStockAlert{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := applyPagination(query.Preload("Product").
		Order("CASE priority WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END").
		Order("detected_at DESC"), filter.Page, filter.PageSize).
		Find(&alerts).Error
	return alerts, total, err
}

// Create inserts an alert.
func (r *GormLowStockAlertRepository) Create(alert *models.LowStockAlert) error {
	return r.db.Create(alert).Error
}

// Update saves an alert.
func (r *GormLowStockAlertRepository) Update(alert *models.LowStockAlert) error {
	return r.db.Save(alert).Error
}

// UpdateStatus applies a partial update to one alert.
func (r *GormLowStockAlertRepository) UpdateStatus(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.LowStockAlert{}).Where("id = ?", id).Updates(updates).Error
}

// ResolveByProduct closes any open alert once stock recovers.
func (r *GormLowStockAlertRepository) ResolveByProduct(productID uint) error {
	return r.db.Model(&models.LowStockAlert{}).
		Where("product_id = ? AND status IN ?", productID,
			[]string{constants.AlertStatusActive, constants.AlertStatusAcknowledged}).
		Updates(map[string]interface{}{
			"status":      constants.AlertStatusResolved,
			"resolved_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// CountOpen counts unresolved alerts for the dashboard.
func (r *GormLowStockAlertRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&models.LowStockAlert{}).
		Where("status IN ?", []string{constants.AlertStatusActive, constants.AlertStatusAcknowledged}).
		Count(&count).Error
	return count, err
}
