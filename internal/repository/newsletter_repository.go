package repository

import (
	"errors"

	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// NewsletterRepository manages mailing-list subscribers.
type NewsletterRepository interface {
	GetByEmail(email string) (*models.NewsletterSubscriber, error)
	GetByToken(token string) (*models.NewsletterSubscriber, error)
	List(filter SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error)
	Create(sub *models.NewsletterSubscriber) error
	Update(sub *models.NewsletterSubscriber) error
	CountByStatus(status string) (int64, error)
}

// GormNewsletterRepository is the GORM implementation.
type GormNewsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates the newsletter repository.
func NewNewsletterRepository(db *gorm.DB) *GormNewsletterRepository {
	return &GormNewsletterRepository{db: db}
}

// GetByEmail returns a subscriber record, or nil when absent.
func (r *GormNewsletterRepository) GetByEmail(email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := r.db.Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByToken returns the subscriber behind an unsubscribe token, or nil.
func (r *GormNewsletterRepository) GetByToken(token string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := r.db.Where("token = ?", token).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns subscribers for the admin console.
func (r *GormNewsletterRepository) List(filter SubscriberListFilter) ([]models.NewsletterSubscriber, int64, error) {
	var subs []models.NewsletterSubscriber
	var total int64

	query := r.db.Model(&models.NewsletterSubscriber{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := applyPagination(query.Order("subscribed_at DESC"), filter.Page, filter.PageSize).
		Find(&subs).Error
	return subs, total, err
}

// Create inserts a subscriber.
func (r *GormNewsletterRepository) Create(sub *models.NewsletterSubscriber) error {
	return r.db.Create(sub).Error
}

// Update saves a subscriber.
func (r *GormNewsletterRepository) Update(sub *models.NewsletterSubscriber) error {
	return r.db.Save(sub).Error
}

// CountByStatus counts subscribers in one status.
func (r *GormNewsletterRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.NewsletterSubscriber{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
