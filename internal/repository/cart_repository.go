package repository

import (
	"errors"
	"time"

	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the cart data access interface.
type CartRepository interface {
	GetByUser(userID uint, withItems bool) (*models.Cart, error)
	Create(cart *models.Cart) error
	Save(cart *models.Cart) error
	Touch(cartID uint, expiresAt time.Time) error
	UpsertItem(item *models.CartItem) error
	GetItem(cartID, productID uint, variant string) (*models.CartItem, error)
	DeleteItem(cartID, productID uint, variant string) error
	DeleteByUser(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates the cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser fetches a user's cart, optionally with line items and products.
func (r *GormCartRepository) GetByUser(userID uint, withItems bool) (*models.Cart, error) {
	query := r.db.Where("user_id = ?", userID)
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).Preload("Items.Product")
	}
	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create inserts a cart header.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Save persists the cart header (promo fields, expiry).
func (r *GormCartRepository) Save(cart *models.Cart) error {
	return r.db.Save(cart).Error
}

// Touch refreshes only the rolling expiry.
func (r *GormCartRepository) Touch(cartID uint, expiresAt time.Time) error {
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{"expires_at": expiresAt, "updated_at": time.Now()}).Error
}

// UpsertItem inserts a line or replaces the quantity of an existing one.
func (r *GormCartRepository) UpsertItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ? AND variant = ?", item.CartID, item.ProductID, item.Variant).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity":   item.Quantity,
		"updated_at": time.Now(),
	}).Error
}

// GetItem fetches one cart line.
func (r *GormCartRepository) GetItem(cartID, productID uint, variant string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ? AND variant = ?", cartID, productID, variant).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one cart line.
func (r *GormCartRepository) DeleteItem(cartID, productID uint, variant string) error {
	return r.db.Where("cart_id = ? AND product_id = ? AND variant = ?", cartID, productID, variant).
		Delete(&models.CartItem{}).Error
}

// DeleteByUser removes the user's cart and its lines.
func (r *GormCartRepository) DeleteByUser(userID uint) error {
	cart, err := r.GetByUser(userID, false)
	if err != nil || cart == nil {
		return err
	}
	if err := r.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, cart.ID).Error
}

// DeleteExpired reaps carts whose rolling expiry has passed.
func (r *GormCartRepository) DeleteExpired(now time.Time) (int64, error) {
	var expired []models.Cart
	if err := r.db.Where("expires_at < ?", now).Find(&expired).Error; err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	ids := make([]uint, 0, len(expired))
	for _, cart := range expired {
		ids = append(ids, cart.ID)
	}
	if err := r.db.Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Cart{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
