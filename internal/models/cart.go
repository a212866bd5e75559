package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is the per-user shopping cart header. Created lazily on first add and
// removed on checkout or explicit clear; ExpiresAt rolls forward on every
// mutation and a periodic sweep reaps expired carts.
type Cart struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	PromoCodeID *uint          `gorm:"index" json:"promo_code_id,omitempty"`
	PromoCode   string         `gorm:"type:varchar(50)" json:"promo_code,omitempty"` // code snapshot for display
	ExpiresAt   time.Time      `gorm:"index;not null" json:"expires_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one cart line, unique per (cart, product, variant).
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CartID    uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"cart_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`
	Variant   string         `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_cart_product_variant" json:"variant"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	AddedAt   time.Time      `gorm:"index" json:"added_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
