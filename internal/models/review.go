package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a customer product review, one per (product, user). Only approved
// reviews count toward the product rating aggregates.
type Review struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	ProductID        uint           `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID           uint           `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	Rating           int            `gorm:"not null" json:"rating"` // 1..5
	Title            string         `gorm:"type:varchar(200)" json:"title"`
	Comment          string         `gorm:"type:text" json:"comment"`
	VerifiedPurchase bool           `gorm:"not null;default:false" json:"verified_purchase"`
	Status           string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName sets the table name.
func (Review) TableName() string {
	return "reviews"
}
