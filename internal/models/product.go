package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Stock is the single availability counter; it is
// only ever mutated through conditional updates so it can never go negative.
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	SKU               string         `gorm:"uniqueIndex;not null" json:"sku"`
	CategoryID        uint           `gorm:"not null;index" json:"category_id"`
	Name              string         `gorm:"type:varchar(200);not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Stock             int            `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int            `gorm:"not null;default:0" json:"low_stock_threshold"` // 0 falls back to the configured default
	Images            StringArray    `gorm:"type:json" json:"images"`
	Tags              StringArray    `gorm:"type:json" json:"tags"`
	Variants          StringArray    `gorm:"type:json" json:"variants"` // offered variant labels, e.g. colors
	RatingAvg         float64        `gorm:"not null;default:0" json:"rating_avg"`
	ReviewCount       int            `gorm:"not null;default:0" json:"review_count"`
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder         int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product can currently be purchased.
func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}

// EffectiveLowStockThreshold resolves the per-product threshold.
func (p *Product) EffectiveLowStockThreshold(defaultThreshold int) int {
	if p != nil && p.LowStockThreshold > 0 {
		return p.LowStockThreshold
	}
	return defaultThreshold
}

// FirstImage returns the primary image path, if any.
func (p *Product) FirstImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
