package models

import (
	"time"

	"gorm.io/gorm"
)

// LowStockAlert flags a product at or under its threshold. At most one
// non-resolved alert exists per product; re-detection refreshes it in place.
type LowStockAlert struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"index;not null" json:"product_id"`
	StockLevel int            `gorm:"not null" json:"stock_level"` // stock at last detection
	Threshold  int            `gorm:"not null" json:"threshold"`
	Priority   string         `gorm:"type:varchar(20);not null;index" json:"priority"`
	Status     string         `gorm:"type:varchar(20);not null;index" json:"status"`
	DetectedAt time.Time      `gorm:"index" json:"detected_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName sets the table name.
func (LowStockAlert) TableName() string {
	return "low_stock_alerts"
}
