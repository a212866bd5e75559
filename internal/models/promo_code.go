package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode is a discount rule identified by an uppercased code. UsageLimit of
// -1 means unlimited; UsedCount is only advanced through a conditional update
// so it cannot pass the limit under concurrent redemptions.
type PromoCode struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`
	Description    string         `gorm:"type:varchar(300)" json:"description"`
	Type           string         `gorm:"type:varchar(20);not null" json:"type"` // percentage / fixed / free_shipping
	Value          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"`
	MaxDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"` // cap for percentage, 0 = uncapped
	MinOrderAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`
	UsageLimit     int            `gorm:"not null;default:-1" json:"usage_limit"` // -1 = unlimited
	UsedCount      int            `gorm:"not null;default:0" json:"used_count"`
	PerUserLimit   int            `gorm:"not null;default:0" json:"per_user_limit"` // 0 = unlimited
	ValidFrom      *time.Time     `gorm:"index" json:"valid_from"`
	ValidUntil     *time.Time     `gorm:"index" json:"valid_until"`
	NewUsersOnly   bool           `gorm:"not null;default:false" json:"new_users_only"`
	AllowedUserIDs UintArray      `gorm:"type:json" json:"allowed_user_ids"` // empty = everyone
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PromoCode) TableName() string {
	return "promo_codes"
}

// PromoCodeUsage records one redemption for per-user limit checks.
type PromoCodeUsage struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	PromoCodeID    uint           `gorm:"index;not null" json:"promo_code_id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	OrderID        uint           `gorm:"index;not null" json:"order_id"`
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PromoCodeUsage) TableName() string {
	return "promo_code_usages"
}
