package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office account. Role assignment lives in the authz layer;
// IsSuper bypasses policy checks entirely.
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"`
	IsEmployee   bool           `gorm:"not null;default:false;index" json:"is_employee"` // eligible for quiz gamification
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
