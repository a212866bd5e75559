package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a storefront customer account.
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string         `gorm:"type:varchar(200);not null" json:"-"`
	Name          string         `gorm:"type:varchar(100)" json:"name"`
	Phone         string         `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Status        string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	EmailVerified bool           `gorm:"not null;default:false" json:"email_verified"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
