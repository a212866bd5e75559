package models

import (
	"time"

	"gorm.io/gorm"
)

// NewsletterSubscriber holds one mailing-list entry. Token authenticates
// unsubscribe links without a login.
type NewsletterSubscriber struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Status         string         `gorm:"type:varchar(20);not null;default:'subscribed';index" json:"status"`
	Token          string         `gorm:"uniqueIndex;not null" json:"-"`
	SubscribedAt   time.Time      `gorm:"index" json:"subscribed_at"`
	UnsubscribedAt *time.Time     `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
