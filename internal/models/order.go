package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is an immutable purchase record; only the status fields move after
// creation, and only through the order event state machine. Line items carry
// product snapshots so later catalog edits never change past orders.
type Order struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	OrderNo string `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Status  string `gorm:"index;not null" json:"status"`

	Subtotal Money `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	Discount Money `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`
	Tax      Money `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`
	Shipping Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping"`
	Total    Money `gorm:"type:decimal(20,2);not null;default:0" json:"total"`

	PromoCodeID *uint  `gorm:"index" json:"promo_code_id,omitempty"`
	PromoCode   string `gorm:"type:varchar(50)" json:"promo_code,omitempty"`

	PaymentMethod        string     `gorm:"type:varchar(30);not null" json:"payment_method"`
	PaymentStatus        string     `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentTransactionID string     `gorm:"type:varchar(100)" json:"payment_transaction_id,omitempty"`
	PaidAt               *time.Time `gorm:"index" json:"paid_at,omitempty"`

	DeliveryMethod string     `gorm:"type:varchar(30);not null" json:"delivery_method"`
	DeliveryStatus string     `gorm:"type:varchar(20);not null;index" json:"delivery_status"`
	TrackingNumber string     `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`

	ShippingAddress JSON       `gorm:"type:json" json:"shipping_address,omitempty"`
	ClientIP        string     `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	ExpiresAt       *time.Time `gorm:"index" json:"expires_at,omitempty"` // unpaid order auto-cancel deadline
	CancelledAt     *time.Time `gorm:"index" json:"cancelled_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line with the product snapshot captured at order time.
type OrderItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	OrderID   uint   `gorm:"index;not null" json:"order_id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Name      string `gorm:"type:varchar(200);not null" json:"name"` // snapshot
	SKU       string `gorm:"type:varchar(100);not null" json:"sku"`  // snapshot
	Image     string `gorm:"type:varchar(500)" json:"image"`         // snapshot
	Variant   string `gorm:"type:varchar(100);not null;default:''" json:"variant"`
	UnitPrice Money  `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	LineTotal Money  `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
