package repository

import "time"

// ProductListFilter filters the catalog listing.
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	OnlyActive   bool
	OnlyInStock  bool
	WithCategory bool
}

// OrderListFilter filters order listings.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PromoCodeListFilter filters promo code listings.
type PromoCodeListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// ReviewListFilter filters review listings.
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
	Status    string
}

// AlertListFilter filters low-stock alert listings.
type AlertListFilter struct {
	Page     int
	PageSize int
	Status   string
	Priority string
}

// UserListFilter filters customer listings.
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// SubscriberListFilter filters newsletter subscriber listings.
type SubscriberListFilter struct {
	Page     int
	PageSize int
	Status   string
}
