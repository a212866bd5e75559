package service

import (
	"fmt"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

// CartIssue is one stock problem found during cart validation.
type CartIssue struct {
	ProductID uint   `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Reason    string `json:"reason"` // product_inactive / out_of_stock / insufficient_stock
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

// Message renders the issue for API consumers.
func (i CartIssue) Message() string {
	switch i.Reason {
	case "product_inactive":
		return fmt.Sprintf("product %d is no longer available", i.ProductID)
	case "out_of_stock":
		return fmt.Sprintf("product %d is out of stock", i.ProductID)
	case "insufficient_stock":
		return fmt.Sprintf("product %d has only %d left (requested %d)", i.ProductID, i.Available, i.Requested)
	default:
		return fmt.Sprintf("product %d cannot be purchased", i.ProductID)
	}
}

// CartSummary is the priced view of a cart.
type CartSummary struct {
	Cart      *models.Cart `json:"cart"`
	ItemCount int          `json:"item_count"`
	PromoCode string       `json:"promo_code,omitempty"`
	Quote     Quote        `json:"quote"`
}

// CartService owns the per-user cart aggregate. Every mutation rolls the
// cart expiry forward.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	promoSvc    *PromoService
	pricing     *PricingService
	expireDays  int
}

// NewCartService creates the cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	promoSvc *PromoService,
	pricing *PricingService,
	expireDays int,
) *CartService {
	if expireDays <= 0 {
		expireDays = constants.DefaultCartExpireDays
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		promoSvc:    promoSvc,
		pricing:     pricing,
		expireDays:  expireDays,
	}
}

func (s *CartService) newExpiry() time.Time {
	return time.Now().Add(time.Duration(s.expireDays) * 24 * time.Hour)
}

// getOrCreate returns the user's cart header, creating it on first use.
func (s *CartService) getOrCreate(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID, false)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID, ExpiresAt: s.newExpiry()}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Get returns the user's cart with items, or an empty cart view.
func (s *CartService) Get(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, nil
}

// AddItem adds quantity of a product variant, merging into an existing line
// for the same (product, variant) pair.
func (s *CartService) AddItem(userID, productID uint, variant string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID, variant)
	if err != nil {
		return nil, err
	}

	merged := quantity
	if existing != nil {
		merged += existing.Quantity
	}
	if product.Stock < merged {
		return nil, ErrInsufficientStock
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Variant:   variant,
		Quantity:  merged,
		AddedAt:   time.Now(),
	}
	if existing != nil {
		item.AddedAt = existing.AddedAt
	}
	if err := s.cartRepo.UpsertItem(item); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Touch(cart.ID, s.newExpiry()); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// UpdateItemQuantity sets a line's quantity. Zero removes the line; negative
// values are rejected here rather than trusted to the transport layer.
func (s *CartService) UpdateItemQuantity(userID, productID uint, variant string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetByUser(userID, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID, variant)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(cart.ID, productID, variant); err != nil {
			return nil, err
		}
	} else {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if product.Stock < quantity {
			return nil, ErrInsufficientStock
		}
		existing.Quantity = quantity
		if err := s.cartRepo.UpsertItem(existing); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Touch(cart.ID, s.newExpiry()); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// RemoveItem deletes one line.
func (s *CartService) RemoveItem(userID, productID uint, variant string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if err := s.cartRepo.DeleteItem(cart.ID, productID, variant); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Touch(cart.ID, s.newExpiry()); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// Clear drops the cart entirely.
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.DeleteByUser(userID)
}

// ApplyPromo validates a code against the current cart subtotal and pins it
// to the cart.
func (s *CartService) ApplyPromo(userID uint, code string) (*CartSummary, error) {
	cart, err := s.cartRepo.GetByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := cartSubtotal(cart.Items)
	promo, err := s.promoSvc.ValidateForOrder(code, userID, subtotal)
	if err != nil {
		return nil, err
	}

	cart.PromoCodeID = &promo.ID
	cart.PromoCode = promo.Code
	cart.ExpiresAt = s.newExpiry()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.Summary(userID, "")
}

// RemovePromo detaches any applied code.
func (s *CartService) RemovePromo(userID uint) (*CartSummary, error) {
	cart, err := s.cartRepo.GetByUser(userID, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	cart.PromoCodeID = nil
	cart.PromoCode = ""
	cart.ExpiresAt = s.newExpiry()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.Summary(userID, "")
}

// ValidateStock reports every line that cannot currently be fulfilled.
func (s *CartService) ValidateStock(userID uint) ([]CartIssue, error) {
	cart, err := s.cartRepo.GetByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []CartIssue{}, nil
	}

	issues := make([]CartIssue, 0)
	for _, item := range cart.Items {
		product := item.Product
		if product == nil {
			fresh, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = fresh
		}
		switch {
		case product == nil || !product.IsActive:
			issues = append(issues, CartIssue{ProductID: item.ProductID, Variant: item.Variant, Reason: "product_inactive"})
		case product.Stock == 0:
			issues = append(issues, CartIssue{ProductID: item.ProductID, Variant: item.Variant, Reason: "out_of_stock", Requested: item.Quantity})
		case product.Stock < item.Quantity:
			issues = append(issues, CartIssue{
				ProductID: item.ProductID,
				Variant:   item.Variant,
				Reason:    "insufficient_stock",
				Requested: item.Quantity,
				Available: product.Stock,
			})
		}
	}
	return issues, nil
}

// Summary prices the cart through the shared pricing service. An empty
// delivery method defaults to home delivery for estimation.
func (s *CartService) Summary(userID uint, deliveryMethod string) (*CartSummary, error) {
	cart, err := s.cartRepo.GetByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	if deliveryMethod == "" {
		deliveryMethod = constants.DeliveryMethodHome
	}

	subtotal := cartSubtotal(cart.Items)

	var promo *models.PromoCode
	if cart.PromoCodeID != nil {
		// Revalidate so a code that expired since it was applied drops off
		// instead of silently discounting. Only rule failures drop the
		// code; storage errors surface to the caller.
		validated, err := s.promoSvc.ValidateForOrder(cart.PromoCode, userID, subtotal)
		switch {
		case err == nil:
			promo = validated
		case IsPromoRejection(err):
		default:
			return nil, err
		}
	}

	quote, err := s.pricing.ComputeQuote(subtotal, promo, deliveryMethod)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}

	summary := &CartSummary{Cart: cart, ItemCount: count, Quote: quote}
	if promo != nil {
		summary.PromoCode = promo.Code
	}
	return summary, nil
}

// SweepExpired removes carts past their rolling expiry. The worker calls
// this periodically.
func (s *CartService) SweepExpired() (int64, error) {
	return s.cartRepo.DeleteExpired(time.Now())
}
