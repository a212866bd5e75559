package service

import (
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

// WishlistService manages per-user saved products.
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	cartSvc      *CartService
}

// NewWishlistService creates the wishlist service.
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository, cartSvc *CartService) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		cartSvc:      cartSvc,
	}
}

// List returns the user's wishlist.
func (s *WishlistService) List(userID uint) ([]models.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(userID)
}

// Add saves a product. Adding an already saved product is a no-op.
func (s *WishlistService) Add(userID, productID uint) (*models.WishlistItem, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.wishlistRepo.Get(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove drops a saved product.
func (s *WishlistService) Remove(userID, productID uint) error {
	affected, err := s.wishlistRepo.Delete(userID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// MoveToCart adds the saved product to the cart and removes it from the
// wishlist.
func (s *WishlistService) MoveToCart(userID, productID uint) (*models.Cart, error) {
	item, err := s.wishlistRepo.Get(userID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrWishlistItemNotFound
	}

	cart, err := s.cartSvc.AddItem(userID, productID, "", 1)
	if err != nil {
		return nil, err
	}
	if _, err := s.wishlistRepo.Delete(userID, productID); err != nil {
		return nil, err
	}
	return cart, nil
}
