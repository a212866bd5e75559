package service

import (
	"strings"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

// ReviewService handles customer reviews and moderation.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService creates the review service.
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Create submits a review for moderation. A user reviews a product once;
// the verified purchase flag comes from their delivered orders.
func (s *ReviewService) Create(userID, productID uint, rating int, title, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByProductAndUser(productID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	verified, err := s.orderRepo.UserReceivedProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:        productID,
		UserID:           userID,
		Rating:           rating,
		Title:            strings.TrimSpace(title),
		Comment:          strings.TrimSpace(comment),
		VerifiedPurchase: verified,
		Status:           constants.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListApproved returns published reviews for a product page.
func (s *ReviewService) ListApproved(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		Status:    constants.ReviewStatusApproved,
	})
}

// List returns reviews for moderation.
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Moderate approves or rejects a review and refreshes the product's rating
// aggregates.
func (s *ReviewService) Moderate(id uint, approve bool) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	if approve {
		review.Status = constants.ReviewStatusApproved
	} else {
		review.Status = constants.ReviewStatusRejected
	}
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review and refreshes the aggregates.
func (s *ReviewService) Delete(id uint) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return ErrReviewNotFound
	}
	if err := s.reviewRepo.Delete(review.ID); err != nil {
		return err
	}
	return s.refreshProductRating(review.ProductID)
}

func (s *ReviewService) refreshProductRating(productID uint) error {
	avg, count, err := s.reviewRepo.AggregateApproved(productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(productID, avg, int(count))
}
