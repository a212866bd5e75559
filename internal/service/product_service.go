package service

import (
	"errors"
	"strings"

	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

// ProductService manages the catalog.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// List returns products matching a filter.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID fetches one product.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetActiveByID fetches one product, hiding inactive ones from the storefront.
func (s *ProductService) GetActiveByID(id uint) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create registers a product after checking SKU uniqueness and category.
func (s *ProductService) Create(product *models.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	existing, err := s.productRepo.GetBySKU(product.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrProductSKUExists
	}
	if product.CategoryID != 0 {
		if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
			return ErrCategoryNotFound
		}
	}
	return s.productRepo.Create(product)
}

// Update saves catalog changes.
func (s *ProductService) Update(product *models.Product) error {
	current, err := s.GetByID(product.ID)
	if err != nil {
		return err
	}
	if product.SKU != current.SKU {
		existing, err := s.productRepo.GetBySKU(product.SKU)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != product.ID {
			return ErrProductSKUExists
		}
	}
	return s.productRepo.Update(product)
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// Restock raises stock by a positive delta through the conditional update.
func (s *ProductService) Restock(id uint, delta int) (*models.Product, error) {
	if delta <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	affected, err := s.productRepo.AdjustStock(id, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	return s.GetByID(id)
}

// Categories lists the category tree.
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// GetCategory fetches one category.
func (s *ProductService) GetCategory(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory registers a category after checking slug uniqueness.
func (s *ProductService) CreateCategory(category *models.Category) error {
	existing, err := s.categoryRepo.GetBySlug(category.Slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return ErrCategorySlugExists
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory saves category changes.
func (s *ProductService) UpdateCategory(category *models.Category) error {
	current, err := s.GetCategory(category.ID)
	if err != nil {
		return err
	}
	if category.Slug != current.Slug {
		existing, err := s.categoryRepo.GetBySlug(category.Slug)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != category.ID {
			return ErrCategorySlugExists
		}
	}
	return s.categoryRepo.Update(category)
}

// DeleteCategory soft-deletes a category. Products keep their category_id
// and fall back to uncategorized in listings.
func (s *ProductService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}
