package admin

import (
	"errors"
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest carries catalog fields for create and update.
type ProductRequest struct {
	SKU               string             `json:"sku" binding:"required"`
	CategoryID        uint               `json:"category_id"`
	Name              string             `json:"name" binding:"required"`
	Description       string             `json:"description"`
	Price             models.Money       `json:"price"`
	Stock             int                `json:"stock"`
	LowStockThreshold int                `json:"low_stock_threshold"`
	Images            models.StringArray `json:"images"`
	Tags              models.StringArray `json:"tags"`
	Variants          models.StringArray `json:"variants"`
	IsActive          *bool              `json:"is_active"`
	SortOrder         int                `json:"sort_order"`
}

// RestockRequest raises stock by a positive delta.
type RestockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CategoryRequest carries category fields for create and update.
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

func (r *ProductRequest) apply(product *models.Product) {
	product.SKU = r.SKU
	product.CategoryID = r.CategoryID
	product.Name = r.Name
	product.Description = r.Description
	product.Price = r.Price
	product.LowStockThreshold = r.LowStockThreshold
	product.Images = r.Images
	product.Tags = r.Tags
	product.Variants = r.Variants
	product.SortOrder = r.SortOrder
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
}

// ListProducts lists the catalog including inactive products.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 32)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct returns one product regardless of active state.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch product", err)
		return
	}

	response.Success(c, product)
}

// CreateProduct adds a catalog entry.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	product := &models.Product{Stock: req.Stock, IsActive: true}
	req.apply(product)

	if err := h.ProductService.Create(product); err != nil {
		switch {
		case errors.Is(err, service.ErrProductSKUExists):
			respondError(c, http.StatusConflict, "product sku already exists", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusBadRequest, "category not found", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to create product", err)
		}
		return
	}

	h.DashboardService.InvalidateCache(c.Request.Context())
	response.Created(c, product)
}

// UpdateProduct saves catalog changes. Stock is excluded here; it only
// moves through restock and order flows.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch product", err)
		return
	}

	req.apply(product)

	if err := h.ProductService.Update(product); err != nil {
		switch {
		case errors.Is(err, service.ErrProductSKUExists):
			respondError(c, http.StatusConflict, "product sku already exists", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to update product", err)
		}
		return
	}

	response.Success(c, product)
}

// DeleteProduct soft-deletes a catalog entry.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete product", err)
		return
	}

	h.DashboardService.InvalidateCache(c.Request.Context())
	response.Success(c, gin.H{"deleted": true})
}

// RestockProduct raises stock and refreshes any open low-stock alert.
func (h *Handler) RestockProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Restock(id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, "delta must be positive", nil)
		default:
			respondError(c, http.StatusInternalServerError, "failed to restock product", err)
		}
		return
	}

	if err := h.LowStockService.ScanProduct(id); err != nil {
		requestLog(c).Warnw("restock_alert_scan_failed", "product_id", id, "error", err)
	}

	response.Success(c, product)
}

// ListCategories lists categories for the console.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	category := &models.Category{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := h.ProductService.CreateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategorySlugExists) {
			respondError(c, http.StatusConflict, "category slug already exists", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create category", err)
		return
	}

	response.Created(c, category)
}

// UpdateCategory saves category changes.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	category, err := h.ProductService.GetCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "category not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch category", err)
		return
	}

	category.Slug = req.Slug
	category.Name = req.Name
	category.Icon = req.Icon
	category.SortOrder = req.SortOrder

	if err := h.ProductService.UpdateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategorySlugExists) {
			respondError(c, http.StatusConflict, "category slug already exists", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update category", err)
		return
	}

	response.Success(c, category)
}

// DeleteCategory soft-deletes a category.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.DeleteCategory(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "category not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete category", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
