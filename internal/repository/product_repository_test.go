package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dollers-electro/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, stock int, active bool) *models.Product {
	t.Helper()
	p := &models.Product{
		SKU:        sku,
		CategoryID: 1,
		Name:       "Product " + sku,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:      stock,
		IsActive:   active,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestAdjustStockGuardsAgainstNegativeStock(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, "ADJ-1", 5, true)

	affected, err := repo.AdjustStock(product.ID, -3)
	if err != nil {
		t.Fatalf("AdjustStock(-3) error = %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	// Going below zero touches no rows instead of corrupting stock.
	affected, err = repo.AdjustStock(product.ID, -3)
	if err != nil {
		t.Fatalf("AdjustStock(-3) again error = %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0 when stock would go negative", affected)
	}

	fresh, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fresh.Stock != 2 {
		t.Errorf("stock = %d, want 2", fresh.Stock)
	}

	// Restocking always succeeds.
	affected, err = repo.AdjustStock(product.ID, 10)
	if err != nil {
		t.Fatalf("AdjustStock(+10) error = %v", err)
	}
	if affected != 1 {
		t.Errorf("restock affected = %d, want 1", affected)
	}
}

func TestAdjustStockRejectsBadParams(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewProductRepository(db)

	if _, err := repo.AdjustStock(0, -1); err == nil {
		t.Error("AdjustStock(0, -1) error = nil, want error")
	}
	if _, err := repo.AdjustStock(1, 0); err == nil {
		t.Error("AdjustStock(1, 0) error = nil, want error")
	}

	affected, err := repo.AdjustStock(9999, -1)
	if err != nil {
		t.Fatalf("AdjustStock(missing) error = %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0 for unknown product", affected)
	}
}

func TestGetByIDReturnsNilForMissingProduct(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewProductRepository(db)

	product, err := repo.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if product != nil {
		t.Errorf("product = %+v, want nil", product)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewProductRepository(db)

	if err := db.Create(&models.Category{Name: "Audio", Slug: "audio"}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	for i := 0; i < 5; i++ {
		seedProduct(t, db, fmt.Sprintf("LST-%d", i), 10, true)
	}
	seedProduct(t, db, "LST-OFF", 10, false)

	products, total, err := repo.List(ProductListFilter{OnlyActive: true, Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5 active products", total)
	}
	if len(products) != 3 {
		t.Errorf("page size = %d, want 3", len(products))
	}

	products, total, err = repo.List(ProductListFilter{Search: "LST-2", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("search result = %d/%d, want exactly one", len(products), total)
	}
	if products[0].SKU != "LST-2" {
		t.Errorf("search hit = %q, want LST-2", products[0].SKU)
	}
}

func TestAdjustStockConcurrentDecrements(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, "RACE", 5, true)

	const workers = 8
	affected := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.AdjustStock(product.ID, -2)
			if err != nil {
				t.Errorf("AdjustStock() error = %v", err)
				affected <- 0
				return
			}
			affected <- n
		}()
	}
	wg.Wait()
	close(affected)

	var applied int64
	for n := range affected {
		applied += n
	}
	if applied != 2 {
		t.Errorf("successful decrements = %d, want 2", applied)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 1 {
		t.Errorf("stock = %d, want 1", reloaded.Stock)
	}
}
