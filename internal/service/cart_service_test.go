package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

func newTestCartService(t *testing.T, db *gorm.DB) *CartService {
	t.Helper()
	return NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		newTestPromoService(t, db),
		newTestPricing(t),
		7,
	)
}

func TestAddItemMergesLinesAndGuardsStock(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	product := seedOrderProduct(t, db, "CART-1", "10.00", 5)

	cart, err := svc.AddItem(1, product.ID, "black", 2)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart after first add = %+v, want one line of 2", cart.Items)
	}

	cart, err = svc.AddItem(1, product.ID, "black", 3)
	if err != nil {
		t.Fatalf("AddItem() merge error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("cart after merge = %+v, want one line of 5", cart.Items)
	}

	// Same product, different variant gets its own line but the merged
	// check still runs per line.
	if _, err := svc.AddItem(1, product.ID, "black", 1); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("over-stock merge error = %v, want ErrInsufficientStock", err)
	}
	cart, err = svc.AddItem(1, product.ID, "white", 1)
	if err != nil {
		t.Fatalf("AddItem() second variant error = %v", err)
	}
	if len(cart.Items) != 2 {
		t.Errorf("lines = %d, want 2 for distinct variants", len(cart.Items))
	}
}

func TestAddItemRejectsUnavailableProducts(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)

	inactive := seedOrderProduct(t, db, "CART-OFF", "10.00", 5)
	if err := db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	if _, err := svc.AddItem(2, inactive.ID, "", 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Errorf("inactive product error = %v, want ErrProductNotAvailable", err)
	}
	if _, err := svc.AddItem(2, 9999, "", 1); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("missing product error = %v, want ErrProductNotFound", err)
	}
	if _, err := svc.AddItem(2, inactive.ID, "", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity error = %v, want ErrInvalidQuantity", err)
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	product := seedOrderProduct(t, db, "CART-UPD", "10.00", 4)

	if _, err := svc.AddItem(3, product.ID, "", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	cart, err := svc.UpdateItemQuantity(3, product.ID, "", 4)
	if err != nil {
		t.Fatalf("UpdateItemQuantity() error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 4 {
		t.Fatalf("cart after update = %+v, want one line of 4", cart.Items)
	}

	if _, err := svc.UpdateItemQuantity(3, product.ID, "", 5); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("over-stock update error = %v, want ErrInsufficientStock", err)
	}
	if _, err := svc.UpdateItemQuantity(3, product.ID, "", -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.UpdateItemQuantity(3, 9999, "", 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("missing line error = %v, want ErrCartItemNotFound", err)
	}
	if _, err := svc.UpdateItemQuantity(42, product.ID, "", 1); !errors.Is(err, ErrCartNotFound) {
		t.Errorf("missing cart error = %v, want ErrCartNotFound", err)
	}

	// Zero removes the line.
	cart, err = svc.UpdateItemQuantity(3, product.ID, "", 0)
	if err != nil {
		t.Fatalf("UpdateItemQuantity(0) error = %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("lines after zeroing = %d, want 0", len(cart.Items))
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	first := seedOrderProduct(t, db, "CART-RM1", "10.00", 5)
	second := seedOrderProduct(t, db, "CART-RM2", "20.00", 5)

	if _, err := svc.AddItem(4, first.ID, "", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := svc.AddItem(4, second.ID, "", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	cart, err := svc.RemoveItem(4, first.ID, "")
	if err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != second.ID {
		t.Fatalf("cart after remove = %+v, want only second product", cart.Items)
	}

	if err := svc.Clear(4); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	cart, err = svc.Get(4)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("items after clear = %d, want 0", len(cart.Items))
	}
}

func TestApplyPromoPinsCodeAndSummaryRevalidates(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	product := seedOrderProduct(t, db, "CART-PROMO", "50.00", 5)

	promo := &models.PromoCode{
		Code:       "CART10",
		Type:       constants.PromoTypeFixed,
		Value:      money(t, "10.00"),
		IsActive:   true,
		UsageLimit: -1,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}

	if _, err := svc.ApplyPromo(5, "CART10"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("promo on empty cart error = %v, want ErrCartEmpty", err)
	}

	if _, err := svc.AddItem(5, product.ID, "", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	summary, err := svc.ApplyPromo(5, "cart10")
	if err != nil {
		t.Fatalf("ApplyPromo() error = %v", err)
	}
	if summary.PromoCode != "CART10" {
		t.Errorf("summary promo = %q, want CART10", summary.PromoCode)
	}
	if got := summary.Quote.Discount.Decimal.StringFixed(2); got != "10.00" {
		t.Errorf("discount = %s, want 10.00", got)
	}

	// Deactivate the code; the summary keeps working but drops the discount.
	if err := db.Model(&models.PromoCode{}).Where("id = ?", promo.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate promo: %v", err)
	}
	summary, err = svc.Summary(5, "")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.PromoCode != "" {
		t.Errorf("summary promo after deactivation = %q, want empty", summary.PromoCode)
	}
	if !summary.Quote.Discount.Decimal.IsZero() {
		t.Errorf("discount after deactivation = %s, want 0", summary.Quote.Discount)
	}

	summary, err = svc.RemovePromo(5)
	if err != nil {
		t.Fatalf("RemovePromo() error = %v", err)
	}
	if summary.Cart.PromoCodeID != nil || summary.Cart.PromoCode != "" {
		t.Errorf("cart still pins promo after removal: %+v", summary.Cart)
	}
}

func TestValidateStockReportsEachIssueKind(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)

	fine := seedOrderProduct(t, db, "CART-OK", "10.00", 10)
	short := seedOrderProduct(t, db, "CART-SHORT", "10.00", 10)
	gone := seedOrderProduct(t, db, "CART-GONE", "10.00", 10)
	dead := seedOrderProduct(t, db, "CART-DEAD", "10.00", 10)

	for _, p := range []*models.Product{fine, short, gone, dead} {
		if _, err := svc.AddItem(6, p.ID, "", 2); err != nil {
			t.Fatalf("AddItem(%s) error = %v", p.SKU, err)
		}
	}
	if err := db.Model(&models.Product{}).Where("id = ?", short.ID).Update("stock", 1).Error; err != nil {
		t.Fatalf("shrink stock: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", gone.ID).Update("stock", 0).Error; err != nil {
		t.Fatalf("zero stock: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", dead.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	issues, err := svc.ValidateStock(6)
	if err != nil {
		t.Fatalf("ValidateStock() error = %v", err)
	}
	reasons := map[uint]string{}
	for _, issue := range issues {
		reasons[issue.ProductID] = issue.Reason
	}
	if len(issues) != 3 {
		t.Fatalf("issues = %d (%v), want 3", len(issues), reasons)
	}
	if reasons[short.ID] != "insufficient_stock" {
		t.Errorf("short product reason = %q, want insufficient_stock", reasons[short.ID])
	}
	if reasons[gone.ID] != "out_of_stock" {
		t.Errorf("empty product reason = %q, want out_of_stock", reasons[gone.ID])
	}
	if reasons[dead.ID] != "product_inactive" {
		t.Errorf("inactive product reason = %q, want product_inactive", reasons[dead.ID])
	}
	if _, flagged := reasons[fine.ID]; flagged {
		t.Errorf("healthy product flagged: %v", reasons[fine.ID])
	}
}

func TestSweepExpiredRemovesOnlyStaleCarts(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	product := seedOrderProduct(t, db, "CART-SWEEP", "10.00", 10)

	if _, err := svc.AddItem(7, product.ID, "", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	stale := &models.Cart{UserID: 8, ExpiresAt: time.Now().Add(-time.Hour)}
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("seed stale cart: %v", err)
	}

	removed, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	fresh, err := svc.Get(7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(fresh.Items) != 1 {
		t.Errorf("active cart lost items: %+v", fresh.Items)
	}
}

func TestSummarySurfacesPromoStorageFailure(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestCartService(t, db)
	product := seedOrderProduct(t, db, "CART-ERR", "50.00", 5)

	promo := &models.PromoCode{
		Code:       "CART5",
		Type:       constants.PromoTypeFixed,
		Value:      money(t, "5.00"),
		IsActive:   true,
		UsageLimit: -1,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}
	if _, err := svc.AddItem(6, product.ID, "", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := svc.ApplyPromo(6, "CART5"); err != nil {
		t.Fatalf("ApplyPromo() error = %v", err)
	}

	// A failing promo lookup must not silently price the cart without the
	// pinned discount.
	if err := db.Migrator().DropTable(&models.PromoCode{}); err != nil {
		t.Fatalf("drop promo table: %v", err)
	}
	if _, err := svc.Summary(6, ""); err == nil {
		t.Fatal("Summary() error = nil, want promo lookup failure")
	}
}
