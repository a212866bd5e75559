package service

import (
	"errors"
	"testing"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

func newTestLowStockService(t *testing.T, db *gorm.DB) *LowStockService {
	t.Helper()
	return NewLowStockService(
		repository.NewLowStockAlertRepository(db),
		repository.NewProductRepository(db),
		10,
	)
}

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		stock     int
		threshold int
		want      string
	}{
		{0, 10, constants.AlertPriorityCritical},
		{1, 10, constants.AlertPriorityHigh},
		{3, 10, constants.AlertPriorityMedium},
		{5, 10, constants.AlertPriorityMedium},
		{6, 10, constants.AlertPriorityLow},
		{10, 10, constants.AlertPriorityLow},
	}
	for _, tc := range cases {
		if got := PriorityFor(tc.stock, tc.threshold); got != tc.want {
			t.Errorf("PriorityFor(%d, %d) = %q, want %q", tc.stock, tc.threshold, got, tc.want)
		}
	}
}

func openAlertFor(t *testing.T, db *gorm.DB, productID uint) *models.LowStockAlert {
	t.Helper()
	var alert models.LowStockAlert
	err := db.Where("product_id = ? AND status IN ?", productID,
		[]string{constants.AlertStatusActive, constants.AlertStatusAcknowledged}).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		t.Fatalf("load alert: %v", err)
	}
	return &alert
}

func TestScanRaisesRefreshesAndResolvesAlerts(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestLowStockService(t, db)

	healthy := seedOrderProduct(t, db, "ALRT-OK", "10.00", 50)
	low := seedOrderProduct(t, db, "ALRT-LOW", "10.00", 4)
	inactive := seedOrderProduct(t, db, "ALRT-OFF", "10.00", 0)
	if err := db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	result, err := svc.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Scanned != 2 || result.Created != 1 {
		t.Fatalf("first scan = %+v, want 2 scanned and 1 created", result)
	}
	if alert := openAlertFor(t, db, healthy.ID); alert != nil {
		t.Errorf("healthy product raised alert %+v", alert)
	}
	alert := openAlertFor(t, db, low.ID)
	if alert == nil {
		t.Fatal("low product has no alert")
	}
	if alert.Priority != constants.AlertPriorityMedium || alert.StockLevel != 4 {
		t.Errorf("alert = (%q, %d), want (medium, 4)", alert.Priority, alert.StockLevel)
	}

	// Stock drops further: the open alert is refreshed in place.
	if err := db.Model(&models.Product{}).Where("id = ?", low.ID).Update("stock", 0).Error; err != nil {
		t.Fatalf("drain stock: %v", err)
	}
	result, err = svc.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("second scan = %+v, want 1 updated", result)
	}
	refreshed := openAlertFor(t, db, low.ID)
	if refreshed == nil || refreshed.ID != alert.ID {
		t.Fatalf("alert replaced instead of refreshed: %+v", refreshed)
	}
	if refreshed.Priority != constants.AlertPriorityCritical || refreshed.StockLevel != 0 {
		t.Errorf("refreshed alert = (%q, %d), want (critical, 0)", refreshed.Priority, refreshed.StockLevel)
	}

	// Restock above threshold: the alert resolves.
	if err := db.Model(&models.Product{}).Where("id = ?", low.ID).Update("stock", 30).Error; err != nil {
		t.Fatalf("restock: %v", err)
	}
	result, err = svc.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Resolved != 1 {
		t.Fatalf("third scan = %+v, want 1 resolved", result)
	}
	if open := openAlertFor(t, db, low.ID); open != nil {
		t.Errorf("alert still open after restock: %+v", open)
	}
}

func TestScanProductTargetsOneProduct(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestLowStockService(t, db)

	product := seedOrderProduct(t, db, "ALRT-ONE", "10.00", 2)
	// Per-product threshold overrides the default.
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("low_stock_threshold", 3).Error; err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	if err := svc.ScanProduct(product.ID); err != nil {
		t.Fatalf("ScanProduct() error = %v", err)
	}
	alert := openAlertFor(t, db, product.ID)
	if alert == nil {
		t.Fatal("no alert created")
	}
	if alert.Threshold != 3 {
		t.Errorf("threshold = %d, want product override 3", alert.Threshold)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock", 9).Error; err != nil {
		t.Fatalf("restock: %v", err)
	}
	if err := svc.ScanProduct(product.ID); err != nil {
		t.Fatalf("ScanProduct() after restock error = %v", err)
	}
	if open := openAlertFor(t, db, product.ID); open != nil {
		t.Errorf("alert still open after restock: %+v", open)
	}

	// Unknown products are ignored quietly.
	if err := svc.ScanProduct(9999); err != nil {
		t.Fatalf("ScanProduct(missing) error = %v", err)
	}
}

func TestAlertStatusTransitions(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestLowStockService(t, db)

	product := seedOrderProduct(t, db, "ALRT-MOVE", "10.00", 1)
	if err := svc.ScanProduct(product.ID); err != nil {
		t.Fatalf("ScanProduct() error = %v", err)
	}
	alert := openAlertFor(t, db, product.ID)
	if alert == nil {
		t.Fatal("no alert created")
	}

	acked, err := svc.Acknowledge(alert.ID)
	if err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	if acked.Status != constants.AlertStatusAcknowledged {
		t.Errorf("status = %q, want acknowledged", acked.Status)
	}

	resolved, err := svc.Resolve(alert.ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != constants.AlertStatusResolved || resolved.ResolvedAt == nil {
		t.Errorf("resolved = (%q, %v), want resolved with timestamp", resolved.Status, resolved.ResolvedAt)
	}

	dismissed, err := svc.Dismiss(alert.ID)
	if err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}
	if dismissed.Status != constants.AlertStatusDismissed {
		t.Errorf("status = %q, want dismissed", dismissed.Status)
	}

	if _, err := svc.Acknowledge(9999); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("missing alert error = %v, want ErrAlertNotFound", err)
	}
}
