package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	pricing := newTestPricing(t)
	promoSvc := newTestPromoService(t, db)
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewPromoCodeRepository(db),
		repository.NewPromoUsageRepository(db),
		promoSvc,
		pricing,
		nil,
		30,
	)
}

func seedOrderProduct(t *testing.T, db *gorm.DB, sku string, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		SKU:        sku,
		CategoryID: 1,
		Name:       "Product " + sku,
		Price:      money(t, price),
		Stock:      stock,
		IsActive:   true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int) *models.Cart {
	t.Helper()
	cart := &models.Cart{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	for productID, qty := range lines {
		item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty, AddedAt: time.Now()}
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("seed cart item: %v", err)
		}
	}
	return cart
}

func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, productID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return p.Stock
}

func TestCheckoutCreatesOrderWithSnapshotAndDecrementsStock(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-1", "10.00", 5)
	seedCart(t, db, 1, map[uint]int{product.ID: 2})

	order, err := svc.Checkout(CheckoutInput{
		UserID:         1,
		PaymentMethod:  constants.PaymentMethodCard,
		DeliveryMethod: constants.DeliveryMethodHome,
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if order.Status != constants.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if !strings.HasPrefix(order.OrderNo, constants.OrderNoPrefix) {
		t.Errorf("order no %q missing prefix %q", order.OrderNo, constants.OrderNoPrefix)
	}
	if order.ExpiresAt == nil || !order.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at = %v, want future deadline", order.ExpiresAt)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if item.Name != product.Name || item.SKU != product.SKU {
		t.Errorf("snapshot = (%q, %q), want (%q, %q)", item.Name, item.SKU, product.Name, product.SKU)
	}
	if !item.UnitPrice.Decimal.Equal(product.Price.Decimal) {
		t.Errorf("unit price = %s, want %s", item.UnitPrice, product.Price)
	}
	// 20.00 subtotal, 10% tax, 5.00 home delivery.
	if got := order.Total.Decimal.StringFixed(2); got != "27.00" {
		t.Errorf("total = %s, want 27.00", got)
	}

	if stock := productStock(t, db, product.ID); stock != 3 {
		t.Errorf("stock after checkout = %d, want 3", stock)
	}

	cart, err := repository.NewCartRepository(db).GetByUser(1, false)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if cart != nil {
		t.Errorf("cart still present after checkout")
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	cheap := seedOrderProduct(t, db, "ORD-OK", "5.00", 10)
	scarce := seedOrderProduct(t, db, "ORD-LOW", "8.00", 1)
	seedCart(t, db, 2, map[uint]int{cheap.ID: 2, scarce.ID: 3})

	_, err := svc.Checkout(CheckoutInput{UserID: 2, PaymentMethod: constants.PaymentMethodCard})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Checkout() error = %v, want ErrInsufficientStock", err)
	}

	if stock := productStock(t, db, cheap.ID); stock != 10 {
		t.Errorf("stock of in-stock product = %d, want 10 after rollback", stock)
	}
	if stock := productStock(t, db, scarce.ID); stock != 1 {
		t.Errorf("stock of scarce product = %d, want 1 after rollback", stock)
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Errorf("orders created = %d, want 0", count)
	}
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	_, err := svc.Checkout(CheckoutInput{UserID: 3, PaymentMethod: "gold_bars"})
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("unknown payment method error = %v, want ErrInvalidPaymentMethod", err)
	}

	_, err = svc.Checkout(CheckoutInput{UserID: 3, PaymentMethod: constants.PaymentMethodCard})
	if !errors.Is(err, ErrCartEmpty) {
		t.Errorf("empty cart error = %v, want ErrCartEmpty", err)
	}
}

func TestCheckoutWithPromoRedeemsAndRecordsUsage(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-PROMO", "40.00", 5)
	seedCart(t, db, 4, map[uint]int{product.ID: 1})

	promo := &models.PromoCode{
		Code:         "TENOFF",
		Type:         constants.PromoTypeFixed,
		Value:        money(t, "10.00"),
		IsActive:     true,
		UsageLimit:   1,
		PerUserLimit: 1,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}

	order, err := svc.Checkout(CheckoutInput{
		UserID:         4,
		PaymentMethod:  constants.PaymentMethodCard,
		DeliveryMethod: constants.DeliveryMethodPickup,
		PromoCode:      "tenoff",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if order.PromoCode != "TENOFF" || order.PromoCodeID == nil {
		t.Errorf("promo snapshot = (%q, %v), want TENOFF with id", order.PromoCode, order.PromoCodeID)
	}
	if got := order.Discount.Decimal.StringFixed(2); got != "10.00" {
		t.Errorf("discount = %s, want 10.00", got)
	}
	// 40 subtotal, 10 off, 10% tax on 30, pickup free.
	if got := order.Total.Decimal.StringFixed(2); got != "33.00" {
		t.Errorf("total = %s, want 33.00", got)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Errorf("used count = %d, want 1", reloaded.UsedCount)
	}
	var usages int64
	if err := db.Model(&models.PromoCodeUsage{}).Where("order_id = ?", order.ID).Count(&usages).Error; err != nil {
		t.Fatalf("count usages: %v", err)
	}
	if usages != 1 {
		t.Errorf("usage rows = %d, want 1", usages)
	}
}

func TestApplyEventWalksTheHappyPath(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-LIFE", "15.00", 4)
	seedCart(t, db, 5, map[uint]int{product.ID: 1})
	order, err := svc.Checkout(CheckoutInput{UserID: 5, PaymentMethod: constants.PaymentMethodCard})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	order, err = svc.ApplyEvent(order.ID, constants.OrderEventPaymentCompleted, EventOptions{TransactionID: "txn-123"})
	if err != nil {
		t.Fatalf("payment_completed: %v", err)
	}
	if order.Status != constants.OrderStatusConfirmed {
		t.Errorf("status = %q, want confirmed", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusCompleted || order.PaidAt == nil {
		t.Errorf("payment = (%q, %v), want completed with paid_at", order.PaymentStatus, order.PaidAt)
	}
	if order.ExpiresAt != nil {
		t.Errorf("expires_at still set after payment")
	}
	if order.PaymentTransactionID != "txn-123" {
		t.Errorf("transaction id = %q, want txn-123", order.PaymentTransactionID)
	}

	order, err = svc.ApplyEvent(order.ID, constants.OrderEventStartProcessing, EventOptions{})
	if err != nil {
		t.Fatalf("start_processing: %v", err)
	}
	if order.Status != constants.OrderStatusProcessing {
		t.Errorf("status = %q, want processing", order.Status)
	}

	order, err = svc.ApplyEvent(order.ID, constants.OrderEventShip, EventOptions{TrackingNumber: "TRK-9"})
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if order.Status != constants.OrderStatusShipped || order.TrackingNumber != "TRK-9" {
		t.Errorf("after ship = (%q, %q), want (shipped, TRK-9)", order.Status, order.TrackingNumber)
	}

	order, err = svc.ApplyEvent(order.ID, constants.OrderEventDeliver, EventOptions{})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if order.Status != constants.OrderStatusDelivered || order.DeliveredAt == nil {
		t.Errorf("after deliver = (%q, %v), want delivered with timestamp", order.Status, order.DeliveredAt)
	}
}

func TestApplyEventPaymentFailedKeepsOrderPending(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-FAIL", "9.00", 2)
	seedCart(t, db, 6, map[uint]int{product.ID: 1})
	order, err := svc.Checkout(CheckoutInput{UserID: 6, PaymentMethod: constants.PaymentMethodCard})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	order, err = svc.ApplyEvent(order.ID, constants.OrderEventPaymentFailed, EventOptions{})
	if err != nil {
		t.Fatalf("payment_failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Errorf("status = %q, want pending so the customer can retry", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusFailed {
		t.Errorf("payment status = %q, want failed", order.PaymentStatus)
	}

	// Retry still works from the same order.
	if _, err := svc.ApplyEvent(order.ID, constants.OrderEventPaymentCompleted, EventOptions{}); err != nil {
		t.Fatalf("retry payment_completed: %v", err)
	}
}

func TestApplyEventRejectsUnknownAndOutOfOrderEvents(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-BAD", "9.00", 2)
	seedCart(t, db, 7, map[uint]int{product.ID: 1})
	order, err := svc.Checkout(CheckoutInput{UserID: 7, PaymentMethod: constants.PaymentMethodCard})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if _, err := svc.ApplyEvent(order.ID, "teleport", EventOptions{}); !errors.Is(err, ErrInvalidOrderEvent) {
		t.Errorf("unknown event error = %v, want ErrInvalidOrderEvent", err)
	}
	if _, err := svc.ApplyEvent(order.ID, constants.OrderEventShip, EventOptions{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ship from pending error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.ApplyEvent(9999, constants.OrderEventCancel, EventOptions{}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("missing order error = %v, want ErrOrderNotFound", err)
	}
}

func TestCancelRestoresStockAndReleasesPromo(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-CXL", "50.00", 5)
	seedCart(t, db, 8, map[uint]int{product.ID: 2})
	promo := &models.PromoCode{
		Code:       "CXL5",
		Type:       constants.PromoTypeFixed,
		Value:      money(t, "5.00"),
		IsActive:   true,
		UsageLimit: 10,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}

	order, err := svc.Checkout(CheckoutInput{
		UserID:        8,
		PaymentMethod: constants.PaymentMethodCard,
		PromoCode:     "CXL5",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if stock := productStock(t, db, product.ID); stock != 3 {
		t.Fatalf("stock after checkout = %d, want 3", stock)
	}

	cancelled, err := svc.CancelByUser(order.ID, 8)
	if err != nil {
		t.Fatalf("CancelByUser() error = %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Errorf("after cancel = (%q, %v), want cancelled with timestamp", cancelled.Status, cancelled.CancelledAt)
	}

	if stock := productStock(t, db, product.ID); stock != 5 {
		t.Errorf("stock after cancel = %d, want 5", stock)
	}
	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Errorf("used count after release = %d, want 0", reloaded.UsedCount)
	}
	var usages int64
	if err := db.Model(&models.PromoCodeUsage{}).Where("order_id = ?", order.ID).Count(&usages).Error; err != nil {
		t.Fatalf("count usages: %v", err)
	}
	if usages != 0 {
		t.Errorf("usage rows after cancel = %d, want 0", usages)
	}
}

func TestRefundRestocksButKeepsPromoRedemption(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-RFD", "20.00", 6)
	seedCart(t, db, 9, map[uint]int{product.ID: 3})
	promo := &models.PromoCode{
		Code:       "RFD5",
		Type:       constants.PromoTypeFixed,
		Value:      money(t, "5.00"),
		IsActive:   true,
		UsageLimit: 10,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}

	order, err := svc.Checkout(CheckoutInput{UserID: 9, PaymentMethod: constants.PaymentMethodCard, PromoCode: "RFD5"})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if _, err := svc.ApplyEvent(order.ID, constants.OrderEventPaymentCompleted, EventOptions{}); err != nil {
		t.Fatalf("payment_completed: %v", err)
	}

	refunded, err := svc.ApplyEvent(order.ID, constants.OrderEventRefund, EventOptions{})
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != constants.OrderStatusRefunded || refunded.PaymentStatus != constants.PaymentStatusRefunded {
		t.Errorf("after refund = (%q, %q), want (refunded, refunded)", refunded.Status, refunded.PaymentStatus)
	}
	if stock := productStock(t, db, product.ID); stock != 6 {
		t.Errorf("stock after refund = %d, want 6", stock)
	}

	// A completed payment keeps its redemption record, refund or not.
	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Errorf("used count after refund = %d, want 1", reloaded.UsedCount)
	}
}

func TestCancelByUserOnlyWhilePending(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-NOCXL", "9.00", 2)
	seedCart(t, db, 10, map[uint]int{product.ID: 1})
	order, err := svc.Checkout(CheckoutInput{UserID: 10, PaymentMethod: constants.PaymentMethodCard})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if _, err := svc.ApplyEvent(order.ID, constants.OrderEventPaymentCompleted, EventOptions{}); err != nil {
		t.Fatalf("payment_completed: %v", err)
	}

	if _, err := svc.CancelByUser(order.ID, 10); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after payment error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.CancelByUser(order.ID, 99); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("cancel as stranger error = %v, want ErrOrderNotFound", err)
	}
}

func TestCancelExpired(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "ORD-EXP", "9.00", 4)
	seedCart(t, db, 11, map[uint]int{product.ID: 1})
	order, err := svc.Checkout(CheckoutInput{UserID: 11, PaymentMethod: constants.PaymentMethodCard})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	// Deadline still in the future: nothing happens.
	if err := svc.CancelExpired(order.ID); err != nil {
		t.Fatalf("CancelExpired() before deadline: %v", err)
	}
	fresh, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fresh.Status != constants.OrderStatusPending {
		t.Errorf("status = %q, want pending before deadline", fresh.Status)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate order: %v", err)
	}
	if err := svc.CancelExpired(order.ID); err != nil {
		t.Fatalf("CancelExpired() past deadline: %v", err)
	}
	fresh, err = svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fresh.Status != constants.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled past deadline", fresh.Status)
	}
	if stock := productStock(t, db, product.ID); stock != 4 {
		t.Errorf("stock after timeout cancel = %d, want 4", stock)
	}

	// Already cancelled and missing orders are both no-ops.
	if err := svc.CancelExpired(order.ID); err != nil {
		t.Fatalf("CancelExpired() on cancelled order: %v", err)
	}
	if err := svc.CancelExpired(4242); err != nil {
		t.Fatalf("CancelExpired() on missing order: %v", err)
	}
}

func TestConcurrentCancelsRestockExactlyOnce(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestOrderService(t, db)

	product := seedOrderProduct(t, db, "RACE-1", "10.00", 5)
	seedCart(t, db, 1, map[uint]int{product.ID: 3})

	order, err := svc.Checkout(CheckoutInput{
		UserID:         1,
		PaymentMethod:  constants.PaymentMethodCard,
		DeliveryMethod: constants.DeliveryMethodHome,
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if stock := productStock(t, db, product.ID); stock != 2 {
		t.Fatalf("stock after checkout = %d, want 2", stock)
	}

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyEvent(order.ID, constants.OrderEventCancel, EventOptions{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	applied := 0
	for err := range results {
		switch {
		case err == nil:
			applied++
		case errors.Is(err, ErrInvalidTransition):
		default:
			t.Fatalf("unexpected cancel error: %v", err)
		}
	}
	if applied != 1 {
		t.Errorf("cancels applied = %d, want 1", applied)
	}

	if stock := productStock(t, db, product.ID); stock != 5 {
		t.Errorf("stock after concurrent cancels = %d, want 5", stock)
	}
	reloaded, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", reloaded.Status)
	}
}
