package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

func newTestPromoService(t *testing.T, db *gorm.DB) *PromoService {
	t.Helper()
	return NewPromoService(
		repository.NewPromoCodeRepository(db),
		repository.NewPromoUsageRepository(db),
		repository.NewOrderRepository(db),
		newTestPricing(t),
	)
}

func TestValidateForOrderChecksEveryRestriction(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestPromoService(t, db)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	codes := []models.PromoCode{
		{Code: "INACTIVE", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, IsActive: false},
		{Code: "EXPIRED", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, ValidUntil: &past, IsActive: true},
		{Code: "NOTYET", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, ValidFrom: &future, IsActive: true},
		{Code: "USEDUP", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: 1, UsedCount: 1, IsActive: true},
		{Code: "BIGMIN", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, MinOrderAmount: money(t, "500"), IsActive: true},
		{Code: "VIPONLY", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, AllowedUserIDs: models.UintArray{77}, IsActive: true},
	}
	for i := range codes {
		if err := db.Create(&codes[i]).Error; err != nil {
			t.Fatalf("seed promo %s failed: %v", codes[i].Code, err)
		}
	}

	subtotal := money(t, "100")
	cases := []struct {
		code string
		want error
	}{
		{"MISSING", ErrPromoNotFound},
		{"INACTIVE", ErrPromoInactive},
		{"EXPIRED", ErrPromoExpired},
		{"NOTYET", ErrPromoNotStarted},
		{"USEDUP", ErrPromoUsageLimit},
		{"BIGMIN", ErrPromoMinAmount},
		{"VIPONLY", ErrPromoNotEligible},
	}
	for _, tc := range cases {
		_, err := svc.ValidateForOrder(tc.code, 1, subtotal)
		if !errors.Is(err, tc.want) {
			t.Fatalf("code %s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestValidateForOrderNewUsersOnly(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestPromoService(t, db)

	promo := models.PromoCode{Code: "WELCOME", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, NewUsersOnly: true, IsActive: true}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}
	order := models.Order{OrderNo: "DE0001", UserID: 9, Status: constants.OrderStatusDelivered}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	if _, err := svc.ValidateForOrder("WELCOME", 9, money(t, "50")); !errors.Is(err, ErrPromoNewUsersOnly) {
		t.Fatalf("expected ErrPromoNewUsersOnly for returning user, got %v", err)
	}
	if _, err := svc.ValidateForOrder("welcome", 10, money(t, "50")); err != nil {
		t.Fatalf("expected fresh user to pass (lowercase input), got %v", err)
	}
}

func TestValidateForOrderPerUserLimit(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestPromoService(t, db)

	promo := models.PromoCode{Code: "ONCE", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, PerUserLimit: 1, IsActive: true}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}
	usage := models.PromoCodeUsage{PromoCodeID: promo.ID, UserID: 3, OrderID: 1, DiscountAmount: money(t, "5")}
	if err := db.Create(&usage).Error; err != nil {
		t.Fatalf("seed usage failed: %v", err)
	}

	if _, err := svc.ValidateForOrder("ONCE", 3, money(t, "50")); !errors.Is(err, ErrPromoPerUserLimit) {
		t.Fatalf("expected ErrPromoPerUserLimit, got %v", err)
	}
	if _, err := svc.ValidateForOrder("ONCE", 4, money(t, "50")); err != nil {
		t.Fatalf("expected other user to pass, got %v", err)
	}
}

func TestPromoCreateValidatesRules(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestPromoService(t, db)

	bad := []models.PromoCode{
		{Code: "P0", Type: constants.PromoTypePercentage, Value: money(t, "0")},
		{Code: "P200", Type: constants.PromoTypePercentage, Value: money(t, "200")},
		{Code: "F0", Type: constants.PromoTypeFixed, Value: money(t, "0")},
		{Code: "WHAT", Type: "mystery", Value: money(t, "5")},
	}
	for i := range bad {
		if err := svc.Create(&bad[i]); !errors.Is(err, ErrPromoRuleInvalid) {
			t.Fatalf("code %s: expected ErrPromoRuleInvalid, got %v", bad[i].Code, err)
		}
	}

	from := time.Now().Add(time.Hour)
	until := time.Now()
	inverted := models.PromoCode{Code: "WINDOW", Type: constants.PromoTypeFreeShipping, ValidFrom: &from, ValidUntil: &until}
	if err := svc.Create(&inverted); !errors.Is(err, ErrPromoRuleInvalid) {
		t.Fatalf("expected ErrPromoRuleInvalid for inverted window, got %v", err)
	}

	good := models.PromoCode{Code: "ship4free", Type: constants.PromoTypeFreeShipping, UsageLimit: -1, IsActive: true}
	if err := svc.Create(&good); err != nil {
		t.Fatalf("create valid promo failed: %v", err)
	}
	if good.Code != "SHIP4FREE" {
		t.Fatalf("expected stored code uppercased, got %s", good.Code)
	}

	dup := models.PromoCode{Code: "SHIP4FREE", Type: constants.PromoTypeFreeShipping}
	if err := svc.Create(&dup); !errors.Is(err, ErrPromoCodeExists) {
		t.Fatalf("expected ErrPromoCodeExists, got %v", err)
	}
}

func TestPromoRedeemAndReleaseHonorGlobalLimit(t *testing.T) {
	db := newServiceTestDB(t)
	repo := repository.NewPromoCodeRepository(db)

	promo := models.PromoCode{Code: "LIMITED", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: 1, IsActive: true}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}

	affected, err := repo.Redeem(promo.ID)
	if err != nil || affected != 1 {
		t.Fatalf("first redeem: affected=%d err=%v", affected, err)
	}
	affected, err = repo.Redeem(promo.ID)
	if err != nil {
		t.Fatalf("second redeem errored: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected second redeem blocked, affected=%d", affected)
	}

	affected, err = repo.Release(promo.ID)
	if err != nil || affected != 1 {
		t.Fatalf("release: affected=%d err=%v", affected, err)
	}
	affected, err = repo.Redeem(promo.ID)
	if err != nil || affected != 1 {
		t.Fatalf("redeem after release: affected=%d err=%v", affected, err)
	}
}

func TestConcurrentRedeemStopsAtUsageLimit(t *testing.T) {
	db := newServiceTestDB(t)
	repo := repository.NewPromoCodeRepository(db)

	promo := models.PromoCode{Code: "LASTONE", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: 1, IsActive: true}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}

	const workers = 8
	affected := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.Redeem(promo.ID)
			if err != nil {
				t.Errorf("Redeem() error = %v", err)
				affected <- 0
				return
			}
			affected <- n
		}()
	}
	wg.Wait()
	close(affected)

	var redeemed int64
	for n := range affected {
		redeemed += n
	}
	if redeemed != 1 {
		t.Errorf("redemptions = %d, want 1", redeemed)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Errorf("used_count = %d, want 1", reloaded.UsedCount)
	}
}

func TestCreateWithinUserLimitRollsBackOverage(t *testing.T) {
	db := newServiceTestDB(t)
	usageRepo := repository.NewPromoUsageRepository(db)

	promo := models.PromoCode{Code: "ONEPER", Type: constants.PromoTypeFixed, Value: money(t, "5"), UsageLimit: -1, PerUserLimit: 1, IsActive: true}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}

	record := func(orderID uint) error {
		return db.Transaction(func(tx *gorm.DB) error {
			usage := &models.PromoCodeUsage{PromoCodeID: promo.ID, UserID: 3, OrderID: orderID, DiscountAmount: money(t, "5")}
			ok, err := usageRepo.WithTx(tx).CreateWithinUserLimit(usage, promo.PerUserLimit)
			if err != nil {
				return err
			}
			if !ok {
				return ErrPromoPerUserLimit
			}
			return nil
		})
	}

	if err := record(1); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if err := record(2); !errors.Is(err, ErrPromoPerUserLimit) {
		t.Fatalf("expected ErrPromoPerUserLimit, got %v", err)
	}

	count, err := usageRepo.CountByUser(promo.ID, 3)
	if err != nil {
		t.Fatalf("count usages: %v", err)
	}
	if count != 1 {
		t.Errorf("usage rows = %d, want 1 after rollback", count)
	}
}
