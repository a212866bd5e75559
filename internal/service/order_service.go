package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/queue"
	"github.com/dollers-electro/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput is everything needed to turn a cart into an order.
type CheckoutInput struct {
	UserID          uint
	PaymentMethod   string
	DeliveryMethod  string
	PromoCode       string
	ShippingAddress models.JSON
	ClientIP        string
}

// OrderService assembles orders and drives their status lifecycle.
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cartRepo      repository.CartRepository
	promoRepo     repository.PromoCodeRepository
	usageRepo     repository.PromoUsageRepository
	promoSvc      *PromoService
	pricing       *PricingService
	queueClient   *queue.Client
	expireMinutes int
}

// NewOrderService creates the order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	promoRepo repository.PromoCodeRepository,
	usageRepo repository.PromoUsageRepository,
	promoSvc *PromoService,
	pricing *PricingService,
	queueClient *queue.Client,
	expireMinutes int,
) *OrderService {
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		promoRepo:     promoRepo,
		usageRepo:     usageRepo,
		promoSvc:      promoSvc,
		pricing:       pricing,
		queueClient:   queueClient,
		expireMinutes: expireMinutes,
	}
}

func validPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCard, constants.PaymentMethodCashOnDelivery, constants.PaymentMethodWallet:
		return true
	}
	return false
}

// Preview prices the current cart without committing anything.
func (s *OrderService) Preview(userID uint, deliveryMethod, promoCode string) (*Quote, error) {
	cart, err := s.cartRepo.GetByUser(userID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if deliveryMethod == "" {
		deliveryMethod = constants.DeliveryMethodHome
	}

	subtotal := cartSubtotal(cart.Items)

	var promo *models.PromoCode
	code := strings.TrimSpace(promoCode)
	if code == "" {
		code = cart.PromoCode
	}
	if code != "" {
		promo, err = s.promoSvc.ValidateForOrder(code, userID, subtotal)
		if err != nil {
			return nil, err
		}
	}

	quote, err := s.pricing.ComputeQuote(subtotal, promo, deliveryMethod)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Checkout converts the user's cart into a pending order. Stock decrements,
// promo redemption, usage recording and the order insert all commit or roll
// back together.
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if !validPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if input.DeliveryMethod == "" {
		input.DeliveryMethod = constants.DeliveryMethodHome
	}

	cart, err := s.cartRepo.GetByUser(input.UserID, true)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	subtotal := decimal.Zero
	for _, line := range cart.Items {
		product := line.Product
		if product == nil || !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Image:     product.FirstImage(),
			Variant:   line.Variant,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
		})
	}
	subtotalMoney := models.NewMoneyFromDecimal(subtotal)

	var promo *models.PromoCode
	code := strings.TrimSpace(input.PromoCode)
	if code == "" {
		code = cart.PromoCode
	}
	if code != "" {
		promo, err = s.promoSvc.ValidateForOrder(code, input.UserID, subtotalMoney)
		if err != nil {
			return nil, err
		}
	}

	quote, err := s.pricing.ComputeQuote(subtotalMoney, promo, input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)
	order := &models.Order{
		UserID:          input.UserID,
		Status:          constants.OrderStatusPending,
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Tax:             quote.Tax,
		Shipping:        quote.Shipping,
		Total:           quote.Total,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   constants.PaymentStatusPending,
		DeliveryMethod:  input.DeliveryMethod,
		DeliveryStatus:  constants.DeliveryStatusPending,
		ShippingAddress: input.ShippingAddress,
		ClientIP:        input.ClientIP,
		ExpiresAt:       &expiresAt,
		Items:           items,
	}
	if promo != nil {
		order.PromoCodeID = &promo.ID
		order.PromoCode = promo.Code
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		for _, item := range order.Items {
			affected, err := productRepo.AdjustStock(item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		if promo != nil {
			affected, err := s.promoRepo.WithTx(tx).Redeem(promo.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrPromoUsageLimit
			}
		}

		orderNo, err := s.generateOrderNo(orderRepo)
		if err != nil {
			return err
		}
		order.OrderNo = orderNo
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		if promo != nil {
			usage := &models.PromoCodeUsage{
				PromoCodeID:    promo.ID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: quote.Discount,
			}
			usageRepo := s.usageRepo.WithTx(tx)
			if promo.PerUserLimit > 0 {
				ok, err := usageRepo.CreateWithinUserLimit(usage, promo.PerUserLimit)
				if err != nil {
					return err
				}
				if !ok {
					return ErrPromoPerUserLimit
				}
			} else if err := usageRepo.Create(usage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrPromoUsageLimit) || errors.Is(err, ErrPromoPerUserLimit) {
			return nil, err
		}
		logger.Errorw("order_checkout_failed", "user_id", input.UserID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	if err := s.cartRepo.DeleteByUser(input.UserID); err != nil {
		logger.Warnw("order_cart_clear_failed", "user_id", input.UserID, "error", err)
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID},
			time.Until(expiresAt)); err != nil {
			logger.Errorw("order_enqueue_timeout_cancel_failed", "order_id", order.ID, "error", err)
		}
		if err := s.queueClient.EnqueueLowStockScan(queue.LowStockScanPayload{}); err != nil {
			logger.Warnw("order_enqueue_low_stock_scan_failed", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

// GetForUser fetches an order scoped to its owner.
func (s *OrderService) GetForUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetByID fetches an order for the admin console.
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListForUser returns a user's orders.
func (s *OrderService) ListForUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(userID, page, pageSize)
}

// List returns orders for the admin console.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// CancelByUser lets a customer cancel their own order while it is pending.
func (s *OrderService) CancelByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.GetForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrInvalidTransition
	}
	return s.ApplyEvent(order.ID, constants.OrderEventCancel, EventOptions{})
}

// CancelExpired applies the cancel event to an unpaid order past its
// deadline, invoked from the timeout task.
func (s *OrderService) CancelExpired(orderID uint) error {
	order, err := s.GetByID(orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil
		}
		return err
	}
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if order.ExpiresAt != nil && order.ExpiresAt.After(time.Now()) {
		return nil
	}
	_, err = s.ApplyEvent(order.ID, constants.OrderEventCancel, EventOptions{})
	if errors.Is(err, ErrInvalidTransition) {
		return nil
	}
	return err
}

// generateOrderNo builds DE<yymmdd><random digits>, retrying on the rare
// collision before giving up.
func (s *OrderService) generateOrderNo(orderRepo repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < constants.OrderNoMaxGenerateRetries; attempt++ {
		candidate := fmt.Sprintf("%s%s%s",
			constants.OrderNoPrefix,
			time.Now().Format("060102"),
			randNumeric(10))
		existing, err := orderRepo.GetByOrderNo(candidate)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if existing == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
	}
	return "", ErrOrderCreateFailed
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}

func cartSubtotal(items []models.CartItem) models.Money {
	sum := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		sum = sum.Add(item.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return models.NewMoneyFromDecimal(sum)
}
