package service

import (
	"strings"

	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/models"

	"github.com/shopspring/decimal"
)

// Quote is a fully priced order breakdown. All paths that put a price in
// front of a customer (cart summary, order preview, checkout) go through
// ComputeQuote so the numbers can never drift apart.
type Quote struct {
	Subtotal models.Money `json:"subtotal"`
	Discount models.Money `json:"discount"`
	Tax      models.Money `json:"tax"`
	Shipping models.Money `json:"shipping"`
	Total    models.Money `json:"total"`
}

// PricingService derives order totals from config-backed rates.
type PricingService struct {
	taxRate      decimal.Decimal
	shippingFees map[string]decimal.Decimal
}

// NewPricingService parses the configured rates, falling back to defaults on
// malformed values.
func NewPricingService(cfg *config.OrderConfig) *PricingService {
	taxRate := mustDecimal(constants.DefaultTaxRate)
	fees := map[string]decimal.Decimal{
		constants.DeliveryMethodExpress: mustDecimal(constants.DefaultShippingExpress),
		constants.DeliveryMethodHome:    mustDecimal(constants.DefaultShippingHome),
		constants.DeliveryMethodPickup:  decimal.Zero,
	}
	if cfg != nil {
		if parsed, err := decimal.NewFromString(strings.TrimSpace(cfg.TaxRate)); err == nil && !parsed.IsNegative() {
			taxRate = parsed
		}
		for method, raw := range cfg.ShippingFees {
			parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil || parsed.IsNegative() {
				continue
			}
			fees[strings.TrimSpace(method)] = parsed
		}
	}
	return &PricingService{taxRate: taxRate, shippingFees: fees}
}

// CalculatePromoDiscount returns the discount a promo grants on a subtotal.
// Free-shipping codes discount nothing here; they zero the shipping line in
// ComputeQuote instead.
func (s *PricingService) CalculatePromoDiscount(promo *models.PromoCode, subtotal models.Money) models.Money {
	if promo == nil {
		return models.Money{Decimal: decimal.Zero}
	}
	switch promo.Type {
	case constants.PromoTypePercentage:
		discount := subtotal.Decimal.Mul(promo.Value.Decimal).Div(decimal.NewFromInt(100)).Round(2)
		if promo.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(promo.MaxDiscount.Decimal) {
			discount = promo.MaxDiscount.Decimal
		}
		if discount.GreaterThan(subtotal.Decimal) {
			discount = subtotal.Decimal
		}
		return models.NewMoneyFromDecimal(discount)
	case constants.PromoTypeFixed:
		discount := promo.Value.Decimal
		if discount.GreaterThan(subtotal.Decimal) {
			discount = subtotal.Decimal
		}
		return models.NewMoneyFromDecimal(discount)
	default:
		return models.Money{Decimal: decimal.Zero}
	}
}

// ShippingFee returns the fee for a delivery method, or an error for methods
// the store does not offer.
func (s *PricingService) ShippingFee(deliveryMethod string) (models.Money, error) {
	fee, ok := s.shippingFees[deliveryMethod]
	if !ok {
		return models.Money{}, ErrInvalidDeliveryMethod
	}
	return models.NewMoneyFromDecimal(fee), nil
}

// ComputeQuote prices an order. Tax applies to the pre-discount subtotal and
// the total is floored at zero.
func (s *PricingService) ComputeQuote(subtotal models.Money, promo *models.PromoCode, deliveryMethod string) (Quote, error) {
	shipping, err := s.ShippingFee(deliveryMethod)
	if err != nil {
		return Quote{}, err
	}

	discount := s.CalculatePromoDiscount(promo, subtotal)
	if promo != nil && promo.Type == constants.PromoTypeFreeShipping {
		shipping = models.NewMoneyFromDecimal(decimal.Zero)
	}

	tax := subtotal.Decimal.Mul(s.taxRate).Round(2)
	total := subtotal.Decimal.Sub(discount.Decimal).Add(tax).Add(shipping.Decimal)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      models.NewMoneyFromDecimal(tax),
		Shipping: shipping,
		Total:    models.NewMoneyFromDecimal(total),
	}, nil
}

func mustDecimal(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
