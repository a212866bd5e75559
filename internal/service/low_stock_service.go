package service

import (
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

// ScanResult summarizes one low-stock sweep.
type ScanResult struct {
	Scanned  int `json:"scanned"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Resolved int `json:"resolved"`
}

// LowStockService watches inventory levels and maintains alerts.
type LowStockService struct {
	alertRepo        repository.LowStockAlertRepository
	productRepo      repository.ProductRepository
	defaultThreshold int
}

// NewLowStockService creates the low-stock service.
func NewLowStockService(alertRepo repository.LowStockAlertRepository, productRepo repository.ProductRepository, defaultThreshold int) *LowStockService {
	if defaultThreshold <= 0 {
		defaultThreshold = constants.DefaultLowStockThreshold
	}
	return &LowStockService{
		alertRepo:        alertRepo,
		productRepo:      productRepo,
		defaultThreshold: defaultThreshold,
	}
}

// PriorityFor grades a stock level against its threshold.
func PriorityFor(stock, threshold int) string {
	switch {
	case stock == 0:
		return constants.AlertPriorityCritical
	case stock <= 1:
		return constants.AlertPriorityHigh
	case stock <= threshold/2:
		return constants.AlertPriorityMedium
	default:
		return constants.AlertPriorityLow
	}
}

// Scan walks the active catalog, raising, refreshing and resolving alerts.
// At most one non-resolved alert exists per product.
func (s *LowStockService) Scan() (*ScanResult, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	now := time.Now()
	for _, product := range products {
		result.Scanned++
		threshold := product.EffectiveLowStockThreshold(s.defaultThreshold)
		open, err := s.alertRepo.GetOpenByProduct(product.ID)
		if err != nil {
			return nil, err
		}

		if product.Stock > threshold {
			if open != nil {
				if err := s.alertRepo.ResolveByProduct(product.ID); err != nil {
					return nil, err
				}
				result.Resolved++
			}
			continue
		}

		priority := PriorityFor(product.Stock, threshold)
		if open == nil {
			alert := &models.LowStockAlert{
				ProductID:  product.ID,
				StockLevel: product.Stock,
				Threshold:  threshold,
				Priority:   priority,
				Status:     constants.AlertStatusActive,
				DetectedAt: now,
			}
			if err := s.alertRepo.Create(alert); err != nil {
				return nil, err
			}
			result.Created++
			continue
		}

		open.StockLevel = product.Stock
		open.Threshold = threshold
		open.Priority = priority
		open.DetectedAt = now
		if err := s.alertRepo.Update(open); err != nil {
			return nil, err
		}
		result.Updated++
	}

	logger.Infow("low_stock_scan_completed",
		"scanned", result.Scanned,
		"created", result.Created,
		"updated", result.Updated,
		"resolved", result.Resolved,
	)
	return result, nil
}

// ScanProduct re-checks a single product, used by the targeted queue task.
func (s *LowStockService) ScanProduct(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return nil
	}

	threshold := product.EffectiveLowStockThreshold(s.defaultThreshold)
	open, err := s.alertRepo.GetOpenByProduct(product.ID)
	if err != nil {
		return err
	}

	if product.Stock > threshold {
		if open != nil {
			return s.alertRepo.ResolveByProduct(product.ID)
		}
		return nil
	}

	priority := PriorityFor(product.Stock, threshold)
	if open == nil {
		return s.alertRepo.Create(&models.LowStockAlert{
			ProductID:  product.ID,
			StockLevel: product.Stock,
			Threshold:  threshold,
			Priority:   priority,
			Status:     constants.AlertStatusActive,
			DetectedAt: time.Now(),
		})
	}
	open.StockLevel = product.Stock
	open.Threshold = threshold
	open.Priority = priority
	open.DetectedAt = time.Now()
	return s.alertRepo.Update(open)
}

// List returns alerts for the admin console.
func (s *LowStockService) List(filter repository.AlertListFilter) ([]models.LowStockAlert, int64, error) {
	return s.alertRepo.List(filter)
}

// Acknowledge marks an active alert as seen.
func (s *LowStockService) Acknowledge(id uint) (*models.LowStockAlert, error) {
	return s.moveStatus(id, constants.AlertStatusAcknowledged, false)
}

// Dismiss closes an alert without restocking.
func (s *LowStockService) Dismiss(id uint) (*models.LowStockAlert, error) {
	return s.moveStatus(id, constants.AlertStatusDismissed, false)
}

// Resolve closes an alert manually.
func (s *LowStockService) Resolve(id uint) (*models.LowStockAlert, error) {
	return s.moveStatus(id, constants.AlertStatusResolved, true)
}

func (s *LowStockService) moveStatus(id uint, status string, stampResolved bool) (*models.LowStockAlert, error) {
	alert, err := s.alertRepo.GetByID(id)
	if err != nil {
		return nil, ErrAlertNotFound
	}
	updates := map[string]interface{}{"status": status}
	if stampResolved {
		updates["resolved_at"] = time.Now()
	}
	if err := s.alertRepo.UpdateStatus(alert.ID, updates); err != nil {
		return nil, err
	}
	return s.alertRepo.GetByID(id)
}

// CountOpen exposes the unresolved alert count for the dashboard.
func (s *LowStockService) CountOpen() (int64, error) {
	return s.alertRepo.CountOpen()
}
