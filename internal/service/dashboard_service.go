package service

import (
	"context"
	"time"

	"github.com/dollers-electro/internal/cache"
	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/repository"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardSummary is the admin console landing view.
type DashboardSummary struct {
	Products        int64 `json:"products"`
	Users           int64 `json:"users"`
	Orders          int64 `json:"orders"`
	PendingOrders   int64 `json:"pending_orders"`
	OpenAlerts      int64 `json:"open_alerts"`
	PendingReviews  int64 `json:"pending_reviews"`
	Subscribers     int64 `json:"subscribers"`
	DeliveredOrders int64 `json:"delivered_orders"`
}

// DashboardService aggregates counts for the admin console.
type DashboardService struct {
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	orderRepo      repository.OrderRepository
	alertRepo      repository.LowStockAlertRepository
	reviewRepo     repository.ReviewRepository
	newsletterRepo repository.NewsletterRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	alertRepo repository.LowStockAlertRepository,
	reviewRepo repository.ReviewRepository,
	newsletterRepo repository.NewsletterRepository,
) *DashboardService {
	return &DashboardService{
		productRepo:    productRepo,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		alertRepo:      alertRepo,
		reviewRepo:     reviewRepo,
		newsletterRepo: newsletterRepo,
	}
}

// Summary gathers the dashboard counters, served from a short-lived Redis
// cache when available.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	hit, cacheErr := cache.GetJSON(ctx, dashboardCacheKey, &cached)
	if cacheErr != nil {
		logger.Warnw("dashboard_cache_read_failed", "error", cacheErr)
	}
	if hit {
		return &cached, nil
	}

	summary := &DashboardSummary{}
	var err error

	if summary.Products, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if summary.Users, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if summary.Orders, err = s.orderRepo.CountByStatus(""); err != nil {
		return nil, err
	}
	if summary.PendingOrders, err = s.orderRepo.CountByStatus(constants.OrderStatusPending); err != nil {
		return nil, err
	}
	if summary.DeliveredOrders, err = s.orderRepo.CountByStatus(constants.OrderStatusDelivered); err != nil {
		return nil, err
	}
	if summary.OpenAlerts, err = s.alertRepo.CountOpen(); err != nil {
		return nil, err
	}
	if summary.Subscribers, err = s.newsletterRepo.CountByStatus(constants.NewsletterStatusSubscribed); err != nil {
		return nil, err
	}

	_, pendingReviews, err := s.reviewRepo.List(repository.ReviewListFilter{
		Page:     1,
		PageSize: 1,
		Status:   constants.ReviewStatusPending,
	})
	if err != nil {
		return nil, err
	}
	summary.PendingReviews = pendingReviews

	_ = cache.SetJSON(ctx, dashboardCacheKey, summary, dashboardCacheTTL)

	return summary, nil
}

// InvalidateCache drops the cached summary so the next read recomputes.
func (s *DashboardService) InvalidateCache(ctx context.Context) {
	if err := cache.Del(ctx, dashboardCacheKey); err != nil {
		logger.Warnw("dashboard_cache_invalidate_failed", "error", err)
	}
}
