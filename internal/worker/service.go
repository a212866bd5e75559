package worker

import (
	"context"
	"errors"
	"time"

	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultCartSweepInterval = 30 * time.Minute
	defaultStockScanInterval = 15 * time.Minute
)

// Service runs the asynq worker plus the periodic maintenance loops.
type Service struct {
	name              string
	server            *asynq.Server
	mux               *asynq.ServeMux
	consumer          *Consumer
	cartSweepInterval time.Duration
	stockScanInterval time.Duration
}

// NewService creates the queue worker service.
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	cartSweep := defaultCartSweepInterval
	if cfg.Cart.SweepIntervalMinutes > 0 {
		cartSweep = time.Duration(cfg.Cart.SweepIntervalMinutes) * time.Minute
	}
	stockScan := defaultStockScanInterval
	if cfg.Alerts.ScanIntervalMinutes > 0 {
		stockScan = time.Duration(cfg.Alerts.ScanIntervalMinutes) * time.Minute
	}

	return &Service{
		name:              "worker",
		server:            server,
		mux:               mux,
		consumer:          consumer,
		cartSweepInterval: cartSweep,
		stockScanInterval: stockScan,
	}, nil
}

// Name identifies the service in startup logs.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start blocks running the asynq server and the maintenance loops.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartService != nil {
		go s.runCartSweepLoop(ctx)
	}
	if s.consumer != nil && s.consumer.LowStockService != nil {
		go s.runStockScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the asynq server down, draining in-flight tasks.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) runCartSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.CartService == nil {
		return
	}
	runOnce := func() {
		removed, err := s.consumer.CartService.SweepExpired()
		if err != nil {
			logger.Warnw("worker_cart_sweep_failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("worker_cart_sweep_done", "removed", removed)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.cartSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) runStockScanLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.LowStockService == nil {
		return
	}
	runOnce := func() {
		result, err := s.consumer.LowStockService.Scan()
		if err != nil {
			logger.Warnw("worker_stock_scan_failed", "error", err)
			return
		}
		if result != nil && (result.Created > 0 || result.Updated > 0 || result.Resolved > 0) {
			logger.Infow("worker_stock_scan_done",
				"scanned", result.Scanned,
				"created", result.Created,
				"updated", result.Updated,
				"resolved", result.Resolved,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.stockScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
