package queue

import (
	"encoding/json"

	"github.com/dollers-electro/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail notifies the customer about an order event.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderTimeoutCancel cancels an order that was never paid.
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskLowStockScan re-checks stock levels against thresholds.
	TaskLowStockScan = constants.TaskLowStockScan
)

// OrderStatusEmailPayload carries the order and the event that moved it.
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Event   string `json:"event"`
}

// OrderTimeoutCancelPayload identifies the order to auto-cancel.
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// LowStockScanPayload optionally narrows the scan to one product.
type LowStockScanPayload struct {
	ProductID uint `json:"product_id,omitempty"`
}

// NewOrderStatusEmailTask builds the email notification task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewOrderTimeoutCancelTask builds the timeout cancel task.
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewLowStockScanTask builds the stock scan task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body), nil
}
