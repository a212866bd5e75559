package service

import (
	"time"

	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/queue"

	"gorm.io/gorm"
)

// EventOptions carries event-specific details.
type EventOptions struct {
	TransactionID  string
	TrackingNumber string
}

// eventTransitions maps each event to the statuses it may fire from.
// payment_failed is absent: it records the failed attempt without moving the
// order, so the customer can retry while the payment window is open.
var eventTransitions = map[string]map[string]bool{
	constants.OrderEventPaymentCompleted: {constants.OrderStatusPending: true},
	constants.OrderEventStartProcessing:  {constants.OrderStatusConfirmed: true},
	constants.OrderEventShip:             {constants.OrderStatusProcessing: true},
	constants.OrderEventDeliver:          {constants.OrderStatusShipped: true},
	constants.OrderEventCancel: {
		constants.OrderStatusPending:   true,
		constants.OrderStatusConfirmed: true,
	},
	constants.OrderEventRefund: {
		constants.OrderStatusConfirmed:  true,
		constants.OrderStatusProcessing: true,
		constants.OrderStatusDelivered:  true,
	},
}

// ApplyEvent is the single transition point for order status. Events that
// return stock or release a promo redemption do so in the same transaction
// as the status change.
func (s *OrderService) ApplyEvent(orderID uint, event string, opts EventOptions) (*models.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if event == constants.OrderEventPaymentFailed {
		if order.Status != constants.OrderStatusPending {
			return nil, ErrInvalidTransition
		}
		updates := map[string]interface{}{"payment_status": constants.PaymentStatusFailed}
		affected, err := s.orderRepo.UpdateFieldsIfStatus(order.ID, constants.OrderStatusPending, updates)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrInvalidTransition
		}
		return s.GetByID(order.ID)
	}

	allowed, known := eventTransitions[event]
	if !known {
		return nil, ErrInvalidOrderEvent
	}
	if !allowed[order.Status] {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]interface{}{}
	restock := false
	releasePromo := false

	switch event {
	case constants.OrderEventPaymentCompleted:
		updates["status"] = constants.OrderStatusConfirmed
		updates["payment_status"] = constants.PaymentStatusCompleted
		updates["paid_at"] = now
		updates["expires_at"] = nil
		if opts.TransactionID != "" {
			updates["payment_transaction_id"] = opts.TransactionID
		}
	case constants.OrderEventStartProcessing:
		updates["status"] = constants.OrderStatusProcessing
	case constants.OrderEventShip:
		updates["status"] = constants.OrderStatusShipped
		updates["delivery_status"] = constants.DeliveryStatusShipped
		if opts.TrackingNumber != "" {
			updates["tracking_number"] = opts.TrackingNumber
		}
	case constants.OrderEventDeliver:
		updates["status"] = constants.OrderStatusDelivered
		updates["delivery_status"] = constants.DeliveryStatusDelivered
		updates["delivered_at"] = now
	case constants.OrderEventCancel:
		updates["status"] = constants.OrderStatusCancelled
		updates["cancelled_at"] = now
		restock = true
		releasePromo = order.PaymentStatus != constants.PaymentStatusCompleted
	case constants.OrderEventRefund:
		updates["status"] = constants.OrderStatusRefunded
		updates["payment_status"] = constants.PaymentStatusRefunded
		restock = true
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		// Guarding on the status the transition was validated against
		// lets concurrent events race for a single winner, so restock
		// and promo release run at most once per transition.
		affected, err := s.orderRepo.WithTx(tx).UpdateFieldsIfStatus(order.ID, order.Status, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		if restock {
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if _, err := productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		if releasePromo && order.PromoCodeID != nil {
			if _, err := s.promoRepo.WithTx(tx).Release(*order.PromoCodeID); err != nil {
				return err
			}
			if err := s.usageRepo.WithTx(tx).DeleteByOrder(order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: order.ID,
			Event:   event,
		}); err != nil {
			logger.Warnw("order_enqueue_status_email_failed", "order_id", order.ID, "event", event, "error", err)
		}
	}

	return s.GetByID(order.ID)
}
