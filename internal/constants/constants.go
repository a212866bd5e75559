package constants

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order events, the only way order status moves after creation
const (
	OrderEventPaymentCompleted = "payment_completed"
	OrderEventPaymentFailed    = "payment_failed"
	OrderEventStartProcessing  = "start_processing"
	OrderEventShip             = "ship"
	OrderEventDeliver          = "deliver"
	OrderEventCancel           = "cancel"
	OrderEventRefund           = "refund"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment methods
const (
	PaymentMethodCard           = "card"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodWallet         = "wallet"
)

// Delivery statuses
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusReturned  = "returned"
)

// Delivery methods
const (
	DeliveryMethodExpress = "express_delivery"
	DeliveryMethodHome    = "home_delivery"
	DeliveryMethodPickup  = "store_pickup"
)

// Promo code types
const (
	PromoTypePercentage   = "percentage"
	PromoTypeFixed        = "fixed"
	PromoTypeFreeShipping = "free_shipping"
)

// PromoUsageUnlimited marks a promo code without a global redemption cap.
const PromoUsageUnlimited = -1

// Low stock alert statuses
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
	AlertStatusDismissed    = "dismissed"
)

// Low stock alert priorities
const (
	AlertPriorityCritical = "critical"
	AlertPriorityHigh     = "high"
	AlertPriorityMedium   = "medium"
	AlertPriorityLow      = "low"
)

// Review statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Newsletter subscriber statuses
const (
	NewsletterStatusSubscribed   = "subscribed"
	NewsletterStatusUnsubscribed = "unsubscribed"
)

// User statuses
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// Email verify code purposes
const (
	VerifyCodePurposeRegister = "register"
	VerifyCodePurposeReset    = "reset"
)

// Pricing defaults. Config may override tax and shipping; these are the
// documented storefront constants.
const (
	DefaultTaxRate            = "0.10"
	DefaultShippingExpress    = "15.00"
	DefaultShippingHome       = "5.00"
	DefaultShippingPickup     = "0.00"
	DefaultLowStockThreshold  = 10
	DefaultCartExpireDays     = 30
	OrderNoPrefix             = "DE"
	OrderNoMaxGenerateRetries = 5
)

// Queue and task names
const (
	QueueDefault = "default"

	TaskOrderStatusEmail   = "order:status_email"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskLowStockScan       = "stock:low_stock_scan"
)

// Back-office roles
const (
	RoleSuperAdmin = "super_admin"
	RoleManager    = "manager"
	RoleSupport    = "support"
)
