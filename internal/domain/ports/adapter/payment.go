package adapter

import "context"

// GatewayOrder is the result of creating an order on the payment provider.
type GatewayOrder struct {
	OrderID    string
	Status     string
	ApproveURL string
}

// GatewayCapture is the result of capturing a previously created order.
type GatewayCapture struct {
	OrderID   string
	Status    string // COMPLETED on success
	CaptureID string
}

// GatewaySubscription describes a provider-side subscription.
type GatewaySubscription struct {
	SubscriptionID string
	Status         string // APPROVAL_PENDING | ACTIVE | CANCELLED ...
	ApproveURL     string
	CustomID       string
}

// PaymentGateway wraps the third-party payment REST API. All calls are
// synchronous; the provider's own idempotency on order ids is the backstop
// for duplicate captures.
type PaymentGateway interface {
	Name() string
	CreateOrder(ctx context.Context, amount float64, currency, returnURL, cancelURL string) (*GatewayOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*GatewayCapture, error)
	CreateSubscription(ctx context.Context, planID, customID, returnURL, cancelURL string) (*GatewaySubscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*GatewaySubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID, reason string) error
}
