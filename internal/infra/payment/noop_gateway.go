package payment

import (
	"context"
	"fmt"
	"sync"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway is a simple in-memory gateway for dev mode and tests.
type NoopGateway struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]bool // order id -> captured
	subs   map[string]string
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{orders: make(map[string]bool), subs: make(map[string]string)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) next(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s-%d", prefix, g.seq)
}

func (g *NoopGateway) CreateOrder(ctx context.Context, amount float64, currency, returnURL, cancelURL string) (*adapter.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("noop-order")
	g.orders[id] = false
	return &adapter.GatewayOrder{
		OrderID:    id,
		Status:     "CREATED",
		ApproveURL: "https://example.test/approve/" + id,
	}, nil
}

func (g *NoopGateway) CaptureOrder(ctx context.Context, orderID string) (*adapter.GatewayCapture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.orders[orderID]; !ok {
		return nil, domain.ErrNotFound
	}
	g.orders[orderID] = true
	return &adapter.GatewayCapture{
		OrderID:   orderID,
		Status:    "COMPLETED",
		CaptureID: "cap-" + orderID,
	}, nil
}

func (g *NoopGateway) CreateSubscription(ctx context.Context, planID, customID, returnURL, cancelURL string) (*adapter.GatewaySubscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("noop-sub")
	g.subs[id] = customID
	return &adapter.GatewaySubscription{
		SubscriptionID: id,
		Status:         "APPROVAL_PENDING",
		ApproveURL:     "https://example.test/approve-sub/" + id,
		CustomID:       customID,
	}, nil
}

func (g *NoopGateway) GetSubscription(ctx context.Context, subscriptionID string) (*adapter.GatewaySubscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	customID, ok := g.subs[subscriptionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &adapter.GatewaySubscription{
		SubscriptionID: subscriptionID,
		Status:         "ACTIVE",
		CustomID:       customID,
	}, nil
}

func (g *NoopGateway) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subs, subscriptionID)
	return nil
}
