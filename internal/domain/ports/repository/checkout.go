package repository

import (
	"context"
	"time"

	"service-sales-platform/internal/domain/model"
)

// CheckoutRepository persists service-checkout intents.
type CheckoutRepository interface {
	Save(ctx context.Context, tx Tx, c *model.ServiceCheckout) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ServiceCheckout, error)
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.ServiceCheckout, error)
	// MarkCaptured atomically flips created -> captured and reports whether
	// this call won the transition. The exactly-one-Service invariant rides
	// on this conditional update.
	MarkCaptured(ctx context.Context, tx Tx, id, captureID string) (bool, error)
	// ListStaleCreated returns checkouts still in created with a gateway
	// order id attached, older than the cutoff. Used by the reconciler.
	ListStaleCreated(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.ServiceCheckout, error)
}
