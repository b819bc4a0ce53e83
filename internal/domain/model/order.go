package model

import (
	"time"

	"service-sales-platform/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderFlow is the linear fulfillment progression; cancel is allowed from any
// non-terminal state.
var orderFlow = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusPaid,
	OrderStatusPaid:       OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// OrderItem is a snapshot of a cart line at purchase time.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// OrderLogEntry records one status transition in the append-only audit trail.
type OrderLogEntry struct {
	At     time.Time
	From   OrderStatus
	To     OrderStatus
	Actor  string
	Reason string
}

// Order is a storefront order: a snapshot of cart items with computed pricing,
// coupon application, and a status log.
type Order struct {
	ID         string
	Email      string
	Items      []OrderItem
	Subtotal   float64
	CouponCode string
	Discount   float64
	Total      float64
	Status     OrderStatus
	Log        []OrderLogEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Transition moves the order to next, appending to the log. Returns
// ErrBadTransition when next is not reachable from the current status.
func (o *Order) Transition(next OrderStatus, actor, reason string) error {
	if o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled {
		return domain.ErrBadTransition
	}
	if next != OrderStatusCancelled && orderFlow[o.Status] != next {
		return domain.ErrBadTransition
	}
	now := time.Now()
	o.Log = append(o.Log, OrderLogEntry{At: now, From: o.Status, To: next, Actor: actor, Reason: reason})
	o.Status = next
	o.UpdatedAt = now
	return nil
}
