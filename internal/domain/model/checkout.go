package model

import "time"

type CheckoutStatus string

const (
	CheckoutStatusCreated  CheckoutStatus = "created"
	CheckoutStatusCaptured CheckoutStatus = "captured"
	CheckoutStatusCanceled CheckoutStatus = "canceled"
)

// ServiceCheckout is the transient record bridging a gateway order to contact
// and package details before a Service exists. It is persisted before the
// capture happens so the reconciler can replay a confirmation that was lost
// between the gateway call and the record write.
type ServiceCheckout struct {
	ID             string // ULID, sortable intent id
	OrderID        string // gateway-issued, unique
	PackageID      string
	PackageName    string
	Name           string
	Email          string
	Whatsapp       string
	AlternateEmail string
	Idea           string
	Amount         float64
	Currency       string
	Status         CheckoutStatus
	CaptureID      string
	ServiceID      string // set once fulfillment created the Service
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
