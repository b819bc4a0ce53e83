package model

import "time"

// ContactRequest is the standalone paid contact-unlock record. It predates the
// lead funnel and is kept as a parallel flow against the static catalog.
type ContactRequest struct {
	ID            string
	PackageID     string
	Name          string
	Email         string
	Message       string
	Amount        float64
	Paid          bool
	PaidAt        *time.Time
	PaypalOrderID string
	PaypalStatus  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
