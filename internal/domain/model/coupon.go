package model

import "time"

type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFixed   CouponType = "fixed"
)

// Coupon is a storefront discount code.
type Coupon struct {
	Code      string
	Type      CouponType
	Value     float64
	Active    bool
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the coupon may be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// DiscountOn computes the discount for a subtotal, clamped so the resulting
// total never goes below zero.
func (c *Coupon) DiscountOn(subtotal float64) float64 {
	var d float64
	switch c.Type {
	case CouponTypePercent:
		d = subtotal * c.Value / 100
	case CouponTypeFixed:
		d = c.Value
	}
	if d < 0 {
		d = 0
	}
	if d > subtotal {
		d = subtotal
	}
	return d
}
