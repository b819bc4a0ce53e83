package model

import (
	"math"
	"strings"
	"time"

	"service-sales-platform/internal/domain"
)

type LeadStatus string

const (
	LeadStatusNew             LeadStatus = "NEW"
	LeadStatusContactFeePaid  LeadStatus = "CONTACT_FEE_PAID"
	LeadStatusCheckoutEnabled LeadStatus = "CHECKOUT_ENABLED"
	LeadStatusPlanPaid        LeadStatus = "PLAN_PAID"
)

// Lead is a prospective customer's in-progress request for a service package.
// Guest leads have no UserID; AccessToken binds the guest session to the lead
// when guest-token enforcement is switched on.
type Lead struct {
	ID           string
	UserID       *string
	AccessToken  string
	FullName     string
	Email        string
	SelectedPlan Plan
	Idea         string

	// Contact-fee sub-state
	ContactFeeAmount     float64
	ContactFeePaid       bool
	ContactFeePaidAt     *time.Time
	ContactFeeOrderID    string
	ContactFeeApproveURL string
	ContactFeeTxID       string
	WhatsappUnlocked     bool

	// Checkout enablement (admin-controlled)
	CheckoutEnabled bool
	EnabledAt       *time.Time
	EnabledBy       string
	AgreedPlan      Plan
	PlanBasePrice   float64
	DiscountAmount  float64
	FinalPrice      float64

	// Plan payment sub-state
	PlanOrderID    string
	PlanApproveURL string
	PlanTxID       string
	PlanPaid       bool
	PlanPaidAt     *time.Time

	Status    LeadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLead validates and constructs a lead in status NEW.
func NewLead(id, accessToken, fullName, email, planLabel, idea string, userID *string, contactFee float64) (*Lead, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" || strings.TrimSpace(planLabel) == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := ResolvePlan(planLabel)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Lead{
		ID:               id,
		UserID:           userID,
		AccessToken:      accessToken,
		FullName:         fullName,
		Email:            email,
		SelectedPlan:     plan,
		Idea:             strings.TrimSpace(idea),
		ContactFeeAmount: contactFee,
		Status:           LeadStatusNew,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// DeriveLeadStatus returns the highest-priority true condition:
// planPaid > checkoutEnabled > contactFeePaid > NEW.
func DeriveLeadStatus(l *Lead) LeadStatus {
	switch {
	case l.PlanPaid:
		return LeadStatusPlanPaid
	case l.CheckoutEnabled:
		return LeadStatusCheckoutEnabled
	case l.ContactFeePaid:
		return LeadStatusContactFeePaid
	default:
		return LeadStatusNew
	}
}

// RecomputeStatus must be called after every mutating funnel operation.
func (l *Lead) RecomputeStatus() {
	l.Status = DeriveLeadStatus(l)
	l.UpdatedAt = time.Now()
}

// OwnedBy reports whether callerID may act on this lead. Ownership is only
// enforced when both the lead has an owner and a caller is present.
func (l *Lead) OwnedBy(callerID string) bool {
	if l.UserID == nil || *l.UserID == "" || callerID == "" {
		return true
	}
	return *l.UserID == callerID
}

// EnableCheckout records the agreed plan and pricing. The discount is clamped
// to a finite non-negative number; finalPrice never goes below zero.
func (l *Lead) EnableCheckout(plan Plan, basePrice, discount float64, adminID string) error {
	if !l.ContactFeePaid {
		return domain.ErrContactFeeRequired
	}
	if math.IsNaN(discount) || math.IsInf(discount, 0) || discount < 0 {
		discount = 0
	}
	final := basePrice - discount
	if final < 0 {
		final = 0
	}
	now := time.Now()
	l.CheckoutEnabled = true
	l.EnabledAt = &now
	l.EnabledBy = adminID
	l.AgreedPlan = plan
	l.PlanBasePrice = basePrice
	l.DiscountAmount = discount
	l.FinalPrice = final
	l.RecomputeStatus()
	return nil
}

// PlanReady reports whether the lead may start or capture a plan payment.
func (l *Lead) PlanReady() bool {
	return l.ContactFeePaid && l.CheckoutEnabled &&
		!math.IsNaN(l.FinalPrice) && !math.IsInf(l.FinalPrice, 0) && l.FinalPrice > 0
}

// EffectivePlan is the plan the payment is for: the agreed plan when set,
// otherwise the plan selected at creation.
func (l *Lead) EffectivePlan() Plan {
	if l.AgreedPlan != "" {
		return l.AgreedPlan
	}
	return l.SelectedPlan
}
