package model

import "time"

type ServiceStatus string

const (
	ServiceStatusPending   ServiceStatus = "Pending"
	ServiceStatusTrialing  ServiceStatus = "Trialing"
	ServiceStatusSuspended ServiceStatus = "Suspended"
	ServiceStatusCanceled  ServiceStatus = "Canceled"
)

type SubscriptionStatus string

const (
	SubscriptionStatusNone            SubscriptionStatus = ""
	SubscriptionStatusApprovalPending SubscriptionStatus = "APPROVAL_PENDING"
	SubscriptionStatusActive          SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCanceled        SubscriptionStatus = "CANCELED"
)

// TrialDays is the trial window granted when a subscription activates.
const TrialDays = 30

// Service is the provisioned offering a customer owns after a successful
// checkout capture.
type Service struct {
	ID          string
	Email       string
	Domain      string
	PackageID   string
	PackageName string
	Status      ServiceStatus
	PaymentID   string
	Provider    string

	SubscriptionID         string
	SubscriptionStatus     SubscriptionStatus
	SubscriptionApproveURL string
	SubscriptionCreatedAt  *time.Time

	TrialStartAt  *time.Time
	TrialEndAt    *time.Time
	LastPaymentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionPending reports whether a new gateway subscription may be
// created. ACTIVE and CANCELED are terminal for creation purposes.
func (s *Service) SubscriptionPending() bool {
	return s.SubscriptionStatus == SubscriptionStatusNone ||
		s.SubscriptionStatus == SubscriptionStatusApprovalPending
}

// ActivateSubscription moves the subscription to ACTIVE and opens the trial
// window. Only the gateway confirmation path calls this.
func (s *Service) ActivateSubscription(now time.Time) {
	end := now.Add(TrialDays * 24 * time.Hour)
	s.SubscriptionStatus = SubscriptionStatusActive
	s.TrialStartAt = &now
	s.TrialEndAt = &end
	s.Status = ServiceStatusTrialing
	s.UpdatedAt = now
}
