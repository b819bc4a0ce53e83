package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ServiceUseCase = (*serviceUC)(nil)

// SubscriptionConfig carries gateway subscription settings.
type SubscriptionConfig struct {
	PlanID     string // gateway-side billing plan id
	ReturnURL  string
	CancelURL  string
	SuccessURL string // browser redirect after activation
	FailureURL string
}

type SubscriptionStart struct {
	SubscriptionID string
	ApproveURL     string
	Status         model.SubscriptionStatus
}

// ServiceUpdate holds the admin-editable fields; nil means "leave unchanged".
type ServiceUpdate struct {
	Status         *model.ServiceStatus
	SubscriptionID *string
	Domain         *string
}

type ServiceUseCase interface {
	Get(ctx context.Context, id string) (*model.Service, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Service, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]*model.Service, error)
	Update(ctx context.Context, id string, upd ServiceUpdate) (*model.Service, error)
	ActivateTrial(ctx context.Context, id string) (*model.Service, error)
	Suspend(ctx context.Context, id string) (*model.Service, error)
	Cancel(ctx context.Context, id string) (*model.Service, error)

	StartSubscription(ctx context.Context, id string) (*SubscriptionStart, error)
	// CompleteSubscriptionReturn handles the gateway redirect; it resolves the
	// service by gateway custom id first, then by subscription id, and reports
	// whether the subscription ended up ACTIVE.
	CompleteSubscriptionReturn(ctx context.Context, customID, subscriptionID string) (*model.Service, bool, error)
	CancelSubscription(ctx context.Context, id string) (*model.Service, error)
}

type serviceUC struct {
	services repository.ServiceRepository
	gateway  adapter.PaymentGateway
	cfg      SubscriptionConfig
	log      *zerolog.Logger
}

func NewServiceUseCase(services repository.ServiceRepository, gateway adapter.PaymentGateway, cfg SubscriptionConfig, logger *zerolog.Logger) *serviceUC {
	return &serviceUC{services: services, gateway: gateway, cfg: cfg, log: logger}
}

func (u *serviceUC) Get(ctx context.Context, id string) (*model.Service, error) {
	return u.services.FindByID(ctx, repository.NoTX, id)
}

func (u *serviceUC) ListByEmail(ctx context.Context, email string) ([]*model.Service, error) {
	return u.services.ListByEmail(ctx, repository.NoTX, email)
}

func (u *serviceUC) List(ctx context.Context, f repository.ServiceFilter) ([]*model.Service, error) {
	return u.services.List(ctx, repository.NoTX, f)
}

func (u *serviceUC) Update(ctx context.Context, id string, upd ServiceUpdate) (*model.Service, error) {
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Status != nil {
		svc.Status = *upd.Status
	}
	if upd.SubscriptionID != nil {
		svc.SubscriptionID = *upd.SubscriptionID
	}
	if upd.Domain != nil {
		svc.Domain = *upd.Domain
	}
	svc.UpdatedAt = time.Now()
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (u *serviceUC) ActivateTrial(ctx context.Context, id string) (*model.Service, error) {
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	end := now.Add(model.TrialDays * 24 * time.Hour)
	svc.TrialStartAt = &now
	svc.TrialEndAt = &end
	svc.Status = model.ServiceStatusTrialing
	svc.UpdatedAt = now
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (u *serviceUC) Suspend(ctx context.Context, id string) (*model.Service, error) {
	return u.forceStatus(ctx, id, model.ServiceStatusSuspended)
}

func (u *serviceUC) Cancel(ctx context.Context, id string) (*model.Service, error) {
	return u.forceStatus(ctx, id, model.ServiceStatusCanceled)
}

func (u *serviceUC) forceStatus(ctx context.Context, id string, status model.ServiceStatus) (*model.Service, error) {
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	svc.Status = status
	svc.UpdatedAt = time.Now()
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (u *serviceUC) StartSubscription(ctx context.Context, id string) (*SubscriptionStart, error) {
	if u.cfg.PlanID == "" {
		return nil, domain.ErrSubscriptionPlanCfg
	}
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if svc.SubscriptionStatus == model.SubscriptionStatusActive || svc.Status == model.ServiceStatusTrialing {
		return nil, domain.ErrSubscriptionActive
	}
	// An earlier attempt still waiting for buyer approval is returned as-is
	// instead of creating a duplicate gateway subscription.
	if svc.SubscriptionStatus == model.SubscriptionStatusApprovalPending && svc.SubscriptionApproveURL != "" {
		return &SubscriptionStart{
			SubscriptionID: svc.SubscriptionID,
			ApproveURL:     svc.SubscriptionApproveURL,
			Status:         svc.SubscriptionStatus,
		}, nil
	}
	if !svc.SubscriptionPending() {
		return nil, domain.ErrSubscriptionActive
	}

	sub, err := u.gateway.CreateSubscription(ctx, u.cfg.PlanID, svc.ID, u.cfg.ReturnURL, u.cfg.CancelURL)
	if err != nil {
		return nil, err
	}
	if sub.ApproveURL == "" {
		return nil, domain.ErrNoApproveLink
	}

	now := time.Now()
	svc.SubscriptionID = sub.SubscriptionID
	svc.SubscriptionStatus = model.SubscriptionStatusApprovalPending
	svc.SubscriptionApproveURL = sub.ApproveURL
	svc.SubscriptionCreatedAt = &now
	svc.UpdatedAt = now
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}

	u.log.Info().Str("service_id", svc.ID).Str("subscription_id", sub.SubscriptionID).Msg("subscription created")
	return &SubscriptionStart{
		SubscriptionID: sub.SubscriptionID,
		ApproveURL:     sub.ApproveURL,
		Status:         svc.SubscriptionStatus,
	}, nil
}

func (u *serviceUC) CompleteSubscriptionReturn(ctx context.Context, customID, subscriptionID string) (*model.Service, bool, error) {
	var svc *model.Service
	var err error
	if customID != "" {
		svc, err = u.services.FindByID(ctx, repository.NoTX, customID)
	}
	if svc == nil && subscriptionID != "" {
		svc, err = u.services.FindBySubscriptionID(ctx, repository.NoTX, subscriptionID)
	}
	if svc == nil {
		if err == nil {
			err = domain.ErrNotFound
		}
		return nil, false, err
	}

	subID := svc.SubscriptionID
	if subID == "" {
		subID = subscriptionID
	}
	sub, err := u.gateway.GetSubscription(ctx, subID)
	if err != nil {
		return nil, false, err
	}

	if sub.Status == "ACTIVE" {
		svc.SubscriptionID = subID
		svc.ActivateSubscription(time.Now())
		if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
			return nil, false, err
		}
		u.log.Info().Str("service_id", svc.ID).Msg("subscription active, trial started")
		return svc, true, nil
	}

	svc.SubscriptionStatus = model.SubscriptionStatusApprovalPending
	svc.UpdatedAt = time.Now()
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, false, err
	}
	return svc, false, nil
}

func (u *serviceUC) CancelSubscription(ctx context.Context, id string) (*model.Service, error) {
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if svc.SubscriptionID == "" {
		return nil, domain.ErrNoSubscription
	}
	if err := u.gateway.CancelSubscription(ctx, svc.SubscriptionID, "canceled by admin"); err != nil {
		return nil, err
	}
	svc.SubscriptionStatus = model.SubscriptionStatusCanceled
	svc.Status = model.ServiceStatusCanceled
	svc.UpdatedAt = time.Now()
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	u.log.Info().Str("service_id", svc.ID).Msg("subscription canceled")
	return svc, nil
}
