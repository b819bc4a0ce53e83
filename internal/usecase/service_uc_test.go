//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/usecase"
)

type serviceUCTestDeps struct {
	services *MockServiceRepo
	gateway  *MockPaymentGateway
	uc       usecase.ServiceUseCase
}

func newServiceDeps(cfg usecase.SubscriptionConfig) *serviceUCTestDeps {
	deps := &serviceUCTestDeps{
		services: NewMockServiceRepo(),
		gateway:  &MockPaymentGateway{},
	}
	deps.uc = usecase.NewServiceUseCase(deps.services, deps.gateway, cfg, newTestLogger())
	return deps
}

func seedService(t *testing.T, deps *serviceUCTestDeps, svc *model.Service) *model.Service {
	t.Helper()
	now := time.Now()
	if svc.ID == "" {
		svc.ID = "svc-1"
	}
	if svc.Email == "" {
		svc.Email = "sara@ex.com"
	}
	if svc.Status == "" {
		svc.Status = model.ServiceStatusPending
	}
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if err := deps.services.Save(context.Background(), repository.NoTX, svc); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func subCfg() usecase.SubscriptionConfig {
	return usecase.SubscriptionConfig{
		PlanID:    "P-PLAN",
		ReturnURL: "https://example.com/api/paypal/subscription/return",
		CancelURL: "https://example.com/cancel",
	}
}

func TestServiceUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("activate trial opens a 30 day window", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})

		got, err := deps.uc.ActivateTrial(ctx, svc.ID)
		if err != nil {
			t.Fatalf("activate trial: %v", err)
		}
		if got.Status != model.ServiceStatusTrialing {
			t.Errorf("expected Trialing, got %q", got.Status)
		}
		if got.TrialStartAt == nil || got.TrialEndAt == nil {
			t.Fatal("expected trial window to be set")
		}
		want := got.TrialStartAt.Add(model.TrialDays * 24 * time.Hour)
		if !got.TrialEndAt.Equal(want) {
			t.Errorf("expected trial end %v, got %v", want, got.TrialEndAt)
		}
	})

	t.Run("suspend and cancel flip the status", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})

		if got, err := deps.uc.Suspend(ctx, svc.ID); err != nil || got.Status != model.ServiceStatusSuspended {
			t.Fatalf("suspend: status=%v err=%v", got.Status, err)
		}
		if got, err := deps.uc.Cancel(ctx, svc.ID); err != nil || got.Status != model.ServiceStatusCanceled {
			t.Fatalf("cancel: status=%v err=%v", got.Status, err)
		}
	})

	t.Run("update touches only the provided fields", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{Domain: "old.example.com"})

		dom := "new.example.com"
		got, err := deps.uc.Update(ctx, svc.ID, usecase.ServiceUpdate{Domain: &dom})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.Domain != dom {
			t.Errorf("expected domain %q, got %q", dom, got.Domain)
		}
		if got.Status != model.ServiceStatusPending {
			t.Errorf("status must be untouched, got %q", got.Status)
		}
	})
}

func TestServiceUseCase_StartSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending gateway subscription", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})

		start, err := deps.uc.StartSubscription(ctx, svc.ID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if start.SubscriptionID == "" || start.ApproveURL == "" {
			t.Fatalf("expected id and approve url, got %+v", start)
		}
		if start.Status != model.SubscriptionStatusApprovalPending {
			t.Errorf("expected APPROVAL_PENDING, got %q", start.Status)
		}
	})

	t.Run("pending attempt is returned instead of a duplicate", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})

		first, _ := deps.uc.StartSubscription(ctx, svc.ID)
		second, err := deps.uc.StartSubscription(ctx, svc.ID)
		if err != nil {
			t.Fatalf("second start: %v", err)
		}
		if second.SubscriptionID != first.SubscriptionID {
			t.Errorf("expected the pending subscription %q, got %q", first.SubscriptionID, second.SubscriptionID)
		}
	})

	t.Run("active subscription blocks a new one", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{
			SubscriptionID:     "SUB-1",
			SubscriptionStatus: model.SubscriptionStatusActive,
		})

		if _, err := deps.uc.StartSubscription(ctx, svc.ID); !errors.Is(err, domain.ErrSubscriptionActive) {
			t.Fatalf("expected ErrSubscriptionActive, got %v", err)
		}
	})

	t.Run("missing billing plan config is reported", func(t *testing.T) {
		deps := newServiceDeps(usecase.SubscriptionConfig{})
		svc := seedService(t, deps, &model.Service{})

		if _, err := deps.uc.StartSubscription(ctx, svc.ID); !errors.Is(err, domain.ErrSubscriptionPlanCfg) {
			t.Fatalf("expected ErrSubscriptionPlanCfg, got %v", err)
		}
	})
}

func TestServiceUseCase_CompleteSubscriptionReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("activates on an ACTIVE gateway status and starts the trial", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})
		start, _ := deps.uc.StartSubscription(ctx, svc.ID)

		got, active, err := deps.uc.CompleteSubscriptionReturn(ctx, svc.ID, start.SubscriptionID)
		if err != nil {
			t.Fatalf("return: %v", err)
		}
		if !active {
			t.Fatal("expected the subscription to be reported active")
		}
		if got.SubscriptionStatus != model.SubscriptionStatusActive {
			t.Errorf("expected ACTIVE, got %q", got.SubscriptionStatus)
		}
		if got.Status != model.ServiceStatusTrialing {
			t.Errorf("expected Trialing, got %q", got.Status)
		}
		if got.TrialEndAt == nil {
			t.Error("expected the trial window to open")
		}
	})

	t.Run("falls back to the subscription id when custom id is missing", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})
		start, _ := deps.uc.StartSubscription(ctx, svc.ID)

		got, active, err := deps.uc.CompleteSubscriptionReturn(ctx, "", start.SubscriptionID)
		if err != nil {
			t.Fatalf("return: %v", err)
		}
		if !active || got.ID != svc.ID {
			t.Fatalf("expected service %q active, got %q active=%v", svc.ID, got.ID, active)
		}
	})

	t.Run("non-active gateway status keeps the subscription pending", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})
		start, _ := deps.uc.StartSubscription(ctx, svc.ID)
		deps.gateway.GetSubscriptionFunc = func(ctx context.Context, subscriptionID string) (*adapter.GatewaySubscription, error) {
			return &adapter.GatewaySubscription{SubscriptionID: subscriptionID, Status: "APPROVAL_PENDING"}, nil
		}

		got, active, err := deps.uc.CompleteSubscriptionReturn(ctx, svc.ID, start.SubscriptionID)
		if err != nil {
			t.Fatalf("return: %v", err)
		}
		if active {
			t.Error("expected the subscription to stay pending")
		}
		if got.SubscriptionStatus != model.SubscriptionStatusApprovalPending {
			t.Errorf("expected APPROVAL_PENDING, got %q", got.SubscriptionStatus)
		}
	})

	t.Run("unresolvable return maps to not found", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		if _, _, err := deps.uc.CompleteSubscriptionReturn(ctx, "", ""); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestServiceUseCase_CancelSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels on the gateway and locally", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{
			SubscriptionID:     "SUB-9",
			SubscriptionStatus: model.SubscriptionStatusActive,
			Status:             model.ServiceStatusTrialing,
		})

		got, err := deps.uc.CancelSubscription(ctx, svc.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got.SubscriptionStatus != model.SubscriptionStatusCanceled || got.Status != model.ServiceStatusCanceled {
			t.Errorf("expected CANCELED/Canceled, got %q/%q", got.SubscriptionStatus, got.Status)
		}
		if len(deps.gateway.CanceledSubs) != 1 || deps.gateway.CanceledSubs[0] != "SUB-9" {
			t.Errorf("expected a gateway cancel for SUB-9, got %v", deps.gateway.CanceledSubs)
		}
	})

	t.Run("service without a subscription is rejected", func(t *testing.T) {
		deps := newServiceDeps(subCfg())
		svc := seedService(t, deps, &model.Service{})

		if _, err := deps.uc.CancelSubscription(ctx, svc.ID); !errors.Is(err, domain.ErrNoSubscription) {
			t.Fatalf("expected ErrNoSubscription, got %v", err)
		}
	})
}
