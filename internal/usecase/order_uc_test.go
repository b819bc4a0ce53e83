//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/usecase"
)

type orderUCTestDeps struct {
	orders   *MockOrderRepo
	products *MockProductRepo
	coupons  *MockCouponRepo
	uc       usecase.OrderUseCase
}

func newOrderDeps(t *testing.T) *orderUCTestDeps {
	t.Helper()
	deps := &orderUCTestDeps{
		orders:   NewMockOrderRepo(),
		products: NewMockProductRepo(),
		coupons:  NewMockCouponRepo(),
	}
	deps.uc = usecase.NewOrderUseCase(deps.orders, deps.products, deps.coupons, newTestLogger())

	ctx := context.Background()
	for _, p := range []*model.Product{
		{ID: "p-mug", Name: "Mug", Price: 10, CategoryID: "merch", InStock: true},
		{ID: "p-tee", Name: "T-Shirt", Price: 25, CategoryID: "merch", InStock: true},
	} {
		if err := deps.products.Save(ctx, repository.NoTX, p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	return deps
}

func TestOrderUseCase_Place(t *testing.T) {
	ctx := context.Background()

	t.Run("totals the cart and snapshots product prices", func(t *testing.T) {
		deps := newOrderDeps(t)

		order, err := deps.uc.Place(ctx, "Buyer@EX.com", []usecase.CartLine{
			{ProductID: "p-mug", Quantity: 2},
			{ProductID: "p-tee", Quantity: 1},
		}, "")
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if order.Email != "buyer@ex.com" {
			t.Errorf("expected lower-cased email, got %q", order.Email)
		}
		if order.Subtotal != 45 || order.Total != 45 {
			t.Errorf("expected subtotal/total 45, got %v/%v", order.Subtotal, order.Total)
		}
		if len(order.Items) != 2 || order.Items[0].LineTotal != 20 {
			t.Errorf("unexpected items %+v", order.Items)
		}
		if order.Status != model.OrderStatusPending {
			t.Errorf("expected pending, got %q", order.Status)
		}
	})

	t.Run("applies a percent coupon case-insensitively", func(t *testing.T) {
		deps := newOrderDeps(t)
		if err := deps.coupons.Save(ctx, repository.NoTX, &model.Coupon{
			Code: "SAVE10", Type: model.CouponTypePercent, Value: 10, Active: true,
		}); err != nil {
			t.Fatalf("seed coupon: %v", err)
		}

		order, err := deps.uc.Place(ctx, "buyer@ex.com", []usecase.CartLine{{ProductID: "p-tee", Quantity: 2}}, "save10")
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if order.Discount != 5 || order.Total != 45 {
			t.Errorf("expected discount 5 total 45, got %v/%v", order.Discount, order.Total)
		}
		if order.CouponCode != "SAVE10" {
			t.Errorf("expected stored code SAVE10, got %q", order.CouponCode)
		}
	})

	t.Run("fixed coupon never pushes the total below zero", func(t *testing.T) {
		deps := newOrderDeps(t)
		if err := deps.coupons.Save(ctx, repository.NoTX, &model.Coupon{
			Code: "BIG", Type: model.CouponTypeFixed, Value: 500, Active: true,
		}); err != nil {
			t.Fatalf("seed coupon: %v", err)
		}

		order, err := deps.uc.Place(ctx, "buyer@ex.com", []usecase.CartLine{{ProductID: "p-mug", Quantity: 1}}, "BIG")
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if order.Total != 0 {
			t.Errorf("expected total 0, got %v", order.Total)
		}
	})

	t.Run("expired or inactive coupons are rejected", func(t *testing.T) {
		deps := newOrderDeps(t)
		past := time.Now().Add(-time.Hour)
		_ = deps.coupons.Save(ctx, repository.NoTX, &model.Coupon{
			Code: "OLD", Type: model.CouponTypePercent, Value: 10, Active: true, ExpiresAt: &past,
		})
		_ = deps.coupons.Save(ctx, repository.NoTX, &model.Coupon{
			Code: "OFF", Type: model.CouponTypePercent, Value: 10, Active: false,
		})

		for _, code := range []string{"OLD", "OFF"} {
			if _, err := deps.uc.Place(ctx, "b@ex.com", []usecase.CartLine{{ProductID: "p-mug", Quantity: 1}}, code); !errors.Is(err, domain.ErrCouponExpired) {
				t.Errorf("coupon %s: expected ErrCouponExpired, got %v", code, err)
			}
		}
	})

	t.Run("rejects empty carts, bad quantities and unknown products", func(t *testing.T) {
		deps := newOrderDeps(t)

		if _, err := deps.uc.Place(ctx, "b@ex.com", nil, ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty cart: expected ErrInvalidArgument, got %v", err)
		}
		if _, err := deps.uc.Place(ctx, "b@ex.com", []usecase.CartLine{{ProductID: "p-mug", Quantity: 0}}, ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("zero quantity: expected ErrInvalidArgument, got %v", err)
		}
		if _, err := deps.uc.Place(ctx, "b@ex.com", []usecase.CartLine{{ProductID: "p-nope", Quantity: 1}}, ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("unknown product: expected ErrNotFound, got %v", err)
		}
	})
}

func TestOrderUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	place := func(t *testing.T, deps *orderUCTestDeps) *model.Order {
		t.Helper()
		order, err := deps.uc.Place(ctx, "b@ex.com", []usecase.CartLine{{ProductID: "p-mug", Quantity: 1}}, "")
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		return order
	}

	t.Run("walks the fulfillment chain and records the log", func(t *testing.T) {
		deps := newOrderDeps(t)
		order := place(t, deps)

		for _, next := range []model.OrderStatus{
			model.OrderStatusPaid,
			model.OrderStatusProcessing,
			model.OrderStatusShipped,
			model.OrderStatusDelivered,
		} {
			got, err := deps.uc.UpdateStatus(ctx, order.ID, next, "admin-1", "")
			if err != nil {
				t.Fatalf("transition to %s: %v", next, err)
			}
			if got.Status != next {
				t.Fatalf("expected %s, got %s", next, got.Status)
			}
		}
		final, _ := deps.uc.Get(ctx, order.ID)
		if len(final.Log) != 4 {
			t.Errorf("expected 4 log entries, got %d", len(final.Log))
		}
		if final.Log[0].Actor != "admin-1" {
			t.Errorf("expected the actor to be recorded, got %q", final.Log[0].Actor)
		}
	})

	t.Run("rejects skipping ahead", func(t *testing.T) {
		deps := newOrderDeps(t)
		order := place(t, deps)

		if _, err := deps.uc.UpdateStatus(ctx, order.ID, model.OrderStatusShipped, "admin-1", ""); !errors.Is(err, domain.ErrBadTransition) {
			t.Fatalf("expected ErrBadTransition, got %v", err)
		}
	})

	t.Run("cancel works from any non-terminal state but never after", func(t *testing.T) {
		deps := newOrderDeps(t)
		order := place(t, deps)
		if _, err := deps.uc.UpdateStatus(ctx, order.ID, model.OrderStatusPaid, "admin-1", ""); err != nil {
			t.Fatalf("to paid: %v", err)
		}

		got, err := deps.uc.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled, "admin-1", "buyer asked")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got.Status != model.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
		if _, err := deps.uc.UpdateStatus(ctx, order.ID, model.OrderStatusPaid, "admin-1", ""); !errors.Is(err, domain.ErrBadTransition) {
			t.Errorf("expected ErrBadTransition after cancel, got %v", err)
		}
	})
}
