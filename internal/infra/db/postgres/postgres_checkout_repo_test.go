//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"service-sales-platform/internal/domain/model"
)

func TestCheckoutRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}
	ctx := context.Background()
	repo := NewCheckoutRepo(testPool)

	newCheckout := func(t *testing.T) *model.ServiceCheckout {
		t.Helper()
		now := time.Now()
		return &model.ServiceCheckout{
			ID:          uuid.NewString(),
			OrderID:     "ORDER-" + uuid.NewString(),
			PackageID:   "growth",
			PackageName: "Growth Site",
			Name:        "Sara",
			Email:       "sara@ex.com",
			Amount:      100,
			Currency:    "USD",
			Status:      model.CheckoutStatusCreated,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	t.Run("should win MarkCaptured exactly once", func(t *testing.T) {
		cleanup(t)
		c := newCheckout(t)
		if err := repo.Save(ctx, nil, c); err != nil {
			t.Fatalf("failed to save checkout: %v", err)
		}

		won, err := repo.MarkCaptured(ctx, nil, c.ID, "CAP-1")
		if err != nil {
			t.Fatalf("first MarkCaptured failed: %v", err)
		}
		if !won {
			t.Fatal("expected the first capture to win")
		}

		won, err = repo.MarkCaptured(ctx, nil, c.ID, "CAP-2")
		if err != nil {
			t.Fatalf("second MarkCaptured failed: %v", err)
		}
		if won {
			t.Fatal("expected the second capture to lose")
		}

		found, err := repo.FindByOrderID(ctx, nil, c.OrderID)
		if err != nil {
			t.Fatalf("failed to find checkout: %v", err)
		}
		if found.Status != model.CheckoutStatusCaptured || found.CaptureID != "CAP-1" {
			t.Errorf("expected the first capture id to stick, got %+v", found)
		}
	})

	t.Run("should only list stale created intents with an order id", func(t *testing.T) {
		cleanup(t)

		stale := newCheckout(t)
		stale.CreatedAt = time.Now().Add(-time.Hour)
		fresh := newCheckout(t)
		noOrder := newCheckout(t)
		noOrder.OrderID = ""
		noOrder.CreatedAt = time.Now().Add(-time.Hour)

		for _, c := range []*model.ServiceCheckout{stale, fresh, noOrder} {
			if err := repo.Save(ctx, nil, c); err != nil {
				t.Fatalf("failed to save checkout: %v", err)
			}
		}

		got, err := repo.ListStaleCreated(ctx, nil, time.Now().Add(-10*time.Minute), 50)
		if err != nil {
			t.Fatalf("failed to list stale checkouts: %v", err)
		}
		if len(got) != 1 || got[0].ID != stale.ID {
			t.Errorf("expected only the stale intent, got %d rows", len(got))
		}
	})
}
