package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/infra/metrics"
	"service-sales-platform/internal/usecase"
)

// CaptureReconciler periodically scans for checkout intents stuck in created
// and retries the capture. This covers the window where the buyer approved at
// the gateway but the return call never reached us, or the process crashed
// between capture and fulfillment.
type CaptureReconciler struct {
	uc         usecase.CheckoutUseCase
	checkouts  repository.CheckoutRepository
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
}

func NewCaptureReconciler(uc usecase.CheckoutUseCase, checkouts repository.CheckoutRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *CaptureReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &CaptureReconciler{uc: uc, checkouts: checkouts, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *CaptureReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *CaptureReconciler) tick(ctx context.Context) {
	metrics.IncReconcilerRun()
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.checkouts.ListStaleCreated(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("capture-reconciler: list stale error")
		return
	}
	for _, c := range stale {
		if _, err := w.uc.CaptureOrder(ctx, c.OrderID); err != nil {
			// Most stale intents were simply abandoned by the buyer; only
			// gateway-approved ones will capture.
			w.log.Debug().Str("checkout_id", c.ID).Str("order_id", c.OrderID).Err(err).Msg("capture-reconciler: capture not completed")
			continue
		}
		metrics.IncReconcilerRecovered()
		w.log.Info().Str("checkout_id", c.ID).Str("order_id", c.OrderID).Msg("capture-reconciler: recovered checkout")
	}
}
