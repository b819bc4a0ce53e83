package usecase

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CreateCheckoutInput struct {
	PackageID      string
	Name           string
	Email          string
	Whatsapp       string
	AlternateEmail string
	Idea           string
	Amount         float64 // 0 means "use the package one-time price"
	ReturnURL      string
	CancelURL      string
}

type CheckoutOrder struct {
	OrderID     string
	ApproveURL  string
	PackageName string
}

// FulfillResult is returned from capture/fulfillment with the contact details
// the buyer unlocked.
type FulfillResult struct {
	ServiceID string
	Email     string
	Whatsapp  string
}

type CheckoutUseCase interface {
	// CreateOrder persists a checkout intent and creates a gateway order for it.
	CreateOrder(ctx context.Context, in CreateCheckoutInput) (*CheckoutOrder, error)
	// CaptureOrder captures the gateway order and fulfills the checkout.
	// Re-capturing an already-captured checkout is idempotent.
	CaptureOrder(ctx context.Context, orderID string) (*FulfillResult, error)
	// Fulfill creates the Service for a captured checkout exactly once.
	Fulfill(ctx context.Context, checkout *model.ServiceCheckout, captureID string) (*FulfillResult, error)
}

type checkoutUC struct {
	checkouts repository.CheckoutRepository
	services  repository.ServiceRepository
	gateway   adapter.PaymentGateway
	txm       repository.TransactionManager
	catalog   *model.Catalog
	notify    NotificationUseCase
	log       *zerolog.Logger
}

func NewCheckoutUseCase(
	checkouts repository.CheckoutRepository,
	services repository.ServiceRepository,
	gateway adapter.PaymentGateway,
	txm repository.TransactionManager,
	catalog *model.Catalog,
	notify NotificationUseCase,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		checkouts: checkouts,
		services:  services,
		gateway:   gateway,
		txm:       txm,
		catalog:   catalog,
		notify:    notify,
		log:       logger,
	}
}

func newCheckoutID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (u *checkoutUC) CreateOrder(ctx context.Context, in CreateCheckoutInput) (*CheckoutOrder, error) {
	pkg, err := u.catalog.PackageByID(strings.TrimSpace(in.PackageID))
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}

	amount := in.Amount
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = pkg.OneTimePrice
	}
	amount = round2(amount)

	// The intent row goes in before the gateway call so a crash in between
	// leaves a record the reconciler can pick up.
	now := time.Now()
	checkout := &model.ServiceCheckout{
		ID:             newCheckoutID(),
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		Name:           name,
		Email:          email,
		Whatsapp:       strings.TrimSpace(in.Whatsapp),
		AlternateEmail: strings.ToLower(strings.TrimSpace(in.AlternateEmail)),
		Idea:           strings.TrimSpace(in.Idea),
		Amount:         amount,
		Currency:       pkg.Currency,
		Status:         model.CheckoutStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.checkouts.Save(ctx, repository.NoTX, checkout); err != nil {
		return nil, err
	}

	order, err := u.gateway.CreateOrder(ctx, amount, pkg.Currency, in.ReturnURL, in.CancelURL)
	if err != nil {
		return nil, err
	}
	if order.ApproveURL == "" {
		return nil, domain.ErrNoApproveLink
	}

	checkout.OrderID = order.OrderID
	checkout.UpdatedAt = time.Now()
	if err := u.checkouts.Save(ctx, repository.NoTX, checkout); err != nil {
		return nil, err
	}

	return &CheckoutOrder{OrderID: order.OrderID, ApproveURL: order.ApproveURL, PackageName: pkg.Name}, nil
}

func (u *checkoutUC) CaptureOrder(ctx context.Context, orderID string) (*FulfillResult, error) {
	checkout, err := u.checkouts.FindByOrderID(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, err
	}
	if checkout.Status == model.CheckoutStatusCaptured {
		return &FulfillResult{ServiceID: checkout.ServiceID, Email: checkout.Email, Whatsapp: checkout.Whatsapp}, nil
	}

	capture, err := u.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != "COMPLETED" {
		return nil, domain.ErrPaymentIncomplete
	}
	return u.Fulfill(ctx, checkout, capture.CaptureID)
}

func (u *checkoutUC) Fulfill(ctx context.Context, checkout *model.ServiceCheckout, captureID string) (*FulfillResult, error) {
	now := time.Now()
	svc := &model.Service{
		ID:            uuid.NewString(),
		Email:         checkout.Email,
		PackageID:     checkout.PackageID,
		PackageName:   checkout.PackageName,
		Status:        model.ServiceStatusPending,
		PaymentID:     captureID,
		Provider:      u.gateway.Name(),
		LastPaymentAt: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The winner decision, the service row and the checkout link commit
	// together; a crash mid-fulfillment leaves the checkout in created and
	// the reconciler replays it.
	var won bool
	err := u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		won, err = u.checkouts.MarkCaptured(ctx, tx, checkout.ID, captureID)
		if err != nil || !won {
			return err
		}
		if err := u.services.Save(ctx, tx, svc); err != nil {
			return err
		}
		checkout.Status = model.CheckoutStatusCaptured
		checkout.CaptureID = captureID
		checkout.ServiceID = svc.ID
		checkout.UpdatedAt = now
		return u.checkouts.Save(ctx, tx, checkout)
	})
	if err != nil {
		return nil, err
	}
	if !won {
		// Another request already fulfilled this checkout.
		current, ferr := u.checkouts.FindByID(ctx, repository.NoTX, checkout.ID)
		if ferr == nil {
			return &FulfillResult{ServiceID: current.ServiceID, Email: current.Email, Whatsapp: current.Whatsapp}, nil
		}
		return &FulfillResult{Email: checkout.Email, Whatsapp: checkout.Whatsapp}, nil
	}

	if u.notify != nil {
		u.notify.ServiceProvisioned(ctx, svc, checkout)
	}
	u.log.Info().Str("checkout_id", checkout.ID).Str("service_id", svc.ID).Msg("checkout fulfilled")

	return &FulfillResult{ServiceID: svc.ID, Email: checkout.Email, Whatsapp: checkout.Whatsapp}, nil
}
