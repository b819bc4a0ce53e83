package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ContactUseCase = (*contactUC)(nil)

// ContactUseCase is the standalone paid contact-unlock flow, kept separate
// from the lead funnel for the legacy storefront pages.
type ContactUseCase interface {
	Create(ctx context.Context, packageID, name, email, message string) (*model.ContactRequest, error)
	CreatePaymentOrder(ctx context.Context, id string) (*PlanOrder, error)
	CapturePayment(ctx context.Context, id, orderID string) (*model.ContactRequest, error)
}

type contactUC struct {
	requests repository.ContactRequestRepository
	gateway  adapter.PaymentGateway
	catalog  *model.Catalog
	baseURL  string
	log      *zerolog.Logger
}

func NewContactUseCase(requests repository.ContactRequestRepository, gateway adapter.PaymentGateway, catalog *model.Catalog, baseURL string, logger *zerolog.Logger) *contactUC {
	return &contactUC{requests: requests, gateway: gateway, catalog: catalog, baseURL: baseURL, log: logger}
}

func (u *contactUC) Create(ctx context.Context, packageID, name, email, message string) (*model.ContactRequest, error) {
	if _, err := u.catalog.PackageByID(packageID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	cr := &model.ContactRequest{
		ID:        uuid.NewString(),
		PackageID: packageID,
		Name:      name,
		Email:     email,
		Message:   strings.TrimSpace(message),
		Amount:    u.catalog.ContactFee(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.requests.Save(ctx, repository.NoTX, cr); err != nil {
		return nil, err
	}
	return cr, nil
}

func (u *contactUC) CreatePaymentOrder(ctx context.Context, id string) (*PlanOrder, error) {
	cr, err := u.requests.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if cr.Paid {
		return nil, domain.ErrAlreadyPaid
	}

	order, err := u.gateway.CreateOrder(ctx, cr.Amount, u.catalog.Currency(),
		u.baseURL+"/contact-requests/"+cr.ID+"/return",
		u.baseURL+"/contact-requests/"+cr.ID+"/cancel")
	if err != nil {
		return nil, err
	}
	if order.ApproveURL == "" {
		return nil, domain.ErrNoApproveLink
	}

	cr.PaypalOrderID = order.OrderID
	cr.PaypalStatus = order.Status
	cr.UpdatedAt = time.Now()
	if err := u.requests.Save(ctx, repository.NoTX, cr); err != nil {
		return nil, err
	}
	return &PlanOrder{OrderID: order.OrderID, ApproveURL: order.ApproveURL}, nil
}

func (u *contactUC) CapturePayment(ctx context.Context, id, orderID string) (*model.ContactRequest, error) {
	cr, err := u.requests.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if cr.Paid {
		return cr, nil
	}
	if cr.PaypalOrderID != "" && cr.PaypalOrderID != orderID {
		return nil, domain.ErrOrderMismatch
	}

	capture, err := u.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != "COMPLETED" {
		return nil, domain.ErrPaymentIncomplete
	}

	now := time.Now()
	cr.Paid = true
	cr.PaidAt = &now
	cr.PaypalStatus = capture.Status
	cr.UpdatedAt = now
	if err := u.requests.Save(ctx, repository.NoTX, cr); err != nil {
		return nil, err
	}
	u.log.Info().Str("contact_request_id", cr.ID).Msg("contact request paid")
	return cr, nil
}
