package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ LeadUseCase = (*leadUC)(nil)

// Caller identifies the requesting user for ownership checks. A zero Caller
// is an unauthenticated guest.
type Caller struct {
	UserID     string
	Email      string
	GuestToken string
	IsAdmin    bool
}

// Locker serializes capture attempts per lead to narrow the double-capture
// window. nil disables locking (tests, single-instance deployments).
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// LeadFunnelConfig carries the injected funnel settings.
type LeadFunnelConfig struct {
	PublicBaseURL string
	// RequireGuestToken turns on the per-lead opaque token check for guest
	// leads. Off by default to keep the historical guest-checkout behavior.
	RequireGuestToken bool
}

type PlanOrder struct {
	OrderID    string
	ApproveURL string
}

type PlanCaptureResult struct {
	Lead      *model.Lead
	ServiceID string
	// Captured is false when the call was an idempotent repeat of an
	// already-settled payment.
	Captured bool
}

type LeadUseCase interface {
	Create(ctx context.Context, fullName, email, planLabel, idea string, ownerUserID *string) (*model.Lead, error)
	Get(ctx context.Context, leadID string, caller Caller) (*model.Lead, error)
	ListByOwner(ctx context.Context, userID string) ([]*model.Lead, error)
	ListAll(ctx context.Context, offset, limit int) ([]*model.Lead, error)

	CreateContactFeeOrder(ctx context.Context, leadID string, caller Caller) (*PlanOrder, error)
	CaptureContactFee(ctx context.Context, leadID, orderID string, caller Caller) (*model.Lead, bool, error)

	EnableCheckout(ctx context.Context, leadID, agreedPlanLabel string, discount float64, adminID string) (*model.Lead, error)

	CreatePlanOrder(ctx context.Context, leadID string, caller Caller) (*PlanOrder, error)
	CapturePlanPayment(ctx context.Context, leadID, orderID string, caller Caller) (*PlanCaptureResult, error)
}

type leadUC struct {
	leads     repository.LeadRepository
	checkouts repository.CheckoutRepository
	gateway   adapter.PaymentGateway
	checkout  CheckoutUseCase
	catalog   *model.Catalog
	notify    NotificationUseCase
	locker    Locker
	cfg       LeadFunnelConfig
	log       *zerolog.Logger
}

func NewLeadUseCase(
	leads repository.LeadRepository,
	checkouts repository.CheckoutRepository,
	gateway adapter.PaymentGateway,
	checkout CheckoutUseCase,
	catalog *model.Catalog,
	notify NotificationUseCase,
	locker Locker,
	cfg LeadFunnelConfig,
	logger *zerolog.Logger,
) *leadUC {
	return &leadUC{
		leads:     leads,
		checkouts: checkouts,
		gateway:   gateway,
		checkout:  checkout,
		catalog:   catalog,
		notify:    notify,
		locker:    locker,
		cfg:       cfg,
		log:       logger,
	}
}

func (u *leadUC) Create(ctx context.Context, fullName, email, planLabel, idea string, ownerUserID *string) (*model.Lead, error) {
	lead, err := model.NewLead(uuid.NewString(), uuid.NewString(), fullName, email, planLabel, idea, ownerUserID, u.catalog.ContactFee())
	if err != nil {
		return nil, err
	}
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, err
	}
	u.log.Info().Str("lead_id", lead.ID).Str("plan", string(lead.SelectedPlan)).Msg("lead created")
	return lead, nil
}

// authorize loads a lead and runs the ownership check. Guest leads are open
// unless guest-token enforcement is on, in which case the caller must present
// the token issued at creation.
func (u *leadUC) authorize(ctx context.Context, leadID string, caller Caller) (*model.Lead, error) {
	lead, err := u.leads.FindByID(ctx, repository.NoTX, leadID)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin {
		return lead, nil
	}
	if !lead.OwnedBy(caller.UserID) {
		return nil, domain.ErrForbidden
	}
	if u.cfg.RequireGuestToken && (lead.UserID == nil || *lead.UserID == "") {
		if caller.GuestToken != lead.AccessToken {
			return nil, domain.ErrForbidden
		}
	}
	return lead, nil
}

func (u *leadUC) Get(ctx context.Context, leadID string, caller Caller) (*model.Lead, error) {
	return u.authorize(ctx, leadID, caller)
}

func (u *leadUC) ListByOwner(ctx context.Context, userID string) ([]*model.Lead, error) {
	return u.leads.ListByUser(ctx, repository.NoTX, userID)
}

func (u *leadUC) ListAll(ctx context.Context, offset, limit int) ([]*model.Lead, error) {
	return u.leads.ListAll(ctx, repository.NoTX, offset, limit)
}

func (u *leadUC) CreateContactFeeOrder(ctx context.Context, leadID string, caller Caller) (*PlanOrder, error) {
	lead, err := u.authorize(ctx, leadID, caller)
	if err != nil {
		return nil, err
	}
	if lead.ContactFeePaid {
		return nil, domain.ErrAlreadyPaid
	}

	// Reuse a pending order instead of minting a second one on reload.
	if lead.ContactFeeOrderID != "" && lead.ContactFeeApproveURL != "" {
		return &PlanOrder{OrderID: lead.ContactFeeOrderID, ApproveURL: lead.ContactFeeApproveURL}, nil
	}

	order, err := u.gateway.CreateOrder(ctx, lead.ContactFeeAmount, u.catalog.Currency(),
		u.cfg.PublicBaseURL+"/leads/"+lead.ID+"/contact-fee/return",
		u.cfg.PublicBaseURL+"/leads/"+lead.ID+"/contact-fee/cancel")
	if err != nil {
		return nil, err
	}
	if order.ApproveURL == "" {
		return nil, domain.ErrNoApproveLink
	}

	lead.ContactFeeOrderID = order.OrderID
	lead.ContactFeeApproveURL = order.ApproveURL
	lead.UpdatedAt = time.Now()
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, err
	}
	return &PlanOrder{OrderID: order.OrderID, ApproveURL: order.ApproveURL}, nil
}

func (u *leadUC) lockCapture(ctx context.Context, leadID string) (func(), error) {
	if u.locker == nil {
		return func() {}, nil
	}
	key := "lead:capture:" + leadID
	token, err := u.locker.TryLock(ctx, key, 30*time.Second)
	if err != nil {
		return nil, domain.ErrLockNotAcquired
	}
	return func() { _ = u.locker.Unlock(ctx, key, token) }, nil
}

func (u *leadUC) CaptureContactFee(ctx context.Context, leadID, orderID string, caller Caller) (*model.Lead, bool, error) {
	unlock, err := u.lockCapture(ctx, leadID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	lead, err := u.authorize(ctx, leadID, caller)
	if err != nil {
		return nil, false, err
	}
	if lead.ContactFeePaid {
		return lead, false, nil
	}
	if lead.ContactFeeOrderID != "" && lead.ContactFeeOrderID != orderID {
		return nil, false, domain.ErrOrderMismatch
	}

	capture, err := u.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if capture.Status != "COMPLETED" {
		return nil, false, domain.ErrPaymentIncomplete
	}
	txID := capture.CaptureID
	if txID == "" {
		txID = orderID
	}

	now := time.Now()
	lead.ContactFeePaid = true
	lead.ContactFeePaidAt = &now
	lead.ContactFeeTxID = txID
	lead.WhatsappUnlocked = true
	lead.RecomputeStatus()
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, false, err
	}

	if u.notify != nil {
		u.notify.ContactUnlocked(ctx, lead)
	}
	u.log.Info().Str("lead_id", lead.ID).Str("tx_id", txID).Msg("contact fee captured")
	return lead, true, nil
}

func (u *leadUC) EnableCheckout(ctx context.Context, leadID, agreedPlanLabel string, discount float64, adminID string) (*model.Lead, error) {
	lead, err := u.leads.FindByID(ctx, repository.NoTX, leadID)
	if err != nil {
		return nil, err
	}
	plan, err := model.ResolvePlan(agreedPlanLabel)
	if err != nil {
		return nil, err
	}
	pkg, err := u.catalog.PackageForPlan(plan)
	if err != nil {
		return nil, err
	}
	if err := lead.EnableCheckout(plan, pkg.OneTimePrice, discount, adminID); err != nil {
		return nil, err
	}
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, err
	}
	u.log.Info().Str("lead_id", lead.ID).Str("plan", string(plan)).
		Float64("final_price", lead.FinalPrice).Msg("checkout enabled")
	return lead, nil
}

func (u *leadUC) CreatePlanOrder(ctx context.Context, leadID string, caller Caller) (*PlanOrder, error) {
	lead, err := u.authorize(ctx, leadID, caller)
	if err != nil {
		return nil, err
	}
	if lead.PlanPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if !lead.PlanReady() {
		if !lead.ContactFeePaid {
			return nil, domain.ErrContactFeeRequired
		}
		return nil, domain.ErrCheckoutNotEnabled
	}

	// A pending order from an earlier attempt is reused rather than minting a
	// second gateway order.
	if lead.PlanOrderID != "" && lead.PlanApproveURL != "" {
		return &PlanOrder{OrderID: lead.PlanOrderID, ApproveURL: lead.PlanApproveURL}, nil
	}

	pkg, err := u.catalog.PackageForPlan(lead.EffectivePlan())
	if err != nil {
		return nil, err
	}

	order, err := u.checkout.CreateOrder(ctx, CreateCheckoutInput{
		PackageID: pkg.ID,
		Name:      lead.FullName,
		Email:     lead.Email,
		Idea:      lead.Idea,
		Amount:    lead.FinalPrice,
		ReturnURL: fmt.Sprintf("%s/leads/%s/plan/return", u.cfg.PublicBaseURL, lead.ID),
		CancelURL: fmt.Sprintf("%s/leads/%s/plan/cancel", u.cfg.PublicBaseURL, lead.ID),
	})
	if err != nil {
		return nil, err
	}

	lead.PlanOrderID = order.OrderID
	lead.PlanApproveURL = order.ApproveURL
	lead.UpdatedAt = time.Now()
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, err
	}
	return &PlanOrder{OrderID: order.OrderID, ApproveURL: order.ApproveURL}, nil
}

func (u *leadUC) CapturePlanPayment(ctx context.Context, leadID, orderID string, caller Caller) (*PlanCaptureResult, error) {
	unlock, err := u.lockCapture(ctx, leadID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	lead, err := u.authorize(ctx, leadID, caller)
	if err != nil {
		return nil, err
	}
	if lead.PlanPaid {
		return &PlanCaptureResult{Lead: lead}, nil
	}
	if lead.PlanOrderID != "" && lead.PlanOrderID != orderID {
		return nil, domain.ErrOrderMismatch
	}
	if !lead.PlanReady() {
		return nil, domain.ErrCheckoutNotEnabled
	}

	checkout, err := u.checkouts.FindByOrderID(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, err
	}

	var result *FulfillResult
	if checkout.Status == model.CheckoutStatusCaptured {
		// The gateway already captured this order; just catch the lead up.
		result = &FulfillResult{ServiceID: checkout.ServiceID, Email: checkout.Email, Whatsapp: checkout.Whatsapp}
		lead.PlanTxID = checkout.CaptureID
	} else {
		capture, err := u.gateway.CaptureOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if capture.Status != "COMPLETED" {
			return nil, domain.ErrPaymentIncomplete
		}
		txID := capture.CaptureID
		if txID == "" {
			txID = orderID
		}
		lead.PlanTxID = txID
		result, err = u.checkout.Fulfill(ctx, checkout, txID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	lead.PlanPaid = true
	lead.PlanPaidAt = &now
	lead.RecomputeStatus()
	if err := u.leads.Save(ctx, repository.NoTX, lead); err != nil {
		return nil, err
	}

	u.log.Info().Str("lead_id", lead.ID).Str("service_id", result.ServiceID).Msg("plan payment captured")
	return &PlanCaptureResult{Lead: lead, ServiceID: result.ServiceID, Captured: true}, nil
}
