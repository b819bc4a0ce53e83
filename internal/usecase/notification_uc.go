package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase fans out best-effort notifications after successful
// payment captures. Delivery failures are logged and swallowed; they never
// block payment confirmation.
type NotificationUseCase interface {
	ServiceProvisioned(ctx context.Context, svc *model.Service, checkout *model.ServiceCheckout)
	ContactUnlocked(ctx context.Context, lead *model.Lead)
}

type notificationUC struct {
	notifier adapter.Notifier
	mailer   adapter.Mailer
	from     string
	log      *zerolog.Logger
}

func NewNotificationUseCase(notifier adapter.Notifier, mailer adapter.Mailer, from string, logger *zerolog.Logger) *notificationUC {
	return &notificationUC{notifier: notifier, mailer: mailer, from: from, log: logger}
}

func (n *notificationUC) ServiceProvisioned(ctx context.Context, svc *model.Service, checkout *model.ServiceCheckout) {
	text := fmt.Sprintf("New service purchase: %s (%s) by %s <%s>, amount %.2f %s",
		checkout.PackageName, svc.ID, checkout.Name, checkout.Email, checkout.Amount, checkout.Currency)
	if n.notifier != nil {
		if err := n.notifier.Notify(ctx, text); err != nil {
			n.log.Warn().Err(err).Str("service_id", svc.ID).Msg("telegram notify failed")
		}
	}
	if n.mailer != nil && checkout.Email != "" {
		body := fmt.Sprintf("Thanks %s!\n\nYour %s package is being set up. We will reach out on WhatsApp shortly.",
			checkout.Name, checkout.PackageName)
		if err := n.mailer.Send(ctx, checkout.Email, "Your purchase is confirmed", body); err != nil {
			n.log.Warn().Err(err).Str("service_id", svc.ID).Msg("email notify failed")
		}
	}
}

func (n *notificationUC) ContactUnlocked(ctx context.Context, lead *model.Lead) {
	if n.notifier == nil {
		return
	}
	text := fmt.Sprintf("Contact fee paid: lead %s (%s, plan %s)", lead.ID, lead.Email, lead.SelectedPlan)
	if err := n.notifier.Notify(ctx, text); err != nil {
		n.log.Warn().Err(err).Str("lead_id", lead.ID).Msg("telegram notify failed")
	}
}
