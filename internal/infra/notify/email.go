package notify

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/infra/metrics"
)

var _ adapter.Mailer = (*PostmarkMailer)(nil)

// PostmarkMailer sends transactional mail through Postmark.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) (*PostmarkMailer, error) {
	if serverToken == "" || from == "" {
		return nil, fmt.Errorf("postmark mailer: server token and sender address are required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}, nil
}

func (m *PostmarkMailer) Send(ctx context.Context, to, subject, body string) error {
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		metrics.IncNotification("email", "error")
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		metrics.IncNotification("email", "error")
		return fmt.Errorf("postmark send: %d %s", resp.ErrorCode, resp.Message)
	}
	metrics.IncNotification("email", "ok")
	return nil
}

var _ adapter.Mailer = (*NoopMailer)(nil)

// NoopMailer is used when no Postmark token is configured.
type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, to, subject, body string) error { return nil }
