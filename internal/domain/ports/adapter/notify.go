package adapter

import "context"

// Notifier delivers short operational messages (Telegram in production).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
