package repository

import (
	"context"

	"service-sales-platform/internal/domain/model"
)

// LeadRepository persists funnel leads. Save is an upsert keyed on id.
type LeadRepository interface {
	Save(ctx context.Context, tx Tx, l *model.Lead) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Lead, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Lead, error)
	ListAll(ctx context.Context, tx Tx, offset, limit int) ([]*model.Lead, error)
}
