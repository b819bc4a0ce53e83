package repository

import (
	"context"

	"service-sales-platform/internal/domain/model"
)

// ContactRequestRepository persists standalone contact-unlock requests.
type ContactRequestRepository interface {
	Save(ctx context.Context, tx Tx, cr *model.ContactRequest) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ContactRequest, error)
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.ContactRequest, error)
}
