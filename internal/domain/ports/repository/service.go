package repository

import (
	"context"

	"service-sales-platform/internal/domain/model"
)

// ServiceFilter narrows admin service listings. Zero values mean "any".
type ServiceFilter struct {
	Email  string
	Status model.ServiceStatus
	Offset int
	Limit  int
}

// ServiceRepository persists provisioned services.
type ServiceRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Service) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Service, error)
	FindBySubscriptionID(ctx context.Context, tx Tx, subID string) (*model.Service, error)
	ListByEmail(ctx context.Context, tx Tx, email string) ([]*model.Service, error)
	List(ctx context.Context, tx Tx, f ServiceFilter) ([]*model.Service, error)
}
