package repository

import (
	"context"

	"service-sales-platform/internal/domain/model"
)

// ProductRepository persists the storefront catalog.
type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	List(ctx context.Context, tx Tx, categoryID string, offset, limit int) ([]*model.Product, error)
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Category) error
	ListAll(ctx context.Context, tx Tx) ([]*model.Category, error)
}
