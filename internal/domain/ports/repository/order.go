package repository

import (
	"context"

	"service-sales-platform/internal/domain/model"
)

// OrderRepository persists storefront orders including their status log.
type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	ListByEmail(ctx context.Context, tx Tx, email string) ([]*model.Order, error)
	ListAll(ctx context.Context, tx Tx, offset, limit int) ([]*model.Order, error)
}

// CouponRepository persists discount codes.
type CouponRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Coupon) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Coupon, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Coupon, error)
}
