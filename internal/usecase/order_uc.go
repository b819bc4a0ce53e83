package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// CartLine is one requested product when placing an order.
type CartLine struct {
	ProductID string
	Quantity  int
}

type OrderUseCase interface {
	Place(ctx context.Context, email string, lines []CartLine, couponCode string) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Order, error)
	ListAll(ctx context.Context, offset, limit int) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id string, next model.OrderStatus, actor, reason string) (*model.Order, error)
}

type orderUC struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	coupons  repository.CouponRepository
	log      *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, coupons repository.CouponRepository, logger *zerolog.Logger) *orderUC {
	return &orderUC{orders: orders, products: products, coupons: coupons, log: logger}
}

func (u *orderUC) Place(ctx context.Context, email string, lines []CartLine, couponCode string) (*model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	var items []model.OrderItem
	var subtotal float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidArgument
		}
		p, err := u.products.FindByID(ctx, repository.NoTX, line.ProductID)
		if err != nil {
			return nil, err
		}
		total := p.Price * float64(line.Quantity)
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  line.Quantity,
			LineTotal: total,
		})
		subtotal += total
	}

	var discount float64
	couponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	if couponCode != "" {
		coupon, err := u.coupons.FindByCode(ctx, repository.NoTX, couponCode)
		if err != nil {
			return nil, err
		}
		if !coupon.Usable(time.Now()) {
			return nil, domain.ErrCouponExpired
		}
		discount = coupon.DiscountOn(subtotal)
	}

	now := time.Now()
	order := &model.Order{
		ID:         uuid.NewString(),
		Email:      email,
		Items:      items,
		Subtotal:   subtotal,
		CouponCode: couponCode,
		Discount:   discount,
		Total:      subtotal - discount,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, err
	}
	u.log.Info().Str("order_id", order.ID).Float64("total", order.Total).Msg("order placed")
	return order, nil
}

func (u *orderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.FindByID(ctx, repository.NoTX, id)
}

func (u *orderUC) ListByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	return u.orders.ListByEmail(ctx, repository.NoTX, strings.ToLower(strings.TrimSpace(email)))
}

func (u *orderUC) ListAll(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	return u.orders.ListAll(ctx, repository.NoTX, offset, limit)
}

func (u *orderUC) UpdateStatus(ctx context.Context, id string, next model.OrderStatus, actor, reason string) (*model.Order, error) {
	order, err := u.orders.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if err := order.Transition(next, actor, reason); err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, err
	}
	return order, nil
}
