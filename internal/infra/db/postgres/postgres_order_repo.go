package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

// Items and the status log are stored as JSONB documents; they are only ever
// read back whole, never queried into.
const orderCols = `id, email, items, subtotal, coupon_code, discount, total, status, log, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var status string
	var items, log []byte
	err := row.Scan(
		&o.ID, &o.Email, &items, &o.Subtotal, &o.CouponCode, &o.Discount, &o.Total,
		&status, &log, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	o.Status = model.OrderStatus(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	if len(log) > 0 {
		if err := json.Unmarshal(log, &o.Log); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return o, nil
}

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.ErrOperationFailed
	}
	log, err := json.Marshal(o.Log)
	if err != nil {
		return domain.ErrOperationFailed
	}

	const q = `
INSERT INTO orders (` + orderCols + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  email=$2, items=$3, subtotal=$4, coupon_code=$5, discount=$6, total=$7, status=$8, log=$9, updated_at=$11;`

	_, err = execSQL(ctx, r.pool, tx, q,
		o.ID, o.Email, items, o.Subtotal, o.CouponCode, o.Discount, o.Total,
		string(o.Status), log, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+orderCols+` FROM orders WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Order, error) {
	return r.list(ctx, tx, `SELECT `+orderCols+` FROM orders WHERE email=$1 ORDER BY created_at DESC;`, email)
}

func (r *orderRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, tx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2;`, offset, limit)
}

func (r *orderRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Order, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
