package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
)

var _ repository.CheckoutRepository = (*checkoutRepo)(nil)

type checkoutRepo struct{ pool *pgxpool.Pool }

func NewCheckoutRepo(pool *pgxpool.Pool) *checkoutRepo {
	return &checkoutRepo{pool: pool}
}

const checkoutCols = `id, order_id, package_id, package_name, name, email, whatsapp, alternate_email, idea,
amount, currency, status, capture_id, service_id, created_at, updated_at`

func scanCheckout(row pgx.Row) (*model.ServiceCheckout, error) {
	c := &model.ServiceCheckout{}
	var status string
	err := row.Scan(
		&c.ID, &c.OrderID, &c.PackageID, &c.PackageName, &c.Name, &c.Email, &c.Whatsapp, &c.AlternateEmail, &c.Idea,
		&c.Amount, &c.Currency, &status, &c.CaptureID, &c.ServiceID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Status = model.CheckoutStatus(status)
	return c, nil
}

func (r *checkoutRepo) Save(ctx context.Context, tx repository.Tx, c *model.ServiceCheckout) error {
	const q = `
INSERT INTO service_checkouts (` + checkoutCols + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
) ON CONFLICT (id) DO UPDATE SET
  order_id=$2, package_id=$3, package_name=$4, name=$5, email=$6, whatsapp=$7, alternate_email=$8, idea=$9,
  amount=$10, currency=$11, status=$12, capture_id=$13, service_id=$14, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.OrderID, c.PackageID, c.PackageName, c.Name, c.Email, c.Whatsapp, c.AlternateEmail, c.Idea,
		c.Amount, c.Currency, string(c.Status), c.CaptureID, c.ServiceID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *checkoutRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ServiceCheckout, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+checkoutCols+` FROM service_checkouts WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanCheckout(row)
}

func (r *checkoutRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.ServiceCheckout, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+checkoutCols+` FROM service_checkouts WHERE order_id=$1;`, orderID)
	if err != nil {
		return nil, err
	}
	return scanCheckout(row)
}

// MarkCaptured flips created -> captured only when the row is still in
// created; the caller that sees one affected row won the transition.
func (r *checkoutRepo) MarkCaptured(ctx context.Context, tx repository.Tx, id, captureID string) (bool, error) {
	const q = `
UPDATE service_checkouts SET status='captured', capture_id=$2, updated_at=NOW()
WHERE id=$1 AND status='created';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, captureID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *checkoutRepo) ListStaleCreated(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.ServiceCheckout, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT ` + checkoutCols + ` FROM service_checkouts
WHERE status='created' AND order_id <> '' AND created_at < $1
ORDER BY created_at ASC LIMIT $2;`

	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.ServiceCheckout
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
