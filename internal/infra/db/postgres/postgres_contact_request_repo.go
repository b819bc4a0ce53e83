package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
)

var _ repository.ContactRequestRepository = (*contactRequestRepo)(nil)

type contactRequestRepo struct{ pool *pgxpool.Pool }

func NewContactRequestRepo(pool *pgxpool.Pool) *contactRequestRepo {
	return &contactRequestRepo{pool: pool}
}

const contactRequestCols = `id, package_id, name, email, message, amount, paid, paid_at, paypal_order_id, paypal_status, created_at, updated_at`

func scanContactRequest(row pgx.Row) (*model.ContactRequest, error) {
	cr := &model.ContactRequest{}
	err := row.Scan(
		&cr.ID, &cr.PackageID, &cr.Name, &cr.Email, &cr.Message, &cr.Amount,
		&cr.Paid, &cr.PaidAt, &cr.PaypalOrderID, &cr.PaypalStatus, &cr.CreatedAt, &cr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return cr, nil
}

func (r *contactRequestRepo) Save(ctx context.Context, tx repository.Tx, cr *model.ContactRequest) error {
	const q = `
INSERT INTO contact_requests (` + contactRequestCols + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  package_id=$2, name=$3, email=$4, message=$5, amount=$6, paid=$7, paid_at=$8,
  paypal_order_id=$9, paypal_status=$10, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q,
		cr.ID, cr.PackageID, cr.Name, cr.Email, cr.Message, cr.Amount,
		cr.Paid, cr.PaidAt, cr.PaypalOrderID, cr.PaypalStatus, cr.CreatedAt, cr.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *contactRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ContactRequest, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+contactRequestCols+` FROM contact_requests WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanContactRequest(row)
}

func (r *contactRequestRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.ContactRequest, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+contactRequestCols+` FROM contact_requests WHERE paypal_order_id=$1;`, orderID)
	if err != nil {
		return nil, err
	}
	return scanContactRequest(row)
}
