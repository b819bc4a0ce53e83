package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
)

var _ repository.ServiceRepository = (*serviceRepo)(nil)

type serviceRepo struct{ pool *pgxpool.Pool }

func NewServiceRepo(pool *pgxpool.Pool) *serviceRepo {
	return &serviceRepo{pool: pool}
}

const serviceCols = `id, email, domain, package_id, package_name, status, payment_id, provider,
subscription_id, subscription_status, subscription_approve_url, subscription_created_at,
trial_start_at, trial_end_at, last_payment_at, created_at, updated_at`

func scanService(row pgx.Row) (*model.Service, error) {
	s := &model.Service{}
	var status, subStatus string
	err := row.Scan(
		&s.ID, &s.Email, &s.Domain, &s.PackageID, &s.PackageName, &status, &s.PaymentID, &s.Provider,
		&s.SubscriptionID, &subStatus, &s.SubscriptionApproveURL, &s.SubscriptionCreatedAt,
		&s.TrialStartAt, &s.TrialEndAt, &s.LastPaymentAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.ServiceStatus(status)
	s.SubscriptionStatus = model.SubscriptionStatus(subStatus)
	return s, nil
}

func (r *serviceRepo) Save(ctx context.Context, tx repository.Tx, s *model.Service) error {
	const q = `
INSERT INTO services (` + serviceCols + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17
) ON CONFLICT (id) DO UPDATE SET
  email=$2, domain=$3, package_id=$4, package_name=$5, status=$6, payment_id=$7, provider=$8,
  subscription_id=$9, subscription_status=$10, subscription_approve_url=$11, subscription_created_at=$12,
  trial_start_at=$13, trial_end_at=$14, last_payment_at=$15, updated_at=$17;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.Email, s.Domain, s.PackageID, s.PackageName, string(s.Status), s.PaymentID, s.Provider,
		s.SubscriptionID, string(s.SubscriptionStatus), s.SubscriptionApproveURL, s.SubscriptionCreatedAt,
		s.TrialStartAt, s.TrialEndAt, s.LastPaymentAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *serviceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Service, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+serviceCols+` FROM services WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanService(row)
}

func (r *serviceRepo) FindBySubscriptionID(ctx context.Context, tx repository.Tx, subID string) (*model.Service, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+serviceCols+` FROM services WHERE subscription_id=$1;`, subID)
	if err != nil {
		return nil, err
	}
	return scanService(row)
}

func (r *serviceRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Service, error) {
	return r.list(ctx, tx, `SELECT `+serviceCols+` FROM services WHERE email=$1 ORDER BY created_at DESC;`, email)
}

func (r *serviceRepo) List(ctx context.Context, tx repository.Tx, f repository.ServiceFilter) ([]*model.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM services WHERE 1=1`
	args := []interface{}{}
	if f.Email != "" {
		args = append(args, f.Email)
		q += fmt.Sprintf(" AND email=$%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, f.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d", len(args))
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d;", len(args))
	return r.list(ctx, tx, q, args...)
}

func (r *serviceRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Service, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
