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

var _ repository.LeadRepository = (*leadRepo)(nil)

type leadRepo struct{ pool *pgxpool.Pool }

func NewLeadRepo(pool *pgxpool.Pool) *leadRepo {
	return &leadRepo{pool: pool}
}

const leadCols = `id, user_id, access_token, full_name, email, selected_plan, idea,
contact_fee_amount, contact_fee_paid, contact_fee_paid_at, contact_fee_order_id, contact_fee_approve_url, contact_fee_tx_id, whatsapp_unlocked,
checkout_enabled, enabled_at, enabled_by, agreed_plan, plan_base_price, discount_amount, final_price,
plan_order_id, plan_approve_url, plan_tx_id, plan_paid, plan_paid_at, status, created_at, updated_at`

func scanLead(row pgx.Row) (*model.Lead, error) {
	l := &model.Lead{}
	var selectedPlan, agreedPlan, status string
	err := row.Scan(
		&l.ID, &l.UserID, &l.AccessToken, &l.FullName, &l.Email, &selectedPlan, &l.Idea,
		&l.ContactFeeAmount, &l.ContactFeePaid, &l.ContactFeePaidAt, &l.ContactFeeOrderID, &l.ContactFeeApproveURL, &l.ContactFeeTxID, &l.WhatsappUnlocked,
		&l.CheckoutEnabled, &l.EnabledAt, &l.EnabledBy, &agreedPlan, &l.PlanBasePrice, &l.DiscountAmount, &l.FinalPrice,
		&l.PlanOrderID, &l.PlanApproveURL, &l.PlanTxID, &l.PlanPaid, &l.PlanPaidAt, &status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	l.SelectedPlan = model.Plan(selectedPlan)
	l.AgreedPlan = model.Plan(agreedPlan)
	l.Status = model.LeadStatus(status)
	return l, nil
}

func (r *leadRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lead) error {
	const q = `
INSERT INTO leads (` + leadCols + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29
) ON CONFLICT (id) DO UPDATE SET
  user_id=$2, access_token=$3, full_name=$4, email=$5, selected_plan=$6, idea=$7,
  contact_fee_amount=$8, contact_fee_paid=$9, contact_fee_paid_at=$10, contact_fee_order_id=$11, contact_fee_approve_url=$12, contact_fee_tx_id=$13, whatsapp_unlocked=$14,
  checkout_enabled=$15, enabled_at=$16, enabled_by=$17, agreed_plan=$18, plan_base_price=$19, discount_amount=$20, final_price=$21,
  plan_order_id=$22, plan_approve_url=$23, plan_tx_id=$24, plan_paid=$25, plan_paid_at=$26, status=$27, updated_at=$29;`

	_, err := execSQL(ctx, r.pool, tx, q,
		l.ID, l.UserID, l.AccessToken, l.FullName, l.Email, string(l.SelectedPlan), l.Idea,
		l.ContactFeeAmount, l.ContactFeePaid, l.ContactFeePaidAt, l.ContactFeeOrderID, l.ContactFeeApproveURL, l.ContactFeeTxID, l.WhatsappUnlocked,
		l.CheckoutEnabled, l.EnabledAt, l.EnabledBy, string(l.AgreedPlan), l.PlanBasePrice, l.DiscountAmount, l.FinalPrice,
		l.PlanOrderID, l.PlanApproveURL, l.PlanTxID, l.PlanPaid, l.PlanPaidAt, string(l.Status), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *leadRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lead, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+leadCols+` FROM leads WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanLead(row)
}

func (r *leadRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Lead, error) {
	return r.list(ctx, tx, `SELECT `+leadCols+` FROM leads WHERE user_id=$1 ORDER BY created_at DESC;`, userID)
}

func (r *leadRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, tx, `SELECT `+leadCols+` FROM leads ORDER BY created_at DESC OFFSET $1 LIMIT $2;`, offset, limit)
}

func (r *leadRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Lead, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
