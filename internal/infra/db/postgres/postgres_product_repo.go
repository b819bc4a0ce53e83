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

var (
	_ repository.ProductRepository  = (*productRepo)(nil)
	_ repository.CategoryRepository = (*categoryRepo)(nil)
)

type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

const productCols = `id, category_id, name, description, price, image_url, in_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	const q = `
INSERT INTO products (` + productCols + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  category_id=$2, name=$3, description=$4, price=$5, image_url=$6, in_stock=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+productCols+` FROM products WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) List(ctx context.Context, tx repository.Tx, categoryID string, offset, limit int) ([]*model.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + productCols + ` FROM products`
	args := []interface{}{}
	if categoryID != "" {
		args = append(args, categoryID)
		q += ` WHERE category_id=$1`
	}
	args = append(args, offset, limit)
	if categoryID != "" {
		q += ` ORDER BY created_at DESC OFFSET $2 LIMIT $3;`
	} else {
		q += ` ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	}

	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type categoryRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepo(pool *pgxpool.Pool) *categoryRepo {
	return &categoryRepo{pool: pool}
}

func (r *categoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	const q = `
INSERT INTO categories (id, name, slug, created_at) VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET name=$2, slug=$3;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Slug, c.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *categoryRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT id, name, slug, created_at FROM categories ORDER BY name;`)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, nil
}
