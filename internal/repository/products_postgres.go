package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	selectProductColumns = `SELECT id, name, price::text, discount_percentage::text, poster_pricing, created_at, updated_at FROM products`

	upsertProductSQL = `
INSERT INTO products (id, name, price, discount_percentage, poster_pricing, created_at, updated_at)
VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5::jsonb, $6, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    discount_percentage = EXCLUDED.discount_percentage,
    poster_pricing = EXCLUDED.poster_pricing,
    updated_at = EXCLUDED.updated_at`
)

// PostgresProductRepository stores products in PostgreSQL.
type PostgresProductRepository struct {
	pool PostgresPool
	now  func() time.Time
}

// NewPostgresProductRepository creates a product repository over pool.
func NewPostgresProductRepository(pool PostgresPool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool, now: time.Now}
}

// Get returns the product with id or ErrNotFound.
func (r *PostgresProductRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	row := r.pool.QueryRow(ctx, selectProductColumns+` WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// List returns products ordered by name.
func (r *PostgresProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := selectProductColumns + ` ORDER BY name, id OFFSET $1`
	args := []any{offset}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Upsert inserts or updates the product.
func (r *PostgresProductRepository) Upsert(ctx context.Context, product *model.Product) error {
	var posterPricing []byte
	if len(product.PosterPricing) > 0 {
		var err error
		if posterPricing, err = json.Marshal(product.PosterPricing); err != nil {
			return fmt.Errorf("encode poster pricing: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, upsertProductSQL,
		product.ID,
		product.Name,
		product.Price.String(),
		product.DiscountPercentage.String(),
		posterPricing,
		r.now().UTC(),
	)
	return err
}

// Delete removes the product or returns ErrNotFound.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HealthCheck pings the database.
func (r *PostgresProductRepository) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx)
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p               model.Product
		price, discount string
		posterPricing   []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &discount, &posterPricing, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("product %s price: %w", p.ID, err)
	}
	if p.DiscountPercentage, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("product %s discount: %w", p.ID, err)
	}
	if len(posterPricing) > 0 {
		if err := json.Unmarshal(posterPricing, &p.PosterPricing); err != nil {
			return nil, fmt.Errorf("product %s poster pricing: %w", p.ID, err)
		}
	}
	return &p, nil
}
