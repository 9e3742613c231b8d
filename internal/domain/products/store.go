package products

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/infra/dbx"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (name, slug, description, price, stock_quantity, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, total_purchases, created_at, updated_at;
	`
	err := r.q.QueryRow(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.StockQuantity, p.CategoryID).
		Scan(&p.ID, &p.TotalPurchases, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT id, name, slug, description, price, stock_quantity, total_purchases,
		       category_id, created_at, updated_at
		FROM products WHERE id = $1;
	`
	p := &Product{}
	if err := r.q.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.StockQuantity,
			&p.TotalPurchases, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	query := `
		SELECT id, name, slug, description, price, stock_quantity, total_purchases,
		       category_id, created_at, updated_at
		FROM products WHERE slug = $1;
	`
	p := &Product{}
	if err := r.q.QueryRow(ctx, query, slug).
		Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.StockQuantity,
			&p.TotalPurchases, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, name, slug, description, price, stock_quantity, total_purchases,
		       category_id, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Product
		total int
	)
	for rows.Next() {
		var p Product
		var t int
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.StockQuantity,
			&p.TotalPurchases, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt, &t); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}

func (r *Repository) Update(ctx context.Context, p *Product) (*Product, error) {
	query := `
		UPDATE products
		   SET name = COALESCE(NULLIF($1, ''), name),
		       slug = COALESCE(NULLIF($2, ''), slug),
		       description = COALESCE($3, description),
		       price = COALESCE(NULLIF($4, 0::bigint), price),
		       stock_quantity = COALESCE($5, stock_quantity),
		       category_id = COALESCE($6, category_id),
		       updated_at = now()
		 WHERE id = $7
		RETURNING id, name, slug, description, price, stock_quantity, total_purchases,
		          category_id, created_at, updated_at;
	`
	updated := &Product{}
	err := r.q.QueryRow(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.StockQuantity, p.CategoryID, p.ID).
		Scan(&updated.ID, &updated.Name, &updated.Slug, &updated.Description, &updated.Price,
			&updated.StockQuantity, &updated.TotalPurchases, &updated.CategoryID,
			&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty only while enough stock remains. Two
// concurrent orders on the same product serialize on the row; the
// loser sees zero rows affected and the whole order aborts.
func (r *Repository) DecrementStock(ctx context.Context, productID int64, qty int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products
		   SET stock_quantity = stock_quantity - $2,
		       updated_at = now()
		 WHERE id = $1 AND stock_quantity >= $2
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *Repository) IncrementPurchases(ctx context.Context, productID int64, qty int) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products
		   SET total_purchases = total_purchases + $2
		 WHERE id = $1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("increment purchases: %w", err)
	}
	return nil
}

func validateProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name cannot be empty")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("product slug cannot be empty")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("product stock cannot be negative")
	}
	return nil
}
