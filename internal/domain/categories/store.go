package categories

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/infra/dbx"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrHasProducts = errors.New("category has associated products")
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, c *Category) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, limit, offset int) ([]*Category, int, error)
	Update(ctx context.Context, c *Category) (*Category, error)
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) Create(ctx context.Context, c *Category) (*Category, error) {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at;
	`
	if err := r.q.QueryRow(ctx, query, c.Name, c.Slug, c.Description).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories WHERE id = $1;
	`
	c := &Category{}
	if err := r.q.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, name, slug, description, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM categories
		ORDER BY id
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Category
		total int
	)
	for rows.Next() {
		var c Category
		var t int
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &t); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}

func (r *Repository) Update(ctx context.Context, c *Category) (*Category, error) {
	query := `
		UPDATE categories
		   SET name = COALESCE(NULLIF($1, ''), name),
		       slug = COALESCE(NULLIF($2, ''), slug),
		       description = COALESCE($3, description),
		       updated_at = now()
		 WHERE id = $4
		RETURNING id, name, slug, description, created_at, updated_at;
	`
	updated := &Category{}
	if err := r.q.QueryRow(ctx, query, c.Name, c.Slug, c.Description, c.ID).
		Scan(&updated.ID, &updated.Name, &updated.Slug, &updated.Description,
			&updated.CreatedAt, &updated.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasProducts
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
