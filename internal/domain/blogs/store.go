package blogs

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/infra/dbx"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("blog post not found")

type Blog struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, b *Blog) (*Blog, error)
	GetByID(ctx context.Context, id int64) (*Blog, error)
	List(ctx context.Context, limit, offset int) ([]*Blog, int, error)
	Update(ctx context.Context, b *Blog) (*Blog, error)
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) Create(ctx context.Context, b *Blog) (*Blog, error) {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO blogs (title, slug, content, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`, b.Title, b.Slug, b.Content, b.AuthorID).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return b, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Blog, error) {
	b := &Blog{}
	err := r.q.QueryRow(ctx, `
		SELECT id, title, slug, content, author_id, created_at, updated_at
		FROM blogs WHERE id = $1;
	`, id).Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return b, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Blog, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, title, slug, content, author_id, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM blogs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Blog
		total int
	)
	for rows.Next() {
		var b Blog
		var t int
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.AuthorID,
			&b.CreatedAt, &b.UpdatedAt, &t); err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}

func (r *Repository) Update(ctx context.Context, b *Blog) (*Blog, error) {
	updated := &Blog{}
	err := r.q.QueryRow(ctx, `
		UPDATE blogs
		   SET title = COALESCE(NULLIF($1, ''), title),
		       slug = COALESCE(NULLIF($2, ''), slug),
		       content = COALESCE(NULLIF($3, ''), content),
		       updated_at = now()
		 WHERE id = $4
		RETURNING id, title, slug, content, author_id, created_at, updated_at;
	`, b.Title, b.Slug, b.Content, b.ID).
		Scan(&updated.ID, &updated.Title, &updated.Slug, &updated.Content,
			&updated.AuthorID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM blogs WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
