package products

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateSlug     = errors.New("product with this slug already exists")
)

// Product prices are whole VND, like order totals.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	Price          int64     `json:"price"`
	StockQuantity  int       `json:"stock_quantity"`
	TotalPurchases int64     `json:"total_purchases"`
	CategoryID     *int64    `json:"category_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]*Product, int, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id int64) error

	// DecrementStock is the one concurrency-sensitive mutation in the
	// system: a conditional UPDATE that only succeeds while enough
	// stock remains, never a read-then-write.
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementPurchases(ctx context.Context, productID int64, qty int) error
}
