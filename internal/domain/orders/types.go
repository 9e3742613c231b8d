package orders

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrEmptyOrder   = errors.New("order has no items")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether callbacks may still move the order.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Order amounts are whole VND; the gateway wire format multiplies by
// 100 on its own.
type Order struct {
	ID          int64       `json:"id"`
	OrderCode   string      `json:"order_code"`
	UserID      int64       `json:"user_id"`
	Status      Status      `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	Items       []OrderItem `json:"order_items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem keeps the unit price as a snapshot taken at order time; a
// later product price change must not affect it.
type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

type CreateItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type CreateInput struct {
	Items []CreateItemInput `json:"order_items" validate:"required,min=1,dive"`
}

// UpdateInput is a partial patch; nil fields are left alone.
type UpdateInput struct {
	Status *Status `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
	UserID *int64  `json:"user_id" validate:"omitempty,gt=0"`
}

type Store interface {
	Create(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]Order, int, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)

	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error

	// Conditional transitions out of pending. They report whether a row
	// moved so callers can tell a real transition from an idempotent
	// repeat.
	MarkPaidIfPending(ctx context.Context, id int64) (bool, error)
	CancelIfPending(ctx context.Context, id int64) (bool, error)
}
