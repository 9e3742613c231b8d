package orders

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

// Create inserts the order row and its items. Callers that need the
// insert to be atomic with stock mutations run it inside a
// transaction-scoped repository.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}

	if err := r.q.QueryRow(ctx, `
		INSERT INTO orders (order_code, user_id, status, total_amount)
		VALUES ($1, $2, $3::order_status, $4)
		RETURNING id, created_at, updated_at
	`, o.OrderCode, o.UserID, o.Status, o.TotalAmount).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if err := r.q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice).
			Scan(&it.ID); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.q.QueryRow(ctx, `
		SELECT id, order_code, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.OrderCode, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*Order, error) {
	var o Order
	err := r.q.QueryRow(ctx, `
		SELECT id, order_code, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE order_code = $1
	`, code).Scan(&o.ID, &o.OrderCode, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order by code: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_code, user_id, status, total_amount, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		out   []Order
		total int
	)
	for rows.Next() {
		var o Order
		var t int
		if err := rows.Scan(&o.ID, &o.OrderCode, &o.UserID, &o.Status, &o.TotalAmount,
			&o.CreatedAt, &o.UpdatedAt, &t); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_code, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderCode, &o.UserID, &o.Status, &o.TotalAmount,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, o *Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders
		   SET status = $2::order_status,
		       user_id = $3,
		       updated_at = now()
		 WHERE id = $1
	`, o.ID, o.Status, o.UserID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order and its items. Items go first; the order
// owns them.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaidIfPending flips pending -> paid. Zero rows affected means
// the order was already terminal (or absent): the idempotent-repeat
// case for duplicate gateway callbacks.
func (r *Repository) MarkPaidIfPending(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders
		   SET status = 'paid'::order_status, updated_at = now()
		 WHERE id = $1 AND status = 'pending'::order_status
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// CancelIfPending flips pending -> cancelled with the same
// conditional-update discipline.
func (r *Repository) CancelIfPending(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders
		   SET status = 'cancelled'::order_status, updated_at = now()
		 WHERE id = $1 AND status = 'pending'::order_status
	`, id)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
