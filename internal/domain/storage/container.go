// Package storage wires the per-domain repositories to a shared pgx
// pool and provides the transactional unit of work used by the order
// and payment flows.
package storage

import (
	"context"
	"fmt"

	"storefront/internal/domain/blogs"
	"storefront/internal/domain/categories"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
	"storefront/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool *pgxpool.Pool

	Users      users.Store
	Products   products.Store
	Categories categories.Store
	Blogs      blogs.Store
	Orders     orders.Store
}

func NewContainer(pool *pgxpool.Pool) *Container {
	return &Container{
		pool:       pool,
		Users:      users.NewRepository(pool),
		Products:   products.NewRepository(pool),
		Categories: categories.NewRepository(pool),
		Blogs:      blogs.NewRepository(pool),
		Orders:     orders.NewRepository(pool),
	}
}

// OrderStores returns the pool-backed store set for non-transactional
// order reads and post-commit bookkeeping.
func (c *Container) OrderStores() orders.Stores {
	return orders.Stores{
		Orders:   c.Orders,
		Products: c.Products,
		Users:    c.Users,
	}
}

// WithOrderTx runs fn against repositories bound to a single
// transaction. The transaction commits only when fn returns nil;
// any error rolls back every statement fn issued.
func (c *Container) WithOrderTx(ctx context.Context, fn func(orders.Stores) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	st := orders.Stores{
		Orders:   orders.NewRepository(tx),
		Products: products.NewRepository(tx),
		Users:    users.NewRepository(tx),
	}
	if err := fn(st); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
