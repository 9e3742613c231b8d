package orders

import (
	"context"
	"errors"
	"storefront/internal/acl"
	"storefront/internal/domain/products"

	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

// ProductStore is the slice of the products domain the order flow
// touches: price/stock reads and the two counters.
type ProductStore interface {
	GetByID(ctx context.Context, id int64) (*products.Product, error)
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementPurchases(ctx context.Context, productID int64, qty int) error
}

type UserStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Stores bundles the repositories an order unit-of-work needs. The
// storage container hands out a pool-backed set and, through TxRunner,
// transaction-scoped sets.
type Stores struct {
	Orders   Store
	Products ProductStore
	Users    UserStore
}

// TxRunner executes fn against transaction-scoped stores and commits
// only if fn returns nil.
type TxRunner func(ctx context.Context, fn func(Stores) error) error

type Service struct {
	guard  *acl.Guard
	codes  *CodeGenerator
	runTx  TxRunner
	stores Stores
	logger *zap.SugaredLogger
}

func NewService(guard *acl.Guard, codes *CodeGenerator, runTx TxRunner, stores Stores, logger *zap.SugaredLogger) *Service {
	return &Service{
		guard:  guard,
		codes:  codes,
		runTx:  runTx,
		stores: stores,
		logger: logger,
	}
}

// Create prices every line against the live product, snapshots unit
// prices, decrements stock conditionally and persists the order with
// its items in one transaction. A failure on any line leaves no order
// and no stock change behind.
func (s *Service) Create(ctx context.Context, actor *acl.Actor, in CreateInput) (*Order, error) {
	if !s.guard.CanDo(actor, acl.ActionCreate, acl.ResourceOrder) {
		return nil, ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderCode: code,
		UserID:    actor.ID,
		Status:    StatusPending,
	}

	err = s.runTx(ctx, func(st Stores) error {
		var total int64
		for _, line := range in.Items {
			product, err := st.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if err := st.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
			order.Items = append(order.Items, OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total += product.Price * int64(line.Quantity)
		}
		order.TotalAmount = total
		return st.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	// Purchase counters are bookkeeping: bumped after commit so a
	// counter failure can never roll back a placed order.
	for _, it := range order.Items {
		if err := s.stores.Products.IncrementPurchases(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.Warnw("purchase counter bump failed",
				"order_code", order.OrderCode, "product_id", it.ProductID, "error", err)
		}
	}

	s.logger.Infow("order created",
		"order_code", order.OrderCode, "user_id", order.UserID, "total_amount", order.TotalAmount)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.stores.Orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, int, error) {
	return s.stores.Orders.ListAll(ctx, limit, offset)
}

// ListMine returns the actor's own orders and nothing else.
func (s *Service) ListMine(ctx context.Context, actor *acl.Actor) ([]Order, error) {
	if !s.guard.CanDo(actor, acl.ActionRead, acl.ResourceOrder) {
		return nil, ErrUnauthorized
	}
	return s.stores.Orders.ListByUser(ctx, actor.ID)
}

// Update merges the patch into the stored order. Reassigning the
// owning user requires that user to exist.
func (s *Service) Update(ctx context.Context, actor *acl.Actor, id int64, in UpdateInput) (*Order, error) {
	if !s.guard.CanDo(actor, acl.ActionUpdate, acl.ResourceOrder) {
		return nil, ErrUnauthorized
	}

	order, err := s.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.UserID != nil {
		exists, err := s.stores.Users.Exists(ctx, *in.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
		order.UserID = *in.UserID
	}
	if in.Status != nil {
		order.Status = *in.Status
	}

	if err := s.stores.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order and its items atomically.
func (s *Service) Delete(ctx context.Context, actor *acl.Actor, id int64) error {
	if !s.guard.CanDo(actor, acl.ActionDelete, acl.ResourceOrder) {
		return ErrUnauthorized
	}
	return s.runTx(ctx, func(st Stores) error {
		return st.Orders.Delete(ctx, id)
	})
}
