package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/domain/orders"

	"go.uber.org/zap"
)

var (
	ErrOrderNotFound = errors.New("order for transaction not found")
	ErrBadSignature  = errors.New("payment callback signature mismatch")
)

// OrderStore is the slice of the orders domain reconciliation needs.
type OrderStore interface {
	GetByCode(ctx context.Context, code string) (*orders.Order, error)
	MarkPaidIfPending(ctx context.Context, id int64) (bool, error)
	CancelIfPending(ctx context.Context, id int64) (bool, error)
}

// CallbackResult tells the HTTP layer where to send the customer and
// whether the order transitioned to paid on this callback.
type CallbackResult struct {
	RedirectURL string
	Paid        bool
	Order       *orders.Order
}

type Service struct {
	cfg    Config
	store  OrderStore
	logger *zap.SugaredLogger
	now    func() time.Time
	loc    *time.Location
}

func NewService(cfg Config, store OrderStore, logger *zap.SugaredLogger) *Service {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
		loc:    loc,
	}
}

// CreatePaymentURL builds the signed redirect URL that sends the
// customer to the gateway's hosted payment page for the given order.
func (s *Service) CreatePaymentURL(ctx context.Context, orderCode, clientIP string) (string, error) {
	order, err := s.store.GetByCode(ctx, orderCode)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}

	params := map[string]string{
		FieldVersion:    Version,
		FieldCommand:    CommandPay,
		FieldTmnCode:    s.cfg.TmnCode,
		FieldLocale:     Locale,
		FieldCurrCode:   CurrCode,
		FieldTxnRef:     order.OrderCode,
		FieldOrderInfo:  "Thanh toan cho ma don hang: " + order.OrderCode,
		FieldOrderType:  OrderType,
		FieldAmount:     strconv.FormatInt(order.TotalAmount*100, 10),
		FieldReturnURL:  s.cfg.ReturnURL,
		FieldIPAddr:     clientIP,
		FieldCreateDate: s.now().In(s.loc).Format(dateLayout),
	}

	query := Canonicalize(params)
	signature := Sign(s.cfg.HashSecret, params)

	s.logger.Infow("payment url issued",
		"order_code", order.OrderCode, "amount", order.TotalAmount, "client_ip", clientIP)

	return fmt.Sprintf("%s?%s&%s=%s", s.cfg.BaseURL, query, FieldSecureHash, signature), nil
}

// HandleCallback reconciles a gateway return callback against the
// referenced order. A callback whose signature does not verify never
// mutates anything. Verified callbacks settle the order exactly once:
// replays after the first settlement are acknowledged without effect.
func (s *Service) HandleCallback(ctx context.Context, params map[string]string) (*CallbackResult, error) {
	signature := params[FieldSecureHash]
	if !Verify(s.cfg.HashSecret, params, signature) {
		s.logger.Warnw("payment callback rejected", "reason", "signature mismatch",
			"order_code", params[FieldTxnRef])
		return nil, ErrBadSignature
	}

	orderCode := params[FieldTxnRef]
	order, err := s.store.GetByCode(ctx, orderCode)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			// Anomaly: a validly signed callback for an order we do
			// not have. Record it, leave state alone and send the
			// customer to the failure page with no order to name.
			s.logger.Warnw("payment callback for unknown order", "order_code", orderCode)
			return &CallbackResult{
				RedirectURL: fmt.Sprintf("%s/0?status_code=%s",
					s.cfg.FailPage, params[FieldTransactionStatus]),
				Paid: false,
			}, nil
		}
		return nil, err
	}

	// The wire amount is the order total times 100, exactly. Comparing
	// after division would let any amount within 99 of the real value
	// pass.
	amount, err := strconv.ParseInt(params[FieldAmount], 10, 64)
	amountOK := err == nil && amount == order.TotalAmount*100
	responseOK := params[FieldResponseCode] == SuccessCode

	if amountOK && responseOK {
		paid, err := s.store.MarkPaidIfPending(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if paid {
			s.logger.Infow("order paid", "order_code", order.OrderCode, "amount", order.TotalAmount)
		} else {
			s.logger.Infow("payment callback replayed", "order_code", order.OrderCode,
				"status", order.Status)
		}
		return &CallbackResult{
			RedirectURL: fmt.Sprintf("%s/%d?status_code=%s",
				s.cfg.SuccessPage, order.ID, params[FieldTransactionStatus]),
			Paid:  paid,
			Order: order,
		}, nil
	}

	cancelled, err := s.store.CancelIfPending(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if cancelled {
		s.logger.Infow("order cancelled by gateway", "order_code", order.OrderCode,
			"response_code", params[FieldResponseCode], "amount_match", amountOK)
	}
	return &CallbackResult{
		RedirectURL: fmt.Sprintf("%s/%d?status_code=%s",
			s.cfg.FailPage, order.ID, params[FieldTransactionStatus]),
		Paid:  false,
		Order: order,
	}, nil
}
