package payments

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/orders"

	"go.uber.org/zap"
)

type stubOrderStore struct {
	getByCodeFn         func(context.Context, string) (*orders.Order, error)
	markPaidIfPendingFn func(context.Context, int64) (bool, error)
	cancelIfPendingFn   func(context.Context, int64) (bool, error)
}

func (s *stubOrderStore) GetByCode(ctx context.Context, code string) (*orders.Order, error) {
	return s.getByCodeFn(ctx, code)
}

func (s *stubOrderStore) MarkPaidIfPending(ctx context.Context, id int64) (bool, error) {
	if s.markPaidIfPendingFn == nil {
		panic("not implemented")
	}
	return s.markPaidIfPendingFn(ctx, id)
}

func (s *stubOrderStore) CancelIfPending(ctx context.Context, id int64) (bool, error) {
	if s.cancelIfPendingFn == nil {
		panic("not implemented")
	}
	return s.cancelIfPendingFn(ctx, id)
}

func testConfig() Config {
	return Config{
		BaseURL:     "https://gateway.example.com/paymentv2/vpcpay.html",
		TmnCode:     "TESTTMN",
		HashSecret:  "supersecret",
		ReturnURL:   "https://shop.example.com/payment/vnpay-return",
		SuccessPage: "https://shop.example.com/payment/success",
		FailPage:    "https://shop.example.com/payment/fail",
	}
}

func testOrder() *orders.Order {
	return &orders.Order{
		ID:          42,
		OrderCode:   "ORD2AB3CD4EF5GH6",
		UserID:      7,
		Status:      orders.StatusPending,
		TotalAmount: 150000,
	}
}

func newTestService(store OrderStore) *Service {
	svc := NewService(testConfig(), store, zap.NewNop().Sugar())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	}
	return svc
}

func TestCreatePaymentURL(t *testing.T) {
	order := testOrder()
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(_ context.Context, code string) (*orders.Order, error) {
			if code != order.OrderCode {
				t.Fatalf("looked up order %q, want %q", code, order.OrderCode)
			}
			return order, nil
		},
	})

	raw, err := svc.CreatePaymentURL(context.Background(), order.OrderCode, "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(raw, testConfig().BaseURL+"?") {
		t.Fatalf("url %q does not target the gateway base", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparseable url: %v", err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		t.Fatalf("unparseable query: %v", err)
	}

	want := map[string]string{
		FieldVersion:   Version,
		FieldCommand:   CommandPay,
		FieldTmnCode:   "TESTTMN",
		FieldLocale:    Locale,
		FieldCurrCode:  CurrCode,
		FieldTxnRef:    order.OrderCode,
		FieldOrderInfo: "Thanh toan cho ma don hang: " + order.OrderCode,
		FieldOrderType: OrderType,
		FieldAmount:    "15000000",
		FieldReturnURL: testConfig().ReturnURL,
		FieldIPAddr:    "203.0.113.9",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if q.Get(FieldCreateDate) == "" {
		t.Error("missing " + FieldCreateDate)
	}

	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	if !Verify(testConfig().HashSecret, params, q.Get(FieldSecureHash)) {
		t.Fatal("issued url carries an unverifiable signature")
	}
}

func TestCreatePaymentURLUnknownOrder(t *testing.T) {
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) {
			return nil, orders.ErrNotFound
		},
	})
	if _, err := svc.CreatePaymentURL(context.Background(), "NOPE", "203.0.113.9"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func signedCallback(t *testing.T, order *orders.Order, responseCode, txnStatus string) map[string]string {
	t.Helper()
	params := map[string]string{
		FieldTxnRef:            order.OrderCode,
		FieldAmount:            "15000000",
		FieldResponseCode:      responseCode,
		FieldTransactionStatus: txnStatus,
	}
	params[FieldSecureHash] = Sign(testConfig().HashSecret, params)
	return params
}

func TestHandleCallbackMarksOrderPaid(t *testing.T) {
	order := testOrder()
	var markedID int64
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) { return order, nil },
		markPaidIfPendingFn: func(_ context.Context, id int64) (bool, error) {
			markedID = id
			return true, nil
		},
	})

	res, err := svc.HandleCallback(context.Background(), signedCallback(t, order, "00", "00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Paid {
		t.Fatal("expected order to be settled as paid")
	}
	if markedID != order.ID {
		t.Fatalf("marked order %d, want %d", markedID, order.ID)
	}
	want := testConfig().SuccessPage + "/42?status_code=00"
	if res.RedirectURL != want {
		t.Fatalf("redirect = %q, want %q", res.RedirectURL, want)
	}
}

func TestHandleCallbackReplayIsNoOp(t *testing.T) {
	order := testOrder()
	order.Status = orders.StatusPaid
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) { return order, nil },
		markPaidIfPendingFn: func(context.Context, int64) (bool, error) {
			return false, nil
		},
	})

	res, err := svc.HandleCallback(context.Background(), signedCallback(t, order, "00", "00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid {
		t.Fatal("replayed callback reported a fresh settlement")
	}
	want := testConfig().SuccessPage + "/42?status_code=00"
	if res.RedirectURL != want {
		t.Fatalf("redirect = %q, want %q", res.RedirectURL, want)
	}
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
	order := testOrder()
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) {
			t.Fatal("order looked up despite bad signature")
			return nil, nil
		},
	})

	params := signedCallback(t, order, "00", "00")
	params[FieldAmount] = "1"
	if _, err := svc.HandleCallback(context.Background(), params); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestHandleCallbackGatewayFailureCancels(t *testing.T) {
	order := testOrder()
	var cancelledID int64
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) { return order, nil },
		cancelIfPendingFn: func(_ context.Context, id int64) (bool, error) {
			cancelledID = id
			return true, nil
		},
	})

	res, err := svc.HandleCallback(context.Background(), signedCallback(t, order, "24", "02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid {
		t.Fatal("failed transaction reported as paid")
	}
	if cancelledID != order.ID {
		t.Fatalf("cancelled order %d, want %d", cancelledID, order.ID)
	}
	want := testConfig().FailPage + "/42?status_code=02"
	if res.RedirectURL != want {
		t.Fatalf("redirect = %q, want %q", res.RedirectURL, want)
	}
}

func TestHandleCallbackAmountMismatchCancels(t *testing.T) {
	order := testOrder()
	cancelled := false
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) { return order, nil },
		cancelIfPendingFn: func(context.Context, int64) (bool, error) {
			cancelled = true
			return true, nil
		},
	})

	// Signed by someone who knows the secret but quotes the wrong
	// amount, e.g. a stale or cross-order callback.
	params := map[string]string{
		FieldTxnRef:            order.OrderCode,
		FieldAmount:            "999900",
		FieldResponseCode:      "00",
		FieldTransactionStatus: "00",
	}
	params[FieldSecureHash] = Sign(testConfig().HashSecret, params)

	res, err := svc.HandleCallback(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid || !cancelled {
		t.Fatal("amount mismatch must cancel, not settle")
	}
}

// A wire amount that truncates to the right total must still fail:
// 15000050/100 == 150000, but it is not 150000*100.
func TestHandleCallbackNearMissAmountCancels(t *testing.T) {
	order := testOrder()
	cancelled := false
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) { return order, nil },
		markPaidIfPendingFn: func(context.Context, int64) (bool, error) {
			t.Fatal("order settled on a mismatched amount")
			return false, nil
		},
		cancelIfPendingFn: func(context.Context, int64) (bool, error) {
			cancelled = true
			return true, nil
		},
	})

	params := map[string]string{
		FieldTxnRef:            order.OrderCode,
		FieldAmount:            "15000050",
		FieldResponseCode:      "00",
		FieldTransactionStatus: "00",
	}
	params[FieldSecureHash] = Sign(testConfig().HashSecret, params)

	res, err := svc.HandleCallback(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid || !cancelled {
		t.Fatal("near-miss amount must cancel, not settle")
	}
}

func TestHandleCallbackUnknownOrder(t *testing.T) {
	order := testOrder()
	svc := newTestService(&stubOrderStore{
		getByCodeFn: func(context.Context, string) (*orders.Order, error) {
			return nil, orders.ErrNotFound
		},
	})

	res, err := svc.HandleCallback(context.Background(), signedCallback(t, order, "24", "02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid {
		t.Fatal("unknown order reported as paid")
	}
	want := testConfig().FailPage + "/0?status_code=02"
	if res.RedirectURL != want {
		t.Fatalf("redirect = %q, want %q", res.RedirectURL, want)
	}
}
