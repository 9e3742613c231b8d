package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func TestMarkPaidIfPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE orders").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	moved, err := repo.MarkPaidIfPending(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved {
		t.Fatal("expected pending order to move to paid")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkPaidIfPendingAlreadySettled(t *testing.T) {
	repo, mock := newMockRepo(t)
	// A terminal order fails the status guard in the WHERE clause.
	mock.ExpectExec("UPDATE orders").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	moved, err := repo.MarkPaidIfPending(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved {
		t.Fatal("settled order reported as freshly paid")
	}
}

func TestCancelIfPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE orders").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	moved, err := repo.CancelIfPending(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved {
		t.Fatal("expected pending order to cancel")
	}
}

func TestGetByCodeNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("MISSING").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByCode(context.Background(), "MISSING"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE orders").
		WithArgs(int64(404), StatusPaid, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &Order{ID: 404, Status: StatusPaid, UserID: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesItemsFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM order_items").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM orders").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	repo, _ := newMockRepo(t)
	if err := repo.Create(context.Background(), &Order{OrderCode: "X"}); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
}
