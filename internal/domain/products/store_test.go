package products

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestDecrementStockSuccess(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE products").
		WithArgs(int64(1), 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.DecrementStock(context.Background(), 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecrementStockInsufficient(t *testing.T) {
	repo, mock := newMockRepo(t)
	// The guard lives in the WHERE clause; too little stock means the
	// update touches no rows.
	mock.ExpectExec("UPDATE products").
		WithArgs(int64(1), 500).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.DecrementStock(context.Background(), 1, 500); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Tea", "tea", pgxmock.AnyArg(), int64(25000), 10, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &Product{
		Name:          "Tea",
		Slug:          "tea",
		Price:         25000,
		StockQuantity: 10,
	})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("err = %v, want ErrDuplicateSlug", err)
	}
}

func TestCreateRejectsInvalidProduct(t *testing.T) {
	repo, _ := newMockRepo(t)

	if _, err := repo.Create(context.Background(), &Product{Slug: "x", Price: 1}); err == nil {
		t.Fatal("nameless product accepted")
	}
	if _, err := repo.Create(context.Background(), &Product{Name: "x", Slug: "x", Price: -1}); err == nil {
		t.Fatal("negative price accepted")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM products").
		WithArgs(int64(77)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
