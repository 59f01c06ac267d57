package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConcurrentModification signals a lost-update conflict detected by
	// the store. The whole operation is safe to re-run with fresh reads.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// Repositories bundles the stores a coordinator operation may touch, all
// bound to the same transaction.
type Repositories struct {
	Products  ProductRepository
	Employees EmployeeRepository
	Sales     SaleRepository
	Movements StockMovementRepository
	Ledger    LedgerRepository
}

// TxRunner executes a function inside one atomic transaction scope. Every
// write made through the passed repositories commits together or not at
// all; any error from fn rolls the scope back.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repositories) error) error
}

type txRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner backed by a *sql.DB.
func NewTxRunner(db *sql.DB) TxRunner {
	return &txRunner{db: db}
}

func (t *txRunner) Run(ctx context.Context, fn func(r Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	repos := Repositories{
		Products:  NewProductRepository(tx),
		Employees: NewEmployeeRepository(tx),
		Sales:     NewSaleRepository(tx),
		Movements: NewStockMovementRepository(tx),
		Ledger:    NewLedgerRepository(tx),
	}

	if err := fn(repos); err != nil {
		return translateConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return translateConflict(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// translateConflict maps Postgres serialization and deadlock failures to
// ErrConcurrentModification so callers know a retry is safe.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", ErrConcurrentModification, pgErr.Message)
		}
	}
	return err
}
