package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barback/internal/domain"
	"barback/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidQuantity is returned for non-positive sale/entry/exit
	// quantities and for negative adjustment targets.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidMovementKind is returned for an unrecognized movement kind.
	ErrInvalidMovementKind = errors.New("unknown stock movement kind")
	// ErrProductUnavailable is returned by ReverseSale when the sold
	// product has since been removed from the catalog. Stock cannot be
	// restored for a product that no longer exists, so the reversal is a
	// hard stop.
	ErrProductUnavailable = errors.New("product no longer exists, sale cannot be reversed")
)

// InsufficientStockError rejects a sale or exit that would take stock below
// zero. It carries the quantities for caller diagnostics.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: have %d, requested %d", e.ProductID, e.Available, e.Requested)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

const (
	saleMovementReason     = "Sale"
	reversalMovementReason = "Sale reversal"
)

// RecordSaleInput carries the already-validated values for one sale.
type RecordSaleInput struct {
	ProductID   uuid.UUID
	EmployeeID  uuid.UUID
	Quantity    int
	Observation string
}

// StockMovementInput carries the values for a general stock movement. For
// entries and exits Quantity is the delta; for adjustments it is the new
// absolute stock level.
type StockMovementInput struct {
	ProductID uuid.UUID
	Kind      domain.MovementKind
	Quantity  int
	Reason    string
}

// TransactionCoordinator orchestrates the multi-record atomic operations
// over products, sales, stock movements and the financial ledger. Each
// operation runs in a single transaction scope: all of its effects land or
// none do, and the product row is locked for the duration so concurrent
// sales against the same product serialize and can never oversell.
type TransactionCoordinator interface {
	RecordSale(ctx context.Context, input RecordSaleInput) (*domain.SaleDetail, error)
	ReverseSale(ctx context.Context, saleID uuid.UUID) (*domain.StockChange, error)
	RecordStockMovement(ctx context.Context, input StockMovementInput) (*domain.StockChange, error)
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error)
}

// CoordinatorOptions tune reversal behavior.
type CoordinatorOptions struct {
	// CompensateReversals controls whether ReverseSale posts a
	// compensating ledger adjustment. Off by default: the original
	// revenue/cost postings are treated as an immutable audit trail even
	// after the sale is voided.
	CompensateReversals bool
}

type transactionCoordinator struct {
	runner    repository.TxRunner
	movements repository.StockMovementRepository
	sales     repository.SaleRepository
	logger    *zap.Logger
	opts      CoordinatorOptions
}

// NewTransactionCoordinator creates a TransactionCoordinator. The movement
// and sale repositories are used for reads only; all writes go through the
// runner.
func NewTransactionCoordinator(
	runner repository.TxRunner,
	movements repository.StockMovementRepository,
	sales repository.SaleRepository,
	logger *zap.Logger,
	opts CoordinatorOptions,
) TransactionCoordinator {
	return &transactionCoordinator{
		runner:    runner,
		movements: movements,
		sales:     sales,
		logger:    logger,
		opts:      opts,
	}
}

// RecordSale atomically debits stock, records the sale, logs an exit
// movement and posts the matching revenue and cost ledger entries.
func (c *transactionCoordinator) RecordSale(ctx context.Context, input RecordSaleInput) (*domain.SaleDetail, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var detail *domain.SaleDetail

	err := c.runner.Run(ctx, func(r repository.Repositories) error {
		// Lock the product row first: the stock read below must reflect
		// every committed sale, and later sales must wait for this one.
		product, err := r.Products.FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		if input.Quantity > product.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Available: product.Quantity,
				Requested: input.Quantity,
			}
		}

		employee, err := r.Employees.FindByID(ctx, input.EmployeeID)
		if err != nil {
			return err
		}

		now := time.Now()
		qty := decimal.NewFromInt(int64(input.Quantity))
		total := product.SalePrice.Mul(qty)
		costTotal := product.CostPrice.Mul(qty)
		profit := total.Sub(costTotal)

		sale := &domain.Sale{
			ID:          uuid.New(),
			ProductID:   product.ID,
			EmployeeID:  employee.ID,
			Quantity:    input.Quantity,
			UnitPrice:   product.SalePrice,
			Total:       total,
			CostPrice:   product.CostPrice,
			Observation: input.Observation,
			CreatedAt:   now,
		}

		if err := r.Products.UpdateQuantity(ctx, product.ID, product.Quantity-input.Quantity); err != nil {
			return err
		}

		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		movement := &domain.StockMovement{
			ID:        uuid.New(),
			ProductID: product.ID,
			Kind:      domain.MovementExit,
			Quantity:  input.Quantity,
			Reason:    saleMovementReason,
			CreatedAt: now,
		}
		if err := r.Movements.Append(ctx, movement); err != nil {
			return err
		}

		revenue := &domain.LedgerEntry{
			ID:     uuid.New(),
			Kind:   domain.LedgerSaleRevenue,
			Source: domain.LedgerSourceSale,
			Description: fmt.Sprintf("Sale of %d x %s by %s (profit %s)",
				input.Quantity, product.Name, employee.Name, profit.StringFixed(2)),
			Amount:    total,
			Date:      now,
			Category:  "sales",
			CreatedAt: now,
		}
		if err := r.Ledger.Append(ctx, revenue); err != nil {
			return err
		}

		cost := &domain.LedgerEntry{
			ID:          uuid.New(),
			Kind:        domain.LedgerCost,
			Source:      domain.LedgerSourceSale,
			Description: fmt.Sprintf("Cost of goods for %d x %s", input.Quantity, product.Name),
			Amount:      costTotal,
			Date:        now,
			Category:    "sales",
			CreatedAt:   now,
		}
		if err := r.Ledger.Append(ctx, cost); err != nil {
			return err
		}

		detail = &domain.SaleDetail{
			Sale:         *sale,
			ProductName:  product.Name,
			EmployeeName: employee.Name,
			ProfitAmount: profit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Sale recorded",
		zap.String("sale_id", detail.ID.String()),
		zap.String("product_id", detail.ProductID.String()),
		zap.Int("quantity", detail.Quantity),
		zap.String("total", detail.Total.StringFixed(2)),
	)
	return detail, nil
}

// ReverseSale undoes a sale's stock effect: it restores the quantity, logs
// an entry movement and deletes the sale record. The original ledger
// postings are left in place unless compensation mode is enabled, in which
// case one adjustment posting cancels the sale's net effect on the balance.
func (c *transactionCoordinator) ReverseSale(ctx context.Context, saleID uuid.UUID) (*domain.StockChange, error) {
	var change *domain.StockChange

	err := c.runner.Run(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales.FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		product, err := r.Products.FindByIDForUpdate(ctx, sale.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return ErrProductUnavailable
			}
			return err
		}

		now := time.Now()
		restored := product.Quantity + sale.Quantity

		if err := r.Products.UpdateQuantity(ctx, product.ID, restored); err != nil {
			return err
		}

		movement := &domain.StockMovement{
			ID:        uuid.New(),
			ProductID: product.ID,
			Kind:      domain.MovementEntry,
			Quantity:  sale.Quantity,
			Reason:    reversalMovementReason,
			CreatedAt: now,
		}
		if err := r.Movements.Append(ctx, movement); err != nil {
			return err
		}

		if err := r.Sales.Delete(ctx, sale.ID); err != nil {
			return err
		}

		if c.opts.CompensateReversals {
			// Net balance effect of the sale was total - costTotal; one
			// negative adjustment cancels it while the original postings
			// stay in the audit trail.
			compensation := &domain.LedgerEntry{
				ID:          uuid.New(),
				Kind:        domain.LedgerAdjustment,
				Source:      domain.LedgerSourceSale,
				Description: fmt.Sprintf("Reversal of sale %s", sale.ID),
				Amount:      sale.CostTotal().Sub(sale.Total),
				Date:        now,
				Category:    "sales",
				CreatedAt:   now,
			}
			if err := r.Ledger.Append(ctx, compensation); err != nil {
				return err
			}
		}

		change = &domain.StockChange{
			ProductID: product.ID,
			Before:    product.Quantity,
			After:     restored,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Sale reversed",
		zap.String("sale_id", saleID.String()),
		zap.String("product_id", change.ProductID.String()),
		zap.Int("quantity_after", change.After),
	)
	return change, nil
}

// RecordStockMovement applies an entry, exit or absolute adjustment and
// appends the matching movement record in one atomic scope.
func (c *transactionCoordinator) RecordStockMovement(ctx context.Context, input StockMovementInput) (*domain.StockChange, error) {
	switch input.Kind {
	case domain.MovementEntry, domain.MovementExit:
		if input.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	case domain.MovementAdjustment:
		if input.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	default:
		return nil, ErrInvalidMovementKind
	}

	var change *domain.StockChange

	err := c.runner.Run(ctx, func(r repository.Repositories) error {
		product, err := r.Products.FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		var newQuantity int
		switch input.Kind {
		case domain.MovementEntry:
			newQuantity = product.Quantity + input.Quantity
		case domain.MovementExit:
			if input.Quantity > product.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Available: product.Quantity,
					Requested: input.Quantity,
				}
			}
			newQuantity = product.Quantity - input.Quantity
		case domain.MovementAdjustment:
			newQuantity = input.Quantity
		}

		if err := r.Products.UpdateQuantity(ctx, product.ID, newQuantity); err != nil {
			return err
		}

		movement := &domain.StockMovement{
			ID:        uuid.New(),
			ProductID: product.ID,
			Kind:      input.Kind,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			CreatedAt: time.Now(),
		}
		if err := r.Movements.Append(ctx, movement); err != nil {
			return err
		}

		change = &domain.StockChange{
			ProductID: product.ID,
			Before:    product.Quantity,
			After:     newQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Stock movement recorded",
		zap.String("product_id", change.ProductID.String()),
		zap.String("kind", string(input.Kind)),
		zap.Int("quantity_before", change.Before),
		zap.Int("quantity_after", change.After),
	)
	return change, nil
}

// ListMovements returns the movement log, newest first.
func (c *transactionCoordinator) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error) {
	movements, err := c.movements.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

// ListSales returns committed sales, newest first, with display fields
// resolved.
func (c *transactionCoordinator) ListSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error) {
	sales, err := c.sales.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
