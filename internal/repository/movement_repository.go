package repository

import (
	"context"
	"fmt"

	"barback/internal/domain"
)

// StockMovementRepository defines data access for the movement log. The
// log is append-only: the interface deliberately has no update or delete.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *domain.StockMovement) error
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error)
}

type stockMovementRepository struct {
	q Querier
}

// NewStockMovementRepository creates a StockMovementRepository over a DB or
// an open transaction.
func NewStockMovementRepository(q Querier) StockMovementRepository {
	return &stockMovementRepository{q: q}
}

func (r *stockMovementRepository) Append(ctx context.Context, movement *domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, kind, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		movement.ID,
		movement.ProductID,
		movement.Kind,
		movement.Quantity,
		movement.Reason,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append stock movement: %w", err)
	}

	return nil
}

// List returns movements newest first.
func (r *stockMovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error) {
	query := `
		SELECT id, product_id, kind, quantity, reason, created_at
		FROM stock_movements
	`

	where := ""
	args := []any{}
	addClause := func(clause string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = fmt.Sprintf("WHERE %s $%d", clause, len(args))
		} else {
			where += fmt.Sprintf(" AND %s $%d", clause, len(args))
		}
	}

	if filter.ProductID != nil {
		addClause("product_id =", *filter.ProductID)
	}
	if filter.Kind != nil {
		addClause("kind =", *filter.Kind)
	}
	if filter.From != nil {
		addClause("created_at >=", *filter.From)
	}
	if filter.To != nil {
		addClause("created_at <=", *filter.To)
	}

	query += where + " ORDER BY created_at DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	defer rows.Close()

	movements := []*domain.StockMovement{}
	for rows.Next() {
		movement := &domain.StockMovement{}
		err := rows.Scan(
			&movement.ID,
			&movement.ProductID,
			&movement.Kind,
			&movement.Quantity,
			&movement.Reason,
			&movement.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, movement)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}

	return movements, nil
}
