package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"barback/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound = errors.New("sale not found")
)

// SaleRepository defines data access for the sales ledger. Sales are only
// ever created by the coordinator and deleted by a reversal; there is no
// update path.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error)
}

type saleRepository struct {
	q Querier
}

// NewSaleRepository creates a SaleRepository over a DB or an open
// transaction.
func NewSaleRepository(q Querier) SaleRepository {
	return &saleRepository{q: q}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, product_id, employee_id, quantity, unit_price, total, cost_price, observation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		sale.ID,
		sale.ProductID,
		sale.EmployeeID,
		sale.Quantity,
		sale.UnitPrice,
		sale.Total,
		sale.CostPrice,
		sale.Observation,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT id, product_id, employee_id, quantity, unit_price, total, cost_price, observation, created_at
		FROM sales
		WHERE id = $1
	`

	sale := &domain.Sale{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.ProductID,
		&sale.EmployeeID,
		&sale.Quantity,
		&sale.UnitPrice,
		&sale.Total,
		&sale.CostPrice,
		&sale.Observation,
		&sale.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	return sale, nil
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// List returns sales newest first, joined with product and employee names
// for display. Employees may have been deactivated since; the join is on
// identity only.
func (r *saleRepository) List(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error) {
	query := `
		SELECT s.id, s.product_id, s.employee_id, s.quantity, s.unit_price, s.total, s.cost_price,
		       s.observation, s.created_at, COALESCE(p.name, ''), COALESCE(e.name, '')
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		LEFT JOIN employees e ON e.id = s.employee_id
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
		addClause("s.product_id =", *filter.ProductID)
	}
	if filter.EmployeeID != nil {
		addClause("s.employee_id =", *filter.EmployeeID)
	}
	if filter.From != nil {
		addClause("s.created_at >=", *filter.From)
	}
	if filter.To != nil {
		addClause("s.created_at <=", *filter.To)
	}

	query += where + " ORDER BY s.created_at DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.SaleDetail{}
	for rows.Next() {
		detail := &domain.SaleDetail{}
		err := rows.Scan(
			&detail.ID,
			&detail.ProductID,
			&detail.EmployeeID,
			&detail.Quantity,
			&detail.UnitPrice,
			&detail.Total,
			&detail.CostPrice,
			&detail.Observation,
			&detail.CreatedAt,
			&detail.ProductName,
			&detail.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		detail.ProfitAmount = detail.Profit()
		sales = append(sales, detail)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}
