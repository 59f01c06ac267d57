package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"barback/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound = errors.New("product not found")

	// ErrProductReferenced is returned when sales or stock movements still
	// point at the product.
	ErrProductReferenced = errors.New("product is referenced by sales or stock movements")
)

// ProductRepository defines data access for catalog products. Update never
// writes the quantity column; stock changes go through UpdateQuantity,
// which is only called by the transaction coordinator.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// FindByIDForUpdate reads the product and locks its row for the
	// remainder of the enclosing transaction. Outside a transaction it
	// behaves like FindByID.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	List(ctx context.Context) ([]*domain.Product, error)
	ListLowStock(ctx context.Context) ([]*domain.Product, error)
}

type productRepository struct {
	q Querier
}

// NewProductRepository creates a ProductRepository over a DB or an open
// transaction.
func NewProductRepository(q Querier) ProductRepository {
	return &productRepository{q: q}
}

const productColumns = `id, name, sale_price, cost_price, quantity, min_stock, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, sale_price, cost_price, quantity, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.SalePrice,
		product.CostPrice,
		product.Quantity,
		product.MinStock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update writes the catalog fields only. Quantity is deliberately absent
// from the SET list so a stale catalog edit can never clobber stock moved
// by a concurrent sale.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, sale_price = $3, cost_price = $4, min_stock = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.SalePrice,
		product.CostPrice,
		product.MinStock,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrProductReferenced
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *productRepository) scanOne(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.SalePrice,
		&product.CostPrice,
		&product.Quantity,
		&product.MinStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func (r *productRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE products SET quantity = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to update product quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`
	return r.queryMany(ctx, query)
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= min_stock ORDER BY quantity ASC`
	return r.queryMany(ctx, query)
}

func (r *productRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.SalePrice,
			&product.CostPrice,
			&product.Quantity,
			&product.MinStock,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
