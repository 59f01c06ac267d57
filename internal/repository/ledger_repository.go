package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barback/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	// ErrLedgerEntryImmutable is returned when editing or deleting a
	// sale-generated posting. Only manually entered rows accept
	// administrative changes.
	ErrLedgerEntryImmutable = errors.New("sale-generated ledger entries cannot be modified")
)

// LedgerRepository defines data access for the financial ledger.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	// Update and Delete only touch manual entries; a sale-generated target
	// yields ErrLedgerEntryImmutable.
	Update(ctx context.Context, entry *domain.LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	// SummarizeRange sums entries with date in [from, to], grouped by kind.
	// Profit and margin are left zero; the finance service derives them.
	SummarizeRange(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error)
	// Balance sums all entries regardless of period:
	// initial cash + revenue - cost + adjustments.
	Balance(ctx context.Context) (decimal.Decimal, error)
}

type ledgerRepository struct {
	q Querier
}

// NewLedgerRepository creates a LedgerRepository over a DB or an open
// transaction.
func NewLedgerRepository(q Querier) LedgerRepository {
	return &ledgerRepository{q: q}
}

const ledgerColumns = `id, kind, source, description, amount, entry_date, category, observation, created_at`

func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, kind, source, description, amount, entry_date, category, observation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Kind,
		entry.Source,
		entry.Description,
		entry.Amount,
		entry.Date,
		entry.Category,
		entry.Observation,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`

	entry := &domain.LedgerEntry{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.Kind,
		&entry.Source,
		&entry.Description,
		&entry.Amount,
		&entry.Date,
		&entry.Category,
		&entry.Observation,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLedgerEntryNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}

	return entry, nil
}

func (r *ledgerRepository) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET kind = $2, description = $3, amount = $4, entry_date = $5, category = $6, observation = $7
		WHERE id = $1 AND source = 'manual'
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Kind,
		entry.Description,
		entry.Amount,
		entry.Date,
		entry.Category,
		entry.Observation,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return r.missingOrImmutable(ctx, entry.ID)
	}

	return nil
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = $1 AND source = 'manual'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return r.missingOrImmutable(ctx, id)
	}

	return nil
}

// missingOrImmutable distinguishes a row that does not exist from one that
// is protected because a sale generated it.
func (r *ledgerRepository) missingOrImmutable(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check ledger entry: %w", err)
	}
	if exists {
		return ErrLedgerEntryImmutable
	}
	return ErrLedgerEntryNotFound
}

// List returns entries newest first by posting date.
func (r *ledgerRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`

	where := ""
	args := []any{}
	addClause := func(clause string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = fmt.Sprintf(" WHERE %s $%d", clause, len(args))
		} else {
			where += fmt.Sprintf(" AND %s $%d", clause, len(args))
		}
	}

	if filter.Kind != nil {
		addClause("kind =", *filter.Kind)
	}
	if filter.From != nil {
		addClause("entry_date >=", *filter.From)
	}
	if filter.To != nil {
		addClause("entry_date <=", *filter.To)
	}

	query += where + " ORDER BY entry_date DESC, created_at DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.LedgerEntry{}
	for rows.Next() {
		entry := &domain.LedgerEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Kind,
			&entry.Source,
			&entry.Description,
			&entry.Amount,
			&entry.Date,
			&entry.Category,
			&entry.Observation,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

func (r *ledgerRepository) SummarizeRange(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'sale_revenue'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'cost'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'adjustment'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'initial_cash'), 0)
		FROM ledger_entries
		WHERE entry_date >= $1 AND entry_date <= $2
	`

	summary := &domain.PeriodSummary{}
	err := r.q.QueryRowContext(ctx, query, from, to).Scan(
		&summary.Revenue,
		&summary.Cost,
		&summary.Adjustments,
		&summary.InitialCash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}

	return summary, nil
}

func (r *ledgerRepository) Balance(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'cost' THEN -amount ELSE amount END), 0)
		FROM ledger_entries
	`

	var balance decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	return balance, nil
}
