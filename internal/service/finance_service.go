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
	// ErrInvalidAmount rejects negative amounts on manual postings.
	ErrInvalidAmount = errors.New("amount must not be negative")
	// ErrInvalidLedgerKind rejects an unrecognized posting kind.
	ErrInvalidLedgerKind = errors.New("unknown ledger entry kind")
)

// LedgerEntryInput carries the values for a manual posting.
type LedgerEntryInput struct {
	Kind        domain.LedgerKind
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Observation string
}

// FinanceService exposes the financial ledger: period summaries, the
// running balance and administrative access to manually entered postings.
// Sale-generated postings are created only by the transaction coordinator
// and are immutable here.
type FinanceService interface {
	Summarize(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error)
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
	CreateEntry(ctx context.Context, input LedgerEntryInput) (*domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, input LedgerEntryInput) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
}

type financeService struct {
	ledger repository.LedgerRepository
	logger *zap.Logger
}

// NewFinanceService creates a FinanceService.
func NewFinanceService(ledger repository.LedgerRepository, logger *zap.Logger) FinanceService {
	return &financeService{ledger: ledger, logger: logger}
}

// Summarize aggregates postings in [from, to] and derives profit and
// margin. Margin is zero when revenue is zero; the division is guarded, it
// must never fault.
func (s *financeService) Summarize(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	summary, err := s.ledger.SummarizeRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize period: %w", err)
	}

	summary.Profit = summary.Revenue.Sub(summary.Cost)
	if summary.Revenue.IsZero() {
		summary.Margin = decimal.Zero
	} else {
		summary.Margin = summary.Profit.Div(summary.Revenue).Round(4)
	}

	return summary, nil
}

func (s *financeService) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute current balance: %w", err)
	}
	return balance, nil
}

func (s *financeService) CreateEntry(ctx context.Context, input LedgerEntryInput) (*domain.LedgerEntry, error) {
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		Kind:        input.Kind,
		Source:      domain.LedgerSourceManual,
		Description: input.Description,
		Amount:      input.Amount,
		Date:        input.Date,
		Category:    input.Category,
		Observation: input.Observation,
		CreatedAt:   time.Now(),
	}

	if err := s.ledger.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	s.logger.Info("Ledger entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("kind", string(entry.Kind)),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	return entry, nil
}

func (s *financeService) UpdateEntry(ctx context.Context, id uuid.UUID, input LedgerEntryInput) (*domain.LedgerEntry, error) {
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          id,
		Kind:        input.Kind,
		Source:      domain.LedgerSourceManual,
		Description: input.Description,
		Amount:      input.Amount,
		Date:        input.Date,
		Category:    input.Category,
		Observation: input.Observation,
	}

	if err := s.ledger.Update(ctx, entry); err != nil {
		return nil, err
	}

	return s.ledger.FindByID(ctx, id)
}

func (s *financeService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.ledger.Delete(ctx, id)
}

func (s *financeService) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	entries, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func validateEntryInput(input LedgerEntryInput) error {
	if !input.Kind.Valid() {
		return ErrInvalidLedgerKind
	}
	if input.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
