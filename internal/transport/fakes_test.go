package transport

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"barback/internal/domain"
	"barback/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stub services returning canned results. Handlers own decoding,
// validation and status mapping; the service semantics are covered by the
// service package tests.

type stubCoordinator struct {
	recordSaleFn    func(ctx context.Context, input service.RecordSaleInput) (*domain.SaleDetail, error)
	reverseSaleFn   func(ctx context.Context, saleID uuid.UUID) (*domain.StockChange, error)
	recordMoveFn    func(ctx context.Context, input service.StockMovementInput) (*domain.StockChange, error)
	listMovementsFn func(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error)
	listSalesFn     func(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error)
}

func (s *stubCoordinator) RecordSale(ctx context.Context, input service.RecordSaleInput) (*domain.SaleDetail, error) {
	return s.recordSaleFn(ctx, input)
}

func (s *stubCoordinator) ReverseSale(ctx context.Context, saleID uuid.UUID) (*domain.StockChange, error) {
	return s.reverseSaleFn(ctx, saleID)
}

func (s *stubCoordinator) RecordStockMovement(ctx context.Context, input service.StockMovementInput) (*domain.StockChange, error) {
	return s.recordMoveFn(ctx, input)
}

func (s *stubCoordinator) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error) {
	return s.listMovementsFn(ctx, filter)
}

func (s *stubCoordinator) ListSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error) {
	return s.listSalesFn(ctx, filter)
}

type stubFinance struct {
	summarizeFn   func(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error)
	balanceFn     func(ctx context.Context) (decimal.Decimal, error)
	createFn      func(ctx context.Context, input service.LedgerEntryInput) (*domain.LedgerEntry, error)
	updateFn      func(ctx context.Context, id uuid.UUID, input service.LedgerEntryInput) (*domain.LedgerEntry, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	listEntriesFn func(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
}

func (s *stubFinance) Summarize(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	return s.summarizeFn(ctx, from, to)
}

func (s *stubFinance) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.balanceFn(ctx)
}

func (s *stubFinance) CreateEntry(ctx context.Context, input service.LedgerEntryInput) (*domain.LedgerEntry, error) {
	return s.createFn(ctx, input)
}

func (s *stubFinance) UpdateEntry(ctx context.Context, id uuid.UUID, input service.LedgerEntryInput) (*domain.LedgerEntry, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubFinance) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func (s *stubFinance) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	return s.listEntriesFn(ctx, filter)
}

func serveRequest(t *testing.T, register func(chi.Router), method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	register(router)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
