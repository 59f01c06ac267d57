package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"barback/internal/domain"
	"barback/internal/repository"
	"barback/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestRecordSaleReturnsCreatedDetail(t *testing.T) {
	productID := uuid.New()
	employeeID := uuid.New()

	coordinator := &stubCoordinator{
		recordSaleFn: func(ctx context.Context, input service.RecordSaleInput) (*domain.SaleDetail, error) {
			if input.ProductID != productID || input.EmployeeID != employeeID || input.Quantity != 2 {
				t.Errorf("unexpected input: %+v", input)
			}
			return &domain.SaleDetail{
				Sale: domain.Sale{
					ID:        uuid.New(),
					ProductID: input.ProductID,
					Quantity:  input.Quantity,
					Total:     decimal.RequireFromString("17.00"),
				},
				ProductName:  "House Lager",
				ProfitAmount: decimal.RequireFromString("6.00"),
			}, nil
		},
	}
	handler := NewSaleHandler(coordinator, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"employee_id":%q,"quantity":2}`, productID, employeeID)
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/sales/", body)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var detail domain.SaleDetail
	if err := json.Unmarshal(recorder.Body.Bytes(), &detail); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if detail.ProductName != "House Lager" || detail.Quantity != 2 {
		t.Errorf("unexpected response: %+v", detail)
	}
}

func TestRecordSaleValidatesBody(t *testing.T) {
	handler := NewSaleHandler(&stubCoordinator{}, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"bad uuid", `{"product_id":"not-a-uuid","employee_id":"also-bad","quantity":1}`},
		{"zero quantity", fmt.Sprintf(`{"product_id":%q,"employee_id":%q,"quantity":0}`, uuid.New(), uuid.New())},
		{"malformed json", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/sales/", tc.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestRecordSaleMapsServiceErrors(t *testing.T) {
	productID := uuid.New()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"product missing", repository.ErrProductNotFound, http.StatusNotFound},
		{"employee missing", repository.ErrEmployeeNotFound, http.StatusNotFound},
		{"insufficient stock", &service.InsufficientStockError{ProductID: productID, Available: 1, Requested: 3}, http.StatusUnprocessableEntity},
		{"serialization conflict", repository.ErrConcurrentModification, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coordinator := &stubCoordinator{
				recordSaleFn: func(ctx context.Context, input service.RecordSaleInput) (*domain.SaleDetail, error) {
					return nil, tc.err
				},
			}
			handler := NewSaleHandler(coordinator, zap.NewNop())

			body := fmt.Sprintf(`{"product_id":%q,"employee_id":%q,"quantity":3}`, productID, uuid.New())
			recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/sales/", body)

			if recorder.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestInsufficientStockResponseCarriesQuantities(t *testing.T) {
	productID := uuid.New()
	coordinator := &stubCoordinator{
		recordSaleFn: func(ctx context.Context, input service.RecordSaleInput) (*domain.SaleDetail, error) {
			return nil, &service.InsufficientStockError{ProductID: productID, Available: 1, Requested: 3}
		},
	}
	handler := NewSaleHandler(coordinator, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"employee_id":%q,"quantity":3}`, productID, uuid.New())
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/sales/", body)

	var response struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if response.Error.Details["available"] != float64(1) || response.Error.Details["requested"] != float64(3) {
		t.Errorf("expected quantity diagnostics in details, got %+v", response.Error.Details)
	}
}

func TestReverseSaleReturnsStockChange(t *testing.T) {
	saleID := uuid.New()
	coordinator := &stubCoordinator{
		reverseSaleFn: func(ctx context.Context, id uuid.UUID) (*domain.StockChange, error) {
			if id != saleID {
				t.Errorf("expected sale ID %s, got %s", saleID, id)
			}
			return &domain.StockChange{ProductID: uuid.New(), Before: 8, After: 10}, nil
		},
	}
	handler := NewSaleHandler(coordinator, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodDelete, "/api/sales/"+saleID.String(), "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var change domain.StockChange
	if err := json.Unmarshal(recorder.Body.Bytes(), &change); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if change.Before != 8 || change.After != 10 {
		t.Errorf("unexpected change: %+v", change)
	}
}

func TestReverseSaleRejectsMalformedID(t *testing.T) {
	handler := NewSaleHandler(&stubCoordinator{}, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodDelete, "/api/sales/not-a-uuid", "")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}

func TestReverseSaleUnknownSaleIs404(t *testing.T) {
	coordinator := &stubCoordinator{
		reverseSaleFn: func(ctx context.Context, id uuid.UUID) (*domain.StockChange, error) {
			return nil, repository.ErrSaleNotFound
		},
	}
	handler := NewSaleHandler(coordinator, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodDelete, "/api/sales/"+uuid.New().String(), "")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}

func TestListSalesParsesFilters(t *testing.T) {
	productID := uuid.New()
	var captured domain.SaleFilter

	coordinator := &stubCoordinator{
		listSalesFn: func(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error) {
			captured = filter
			return []*domain.SaleDetail{}, nil
		},
	}
	handler := NewSaleHandler(coordinator, zap.NewNop())

	target := fmt.Sprintf("/api/sales/?product_id=%s&from=2025-03-01&to=2025-03-31", productID)
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodGet, target, "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if captured.ProductID == nil || *captured.ProductID != productID {
		t.Error("expected product filter forwarded")
	}
	if captured.From == nil || captured.To == nil {
		t.Error("expected date filters forwarded")
	}
	if captured.EmployeeID != nil {
		t.Error("expected absent employee filter to stay nil")
	}
}

func TestListSalesRejectsBadFilter(t *testing.T) {
	handler := NewSaleHandler(&stubCoordinator{}, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodGet, "/api/sales/?from=yesterday", "")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}
