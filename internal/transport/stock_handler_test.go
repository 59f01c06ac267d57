package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"barback/internal/domain"
	"barback/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestRecordMovementReturnsStockChange(t *testing.T) {
	productID := uuid.New()
	coordinator := &stubCoordinator{
		recordMoveFn: func(ctx context.Context, input service.StockMovementInput) (*domain.StockChange, error) {
			if input.Kind != domain.MovementEntry || input.Quantity != 5 {
				t.Errorf("unexpected input: %+v", input)
			}
			return &domain.StockChange{ProductID: input.ProductID, Before: 10, After: 15}, nil
		},
	}
	handler := NewStockHandler(coordinator, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"kind":"entry","quantity":5,"reason":"Delivery"}`, productID)
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/stock/movements/", body)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var change domain.StockChange
	if err := json.Unmarshal(recorder.Body.Bytes(), &change); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if change.Before != 10 || change.After != 15 {
		t.Errorf("unexpected change: %+v", change)
	}
}

func TestRecordMovementRejectsUnknownKind(t *testing.T) {
	handler := NewStockHandler(&stubCoordinator{}, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"kind":"transfer","quantity":5}`, uuid.New())
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/stock/movements/", body)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestRecordMovementAdjustmentToZeroIsAccepted(t *testing.T) {
	coordinator := &stubCoordinator{
		recordMoveFn: func(ctx context.Context, input service.StockMovementInput) (*domain.StockChange, error) {
			if input.Kind != domain.MovementAdjustment || input.Quantity != 0 {
				t.Errorf("unexpected input: %+v", input)
			}
			return &domain.StockChange{ProductID: input.ProductID, Before: 7, After: 0}, nil
		},
	}
	handler := NewStockHandler(coordinator, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"kind":"adjustment","quantity":0,"reason":"Stocktake"}`, uuid.New())
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/stock/movements/", body)

	if recorder.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestRecordMovementServiceValidationIs400(t *testing.T) {
	coordinator := &stubCoordinator{
		recordMoveFn: func(ctx context.Context, input service.StockMovementInput) (*domain.StockChange, error) {
			return nil, service.ErrInvalidQuantity
		},
	}
	handler := NewStockHandler(coordinator, zap.NewNop())

	body := fmt.Sprintf(`{"product_id":%q,"kind":"exit","quantity":0}`, uuid.New())
	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodPost, "/api/stock/movements/", body)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestListMovementsParsesKindFilter(t *testing.T) {
	var captured domain.MovementFilter
	coordinator := &stubCoordinator{
		listMovementsFn: func(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error) {
			captured = filter
			return []*domain.StockMovement{}, nil
		},
	}
	handler := NewStockHandler(coordinator, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodGet, "/api/stock/movements/?kind=exit", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if captured.Kind == nil || *captured.Kind != domain.MovementExit {
		t.Error("expected kind filter forwarded")
	}
}

func TestListMovementsRejectsBadKind(t *testing.T) {
	handler := NewStockHandler(&stubCoordinator{}, zap.NewNop())

	recorder := serveRequest(t, handler.RegisterRoutes, http.MethodGet, "/api/stock/movements/?kind=teleport", "")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}
