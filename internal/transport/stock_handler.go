package transport

import (
	"net/http"

	"barback/internal/domain"
	"barback/internal/middleware"
	"barback/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockMovementRequest represents the stock movement request payload. For
// entry and exit movements quantity is the change; for adjustments it is
// the new absolute stock level.
type StockMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Kind      string `json:"kind" validate:"required,oneof=entry exit adjustment"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Reason    string `json:"reason" validate:"max=500"`
}

// StockHandler handles HTTP requests for stock movement operations
type StockHandler struct {
	coordinator service.TransactionCoordinator
	logger      *zap.Logger
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(coordinator service.TransactionCoordinator, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stock/movements", func(r chi.Router) {
		r.Post("/", h.RecordMovement)
		r.Get("/", h.ListMovements)
	})
}

// RecordMovement handles applying a stock entry, exit or adjustment
func (h *StockHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req StockMovementRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock movement validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, _ := uuid.Parse(req.ProductID)

	change, err := h.coordinator.RecordStockMovement(r.Context(), service.StockMovementInput{
		ProductID: productID,
		Kind:      domain.MovementKind(req.Kind),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, change)
}

// ListMovements handles listing the stock movement log
func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	filter, err := movementFilterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	movements, err := h.coordinator.ListMovements(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, movements)
}

func movementFilterFromQuery(r *http.Request) (domain.MovementFilter, error) {
	var filter domain.MovementFilter
	var err error

	if filter.ProductID, err = queryUUID(r, "product_id"); err != nil {
		return filter, err
	}
	if filter.Kind, err = queryMovementKind(r); err != nil {
		return filter, err
	}
	if filter.From, err = queryDate(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
