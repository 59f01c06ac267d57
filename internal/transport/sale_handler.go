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

// RecordSaleRequest represents the sale recording request payload
type RecordSaleRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	EmployeeID  string `json:"employee_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Observation string `json:"observation" validate:"max=500"`
}

// SaleHandler handles HTTP requests for sale operations
type SaleHandler struct {
	coordinator service.TransactionCoordinator
	logger      *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(coordinator service.TransactionCoordinator, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Post("/", h.RecordSale)
		r.Get("/", h.ListSales)
		r.Delete("/{id}", h.ReverseSale)
	})
}

// RecordSale handles recording a new sale
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// UUID format is already validated; Parse cannot fail here.
	productID, _ := uuid.Parse(req.ProductID)
	employeeID, _ := uuid.Parse(req.EmployeeID)

	detail, err := h.coordinator.RecordSale(r.Context(), service.RecordSaleInput{
		ProductID:   productID,
		EmployeeID:  employeeID,
		Quantity:    req.Quantity,
		Observation: req.Observation,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, detail)
}

// ReverseSale handles voiding a recorded sale
func (h *SaleHandler) ReverseSale(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	change, err := h.coordinator.ReverseSale(r.Context(), saleID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, change)
}

// ListSales handles listing recorded sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.coordinator.ListSales(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

func saleFilterFromQuery(r *http.Request) (domain.SaleFilter, error) {
	var filter domain.SaleFilter
	var err error

	if filter.ProductID, err = queryUUID(r, "product_id"); err != nil {
		return filter, err
	}
	if filter.EmployeeID, err = queryUUID(r, "employee_id"); err != nil {
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
