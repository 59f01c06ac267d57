package transport

import (
	"net/http"
	"time"

	"barback/internal/domain"
	"barback/internal/middleware"
	"barback/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerEntryRequest represents the manual ledger posting payload
type LedgerEntryRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=initial_cash sale_revenue cost adjustment"`
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" validate:"required"`
	Category    string          `json:"category" validate:"max=100"`
	Observation string          `json:"observation" validate:"max=500"`
}

// BalanceResponse represents the running balance response
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// FinanceHandler handles HTTP requests for financial ledger operations
type FinanceHandler struct {
	finance service.FinanceService
	logger  *zap.Logger
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(finance service.FinanceService, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		finance: finance,
		logger:  logger,
	}
}

// RegisterRoutes registers all finance routes
func (h *FinanceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/finance", func(r chi.Router) {
		r.Get("/summary", h.Summarize)
		r.Get("/balance", h.CurrentBalance)

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", h.CreateEntry)
			r.Get("/", h.ListEntries)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})
	})
}

// Summarize handles aggregating ledger postings over a date range
func (h *FinanceHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	from, to, err := requiredDateRange(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.finance.Summarize(r.Context(), from, to)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// CurrentBalance handles reporting the running balance
func (h *FinanceHandler) CurrentBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.finance.CurrentBalance(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// CreateEntry handles recording a manual ledger posting
func (h *FinanceHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeEntryInput(w, r)
	if !ok {
		return
	}

	entry, err := h.finance.CreateEntry(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles rewriting a manual ledger posting
func (h *FinanceHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, ok := h.decodeEntryInput(w, r)
	if !ok {
		return
	}

	entry, err := h.finance.UpdateEntry(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles removing a manual ledger posting
func (h *FinanceHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.finance.DeleteEntry(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "ledger entry deleted"})
}

// ListEntries handles listing ledger postings
func (h *FinanceHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := ledgerFilterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.finance.ListEntries(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *FinanceHandler) decodeEntryInput(w http.ResponseWriter, r *http.Request) (service.LedgerEntryInput, bool) {
	var req LedgerEntryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Ledger entry validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.LedgerEntryInput{}, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.LedgerEntryInput{}, false
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return service.LedgerEntryInput{}, false
	}

	return service.LedgerEntryInput{
		Kind:        domain.LedgerKind(req.Kind),
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
		Observation: req.Observation,
	}, true
}

func ledgerFilterFromQuery(r *http.Request) (domain.LedgerFilter, error) {
	var filter domain.LedgerFilter
	var err error

	if filter.Kind, err = queryLedgerKind(r); err != nil {
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
