package transport

import (
	"errors"
	"net/http"

	"barback/internal/middleware"
	"barback/internal/repository"
	"barback/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps core errors to HTTP statuses in one place.
// Validation and missing-reference failures are rejected input; conflicts
// are retryable; everything else is a persistence failure the caller may
// not blindly retry.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, "insufficient stock", map[string]any{
			"product_id": insufficient.ProductID.String(),
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})
		return
	}

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrEmployeeNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "employee not found")
	case errors.Is(err, repository.ErrSaleNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
	case errors.Is(err, repository.ErrLedgerEntryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "ledger entry not found")
	case errors.Is(err, service.ErrProductUnavailable):
		middleware.RespondWithError(w, http.StatusConflict, "product no longer exists, sale cannot be reversed")
	case errors.Is(err, repository.ErrEmployeeReferenced):
		middleware.RespondWithError(w, http.StatusConflict, "employee has recorded sales, deactivate instead")
	case errors.Is(err, repository.ErrProductReferenced):
		middleware.RespondWithError(w, http.StatusConflict, "product has recorded sales or stock movements")
	case errors.Is(err, repository.ErrLedgerEntryImmutable):
		middleware.RespondWithError(w, http.StatusConflict, "sale-generated ledger entries cannot be modified")
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidMovementKind),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidLedgerKind),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStockLevel):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrConcurrentModification):
		middleware.RespondWithError(w, http.StatusConflict, "conflicting update, please try again")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
