package transport

import (
	"net/http"

	"barback/internal/middleware"
	"barback/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EmployeeRequest represents the employee create/update payload
type EmployeeRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Active *bool  `json:"active" validate:"required"`
}

// EmployeeHandler handles HTTP requests for staff operations
type EmployeeHandler struct {
	staff  service.StaffService
	logger *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(staff service.StaffService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		staff:  staff,
		logger: logger,
	}
}

// RegisterRoutes registers all employee routes
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/employees", func(r chi.Router) {
		r.Post("/", h.CreateEmployee)
		r.Get("/", h.ListEmployees)
		r.Get("/{id}", h.GetEmployee)
		r.Put("/{id}", h.UpdateEmployee)
		r.Delete("/{id}", h.DeleteEmployee)
	})
}

// CreateEmployee handles adding an employee
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEmployeeRequest(w, r)
	if !ok {
		return
	}

	employee, err := h.staff.CreateEmployee(r.Context(), service.EmployeeInput{
		Name:   req.Name,
		Active: *req.Active,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, employee)
}

// UpdateEmployee handles updating an employee
func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, ok := h.decodeEmployeeRequest(w, r)
	if !ok {
		return
	}

	employee, err := h.staff.UpdateEmployee(r.Context(), id, service.EmployeeInput{
		Name:   req.Name,
		Active: *req.Active,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, employee)
}

// DeleteEmployee handles removing an employee with no recorded sales
func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.staff.DeleteEmployee(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}

// GetEmployee handles fetching a single employee
func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.staff.GetEmployee(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, employee)
}

// ListEmployees handles listing all employees
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.staff.ListEmployees(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) decodeEmployeeRequest(w http.ResponseWriter, r *http.Request) (EmployeeRequest, bool) {
	var req EmployeeRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Employee validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	return req, true
}
