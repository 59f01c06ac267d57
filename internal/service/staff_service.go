package service

import (
	"context"
	"fmt"
	"time"

	"barback/internal/domain"
	"barback/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeInput carries the fields for staff create/update.
type EmployeeInput struct {
	Name   string
	Active bool
}

// StaffService manages the employees sales are attributed to. Deleting an
// employee with recorded sales is refused; deactivate instead.
type StaffService interface {
	CreateEmployee(ctx context.Context, input EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, input EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
}

type staffService struct {
	employees repository.EmployeeRepository
	logger    *zap.Logger
}

// NewStaffService creates a StaffService.
func NewStaffService(employees repository.EmployeeRepository, logger *zap.Logger) StaffService {
	return &staffService{employees: employees, logger: logger}
}

func (s *staffService) CreateEmployee(ctx context.Context, input EmployeeInput) (*domain.Employee, error) {
	now := time.Now()
	employee := &domain.Employee{
		ID:        uuid.New(),
		Name:      input.Name,
		Active:    input.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("Employee created", zap.String("employee_id", employee.ID.String()))
	return employee, nil
}

func (s *staffService) UpdateEmployee(ctx context.Context, id uuid.UUID, input EmployeeInput) (*domain.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.Name = input.Name
	employee.Active = input.Active
	employee.UpdatedAt = time.Now()

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

func (s *staffService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.employees.Delete(ctx, id)
}

func (s *staffService) GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

func (s *staffService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}
