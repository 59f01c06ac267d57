package service

import (
	"context"
	"sync"
	"time"

	"barback/internal/domain"
	"barback/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory store shared by the fake repositories. The fake transaction
// runner serializes access and restores a snapshot on error, mirroring the
// commit-or-rollback behavior of the real runner.
type fakeStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*domain.Product
	employees map[uuid.UUID]*domain.Employee
	sales     map[uuid.UUID]*domain.Sale
	movements []*domain.StockMovement
	ledger    []*domain.LedgerEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[uuid.UUID]*domain.Product),
		employees: make(map[uuid.UUID]*domain.Employee),
		sales:     make(map[uuid.UUID]*domain.Sale),
	}
}

type storeSnapshot struct {
	products  map[uuid.UUID]*domain.Product
	employees map[uuid.UUID]*domain.Employee
	sales     map[uuid.UUID]*domain.Sale
	movements []*domain.StockMovement
	ledger    []*domain.LedgerEntry
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products:  make(map[uuid.UUID]*domain.Product, len(s.products)),
		employees: make(map[uuid.UUID]*domain.Employee, len(s.employees)),
		sales:     make(map[uuid.UUID]*domain.Sale, len(s.sales)),
		movements: append([]*domain.StockMovement(nil), s.movements...),
		ledger:    append([]*domain.LedgerEntry(nil), s.ledger...),
	}
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, e := range s.employees {
		cp := *e
		snap.employees[id] = &cp
	}
	for id, sl := range s.sales {
		cp := *sl
		snap.sales[id] = &cp
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.products = snap.products
	s.employees = snap.employees
	s.sales = snap.sales
	s.movements = snap.movements
	s.ledger = snap.ledger
}

func (s *fakeStore) repositories() repository.Repositories {
	return repository.Repositories{
		Products:  &fakeProductRepo{store: s},
		Employees: &fakeEmployeeRepo{store: s},
		Sales:     &fakeSaleRepo{store: s},
		Movements: &fakeMovementRepo{store: s},
		Ledger:    &fakeLedgerRepo{store: s},
	}
}

// fakeTxRunner runs fn against the live store under a lock and rolls the
// store back to a snapshot when fn fails.
type fakeTxRunner struct {
	store *fakeStore
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(r repository.Repositories) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(t.store.repositories()); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	existing, ok := r.store.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.Name = product.Name
	existing.SalePrice = product.SalePrice
	existing.CostPrice = product.CostPrice
	existing.MinStock = product.MinStock
	existing.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	for _, sale := range r.store.sales {
		if sale.ProductID == id {
			return repository.ErrProductReferenced
		}
	}
	for _, movement := range r.store.movements {
		if movement.ProductID == id {
			return repository.ErrProductReferenced
		}
	}
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	product, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Quantity = quantity
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		products = append(products, &cp)
	}
	return products, nil
}

func (r *fakeProductRepo) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range r.store.products {
		if p.LowOnStock() {
			cp := *p
			products = append(products, &cp)
		}
	}
	return products, nil
}

type fakeEmployeeRepo struct {
	store *fakeStore
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	cp := *employee
	r.store.employees[employee.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	if _, ok := r.store.employees[employee.ID]; !ok {
		return repository.ErrEmployeeNotFound
	}
	cp := *employee
	r.store.employees[employee.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.employees[id]; !ok {
		return repository.ErrEmployeeNotFound
	}
	for _, sale := range r.store.sales {
		if sale.EmployeeID == id {
			return repository.ErrEmployeeReferenced
		}
	}
	delete(r.store.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	employee, ok := r.store.employees[id]
	if !ok {
		return nil, repository.ErrEmployeeNotFound
	}
	cp := *employee
	return &cp, nil
}

func (r *fakeEmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	employees := make([]*domain.Employee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		cp := *e
		employees = append(employees, &cp)
	}
	return employees, nil
}

type fakeSaleRepo struct {
	store *fakeStore
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	cp := *sale
	r.store.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, ok := r.store.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	cp := *sale
	return &cp, nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.sales[id]; !ok {
		return repository.ErrSaleNotFound
	}
	delete(r.store.sales, id)
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleDetail, error) {
	var details []*domain.SaleDetail
	for _, sale := range r.store.sales {
		if filter.ProductID != nil && sale.ProductID != *filter.ProductID {
			continue
		}
		if filter.EmployeeID != nil && sale.EmployeeID != *filter.EmployeeID {
			continue
		}
		detail := &domain.SaleDetail{Sale: *sale, ProfitAmount: sale.Profit()}
		if product, ok := r.store.products[sale.ProductID]; ok {
			detail.ProductName = product.Name
		}
		if employee, ok := r.store.employees[sale.EmployeeID]; ok {
			detail.EmployeeName = employee.Name
		}
		details = append(details, detail)
	}
	return details, nil
}

type fakeMovementRepo struct {
	store *fakeStore
}

func (r *fakeMovementRepo) Append(ctx context.Context, movement *domain.StockMovement) error {
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.StockMovement, error) {
	var movements []*domain.StockMovement
	for _, m := range r.store.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		cp := *m
		movements = append(movements, &cp)
	}
	return movements, nil
}

type fakeLedgerRepo struct {
	store *fakeStore
}

func (r *fakeLedgerRepo) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	cp := *entry
	r.store.ledger = append(r.store.ledger, &cp)
	return nil
}

func (r *fakeLedgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	for _, e := range r.store.ledger {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	for i, e := range r.store.ledger {
		if e.ID == entry.ID {
			if e.Source != domain.LedgerSourceManual {
				return repository.ErrLedgerEntryImmutable
			}
			cp := *entry
			cp.Source = domain.LedgerSourceManual
			cp.CreatedAt = e.CreatedAt
			r.store.ledger[i] = &cp
			return nil
		}
	}
	return repository.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, e := range r.store.ledger {
		if e.ID == id {
			if e.Source != domain.LedgerSourceManual {
				return repository.ErrLedgerEntryImmutable
			}
			r.store.ledger = append(r.store.ledger[:i], r.store.ledger[i+1:]...)
			return nil
		}
	}
	return repository.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for _, e := range r.store.ledger {
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		cp := *e
		entries = append(entries, &cp)
	}
	return entries, nil
}

func (r *fakeLedgerRepo) SummarizeRange(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	summary := &domain.PeriodSummary{
		Revenue:     decimal.Zero,
		Cost:        decimal.Zero,
		Adjustments: decimal.Zero,
		InitialCash: decimal.Zero,
	}
	for _, e := range r.store.ledger {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		switch e.Kind {
		case domain.LedgerSaleRevenue:
			summary.Revenue = summary.Revenue.Add(e.Amount)
		case domain.LedgerCost:
			summary.Cost = summary.Cost.Add(e.Amount)
		case domain.LedgerAdjustment:
			summary.Adjustments = summary.Adjustments.Add(e.Amount)
		case domain.LedgerInitialCash:
			summary.InitialCash = summary.InitialCash.Add(e.Amount)
		}
	}
	return summary, nil
}

func (r *fakeLedgerRepo) Balance(ctx context.Context) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, e := range r.store.ledger {
		if e.Kind == domain.LedgerCost {
			balance = balance.Sub(e.Amount)
		} else {
			balance = balance.Add(e.Amount)
		}
	}
	return balance, nil
}
