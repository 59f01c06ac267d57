package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a committed sale. UnitPrice and CostPrice are snapshots taken at
// sale time so later catalog price edits never change historical figures.
type Sale struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	EmployeeID  uuid.UUID       `json:"employee_id" db:"employee_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total       decimal.Decimal `json:"total" db:"total"`
	CostPrice   decimal.Decimal `json:"cost_price" db:"cost_price"`
	Observation string          `json:"observation,omitempty" db:"observation"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// CostTotal is the cost of goods for the whole sale.
func (s *Sale) CostTotal() decimal.Decimal {
	return s.CostPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Profit is the sale total minus the cost of goods.
func (s *Sale) Profit() decimal.Decimal {
	return s.Total.Sub(s.CostTotal())
}

// SaleDetail is a sale with display fields resolved for the caller.
type SaleDetail struct {
	Sale
	ProductName  string          `json:"product_name"`
	EmployeeName string          `json:"employee_name"`
	ProfitAmount decimal.Decimal `json:"profit"`
}

// SaleFilter narrows sale listings. Nil fields are ignored.
type SaleFilter struct {
	ProductID  *uuid.UUID
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
