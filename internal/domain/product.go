package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Quantity is the live stock count and
// is mutated only through the transaction coordinator; catalog edits never
// touch it.
type Product struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	SalePrice decimal.Decimal `json:"sale_price" db:"sale_price"`
	CostPrice decimal.Decimal `json:"cost_price" db:"cost_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	MinStock  int             `json:"min_stock" db:"min_stock"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// LowOnStock reports whether the product is at or below its reorder level.
func (p *Product) LowOnStock() bool {
	return p.Quantity <= p.MinStock
}

// Employee is the staff member a sale is attributed to. Sales keep only the
// employee's identity; there is no lifecycle coupling beyond the reference.
type Employee struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
