package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	MovementEntry      MovementKind = "entry"
	MovementExit       MovementKind = "exit"
	MovementAdjustment MovementKind = "adjustment"
)

// Valid reports whether the kind is one of the known movement kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is one append-only record of a quantity change. For entries
// and exits Quantity is the delta applied; for adjustments it is the
// resulting absolute stock level.
type StockMovement struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	ProductID uuid.UUID    `json:"product_id" db:"product_id"`
	Kind      MovementKind `json:"kind" db:"kind"`
	Quantity  int          `json:"quantity" db:"quantity"`
	Reason    string       `json:"reason" db:"reason"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// MovementFilter narrows movement listings. Nil fields are ignored.
type MovementFilter struct {
	ProductID *uuid.UUID
	Kind      *MovementKind
	From      *time.Time
	To        *time.Time
}

// StockChange reports the quantity before and after a coordinator
// operation, for caller display.
type StockChange struct {
	ProductID uuid.UUID `json:"product_id"`
	Before    int       `json:"quantity_before"`
	After     int       `json:"quantity_after"`
}
