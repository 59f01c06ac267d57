package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerKind classifies a monetary posting.
type LedgerKind string

const (
	LedgerInitialCash LedgerKind = "initial_cash"
	LedgerSaleRevenue LedgerKind = "sale_revenue"
	LedgerCost        LedgerKind = "cost"
	LedgerAdjustment  LedgerKind = "adjustment"
)

// Valid reports whether the kind is one of the known posting kinds.
func (k LedgerKind) Valid() bool {
	switch k {
	case LedgerInitialCash, LedgerSaleRevenue, LedgerCost, LedgerAdjustment:
		return true
	}
	return false
}

// LedgerSource records how a posting was created. Sale-generated postings
// are immutable; only manual ones accept administrative edits or deletes.
type LedgerSource string

const (
	LedgerSourceManual LedgerSource = "manual"
	LedgerSourceSale   LedgerSource = "sale"
)

// LedgerEntry is one monetary posting in the financial ledger.
type LedgerEntry struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Kind        LedgerKind      `json:"kind" db:"kind"`
	Source      LedgerSource    `json:"source" db:"source"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"entry_date"`
	Category    string          `json:"category,omitempty" db:"category"`
	Observation string          `json:"observation,omitempty" db:"observation"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// LedgerFilter narrows ledger listings. Nil fields are ignored.
type LedgerFilter struct {
	Kind *LedgerKind
	From *time.Time
	To   *time.Time
}

// PeriodSummary aggregates postings over a period, grouped by kind.
// Profit and Margin are derived: profit = revenue - cost and
// margin = profit / revenue, with margin defined as zero when revenue is
// zero.
type PeriodSummary struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	Adjustments decimal.Decimal `json:"adjustments"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	Profit      decimal.Decimal `json:"profit"`
	Margin      decimal.Decimal `json:"margin"`
}
