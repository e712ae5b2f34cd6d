package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre bodegas: draft -> confirmed, draft -> cancelled.
const (
	TransferStatusDraft     = "draft"
	TransferStatusConfirmed = "confirmed"
	TransferStatusCancelled = "cancelled"
)

// Transfer traslado de stock de una bodega origen a una destino.
// Invariante estructural: origen != destino, validado en la creación.
// Mutable solo en estado draft.
type Transfer struct {
	ID              string
	Reference       string
	SourceWarehouse string
	DestWarehouse   string
	Status          string
	Reason          string
	Lines           []TransferLine
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	CreatedBy       string
}

// TransferLine línea de traslado (producto y cantidad).
type TransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   decimal.Decimal
}
