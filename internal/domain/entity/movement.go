package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindIn          = "in"           // entrada
	MovementKindOut         = "out"          // salida
	MovementKindTransferOut = "transfer-out" // salida por traslado
	MovementKindTransferIn  = "transfer-in"  // entrada por traslado
	MovementKindAdjustment  = "adjustment"   // ajuste manual
	MovementKindReserve     = "reserve"      // reserva de unidades
	MovementKindRelease     = "release"      // liberación de reserva
)

// QuantityKinds tipos que afectan la cantidad física del StockEntry.
var QuantityKinds = map[string]bool{
	MovementKindIn:          true,
	MovementKindOut:         true,
	MovementKindTransferOut: true,
	MovementKindTransferIn:  true,
	MovementKindAdjustment:  true,
}

// ReservedKinds tipos que afectan la cantidad reservada del StockEntry.
var ReservedKinds = map[string]bool{
	MovementKindReserve: true,
	MovementKindRelease: true,
}

// Movement registro inmutable de un cambio de cantidad: evidencia permanente
// detrás de cada modificación de StockEntry. Solo se agrega, nunca se
// actualiza ni se elimina. El ledger nunca lo consulta para recalcular
// saldos (el saldo vive en StockEntry; el movimiento cuenta cómo se llegó).
type Movement struct {
	ID            string
	TransactionID string // agrupa los movimientos de una misma confirmación
	ProductID     string
	WarehouseID   string
	Kind          string
	Quantity      decimal.Decimal // delta con signo: positivo entrada, negativo salida
	Reason        string          // "sale V-...", "transfer T-...", motivo del ajuste
	CreatedAt     time.Time
	CreatedBy     string // actor que originó el movimiento
}
