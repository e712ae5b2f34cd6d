package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry registro autoritativo de stock por (producto, bodega).
// Invariantes: Quantity >= 0, Reserved >= 0, Available() >= 0 en todo momento.
// Se crea de forma perezosa en el primer movimiento del par; toda mutación
// pasa por el punto de entrada único del ledger (Adjust).
type StockEntry struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal // unidades físicas presentes
	Reserved    decimal.Decimal // unidades asignadas a ventas confirmadas no despachadas
	Location    string          // emplazamiento dentro de la bodega
	UpdatedAt   time.Time
}

// Available unidades disponibles = físicas menos reservadas.
func (e *StockEntry) Available() decimal.Decimal {
	return e.Quantity.Sub(e.Reserved)
}

// IsOutOfStock indica rotura de stock (disponible <= 0).
func (e *StockEntry) IsOutOfStock() bool {
	return e.Available().LessThanOrEqual(decimal.Zero)
}

// IsLowStock indica stock bajo: 0 < disponible <= umbral del producto.
func (e *StockEntry) IsLowStock(threshold decimal.Decimal) bool {
	avail := e.Available()
	return avail.GreaterThan(decimal.Zero) && avail.LessThanOrEqual(threshold)
}

// CheckInvariants verifica las invariantes del registro tras aplicar un delta.
func (e *StockEntry) CheckInvariants() bool {
	return e.Quantity.GreaterThanOrEqual(decimal.Zero) &&
		e.Reserved.GreaterThanOrEqual(decimal.Zero) &&
		e.Available().GreaterThanOrEqual(decimal.Zero)
}
