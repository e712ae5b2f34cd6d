package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Transiciones de una sola vía:
// draft -> confirmed -> delivered, draft -> cancelled, confirmed -> cancelled (con reposición).
const (
	SaleStatusDraft     = "draft"
	SaleStatusConfirmed = "confirmed"
	SaleStatusDelivered = "delivered"
	SaleStatusCancelled = "cancelled"
)

// Sale venta con sus líneas. Las líneas solo son mutables en estado draft.
// Total es derivado: suma de los subtotales de las líneas.
type Sale struct {
	ID        string
	Number    string
	ClientID  string
	Status    string
	Total     decimal.Decimal
	Lines     []SaleLine // orden declarado; la confirmación lo respeta
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// SaleLine línea de venta: producto tomado de una bodega concreta.
type SaleLine struct {
	ID          string
	SaleID      string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Fulfilled   bool // true cuando el stock fue descontado en la confirmación
}

// Subtotal cantidad por precio unitario.
func (l *SaleLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ComputeTotal recalcula el total desde las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lines {
		total = total.Add(s.Lines[i].Subtotal())
	}
	return total
}
