package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en auditoría.
const (
	AuditActionStockAdjust     = "stock.adjust"
	AuditActionSaleConfirm     = "sale.confirm"
	AuditActionSaleCancel      = "sale.cancel"
	AuditActionSaleDeliver     = "sale.deliver"
	AuditActionTransferConfirm = "transfer.confirm"
	AuditActionTransferCancel  = "transfer.cancel"
)

// AuditEntry registro inmutable de una acción mutadora, para revisión de
// cumplimiento. Se escribe una sola vez; de solo lectura para todo
// consumidor, administradores incluidos.
type AuditEntry struct {
	ID         string
	Actor      string
	Action     string
	EntityType string // Sale, Transfer, StockEntry
	EntityID   string
	Details    json.RawMessage
	CreatedAt  time.Time
}
