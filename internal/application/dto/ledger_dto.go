package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
// Kind: in, out, adjustment, reserve, release. Quantity es el delta con signo.
type AdjustStockRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
}

// StockEntryResponse estado de un registro de stock con sus campos derivados.
type StockEntryResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	OutOfStock  bool            `json:"out_of_stock"`
	LowStock    bool            `json:"low_stock"`
	Location    string          `json:"location,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AvailabilityResponse disponibilidad puntual de un (producto, bodega).
type AvailabilityResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	OutOfStock  bool            `json:"out_of_stock"`
	LowStock    bool            `json:"low_stock"`
}

// ProductStockResponse existencias de un producto por bodega y total agregado.
type ProductStockResponse struct {
	ProductID string               `json:"product_id"`
	Total     decimal.Decimal      `json:"total"`
	Entries   []StockEntryResponse `json:"entries"`
}

// WarehouseSummaryResponse agregados de una bodega.
type WarehouseSummaryResponse struct {
	WarehouseID  string          `json:"warehouse_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
	ProductCount int             `json:"product_count"`
}

// MovementResponse un movimiento del histórico.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
