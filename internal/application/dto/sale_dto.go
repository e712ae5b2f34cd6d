package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta en creación/edición.
type SaleLineRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID string            `json:"client_id"`
	Lines    []SaleLineRequest `json:"lines"`
}

// UpdateSaleLinesRequest body para PUT /api/sales/:id/lines (solo draft).
type UpdateSaleLinesRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

// SaleLineResponse línea de venta con su subtotal derivado.
type SaleLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Fulfilled   bool            `json:"fulfilled"`
}

// SaleResponse venta con total derivado y líneas en orden.
type SaleResponse struct {
	ID        string             `json:"id"`
	Number    string             `json:"number"`
	ClientID  string             `json:"client_id"`
	Status    string             `json:"status"`
	Total     decimal.Decimal    `json:"total"`
	Lines     []SaleLineResponse `json:"lines"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	CreatedBy string             `json:"created_by,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
