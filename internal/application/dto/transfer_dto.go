package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLineRequest línea de traslado en creación/edición.
type TransferLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID string                `json:"source_warehouse_id"`
	DestWarehouseID   string                `json:"dest_warehouse_id"`
	Reason            string                `json:"reason"`
	Lines             []TransferLineRequest `json:"lines"`
}

// UpdateTransferLinesRequest body para PUT /api/transfers/:id/lines (solo draft).
type UpdateTransferLinesRequest struct {
	Lines []TransferLineRequest `json:"lines"`
}

// TransferLineResponse línea de traslado.
type TransferLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse traslado con sus líneas.
type TransferResponse struct {
	ID                string                 `json:"id"`
	Reference         string                 `json:"reference"`
	SourceWarehouseID string                 `json:"source_warehouse_id"`
	DestWarehouseID   string                 `json:"dest_warehouse_id"`
	Status            string                 `json:"status"`
	Reason            string                 `json:"reason,omitempty"`
	Lines             []TransferLineResponse `json:"lines"`
	CreatedAt         time.Time              `json:"created_at"`
	ConfirmedAt       *time.Time             `json:"confirmed_at,omitempty"`
	CreatedBy         string                 `json:"created_by,omitempty"`
}

// TransferListResponse listado paginado de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
