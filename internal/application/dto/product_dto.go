package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	SupplierID        string          `json:"supplier_id"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	SupplierID        *string          `json:"supplier_id,omitempty"`
	SalePrice         *decimal.Decimal `json:"sale_price,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
