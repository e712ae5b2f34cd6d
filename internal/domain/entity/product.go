package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (referenciado, nunca mutado, por el ledger).
// El stock disponible NO se guarda aquí: es derivado, suma de sus StockEntry por bodega.
type Product struct {
	ID                string
	Code              string // código único
	Name              string
	Description       string
	CategoryID        string
	SupplierID        string
	SalePrice         decimal.Decimal
	LowStockThreshold decimal.Decimal // umbral de alerta de stock bajo
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
