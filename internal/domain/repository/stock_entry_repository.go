package repository

import (
	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

// StockEntryRepository puerto para consultar/actualizar el registro de stock
// por (producto, bodega). Las escrituras solo ocurren dentro de transacciones
// del ledger para garantizar consistencia.
type StockEntryRepository interface {
	// Get obtiene el registro; si no existe devuelve uno en cero (creación perezosa).
	Get(productID, warehouseID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila para escritura (SELECT FOR UPDATE o equivalente).
	GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error)
	Upsert(entry *entity.StockEntry) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error)
	ListByProduct(productID string) ([]*entity.StockEntry, error)
	// Summary agregados por bodega: valor total (cantidad × precio de venta)
	// y número de productos con existencias.
	Summary(warehouseID string) (totalValue decimal.Decimal, productCount int, err error)
}
