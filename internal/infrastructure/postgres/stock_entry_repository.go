package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Get obtiene el registro de stock de un producto en una bodega.
// Si no existe devuelve uno en cero (creación perezosa: la fila aparece al primer movimiento).
func (r *StockEntryRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, location, updated_at
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2`
	var e entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.Reserved, &e.Location, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{
				ProductID: productID, WarehouseID: warehouseID,
				Quantity: decimal.Zero, Reserved: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return &e, nil
}

// GetForUpdate materializa la fila si no existe y la bloquea (SELECT FOR UPDATE).
// El lock_timeout de la transacción acota la espera; su vencimiento llega como
// ErrLockTimeout al retry del ledger.
func (r *StockEntryRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (product_id, warehouse_id, quantity, reserved, location, updated_at)
		VALUES ($1, $2, 0, 0, '', now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		productID, warehouseID,
	)
	if err != nil {
		return nil, mapLockError(fmt.Errorf("materialize stock entry: %w", err))
	}
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, location, updated_at
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var e entity.StockEntry
	err = r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.Reserved, &e.Location, &e.UpdatedAt,
	)
	if err != nil {
		return nil, mapLockError(fmt.Errorf("get stock entry for update: %w", err))
	}
	return &e, nil
}

// Upsert inserta o actualiza cantidades por producto y bodega.
func (r *StockEntryRepo) Upsert(entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (product_id, warehouse_id, quantity, reserved, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved, location = EXCLUDED.location, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		entry.ProductID, entry.WarehouseID, entry.Quantity, entry.Reserved, entry.Location,
	)
	if err != nil {
		return mapLockError(fmt.Errorf("upsert stock entry: %w", err))
	}
	return nil
}

// ListByWarehouse lista el stock de una bodega con paginación.
func (r *StockEntryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, location, updated_at
		FROM stock_entries WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByProduct lista el stock de un producto en todas las bodegas.
func (r *StockEntryRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, location, updated_at
		FROM stock_entries WHERE product_id = $1
		ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Summary agregados de una bodega: valor del inventario a precio de venta
// y número de productos con existencias.
func (r *StockEntryRepo) Summary(warehouseID string) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(s.quantity * p.sale_price), 0), COUNT(*)
		FROM stock_entries s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1 AND s.quantity > 0`
	var totalValue decimal.Decimal
	var productCount int
	err := r.q.QueryRow(context.Background(), query, warehouseID).Scan(&totalValue, &productCount)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("warehouse summary: %w", err)
	}
	return totalValue, productCount, nil
}

func scanEntries(rows pgx.Rows) ([]*entity.StockEntry, error) {
	var entries []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ProductID, &e.WarehouseID, &e.Quantity, &e.Reserved, &e.Location, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
