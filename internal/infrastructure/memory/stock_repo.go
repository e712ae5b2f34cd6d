package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// stockEntryRepo implementación en memoria del puerto de stock. Con tx != nil
// las escrituras van al journal de la transacción; con tx == nil opera en
// modo autocommit (solo lecturas en la práctica).
type stockEntryRepo struct {
	st *Store
	tx *Tx
}

// NewStockEntryRepository repositorio de stock en modo autocommit.
func NewStockEntryRepository(st *Store) repository.StockEntryRepository {
	return &stockEntryRepo{st: st}
}

func (r *stockEntryRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	row := r.st.entryRow(productID, warehouseID)
	if r.tx != nil {
		if staged, ok := r.tx.entryWrites[row]; ok {
			e := staged
			return &e, nil
		}
	}
	r.st.mu.RLock()
	e := row.entry
	r.st.mu.RUnlock()
	return &e, nil
}

func (r *stockEntryRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	if r.tx == nil {
		return r.Get(productID, warehouseID)
	}
	row := r.st.entryRow(productID, warehouseID)
	if err := r.tx.lockStock(row); err != nil {
		return nil, err
	}
	if staged, ok := r.tx.entryWrites[row]; ok {
		e := staged
		return &e, nil
	}
	r.st.mu.RLock()
	e := row.entry
	r.st.mu.RUnlock()
	return &e, nil
}

func (r *stockEntryRepo) Upsert(entry *entity.StockEntry) error {
	row := r.st.entryRow(entry.ProductID, entry.WarehouseID)
	if r.tx != nil {
		if err := r.tx.lockStock(row); err != nil {
			return err
		}
		r.tx.entryWrites[row] = *entry
		return nil
	}
	r.st.mu.Lock()
	row.entry = *entry
	r.st.mu.Unlock()
	return nil
}

func (r *stockEntryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error) {
	r.st.mu.RLock()
	entries := make([]entity.StockEntry, 0)
	for key, row := range r.st.entries {
		if key.warehouseID == warehouseID {
			entries = append(entries, row.entry)
		}
	}
	r.st.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })
	return pageEntries(entries, limit, offset), nil
}

func (r *stockEntryRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	r.st.mu.RLock()
	entries := make([]entity.StockEntry, 0)
	for key, row := range r.st.entries {
		if key.productID == productID {
			entries = append(entries, row.entry)
		}
	}
	r.st.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].WarehouseID < entries[j].WarehouseID })
	return pageEntries(entries, 0, 0), nil
}

// Summary valor total (cantidad × precio de venta) y productos con existencias.
func (r *stockEntryRepo) Summary(warehouseID string) (decimal.Decimal, int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	totalValue := decimal.Zero
	productCount := 0
	for key, row := range r.st.entries {
		if key.warehouseID != warehouseID || !row.entry.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		productCount++
		if p, ok := r.st.products[key.productID]; ok {
			totalValue = totalValue.Add(row.entry.Quantity.Mul(p.SalePrice))
		}
	}
	return totalValue, productCount, nil
}

func pageEntries(entries []entity.StockEntry, limit, offset int) []*entity.StockEntry {
	if offset > len(entries) {
		offset = len(entries)
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	out := make([]*entity.StockEntry, 0, len(entries))
	for i := range entries {
		e := entries[i]
		out = append(out, &e)
	}
	return out
}
