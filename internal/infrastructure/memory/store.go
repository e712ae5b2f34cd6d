package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

// DefaultLockWait espera máxima por un bloqueo de fila antes de fallar con
// ErrLockTimeout. Acotada: ninguna operación del core se suspende indefinidamente.
const DefaultLockWait = 2 * time.Second

type entryKey struct {
	productID   string
	warehouseID string
}

// Filas con bloqueo propio. El canal con buffer 1 actúa como mutex con
// espera acotada: enviar adquiere, recibir libera. La granularidad es por
// fila: pares (producto, bodega) distintos no contienden entre sí.
type stockRow struct {
	lock  chan struct{}
	entry entity.StockEntry
}

type saleRow struct {
	lock chan struct{}
	sale entity.Sale
}

type transferRow struct {
	lock     chan struct{}
	transfer entity.Transfer
}

// Store almacén en memoria que implementa los puertos de persistencia.
// Usado en modo desarrollo (sin DATABASE_URL) y en tests. Las transacciones
// son journaled: las escrituras se aplican al commit; un error descarta el
// journal, así que ningún efecto parcial sobrevive (equivalente al rollback
// de PostgreSQL).
type Store struct {
	mu       sync.RWMutex
	lockWait time.Duration

	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	clients    map[string]entity.Client

	entries   map[entryKey]*stockRow
	sales     map[string]*saleRow
	transfers map[string]*transferRow

	movements []entity.Movement
	audits    []entity.AuditEntry
}

// NewStore construye el almacén. lockWait <= 0 usa DefaultLockWait.
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Store{
		lockWait:   lockWait,
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		categories: make(map[string]entity.Category),
		suppliers:  make(map[string]entity.Supplier),
		clients:    make(map[string]entity.Client),
		entries:    make(map[entryKey]*stockRow),
		sales:      make(map[string]*saleRow),
		transfers:  make(map[string]*transferRow),
	}
}

func newRowLock() chan struct{} {
	return make(chan struct{}, 1)
}

// entryRow obtiene la fila de stock, creándola perezosa en cero en el primer
// acceso al par (producto, bodega); visible de inmediato para lecturas.
func (s *Store) entryRow(productID, warehouseID string) *stockRow {
	key := entryKey{productID: productID, warehouseID: warehouseID}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.entries[key]
	if !ok {
		row = &stockRow{
			lock: newRowLock(),
			entry: entity.StockEntry{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				Reserved:    decimal.Zero,
				UpdatedAt:   time.Now(),
			},
		}
		s.entries[key] = row
	}
	return row
}

// acquire adquiere un bloqueo de fila con espera acotada.
func (s *Store) acquire(ctx context.Context, lock chan struct{}) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case lock <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func copySale(s entity.Sale) entity.Sale {
	lines := make([]entity.SaleLine, len(s.Lines))
	copy(lines, s.Lines)
	s.Lines = lines
	return s
}

func copyTransfer(t entity.Transfer) entity.Transfer {
	lines := make([]entity.TransferLine, len(t.Lines))
	copy(lines, t.Lines)
	t.Lines = lines
	if t.ConfirmedAt != nil {
		at := *t.ConfirmedAt
		t.ConfirmedAt = &at
	}
	return t
}
