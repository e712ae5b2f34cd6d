package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
	"github.com/Kountade/AFRIKTEXIA/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type fixture struct {
	uc          *ledger.UseCase
	store       *memoryBackend
	productID   string
	warehouseID string
}

// memoryBackend agrupa el almacén y sus repos para los tests.
type memoryBackend struct {
	runner     ledger.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	entries    repository.StockEntryRepository
	movements  repository.MovementRepository
}

func newMemoryBackend(t *testing.T) *memoryBackend {
	t.Helper()
	st := memory.NewStore(2 * time.Second)
	return &memoryBackend{
		runner:     st,
		products:   memory.NewProductRepository(st),
		warehouses: memory.NewWarehouseRepository(st),
		entries:    memory.NewStockEntryRepository(st),
		movements:  memory.NewMovementRepository(st),
	}
}

func setup(t *testing.T) fixture {
	t.Helper()
	backend := newMemoryBackend(t)

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Code:              "TEJ-001",
		Name:              "Tejido wax 6 yardas",
		SalePrice:         dec("45.00"),
		LowStockThreshold: dec("5"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, backend.products.Create(product))

	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      "Depósito Central",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, backend.warehouses.Create(warehouse))

	uc := ledger.NewUseCase(backend.runner, backend.products, backend.warehouses, backend.entries, backend.movements, 3)
	return fixture{uc: uc, store: backend, productID: product.ID, warehouseID: warehouse.ID}
}

func (f fixture) adjust(t *testing.T, kind, qty string) error {
	t.Helper()
	_, err := f.uc.Adjust(context.Background(), ledger.AdjustInput{
		ProductID:   f.productID,
		WarehouseID: f.warehouseID,
		Kind:        kind,
		Quantity:    dec(qty),
		Reason:      "test",
		Actor:       "tester",
	})
	return err
}

func TestAdjust_EntradaYSalida(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.adjust(t, entity.MovementKindIn, "10"))
	require.NoError(t, f.adjust(t, entity.MovementKindOut, "-3"))

	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.Equal(dec("7")))
	assert.True(t, entry.Available.Equal(dec("7")))
	assert.False(t, entry.OutOfStock)
}

func TestAdjust_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "5"))

	err := f.adjust(t, entity.MovementKindOut, "-8")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La cantidad no cambió y no se escribió ningún movimiento de la salida fallida.
	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.Equal(dec("5")), "la transacción fallida no debe dejar efecto parcial")

	movs, err := f.uc.Movements(repository.MovementFilter{ProductID: f.productID}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs.Items, 1, "solo el movimiento de entrada inicial")
}

func TestAdjust_TipoInvalido(t *testing.T) {
	f := setup(t)
	assert.ErrorIs(t, f.adjust(t, "teleport", "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.adjust(t, entity.MovementKindTransferIn, "1"), domain.ErrInvalidInput,
		"los tipos de traslado no se admiten como ajuste manual")
	assert.ErrorIs(t, f.adjust(t, entity.MovementKindIn, "0"), domain.ErrInvalidInput, "delta cero no es un ajuste")
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Adjust(context.Background(), ledger.AdjustInput{
		ProductID:   uuid.New().String(),
		WarehouseID: f.warehouseID,
		Kind:        entity.MovementKindIn,
		Quantity:    dec("1"),
		Actor:       "tester",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_ReservaYLiberacion(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "10"))
	require.NoError(t, f.adjust(t, entity.MovementKindReserve, "4"))

	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.Equal(dec("10")), "la reserva no toca el físico")
	assert.True(t, entry.Reserved.Equal(dec("4")))
	assert.True(t, entry.Available.Equal(dec("6")))

	require.NoError(t, f.adjust(t, entity.MovementKindRelease, "-4"))
	entry, err = f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Available.Equal(dec("10")))
}

func TestAdjust_ReservaSobreDisponibleFalla(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "3"))

	err := f.adjust(t, entity.MovementKindReserve, "5")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "reservar más de lo disponible viola available >= 0")
}

func TestAdjust_BodegaInactivaRechazaReservas(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "10"))
	require.NoError(t, f.adjust(t, entity.MovementKindReserve, "3"))

	w, err := f.store.warehouses.GetByID(f.warehouseID)
	require.NoError(t, err)
	w.Active = false
	require.NoError(t, f.store.warehouses.Update(w))

	assert.ErrorIs(t, f.adjust(t, entity.MovementKindReserve, "2"), domain.ErrInactiveWarehouse)
	assert.ErrorIs(t, f.adjust(t, entity.MovementKindRelease, "2"), domain.ErrInactiveWarehouse,
		"un release con delta positivo también aumenta lo reservado")

	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Reserved.Equal(dec("3")), "lo reservado no creció en la bodega inactiva")

	// Liberar reservas, salidas y correcciones siguen permitidas: la bodega
	// debe poder vaciarse.
	assert.NoError(t, f.adjust(t, entity.MovementKindRelease, "-3"))
	assert.NoError(t, f.adjust(t, entity.MovementKindOut, "-4"))
	assert.NoError(t, f.adjust(t, entity.MovementKindAdjustment, "-1"))
}

func TestMovimientos_ReconstruyenElSaldo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "20"))
	require.NoError(t, f.adjust(t, entity.MovementKindOut, "-6"))
	require.NoError(t, f.adjust(t, entity.MovementKindAdjustment, "-2"))
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "3"))

	movs, err := f.uc.Movements(repository.MovementFilter{
		ProductID:   f.productID,
		WarehouseID: f.warehouseID,
	}, 100, 0)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, m := range movs.Items {
		if entity.QuantityKinds[m.Kind] {
			sum = sum.Add(m.Quantity)
		}
	}
	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(entry.Quantity), "la suma de los movimientos debe reconstruir el saldo")
}

func TestGetEntry_ParNuncaTocadoEsCero(t *testing.T) {
	f := setup(t)
	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.IsZero())
	assert.True(t, entry.Available.IsZero())
	assert.True(t, entry.OutOfStock)
}

// productRepoConFallo envuelve el repo real y hace fallar GetByID.
type productRepoConFallo struct {
	repository.ProductRepository
	err error
}

func (r *productRepoConFallo) GetByID(id string) (*entity.Product, error) {
	return nil, r.err
}

func TestWarehouseEntries_PropagaErrorDelCatalogo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "4"))

	boom := errors.New("catálogo caído")
	failing := &productRepoConFallo{ProductRepository: f.store.products, err: boom}
	uc := ledger.NewUseCase(f.store.runner, failing, f.store.warehouses, f.store.entries, f.store.movements, 3)

	_, err := uc.WarehouseEntries(f.warehouseID, 10, 0)
	assert.ErrorIs(t, err, boom, "un fallo al leer el producto no se degrada a umbral cero")
}

func TestWarehouseEntries_EtiquetaStockBajo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "3"))

	items, err := f.uc.WarehouseEntries(f.warehouseID, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].LowStock, "3 disponibles con umbral 5 es stock bajo")
	assert.False(t, items[0].OutOfStock)
}

func TestWarehouseSummary_ValorYConteo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "4"))

	summary, err := f.uc.WarehouseSummary(f.warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProductCount)
	assert.True(t, summary.TotalValue.Equal(dec("180.00")), "4 unidades a 45.00")
}

func TestAdjust_ConcurrenciaNuncaNegativo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.adjust(t, entity.MovementKindIn, "5"))

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.adjust(t, entity.MovementKindOut, "-1")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, ok, "solo caben 5 decrementos de 1 sobre 5 unidades")

	entry, err := f.uc.GetEntry(f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.IsZero(), "el saldo final es exactamente cero, nunca negativo")
}
