package sale_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/application/sale"
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
	uc          *sale.UseCase
	ledgerUC    *ledger.UseCase
	entries     repository.StockEntryRepository
	movements   repository.MovementRepository
	audits      repository.AuditEntryRepository
	productA    string
	productB    string
	warehouseID string
	clientID    string
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := memory.NewStore(2 * time.Second)
	products := memory.NewProductRepository(st)
	warehouses := memory.NewWarehouseRepository(st)
	entries := memory.NewStockEntryRepository(st)
	movements := memory.NewMovementRepository(st)
	sales := memory.NewSaleRepository(st)
	clients := memory.NewClientRepository(st)

	now := time.Now()
	pa := &entity.Product{ID: uuid.New().String(), Code: "WAX-001", Name: "Tejido wax", SalePrice: dec("45"), CreatedAt: now, UpdatedAt: now}
	pb := &entity.Product{ID: uuid.New().String(), Code: "BAZ-002", Name: "Bazin riche", SalePrice: dec("60"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, products.Create(pa))
	require.NoError(t, products.Create(pb))

	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Tienda Sandaga", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, warehouses.Create(w))

	cl := &entity.Client{ID: uuid.New().String(), Name: "Cliente Mayorista", Type: entity.ClientTypeWholesale, CreatedAt: now}
	require.NoError(t, clients.Create(cl))

	ledgerUC := ledger.NewUseCase(st, products, warehouses, entries, movements, 3)
	uc := sale.NewUseCase(st, ledgerUC, sales, products, warehouses, clients, 3)
	return fixture{
		uc:          uc,
		ledgerUC:    ledgerUC,
		entries:     entries,
		movements:   movements,
		audits:      memory.NewAuditRepository(st),
		productA:    pa.ID,
		productB:    pb.ID,
		warehouseID: w.ID,
		clientID:    cl.ID,
	}
}

func (f fixture) seedStock(t *testing.T, productID, qty string) {
	t.Helper()
	_, err := f.ledgerUC.Adjust(context.Background(), ledger.AdjustInput{
		ProductID:   productID,
		WarehouseID: f.warehouseID,
		Kind:        entity.MovementKindIn,
		Quantity:    dec(qty),
		Reason:      "seed",
		Actor:       "tester",
	})
	require.NoError(t, err)
}

func (f fixture) quantity(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	e, err := f.entries.Get(productID, f.warehouseID)
	require.NoError(t, err)
	return e.Quantity
}

func (f fixture) newSale(t *testing.T, lines ...dto.SaleLineRequest) *dto.SaleResponse {
	t.Helper()
	s, err := f.uc.Create(context.Background(), dto.CreateSaleRequest{ClientID: f.clientID, Lines: lines}, "vendedor")
	require.NoError(t, err)
	return s
}

func line(productID, warehouseID, qty, price string) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, WarehouseID: warehouseID, Quantity: dec(qty), UnitPrice: dec(price)}
}

func TestCreate_DraftConTotalDerivado(t *testing.T) {
	f := setup(t)
	s := f.newSale(t,
		line(f.productA, f.warehouseID, "2", "45"),
		line(f.productB, f.warehouseID, "1", "60"),
	)

	assert.Equal(t, entity.SaleStatusDraft, s.Status)
	assert.True(t, s.Total.Equal(dec("150")), "total = 2*45 + 1*60")
	assert.Regexp(t, `^V-\d{8}-[0-9A-F]{6}$`, s.Number)
	assert.Len(t, s.Lines, 2)

	// Crear en draft no mueve stock.
	assert.True(t, f.quantity(t, f.productA).IsZero())
}

func TestCreate_ClienteInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Create(context.Background(), dto.CreateSaleRequest{
		ClientID: uuid.New().String(),
		Lines:    []dto.SaleLineRequest{line(f.productA, f.warehouseID, "1", "45")},
	}, "vendedor")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_LineaInvalida(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{line(f.productA, f.warehouseID, "0", "45")},
	}, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero no es una línea válida")

	_, err = f.uc.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{line(f.productA, f.warehouseID, "1", "-5")},
	}, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo rechazado")
}

func TestConfirm_DescuentaStockPorLinea(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "4", "45"))

	confirmed, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.Lines[0].Fulfilled)
	assert.True(t, f.quantity(t, f.productA).Equal(dec("6")), "10 - 4 = 6")

	// Un out-movement por línea, trazable a la venta.
	movs, err := f.movements.List(repository.MovementFilter{
		ProductID: f.productA,
		Kind:      entity.MovementKindOut,
	}, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "sale "+s.Number, movs[0].Reason)
}

func TestConfirm_StockInsuficienteDejaVentaEnDraft(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "3")
	s := f.newSale(t, line(f.productA, f.warehouseID, "5", "45"))

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.GetByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, got.Status, "la venta sigue en draft")
	assert.False(t, got.Lines[0].Fulfilled)
	assert.True(t, f.quantity(t, f.productA).Equal(dec("3")), "el stock no cambió")

	movs, err := f.movements.List(repository.MovementFilter{Kind: entity.MovementKindOut}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "ningún movimiento de la confirmación fallida")
}

func TestConfirm_DosLineasTodoONada(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	f.seedStock(t, f.productB, "1")
	s := f.newSale(t,
		line(f.productA, f.warehouseID, "4", "45"),
		line(f.productB, f.warehouseID, "3", "60"),
	)

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La primera línea aplicó y luego se revirtió con la transacción.
	assert.True(t, f.quantity(t, f.productA).Equal(dec("10")), "la línea aplicada se revirtió")
	assert.True(t, f.quantity(t, f.productB).Equal(dec("1")))
}

func TestConfirm_IdempotenciaRechazada(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "2", "45"))

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), s.ID, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmar dos veces no descuenta dos veces")
	assert.True(t, f.quantity(t, f.productA).Equal(dec("8")))
}

func TestConfirm_SinLineas(t *testing.T) {
	f := setup(t)
	s := f.newSale(t)
	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	assert.ErrorIs(t, err, domain.ErrStructuralViolation)
}

func TestCancel_DesdeConfirmedRepone(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "4", "45"))

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	require.True(t, f.quantity(t, f.productA).Equal(dec("6")))

	cancelled, err := f.uc.Cancel(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.True(t, f.quantity(t, f.productA).Equal(dec("10")), "la anulación repone lo descontado")

	// La reposición es un movimiento compensatorio, no un borrado del histórico.
	ins, err := f.movements.List(repository.MovementFilter{
		ProductID: f.productA,
		Kind:      entity.MovementKindIn,
	}, 10, 0)
	require.NoError(t, err)
	found := false
	for _, m := range ins {
		if m.Reason == "cancel sale "+s.Number {
			found = true
		}
	}
	assert.True(t, found, "existe el movimiento compensatorio de la anulación")
}

func TestCancel_DesdeDraftSinEfectoDeStock(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "4", "45"))

	cancelled, err := f.uc.Cancel(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.True(t, f.quantity(t, f.productA).Equal(dec("10")))
}

func TestCancel_DesdeDeliveredRechazado(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "2", "45"))

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	_, err = f.uc.Deliver(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), s.ID, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDeliver_SoloDesdeConfirmed(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "2", "45"))

	_, err := f.uc.Deliver(context.Background(), s.ID, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft no se entrega")

	_, err = f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)

	delivered, err := f.uc.Deliver(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDelivered, delivered.Status)
	assert.True(t, f.quantity(t, f.productA).Equal(dec("8")), "la entrega no mueve stock otra vez")
}

func TestUpdateLines_SoloEnDraft(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "2", "45"))

	updated, err := f.uc.UpdateLines(context.Background(), s.ID, dto.UpdateSaleLinesRequest{
		Lines: []dto.SaleLineRequest{line(f.productA, f.warehouseID, "5", "40")},
	}, "vendedor")
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(dec("200")), "el total se recalcula con las líneas nuevas")

	_, err = f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)

	_, err = f.uc.UpdateLines(context.Background(), s.ID, dto.UpdateSaleLinesRequest{
		Lines: []dto.SaleLineRequest{line(f.productA, f.warehouseID, "1", "45")},
	}, "vendedor")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmada ya no se edita")
}

func TestBulkConfirm_ResultadosMixtos(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "5")
	ok := f.newSale(t, line(f.productA, f.warehouseID, "3", "45"))
	sinStock := f.newSale(t, line(f.productA, f.warehouseID, "9", "45"))

	resp := f.uc.BulkConfirm(context.Background(), []string{ok.ID, sinStock.ID, uuid.New().String()}, "vendedor")

	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].OK)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.NotEmpty(t, resp.Results[2].Error)

	// El fallo de una no detuvo a la que sí podía confirmar.
	assert.True(t, f.quantity(t, f.productA).Equal(dec("2")))
}

func TestConfirm_ConcurrenciaNuncaSobrevende(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "5")

	const workers = 8
	ids := make([]string, workers)
	for i := range ids {
		ids[i] = f.newSale(t, line(f.productA, f.warehouseID, "1", "45")).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Confirm(context.Background(), ids[i], "vendedor")
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
	assert.Equal(t, 5, ok, "con 5 unidades solo confirman 5 ventas de 1")
	assert.True(t, f.quantity(t, f.productA).IsZero(), "nunca se sobrevende")
}

func TestConfirm_EscribeAuditoria(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.productA, "10")
	s := f.newSale(t, line(f.productA, f.warehouseID, "2", "45"))

	_, err := f.uc.Confirm(context.Background(), s.ID, "vendedor")
	require.NoError(t, err)

	audits, err := f.audits.List(repository.AuditFilter{
		Action:   entity.AuditActionSaleConfirm,
		EntityID: s.ID,
	}, 10, 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "vendedor", audits[0].Actor)
	assert.Equal(t, "Sale", audits[0].EntityType)
}
