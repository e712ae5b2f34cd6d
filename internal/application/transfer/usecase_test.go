package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/application/transfer"
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
	uc         *transfer.UseCase
	ledgerUC   *ledger.UseCase
	entries    repository.StockEntryRepository
	movements  repository.MovementRepository
	warehouses repository.WarehouseRepository
	productID  string
	sourceID   string
	destID     string
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := memory.NewStore(2 * time.Second)
	products := memory.NewProductRepository(st)
	warehouses := memory.NewWarehouseRepository(st)
	entries := memory.NewStockEntryRepository(st)
	movements := memory.NewMovementRepository(st)
	transfers := memory.NewTransferRepository(st)

	now := time.Now()
	p := &entity.Product{ID: uuid.New().String(), Code: "WAX-001", Name: "Tejido wax", SalePrice: dec("45"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, products.Create(p))

	source := &entity.Warehouse{ID: uuid.New().String(), Name: "Depósito A", Active: true, CreatedAt: now, UpdatedAt: now}
	dest := &entity.Warehouse{ID: uuid.New().String(), Name: "Depósito B", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, warehouses.Create(source))
	require.NoError(t, warehouses.Create(dest))

	ledgerUC := ledger.NewUseCase(st, products, warehouses, entries, movements, 3)
	uc := transfer.NewUseCase(st, ledgerUC, transfers, products, warehouses, 3)
	return fixture{
		uc:         uc,
		ledgerUC:   ledgerUC,
		entries:    entries,
		movements:  movements,
		warehouses: warehouses,
		productID:  p.ID,
		sourceID:   source.ID,
		destID:     dest.ID,
	}
}

func (f fixture) seedStock(t *testing.T, warehouseID, qty string) {
	t.Helper()
	_, err := f.ledgerUC.Adjust(context.Background(), ledger.AdjustInput{
		ProductID:   f.productID,
		WarehouseID: warehouseID,
		Kind:        entity.MovementKindIn,
		Quantity:    dec(qty),
		Reason:      "seed",
		Actor:       "tester",
	})
	require.NoError(t, err)
}

func (f fixture) quantity(t *testing.T, warehouseID string) decimal.Decimal {
	t.Helper()
	e, err := f.entries.Get(f.productID, warehouseID)
	require.NoError(t, err)
	return e.Quantity
}

func (f fixture) newTransfer(t *testing.T, qty string) *dto.TransferResponse {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{
		SourceWarehouseID: f.sourceID,
		DestWarehouseID:   f.destID,
		Reason:            "reabastecimiento",
		Lines:             []dto.TransferLineRequest{{ProductID: f.productID, Quantity: dec(qty)}},
	}, "logistica")
	require.NoError(t, err)
	return tr
}

func TestCreate_Draft(t *testing.T) {
	f := setup(t)
	tr := f.newTransfer(t, "5")

	assert.Equal(t, entity.TransferStatusDraft, tr.Status)
	assert.Regexp(t, `^T-\d{8}-[0-9A-F]{6}$`, tr.Reference)
	assert.Nil(t, tr.ConfirmedAt)
	assert.True(t, f.quantity(t, f.sourceID).IsZero(), "crear en draft no mueve stock")
}

func TestCreate_OrigenIgualADestino(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{
		SourceWarehouseID: f.sourceID,
		DestWarehouseID:   f.sourceID,
		Lines:             []dto.TransferLineRequest{{ProductID: f.productID, Quantity: dec("1")}},
	}, "logistica")
	assert.ErrorIs(t, err, domain.ErrStructuralViolation)
}

func TestCreate_BodegaInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{
		SourceWarehouseID: f.sourceID,
		DestWarehouseID:   uuid.New().String(),
		Lines:             []dto.TransferLineRequest{{ProductID: f.productID, Quantity: dec("1")}},
	}, "logistica")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_MueveStockEntreBodegas(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "12")
	tr := f.newTransfer(t, "5")

	confirmed, err := f.uc.Confirm(context.Background(), tr.ID, "logistica")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	assert.True(t, f.quantity(t, f.sourceID).Equal(dec("7")), "origen 12 - 5")
	assert.True(t, f.quantity(t, f.destID).Equal(dec("5")), "destino 0 + 5")

	// Un par transfer-out/transfer-in por línea, con el mismo TransactionID.
	outs, err := f.movements.List(repository.MovementFilter{Kind: entity.MovementKindTransferOut}, 10, 0)
	require.NoError(t, err)
	ins, err := f.movements.List(repository.MovementFilter{Kind: entity.MovementKindTransferIn}, 10, 0)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Len(t, ins, 1)
	assert.Equal(t, outs[0].TransactionID, ins[0].TransactionID, "salida y entrada comparten transacción")
	assert.True(t, outs[0].Quantity.Equal(dec("-5")))
	assert.True(t, ins[0].Quantity.Equal(dec("5")))
	assert.Equal(t, "transfer "+tr.Reference, outs[0].Reason)
}

func TestConfirm_StockInsuficienteEnOrigen(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "3")
	tr := f.newTransfer(t, "5")

	_, err := f.uc.Confirm(context.Background(), tr.ID, "logistica")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, got.Status, "el traslado sigue en draft")
	assert.True(t, f.quantity(t, f.sourceID).Equal(dec("3")))
	assert.True(t, f.quantity(t, f.destID).IsZero())
}

func TestConfirm_DestinoDesactivadoEnVuelo(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "10")
	tr := f.newTransfer(t, "4")

	// El destino se desactiva entre el draft y la confirmación.
	dest, err := f.warehouses.GetByID(f.destID)
	require.NoError(t, err)
	dest.Active = false
	require.NoError(t, f.warehouses.Update(dest))

	_, err = f.uc.Confirm(context.Background(), tr.ID, "logistica")
	require.ErrorIs(t, err, domain.ErrInactiveWarehouse)

	// La salida de origen ya aplicada se revirtió con la transacción.
	assert.True(t, f.quantity(t, f.sourceID).Equal(dec("10")), "el origen quedó intacto")
	assert.True(t, f.quantity(t, f.destID).IsZero())

	movs, err := f.movements.List(repository.MovementFilter{Kind: entity.MovementKindTransferOut}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "ningún movimiento del intento fallido")
}

func TestConfirm_SinLineas(t *testing.T) {
	f := setup(t)
	tr, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{
		SourceWarehouseID: f.sourceID,
		DestWarehouseID:   f.destID,
	}, "logistica")
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), tr.ID, "logistica")
	assert.ErrorIs(t, err, domain.ErrStructuralViolation)
}

func TestConfirm_IdempotenciaRechazada(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "10")
	tr := f.newTransfer(t, "4")

	_, err := f.uc.Confirm(context.Background(), tr.ID, "logistica")
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), tr.ID, "logistica")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmar dos veces no mueve dos veces")
	assert.True(t, f.quantity(t, f.sourceID).Equal(dec("6")))
}

func TestCancel_SoloEnDraft(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "10")
	tr := f.newTransfer(t, "4")

	cancelled, err := f.uc.Cancel(context.Background(), tr.ID, "logistica")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.True(t, f.quantity(t, f.sourceID).Equal(dec("10")), "cancelar un draft no toca stock")

	otro := f.newTransfer(t, "4")
	_, err = f.uc.Confirm(context.Background(), otro.ID, "logistica")
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), otro.ID, "logistica")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmado ya no se cancela")
}

func TestUpdateLines_SoloEnDraft(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "10")
	tr := f.newTransfer(t, "2")

	updated, err := f.uc.UpdateLines(context.Background(), tr.ID, dto.UpdateTransferLinesRequest{
		Lines: []dto.TransferLineRequest{{ProductID: f.productID, Quantity: dec("6")}},
	}, "logistica")
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Lines[0].Quantity.Equal(dec("6")))

	_, err = f.uc.Confirm(context.Background(), tr.ID, "logistica")
	require.NoError(t, err)
	assert.True(t, f.quantity(t, f.destID).Equal(dec("6")), "se confirma con las líneas nuevas")

	_, err = f.uc.UpdateLines(context.Background(), tr.ID, dto.UpdateTransferLinesRequest{
		Lines: []dto.TransferLineRequest{{ProductID: f.productID, Quantity: dec("1")}},
	}, "logistica")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBulkConfirm_ResultadosMixtos(t *testing.T) {
	f := setup(t)
	f.seedStock(t, f.sourceID, "5")
	ok := f.newTransfer(t, "3")
	sinStock := f.newTransfer(t, "9")

	resp := f.uc.BulkConfirm(context.Background(), []string{ok.ID, sinStock.ID}, "logistica")

	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.True(t, f.quantity(t, f.destID).Equal(dec("3")), "el fallo de uno no detiene al otro")
}
