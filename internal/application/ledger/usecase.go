package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// AdjustInput entrada para una mutación del ledger. Quantity es el delta con
// signo: positivo aumenta, negativo disminuye.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	Kind        string
	Quantity    decimal.Decimal
	Reason      string
	Actor       string
}

// StockMutator capacidad única de mutación de StockEntry. La implementa el
// ledger y la consumen los workflows de venta y traslado además del ajuste
// manual: todas las rutas de escritura pasan por aquí para que las
// invariantes se cumplan bajo concurrencia, sin importar el caller.
type StockMutator interface {
	ApplyInTx(repos TxRepos, in AdjustInput, now time.Time, txID string) (*entity.StockEntry, error)
}

var _ StockMutator = (*UseCase)(nil)

// UseCase el ledger de stock: punto de entrada único de mutación por
// (producto, bodega) y superficie de consulta derivada.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	entryRepo     repository.StockEntryRepository
	movementRepo  repository.MovementRepository
	maxRetries    int
}

// NewUseCase construye el ledger. maxRetries acota los reintentos ante contención.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	entryRepo repository.StockEntryRepository,
	movementRepo repository.MovementRepository,
	maxRetries int,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		entryRepo:     entryRepo,
		movementRepo:  movementRepo,
		maxRetries:    maxRetries,
	}
}

// Tipos admitidos en el ajuste manual. Los tipos transfer-in/transfer-out
// solo se emiten desde el workflow de traslado.
var manualKinds = map[string]bool{
	entity.MovementKindIn:         true,
	entity.MovementKindOut:        true,
	entity.MovementKindAdjustment: true,
	entity.MovementKindReserve:    true,
	entity.MovementKindRelease:    true,
}

// Adjust aplica atómicamente un delta a un StockEntry: bloquea la fila,
// verifica invariantes, escribe un Movement y una entrada de auditoría.
// Reintenta de forma acotada solo ante contención.
func (uc *UseCase) Adjust(ctx context.Context, in AdjustInput) (*dto.StockEntryResponse, error) {
	if !manualKinds[in.Kind] || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()

	var updated *entity.StockEntry
	err = RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos TxRepos) error {
		entry, err := uc.ApplyInTx(repos, in, now, txID)
		if err != nil {
			return err
		}
		detail, _ := json.Marshal(map[string]any{
			"kind":     in.Kind,
			"quantity": in.Quantity,
			"reason":   in.Reason,
		})
		audit := &entity.AuditEntry{
			ID:         uuid.New().String(),
			Actor:      in.Actor,
			Action:     entity.AuditActionStockAdjust,
			EntityType: "StockEntry",
			EntityID:   in.ProductID + ":" + in.WarehouseID,
			Details:    detail,
			CreatedAt:  now,
		}
		if err := repos.Audit.Create(audit); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(updated, product.LowStockThreshold), nil
}

// ApplyInTx aplica un delta dentro de la transacción del caller: la
// verificación (available >= solicitado) y la escritura son un único paso
// atómico por fila gracias al bloqueo de GetForUpdate. Escribe exactamente
// un Movement. No escribe auditoría: eso es del caller (una entrada por
// operación, no por línea).
func (uc *UseCase) ApplyInTx(repos TxRepos, in AdjustInput, now time.Time, txID string) (*entity.StockEntry, error) {
	affectsQuantity := entity.QuantityKinds[in.Kind]
	affectsReserved := entity.ReservedKinds[in.Kind]
	if !affectsQuantity && !affectsReserved {
		return nil, domain.ErrInvalidInput
	}

	// Una bodega inactiva no recibe reservas nuevas ni traslados entrantes.
	// La guarda mira el efecto, no la etiqueta: cualquier delta positivo
	// sobre Reserved (reserve o release con signo invertido) cuenta como
	// reserva nueva. Salidas y correcciones siguen permitidas (hay que
	// poder vaciarla).
	if in.Quantity.GreaterThan(decimal.Zero) &&
		(affectsReserved || in.Kind == entity.MovementKindTransferIn) {
		warehouse, err := repos.Warehouses.GetByID(in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
		if !warehouse.Active {
			return nil, fmt.Errorf("bodega %s: %w", warehouse.Name, domain.ErrInactiveWarehouse)
		}
	}

	entry, err := repos.Entries.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if affectsQuantity {
		entry.Quantity = entry.Quantity.Add(in.Quantity)
	} else {
		entry.Reserved = entry.Reserved.Add(in.Quantity)
	}
	if !entry.CheckInvariants() {
		return nil, fmt.Errorf("producto %s en bodega %s: %w",
			in.ProductID, in.WarehouseID, domain.ErrInsufficientStock)
	}
	entry.UpdatedAt = now
	if err := repos.Entries.Upsert(entry); err != nil {
		return nil, err
	}

	movement := &entity.Movement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		CreatedAt:     now,
		CreatedBy:     in.Actor,
	}
	if err := repos.Movements.Create(movement); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry obtiene el registro de stock (en cero si aún no existe) con sus
// campos derivados. Lectura sin bloqueo: instantánea que puede estar siendo
// superada concurrentemente.
func (uc *UseCase) GetEntry(productID, warehouseID string) (*dto.StockEntryResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	entry, err := uc.entryRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry, product.LowStockThreshold), nil
}

// Availability disponibilidad puntual de un (producto, bodega).
func (uc *UseCase) Availability(productID, warehouseID string) (*dto.AvailabilityResponse, error) {
	resp, err := uc.GetEntry(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		ProductID:   resp.ProductID,
		WarehouseID: resp.WarehouseID,
		Available:   resp.Available,
		OutOfStock:  resp.OutOfStock,
		LowStock:    resp.LowStock,
	}, nil
}

// ProductStock existencias de un producto en todas las bodegas y su total
// agregado (el "stock actual" del producto es derivado, nunca almacenado).
func (uc *UseCase) ProductStock(productID string) (*dto.ProductStockResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.entryRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductStockResponse{ProductID: productID, Total: decimal.Zero}
	for _, e := range entries {
		resp.Total = resp.Total.Add(e.Quantity)
		resp.Entries = append(resp.Entries, *toEntryResponse(e, product.LowStockThreshold))
	}
	return resp, nil
}

// WarehouseEntries registros de stock de una bodega.
func (uc *UseCase) WarehouseEntries(warehouseID string, limit, offset int) ([]dto.StockEntryResponse, error) {
	entries, err := uc.entryRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		product, err := uc.productRepo.GetByID(e.ProductID)
		if err != nil {
			return nil, err
		}
		threshold := decimal.Zero
		if product != nil {
			threshold = product.LowStockThreshold
		}
		items = append(items, *toEntryResponse(e, threshold))
	}
	return items, nil
}

// WarehouseSummary agregados de una bodega: valor total y número de productos.
func (uc *UseCase) WarehouseSummary(warehouseID string) (*dto.WarehouseSummaryResponse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	totalValue, productCount, err := uc.entryRepo.Summary(warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.WarehouseSummaryResponse{
		WarehouseID:  warehouseID,
		TotalValue:   totalValue,
		ProductCount: productCount,
	}, nil
}

// Movements histórico de movimientos con filtros de trazabilidad.
func (uc *UseCase) Movements(filter repository.MovementFilter, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.movementRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset}}
	for _, m := range list {
		resp.Items = append(resp.Items, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Kind:          m.Kind,
			Quantity:      m.Quantity,
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	return resp, nil
}

func toEntryResponse(e *entity.StockEntry, threshold decimal.Decimal) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Quantity:    e.Quantity,
		Reserved:    e.Reserved,
		Available:   e.Available(),
		OutOfStock:  e.IsOutOfStock(),
		LowStock:    e.IsLowStock(threshold),
		Location:    e.Location,
		UpdatedAt:   e.UpdatedAt,
	}
}
