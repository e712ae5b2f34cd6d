package sale

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// UseCase workflow de ventas: draft -> confirmed -> delivered, draft/confirmed -> cancelled.
// La confirmación descuenta stock a través del ledger, línea por línea en el
// orden declarado, dentro de una única transacción: o todas las líneas
// aplican o ninguna.
type UseCase struct {
	txRunner      ledger.TxRunner
	stock         ledger.StockMutator
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	clientRepo    repository.ClientRepository
	maxRetries    int
}

// NewUseCase construye el workflow de ventas.
func NewUseCase(
	txRunner ledger.TxRunner,
	stock ledger.StockMutator,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	clientRepo repository.ClientRepository,
	maxRetries int,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		stock:         stock,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		clientRepo:    clientRepo,
		maxRetries:    maxRetries,
	}
}

// Create crea una venta en draft con sus líneas. El total se deriva de las líneas.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSaleRequest, actor string) (*dto.SaleResponse, error) {
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Number:    newSaleNumber(now),
		ClientID:  in.ClientID,
		Status:    entity.SaleStatusDraft,
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
	}
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
	}
	sale.Total = sale.ComputeTotal()
	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// UpdateLines reemplaza las líneas de una venta. Solo permitido en draft.
func (uc *UseCase) UpdateLines(ctx context.Context, id string, in dto.UpdateSaleLinesRequest, actor string) (*dto.SaleResponse, error) {
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	var updated *entity.Sale
	err = ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return fmt.Errorf("venta %s en estado %s: %w", sale.Number, sale.Status, domain.ErrInvalidTransition)
		}
		for i := range lines {
			lines[i].SaleID = sale.ID
		}
		if err := repos.Sales.ReplaceLines(sale.ID, lines); err != nil {
			return err
		}
		sale.Lines = lines
		sale.Total = sale.ComputeTotal()
		sale.UpdatedAt = time.Now()
		if err := repos.Sales.Update(sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// Confirm vuelve permanentes los efectos de stock de una venta draft:
// un out-movement por línea (reserva y descuento combinados en el momento de
// confirmar, sin periodo de retención separado). Si cualquier línea falla
// por stock insuficiente, la transacción se revierte completa y la venta
// queda en draft: nunca se retiene una deducción parcial.
func (uc *UseCase) Confirm(ctx context.Context, id, actor string) (*dto.SaleResponse, error) {
	var confirmed *entity.Sale
	err := ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return fmt.Errorf("venta %s en estado %s: %w", sale.Number, sale.Status, domain.ErrInvalidTransition)
		}
		if len(sale.Lines) == 0 {
			return fmt.Errorf("venta %s sin líneas: %w", sale.Number, domain.ErrStructuralViolation)
		}
		now := time.Now()
		txID := uuid.New().String()
		for i := range sale.Lines {
			line := &sale.Lines[i]
			_, err := uc.stock.ApplyInTx(repos, ledger.AdjustInput{
				ProductID:   line.ProductID,
				WarehouseID: line.WarehouseID,
				Kind:        entity.MovementKindOut,
				Quantity:    line.Quantity.Neg(),
				Reason:      "sale " + sale.Number,
				Actor:       actor,
			}, now, txID)
			if err != nil {
				return err
			}
			line.Fulfilled = true
		}
		sale.Status = entity.SaleStatusConfirmed
		sale.Total = sale.ComputeTotal()
		sale.UpdatedAt = now
		if err := repos.Sales.Update(sale); err != nil {
			return err
		}
		if err := writeAudit(repos, actor, entity.AuditActionSaleConfirm, sale, map[string]any{
			"number": sale.Number,
			"lines":  len(sale.Lines),
			"total":  sale.Total,
		}, now); err != nil {
			return err
		}
		confirmed = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(confirmed), nil
}

// Deliver marca como entregada una venta confirmada.
func (uc *UseCase) Deliver(ctx context.Context, id, actor string) (*dto.SaleResponse, error) {
	var delivered *entity.Sale
	err := ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusConfirmed {
			return fmt.Errorf("venta %s en estado %s: %w", sale.Number, sale.Status, domain.ErrInvalidTransition)
		}
		now := time.Now()
		sale.Status = entity.SaleStatusDelivered
		sale.UpdatedAt = now
		if err := repos.Sales.Update(sale); err != nil {
			return err
		}
		if err := writeAudit(repos, actor, entity.AuditActionSaleDeliver, sale, map[string]any{
			"number": sale.Number,
		}, now); err != nil {
			return err
		}
		delivered = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(delivered), nil
}

// Cancel anula una venta. Desde draft no hay efecto de stock. Desde
// confirmed se escribe un movimiento de entrada compensatorio por cada
// línea descontada antes de cambiar el estado: nunca una sobrescritura
// cruda del estado que deje deducciones sin revertir.
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) (*dto.SaleResponse, error) {
	var cancelled *entity.Sale
	err := ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		restocked := false
		switch sale.Status {
		case entity.SaleStatusDraft:
			// sin stock movido en draft
		case entity.SaleStatusConfirmed:
			txID := uuid.New().String()
			for i := range sale.Lines {
				line := &sale.Lines[i]
				if !line.Fulfilled {
					continue
				}
				_, err := uc.stock.ApplyInTx(repos, ledger.AdjustInput{
					ProductID:   line.ProductID,
					WarehouseID: line.WarehouseID,
					Kind:        entity.MovementKindIn,
					Quantity:    line.Quantity,
					Reason:      "cancel sale " + sale.Number,
					Actor:       actor,
				}, now, txID)
				if err != nil {
					return err
				}
				line.Fulfilled = false
			}
			restocked = true
		default:
			return fmt.Errorf("venta %s en estado %s: %w", sale.Number, sale.Status, domain.ErrInvalidTransition)
		}
		sale.Status = entity.SaleStatusCancelled
		sale.UpdatedAt = now
		if err := repos.Sales.Update(sale); err != nil {
			return err
		}
		if err := writeAudit(repos, actor, entity.AuditActionSaleCancel, sale, map[string]any{
			"number":    sale.Number,
			"restocked": restocked,
		}, now); err != nil {
			return err
		}
		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(cancelled), nil
}

// BulkConfirm confirma varias ventas, registro a registro por las mismas
// guardas que la confirmación individual. Un fallo no detiene el resto.
func (uc *UseCase) BulkConfirm(ctx context.Context, ids []string, actor string) *dto.BulkActionResponse {
	return uc.bulk(ids, func(id string) error {
		_, err := uc.Confirm(ctx, id, actor)
		return err
	})
}

// BulkCancel anula varias ventas con las guardas de la anulación individual.
func (uc *UseCase) BulkCancel(ctx context.Context, ids []string, actor string) *dto.BulkActionResponse {
	return uc.bulk(ids, func(id string) error {
		_, err := uc.Cancel(ctx, id, actor)
		return err
	})
}

func (uc *UseCase) bulk(ids []string, op func(id string) error) *dto.BulkActionResponse {
	resp := &dto.BulkActionResponse{}
	for _, id := range ids {
		if err := op(id); err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, dto.BulkActionResult{ID: id, Error: err.Error()})
			continue
		}
		resp.Succeeded++
		resp.Results = append(resp.Results, dto.BulkActionResult{ID: id, OK: true})
	}
	return resp
}

// GetByID obtiene una venta con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas, opcionalmente filtradas por estado.
func (uc *UseCase) List(status string, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset}}
	for _, s := range list {
		resp.Items = append(resp.Items, *toSaleResponse(s))
	}
	return resp, nil
}

// buildLines valida y materializa las líneas: cantidades positivas,
// producto y bodega existentes.
func (uc *UseCase) buildLines(in []dto.SaleLineRequest) ([]entity.SaleLine, error) {
	lines := make([]entity.SaleLine, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" || l.WarehouseID == "" ||
			!l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		warehouse, err := uc.warehouseRepo.GetByID(l.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, entity.SaleLine{
			ID:          uuid.New().String(),
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return lines, nil
}

func writeAudit(repos ledger.TxRepos, actor, action string, sale *entity.Sale, details map[string]any, now time.Time) error {
	payload, _ := json.Marshal(details)
	return repos.Audit.Create(&entity.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      actor,
		Action:     action,
		EntityType: "Sale",
		EntityID:   sale.ID,
		Details:    payload,
		CreatedAt:  now,
	})
}

// newSaleNumber genera el número de venta: V-AAAAMMDD-xxxxxx.
func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("V-%s-%s", now.Format("20060102"), suffix)
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:        s.ID,
		Number:    s.Number,
		ClientID:  s.ClientID,
		Status:    s.Status,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		CreatedBy: s.CreatedBy,
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
			Fulfilled:   l.Fulfilled,
		})
	}
	return resp
}
