package transfer

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

// UseCase workflow de traslados entre bodegas: draft -> confirmed, draft -> cancelled.
// La confirmación mueve stock a través del ledger: por línea, una salida en
// origen y una entrada en destino, todo dentro de una única transacción.
type UseCase struct {
	txRunner      ledger.TxRunner
	stock         ledger.StockMutator
	transferRepo  repository.TransferRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	maxRetries    int
}

// NewUseCase construye el workflow de traslados.
func NewUseCase(
	txRunner ledger.TxRunner,
	stock ledger.StockMutator,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	maxRetries int,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		stock:         stock,
		transferRepo:  transferRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		maxRetries:    maxRetries,
	}
}

// Create crea un traslado en draft. Invariante estructural verificada aquí:
// origen y destino deben ser bodegas distintas y existentes.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateTransferRequest, actor string) (*dto.TransferResponse, error) {
	if in.SourceWarehouseID == "" || in.DestWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == in.DestWarehouseID {
		return nil, fmt.Errorf("origen y destino idénticos: %w", domain.ErrStructuralViolation)
	}
	source, err := uc.warehouseRepo.GetByID(in.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	dest, err := uc.warehouseRepo.GetByID(in.DestWarehouseID)
	if err != nil {
		return nil, err
	}
	if source == nil || dest == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	transfer := &entity.Transfer{
		ID:              uuid.New().String(),
		Reference:       newTransferReference(now),
		SourceWarehouse: in.SourceWarehouseID,
		DestWarehouse:   in.DestWarehouseID,
		Status:          entity.TransferStatusDraft,
		Reason:          in.Reason,
		Lines:           lines,
		CreatedAt:       now,
		CreatedBy:       actor,
	}
	for i := range transfer.Lines {
		transfer.Lines[i].TransferID = transfer.ID
	}
	if err := uc.transferRepo.Create(transfer); err != nil {
		return nil, err
	}
	return toTransferResponse(transfer), nil
}

// UpdateLines reemplaza las líneas de un traslado. Solo permitido en draft.
func (uc *UseCase) UpdateLines(ctx context.Context, id string, in dto.UpdateTransferLinesRequest, actor string) (*dto.TransferResponse, error) {
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	var updated *entity.Transfer
	err = ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		transfer, err := repos.Transfers.GetForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferStatusDraft {
			return fmt.Errorf("traslado %s en estado %s: %w", transfer.Reference, transfer.Status, domain.ErrInvalidTransition)
		}
		for i := range lines {
			lines[i].TransferID = transfer.ID
		}
		if err := repos.Transfers.ReplaceLines(transfer.ID, lines); err != nil {
			return err
		}
		transfer.Lines = lines
		if err := repos.Transfers.Update(transfer); err != nil {
			return err
		}
		updated = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(updated), nil
}

// Confirm aplica el traslado: por cada línea, en orden declarado, una salida
// transfer-out en origen y una entrada transfer-in en destino. Si la salida
// falla por stock insuficiente, o el destino fue desactivado en vuelo, la
// transacción revierte todas las líneas aplicadas antes de propagar el
// error: una línea es todo-o-nada, y el traslado completo también.
func (uc *UseCase) Confirm(ctx context.Context, id, actor string) (*dto.TransferResponse, error) {
	var confirmed *entity.Transfer
	err := ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		transfer, err := repos.Transfers.GetForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferStatusDraft {
			return fmt.Errorf("traslado %s en estado %s: %w", transfer.Reference, transfer.Status, domain.ErrInvalidTransition)
		}
		if len(transfer.Lines) == 0 {
			return fmt.Errorf("traslado %s sin líneas: %w", transfer.Reference, domain.ErrStructuralViolation)
		}
		if transfer.SourceWarehouse == transfer.DestWarehouse {
			return fmt.Errorf("traslado %s con origen igual a destino: %w", transfer.Reference, domain.ErrStructuralViolation)
		}
		now := time.Now()
		txID := uuid.New().String()
		reason := "transfer " + transfer.Reference
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			if _, err := uc.stock.ApplyInTx(repos, ledger.AdjustInput{
				ProductID:   line.ProductID,
				WarehouseID: transfer.SourceWarehouse,
				Kind:        entity.MovementKindTransferOut,
				Quantity:    line.Quantity.Neg(),
				Reason:      reason,
				Actor:       actor,
			}, now, txID); err != nil {
				return err
			}
			// El chequeo de bodega activa del destino ocurre dentro de
			// ApplyInTx: si fue desactivada en vuelo, el rollback de la
			// transacción compensa la salida de origen ya aplicada.
			if _, err := uc.stock.ApplyInTx(repos, ledger.AdjustInput{
				ProductID:   line.ProductID,
				WarehouseID: transfer.DestWarehouse,
				Kind:        entity.MovementKindTransferIn,
				Quantity:    line.Quantity,
				Reason:      reason,
				Actor:       actor,
			}, now, txID); err != nil {
				return err
			}
		}
		transfer.Status = entity.TransferStatusConfirmed
		transfer.ConfirmedAt = &now
		if err := repos.Transfers.Update(transfer); err != nil {
			return err
		}
		if err := writeAudit(repos, actor, entity.AuditActionTransferConfirm, transfer, map[string]any{
			"reference": transfer.Reference,
			"source":    transfer.SourceWarehouse,
			"dest":      transfer.DestWarehouse,
			"lines":     len(transfer.Lines),
		}, now); err != nil {
			return err
		}
		confirmed = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(confirmed), nil
}

// Cancel anula un traslado en draft. No hay efecto de stock: nada se movió
// mientras estaba en draft.
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) (*dto.TransferResponse, error) {
	var cancelled *entity.Transfer
	err := ledger.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, func(repos ledger.TxRepos) error {
		transfer, err := repos.Transfers.GetForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferStatusDraft {
			return fmt.Errorf("traslado %s en estado %s: %w", transfer.Reference, transfer.Status, domain.ErrInvalidTransition)
		}
		now := time.Now()
		transfer.Status = entity.TransferStatusCancelled
		if err := repos.Transfers.Update(transfer); err != nil {
			return err
		}
		if err := writeAudit(repos, actor, entity.AuditActionTransferCancel, transfer, map[string]any{
			"reference": transfer.Reference,
		}, now); err != nil {
			return err
		}
		cancelled = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(cancelled), nil
}

// BulkConfirm confirma varios traslados pasando cada uno por las guardas
// individuales de estado.
func (uc *UseCase) BulkConfirm(ctx context.Context, ids []string, actor string) *dto.BulkActionResponse {
	return uc.bulk(ids, func(id string) error {
		_, err := uc.Confirm(ctx, id, actor)
		return err
	})
}

// BulkCancel anula varios traslados con las guardas individuales.
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

// GetByID obtiene un traslado con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.TransferResponse, error) {
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(transfer), nil
}

// List lista traslados, opcionalmente filtrados por estado.
func (uc *UseCase) List(status string, limit, offset int) (*dto.TransferListResponse, error) {
	list, err := uc.transferRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.TransferListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset}}
	for _, t := range list {
		resp.Items = append(resp.Items, *toTransferResponse(t))
	}
	return resp, nil
}

func (uc *UseCase) buildLines(in []dto.TransferLineRequest) ([]entity.TransferLine, error) {
	lines := make([]entity.TransferLine, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, entity.TransferLine{
			ID:        uuid.New().String(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return lines, nil
}

func writeAudit(repos ledger.TxRepos, actor, action string, transfer *entity.Transfer, details map[string]any, now time.Time) error {
	payload, _ := json.Marshal(details)
	return repos.Audit.Create(&entity.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      actor,
		Action:     action,
		EntityType: "Transfer",
		EntityID:   transfer.ID,
		Details:    payload,
		CreatedAt:  now,
	})
}

// newTransferReference genera la referencia: T-AAAAMMDD-xxxxxx.
func newTransferReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("T-%s-%s", now.Format("20060102"), suffix)
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	resp := &dto.TransferResponse{
		ID:                t.ID,
		Reference:         t.Reference,
		SourceWarehouseID: t.SourceWarehouse,
		DestWarehouseID:   t.DestWarehouse,
		Status:            t.Status,
		Reason:            t.Reason,
		CreatedAt:         t.CreatedAt,
		ConfirmedAt:       t.ConfirmedAt,
		CreatedBy:         t.CreatedBy,
	}
	for i := range t.Lines {
		l := &t.Lines[i]
		resp.Lines = append(resp.Lines, dto.TransferLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return resp
}
