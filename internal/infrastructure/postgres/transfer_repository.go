package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado y sus líneas.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	ctx := context.Background()
	query := `
		INSERT INTO transfers (id, reference, source_warehouse, dest_warehouse, status, reason, created_at, confirmed_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.Reference, transfer.SourceWarehouse, transfer.DestWarehouse,
		transfer.Status, transfer.Reason, transfer.CreatedAt, transfer.ConfirmedAt, transfer.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertLines(ctx, transfer.ID, transfer.Lines)
}

// GetByID devuelve el traslado con sus líneas en orden declarado; nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea el traslado para la duración de la transacción.
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.Transfer, error) {
	ctx := context.Background()
	query := `
		SELECT id, reference, source_warehouse, dest_warehouse, status, reason, created_at, confirmed_at, created_by
		FROM transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Reference, &t.SourceWarehouse, &t.DestWarehouse, &t.Status,
		&t.Reason, &t.CreatedAt, &t.ConfirmedAt, &t.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapLockError(fmt.Errorf("get transfer: %w", err))
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

// Update persiste estado, motivo y fecha de confirmación.
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, reason = $3, confirmed_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status, transfer.Reason, transfer.ConfirmedAt,
	)
	if err != nil {
		return mapLockError(fmt.Errorf("update transfer: %w", err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines reemplaza las líneas de un traslado (solo usado en draft).
func (r *TransferRepo) ReplaceLines(transferID string, lines []entity.TransferLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_lines WHERE transfer_id = $1`, transferID); err != nil {
		return fmt.Errorf("delete transfer lines: %w", err)
	}
	return r.insertLines(ctx, transferID, lines)
}

// List lista traslados, opcionalmente por estado, del más reciente al más antiguo.
func (r *TransferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, reference, source_warehouse, dest_warehouse, status, reason, created_at, confirmed_at, created_by
		FROM transfers`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, status, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(&t.ID, &t.Reference, &t.SourceWarehouse, &t.DestWarehouse, &t.Status,
			&t.Reason, &t.CreatedAt, &t.ConfirmedAt, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range transfers {
		lines, err := r.lines(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Lines = lines
	}
	return transfers, nil
}

func (r *TransferRepo) insertLines(ctx context.Context, transferID string, lines []entity.TransferLine) error {
	for i, line := range lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO transfer_lines (id, transfer_id, line_no, product_id, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			line.ID, transferID, i, line.ProductID, line.Quantity,
		); err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) lines(ctx context.Context, transferID string) ([]entity.TransferLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY line_no`, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
