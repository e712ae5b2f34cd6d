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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas viven en sale_lines con line_no para preservar el orden declarado.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, number, client_id, status, total, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Number, sale.ClientID, sale.Status, sale.Total,
		sale.CreatedAt, sale.UpdatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertLines(ctx, sale.ID, sale.Lines)
}

// GetByID devuelve la venta con sus líneas en orden declarado; nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la venta para la duración de la transacción.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.get(id, true)
}

func (r *SaleRepo) get(id string, forUpdate bool) (*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, number, client_id, status, total, created_at, updated_at, created_by
		FROM sales WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Number, &s.ClientID, &s.Status, &s.Total, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapLockError(fmt.Errorf("get sale: %w", err))
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

// Update persiste estado, total y flags fulfilled de las líneas.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		UPDATE sales SET status = $2, total = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, sale.ID, sale.Status, sale.Total, sale.UpdatedAt)
	if err != nil {
		return mapLockError(fmt.Errorf("update sale: %w", err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, line := range sale.Lines {
		if _, err := r.q.Exec(ctx,
			`UPDATE sale_lines SET fulfilled = $2 WHERE id = $1`,
			line.ID, line.Fulfilled,
		); err != nil {
			return fmt.Errorf("update sale line: %w", err)
		}
	}
	return nil
}

// ReplaceLines reemplaza las líneas de una venta (solo usado en draft).
func (r *SaleRepo) ReplaceLines(saleID string, lines []entity.SaleLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return r.insertLines(ctx, saleID, lines)
}

// List lista ventas, opcionalmente por estado, de la más reciente a la más antigua.
func (r *SaleRepo) List(status string, limit, offset int) ([]*entity.Sale, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, number, client_id, status, total, created_at, updated_at, created_by
		FROM sales`
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
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Number, &s.ClientID, &s.Status, &s.Total,
			&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sales {
		lines, err := r.lines(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}
	return sales, nil
}

func (r *SaleRepo) insertLines(ctx context.Context, saleID string, lines []entity.SaleLine) error {
	for i, line := range lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, line_no, product_id, warehouse_id, quantity, unit_price, fulfilled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			line.ID, saleID, i, line.ProductID, line.WarehouseID, line.Quantity, line.UnitPrice, line.Fulfilled,
		); err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, warehouse_id, quantity, unit_price, fulfilled
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitPrice, &l.Fulfilled); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
