package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

var _ repository.AuditEntryRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditEntryRepository sobre PostgreSQL.
// Igual que movements: tabla de solo inserción.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditRepo) Create(entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, actor, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List histórico filtrado, del más reciente al más antiguo.
func (r *AuditRepo) List(filter repository.AuditFilter, limit, offset int) ([]*entity.AuditEntry, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}
	if filter.Actor != "" {
		add("actor =", filter.Actor)
	}
	if filter.Action != "" {
		add("action =", filter.Action)
	}
	if filter.EntityType != "" {
		add("entity_type =", filter.EntityType)
	}
	if filter.EntityID != "" {
		add("entity_id =", filter.EntityID)
	}
	if filter.From != nil {
		add("created_at >=", *filter.From)
	}
	if filter.To != nil {
		add("created_at <=", *filter.To)
	}

	query := `
		SELECT id, actor, action, entity_type, entity_id, details, created_at
		FROM audit_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
