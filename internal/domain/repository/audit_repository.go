package repository

import (
	"time"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

// AuditFilter filtros para el histórico de auditoría.
type AuditFilter struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
}

// AuditEntryRepository puerto de persistencia de auditoría. Igual que el de
// movimientos: solo agregar y consultar.
type AuditEntryRepository interface {
	Create(entry *entity.AuditEntry) error
	List(filter AuditFilter, limit, offset int) ([]*entity.AuditEntry, error)
}
