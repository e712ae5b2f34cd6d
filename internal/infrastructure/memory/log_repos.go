package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// movementRepo implementación en memoria del histórico de movimientos.
// Solo agrega: el slice subyacente nunca se reescribe.
type movementRepo struct {
	st *Store
	tx *Tx
}

// NewMovementRepository repositorio de movimientos en modo autocommit.
func NewMovementRepository(st *Store) repository.MovementRepository {
	return &movementRepo{st: st}
}

func (r *movementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, *movement)
		return nil
	}
	r.st.mu.Lock()
	r.st.movements = append(r.st.movements, *movement)
	r.st.mu.Unlock()
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	for i := range r.st.movements {
		if r.st.movements[i].ID == id {
			m := r.st.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

// List devuelve movimientos del más reciente al más antiguo.
func (r *movementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := make([]*entity.Movement, 0)
	skipped := 0
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if !matchMovement(&m, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, &m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchMovement(m *entity.Movement, f repository.MovementFilter) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	return inRange(m.CreatedAt, f.From, f.To)
}

func inRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

// auditRepo implementación en memoria del registro de auditoría.
type auditRepo struct {
	st *Store
	tx *Tx
}

// NewAuditRepository repositorio de auditoría en modo autocommit.
func NewAuditRepository(st *Store) repository.AuditEntryRepository {
	return &auditRepo{st: st}
}

func (r *auditRepo) Create(entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if r.tx != nil {
		r.tx.audits = append(r.tx.audits, *entry)
		return nil
	}
	r.st.mu.Lock()
	r.st.audits = append(r.st.audits, *entry)
	r.st.mu.Unlock()
	return nil
}

func (r *auditRepo) List(filter repository.AuditFilter, limit, offset int) ([]*entity.AuditEntry, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := make([]*entity.AuditEntry, 0)
	skipped := 0
	for i := len(r.st.audits) - 1; i >= 0; i-- {
		e := r.st.audits[i]
		if !matchAudit(&e, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, &e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchAudit(e *entity.AuditEntry, f repository.AuditFilter) bool {
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	return inRange(e.CreatedAt, f.From, f.To)
}
