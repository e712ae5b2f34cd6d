package repository

import (
	"time"

	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

// MovementFilter filtros para el histórico de movimientos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Kind        string
	From        *time.Time
	To          *time.Time
}

// MovementRepository puerto de persistencia de movimientos. Solo agrega:
// no existen métodos de actualización ni borrado.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter, limit, offset int) ([]*entity.Movement, error)
}
