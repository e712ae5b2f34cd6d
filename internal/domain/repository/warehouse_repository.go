package repository

import "github.com/Kountade/AFRIKTEXIA/internal/domain/entity"

// WarehouseRepository puerto de persistencia para Warehouse (DIP).
// Las bodegas no se eliminan: se desactivan con el flag Active.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(limit, offset int) ([]*entity.Warehouse, error)
}
