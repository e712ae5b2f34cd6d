package repository

import "github.com/Kountade/AFRIKTEXIA/internal/domain/entity"

// SaleRepository puerto de persistencia para ventas y sus líneas.
// La venta es dueña exclusiva de sus líneas (se crean y borran juntas).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas en orden declarado; nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la venta para la duración de la transacción.
	GetForUpdate(id string) (*entity.Sale, error)
	// Update persiste estado, total y flags fulfilled de las líneas.
	Update(sale *entity.Sale) error
	// ReplaceLines reemplaza las líneas de una venta en draft.
	ReplaceLines(saleID string, lines []entity.SaleLine) error
	List(status string, limit, offset int) ([]*entity.Sale, error)
}
