package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Una bodega inactiva no puede recibir reservas nuevas ni traslados entrantes.
type Warehouse struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Responsible string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
