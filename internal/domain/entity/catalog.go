package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	CreatedBy   string
}

// Supplier proveedor de productos (dato de referencia).
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Phone     string
	Email     string
	CreatedAt time.Time
	CreatedBy string
}

// Tipos de cliente.
const (
	ClientTypeRetail    = "retail"
	ClientTypeWholesale = "wholesale"
)

// Client cliente de ventas (dato de referencia).
type Client struct {
	ID        string
	Name      string
	Type      string // retail, wholesale
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	CreatedBy string
}
