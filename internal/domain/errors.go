package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInactiveWarehouse la bodega está inactiva y no puede recibir reservas ni traslados entrantes.
	ErrInactiveWarehouse = errors.New("bodega inactiva")

	// ErrInvalidTransition el comando de workflow no está permitido desde el estado actual
	// (ej. confirmar una venta ya confirmada).
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// ErrStructuralViolation la operación viola una invariante estructural
	// (traslado con origen = destino, confirmación sin líneas).
	ErrStructuralViolation = errors.New("violación estructural")

	// ErrLockTimeout no se pudo adquirir el bloqueo de fila dentro del tiempo límite.
	ErrLockTimeout = errors.New("tiempo de espera de bloqueo agotado")

	// ErrConcurrentModification la fila fue modificada concurrentemente y los reintentos se agotaron.
	ErrConcurrentModification = errors.New("modificación concurrente")

	// ErrReadOnlyViolation intento de mutar un registro inmutable (movimiento o auditoría).
	ErrReadOnlyViolation = errors.New("registro de solo lectura")
)
