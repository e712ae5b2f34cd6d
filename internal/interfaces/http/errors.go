package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
)

// errorResponse traduce errores del dominio a respuestas HTTP.
// Los errores de contención devuelven 503: el cliente puede reintentar
// después de que los reintentos internos del ledger se agotaron.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrStructuralViolation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "STRUCTURAL", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInactiveWarehouse):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INACTIVE_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrReadOnlyViolation):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "READ_ONLY", Message: "registro de solo lectura"})
	case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BUSY", Message: "contención de stock, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
