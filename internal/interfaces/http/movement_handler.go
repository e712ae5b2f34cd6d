package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// MovementHandler consultas del histórico de movimientos (protegido).
// Los movimientos no tienen rutas de escritura: nacen dentro de las
// transacciones del ledger y nunca cambian.
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Histórico de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "filtrar por producto"
// @Param        warehouse_id  query  string  false  "filtrar por bodega"
// @Param        kind          query  string  false  "in, out, transfer-out, transfer-in, adjustment, reserve, release"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Kind:        c.Query("kind"),
	}
	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	resp, err := h.uc.Movements(filter, page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Reject responde 403 a todo intento de mutar el histórico.
func (h *MovementHandler) Reject(c *fiber.Ctx) error {
	return errorResponse(c, domain.ErrReadOnlyViolation)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
