package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/audit"
	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// AuditHandler consultas del registro de auditoría (protegido, solo lectura).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Histórico de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        actor        query  string  false  "filtrar por actor"
// @Param        action       query  string  false  "stock.adjust, sale.confirm, ..."
// @Param        entity_type  query  string  false  "Sale, Transfer, StockEntry"
// @Param        entity_id    query  string  false  "filtrar por entidad"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.AuditFilter{
		Actor:      c.Query("actor"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
	}
	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	resp, err := h.uc.List(filter, page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Reject responde 403 a todo intento de mutar la auditoría.
func (h *AuditHandler) Reject(c *fiber.Ctx) error {
	return errorResponse(c, domain.ErrReadOnlyViolation)
}
