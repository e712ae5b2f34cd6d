package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/sale"
)

// SaleHandler maneja las peticiones HTTP del workflow de ventas (protegido).
type SaleHandler struct {
	uc *sale.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear venta en borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "client_id y líneas"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), in, GetActor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft, confirmed, delivered, cancelled"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.List(c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// UpdateLines godoc
// @Summary      Reemplazar líneas de una venta en borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSaleLinesRequest  true  "líneas nuevas"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/lines [put]
func (h *SaleHandler) UpdateLines(c *fiber.Ctx) error {
	var in dto.UpdateSaleLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateLines(c.Context(), c.Params("id"), in, GetActor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Confirm godoc
// @Summary      Confirmar venta (descuenta stock línea a línea, todo o nada)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/confirm [post]
func (h *SaleHandler) Confirm(c *fiber.Ctx) error {
	resp, err := h.uc.Confirm(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Deliver godoc
// @Summary      Marcar venta como entregada
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/deliver [post]
func (h *SaleHandler) Deliver(c *fiber.Ctx) error {
	resp, err := h.uc.Deliver(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar venta (si estaba confirmada, repone el stock)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	resp, err := h.uc.Cancel(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// BulkConfirm godoc
// @Summary      Confirmar varias ventas, cada una con sus guardas
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkActionRequest  true  "ids"
// @Success      200  {object}  dto.BulkActionResponse
// @Router       /api/sales/bulk/confirm [post]
func (h *SaleHandler) BulkConfirm(c *fiber.Ctx) error {
	var in dto.BulkActionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.uc.BulkConfirm(c.Context(), in.IDs, GetActor(c)))
}

// BulkCancel godoc
// @Summary      Cancelar varias ventas, cada una con sus guardas
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkActionRequest  true  "ids"
// @Success      200  {object}  dto.BulkActionResponse
// @Router       /api/sales/bulk/cancel [post]
func (h *SaleHandler) BulkCancel(c *fiber.Ctx) error {
	var in dto.BulkActionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.uc.BulkCancel(c.Context(), in.IDs, GetActor(c)))
}
