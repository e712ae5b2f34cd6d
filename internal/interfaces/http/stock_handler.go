package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta con signo sobre (producto, bodega) vía el punto
//               de entrada único del ledger. Kind: in, out, adjustment, reserve, release.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, kind, quantity (delta con signo), reason"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Adjust(c.Context(), ledger.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		Actor:       actor,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(entry)
}

// GetEntry godoc
// @Summary      Registro de stock de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockEntryResponse
// @Router       /api/stock/{productID}/{warehouseID} [get]
func (h *StockHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.uc.GetEntry(c.Params("productID"), c.Params("warehouseID"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(entry)
}

// Availability godoc
// @Summary      Disponibilidad puntual (físico menos reservado)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/stock/{productID}/{warehouseID}/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	resp, err := h.uc.Availability(c.Params("productID"), c.Params("warehouseID"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// ProductStock godoc
// @Summary      Existencias de un producto en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *StockHandler) ProductStock(c *fiber.Ctx) error {
	resp, err := h.uc.ProductStock(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// WarehouseStock godoc
// @Summary      Stock de una bodega con paginación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de registros"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/warehouses/{id}/stock [get]
func (h *StockHandler) WarehouseStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.uc.WarehouseEntries(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"items": entries, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// WarehouseSummary godoc
// @Summary      Agregados de una bodega (valor total y productos con stock)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WarehouseSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/summary [get]
func (h *StockHandler) WarehouseSummary(c *fiber.Ctx) error {
	resp, err := h.uc.WarehouseSummary(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}
