package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kountade/AFRIKTEXIA/internal/application/audit"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/application/sale"
	"github.com/Kountade/AFRIKTEXIA/internal/application/transfer"
	"github.com/Kountade/AFRIKTEXIA/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.UseCase
	SaleUC      *sale.UseCase
	TransferUC  *transfer.UseCase
	AuditUC     *audit.UseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	CatalogUC   *usecase.CatalogUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Post("/suppliers", catalogHandler.CreateSupplier)
	protected.Get("/suppliers", catalogHandler.ListSuppliers)
	protected.Post("/clients", catalogHandler.CreateClient)
	protected.Get("/clients", catalogHandler.ListClients)

	// Ledger de stock
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock := protected.Group("/stock")
	stock.Post("/adjustments", stockHandler.Adjust)
	stock.Get("/:productID/:warehouseID", stockHandler.GetEntry)
	stock.Get("/:productID/:warehouseID/availability", stockHandler.Availability)
	products.Get("/:id/stock", stockHandler.ProductStock)
	warehouses.Get("/:id/stock", stockHandler.WarehouseStock)
	warehouses.Get("/:id/summary", stockHandler.WarehouseSummary)

	// Movimientos: histórico de solo lectura; toda escritura directa se rechaza.
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Reject)
	movements.Put("/:id", movementHandler.Reject)
	movements.Delete("/:id", movementHandler.Reject)

	// Auditoría: mismo trato que movimientos.
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup := protected.Group("/audit")
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Post("/", auditHandler.Reject)
	auditGroup.Put("/:id", auditHandler.Reject)
	auditGroup.Delete("/:id", auditHandler.Reject)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := protected.Group("/sales")
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Post("/bulk/confirm", saleHandler.BulkConfirm)
	sales.Post("/bulk/cancel", saleHandler.BulkCancel)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id/lines", saleHandler.UpdateLines)
	sales.Post("/:id/confirm", saleHandler.Confirm)
	sales.Post("/:id/deliver", saleHandler.Deliver)
	sales.Post("/:id/cancel", saleHandler.Cancel)

	// Traslados
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfers")
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/bulk/confirm", transferHandler.BulkConfirm)
	transfers.Post("/bulk/cancel", transferHandler.BulkCancel)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id/lines", transferHandler.UpdateLines)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
}
