package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Kountade/AFRIKTEXIA/internal/application/audit"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/application/sale"
	"github.com/Kountade/AFRIKTEXIA/internal/application/transfer"
	"github.com/Kountade/AFRIKTEXIA/internal/application/usecase"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
	"github.com/Kountade/AFRIKTEXIA/internal/infrastructure/memory"
	"github.com/Kountade/AFRIKTEXIA/internal/infrastructure/postgres"
	httpRouter "github.com/Kountade/AFRIKTEXIA/internal/interfaces/http"
	"github.com/Kountade/AFRIKTEXIA/pkg/config"
	"github.com/Kountade/AFRIKTEXIA/pkg/logger"
)

// repos agrupa los puertos de persistencia que main cablea, sea el backend
// PostgreSQL o el almacén en memoria.
type repos struct {
	txRunner  ledger.TxRunner
	product   repository.ProductRepository
	warehouse repository.WarehouseRepository
	entry     repository.StockEntryRepository
	movement  repository.MovementRepository
	auditRepo repository.AuditEntryRepository
	saleRepo  repository.SaleRepository
	trfRepo   repository.TransferRepository
	category  repository.CategoryRepository
	supplier  repository.SupplierRepository
	client    repository.ClientRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	if cfg.DB.Configured() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		r = repos{
			txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
			product:   postgres.NewProductRepository(pool),
			warehouse: postgres.NewWarehouseRepository(pool),
			entry:     postgres.NewStockEntryRepository(pool),
			movement:  postgres.NewMovementRepository(pool),
			auditRepo: postgres.NewAuditRepository(pool),
			saleRepo:  postgres.NewSaleRepository(pool),
			trfRepo:   postgres.NewTransferRepository(pool),
			category:  postgres.NewCategoryRepository(pool),
			supplier:  postgres.NewSupplierRepository(pool),
			client:    postgres.NewClientRepository(pool),
		}
		log.Info().Msg("persistencia: PostgreSQL")
	} else {
		// Sin base de datos declarada: almacén en memoria (desarrollo y demo).
		store := memory.NewStore(cfg.Ledger.LockTimeout)
		r = repos{
			txRunner:  store,
			product:   memory.NewProductRepository(store),
			warehouse: memory.NewWarehouseRepository(store),
			entry:     memory.NewStockEntryRepository(store),
			movement:  memory.NewMovementRepository(store),
			auditRepo: memory.NewAuditRepository(store),
			saleRepo:  memory.NewSaleRepository(store),
			trfRepo:   memory.NewTransferRepository(store),
			category:  memory.NewCategoryRepository(store),
			supplier:  memory.NewSupplierRepository(store),
			client:    memory.NewClientRepository(store),
		}
		log.Warn().Msg("persistencia: memoria (sin DATABASE_URL; los datos no sobreviven al proceso)")
	}

	ledgerUC := ledger.NewUseCase(r.txRunner, r.product, r.warehouse, r.entry, r.movement, cfg.Ledger.MaxRetries)
	saleUC := sale.NewUseCase(r.txRunner, ledgerUC, r.saleRepo, r.product, r.warehouse, r.client, cfg.Ledger.MaxRetries)
	transferUC := transfer.NewUseCase(r.txRunner, ledgerUC, r.trfRepo, r.product, r.warehouse, cfg.Ledger.MaxRetries)
	auditUC := audit.NewUseCase(r.auditRepo)
	productUC := usecase.NewProductUseCase(r.product)
	warehouseUC := usecase.NewWarehouseUseCase(r.warehouse)
	catalogUC := usecase.NewCatalogUseCase(r.category, r.supplier, r.client)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AFRIKTEXIA Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:    ledgerUC,
		SaleUC:      saleUC,
		TransferUC:  transferUC,
		AuditUC:     auditUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		CatalogUC:   catalogUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
