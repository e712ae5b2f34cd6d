package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kountade/AFRIKTEXIA/internal/application/audit"
	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/application/sale"
	"github.com/Kountade/AFRIKTEXIA/internal/application/transfer"
	"github.com/Kountade/AFRIKTEXIA/internal/application/usecase"
	"github.com/Kountade/AFRIKTEXIA/internal/infrastructure/memory"
	apphttp "github.com/Kountade/AFRIKTEXIA/internal/interfaces/http"
	"github.com/Kountade/AFRIKTEXIA/pkg/jwt"
)

// buildRouterApp app completa sobre el almacén en memoria, como arranca main
// sin DATABASE_URL.
func buildRouterApp(t *testing.T) *fiber.App {
	t.Helper()
	st := memory.NewStore(2 * time.Second)
	products := memory.NewProductRepository(st)
	warehouses := memory.NewWarehouseRepository(st)
	entries := memory.NewStockEntryRepository(st)
	movements := memory.NewMovementRepository(st)
	audits := memory.NewAuditRepository(st)
	sales := memory.NewSaleRepository(st)
	transfers := memory.NewTransferRepository(st)
	clients := memory.NewClientRepository(st)

	ledgerUC := ledger.NewUseCase(st, products, warehouses, entries, movements, 3)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LedgerUC:    ledgerUC,
		SaleUC:      sale.NewUseCase(st, ledgerUC, sales, products, warehouses, clients, 3),
		TransferUC:  transfer.NewUseCase(st, ledgerUC, transfers, products, warehouses, 3),
		AuditUC:     audit.NewUseCase(audits),
		ProductUC:   usecase.NewProductUseCase(products),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouses),
		CatalogUC: usecase.NewCatalogUseCase(
			memory.NewCategoryRepository(st),
			memory.NewSupplierRepository(st),
			clients,
		),
		JWTSecret: testSecret,
	})
	return app
}

func authedRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	token, err := jwt.Generate(testSecret, "u1", "amadou", "test", 60)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestRouter_MovimientosSoloLectura(t *testing.T) {
	app := buildRouterApp(t)

	casos := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/movements"},
		{http.MethodPut, "/api/movements/m1"},
		{http.MethodDelete, "/api/movements/m1"},
	}
	for _, c := range casos {
		resp := authedRequest(t, app, c.method, c.path)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s debe rechazarse", c.method, c.path)
		assert.Equal(t, "READ_ONLY", decodeError(t, resp).Code)
	}

	// La consulta sigue abierta.
	resp := authedRequest(t, app, http.MethodGet, "/api/movements")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_AuditoriaSoloLectura(t *testing.T) {
	app := buildRouterApp(t)

	casos := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/audit"},
		{http.MethodPut, "/api/audit/a1"},
		{http.MethodDelete, "/api/audit/a1"},
	}
	for _, c := range casos {
		resp := authedRequest(t, app, c.method, c.path)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s debe rechazarse", c.method, c.path)
		assert.Equal(t, "READ_ONLY", decodeError(t, resp).Code)
	}

	resp := authedRequest(t, app, http.MethodGet, "/api/audit")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	app := buildRouterApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/movements", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
