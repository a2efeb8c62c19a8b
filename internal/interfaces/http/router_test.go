package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/tienda-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-inventario/pkg/jwt"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "tienda-inventario-test"

	// IDs de memory.NewSeeded
	whCentro  = 1
	whNorte   = 2
	talla26   = 3
	productID = 1
)

// buildTestApp arma la API completa sobre el backend en memoria sembrado.
func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewSeeded()
	log := logger.NewNop()

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	guard := cache.NewIdempotencyGuard(client, time.Hour)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, store.Catalog(), rec, log),
		InventoryQuery:   inventory.NewQueryUseCase(store.Stock(), store.Movements()),
		CreateSale:       sales.NewCreateSaleUseCase(store, guard, rec, log),
		VoidSale:         sales.NewVoidSaleUseCase(store, rec, log),
		SalesQuery:       sales.NewQueryUseCase(store.Sales(), store.Stock(), store.Catalog(), store.Customers(), pdf.NewReceiptGenerator(), "Zapatería Centro"),
		JWTSecret:        testJWTSecret,
		Log:              log,
		Metrics:          rec,
		Gatherer:         reg,
	})
	return app, store
}

// do lanza la petición y decodifica el body JSON en out (si no es nil).
func do(t *testing.T, app *fiber.App, method, path string, body any, out any, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// entry registra una entrada en (producto, talla 26, bodega) y devuelve el id del registro.
func entry(t *testing.T, app *fiber.App, warehouseID int64, qty int) int64 {
	t.Helper()
	var res dto.MovementResultResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id":   productID,
		"size_id":      talla26,
		"warehouse_id": warehouseID,
		"quantity":     qty,
	}, &res)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return res.Entry.ID
}

func saleBody(entryID int64, qty int) fiber.Map {
	return fiber.Map{
		"payment_method_id": 1,
		"items": []fiber.Map{
			{"stock_entry_id": entryID, "quantity": qty, "unit_price": "750"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestEntry_CreaPosicionYKardex(t *testing.T) {
	app, _ := buildTestApp(t)

	var res dto.MovementResultResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": productID, "size_id": talla26, "warehouse_id": whCentro, "quantity": 10, "unit_cost": "650",
	}, &res)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 10, res.Entry.Quantity)
	assert.Equal(t, "ENTRY", res.Movement.Kind)
	assert.Equal(t, 0, res.Movement.QuantityBefore)
	assert.Equal(t, 10, res.Movement.QuantityAfter)
	assert.Nil(t, res.Movement.UserID, "sin token la operación es del sistema")

	var movs []dto.MovementDTO
	resp = do(t, app, http.MethodGet, "/api/inventory/positions/"+itoa(res.Entry.ID)+"/movements", nil, &movs)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, movs, 1)
}

func TestEntry_CantidadInvalida(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": productID, "warehouse_id": whCentro, "quantity": 0,
	}, &e)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", e.Code)
}

func TestEntry_CantidadSobreElMaximo(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ValidationErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": productID, "warehouse_id": whCentro, "quantity": 1_000_001,
	}, &e)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "lte", e.Fields["Quantity"])
}

func TestEntry_ProductoInexistente(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": 999, "warehouse_id": whCentro, "quantity": 1,
	}, &e)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestAdjustment_TipoInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ValidationErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/adjustments", fiber.Map{
		"type": "merma", "product_id": productID, "quantity": 1,
	}, &e)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "Type")
}

func TestTransfer_Conservacion(t *testing.T) {
	app, _ := buildTestApp(t)
	entry(t, app, whCentro, 10)

	var res dto.TransferResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/transfers", fiber.Map{
		"product_id": productID, "size_id": talla26, "from_warehouse_id": whCentro, "to_warehouse_id": whNorte, "quantity": 4,
	}, &res)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 6, res.Origin.Quantity)
	assert.Equal(t, 4, res.Destination.Quantity)
	assert.Equal(t, res.Debit.Reference, res.Credit.Reference)

	var legs []dto.MovementDTO
	resp = do(t, app, http.MethodGet, "/api/inventory/movements?reference="+res.Reference, nil, &legs)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, legs, 2)
}

func TestTransfer_StockInsuficiente(t *testing.T) {
	app, _ := buildTestApp(t)
	entry(t, app, whCentro, 2)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/transfers", fiber.Map{
		"product_id": productID, "size_id": talla26, "from_warehouse_id": whCentro, "to_warehouse_id": whNorte, "quantity": 5,
	}, &e)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	resp = do(t, app, http.MethodGet, "/api/inventory/position?product_id=1&size_id=3&warehouse_id=2", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "el destino no debe quedar creado")
}

func TestTransfer_MismaBodega(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/transfers", fiber.Map{
		"product_id": productID, "from_warehouse_id": whCentro, "to_warehouse_id": whCentro, "quantity": 1,
	}, &e)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSFER", e.Code)
}

func TestLowStock(t *testing.T) {
	app, _ := buildTestApp(t)
	entry(t, app, whCentro, 10)

	var body struct {
		Total    int               `json:"total"`
		Products []dto.LowStockDTO `json:"products"`
	}
	resp := do(t, app, http.MethodGet, "/api/inventory/low-stock", nil, &body)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, body.Total, "TEN-001 ya supera su mínimo")
	for _, p := range body.Products {
		assert.NotEqual(t, int64(productID), p.ProductID)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSale_RegistrarYAnular(t *testing.T) {
	app, _ := buildTestApp(t)
	entryID := entry(t, app, whCentro, 10)

	var sale dto.SaleResponse
	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 3), &sale)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "2250", sale.Total.String())
	assert.Regexp(t, `^V-\d{8}-[A-Z0-9]{6}$`, sale.Folio)

	var pos dto.StockEntryDTO
	do(t, app, http.MethodGet, "/api/inventory/position?product_id=1&size_id=3&warehouse_id=1", nil, &pos)
	assert.Equal(t, 7, pos.Quantity)

	var void dto.VoidSaleResponse
	resp = do(t, app, http.MethodDelete, "/api/sales/"+itoa(sale.ID), nil, &void)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, void.Restored, 1)
	assert.Empty(t, void.Failures)

	do(t, app, http.MethodGet, "/api/inventory/position?product_id=1&size_id=3&warehouse_id=1", nil, &pos)
	assert.Equal(t, 10, pos.Quantity)

	var movs []dto.MovementDTO
	resp = do(t, app, http.MethodGet, "/api/sales/folio/"+sale.Folio+"/movements", nil, &movs)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, movs, 2)
	assert.Equal(t, "SALE_DEBIT", movs[0].Kind)
	assert.Equal(t, "SALE_VOID_CREDIT", movs[1].Kind)

	resp = do(t, app, http.MethodGet, "/api/sales/"+itoa(sale.ID), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSale_Sobreventa(t *testing.T) {
	app, _ := buildTestApp(t)
	entryID := entry(t, app, whCentro, 2)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 3), &e)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
}

func TestSale_IdempotencyKeyRepetida(t *testing.T) {
	app, _ := buildTestApp(t)
	entryID := entry(t, app, whCentro, 10)

	var first dto.SaleResponse
	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 1), &first, apphttp.HeaderIdempotencyKey, "pos-1-0001")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var e dto.ErrorResponse
	resp = do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 1), &e, apphttp.HeaderIdempotencyKey, "pos-1-0001")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", e.Code)
	assert.Contains(t, e.Message, first.Folio)

	var pos dto.StockEntryDTO
	do(t, app, http.MethodGet, "/api/inventory/position?product_id=1&size_id=3&warehouse_id=1", nil, &pos)
	assert.Equal(t, 9, pos.Quantity, "el reintento no descuenta de nuevo")
}

func TestSale_AnulacionParcial(t *testing.T) {
	app, store := buildTestApp(t)
	entryID := entry(t, app, whCentro, 10)

	var sale dto.SaleResponse
	require.Equal(t, fiber.StatusCreated, do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 2), &sale).StatusCode)
	store.RemoveStockEntry(entryID)

	var void dto.VoidSaleResponse
	resp := do(t, app, http.MethodDelete, "/api/sales/"+itoa(sale.ID), nil, &void)

	assert.Equal(t, fiber.StatusMultiStatus, resp.StatusCode)
	require.Len(t, void.Failures, 1)
	assert.Equal(t, entryID, void.Failures[0].StockEntryID)
}

func TestSale_Ticket(t *testing.T) {
	app, _ := buildTestApp(t)
	entryID := entry(t, app, whCentro, 10)

	var sale dto.SaleResponse
	require.Equal(t, fiber.StatusCreated, do(t, app, http.MethodPost, "/api/sales", saleBody(entryID, 1), &sale).StatusCode)

	resp := do(t, app, http.MethodGet, "/api/sales/"+itoa(sale.ID)+"/receipt", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Actor y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestActor_TokenValidoRegistraUsuario(t *testing.T) {
	app, _ := buildTestApp(t)
	tok, err := pkgjwt.Generate(testJWTSecret, 42, testIssuer, time.Hour)
	require.NoError(t, err)

	var res dto.MovementResultResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": productID, "warehouse_id": whCentro, "quantity": 1,
	}, &res, "Authorization", "Bearer "+tok)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, res.Movement.UserID)
	assert.Equal(t, int64(42), *res.Movement.UserID)
}

func TestActor_TokenInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	var e dto.ErrorResponse
	resp := do(t, app, http.MethodPost, "/api/inventory/entries", fiber.Map{
		"product_id": productID, "quantity": 1,
	}, &e, "Authorization", "Bearer no-es-un-jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", e.Code)
}

func TestActor_FormatoInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/inventory/low-stock", nil, nil, "Authorization", "Basic abc")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMetrics_ExponeContadores(t *testing.T) {
	app, _ := buildTestApp(t)
	entry(t, app, whCentro, 5)

	resp := do(t, app, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `inventario_movements_total{kind="ENTRY"} 1`)
	assert.Contains(t, string(raw), "inventario_http_requests_total")
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
