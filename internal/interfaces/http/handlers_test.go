package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/closing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ferreteria-api/internal/interfaces/http"
)

var apiNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	return &apiFixture{app: buildAPI(store), store: store}
}

func buildAPI(tx inventory.TxRunner) *fiber.App {
	clock := func() time.Time { return apiNow }
	engine := inventory.NewEngine(tx, inventory.EngineConfig{Location: time.UTC, Clock: clock}, zerolog.Nop())
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:    engine,
		Kardex:    inventory.NewKardexUseCase(tx, nil, zerolog.Nop()),
		ClosingUC: closing.NewUseCase(tx, time.UTC, clock, zerolog.Nop()),
		JWTSecret: testJWTSecret,
	})
	return app
}

func (f *apiFixture) call(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	return callAPI(t, f.app, method, path, role, body)
}

func callAPI(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (f *apiFixture) createProduct(t *testing.T, code string, initial int64) int64 {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/products", "gerente", dto.ProductRequest{
		Code:         code,
		Name:         "Producto " + code,
		CostPrice:    decimal.NewFromInt(4),
		SalePrice:    decimal.NewFromInt(7),
		InitialStock: decimal.NewFromInt(initial),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.CreatedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.ID
}

func saleOf(productID int64, qty int64) dto.SaleRequest {
	return dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(qty)}}}
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CrearProducto_SoloGerente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPost, "/api/products", "vendedor", dto.ProductRequest{Code: "X", Name: "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, body).Code)

	id := f.createProduct(t, "MART-01", 5)
	assert.Positive(t, id)
}

func TestAPI_CrearProducto_CodigoDuplicado409(t *testing.T) {
	f := newAPI(t)
	f.createProduct(t, "MART-01", 0)

	resp, body := f.call(t, http.MethodPost, "/api/products", "gerente", dto.ProductRequest{Code: "MART-01", Name: "Otro"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(domain.KindDuplicateCode), decodeError(t, body).Code)
}

func TestAPI_CuerpoInvalido400(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_EliminarProductoConHistorial_Desactiva(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 5)
	resp, _ := f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.call(t, http.MethodDelete, "/api/products/"+itoa(p), "gerente", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.DeleteProductResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, inventory.ProductDeactivated, out.Result)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_VentaStockInsuficiente409ConDetalles(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 2)

	resp, body := f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 3))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	e := decodeError(t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, "2", e.Details["available"])
	assert.Equal(t, "3", e.Details["requested"])
	assert.Equal(t, 0, f.store.SaleCount(), "la venta rechazada no deja rastro")
}

func TestAPI_VentaYKardex(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 10)

	resp, body := f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 3))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.call(t, http.MethodGet, "/api/products/"+itoa(p)+"/kardex", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var report inventory.KardexReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.TotalMovements)
	assert.True(t, report.CurrentStock.Equal(decimal.NewFromInt(7)))
	require.Len(t, report.Movements, 1)
	assert.Equal(t, entity.MovementSale, report.Movements[0].Kind)

	resp, body = f.call(t, http.MethodGet, "/api/products/"+itoa(p)+"/stock", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stock []inventory.WarehouseStock
	require.NoError(t, json.Unmarshal(body, &stock))
	assert.Len(t, stock, 3)
}

func TestAPI_KardexProductoInexistente404(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/api/products/999/kardex", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Code)

	resp, _ = f.call(t, http.MethodGet, "/api/products/abc/kardex", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DevolucionDeProductoNoVendido422(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 10)
	q := f.createProduct(t, "CLAV-01", 10)
	_, body := f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 2))
	var sale dto.CreatedResponse
	require.NoError(t, json.Unmarshal(body, &sale))

	resp, body := f.call(t, http.MethodPost, "/api/sales/returns", "vendedor", dto.ReturnRequest{
		SaleID: sale.ID, ProductID: q, Quantity: decimal.NewFromInt(1), Reason: "equivocado",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "NOT_IN_SALE", decodeError(t, body).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras, ajustes y traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CompraAjusteTraslado(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 0)

	resp, _ := f.call(t, http.MethodPost, "/api/purchases", "vendedor", dto.PurchaseRequest{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "compras requiere gerente")

	resp, body := f.call(t, http.MethodPost, "/api/purchases", "gerente", dto.PurchaseRequest{
		InvoiceNumber: "F-001",
		Lines:         []dto.PurchaseLineRequest{{ProductID: p, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.call(t, http.MethodPost, "/api/inventory/adjustments", "gerente", dto.AdjustmentBatchRequest{
		Items: []dto.AdjustmentRequest{{ProductID: p, Direction: "SALIDA", Quantity: decimal.NewFromInt(2), Reason: "rotura"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.call(t, http.MethodPost, "/api/inventory/transfers", "gerente", dto.TransferRequest{
		ProductID: p, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: decimal.NewFromInt(3),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	assert.True(t, f.store.StockOf(p, entity.WarehousePrincipal).Equal(decimal.NewFromInt(5)))
	assert.True(t, f.store.StockOf(p, entity.WarehouseDamaged).Equal(decimal.NewFromInt(3)))

	resp, body = f.call(t, http.MethodPost, "/api/inventory/transfers", "gerente", dto.TransferRequest{
		ProductID: p, FromWarehouseID: 1, ToWarehouseID: 1, Quantity: decimal.NewFromInt(1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, body).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierres
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CierreZ_BloqueaVentasDelDia(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "MART-01", 10)
	resp, _ := f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.call(t, http.MethodGet, "/api/closings/x-report", "gerente", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var x dto.XReportResponse
	require.NoError(t, json.Unmarshal(body, &x))
	assert.Equal(t, 1, x.SalesCount)
	assert.True(t, x.Revenue.Equal(decimal.NewFromInt(14)))
	assert.True(t, x.Profit.Equal(decimal.NewFromInt(6)))

	resp, _ = f.call(t, http.MethodPost, "/api/closings", "vendedor", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el cierre requiere gerente")

	resp, body = f.call(t, http.MethodPost, "/api/closings", "gerente", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var z dto.ClosingResponse
	require.NoError(t, json.Unmarshal(body, &z))
	assert.Equal(t, "2024-05-10", z.BusinessDate)
	assert.Equal(t, testUserID, *z.UserID)

	resp, body = f.call(t, http.MethodPost, "/api/sales", "vendedor", saleOf(p, 1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SALE_BLOCKED_CLOSED_DAY", decodeError(t, body).Code)

	resp, body = f.call(t, http.MethodPost, "/api/closings", "gerente", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_PENDING_SALES", decodeError(t, body).Code)

	resp, body = f.call(t, http.MethodGet, "/api/closings?limit=5", "gerente", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ClosingListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de infraestructura
// ──────────────────────────────────────────────────────────────────────────────

type busyRunner struct{}

func (busyRunner) Run(context.Context, func(repository.Repositories) error) error {
	return domain.Wrap(domain.KindContention, "tiempo de espera de bloqueo agotado", context.DeadlineExceeded)
}

func TestAPI_Contencion503ConRetryAfter(t *testing.T) {
	app := buildAPI(busyRunner{})
	resp, body := callAPI(t, app, http.MethodPost, "/api/sales", "vendedor", saleOf(1, 1))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "CONTENTION", decodeError(t, body).Code)
}

func TestAPI_Depositos(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/api/warehouses", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.WarehouseResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.True(t, list[0].Sellable)

	resp, _ = f.call(t, http.MethodGet, "/api/warehouses/9", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func itoa(id int64) string {
	return decimal.NewFromInt(id).String()
}
