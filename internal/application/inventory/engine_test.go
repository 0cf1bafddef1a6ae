package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/closing"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	engine  *inventory.Engine
	kardex  *inventory.KardexUseCase
	closing *closing.UseCase
	cache   *spyCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cache := &spyCache{}
	clock := func() time.Time { return testNow }
	return &fixture{
		store: store,
		engine: inventory.NewEngine(store, inventory.EngineConfig{
			Location: time.UTC,
			Cache:    cache,
			Clock:    clock,
		}, zerolog.Nop()),
		kardex:  inventory.NewKardexUseCase(store, nil, zerolog.Nop()),
		closing: closing.NewUseCase(store, time.UTC, clock, zerolog.Nop()),
		cache:   cache,
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (f *fixture) product(t *testing.T, code string, initial string) int64 {
	t.Helper()
	id, err := f.engine.CreateProduct(context.Background(), inventory.ProductInput{
		Code:         code,
		Name:         "Producto " + code,
		CostPrice:    dec("5"),
		SalePrice:    dec("10"),
		InitialStock: dec(initial),
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) sell(productID int64, qty string) (int64, error) {
	return f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		Lines: []inventory.SaleLineInput{{ProductID: productID, Quantity: dec(qty)}},
	})
}

func (f *fixture) principal(productID int64) decimal.Decimal {
	return f.store.StockOf(productID, entity.WarehousePrincipal)
}

func movementsOf(store *memory.Store, productID int64) []entity.InventoryMovement {
	var out []entity.InventoryMovement
	for _, m := range store.Movements() {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

type spyCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (c *spyCache) Get(context.Context, int64) (*inventory.KardexReport, bool, error) {
	return nil, false, nil
}

func (c *spyCache) Generation(context.Context, int64) (int64, error) { return 0, nil }

func (c *spyCache) Set(context.Context, int64, int64, *inventory.KardexReport) error { return nil }

func (c *spyCache) Invalidate(_ context.Context, ids ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo compra → venta → devolución
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_CompraVentaDevolucion_KardexConcilia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "MART-01", "0")

	_, err := f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("10"), UnitCost: dec("8.00")}},
	})
	require.NoError(t, err)
	assertDecimal(t, "10", f.principal(p))
	prod, _ := f.store.Product(p)
	assertDecimal(t, "8", prod.CostPrice, "el costo se sobrescribe con el último costo")

	saleID, err := f.engine.ProcessSale(ctx, inventory.SaleInput{
		Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("3"), UnitPrice: dec("10.00")}},
	})
	require.NoError(t, err)
	assertDecimal(t, "7", f.principal(p))

	require.NoError(t, f.engine.ProcessReturn(ctx, inventory.ReturnInput{
		SaleID: saleID, ProductID: p, Quantity: dec("1"), Reason: "defectuoso",
	}))
	assertDecimal(t, "8", f.principal(p))

	report, err := f.kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalMovements)
	assertDecimal(t, "8", report.FinalBalance)
	assertDecimal(t, "8", report.CurrentStock)

	// más reciente primero
	assert.Equal(t, entity.MovementCustomerReturn, report.Movements[0].Kind)
	assert.Equal(t, entity.MovementSale, report.Movements[1].Kind)
	assert.Equal(t, entity.MovementPurchase, report.Movements[2].Kind)
	assertDecimal(t, "-3", report.Movements[1].Quantity)
	assertDecimal(t, "10", report.Movements[1].StockBefore)
	assertDecimal(t, "7", report.Movements[1].StockAfter)
	assert.Equal(t, "Devolución Venta #1. Motivo: defectuoso", report.Movements[0].Comment)
	assert.Contains(t, report.Movements[2].Comment, "Costo actualizado a 8.00")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_StockInsuficiente_SinCambios(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TOR-01", "2")

	_, err := f.sell(p, "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "2", de.Details["available"])
	assert.Equal(t, "5", de.Details["requested"])
	assert.Equal(t, "Producto TOR-01", de.Details["product"])

	assertDecimal(t, "2", f.principal(p))
	assert.Empty(t, movementsOf(f.store, p))
	assert.Equal(t, 0, f.store.SaleCount(), "la cabecera también se revierte")
}

func TestProcessSale_FallaEnSegundoRenglon_RevierteTodo(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "10")
	b := f.product(t, "B", "1")

	_, err := f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		Lines: []inventory.SaleLineInput{
			{ProductID: a, Quantity: dec("4")},
			{ProductID: b, Quantity: dec("2")},
		},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))

	assertDecimal(t, "10", f.principal(a))
	assertDecimal(t, "1", f.principal(b))
	assert.Empty(t, f.store.Movements())
}

func TestProcessSale_MismoProductoEnVariosRenglones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CLAVO", "5")

	_, err := f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		Lines: []inventory.SaleLineInput{
			{ProductID: p, Quantity: dec("3")},
			{ProductID: p, Quantity: dec("3")},
		},
	})
	require.Error(t, err, "el segundo renglón ve la existencia ya descontada")
	assertDecimal(t, "5", f.principal(p))
}

func TestProcessSale_PermitirStockNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CINTA", "1")

	_, err := f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		Lines:              []inventory.SaleLineInput{{ProductID: p, Quantity: dec("3")}},
		AllowNegativeStock: true,
	})
	require.NoError(t, err)
	assertDecimal(t, "-2", f.principal(p))
}

func TestProcessSale_TotalesYClientePorDefecto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PINT", "10")

	saleID, err := f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		Lines: []inventory.SaleLineInput{
			{ProductID: p, Quantity: dec("2")},                        // precio del producto: 10
			{ProductID: p, Quantity: dec("1"), UnitPrice: dec("12.5")}, // precio explícito
		},
		Tax:          dec("5"),
		ExchangeRate: dec("36.5"),
	})
	require.NoError(t, err)

	sale, ok := f.store.Sale(saleID)
	require.True(t, ok)
	assert.Equal(t, entity.DefaultCustomerID, sale.CustomerID)
	assert.Equal(t, entity.SalePending, sale.ClosureState)
	assert.Equal(t, entity.DefaultPaymentMethod, sale.PaymentMethod)
	assertDecimal(t, "32.5", sale.Subtotal)
	assertDecimal(t, "37.5", sale.Total)

	movs := movementsOf(f.store, p)
	require.Len(t, movs, 2)
	assert.Equal(t, "Venta #1", movs[0].Comment)
	require.NotNil(t, movs[0].RefID)
	assert.Equal(t, saleID, *movs[0].RefID)
	assert.Equal(t, movs[0].OperationID, movs[1].OperationID, "una operación, un OperationID")
}

func TestProcessSale_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "X", "10")

	_, err := f.engine.ProcessSale(context.Background(), inventory.SaleInput{
		CustomerID: 99,
		Lines:      []inventory.SaleLineInput{{ProductID: p, Quantity: dec("1")}},
	})
	assert.Equal(t, domain.KindInvalidCustomer, domain.KindOf(err))
	assertDecimal(t, "10", f.principal(p))
}

func TestProcessSale_ProductoInactivoOInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "VIEJO", "3")
	_, err := f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("1"), UnitCost: dec("1")}},
	})
	require.NoError(t, err)
	res, err := f.engine.DeleteProduct(ctx, p)
	require.NoError(t, err)
	require.Equal(t, inventory.ProductDeactivated, res)

	_, err = f.sell(p, "1")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.sell(999, "1")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestProcessSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "V", "10")
	cases := []struct {
		name string
		in   inventory.SaleInput
	}{
		{"sin renglones", inventory.SaleInput{}},
		{"cantidad cero", inventory.SaleInput{Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("0")}}}},
		{"precio negativo", inventory.SaleInput{Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("1"), UnitPrice: dec("-1")}}}},
		{"impuesto negativo", inventory.SaleInput{Tax: dec("-1"), Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("1")}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.ProcessSale(context.Background(), tc.in)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
	assert.Equal(t, 0, f.store.SaleCount())
}

func TestProcessSale_BloqueadaTrasCierreZ(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Z", "10")

	_, err := f.sell(p, "1")
	require.NoError(t, err)
	_, err = f.closing.GenerateZClose(ctx, nil)
	require.NoError(t, err)

	before := len(f.store.Movements())
	_, err = f.sell(p, "1")
	assert.Equal(t, domain.KindSaleBlockedClosedDay, domain.KindOf(err))
	assertDecimal(t, "9", f.principal(p))
	assert.Len(t, f.store.Movements(), before)
}

// N ventas concurrentes de 1 unidad contra M < N unidades: nunca se sobrevende.
func TestProcessSale_Concurrente_NoSobrevende(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CONC", "5")

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, short int
		other     []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sell(p, "1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 5, ok)
	assert.Equal(t, attempts-5, short)
	assertDecimal(t, "0", f.principal(p))
	assert.Len(t, movementsOf(f.store, p), 5)
}

func TestProcessSale_ErrorDeInfraestructura_Revierte(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "INF", "4")
	boom := errors.New("conexión perdida")
	f.store.FailNextRecord(boom)

	_, err := f.sell(p, "1")
	require.ErrorIs(t, err, boom)
	assertDecimal(t, "4", f.principal(p))
	assert.Equal(t, 0, f.store.SaleCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_ConciliacionStockContraMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "REC", "3")

	ops := []struct {
		buy bool
		qty string
	}{
		{true, "10"}, {false, "4"}, {false, "9"}, {true, "2.5"}, {false, "1.5"}, {false, "20"}, {true, "7"}, {false, "3"},
	}
	failed := 0
	for _, o := range ops {
		if o.buy {
			_, err := f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
				Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec(o.qty), UnitCost: dec("2")}},
			})
			require.NoError(t, err)
			continue
		}
		if _, err := f.sell(p, o.qty); err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "solo la venta de 20 excede la existencia")
	assertDecimal(t, "5", f.principal(p))

	sum := decimal.Zero
	for _, m := range movementsOf(f.store, p) {
		sum = sum.Add(m.Quantity)
	}
	assert.True(t, dec("3").Add(sum).Equal(f.principal(p)),
		"stock vivo = inicial + suma de movimientos (vivo %s, suma %s)", f.principal(p), sum)
	assert.False(t, f.principal(p).IsNegative())
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessPurchase_ReferenciaAutomaticaYUltimoCosto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CEM", "0")

	_, err := f.engine.ProcessPurchase(context.Background(), inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{
			{ProductID: p, Quantity: dec("2"), UnitCost: dec("3")},
			{ProductID: p, Quantity: dec("1"), UnitCost: dec("4")},
		},
	})
	require.NoError(t, err)

	prod, _ := f.store.Product(p)
	assertDecimal(t, "4", prod.CostPrice)
	assertDecimal(t, "3", f.principal(p))

	movs := movementsOf(f.store, p)
	require.Len(t, movs, 2)
	assert.Contains(t, movs[0].Comment, "Entrada por factura: COMP-INT-")
	assert.Equal(t, entity.RefPurchases, movs[0].RefKind)
}

func TestProcessPurchase_Validaciones(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.ProcessPurchase(context.Background(), inventory.PurchaseInput{})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.engine.ProcessPurchase(context.Background(), inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: 42, Quantity: dec("1"), UnitCost: dec("1")}},
	})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessAdjustment_SalidaMayorAlStock_Rechazada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "AJ", "2")

	err := f.engine.ProcessAdjustment(context.Background(), inventory.AdjustmentInput{
		ProductID: p, Direction: inventory.AdjustmentOut, Quantity: dec("5"), Reason: "rotura",
	})
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assertDecimal(t, "2", f.principal(p))
	assert.Empty(t, movementsOf(f.store, p))
}

func TestProcessAdjustment_SalidaConOverride_QuedaNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "AJ2", "2")

	err := f.engine.ProcessAdjustment(context.Background(), inventory.AdjustmentInput{
		ProductID: p, Direction: inventory.AdjustmentOut, Quantity: dec("5"), Reason: "conteo físico",
		AllowNegativeStock: true,
	})
	require.NoError(t, err)
	assertDecimal(t, "-3", f.principal(p))

	movs := movementsOf(f.store, p)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementAdjustmentOut, movs[0].Kind)
	assertDecimal(t, "-5", movs[0].Quantity)
	assert.Equal(t, "conteo físico", movs[0].Comment)
	require.NotNil(t, movs[0].WarehouseID)
	assert.Equal(t, entity.WarehousePrincipal, *movs[0].WarehouseID)
}

func TestProcessAdjustmentBatch_TodoONada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "BA", "1")
	b := f.product(t, "BB", "1")

	err := f.engine.ProcessAdjustmentBatch(context.Background(), []inventory.AdjustmentInput{
		{ProductID: a, Direction: inventory.AdjustmentIn, Quantity: dec("4"), Reason: "sobrante"},
		{ProductID: b, WarehouseID: entity.WarehouseDamaged, Direction: inventory.AdjustmentOut, Quantity: dec("1"), Reason: "merma"},
	})
	require.Error(t, err, "el depósito dañado de b está en cero")
	assertDecimal(t, "1", f.principal(a))
	assert.Empty(t, f.store.Movements())

	err = f.engine.ProcessAdjustmentBatch(context.Background(), []inventory.AdjustmentInput{
		{ProductID: a, Direction: inventory.AdjustmentIn, Quantity: dec("4"), Reason: "sobrante"},
		{ProductID: b, Direction: inventory.AdjustmentOut, Quantity: dec("1"), Reason: "merma"},
	})
	require.NoError(t, err)
	assertDecimal(t, "5", f.principal(a))
	assertDecimal(t, "0", f.principal(b))
}

func TestProcessAdjustment_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "AV", "1")
	cases := []inventory.AdjustmentInput{
		{ProductID: p, Direction: "OTRO", Quantity: dec("1"), Reason: "x"},
		{ProductID: p, Direction: inventory.AdjustmentIn, Quantity: dec("0"), Reason: "x"},
		{ProductID: p, Direction: inventory.AdjustmentIn, Quantity: dec("1")},
		{ProductID: p, WarehouseID: 9, Direction: inventory.AdjustmentIn, Quantity: dec("1"), Reason: "x"},
	}
	for _, in := range cases {
		assert.Equal(t, domain.KindValidation, domain.KindOf(f.engine.ProcessAdjustment(context.Background(), in)))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveStockYDejaNota(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TR", "6")

	err := f.engine.Transfer(context.Background(), inventory.TransferInput{
		ProductID: p, From: entity.WarehousePrincipal, To: entity.WarehouseDamaged,
		Quantity: dec("2"), Comment: "Golpeados",
	})
	require.NoError(t, err)
	assertDecimal(t, "4", f.principal(p))
	assertDecimal(t, "2", f.store.StockOf(p, entity.WarehouseDamaged))

	movs := movementsOf(f.store, p)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTransfer, movs[0].Kind)
	assert.True(t, movs[0].Quantity.IsZero())
	assert.Nil(t, movs[0].WarehouseID)
	assert.Equal(t, "Golpeados: Movidas 2 unidades del depósito Principal al Dañado", movs[0].Comment)
}

func TestTransfer_NoVerificaSuficienciaEnOrigen(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TR2", "0")

	err := f.engine.Transfer(context.Background(), inventory.TransferInput{
		ProductID: p, From: entity.WarehouseImmobilized, To: entity.WarehousePrincipal, Quantity: dec("3"),
	})
	require.NoError(t, err)
	assertDecimal(t, "-3", f.store.StockOf(p, entity.WarehouseImmobilized))
	assertDecimal(t, "3", f.principal(p))
}

func TestTransfer_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TR3", "5")
	ctx := context.Background()

	err := f.engine.Transfer(ctx, inventory.TransferInput{ProductID: p, From: 1, To: 1, Quantity: dec("1")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	err = f.engine.Transfer(ctx, inventory.TransferInput{ProductID: p, From: 1, To: 7, Quantity: dec("1")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	err = f.engine.Transfer(ctx, inventory.TransferInput{ProductID: p, From: 1, To: 2, Quantity: dec("-1")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	err = f.engine.Transfer(ctx, inventory.TransferInput{ProductID: 404, From: 1, To: 2, Quantity: dec("1")})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessReturn_ProductoNoPerteneceALaVenta(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "RA", "5")
	b := f.product(t, "RB", "5")
	saleID, err := f.sell(a, "2")
	require.NoError(t, err)

	err = f.engine.ProcessReturn(context.Background(), inventory.ReturnInput{SaleID: saleID, ProductID: b, Quantity: dec("1")})
	assert.Equal(t, domain.KindNotInSale, domain.KindOf(err))
	assertDecimal(t, "5", f.principal(b))
}

func TestProcessReturn_AcumuladoNoSuperaLoVendido(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "RC", "5")
	saleID, err := f.sell(p, "2")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, f.engine.ProcessReturn(ctx, inventory.ReturnInput{SaleID: saleID, ProductID: p, Quantity: dec("1")}))
	require.NoError(t, f.engine.ProcessReturn(ctx, inventory.ReturnInput{SaleID: saleID, ProductID: p, Quantity: dec("1")}))

	err = f.engine.ProcessReturn(ctx, inventory.ReturnInput{SaleID: saleID, ProductID: p, Quantity: dec("1")})
	assert.Equal(t, domain.KindOverReturn, domain.KindOf(err))
	assertDecimal(t, "5", f.principal(p))
}

func TestProcessSupplierReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SR", "0")
	other := f.product(t, "SR2", "0")
	purchaseID, err := f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("4"), UnitCost: dec("2")}},
	})
	require.NoError(t, err)

	err = f.engine.ProcessSupplierReturn(ctx, inventory.SupplierReturnInput{PurchaseID: purchaseID, ProductID: other, Quantity: dec("1")})
	assert.Equal(t, domain.KindNotInPurchase, domain.KindOf(err))

	require.NoError(t, f.engine.ProcessSupplierReturn(ctx, inventory.SupplierReturnInput{
		PurchaseID: purchaseID, ProductID: p, Quantity: dec("3"), Reason: "oxidado",
	}))
	assertDecimal(t, "1", f.principal(p))

	err = f.engine.ProcessSupplierReturn(ctx, inventory.SupplierReturnInput{PurchaseID: purchaseID, ProductID: p, Quantity: dec("2")})
	assert.Equal(t, domain.KindOverReturn, domain.KindOf(err))

	movs := movementsOf(f.store, p)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.MovementSupplierReturn, last.Kind)
	assertDecimal(t, "-3", last.Quantity)
}

func TestProcessSupplierReturn_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SR3", "0")
	purchaseID, err := f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("4"), UnitCost: dec("2")}},
	})
	require.NoError(t, err)
	_, err = f.sell(p, "3")
	require.NoError(t, err)

	err = f.engine.ProcessSupplierReturn(ctx, inventory.SupplierReturnInput{PurchaseID: purchaseID, ProductID: p, Quantity: dec("2")})
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_FilasDeStockYCodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "DUP", "7")

	stock, err := f.kardex.StockByWarehouse(ctx, p)
	require.NoError(t, err)
	require.Len(t, stock, 3)
	assertDecimal(t, "7", stock[0].Quantity)
	assert.True(t, stock[0].Sellable)
	assertDecimal(t, "0", stock[1].Quantity)
	assertDecimal(t, "0", stock[2].Quantity)
	assert.Empty(t, movementsOf(f.store, p), "el stock inicial no genera movimiento")

	_, err = f.engine.CreateProduct(ctx, inventory.ProductInput{Code: "DUP", Name: "Otro"})
	assert.Equal(t, domain.KindDuplicateCode, domain.KindOf(err))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCreateProduct_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)
	missing := int64(77)
	_, err := f.engine.CreateProduct(context.Background(), inventory.ProductInput{Code: "C1", Name: "Con categoría", CategoryID: &missing})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	cat := f.store.AddCategory("Tornillería")
	_, err = f.engine.CreateProduct(context.Background(), inventory.ProductInput{Code: "C1", Name: "Con categoría", CategoryID: &cat})
	assert.NoError(t, err)
}

func TestUpdateProduct_CodigoUnicoExceptoElMismo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "UA", "0")
	f.product(t, "UB", "0")

	require.NoError(t, f.engine.UpdateProduct(ctx, a, inventory.ProductInput{Code: "UA", Name: "Renombrado", SalePrice: dec("11")}))
	prod, _ := f.store.Product(a)
	assert.Equal(t, "Renombrado", prod.Name)

	err := f.engine.UpdateProduct(ctx, a, inventory.ProductInput{Code: "UB", Name: "Choque"})
	assert.Equal(t, domain.KindDuplicateCode, domain.KindOf(err))

	err = f.engine.UpdateProduct(ctx, 500, inventory.ProductInput{Code: "ZZ", Name: "Nada"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteProduct_BorraSinHistorial(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "DEL", "3")

	res, err := f.engine.DeleteProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, inventory.ProductDeleted, res)
	_, ok := f.store.Product(p)
	assert.False(t, ok)

	_, err = f.kardex.GetHistory(context.Background(), p)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cache
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_InvalidaCacheSoloTrasCommit(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CACHE", "1")

	_, err := f.sell(p, "5")
	require.Error(t, err)
	assert.NotContains(t, f.cache.invalidated, p)

	_, err = f.sell(p, "1")
	require.NoError(t, err)
	assert.Contains(t, f.cache.invalidated, p)
}

// genCache cache en memoria con generación por producto. beforeSet corre una sola vez
// justo antes de guardar, para intercalar un commit entre la lectura y el guardado.
type genCache struct {
	mu          sync.Mutex
	reports     map[int64]*inventory.KardexReport
	generations map[int64]int64
	beforeSet   func()
}

func newGenCache() *genCache {
	return &genCache{reports: map[int64]*inventory.KardexReport{}, generations: map[int64]int64{}}
}

func (c *genCache) Get(_ context.Context, id int64) (*inventory.KardexReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[id]
	return r, ok, nil
}

func (c *genCache) Generation(_ context.Context, id int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[id], nil
}

func (c *genCache) Set(_ context.Context, id, generation int64, report *inventory.KardexReport) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[id] != generation {
		return nil
	}
	c.reports[id] = report
	return nil
}

func (c *genCache) Invalidate(_ context.Context, ids ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.generations[id]++
		delete(c.reports, id)
	}
	return nil
}

func newCachedFixture(t *testing.T) (*inventory.Engine, *inventory.KardexUseCase, *memory.Store, *genCache) {
	t.Helper()
	store := memory.NewStore()
	c := newGenCache()
	engine := inventory.NewEngine(store, inventory.EngineConfig{
		Location: time.UTC,
		Cache:    c,
		Clock:    func() time.Time { return testNow },
	}, zerolog.Nop())
	return engine, inventory.NewKardexUseCase(store, c, zerolog.Nop()), store, c
}

func TestKardex_CacheAciertoYRefrescoTrasVenta(t *testing.T) {
	engine, kardex, _, _ := newCachedFixture(t)
	ctx := context.Background()
	p, err := engine.CreateProduct(ctx, inventory.ProductInput{Code: "HIT", Name: "Cacheado", SalePrice: dec("10"), InitialStock: dec("5")})
	require.NoError(t, err)

	first, err := kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	second, err := kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	assert.Same(t, first, second, "la segunda lectura sale del cache")

	_, err = engine.ProcessSale(ctx, inventory.SaleInput{
		Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	third, err := kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	assertDecimal(t, "4", third.CurrentStock)
	assert.Equal(t, 1, third.TotalMovements)
}

// Un commit entre la lectura de la BD y el guardado en cache no deja un reporte viejo.
func TestKardex_CacheNoGuardaReporteAnteriorAUnCommit(t *testing.T) {
	engine, kardex, store, c := newCachedFixture(t)
	ctx := context.Background()
	p, err := engine.CreateProduct(ctx, inventory.ProductInput{Code: "RACE", Name: "Carrera", SalePrice: dec("10"), InitialStock: dec("5")})
	require.NoError(t, err)

	c.beforeSet = func() {
		_, err := engine.ProcessSale(ctx, inventory.SaleInput{
			Lines: []inventory.SaleLineInput{{ProductID: p, Quantity: dec("2")}},
		})
		require.NoError(t, err)
	}

	stale, err := kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	assertDecimal(t, "5", stale.CurrentStock, "armado antes de la venta")

	fresh, err := kardex.GetHistory(ctx, p)
	require.NoError(t, err)
	assertDecimal(t, "3", store.StockOf(p, entity.WarehousePrincipal))
	assertDecimal(t, "3", fresh.CurrentStock)
	assert.Equal(t, 1, fresh.TotalMovements)
}

func TestEngine_RechazaMasDeCuatroDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "ESC", "10")

	_, err := f.sell(p, "1.00001")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.engine.ProcessPurchase(ctx, inventory.PurchaseInput{
		Lines: []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("1"), UnitCost: dec("0.12345")}},
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	err = f.engine.ProcessAdjustment(ctx, inventory.AdjustmentInput{
		ProductID: p, Direction: inventory.AdjustmentIn, Quantity: dec("0.00001"), Reason: "conteo",
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	err = f.engine.Transfer(ctx, inventory.TransferInput{ProductID: p, From: 1, To: 2, Quantity: dec("2.50001")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.engine.CreateProduct(ctx, inventory.ProductInput{Code: "ESC2", Name: "Precio fino", SalePrice: dec("1.99999")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assertDecimal(t, "10", f.principal(p))
	assert.Empty(t, movementsOf(f.store, p))

	// ceros a la derecha no cuentan
	_, err = f.sell(p, "1.500000")
	assert.NoError(t, err)
}
