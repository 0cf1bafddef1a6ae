package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// EngineConfig parámetros del motor de inventario.
type EngineConfig struct {
	Location          *time.Location // zona horaria del negocio (día calendario del cierre)
	DefaultCustomerID int64          // cliente usado cuando la venta no indica uno
	Cache             KardexCache    // opcional
	Clock             func() time.Time
}

// Engine motor transaccional de inventario: ventas, compras, ajustes, traslados,
// devoluciones y alta de productos. No guarda estado mutable compartido; toda la
// coordinación ocurre en la transacción del TxRunner y sus bloqueos de fila.
type Engine struct {
	tx                TxRunner
	cache             KardexCache
	log               zerolog.Logger
	loc               *time.Location
	defaultCustomerID int64
	now               func() time.Time
}

// NewEngine construye el motor.
func NewEngine(tx TxRunner, cfg EngineConfig, log zerolog.Logger) *Engine {
	e := &Engine{
		tx:                tx,
		cache:             cfg.Cache,
		log:               log.With().Str("component", "inventory").Logger(),
		loc:               cfg.Location,
		defaultCustomerID: cfg.DefaultCustomerID,
		now:               cfg.Clock,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.defaultCustomerID == 0 {
		e.defaultCustomerID = entity.DefaultCustomerID
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// op estado de una operación en curso: un OperationID y una marca de tiempo
// compartidos por todos sus movimientos.
type op struct {
	id  uuid.UUID
	at  time.Time
	log zerolog.Logger
}

func (e *Engine) begin(name string) op {
	id := uuid.New()
	return op{
		id:  id,
		at:  e.now(),
		log: e.log.With().Str("operation", name).Str("operation_id", id.String()).Logger(),
	}
}

// finish registra el resultado, invalida el cache tras el commit y devuelve err sin cambios.
func (e *Engine) finish(ctx context.Context, o op, err error, productIDs ...int64) error {
	if err != nil {
		switch domain.KindOf(err).Class() {
		case domain.ClassInfrastructure:
			o.log.Error().Err(err).Msg("operación revertida")
		default:
			o.log.Warn().Err(err).Str("kind", string(domain.KindOf(err))).Msg("operación rechazada")
		}
		return err
	}
	o.log.Info().Ints64("products", productIDs).Msg("operación confirmada")
	if e.cache != nil && len(productIDs) > 0 {
		if cerr := e.cache.Invalidate(ctx, productIDs...); cerr != nil {
			o.log.Warn().Err(cerr).Msg("invalidar cache de kardex")
		}
	}
	return nil
}

// maxScale decimales que guardan las columnas NUMERIC(18,4).
const maxScale = 4

// checkScale rechaza cantidades o montos con más decimales de los que guarda la base de datos.
func checkScale(field string, values ...decimal.Decimal) error {
	for _, v := range values {
		if !v.Equal(v.Truncate(maxScale)) {
			return domain.Validation("%s admite hasta %d decimales", field, maxScale)
		}
	}
	return nil
}

// record agrega un asiento al kardex con los datos comunes de la operación.
func (o op) record(ctx context.Context, repos repository.Repositories, m entity.InventoryMovement) error {
	m.OperationID = o.id
	m.CreatedAt = o.at
	return repos.Movements.Record(ctx, &m)
}

// lockStock bloquea las filas en el orden global y devuelve sus existencias.
func lockStock(ctx context.Context, repos repository.Repositories, keys []inventory.StockKey) (map[inventory.StockKey]decimal.Decimal, error) {
	ordered := inventory.SortStockKeys(keys)
	out := make(map[inventory.StockKey]decimal.Decimal, len(ordered))
	for _, k := range ordered {
		qty, err := repos.Stock.Quantity(ctx, k.ProductID, k.WarehouseID, true)
		if err != nil {
			return nil, err
		}
		out[k] = qty
	}
	return out, nil
}

// loadProducts lee los productos distintos referenciados. Falla con NOT_FOUND si alguno no existe
// y, si requireActive, con VALIDATION si alguno está inactivo.
func loadProducts(ctx context.Context, repos repository.Repositories, ids []int64, requireActive bool) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.Errorf(domain.KindNotFound, "producto %d no existe", id).WithDetail("product_id", id)
		}
		if requireActive && !p.IsActive() {
			return nil, domain.Validation("el producto %q está inactivo", p.Name).WithDetail("product_id", id)
		}
		out[id] = p
	}
	return out, nil
}

func insufficientStock(p *entity.Product, available, requested decimal.Decimal) error {
	return domain.Errorf(domain.KindInsufficientStock,
		"Stock insuficiente para %q. Disponible: %s, Solicitado: %s", p.Name, available.String(), requested.String()).
		WithDetail("product_id", p.ID).
		WithDetail("product", p.Name).
		WithDetail("available", available.String()).
		WithDetail("requested", requested.String())
}

func refID(id int64) *int64 { return &id }

func warehouseRef(id entity.WarehouseID) *entity.WarehouseID { return &id }
