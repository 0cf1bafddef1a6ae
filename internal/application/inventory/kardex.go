package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// KardexMovement asiento del kardex tal como se presenta al llamador.
type KardexMovement struct {
	ID          int64               `json:"id"`
	OperationID string              `json:"operation_id"`
	Date        time.Time           `json:"date"`
	Kind        entity.MovementKind `json:"kind"`
	Operation   string              `json:"operation"`
	WarehouseID *int64              `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal     `json:"quantity"`
	StockBefore decimal.Decimal     `json:"stock_before"`
	StockAfter  decimal.Decimal     `json:"stock_after"`
	RefKind     string              `json:"ref_kind"`
	RefID       *int64              `json:"ref_id,omitempty"`
	Comment     string              `json:"comment"`
}

// WarehouseStock existencia de un producto en un depósito.
type WarehouseStock struct {
	WarehouseID int64           `json:"warehouse_id"`
	Warehouse   string          `json:"warehouse"`
	Sellable    bool            `json:"sellable"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// KardexProduct datos básicos del producto en el reporte.
type KardexProduct struct {
	ID       int64           `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// KardexReport historial de un producto: más reciente primero.
type KardexReport struct {
	Product          KardexProduct    `json:"product"`
	CurrentStock     decimal.Decimal  `json:"current_stock"`
	StockByWarehouse []WarehouseStock `json:"stock_by_warehouse"`
	FinalBalance     decimal.Decimal  `json:"final_balance"`
	TotalMovements   int              `json:"total_movements"`
	Movements        []KardexMovement `json:"movements"`
}

// KardexUseCase consulta el kardex y las existencias de un producto.
type KardexUseCase struct {
	tx    TxRunner
	cache KardexCache
	log   zerolog.Logger
}

// NewKardexUseCase construye el caso de uso. cache puede ser nil.
func NewKardexUseCase(tx TxRunner, cache KardexCache, log zerolog.Logger) *KardexUseCase {
	return &KardexUseCase{tx: tx, cache: cache, log: log.With().Str("component", "kardex").Logger()}
}

// GetHistory reconstruye el kardex desde cero a partir de los movimientos.
func (uc *KardexUseCase) GetHistory(ctx context.Context, productID int64) (*KardexReport, error) {
	var (
		generation int64
		cacheable  bool
	)
	if uc.cache != nil {
		if report, ok, err := uc.cache.Get(ctx, productID); err != nil {
			uc.log.Warn().Err(err).Int64("product_id", productID).Msg("leer cache de kardex")
		} else if ok {
			return report, nil
		}
		g, err := uc.cache.Generation(ctx, productID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("product_id", productID).Msg("leer generación del kardex")
		} else {
			generation, cacheable = g, true
		}
	}

	var report *KardexReport
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		p, stock, err := productStock(ctx, repos, productID)
		if err != nil {
			return err
		}
		movements, err := repos.Movements.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		k := inventory.BuildKardex(movements)

		report = &KardexReport{
			Product: KardexProduct{
				ID: p.ID, Code: p.Code, Name: p.Name, Status: p.Status, MinStock: p.MinStock,
			},
			StockByWarehouse: stock,
			FinalBalance:     k.FinalBalance,
			TotalMovements:   len(k.Entries),
			Movements:        make([]KardexMovement, len(k.Entries)),
		}
		for _, s := range stock {
			if s.WarehouseID == int64(entity.WarehousePrincipal) {
				report.CurrentStock = s.Quantity
			}
		}
		for i, en := range k.Entries {
			m := KardexMovement{
				ID:          en.ID,
				OperationID: en.OperationID.String(),
				Date:        en.CreatedAt,
				Kind:        en.Kind,
				Operation:   en.Operation,
				Quantity:    en.Quantity,
				StockBefore: en.StockBefore,
				StockAfter:  en.StockAfter,
				RefKind:     en.RefKind,
				RefID:       en.RefID,
				Comment:     en.Comment,
			}
			if en.WarehouseID != nil {
				wh := int64(*en.WarehouseID)
				m.WarehouseID = &wh
			}
			report.Movements[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.Set(ctx, productID, generation, report); err != nil {
			uc.log.Warn().Err(err).Int64("product_id", productID).Msg("guardar cache de kardex")
		}
	}
	return report, nil
}

// StockByWarehouse devuelve las existencias del producto en cada depósito conocido.
func (uc *KardexUseCase) StockByWarehouse(ctx context.Context, productID int64) ([]WarehouseStock, error) {
	var out []WarehouseStock
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		_, stock, err := productStock(ctx, repos, productID)
		out = stock
		return err
	})
	return out, err
}

func productStock(ctx context.Context, repos repository.Repositories, productID int64) (*entity.Product, []WarehouseStock, error) {
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, domain.Errorf(domain.KindNotFound, "producto %d no existe", productID)
	}
	rows, err := repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	byWarehouse := make(map[entity.WarehouseID]decimal.Decimal, len(rows))
	for _, r := range rows {
		byWarehouse[r.WarehouseID] = r.Quantity
	}
	out := make([]WarehouseStock, 0, len(entity.Warehouses()))
	for _, w := range entity.Warehouses() {
		qty, ok := byWarehouse[w.ID]
		if !ok {
			qty = decimal.Zero
		}
		out = append(out, WarehouseStock{
			WarehouseID: int64(w.ID), Warehouse: w.Name, Sellable: w.Sellable, Quantity: qty,
		})
	}
	return p, out, nil
}
