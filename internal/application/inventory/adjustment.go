package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// Dirección de un ajuste manual.
const (
	AdjustmentIn  = "ENTRADA"
	AdjustmentOut = "SALIDA"
)

// AdjustmentInput ajuste manual. Quantity es la magnitud (> 0); Direction da el signo.
// WarehouseID cero usa el depósito principal. Una SALIDA que deje el stock negativo
// se rechaza salvo AllowNegativeStock.
type AdjustmentInput struct {
	ProductID          int64
	WarehouseID        entity.WarehouseID
	Direction          string
	Quantity           decimal.Decimal
	Reason             string
	UserID             *int64
	AllowNegativeStock bool
}

func (in *AdjustmentInput) normalize() error {
	if in.WarehouseID == 0 {
		in.WarehouseID = entity.WarehousePrincipal
	}
	if in.ProductID <= 0 {
		return domain.Validation("producto requerido")
	}
	if _, ok := entity.LookupWarehouse(in.WarehouseID); !ok {
		return domain.Validation("depósito %d desconocido", int64(in.WarehouseID))
	}
	if in.Direction != AdjustmentIn && in.Direction != AdjustmentOut {
		return domain.Validation("tipo de ajuste inválido: use ENTRADA o SALIDA")
	}
	if !in.Quantity.IsPositive() {
		return domain.Validation("la cantidad debe ser mayor a cero")
	}
	if err := checkScale("la cantidad", in.Quantity); err != nil {
		return err
	}
	if in.Reason == "" {
		return domain.Validation("el motivo del ajuste es requerido")
	}
	return nil
}

func (in AdjustmentInput) delta() decimal.Decimal {
	if in.Direction == AdjustmentOut {
		return in.Quantity.Neg()
	}
	return in.Quantity
}

func (in AdjustmentInput) kind() entity.MovementKind {
	if in.Direction == AdjustmentOut {
		return entity.MovementAdjustmentOut
	}
	return entity.MovementAdjustmentIn
}

// ProcessAdjustment aplica un ajuste manual de inventario.
func (e *Engine) ProcessAdjustment(ctx context.Context, in AdjustmentInput) error {
	return e.ProcessAdjustmentBatch(ctx, []AdjustmentInput{in})
}

// ProcessAdjustmentBatch aplica varios ajustes en una sola transacción (todo o nada).
func (e *Engine) ProcessAdjustmentBatch(ctx context.Context, items []AdjustmentInput) error {
	o := e.begin("adjustment")
	if len(items) == 0 {
		return e.finish(ctx, o, domain.Validation("no hay ajustes que aplicar"))
	}
	adjustments := make([]AdjustmentInput, len(items))
	copy(adjustments, items)

	productIDs := make([]int64, 0, len(adjustments))
	keys := make([]inventory.StockKey, 0, len(adjustments))
	for i := range adjustments {
		if err := adjustments[i].normalize(); err != nil {
			return e.finish(ctx, o, err)
		}
		productIDs = append(productIDs, adjustments[i].ProductID)
		keys = append(keys, inventory.StockKey{ProductID: adjustments[i].ProductID, WarehouseID: adjustments[i].WarehouseID})
	}

	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		products, err := loadProducts(ctx, repos, productIDs, false)
		if err != nil {
			return err
		}
		current, err := lockStock(ctx, repos, keys)
		if err != nil {
			return err
		}
		for _, a := range adjustments {
			key := inventory.StockKey{ProductID: a.ProductID, WarehouseID: a.WarehouseID}
			delta := a.delta()
			if a.Direction == AdjustmentOut && !a.AllowNegativeStock && current[key].Add(delta).IsNegative() {
				return insufficientStock(products[a.ProductID], current[key], a.Quantity)
			}
			if err := repos.Stock.Adjust(ctx, a.ProductID, a.WarehouseID, delta); err != nil {
				return err
			}
			if err := o.record(ctx, repos, entity.InventoryMovement{
				ProductID:   a.ProductID,
				WarehouseID: warehouseRef(a.WarehouseID),
				Kind:        a.kind(),
				Quantity:    delta,
				RefKind:     entity.RefAdjustments,
				Comment:     a.Reason,
				CreatedBy:   a.UserID,
			}); err != nil {
				return err
			}
			current[key] = current[key].Add(delta)
		}
		return nil
	})
	return e.finish(ctx, o, err, productIDs...)
}
