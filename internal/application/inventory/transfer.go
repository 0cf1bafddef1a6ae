package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// TransferInput traslado entre depósitos.
type TransferInput struct {
	ProductID int64
	From      entity.WarehouseID
	To        entity.WarehouseID
	Quantity  decimal.Decimal
	Comment   string
	UserID    *int64
}

func (in TransferInput) validate() error {
	if in.ProductID <= 0 {
		return domain.Validation("producto requerido")
	}
	if _, ok := entity.LookupWarehouse(in.From); !ok {
		return domain.Validation("depósito origen %d desconocido", int64(in.From))
	}
	if _, ok := entity.LookupWarehouse(in.To); !ok {
		return domain.Validation("depósito destino %d desconocido", int64(in.To))
	}
	if in.From == in.To {
		return domain.Validation("los depósitos origen y destino deben ser distintos")
	}
	if !in.Quantity.IsPositive() {
		return domain.Validation("la cantidad debe ser mayor a cero")
	}
	if err := checkScale("la cantidad", in.Quantity); err != nil {
		return err
	}
	return nil
}

// Transfer mueve unidades de un depósito a otro. No verifica existencia suficiente en el
// origen y deja un único movimiento TRASLADO de cantidad cero como nota descriptiva.
func (e *Engine) Transfer(ctx context.Context, in TransferInput) error {
	o := e.begin("transfer")
	if err := in.validate(); err != nil {
		return e.finish(ctx, o, err)
	}
	comment := in.Comment
	if comment == "" {
		comment = "Traslado"
	}

	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		if _, err := loadProducts(ctx, repos, []int64{in.ProductID}, false); err != nil {
			return err
		}
		if _, err := lockStock(ctx, repos, []inventory.StockKey{
			{ProductID: in.ProductID, WarehouseID: in.From},
			{ProductID: in.ProductID, WarehouseID: in.To},
		}); err != nil {
			return err
		}
		if err := repos.Stock.Adjust(ctx, in.ProductID, in.From, in.Quantity.Neg()); err != nil {
			return err
		}
		if err := repos.Stock.Adjust(ctx, in.ProductID, in.To, in.Quantity); err != nil {
			return err
		}
		return o.record(ctx, repos, entity.InventoryMovement{
			ProductID: in.ProductID,
			Kind:      entity.MovementTransfer,
			Quantity:  decimal.Zero,
			RefKind:   entity.RefTransfers,
			Comment: fmt.Sprintf("%s: Movidas %s unidades del depósito %s al %s",
				comment, in.Quantity.String(), in.From, in.To),
			CreatedBy: in.UserID,
		})
	})
	return e.finish(ctx, o, err, in.ProductID)
}
