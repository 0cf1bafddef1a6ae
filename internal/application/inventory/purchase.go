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

// PurchaseLineInput renglón de compra.
type PurchaseLineInput struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// PurchaseInput datos de una compra. InvoiceNumber vacío genera una referencia interna.
type PurchaseInput struct {
	SupplierID    *int64
	InvoiceNumber string
	PaymentMethod string
	UserID        *int64
	Lines         []PurchaseLineInput
}

func (in PurchaseInput) validate() error {
	if len(in.Lines) == 0 {
		return domain.Validation("la compra debe tener al menos un renglón")
	}
	for i, l := range in.Lines {
		if l.ProductID <= 0 {
			return domain.Validation("renglón %d: producto requerido", i+1)
		}
		if !l.Quantity.IsPositive() {
			return domain.Validation("renglón %d: la cantidad debe ser mayor a cero", i+1)
		}
		if l.UnitCost.IsNegative() {
			return domain.Validation("renglón %d: costo inválido", i+1)
		}
		if err := checkScale(fmt.Sprintf("renglón %d: cantidad y costo", i+1), l.Quantity, l.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// ProcessPurchase registra la recepción de una compra: cabecera, renglones, costo del
// producto (último costo gana), incremento del depósito principal y movimiento COMPRA.
func (e *Engine) ProcessPurchase(ctx context.Context, in PurchaseInput) (int64, error) {
	o := e.begin("purchase")
	if err := in.validate(); err != nil {
		return 0, e.finish(ctx, o, err)
	}

	invoice := in.InvoiceNumber
	if invoice == "" {
		invoice = fmt.Sprintf("COMP-INT-%d", o.at.UnixMilli())
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.DefaultPaymentMethod
	}

	productIDs := make([]int64, 0, len(in.Lines))
	total := decimal.Zero
	for _, l := range in.Lines {
		productIDs = append(productIDs, l.ProductID)
		total = total.Add(l.Quantity.Mul(l.UnitCost).Round(maxScale))
	}

	var purchaseID int64
	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		if _, err := loadProducts(ctx, repos, productIDs, true); err != nil {
			return err
		}

		purchase := &entity.Purchase{
			SupplierID:    in.SupplierID,
			InvoiceNumber: invoice,
			Total:         total,
			PaymentMethod: payment,
			CreatedBy:     in.UserID,
			CreatedAt:     o.at,
		}
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID

		keys := make([]inventory.StockKey, len(productIDs))
		for i, id := range productIDs {
			keys[i] = inventory.StockKey{ProductID: id, WarehouseID: entity.WarehousePrincipal}
		}
		if _, err := lockStock(ctx, repos, keys); err != nil {
			return err
		}

		for _, l := range in.Lines {
			line := &entity.PurchaseLine{
				PurchaseID: purchase.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitCost:   l.UnitCost,
				Subtotal:   l.Quantity.Mul(l.UnitCost).Round(maxScale),
			}
			if err := repos.Purchases.CreateLine(ctx, line); err != nil {
				return err
			}
			if err := repos.Products.UpdateCost(ctx, l.ProductID, l.UnitCost); err != nil {
				return err
			}
			if err := repos.Stock.Adjust(ctx, l.ProductID, entity.WarehousePrincipal, l.Quantity); err != nil {
				return err
			}
			if err := o.record(ctx, repos, entity.InventoryMovement{
				ProductID:   l.ProductID,
				WarehouseID: warehouseRef(entity.WarehousePrincipal),
				Kind:        entity.MovementPurchase,
				Quantity:    l.Quantity,
				RefKind:     entity.RefPurchases,
				RefID:       refID(purchase.ID),
				Comment:     fmt.Sprintf("Entrada por factura: %s. Costo actualizado a %s", invoice, l.UnitCost.StringFixed(2)),
				CreatedBy:   in.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, e.finish(ctx, o, err)
	}
	o.log.Info().Int64("purchase_id", purchaseID).Str("invoice", invoice).Msg("compra registrada")
	return purchaseID, e.finish(ctx, o, nil, productIDs...)
}
