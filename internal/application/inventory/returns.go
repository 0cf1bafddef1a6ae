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

// ReturnInput devolución de un cliente sobre una venta.
type ReturnInput struct {
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
	Reason    string
	UserID    *int64
}

// SupplierReturnInput devolución de mercancía al proveedor sobre una compra.
type SupplierReturnInput struct {
	PurchaseID         int64
	ProductID          int64
	Quantity           decimal.Decimal
	Reason             string
	UserID             *int64
	AllowNegativeStock bool
}

func validateReturn(docID, productID int64, qty decimal.Decimal) error {
	if docID <= 0 || productID <= 0 {
		return domain.Validation("documento y producto son requeridos")
	}
	if !qty.IsPositive() {
		return domain.Validation("la cantidad debe ser mayor a cero")
	}
	if err := checkScale("la cantidad", qty); err != nil {
		return err
	}
	return nil
}

// ProcessReturn reingresa al depósito principal unidades devueltas por un cliente.
// La suma de devoluciones de una venta nunca supera lo vendido.
func (e *Engine) ProcessReturn(ctx context.Context, in ReturnInput) error {
	o := e.begin("customer_return")
	if err := validateReturn(in.SaleID, in.ProductID, in.Quantity); err != nil {
		return e.finish(ctx, o, err)
	}

	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		sold, found, err := repos.Sales.SoldQuantity(ctx, in.SaleID, in.ProductID, true)
		if err != nil {
			return err
		}
		if !found {
			return domain.Errorf(domain.KindNotInSale, "el producto %d no pertenece a la venta #%d", in.ProductID, in.SaleID).
				WithDetail("sale_id", in.SaleID).
				WithDetail("product_id", in.ProductID)
		}
		returned, err := repos.Movements.SumByReference(ctx, in.ProductID, entity.MovementCustomerReturn, entity.RefSales, in.SaleID)
		if err != nil {
			return err
		}
		if returned.Add(in.Quantity).GreaterThan(sold) {
			return domain.Errorf(domain.KindOverReturn, "no se puede devolver más de lo vendido (vendido: %s, ya devuelto: %s, solicitado: %s)",
				sold.String(), returned.String(), in.Quantity.String()).
				WithDetail("sold", sold.String()).
				WithDetail("returned", returned.String()).
				WithDetail("requested", in.Quantity.String())
		}

		if _, err := lockStock(ctx, repos, []inventory.StockKey{{ProductID: in.ProductID, WarehouseID: entity.WarehousePrincipal}}); err != nil {
			return err
		}
		if err := repos.Stock.Adjust(ctx, in.ProductID, entity.WarehousePrincipal, in.Quantity); err != nil {
			return err
		}
		comment := fmt.Sprintf("Devolución Venta #%d", in.SaleID)
		if in.Reason != "" {
			comment += ". Motivo: " + in.Reason
		}
		return o.record(ctx, repos, entity.InventoryMovement{
			ProductID:   in.ProductID,
			WarehouseID: warehouseRef(entity.WarehousePrincipal),
			Kind:        entity.MovementCustomerReturn,
			Quantity:    in.Quantity,
			RefKind:     entity.RefSales,
			RefID:       refID(in.SaleID),
			Comment:     comment,
			CreatedBy:   in.UserID,
		})
	})
	return e.finish(ctx, o, err, in.ProductID)
}

// ProcessSupplierReturn descuenta del depósito principal unidades devueltas al proveedor.
// No se puede devolver más de lo comprado en esa compra.
func (e *Engine) ProcessSupplierReturn(ctx context.Context, in SupplierReturnInput) error {
	o := e.begin("supplier_return")
	if err := validateReturn(in.PurchaseID, in.ProductID, in.Quantity); err != nil {
		return e.finish(ctx, o, err)
	}

	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		purchased, found, err := repos.Purchases.PurchasedQuantity(ctx, in.PurchaseID, in.ProductID, true)
		if err != nil {
			return err
		}
		if !found {
			return domain.Errorf(domain.KindNotInPurchase, "el producto %d no pertenece a la compra #%d", in.ProductID, in.PurchaseID).
				WithDetail("purchase_id", in.PurchaseID).
				WithDetail("product_id", in.ProductID)
		}
		returned, err := repos.Movements.SumByReference(ctx, in.ProductID, entity.MovementSupplierReturn, entity.RefPurchases, in.PurchaseID)
		if err != nil {
			return err
		}
		// los asientos de devolución a proveedor son negativos
		returned = returned.Abs()
		if returned.Add(in.Quantity).GreaterThan(purchased) {
			return domain.Errorf(domain.KindOverReturn, "no se puede devolver más de lo comprado (comprado: %s, ya devuelto: %s, solicitado: %s)",
				purchased.String(), returned.String(), in.Quantity.String()).
				WithDetail("purchased", purchased.String()).
				WithDetail("returned", returned.String()).
				WithDetail("requested", in.Quantity.String())
		}

		products, err := loadProducts(ctx, repos, []int64{in.ProductID}, false)
		if err != nil {
			return err
		}
		key := inventory.StockKey{ProductID: in.ProductID, WarehouseID: entity.WarehousePrincipal}
		current, err := lockStock(ctx, repos, []inventory.StockKey{key})
		if err != nil {
			return err
		}
		if !in.AllowNegativeStock && current[key].LessThan(in.Quantity) {
			return insufficientStock(products[in.ProductID], current[key], in.Quantity)
		}
		if err := repos.Stock.Adjust(ctx, in.ProductID, entity.WarehousePrincipal, in.Quantity.Neg()); err != nil {
			return err
		}
		comment := fmt.Sprintf("Devolución a proveedor, compra #%d", in.PurchaseID)
		if in.Reason != "" {
			comment += ". Motivo: " + in.Reason
		}
		return o.record(ctx, repos, entity.InventoryMovement{
			ProductID:   in.ProductID,
			WarehouseID: warehouseRef(entity.WarehousePrincipal),
			Kind:        entity.MovementSupplierReturn,
			Quantity:    in.Quantity.Neg(),
			RefKind:     entity.RefPurchases,
			RefID:       refID(in.PurchaseID),
			Comment:     comment,
			CreatedBy:   in.UserID,
		})
	})
	return e.finish(ctx, o, err, in.ProductID)
}
