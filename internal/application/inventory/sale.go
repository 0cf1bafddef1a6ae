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

// SaleLineInput renglón solicitado. UnitPrice cero toma el precio de venta del producto.
type SaleLineInput struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleInput datos de una venta. CustomerID cero usa el cliente por defecto.
type SaleInput struct {
	CustomerID         int64
	SellerID           *int64
	Lines              []SaleLineInput
	Tax                decimal.Decimal
	ExchangeRate       decimal.Decimal
	PaymentMethod      string
	AllowNegativeStock bool
}

func (in SaleInput) validate() error {
	if len(in.Lines) == 0 {
		return domain.Validation("la venta debe tener al menos un renglón")
	}
	if in.Tax.IsNegative() || in.ExchangeRate.IsNegative() {
		return domain.Validation("impuesto y tasa no pueden ser negativos")
	}
	if err := checkScale("impuesto y tasa", in.Tax, in.ExchangeRate); err != nil {
		return err
	}
	for i, l := range in.Lines {
		if l.ProductID <= 0 {
			return domain.Validation("renglón %d: producto requerido", i+1)
		}
		if !l.Quantity.IsPositive() {
			return domain.Validation("renglón %d: la cantidad debe ser mayor a cero", i+1)
		}
		if l.UnitPrice.IsNegative() {
			return domain.Validation("renglón %d: precio inválido", i+1)
		}
		if err := checkScale(fmt.Sprintf("renglón %d: cantidad y precio", i+1), l.Quantity, l.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

// ProcessSale registra una venta completa: valida el día y el cliente, inserta la cabecera
// PENDIENTE y, por cada renglón en orden, verifica existencia en el depósito principal,
// inserta el renglón, registra el movimiento VENTA y descuenta el stock. Todo o nada.
func (e *Engine) ProcessSale(ctx context.Context, in SaleInput) (int64, error) {
	o := e.begin("sale")
	if err := in.validate(); err != nil {
		return 0, e.finish(ctx, o, err)
	}

	var saleID int64
	productIDs := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		productIDs = append(productIDs, l.ProductID)
	}

	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Closings.LockForSale(ctx); err != nil {
			return err
		}
		closed, err := repos.Closings.ExistsForDate(ctx, entity.BusinessDate(o.at, e.loc))
		if err != nil {
			return err
		}
		if closed {
			return domain.NewError(domain.KindSaleBlockedClosedDay, "el día ya fue cerrado (cierre Z), no se permiten más ventas")
		}

		customerID := in.CustomerID
		if customerID == 0 {
			customerID = e.defaultCustomerID
		}
		customer, err := repos.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.Errorf(domain.KindInvalidCustomer, "el cliente %d no existe", customerID).WithDetail("customer_id", customerID)
		}

		products, err := loadProducts(ctx, repos, productIDs, true)
		if err != nil {
			return err
		}

		lines := make([]entity.SaleLine, len(in.Lines))
		subtotal := decimal.Zero
		for i, l := range in.Lines {
			p := products[l.ProductID]
			price := l.UnitPrice
			if price.IsZero() {
				price = p.SalePrice
			}
			lines[i] = entity.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: price, UnitCost: p.CostPrice}
			subtotal = subtotal.Add(lines[i].Subtotal().Round(maxScale))
		}

		payment := in.PaymentMethod
		if payment == "" {
			payment = entity.DefaultPaymentMethod
		}
		sale := &entity.Sale{
			CustomerID:    customerID,
			SellerID:      in.SellerID,
			Subtotal:      subtotal,
			Tax:           in.Tax,
			Total:         subtotal.Add(in.Tax),
			ExchangeRate:  in.ExchangeRate,
			PaymentMethod: payment,
			ClosureState:  entity.SalePending,
			CreatedAt:     o.at,
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID

		keys := make([]inventory.StockKey, len(productIDs))
		for i, id := range productIDs {
			keys[i] = inventory.StockKey{ProductID: id, WarehouseID: entity.WarehousePrincipal}
		}
		available, err := lockStock(ctx, repos, keys)
		if err != nil {
			return err
		}

		for i := range lines {
			line := &lines[i]
			key := inventory.StockKey{ProductID: line.ProductID, WarehouseID: entity.WarehousePrincipal}
			if !in.AllowNegativeStock && available[key].LessThan(line.Quantity) {
				return insufficientStock(products[line.ProductID], available[key], line.Quantity)
			}
			line.SaleID = sale.ID
			if err := repos.Sales.CreateLine(ctx, line); err != nil {
				return err
			}
			if err := o.record(ctx, repos, entity.InventoryMovement{
				ProductID:   line.ProductID,
				WarehouseID: warehouseRef(entity.WarehousePrincipal),
				Kind:        entity.MovementSale,
				Quantity:    line.Quantity.Neg(),
				RefKind:     entity.RefSales,
				RefID:       refID(sale.ID),
				Comment:     fmt.Sprintf("Venta #%d", sale.ID),
				CreatedBy:   in.SellerID,
			}); err != nil {
				return err
			}
			if err := repos.Stock.Adjust(ctx, line.ProductID, entity.WarehousePrincipal, line.Quantity.Neg()); err != nil {
				return err
			}
			available[key] = available[key].Sub(line.Quantity)
		}
		return nil
	})
	if err != nil {
		return 0, e.finish(ctx, o, err)
	}
	o.log.Info().Int64("sale_id", saleID).Msg("venta registrada")
	return saleID, e.finish(ctx, o, nil, productIDs...)
}
