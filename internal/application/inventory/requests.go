package inventory

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// Adaptadores de los request HTTP a las operaciones del motor. userID es el usuario
// autenticado (nil si no se conoce).

// ProcessSaleFromRequest registra una venta desde dto.SaleRequest.
func (e *Engine) ProcessSaleFromRequest(ctx context.Context, userID *int64, in dto.SaleRequest) (int64, error) {
	lines := make([]SaleLineInput, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return e.ProcessSale(ctx, SaleInput{
		CustomerID:         in.CustomerID,
		SellerID:           userID,
		Lines:              lines,
		Tax:                in.Tax,
		ExchangeRate:       in.ExchangeRate,
		PaymentMethod:      in.PaymentMethod,
		AllowNegativeStock: in.AllowNegativeStock,
	})
}

// ProcessPurchaseFromRequest registra una compra desde dto.PurchaseRequest.
func (e *Engine) ProcessPurchaseFromRequest(ctx context.Context, userID *int64, in dto.PurchaseRequest) (int64, error) {
	lines := make([]PurchaseLineInput, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = PurchaseLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}
	return e.ProcessPurchase(ctx, PurchaseInput{
		SupplierID:    in.SupplierID,
		InvoiceNumber: in.InvoiceNumber,
		PaymentMethod: in.PaymentMethod,
		UserID:        userID,
		Lines:         lines,
	})
}

// ProcessAdjustmentsFromRequest aplica el lote de ajustes de dto.AdjustmentBatchRequest.
func (e *Engine) ProcessAdjustmentsFromRequest(ctx context.Context, userID *int64, in dto.AdjustmentBatchRequest) error {
	items := make([]AdjustmentInput, len(in.Items))
	for i, a := range in.Items {
		items[i] = AdjustmentInput{
			ProductID:          a.ProductID,
			WarehouseID:        entity.WarehouseID(a.WarehouseID),
			Direction:          a.Direction,
			Quantity:           a.Quantity,
			Reason:             a.Reason,
			UserID:             userID,
			AllowNegativeStock: a.AllowNegativeStock,
		}
	}
	return e.ProcessAdjustmentBatch(ctx, items)
}

// TransferFromRequest ejecuta un traslado desde dto.TransferRequest.
func (e *Engine) TransferFromRequest(ctx context.Context, userID *int64, in dto.TransferRequest) error {
	return e.Transfer(ctx, TransferInput{
		ProductID: in.ProductID,
		From:      entity.WarehouseID(in.FromWarehouseID),
		To:        entity.WarehouseID(in.ToWarehouseID),
		Quantity:  in.Quantity,
		Comment:   in.Comment,
		UserID:    userID,
	})
}

// ProcessReturnFromRequest registra una devolución de cliente desde dto.ReturnRequest.
func (e *Engine) ProcessReturnFromRequest(ctx context.Context, userID *int64, in dto.ReturnRequest) error {
	return e.ProcessReturn(ctx, ReturnInput{
		SaleID:    in.SaleID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UserID:    userID,
	})
}

// ProcessSupplierReturnFromRequest registra una devolución a proveedor.
func (e *Engine) ProcessSupplierReturnFromRequest(ctx context.Context, userID *int64, in dto.SupplierReturnRequest) error {
	return e.ProcessSupplierReturn(ctx, SupplierReturnInput{
		PurchaseID:         in.PurchaseID,
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		Reason:             in.Reason,
		UserID:             userID,
		AllowNegativeStock: in.AllowNegativeStock,
	})
}

// ProductInputFromRequest convierte dto.ProductRequest.
func ProductInputFromRequest(in dto.ProductRequest) ProductInput {
	return ProductInput{
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		CategoryID:   in.CategoryID,
		MinStock:     in.MinStock,
		InitialStock: in.InitialStock,
	}
}
