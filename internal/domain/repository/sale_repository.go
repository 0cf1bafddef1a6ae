package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRepository persistencia de ventas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	// SoldQuantity suma las cantidades vendidas del producto en la venta.
	// found es false si la venta no contiene el producto. forUpdate bloquea los renglones.
	SoldQuantity(ctx context.Context, saleID, productID int64, forUpdate bool) (qty decimal.Decimal, found bool, err error)
	// LockPending bloquea y devuelve los IDs de ventas PENDIENTE en orden ascendente.
	LockPending(ctx context.Context) ([]int64, error)
	// Totals agrega ingresos y costo de exactamente las ventas indicadas.
	Totals(ctx context.Context, saleIDs []int64) (entity.SalesTotals, error)
	// PendingTotals agrega las ventas PENDIENTE sin bloquear.
	PendingTotals(ctx context.Context) (entity.SalesTotals, error)
	// MarkClosed pasa las ventas indicadas a CERRADO con su cierre.
	MarkClosed(ctx context.Context, saleIDs []int64, closingID int64) error
}
