package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseRepository persistencia de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateLine(ctx context.Context, line *entity.PurchaseLine) error
	// PurchasedQuantity suma las cantidades compradas del producto en la compra.
	PurchasedQuantity(ctx context.Context, purchaseID, productID int64, forUpdate bool) (qty decimal.Decimal, found bool, err error)
}
