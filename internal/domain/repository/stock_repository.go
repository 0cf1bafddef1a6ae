package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository acceso a las existencias por (producto, depósito).
// Solo debe usarse dentro de una transacción del motor de inventario.
type StockRepository interface {
	// Quantity lee la existencia; forUpdate bloquea la fila hasta el fin de la transacción.
	// Una fila inexistente se lee como cero.
	Quantity(ctx context.Context, productID int64, warehouseID entity.WarehouseID, forUpdate bool) (decimal.Decimal, error)
	// Adjust suma delta de forma atómica (quantity = quantity + delta). Crea la fila si falta.
	Adjust(ctx context.Context, productID int64, warehouseID entity.WarehouseID, delta decimal.Decimal) error
	// CreateForProduct crea una fila por depósito conocido; el principal recibe initial.
	CreateForProduct(ctx context.Context, productID int64, initial decimal.Decimal) error
	ListByProduct(ctx context.Context, productID int64) ([]entity.Stock, error)
	DeleteByProduct(ctx context.Context, productID int64) error
}
