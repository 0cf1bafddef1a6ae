package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryMovementRepository kardex de solo inserción.
type InventoryMovementRepository interface {
	// Record agrega un asiento y asigna su ID.
	Record(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProduct devuelve los asientos ordenados por fecha y luego por ID, ascendente.
	ListByProduct(ctx context.Context, productID int64) ([]entity.InventoryMovement, error)
	ExistsForProduct(ctx context.Context, productID int64) (bool, error)
	// SumByReference suma las cantidades de un tipo de movimiento para un documento de referencia.
	SumByReference(ctx context.Context, productID int64, kind entity.MovementKind, refKind string, refID int64) (decimal.Decimal, error)
}
