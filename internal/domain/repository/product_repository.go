package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// CodeTaken indica si otro producto (distinto de exceptID) usa el código.
	CodeTaken(ctx context.Context, code string, exceptID int64) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID int64, cost decimal.Decimal) error
	SetStatus(ctx context.Context, productID int64, status string) error
	Delete(ctx context.Context, id int64) error
}
