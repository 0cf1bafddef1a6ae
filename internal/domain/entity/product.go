package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "ACTIVO"
	ProductStatusInactive = "INACTIVO"
)

// Product representa un artículo del catálogo de la ferretería.
// CostPrice se sobrescribe con el último costo de compra (último costo gana).
type Product struct {
	ID          int64
	Code        string // código único
	Name        string
	Description string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	CategoryID  *int64
	MinStock    decimal.Decimal
	Status      string // ACTIVO, INACTIVO
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto puede venderse o comprarse.
func (p *Product) IsActive() bool {
	return p.Status != ProductStatusInactive
}
