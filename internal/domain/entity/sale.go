package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de cierre de una venta.
const (
	SalePending = "PENDIENTE"
	SaleClosed  = "CERRADO"
)

// DefaultPaymentMethod método de pago cuando el cliente no indica uno.
const DefaultPaymentMethod = "Efectivo"

// Sale cabecera de venta. Total = Subtotal + Tax.
type Sale struct {
	ID            int64
	CustomerID    int64
	SellerID      *int64
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	ExchangeRate  decimal.Decimal // tasa BCV del día
	PaymentMethod string
	ClosureState  string // PENDIENTE, CERRADO
	ClosingID     *int64
	CreatedAt     time.Time
}

// SaleLine renglón de venta. UnitCost es el costo del producto al momento de vender.
type SaleLine struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Subtotal importe del renglón.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}
