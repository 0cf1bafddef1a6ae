package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de compra a proveedor.
type Purchase struct {
	ID            int64
	SupplierID    *int64
	InvoiceNumber string
	Total         decimal.Decimal
	PaymentMethod string
	CreatedBy     *int64
	CreatedAt     time.Time
}

// PurchaseLine renglón de compra.
type PurchaseLine struct {
	ID         int64
	PurchaseID int64
	ProductID  int64
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
