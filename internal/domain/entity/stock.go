package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un producto en un depósito.
type Stock struct {
	ProductID   int64
	WarehouseID WarehouseID
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
