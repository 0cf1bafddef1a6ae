package dto

import "github.com/shopspring/decimal"

// SaleLineRequest renglón de venta. unit_price 0 toma el precio de venta del producto.
type SaleLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRequest body para POST /api/sales.
type SaleRequest struct {
	CustomerID         int64             `json:"customer_id,omitempty"`
	Lines              []SaleLineRequest `json:"lines"`
	Tax                decimal.Decimal   `json:"tax"`
	ExchangeRate       decimal.Decimal   `json:"exchange_rate"`
	PaymentMethod      string            `json:"payment_method"`
	AllowNegativeStock bool              `json:"allow_negative_stock,omitempty"`
}

// ReturnRequest body para POST /api/sales/returns.
type ReturnRequest struct {
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
}
