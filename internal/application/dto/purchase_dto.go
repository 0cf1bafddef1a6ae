package dto

import "github.com/shopspring/decimal"

// PurchaseLineRequest renglón de compra.
type PurchaseLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseRequest body para POST /api/purchases.
type PurchaseRequest struct {
	SupplierID    *int64                `json:"supplier_id,omitempty"`
	InvoiceNumber string                `json:"invoice_number"`
	PaymentMethod string                `json:"payment_method"`
	Lines         []PurchaseLineRequest `json:"lines"`
}

// SupplierReturnRequest body para POST /api/purchases/returns.
type SupplierReturnRequest struct {
	PurchaseID         int64           `json:"purchase_id"`
	ProductID          int64           `json:"product_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	Reason             string          `json:"reason"`
	AllowNegativeStock bool            `json:"allow_negative_stock,omitempty"`
}
