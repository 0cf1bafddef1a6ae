package dto

import "github.com/shopspring/decimal"

// AdjustmentRequest un ajuste manual. direction: ENTRADA | SALIDA.
type AdjustmentRequest struct {
	ProductID          int64           `json:"product_id"`
	WarehouseID        int64           `json:"warehouse_id,omitempty"`
	Direction          string          `json:"direction"`
	Quantity           decimal.Decimal `json:"quantity"`
	Reason             string          `json:"reason"`
	AllowNegativeStock bool            `json:"allow_negative_stock,omitempty"`
}

// AdjustmentBatchRequest body para POST /api/inventory/adjustments (todos en una transacción).
type AdjustmentBatchRequest struct {
	Items []AdjustmentRequest `json:"items"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       int64           `json:"product_id"`
	FromWarehouseID int64           `json:"from_warehouse_id"`
	ToWarehouseID   int64           `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Comment         string          `json:"comment"`
}

// WarehouseResponse depósito fijo del negocio.
type WarehouseResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sellable bool   `json:"sellable"` // solo el principal se vende
}
