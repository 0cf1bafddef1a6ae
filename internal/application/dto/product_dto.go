package dto

import "github.com/shopspring/decimal"

// ProductRequest entrada para crear o actualizar un producto.
// InitialStock se ignora en la actualización.
type ProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	MinStock     decimal.Decimal `json:"min_stock"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// CreatedResponse id del recurso creado.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// DeleteProductResponse resultado de DELETE /api/products/:id (deleted | deactivated).
type DeleteProductResponse struct {
	ID     int64  `json:"id"`
	Result string `json:"result"`
}
