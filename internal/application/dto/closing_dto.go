package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosingResponse cierre Z.
type ClosingResponse struct {
	ID           int64           `json:"id"`
	BusinessDate string          `json:"business_date"` // YYYY-MM-DD
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	SalesCount   int             `json:"sales_count"`
	UserID       *int64          `json:"user_id,omitempty"`
	ClosedAt     time.Time       `json:"closed_at"`
}

// XReportResponse vista previa del cierre (ventas pendientes).
type XReportResponse struct {
	SalesCount int             `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
}

// ClosingListResponse historial paginado de cierres.
type ClosingListResponse struct {
	Items []ClosingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
