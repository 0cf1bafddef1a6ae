package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Closing cierre Z de un día de negocio. Inmutable una vez creado.
type Closing struct {
	ID           int64
	BusinessDate time.Time // fecha (sin hora) en la zona horaria del negocio
	Revenue      decimal.Decimal
	Cost         decimal.Decimal
	Profit       decimal.Decimal
	SalesCount   int
	UserID       *int64
	ClosedAt     time.Time
}

// SalesTotals agregado de ventas pendientes (reporte X y base del cierre Z).
type SalesTotals struct {
	SalesCount int
	Revenue    decimal.Decimal
	Cost       decimal.Decimal
}

// Profit ganancia bruta.
func (t SalesTotals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Cost)
}

// BusinessDate devuelve el día calendario de t en la zona del negocio, a medianoche UTC.
func BusinessDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
