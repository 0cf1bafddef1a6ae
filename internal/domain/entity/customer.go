package entity

import "time"

// DefaultCustomerID es el cliente sembrado "Consumidor final".
const DefaultCustomerID int64 = 1

// Customer representa un cliente. El motor de inventario solo valida su existencia.
type Customer struct {
	ID           int64
	BusinessName string
	TaxID        string // RIF o cédula
	CreatedAt    time.Time
}
