package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de kardex (conjunto cerrado).
type MovementKind string

const (
	MovementPurchase       MovementKind = "COMPRA"
	MovementSale           MovementKind = "VENTA"
	MovementAdjustmentIn   MovementKind = "AJUSTE_ENTRADA"
	MovementAdjustmentOut  MovementKind = "AJUSTE_SALIDA"
	MovementCustomerReturn MovementKind = "DEVOLUCION_CLIENTE"
	MovementSupplierReturn MovementKind = "DEVOLUCION_PROVEEDOR"
	MovementTransfer       MovementKind = "TRASLADO"
)

// Clasificación del movimiento en el kardex.
const (
	OperationIn         = "ENTRADA"
	OperationOut        = "SALIDA"
	OperationAdjustment = "AJUSTE"
)

// Tipos de documento de referencia.
const (
	RefSales       = "ventas"
	RefPurchases   = "compras"
	RefAdjustments = "ajustes"
	RefTransfers   = "traslados"
)

// Valid indica si el tipo pertenece al conjunto conocido.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementPurchase, MovementSale, MovementAdjustmentIn, MovementAdjustmentOut,
		MovementCustomerReturn, MovementSupplierReturn, MovementTransfer:
		return true
	}
	return false
}

// Operation clasifica el tipo como ENTRADA, SALIDA o AJUSTE.
func (k MovementKind) Operation() string {
	switch k {
	case MovementPurchase, MovementAdjustmentIn, MovementCustomerReturn:
		return OperationIn
	case MovementSale, MovementAdjustmentOut, MovementSupplierReturn:
		return OperationOut
	default:
		return OperationAdjustment
	}
}

// InventoryMovement es un asiento inmutable del kardex. Quantity es un delta con signo
// (positivo entrada, negativo salida, cero para notas de traslado).
type InventoryMovement struct {
	ID          int64
	OperationID uuid.UUID // agrupa los movimientos de una misma operación
	ProductID   int64
	WarehouseID *WarehouseID // nil en notas de traslado
	Kind        MovementKind
	Quantity    decimal.Decimal
	RefKind     string
	RefID       *int64
	Comment     string
	CreatedBy   *int64
	CreatedAt   time.Time
}
