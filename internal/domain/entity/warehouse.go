package entity

import "fmt"

// WarehouseID identifica un depósito físico. El conjunto es fijo.
type WarehouseID int64

const (
	WarehousePrincipal   WarehouseID = 1
	WarehouseDamaged     WarehouseID = 2
	WarehouseImmobilized WarehouseID = 3
)

// Warehouse describe un depósito y sus capacidades.
type Warehouse struct {
	ID       WarehouseID
	Name     string
	Sellable bool // solo desde depósitos vendibles se descuentan ventas
}

var warehouses = []Warehouse{
	{ID: WarehousePrincipal, Name: "Principal", Sellable: true},
	{ID: WarehouseDamaged, Name: "Dañado"},
	{ID: WarehouseImmobilized, Name: "Inmovilizado"},
}

// Warehouses devuelve los depósitos conocidos en orden ascendente de ID.
func Warehouses() []Warehouse {
	out := make([]Warehouse, len(warehouses))
	copy(out, warehouses)
	return out
}

// LookupWarehouse valida un ID de depósito.
func LookupWarehouse(id WarehouseID) (Warehouse, bool) {
	for _, w := range warehouses {
		if w.ID == id {
			return w, true
		}
	}
	return Warehouse{}, false
}

func (id WarehouseID) String() string {
	if w, ok := LookupWarehouse(id); ok {
		return w.Name
	}
	return fmt.Sprintf("depósito %d", int64(id))
}
