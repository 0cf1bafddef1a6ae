package inventory

import (
	"sort"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// KardexEntry asiento del kardex con el saldo antes y después de aplicarlo.
type KardexEntry struct {
	entity.InventoryMovement
	Operation   string // ENTRADA, SALIDA, AJUSTE
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
}

// Kardex historial reconstruido de un producto.
type Kardex struct {
	Entries      []KardexEntry // más reciente primero
	FinalBalance decimal.Decimal
}

// BuildKardex reconstruye el saldo corrido a partir de los asientos.
// Ordena una copia por (CreatedAt, ID) ascendente, acumula desde cero y devuelve
// los asientos en orden inverso. No modifica movements.
func BuildKardex(movements []entity.InventoryMovement) Kardex {
	ordered := make([]entity.InventoryMovement, len(movements))
	copy(ordered, movements)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	entries := make([]KardexEntry, len(ordered))
	balance := decimal.Zero
	for i, m := range ordered {
		before := balance
		balance = balance.Add(m.Quantity)
		entries[i] = KardexEntry{
			InventoryMovement: m,
			Operation:         m.Kind.Operation(),
			StockBefore:       before,
			StockAfter:        balance,
		}
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return Kardex{Entries: entries, FinalBalance: balance}
}
