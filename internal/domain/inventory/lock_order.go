package inventory

import (
	"sort"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// StockKey identifica una fila de stock.
type StockKey struct {
	ProductID   int64
	WarehouseID entity.WarehouseID
}

// SortStockKeys devuelve las claves sin duplicados en el orden global de bloqueo:
// producto ascendente y luego depósito ascendente. Todas las operaciones bloquean
// filas de stock en este orden para evitar interbloqueos.
func SortStockKeys(keys []StockKey) []StockKey {
	seen := make(map[StockKey]struct{}, len(keys))
	out := make([]StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out
}
