package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Quantity lee la existencia. Con forUpdate bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) Quantity(ctx context.Context, productID int64, warehouseID entity.WarehouseID, forUpdate bool) (decimal.Decimal, error) {
	query := `SELECT quantity FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, int(warehouseID)).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get stock: %w", err)
	}
	return qty, nil
}

// Adjust suma delta a la existencia en una sola sentencia; crea la fila si no existe.
func (r *StockRepo) Adjust(ctx context.Context, productID int64, warehouseID entity.WarehouseID, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, int(warehouseID), delta); err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}

// CreateForProduct crea las filas de stock de un producto nuevo en todos los depósitos.
func (r *StockRepo) CreateForProduct(ctx context.Context, productID int64, initial decimal.Decimal) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	for _, w := range entity.Warehouses() {
		qty := decimal.Zero
		if w.ID == entity.WarehousePrincipal {
			qty = initial
		}
		if _, err := r.q.Exec(ctx, query, productID, int(w.ID), qty); err != nil {
			return fmt.Errorf("create stock: %w", err)
		}
	}
	return nil
}

// ListByProduct devuelve las existencias del producto por depósito.
func (r *StockRepo) ListByProduct(ctx context.Context, productID int64) ([]entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 ORDER BY warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []entity.Stock
	for rows.Next() {
		var s entity.Stock
		var wh int
		if err := rows.Scan(&s.ProductID, &wh, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.WarehouseID = entity.WarehouseID(wh)
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina las filas de stock del producto.
func (r *StockRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}
