package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo kardex sobre PostgreSQL. La tabla es de solo inserción
// (un trigger rechaza UPDATE y DELETE).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Record inserta el asiento y asigna su ID.
func (r *InventoryMovementRepo) Record(ctx context.Context, m *entity.InventoryMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	var warehouseID *int64
	if m.WarehouseID != nil {
		id := int64(*m.WarehouseID)
		warehouseID = &id
	}
	query := `
		INSERT INTO inventory_movements
			(operation_id, product_id, warehouse_id, kind, quantity, ref_kind, ref_id, comment, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.OperationID, m.ProductID, warehouseID, string(m.Kind), m.Quantity,
		m.RefKind, m.RefID, m.Comment, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve los asientos del producto en orden cronológico (fecha, luego ID).
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID int64) ([]entity.InventoryMovement, error) {
	query := `
		SELECT id, operation_id, product_id, warehouse_id, kind, quantity, ref_kind, ref_id, comment, created_by, created_at
		FROM inventory_movements
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()

	var list []entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var warehouseID *int64
		var kind string
		if err := rows.Scan(&m.ID, &m.OperationID, &m.ProductID, &warehouseID, &kind, &m.Quantity,
			&m.RefKind, &m.RefID, &m.Comment, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		if warehouseID != nil {
			w := entity.WarehouseID(*warehouseID)
			m.WarehouseID = &w
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, m)
	}
	return list, rows.Err()
}

// ExistsForProduct indica si el producto tiene historial.
func (r *InventoryMovementRepo) ExistsForProduct(ctx context.Context, productID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_movements WHERE product_id = $1)`, productID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check inventory movements: %w", err)
	}
	return ok, nil
}

// SumByReference suma las cantidades de un tipo de movimiento ligado a un documento.
func (r *InventoryMovementRepo) SumByReference(ctx context.Context, productID int64, kind entity.MovementKind, refKind string, refID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_movements
		WHERE product_id = $1 AND kind = $2 AND ref_kind = $3 AND ref_id = $4`,
		productID, string(kind), refKind, refID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum inventory movements: %w", err)
	}
	return sum, nil
}
