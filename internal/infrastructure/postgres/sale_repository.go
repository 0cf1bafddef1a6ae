package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus renglones sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y asigna su ID.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.ClosureState == "" {
		s.ClosureState = entity.SalePending
	}
	query := `
		INSERT INTO sales (customer_id, seller_id, subtotal, tax, total, exchange_rate, payment_method, closure_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.CustomerID, s.SellerID, s.Subtotal, s.Tax, s.Total, s.ExchangeRate,
		s.PaymentMethod, s.ClosureState, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta un renglón con su costo congelado.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, unit_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.UnitCost).Scan(&l.ID); err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// SoldQuantity suma lo vendido del producto en la venta. Con forUpdate bloquea los renglones.
func (r *SaleRepo) SoldQuantity(ctx context.Context, saleID, productID int64, forUpdate bool) (decimal.Decimal, bool, error) {
	query := `SELECT quantity FROM sale_lines WHERE sale_id = $1 AND product_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return sumQuantities(ctx, r.q, query, saleID, productID)
}

// LockPending bloquea las ventas PENDIENTE y devuelve sus IDs en orden.
func (r *SaleRepo) LockPending(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id FROM sales WHERE closure_state = $1 ORDER BY id FOR UPDATE`, entity.SalePending)
	if err != nil {
		return nil, fmt.Errorf("lock pending sales: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sale id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Totals agrega ingresos (total de cabecera) y costo (cantidad por costo congelado).
func (r *SaleRepo) Totals(ctx context.Context, saleIDs []int64) (entity.SalesTotals, error) {
	totals := entity.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero}
	if len(saleIDs) == 0 {
		return totals, nil
	}
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(s.total), 0),
			COALESCE(SUM((SELECT COALESCE(SUM(l.quantity * l.unit_cost), 0) FROM sale_lines l WHERE l.sale_id = s.id)), 0)
		FROM sales s
		WHERE s.id = ANY($1)`
	if err := r.q.QueryRow(ctx, query, saleIDs).Scan(&totals.SalesCount, &totals.Revenue, &totals.Cost); err != nil {
		return totals, fmt.Errorf("sales totals: %w", err)
	}
	return totals, nil
}

// PendingTotals agrega las ventas PENDIENTE sin bloquearlas (reporte X).
func (r *SaleRepo) PendingTotals(ctx context.Context) (entity.SalesTotals, error) {
	totals := entity.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero}
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(s.total), 0),
			COALESCE(SUM((SELECT COALESCE(SUM(l.quantity * l.unit_cost), 0) FROM sale_lines l WHERE l.sale_id = s.id)), 0)
		FROM sales s
		WHERE s.closure_state = $1`
	if err := r.q.QueryRow(ctx, query, entity.SalePending).Scan(&totals.SalesCount, &totals.Revenue, &totals.Cost); err != nil {
		return totals, fmt.Errorf("pending sales totals: %w", err)
	}
	return totals, nil
}

// MarkClosed cierra exactamente las ventas indicadas.
func (r *SaleRepo) MarkClosed(ctx context.Context, saleIDs []int64, closingID int64) error {
	if len(saleIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		UPDATE sales SET closure_state = $1, closing_id = $2
		WHERE id = ANY($3) AND closure_state = $4`,
		entity.SaleClosed, closingID, saleIDs, entity.SalePending)
	if err != nil {
		return fmt.Errorf("close sales: %w", err)
	}
	return nil
}

// sumQuantities suma la columna quantity de las filas devueltas por query.
func sumQuantities(ctx context.Context, q Querier, query string, args ...any) (decimal.Decimal, bool, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("sum quantities: %w", err)
	}
	defer rows.Close()

	total, found := decimal.Zero, false
	for rows.Next() {
		var qty decimal.Decimal
		if err := rows.Scan(&qty); err != nil {
			return decimal.Zero, false, fmt.Errorf("scan quantity: %w", err)
		}
		total = total.Add(qty)
		found = true
	}
	return total, found, rows.Err()
}
