package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.ClosingRepository = (*ClosingRepo)(nil)

// ClosingRepo cierres Z sobre PostgreSQL.
type ClosingRepo struct {
	q Querier
}

// NewClosingRepository construye el adaptador de cierres.
func NewClosingRepository(q Querier) *ClosingRepo {
	return &ClosingRepo{q: q}
}

// LockForSale toma closings en SHARE: compatible con otras ventas, incompatible con un cierre en curso.
func (r *ClosingRepo) LockForSale(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE closings IN SHARE MODE`); err != nil {
		return fmt.Errorf("lock closings for sale: %w", err)
	}
	return nil
}

// LockForClose toma closings en SHARE ROW EXCLUSIVE: espera a las ventas en curso y a otros cierres.
func (r *ClosingRepo) LockForClose(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE closings IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock closings for close: %w", err)
	}
	return nil
}

// Create inserta el cierre y asigna su ID.
func (r *ClosingRepo) Create(ctx context.Context, c *entity.Closing) error {
	if c.ClosedAt.IsZero() {
		c.ClosedAt = time.Now()
	}
	query := `
		INSERT INTO closings (business_date, revenue, cost, profit, sales_count, user_id, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.BusinessDate, c.Revenue, c.Cost, c.Profit, c.SalesCount, c.UserID, c.ClosedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert closing: %w", err)
	}
	return nil
}

// ExistsForDate indica si ya hay un cierre para la fecha de negocio.
func (r *ClosingRepo) ExistsForDate(ctx context.Context, businessDate time.Time) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM closings WHERE business_date = $1::date)`, businessDate,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check closing: %w", err)
	}
	return ok, nil
}

// List devuelve los cierres del más reciente al más antiguo.
func (r *ClosingRepo) List(ctx context.Context, limit, offset int) ([]entity.Closing, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, business_date, revenue, cost, profit, sales_count, user_id, closed_at
		FROM closings
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list closings: %w", err)
	}
	defer rows.Close()

	list := []entity.Closing{}
	for rows.Next() {
		var c entity.Closing
		if err := rows.Scan(&c.ID, &c.BusinessDate, &c.Revenue, &c.Cost, &c.Profit,
			&c.SalesCount, &c.UserID, &c.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan closing: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
