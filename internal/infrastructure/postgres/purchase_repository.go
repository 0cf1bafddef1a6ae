package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras a proveedor sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera y asigna su ID.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO purchases (supplier_id, invoice_number, total, payment_method, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.SupplierID, p.InvoiceNumber, p.Total, p.PaymentMethod, p.CreatedBy, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine inserta un renglón de compra.
func (r *PurchaseRepo) CreateLine(ctx context.Context, l *entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, l.PurchaseID, l.ProductID, l.Quantity, l.UnitCost, l.Subtotal).Scan(&l.ID); err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// PurchasedQuantity suma lo comprado del producto en la compra.
func (r *PurchaseRepo) PurchasedQuantity(ctx context.Context, purchaseID, productID int64, forUpdate bool) (decimal.Decimal, bool, error) {
	query := `SELECT quantity FROM purchase_lines WHERE purchase_id = $1 AND product_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return sumQuantities(ctx, r.q, query, purchaseID, productID)
}
