package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// txState da acceso al estado mientras Run mantiene el mutex.
type txState struct {
	store *Store
}

func (t *txState) db() *state { return t.store.data }

func (t *txState) repositories() repository.Repositories {
	return repository.Repositories{
		Products:   productRepo{t},
		Categories: categoryRepo{t},
		Customers:  customerRepo{t},
		Stock:      stockRepo{t},
		Movements:  movementRepo{t},
		Sales:      saleRepo{t},
		Purchases:  purchaseRepo{t},
		Closings:   closingRepo{t},
	}
}

var (
	_ repository.ProductRepository           = productRepo{}
	_ repository.CategoryRepository          = categoryRepo{}
	_ repository.CustomerRepository          = customerRepo{}
	_ repository.StockRepository             = stockRepo{}
	_ repository.InventoryMovementRepository = movementRepo{}
	_ repository.SaleRepository              = saleRepo{}
	_ repository.PurchaseRepository          = purchaseRepo{}
	_ repository.ClosingRepository           = closingRepo{}
)

// ── productos ───────────────────────────────────────────────────────────────

type productRepo struct{ t *txState }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	db := r.t.db()
	for _, other := range db.products {
		if other.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	p.ID = db.next("products")
	db.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.t.db().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) CodeTaken(_ context.Context, code string, exceptID int64) (bool, error) {
	for _, p := range r.t.db().products {
		if p.Code == code && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	db := r.t.db()
	if _, ok := db.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	db.products[p.ID] = *p
	return nil
}

func (r productRepo) UpdateCost(_ context.Context, productID int64, cost decimal.Decimal) error {
	db := r.t.db()
	p, ok := db.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CostPrice = cost
	db.products[productID] = p
	return nil
}

func (r productRepo) SetStatus(_ context.Context, productID int64, status string) error {
	db := r.t.db()
	p, ok := db.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	db.products[productID] = p
	return nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	delete(r.t.db().products, id)
	return nil
}

// ── categorías y clientes ───────────────────────────────────────────────────

type categoryRepo struct{ t *txState }

func (r categoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.t.db().categories[id]
	return ok, nil
}

type customerRepo struct{ t *txState }

func (r customerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	c, ok := r.t.db().customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ── stock ───────────────────────────────────────────────────────────────────

type stockRepo struct{ t *txState }

func (r stockRepo) Quantity(_ context.Context, productID int64, warehouseID entity.WarehouseID, _ bool) (decimal.Decimal, error) {
	if q, ok := r.t.db().stock[stockKey{productID, warehouseID}]; ok {
		return q, nil
	}
	return decimal.Zero, nil
}

func (r stockRepo) Adjust(_ context.Context, productID int64, warehouseID entity.WarehouseID, delta decimal.Decimal) error {
	db := r.t.db()
	k := stockKey{productID, warehouseID}
	db.stock[k] = db.stock[k].Add(delta)
	return nil
}

func (r stockRepo) CreateForProduct(_ context.Context, productID int64, initial decimal.Decimal) error {
	db := r.t.db()
	for _, w := range entity.Warehouses() {
		qty := decimal.Zero
		if w.ID == entity.WarehousePrincipal {
			qty = initial
		}
		db.stock[stockKey{productID, w.ID}] = qty
	}
	return nil
}

func (r stockRepo) ListByProduct(_ context.Context, productID int64) ([]entity.Stock, error) {
	var out []entity.Stock
	for k, q := range r.t.db().stock {
		if k.productID == productID {
			out = append(out, entity.Stock{ProductID: productID, WarehouseID: k.warehouseID, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r stockRepo) DeleteByProduct(_ context.Context, productID int64) error {
	db := r.t.db()
	for k := range db.stock {
		if k.productID == productID {
			delete(db.stock, k)
		}
	}
	return nil
}

// ── movimientos ─────────────────────────────────────────────────────────────

type movementRepo struct{ t *txState }

func (r movementRepo) Record(_ context.Context, m *entity.InventoryMovement) error {
	if err := r.t.store.failRecord; err != nil {
		r.t.store.failRecord = nil
		return err
	}
	db := r.t.db()
	m.ID = db.next("movements")
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	db.movements = append(db.movements, *m)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID int64) ([]entity.InventoryMovement, error) {
	var out []entity.InventoryMovement
	for _, m := range r.t.db().movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r movementRepo) ExistsForProduct(_ context.Context, productID int64) (bool, error) {
	for _, m := range r.t.db().movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r movementRepo) SumByReference(_ context.Context, productID int64, kind entity.MovementKind, refKind string, refID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.t.db().movements {
		if m.ProductID == productID && m.Kind == kind && m.RefKind == refKind && m.RefID != nil && *m.RefID == refID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

// ── ventas ──────────────────────────────────────────────────────────────────

type saleRepo struct{ t *txState }

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	db := r.t.db()
	s.ID = db.next("sales")
	db.sales[s.ID] = *s
	return nil
}

func (r saleRepo) CreateLine(_ context.Context, l *entity.SaleLine) error {
	db := r.t.db()
	l.ID = db.next("sale_lines")
	db.saleLines = append(db.saleLines, *l)
	return nil
}

func (r saleRepo) SoldQuantity(_ context.Context, saleID, productID int64, _ bool) (decimal.Decimal, bool, error) {
	qty, found := decimal.Zero, false
	for _, l := range r.t.db().saleLines {
		if l.SaleID == saleID && l.ProductID == productID {
			qty = qty.Add(l.Quantity)
			found = true
		}
	}
	return qty, found, nil
}

func (r saleRepo) LockPending(_ context.Context) ([]int64, error) {
	var ids []int64
	for id, s := range r.t.db().sales {
		if s.ClosureState == entity.SalePending {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r saleRepo) Totals(_ context.Context, saleIDs []int64) (entity.SalesTotals, error) {
	db := r.t.db()
	in := make(map[int64]bool, len(saleIDs))
	totals := entity.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, id := range saleIDs {
		s, ok := db.sales[id]
		if !ok || in[id] {
			continue
		}
		in[id] = true
		totals.SalesCount++
		totals.Revenue = totals.Revenue.Add(s.Total)
	}
	for _, l := range db.saleLines {
		if in[l.SaleID] {
			totals.Cost = totals.Cost.Add(l.Quantity.Mul(l.UnitCost))
		}
	}
	return totals, nil
}

func (r saleRepo) PendingTotals(ctx context.Context) (entity.SalesTotals, error) {
	ids, _ := r.LockPending(ctx)
	return r.Totals(ctx, ids)
}

func (r saleRepo) MarkClosed(_ context.Context, saleIDs []int64, closingID int64) error {
	db := r.t.db()
	for _, id := range saleIDs {
		s, ok := db.sales[id]
		if !ok || s.ClosureState != entity.SalePending {
			continue
		}
		s.ClosureState = entity.SaleClosed
		cid := closingID
		s.ClosingID = &cid
		db.sales[id] = s
	}
	return nil
}

// ── compras ─────────────────────────────────────────────────────────────────

type purchaseRepo struct{ t *txState }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	db := r.t.db()
	p.ID = db.next("purchases")
	db.purchases[p.ID] = *p
	return nil
}

func (r purchaseRepo) CreateLine(_ context.Context, l *entity.PurchaseLine) error {
	db := r.t.db()
	l.ID = db.next("purchase_lines")
	db.purchaseLines = append(db.purchaseLines, *l)
	return nil
}

func (r purchaseRepo) PurchasedQuantity(_ context.Context, purchaseID, productID int64, _ bool) (decimal.Decimal, bool, error) {
	qty, found := decimal.Zero, false
	for _, l := range r.t.db().purchaseLines {
		if l.PurchaseID == purchaseID && l.ProductID == productID {
			qty = qty.Add(l.Quantity)
			found = true
		}
	}
	return qty, found, nil
}

// ── cierres ─────────────────────────────────────────────────────────────────

type closingRepo struct{ t *txState }

// El Store ya serializa las transacciones completas.
func (closingRepo) LockForSale(context.Context) error  { return nil }
func (closingRepo) LockForClose(context.Context) error { return nil }

func (r closingRepo) Create(_ context.Context, c *entity.Closing) error {
	db := r.t.db()
	c.ID = db.next("closings")
	db.closings = append(db.closings, *c)
	return nil
}

func (r closingRepo) ExistsForDate(_ context.Context, businessDate time.Time) (bool, error) {
	for _, c := range r.t.db().closings {
		if c.BusinessDate.Equal(businessDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r closingRepo) List(_ context.Context, limit, offset int) ([]entity.Closing, error) {
	all := r.t.db().closings
	out := make([]entity.Closing, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	if offset >= len(out) {
		return []entity.Closing{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
