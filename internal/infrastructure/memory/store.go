// Package memory implementa los repositorios del motor de inventario en memoria.
// Store serializa transacciones completas con un mutex y restaura una copia del
// estado si la función devuelve error, preservando las garantías observables de la
// base de datos (atomicidad y ausencia de sobreventa). Se usa en pruebas.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/closing"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ closing.TxRunner   = (*Store)(nil)
)

type stockKey struct {
	productID   int64
	warehouseID entity.WarehouseID
}

type state struct {
	products      map[int64]entity.Product
	categories    map[int64]entity.Category
	customers     map[int64]entity.Customer
	stock         map[stockKey]decimal.Decimal
	movements     []entity.InventoryMovement
	sales         map[int64]entity.Sale
	saleLines     []entity.SaleLine
	purchases     map[int64]entity.Purchase
	purchaseLines []entity.PurchaseLine
	closings      []entity.Closing
	seq           map[string]int64
}

func newState() *state {
	return &state{
		products:   make(map[int64]entity.Product),
		categories: make(map[int64]entity.Category),
		customers:  make(map[int64]entity.Customer),
		stock:      make(map[stockKey]decimal.Decimal),
		sales:      make(map[int64]entity.Sale),
		purchases:  make(map[int64]entity.Purchase),
		seq:        make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	c.saleLines = append([]entity.SaleLine(nil), s.saleLines...)
	c.purchaseLines = append([]entity.PurchaseLine(nil), s.purchaseLines...)
	c.closings = append([]entity.Closing(nil), s.closings...)
	return c
}

func (s *state) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// Store almacén en memoria que implementa TxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
	// failRecord, si no es nil, se devuelve en el próximo Record (una sola vez).
	failRecord error
}

// NewStore crea un almacén con el cliente por defecto "Consumidor final".
func NewStore() *Store {
	s := &Store{data: newState()}
	s.data.customers[entity.DefaultCustomerID] = entity.Customer{ID: entity.DefaultCustomerID, BusinessName: "Consumidor final"}
	s.data.seq["customers"] = entity.DefaultCustomerID
	return s
}

// Run ejecuta fn con acceso exclusivo al almacén. Si fn falla se descartan sus cambios.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	tx := &txState{store: s}
	if err := fn(tx.repositories()); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// AddCustomer registra un cliente y devuelve su ID.
func (s *Store) AddCustomer(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.data.next("customers")
	s.data.customers[id] = entity.Customer{ID: id, BusinessName: name}
	return id
}

// AddCategory registra una categoría y devuelve su ID.
func (s *Store) AddCategory(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.data.next("categories")
	s.data.categories[id] = entity.Category{ID: id, Name: name}
	return id
}

// FailNextRecord hace que el próximo Record de movimiento devuelva err.
func (s *Store) FailNextRecord(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRecord = err
}

// StockOf devuelve la existencia actual (fuera de transacción).
func (s *Store) StockOf(productID int64, warehouseID entity.WarehouseID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.data.stock[stockKey{productID, warehouseID}]; ok {
		return q
	}
	return decimal.Zero
}

// Movements devuelve una copia de todos los movimientos en orden de inserción.
func (s *Store) Movements() []entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.InventoryMovement(nil), s.data.movements...)
}

// Sale devuelve una venta por ID.
func (s *Store) Sale(id int64) (entity.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data.sales[id]
	return v, ok
}

// SaleCount número de ventas registradas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.sales)
}

// Closings devuelve una copia de los cierres.
func (s *Store) Closings() []entity.Closing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Closing(nil), s.data.closings...)
}

// Product devuelve un producto por ID.
func (s *Store) Product(id int64) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	return p, ok
}
