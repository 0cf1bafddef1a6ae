package repository

// Repositories agrupa los puertos atados a una misma transacción.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Customers  CustomerRepository
	Stock      StockRepository
	Movements  InventoryMovementRepository
	Sales      SaleRepository
	Purchases  PurchaseRepository
	Closings   ClosingRepository
}
