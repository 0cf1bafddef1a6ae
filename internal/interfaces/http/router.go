package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/closing"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.Engine
	Kardex    *inventory.KardexUseCase
	ClosingUC *closing.UseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las que mueven
// inventario fuera de una venta o cierran caja requieren rol gerente (o admin).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole(jwt.RoleManager, jwt.RoleAdmin)

	// Depósitos
	warehouseHandler := NewWarehouseHandler()
	api.Get("/warehouses", warehouseHandler.List)
	api.Get("/warehouses/:id", warehouseHandler.GetByID)

	// Productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Engine, deps.Kardex)
	products.Post("/", manager, productHandler.Create)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", manager, productHandler.Delete)
	products.Get("/:id/kardex", productHandler.Kardex)
	products.Get("/:id/stock", productHandler.Stock)

	// Ventas (cualquier usuario autenticado)
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Engine)
	sales.Post("/", saleHandler.Create)
	sales.Post("/returns", saleHandler.Return)

	// Compras
	purchases := api.Group("/purchases", manager)
	purchaseHandler := NewPurchaseHandler(deps.Engine)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Post("/returns", purchaseHandler.Return)

	// Ajustes y traslados
	inv := api.Group("/inventory", manager)
	inventoryHandler := NewInventoryHandler(deps.Engine)
	inv.Post("/adjustments", inventoryHandler.Adjust)
	inv.Post("/transfers", inventoryHandler.Transfer)

	// Cierres
	closings := api.Group("/closings", manager)
	closingHandler := NewClosingHandler(deps.ClosingUC)
	closings.Get("/x-report", closingHandler.XReport)
	closings.Post("/", closingHandler.ZClose)
	closings.Get("/", closingHandler.List)
}
