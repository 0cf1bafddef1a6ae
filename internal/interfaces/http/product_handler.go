package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

// ProductHandler maneja el catálogo de productos, su kardex y sus existencias (protegido).
type ProductHandler struct {
	engine *inventory.Engine
	kardex *inventory.KardexUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(engine *inventory.Engine, kardex *inventory.KardexUseCase) *ProductHandler {
	return &ProductHandler{engine: engine, kardex: kardex}
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto y sus filas de stock. initial_stock va al depósito principal sin movimiento.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.engine.CreateProduct(c.Context(), inventory.ProductInputFromRequest(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      200   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.engine.UpdateProduct(c.Context(), id, inventory.ProductInputFromRequest(in)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreatedResponse{ID: id})
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Borra el producto si no tiene historial; si lo tiene, lo pasa a INACTIVO.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.DeleteProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	result, err := h.engine.DeleteProduct(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteProductResponse{ID: id, Result: result})
}

// Kardex godoc
// @Summary      Kardex del producto
// @Description  Movimientos del más reciente al más antiguo con saldo antes y después de cada uno.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  inventory.KardexReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/kardex [get]
func (h *ProductHandler) Kardex(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.kardex.GetHistory(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Stock godoc
// @Summary      Existencias por depósito
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {array}   inventory.WarehouseStock
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) Stock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	stock, err := h.kardex.StockByWarehouse(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stock)
}
