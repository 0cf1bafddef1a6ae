package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

// SaleHandler ventas y devoluciones de clientes (protegido).
type SaleHandler struct {
	engine *inventory.Engine
}

// NewSaleHandler construye el handler.
func NewSaleHandler(engine *inventory.Engine) *SaleHandler {
	return &SaleHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta del depósito principal. Todo o nada: si un renglón falla no queda nada registrado.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Renglones, impuesto, tasa y método de pago"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.engine.ProcessSaleFromRequest(c.Context(), userRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Return godoc
// @Summary      Devolución de cliente
// @Description  Reingresa al depósito principal lo devuelto de una venta, sin superar lo vendido.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "sale_id, product_id, quantity, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/returns [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.engine.ProcessReturnFromRequest(c.Context(), userRef(c), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "devolución registrada"})
}
