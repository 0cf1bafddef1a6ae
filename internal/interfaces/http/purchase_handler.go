package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

// PurchaseHandler compras y devoluciones a proveedor (protegido, gerente).
type PurchaseHandler struct {
	engine *inventory.Engine
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(engine *inventory.Engine) *PurchaseHandler {
	return &PurchaseHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Ingresa al depósito principal y sobrescribe el costo del producto con el de la compra.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Renglones con costo unitario"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.engine.ProcessPurchaseFromRequest(c.Context(), userRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Return godoc
// @Summary      Devolución a proveedor
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierReturnRequest  true  "purchase_id, product_id, quantity, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases/returns [post]
func (h *PurchaseHandler) Return(c *fiber.Ctx) error {
	var in dto.SupplierReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.engine.ProcessSupplierReturnFromRequest(c.Context(), userRef(c), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "devolución a proveedor registrada"})
}
