package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// WarehouseHandler consulta los depósitos fijos (Principal, Dañado, Inmovilizado).
type WarehouseHandler struct{}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler() *WarehouseHandler {
	return &WarehouseHandler{}
}

func toWarehouseResponse(w entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{ID: int64(w.ID), Name: w.Name, Sellable: w.Sellable}
}

// List godoc
// @Summary      Listar depósitos
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	all := entity.Warehouses()
	out := make([]dto.WarehouseResponse, len(all))
	for i, w := range all {
		out[i] = toWarehouseResponse(w)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener depósito por ID
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del depósito"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	w, ok := entity.LookupWarehouse(entity.WarehouseID(id))
	if !ok {
		return writeError(c, domain.Errorf(domain.KindNotFound, "depósito %d no existe", id))
	}
	return c.JSON(toWarehouseResponse(w))
}
