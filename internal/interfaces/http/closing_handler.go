package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/closing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// ClosingHandler reporte X, cierre Z e historial de cierres (protegido, gerente).
type ClosingHandler struct {
	uc *closing.UseCase
}

// NewClosingHandler construye el handler.
func NewClosingHandler(uc *closing.UseCase) *ClosingHandler {
	return &ClosingHandler{uc: uc}
}

func toClosingResponse(c entity.Closing) dto.ClosingResponse {
	return dto.ClosingResponse{
		ID:           c.ID,
		BusinessDate: c.BusinessDate.Format("2006-01-02"),
		Revenue:      c.Revenue,
		Cost:         c.Cost,
		Profit:       c.Profit,
		SalesCount:   c.SalesCount,
		UserID:       c.UserID,
		ClosedAt:     c.ClosedAt,
	}
}

// XReport godoc
// @Summary      Reporte X
// @Description  Totales de las ventas pendientes de cierre. No modifica nada.
// @Tags         closings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.XReportResponse
// @Router       /api/closings/x-report [get]
func (h *ClosingHandler) XReport(c *fiber.Ctx) error {
	totals, err := h.uc.XReport(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.XReportResponse{
		SalesCount: totals.SalesCount,
		Revenue:    totals.Revenue,
		Cost:       totals.Cost,
		Profit:     totals.Profit(),
	})
}

// ZClose godoc
// @Summary      Cierre Z
// @Description  Cierra las ventas pendientes y bloquea nuevas ventas por el resto del día.
// @Tags         closings
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.ClosingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/closings [post]
func (h *ClosingHandler) ZClose(c *fiber.Ctx) error {
	out, err := h.uc.GenerateZClose(c.Context(), userRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toClosingResponse(*out))
}

// List godoc
// @Summary      Historial de cierres
// @Tags         closings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de elementos (por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ClosingListResponse
// @Router       /api/closings [get]
func (h *ClosingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.History(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.ClosingResponse, len(list))
	for i, cl := range list {
		items[i] = toClosingResponse(cl)
	}
	return c.JSON(dto.ClosingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
