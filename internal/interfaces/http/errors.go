package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// retryAfterSeconds valor de Retry-After para errores de contención.
const retryAfterSeconds = "1"

// statusFor traduce el Kind del error al código HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidCustomer, domain.KindNoPendingSales:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindDuplicateCode, domain.KindInsufficientStock, domain.KindOverReturn:
		return fiber.StatusConflict
	case domain.KindNotInSale, domain.KindNotInPurchase:
		return fiber.StatusUnprocessableEntity
	case domain.KindSaleBlockedClosedDay:
		return fiber.StatusForbidden
	case domain.KindContention:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde con dto.ErrorResponse. Los errores internos no exponen su causa.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	resp := dto.ErrorResponse{Code: string(kind), Message: err.Error()}
	if de, ok := asDomainError(err); ok {
		resp.Message = de.Message
		resp.Details = de.Details
	}
	switch kind {
	case domain.KindContention:
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		resp.Message = "Recurso ocupado, reintente la operación"
	case domain.KindInternal:
		resp.Message = "error interno"
	}
	return c.Status(statusFor(kind)).JSON(resp)
}

func asDomainError(err error) (*domain.Error, bool) {
	var de *domain.Error
	ok := errors.As(err, &de)
	return de, ok
}

// badBody respuesta para un cuerpo JSON que no se pudo decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, domain.Validation("%s inválido", name)
	}
	return int64(id), nil
}
