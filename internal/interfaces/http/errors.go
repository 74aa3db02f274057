package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/domain"
)

var statusByCode = map[domain.Code]int{
	domain.CodeValidation:             fiber.StatusBadRequest,
	domain.CodeInvalidPayload:         fiber.StatusBadRequest,
	domain.CodeInvalidCurrency:        fiber.StatusBadRequest,
	domain.CodeInvalidDefaultCurrency: fiber.StatusBadRequest,
	domain.CodeInvalidRate:            fiber.StatusBadRequest,
	domain.CodeNotFound:               fiber.StatusNotFound,
	domain.CodeNoChange:               fiber.StatusOK,
	domain.CodeTooSoon:                fiber.StatusTooManyRequests,
	domain.CodeTooManyRequests:        fiber.StatusTooManyRequests,
	domain.CodeMaterialInUse:          fiber.StatusConflict,
	domain.CodeRecipeInUse:            fiber.StatusConflict,
	domain.CodePackageInUse:           fiber.StatusConflict,
}

// writeError traduce errores de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: string(de.Code), Message: de.Error(), Count: de.Count})
	}
	if errors.Is(err, usecase.ErrUnknownProvider) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_PROVIDER", Message: err.Error()})
	}
	if errors.Is(err, usecase.ErrProviderUnavailable) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PROVIDER_ERROR", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
