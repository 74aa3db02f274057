package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// RatesHandler actualización remota e historial de tasas.
type RatesHandler struct {
	rates *usecase.RatesUseCase
	store *usecase.StoreUseCase
}

// NewRatesHandler construye el handler.
func NewRatesHandler(rates *usecase.RatesUseCase, store *usecase.StoreUseCase) *RatesHandler {
	return &RatesHandler{rates: rates, store: store}
}

// Refresh godoc
// @Summary      Actualizar tasas desde el proveedor
// @Tags         currencies
// @Produce      json
// @Success      200  {object}  dto.RefreshRatesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/rates/refresh [post]
func (h *RatesHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.rates.Refresh(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de tasas de una moneda
// @Tags         currencies
// @Produce      json
// @Param        code   path   string  true   "Código ISO-4217"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200    {object}  dto.RateHistoryResponse
// @Router       /api/rates/{code}/history [get]
func (h *RatesHandler) History(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	list, err := h.store.RateHistory(c.UserContext(), code, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RateHistoryResponse{Currency: code, Entries: list})
}
