package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// StoreHandler expone el despacho de acciones y las consultas de costos.
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Dispatch godoc
// @Summary      Despachar una acción
// @Description  Aplica la acción al estado, recalcula los dominios dependientes y devuelve el estado confirmado.
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DispatchRequest  true  "Acción {type, payload}"
// @Success      200   {object}  usecase.DispatchResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/dispatch [post]
func (h *StoreHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: string(domain.CodeValidation), Message: "type es requerido"})
	}
	out, err := h.uc.DispatchJSON(c.UserContext(), in.Type, in.Payload)
	if err != nil {
		if domain.IsSoft(err) {
			return c.JSON(usecase.DispatchResult{State: h.uc.Snapshot(), Changed: []string{}})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// State godoc
// @Summary      Estado completo
// @Tags         store
// @Produce      json
// @Success      200  {object}  entity.State
// @Router       /api/state [get]
func (h *StoreHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.uc.Snapshot())
}

// StateKey godoc
// @Summary      Estado de un dominio
// @Tags         store
// @Produce      json
// @Param        key  path  string  true  "materials, recipes, packages, endproducts, currencies, company o settings"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/state/{key} [get]
func (h *StoreHandler) StateKey(c *fiber.Ctx) error {
	st := h.uc.Snapshot()
	switch c.Params("key") {
	case entity.KeyMaterials:
		return c.JSON(st.Materials)
	case entity.KeyRecipes:
		return c.JSON(st.Recipes)
	case entity.KeyPackages:
		return c.JSON(st.Packages)
	case entity.KeyEndProducts:
		return c.JSON(st.EndProducts)
	case entity.KeyCurrencies:
		return c.JSON(st.Currencies)
	case entity.KeyCompany:
		return c.JSON(st.Company)
	case entity.KeySettings:
		return c.JSON(st.Settings)
	}
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: string(domain.CodeNotFound), Message: "dominio desconocido"})
}

// MaterialPrice godoc
// @Summary      Precio derivado de un material
// @Tags         materials
// @Produce      json
// @Param        id     path   string  true   "ID del material"
// @Param        local  query  bool    false  "Convertir a la moneda por defecto"
// @Param        base   query  bool    false  "Normalizar a kg/L"
// @Success      200    {object}  costing.DerivedPrice
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/price [get]
func (h *StoreHandler) MaterialPrice(c *fiber.Ctx) error {
	opts := costing.PriceOptions{
		Local: c.QueryBool("local", false),
		Base:  c.QueryBool("base", false),
	}
	out, err := h.uc.MaterialPrice(c.Params("id"), opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecipeCost godoc
// @Summary      Costo de una receta para una cantidad
// @Tags         recipes
// @Produce      json
// @Param        id        path   string  true   "ID de la receta"
// @Param        quantity  query  string  false  "Cantidad objetivo (por defecto el rendimiento)"
// @Success      200       {object}  costing.RecipeCostResult
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/cost [get]
func (h *StoreHandler) RecipeCost(c *fiber.Ctx) error {
	quantity := decimal.Zero
	if raw := c.Query("quantity"); raw != "" {
		q, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: string(domain.CodeValidation), Message: "quantity inválida"})
		}
		quantity = q
	}
	out, err := h.uc.RecipeCost(c.Params("id"), quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir un monto
// @Tags         currencies
// @Produce      json
// @Param        amount  query  string  true   "Monto"
// @Param        from    query  string  true   "Moneda origen"
// @Param        to      query  string  false  "Moneda destino (por defecto la moneda base)"
// @Success      200     {object}  exchange.Money
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/convert [get]
func (h *StoreHandler) Convert(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: string(domain.CodeValidation), Message: "amount inválido"})
	}
	from := c.Query("from")
	if from == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: string(domain.CodeValidation), Message: "from es requerido"})
	}
	return c.JSON(h.uc.Convert(amount, from, c.Query("to")))
}
