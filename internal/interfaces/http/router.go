package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string
	StoreUC *usecase.StoreUseCase
	RatesUC *usecase.RatesUseCase
	// Metrics nil = sin /metrics.
	Metrics *prometheus.Registry
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	storeHandler := NewStoreHandler(deps.StoreUC)
	api.Post("/dispatch", storeHandler.Dispatch)
	api.Get("/state", storeHandler.State)
	api.Get("/state/:key", storeHandler.StateKey)
	api.Get("/materials/:id/price", storeHandler.MaterialPrice)
	api.Get("/recipes/:id/cost", storeHandler.RecipeCost)
	api.Get("/convert", storeHandler.Convert)

	rates := api.Group("/rates")
	ratesHandler := NewRatesHandler(deps.RatesUC, deps.StoreUC)
	if deps.RatesUC != nil {
		rates.Post("/refresh", ratesHandler.Refresh)
	}
	rates.Get("/:code/history", ratesHandler.History)
}
