package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/rates"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/units"
	httpRouter "github.com/jhoicas/Costeo-api/internal/interfaces/http"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("currency", cfg.Costing.DefaultCurrency).
		Msg("iniciando aplicación")

	ctx := context.Background()

	unitTable, err := units.Load(cfg.Costing.UnitsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("tabla de unidades")
	}

	collector := metrics.NewCollector()
	storeCfg := usecase.StoreConfig{
		DefaultCurrency:  cfg.Costing.DefaultCurrency,
		Currencies:       cfg.Costing.Currencies,
		HistoryLimit:     cfg.Costing.HistoryLimit,
		RateHistoryLimit: cfg.Costing.RateHistoryLimit,
		RateMinInterval:  cfg.Costing.RateMinInterval,
		Units:            unitTable,
	}
	if cfg.Costing.LabourCostPerUnit > 0 {
		storeCfg.Labour = &costing.Labour{
			CostPerUnit: decimal.NewFromFloat(cfg.Costing.LabourCostPerUnit),
			TaxPerUnit:  decimal.NewFromFloat(cfg.Costing.LabourCostTaxPerUnit),
		}
	}

	var store *usecase.StoreUseCase
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		rateHistory := postgres.NewRateHistoryRepository(pool)
		store = usecase.NewStoreUseCase(storeCfg, postgres.NewStateRepository(pool), log,
			usecase.WithTxRunner(postgres.NewTxRunner(pool)),
			usecase.WithRateHistory(rateHistory),
			usecase.WithMetrics(collector),
		)
	} else {
		log.Warn().Msg("sin base de datos configurada: el estado se guarda solo en memoria")
		store = usecase.NewStoreUseCase(storeCfg, memory.NewStateRepository(), log,
			usecase.WithRateHistory(memory.NewRateHistoryRepository()),
			usecase.WithMetrics(collector),
		)
	}
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar estado")
	}

	var rateCache ports.RateCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché de tasas en memoria")
		} else {
			defer rdb.Close()
			rateCache = cache.NewRedisRateCache(rdb)
		}
	}
	if rateCache == nil {
		rateCache = memory.NewRateCache(nil)
	}

	fetchers := rates.All(cfg.Rates.Timeout, map[string]string{cfg.Rates.Provider: cfg.Rates.BaseURL})
	ratesUC := usecase.NewRatesUseCase(store, fetchers, rateCache, collector, usecase.RatesConfig{
		DefaultProvider: cfg.Rates.Provider,
		APIKey:          cfg.Rates.APIKey,
		Timeout:         cfg.Rates.Timeout,
		CacheDuration:   cfg.Rates.CacheDuration,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Costeo API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName: cfg.App.Name,
		StoreUC: store,
		RatesUC: ratesUC,
		Metrics: collector.Registry(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
