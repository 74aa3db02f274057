// import_materials carga una lista de precios de proveedor (CSV) como materiales.
//
// Uso: go run ./cmd/import_materials [-latin1] [-sep ';'] [-dry-run] lista.csv
//
// Columnas: nombre;proveedor;precio;iva;moneda;unidad;densidad (la primera fila es encabezado).
// Las listas exportadas desde hojas de cálculo en español suelen venir en ISO-8859-1 con ';'.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Costeo-api/internal/application/state"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/units"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", true, "el archivo está en ISO-8859-1")
	sep := flag.String("sep", ";", "separador de columnas")
	dryRun := flag.Bool("dry-run", false, "validar sin guardar en la base de datos")
	flag.Parse()

	path := "materiales.csv"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := ParseMaterials(r, []rune(*sep)[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	unitTable, err := units.Load(cfg.Costing.UnitsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("tabla de unidades")
	}

	ctx := context.Background()
	var repo repository.StateRepository = memory.NewStateRepository()
	var opts []usecase.StoreOption
	if !*dryRun && cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo = postgres.NewStateRepository(pool)
		opts = append(opts, usecase.WithTxRunner(postgres.NewTxRunner(pool)))
	}

	store := usecase.NewStoreUseCase(usecase.StoreConfig{
		DefaultCurrency:  cfg.Costing.DefaultCurrency,
		Currencies:       cfg.Costing.Currencies,
		HistoryLimit:     cfg.Costing.HistoryLimit,
		RateHistoryLimit: cfg.Costing.RateHistoryLimit,
		RateMinInterval:  cfg.Costing.RateMinInterval,
		Units:            unitTable,
	}, repo, log, opts...)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar estado")
	}

	imported, failed := 0, 0
	for _, row := range rows {
		if row.Err != nil {
			failed++
			log.Warn().Int("line", row.Line).Err(row.Err).Msg("fila inválida")
			continue
		}
		_, err := store.Dispatch(ctx, state.Action{Type: state.AddMaterial, Payload: row.Input})
		if err != nil {
			failed++
			log.Warn().Int("line", row.Line).Str("code", string(domain.CodeOf(err))).Err(err).Msg("material rechazado")
			continue
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("failed", failed).Bool("dry_run", *dryRun).Msg("importación finalizada")
	if failed > 0 {
		os.Exit(2)
	}
}
