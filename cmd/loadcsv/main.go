// loadcsv carga el catálogo inicial de la farmacia (medicamentos, proveedores
// y lotes) desde archivos CSV, en una única transacción todo-o-nada.
//
// Uso: go run ./cmd/loadcsv -medicines medicamentos.csv -suppliers proveedores.csv -batches lotes.csv
// Con -latin1 los archivos se transcodifican desde ISO-8859-1 (exportes de
// sistemas antiguos) antes de parsearse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/infrastructure/csvload"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	medicinesPath := flag.String("medicines", "", "ruta del CSV de medicamentos")
	suppliersPath := flag.String("suppliers", "", "ruta del CSV de proveedores")
	batchesPath := flag.String("batches", "", "ruta del CSV de lotes")
	latin1 := flag.Bool("latin1", false, "los archivos vienen en ISO-8859-1")
	flag.Parse()

	if *medicinesPath == "" && *suppliersPath == "" && *batchesPath == "" {
		fmt.Fprintln(os.Stderr, "debe indicar al menos un archivo (-medicines, -suppliers, -batches)")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		Component: "loadcsv",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	loader := csvload.NewLoader(postgres.NewTxRunner(pool))
	summary, err := loader.Load(ctx, csvload.Input{
		MedicinesPath: *medicinesPath,
		SuppliersPath: *suppliersPath,
		BatchesPath:   *batchesPath,
		Latin1:        *latin1,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cargue de catálogo abortado, no se insertó ninguna fila")
	}

	log.Info().
		Int("medicamentos", summary.Medicines).
		Int("proveedores", summary.Suppliers).
		Int("lotes", summary.Batches).
		Msg("cargue de catálogo completado")
}
