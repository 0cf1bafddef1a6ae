// import_catalog carga el catálogo de productos desde un CSV exportado del sistema anterior.
// Cada producto pasa por el mismo alta que la API (código único, stock inicial en el
// depósito principal). Los códigos ya existentes se omiten.
//
// Uso: go run ./cmd/import_catalog -file catalogo.csv [-delimiter ";"] [-latin1] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func main() {
	var (
		file      string
		delimiter string
		latin1    bool
		dryRun    bool
	)
	flag.StringVar(&file, "file", "catalogo.csv", "Ruta del CSV")
	flag.StringVar(&delimiter, "delimiter", ";", "Separador de columnas")
	flag.BoolVar(&latin1, "latin1", false, "El archivo está en ISO-8859-1")
	flag.BoolVar(&dryRun, "dry-run", false, "Solo validar, sin escribir en la base de datos")
	flag.Parse()

	comma, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) {
		fmt.Fprintf(os.Stderr, "Separador inválido %q\n", delimiter)
		os.Exit(2)
	}

	f, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(f, comma, latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("%s: %d productos válidos\n", file, len(rows))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	loc, err := cfg.Business.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del negocio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	engine := inventory.NewEngine(postgres.NewTxRunner(pool, cfg.DB.LockTimeout()), inventory.EngineConfig{
		Location:          loc,
		DefaultCustomerID: cfg.Business.DefaultCustomerID,
	}, log.Component("import"))

	var created, skipped, failed int
	for _, row := range rows {
		_, err := engine.CreateProduct(ctx, row.Input)
		switch {
		case err == nil:
			created++
		case domain.KindOf(err) == domain.KindDuplicateCode:
			skipped++
		default:
			failed++
			log.Error().Err(err).Int("line", row.Line).Str("code", row.Input.Code).Msg("producto no importado")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Int("failed", failed).Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}
