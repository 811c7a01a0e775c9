// seed carga productos, bodegas y órdenes desde un archivo JSON en PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/seed.json]
// Por defecto usa SEED_FILE o docs/seed.example.json. Aplica las migraciones antes de insertar.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/warehouse-intake/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/seed"
	"github.com/jhoicas/warehouse-intake/pkg/config"
	"github.com/jhoicas/warehouse-intake/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	path := cfg.App.SeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		path = "docs/seed.example.json"
	}

	fixture, err := seed.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("leer seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if err := fixture.IntoPostgres(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("cargar seed")
	}

	log.Info().
		Str("file", path).
		Int("products", len(fixture.Products)).
		Int("warehouses", len(fixture.Warehouses)).
		Int("orders", len(fixture.Orders)).
		Msg("seed aplicado")
}
