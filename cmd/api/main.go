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

	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/messaging"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/observability"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/warehouse-intake/internal/interfaces/http"
	"github.com/jhoicas/warehouse-intake/pkg/config"
	"github.com/jhoicas/warehouse-intake/pkg/logger"
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
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTel, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	var (
		publisher intake.EventPublisher
		kp        *messaging.KafkaPublisher
	)
	if cfg.Kafka.Enabled() {
		kp = messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.IntakeTopic))
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.IntakeTopic).Msg("publicación de eventos habilitada")
	}

	ucCfg := intake.Config{Timeout: cfg.Intake.TxTimeout}
	var (
		intakeUC *intake.IntakeUseCase
		ping     func(context.Context) error
	)
	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		if cfg.App.SeedFile != "" {
			fixture, err := seed.ReadFile(cfg.App.SeedFile)
			if err != nil {
				log.Fatal().Err(err).Msg("leer seed")
			}
			fixture.IntoMemory(store)
			log.Info().Str("file", cfg.App.SeedFile).Msg("seed cargado en memoria")
		}
		intakeUC = intake.NewIntakeUseCase(
			memory.NewTxRunner(store),
			memory.NewProductRepository(store),
			memory.NewWarehouseRepository(store),
			memory.NewOrderRepository(store),
			memory.NewProductWarehouseRepository(store),
			publisher, log, ucCfg,
		)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}

		intakeUC = intake.NewIntakeUseCase(
			postgres.NewTxRunner(pool),
			postgres.NewProductRepository(pool),
			postgres.NewWarehouseRepository(pool),
			postgres.NewOrderRepository(pool),
			postgres.NewProductWarehouseRepository(pool),
			publisher, log, ucCfg,
		)
		ping = pool.Ping
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse Intake API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:  cfg.App.Name,
		IntakeUC: intakeUC,
		Ping:     ping,
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
	if kp != nil {
		if err := kp.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del publicador Kafka")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
