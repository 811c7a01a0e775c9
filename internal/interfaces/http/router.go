package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-intake/internal/application/dto"
	"github.com/jhoicas/warehouse-intake/internal/application/intake"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName  string
	IntakeUC *intake.IntakeUseCase
	// Ping verifica el store para /health; nil = siempre disponible (store en memoria).
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacenamiento no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Ingresos a bodega
	warehouse := api.Group("/warehouse")
	intakeHandler := NewIntakeHandler(deps.IntakeUC)
	warehouse.Post("/", intakeHandler.Create)
	warehouse.Get("/intakes/:id", intakeHandler.GetByID)
}
