package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-intake/internal/application/dto"
	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/domain"
)

// IntakeHandler maneja las peticiones HTTP de ingresos a bodega.
type IntakeHandler struct {
	uc *intake.IntakeUseCase
}

// NewIntakeHandler construye el handler.
func NewIntakeHandler(uc *intake.IntakeUseCase) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar ingreso a bodega
// @Description  Busca la orden pendiente más antigua del producto con la misma cantidad y
//
//	created_at <= created_at del ingreso, la marca como cumplida y registra el ingreso valorizado.
//
// @Tags         warehouse
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntakeRequest  true  "id_product, id_warehouse, amount, created_at (RFC3339)"
// @Success      201   {object}  dto.IntakeCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/warehouse [post]
func (h *IntakeHandler) Create(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.IntakeFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ingreso por ID
// @Tags         warehouse
// @Produce      json
// @Param        id   path      int  true  "ID del ingreso (id_product_warehouse)"
// @Success      200  {object}  dto.IntakeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/intakes/{id} [get]
func (h *IntakeHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	out, err := h.uc.GetIntake(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings en orden de evaluación; lo que no aparece es 500 sin detalle.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND", "producto no encontrado"},
	{domain.ErrWarehouseNotFound, fiber.StatusNotFound, "WAREHOUSE_NOT_FOUND", "bodega no encontrada"},
	{domain.ErrNoMatchingOrder, fiber.StatusNotFound, "NO_MATCHING_ORDER", "no existe una orden pendiente para el ingreso"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrAlreadyFulfilled, fiber.StatusConflict, "ALREADY_FULFILLED", "la orden ya fue cumplida"},
	{domain.ErrDuplicateIntake, fiber.StatusConflict, "DUPLICATE_INTAKE", "ya existe un ingreso para la orden"},
	{domain.ErrConcurrentConflict, fiber.StatusConflict, "CONCURRENT_CONFLICT", "conflicto concurrente, reintente"},
	{domain.ErrPriceNotFound, fiber.StatusUnprocessableEntity, "PRICE_NOT_FOUND", "el producto no tiene precio"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", "almacenamiento no disponible, reintente"},
}

func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
