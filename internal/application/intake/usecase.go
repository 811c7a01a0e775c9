package intake

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/warehouse-intake/internal/application/dto"
	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
	"github.com/jhoicas/warehouse-intake/pkg/logger"
)

const tracerName = "github.com/jhoicas/warehouse-intake/internal/application/intake"

// Config parámetros del caso de uso.
type Config struct {
	Timeout time.Duration    // plazo por solicitud contra el store; 0 = sin plazo adicional
	Now     func() time.Time // reloj del servidor; nil = time.Now
}

// IntakeUseCase registra la recepción física de una orden en bodega.
// Valida entrada, producto y bodega; busca la orden (OrderMatcher) y la cumple de forma
// atómica (FulfillmentStateMachine dentro de TxRunner). No guarda estado propio:
// es seguro invocarlo concurrentemente.
type IntakeUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	intakeRepo    repository.ProductWarehouseRepository
	matcher       *OrderMatcher
	fsm           *FulfillmentStateMachine
	publisher     EventPublisher
	log           *logger.Logger
	tracer        trace.Tracer
	cfg           Config
}

// NewIntakeUseCase construye el caso de uso. publisher puede ser nil.
func NewIntakeUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	orderRepo repository.OrderRepository,
	intakeRepo repository.ProductWarehouseRepository,
	publisher EventPublisher,
	log *logger.Logger,
	cfg Config,
) *IntakeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &IntakeUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		intakeRepo:    intakeRepo,
		matcher:       NewOrderMatcher(orderRepo),
		fsm:           NewFulfillmentStateMachine(cfg.Now),
		publisher:     publisher,
		log:           log.Named("intake"),
		tracer:        otel.Tracer(tracerName),
		cfg:           cfg,
	}
}

// IntakeInput entrada del flujo de ingreso.
type IntakeInput struct {
	ProductID   int64
	WarehouseID int64
	Amount      int
	CreatedAt   time.Time
}

// Intake ejecuta el flujo completo y devuelve el ID del registro product_warehouse creado.
// Las precondiciones se evalúan en orden y la primera que falla corta el flujo:
// cantidad, producto, bodega, orden correspondiente y cumplimiento atómico.
func (uc *IntakeUseCase) Intake(ctx context.Context, in IntakeInput) (int64, error) {
	ctx, span := uc.tracer.Start(ctx, "intake.Intake", trace.WithAttributes(
		attribute.Int64("intake.id_product", in.ProductID),
		attribute.Int64("intake.id_warehouse", in.WarehouseID),
		attribute.Int("intake.amount", in.Amount),
	))
	defer span.End()

	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	rec, err := uc.intake(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logFailure(ctx, in, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("intake.id_product_warehouse", rec.ID))

	uc.log.WithTrace(ctx).Info().
		Int64("id_product", rec.ProductID).
		Int64("id_warehouse", rec.WarehouseID).
		Int64("id_order", rec.OrderID).
		Int64("id_product_warehouse", rec.ID).
		Str("price", rec.Price.String()).
		Msg("ingreso registrado")

	uc.publish(ctx, rec)
	return rec.ID, nil
}

func (uc *IntakeUseCase) intake(ctx context.Context, in IntakeInput) (*entity.ProductWarehouse, error) {
	// amount se persiste como INT (int4)
	if in.Amount <= 0 || in.Amount > math.MaxInt32 {
		return nil, domain.ErrInvalidInput
	}
	if in.CreatedAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	// IDs <= 0 no existen: los resuelve Count (ProductNotFound y luego WarehouseNotFound)
	n, err := uc.productRepo.Count(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrProductNotFound
	}

	n, err = uc.warehouseRepo.Count(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrWarehouseNotFound
	}

	order, err := uc.matchOrder(ctx, in)
	if err != nil {
		return nil, err
	}

	return uc.fulfill(ctx, order, in)
}

func (uc *IntakeUseCase) matchOrder(ctx context.Context, in IntakeInput) (*entity.Order, error) {
	ctx, span := uc.tracer.Start(ctx, "intake.MatchOrder")
	defer span.End()

	order, err := uc.matcher.Match(ctx, in.ProductID, in.Amount, in.CreatedAt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("intake.id_order", order.ID))
	return order, nil
}

func (uc *IntakeUseCase) fulfill(ctx context.Context, order *entity.Order, in IntakeInput) (*entity.ProductWarehouse, error) {
	ctx, span := uc.tracer.Start(ctx, "intake.Fulfill", trace.WithAttributes(
		attribute.Int64("intake.id_order", order.ID),
	))
	defer span.End()

	var rec *entity.ProductWarehouse
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		intakeRepo repository.ProductWarehouseRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		rec, err = uc.fsm.Fulfill(ctx, orderRepo, intakeRepo, productRepo, order, in.WarehouseID, in.Amount)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rec, nil
}

// publish notifica el ingreso confirmado. Un fallo aquí no revierte el ingreso.
func (uc *IntakeUseCase) publish(ctx context.Context, rec *entity.ProductWarehouse) {
	if uc.publisher == nil {
		return
	}
	event := entity.IntakeRecorded{
		EventID:            uuid.New().String(),
		ProductWarehouseID: rec.ID,
		OrderID:            rec.OrderID,
		ProductID:          rec.ProductID,
		WarehouseID:        rec.WarehouseID,
		Amount:             rec.Amount,
		Price:              rec.Price,
		OccurredAt:         rec.CreatedAt,
	}
	if err := uc.publisher.PublishIntakeRecorded(ctx, event); err != nil {
		uc.log.WithTrace(ctx).Warn().Err(err).
			Int64("id_product_warehouse", rec.ID).
			Msg("no se pudo publicar IntakeRecorded")
	}
}

func (uc *IntakeUseCase) logFailure(ctx context.Context, in IntakeInput, err error) {
	log := uc.log.WithTrace(ctx)
	var ev *zerolog.Event
	if isBusinessError(err) {
		ev = log.Warn()
	} else {
		ev = log.Error()
	}
	ev.Err(err).
		Int64("id_product", in.ProductID).
		Int64("id_warehouse", in.WarehouseID).
		Int("amount", in.Amount).
		Msg("ingreso rechazado")
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrProductNotFound, domain.ErrWarehouseNotFound,
		domain.ErrNoMatchingOrder, domain.ErrAlreadyFulfilled, domain.ErrDuplicateIntake,
		domain.ErrPriceNotFound, domain.ErrConcurrentConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetIntake obtiene un ingreso registrado por ID.
func (uc *IntakeUseCase) GetIntake(ctx context.Context, id int64) (*dto.IntakeResponse, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.intakeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return toIntakeResponse(rec), nil
}

func toIntakeResponse(rec *entity.ProductWarehouse) *dto.IntakeResponse {
	return &dto.IntakeResponse{
		IDProductWarehouse: rec.ID,
		IDOrder:            rec.OrderID,
		IDProduct:          rec.ProductID,
		IDWarehouse:        rec.WarehouseID,
		Amount:             rec.Amount,
		Price:              rec.Price,
		CreatedAt:          rec.CreatedAt,
	}
}
