package intake

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/application/dto"
)

// IntakeFromRequest adapta el request HTTP al caso de uso Intake(ctx, IntakeInput).
func (uc *IntakeUseCase) IntakeFromRequest(ctx context.Context, in dto.IntakeRequest) (*dto.IntakeCreatedResponse, error) {
	id, err := uc.Intake(ctx, IntakeInput{
		ProductID:   in.IDProduct,
		WarehouseID: in.IDWarehouse,
		Amount:      in.Amount,
		CreatedAt:   in.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return &dto.IntakeCreatedResponse{IDProductWarehouse: id}, nil
}
