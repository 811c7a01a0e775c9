package intake

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PricingResolver consulta el precio unitario vigente de un producto. No cachea: el precio
// puede cambiar entre llamadas y el ingreso siempre se valoriza con el precio del momento.
type PricingResolver struct {
	productRepo repository.ProductRepository
}

// NewPricingResolver construye el resolver sobre el repositorio dado (pool o tx).
func NewPricingResolver(productRepo repository.ProductRepository) *PricingResolver {
	return &PricingResolver{productRepo: productRepo}
}

// GetUnitPrice devuelve el precio unitario o domain.ErrPriceNotFound.
func (r *PricingResolver) GetUnitPrice(ctx context.Context, productID int64) (decimal.Decimal, error) {
	price, err := r.productRepo.GetUnitPrice(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if price == nil || price.IsNegative() {
		return decimal.Zero, domain.ErrPriceNotFound
	}
	return *price, nil
}
