package services

import (
	"context"
	"errors"
	"strings"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrFactorNotFound    = errors.New("factor not found")
	ErrInvalidFactorType = errors.New("invalid factor type")
)

// FactorService manages cost and price factor rows. Every mutation ends by
// re-running the matching price roll-up, so the item's stored prices always
// reflect its current factors.
type FactorService interface {
	AddCostFactor(ctx context.Context, factor *models.CostFactor) (*models.CostFactor, error)
	UpdateCostFactor(ctx context.Context, factor *models.CostFactor) error
	DeleteCostFactor(ctx context.Context, id uuid.UUID) error
	ClearCostFactors(ctx context.Context, sku string) (int64, error)
	ListCostFactors(ctx context.Context, sku string) ([]*models.CostFactor, error)

	AddPriceFactor(ctx context.Context, factor *models.PriceFactor) (*models.PriceFactor, error)
	UpdatePriceFactor(ctx context.Context, factor *models.PriceFactor) error
	DeletePriceFactor(ctx context.Context, id uuid.UUID) error
	ClearPriceFactors(ctx context.Context, sku string) (int64, error)
	ListPriceFactors(ctx context.Context, sku string) ([]*models.PriceFactor, error)
}

type factorService struct {
	costRepo  repositories.CostFactorRepository
	priceRepo repositories.PriceFactorRepository
	pricing   PricingService
}

func NewFactorService(costRepo repositories.CostFactorRepository, priceRepo repositories.PriceFactorRepository, pricing PricingService) FactorService {
	return &factorService{costRepo: costRepo, priceRepo: priceRepo, pricing: pricing}
}

func (f *factorService) AddCostFactor(ctx context.Context, factor *models.CostFactor) (*models.CostFactor, error) {
	if !models.ValidCostFactorType(factor.FactorType) {
		return nil, ErrInvalidFactorType
	}
	factor.ID = uuid.New()
	factor.SKU = strings.ToUpper(factor.SKU)
	if err := f.costRepo.Create(ctx, factor); err != nil {
		return nil, err
	}
	if _, _, err := f.pricing.SyncCostPriceFromFactors(ctx, factor.SKU); err != nil {
		return nil, err
	}
	return f.costRepo.GetByID(ctx, factor.ID)
}

func (f *factorService) UpdateCostFactor(ctx context.Context, factor *models.CostFactor) error {
	if !models.ValidCostFactorType(factor.FactorType) {
		return ErrInvalidFactorType
	}
	existing, err := f.costRepo.GetByID(ctx, factor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFactorNotFound
		}
		return err
	}
	factor.SKU = existing.SKU
	if err := f.costRepo.Update(ctx, factor); err != nil {
		return err
	}
	_, _, err = f.pricing.SyncCostPriceFromFactors(ctx, existing.SKU)
	return err
}

func (f *factorService) DeleteCostFactor(ctx context.Context, id uuid.UUID) error {
	existing, err := f.costRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFactorNotFound
		}
		return err
	}
	if err := f.costRepo.Delete(ctx, id); err != nil {
		return err
	}
	_, _, err = f.pricing.SyncCostPriceFromFactors(ctx, existing.SKU)
	return err
}

// ClearCostFactors removes every cost factor for the SKU. The cost price is
// left as it was; with zero factor rows the roll-up has nothing to say.
func (f *factorService) ClearCostFactors(ctx context.Context, sku string) (int64, error) {
	return f.costRepo.DeleteAllForSKU(ctx, strings.ToUpper(sku))
}

func (f *factorService) ListCostFactors(ctx context.Context, sku string) ([]*models.CostFactor, error) {
	return f.costRepo.ListBySKU(ctx, strings.ToUpper(sku))
}

func (f *factorService) AddPriceFactor(ctx context.Context, factor *models.PriceFactor) (*models.PriceFactor, error) {
	factor.ID = uuid.New()
	factor.SKU = strings.ToUpper(factor.SKU)
	if err := f.priceRepo.Create(ctx, factor); err != nil {
		return nil, err
	}
	if _, _, err := f.pricing.SyncRetailPriceFromFactors(ctx, factor.SKU); err != nil {
		return nil, err
	}
	return f.priceRepo.GetByID(ctx, factor.ID)
}

func (f *factorService) UpdatePriceFactor(ctx context.Context, factor *models.PriceFactor) error {
	existing, err := f.priceRepo.GetByID(ctx, factor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFactorNotFound
		}
		return err
	}
	factor.SKU = existing.SKU
	if err := f.priceRepo.Update(ctx, factor); err != nil {
		return err
	}
	_, _, err = f.pricing.SyncRetailPriceFromFactors(ctx, existing.SKU)
	return err
}

func (f *factorService) DeletePriceFactor(ctx context.Context, id uuid.UUID) error {
	existing, err := f.priceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFactorNotFound
		}
		return err
	}
	if err := f.priceRepo.Delete(ctx, id); err != nil {
		return err
	}
	_, _, err = f.pricing.SyncRetailPriceFromFactors(ctx, existing.SKU)
	return err
}

func (f *factorService) ClearPriceFactors(ctx context.Context, sku string) (int64, error) {
	return f.priceRepo.DeleteAllForSKU(ctx, strings.ToUpper(sku))
}

func (f *factorService) ListPriceFactors(ctx context.Context, sku string) ([]*models.PriceFactor, error) {
	return f.priceRepo.ListBySKU(ctx, strings.ToUpper(sku))
}
