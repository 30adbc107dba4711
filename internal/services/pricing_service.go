package services

import (
	"context"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PricingService rolls cost and price factors up into the item's stored
// prices. An item with no factor rows keeps whatever price it already has;
// the roll-up never writes a zero over a manually set price.
type PricingService interface {
	SyncCostPriceFromFactors(ctx context.Context, itemSKU string) (bool, float64, error)
	SyncRetailPriceFromFactors(ctx context.Context, itemSKU string) (bool, float64, error)
	GetCostBreakdown(ctx context.Context, itemSKU string) (*models.CostBreakdown, error)
}

type pricingService struct {
	itemRepo   repositories.ItemRepository
	costRepo   repositories.CostFactorRepository
	priceRepo  repositories.PriceFactorRepository
}

func NewPricingService(itemRepo repositories.ItemRepository, costRepo repositories.CostFactorRepository, priceRepo repositories.PriceFactorRepository) PricingService {
	return &pricingService{itemRepo: itemRepo, costRepo: costRepo, priceRepo: priceRepo}
}

func sumRounded(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// SyncCostPriceFromFactors recomputes cost_price from the item's cost
// factors. Returns (false, 0, nil) when there are no factor rows, in which
// case nothing was written.
func (p *pricingService) SyncCostPriceFromFactors(ctx context.Context, itemSKU string) (bool, float64, error) {
	amounts, err := p.costRepo.Amounts(ctx, itemSKU)
	if err != nil {
		return false, 0, err
	}
	if len(amounts) == 0 {
		return false, 0, nil
	}
	total := sumRounded(amounts)
	if err := p.itemRepo.UpdateCostPrice(ctx, itemSKU, total); err != nil {
		return false, 0, err
	}
	logrus.WithFields(logrus.Fields{"sku": itemSKU, "cost_price": total}).Info("cost price synced from factors")
	return true, total, nil
}

// SyncRetailPriceFromFactors recomputes retail_price from the item's price
// factors, excluding annotation rows that carry analysis output rather than
// price components.
func (p *pricingService) SyncRetailPriceFromFactors(ctx context.Context, itemSKU string) (bool, float64, error) {
	amounts, err := p.priceRepo.ContributingAmounts(ctx, itemSKU)
	if err != nil {
		return false, 0, err
	}
	if len(amounts) == 0 {
		return false, 0, nil
	}
	total := sumRounded(amounts)
	if err := p.itemRepo.UpdateRetailPrice(ctx, itemSKU, total); err != nil {
		return false, 0, err
	}
	logrus.WithFields(logrus.Fields{"sku": itemSKU, "retail_price": total}).Info("retail price synced from factors")
	return true, total, nil
}

// GetCostBreakdown groups the item's cost factors by type and totals each
// group alongside the suggested cost.
func (p *pricingService) GetCostBreakdown(ctx context.Context, itemSKU string) (*models.CostBreakdown, error) {
	factors, err := p.costRepo.ListBySKU(ctx, itemSKU)
	if err != nil {
		return nil, err
	}

	breakdown := &models.CostBreakdown{}
	totals := map[string]decimal.Decimal{}
	for _, f := range factors {
		switch f.FactorType {
		case models.FactorTypeMaterials:
			breakdown.Materials = append(breakdown.Materials, f)
		case models.FactorTypeLabor:
			breakdown.Labor = append(breakdown.Labor, f)
		case models.FactorTypeEnergy:
			breakdown.Energy = append(breakdown.Energy, f)
		case models.FactorTypeEquipment:
			breakdown.Equipment = append(breakdown.Equipment, f)
		}
		totals[f.FactorType] = totals[f.FactorType].Add(decimal.NewFromFloat(f.Amount))
	}

	round := func(t string) float64 {
		f, _ := totals[t].Round(2).Float64()
		return f
	}
	breakdown.Totals = models.CostTotals{
		MaterialTotal:  round(models.FactorTypeMaterials),
		LaborTotal:     round(models.FactorTypeLabor),
		EnergyTotal:    round(models.FactorTypeEnergy),
		EquipmentTotal: round(models.FactorTypeEquipment),
	}
	breakdown.Totals.SuggestedCost = sumRounded([]float64{
		breakdown.Totals.MaterialTotal,
		breakdown.Totals.LaborTotal,
		breakdown.Totals.EnergyTotal,
		breakdown.Totals.EquipmentTotal,
	})
	return breakdown, nil
}
